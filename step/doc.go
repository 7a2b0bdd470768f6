// Package step reads ISO 10303-21 ("STEP physical file") data as used by IFC
// building models.
//
// Parsing is split in two stages. The Tokenizer makes a single pass over the
// raw bytes and yields an EntityRef (id, type name, byte range, line) for every
// data record without looking at attribute contents. Decode turns a single
// EntityRef back into typed attribute values on demand:
//
//	idx, err := step.BuildIndex(ctx, src)
//	if err != nil { ... }
//
//	ref, _ := idx.Get(42)
//	entity, ok := step.Decode(src, ref)
//
// Decoded entities are never cached by this package. Callers that need
// memoization own it.
package step
