// Package conv provides checked integer conversions for values crossing the
// binary cache boundary, where lengths and offsets come from untrusted bytes.
//
// Conversions that are provably safe (loop indices, bounded counters) use
// direct casts instead.
package conv
