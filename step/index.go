package step

import (
	"context"
	"iter"
	"slices"
	"strings"

	"github.com/hupe1980/ifcgo/internal/checkpoint"
)

// PhaseTokenize is the progress phase reported by BuildIndex.
const PhaseTokenize = "tokenize"

// Index is the complete set of record references of one source buffer,
// addressable by express id and by type.
type Index struct {
	refs    []EntityRef
	byID    map[uint32]int
	byType  map[string][]int
	skipped int
}

// BuildIndex tokenizes src to completion. The only error it returns is the
// context error when the caller cancels between yield points; malformed and
// duplicate records are counted in Skipped.
func BuildIndex(ctx context.Context, src []byte, optFns ...func(*Options)) (*Index, error) {
	o := buildOptions(optFns)
	tok := NewTokenizer(src, func(to *Options) { to.Logger = o.Logger })
	cp := checkpoint.New(ctx, PhaseTokenize, len(src), o.CheckpointInterval, o.Progress)

	// Roughly one record per 80 bytes in typical exports.
	x := newIndex(len(src) / 80)
	for ref := range tok.All() {
		if !x.add(ref) {
			o.Logger.Warn("skipping duplicate express id", "express_id", ref.ExpressID, "line", ref.Line)
		}
		if err := cp.Advance(tok.Offset()); err != nil {
			return nil, err
		}
	}
	x.skipped += tok.Skipped()
	cp.Done()
	return x, nil
}

// NewIndex creates an index over refs, e.g. refs restored from a cache.
// Duplicate ids after the first occurrence are counted as skipped.
func NewIndex(refs []EntityRef) *Index {
	x := newIndex(len(refs))
	for _, ref := range refs {
		x.add(ref)
	}
	return x
}

func newIndex(hint int) *Index {
	return &Index{
		refs:   make([]EntityRef, 0, hint),
		byID:   make(map[uint32]int, hint),
		byType: make(map[string][]int),
	}
}

func (x *Index) add(ref EntityRef) bool {
	if _, dup := x.byID[ref.ExpressID]; dup {
		x.skipped++
		return false
	}
	i := len(x.refs)
	x.refs = append(x.refs, ref)
	x.byID[ref.ExpressID] = i
	x.byType[ref.Type] = append(x.byType[ref.Type], i)
	return true
}

// Len returns the number of indexed records.
func (x *Index) Len() int {
	return len(x.refs)
}

// Skipped returns the number of malformed or duplicate records.
func (x *Index) Skipped() int {
	return x.skipped
}

// Refs returns all references in source order. The slice must not be modified.
func (x *Index) Refs() []EntityRef {
	return x.refs
}

// Get returns the reference for id.
func (x *Index) Get(id uint32) (EntityRef, bool) {
	i, ok := x.byID[id]
	if !ok {
		return EntityRef{}, false
	}
	return x.refs[i], true
}

// TypeOf returns the type name of id.
func (x *Index) TypeOf(id uint32) (string, bool) {
	ref, ok := x.Get(id)
	return ref.Type, ok
}

// Count returns the number of records of the given type (case-insensitive).
func (x *Index) Count(typ string) int {
	return len(x.byType[strings.ToUpper(typ)])
}

// ByType iterates the references of the given type (case-insensitive) in source order.
func (x *Index) ByType(typ string) iter.Seq[EntityRef] {
	rows := x.byType[strings.ToUpper(typ)]
	return func(yield func(EntityRef) bool) {
		for _, i := range rows {
			if !yield(x.refs[i]) {
				return
			}
		}
	}
}

// Types returns all type names present, sorted.
func (x *Index) Types() []string {
	types := make([]string, 0, len(x.byType))
	for t := range x.byType {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}
