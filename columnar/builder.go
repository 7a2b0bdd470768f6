package columnar

import (
	"math"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
)

// Row is one entity as handed to the Builder.
type Row struct {
	ExpressID uint32
	// Type is the upper-case entity type name as produced by the tokenizer.
	Type        string
	GlobalID    string
	Name        string
	Description string
	ObjectType  string
	HasGeometry bool
}

type pending struct {
	id          uint32
	globalID    uint32
	name        uint32
	description uint32
	objectType  uint32
	geometry    bool
}

// Builder assembles a Store in a single pass. Rows may arrive in any type
// order; Build groups them by type.
type Builder struct {
	strings *StringTable
	buckets map[string][]pending
	seen    map[uint32]struct{}
	count   int
}

// NewBuilder creates a builder. hint is the expected number of rows.
func NewBuilder(hint int) *Builder {
	return &Builder{
		strings: NewStringTable(),
		buckets: make(map[string][]pending),
		seen:    make(map[uint32]struct{}, hint),
	}
}

// Add appends a row. A row whose express id was already added is ignored and
// Add returns false.
func (b *Builder) Add(r Row) bool {
	if _, dup := b.seen[r.ExpressID]; dup {
		return false
	}
	b.seen[r.ExpressID] = struct{}{}
	b.buckets[r.Type] = append(b.buckets[r.Type], pending{
		id:          r.ExpressID,
		globalID:    b.strings.Intern(r.GlobalID),
		name:        b.strings.Intern(r.Name),
		description: b.strings.Intern(r.Description),
		objectType:  b.strings.Intern(r.ObjectType),
		geometry:    r.HasGeometry,
	})
	b.count++
	return true
}

// Len returns the number of rows added so far.
func (b *Builder) Len() int {
	return b.count
}

// Build concatenates the per-type buckets in sorted type order and returns
// the finished store. The builder must not be used afterwards.
func (b *Builder) Build() (*Store, error) {
	if len(b.buckets) > math.MaxUint16+1 {
		return nil, ErrTooManyTypes
	}
	types := make([]string, 0, len(b.buckets))
	for t := range b.buckets {
		types = append(types, t)
	}
	slices.Sort(types)

	n := b.count
	s := &Store{
		expressID:   make([]uint32, 0, n),
		typeEnum:    make([]uint16, 0, n),
		globalID:    make([]uint32, 0, n),
		name:        make([]uint32, 0, n),
		description: make([]uint32, 0, n),
		objectType:  make([]uint32, 0, n),
		geometry:    roaring.New(),
		types:       types,
		typeIndex:   make(map[string]uint16, len(types)),
		ranges:      make([]TypeRange, len(types)),
		idToRow:     make(map[uint32]int32, n),
		strings:     b.strings,
	}
	for te, t := range types {
		s.typeIndex[t] = uint16(te)
		start := len(s.expressID)
		for _, p := range b.buckets[t] {
			row := len(s.expressID)
			s.expressID = append(s.expressID, p.id)
			s.typeEnum = append(s.typeEnum, uint16(te))
			s.globalID = append(s.globalID, p.globalID)
			s.name = append(s.name, p.name)
			s.description = append(s.description, p.description)
			s.objectType = append(s.objectType, p.objectType)
			if p.geometry {
				s.geometry.Add(uint32(row))
			}
			s.idToRow[p.id] = int32(row)
		}
		s.ranges[te] = TypeRange{Start: start, End: len(s.expressID)}
	}
	s.geometry.RunOptimize()

	b.buckets = nil
	b.seen = nil
	return s, nil
}
