package columnar

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
)

var (
	// ErrTooManyTypes is returned when a model has more distinct types than the type enum can hold.
	ErrTooManyTypes = errors.New("columnar: too many distinct entity types")

	// ErrInconsistent is returned by FromColumns when the columns violate a store invariant.
	ErrInconsistent = errors.New("columnar: inconsistent columns")
)

// TypeRange is the half-open row range [Start, End) of one entity type.
type TypeRange struct {
	Start int
	End   int
}

// Len returns the number of rows in the range.
func (r TypeRange) Len() int {
	return r.End - r.Start
}

// Store is the columnar entity table.
type Store struct {
	expressID   []uint32
	typeEnum    []uint16
	globalID    []uint32
	name        []uint32
	description []uint32
	objectType  []uint32
	geometry    *roaring.Bitmap

	types     []string
	typeIndex map[string]uint16
	ranges    []TypeRange
	idToRow   map[uint32]int32
	strings   *StringTable
}

// Columns is the raw column data of a Store, as persisted by the binary cache.
type Columns struct {
	Strings     []string
	Types       []string
	ExpressID   []uint32
	TypeEnum    []uint16
	GlobalID    []uint32
	Name        []uint32
	Description []uint32
	ObjectType  []uint32
	Geometry    *roaring.Bitmap
}

// Columns exposes the store's columns. The slices must not be modified.
func (s *Store) Columns() Columns {
	return Columns{
		Strings:     s.strings.Values(),
		Types:       s.types,
		ExpressID:   s.expressID,
		TypeEnum:    s.typeEnum,
		GlobalID:    s.globalID,
		Name:        s.name,
		Description: s.description,
		ObjectType:  s.objectType,
		Geometry:    s.geometry,
	}
}

// FromColumns rebuilds a store from columns, checking that all columns have
// equal length, rows are grouped by ascending type enum, string handles and
// type enums are in range and express ids are unique.
func FromColumns(c Columns) (*Store, error) {
	st, err := StringTableFrom(c.Strings)
	if err != nil {
		return nil, err
	}
	n := len(c.ExpressID)
	for _, col := range [][]uint32{c.GlobalID, c.Name, c.Description, c.ObjectType} {
		if len(col) != n {
			return nil, fmt.Errorf("%w: column length %d, want %d", ErrInconsistent, len(col), n)
		}
		for _, h := range col {
			if int(h) >= st.Len() {
				return nil, fmt.Errorf("%w: string handle %d out of range", ErrInconsistent, h)
			}
		}
	}
	if len(c.TypeEnum) != n {
		return nil, fmt.Errorf("%w: type column length %d, want %d", ErrInconsistent, len(c.TypeEnum), n)
	}
	if len(c.Types) > math.MaxUint16+1 {
		return nil, ErrTooManyTypes
	}
	if !slices.IsSorted(c.Types) {
		return nil, fmt.Errorf("%w: type names not sorted", ErrInconsistent)
	}

	geometry := c.Geometry
	if geometry == nil {
		geometry = roaring.New()
	}
	if !geometry.IsEmpty() && int(geometry.Maximum()) >= n {
		return nil, fmt.Errorf("%w: geometry bitmap exceeds row count", ErrInconsistent)
	}

	s := &Store{
		expressID:   c.ExpressID,
		typeEnum:    c.TypeEnum,
		globalID:    c.GlobalID,
		name:        c.Name,
		description: c.Description,
		objectType:  c.ObjectType,
		geometry:    geometry,
		types:       c.Types,
		typeIndex:   make(map[string]uint16, len(c.Types)),
		ranges:      make([]TypeRange, len(c.Types)),
		idToRow:     make(map[uint32]int32, n),
		strings:     st,
	}
	for i, t := range c.Types {
		s.typeIndex[t] = uint16(i)
	}
	for row := 0; row < n; row++ {
		te := c.TypeEnum[row]
		if int(te) >= len(c.Types) {
			return nil, fmt.Errorf("%w: type enum %d out of range", ErrInconsistent, te)
		}
		if row > 0 && te < c.TypeEnum[row-1] {
			return nil, fmt.Errorf("%w: rows not grouped by type at row %d", ErrInconsistent, row)
		}
		if row == 0 || te != c.TypeEnum[row-1] {
			s.ranges[te].Start = row
		}
		s.ranges[te].End = row + 1

		id := c.ExpressID[row]
		if _, dup := s.idToRow[id]; dup {
			return nil, fmt.Errorf("%w: duplicate express id %d", ErrInconsistent, id)
		}
		s.idToRow[id] = int32(row)
	}
	return s, nil
}

// Count returns the number of rows.
func (s *Store) Count() int {
	return len(s.expressID)
}

// ExpressIDs returns the express id column. The slice must not be modified.
func (s *Store) ExpressIDs() []uint32 { return s.expressID }

// TypeEnums returns the type enum column; values index Types. The slice must not be modified.
func (s *Store) TypeEnums() []uint16 { return s.typeEnum }

// GlobalIDs returns the GlobalId string handle column.
func (s *Store) GlobalIDs() []uint32 { return s.globalID }

// Names returns the Name string handle column.
func (s *Store) Names() []uint32 { return s.name }

// Descriptions returns the Description string handle column.
func (s *Store) Descriptions() []uint32 { return s.description }

// ObjectTypes returns the ObjectType string handle column.
func (s *Store) ObjectTypes() []uint32 { return s.objectType }

// Strings returns the interned string table.
func (s *Store) Strings() *StringTable { return s.strings }

// Types returns the sorted type names. A type's position is its type enum.
func (s *Store) Types() []string { return s.types }

// TypeEnum returns the enum of a type name (case-insensitive).
func (s *Store) TypeEnum(typ string) (uint16, bool) {
	te, ok := s.typeIndex[strings.ToUpper(typ)]
	return te, ok
}

// TypeRange returns the row range of a type (case-insensitive).
func (s *Store) TypeRange(typ string) (TypeRange, bool) {
	te, ok := s.TypeEnum(typ)
	if !ok {
		return TypeRange{}, false
	}
	return s.ranges[te], true
}

// GetByType returns the express ids of all entities of the given type, in
// source order. The result aliases the express id column and must not be
// modified. It is empty for types not present in the model.
func (s *Store) GetByType(typ string) []uint32 {
	r, ok := s.TypeRange(typ)
	if !ok {
		return nil
	}
	return s.expressID[r.Start:r.End:r.End]
}

// TypeCounts returns the number of entities per type.
func (s *Store) TypeCounts() map[string]int {
	counts := make(map[string]int, len(s.types))
	for i, t := range s.types {
		counts[t] = s.ranges[i].Len()
	}
	return counts
}

// Row returns the row index of id.
func (s *Store) Row(id uint32) (int, bool) {
	row, ok := s.idToRow[id]
	return int(row), ok
}

// Has reports whether id is in the store.
func (s *Store) Has(id uint32) bool {
	_, ok := s.idToRow[id]
	return ok
}

// TypeName returns the type name of id, or "" if unknown.
func (s *Store) TypeName(id uint32) string {
	row, ok := s.idToRow[id]
	if !ok {
		return ""
	}
	return s.types[s.typeEnum[row]]
}

// GlobalID returns the GlobalId of id, or "" if unknown or absent.
func (s *Store) GlobalID(id uint32) string { return s.str(s.globalID, id) }

// Name returns the Name of id, or "" if unknown or absent.
func (s *Store) Name(id uint32) string { return s.str(s.name, id) }

// Description returns the Description of id, or "" if unknown or absent.
func (s *Store) Description(id uint32) string { return s.str(s.description, id) }

// ObjectType returns the ObjectType of id, or "" if unknown or absent.
func (s *Store) ObjectType(id uint32) string { return s.str(s.objectType, id) }

func (s *Store) str(col []uint32, id uint32) string {
	row, ok := s.idToRow[id]
	if !ok {
		return ""
	}
	return s.strings.Get(col[row])
}

// HasGeometry reports whether id has a geometric representation.
func (s *Store) HasGeometry(id uint32) bool {
	row, ok := s.idToRow[id]
	if !ok {
		return false
	}
	return s.geometry.Contains(uint32(row))
}

// GeometryCount returns the number of entities with geometry.
func (s *Store) GeometryCount() int {
	return int(s.geometry.GetCardinality())
}

// MarkGeometry flags ids as having geometry, e.g. after the geometry producer
// emitted meshes for them. Unknown ids are ignored. It returns the number of
// newly flagged entities.
func (s *Store) MarkGeometry(ids ...uint32) int {
	added := 0
	for _, id := range ids {
		row, ok := s.idToRow[id]
		if !ok {
			continue
		}
		if s.geometry.CheckedAdd(uint32(row)) {
			added++
		}
	}
	return added
}
