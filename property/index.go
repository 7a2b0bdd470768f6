package property

import "github.com/hupe1980/ifcgo/graph"

// Table maps set express ids to sets.
type Table struct {
	sets []Set
	byID map[uint32]int
}

// NewTable indexes sets by express id. The slice is retained.
func NewTable(sets []Set) *Table {
	t := &Table{sets: sets, byID: make(map[uint32]int, len(sets))}
	for i := range sets {
		t.byID[sets[i].ExpressID] = i
	}
	return t
}

// Len returns the number of sets.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.sets)
}

// Get returns the set with the given express id.
func (t *Table) Get(id uint32) (*Set, bool) {
	if t == nil {
		return nil, false
	}
	i, ok := t.byID[id]
	if !ok {
		return nil, false
	}
	return &t.sets[i], true
}

// Sets returns all sets in extraction order. The slice must not be modified.
func (t *Table) Sets() []Set {
	if t == nil {
		return nil
	}
	return t.sets
}

// Index maps element ids to the sets assigned to them.
type Index struct {
	table    *Table
	byEntity map[uint32][]uint32
}

// DeriveByEntity builds the element-to-set mapping from the DefinesByProperties
// edges of g. It does not modify its inputs.
func DeriveByEntity(table *Table, g *graph.Graph) *Index {
	x := &Index{table: table, byEntity: make(map[uint32][]uint32)}
	for _, s := range table.Sets() {
		for _, element := range g.Related(s.ExpressID, graph.DefinesByProperties, graph.Forward) {
			x.byEntity[element] = append(x.byEntity[element], s.ExpressID)
		}
	}
	return x
}

// ForEntity returns the sets assigned to id, in extraction order.
func (x *Index) ForEntity(id uint32) []*Set {
	ids := x.byEntity[id]
	if len(ids) == 0 {
		return nil
	}
	out := make([]*Set, 0, len(ids))
	for _, sid := range ids {
		if s, ok := x.table.Get(sid); ok {
			out = append(out, s)
		}
	}
	return out
}

// Len returns the number of elements with at least one set.
func (x *Index) Len() int {
	return len(x.byEntity)
}
