package graph

import (
	"errors"
	"fmt"
	"iter"
	"slices"
)

var (
	// ErrInvalidView is returned by FromViews when a view is structurally broken.
	ErrInvalidView = errors.New("graph: invalid adjacency view")

	// ErrAsymmetric is returned by FromViews when the forward and inverse views
	// do not contain the same edges.
	ErrAsymmetric = errors.New("graph: forward and inverse views disagree")
)

// Edge is a directed relationship between two entities.
type Edge struct {
	Source         uint32
	Target         uint32
	RelationshipID uint32
	Kind           Kind
}

// Adj is one adjacency entry. In the forward view ID is the target, in the
// inverse view it is the source.
type Adj struct {
	ID             uint32
	RelationshipID uint32
	Kind           Kind
}

// Graph holds the relationship edges of a model. It is immutable and safe for
// concurrent reads.
type Graph struct {
	edges  []Edge
	fwd    map[uint32][]Adj
	inv    map[uint32][]Adj
	counts [numKinds]int
}

// Builder accumulates edges. Duplicate edges are ignored.
type Builder struct {
	edges []Edge
	seen  map[Edge]struct{}
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{seen: make(map[Edge]struct{})}
}

// Add adds e. It returns false if the kind is unknown or the edge was already added.
func (b *Builder) Add(e Edge) bool {
	if !e.Kind.Valid() {
		return false
	}
	if _, dup := b.seen[e]; dup {
		return false
	}
	b.seen[e] = struct{}{}
	b.edges = append(b.edges, e)
	return true
}

// Len returns the number of edges added.
func (b *Builder) Len() int {
	return len(b.edges)
}

// Build returns the graph. The builder must not be used afterwards.
func (b *Builder) Build() *Graph {
	g := &Graph{
		edges: b.edges,
		fwd:   make(map[uint32][]Adj),
		inv:   make(map[uint32][]Adj),
	}
	for _, e := range b.edges {
		g.fwd[e.Source] = append(g.fwd[e.Source], Adj{ID: e.Target, RelationshipID: e.RelationshipID, Kind: e.Kind})
		g.inv[e.Target] = append(g.inv[e.Target], Adj{ID: e.Source, RelationshipID: e.RelationshipID, Kind: e.Kind})
		g.counts[e.Kind]++
	}
	b.edges, b.seen = nil, nil
	return g
}

// Len returns the number of edges.
func (g *Graph) Len() int {
	return len(g.edges)
}

// Edges iterates all edges in insertion order.
func (g *Graph) Edges() iter.Seq[Edge] {
	return func(yield func(Edge) bool) {
		for _, e := range g.edges {
			if !yield(e) {
				return
			}
		}
	}
}

// CountByKind returns the number of edges per kind. Kinds without edges are omitted.
func (g *Graph) CountByKind() map[Kind]int {
	out := make(map[Kind]int)
	for k, n := range g.counts {
		if n > 0 {
			out[Kind(k)] = n
		}
	}
	return out
}

// Adjacent returns the adjacency list of id in the given direction. The slice
// must not be modified.
func (g *Graph) Adjacent(id uint32, dir Direction) []Adj {
	if dir == Inverse {
		return g.inv[id]
	}
	return g.fwd[id]
}

// Related returns the ids connected to id by edges of kind, following dir.
// The result is in insertion order and empty if there are none.
func (g *Graph) Related(id uint32, kind Kind, dir Direction) []uint32 {
	adj := g.Adjacent(id, dir)
	var out []uint32
	for _, a := range adj {
		if a.Kind == kind {
			out = append(out, a.ID)
		}
	}
	return out
}

// HasRelationship reports whether there is an edge from a to b. If kinds is
// non-empty the edge must be of one of the given kinds.
func (g *Graph) HasRelationship(a, b uint32, kinds ...Kind) bool {
	for _, adj := range g.fwd[a] {
		if adj.ID != b {
			continue
		}
		if len(kinds) == 0 || slices.Contains(kinds, adj.Kind) {
			return true
		}
	}
	return false
}

// View is an adjacency view in compressed sparse row form: the entries of
// IDs[i] are Adj[Offsets[i]:Offsets[i+1]]. IDs are ascending.
type View struct {
	IDs     []uint32
	Offsets []uint32
	Adj     []Adj
}

// Len returns the number of entries in the view.
func (v View) Len() int {
	return len(v.Adj)
}

// Forward returns the forward (source to targets) view.
func (g *Graph) Forward() View { return toView(g.fwd) }

// Inverse returns the inverse (target to sources) view.
func (g *Graph) Inverse() View { return toView(g.inv) }

func toView(m map[uint32][]Adj) View {
	ids := make([]uint32, 0, len(m))
	total := 0
	for id, adj := range m {
		ids = append(ids, id)
		total += len(adj)
	}
	slices.Sort(ids)

	v := View{
		IDs:     ids,
		Offsets: make([]uint32, 0, len(ids)+1),
		Adj:     make([]Adj, 0, total),
	}
	v.Offsets = append(v.Offsets, 0)
	for _, id := range ids {
		v.Adj = append(v.Adj, m[id]...)
		v.Offsets = append(v.Offsets, uint32(len(v.Adj)))
	}
	return v
}

func fromView(v View) (map[uint32][]Adj, error) {
	if len(v.Offsets) != len(v.IDs)+1 {
		return nil, fmt.Errorf("%w: %d offsets for %d ids", ErrInvalidView, len(v.Offsets), len(v.IDs))
	}
	if v.Offsets[0] != 0 || int(v.Offsets[len(v.IDs)]) != len(v.Adj) {
		return nil, fmt.Errorf("%w: offsets do not cover adjacency", ErrInvalidView)
	}
	for i := 1; i < len(v.Offsets); i++ {
		if v.Offsets[i] < v.Offsets[i-1] {
			return nil, fmt.Errorf("%w: decreasing offsets at %d", ErrInvalidView, i)
		}
	}
	m := make(map[uint32][]Adj, len(v.IDs))
	for i, id := range v.IDs {
		if i > 0 && id <= v.IDs[i-1] {
			return nil, fmt.Errorf("%w: ids not strictly ascending at %d", ErrInvalidView, i)
		}
		lo, hi := v.Offsets[i], v.Offsets[i+1]
		adj := v.Adj[lo:hi:hi]
		for _, a := range adj {
			if !a.Kind.Valid() {
				return nil, fmt.Errorf("%w: unknown kind %d", ErrInvalidView, a.Kind)
			}
		}
		m[id] = adj
	}
	return m, nil
}

// FromViews rebuilds a graph from its forward and inverse views, verifying
// that both contain exactly the same edges.
func FromViews(fwd, inv View) (*Graph, error) {
	fm, err := fromView(fwd)
	if err != nil {
		return nil, fmt.Errorf("forward: %w", err)
	}
	im, err := fromView(inv)
	if err != nil {
		return nil, fmt.Errorf("inverse: %w", err)
	}

	g := &Graph{fwd: fm, inv: im, edges: make([]Edge, 0, len(fwd.Adj))}
	seen := make(map[Edge]int, len(fwd.Adj))
	for i, src := range fwd.IDs {
		for _, a := range fwd.Adj[fwd.Offsets[i]:fwd.Offsets[i+1]] {
			e := Edge{Source: src, Target: a.ID, RelationshipID: a.RelationshipID, Kind: a.Kind}
			if seen[e] > 0 {
				return nil, fmt.Errorf("%w: duplicate edge %d->%d", ErrInvalidView, e.Source, e.Target)
			}
			seen[e]++
			g.edges = append(g.edges, e)
			g.counts[e.Kind]++
		}
	}
	if len(inv.Adj) != len(fwd.Adj) {
		return nil, fmt.Errorf("%w: %d forward vs %d inverse entries", ErrAsymmetric, len(fwd.Adj), len(inv.Adj))
	}
	for i, dst := range inv.IDs {
		for _, a := range inv.Adj[inv.Offsets[i]:inv.Offsets[i+1]] {
			e := Edge{Source: a.ID, Target: dst, RelationshipID: a.RelationshipID, Kind: a.Kind}
			if seen[e] != 1 {
				return nil, fmt.Errorf("%w: edge %d->%d", ErrAsymmetric, e.Source, e.Target)
			}
			seen[e]++
		}
	}
	return g, nil
}
