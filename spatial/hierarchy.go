package spatial

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sort"

	"github.com/hupe1980/ifcgo/graph"
	"github.com/hupe1980/ifcgo/internal/checkpoint"
)

// PhaseHierarchy is the progress phase reported by Build.
const PhaseHierarchy = "hierarchy"

var (
	// ErrNoRoot is the family of errors for a model without a usable root entity.
	ErrNoRoot = errors.New("spatial: no root entity found")

	// ErrNoProject is returned when the model has no IFCPROJECT.
	ErrNoProject = fmt.Errorf("%w: no %s", ErrNoRoot, TypeProject)

	// ErrMultipleProjects is returned when the model has more than one IFCPROJECT.
	ErrMultipleProjects = fmt.Errorf("%w: multiple %s entities", ErrNoRoot, TypeProject)
)

// Entities is the entity table the hierarchy is built from.
// *columnar.Store implements it.
type Entities interface {
	TypeName(id uint32) string
	Name(id uint32) string
	GetByType(typ string) []uint32
}

// Input holds the collaborators of Build.
type Input struct {
	Entities Entities
	Graph    *graph.Graph
	// Elevation looks up storey elevations. Nil leaves all elevations absent.
	Elevation ElevationFunc
}

// Options configures Build.
type Options struct {
	Logger             *slog.Logger
	Progress           func(phase string, percent float64)
	CheckpointInterval int
}

// Hierarchy is the spatial tree of a model plus its derived lookup tables.
// It is immutable after Build.
type Hierarchy struct {
	Project *Node

	ByStorey   map[uint32][]uint32
	ByBuilding map[uint32][]uint32
	BySite     map[uint32][]uint32
	BySpace    map[uint32][]uint32

	ElementToStorey map[uint32]uint32
	ElementToSpace  map[uint32]uint32

	StoreyElevations map[uint32]float64
	// StoreyHeights is the elevation difference to the next storey up in the
	// same building. The topmost storey has no entry.
	StoreyHeights map[uint32]float64

	nodes     map[uint32]*Node
	parent    map[uint32]uint32
	container map[uint32]uint32
	storeys   []uint32
}

// Build derives the hierarchy. It fails with ErrNoProject or
// ErrMultipleProjects if the model has no unique project, and with the
// context error after cancellation.
func Build(ctx context.Context, in Input, optFns ...func(*Options)) (*Hierarchy, error) {
	o := Options{CheckpointInterval: checkpoint.DefaultInterval}
	for _, fn := range optFns {
		fn(&o)
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	projects := in.Entities.GetByType(TypeProject)
	switch len(projects) {
	case 0:
		return nil, ErrNoProject
	case 1:
	default:
		return nil, fmt.Errorf("%w: %d found", ErrMultipleProjects, len(projects))
	}

	d := descent{
		in:      in,
		logger:  o.Logger,
		cp:      checkpoint.New(ctx, PhaseHierarchy, 0, o.CheckpointInterval, o.Progress),
		visited: make(map[uint32]bool),
	}
	root, err := d.node(projects[0])
	if err != nil {
		return nil, err
	}
	d.cp.Done()

	h := newHierarchy(root)
	h.index(root, 0, 0, 0, 0)
	h.deriveHeights()
	return h, nil
}

type descent struct {
	in      Input
	logger  *slog.Logger
	cp      *checkpoint.Checkpoint
	visited map[uint32]bool
}

// node returns the subtree rooted at id. Each id is expanded at most once, so
// aggregation cycles and shared children cannot make the tree infinite.
func (d *descent) node(id uint32) (*Node, error) {
	if err := d.cp.Tick(); err != nil {
		return nil, err
	}
	d.visited[id] = true

	n := &Node{
		ExpressID: id,
		Type:      d.in.Entities.TypeName(id),
		Name:      d.in.Entities.Name(id),
	}
	if n.IsStorey() && d.in.Elevation != nil {
		if z, ok := d.in.Elevation(id); ok {
			n.Elevation = &z
		}
	}
	if d.in.Graph == nil {
		return n, nil
	}
	n.Elements = d.in.Graph.Related(id, graph.ContainsElements, graph.Forward)

	for _, child := range d.in.Graph.Related(id, graph.Aggregates, graph.Forward) {
		if !structureTypes[d.in.Entities.TypeName(child)] {
			continue
		}
		if d.visited[child] {
			d.logger.Warn("skipping repeated spatial node", "express_id", child, "parent", id)
			continue
		}
		c, err := d.node(child)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, c)
	}
	return n, nil
}

func newHierarchy(root *Node) *Hierarchy {
	return &Hierarchy{
		Project:          root,
		ByStorey:         make(map[uint32][]uint32),
		ByBuilding:       make(map[uint32][]uint32),
		BySite:           make(map[uint32][]uint32),
		BySpace:          make(map[uint32][]uint32),
		ElementToStorey:  make(map[uint32]uint32),
		ElementToSpace:   make(map[uint32]uint32),
		StoreyElevations: make(map[uint32]float64),
		StoreyHeights:    make(map[uint32]float64),
		nodes:            make(map[uint32]*Node),
		parent:           make(map[uint32]uint32),
		container:        make(map[uint32]uint32),
	}
}

// index visits the tree in post-order. building, storey and space are the
// nearest enclosing nodes of each kind (0 if none).
func (h *Hierarchy) index(n *Node, parent, building, storey, space uint32) {
	switch n.Type {
	case TypeBuilding:
		building = n.ExpressID
	case TypeStorey:
		storey = n.ExpressID
	case TypeSpace:
		space = n.ExpressID
	}
	for _, c := range n.Children {
		h.index(c, n.ExpressID, building, storey, space)
	}

	id := n.ExpressID
	h.nodes[id] = n
	if parent != 0 {
		h.parent[id] = parent
	}
	switch n.Type {
	case TypeSite:
		h.BySite[id] = n.Elements
	case TypeBuilding:
		h.ByBuilding[id] = n.Elements
	case TypeStorey:
		h.ByStorey[id] = n.Elements
		h.storeys = append(h.storeys, id)
		if n.Elevation != nil {
			h.StoreyElevations[id] = *n.Elevation
		}
	case TypeSpace:
		h.BySpace[id] = n.Elements
	}
	for _, e := range n.Elements {
		h.container[e] = id
		if storey != 0 {
			h.ElementToStorey[e] = storey
		}
		if space != 0 {
			h.ElementToSpace[e] = space
		}
	}
}

// deriveHeights orders the storeys of each building by elevation.
func (h *Hierarchy) deriveHeights() {
	perBuilding := make(map[uint32][]uint32)
	for _, id := range h.storeys {
		if _, ok := h.StoreyElevations[id]; !ok {
			continue
		}
		b := h.ancestorOfType(id, TypeBuilding)
		perBuilding[b] = append(perBuilding[b], id)
	}
	for _, ids := range perBuilding {
		sort.SliceStable(ids, func(i, j int) bool {
			return h.StoreyElevations[ids[i]] < h.StoreyElevations[ids[j]]
		})
		for i := 0; i+1 < len(ids); i++ {
			h.StoreyHeights[ids[i]] = h.StoreyElevations[ids[i+1]] - h.StoreyElevations[ids[i]]
		}
	}
}

func (h *Hierarchy) ancestorOfType(id uint32, typ string) uint32 {
	for {
		p, ok := h.parent[id]
		if !ok {
			return 0
		}
		if h.nodes[p].Type == typ {
			return p
		}
		id = p
	}
}

// Node returns the spatial node with the given id.
func (h *Hierarchy) Node(id uint32) (*Node, bool) {
	n, ok := h.nodes[id]
	return n, ok
}

// Len returns the number of spatial nodes.
func (h *Hierarchy) Len() int {
	return len(h.nodes)
}

// StoreyElements returns the elements directly contained in storey id.
func (h *Hierarchy) StoreyElements(id uint32) []uint32 {
	return h.ByStorey[id]
}

// ContainingSpace returns the space that contains element id.
func (h *Hierarchy) ContainingSpace(id uint32) (uint32, bool) {
	s, ok := h.ElementToSpace[id]
	return s, ok
}

// ContainingStorey returns the storey that contains element id, directly or through a space.
func (h *Hierarchy) ContainingStorey(id uint32) (uint32, bool) {
	s, ok := h.ElementToStorey[id]
	return s, ok
}

// Path returns the chain of spatial nodes from the project down to the node
// that contains element id. It is empty if the element is not under a
// storey. For a spatial node id the chain ends with the node itself.
func (h *Hierarchy) Path(id uint32) []*Node {
	var start uint32
	if _, isNode := h.nodes[id]; isNode {
		start = id
	} else {
		if _, ok := h.ElementToStorey[id]; !ok {
			return nil
		}
		start = h.container[id]
	}

	var path []*Node
	for cur := start; ; {
		path = append(path, h.nodes[cur])
		p, ok := h.parent[cur]
		if !ok {
			break
		}
		cur = p
	}
	slices.Reverse(path)
	return path
}

// Walk visits the tree in pre-order. Returning false from fn skips the
// children of the node.
func (h *Hierarchy) Walk(fn func(n *Node, depth int) bool) {
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		if !fn(n, depth) {
			return
		}
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	walk(h.Project, 0)
}

// StoreyByElevation returns the storey with the highest elevation that does
// not exceed z. Storeys without elevation are ignored.
func (h *Hierarchy) StoreyByElevation(z float64) (uint32, bool) {
	var (
		best  uint32
		bestZ float64
		found bool
	)
	for _, id := range h.storeys {
		e, ok := h.StoreyElevations[id]
		if !ok || e > z {
			continue
		}
		if !found || e > bestZ || (e == bestZ && id < best) {
			best, bestZ, found = id, e, true
		}
	}
	return best, found
}
