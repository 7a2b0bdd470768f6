package ifcgo

import (
	"io"
	"sync"

	"github.com/hupe1980/ifcgo/cache"
	"github.com/hupe1980/ifcgo/columnar"
	"github.com/hupe1980/ifcgo/graph"
	"github.com/hupe1980/ifcgo/property"
	"github.com/hupe1980/ifcgo/spatial"
	"github.com/hupe1980/ifcgo/step"
)

// Model is a parsed IFC model: the columnar entity table, the relationship
// graph, property and quantity sets and the spatial hierarchy.
//
// A Model is safe for concurrent reads. SetGeometry must not run
// concurrently with readers of the columnar store.
type Model struct {
	header step.Header
	src    []byte
	index  *step.Index

	store     *columnar.Store
	graph     *graph.Graph
	psets     *property.Table
	qsets     *property.Table
	psetIndex *property.Index
	qsetIndex *property.Index
	hierarchy *spatial.Hierarchy

	diag     Diagnostics
	geometry *cache.Geometry

	closeOnce sync.Once
	closer    io.Closer
	closeErr  error
}

// Schema returns the schema identifier of the source, e.g. IFC4, or "" if
// the source declared none.
func (m *Model) Schema() string { return m.header.Schema() }

// Header returns the STEP header. Models loaded from a cache only carry the
// schema identifier.
func (m *Model) Header() step.Header { return m.header }

// Source returns the source bytes, or nil if the model was loaded from a
// cache without them.
func (m *Model) Source() []byte { return m.src }

// Index returns the record index, or nil if it was not retained.
func (m *Model) Index() *step.Index { return m.index }

// Store returns the columnar entity table.
func (m *Model) Store() *columnar.Store { return m.store }

// Graph returns the relationship graph.
func (m *Model) Graph() *graph.Graph { return m.graph }

// Hierarchy returns the spatial hierarchy.
func (m *Model) Hierarchy() *spatial.Hierarchy { return m.hierarchy }

// PropertySets returns all property sets keyed by express id.
func (m *Model) PropertySets() *property.Table { return m.psets }

// QuantitySets returns all quantity sets keyed by express id.
func (m *Model) QuantitySets() *property.Table { return m.qsets }

// PropertiesFor returns the property sets attached to id.
func (m *Model) PropertiesFor(id uint32) []*property.Set {
	return m.psetIndex.ForEntity(id)
}

// QuantitiesFor returns the quantity sets attached to id.
func (m *Model) QuantitiesFor(id uint32) []*property.Set {
	return m.qsetIndex.ForEntity(id)
}

// Entity decodes the record with the given express id. It returns false if
// the id is unknown, the record is malformed, or the model has no source or
// index to decode from.
func (m *Model) Entity(id uint32) (*step.Entity, bool) {
	if m.index == nil || m.src == nil {
		return nil, false
	}
	ref, ok := m.index.Get(id)
	if !ok {
		return nil, false
	}
	return step.Decode(m.src, ref)
}

// Diagnostics returns the skipped record counts of the parse. Models loaded
// from a cache report zero counts.
func (m *Model) Diagnostics() Diagnostics { return m.diag }

// Geometry returns the attached geometry, or nil.
func (m *Model) Geometry() *cache.Geometry { return m.geometry }

// SetGeometry attaches geometry produced by a renderer and marks every
// entity with a mesh as having geometry. It returns the number of newly
// marked entities. Row order is never changed.
func (m *Model) SetGeometry(g *cache.Geometry) int {
	m.geometry = g
	return m.store.MarkGeometry(g.IDs()...)
}

// Snapshot returns the persistable state of the model.
func (m *Model) Snapshot() *cache.Snapshot {
	snap := &cache.Snapshot{
		Schema:       m.Schema(),
		Store:        m.store,
		Graph:        m.graph,
		PropertySets: m.psets.Sets(),
		QuantitySets: m.qsets.Sets(),
		Geometry:     m.geometry,
		Source:       m.src,
	}
	if m.hierarchy != nil {
		snap.Elevations = m.hierarchy.StoreyElevations
	}
	if m.index != nil {
		snap.Refs = m.index.Refs()
	}
	return snap
}

// Close releases the source mapping of models created by Open. Entity
// fails afterwards. Close is idempotent; models from Parse need no Close.
func (m *Model) Close() error {
	m.closeOnce.Do(func() {
		if m.closer == nil {
			return
		}
		m.src = nil
		m.closeErr = m.closer.Close()
	})
	return m.closeErr
}
