package cache

import (
	"github.com/hupe1980/ifcgo/columnar"
	"github.com/hupe1980/ifcgo/graph"
	"github.com/hupe1980/ifcgo/property"
	"github.com/hupe1980/ifcgo/step"
)

// Snapshot is the persisted state of a parsed model.
type Snapshot struct {
	// Schema is the schema identifier from the source header, e.g. IFC4.
	Schema string
	// Elevations holds the storey elevations found in the source, so that
	// the hierarchy can be rebuilt without it.
	Elevations map[uint32]float64

	Store        *columnar.Store
	Graph        *graph.Graph
	PropertySets []property.Set
	QuantitySets []property.Set

	// Refs are the record references into Source. Optional.
	Refs []step.EntityRef
	// Geometry is opaque renderer output. Optional.
	Geometry *Geometry
	// Source is the original file content. Optional.
	Source []byte
}

// Geometry is a set of triangle meshes produced by a geometry collaborator.
type Geometry struct {
	Meshes []Mesh
}

// Mesh is the tessellated representation of one entity.
type Mesh struct {
	ExpressID uint32
	Positions []float32
	Normals   []float32
	Indices   []uint32
	Color     [4]float32
}

// IDs returns the express ids of all meshes.
func (g *Geometry) IDs() []uint32 {
	if g == nil {
		return nil
	}
	ids := make([]uint32, len(g.Meshes))
	for i, m := range g.Meshes {
		ids[i] = m.ExpressID
	}
	return ids
}
