// Package graph extracts the relationship graph of a model.
//
// Relationship entities (IfcRelAggregates, IfcRelContainedInSpatialStructure,
// IfcRelDefinesByProperties and friends) are decoded through a fixed
// kind-to-layout table. Each relationship contributes one Edge per
// (relating, related) pair. Edges are kept in two adjacency views:
//
//   - Forward: relating side (source) to related side (targets)
//   - Inverse: related side (target) to relating side (sources)
//
// Every edge appears exactly once in each view.
//
// Property set assignment is modelled with the property set as the source:
//
//	g.Related(wallID, graph.DefinesByProperties, graph.Inverse) // property set ids
package graph
