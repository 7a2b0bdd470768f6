// Package spatial derives the spatial hierarchy of a model.
//
// The tree is rooted at the unique IFCPROJECT and follows Aggregates edges to
// sites, buildings, storeys and spaces. Elements hang off the node that
// contains them through ContainsElements edges.
//
// Construction happens in two steps: a recursive descent that only returns
// nodes, then a post-order pass over the finished tree that fills the lookup
// tables (ByStorey, ElementToStorey, StoreyElevations and so on).
package spatial
