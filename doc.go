// Package ifcgo parses IFC building models in the STEP physical file format
// into an indexed, columnar in-memory model.
//
// # Quick Start
//
//	m, err := ifcgo.Open(ctx, "house.ifc")
//	if err != nil {
//	    return err
//	}
//	defer m.Close()
//
//	for _, id := range m.Store().GetByType("IFCWALL") {
//	    fmt.Println(id, m.Store().Name(id))
//	    for _, set := range m.PropertiesFor(id) {
//	        fmt.Println("  ", set.Name)
//	    }
//	}
//
// # Pipeline
//
// Parse runs these phases over a read-only source buffer:
//
//   - tokenize: one pass locating every record (step.BuildIndex)
//   - columns: decode the leading attributes of each record into a columnar.Store
//   - relationships: build the forward and inverse edge views (graph.Extract)
//   - properties / quantities: decode property and quantity sets
//   - hierarchy: derive the spatial tree from the project down (spatial.Build)
//
// Each phase checks the context every few thousand records and reports
// progress through the callback given with WithProgress. A cancelled parse
// returns the context error and no model.
//
// Full entities are never materialized up front. Model.Entity decodes a
// record on demand from the source bytes.
//
// # Binary Cache
//
// SaveCache writes a model as a versioned, sectioned and compressed blob
// (package cache). LoadCache restores it without touching the source text
// and re-derives the spatial hierarchy and per-entity property indexes.
// CacheManager stores such blobs in a blobstore.BlobStore keyed by source
// content and falls back to parsing when a blob is missing, corrupt or from
// another format version.
package ifcgo
