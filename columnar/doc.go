// Package columnar holds the canonical in-memory entity table of a parsed model.
//
// Entities are laid out as parallel fixed-width columns indexed by a dense row
// number. Rows are grouped by entity type, so every type maps to one contiguous
// row range and "all entities of type T" is a slice operation. String
// attributes are interned into a StringTable and stored as integer handles.
//
// A Store is assembled once by a Builder and is read-mostly afterwards. The
// only mutation allowed after Build is attaching derived data (MarkGeometry),
// which never renumbers rows.
package columnar
