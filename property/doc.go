// Package property extracts property sets and quantity sets.
//
// Sets are decoded from IFCPROPERTYSET and IFCELEMENTQUANTITY records. They
// are linked to elements only through DefinesByProperties edges, so the
// element-to-set mapping is derived on demand with DeriveByEntity.
package property
