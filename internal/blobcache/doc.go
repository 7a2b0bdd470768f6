// Package blobcache keeps recently read cache blobs in memory.
//
// Entries are whole blobs keyed by blob name. Memory is accounted against a
// resource.Controller when one is supplied, so cached blobs share the budget
// of concurrent parses.
package blobcache
