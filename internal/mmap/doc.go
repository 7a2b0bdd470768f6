// Package mmap maps model source files read-only into memory.
//
// The tokenizer, the lazy entity decoder and the elevation lookup all read
// the same source buffer. Mapping the file lets them share the page cache
// instead of holding a heap copy of files that can be several gigabytes.
//
//	m, err := mmap.Open("model.ifc")
//	if err != nil { ... }
//	defer m.Close()
//	_ = m.Advise(mmap.AccessSequential) // tokenizer pass
//	src := m.Bytes()
//
// Unix platforms use mmap(2) and madvise(2); Windows uses
// CreateFileMapping/MapViewOfFile and ignores access hints.
package mmap
