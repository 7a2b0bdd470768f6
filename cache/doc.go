// Package cache implements the binary model cache.
//
// A cache blob holds everything needed to reopen a parsed model without
// tokenizing the source again: the columnar entity table, both relationship
// views, property and quantity sets and, optionally, the record references,
// geometry and the source bytes themselves.
//
// # Format
//
// All integers are little endian.
//
//	header:  magic "IFCB" | version u32 | flags u32 | sectionCount u32 | headerCRC u32
//	section: id u16 | compression u8 | reserved u8 | rawLen u64 | storedLen u64 | crc32c u32 | payload
//
// Sections are length-prefixed; readers skip section ids they do not know.
// The header CRC covers the first 16 header bytes and each section CRC
// covers its stored payload. A version other than Version is reported as
// ErrVersionMismatch, any other damage as ErrCorrupt. Read never returns a
// partial snapshot.
//
// The spatial hierarchy and the element-to-property-set index are not
// stored; they are derived from the snapshot after loading.
package cache
