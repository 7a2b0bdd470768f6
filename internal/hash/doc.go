// Package hash provides the checksums and content keys used by the model cache.
//
// CRC32-Castagnoli protects the header and every section of a cache blob;
// Go's crc32 package uses SSE4.2 or the ARM CRC extension when available.
//
//	checksum := hash.CRC32C(payload)
//
// Content keys identify a source file independent of its path, so an
// unchanged file always maps to the same cache blob:
//
//	key := hash.ContentKey(src)
package hash
