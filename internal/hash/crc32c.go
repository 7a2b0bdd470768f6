package hash

import "hash/crc32"

var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// CRC32C checksums a cache header or one section payload. Readers compare it
// against the stored value before decompressing.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, crc32cTable)
}
