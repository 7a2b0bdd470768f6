package hash

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// ContentKey returns a stable key for src: its xxhash64 digest and length in hex.
func ContentKey(src []byte) string {
	return fmt.Sprintf("%016x-%x", xxhash.Sum64(src), len(src))
}
