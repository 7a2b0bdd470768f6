package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCRC32C(t *testing.T) {
	// Check value from RFC 3720, appendix B.4.
	assert.Equal(t, uint32(0x8a9136aa), CRC32C(make([]byte, 32)))
	assert.NotEqual(t, CRC32C([]byte("IFCB")), CRC32C([]byte("IFCC")))
}

func TestContentKey(t *testing.T) {
	a := ContentKey([]byte("#1=IFCPROJECT('p');"))
	assert.Equal(t, a, ContentKey([]byte("#1=IFCPROJECT('p');")))
	assert.NotEqual(t, a, ContentKey([]byte("#1=IFCPROJECT('q');")))
	assert.Regexp(t, `^[0-9a-f]{16}-13$`, a)
}
