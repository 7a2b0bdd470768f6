package blobcache

import (
	"testing"

	"github.com/hupe1980/ifcgo/internal/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRU_Eviction(t *testing.T) {
	c := New(30, nil)

	require.True(t, c.Set("a", make([]byte, 10)))
	require.True(t, c.Set("b", make([]byte, 10)))
	require.True(t, c.Set("c", make([]byte, 10)))

	// Touch a so that b is the least recently used.
	_, ok := c.Get("a")
	require.True(t, ok)

	require.True(t, c.Set("d", make([]byte, 10)))
	_, ok = c.Get("b")
	assert.False(t, ok)
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, int64(30), c.Size())

	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestLRU_TooLarge(t *testing.T) {
	c := New(10, nil)
	assert.False(t, c.Set("big", make([]byte, 11)))
	assert.Equal(t, 0, c.Len())
}

func TestLRU_Replace(t *testing.T) {
	c := New(100, nil)
	c.Set("k", make([]byte, 40))
	c.Set("k", []byte("abc"))

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("abc"), v)
	assert.Equal(t, int64(3), c.Size())
}

func TestLRU_ResourceController(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 25})
	c := New(100, rc)

	require.True(t, c.Set("a", make([]byte, 20)))
	assert.Equal(t, int64(20), rc.MemoryUsage())

	// The cache has room but the shared budget does not.
	assert.False(t, c.Set("b", make([]byte, 10)))

	c.Remove("a")
	assert.Equal(t, int64(0), rc.MemoryUsage())
	assert.True(t, c.Set("b", make([]byte, 10)))

	c.Purge()
	assert.Equal(t, int64(0), rc.MemoryUsage())
	assert.Equal(t, 0, c.Len())
}

func TestLRU_RemovePrefix(t *testing.T) {
	c := New(100, nil)
	c.Set("models/a.ifcb", []byte("1"))
	c.Set("models/b.ifcb", []byte("2"))
	c.Set("other/c.ifcb", []byte("3"))

	c.RemovePrefix("models/")
	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("other/c.ifcb")
	assert.True(t, ok)
}
