package blobstore

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/hupe1980/ifcgo/internal/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore is a non-mappable backend that counts opens and reads.
type countingStore struct {
	*MemoryStore
	opens int
	reads int
}

func (s *countingStore) Open(ctx context.Context, name string) (Blob, error) {
	s.opens++
	b, err := s.MemoryStore.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return &rangeOnlyBlob{inner: b, store: s}, nil
}

type rangeOnlyBlob struct {
	inner Blob
	store *countingStore
}

func (b *rangeOnlyBlob) Close() error { return b.inner.Close() }
func (b *rangeOnlyBlob) Size() int64  { return b.inner.Size() }
func (b *rangeOnlyBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	b.store.reads++
	return b.inner.ReadAt(ctx, p, off)
}
func (b *rangeOnlyBlob) ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error) {
	b.store.reads++
	return b.inner.ReadRange(ctx, off, length)
}

func TestCachingStore_Open(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{MemoryStore: NewMemoryStore()}
	data := bytes.Repeat([]byte("ifc"), 100)
	require.NoError(t, inner.MemoryStore.Put(ctx, "m.ifcb", data))

	store := NewCachingStore(inner)

	for range 3 {
		b, err := store.Open(ctx, "m.ifcb")
		require.NoError(t, err)
		got, err := ReadAll(ctx, b)
		require.NoError(t, err)
		assert.Equal(t, data, got)
		require.NoError(t, b.Close())
	}
	assert.Equal(t, 1, inner.opens)
	assert.Equal(t, 1, inner.reads)

	hits, misses := store.Stats()
	assert.Equal(t, int64(2), hits)
	assert.Equal(t, int64(1), misses)
}

func TestCachingStore_Invalidation(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{MemoryStore: NewMemoryStore()}
	store := NewCachingStore(inner)

	require.NoError(t, store.Put(ctx, "k", []byte("v1")))
	b, err := store.Open(ctx, "k")
	require.NoError(t, err)
	got, _ := ReadAll(ctx, b)
	assert.Equal(t, "v1", string(got))

	w, err := store.Create(ctx, "k")
	require.NoError(t, err)
	_, err = w.Write([]byte("v2"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	b, err = store.Open(ctx, "k")
	require.NoError(t, err)
	got, _ = ReadAll(ctx, b)
	assert.Equal(t, "v2", string(got))
	assert.Equal(t, 2, inner.opens)

	require.NoError(t, store.Delete(ctx, "k"))
	_, err = store.Open(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCachingStore_Budget(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{MemoryStore: NewMemoryStore()}
	require.NoError(t, inner.MemoryStore.Put(ctx, "big", make([]byte, 64)))

	rc := resource.NewController(resource.Config{MemoryLimitBytes: 32})
	store := NewCachingStore(inner, func(o *CachingOptions) {
		o.Resource = rc
	})

	for range 2 {
		b, err := store.Open(ctx, "big")
		require.NoError(t, err)
		assert.Equal(t, int64(64), b.Size())
	}
	// Refused by the budget, so every open goes to the backend.
	assert.Equal(t, 2, inner.opens)
	assert.Equal(t, int64(0), rc.MemoryUsage())
}
