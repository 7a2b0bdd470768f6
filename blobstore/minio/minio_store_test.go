package minio

import (
	"context"
	"io"
	"os"
	"testing"

	"github.com/hupe1980/ifcgo/blobstore"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePrefix(t *testing.T) {
	tests := map[string]string{
		"":        "",
		"models":  "models/",
		"models/": "models/",
		"/a/b":    "a/b/",
		"/a/b/c/": "a/b/c/",
	}
	for in, want := range tests {
		assert.Equal(t, want, normalizePrefix(in), in)
	}
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(minio.ErrorResponse{Code: "NoSuchKey"}))
	assert.True(t, isNotFound(minio.ErrorResponse{Code: "NotFound"}))
	assert.False(t, isNotFound(minio.ErrorResponse{Code: "AccessDenied"}))
}

// TestStore_Integration requires a running MinIO instance, e.g.
// MINIO_ENDPOINT=localhost:9000.
func TestStore_Integration(t *testing.T) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		t.Skip("MINIO_ENDPOINT not set")
	}
	ctx := context.Background()

	store, err := New(ctx, endpoint, "ifcgo-test", func(o *Options) {
		o.AccessKey = "minioadmin"
		o.SecretKey = "minioadmin"
		o.Prefix = "test-prefix"
		o.CreateBucket = true
	})
	require.NoError(t, err)

	data := []byte("hello minio world")
	require.NoError(t, store.Put(ctx, "test.ifcb", data))

	blob, err := store.Open(ctx, "test.ifcb")
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), blob.Size())

	got, err := blobstore.ReadAll(ctx, blob)
	require.NoError(t, err)
	require.Equal(t, data, got)

	rc, err := blob.ReadRange(ctx, 6, 5)
	require.NoError(t, err)
	part, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "minio", string(part))
	require.NoError(t, rc.Close())
	require.NoError(t, blob.Close())

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Contains(t, names, "test.ifcb")

	require.NoError(t, store.Delete(ctx, "test.ifcb"))
	_, err = store.Open(ctx, "test.ifcb")
	require.ErrorIs(t, err, blobstore.ErrNotFound)

	wb, err := store.Create(ctx, "stream.ifcb")
	require.NoError(t, err)
	_, err = wb.Write([]byte("streamed data"))
	require.NoError(t, err)
	require.NoError(t, wb.Close())

	blob, err = store.Open(ctx, "stream.ifcb")
	require.NoError(t, err)
	assert.Equal(t, int64(13), blob.Size())
	_ = store.Delete(ctx, "stream.ifcb")
}
