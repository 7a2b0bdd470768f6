package blobstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/ifcgo/internal/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_Lifecycle(t *testing.T) {
	tmpDir := t.TempDir()
	store := NewLocalStore(tmpDir)
	ctx := context.Background()

	blobName := "models/ab12.ifcb"
	data := []byte("hello world, this is a cached model blob")

	w, err := store.Create(ctx, blobName)
	require.NoError(t, err)
	n, err := w.Write(data)
	require.NoError(t, err)
	require.Equal(t, len(data), n)

	// Not visible before Close.
	_, err = store.Open(ctx, blobName)
	require.ErrorIs(t, err, ErrNotFound)
	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, names)

	require.NoError(t, w.Close())
	_, err = os.Stat(filepath.Join(tmpDir, "models", "ab12.ifcb"))
	require.NoError(t, err)

	blob, err := store.Open(ctx, blobName)
	require.NoError(t, err)
	defer blob.Close()
	require.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, 5)
	n, err = blob.ReadAt(ctx, buf, 6)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, "world", string(buf))

	rr, err := blob.ReadRange(ctx, 13, 4)
	require.NoError(t, err)
	got, err := io.ReadAll(rr)
	require.NoError(t, err)
	require.NoError(t, rr.Close())
	require.Equal(t, "this", string(got))

	all, err := ReadAll(ctx, blob)
	require.NoError(t, err)
	require.Equal(t, data, all)

	require.NoError(t, store.Put(ctx, "other.ifcb", []byte("x")))
	names, err = store.List(ctx, "")
	require.NoError(t, err)
	require.Equal(t, []string{blobName, "other.ifcb"}, names)

	names, err = store.List(ctx, "models/")
	require.NoError(t, err)
	require.Equal(t, []string{blobName}, names)

	require.NoError(t, store.Delete(ctx, "other.ifcb"))
	require.NoError(t, store.Delete(ctx, "other.ifcb"))
	_, err = store.Open(ctx, "other.ifcb")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStore_ReadRangeBoundaries(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "b.bin", []byte("0123456789")))

	blob, err := store.Open(ctx, "b.bin")
	require.NoError(t, err)
	defer blob.Close()

	tests := []struct {
		name      string
		off, size int64
		want      string
	}{
		{"full", 0, 10, "0123456789"},
		{"past end", 8, 5, "89"},
		{"offset past end", 20, 5, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := blob.ReadRange(ctx, tt.off, tt.size)
			require.NoError(t, err)
			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}

	_, err = blob.ReadAt(ctx, make([]byte, 4), 8)
	assert.ErrorIs(t, err, io.EOF)
}

func TestLocalStore_EmptyBlob(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "empty", nil))

	blob, err := store.Open(ctx, "empty")
	require.NoError(t, err)
	defer blob.Close()
	assert.Equal(t, int64(0), blob.Size())

	data, err := ReadAll(ctx, blob)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestLocalStore_InvalidName(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx := context.Background()

	for _, name := range []string{"", "../escape", "/abs"} {
		_, err := store.Open(ctx, name)
		assert.ErrorIs(t, err, ErrInvalidName, name)
		assert.ErrorIs(t, store.Put(ctx, name, []byte("x")), ErrInvalidName, name)
	}
}

func TestLocalStore_ListMissingRoot(t *testing.T) {
	store := NewLocalStore(filepath.Join(t.TempDir(), "missing"))
	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestLocalStore_Canceled(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Open(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, store.Put(ctx, "x", nil), context.Canceled)
}

func TestLocalStore_FailedWriteLeavesNoBlob(t *testing.T) {
	ctx := context.Background()
	ffs := fs.NewFaultyFS(nil)
	ffs.AddRule("broken", fs.Fault{FailAfterBytes: 4})
	store := NewLocalStore(t.TempDir(), func(o *LocalOptions) { o.FS = ffs })

	err := store.Put(ctx, "broken.ifcb", []byte("more than four bytes"))
	require.ErrorIs(t, err, fs.ErrInjected)

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, names)
	entries, err := os.ReadDir(store.Root())
	require.NoError(t, err)
	assert.Empty(t, entries, "temporary file removed")

	require.NoError(t, store.Put(ctx, "fine.ifcb", []byte("more than four bytes")))
	names, err = store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"fine.ifcb"}, names)
}

func TestLocalStore_Abort(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStore(t.TempDir())

	w, err := store.Create(ctx, "a/b.ifcb")
	require.NoError(t, err)
	_, err = w.Write([]byte("partial"))
	require.NoError(t, err)
	require.NoError(t, w.(Aborter).Abort())
	assert.ErrorIs(t, w.Close(), os.ErrClosed)

	_, err = store.Open(ctx, "a/b.ifcb")
	assert.ErrorIs(t, err, ErrNotFound)
}
