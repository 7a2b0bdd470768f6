package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFS(t *testing.T) {
	tmp := t.TempDir()
	lfs := LocalFS{}

	dir := filepath.Join(tmp, "subdir")
	require.NoError(t, lfs.MkdirAll(dir, 0o755))

	fpath := filepath.Join(dir, "test.txt")
	f, err := lfs.OpenFile(fpath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	require.NoError(t, err)
	assert.Equal(t, fpath, f.Name())

	_, err = f.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, f.Sync())
	require.NoError(t, f.Close())

	_, err = lfs.OpenFile(fpath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	assert.ErrorIs(t, err, os.ErrExist)

	entries, err := lfs.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	newPath := filepath.Join(dir, "renamed.txt")
	require.NoError(t, lfs.Rename(fpath, newPath))
	data, err := os.ReadFile(newPath)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, lfs.Remove(newPath))
	_, err = os.Stat(newPath)
	assert.True(t, os.IsNotExist(err))
}

func TestFaultyFS(t *testing.T) {
	tmp := t.TempDir()
	ffs := NewFaultyFS(nil)
	ffs.AddRule("faulty", Fault{FailAfterBytes: 5, FailOnSync: true})

	f, err := ffs.OpenFile(filepath.Join(tmp, "faulty.txt"), os.O_CREATE|os.O_WRONLY, 0o644)
	require.NoError(t, err)

	n, err := f.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = f.Write([]byte("!"))
	assert.ErrorIs(t, err, ErrInjected)
	assert.Zero(t, n)
	assert.ErrorIs(t, f.Sync(), ErrInjected)
	require.NoError(t, f.Close())

	// Files not matching a rule pass through.
	g, err := ffs.OpenFile(filepath.Join(tmp, "plain.txt"), os.O_CREATE|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = g.Write([]byte("hello, world"))
	require.NoError(t, err)
	require.NoError(t, g.Sync())
	require.NoError(t, g.Close())
}

func TestFaultyFS_FailOnClose(t *testing.T) {
	ffs := NewFaultyFS(LocalFS{})
	ffs.AddRule("x", Fault{FailAfterBytes: -1, FailOnClose: true})

	f, err := ffs.OpenFile(filepath.Join(t.TempDir(), "x.bin"), os.O_CREATE|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.Write(make([]byte, 1024))
	require.NoError(t, err)
	assert.ErrorIs(t, f.Close(), ErrInjected)
}
