package ifcgo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeModel(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestOpen(t *testing.T) {
	path := writeModel(t, t.TempDir(), "demo.ifc", demoModel)

	m, err := Open(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, len(demoModel), len(m.Source()))

	_, ok := m.Entity(4)
	assert.True(t, ok)

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
	_, ok = m.Entity(4)
	assert.False(t, ok)
	assert.Equal(t, "Wall", m.Store().Name(4), "the columnar store outlives the mapping")
}

func TestOpen_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Open(context.Background(), filepath.Join(dir, "missing.ifc"))
	var pe *PathError
	require.True(t, errors.As(err, &pe))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := writeModel(t, dir, "noproject.ifc", "DATA;\nENDSEC;\n")
	_, err = Open(context.Background(), path)
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, path, pe.Path)
	assert.ErrorIs(t, err, ErrNoRootEntity)
}

func TestParseFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeModel(t, dir, "a.ifc", demoModel)
	b := writeModel(t, dir, "b.ifc", demoModel)

	models, err := ParseFiles(context.Background(), []string{a, b}, WithParseLimits(1, 1<<20))
	require.NoError(t, err)
	require.Len(t, models, 2)
	for _, m := range models {
		assert.Equal(t, "IFC4", m.Schema())
		assert.NoError(t, m.Close())
	}

	_, err = ParseFiles(context.Background(), []string{a, filepath.Join(dir, "missing.ifc")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}
