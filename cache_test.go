package ifcgo

import (
	"bytes"
	"context"
	"testing"

	"github.com/hupe1980/ifcgo/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadCache(t *testing.T) {
	ctx := context.Background()
	m, err := Parse(ctx, []byte(demoModel))
	require.NoError(t, err)
	added := m.SetGeometry(&cache.Geometry{Meshes: []cache.Mesh{{
		ExpressID: 3,
		Positions: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Indices:   []uint32{0, 1, 2},
	}}})
	assert.Equal(t, 1, added)

	var buf bytes.Buffer
	n, err := SaveCache(&buf, m)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	loaded, err := LoadCache(ctx, &buf)
	require.NoError(t, err)

	assert.Equal(t, "IFC4", loaded.Schema())
	assert.Equal(t, m.Store().Count(), loaded.Store().Count())
	assert.Equal(t, "Wall", loaded.Store().Name(4))
	assert.True(t, loaded.Store().HasGeometry(3))
	assert.Equal(t, m.Graph().Len(), loaded.Graph().Len())

	path := loaded.Hierarchy().Path(4)
	require.Len(t, path, 3)
	require.NotNil(t, path[2].Elevation)
	assert.Equal(t, 3.0, *path[2].Elevation)

	psets := loaded.PropertiesFor(4)
	require.Len(t, psets, 1)
	v, ok := psets[0].Property("Fire Rating")
	require.True(t, ok)
	assert.Equal(t, "2HR", v.Text())
	require.NotNil(t, loaded.Geometry())
	assert.Len(t, loaded.Geometry().Meshes, 1)

	// Without the source section entities cannot be decoded.
	_, ok = loaded.Entity(4)
	assert.False(t, ok)
	assert.Zero(t, loaded.Diagnostics().Total())
}

func TestSaveLoadCache_WithSource(t *testing.T) {
	ctx := context.Background()
	m, err := Parse(ctx, []byte(demoModel))
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = SaveCache(&buf, m, cache.WithSource(true), cache.WithCompression(cache.CompressionLZ4))
	require.NoError(t, err)

	loaded, err := LoadCache(ctx, &buf)
	require.NoError(t, err)
	e, ok := loaded.Entity(4)
	require.True(t, ok)
	assert.Equal(t, "IFCWALL", e.Type)
}

func TestLoadCache_Corrupt(t *testing.T) {
	_, err := LoadCache(context.Background(), bytes.NewReader([]byte("not a cache")))
	assert.ErrorIs(t, err, cache.ErrCorrupt)
}
