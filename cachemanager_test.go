package ifcgo

import (
	"context"
	"testing"

	"github.com/hupe1980/ifcgo/blobstore"
	"github.com/hupe1980/ifcgo/cache"
	"github.com/hupe1980/ifcgo/internal/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheManager_Load(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	metrics := &BasicMetricsCollector{}
	cm := NewCacheManager(store, func(o *CacheManagerOptions) {
		o.Prefix = "models/"
		o.MetricsCollector = metrics
	})
	src := []byte(demoModel)

	m, hit, err := cm.Load(ctx, src)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "Wall", m.Store().Name(4))

	keys, err := cm.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{cm.Key(src)}, keys)
	assert.Contains(t, cm.Key(src), "models/")

	m, hit, err = cm.Load(ctx, src)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "Wall", m.Store().Name(4))
	e, ok := m.Entity(4)
	require.True(t, ok, "cache hits decode from the caller's source")
	assert.Equal(t, "IFCWALL", e.Type)

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.CacheHits)
	assert.Equal(t, int64(1), stats.CacheMisses)
	assert.Equal(t, int64(1), stats.CacheWrites)

	require.NoError(t, cm.Delete(ctx, cm.Key(src)))
	keys, err = cm.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestCacheManager_ReplacesCorruptBlob(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	cm := NewCacheManager(store, func(o *CacheManagerOptions) {
		o.WriteOptions = []cache.WriteOption{cache.WithCompression(cache.CompressionNone)}
	})
	src := []byte(demoModel)
	require.NoError(t, store.Put(ctx, cm.Key(src), []byte("garbage")))

	m, hit, err := cm.Load(ctx, src)
	require.NoError(t, err)
	assert.False(t, hit)
	require.NotNil(t, m)

	_, hit, err = cm.Load(ctx, src)
	require.NoError(t, err)
	assert.True(t, hit)
}

func TestCacheManager_ParseError(t *testing.T) {
	cm := NewCacheManager(blobstore.NewMemoryStore())
	_, _, err := cm.Load(context.Background(), []byte("DATA;\nENDSEC;\n"))
	assert.ErrorIs(t, err, ErrNoRootEntity)
}

func TestCacheManager_FailedSave(t *testing.T) {
	ctx := context.Background()
	ffs := fs.NewFaultyFS(nil)
	ffs.AddRule(CacheExt, fs.Fault{FailAfterBytes: 16})
	store := blobstore.NewLocalStore(t.TempDir(), func(o *blobstore.LocalOptions) { o.FS = ffs })
	metrics := &BasicMetricsCollector{}
	cm := NewCacheManager(store, func(o *CacheManagerOptions) {
		o.MetricsCollector = metrics
	})
	src := []byte(demoModel)

	m, hit, err := cm.Load(ctx, src)
	require.NoError(t, err, "a failed cache write does not fail the load")
	assert.False(t, hit)
	assert.Equal(t, "Wall", m.Store().Name(4))

	keys, err := cm.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
	assert.Equal(t, int64(1), metrics.GetStats().CacheWriteErrors)

	_, err = cm.Save(ctx, cm.Key(src), m)
	require.ErrorIs(t, err, fs.ErrInjected)
}
