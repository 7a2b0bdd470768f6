package ifcgo

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/hupe1980/ifcgo/blobstore"
	"github.com/hupe1980/ifcgo/cache"
	"github.com/hupe1980/ifcgo/internal/hash"
	"github.com/hupe1980/ifcgo/internal/resource"
)

// CacheExt is the file extension of cache blobs.
const CacheExt = ".ifcb"

// CacheManagerOptions configures a CacheManager.
type CacheManagerOptions struct {
	// Prefix is prepended to every blob name, e.g. "models/".
	Prefix string
	// WriteOptions are passed to cache.Write.
	WriteOptions []cache.WriteOption
	// IOLimitBytesPerSec throttles cache writes. If 0, unlimited.
	IOLimitBytesPerSec int64
	// Logger receives cache hits, misses and failures. Defaults to NoopLogger.
	Logger *Logger
	// MetricsCollector receives cache reads and writes.
	MetricsCollector MetricsCollector
}

// CacheManager stores binary caches in a blob store, addressed by the
// content of the source they were parsed from.
type CacheManager struct {
	store blobstore.BlobStore
	opts  CacheManagerOptions
	rc    *resource.Controller
}

// NewCacheManager creates a cache manager on top of store.
func NewCacheManager(store blobstore.BlobStore, optFns ...func(o *CacheManagerOptions)) *CacheManager {
	opts := CacheManagerOptions{
		Logger:           NoopLogger(),
		MetricsCollector: NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = NoopLogger()
	}
	if opts.MetricsCollector == nil {
		opts.MetricsCollector = NoopMetricsCollector{}
	}
	var rc *resource.Controller
	if opts.IOLimitBytesPerSec > 0 {
		rc = resource.NewController(resource.Config{IOLimitBytesPerSec: opts.IOLimitBytesPerSec})
	}
	return &CacheManager{store: store, opts: opts, rc: rc}
}

// Key returns the blob name for src.
func (c *CacheManager) Key(src []byte) string {
	return c.opts.Prefix + hash.ContentKey(src) + CacheExt
}

// Load returns the model for src. A cached model is returned if one exists
// and decodes; otherwise src is parsed and the result cached. Corrupt or
// outdated blobs are replaced. The second result reports a cache hit.
//
// A failed cache write is logged and does not fail Load.
func (c *CacheManager) Load(ctx context.Context, src []byte, optFns ...Option) (*Model, bool, error) {
	key := c.Key(src)
	logger := c.opts.Logger.WithKey(key)

	m, err := c.read(ctx, key, optFns)
	switch {
	case err == nil:
		if m.src == nil {
			m.src = src
		}
		return m, true, nil
	case errors.Is(err, blobstore.ErrNotFound):
	case errors.Is(err, cache.ErrCorrupt), errors.Is(err, cache.ErrVersionMismatch):
		logger.WarnContext(ctx, "discarding cache blob", "error", err)
		if err := c.store.Delete(ctx, key); err != nil {
			logger.WarnContext(ctx, "cache delete failed", "error", err)
		}
	default:
		return nil, false, err
	}

	m, err = Parse(ctx, src, optFns...)
	if err != nil {
		return nil, false, err
	}
	// Save logs its own failures; the parsed model is valid either way.
	_, _ = c.Save(ctx, key, m)
	return m, false, nil
}

func (c *CacheManager) read(ctx context.Context, key string, optFns []Option) (*Model, error) {
	start := time.Now()
	m, err := c.decode(ctx, key, optFns)

	// A miss is not a failure.
	reported := err
	if errors.Is(err, blobstore.ErrNotFound) {
		reported = nil
	}
	c.opts.Logger.LogCacheRead(ctx, key, err == nil, reported)
	c.opts.MetricsCollector.RecordCacheRead(err == nil, time.Since(start), reported)
	return m, err
}

func (c *CacheManager) decode(ctx context.Context, key string, optFns []Option) (*Model, error) {
	blob, err := c.store.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	defer blob.Close()

	b, err := blobstore.ReadAll(ctx, blob)
	if err != nil {
		return nil, err
	}
	snap, err := cache.ReadBytes(b)
	if err != nil {
		return nil, err
	}
	return fromSnapshot(ctx, snap, applyOptions(optFns))
}

// Save writes the cache of m under key and returns its size. The blob only
// becomes visible once it is complete.
func (c *CacheManager) Save(ctx context.Context, key string, m *Model) (int64, error) {
	start := time.Now()
	n, err := c.save(ctx, key, m)
	c.opts.Logger.LogCacheWrite(ctx, key, n, err)
	c.opts.MetricsCollector.RecordCacheWrite(n, time.Since(start), err)
	return n, err
}

func (c *CacheManager) save(ctx context.Context, key string, m *Model) (int64, error) {
	var buf bytes.Buffer
	n, err := SaveCache(&buf, m, c.opts.WriteOptions...)
	if err != nil {
		return 0, err
	}

	w, err := c.store.Create(ctx, key)
	if err != nil {
		return 0, err
	}
	if _, err := resource.NewRateLimitedWriter(ctx, w, c.rc).Write(buf.Bytes()); err != nil {
		c.discard(ctx, key, w)
		return 0, err
	}
	if err := w.Sync(); err != nil {
		c.discard(ctx, key, w)
		return 0, err
	}
	if err := w.Close(); err != nil {
		return 0, err
	}
	return n, nil
}

// discard drops an unfinished blob. Backends that cannot abort a write get
// the blob closed and deleted instead.
func (c *CacheManager) discard(ctx context.Context, key string, w blobstore.WritableBlob) {
	if a, ok := w.(blobstore.Aborter); ok && a.Abort() == nil {
		return
	}
	_ = w.Close()
	_ = c.store.Delete(ctx, key)
}

// Delete removes the cache blob of key. Missing blobs are not an error.
func (c *CacheManager) Delete(ctx context.Context, key string) error {
	return c.store.Delete(ctx, key)
}

// List returns the names of all cache blobs under the prefix.
func (c *CacheManager) List(ctx context.Context) ([]string, error) {
	names, err := c.store.List(ctx, c.opts.Prefix)
	if err != nil {
		return nil, err
	}
	keys := names[:0]
	for _, name := range names {
		if strings.HasSuffix(name, CacheExt) {
			keys = append(keys, name)
		}
	}
	return keys, nil
}
