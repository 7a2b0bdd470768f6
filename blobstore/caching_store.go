package blobstore

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/hupe1980/ifcgo/internal/blobcache"
	"github.com/hupe1980/ifcgo/internal/resource"
)

// CachingStore wraps a BlobStore and keeps whole blobs that were opened
// recently in memory. It pays off for remote backends where reopening a
// model cache would otherwise fetch it again.
type CachingStore struct {
	inner  BlobStore
	cache  *blobcache.LRU
	logger *slog.Logger
}

// CachingOptions configures a CachingStore.
type CachingOptions struct {
	// CapacityBytes bounds the cached bytes. Defaults to 256 MiB.
	CapacityBytes int64
	// Resource accounts cached bytes against a shared memory budget. Optional.
	Resource *resource.Controller
	// Logger receives debug records for hits and misses.
	Logger *slog.Logger
}

// NewCachingStore wraps inner.
func NewCachingStore(inner BlobStore, optFns ...func(*CachingOptions)) *CachingStore {
	opts := CachingOptions{
		CapacityBytes: 256 << 20,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &CachingStore{
		inner:  inner,
		cache:  blobcache.New(opts.CapacityBytes, opts.Resource),
		logger: opts.Logger,
	}
}

// Open serves name from memory, reading and caching the whole blob on a miss.
func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	if data, ok := s.cache.Get(name); ok {
		s.logger.Debug("blob cache hit", "name", name, "bytes", len(data))
		return &memoryBlob{data: data}, nil
	}

	b, err := s.inner.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = b.Close() }()

	data, err := ReadAll(ctx, b)
	if err != nil {
		return nil, err
	}
	admitted := s.cache.Set(name, data)
	s.logger.Debug("blob cache miss", "name", name, "bytes", len(data), "cached", admitted)
	return &memoryBlob{data: data}, nil
}

// Create streams to the inner store and invalidates name on Close.
func (s *CachingStore) Create(ctx context.Context, name string) (WritableBlob, error) {
	s.cache.Remove(name)
	w, err := s.inner.Create(ctx, name)
	if err != nil {
		return nil, err
	}
	return &invalidatingBlob{WritableBlob: w, invalidate: func() { s.cache.Remove(name) }}, nil
}

// Put writes through to the inner store.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	s.cache.Remove(name)
	return s.inner.Put(ctx, name, data)
}

// Delete removes name from both the cache and the inner store.
func (s *CachingStore) Delete(ctx context.Context, name string) error {
	s.cache.Remove(name)
	return s.inner.Delete(ctx, name)
}

// List delegates to the inner store.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

// Stats returns the cache hit and miss counts.
func (s *CachingStore) Stats() (hits, misses int64) {
	return s.cache.Stats()
}

// Purge drops all cached blobs.
func (s *CachingStore) Purge() {
	s.cache.Purge()
}

type invalidatingBlob struct {
	WritableBlob
	invalidate func()
}

func (b *invalidatingBlob) Close() error {
	defer b.invalidate()
	return b.WritableBlob.Close()
}

func (b *invalidatingBlob) Abort() error {
	if a, ok := b.WritableBlob.(Aborter); ok {
		return a.Abort()
	}
	return errors.ErrUnsupported
}
