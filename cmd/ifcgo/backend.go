package main

import (
	"context"
	"fmt"

	"github.com/hupe1980/ifcgo"
	"github.com/hupe1980/ifcgo/blobstore"
	"github.com/hupe1980/ifcgo/blobstore/minio"
	"github.com/hupe1980/ifcgo/blobstore/s3"
	"github.com/hupe1980/ifcgo/internal/resource"
)

// openStore creates the blob store selected by cfg.
func openStore(ctx context.Context, cfg CacheConfig, rc *resource.Controller) (blobstore.BlobStore, error) {
	var (
		store blobstore.BlobStore
		err   error
	)
	switch cfg.Backend {
	case "local":
		store = blobstore.NewLocalStore(cfg.Dir)
	case "memory":
		store = blobstore.NewMemoryStore()
	case "s3":
		store, err = s3.New(ctx, cfg.Bucket, func(o *s3.Options) {
			o.Prefix = cfg.Prefix
			o.Region = cfg.Region
			o.Endpoint = cfg.Endpoint
			o.UsePathStyle = cfg.Endpoint != ""
		})
	case "minio":
		store, err = minio.New(ctx, cfg.Endpoint, cfg.Bucket, func(o *minio.Options) {
			o.AccessKey = cfg.AccessKey
			o.SecretKey = cfg.SecretKey
			o.UseSSL = cfg.UseSSL
			o.Region = cfg.Region
			o.Prefix = cfg.Prefix
			o.CreateBucket = true
		})
	default:
		return nil, fmt.Errorf("invalid cache backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	if cfg.MemoryMB > 0 {
		store = blobstore.NewCachingStore(store, func(o *blobstore.CachingOptions) {
			o.CapacityBytes = cfg.MemoryMB << 20
			o.Resource = rc
		})
	}
	return store, nil
}

// cacheManager creates the cache manager described by cfg.
func cacheManager(ctx context.Context, cfg *Config) (*ifcgo.CacheManager, error) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: cfg.Cache.MemoryMB << 20})
	store, err := openStore(ctx, cfg.Cache, rc)
	if err != nil {
		return nil, err
	}
	return ifcgo.NewCacheManager(store, func(o *ifcgo.CacheManagerOptions) {
		o.WriteOptions = cfg.WriteOptions()
		o.IOLimitBytesPerSec = cfg.Cache.IOLimitMBPerSec << 20
		o.Logger = cfg.Logger()
	}), nil
}
