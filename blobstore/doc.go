// Package blobstore stores binary model caches.
//
// A BlobStore holds immutable, named blobs. Implementations must be safe for
// concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: a directory on the local file system, read through mmap
//   - MemoryStore: process-local, for tests and one-shot tools
//   - CachingStore: keeps recently opened blobs of another store in memory
//   - s3.Store: Amazon S3 with ranged reads and multipart uploads
//   - minio.Store: MinIO and other S3-compatible services
//
// # Custom Implementations
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)
//	    Create(ctx, name) (WritableBlob, error)
//	    Put(ctx, name, data) error
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
package blobstore
