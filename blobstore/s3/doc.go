// Package s3 stores model cache blobs in Amazon S3.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket", func(o *s3.Options) {
//	    o.Prefix = "ifc-cache/"
//	    o.Region = "eu-central-1"
//	})
//
//	mgr := ifcgo.NewCacheManager(store)
//
// Reads use ranged GETs. Writes stream through the multipart upload manager
// with CRC32C checksums.
package s3
