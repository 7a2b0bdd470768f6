// Package minio stores model cache blobs in MinIO or any other
// S3-compatible object store, using the MinIO client.
//
//	store, err := minio.New("localhost:9000", "ifc-cache", func(o *minio.Options) {
//	    o.AccessKey = "minioadmin"
//	    o.SecretKey = "minioadmin"
//	    o.Prefix = "models/"
//	})
//
// It works without any AWS configuration and suits air-gapped deployments.
package minio
