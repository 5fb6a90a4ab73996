// Package minio provides a BlobStore implementation using the MinIO client.
//
// It works with MinIO and other S3-compatible storage systems like Ceph,
// SeaweedFS and Garage, without any AWS dependencies.
//
// # Basic Usage
//
//	store, err := minio.New("localhost:9000", "minioadmin", "minioadmin", "texts", "intertext/", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	aen, err := tokenize.ReadBlob(ctx, store, "vergil.aeneid.tess", vocab, tokenize.Latin())
//
// Use NewStore to wrap an existing *minio.Client with custom options.
package minio
