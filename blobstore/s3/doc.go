// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("intertext/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//
//	doc := &export.Document{Set: set, Vocab: vocab}
//	name, err := export.Publish(ctx, store, "runs/aen-phar", doc, export.FormatJSON, export.CompressionZstd)
//
// # Features
//
//   - Multipart uploads for large exports
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
