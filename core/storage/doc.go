// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client to provide a narrow interface for the operations the
// report archive needs. This abstraction supports both AWS S3 and self-hosted MinIO
// instances.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (see core/storage/mocks).
//
// # Operations
//
//   - BucketExists / MakeBucket: used by EnsureBucket at startup.
//   - PutObject: uploads content (with size and options).
//   - GetObject: retrieves content as a stream.
//   - ListObjects: lists objects in a bucket (supports prefix/recursive).
//   - RemoveObjects: deletes objects in batches.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
package storage
