// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the Client interface so that manifest
// publishing can be tested with the mock in core/storage/mocks. Both AWS S3
// and self-hosted MinIO instances are supported.
//
// # Operations
//
//   - BucketExists / MakeBucket: used by EnsureBucket before the first upload.
//   - PutObject / GetObject: write and read manifest documents.
//   - ListObjects / RemoveObject: enumerate and prune manifests.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
package storage
