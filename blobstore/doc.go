// Package blobstore provides storage abstraction for catalog artifacts.
//
// A BlobStore hands out read-only Blob handles by name. Names are
// slash-separated and usually derived from a category name, for example
// "weapon/main.json". Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem with mmap support
//   - MemoryStore: in-memory, for tests and embedded catalogs
//   - s3.Store: Amazon S3 with range reads and managed uploads
//   - minio.Store: MinIO and other S3-compatible object stores
//   - sqlite.Store: a single SQLite file holding every artifact
//
// # Custom Implementations
//
// Implement BlobStore to read artifacts from another backend. Stores that
// can also be written by tooling implement WritableStore:
//
//	type WritableStore interface {
//	    BlobStore
//	    Put(ctx, name, data) error
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
package blobstore
