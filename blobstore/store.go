// Package blobstore abstracts the storage that holds feature archives:
// local directories, in-memory maps for tests, and S3-compatible object
// stores via the s3 and minio subpackages.
//
// Archives are immutable once written; Put replaces whole blobs
// atomically and Open hands out read-only handles.
package blobstore

import (
	"context"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations return errors satisfying errors.Is(err, ErrNotFound);
// the default maps to os.ErrNotExist.
var ErrNotFound = os.ErrNotExist

// Store is the storage abstraction for feature archives.
type Store interface {
	// Open opens an existing blob for reading.
	Open(ctx context.Context, name string) (Blob, error)
	// Put writes a blob atomically, replacing any previous content.
	Put(ctx context.Context, name string, data []byte) error
	// List returns the names of all blobs with the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)
	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error
}

// Blob is a read-only handle to a stored archive.
type Blob interface {
	// ReadAt reads len(p) bytes starting at offset off.
	ReadAt(ctx context.Context, p []byte, off int64) (int, error)
	// Size returns the blob size in bytes.
	Size() int64
	Close() error
}

// Mappable is an optional interface for Blobs whose contents are available
// as a byte slice without copying (memory-mapped local files).
type Mappable interface {
	// Bytes returns the underlying data. The slice is valid until Close.
	Bytes() []byte
}
