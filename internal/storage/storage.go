// Package storage contains the blob storage abstraction used when document
// payloads are kept outside the database (the "object" storage strategy).
// Implementations must rely on streaming I/O only; no local disk.
package storage

import (
	"context"
	"io"
	"time"
)

// PutOptions define optional parameters for uploading blobs.
// Size should be the exact number of bytes if known; set -1 if unknown and
// the implementation will buffer/chunk as the backend supports.
type PutOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// BlobInfo contains basic information about a stored blob.
type BlobInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is a reusable S3-compatible blob storage client interface.
type Storage interface {
	// Put uploads a blob under the given key from the provided reader.
	Put(ctx context.Context, key string, r io.Reader, opt PutOptions) (BlobInfo, error)
	// Get retrieves a blob's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, BlobInfo, error)
	// Delete removes a blob by key.
	Delete(ctx context.Context, key string) error
}
