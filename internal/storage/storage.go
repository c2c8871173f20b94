// Package storage wraps the S3-compatible object store. The concrete
// client is injected at startup; tests substitute a fake.
package storage

import (
	"context"
	"io"
)

// BlobStore is the interface for uploading and removing objects.
//
// Implementations must not pre-check key existence before writing: bucket
// policy may forbid HEAD/stat calls, so callers rely on collision-resistant
// generated keys instead.
type BlobStore interface {
	// Upload streams data to the store under the given key.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	// Delete removes the object identified by key.
	Delete(ctx context.Context, key string) error
	// PublicURL constructs the browser-accessible URL for a key.
	PublicURL(key string) string
}
