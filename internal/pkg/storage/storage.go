package storage

import (
	"context"
	"io"
)

// Storage defines the interface for blob storage operations backing patient
// document uploads.
type Storage interface {
	// Save stores content at the given relative path.
	Save(ctx context.Context, path string, content io.Reader) error

	// Get retrieves the content stored at the given relative path.
	Get(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes the content stored at the given relative path.
	Delete(ctx context.Context, path string) error
}
