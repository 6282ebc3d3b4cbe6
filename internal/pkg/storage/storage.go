package storage

import (
	"context"
	"io"
)

// Storage defines the minimal interface for file storage backends.
// Intentionally simple: put a file, delete a file, get its URL.
type Storage interface {
	// Put stores a file at the given key
	Put(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Delete removes a file by key. Returns nil if the file doesn't exist.
	Delete(ctx context.Context, key string) error

	// Exists checks whether a file exists
	Exists(ctx context.Context, key string) (bool, error)

	// GetURL returns the public URL for a stored key
	GetURL(key string) string
}
