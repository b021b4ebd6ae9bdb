package storage

import (
	"context"
	"io"
)

// FileStorage defines the contract for persisting uploaded movie and
// image files. Paths are logical keys ("uploads/movies/<id>.mp4");
// every implementation must treat Save on an existing key as replace.
type FileStorage interface {
	// Save writes the content under path and returns the stored path.
	// size may be -1 when unknown.
	Save(ctx context.Context, r io.Reader, size int64, path, contentType string) (string, error)
	// Remove deletes the file at path. Removing a missing file is not
	// an error.
	Remove(ctx context.Context, path string) error
	// Open returns the stored content for streaming back to a client.
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}
