package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

type localStorage struct {
	baseDir string
}

// NewLocalStorage stores files on the local filesystem under baseDir.
// This matches the original deployment model where uploads live next to
// the process.
func NewLocalStorage(baseDir string) (FileStorage, error) {
	if baseDir == "" {
		baseDir = "."
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir %s: %w", baseDir, err)
	}
	return &localStorage{baseDir: baseDir}, nil
}

// resolve maps a storage path onto the filesystem. Paths arrive from
// request query strings, so anything that would land outside baseDir
// after cleaning is rejected rather than joined.
func (s *localStorage) resolve(path string) (string, error) {
	path = filepath.FromSlash(path)
	if !filepath.IsLocal(path) {
		return "", fmt.Errorf("path %q escapes the storage dir", path)
	}
	return filepath.Join(s.baseDir, path), nil
}

func (s *localStorage) Save(ctx context.Context, r io.Reader, size int64, path, contentType string) (string, error) {
	full, err := s.resolve(path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("failed to create dir for %s: %w", path, err)
	}

	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("failed to write file %s: %w", path, err)
	}

	return path, nil
}

func (s *localStorage) Remove(ctx context.Context, path string) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *localStorage) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	full, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	return os.Open(full)
}
