package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	fs, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("new local storage: %v", err)
	}
	ctx := context.Background()

	content := "file body"
	path, err := fs.Save(ctx, strings.NewReader(content), int64(len(content)), "images/test.png", "image/png")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if path != "images/test.png" {
		t.Errorf("stored path = %q, want %q", path, "images/test.png")
	}

	rc, err := fs.Open(ctx, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	got, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != content {
		t.Errorf("read back %q, want %q", got, content)
	}

	if err := fs.Remove(ctx, path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := fs.Open(ctx, path); err == nil {
		t.Error("removed file still opens")
	}
}

func TestLocalStorageRejectsEscapingPaths(t *testing.T) {
	root := t.TempDir()
	secret := filepath.Join(root, "secret.txt")
	if err := os.WriteFile(secret, []byte("outside the base dir"), 0o644); err != nil {
		t.Fatalf("write secret: %v", err)
	}

	base := filepath.Join(root, "media")
	fs, err := NewLocalStorage(base)
	if err != nil {
		t.Fatalf("new local storage: %v", err)
	}
	ctx := context.Background()

	// Cleaning "movies/../../secret.txt" lands on the planted file, one
	// level above the base dir.
	for _, path := range []string{
		"movies/../../secret.txt",
		"../secret.txt",
		"images/../../../etc/passwd",
		"/etc/passwd",
	} {
		if _, err := fs.Open(ctx, path); err == nil {
			t.Errorf("Open(%q) succeeded, want rejection", path)
		}
		if _, err := fs.Save(ctx, strings.NewReader("x"), 1, path, "text/plain"); err == nil {
			t.Errorf("Save(%q) succeeded, want rejection", path)
		}
		if err := fs.Remove(ctx, path); err == nil {
			t.Errorf("Remove(%q) succeeded, want rejection", path)
		}
	}

	if _, err := os.Stat(secret); err != nil {
		t.Fatalf("planted file disturbed: %v", err)
	}
}

func TestLocalStorageRemoveMissingIsNoop(t *testing.T) {
	fs, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("new local storage: %v", err)
	}

	if err := fs.Remove(context.Background(), "images/never-existed.png"); err != nil {
		t.Errorf("remove missing file: %v", err)
	}
}
