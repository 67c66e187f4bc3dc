package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// FileBackend keeps the dataset as a JSON file. Writes go to a sibling temp
// file that is fsynced and renamed over the target.
type FileBackend struct {
	path string
}

// NewFileBackend returns a backend for the JSON document at path. The parent
// directory is created if needed.
func NewFileBackend(path string) (*FileBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FileBackend{path: path}, nil
}

// Location returns the file path.
func (b *FileBackend) Location() string {
	return b.path
}

// Read returns the file contents.
func (b *FileBackend) Read(_ context.Context) ([]byte, error) {
	body, err := os.ReadFile(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoDocument
	}
	return body, err
}

// Write atomically replaces the file with doc.
func (b *FileBackend) Write(_ context.Context, doc []byte) error {
	tmp := b.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("open temp file: %w", err)
	}
	if _, err := f.Write(doc); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp, b.path); err != nil {
		return fmt.Errorf("replace data file: %w", err)
	}
	return nil
}

// Backup copies the file to "<path>.<suffix>".
func (b *FileBackend) Backup(_ context.Context, suffix string) (string, error) {
	dst := b.path + "." + suffix

	src, err := os.Open(b.path)
	if err != nil {
		return "", err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return "", err
	}
	return dst, out.Close()
}
