package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Storage abstracts where attachment blobs live. The metadata row keeps a
// relative path; implementations decide what that path resolves to.
type Storage interface {
	// Save writes the reader's content under relPath and returns the
	// number of bytes written
	Save(ctx context.Context, relPath string, r io.Reader) (int64, error)

	// Open returns a reader for the blob at relPath
	Open(ctx context.Context, relPath string) (io.ReadCloser, error)

	// Delete removes the blob at relPath; deleting a missing blob is not
	// an error
	Delete(ctx context.Context, relPath string) error
}

type localStorage struct {
	baseDir string
}

// NewLocalStorage creates a disk-backed storage rooted at baseDir,
// creating the directory if needed
func NewLocalStorage(baseDir string) (Storage, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	return &localStorage{baseDir: abs}, nil
}

// resolve maps a relative path onto the base directory, rejecting paths
// that would escape it
func (s *localStorage) resolve(relPath string) (string, error) {
	full := filepath.Join(s.baseDir, filepath.FromSlash(relPath))
	if full != s.baseDir && !strings.HasPrefix(full, s.baseDir+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid storage path: %s", relPath)
	}
	return full, nil
}

func (s *localStorage) Save(ctx context.Context, relPath string, r io.Reader) (int64, error) {
	full, err := s.resolve(relPath)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return 0, fmt.Errorf("failed to create storage subdir: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}

	n, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		os.Remove(full)
		return 0, fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(full)
		return 0, fmt.Errorf("failed to close file: %w", err)
	}
	return n, nil
}

func (s *localStorage) Open(ctx context.Context, relPath string) (io.ReadCloser, error) {
	full, err := s.resolve(relPath)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

func (s *localStorage) Delete(ctx context.Context, relPath string) error {
	full, err := s.resolve(relPath)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
