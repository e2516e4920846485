// Package blob implements the opaque file store on the local filesystem.
// Stored names are generated, so caller-supplied filenames never touch the
// disk layout; the original name survives only in the returned FileRef.
package blob

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sitebeam/construction-system/internal/core/domain"
)

// LocalStore stores blobs under a base directory and addresses them by a
// relative path.
type LocalStore struct {
	baseDir string
}

// NewLocalStore creates the base directory when missing.
func NewLocalStore(baseDir string) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("blob store: create dir: %w", err)
	}
	return &LocalStore{baseDir: baseDir}, nil
}

// Save writes the content under a random name keeping a sanitized extension,
// and returns the relative path plus the original filename.
func (s *LocalStore) Save(_ context.Context, filename string, r io.Reader) (domain.FileRef, error) {
	name, err := randomName(filename)
	if err != nil {
		return domain.FileRef{}, err
	}

	full := filepath.Join(s.baseDir, name)
	f, err := os.Create(full)
	if err != nil {
		return domain.FileRef{}, fmt.Errorf("blob store: create: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(full)
		return domain.FileRef{}, fmt.Errorf("blob store: write: %w", err)
	}

	return domain.FileRef{Path: name, Filename: filepath.Base(filename)}, nil
}

// Open returns a reader over a previously saved blob. The path is resolved
// strictly inside the base directory.
func (s *LocalStore) Open(_ context.Context, path string) (io.ReadCloser, error) {
	clean := filepath.Clean(path)
	if strings.Contains(clean, "..") || filepath.IsAbs(clean) {
		return nil, fmt.Errorf("blob store: invalid path %q", path)
	}

	f, err := os.Open(filepath.Join(s.baseDir, clean))
	if err != nil {
		return nil, fmt.Errorf("blob store: open: %w", err)
	}
	return f, nil
}

func randomName(filename string) (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("blob store: random name: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if len(ext) > 8 {
		ext = ""
	}
	return fmt.Sprintf("%x%s", b, ext), nil
}
