// Package files is the attachment blob store. Files live under a bucket
// directory on local disk; callers persist the returned storage-relative
// path, never a public URL.
package files

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type Store struct {
	root string
}

// NewStore creates the store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Store{root: dir}, nil
}

// Save writes the file under bucket and returns its storage path
// ("bucket/<uuid>-<name>"). The original name is kept for display but
// sanitized so it cannot escape the bucket.
func (s *Store) Save(bucket, name string, r io.Reader) (string, error) {
	dir := filepath.Join(s.root, bucket)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	safe := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	stored := uuid.New().String() + "-" + safe

	f, err := os.Create(filepath.Join(dir, stored))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return bucket + "/" + stored, nil
}

// Open returns a reader for a previously stored path.
func (s *Store) Open(path string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.root, filepath.FromSlash(path)))
}
