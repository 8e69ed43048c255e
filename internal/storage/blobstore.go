package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const urlPrefix = "/uploads/"

// BlobStore stores attachment payloads under generated names. Delete is
// best-effort at every call site; a failed blob delete never blocks the
// metadata row removal.
type BlobStore interface {
	Put(r io.Reader, suggestedName string) (url string, size int64, err error)
	Delete(url string) error
}

// LocalBlobStore keeps blobs on the local filesystem, served under /uploads.
type LocalBlobStore struct {
	dir string
}

func NewLocalBlobStore(dir string) (*LocalBlobStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalBlobStore{dir: dir}, nil
}

// Dir returns the directory blobs are written to, for static file serving.
func (s *LocalBlobStore) Dir() string {
	return s.dir
}

// Put writes the payload under a collision-resistant generated name and
// returns its serving URL and size.
func (s *LocalBlobStore) Put(r io.Reader, suggestedName string) (string, int64, error) {
	name := GenerateBlobName(suggestedName)

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", 0, fmt.Errorf("failed to create blob: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		os.Remove(f.Name())
		return "", 0, fmt.Errorf("failed to write blob: %w", err)
	}

	return urlPrefix + name, size, nil
}

// Delete removes the blob behind a URL previously returned by Put.
func (s *LocalBlobStore) Delete(url string) error {
	name, ok := strings.CutPrefix(url, urlPrefix)
	if !ok || name == "" {
		return fmt.Errorf("not a managed blob url: %s", url)
	}
	// Base strips any path traversal left in a stored URL.
	return os.Remove(filepath.Join(s.dir, filepath.Base(name)))
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// GenerateBlobName builds a collision-resistant name from a millisecond
// timestamp, a random suffix, and the sanitized original filename.
func GenerateBlobName(original string) string {
	safe := unsafeNameChars.ReplaceAllString(filepath.Base(original), "_")
	return fmt.Sprintf("%d-%s-%s", time.Now().UnixMilli(), uuid.NewString()[:8], safe)
}
