package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/prepvoice/interview-coach/errors"
)

// LocalStore persists uploaded media under a working directory. Stored names
// are prefixed with a request-scoped id so concurrent uploads with the same
// client filename cannot clobber each other.
type LocalStore struct {
	dir string
}

// NewLocalStore creates the directory if needed and returns the store.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir %s: %w", dir, err)
	}
	return &LocalStore{dir: dir}, nil
}

// Save writes the stream to disk under a sanitized name and returns the full
// path of the stored file.
func (s *LocalStore) Save(requestID uuid.UUID, filename string, r io.Reader) (string, error) {
	safe, err := SanitizeFilename(filename)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, fmt.Sprintf("%s_%s", requestID.String(), safe))
	f, err := os.Create(path)
	if err != nil {
		return "", apperrors.ErrStorageFailed("save upload", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", apperrors.ErrStorageFailed("write upload", err)
	}
	return path, nil
}

// SanitizeFilename rejects names that could escape the store directory.
// The extension is preserved because downstream format detection keys on it.
func SanitizeFilename(name string) (string, error) {
	if name == "" {
		return "", apperrors.ErrEmptyAudioFilename()
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return "", apperrors.ErrUnsafeFilename(name)
	}
	if filepath.Base(name) != name {
		return "", apperrors.ErrUnsafeFilename(name)
	}
	return name, nil
}
