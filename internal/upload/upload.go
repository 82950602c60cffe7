// Package upload stores cover files for posts.
//
// Files land under a random name with no extension first, and are then
// renamed with the original filename's extension appended. The stored
// reference therefore always ends with the extension the client uploaded,
// whatever the intermediate name was.
package upload

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store writes uploaded files into a single directory.
type Store struct {
	dir string
}

// NewStore creates the upload directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory files are stored in.
func (s *Store) Dir() string { return s.dir }

// Save persists one uploaded file and returns its stored reference, relative
// to the store directory.
func (s *Store) Save(src io.Reader, originalName string) (string, error) {
	tmpName := uuid.NewString()
	tmpPath := filepath.Join(s.dir, tmpName)

	dst, err := os.Create(tmpPath)
	if err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("store upload: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("store upload: %w", err)
	}

	// The last dot-separated segment of the client's filename. A name with
	// no dot keeps the whole name as its "extension".
	parts := strings.Split(originalName, ".")
	ext := parts[len(parts)-1]

	finalName := tmpName + "." + ext
	if err := os.Rename(tmpPath, filepath.Join(s.dir, finalName)); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("rename upload: %w", err)
	}
	return finalName, nil
}
