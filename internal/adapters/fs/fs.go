// Package fs provides file system adapters for walking, hashing and
// touching the files a plan reads and writes.
package fs

import (
	"os"
	"path/filepath"

	"go.trai.ch/swiftplan/internal/core/domain"
	"go.trai.ch/swiftplan/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileSystem = (*OSFileSystem)(nil)

// OSFileSystem implements ports.FileSystem on the local disk.
type OSFileSystem struct{}

// NewOSFileSystem creates a new OSFileSystem.
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

// Exists reports whether path exists.
func (f *OSFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir reports whether path is a directory.
func (f *OSFileSystem) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// ReadFile returns the contents of path.
func (f *OSFileSystem) ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read file"), "path", path)
	}
	return data, nil
}

// WriteFile writes data to path, creating missing parent directories.
func (f *OSFileSystem) WriteFile(path string, data []byte) error {
	if err := f.MkdirAll(filepath.Dir(path)); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write file"), "path", path)
	}
	return nil
}

// MkdirAll creates path and any missing parents.
func (f *OSFileSystem) MkdirAll(path string) error {
	if err := os.MkdirAll(path, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", path)
	}
	return nil
}

// RemoveAll deletes path and everything below it.
func (f *OSFileSystem) RemoveAll(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to remove path"), "path", path)
	}
	return nil
}
