package fs

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.trai.ch/swiftplan/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileSystem = (*MemFileSystem)(nil)

// MemFileSystem is an in-memory ports.FileSystem. Paths are cleaned before
// use; directories exist implicitly above every file.
type MemFileSystem struct {
	mu    sync.RWMutex
	files map[string][]byte
	dirs  map[string]bool
}

// NewMemFileSystem creates a MemFileSystem holding files.
func NewMemFileSystem(files map[string]string) *MemFileSystem {
	m := &MemFileSystem{
		files: make(map[string][]byte, len(files)),
		dirs:  make(map[string]bool),
	}
	for path, data := range files {
		m.put(filepath.Clean(path), []byte(data))
	}
	return m
}

// Exists reports whether path is a file or directory.
func (m *MemFileSystem) Exists(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	path = filepath.Clean(path)
	_, ok := m.files[path]
	return ok || m.dirs[path]
}

// IsDir reports whether path is a directory.
func (m *MemFileSystem) IsDir(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dirs[filepath.Clean(path)]
}

// ReadFile returns a copy of the contents of path.
func (m *MemFileSystem) ReadFile(path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.files[filepath.Clean(path)]
	if !ok {
		return nil, zerr.With(zerr.Wrap(os.ErrNotExist, "failed to read file"), "path", path)
	}
	return append([]byte(nil), data...), nil
}

// WriteFile stores a copy of data at path.
func (m *MemFileSystem) WriteFile(path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path = filepath.Clean(path)
	if m.dirs[path] {
		return zerr.With(zerr.New("path is a directory"), "path", path)
	}
	m.put(path, append([]byte(nil), data...))
	return nil
}

// MkdirAll records path and its parents as directories.
func (m *MemFileSystem) MkdirAll(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path = filepath.Clean(path)
	if _, ok := m.files[path]; ok {
		return zerr.With(zerr.New("path is a file"), "path", path)
	}
	m.mkdirs(path)
	return nil
}

// RemoveAll deletes path and everything below it.
func (m *MemFileSystem) RemoveAll(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path = filepath.Clean(path)
	prefix := path + string(filepath.Separator)
	for p := range m.files {
		if p == path || strings.HasPrefix(p, prefix) {
			delete(m.files, p)
		}
	}
	for p := range m.dirs {
		if p == path || strings.HasPrefix(p, prefix) {
			delete(m.dirs, p)
		}
	}
	return nil
}

// Files returns the paths of all stored files in lexical order.
func (m *MemFileSystem) Files() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (m *MemFileSystem) put(path string, data []byte) {
	m.files[path] = data
	m.mkdirs(filepath.Dir(path))
}

func (m *MemFileSystem) mkdirs(path string) {
	for {
		m.dirs[path] = true
		parent := filepath.Dir(path)
		if parent == path {
			return
		}
		path = parent
	}
}
