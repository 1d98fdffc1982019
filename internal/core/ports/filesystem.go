package ports

// FileSystem is the narrow set of file operations planning and execution need.
//
//go:generate mockgen -source=filesystem.go -destination=mocks/mock_filesystem.go -package=mocks
type FileSystem interface {
	// Exists reports whether path exists.
	Exists(path string) bool

	// IsDir reports whether path exists and is a directory.
	IsDir(path string) bool

	// ReadFile returns the contents of path.
	ReadFile(path string) ([]byte, error)

	// WriteFile writes data to path, creating parent directories.
	WriteFile(path string, data []byte) error

	// MkdirAll creates path and any missing parents.
	MkdirAll(path string) error

	// RemoveAll deletes path and everything below it.
	RemoveAll(path string) error
}
