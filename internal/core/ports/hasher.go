package ports

// Hasher digests the contents of files.
//
//go:generate mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// ComputeInputHash returns a digest over the paths and their contents.
	// Directories are walked. A missing path is an error.
	ComputeInputHash(paths []string) (string, error)
}
