package domain

import "path/filepath"

const (
	// WorkspaceDirName is the name of the per-project metadata directory.
	WorkspaceDirName = ".swiftplan"

	// StoreDirName is the name of the output cache key store directory.
	StoreDirName = "store"

	// TempDirName is the name of the default temporary directory for job files.
	TempDirName = "tmp"

	// ConfigFileName is the name of the driver configuration file.
	ConfigFileName = "swiftplan.yaml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultStorePath returns the default path for the cache key store.
// It joins .swiftplan and store.
func DefaultStorePath() string {
	return filepath.Join(WorkspaceDirName, StoreDirName)
}

// DefaultTempPath returns the default directory for temporary job files.
// It joins .swiftplan and tmp.
func DefaultTempPath() string {
	return filepath.Join(WorkspaceDirName, TempDirName)
}
