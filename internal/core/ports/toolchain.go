package ports

// ToolLocator finds external executables.
//
//go:generate mockgen -source=toolchain.go -destination=mocks/mock_toolchain.go -package=mocks
type ToolLocator interface {
	// Locate returns the absolute path of executable, or an error wrapping
	// domain.ErrToolNotFound naming it.
	Locate(executable string) (string, error)
}
