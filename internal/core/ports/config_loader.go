package ports

import "go.trai.ch/swiftplan/internal/core/domain"

// ConfigLoader defines the interface for loading driver configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load finds swiftplan.yaml from cwd upwards and decodes it.
	// A missing file yields the zero configuration rooted at cwd.
	Load(cwd string) (*domain.DriverConfig, error)

	// DiscoverRoot walks up from cwd to the directory holding swiftplan.yaml.
	DiscoverRoot(cwd string) (string, error)
}

// PlanInputLoader reads the auxiliary documents a plan can depend on.
type PlanInputLoader interface {
	// LoadOutputFileMap reads an output file map, resolving relative paths
	// against workingDir.
	LoadOutputFileMap(path string, in *domain.Interner, workingDir string) (*domain.OutputFileMap, error)

	// LoadDependencyGraph reads a precomputed module dependency graph.
	LoadDependencyGraph(path string) (*domain.ModuleDependencyGraph, error)

	// LoadPrebuiltModules reads a batch of modules to prebuild.
	LoadPrebuiltModules(path string) (*domain.PrebuiltModuleSet, error)
}
