package config

// Configfile represents the structure of the swiftplan.yaml configuration file.
type Configfile struct {
	Version            string            `yaml:"version"`
	Toolchain          string            `yaml:"toolchain"`
	TemporaryDirectory string            `yaml:"temporaryDirectory"`
	Parallelism        int               `yaml:"parallelism"`
	CacheDirectory     string            `yaml:"cacheDirectory"`
	StaticTargetInfo   bool              `yaml:"staticTargetInfo"`
	Environment        map[string]string `yaml:"environment"`
	ResponseFiles      string            `yaml:"responseFiles"`
}

// DependencyGraphDTO is a precomputed module dependency graph.
type DependencyGraphDTO struct {
	MainModule string       `yaml:"mainModule"`
	Modules    []*ModuleDTO `yaml:"modules"`
}

// ModuleDTO is one module of a dependency graph. Dependencies are written
// as "kind:Name", for example "clang:SwiftShims".
type ModuleDTO struct {
	Name          string   `yaml:"name"`
	Kind          string   `yaml:"kind"`
	ModulePath    string   `yaml:"modulePath"`
	InterfacePath string   `yaml:"interfacePath"`
	ModuleMapPath string   `yaml:"moduleMapPath"`
	ExtraArgs     []string `yaml:"extraArgs"`
	IsFramework   bool     `yaml:"isFramework"`
	Dependencies  []string `yaml:"dependencies"`
}

// PrebuiltSetDTO describes modules to compile from their interfaces.
type PrebuiltSetDTO struct {
	OutputDirectory   string               `yaml:"outputDirectory"`
	BaselineDirectory string               `yaml:"baselineDirectory"`
	DumpABI           bool                 `yaml:"dumpABI"`
	Modules           []*PrebuiltModuleDTO `yaml:"modules"`
}

// PrebuiltModuleDTO is one module of a prebuilt set.
type PrebuiltModuleDTO struct {
	Name         string                  `yaml:"name"`
	Interfaces   []*PrebuiltInterfaceDTO `yaml:"interfaces"`
	Dependencies []string                `yaml:"dependencies"`
}

// PrebuiltInterfaceDTO is one architecture slice of a module interface.
type PrebuiltInterfaceDTO struct {
	Arch string `yaml:"arch"`
	Path string `yaml:"path"`
}
