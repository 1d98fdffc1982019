package config

import (
	"path/filepath"
	"strings"

	"go.trai.ch/swiftplan/internal/core/domain"
	"go.trai.ch/zerr"
)

// LoadOutputFileMap reads an output file map, resolving relative paths
// against workingDir.
func (l *Loader) LoadOutputFileMap(path string, in *domain.Interner, workingDir string) (*domain.OutputFileMap, error) {
	var raw map[string]map[string]string
	if err := l.readDocument(path, &raw, domain.ErrInvalidOutputFileMap); err != nil {
		return nil, err
	}
	return domain.OutputFileMapFromEntries(raw, in, workingDir)
}

// LoadDependencyGraph reads a precomputed module dependency graph.
func (l *Loader) LoadDependencyGraph(path string) (*domain.ModuleDependencyGraph, error) {
	var dto DependencyGraphDTO
	if err := l.readDocument(path, &dto, domain.ErrInvalidDependencyGraph); err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	g := &domain.ModuleDependencyGraph{
		MainModule: dto.MainModule,
		Modules:    make(map[domain.ModuleID]*domain.ModuleInfo, len(dto.Modules)),
	}
	for _, m := range dto.Modules {
		kind, ok := domain.ParseModuleKind(m.Kind)
		if !ok {
			return nil, domain.NewError(domain.ErrInvalidDependencyGraph, "unknown module kind", "module", m.Name, "kind", m.Kind)
		}
		if m.Name == "" {
			return nil, domain.NewError(domain.ErrInvalidDependencyGraph, "module without a name", "file", path)
		}
		info := &domain.ModuleInfo{
			ID:            domain.ModuleID{Name: m.Name, Kind: kind},
			ModulePath:    resolvePath(dir, m.ModulePath),
			InterfacePath: resolvePath(dir, m.InterfacePath),
			ModuleMapPath: resolvePath(dir, m.ModuleMapPath),
			ExtraArgs:     m.ExtraArgs,
			IsFramework:   m.IsFramework,
		}
		for _, dep := range m.Dependencies {
			id, err := parseModuleID(dep)
			if err != nil {
				return nil, zerr.With(err, "module", m.Name)
			}
			info.Dependencies = append(info.Dependencies, id)
		}
		if _, dup := g.Modules[info.ID]; dup {
			return nil, domain.NewError(domain.ErrInvalidDependencyGraph, "module listed twice", "module", info.ID.String())
		}
		g.Modules[info.ID] = info
	}
	return g, nil
}

func parseModuleID(s string) (domain.ModuleID, error) {
	kindName, name, ok := strings.Cut(s, ":")
	if !ok || name == "" {
		return domain.ModuleID{}, domain.NewError(domain.ErrInvalidDependencyGraph, "dependency must be kind:Name", "dependency", s)
	}
	kind, ok := domain.ParseModuleKind(kindName)
	if !ok {
		return domain.ModuleID{}, domain.NewError(domain.ErrInvalidDependencyGraph, "unknown module kind", "dependency", s)
	}
	return domain.ModuleID{Name: name, Kind: kind}, nil
}

// LoadPrebuiltModules reads a batch of modules to prebuild. Relative paths
// are resolved against the directory of the file.
func (l *Loader) LoadPrebuiltModules(path string) (*domain.PrebuiltModuleSet, error) {
	var dto PrebuiltSetDTO
	if err := l.readDocument(path, &dto, domain.ErrConfigParseFailed); err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	set := &domain.PrebuiltModuleSet{
		OutputDirectory:   resolvePath(dir, dto.OutputDirectory),
		BaselineDirectory: resolvePath(dir, dto.BaselineDirectory),
		DumpABI:           dto.DumpABI,
	}
	for _, m := range dto.Modules {
		module := domain.PrebuiltModule{Name: m.Name, Dependencies: m.Dependencies}
		for _, iface := range m.Interfaces {
			if iface.Arch == "" || iface.Path == "" {
				return nil, domain.NewError(domain.ErrMissingArgument, "interface needs arch and path", "module", m.Name)
			}
			module.Interfaces = append(module.Interfaces, domain.PrebuiltInterface{
				Arch: iface.Arch,
				Path: resolvePath(dir, iface.Path),
			})
		}
		set.Modules = append(set.Modules, module)
	}
	return set, nil
}

// readDocument decodes a YAML or JSON document. Parse failures are reported
// against sentinel.
func (l *Loader) readDocument(path string, target any, sentinel error) error {
	if err := l.readAndUnmarshalYAML(path, target); err != nil {
		return domain.NewError(sentinel, err.Error(), "file", path)
	}
	return nil
}
