package domain

import (
	"sort"
)

// ModuleKind distinguishes the modules of an explicit module build.
type ModuleKind uint8

const (
	// ModuleSwift is built from a textual .swiftinterface.
	ModuleSwift ModuleKind = iota + 1
	// ModuleSwiftPrebuilt is an existing binary .swiftmodule.
	ModuleSwiftPrebuilt
	// ModuleClang is built from a module map into a .pcm.
	ModuleClang
)

// ParseModuleKind resolves the serialized name of a module kind.
func ParseModuleKind(s string) (ModuleKind, bool) {
	switch s {
	case "swift", "swiftInterface":
		return ModuleSwift, true
	case "swiftPrebuilt", "swiftBinary":
		return ModuleSwiftPrebuilt, true
	case "clang":
		return ModuleClang, true
	default:
		return 0, false
	}
}

func (k ModuleKind) String() string {
	switch k {
	case ModuleSwift:
		return "swift"
	case ModuleSwiftPrebuilt:
		return "swiftPrebuilt"
	case ModuleClang:
		return "clang"
	default:
		return "invalid"
	}
}

// ModuleID names a module within a dependency graph.
type ModuleID struct {
	Name string
	Kind ModuleKind
}

func (id ModuleID) String() string {
	return id.Kind.String() + ":" + id.Name
}

// ModuleInfo is one node of a precomputed module dependency graph.
type ModuleInfo struct {
	ID ModuleID
	// ModulePath is where the built module is placed.
	ModulePath string
	// InterfacePath is the textual interface of a Swift module.
	InterfacePath string
	// ModuleMapPath is the module map of a Clang module.
	ModuleMapPath string
	// ExtraArgs are additional frontend arguments recorded by the scanner.
	ExtraArgs    []string
	Dependencies []ModuleID
	IsFramework  bool
}

// ModuleDependencyGraph is the result of dependency scanning, consumed as data.
type ModuleDependencyGraph struct {
	MainModule string
	Modules    map[ModuleID]*ModuleInfo
}

// Module returns the node for id.
func (g *ModuleDependencyGraph) Module(id ModuleID) (*ModuleInfo, bool) {
	m, ok := g.Modules[id]
	return m, ok
}

// TopologicalOrder lists every module so that dependencies precede dependents.
// Ties are broken by module name.
func (g *ModuleDependencyGraph) TopologicalOrder() ([]ModuleID, error) {
	ids := make([]ModuleID, 0, len(g.Modules))
	for id := range g.Modules {
		ids = append(ids, id)
	}
	sortModuleIDs(ids)

	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[ModuleID]int, len(ids))
	order := make([]ModuleID, 0, len(ids))

	var visit func(id ModuleID, from ModuleID) error
	visit = func(id ModuleID, from ModuleID) error {
		m, ok := g.Modules[id]
		if !ok {
			return newError(ErrMissingModuleDependency, "dependency not in graph", "module", from.String(), "dependency", id.String())
		}
		switch state[id] {
		case done:
			return nil
		case visiting:
			return newError(ErrInvalidDependencyGraph, "dependency cycle", "module", id.String())
		}
		state[id] = visiting
		deps := append([]ModuleID(nil), m.Dependencies...)
		sortModuleIDs(deps)
		for _, dep := range deps {
			if err := visit(dep, id); err != nil {
				return err
			}
		}
		state[id] = done
		order = append(order, id)
		return nil
	}

	for _, id := range ids {
		if err := visit(id, id); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// TransitiveDependencies returns every module reachable from id, excluding id.
func (g *ModuleDependencyGraph) TransitiveDependencies(id ModuleID) []ModuleID {
	seen := make(map[ModuleID]bool)
	var walk func(ModuleID)
	walk = func(cur ModuleID) {
		m, ok := g.Modules[cur]
		if !ok {
			return
		}
		for _, dep := range m.Dependencies {
			if !seen[dep] {
				seen[dep] = true
				walk(dep)
			}
		}
	}
	walk(id)
	out := make([]ModuleID, 0, len(seen))
	for dep := range seen {
		out = append(out, dep)
	}
	sortModuleIDs(out)
	return out
}

func sortModuleIDs(ids []ModuleID) {
	sort.Slice(ids, func(i, j int) bool {
		if ids[i].Name != ids[j].Name {
			return ids[i].Name < ids[j].Name
		}
		return ids[i].Kind < ids[j].Kind
	})
}

// PrebuiltInterface is one architecture slice of a module interface to prebuild.
type PrebuiltInterface struct {
	Arch string
	Path string
}

// PrebuiltModule is a module whose interfaces are compiled ahead of time.
type PrebuiltModule struct {
	Name         string
	Interfaces   []PrebuiltInterface
	Dependencies []string
}

// PrebuiltModuleSet describes a batch of modules to prebuild from their interfaces.
type PrebuiltModuleSet struct {
	OutputDirectory string
	// BaselineDirectory holds ABI baselines to compare against; empty disables comparison.
	BaselineDirectory string
	DumpABI           bool
	Modules           []PrebuiltModule
}

// Graph converts the set into a dependency graph of Swift modules so the
// batch can be ordered.
func (s *PrebuiltModuleSet) Graph() *ModuleDependencyGraph {
	g := &ModuleDependencyGraph{Modules: make(map[ModuleID]*ModuleInfo, len(s.Modules))}
	known := make(map[string]bool, len(s.Modules))
	for _, m := range s.Modules {
		known[m.Name] = true
	}
	for _, m := range s.Modules {
		info := &ModuleInfo{ID: ModuleID{Name: m.Name, Kind: ModuleSwift}}
		for _, dep := range m.Dependencies {
			// Dependencies outside the batch are expected to exist already.
			if known[dep] {
				info.Dependencies = append(info.Dependencies, ModuleID{Name: dep, Kind: ModuleSwift})
			}
		}
		g.Modules[info.ID] = info
	}
	return g
}
