package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/swiftplan/internal/core/domain"
)

func swiftID(name string) domain.ModuleID {
	return domain.ModuleID{Name: name, Kind: domain.ModuleSwift}
}

func clangID(name string) domain.ModuleID {
	return domain.ModuleID{Name: name, Kind: domain.ModuleClang}
}

func TestModuleDependencyGraph_TopologicalOrder(t *testing.T) {
	t.Parallel()

	g := &domain.ModuleDependencyGraph{
		MainModule: "App",
		Modules: map[domain.ModuleID]*domain.ModuleInfo{
			swiftID("App"):        {ID: swiftID("App"), Dependencies: []domain.ModuleID{swiftID("Foundation"), clangID("SQLite")}},
			swiftID("Foundation"): {ID: swiftID("Foundation"), Dependencies: []domain.ModuleID{swiftID("Swift")}},
			swiftID("Swift"):      {ID: swiftID("Swift"), Dependencies: []domain.ModuleID{clangID("SwiftShims")}},
			clangID("SwiftShims"): {ID: clangID("SwiftShims")},
			clangID("SQLite"):     {ID: clangID("SQLite")},
		},
	}

	order, err := g.TopologicalOrder()
	require.NoError(t, err)
	require.Len(t, order, 5)

	position := make(map[domain.ModuleID]int)
	for i, id := range order {
		position[id] = i
	}
	for id, m := range g.Modules {
		for _, dep := range m.Dependencies {
			assert.Less(t, position[dep], position[id], "%s must precede %s", dep, id)
		}
	}
	assert.Equal(t, swiftID("App"), order[len(order)-1])

	assert.ElementsMatch(t,
		[]domain.ModuleID{clangID("SwiftShims"), swiftID("Swift")},
		g.TransitiveDependencies(swiftID("Foundation")),
	)
}

func TestModuleDependencyGraph_Errors(t *testing.T) {
	t.Parallel()

	missing := &domain.ModuleDependencyGraph{
		Modules: map[domain.ModuleID]*domain.ModuleInfo{
			swiftID("App"): {ID: swiftID("App"), Dependencies: []domain.ModuleID{swiftID("Gone")}},
		},
	}
	_, err := missing.TopologicalOrder()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMissingModuleDependency))

	cyclic := &domain.ModuleDependencyGraph{
		Modules: map[domain.ModuleID]*domain.ModuleInfo{
			swiftID("A"): {ID: swiftID("A"), Dependencies: []domain.ModuleID{swiftID("B")}},
			swiftID("B"): {ID: swiftID("B"), Dependencies: []domain.ModuleID{swiftID("A")}},
		},
	}
	_, err = cyclic.TopologicalOrder()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidDependencyGraph))
}

func TestPrebuiltModuleSet_Graph(t *testing.T) {
	t.Parallel()

	set := &domain.PrebuiltModuleSet{
		Modules: []domain.PrebuiltModule{
			{Name: "Foundation", Dependencies: []string{"Swift", "Darwin"}},
			{Name: "Swift"},
		},
	}
	g := set.Graph()
	foundation, ok := g.Module(swiftID("Foundation"))
	require.True(t, ok)
	assert.Equal(t, []domain.ModuleID{swiftID("Swift")}, foundation.Dependencies)
}
