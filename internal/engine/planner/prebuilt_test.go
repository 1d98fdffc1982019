package planner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/swiftplan/internal/core/domain"
	"go.trai.ch/swiftplan/internal/core/ports/mocks"
	"go.trai.ch/swiftplan/internal/engine/planner"
	"go.trai.ch/swiftplan/internal/engine/toolchain"
	"go.uber.org/mock/gomock"
)

func prebuiltConfig(t *testing.T, in *domain.Interner, set *domain.PrebuiltModuleSet, baselines ...string) planner.PrebuiltConfig {
	t.Helper()
	ctrl := gomock.NewController(t)
	locator := mocks.NewMockToolLocator(ctrl)
	locator.EXPECT().Locate(gomock.Any()).DoAndReturn(func(name string) (string, error) {
		return "/tc/usr/bin/" + name, nil
	}).AnyTimes()
	fs := mocks.NewMockFileSystem(ctrl)
	fs.EXPECT().Exists(gomock.Any()).DoAndReturn(func(p string) bool {
		for _, b := range baselines {
			if b == p {
				return true
			}
		}
		return false
	}).AnyTimes()

	return planner.PrebuiltConfig{
		Interner:  in,
		Toolchain: toolchain.New(domain.MustParseTriple(darwin), toolchain.Config{Interner: in, Locator: locator, FS: fs}),
		FS:        fs,
		SDKPath:   "/sdk",
		Set:       set,
	}
}

func TestPlanPrebuiltModules(t *testing.T) {
	t.Parallel()
	in := domain.NewInterner()
	set := &domain.PrebuiltModuleSet{
		OutputDirectory:   "/out",
		BaselineDirectory: "/base",
		DumpABI:           true,
		Modules: []domain.PrebuiltModule{
			{
				Name:         "UI",
				Interfaces:   []domain.PrebuiltInterface{{Arch: "arm64", Path: "/sdk/UI.swiftinterface"}},
				Dependencies: []string{"Core", "Foundation"},
			},
			{
				Name: "Core",
				Interfaces: []domain.PrebuiltInterface{
					{Arch: "arm64", Path: "/sdk/Core-arm64.swiftinterface"},
					{Arch: "x86_64", Path: "/sdk/Core-x86_64.swiftinterface"},
				},
			},
		},
	}

	jobs, err := planner.PlanPrebuiltModules(prebuiltConfig(t, in, set, "/base/UI.swiftmodule/arm64.abi.json"))
	require.NoError(t, err)

	require.Equal(t, []domain.JobKind{
		domain.JobCompileModuleFromInterface, domain.JobGenerateABIBaseline,
		domain.JobCompileModuleFromInterface, domain.JobGenerateABIBaseline,
		domain.JobCompileModuleFromInterface, domain.JobGenerateABIBaseline,
		domain.JobCompareABIBaseline,
	}, kinds(jobs))

	coreARM := jobs[0]
	assert.Equal(t, "Core", coreARM.ModuleName)
	assert.Equal(t, domain.Absolute("/out/Core.swiftmodule/arm64.swiftmodule"), in.Lookup(coreARM.Outputs[0].File))
	assert.True(t, coreARM.HasArgument("arm64-apple-macosx13.0"))
	assert.True(t, jobs[2].HasArgument("x86_64-apple-macosx13.0"))

	ui := jobs[4]
	assert.Equal(t, "UI", ui.ModuleName)
	assert.Contains(t, ui.Inputs, coreARM.Outputs[0])
	assert.NotContains(t, ui.Inputs, jobs[2].Outputs[0])

	compare := jobs[6]
	assert.Equal(t, "UI", compare.ModuleName)
	assert.Contains(t, compare.Inputs, jobs[5].Outputs[0])
	assert.True(t, compare.HasArgument("-input-paths"))
	assertNoForwardReferences(t, jobs)
}

func TestPlanPrebuiltModules_WithoutABIDump(t *testing.T) {
	t.Parallel()
	in := domain.NewInterner()
	set := &domain.PrebuiltModuleSet{
		OutputDirectory:   "/out",
		BaselineDirectory: "/base",
		Modules: []domain.PrebuiltModule{
			{Name: "Core", Interfaces: []domain.PrebuiltInterface{{Arch: "arm64", Path: "/sdk/Core.swiftinterface"}}},
		},
	}

	jobs, err := planner.PlanPrebuiltModules(prebuiltConfig(t, in, set, "/base/Core.swiftmodule/arm64.abi.json"))
	require.NoError(t, err)

	require.Equal(t, []domain.JobKind{domain.JobCompileModuleFromInterface, domain.JobCompareABIBaseline}, kinds(jobs))
	assert.Contains(t, jobs[1].Inputs, jobs[0].Outputs[0])
	assert.False(t, jobs[1].HasArgument("-input-paths"))
}

func TestPlanPrebuiltModules_Cycle(t *testing.T) {
	t.Parallel()
	in := domain.NewInterner()
	set := &domain.PrebuiltModuleSet{
		OutputDirectory: "/out",
		Modules: []domain.PrebuiltModule{
			{Name: "A", Dependencies: []string{"B"}},
			{Name: "B", Dependencies: []string{"A"}},
		},
	}

	_, err := planner.PlanPrebuiltModules(prebuiltConfig(t, in, set))
	require.ErrorIs(t, err, domain.ErrInvalidDependencyGraph)
}

func TestPlanPrebuiltModules_RequiresOutputDirectory(t *testing.T) {
	t.Parallel()
	in := domain.NewInterner()

	_, err := planner.PlanPrebuiltModules(prebuiltConfig(t, in, &domain.PrebuiltModuleSet{}))
	require.ErrorIs(t, err, domain.ErrMissingArgument)
}
