package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/swiftplan/internal/adapters/config"
	"go.trai.ch/swiftplan/internal/adapters/fs"
	"go.trai.ch/swiftplan/internal/core/domain"
	"go.trai.ch/swiftplan/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newLoader(t *testing.T, files map[string]string) *config.Loader {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Debug(gomock.Any()).AnyTimes()
	return config.NewLoader(mockLogger, fs.NewMemFileSystem(files))
}

func TestLoader_Load_DiscoversUpwards(t *testing.T) {
	t.Parallel()
	loader := newLoader(t, map[string]string{
		"/work/swiftplan.yaml": `
version: "1"
toolchain: toolchain/usr/bin
temporaryDirectory: /var/tmp/swiftplan
parallelism: 4
staticTargetInfo: true
responseFiles: always
environment:
  SWIFT_DETERMINISTIC_HASHING: "1"
`,
		"/work/Sources/App/main.swift": "print(1)\n",
	})

	cfg, err := loader.Load("/work/Sources/App")
	require.NoError(t, err)

	assert.Equal(t, "/work", cfg.Root)
	assert.Equal(t, "/work/toolchain/usr/bin", cfg.ToolchainDir)
	assert.Equal(t, "/var/tmp/swiftplan", cfg.TemporaryDirectory)
	assert.Equal(t, 4, cfg.Parallelism)
	assert.Empty(t, cfg.CacheDirectory)
	assert.True(t, cfg.StaticTargetInfo)
	assert.Equal(t, domain.ResponseFilesAlways, cfg.ResponseFiles)
	assert.Equal(t, map[string]string{"SWIFT_DETERMINISTIC_HASHING": "1"}, cfg.Environment)

	root, err := loader.DiscoverRoot("/work/Sources/App")
	require.NoError(t, err)
	assert.Equal(t, "/work", root)
}

func TestLoader_Load_MissingFileUsesDefaults(t *testing.T) {
	t.Parallel()
	loader := newLoader(t, map[string]string{"/proj/main.swift": ""})

	cfg, err := loader.Load("/proj")
	require.NoError(t, err)
	assert.Equal(t, &domain.DriverConfig{Root: "/proj"}, cfg)

	root, err := loader.DiscoverRoot("/proj")
	require.NoError(t, err)
	assert.Equal(t, "/proj", root)
}

func TestLoader_Load_Invalid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{name: "negative parallelism", content: "parallelism: -1\n", want: domain.ErrConfigParseFailed},
		{name: "unknown response policy", content: "responseFiles: sometimes\n", want: domain.ErrConfigParseFailed},
		{name: "bad environment key", content: "environment:\n  \"A=B\": x\n", want: domain.ErrConfigParseFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			loader := newLoader(t, map[string]string{"/p/swiftplan.yaml": tt.content})
			_, err := loader.Load("/p")
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoader_Load_MalformedYAML(t *testing.T) {
	t.Parallel()
	loader := newLoader(t, map[string]string{"/p/swiftplan.yaml": "parallelism: [1, 2\n"})

	_, err := loader.Load("/p")
	require.ErrorIs(t, err, domain.ErrConfigParseFailed)
}

func TestLoader_LoadOutputFileMap(t *testing.T) {
	t.Parallel()
	loader := newLoader(t, map[string]string{
		"/b/ofm.json": `{
  "": {"swiftmodule": "out/App.swiftmodule", "swift-dependencies": "out/App.swiftdeps"},
  "main.swift": {"object": "out/main.o", "diagnostics": "out/main.dia"}
}`,
	})

	in := domain.NewInterner()
	ofm, err := loader.LoadOutputFileMap("/b/ofm.json", in, "/b")
	require.NoError(t, err)

	main := in.Intern(domain.Absolute("/b/main.swift"))
	obj, ok := ofm.Output(in, main, domain.FileTypeObject)
	require.True(t, ok)
	assert.Equal(t, domain.Absolute("/b/out/main.o"), in.Lookup(obj))

	module, ok := ofm.Output(in, domain.NoPath, domain.FileTypeSwiftModule)
	require.True(t, ok)
	assert.Equal(t, domain.Absolute("/b/out/App.swiftmodule"), in.Lookup(module))
}

func TestLoader_LoadOutputFileMap_Errors(t *testing.T) {
	t.Parallel()
	loader := newLoader(t, map[string]string{
		"/b/bad-type.json": `{"a.swift": {"executable": "a"}}`,
		"/b/bad-json.json": `{"a.swift": `,
	})
	in := domain.NewInterner()

	_, err := loader.LoadOutputFileMap("/b/bad-type.json", in, "/b")
	require.ErrorIs(t, err, domain.ErrInvalidOutputFileMap)

	_, err = loader.LoadOutputFileMap("/b/bad-json.json", in, "/b")
	require.ErrorIs(t, err, domain.ErrInvalidOutputFileMap)

	_, err = loader.LoadOutputFileMap("/b/missing.json", in, "/b")
	require.ErrorIs(t, err, domain.ErrInvalidOutputFileMap)
}

func TestLoader_LoadDependencyGraph(t *testing.T) {
	t.Parallel()
	loader := newLoader(t, map[string]string{
		"/deps/graph.yaml": `
mainModule: App
modules:
  - name: App
    kind: swift
    dependencies: ["swift:Core", "clang:SwiftShims"]
  - name: Core
    kind: swift
    interfacePath: sdk/Core.swiftinterface
    modulePath: cache/Core.swiftmodule
    extraArgs: ["-enable-library-evolution"]
    dependencies: ["clang:SwiftShims"]
  - name: SwiftShims
    kind: clang
    moduleMapPath: /usr/lib/swift/shims/module.modulemap
    modulePath: cache/SwiftShims.pcm
`,
	})

	g, err := loader.LoadDependencyGraph("/deps/graph.yaml")
	require.NoError(t, err)
	assert.Equal(t, "App", g.MainModule)
	require.Len(t, g.Modules, 3)

	core, ok := g.Module(domain.ModuleID{Name: "Core", Kind: domain.ModuleSwift})
	require.True(t, ok)
	assert.Equal(t, "/deps/sdk/Core.swiftinterface", core.InterfacePath)
	assert.Equal(t, "/deps/cache/Core.swiftmodule", core.ModulePath)
	assert.Equal(t, []string{"-enable-library-evolution"}, core.ExtraArgs)

	order, err := g.TopologicalOrder()
	require.NoError(t, err)
	assert.Equal(t, domain.ModuleID{Name: "SwiftShims", Kind: domain.ModuleClang}, order[0])
	assert.Equal(t, "App", order[2].Name)
}

func TestLoader_LoadDependencyGraph_Errors(t *testing.T) {
	t.Parallel()
	loader := newLoader(t, map[string]string{
		"/g/kind.yaml": "modules:\n  - name: A\n    kind: rust\n",
		"/g/dep.yaml":  "modules:\n  - name: A\n    kind: swift\n    dependencies: [B]\n",
		"/g/dup.yaml":  "modules:\n  - name: A\n    kind: swift\n  - name: A\n    kind: swift\n",
	})

	for _, file := range []string{"/g/kind.yaml", "/g/dep.yaml", "/g/dup.yaml"} {
		_, err := loader.LoadDependencyGraph(file)
		require.ErrorIs(t, err, domain.ErrInvalidDependencyGraph, file)
	}
}

func TestLoader_LoadPrebuiltModules(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	content := `
outputDirectory: prebuilt
baselineDirectory: /baselines
dumpABI: true
modules:
  - name: Core
    interfaces:
      - {arch: arm64, path: sdk/Core.swiftmodule/arm64.swiftinterface}
  - name: UI
    interfaces:
      - {arch: arm64, path: /abs/UI.swiftinterface}
    dependencies: [Core]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "prebuilt.yaml"), []byte(content), 0o600))

	ctrl := gomock.NewController(t)
	loader := config.NewLoader(mocks.NewMockLogger(ctrl), fs.NewOSFileSystem())

	set, err := loader.LoadPrebuiltModules(filepath.Join(dir, "prebuilt.yaml"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "prebuilt"), set.OutputDirectory)
	assert.Equal(t, "/baselines", set.BaselineDirectory)
	assert.True(t, set.DumpABI)
	require.Len(t, set.Modules, 2)
	assert.Equal(t, filepath.Join(dir, "sdk/Core.swiftmodule/arm64.swiftinterface"), set.Modules[0].Interfaces[0].Path)
	assert.Equal(t, []string{"Core"}, set.Modules[1].Dependencies)
}

func TestLoader_LoadPrebuiltModules_MissingArch(t *testing.T) {
	t.Parallel()
	loader := newLoader(t, map[string]string{
		"/p/set.yaml": "outputDirectory: out\nmodules:\n  - name: Core\n    interfaces:\n      - {path: Core.swiftinterface}\n",
	})

	_, err := loader.LoadPrebuiltModules("/p/set.yaml")
	require.ErrorIs(t, err, domain.ErrMissingArgument)
}
