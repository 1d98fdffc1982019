package toolchain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/swiftplan/internal/core/domain"
	"go.trai.ch/swiftplan/internal/core/ports/mocks"
	"go.trai.ch/swiftplan/internal/engine/commandline"
	"go.trai.ch/swiftplan/internal/engine/toolchain"
	"go.uber.org/mock/gomock"
)

func TestUnix_LinkExecutable(t *testing.T) {
	t.Parallel()

	in := domain.NewInterner()
	tc := newToolchain(t, "x86_64-unknown-linux-gnu", toolchain.Config{Interner: in})

	tool, args, err := tc.LinkerArguments(&toolchain.LinkRequest{
		OutputType: domain.LinkExecutable,
		Inputs: []domain.TypedVirtualPath{
			object(in, "/build/main.o"),
			{File: in.Intern(domain.Absolute("/build/main.autolink")), Type: domain.FileTypeAutolink},
			{File: in.Intern(domain.Absolute("/build/main.swiftmodule")), Type: domain.FileTypeSwiftModule},
		},
		Output:     in.Intern(domain.Absolute("/build/main")),
		Options:    parse(t),
		TargetInfo: targetInfo("/tc/usr/lib/swift/linux"),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ToolDynamicLinker, tool)
	assert.Equal(t, []string{
		"--target=x86_64-unknown-linux-gnu",
		"-Xlinker", "-rpath", "-Xlinker", "/tc/usr/lib/swift/linux",
		"/tc/usr/lib/swift/linux/x86_64/swiftrt.o",
		"/build/main.o",
		"@/build/main.autolink",
		"-L/tc/usr/lib/swift/linux",
		"-lswiftCore",
		"-o", "/build/main",
	}, render(t, in, args))
}

func TestUnix_LinkStaticStdlib(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	fs := mocks.NewMockFileSystem(ctrl)
	fs.EXPECT().Exists("/tc/usr/lib/swift_static/linux/static-stdlib-args.lnk").Return(true)

	in := domain.NewInterner()
	tc := newToolchain(t, "x86_64-unknown-linux-gnu", toolchain.Config{Interner: in, FS: fs})

	_, args, err := tc.LinkerArguments(&toolchain.LinkRequest{
		OutputType: domain.LinkExecutable,
		Inputs:     []domain.TypedVirtualPath{object(in, "/build/main.o")},
		Output:     in.Intern(domain.Absolute("/build/main")),
		Options:    parse(t, "-static-stdlib"),
		TargetInfo: targetInfo("/tc/usr/lib/swift/linux"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"--target=x86_64-unknown-linux-gnu",
		"/tc/usr/lib/swift_static/linux/x86_64/swiftrt.o",
		"/build/main.o",
		"-L/tc/usr/lib/swift_static/linux",
		"@/tc/usr/lib/swift_static/linux/static-stdlib-args.lnk",
		"-o", "/build/main",
	}, render(t, in, args))
}

func TestUnix_LinkStaticExecutableMissingLinkFile(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	fs := mocks.NewMockFileSystem(ctrl)
	fs.EXPECT().Exists("/tc/usr/lib/swift_static/linux/static-executable-args.lnk").Return(false)

	in := domain.NewInterner()
	tc := newToolchain(t, "x86_64-unknown-linux-gnu", toolchain.Config{Interner: in, FS: fs})

	_, _, err := tc.LinkerArguments(&toolchain.LinkRequest{
		OutputType: domain.LinkExecutable,
		Inputs:     []domain.TypedVirtualPath{object(in, "/build/main.o")},
		Output:     in.Intern(domain.Absolute("/build/main")),
		Options:    parse(t, "-static-executable"),
		TargetInfo: targetInfo("/tc/usr/lib/swift/linux"),
	})
	require.ErrorIs(t, err, domain.ErrMissingRequiredFile)
}

func TestUnix_LinkInstrumentedCxx(t *testing.T) {
	t.Parallel()

	in := domain.NewInterner()
	tc := newToolchain(t, "x86_64-unknown-linux-gnu", toolchain.Config{Interner: in})

	tool, args, err := tc.LinkerArguments(&toolchain.LinkRequest{
		OutputType: domain.LinkDynamicLibrary,
		Inputs: []domain.TypedVirtualPath{
			object(in, "/build/a.o"),
			{File: in.Intern(domain.Absolute("/build/b.bc")), Type: domain.FileTypeLLVMBitcode},
		},
		Output: in.Intern(domain.Absolute("/build/libFoo.so")),
		LTO:    domain.LTOThin,
		Sanitizers: domain.SanitizerSet{
			domain.SanitizerUndefinedBehavior: {},
			domain.SanitizerAddress:           {},
		},
		Options:    parse(t, "-cxx-interoperability-mode=default", "-use-ld=gold"),
		TargetInfo: targetInfo("/tc/usr/lib/swift/linux"),
	})
	require.NoError(t, err)

	rendered := render(t, in, args)
	assert.Equal(t, domain.ToolClangXX, tool)
	assert.Equal(t, "-shared", rendered[0])
	assert.Equal(t, "-fuse-ld=gold", rendered[1])
	assert.Contains(t, rendered, "/build/b.bc")
	assert.Contains(t, rendered, "-fsanitize=address,undefined")
	assert.Contains(t, rendered, "-flto=thin")
}

func TestUnix_LinkStaticLibrary(t *testing.T) {
	t.Parallel()

	in := domain.NewInterner()
	tc := newToolchain(t, "x86_64-unknown-linux-gnu", toolchain.Config{Interner: in})

	tool, args, err := tc.LinkerArguments(&toolchain.LinkRequest{
		OutputType: domain.LinkStaticLibrary,
		Inputs: []domain.TypedVirtualPath{
			object(in, "/build/a.o"),
			{File: in.Intern(domain.Absolute("/build/b.bc")), Type: domain.FileTypeLLVMBitcode},
		},
		Output:     in.Intern(domain.Absolute("/build/libFoo.a")),
		Options:    parse(t),
		TargetInfo: targetInfo(),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ToolStaticLinker, tool)
	assert.Equal(t, []string{"crs", "/build/libFoo.a", "/build/a.o"}, render(t, in, args))
}

func TestAndroid_DefaultsToLLD(t *testing.T) {
	t.Parallel()

	in := domain.NewInterner()
	tc := newToolchain(t, "aarch64-unknown-linux-android24", toolchain.Config{Interner: in})

	_, args, err := tc.LinkerArguments(&toolchain.LinkRequest{
		OutputType: domain.LinkExecutable,
		Inputs:     []domain.TypedVirtualPath{object(in, "/build/main.o")},
		Output:     in.Intern(domain.Absolute("/build/main")),
		Options:    parse(t, "-no-toolchain-stdlib-rpath"),
		TargetInfo: targetInfo("/tc/usr/lib/swift/android"),
	})
	require.NoError(t, err)

	rendered := render(t, in, args)
	assert.Equal(t, "-fuse-ld=lld", rendered[0])
	assert.NotContains(t, rendered, "-rpath")
	assert.Contains(t, rendered, "/tc/usr/lib/swift/android/aarch64/swiftrt.o")
}

func TestWindows_LinkExecutable(t *testing.T) {
	t.Parallel()

	in := domain.NewInterner()
	tc := newToolchain(t, "x86_64-unknown-windows-msvc", toolchain.Config{Interner: in})

	tool, args, err := tc.LinkerArguments(&toolchain.LinkRequest{
		OutputType: domain.LinkExecutable,
		Inputs:     []domain.TypedVirtualPath{object(in, "/build/main.o")},
		Output:     in.Intern(domain.Absolute("/build/main.exe")),
		Options:    parse(t, "-lWS2_32"),
		TargetInfo: targetInfo("/tc/usr/lib/swift/windows"),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ToolDynamicLinker, tool)
	assert.Equal(t, []string{
		"-fuse-ld=link",
		"-target", "x86_64-unknown-windows-msvc",
		"-L/tc/usr/lib/swift/windows/x86_64",
		"/tc/usr/lib/swift/windows/x86_64/swiftrt.obj",
		"/build/main.o",
		"-lWS2_32",
		"-o", "/build/main.exe",
	}, render(t, in, args))
}

func TestWindows_LinkStaticLibrary(t *testing.T) {
	t.Parallel()

	in := domain.NewInterner()
	tc := newToolchain(t, "x86_64-unknown-windows-msvc", toolchain.Config{Interner: in})

	tool, args, err := tc.LinkerArguments(&toolchain.LinkRequest{
		OutputType: domain.LinkStaticLibrary,
		Inputs:     []domain.TypedVirtualPath{object(in, "/build/a.o")},
		Output:     in.Intern(domain.Absolute("/build/Foo.lib")),
		Options:    parse(t),
		TargetInfo: targetInfo(),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ToolStaticLinker, tool)
	assert.Equal(t, []string{"/nologo", "/OUT:/build/Foo.lib", "/build/a.o"}, render(t, in, args))
}

func TestWindows_PlatformFrontendOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "default dynamic runtime",
			want: []string{"-autolink-library", "oldnames", "-autolink-library", "msvcrt", "-Xcc", "-D_MT", "-Xcc", "-D_DLL"},
		},
		{
			name: "static debug runtime",
			args: []string{"-libc", "MTd"},
			want: []string{"-autolink-library", "oldnames", "-autolink-library", "libcmtd", "-Xcc", "-D_MT"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			in := domain.NewInterner()
			tc := newToolchain(t, "x86_64-unknown-windows-msvc", toolchain.Config{Interner: in})
			b := commandline.NewBuilder(in, "/build")
			require.NoError(t, tc.AddPlatformFrontendOptions(b, parse(t, tt.args...), ""))

			args, err := b.Build()
			require.NoError(t, err)
			assert.Equal(t, tt.want, render(t, in, args))
		})
	}
}

func TestWasm_LinkExecutable(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	fs := mocks.NewMockFileSystem(ctrl)
	fs.EXPECT().Exists("/tc/usr/lib/swift_static/wasi/static-executable-args.lnk").Return(true)

	in := domain.NewInterner()
	tc := newToolchain(t, "wasm32-unknown-wasi", toolchain.Config{Interner: in, FS: fs})

	tool, args, err := tc.LinkerArguments(&toolchain.LinkRequest{
		OutputType: domain.LinkExecutable,
		Inputs:     []domain.TypedVirtualPath{object(in, "/build/main.o")},
		Output:     in.Intern(domain.Absolute("/build/main.wasm")),
		Options:    parse(t),
		TargetInfo: tc.StaticTargetInfo(resourceDir, ""),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ToolDynamicLinker, tool)
	assert.Equal(t, []string{
		"--target=wasm32-unknown-wasi",
		"/tc/usr/lib/swift_static/wasi/wasm32/swiftrt.o",
		"/build/main.o",
		"-L/tc/usr/lib/swift_static/wasi",
		"@/tc/usr/lib/swift_static/wasi/static-executable-args.lnk",
		"-o", "/build/main.wasm",
	}, render(t, in, args))
}

func TestWasm_LinkRejectsDynamicLibraryAndSanitizers(t *testing.T) {
	t.Parallel()

	in := domain.NewInterner()
	tc := newToolchain(t, "wasm32-unknown-wasi", toolchain.Config{Interner: in})

	_, _, err := tc.LinkerArguments(&toolchain.LinkRequest{
		OutputType: domain.LinkDynamicLibrary,
		Output:     in.Intern(domain.Absolute("/build/Foo.wasm")),
		Options:    parse(t),
		TargetInfo: targetInfo(),
	})
	require.ErrorIs(t, err, domain.ErrUnsupportedDynamicLibrary)

	_, _, err = tc.LinkerArguments(&toolchain.LinkRequest{
		OutputType: domain.LinkExecutable,
		Output:     in.Intern(domain.Absolute("/build/main.wasm")),
		Sanitizers: domain.SanitizerSet{domain.SanitizerThread: {}},
		Options:    parse(t),
		TargetInfo: targetInfo(),
	})
	require.ErrorIs(t, err, domain.ErrUnsupportedSanitizer)
}
