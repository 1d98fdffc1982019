package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/swiftplan/internal/core/domain"
)

func TestParseTriple(t *testing.T) {
	t.Parallel()

	tests := []struct {
		triple       string
		darwin       domain.DarwinPlatform
		platformName string
		format       domain.ObjectFormat
		version      string
	}{
		{"x86_64-apple-macosx10.15", domain.DarwinMacOS, "macosx", domain.ObjectFormatMachO, "v10.15.0"},
		{"arm64-apple-macos14.0", domain.DarwinMacOS, "macosx", domain.ObjectFormatMachO, "v14.0.0"},
		{"arm64-apple-ios15.0", domain.DarwinIOS, "iphoneos", domain.ObjectFormatMachO, "v15.0.0"},
		{"arm64-apple-ios15.0-simulator", domain.DarwinIOSSimulator, "iphonesimulator", domain.ObjectFormatMachO, "v15.0.0"},
		{"x86_64-apple-ios12.0", domain.DarwinIOSSimulator, "iphonesimulator", domain.ObjectFormatMachO, "v12.0.0"},
		{"x86_64-apple-ios13.1-macabi", domain.DarwinMacCatalyst, "macosx", domain.ObjectFormatMachO, "v13.1.0"},
		{"arm64_32-apple-watchos5.1", domain.DarwinWatchOS, "watchos", domain.ObjectFormatMachO, "v5.1.0"},
		{"arm64-apple-tvos12.1", domain.DarwinTVOS, "appletvos", domain.ObjectFormatMachO, "v12.1.0"},
		{"x86_64-apple-darwin19", domain.DarwinMacOS, "macosx", domain.ObjectFormatMachO, "v10.15.0"},
		{"x86_64-unknown-linux-gnu", domain.DarwinNone, "linux", domain.ObjectFormatELF, "v0.0.0"},
		{"aarch64-unknown-linux-android21", domain.DarwinNone, "android", domain.ObjectFormatELF, "v21.0.0"},
		{"x86_64-unknown-windows-msvc", domain.DarwinNone, "windows", domain.ObjectFormatCOFF, "v0.0.0"},
		{"wasm32-unknown-wasi", domain.DarwinNone, "wasi", domain.ObjectFormatWasm, "v0.0.0"},
		{"wasm32-wasi", domain.DarwinNone, "wasi", domain.ObjectFormatWasm, "v0.0.0"},
	}

	for _, tt := range tests {
		t.Run(tt.triple, func(t *testing.T) {
			t.Parallel()
			triple, err := domain.ParseTriple(tt.triple)
			require.NoError(t, err)
			assert.Equal(t, tt.triple, triple.String())
			assert.Equal(t, tt.darwin, triple.DarwinPlatform())
			assert.Equal(t, tt.platformName, triple.PlatformName(false))
			assert.Equal(t, tt.format, triple.ObjectFormat())
			assert.Equal(t, tt.version, triple.Version())
		})
	}
}

func TestParseTriple_Invalid(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"", "x86_64", "-apple-macos"} {
		_, err := domain.ParseTriple(s)
		require.Error(t, err, s)
		assert.True(t, errors.Is(err, domain.ErrInvalidTriple))
	}
}

func TestTriple_VersionComparison(t *testing.T) {
	t.Parallel()

	old := domain.MustParseTriple("x86_64-apple-macosx10.14")
	assert.True(t, old.VersionLessThan("10.14.4"))

	current := domain.MustParseTriple("x86_64-apple-macosx10.14.4")
	assert.False(t, current.VersionLessThan("10.14.4"))
	assert.True(t, current.VersionAtLeast("10.14.4"))

	unversioned := domain.MustParseTriple("x86_64-apple-macosx")
	assert.True(t, unversioned.VersionLessThan("10.9"))
}

func TestTriple_Conflating(t *testing.T) {
	t.Parallel()

	triple := domain.MustParseTriple("arm64-apple-ios15.0")
	assert.Equal(t, "darwin", triple.PlatformName(true))
	assert.Equal(t, "arm64", triple.ArchName())

	linux := domain.MustParseTriple("aarch64-unknown-linux-gnu")
	assert.Equal(t, "linux", linux.PlatformName(true))
	assert.Equal(t, "aarch64", linux.ArchName())
}

func TestTriple_WithVersion(t *testing.T) {
	t.Parallel()

	triple := domain.MustParseTriple("arm64-apple-ios15.0-simulator").WithVersion("16.0")
	assert.Equal(t, "arm64-apple-ios16.0-simulator", triple.String())
	assert.Equal(t, "v16.0.0", triple.Version())
}

func TestTriple_WithArch(t *testing.T) {
	t.Parallel()

	triple := domain.MustParseTriple("arm64-apple-ios15.0-simulator").WithArch("x86_64")
	assert.Equal(t, "x86_64-apple-ios15.0-simulator", triple.String())
	assert.Equal(t, "x86_64", triple.Arch)
	assert.True(t, triple.IsSimulator())
}
