package domain

import (
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// DarwinPlatform is an Apple operating system together with the device or
// simulator variant it runs in.
type DarwinPlatform uint8

const (
	// DarwinNone marks a non-Apple triple.
	DarwinNone DarwinPlatform = iota
	DarwinMacOS
	DarwinMacCatalyst
	DarwinIOS
	DarwinIOSSimulator
	DarwinTVOS
	DarwinTVOSSimulator
	DarwinWatchOS
	DarwinWatchOSSimulator
	DarwinVisionOS
	DarwinVisionOSSimulator
)

// ObjectFormat is the binary format produced for a target.
type ObjectFormat uint8

const (
	ObjectFormatELF ObjectFormat = iota + 1
	ObjectFormatMachO
	ObjectFormatCOFF
	ObjectFormatWasm
)

// Triple is a parsed target triple of the form arch-vendor-os[-environment].
type Triple struct {
	raw         string
	Arch        string
	Vendor      string
	OS          string
	OSVersion   string
	Environment string
}

var knownOSPrefixes = []string{
	"macosx", "macos", "darwin", "ios", "tvos", "watchos", "xros", "visionos",
	"linux", "freebsd", "openbsd", "windows", "wasi", "cygwin", "haiku", "none",
}

// ParseTriple splits a target triple into its components.
func ParseTriple(s string) (Triple, error) {
	parts := strings.Split(s, "-")
	if len(parts) < 2 || parts[0] == "" {
		return Triple{}, newError(ErrInvalidTriple, "expected arch-vendor-os", "triple", s)
	}
	t := Triple{raw: s, Arch: parts[0]}

	rest := parts[1:]
	// arch-os forms such as wasm32-wasi carry no vendor.
	if len(rest) == 1 || isOSComponent(rest[0]) {
		rest = append([]string{"unknown"}, rest...)
	}
	t.Vendor = rest[0]
	if len(rest) > 1 {
		t.OS, t.OSVersion = splitOSVersion(rest[1])
	}
	if len(rest) > 2 {
		t.Environment = strings.Join(rest[2:], "-")
	}
	if t.OS == "" {
		return Triple{}, newError(ErrInvalidTriple, "missing operating system", "triple", s)
	}
	if t.OS == "linux" && strings.HasPrefix(t.Environment, "android") {
		t.OSVersion = strings.TrimPrefix(t.Environment, "android")
	}
	return t, nil
}

// MustParseTriple is ParseTriple for literals known to be valid.
func MustParseTriple(s string) Triple {
	t, err := ParseTriple(s)
	if err != nil {
		panic(err)
	}
	return t
}

func isOSComponent(s string) bool {
	os, _ := splitOSVersion(s)
	for _, p := range knownOSPrefixes {
		if os == p {
			return true
		}
	}
	return false
}

func splitOSVersion(s string) (string, string) {
	idx := strings.IndexAny(s, "0123456789")
	if idx < 0 {
		return s, ""
	}
	return s[:idx], s[idx:]
}

// String returns the triple as it was written.
func (t Triple) String() string {
	return t.raw
}

// IsZero reports whether t was never parsed.
func (t Triple) IsZero() bool {
	return t.raw == ""
}

// IsDarwin reports whether t targets an Apple operating system.
func (t Triple) IsDarwin() bool {
	return t.DarwinPlatform() != DarwinNone
}

// IsMacOS reports whether t targets macOS.
func (t Triple) IsMacOS() bool {
	return t.DarwinPlatform() == DarwinMacOS
}

// IsSimulator reports whether t targets an Apple simulator.
func (t Triple) IsSimulator() bool {
	return t.Environment == "simulator" ||
		(t.Environment == "" && (t.OS == "ios" || t.OS == "tvos") && (t.Arch == "x86_64" || t.Arch == "i386")) ||
		(t.Environment == "" && t.OS == "watchos" && (t.Arch == "x86_64" || t.Arch == "i386"))
}

// IsLinux reports whether t targets Linux, including Android.
func (t Triple) IsLinux() bool {
	return t.OS == "linux"
}

// IsAndroid reports whether t targets Android.
func (t Triple) IsAndroid() bool {
	return t.OS == "linux" && strings.HasPrefix(t.Environment, "android")
}

// IsWindows reports whether t targets Windows.
func (t Triple) IsWindows() bool {
	return t.OS == "windows"
}

// IsWasm reports whether t targets WebAssembly.
func (t Triple) IsWasm() bool {
	return strings.HasPrefix(t.Arch, "wasm") || t.OS == "wasi"
}

// DarwinPlatform classifies an Apple triple.
func (t Triple) DarwinPlatform() DarwinPlatform {
	sim := t.IsSimulator()
	switch t.OS {
	case "macosx", "macos", "darwin":
		return DarwinMacOS
	case "ios":
		switch {
		case t.Environment == "macabi":
			return DarwinMacCatalyst
		case sim:
			return DarwinIOSSimulator
		default:
			return DarwinIOS
		}
	case "tvos":
		if sim {
			return DarwinTVOSSimulator
		}
		return DarwinTVOS
	case "watchos":
		if sim {
			return DarwinWatchOSSimulator
		}
		return DarwinWatchOS
	case "xros", "visionos":
		if sim {
			return DarwinVisionOSSimulator
		}
		return DarwinVisionOS
	default:
		return DarwinNone
	}
}

// ObjectFormat returns the object file format for t.
func (t Triple) ObjectFormat() ObjectFormat {
	switch {
	case t.IsDarwin():
		return ObjectFormatMachO
	case t.IsWindows():
		return ObjectFormatCOFF
	case t.IsWasm():
		return ObjectFormatWasm
	default:
		return ObjectFormatELF
	}
}

// PlatformName is the directory name used for t under the resource directory.
// When conflatingDarwin is set every Apple platform maps to "darwin".
func (t Triple) PlatformName(conflatingDarwin bool) string {
	if t.IsDarwin() && conflatingDarwin {
		return "darwin"
	}
	switch t.DarwinPlatform() {
	case DarwinMacOS, DarwinMacCatalyst:
		return "macosx"
	case DarwinIOS:
		return "iphoneos"
	case DarwinIOSSimulator:
		return "iphonesimulator"
	case DarwinTVOS:
		return "appletvos"
	case DarwinTVOSSimulator:
		return "appletvsimulator"
	case DarwinWatchOS:
		return "watchos"
	case DarwinWatchOSSimulator:
		return "watchsimulator"
	case DarwinVisionOS:
		return "xros"
	case DarwinVisionOSSimulator:
		return "xrsimulator"
	case DarwinNone:
	}
	switch {
	case t.IsAndroid():
		return "android"
	case t.IsWasm():
		return "wasi"
	default:
		return t.OS
	}
}

// ArchName returns the architecture directory name used in runtime paths.
func (t Triple) ArchName() string {
	switch t.Arch {
	case "arm64", "aarch64":
		if t.IsDarwin() {
			return "arm64"
		}
		return "aarch64"
	case "amd64":
		return "x86_64"
	default:
		return t.Arch
	}
}

// Version returns the OS version of t as a semver string such as "v10.15.0".
// Triples without a version get the oldest version the platform supports.
func (t Triple) Version() string {
	v := t.OSVersion
	if t.OS == "darwin" && v != "" {
		v = darwinKernelToMacOS(v)
	}
	if v == "" {
		v = defaultOSVersion(t)
	}
	parts := strings.Split(v, ".")
	for len(parts) < 3 {
		parts = append(parts, "0")
	}
	return "v" + strings.Join(parts[:3], ".")
}

// VersionLessThan reports whether the OS version of t is below v, given in
// dotted form such as "10.14.4".
func (t Triple) VersionLessThan(v string) bool {
	return semver.Compare(t.Version(), "v"+v) < 0
}

// VersionAtLeast reports whether the OS version of t is v or later.
func (t Triple) VersionAtLeast(v string) bool {
	return !t.VersionLessThan(v)
}

func darwinKernelToMacOS(v string) string {
	major, err := strconv.Atoi(strings.SplitN(v, ".", 2)[0])
	if err != nil {
		return ""
	}
	if major >= 20 {
		return strconv.Itoa(major-9) + ".0.0"
	}
	if major >= 4 {
		return "10." + strconv.Itoa(major-4) + ".0"
	}
	return ""
}

func defaultOSVersion(t Triple) string {
	switch t.DarwinPlatform() {
	case DarwinMacOS:
		return "10.4.0"
	case DarwinMacCatalyst:
		return "13.1.0"
	case DarwinIOS, DarwinIOSSimulator:
		return "5.0.0"
	case DarwinTVOS, DarwinTVOSSimulator:
		return "9.0.0"
	case DarwinWatchOS, DarwinWatchOSSimulator:
		return "2.0.0"
	case DarwinVisionOS, DarwinVisionOSSimulator:
		return "1.0.0"
	default:
		return "0.0.0"
	}
}

// WithVersion returns t with its OS version replaced, keeping other parts.
func (t Triple) WithVersion(v string) Triple {
	out := t
	out.OSVersion = v
	components := []string{t.Arch, t.Vendor, t.OS + v}
	if t.Environment != "" {
		components = append(components, t.Environment)
	}
	out.raw = strings.Join(components, "-")
	return out
}

// WithArch returns t with its architecture replaced, keeping other parts.
func (t Triple) WithArch(arch string) Triple {
	out := t
	out.Arch = arch
	if idx := strings.IndexByte(t.raw, '-'); idx >= 0 {
		out.raw = arch + t.raw[idx:]
	}
	return out
}
