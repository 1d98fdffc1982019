package toolchain

import (
	"encoding/json"
	"path/filepath"

	"go.trai.ch/swiftplan/internal/core/domain"
	"go.trai.ch/swiftplan/internal/core/ports"
	"go.trai.ch/swiftplan/internal/engine/commandline"
	"go.trai.ch/zerr"
)

// Darwin targets macOS, iOS, tvOS, watchOS and visionOS through clang and ld64.
type Darwin struct {
	*base
}

// Platform implements Toolchain.
func (d *Darwin) Platform() Platform { return PlatformDarwin }

// ExecutableName implements Toolchain.
func (d *Darwin) ExecutableName(tool domain.Tool, _ domain.LTOKind) string {
	if tool == domain.ToolStaticLinker {
		return "libtool"
	}
	return commonExecutableName(tool)
}

// ResolvedTool implements Toolchain.
func (d *Darwin) ResolvedTool(tool domain.Tool, lto domain.LTOKind) (ResolvedTool, error) {
	return d.resolve(tool, d.ExecutableName(tool, lto))
}

// LinkerOutputName implements Toolchain.
func (d *Darwin) LinkerOutputName(moduleName string, t domain.LinkOutputType) string {
	switch t {
	case domain.LinkDynamicLibrary:
		return "lib" + moduleName + ".dylib"
	case domain.LinkStaticLibrary:
		return "lib" + moduleName + ".a"
	case domain.LinkExecutable, domain.LinkNone:
		return moduleName
	default:
		return moduleName
	}
}

// SupportsSanitizer implements Toolchain.
func (d *Darwin) SupportsSanitizer(s domain.Sanitizer) bool {
	platform := d.triple.DarwinPlatform()
	switch s {
	case domain.SanitizerAddress, domain.SanitizerUndefinedBehavior:
		return true
	case domain.SanitizerThread:
		switch platform {
		case domain.DarwinMacOS, domain.DarwinMacCatalyst, domain.DarwinIOSSimulator,
			domain.DarwinTVOSSimulator, domain.DarwinVisionOSSimulator:
			return d.triple.Arch == "x86_64" || d.triple.Arch == "arm64"
		default:
			return false
		}
	case domain.SanitizerFuzzer:
		return platform == domain.DarwinMacOS
	case domain.SanitizerScudo:
		return false
	default:
		return false
	}
}

// NeedsAutolinkExtract implements Toolchain.
func (d *Darwin) NeedsAutolinkExtract() bool { return false }

// SupportsDSYM implements Toolchain.
func (d *Darwin) SupportsDSYM() bool { return true }

// minimumDeploymentTargets is the oldest OS each platform can run Swift on.
var minimumDeploymentTargets = map[domain.DarwinPlatform]string{
	domain.DarwinMacOS:             "10.9",
	domain.DarwinIOS:               "7.0",
	domain.DarwinIOSSimulator:      "7.0",
	domain.DarwinTVOS:              "9.0",
	domain.DarwinTVOSSimulator:     "9.0",
	domain.DarwinWatchOS:           "2.0",
	domain.DarwinWatchOSSimulator:  "2.0",
	domain.DarwinMacCatalyst:       "13.1",
	domain.DarwinVisionOS:          "1.0",
	domain.DarwinVisionOSSimulator: "1.0",
}

// Validate implements Toolchain.
func (d *Darwin) Validate(opts ports.ParsedOptions, sanitizers domain.SanitizerSet) error {
	if opts.HasArgument("-static-stdlib") {
		return domain.NewError(domain.ErrUnsupportedOption, "-static-stdlib is no longer supported on Apple platforms",
			"option", "-static-stdlib", "triple", d.triple.String())
	}
	if opts.HasArgument("-static-executable") {
		return domain.NewError(domain.ErrUnsupportedOption, "static executables are not supported on Apple platforms",
			"option", "-static-executable", "triple", d.triple.String())
	}
	if d.triple.OSVersion != "" {
		if minimum, ok := minimumDeploymentTargets[d.triple.DarwinPlatform()]; ok && d.triple.VersionLessThan(minimum) {
			return domain.NewError(domain.ErrUnsupportedOption, "Swift requires a minimum deployment target of "+minimum,
				"option", "-target", "triple", d.triple.String())
		}
	}
	return validateSanitizers(d, sanitizers)
}

// osRuntimeVersions is the first OS release of each platform that ships the
// Swift runtime in /usr/lib/swift.
var osRuntimeVersions = map[domain.DarwinPlatform]string{
	domain.DarwinMacOS:            "10.14.4",
	domain.DarwinIOS:              "12.2",
	domain.DarwinIOSSimulator:     "12.2",
	domain.DarwinTVOS:             "12.2",
	domain.DarwinTVOSSimulator:    "12.2",
	domain.DarwinWatchOS:          "5.2",
	domain.DarwinWatchOSSimulator: "5.2",
	domain.DarwinMacCatalyst:      "13.1",
}

// OSShipsRuntime reports whether the deployment target has the Swift runtime
// installed at a fixed system path.
func OSShipsRuntime(t domain.Triple) bool {
	if !t.IsDarwin() {
		return false
	}
	minimum, ok := osRuntimeVersions[t.DarwinPlatform()]
	if !ok {
		return true
	}
	return t.VersionAtLeast(minimum)
}

// arcliteVersions is the first OS release of each platform whose Objective-C
// runtime no longer needs the ARC compatibility library linked in.
var arcliteVersions = map[domain.DarwinPlatform]string{
	domain.DarwinMacOS:         "10.11",
	domain.DarwinIOS:           "9.0",
	domain.DarwinIOSSimulator:  "9.0",
	domain.DarwinTVOS:          "9.0",
	domain.DarwinTVOSSimulator: "9.0",
}

// wantsObjCRuntime reports whether ARC back-deployment support must be linked.
func wantsObjCRuntime(t domain.Triple) bool {
	minimum, ok := arcliteVersions[t.DarwinPlatform()]
	return ok && t.VersionLessThan(minimum)
}

// RPathPolicy chooses which runtime search path a linked image embeds.
func RPathPolicy(opts ports.ParsedOptions, t domain.Triple, info *domain.FrontendTargetInfo) domain.RPathPolicy {
	if opts.HasFlag("-toolchain-stdlib-rpath", "-no-toolchain-stdlib-rpath", false) {
		return domain.RPathToolchain
	}
	if opts.HasArgument("-no-stdlib-rpath") {
		return domain.RPathNone
	}
	if info != nil && info.LibrariesRequireRPath() {
		return domain.RPathToolchain
	}
	if OSShipsRuntime(t) {
		return domain.RPathOS
	}
	return domain.RPathToolchain
}

// AddPlatformFrontendOptions implements Toolchain. The SDK version and name
// are read from the SDK's settings file when it exists.
func (d *Darwin) AddPlatformFrontendOptions(b *commandline.Builder, opts ports.ParsedOptions, sdkPath string) error {
	if sdkPath == "" {
		return nil
	}
	settings := filepath.Join(sdkPath, "SDKSettings.json")
	if !d.fs.Exists(settings) {
		return nil
	}
	data, err := d.fs.ReadFile(settings)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrMissingRequiredFile.Error()), "path", settings)
	}
	var info domain.DarwinSDKInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return domain.NewError(domain.ErrInvalidArgumentValue, "malformed SDK settings", "path", settings)
	}
	if info.Version != "" {
		b.Flag("-target-sdk-version", info.Version)
		if opts.HasArgument("-target-variant") {
			b.Flag("-target-variant-sdk-version", info.Version)
		}
	}
	if info.CanonicalName != "" {
		b.Flag("-target-sdk-name", info.CanonicalName)
	}
	return nil
}

// LinkerArguments implements Toolchain.
func (d *Darwin) LinkerArguments(req *LinkRequest) (domain.Tool, []domain.ArgTemplate, error) {
	objects, _, modules := splitLinkInputs(req)

	if req.OutputType == domain.LinkStaticLibrary {
		args := domain.Flags("-static")
		args = append(args, d.inputArgs(objects, req.UseFileList)...)
		args = append(args, domain.Flag("-o"), domain.PathArg(req.Output))
		return domain.ToolStaticLinker, args, nil
	}

	var args []domain.ArgTemplate
	if req.OutputType == domain.LinkDynamicLibrary {
		args = append(args, domain.Flag("-dynamiclib"))
	}

	args = append(args, d.inputArgs(objects, req.UseFileList)...)
	if req.DebugInfo {
		for _, m := range modules {
			args = append(args, domain.Flag("-Xlinker"), domain.Flag("-add_ast_path"), domain.Flag("-Xlinker"), domain.PathArg(m))
		}
	}

	args = append(args, domain.Flag("-target"), domain.Flag(d.triple.String()))
	if variant, ok := req.Options.LastArgument("-target-variant"); ok {
		args = append(args, domain.Flag("-darwin-target-variant"), domain.Flag(variant.Value()))
	}
	if req.SDKPath != "" {
		args = append(args, domain.Flag("-isysroot"), d.pathArg(req.SDKPath))
	}

	arcArgs, err := d.arcliteArgs(req)
	if err != nil {
		return 0, nil, err
	}
	args = append(args, arcArgs...)
	args = append(args, d.compatibilityArgs(req)...)

	runtimePaths := d.runtimePaths(req.TargetInfo, false)
	for _, p := range runtimePaths {
		args = append(args, domain.JoinedOptionAndPath("-L", d.in.Intern(domain.Absolute(p))))
	}
	args = append(args, d.rpathArgs(req, runtimePaths)...)

	if len(req.Sanitizers) > 0 {
		args = append(args, domain.Flag(sanitizerFlag(req.Sanitizers)))
	}
	if req.Options.HasArgument("-profile-generate") {
		args = append(args, domain.Flag("-fprofile-instr-generate"))
	}
	if req.LTO != domain.LTONone {
		args = append(args, domain.Flag(req.LTO.Flag()))
		if lib, ok := req.Options.LastArgument("-lto-library"); ok {
			args = append(args, domain.Flag("-Xlinker"), domain.Flag("-lto_library"), domain.Flag("-Xlinker"), d.pathArg(lib.Value()))
		}
	}
	if req.Options.HasArgument("-application-extension") {
		args = append(args, domain.Flag("-fapplication-extension"))
	}
	if req.Options.HasArgument("-embed-bitcode") {
		args = append(args, domain.Flag("-fembed-bitcode"))
	}
	if ld, ok := req.Options.LastArgument("-ld-path="); ok {
		args = append(args, domain.JoinedOptionAndPath("--ld-path=", d.in.Intern(domain.Absolute(ld.Value()))))
	} else if ld, ok := req.Options.LastArgument("-use-ld="); ok {
		args = append(args, domain.Flag("-fuse-ld="+ld.Value()))
	}

	args = append(args, d.searchPathArgs(req.Options, req.WorkingDir, true)...)
	args = append(args, linkerOptionArgs(req.Options, true)...)
	args = append(args, domain.Flag("-o"), domain.PathArg(req.Output))
	return domain.ToolDynamicLinker, args, nil
}

func (d *Darwin) inputArgs(objects []domain.PathHandle, useFileList bool) []domain.ArgTemplate {
	if useFileList {
		list := d.in.UniqueFileList("inputs.LinkFileList", domain.FileListContents{
			Kind:  domain.FileListPaths,
			Paths: objects,
		})
		return []domain.ArgTemplate{domain.Flag("-filelist"), domain.PathArg(list)}
	}
	out := make([]domain.ArgTemplate, len(objects))
	for i, o := range objects {
		out[i] = domain.PathArg(o)
	}
	return out
}

// arcliteArgs force-loads the ARC compatibility library for old deployment
// targets when it is installed next to the toolchain.
func (d *Darwin) arcliteArgs(req *LinkRequest) ([]domain.ArgTemplate, error) {
	if !wantsObjCRuntime(d.triple) ||
		!req.Options.HasFlag("-link-objc-runtime", "-no-link-objc-runtime", true) {
		return nil, nil
	}
	clang, err := d.ResolvedTool(domain.ToolClang, domain.LTONone)
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(filepath.Dir(filepath.Dir(clang.Path)), "lib", "arc")
	if !d.fs.IsDir(dir) {
		return nil, nil
	}
	lib := filepath.Join(dir, "libarclite_"+d.triple.PlatformName(false)+".a")
	return []domain.ArgTemplate{
		domain.Flag("-Xlinker"), domain.Flag("-force_load"),
		domain.Flag("-Xlinker"), d.pathArg(lib),
		domain.Flag("-fobjc-link-runtime"),
	}, nil
}

// compatibilityArgs force-loads back-deployment libraries reported for the
// target, unless -runtime-compatibility-version none disables them.
func (d *Darwin) compatibilityArgs(req *LinkRequest) []domain.ArgTemplate {
	if v, ok := req.Options.LastArgument("-runtime-compatibility-version"); ok && v.Value() == "none" {
		return nil
	}
	var args []domain.ArgTemplate
	dir := filepath.Join(req.TargetInfo.RuntimeResourcePath(), d.triple.PlatformName(false))
	for _, lib := range req.TargetInfo.CompatibilityLibraries() {
		if lib.Filter == "executable" && req.OutputType != domain.LinkExecutable {
			continue
		}
		path := filepath.Join(dir, "lib"+lib.LibraryName+".a")
		args = append(args, domain.Flag("-Xlinker"), domain.Flag("-force_load"), domain.Flag("-Xlinker"), d.pathArg(path))
	}
	return args
}

func (d *Darwin) rpathArgs(req *LinkRequest, runtimePaths []string) []domain.ArgTemplate {
	var dirs []string
	switch RPathPolicy(req.Options, d.triple, req.TargetInfo) {
	case domain.RPathToolchain:
		dirs = runtimePaths
	case domain.RPathOS:
		dirs = []string{"/usr/lib/swift"}
	case domain.RPathNone:
	}
	var args []domain.ArgTemplate
	for _, dir := range dirs {
		args = append(args, domain.Flag("-Xlinker"), domain.Flag("-rpath"), domain.Flag("-Xlinker"), d.pathArg(dir))
	}
	return args
}

// InterpreterEnvironment implements Toolchain.
func (d *Darwin) InterpreterEnvironment(opts ports.ParsedOptions, info *domain.FrontendTargetInfo) (map[string]string, error) {
	libraries := append(d.runtimePaths(info, false), optionValues(opts, "-L")...)
	env := map[string]string{
		"DYLD_LIBRARY_PATH": d.searchPathVariable("DYLD_LIBRARY_PATH", ":", libraries),
	}
	if frameworks := optionValues(opts, "-F", "-Fsystem"); len(frameworks) > 0 {
		env["DYLD_FRAMEWORK_PATH"] = d.searchPathVariable("DYLD_FRAMEWORK_PATH", ":", frameworks)
	}
	return env, nil
}

// StaticTargetInfo implements Toolchain.
func (d *Darwin) StaticTargetInfo(resourceDir, sdkPath string) *domain.FrontendTargetInfo {
	info := staticTargetInfo(d.triple, resourceDir, sdkPath)
	info.Target.LibrariesRequireRPath = !OSShipsRuntime(d.triple)
	info.Target.CompatibilityLibraries = darwinCompatibilityLibraries(d.triple)
	if sdkPath != "" {
		info.Paths.RuntimeLibraryPaths = append(info.Paths.RuntimeLibraryPaths, filepath.Join(sdkPath, "usr", "lib", "swift"))
	}
	return info
}

// darwinCompatibilityLibraries lists the back-deployment libraries needed by
// deployment targets older than the runtime they were compiled against.
func darwinCompatibilityLibraries(t domain.Triple) []domain.CompatibilityLibrary {
	type threshold struct{ macOS, iOS, watchOS string }
	libraries := []struct {
		name   string
		filter string
		before threshold
	}{
		{"swiftCompatibility50", "all", threshold{"10.15", "13.0", "6.0"}},
		{"swiftCompatibility51", "all", threshold{"11.0", "14.0", "7.0"}},
		{"swiftCompatibilityDynamicReplacements", "executable", threshold{"10.15", "13.0", "6.0"}},
		{"swiftCompatibilityConcurrency", "all", threshold{"12.0", "15.0", "8.0"}},
	}
	var out []domain.CompatibilityLibrary
	for _, lib := range libraries {
		var before string
		switch t.DarwinPlatform() {
		case domain.DarwinMacOS:
			before = lib.before.macOS
		case domain.DarwinIOS, domain.DarwinIOSSimulator, domain.DarwinTVOS, domain.DarwinTVOSSimulator:
			before = lib.before.iOS
		case domain.DarwinWatchOS, domain.DarwinWatchOSSimulator:
			before = lib.before.watchOS
		case domain.DarwinMacCatalyst, domain.DarwinVisionOS, domain.DarwinVisionOSSimulator, domain.DarwinNone:
			continue
		}
		if t.VersionLessThan(before) {
			out = append(out, domain.CompatibilityLibrary{LibraryName: lib.name, Filter: lib.filter})
		}
	}
	return out
}
