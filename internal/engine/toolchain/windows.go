package toolchain

import (
	"path/filepath"

	"go.trai.ch/swiftplan/internal/core/domain"
	"go.trai.ch/swiftplan/internal/core/ports"
	"go.trai.ch/swiftplan/internal/engine/commandline"
)

// Windows targets the MSVC environment through clang and link.exe or lld.
type Windows struct {
	*base
}

// Platform implements Toolchain.
func (w *Windows) Platform() Platform { return PlatformWindows }

// ExecutableName implements Toolchain.
func (w *Windows) ExecutableName(tool domain.Tool, lto domain.LTOKind) string {
	if tool == domain.ToolStaticLinker {
		if lto != domain.LTONone {
			return "llvm-lib"
		}
		return "lib"
	}
	return commonExecutableName(tool)
}

// ResolvedTool implements Toolchain.
func (w *Windows) ResolvedTool(tool domain.Tool, lto domain.LTOKind) (ResolvedTool, error) {
	return w.resolve(tool, w.ExecutableName(tool, lto))
}

// LinkerOutputName implements Toolchain.
func (w *Windows) LinkerOutputName(moduleName string, t domain.LinkOutputType) string {
	switch t {
	case domain.LinkDynamicLibrary:
		return moduleName + ".dll"
	case domain.LinkStaticLibrary:
		return moduleName + ".lib"
	case domain.LinkExecutable, domain.LinkNone:
		return moduleName + ".exe"
	default:
		return moduleName + ".exe"
	}
}

// SupportsSanitizer implements Toolchain.
func (w *Windows) SupportsSanitizer(s domain.Sanitizer) bool {
	return s == domain.SanitizerAddress
}

// NeedsAutolinkExtract implements Toolchain.
func (w *Windows) NeedsAutolinkExtract() bool { return false }

// SupportsDSYM implements Toolchain.
func (w *Windows) SupportsDSYM() bool { return false }

// Validate implements Toolchain.
func (w *Windows) Validate(opts ports.ParsedOptions, sanitizers domain.SanitizerSet) error {
	if opts.HasArgument("-static-executable") {
		return domain.NewError(domain.ErrUnsupportedOption, "static executables are not supported on Windows",
			"option", "-static-executable", "triple", w.triple.String())
	}
	if libc, ok := opts.LastArgument("-libc"); ok {
		if _, known := windowsRuntimeLibraries[libc.Value()]; !known {
			return domain.NewError(domain.ErrInvalidArgumentValue, "-libc must be one of MD, MDd, MT or MTd",
				"option", "-libc", "value", libc.Value())
		}
	}
	return validateSanitizers(w, sanitizers)
}

// windowsRuntimeLibraries maps -libc values to the C runtime autolinked into
// every object.
var windowsRuntimeLibraries = map[string]string{
	"MD":  "msvcrt",
	"MDd": "msvcrtd",
	"MT":  "libcmt",
	"MTd": "libcmtd",
}

// AddPlatformFrontendOptions implements Toolchain.
func (w *Windows) AddPlatformFrontendOptions(b *commandline.Builder, opts ports.ParsedOptions, _ string) error {
	libc := "MD"
	if opt, ok := opts.LastArgument("-libc"); ok {
		libc = opt.Value()
	}
	runtime, ok := windowsRuntimeLibraries[libc]
	if !ok {
		return domain.NewError(domain.ErrInvalidArgumentValue, "-libc must be one of MD, MDd, MT or MTd",
			"option", "-libc", "value", libc)
	}
	b.Flag("-autolink-library", "oldnames", "-autolink-library", runtime)
	b.Flag("-Xcc", "-D_MT")
	if libc == "MD" || libc == "MDd" {
		b.Flag("-Xcc", "-D_DLL")
	}
	return nil
}

// LinkerArguments implements Toolchain.
func (w *Windows) LinkerArguments(req *LinkRequest) (domain.Tool, []domain.ArgTemplate, error) {
	objects, _, _ := splitLinkInputs(req)

	if req.OutputType == domain.LinkStaticLibrary {
		args := []domain.ArgTemplate{domain.Flag("/nologo"), domain.JoinedOptionAndPath("/OUT:", req.Output)}
		args = append(args, elfInputArgs(w.in, objects, req.UseFileList)...)
		return domain.ToolStaticLinker, args, nil
	}

	var args []domain.ArgTemplate
	if req.OutputType == domain.LinkDynamicLibrary {
		args = append(args, domain.Flag("-shared"))
	}

	switch {
	case req.Options.HasArgument("-ld-path="):
		ld, _ := req.Options.LastArgument("-ld-path=")
		args = append(args, domain.JoinedOptionAndPath("--ld-path=", w.in.Intern(domain.Absolute(ld.Value()))))
	case req.Options.HasArgument("-use-ld="):
		ld, _ := req.Options.LastArgument("-use-ld=")
		args = append(args, domain.Flag("-fuse-ld="+ld.Value()))
	case req.LTO != domain.LTONone:
		args = append(args, domain.Flag("-fuse-ld=lld"))
	default:
		args = append(args, domain.Flag("-fuse-ld=link"))
	}

	args = append(args, domain.Flag("-target"), domain.Flag(w.triple.String()))

	staticStdlib := req.Options.HasFlag("-static-stdlib", "-no-static-stdlib", false)
	for _, p := range w.runtimePaths(req.TargetInfo, staticStdlib) {
		args = append(args, domain.JoinedOptionAndPath("-L", w.in.Intern(domain.Absolute(filepath.Join(p, w.triple.ArchName())))))
	}
	if req.SDKPath != "" {
		sdkLib := filepath.Join(req.SDKPath, "usr", "lib", "swift", w.triple.PlatformName(false), w.triple.ArchName())
		args = append(args, domain.JoinedOptionAndPath("-L", w.in.Intern(domain.Absolute(sdkLib))))
	}

	resourceDir := req.TargetInfo.RuntimeResourcePath()
	if staticStdlib {
		resourceDir = filepath.Dir(staticResourceDir(resourceDir, w.triple))
	}
	swiftrt := filepath.Join(resourceDir, w.triple.PlatformName(false), w.triple.ArchName(), "swiftrt.obj")
	args = append(args, w.pathArg(swiftrt))

	args = append(args, elfInputArgs(w.in, objects, req.UseFileList)...)
	args = append(args, w.searchPathArgs(req.Options, req.WorkingDir, false)...)

	if len(req.Sanitizers) > 0 {
		args = append(args, domain.Flag(sanitizerFlag(req.Sanitizers)))
	}
	if req.Options.HasArgument("-profile-generate") {
		lib := filepath.Join(resourceDir, "clang", "lib", "windows", "clang_rt.profile-"+w.triple.ArchName()+".lib")
		args = append(args, w.pathArg(lib), domain.Flag("-Xlinker"), domain.Flag("-include:__llvm_profile_runtime"))
	}
	if req.LTO != domain.LTONone {
		args = append(args, domain.Flag(req.LTO.Flag()))
	}

	args = append(args, linkerOptionArgs(req.Options, false)...)
	args = append(args, domain.Flag("-o"), domain.PathArg(req.Output))
	return domain.ToolDynamicLinker, args, nil
}

// InterpreterEnvironment implements Toolchain.
func (w *Windows) InterpreterEnvironment(opts ports.ParsedOptions, info *domain.FrontendTargetInfo) (map[string]string, error) {
	libraries := append(w.runtimePaths(info, false), optionValues(opts, "-L")...)
	return map[string]string{
		"Path": w.searchPathVariable("Path", ";", libraries),
	}, nil
}

// StaticTargetInfo implements Toolchain.
func (w *Windows) StaticTargetInfo(resourceDir, sdkPath string) *domain.FrontendTargetInfo {
	return staticTargetInfo(w.triple, resourceDir, sdkPath)
}
