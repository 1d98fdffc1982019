package toolchain

import (
	"path/filepath"

	"go.trai.ch/swiftplan/internal/core/domain"
	"go.trai.ch/swiftplan/internal/core/ports"
	"go.trai.ch/swiftplan/internal/engine/commandline"
)

// GenericUnix targets ELF platforms such as Linux, Android and the BSDs.
type GenericUnix struct {
	*base
}

// Platform implements Toolchain.
func (u *GenericUnix) Platform() Platform { return PlatformUnix }

// ExecutableName implements Toolchain.
func (u *GenericUnix) ExecutableName(tool domain.Tool, lto domain.LTOKind) string {
	if tool == domain.ToolStaticLinker && lto != domain.LTONone {
		return "llvm-ar"
	}
	return commonExecutableName(tool)
}

// ResolvedTool implements Toolchain.
func (u *GenericUnix) ResolvedTool(tool domain.Tool, lto domain.LTOKind) (ResolvedTool, error) {
	return u.resolve(tool, u.ExecutableName(tool, lto))
}

// LinkerOutputName implements Toolchain.
func (u *GenericUnix) LinkerOutputName(moduleName string, t domain.LinkOutputType) string {
	switch t {
	case domain.LinkDynamicLibrary:
		return "lib" + moduleName + ".so"
	case domain.LinkStaticLibrary:
		return "lib" + moduleName + ".a"
	case domain.LinkExecutable, domain.LinkNone:
		return moduleName
	default:
		return moduleName
	}
}

// SupportsSanitizer implements Toolchain.
func (u *GenericUnix) SupportsSanitizer(s domain.Sanitizer) bool {
	if u.triple.IsAndroid() {
		return s == domain.SanitizerAddress || s == domain.SanitizerUndefinedBehavior
	}
	switch s {
	case domain.SanitizerAddress, domain.SanitizerUndefinedBehavior, domain.SanitizerFuzzer:
		return true
	case domain.SanitizerThread:
		return u.triple.ArchName() == "x86_64" || u.triple.ArchName() == "aarch64"
	case domain.SanitizerScudo:
		return u.triple.IsLinux()
	default:
		return false
	}
}

// NeedsAutolinkExtract implements Toolchain.
func (u *GenericUnix) NeedsAutolinkExtract() bool { return true }

// SupportsDSYM implements Toolchain.
func (u *GenericUnix) SupportsDSYM() bool { return false }

// Validate implements Toolchain.
func (u *GenericUnix) Validate(opts ports.ParsedOptions, sanitizers domain.SanitizerSet) error {
	if opts.HasArgument("-static-executable") && !u.triple.IsLinux() {
		return domain.NewError(domain.ErrUnsupportedOption, "static executables are only supported on Linux",
			"option", "-static-executable", "triple", u.triple.String())
	}
	return validateSanitizers(u, sanitizers)
}

// AddPlatformFrontendOptions implements Toolchain.
func (u *GenericUnix) AddPlatformFrontendOptions(_ *commandline.Builder, _ ports.ParsedOptions, _ string) error {
	return nil
}

// LinkerArguments implements Toolchain.
func (u *GenericUnix) LinkerArguments(req *LinkRequest) (domain.Tool, []domain.ArgTemplate, error) {
	objects, autolink, _ := splitLinkInputs(req)

	if req.OutputType == domain.LinkStaticLibrary {
		args := domain.Flags("crs")
		args = append(args, domain.PathArg(req.Output))
		args = append(args, elfInputArgs(u.in, objects, req.UseFileList)...)
		return domain.ToolStaticLinker, args, nil
	}

	var args []domain.ArgTemplate
	if req.OutputType == domain.LinkDynamicLibrary {
		args = append(args, domain.Flag("-shared"))
	}

	if ld, ok := req.Options.LastArgument("-ld-path="); ok {
		args = append(args, domain.JoinedOptionAndPath("--ld-path=", u.in.Intern(domain.Absolute(ld.Value()))))
	} else if ld, ok := req.Options.LastArgument("-use-ld="); ok {
		args = append(args, domain.Flag("-fuse-ld="+ld.Value()))
	} else if u.triple.IsAndroid() {
		args = append(args, domain.Flag("-fuse-ld=lld"))
	}

	args = append(args, domain.Flag("--target="+u.triple.String()))

	staticExecutable := req.Options.HasFlag("-static-executable", "-no-static-executable", false)
	staticStdlib := staticExecutable || req.Options.HasFlag("-static-stdlib", "-no-static-stdlib", false)

	if staticExecutable {
		args = append(args, domain.Flag("-static"))
	}

	if tools, ok := req.Options.LastArgument("-tools-directory"); ok {
		args = append(args, domain.Flag("-B"), u.pathArg(tools.Value()))
	}

	runtimePaths := u.runtimePaths(req.TargetInfo, staticStdlib)
	if !staticStdlib && !req.Options.HasArgument("-no-stdlib-rpath") &&
		req.Options.HasFlag("-toolchain-stdlib-rpath", "-no-toolchain-stdlib-rpath", true) {
		for _, p := range runtimePaths {
			args = append(args, domain.Flag("-Xlinker"), domain.Flag("-rpath"), domain.Flag("-Xlinker"), u.pathArg(p))
		}
	}

	resourceDir := req.TargetInfo.RuntimeResourcePath()
	if staticStdlib {
		resourceDir = filepath.Dir(staticResourceDir(resourceDir, u.triple))
	}
	swiftrt := filepath.Join(resourceDir, u.triple.PlatformName(false), u.triple.ArchName(), "swiftrt.o")
	args = append(args, u.pathArg(swiftrt))

	args = append(args, elfInputArgs(u.in, objects, req.UseFileList)...)
	for _, a := range autolink {
		args = append(args, domain.ResponseFileArg(a))
	}

	for _, p := range runtimePaths {
		args = append(args, domain.JoinedOptionAndPath("-L", u.in.Intern(domain.Absolute(p))))
	}
	args = append(args, u.searchPathArgs(req.Options, req.WorkingDir, false)...)

	if req.SDKPath != "" {
		args = append(args, domain.Flag("--sysroot"), u.pathArg(req.SDKPath))
	}

	switch {
	case staticExecutable:
		lnk, err := u.requireFile(filepath.Join(staticResourceDir(req.TargetInfo.RuntimeResourcePath(), u.triple), "static-executable-args.lnk"), "static executable link file")
		if err != nil {
			return 0, nil, err
		}
		args = append(args, domain.ResponseFileArg(lnk))
	case staticStdlib:
		lnk, err := u.requireFile(filepath.Join(staticResourceDir(req.TargetInfo.RuntimeResourcePath(), u.triple), "static-stdlib-args.lnk"), "static stdlib link file")
		if err != nil {
			return 0, nil, err
		}
		args = append(args, domain.ResponseFileArg(lnk))
	default:
		args = append(args, domain.Flag("-lswiftCore"))
	}

	if len(req.Sanitizers) > 0 {
		args = append(args, domain.Flag(sanitizerFlag(req.Sanitizers)))
	}
	if req.Options.HasArgument("-profile-generate") {
		lib := filepath.Join(resourceDir, "clang", "lib", u.triple.PlatformName(true), "libclang_rt.profile-"+u.triple.ArchName()+".a")
		args = append(args, u.pathArg(lib), domain.Flag("-u__llvm_profile_runtime"))
	}
	if req.LTO != domain.LTONone {
		args = append(args, domain.Flag(req.LTO.Flag()))
	}

	args = append(args, linkerOptionArgs(req.Options, false)...)
	args = append(args, domain.Flag("-o"), domain.PathArg(req.Output))

	tool := domain.ToolDynamicLinker
	if req.Options.HasArgument("-enable-experimental-cxx-interop", "-cxx-interoperability-mode=") {
		tool = domain.ToolClangXX
	}
	return tool, args, nil
}

// elfInputArgs passes objects directly or through a response file list.
func elfInputArgs(in *domain.Interner, objects []domain.PathHandle, useFileList bool) []domain.ArgTemplate {
	if useFileList {
		list := in.UniqueFileList("inputs.LinkFileList", domain.FileListContents{
			Kind:  domain.FileListPaths,
			Paths: objects,
		})
		return []domain.ArgTemplate{domain.ResponseFileArg(list)}
	}
	out := make([]domain.ArgTemplate, len(objects))
	for i, o := range objects {
		out[i] = domain.PathArg(o)
	}
	return out
}

// InterpreterEnvironment implements Toolchain.
func (u *GenericUnix) InterpreterEnvironment(opts ports.ParsedOptions, info *domain.FrontendTargetInfo) (map[string]string, error) {
	libraries := append(u.runtimePaths(info, false), optionValues(opts, "-L")...)
	return map[string]string{
		"LD_LIBRARY_PATH": u.searchPathVariable("LD_LIBRARY_PATH", ":", libraries),
	}, nil
}

// StaticTargetInfo implements Toolchain.
func (u *GenericUnix) StaticTargetInfo(resourceDir, sdkPath string) *domain.FrontendTargetInfo {
	info := staticTargetInfo(u.triple, resourceDir, sdkPath)
	info.Target.LibrariesRequireRPath = true
	return info
}
