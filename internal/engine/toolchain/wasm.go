package toolchain

import (
	"path/filepath"

	"go.trai.ch/swiftplan/internal/core/domain"
	"go.trai.ch/swiftplan/internal/core/ports"
	"go.trai.ch/swiftplan/internal/engine/commandline"
)

// WebAssembly targets WASI. Products are always linked statically.
type WebAssembly struct {
	*base
}

// Platform implements Toolchain.
func (w *WebAssembly) Platform() Platform { return PlatformWasm }

// ExecutableName implements Toolchain.
func (w *WebAssembly) ExecutableName(tool domain.Tool, _ domain.LTOKind) string {
	if tool == domain.ToolStaticLinker {
		return "llvm-ar"
	}
	return commonExecutableName(tool)
}

// ResolvedTool implements Toolchain.
func (w *WebAssembly) ResolvedTool(tool domain.Tool, lto domain.LTOKind) (ResolvedTool, error) {
	return w.resolve(tool, w.ExecutableName(tool, lto))
}

// LinkerOutputName implements Toolchain.
func (w *WebAssembly) LinkerOutputName(moduleName string, t domain.LinkOutputType) string {
	if t == domain.LinkStaticLibrary {
		return "lib" + moduleName + ".a"
	}
	return moduleName + ".wasm"
}

// SupportsSanitizer implements Toolchain.
func (w *WebAssembly) SupportsSanitizer(domain.Sanitizer) bool { return false }

// NeedsAutolinkExtract implements Toolchain.
func (w *WebAssembly) NeedsAutolinkExtract() bool { return true }

// SupportsDSYM implements Toolchain.
func (w *WebAssembly) SupportsDSYM() bool { return false }

// Validate implements Toolchain.
func (w *WebAssembly) Validate(opts ports.ParsedOptions, sanitizers domain.SanitizerSet) error {
	if opts.HasArgument("-emit-library") && !opts.HasArgument("-static") {
		return domain.NewCapabilityError(domain.ErrUnsupportedDynamicLibrary, w.triple.String(), "-emit-library")
	}
	if opts.HasArgument("-profile-generate") {
		return domain.NewCapabilityError(domain.ErrUnsupportedProfiling, w.triple.String(), "-profile-generate")
	}
	return validateSanitizers(w, sanitizers)
}

// AddPlatformFrontendOptions implements Toolchain.
func (w *WebAssembly) AddPlatformFrontendOptions(_ *commandline.Builder, _ ports.ParsedOptions, _ string) error {
	return nil
}

// LinkerArguments implements Toolchain.
func (w *WebAssembly) LinkerArguments(req *LinkRequest) (domain.Tool, []domain.ArgTemplate, error) {
	if err := validateSanitizers(w, req.Sanitizers); err != nil {
		return 0, nil, err
	}
	objects, autolink, _ := splitLinkInputs(req)

	switch req.OutputType {
	case domain.LinkStaticLibrary:
		args := domain.Flags("crs")
		args = append(args, domain.PathArg(req.Output))
		args = append(args, elfInputArgs(w.in, objects, req.UseFileList)...)
		return domain.ToolStaticLinker, args, nil
	case domain.LinkDynamicLibrary:
		return 0, nil, domain.NewCapabilityError(domain.ErrUnsupportedDynamicLibrary, w.triple.String(), "-emit-library")
	default:
	}

	var args []domain.ArgTemplate
	if ld, ok := req.Options.LastArgument("-ld-path="); ok {
		args = append(args, domain.JoinedOptionAndPath("--ld-path=", w.in.Intern(domain.Absolute(ld.Value()))))
	} else if ld, ok := req.Options.LastArgument("-use-ld="); ok {
		args = append(args, domain.Flag("-fuse-ld="+ld.Value()))
	}
	args = append(args, domain.Flag("--target="+w.triple.String()))

	if tools, ok := req.Options.LastArgument("-tools-directory"); ok {
		args = append(args, domain.Flag("-B"), w.pathArg(tools.Value()))
	}

	staticDir := staticResourceDir(req.TargetInfo.RuntimeResourcePath(), w.triple)
	swiftrt := filepath.Join(staticDir, w.triple.ArchName(), "swiftrt.o")
	args = append(args, w.pathArg(swiftrt))

	args = append(args, elfInputArgs(w.in, objects, req.UseFileList)...)
	for _, a := range autolink {
		args = append(args, domain.ResponseFileArg(a))
	}

	args = append(args, domain.JoinedOptionAndPath("-L", w.in.Intern(domain.Absolute(staticDir))))
	args = append(args, w.searchPathArgs(req.Options, req.WorkingDir, false)...)

	if req.SDKPath != "" {
		args = append(args, domain.Flag("--sysroot"), w.pathArg(req.SDKPath))
	}

	lnk, err := w.requireFile(filepath.Join(staticDir, "static-executable-args.lnk"), "static executable link file")
	if err != nil {
		return 0, nil, err
	}
	args = append(args, domain.ResponseFileArg(lnk))

	if req.LTO != domain.LTONone {
		args = append(args, domain.Flag(req.LTO.Flag()))
	}

	args = append(args, linkerOptionArgs(req.Options, false)...)
	args = append(args, domain.Flag("-o"), domain.PathArg(req.Output))
	return domain.ToolDynamicLinker, args, nil
}

// InterpreterEnvironment implements Toolchain. WASI modules cannot be
// interpreted in process.
func (w *WebAssembly) InterpreterEnvironment(ports.ParsedOptions, *domain.FrontendTargetInfo) (map[string]string, error) {
	return nil, domain.NewCapabilityError(domain.ErrUnsupportedOption, w.triple.String(), "-i")
}

// StaticTargetInfo implements Toolchain.
func (w *WebAssembly) StaticTargetInfo(resourceDir, sdkPath string) *domain.FrontendTargetInfo {
	info := staticTargetInfo(w.triple, resourceDir, sdkPath)
	info.Paths.RuntimeLibraryPaths = []string{staticResourceDir(resourceDir, w.triple)}
	return info
}
