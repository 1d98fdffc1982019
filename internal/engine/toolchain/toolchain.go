// Package toolchain describes the external tools of a target platform and how
// the driver talks to them: executable names, linker command lines, runtime
// library placement and platform-specific frontend options.
package toolchain

import (
	"path/filepath"
	"strings"
	"sync"

	"go.trai.ch/swiftplan/internal/core/domain"
	"go.trai.ch/swiftplan/internal/core/ports"
	"go.trai.ch/swiftplan/internal/engine/commandline"
)

// Platform is the family a toolchain implementation serves.
type Platform uint8

const (
	PlatformDarwin Platform = iota + 1
	PlatformUnix
	PlatformWindows
	PlatformWasm
)

func (p Platform) String() string {
	switch p {
	case PlatformDarwin:
		return "darwin"
	case PlatformUnix:
		return "unix"
	case PlatformWindows:
		return "windows"
	case PlatformWasm:
		return "wasm"
	default:
		return "invalid"
	}
}

// ResolvedTool is a located executable.
type ResolvedTool struct {
	Handle                domain.PathHandle
	Path                  string
	SupportsResponseFiles bool
}

// LinkRequest is everything a platform needs to produce a link command line.
type LinkRequest struct {
	OutputType domain.LinkOutputType
	Inputs     []domain.TypedVirtualPath
	Output     domain.PathHandle
	LTO        domain.LTOKind
	Sanitizers domain.SanitizerSet
	// UseFileList passes object inputs through a file list.
	UseFileList bool
	// DebugInfo registers module inputs with the linker for the debugger.
	DebugInfo  bool
	Options    ports.ParsedOptions
	TargetInfo *domain.FrontendTargetInfo
	SDKPath    string
	WorkingDir string
}

// Toolchain is the capability object of one target platform. One instance is
// selected per compilation from the target triple.
type Toolchain interface {
	Platform() Platform
	Triple() domain.Triple

	// ExecutableName returns the program implementing tool.
	ExecutableName(tool domain.Tool, lto domain.LTOKind) string
	// ResolvedTool locates tool.
	ResolvedTool(tool domain.Tool, lto domain.LTOKind) (ResolvedTool, error)
	// LinkerOutputName returns the default file name of a link product.
	LinkerOutputName(moduleName string, t domain.LinkOutputType) string

	// SupportsSanitizer reports whether s has a runtime for the target.
	SupportsSanitizer(s domain.Sanitizer) bool
	// NeedsAutolinkExtract reports whether link dependencies embedded in
	// objects must be extracted before linking.
	NeedsAutolinkExtract() bool
	// SupportsDSYM reports whether debug info is bundled into a dSYM.
	SupportsDSYM() bool
	// Validate rejects options the target cannot honor.
	Validate(opts ports.ParsedOptions, sanitizers domain.SanitizerSet) error

	// AddPlatformFrontendOptions appends target-specific frontend flags.
	AddPlatformFrontendOptions(b *commandline.Builder, opts ports.ParsedOptions, sdkPath string) error
	// LinkerArguments returns the tool and command line of a link job.
	LinkerArguments(req *LinkRequest) (domain.Tool, []domain.ArgTemplate, error)
	// InterpreterEnvironment returns the environment of an interpret job.
	InterpreterEnvironment(opts ports.ParsedOptions, info *domain.FrontendTargetInfo) (map[string]string, error)
	// StaticTargetInfo derives target information without running the frontend.
	StaticTargetInfo(resourceDir, sdkPath string) *domain.FrontendTargetInfo
}

// Config carries the collaborators shared by all platforms.
type Config struct {
	Interner *domain.Interner
	Locator  ports.ToolLocator
	FS       ports.FileSystem
	// Env is the driver's environment, used to extend library search paths.
	Env map[string]string
	// FrontendPath overrides where the frontend is found.
	FrontendPath string
}

// New selects the toolchain for triple.
func New(triple domain.Triple, cfg Config) Toolchain {
	b := &base{
		triple:   triple,
		in:       cfg.Interner,
		locator:  cfg.Locator,
		fs:       cfg.FS,
		env:      cfg.Env,
		frontend: cfg.FrontendPath,
		resolved: make(map[string]ResolvedTool),
	}
	switch {
	case triple.IsDarwin():
		return &Darwin{base: b}
	case triple.IsWindows():
		return &Windows{base: b}
	case triple.IsWasm():
		return &WebAssembly{base: b}
	default:
		return &GenericUnix{base: b}
	}
}

type base struct {
	triple   domain.Triple
	in       *domain.Interner
	locator  ports.ToolLocator
	fs       ports.FileSystem
	env      map[string]string
	frontend string

	mu       sync.Mutex
	resolved map[string]ResolvedTool
}

func (b *base) Triple() domain.Triple {
	return b.triple
}

// commonExecutableName covers the tools every platform names alike.
func commonExecutableName(tool domain.Tool) string {
	switch tool {
	case domain.ToolFrontend:
		return "swift-frontend"
	case domain.ToolDynamicLinker, domain.ToolClang:
		return "clang"
	case domain.ToolClangXX:
		return "clang++"
	case domain.ToolAutolinkExtract:
		return "swift-autolink-extract"
	case domain.ToolDsymutil:
		return "dsymutil"
	case domain.ToolLLDB:
		return "lldb"
	case domain.ToolDwarfdump:
		return "dwarfdump"
	case domain.ToolAPIDigester:
		return "swift-api-digester"
	case domain.ToolStaticLinker:
		return "ar"
	default:
		panic("toolchain: unknown tool " + tool.String())
	}
}

// supportsResponseFiles reports whether the named program accepts @file.
func supportsResponseFiles(executable string) bool {
	switch executable {
	case "swift-frontend", "clang", "clang++", "libtool", "llvm-ar", "lib", "llvm-lib",
		"swift-autolink-extract", "swift-api-digester":
		return true
	default:
		return false
	}
}

func (b *base) resolve(tool domain.Tool, executable string) (ResolvedTool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if r, ok := b.resolved[executable]; ok {
		return r, nil
	}

	var path string
	if tool == domain.ToolFrontend && b.frontend != "" {
		path = b.frontend
	} else {
		located, err := b.locator.Locate(executable)
		if err != nil {
			return ResolvedTool{}, err
		}
		path = located
	}

	r := ResolvedTool{
		Handle:                b.in.Intern(domain.Absolute(path)),
		Path:                  path,
		SupportsResponseFiles: supportsResponseFiles(executable),
	}
	b.resolved[executable] = r
	return r, nil
}

// runtimePaths returns the directories the Swift runtime is linked from.
func (b *base) runtimePaths(info *domain.FrontendTargetInfo, staticStdlib bool) []string {
	if staticStdlib {
		return []string{staticResourceDir(info.RuntimeResourcePath(), b.triple)}
	}
	if paths := info.RuntimeLibraryPaths(); len(paths) > 0 {
		return append([]string(nil), paths...)
	}
	return []string{filepath.Join(info.RuntimeResourcePath(), b.triple.PlatformName(false))}
}

// staticResourceDir is the swift_static sibling of the resource directory.
func staticResourceDir(resourceDir string, t domain.Triple) string {
	return filepath.Join(filepath.Dir(resourceDir), "swift_static", t.PlatformName(false))
}

func (b *base) pathArg(p string) domain.ArgTemplate {
	return domain.PathArg(b.in.Intern(domain.Absolute(p)))
}

// requireFile returns a path argument for p after checking it exists.
func (b *base) requireFile(p, what string) (domain.PathHandle, error) {
	if !b.fs.Exists(p) {
		return domain.NoPath, domain.NewError(domain.ErrMissingRequiredFile, what, "path", p)
	}
	return b.in.Intern(domain.Absolute(p)), nil
}

// splitLinkInputs applies the shared linker input filter: objects always,
// bitcode only under LTO, autolink output as response files.
func splitLinkInputs(req *LinkRequest) (objects, autolink, modules []domain.PathHandle) {
	for _, input := range req.Inputs {
		switch input.Type {
		case domain.FileTypeObject:
			objects = append(objects, input.File)
		case domain.FileTypeLLVMBitcode:
			if req.LTO != domain.LTONone {
				objects = append(objects, input.File)
			}
		case domain.FileTypeAutolink:
			autolink = append(autolink, input.File)
		case domain.FileTypeSwiftModule:
			modules = append(modules, input.File)
		default:
		}
	}
	return objects, autolink, modules
}

// linkerOptionArgs forwards -l, -framework, -Xlinker and -Xclang-linker in
// command-line order.
func linkerOptionArgs(opts ports.ParsedOptions, allowFrameworks bool) []domain.ArgTemplate {
	var out []domain.ArgTemplate
	for _, opt := range opts.All() {
		if opt.Option.Group != domain.GroupLinkerOption {
			continue
		}
		switch opt.Spelling() {
		case "-l":
			out = append(out, domain.Flag("-l"+opt.Value()))
		case "-framework":
			if allowFrameworks {
				out = append(out, domain.Flag("-framework"), domain.Flag(opt.Value()))
			}
		case "-Xlinker":
			out = append(out, domain.Flag("-Xlinker"), domain.Flag(opt.Value()))
		case "-Xclang-linker":
			out = append(out, domain.Flag(opt.Value()))
		default:
		}
	}
	return out
}

func (b *base) searchPathArgs(opts ports.ParsedOptions, workingDir string, frameworks bool) []domain.ArgTemplate {
	var out []domain.ArgTemplate
	spellings := []string{"-L"}
	if frameworks {
		spellings = append(spellings, "-F", "-Fsystem")
	}
	for _, opt := range opts.Arguments(spellings...) {
		p, err := domain.ParseVirtualPath(opt.Value())
		if err != nil {
			continue
		}
		flag := opt.Spelling()
		if flag == "-Fsystem" {
			flag = "-iframework"
		}
		out = append(out, domain.JoinedOptionAndPath(flag, b.in.Intern(p.Resolved(workingDir))))
	}
	return out
}

func sanitizerFlag(set domain.SanitizerSet) string {
	sorted := set.Sorted()
	names := make([]string, len(sorted))
	for i, s := range sorted {
		names[i] = s.String()
	}
	return "-fsanitize=" + strings.Join(names, ",")
}

// validateSanitizers returns a capability error for the first sanitizer the
// toolchain has no runtime for.
func validateSanitizers(tc Toolchain, set domain.SanitizerSet) error {
	for _, s := range set.Sorted() {
		if !tc.SupportsSanitizer(s) {
			return domain.NewCapabilityError(domain.ErrUnsupportedSanitizer, tc.Triple().String(), "-sanitize="+s.String())
		}
	}
	return nil
}

// searchPathVariable joins dirs with the inherited value of the variable.
func (b *base) searchPathVariable(name, sep string, dirs []string) string {
	paths := append([]string(nil), dirs...)
	if existing := b.env[name]; existing != "" {
		paths = append(paths, existing)
	}
	return strings.Join(paths, sep)
}

func optionValues(opts ports.ParsedOptions, spellings ...string) []string {
	var out []string
	for _, opt := range opts.Arguments(spellings...) {
		out = append(out, opt.Value())
	}
	return out
}
