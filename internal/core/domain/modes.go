package domain

import "sort"

// CompilerMode is how the frontend is invoked over the source inputs.
type CompilerMode uint8

const (
	// CompileStandard runs one frontend job per primary source file.
	CompileStandard CompilerMode = iota + 1
	// CompileBatch groups primary source files into a few frontend jobs.
	CompileBatch
	// CompileSingle compiles every source file in one whole-module job.
	CompileSingle
	// CompileImmediate runs the program through the interpreter.
	CompileImmediate
	// CompileREPL starts the read-eval-print loop.
	CompileREPL
	// CompilePCM precompiles a Clang module map.
	CompilePCM
	// CompileDumpPCM prints information about a precompiled Clang module.
	CompileDumpPCM
	// CompileIntro answers an informational request such as -print-target-info.
	CompileIntro
)

var compilerModeNames = map[CompilerMode]string{
	CompileStandard:  "standardCompile",
	CompileBatch:     "batchCompile",
	CompileSingle:    "singleCompile",
	CompileImmediate: "immediate",
	CompileREPL:      "repl",
	CompilePCM:       "compilePCM",
	CompileDumpPCM:   "dumpPCM",
	CompileIntro:     "intro",
}

func (m CompilerMode) String() string {
	if name, ok := compilerModeNames[m]; ok {
		return name
	}
	return "invalid"
}

// UsesPrimaryFileInputs reports whether jobs in mode m have primary inputs.
func (m CompilerMode) UsesPrimaryFileInputs() bool {
	return m == CompileStandard || m == CompileBatch
}

// IsSingleCompilation reports whether m compiles all sources in one invocation.
func (m CompilerMode) IsSingleCompilation() bool {
	switch m {
	case CompileSingle, CompileImmediate, CompileREPL, CompilePCM, CompileDumpPCM:
		return true
	default:
		return false
	}
}

// SupportsBridgingPCH reports whether mode m can precompile a bridging header.
func (m CompilerMode) SupportsBridgingPCH() bool {
	return m == CompileStandard || m == CompileBatch
}

// IsInteractive reports whether m replaces the driver process.
func (m CompilerMode) IsInteractive() bool {
	return m == CompileImmediate || m == CompileREPL
}

// LinkOutputType is the kind of image a link job produces.
type LinkOutputType uint8

const (
	// LinkNone means no link job is planned.
	LinkNone LinkOutputType = iota
	LinkExecutable
	LinkDynamicLibrary
	LinkStaticLibrary
)

func (t LinkOutputType) String() string {
	switch t {
	case LinkExecutable:
		return "executable"
	case LinkDynamicLibrary:
		return "dynamicLibrary"
	case LinkStaticLibrary:
		return "staticLibrary"
	case LinkNone:
		return "none"
	default:
		return "invalid"
	}
}

// LTOKind selects link-time optimization.
type LTOKind uint8

const (
	// LTONone disables link-time optimization.
	LTONone LTOKind = iota
	LTOFull
	LTOThin
)

// Flag returns the clang spelling for k.
func (k LTOKind) Flag() string {
	switch k {
	case LTOFull:
		return "-flto=full"
	case LTOThin:
		return "-flto=thin"
	case LTONone:
		return ""
	default:
		return ""
	}
}

// Sanitizer is a runtime instrumentation library.
type Sanitizer uint8

const (
	SanitizerAddress Sanitizer = iota + 1
	SanitizerThread
	SanitizerUndefinedBehavior
	SanitizerFuzzer
	SanitizerScudo
)

var sanitizerNames = map[Sanitizer]string{
	SanitizerAddress:           "address",
	SanitizerThread:            "thread",
	SanitizerUndefinedBehavior: "undefined",
	SanitizerFuzzer:            "fuzzer",
	SanitizerScudo:             "scudo",
}

var sanitizerLibraryNames = map[Sanitizer]string{
	SanitizerAddress:           "asan",
	SanitizerThread:            "tsan",
	SanitizerUndefinedBehavior: "ubsan",
	SanitizerFuzzer:            "fuzzer",
	SanitizerScudo:             "scudo",
}

// String returns the -sanitize= spelling of s.
func (s Sanitizer) String() string {
	return sanitizerNames[s]
}

// LibraryName returns the runtime library stem of s, e.g. "asan".
func (s Sanitizer) LibraryName() string {
	return sanitizerLibraryNames[s]
}

// ParseSanitizer resolves a -sanitize= value.
func ParseSanitizer(name string) (Sanitizer, bool) {
	for s, n := range sanitizerNames {
		if n == name {
			return s, true
		}
	}
	return 0, false
}

// SanitizerSet is a set of sanitizers.
type SanitizerSet map[Sanitizer]struct{}

// Has reports whether s is in the set.
func (set SanitizerSet) Has(s Sanitizer) bool {
	_, ok := set[s]
	return ok
}

// Sorted returns the sanitizers ordered by spelling.
func (set SanitizerSet) Sorted() []Sanitizer {
	out := make([]Sanitizer, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// DigesterMode selects whether the API digester compares the public API or the ABI.
type DigesterMode uint8

const (
	DigesterAPI DigesterMode = iota + 1
	DigesterABI
)

func (m DigesterMode) String() string {
	if m == DigesterABI {
		return "abi"
	}
	return "api"
}

// BaselineFileType returns the file type a baseline dump in mode m has.
func (m DigesterMode) BaselineFileType() FileType {
	if m == DigesterABI {
		return FileTypeJSONABIBaseline
	}
	return FileTypeJSONAPIBaseline
}

// DriverKind selects between the interactive and batch driver personalities.
type DriverKind uint8

const (
	// DriverBatch is the swiftc personality.
	DriverBatch DriverKind = iota + 1
	// DriverInteractive is the swift personality.
	DriverInteractive
)

func (k DriverKind) String() string {
	if k == DriverInteractive {
		return "swift"
	}
	return "swiftc"
}

// RPathPolicy decides which runtime search path is embedded into Darwin images.
type RPathPolicy uint8

const (
	// RPathNone embeds no runtime search path.
	RPathNone RPathPolicy = iota
	// RPathToolchain points at the toolchain runtime directory.
	RPathToolchain
	// RPathOS points at /usr/lib/swift on the target system.
	RPathOS
)

// ResponseFilePolicy controls when command lines are moved into response files.
type ResponseFilePolicy uint8

const (
	// ResponseFilesHeuristic uses a response file when the command line is too long.
	ResponseFilesHeuristic ResponseFilePolicy = iota
	// ResponseFilesAlways uses a response file whenever the tool accepts one.
	ResponseFilesAlways
	// ResponseFilesNever passes every argument directly.
	ResponseFilesNever
)

// ParseResponseFilePolicy resolves a configuration value.
func ParseResponseFilePolicy(s string) (ResponseFilePolicy, bool) {
	switch s {
	case "", "heuristic":
		return ResponseFilesHeuristic, true
	case "always":
		return ResponseFilesAlways, true
	case "never":
		return ResponseFilesNever, true
	default:
		return 0, false
	}
}
