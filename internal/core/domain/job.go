package domain

import "strings"

// JobKind is the kind of subprocess a Job describes.
type JobKind uint8

//nolint:revive // one constant per job kind
const (
	JobCompile JobKind = iota + 1
	JobMergeModule
	JobLink
	JobGenerateDSYM
	JobAutolinkExtract
	JobEmitModule
	JobGeneratePCH
	JobModuleWrap
	JobInterpret
	JobREPL
	JobVerifyDebugInfo
	JobPrintTargetInfo
	JobVersionRequest
	JobScanDependencies
	JobVerifyModuleInterface
	JobGeneratePCM
	JobDumpPCM
	JobCompileModuleFromInterface
	JobEmitSupportedFeatures
	JobGenerateAPIBaseline
	JobGenerateABIBaseline
	JobCompareAPIBaseline
	JobCompareABIBaseline

	jobKindEnd
)

var jobKindNames = [...]string{
	JobCompile:                    "compile",
	JobMergeModule:                "merge-module",
	JobLink:                       "link",
	JobGenerateDSYM:               "generate-dsym",
	JobAutolinkExtract:            "autolink-extract",
	JobEmitModule:                 "emit-module",
	JobGeneratePCH:                "generate-pch",
	JobModuleWrap:                 "module-wrap",
	JobInterpret:                  "interpret",
	JobREPL:                       "repl",
	JobVerifyDebugInfo:            "verify-debug-info",
	JobPrintTargetInfo:            "print-target-info",
	JobVersionRequest:             "version-request",
	JobScanDependencies:           "scan-dependencies",
	JobVerifyModuleInterface:      "verify-emitted-module-interface",
	JobGeneratePCM:                "generate-pcm",
	JobDumpPCM:                    "dump-pcm",
	JobCompileModuleFromInterface: "compile-module-from-interface",
	JobEmitSupportedFeatures:      "emit-supported-features",
	JobGenerateAPIBaseline:        "generate-api-baseline",
	JobGenerateABIBaseline:        "generate-abi-baseline",
	JobCompareAPIBaseline:         "compare-api-baseline",
	JobCompareABIBaseline:         "compare-abi-baseline",
}

// String returns the stable name of the kind.
func (k JobKind) String() string {
	if k < JobCompile || k >= jobKindEnd {
		return "invalid"
	}
	return jobKindNames[k]
}

// ParseJobKind returns the kind with the given stable name.
func ParseJobKind(s string) (JobKind, bool) {
	for k := JobCompile; k < jobKindEnd; k++ {
		if jobKindNames[k] == s {
			return k, true
		}
	}
	return 0, false
}

// IsCompile reports whether jobs of kind k run the frontend over source inputs.
func (k JobKind) IsCompile() bool {
	switch k {
	case JobCompile, JobEmitModule, JobMergeModule, JobGeneratePCH, JobGeneratePCM,
		JobCompileModuleFromInterface, JobVerifyModuleInterface:
		return true
	default:
		return false
	}
}

// Tool identifies an external executable independent of where it is installed.
type Tool uint8

//nolint:revive // one constant per tool
const (
	ToolFrontend Tool = iota + 1
	ToolStaticLinker
	ToolDynamicLinker
	ToolClang
	ToolClangXX
	ToolAutolinkExtract
	ToolDsymutil
	ToolLLDB
	ToolDwarfdump
	ToolAPIDigester

	toolEnd
)

var toolNames = [...]string{
	ToolFrontend:        "swift-frontend",
	ToolStaticLinker:    "static-linker",
	ToolDynamicLinker:   "dynamic-linker",
	ToolClang:           "clang",
	ToolClangXX:         "clang++",
	ToolAutolinkExtract: "swift-autolink-extract",
	ToolDsymutil:        "dsymutil",
	ToolLLDB:            "lldb",
	ToolDwarfdump:       "dwarfdump",
	ToolAPIDigester:     "swift-api-digester",
}

// String returns the logical tool name.
func (t Tool) String() string {
	if t < ToolFrontend || t >= toolEnd {
		return "invalid"
	}
	return toolNames[t]
}

// EnvironmentName returns the SWIFT_DRIVER_<NAME>_EXEC form used to override
// the location of executable.
func EnvironmentName(executable string) string {
	name := strings.ToUpper(strings.NewReplacer("-", "_", "+", "X", ".", "_").Replace(executable))
	return "SWIFT_DRIVER_" + name + "_EXEC"
}

// OutputCacheKey associates a content key with the input it was computed for.
type OutputCacheKey struct {
	Input TypedVirtualPath
	Key   string
}

// Job is one subprocess invocation in a plan. Jobs are built once and not
// modified afterwards.
type Job struct {
	ModuleName               string
	Kind                     JobKind
	Tool                     PathHandle
	CommandLine              []ArgTemplate
	DisplayInputs            []TypedVirtualPath
	Inputs                   []TypedVirtualPath
	PrimaryInputs            []TypedVirtualPath
	Outputs                  []TypedVirtualPath
	OutputCacheKeys          []OutputCacheKey
	ExtraEnvironment         map[string]string
	RequiresInPlaceExecution bool
	SupportsResponseFiles    bool
}

// OutputsOfType returns the declared outputs of type t.
func (j *Job) OutputsOfType(t FileType) []TypedVirtualPath {
	var out []TypedVirtualPath
	for _, o := range j.Outputs {
		if o.Type == t {
			out = append(out, o)
		}
	}
	return out
}

// InputsOfType returns the declared inputs of type t.
func (j *Job) InputsOfType(t FileType) []TypedVirtualPath {
	var out []TypedVirtualPath
	for _, in := range j.Inputs {
		if in.Type == t {
			out = append(out, in)
		}
	}
	return out
}

// HasArgument reports whether the command line contains the literal flag.
func (j *Job) HasArgument(flag string) bool {
	for _, a := range j.CommandLine {
		if a.IsFlag(flag) {
			return true
		}
	}
	return false
}

// CacheKey returns the output cache key recorded for input, if any.
func (j *Job) CacheKey(input TypedVirtualPath) (string, bool) {
	for _, k := range j.OutputCacheKeys {
		if k.Input == input {
			return k.Key, true
		}
	}
	return "", false
}

// Description returns a short human readable summary for progress output.
func (j *Job) Description(in *Interner) string {
	var names []string
	for _, p := range j.DisplayInputs {
		names = append(names, in.Lookup(p.File).Basename())
	}
	switch j.Kind {
	case JobCompile:
		if len(names) == 0 {
			return "Compiling " + j.ModuleName
		}
		return "Compiling " + j.ModuleName + " " + strings.Join(names, ", ")
	case JobEmitModule, JobMergeModule:
		return "Emitting module for " + j.ModuleName
	case JobLink:
		if len(j.Outputs) > 0 {
			return "Linking " + in.Lookup(j.Outputs[0].File).Basename()
		}
		return "Linking " + j.ModuleName
	default:
		if len(names) == 0 {
			return j.Kind.String() + " " + j.ModuleName
		}
		return j.Kind.String() + " " + strings.Join(names, ", ")
	}
}
