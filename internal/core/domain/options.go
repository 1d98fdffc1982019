package domain

// OptionKind is the argument-passing convention of an option.
type OptionKind uint8

const (
	// OptionFlag takes no value.
	OptionFlag OptionKind = iota + 1
	// OptionSeparate takes its value from the next argument.
	OptionSeparate
	// OptionJoinedOrSeparate takes its value attached or from the next argument.
	OptionJoinedOrSeparate
	// OptionCommaJoined takes a comma separated list attached to the spelling.
	OptionCommaJoined
	// OptionJoined takes its value attached to the spelling.
	OptionJoined
	// OptionRemaining consumes every argument after it.
	OptionRemaining
	// OptionMultiArg takes a fixed number of following arguments.
	OptionMultiArg
	// OptionInput is a positional input file.
	OptionInput
)

// OptionGroup collects mutually exclusive options where the last one wins.
type OptionGroup uint8

const (
	GroupNone OptionGroup = iota
	// GroupModes selects what the driver produces.
	GroupModes
	// GroupG selects the debug info level.
	GroupG
	// GroupO selects the optimization level.
	GroupO
	// GroupLinkerOption collects options forwarded to the linker in order.
	GroupLinkerOption
)

// OptionAttr is a set of option properties.
type OptionAttr uint8

const (
	// AttrArgumentIsPath marks options whose value is a file system path.
	AttrArgumentIsPath OptionAttr = 1 << iota
	// AttrFrontend marks options the frontend understands.
	AttrFrontend
	// AttrDoesNotAffectIncrementalBuild marks options ignored by cache keys.
	AttrDoesNotAffectIncrementalBuild
)

// InputSpelling is the pseudo-spelling of positional inputs.
const InputSpelling = "<input>"

// Option describes one driver option.
type Option struct {
	Spelling string
	Kind     OptionKind
	Group    OptionGroup
	Attrs    OptionAttr
	// AliasOf names the canonical spelling for alternate spellings.
	AliasOf string
	// NumArgs is the value count of OptionMultiArg options.
	NumArgs int
}

// IsPath reports whether the option value is a path.
func (o *Option) IsPath() bool {
	return o.Attrs&AttrArgumentIsPath != 0
}

// ParsedOption is one occurrence of an option on the command line.
type ParsedOption struct {
	Option *Option
	Values []string
	// Index is the position of the occurrence among all parsed options.
	Index int
}

// Spelling returns the canonical spelling of the option.
func (p ParsedOption) Spelling() string {
	return p.Option.Spelling
}

// Value returns the first value, or "" for flags.
func (p ParsedOption) Value() string {
	if len(p.Values) == 0 {
		return ""
	}
	return p.Values[0]
}

const (
	kFlag         = OptionFlag
	kSeparate     = OptionSeparate
	kJoinedOrSep  = OptionJoinedOrSeparate
	kCommaJoined  = OptionCommaJoined
	kJoined       = OptionJoined
	aPath         = AttrArgumentIsPath
	aFrontend     = AttrFrontend
	aPathFrontend = AttrArgumentIsPath | AttrFrontend
	aNoIncr       = AttrDoesNotAffectIncrementalBuild
)

//nolint:gochecknoglobals // static option table
var optionTable = []Option{
	{Spelling: InputSpelling, Kind: OptionInput, Attrs: aPath},
	{Spelling: "--", Kind: OptionRemaining},

	// Modes.
	{Spelling: "-emit-executable", Kind: kFlag, Group: GroupModes},
	{Spelling: "-emit-library", Kind: kFlag, Group: GroupModes},
	{Spelling: "-c", Kind: kFlag, Group: GroupModes, Attrs: aFrontend},
	{Spelling: "-emit-object", Kind: kFlag, Group: GroupModes, AliasOf: "-c"},
	{Spelling: "-S", Kind: kFlag, Group: GroupModes, Attrs: aFrontend},
	{Spelling: "-emit-assembly", Kind: kFlag, Group: GroupModes, AliasOf: "-S"},
	{Spelling: "-emit-sil", Kind: kFlag, Group: GroupModes, Attrs: aFrontend},
	{Spelling: "-emit-silgen", Kind: kFlag, Group: GroupModes, Attrs: aFrontend},
	{Spelling: "-emit-sib", Kind: kFlag, Group: GroupModes, Attrs: aFrontend},
	{Spelling: "-emit-sibgen", Kind: kFlag, Group: GroupModes, Attrs: aFrontend},
	{Spelling: "-emit-ir", Kind: kFlag, Group: GroupModes, Attrs: aFrontend},
	{Spelling: "-emit-irgen", Kind: kFlag, Group: GroupModes, Attrs: aFrontend},
	{Spelling: "-emit-bc", Kind: kFlag, Group: GroupModes, Attrs: aFrontend},
	{Spelling: "-dump-ast", Kind: kFlag, Group: GroupModes, Attrs: aFrontend},
	{Spelling: "-dump-parse", Kind: kFlag, Group: GroupModes, Attrs: aFrontend},
	{Spelling: "-parse", Kind: kFlag, Group: GroupModes, Attrs: aFrontend},
	{Spelling: "-resolve-imports", Kind: kFlag, Group: GroupModes, Attrs: aFrontend},
	{Spelling: "-typecheck", Kind: kFlag, Group: GroupModes, Attrs: aFrontend},
	{Spelling: "-print-ast", Kind: kFlag, Group: GroupModes, Attrs: aFrontend},
	{Spelling: "-emit-imported-modules", Kind: kFlag, Group: GroupModes, Attrs: aFrontend},
	{Spelling: "-emit-pcm", Kind: kFlag, Group: GroupModes, Attrs: aFrontend},
	{Spelling: "-dump-pcm", Kind: kFlag, Group: GroupModes, Attrs: aFrontend},
	{Spelling: "-scan-dependencies", Kind: kFlag, Group: GroupModes, Attrs: aFrontend},
	{Spelling: "-index-file", Kind: kFlag, Group: GroupModes},
	{Spelling: "-repl", Kind: kFlag, Group: GroupModes},
	{Spelling: "-lldb-repl", Kind: kFlag, Group: GroupModes},
	{Spelling: "-deprecated-integrated-repl", Kind: kFlag, Group: GroupModes},
	{Spelling: "-i", Kind: kFlag, Group: GroupModes},
	{Spelling: "-emit-supported-features", Kind: kFlag, Group: GroupModes},

	// Informational requests.
	{Spelling: "-print-target-info", Kind: kFlag, Attrs: aFrontend},
	{Spelling: "-version", Kind: kFlag},
	{Spelling: "--version", Kind: kFlag, AliasOf: "-version"},

	// Debug info.
	{Spelling: "-g", Kind: kFlag, Group: GroupG, Attrs: aFrontend},
	{Spelling: "-gnone", Kind: kFlag, Group: GroupG, Attrs: aFrontend},
	{Spelling: "-gline-tables-only", Kind: kFlag, Group: GroupG, Attrs: aFrontend},
	{Spelling: "-gdwarf-types", Kind: kFlag, Group: GroupG, Attrs: aFrontend},
	{Spelling: "-debug-info-format=", Kind: kJoined, Attrs: aFrontend},
	{Spelling: "-dwarf-version=", Kind: kJoined, Attrs: aFrontend},
	{Spelling: "-debug-prefix-map", Kind: kSeparate, Attrs: aFrontend},
	{Spelling: "-file-prefix-map", Kind: kSeparate, Attrs: aFrontend},
	{Spelling: "-coverage-prefix-map", Kind: kSeparate, Attrs: aFrontend},
	{Spelling: "-verify-debug-info", Kind: kFlag},

	// Optimization.
	{Spelling: "-O", Kind: kFlag, Group: GroupO, Attrs: aFrontend},
	{Spelling: "-Onone", Kind: kFlag, Group: GroupO, Attrs: aFrontend},
	{Spelling: "-Osize", Kind: kFlag, Group: GroupO, Attrs: aFrontend},
	{Spelling: "-Ounchecked", Kind: kFlag, Group: GroupO, Attrs: aFrontend},
	{Spelling: "-Oplayground", Kind: kFlag, Group: GroupO, Attrs: aFrontend},
	{Spelling: "-wmo", Kind: kFlag},
	{Spelling: "-whole-module-optimization", Kind: kFlag, AliasOf: "-wmo"},
	{Spelling: "-force-single-frontend-invocation", Kind: kFlag, AliasOf: "-wmo"},
	{Spelling: "-no-whole-module-optimization", Kind: kFlag},
	{Spelling: "-num-threads", Kind: kSeparate, Attrs: aFrontend},
	{Spelling: "-enable-library-evolution", Kind: kFlag, Attrs: aFrontend},
	{Spelling: "-disable-cross-module-optimization", Kind: kFlag, Attrs: aFrontend},
	{Spelling: "-enable-default-cmo", Kind: kFlag, Attrs: aFrontend},
	{Spelling: "-lto=", Kind: kJoined},
	{Spelling: "-lto-library", Kind: kSeparate, Attrs: aPath},

	// Driver behaviour.
	{Spelling: "-driver-mode=", Kind: kJoined},
	{Spelling: "-o", Kind: kJoinedOrSep, Attrs: aPath},
	{Spelling: "-j", Kind: kJoinedOrSep, Attrs: aNoIncr},
	{Spelling: "-module-name", Kind: kSeparate, Attrs: aFrontend},
	{Spelling: "-working-directory", Kind: kSeparate, Attrs: aPath},
	{Spelling: "-output-file-map", Kind: kSeparate, Attrs: aPath},
	{Spelling: "-enable-batch-mode", Kind: kFlag},
	{Spelling: "-disable-batch-mode", Kind: kFlag},
	{Spelling: "-driver-batch-count", Kind: kSeparate},
	{Spelling: "-driver-batch-size-limit", Kind: kSeparate},
	{Spelling: "-driver-batch-seed", Kind: kSeparate},
	{Spelling: "-driver-filelist-threshold=", Kind: kJoined},
	{Spelling: "-driver-print-jobs", Kind: kFlag},
	{Spelling: "-driver-use-frontend-path", Kind: kSeparate, Attrs: aPath},
	{Spelling: "-driver-force-response-files", Kind: kFlag},
	{Spelling: "-incremental", Kind: kFlag},
	{Spelling: "-v", Kind: kFlag},
	{Spelling: "-parseable-output", Kind: kFlag},
	{Spelling: "-continue-building-after-errors", Kind: kFlag, Attrs: aFrontend},
	{Spelling: "-explicit-module-build", Kind: kFlag},
	{Spelling: "-explicit-dependency-graph", Kind: kSeparate, Attrs: aPath},

	// Target and SDK.
	{Spelling: "-target", Kind: kSeparate, Attrs: aFrontend},
	{Spelling: "-target-variant", Kind: kSeparate, Attrs: aFrontend},
	{Spelling: "-sdk", Kind: kSeparate, Attrs: aPathFrontend},
	{Spelling: "-sysroot", Kind: kSeparate, Attrs: aPathFrontend},
	{Spelling: "-resource-dir", Kind: kSeparate, Attrs: aPathFrontend},
	{Spelling: "-tools-directory", Kind: kSeparate, Attrs: aPath},
	{Spelling: "-runtime-compatibility-version", Kind: kSeparate, Attrs: aFrontend},
	{Spelling: "-use-static-resource-dir", Kind: kFlag, Attrs: aFrontend},
	{Spelling: "-no-static-resource-dir", Kind: kFlag},
	{Spelling: "-swift-version", Kind: kSeparate, Attrs: aFrontend},
	{Spelling: "-libc", Kind: kSeparate},

	// Search paths.
	{Spelling: "-I", Kind: kJoinedOrSep, Attrs: aPathFrontend},
	{Spelling: "-F", Kind: kJoinedOrSep, Attrs: aPathFrontend},
	{Spelling: "-Fsystem", Kind: kSeparate, Attrs: aPathFrontend},
	{Spelling: "-L", Kind: kJoinedOrSep, Attrs: aPath, Group: GroupLinkerOption},
	{Spelling: "-module-cache-path", Kind: kSeparate, Attrs: aPathFrontend},
	{Spelling: "-prebuilt-module-cache-path", Kind: kSeparate, Attrs: aPathFrontend},
	{Spelling: "-vfsoverlay", Kind: kJoinedOrSep, Attrs: aPathFrontend},
	{Spelling: "-nostdimport", Kind: kFlag, Attrs: aFrontend},

	// Language.
	{Spelling: "-D", Kind: kJoinedOrSep, Attrs: aFrontend},
	{Spelling: "-parse-as-library", Kind: kFlag, Attrs: aFrontend},
	{Spelling: "-parse-stdlib", Kind: kFlag, Attrs: aFrontend},
	{Spelling: "-parse-sil", Kind: kFlag, Attrs: aFrontend},
	{Spelling: "-module-link-name", Kind: kSeparate, Attrs: aFrontend},
	{Spelling: "-module-abi-name", Kind: kSeparate, Attrs: aFrontend},
	{Spelling: "-package-name", Kind: kSeparate, Attrs: aFrontend},
	{Spelling: "-autolink-force-load", Kind: kFlag, Attrs: aFrontend},
	{Spelling: "-import-underlying-module", Kind: kFlag, Attrs: aFrontend},
	{Spelling: "-enable-testing", Kind: kFlag, Attrs: aFrontend},
	{Spelling: "-enable-private-imports", Kind: kFlag, Attrs: aFrontend},
	{Spelling: "-enable-experimental-feature", Kind: kSeparate, Attrs: aFrontend},
	{Spelling: "-enable-upcoming-feature", Kind: kSeparate, Attrs: aFrontend},
	{Spelling: "-enforce-exclusivity=", Kind: kJoined, Attrs: aFrontend},
	{Spelling: "-strict-concurrency=", Kind: kJoined, Attrs: aFrontend},
	{Spelling: "-cxx-interoperability-mode=", Kind: kJoined, Attrs: aFrontend},
	{Spelling: "-enable-experimental-cxx-interop", Kind: kFlag, Attrs: aFrontend},
	{Spelling: "-access-notes-path", Kind: kSeparate, Attrs: aPathFrontend},
	{Spelling: "-user-module-version", Kind: kSeparate, Attrs: aFrontend},
	{Spelling: "-define-availability", Kind: kSeparate, Attrs: aFrontend},

	// Diagnostics.
	{Spelling: "-warnings-as-errors", Kind: kFlag, Attrs: aFrontend},
	{Spelling: "-no-warnings-as-errors", Kind: kFlag, Attrs: aFrontend},
	{Spelling: "-suppress-warnings", Kind: kFlag, Attrs: aFrontend},
	{Spelling: "-color-diagnostics", Kind: kFlag, Attrs: aFrontend | aNoIncr},
	{Spelling: "-no-color-diagnostics", Kind: kFlag, Attrs: aFrontend | aNoIncr},
	{Spelling: "-diagnostic-style", Kind: kSeparate, Attrs: aFrontend | aNoIncr},
	{Spelling: "-serialize-diagnostics", Kind: kFlag},
	{Spelling: "-serialize-diagnostics-path", Kind: kSeparate, Attrs: aPath},

	// Module and supplementary outputs.
	{Spelling: "-emit-module", Kind: kFlag},
	{Spelling: "-emit-module-path", Kind: kSeparate, Attrs: aPath},
	{Spelling: "-emit-module-doc", Kind: kFlag},
	{Spelling: "-emit-module-doc-path", Kind: kSeparate, Attrs: aPath},
	{Spelling: "-emit-module-source-info", Kind: kFlag},
	{Spelling: "-emit-module-source-info-path", Kind: kSeparate, Attrs: aPath},
	{Spelling: "-avoid-emit-module-source-info", Kind: kFlag},
	{Spelling: "-emit-module-interface", Kind: kFlag},
	{Spelling: "-emit-module-interface-path", Kind: kSeparate, Attrs: aPath},
	{Spelling: "-emit-private-module-interface-path", Kind: kSeparate, Attrs: aPath},
	{Spelling: "-emit-package-module-interface-path", Kind: kSeparate, Attrs: aPath},
	{Spelling: "-emit-objc-header", Kind: kFlag},
	{Spelling: "-emit-objc-header-path", Kind: kSeparate, Attrs: aPath},
	{Spelling: "-emit-tbd", Kind: kFlag},
	{Spelling: "-emit-tbd-path", Kind: kSeparate, Attrs: aPath},
	{Spelling: "-emit-dependencies", Kind: kFlag},
	{Spelling: "-emit-loaded-module-trace", Kind: kFlag},
	{Spelling: "-emit-loaded-module-trace-path", Kind: kSeparate, Attrs: aPath},
	{Spelling: "-save-optimization-record", Kind: kFlag},
	{Spelling: "-save-optimization-record=", Kind: kJoined},
	{Spelling: "-save-optimization-record-path", Kind: kSeparate, Attrs: aPath},
	{Spelling: "-save-optimization-record-passes", Kind: kSeparate, Attrs: aFrontend},
	{Spelling: "-emit-const-values", Kind: kFlag},
	{Spelling: "-emit-const-values-path", Kind: kSeparate, Attrs: aPath},
	{Spelling: "-emit-api-descriptor", Kind: kFlag},
	{Spelling: "-emit-api-descriptor-path", Kind: kSeparate, Attrs: aPath},
	{Spelling: "-emit-symbol-graph", Kind: kFlag, Attrs: aFrontend},
	{Spelling: "-emit-symbol-graph-dir", Kind: kSeparate, Attrs: aPathFrontend},
	{Spelling: "-symbol-graph-minimum-access-level", Kind: kSeparate, Attrs: aFrontend},
	{Spelling: "-include-spi-symbols", Kind: kFlag, Attrs: aFrontend},
	{Spelling: "-emit-extension-block-symbols", Kind: kFlag, Attrs: aFrontend},
	{Spelling: "-omit-extension-block-symbols", Kind: kFlag, Attrs: aFrontend},
	{Spelling: "-emit-module-separately", Kind: kFlag},
	{Spelling: "-no-emit-module-separately", Kind: kFlag},
	{Spelling: "-emit-module-separately-wmo", Kind: kFlag},
	{Spelling: "-no-emit-module-separately-wmo", Kind: kFlag},
	{Spelling: "-verify-emitted-module-interface", Kind: kFlag},
	{Spelling: "-no-verify-emitted-module-interface", Kind: kFlag},
	{Spelling: "-downgrade-typecheck-interface-error", Kind: kFlag},
	{Spelling: "-no-downgrade-typecheck-interface-error", Kind: kFlag},

	// Bridging header.
	{Spelling: "-import-objc-header", Kind: kSeparate, Attrs: aPath},
	{Spelling: "-pch-output-dir", Kind: kSeparate, Attrs: aPath},
	{Spelling: "-enable-bridging-pch", Kind: kFlag},
	{Spelling: "-disable-bridging-pch", Kind: kFlag},
	{Spelling: "-pch-disable-validation", Kind: kFlag},

	// Indexing.
	{Spelling: "-index-store-path", Kind: kSeparate, Attrs: aPathFrontend},
	{Spelling: "-index-file-path", Kind: kSeparate, Attrs: aPath},
	{Spelling: "-index-ignore-system-modules", Kind: kFlag, Attrs: aFrontend},

	// Pass-through.
	{Spelling: "-Xcc", Kind: kSeparate},
	{Spelling: "-Xllvm", Kind: kSeparate},
	{Spelling: "-Xfrontend", Kind: kSeparate},
	{Spelling: "-Xlinker", Kind: kSeparate, Group: GroupLinkerOption},
	{Spelling: "-Xclang-linker", Kind: kSeparate, Group: GroupLinkerOption},

	// Linking.
	{Spelling: "-l", Kind: kJoined, Group: GroupLinkerOption},
	{Spelling: "-framework", Kind: kSeparate, Group: GroupLinkerOption},
	{Spelling: "-static", Kind: kFlag},
	{Spelling: "-static-stdlib", Kind: kFlag},
	{Spelling: "-no-static-stdlib", Kind: kFlag},
	{Spelling: "-static-executable", Kind: kFlag},
	{Spelling: "-no-static-executable", Kind: kFlag},
	{Spelling: "-toolchain-stdlib-rpath", Kind: kFlag},
	{Spelling: "-no-toolchain-stdlib-rpath", Kind: kFlag},
	{Spelling: "-no-stdlib-rpath", Kind: kFlag},
	{Spelling: "-link-objc-runtime", Kind: kFlag},
	{Spelling: "-no-link-objc-runtime", Kind: kFlag},
	{Spelling: "-use-ld=", Kind: kJoined},
	{Spelling: "-ld-path=", Kind: kJoined, Attrs: aPath},
	{Spelling: "-application-extension", Kind: kFlag, Attrs: aFrontend},
	{Spelling: "-embed-bitcode", Kind: kFlag},
	{Spelling: "-embed-bitcode-marker", Kind: kFlag, Attrs: aFrontend},

	// Instrumentation.
	{Spelling: "-sanitize=", Kind: kCommaJoined, Attrs: aFrontend},
	{Spelling: "-sanitize-recover=", Kind: kCommaJoined, Attrs: aFrontend},
	{Spelling: "-sanitize-coverage=", Kind: kCommaJoined, Attrs: aFrontend},
	{Spelling: "-sanitize-address-use-odr-indicator", Kind: kFlag, Attrs: aFrontend},
	{Spelling: "-profile-generate", Kind: kFlag, Attrs: aFrontend},
	{Spelling: "-profile-use=", Kind: kCommaJoined, Attrs: aFrontend},
	{Spelling: "-profile-coverage-mapping", Kind: kFlag, Attrs: aFrontend},

	// API digester.
	{Spelling: "-emit-digester-baseline", Kind: kFlag},
	{Spelling: "-emit-digester-baseline-path", Kind: kSeparate, Attrs: aPath},
	{Spelling: "-compare-to-baseline-path", Kind: kSeparate, Attrs: aPath},
	{Spelling: "-serialize-breaking-changes-path", Kind: kSeparate, Attrs: aPath},
	{Spelling: "-digester-breakage-allowlist-path", Kind: kSeparate, Attrs: aPath},
	{Spelling: "-digester-mode", Kind: kSeparate},
}

var optionIndex = func() map[string]*Option {
	idx := make(map[string]*Option, len(optionTable))
	for i := range optionTable {
		idx[optionTable[i].Spelling] = &optionTable[i]
	}
	return idx
}()

// LookupOption returns the option with the given spelling, resolving aliases
// to their canonical option.
func LookupOption(spelling string) (*Option, bool) {
	opt, ok := optionIndex[spelling]
	if !ok {
		return nil, false
	}
	if opt.AliasOf != "" {
		return optionIndex[opt.AliasOf], true
	}
	return opt, true
}

// MustLookupOption is LookupOption for spellings compiled into the driver.
// An unknown spelling is a programming error.
func MustLookupOption(spelling string) *Option {
	opt, ok := LookupOption(spelling)
	if !ok {
		panic("domain: unknown option " + spelling)
	}
	return opt
}

// Options returns the option table.
func Options() []Option {
	return optionTable
}
