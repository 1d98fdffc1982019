// Package planner turns parsed driver options into an ordered list of jobs.
//
// NewContext derives the driver state once: compiler mode, output types,
// module name and output placement, supplementary outputs and the bridging
// header. The Planner then asks the per-kind builders for jobs and chains
// them by the identity of their declared inputs and outputs.
package planner

import (
	"strconv"
	"unicode"

	"go.trai.ch/swiftplan/internal/core/domain"
	"go.trai.ch/swiftplan/internal/core/ports"
	"go.trai.ch/swiftplan/internal/engine/toolchain"
)

// DefaultFileListThreshold is the number of inputs above which a job receives
// them through a file list instead of its command line.
const DefaultFileListThreshold = 128

// Config carries the inputs of one planning pass.
type Config struct {
	Interner   *domain.Interner
	Options    ports.ParsedOptions
	Toolchain  toolchain.Toolchain
	TargetInfo *domain.FrontendTargetInfo
	FS         ports.FileSystem
	DriverKind domain.DriverKind
	// OutputFileMap is the decoded -output-file-map, if any.
	OutputFileMap *domain.OutputFileMap
	// DependencyGraph is the scanned graph of an explicit module build.
	DependencyGraph *domain.ModuleDependencyGraph
	Env             map[string]string
}

// ModuleOutputKind says why a module is emitted.
type ModuleOutputKind uint8

const (
	// ModuleOutputNone means no module is emitted.
	ModuleOutputNone ModuleOutputKind = iota
	// ModuleOutputTopLevel is a module the user asked for.
	ModuleOutputTopLevel
	// ModuleOutputAuxiliary is a module another output needs, such as debug
	// info or a generated header. It is written to the temporary directory.
	ModuleOutputAuxiliary
)

// ModuleOutput is where the module of the compilation goes.
type ModuleOutput struct {
	Kind ModuleOutputKind
	Path domain.PathHandle
}

// DebugLevel is the amount of debug information requested.
type DebugLevel uint8

const (
	DebugNone DebugLevel = iota
	DebugLineTables
	DebugDWARFTypes
	DebugASTTypes
)

// DebugInfo is the resolved debug information request.
type DebugInfo struct {
	Level  DebugLevel
	Format string
	Verify bool
}

type digesterOptions struct {
	mode            domain.DigesterMode
	baseline        domain.PathHandle
	compare         domain.PathHandle
	breakingChanges domain.PathHandle
	allowlist       domain.PathHandle
}

type batchOptions struct {
	count     int
	sizeLimit int
	seed      int64
	hasSeed   bool
	jobs      int
}

// Context is the driver state a planning pass works from. It is computed once
// by NewContext and not modified afterwards.
type Context struct {
	in    *domain.Interner
	opts  ports.ParsedOptions
	tc    toolchain.Toolchain
	info  *domain.FrontendTargetInfo
	fs    ports.FileSystem
	ofm   *domain.OutputFileMap
	graph *domain.ModuleDependencyGraph
	env   map[string]string

	driverKind     domain.DriverKind
	workingDir     string
	mode           domain.CompilerMode
	modeOption     string
	compilerOutput domain.FileType
	linkerOutput   domain.LinkOutputType
	lto            domain.LTOKind
	debug          DebugInfo
	inputs         []domain.TypedVirtualPath
	moduleName     string
	module         ModuleOutput
	sdkPath        string
	sanitizers     domain.SanitizerSet
	numThreads     int

	emitModuleSeparately bool
	bridgingHeader       domain.PathHandle
	bridgingPCH          domain.PathHandle
	supplementary        map[domain.FileType]domain.PathHandle
	perInput             []supplementaryOutput
	digester             digesterOptions
	batch                batchOptions
	fileListThreshold    int
	explicitModules      bool
	indexFile            domain.PathHandle
}

// NewContext computes the driver state for cfg. Errors are user errors: bad
// option values, unusable inputs and conflicting requests.
func NewContext(cfg Config) (*Context, error) {
	c := &Context{
		in:                cfg.Interner,
		opts:              cfg.Options,
		tc:                cfg.Toolchain,
		info:              cfg.TargetInfo,
		fs:                cfg.FS,
		ofm:               cfg.OutputFileMap,
		graph:             cfg.DependencyGraph,
		env:               cfg.Env,
		driverKind:        cfg.DriverKind,
		supplementary:     make(map[domain.FileType]domain.PathHandle),
		fileListThreshold: DefaultFileListThreshold,
	}
	if c.driverKind == 0 {
		c.driverKind = domain.DriverBatch
	}
	if wd, ok := c.opts.LastArgument("-working-directory"); ok {
		c.workingDir = wd.Value()
	}
	if c.info == nil {
		var resourceDir string
		if dir, ok := c.opts.LastArgument("-resource-dir"); ok {
			resourceDir = dir.Value()
		}
		c.info = c.tc.StaticTargetInfo(resourceDir, "")
	}

	steps := []func() error{
		c.computeInputs,
		c.computeMode,
		c.computeOutputTypes,
		c.validateInputs,
		c.computeModuleName,
		c.computeDebugInfo,
		c.computeModuleOutput,
		c.computeSanitizers,
		c.computeSDK,
		c.computeBridgingHeader,
		c.computeEmitModuleSeparately,
		c.computeSupplementaryOutputs,
		c.computeDigester,
		c.computeBatchOptions,
		c.computeExplicitModules,
		c.computeIndexFile,
		c.validateOutputs,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Mode returns the compiler mode.
func (c *Context) Mode() domain.CompilerMode { return c.mode }

// CompilerOutputType returns the primary output type of compile jobs, or zero
// when they produce nothing.
func (c *Context) CompilerOutputType() domain.FileType { return c.compilerOutput }

// LinkerOutputType returns what the link job produces.
func (c *Context) LinkerOutputType() domain.LinkOutputType { return c.linkerOutput }

// ModuleName returns the name of the module being built.
func (c *Context) ModuleName() string { return c.moduleName }

// ModuleOutput returns where the module goes.
func (c *Context) ModuleOutput() ModuleOutput { return c.module }

// Inputs returns the typed command-line inputs.
func (c *Context) Inputs() []domain.TypedVirtualPath { return c.inputs }

// DebugInfo returns the debug information request.
func (c *Context) DebugInfo() DebugInfo { return c.debug }

// EmitModuleSeparately reports whether a dedicated job emits the module.
func (c *Context) EmitModuleSeparately() bool { return c.emitModuleSeparately }

// BridgingPCH returns the precompiled bridging header path, if one is built.
func (c *Context) BridgingPCH() (domain.PathHandle, bool) {
	return c.bridgingPCH, c.bridgingPCH.IsValid()
}

// SupplementaryOutput returns the module-wide path of a supplementary output.
func (c *Context) SupplementaryOutput(t domain.FileType) (domain.PathHandle, bool) {
	h, ok := c.supplementary[t]
	return h, ok
}

// Interner returns the path arena the plan is built in.
func (c *Context) Interner() *domain.Interner { return c.in }

func (c *Context) parsePath(s string) (domain.PathHandle, error) {
	p, err := domain.ParseVirtualPath(s)
	if err != nil {
		return domain.NoPath, err
	}
	return c.in.Intern(p.Resolved(c.workingDir)), nil
}

func (c *Context) parseOutputPath(s string) (domain.PathHandle, error) {
	p, err := domain.ParseOutputPath(s)
	if err != nil {
		return domain.NoPath, err
	}
	return c.in.Intern(p.Resolved(c.workingDir)), nil
}

func (c *Context) relativePath(name string) domain.PathHandle {
	return c.in.Intern(domain.Relative(name).Resolved(c.workingDir))
}

func (c *Context) optionPath(spelling string) (domain.PathHandle, bool, error) {
	opt, ok := c.opts.LastArgument(spelling)
	if !ok {
		return domain.NoPath, false, nil
	}
	h, err := c.parsePath(opt.Value())
	return h, err == nil, err
}

func (c *Context) optionInt(spelling string, minimum int) (int, bool, error) {
	opt, ok := c.opts.LastArgument(spelling)
	if !ok {
		return 0, false, nil
	}
	n, err := strconv.Atoi(opt.Value())
	if err != nil || n < minimum {
		return 0, false, domain.NewError(domain.ErrInvalidArgumentValue, "expected an integer",
			"option", spelling, "value", opt.Value())
	}
	return n, true, nil
}

func (c *Context) computeInputs() error {
	for _, s := range c.opts.Inputs() {
		h, err := c.parsePath(s)
		if err != nil {
			return err
		}
		c.inputs = append(c.inputs, domain.NewTypedPath(h, domain.FileTypeForPath(c.in.Lookup(h))))
	}
	return nil
}

func (c *Context) swiftInputs() []domain.TypedVirtualPath {
	var out []domain.TypedVirtualPath
	for _, in := range c.inputs {
		if in.Type.IsPartOfSwiftCompilation() {
			out = append(out, in)
		}
	}
	return out
}

func (c *Context) computeMode() error {
	modeOpt, ok := c.opts.LastInGroup(domain.GroupModes)
	if ok {
		c.modeOption = modeOpt.Spelling()
	}

	if c.opts.HasArgument("-print-target-info", "-version") || c.modeOption == "-emit-supported-features" {
		c.mode = domain.CompileIntro
		return nil
	}

	switch c.modeOption {
	case "-repl", "-lldb-repl", "-deprecated-integrated-repl":
		c.mode = domain.CompileREPL
		return nil
	case "-i":
		c.mode = domain.CompileImmediate
		return nil
	}

	if c.driverKind == domain.DriverInteractive {
		if len(c.inputs) == 0 {
			c.mode = domain.CompileREPL
		} else {
			c.mode = domain.CompileImmediate
		}
		return nil
	}

	switch c.modeOption {
	case "-emit-pcm":
		c.mode = domain.CompilePCM
	case "-dump-pcm":
		c.mode = domain.CompileDumpPCM
	case "-index-file", "-emit-imported-modules", "-scan-dependencies":
		c.mode = domain.CompileSingle
	default:
		switch {
		case c.opts.HasFlag("-wmo", "-no-whole-module-optimization", false):
			c.mode = domain.CompileSingle
		case c.opts.HasFlag("-enable-batch-mode", "-disable-batch-mode", false):
			c.mode = domain.CompileBatch
		default:
			c.mode = domain.CompileStandard
		}
	}

	if c.mode == domain.CompileSingle {
		n, _, err := c.optionInt("-num-threads", 0)
		if err != nil {
			return err
		}
		c.numThreads = n
	}
	return nil
}

func (c *Context) computeOutputTypes() error {
	lto, err := c.computeLTO()
	if err != nil {
		return err
	}
	c.lto = lto

	switch c.mode {
	case domain.CompileImmediate, domain.CompileREPL, domain.CompileIntro, domain.CompileDumpPCM:
		return nil
	case domain.CompilePCM:
		c.compilerOutput = domain.FileTypePCM
		return nil
	}

	switch c.modeOption {
	case "-emit-executable":
		c.compilerOutput, c.linkerOutput = domain.FileTypeObject, domain.LinkExecutable
	case "-emit-library":
		c.compilerOutput, c.linkerOutput = domain.FileTypeObject, domain.LinkDynamicLibrary
		if c.opts.HasArgument("-static") {
			c.linkerOutput = domain.LinkStaticLibrary
		}
	case "-c":
		c.compilerOutput = domain.FileTypeObject
	case "-S":
		c.compilerOutput = domain.FileTypeAssembly
	case "-emit-sil":
		c.compilerOutput = domain.FileTypeSIL
	case "-emit-silgen":
		c.compilerOutput = domain.FileTypeRawSIL
	case "-emit-sib":
		c.compilerOutput = domain.FileTypeSIB
	case "-emit-sibgen":
		c.compilerOutput = domain.FileTypeRawSIB
	case "-emit-ir", "-emit-irgen":
		c.compilerOutput = domain.FileTypeLLVMIR
	case "-emit-bc":
		c.compilerOutput = domain.FileTypeLLVMBitcode
	case "-dump-ast":
		c.compilerOutput = domain.FileTypeAST
	case "-emit-imported-modules":
		c.compilerOutput = domain.FileTypeImportedModules
	case "-scan-dependencies":
		c.compilerOutput = domain.FileTypeJSONDependencies
	case "-index-file":
		c.compilerOutput = domain.FileTypeIndexData
	case "-parse", "-resolve-imports", "-typecheck", "-dump-parse", "-print-ast":
	case "":
		if c.opts.HasArgument("-emit-module", "-emit-module-path") {
			c.compilerOutput = domain.FileTypeSwiftModule
		} else {
			c.compilerOutput, c.linkerOutput = domain.FileTypeObject, domain.LinkExecutable
		}
	default:
		panic("planner: unhandled mode option " + c.modeOption)
	}

	if c.lto != domain.LTONone && c.compilerOutput == domain.FileTypeObject {
		c.compilerOutput = domain.FileTypeLLVMBitcode
	}
	return nil
}

func (c *Context) computeLTO() (domain.LTOKind, error) {
	opt, ok := c.opts.LastArgument("-lto=")
	if !ok {
		return domain.LTONone, nil
	}
	switch opt.Value() {
	case "llvm-full":
		return domain.LTOFull, nil
	case "llvm-thin":
		return domain.LTOThin, nil
	default:
		return domain.LTONone, domain.NewError(domain.ErrInvalidArgumentValue, "-lto= must be llvm-full or llvm-thin",
			"option", "-lto=", "value", opt.Value())
	}
}

func (c *Context) validateInputs() error {
	switch c.mode {
	case domain.CompileIntro:
		return nil
	case domain.CompileREPL:
		if len(c.inputs) > 0 {
			return domain.NewError(domain.ErrUnexpectedInput, "the REPL does not take input files",
				"input", c.in.Lookup(c.inputs[0].File).String())
		}
		return nil
	case domain.CompilePCM, domain.CompileDumpPCM:
		want := domain.FileTypeClangModuleMap
		if c.mode == domain.CompileDumpPCM {
			want = domain.FileTypePCM
		}
		if len(c.inputs) == 0 {
			return domain.NewError(domain.ErrNoInputFiles, "expected a single "+want.Name()+" input")
		}
		if len(c.inputs) > 1 || c.inputs[0].Type != want {
			return domain.NewError(domain.ErrUnexpectedInput, "expected a single "+want.Name()+" input",
				"input", c.in.Lookup(c.inputs[0].File).String())
		}
		return nil
	}

	if len(c.inputs) == 0 {
		return domain.NewError(domain.ErrNoInputFiles, "no input files", "mode", c.mode.String())
	}
	for _, in := range c.inputs {
		ok := in.Type.IsPartOfSwiftCompilation()
		if c.mode != domain.CompileImmediate && !ok {
			ok = in.Type.IsLinkable()
		}
		if !ok {
			return domain.NewError(domain.ErrUnexpectedInput, "input cannot be used in this mode",
				"input", c.in.Lookup(in.File).String(), "type", in.Type.Name(), "mode", c.mode.String())
		}
	}
	return nil
}

// buildingExecutable reports whether the compilation may produce a program,
// which makes "main" an acceptable module name.
func (c *Context) buildingExecutable() bool {
	switch c.linkerOutput {
	case domain.LinkExecutable:
		return true
	case domain.LinkDynamicLibrary, domain.LinkStaticLibrary:
		return false
	case domain.LinkNone:
	}
	if c.opts.HasArgument("-parse-as-library", "-parse-stdlib") {
		return false
	}
	return len(c.inputs) == 1
}

func (c *Context) computeModuleName() error {
	explicit := false
	switch {
	case c.opts.HasArgument("-module-name"):
		opt, _ := c.opts.LastArgument("-module-name")
		c.moduleName, explicit = opt.Value(), true
	case c.opts.HasArgument("-o"):
		opt, _ := c.opts.LastArgument("-o")
		if p, err := domain.ParseOutputPath(opt.Value()); err == nil && !p.IsStream() {
			c.moduleName = p.BasenameWithoutExt()
		}
	case len(c.inputs) == 1:
		c.moduleName = c.in.Lookup(c.inputs[0].File).BasenameWithoutExt()
	}

	fallback := c.compilerOutput == 0 || c.buildingExecutable()
	switch {
	case c.moduleName == "" && fallback:
		c.moduleName = "main"
	case !isSwiftIdentifier(c.moduleName):
		if fallback && !explicit {
			c.moduleName = "main"
			return nil
		}
		return domain.NewError(domain.ErrBadModuleName, "use -module-name to name the module",
			"module", c.moduleName)
	case c.moduleName == "Swift" && !c.opts.HasArgument("-parse-stdlib"):
		return domain.NewError(domain.ErrBadModuleName, "module name Swift is reserved for the standard library",
			"module", c.moduleName)
	}
	return nil
}

func isSwiftIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}

func (c *Context) computeDebugInfo() error {
	if g, ok := c.opts.LastInGroup(domain.GroupG); ok {
		switch g.Spelling() {
		case "-g":
			c.debug.Level = DebugASTTypes
		case "-gline-tables-only":
			c.debug.Level = DebugLineTables
		case "-gdwarf-types":
			c.debug.Level = DebugDWARFTypes
		}
	}

	c.debug.Format = "dwarf"
	if c.tc.Triple().IsWindows() {
		c.debug.Format = "codeview"
	}
	if f, ok := c.opts.LastArgument("-debug-info-format="); ok {
		if c.debug.Level == DebugNone {
			return domain.NewError(domain.ErrConflictingOptions, "-debug-info-format= requires a -g option",
				"option", "-debug-info-format=")
		}
		switch f.Value() {
		case "dwarf", "codeview":
			c.debug.Format = f.Value()
		default:
			return domain.NewError(domain.ErrInvalidArgumentValue, "-debug-info-format= must be dwarf or codeview",
				"option", "-debug-info-format=", "value", f.Value())
		}
		if c.debug.Format == "codeview" && c.debug.Level == DebugDWARFTypes {
			return domain.NewError(domain.ErrConflictingOptions, "-gdwarf-types cannot be used with codeview",
				"option", "-gdwarf-types")
		}
	}
	if v, ok := c.opts.LastArgument("-dwarf-version="); ok {
		n, err := strconv.Atoi(v.Value())
		if err != nil || n < 2 || n > 5 {
			return domain.NewError(domain.ErrInvalidArgumentValue, "-dwarf-version= must be between 2 and 5",
				"option", "-dwarf-version=", "value", v.Value())
		}
		if c.debug.Format == "codeview" {
			return domain.NewError(domain.ErrConflictingOptions, "-dwarf-version= cannot be used with codeview",
				"option", "-dwarf-version=")
		}
	}
	c.debug.Verify = c.opts.HasArgument("-verify-debug-info")
	return nil
}

// auxiliaryModuleOptions request outputs that are produced alongside a module.
var auxiliaryModuleOptions = []string{
	"-emit-objc-header", "-emit-objc-header-path",
	"-emit-module-interface", "-emit-module-interface-path",
	"-emit-private-module-interface-path", "-emit-package-module-interface-path",
	"-emit-tbd", "-emit-tbd-path",
	"-emit-api-descriptor", "-emit-api-descriptor-path",
	"-emit-digester-baseline", "-emit-digester-baseline-path", "-compare-to-baseline-path",
}

func (c *Context) computeModuleOutput() error {
	switch {
	case c.opts.HasArgument("-emit-module", "-emit-module-path"), c.compilerOutput == domain.FileTypeSwiftModule:
		c.module.Kind = ModuleOutputTopLevel
	case c.opts.HasArgument(auxiliaryModuleOptions...):
		c.module.Kind = ModuleOutputAuxiliary
	case c.debug.Level == DebugASTTypes && c.linkerOutput != domain.LinkNone:
		c.module.Kind = ModuleOutputAuxiliary
	default:
		return nil
	}

	if c.mode.IsInteractive() {
		return domain.NewError(domain.ErrConflictingOptions, "modules cannot be emitted in immediate mode or the REPL",
			"mode", c.mode.String())
	}

	if h, ok, err := c.optionPath("-emit-module-path"); err != nil {
		return err
	} else if ok {
		c.module.Path = h
		return nil
	}

	name := c.moduleName + "." + domain.FileTypeSwiftModule.Extension()
	if c.module.Kind == ModuleOutputAuxiliary {
		c.module.Path = c.in.UniqueTemporary(name)
		return nil
	}
	if h, ok := c.ofm.SingleInputOutput(c.in, domain.FileTypeSwiftModule); ok {
		c.module.Path = h
		return nil
	}
	if o, ok := c.opts.LastArgument("-o"); ok {
		out, err := c.parseOutputPath(o.Value())
		if err != nil {
			return err
		}
		if c.compilerOutput == domain.FileTypeSwiftModule {
			c.module.Path = out
		} else {
			c.module.Path = c.in.Intern(c.in.Lookup(out).ParentDirectory().Appending(name))
		}
		return nil
	}
	c.module.Path = c.relativePath(name)
	return nil
}

func (c *Context) computeSanitizers() error {
	c.sanitizers = domain.SanitizerSet{}
	if c.mode == domain.CompileIntro {
		return nil
	}
	for _, opt := range c.opts.Arguments("-sanitize=") {
		for _, v := range opt.Values {
			s, ok := domain.ParseSanitizer(v)
			if !ok {
				return domain.NewError(domain.ErrInvalidArgumentValue, "unknown sanitizer",
					"option", "-sanitize=", "value", v)
			}
			c.sanitizers[s] = struct{}{}
		}
	}
	if c.sanitizers.Has(domain.SanitizerAddress) && c.sanitizers.Has(domain.SanitizerThread) {
		return domain.NewError(domain.ErrConflictingOptions, "address and thread sanitizers cannot be combined",
			"option", "-sanitize=")
	}
	return c.tc.Validate(c.opts, c.sanitizers)
}

func (c *Context) computeSDK() error {
	if opt, ok := c.opts.LastArgument("-sdk"); ok {
		p, err := domain.ParseVirtualPath(opt.Value())
		if err != nil {
			return err
		}
		c.sdkPath = p.Resolved(c.workingDir).Name
		return nil
	}
	if c.info != nil && c.info.SDKPath() != "" {
		c.sdkPath = c.info.SDKPath()
		return nil
	}
	if c.tc.Triple().IsDarwin() {
		c.sdkPath = c.env["SDKROOT"]
	}
	return nil
}

func (c *Context) computeBridgingHeader() error {
	h, ok, err := c.optionPath("-import-objc-header")
	if err != nil || !ok {
		return err
	}
	c.bridgingHeader = h
	if domain.FileTypeForPath(c.in.Lookup(h)) == domain.FileTypePCH {
		return nil
	}
	if !c.mode.SupportsBridgingPCH() || !c.opts.HasFlag("-enable-bridging-pch", "-disable-bridging-pch", true) {
		return nil
	}

	if pch, ok := c.ofm.SingleInputOutput(c.in, domain.FileTypePCH); ok {
		c.bridgingPCH = pch
		return nil
	}
	name := c.in.Lookup(h).BasenameWithoutExt()
	if dir, ok, err := c.optionPath("-pch-output-dir"); err != nil {
		return err
	} else if ok {
		c.bridgingPCH = c.in.Intern(c.in.Lookup(dir).Appending(name + "." + domain.FileTypePCH.Extension()))
		return nil
	}
	c.bridgingPCH = c.in.Intern(domain.Temporary(name + "-" + c.contextHash() + "." + domain.FileTypePCH.Extension()))
	return nil
}

// crossModuleOptimization reports whether the frontend serializes function
// bodies for other modules, which requires the module to come out of the
// whole-module compile itself.
func (c *Context) crossModuleOptimization() bool {
	o, ok := c.opts.LastInGroup(domain.GroupO)
	if !ok || o.Spelling() == "-Onone" {
		return false
	}
	return !c.opts.HasArgument("-disable-cross-module-optimization", "-enable-library-evolution")
}

func (c *Context) computeEmitModuleSeparately() error {
	if c.module.Kind == ModuleOutputNone || len(c.swiftInputs()) == 0 {
		return nil
	}
	switch c.mode {
	case domain.CompileStandard, domain.CompileBatch:
		c.emitModuleSeparately = c.opts.HasFlag("-emit-module-separately", "-no-emit-module-separately", true)
	case domain.CompileSingle:
		c.emitModuleSeparately = c.opts.HasFlag("-emit-module-separately-wmo", "-no-emit-module-separately-wmo", true) &&
			!c.crossModuleOptimization()
	default:
	}
	return nil
}

func (c *Context) computeDigester() error {
	c.digester.mode = domain.DigesterAPI
	if opt, ok := c.opts.LastArgument("-digester-mode"); ok {
		switch opt.Value() {
		case "api":
		case "abi":
			c.digester.mode = domain.DigesterABI
		default:
			return domain.NewError(domain.ErrInvalidArgumentValue, "-digester-mode must be api or abi",
				"option", "-digester-mode", "value", opt.Value())
		}
	}

	if h, ok, err := c.optionPath("-emit-digester-baseline-path"); err != nil {
		return err
	} else if ok {
		c.digester.baseline = h
	} else if c.opts.HasArgument("-emit-digester-baseline") {
		// The ABI descriptor already claims <module>.abi.json next to the module.
		name := c.moduleName + ".baseline." + c.digester.mode.BaselineFileType().Extension()
		if c.module.Kind == ModuleOutputTopLevel {
			c.digester.baseline = c.in.Intern(c.in.Lookup(c.module.Path).ParentDirectory().Appending(name))
		} else {
			c.digester.baseline = c.relativePath(name)
		}
	}

	h, ok, err := c.optionPath("-compare-to-baseline-path")
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	c.digester.compare = h
	if c.digester.mode == domain.DigesterABI && !c.supplementary[domain.FileTypeJSONABIBaseline].IsValid() &&
		!c.supplementary[domain.FileTypeSwiftInterface].IsValid() {
		return domain.NewError(domain.ErrConflictingOptions, "ABI comparison requires -emit-module-interface or -enable-library-evolution",
			"option", "-compare-to-baseline-path")
	}
	if c.digester.breakingChanges, _, err = c.optionPath("-serialize-breaking-changes-path"); err != nil {
		return err
	}
	if c.digester.allowlist, _, err = c.optionPath("-digester-breakage-allowlist-path"); err != nil {
		return err
	}
	return nil
}

func (c *Context) computeBatchOptions() error {
	var err error
	if c.batch.count, _, err = c.optionInt("-driver-batch-count", 1); err != nil {
		return err
	}
	if c.batch.sizeLimit, _, err = c.optionInt("-driver-batch-size-limit", 1); err != nil {
		return err
	}
	if c.batch.jobs, _, err = c.optionInt("-j", 1); err != nil {
		return err
	}
	if opt, ok := c.opts.LastArgument("-driver-batch-seed"); ok {
		seed, perr := strconv.ParseInt(opt.Value(), 10, 64)
		if perr != nil {
			return domain.NewError(domain.ErrInvalidArgumentValue, "expected an integer",
				"option", "-driver-batch-seed", "value", opt.Value())
		}
		c.batch.seed, c.batch.hasSeed = seed, true
	}
	if n, ok, err := c.optionInt("-driver-filelist-threshold=", 0); err != nil {
		return err
	} else if ok {
		c.fileListThreshold = n
	}
	return nil
}

func (c *Context) computeExplicitModules() error {
	if !c.opts.HasArgument("-explicit-module-build") {
		return nil
	}
	if c.graph == nil {
		return domain.NewError(domain.ErrConflictingOptions, "-explicit-module-build requires -explicit-dependency-graph",
			"option", "-explicit-module-build")
	}
	main := domain.ModuleID{Name: c.graph.MainModule, Kind: domain.ModuleSwift}
	if _, ok := c.graph.Module(main); !ok {
		return domain.NewError(domain.ErrMissingModuleDependency, "main module is not in the dependency graph",
			"module", c.graph.MainModule)
	}
	if _, err := c.graph.TopologicalOrder(); err != nil {
		return err
	}
	c.explicitModules = true
	return nil
}

func (c *Context) computeIndexFile() error {
	if c.modeOption != "-index-file" {
		return nil
	}
	h, ok, err := c.optionPath("-index-file-path")
	if err != nil {
		return err
	}
	if !ok {
		return domain.NewError(domain.ErrConflictingOptions, "-index-file requires -index-file-path",
			"option", "-index-file")
	}
	for _, in := range c.inputs {
		if in.File == h {
			c.indexFile = h
			return nil
		}
	}
	return domain.NewError(domain.ErrUnexpectedInput, "-index-file-path must name an input file",
		"path", c.in.Lookup(h).String())
}

func (c *Context) validateOutputs() error {
	if c.linkerOutput != domain.LinkNone || c.compilerOutput == 0 || c.compilerOutput == domain.FileTypeSwiftModule {
		return nil
	}
	if !c.opts.HasArgument("-o") {
		return nil
	}
	outputs := len(c.swiftInputs())
	if c.mode == domain.CompileSingle && (c.numThreads == 0 || !c.compilerOutput.IsAfterLLVM()) {
		outputs = 1
	}
	if c.indexFile.IsValid() {
		outputs = 1
	}
	if outputs > 1 {
		return domain.NewError(domain.ErrConflictingOptions, "-o cannot name multiple outputs",
			"outputs", outputs)
	}
	return nil
}
