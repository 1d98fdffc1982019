package planner

import (
	"go.trai.ch/swiftplan/internal/core/domain"
	"go.trai.ch/swiftplan/internal/engine/commandline"
)

// compileModeFlag is the frontend action producing the compiler output.
func (c *Context) compileModeFlag() string {
	switch c.compilerOutput {
	case domain.FileTypeObject:
		return "-c"
	case domain.FileTypeAssembly:
		return "-S"
	case domain.FileTypeSIL:
		return "-emit-sil"
	case domain.FileTypeRawSIL:
		return "-emit-silgen"
	case domain.FileTypeSIB:
		return "-emit-sib"
	case domain.FileTypeRawSIB:
		return "-emit-sibgen"
	case domain.FileTypeLLVMIR:
		if c.modeOption == "-emit-irgen" {
			return "-emit-irgen"
		}
		return "-emit-ir"
	case domain.FileTypeLLVMBitcode:
		return "-emit-bc"
	case domain.FileTypeAST:
		return "-dump-ast"
	case domain.FileTypeSwiftModule:
		return "-emit-module"
	case domain.FileTypeImportedModules:
		return "-emit-imported-modules"
	case domain.FileTypeJSONDependencies:
		return "-scan-dependencies"
	case domain.FileTypeIndexData:
		return "-index-file"
	case 0:
		switch c.modeOption {
		case "-parse", "-resolve-imports", "-typecheck", "-dump-parse", "-print-ast":
			return c.modeOption
		}
		return "-typecheck"
	default:
		panic("planner: no frontend action produces " + c.compilerOutput.Name())
	}
}

// mergesPartialModules reports whether compile jobs emit partial modules that
// a merge-module job combines.
func (c *Context) mergesPartialModules() bool {
	return c.module.Kind != ModuleOutputNone && !c.emitModuleSeparately && c.mode.UsesPrimaryFileInputs()
}

// compileJob builds one frontend invocation. In primary-file modes primaries
// are the files this job compiles; whole-module jobs pass none.
func (c *Context) compileJob(primaries []domain.TypedVirtualPath, emitModuleTrace bool) (*domain.Job, error) {
	usesPrimaries := c.mode.UsesPrimaryFileInputs() || c.indexFile.IsValid()
	if usesPrimaries && len(primaries) == 0 {
		panic("planner: compile job in " + c.mode.String() + " mode requires primary inputs")
	}

	b := commandline.NewBuilder(c.in, c.workingDir)
	b.Flag("-frontend", c.compileModeFlag())

	swift := c.swiftInputs()
	inputs := append([]domain.TypedVirtualPath(nil), swift...)
	outputs, primaryOutputs, err := c.addCompileInputs(b, swift, primaries)
	if err != nil {
		return nil, err
	}

	bridging := bridgingPrecompiled
	if !c.bridgingPCH.IsValid() {
		bridging = bridgingParsed
	}
	if err := c.addCommonFrontendOptions(b, &inputs, bridging); err != nil {
		return nil, err
	}
	if c.explicitModules {
		if err := c.addExplicitDependencies(b, &inputs, c.mainModuleID()); err != nil {
			return nil, err
		}
	}
	if c.mode.IsSingleCompilation() {
		b.AppendLast(c.opts, "-num-threads")
	}
	if c.parseAsLibrary() {
		b.Flag("-parse-as-library")
	}
	b.AppendLast(c.opts, "-index-store-path")
	if c.opts.HasArgument("-index-store-path") {
		b.AppendLast(c.opts, "-index-ignore-system-modules")
	}
	for _, o := range c.perInput {
		if o.fileType == domain.FileTypeYAMLOptimizationRecord || o.fileType == domain.FileTypeBitstreamOptimizationRecord {
			b.Flag("-save-optimization-record=" + optimizationRecordFormat(o.fileType))
			b.AppendLast(c.opts, "-save-optimization-record-passes")
		}
	}

	primary := append([]domain.TypedVirtualPath(nil), outputs...)
	c.addCompileSupplementaryOutputs(b, primaries, primaryOutputs, &outputs)
	if emitModuleTrace {
		if h, ok := c.supplementary[domain.FileTypeModuleTrace]; ok {
			b.FlagPath(moduleTraceOutput.flag, h)
			outputs = append(outputs, domain.NewTypedPath(h, domain.FileTypeModuleTrace))
		}
	}

	c.addPrimaryOutputFlags(b, primary)

	job, err := c.newJob(domain.JobCompile, domain.ToolFrontend, b)
	if err != nil {
		return nil, err
	}
	job.Inputs = inputs
	job.PrimaryInputs = primaries
	job.Outputs = outputs
	job.DisplayInputs = primaries
	if len(primaries) == 0 {
		job.DisplayInputs = swift
	}
	job.OutputCacheKeys = cacheKeys(c.in, job)
	return job, nil
}

// addCompileInputs passes the source files and marks primaries. It returns
// the primary outputs and, per input, the output a supplementary output sits
// next to.
func (c *Context) addCompileInputs(
	b *commandline.Builder,
	swift, primaries []domain.TypedVirtualPath,
) ([]domain.TypedVirtualPath, map[domain.PathHandle]domain.PathHandle, error) {
	isPrimary := make(map[domain.PathHandle]bool, len(primaries))
	for _, p := range primaries {
		isPrimary[p.File] = true
	}

	useFileList := len(swift) > c.fileListThreshold
	if useFileList {
		c.addInputList(b, "-filelist", "sources", swift)
		if len(primaries) > 0 {
			c.addInputList(b, "-primary-filelist", "primaryInputs", primaries)
		}
	} else {
		for _, in := range swift {
			if isPrimary[in.File] {
				b.Flag("-primary-file")
			}
			b.Path(in.File)
		}
	}

	var outputs []domain.TypedVirtualPath
	byInput := make(map[domain.PathHandle]domain.PathHandle)
	if c.compilerOutput == 0 {
		return outputs, byInput, nil
	}

	add := func(input domain.PathHandle) error {
		var h domain.PathHandle
		switch {
		case c.compilerOutput != domain.FileTypeSwiftModule:
			var err error
			if h, err = c.primaryOutput(input, c.compilerOutput); err != nil {
				return err
			}
		case c.mergesPartialModules():
			h = c.partialModule(input)
		default:
			h = c.module.Path
		}
		outputs = append(outputs, domain.NewTypedPath(h, c.compilerOutput))
		byInput[input] = h
		return nil
	}

	switch {
	case len(primaries) > 0:
		for _, p := range primaries {
			if err := add(p.File); err != nil {
				return nil, nil, err
			}
		}
	case c.numThreads > 0 && c.compilerOutput.IsAfterLLVM():
		for _, in := range swift {
			if err := add(in.File); err != nil {
				return nil, nil, err
			}
		}
	default:
		if err := add(domain.NoPath); err != nil {
			return nil, nil, err
		}
	}
	return outputs, byInput, nil
}

func (c *Context) partialModule(input domain.PathHandle) domain.PathHandle {
	stem := c.in.Lookup(input).BasenameWithoutExt()
	return c.in.UniqueTemporary(stem + "~partial." + domain.FileTypeSwiftModule.Extension())
}

func (c *Context) addPrimaryOutputFlags(b *commandline.Builder, primary []domain.TypedVirtualPath) {
	if len(primary) > c.fileListThreshold {
		c.addInputList(b, "-output-filelist", "outputs", primary)
		return
	}
	for _, o := range primary {
		b.FlagPath("-o", o.File)
	}
}

func (c *Context) addCompileSupplementaryOutputs(
	b *commandline.Builder,
	primaries []domain.TypedVirtualPath,
	primaryOutputs map[domain.PathHandle]domain.PathHandle,
	outputs *[]domain.TypedVirtualPath,
) {
	add := func(flag string, h domain.PathHandle, t domain.FileType) {
		b.FlagPath(flag, h)
		*outputs = append(*outputs, domain.NewTypedPath(h, t))
	}

	if len(primaries) > 0 {
		for _, p := range primaries {
			for _, o := range c.perInput {
				add(o.flag, c.perInputOutput(p.File, o.fileType, primaryOutputs[p.File]), o.fileType)
			}
		}
	} else {
		for _, o := range c.perInput {
			if h, ok := c.supplementary[o.fileType]; ok {
				add(o.flag, h, o.fileType)
			}
		}
	}

	switch {
	case c.mergesPartialModules():
		for _, p := range primaries {
			module := primaryOutputs[p.File]
			if c.compilerOutput != domain.FileTypeSwiftModule {
				module = c.partialModule(p.File)
				add("-emit-module-path", module, domain.FileTypeSwiftModule)
			}
			partial := c.in.Lookup(module)
			add("-emit-module-doc-path", c.in.Intern(partial.ReplacingExtension(domain.FileTypeSwiftDocumentation)),
				domain.FileTypeSwiftDocumentation)
			if _, ok := c.supplementary[domain.FileTypeSwiftSourceInfo]; ok {
				add("-emit-module-source-info-path", c.in.Intern(partial.ReplacingExtension(domain.FileTypeSwiftSourceInfo)),
					domain.FileTypeSwiftSourceInfo)
			}
		}
	case c.module.Kind != ModuleOutputNone && !c.emitModuleSeparately && c.mode.IsSingleCompilation():
		if c.compilerOutput != domain.FileTypeSwiftModule {
			add("-emit-module-path", c.module.Path, domain.FileTypeSwiftModule)
		}
		for _, o := range moduleOutputs {
			if h, ok := c.supplementary[o.fileType]; ok && o.fileType != c.compilerOutput {
				add(o.flag, h, o.fileType)
			}
		}
	}
}

// perInputOutput places a per-file supplementary output: the output file map
// first, then beside the primary output, then in the temporary directory.
func (c *Context) perInputOutput(input domain.PathHandle, t domain.FileType, primary domain.PathHandle) domain.PathHandle {
	if h, ok := c.ofm.Output(c.in, input, t); ok {
		return h
	}
	if primary.IsValid() {
		if p := c.in.Lookup(primary); !p.IsStream() {
			return c.in.Intern(p.ReplacingExtension(t))
		}
	}
	return c.in.UniqueTemporary(c.in.Lookup(input).BasenameWithoutExt() + "." + t.Extension())
}
