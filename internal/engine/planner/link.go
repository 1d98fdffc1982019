package planner

import (
	"go.trai.ch/swiftplan/internal/core/domain"
	"go.trai.ch/swiftplan/internal/engine/commandline"
	"go.trai.ch/swiftplan/internal/engine/toolchain"
)

func (c *Context) linkOutput() (domain.PathHandle, error) {
	if o, ok := c.opts.LastArgument("-o"); ok {
		return c.parseOutputPath(o.Value())
	}
	return c.relativePath(c.tc.LinkerOutputName(c.moduleName, c.linkerOutput)), nil
}

// linkJob links inputs into the product named by -o or after the module.
func (c *Context) linkJob(inputs []domain.TypedVirtualPath) (*domain.Job, error) {
	out, err := c.linkOutput()
	if err != nil {
		return nil, err
	}

	tool, args, err := c.tc.LinkerArguments(&toolchain.LinkRequest{
		OutputType:  c.linkerOutput,
		Inputs:      inputs,
		Output:      out,
		LTO:         c.lto,
		Sanitizers:  c.sanitizers,
		UseFileList: len(inputs) > c.fileListThreshold,
		DebugInfo:   c.debug.Level == DebugASTTypes,
		Options:     c.opts,
		TargetInfo:  c.info,
		SDKPath:     c.sdkPath,
		WorkingDir:  c.workingDir,
	})
	if err != nil {
		return nil, err
	}

	b := commandline.NewBuilder(c.in, c.workingDir)
	b.Append(args...)
	job, err := c.newJob(domain.JobLink, tool, b)
	if err != nil {
		return nil, err
	}
	job.Inputs = inputs
	job.Outputs = []domain.TypedVirtualPath{domain.NewTypedPath(out, domain.FileTypeImage)}
	return job, nil
}

// needsAutolinkExtract reports whether link dependencies recorded in objects
// are pulled out by a separate job.
func (c *Context) needsAutolinkExtract() bool {
	return c.tc.NeedsAutolinkExtract() && c.linkerOutput != domain.LinkNone &&
		c.linkerOutput != domain.LinkStaticLibrary && c.lto == domain.LTONone
}

func (c *Context) autolinkExtractJob(objects []domain.TypedVirtualPath) (*domain.Job, error) {
	out := c.in.UniqueTemporary(c.moduleName + "." + domain.FileTypeAutolink.Extension())

	b := commandline.NewBuilder(c.in, c.workingDir)
	for _, o := range objects {
		b.Path(o.File)
	}
	b.FlagPath("-o", out)

	job, err := c.newJob(domain.JobAutolinkExtract, domain.ToolAutolinkExtract, b)
	if err != nil {
		return nil, err
	}
	job.Inputs = objects
	job.Outputs = []domain.TypedVirtualPath{domain.NewTypedPath(out, domain.FileTypeAutolink)}
	return job, nil
}

// needsModuleWrap reports whether the module is wrapped into an object so the
// debugger finds it in the linked product.
func (c *Context) needsModuleWrap() bool {
	return !c.tc.Triple().IsDarwin() && c.debug.Level == DebugASTTypes &&
		c.linkerOutput != domain.LinkNone && c.module.Kind != ModuleOutputNone
}

func (c *Context) moduleWrapJob(module domain.TypedVirtualPath) (*domain.Job, error) {
	out := c.in.UniqueTemporary(c.moduleName + "." + domain.FileTypeObject.Extension())

	b := commandline.NewBuilder(c.in, c.workingDir)
	b.Flag("-modulewrap")
	b.Path(module.File)
	b.Flag("-target", c.tc.Triple().String())
	b.FlagPath("-o", out)

	job, err := c.newJob(domain.JobModuleWrap, domain.ToolFrontend, b)
	if err != nil {
		return nil, err
	}
	job.Inputs = []domain.TypedVirtualPath{module}
	job.Outputs = []domain.TypedVirtualPath{domain.NewTypedPath(out, domain.FileTypeObject)}
	return job, nil
}

func (c *Context) needsDSYM() bool {
	return c.tc.SupportsDSYM() && c.debug.Level != DebugNone &&
		(c.linkerOutput == domain.LinkExecutable || c.linkerOutput == domain.LinkDynamicLibrary)
}

func (c *Context) generateDSYMJob(image domain.TypedVirtualPath) (*domain.Job, error) {
	out := c.in.Intern(c.in.Lookup(image.File).AppendingToBaseName("." + domain.FileTypeDSYM.Extension()))

	b := commandline.NewBuilder(c.in, c.workingDir)
	b.Path(image.File)
	b.FlagPath("-o", out)

	job, err := c.newJob(domain.JobGenerateDSYM, domain.ToolDsymutil, b)
	if err != nil {
		return nil, err
	}
	job.Inputs = []domain.TypedVirtualPath{image}
	job.Outputs = []domain.TypedVirtualPath{domain.NewTypedPath(out, domain.FileTypeDSYM)}
	return job, nil
}

func (c *Context) verifyDebugInfoJob(dsym domain.TypedVirtualPath) (*domain.Job, error) {
	b := commandline.NewBuilder(c.in, c.workingDir)
	b.Flag("--verify", "--debug-info", "--eh-frame", "--quiet")
	b.Path(dsym.File)

	job, err := c.newJob(domain.JobVerifyDebugInfo, domain.ToolDwarfdump, b)
	if err != nil {
		return nil, err
	}
	job.Inputs = []domain.TypedVirtualPath{dsym}
	return job, nil
}
