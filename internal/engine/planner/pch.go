package planner

import (
	"go.trai.ch/swiftplan/internal/core/domain"
	"go.trai.ch/swiftplan/internal/engine/commandline"
)

// generatePCHJob precompiles the bridging header.
func (c *Context) generatePCHJob() (*domain.Job, error) {
	header := domain.NewTypedPath(c.bridgingHeader, domain.FileTypeObjCHeader)
	inputs := []domain.TypedVirtualPath{header}

	b := commandline.NewBuilder(c.in, c.workingDir)
	b.Flag("-frontend", "-emit-pch")
	if err := c.addCommonFrontendOptions(b, &inputs, bridgingIgnored); err != nil {
		return nil, err
	}

	outputs := []domain.TypedVirtualPath{domain.NewTypedPath(c.bridgingPCH, domain.FileTypePCH)}
	for _, o := range c.perInput {
		if o.fileType != domain.FileTypeDiagnostics {
			continue
		}
		dia, ok := c.ofm.Output(c.in, c.bridgingHeader, domain.FileTypeDiagnostics)
		if !ok {
			dia = c.in.UniqueTemporary(c.in.Lookup(c.bridgingHeader).BasenameWithoutExt() + "." +
				domain.FileTypeDiagnostics.Extension())
		}
		b.FlagPath(o.flag, dia)
		outputs = append(outputs, domain.NewTypedPath(dia, domain.FileTypeDiagnostics))
	}

	if dir, ok := c.opts.LastArgument("-pch-output-dir"); ok {
		b.AppendOption(dir)
	} else {
		b.FlagPath("-o", c.bridgingPCH)
	}
	b.Path(c.bridgingHeader)

	job, err := c.newJob(domain.JobGeneratePCH, domain.ToolFrontend, b)
	if err != nil {
		return nil, err
	}
	job.Inputs = inputs
	job.DisplayInputs = inputs
	job.Outputs = outputs
	return job, nil
}

// generatePCMJob compiles a Clang module map into a precompiled module.
func (c *Context) generatePCMJob() (*domain.Job, error) {
	input := c.inputs[0]
	inputs := []domain.TypedVirtualPath{input}

	b := commandline.NewBuilder(c.in, c.workingDir)
	b.Flag("-frontend", "-emit-pcm")
	b.Path(input.File)
	if err := c.addCommonFrontendOptions(b, &inputs, bridgingIgnored); err != nil {
		return nil, err
	}
	out, err := c.primaryOutput(input.File, domain.FileTypePCM)
	if err != nil {
		return nil, err
	}
	b.FlagPath("-o", out)

	job, err := c.newJob(domain.JobGeneratePCM, domain.ToolFrontend, b)
	if err != nil {
		return nil, err
	}
	job.Inputs = inputs
	job.DisplayInputs = inputs
	job.Outputs = []domain.TypedVirtualPath{domain.NewTypedPath(out, domain.FileTypePCM)}
	return job, nil
}

// dumpPCMJob prints information about a precompiled module.
func (c *Context) dumpPCMJob() (*domain.Job, error) {
	input := c.inputs[0]
	inputs := []domain.TypedVirtualPath{input}

	b := commandline.NewBuilder(c.in, c.workingDir)
	b.Flag("-frontend", "-dump-pcm")
	b.Path(input.File)
	if err := c.addCommonFrontendOptions(b, &inputs, bridgingIgnored); err != nil {
		return nil, err
	}

	job, err := c.newJob(domain.JobDumpPCM, domain.ToolFrontend, b)
	if err != nil {
		return nil, err
	}
	job.Inputs = inputs
	job.DisplayInputs = inputs
	return job, nil
}
