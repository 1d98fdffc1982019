package planner

import (
	"go.trai.ch/swiftplan/internal/core/domain"
	"go.trai.ch/swiftplan/internal/engine/commandline"
)

// emitModuleJob builds the frontend invocation that produces the module and
// its siblings without generating code.
func (c *Context) emitModuleJob() (*domain.Job, error) {
	b := commandline.NewBuilder(c.in, c.workingDir)
	b.Flag("-frontend", "-emit-module")

	swift := c.swiftInputs()
	inputs := append([]domain.TypedVirtualPath(nil), swift...)
	c.addInputList(b, "-filelist", "sources", swift)

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

	outputs := []domain.TypedVirtualPath{domain.NewTypedPath(c.module.Path, domain.FileTypeSwiftModule)}
	c.addModuleOutputs(b, &outputs)
	for _, o := range c.perInput {
		var t domain.FileType
		switch o.fileType {
		case domain.FileTypeDiagnostics:
			t = domain.FileTypeEmitModuleDiagnostics
		case domain.FileTypeDependencies:
			t = domain.FileTypeEmitModuleDependencies
		default:
			continue
		}
		h, ok := c.ofm.SingleInputOutput(c.in, t)
		if !ok {
			h = c.in.Intern(c.in.Lookup(c.module.Path).ReplacingExtension(t))
		}
		b.FlagPath(o.flag, h)
		outputs = append(outputs, domain.NewTypedPath(h, t))
	}

	if c.parseAsLibrary() {
		b.Flag("-parse-as-library")
	}
	b.Flag("-experimental-skip-non-inlinable-function-bodies-without-types")
	b.FlagPath("-o", c.module.Path)

	job, err := c.newJob(domain.JobEmitModule, domain.ToolFrontend, b)
	if err != nil {
		return nil, err
	}
	job.Inputs = inputs
	job.DisplayInputs = swift
	job.Outputs = outputs
	return job, nil
}
