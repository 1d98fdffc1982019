package planner

import (
	"go.trai.ch/swiftplan/internal/core/domain"
	"go.trai.ch/swiftplan/internal/engine/commandline"
)

// mergeModuleJob combines the partial modules of primary-file compile jobs.
func (c *Context) mergeModuleJob(partials []domain.TypedVirtualPath) (*domain.Job, error) {
	if len(partials) == 0 {
		panic("planner: merge-module job requires partial modules")
	}

	b := commandline.NewBuilder(c.in, c.workingDir)
	b.Flag("-frontend", "-merge-modules", "-emit-module")
	c.addInputList(b, "-filelist", "partialModules", partials)

	inputs := append([]domain.TypedVirtualPath(nil), partials...)
	if err := c.addCommonFrontendOptions(b, &inputs, bridgingParsed); err != nil {
		return nil, err
	}

	outputs := []domain.TypedVirtualPath{domain.NewTypedPath(c.module.Path, domain.FileTypeSwiftModule)}
	c.addModuleOutputs(b, &outputs)

	b.Flag("-parse-as-library", "-disable-diagnostic-passes", "-disable-sil-perf-optzns")
	b.FlagPath("-o", c.module.Path)

	job, err := c.newJob(domain.JobMergeModule, domain.ToolFrontend, b)
	if err != nil {
		return nil, err
	}
	job.Inputs = inputs
	job.Outputs = outputs
	return job, nil
}
