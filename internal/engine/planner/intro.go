package planner

import (
	"go.trai.ch/swiftplan/internal/core/domain"
	"go.trai.ch/swiftplan/internal/core/ports"
	"go.trai.ch/swiftplan/internal/engine/commandline"
	"go.trai.ch/swiftplan/internal/engine/toolchain"
)

// PrintTargetInfoJob asks the frontend to describe the target. The driver runs
// it before planning to learn runtime and SDK paths.
func PrintTargetInfoJob(in *domain.Interner, opts ports.ParsedOptions, tc toolchain.Toolchain) (*domain.Job, error) {
	var workingDir string
	if wd, ok := opts.LastArgument("-working-directory"); ok {
		workingDir = wd.Value()
	}

	b := commandline.NewBuilder(in, workingDir)
	b.Flag("-frontend", "-print-target-info", "-target", tc.Triple().String())
	b.AppendLast(opts, "-target-variant")
	b.AppendLast(opts, "-sdk")
	b.AppendLast(opts, "-resource-dir")
	b.AppendLast(opts, "-swift-version")
	if opts.HasArgument("-static-executable", "-static-stdlib", "-use-static-resource-dir") {
		b.Flag("-use-static-resource-dir")
	}

	resolved, err := tc.ResolvedTool(domain.ToolFrontend, domain.LTONone)
	if err != nil {
		return nil, err
	}
	args, err := b.Build()
	if err != nil {
		return nil, err
	}
	return &domain.Job{
		Kind:                  domain.JobPrintTargetInfo,
		Tool:                  resolved.Handle,
		CommandLine:           args,
		Outputs:               []domain.TypedVirtualPath{domain.NewTypedPath(in.Intern(domain.StandardOutput()), domain.FileTypeJSONTargetInfo)},
		SupportsResponseFiles: resolved.SupportsResponseFiles,
	}, nil
}

func (c *Context) introJobs() ([]*domain.Job, error) {
	switch {
	case c.opts.HasArgument("-print-target-info"):
		job, err := PrintTargetInfoJob(c.in, c.opts, c.tc)
		if err != nil {
			return nil, err
		}
		return []*domain.Job{job}, nil
	case c.opts.HasArgument("-version"):
		b := commandline.NewBuilder(c.in, c.workingDir)
		b.Flag("-frontend", "--version")
		job, err := c.newJob(domain.JobVersionRequest, domain.ToolFrontend, b)
		if err != nil {
			return nil, err
		}
		job.RequiresInPlaceExecution = true
		return []*domain.Job{job}, nil
	default:
		b := commandline.NewBuilder(c.in, c.workingDir)
		b.Flag("-frontend", "-emit-supported-features")
		job, err := c.newJob(domain.JobEmitSupportedFeatures, domain.ToolFrontend, b)
		if err != nil {
			return nil, err
		}
		job.Outputs = []domain.TypedVirtualPath{
			domain.NewTypedPath(c.in.Intern(domain.StandardOutput()), domain.FileTypeJSONCompilerFeatures),
		}
		return []*domain.Job{job}, nil
	}
}
