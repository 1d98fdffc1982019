package planner

import (
	"go.trai.ch/swiftplan/internal/core/domain"
	"go.trai.ch/swiftplan/internal/engine/commandline"
)

// interpretJob runs the sources in the frontend's JIT. It replaces the driver
// process.
func (c *Context) interpretJob() (*domain.Job, error) {
	swift := c.swiftInputs()
	inputs := append([]domain.TypedVirtualPath(nil), swift...)

	b := commandline.NewBuilder(c.in, c.workingDir)
	b.Flag("-frontend", "-interpret")
	for _, in := range swift {
		b.Path(in.File)
	}
	if err := c.addCommonFrontendOptions(b, &inputs, bridgingParsed); err != nil {
		return nil, err
	}
	b.AppendAll(c.opts, "-l", "-framework")
	if rest, ok := c.opts.LastArgument("--"); ok {
		b.Flag("--")
		b.Flag(rest.Values...)
	}

	env, err := c.tc.InterpreterEnvironment(c.opts, c.info)
	if err != nil {
		return nil, err
	}

	job, err := c.newJob(domain.JobInterpret, domain.ToolFrontend, b)
	if err != nil {
		return nil, err
	}
	job.Inputs = inputs
	job.DisplayInputs = swift
	job.ExtraEnvironment = env
	job.RequiresInPlaceExecution = true
	return job, nil
}

// replJob starts the REPL in lldb, or in the frontend when the integrated
// REPL is requested.
func (c *Context) replJob() (*domain.Job, error) {
	var inputs []domain.TypedVirtualPath
	frontend := commandline.NewBuilder(c.in, c.workingDir)
	if err := c.addCommonFrontendOptions(frontend, &inputs, bridgingIgnored); err != nil {
		return nil, err
	}
	frontend.AppendAll(c.opts, "-l", "-framework")

	if c.modeOption == "-deprecated-integrated-repl" {
		b := commandline.NewBuilder(c.in, c.workingDir)
		b.Flag("-frontend", "-repl")
		args, err := frontend.Build()
		if err != nil {
			return nil, err
		}
		b.Append(args...)
		job, err := c.newJob(domain.JobREPL, domain.ToolFrontend, b)
		if err != nil {
			return nil, err
		}
		job.RequiresInPlaceExecution = true
		return job, nil
	}

	args, err := frontend.Build()
	if err != nil {
		return nil, err
	}
	b := commandline.NewBuilder(c.in, c.workingDir)
	b.Append(domain.SquashedArgumentList("--repl=", args))
	job, err := c.newJob(domain.JobREPL, domain.ToolLLDB, b)
	if err != nil {
		return nil, err
	}
	job.RequiresInPlaceExecution = true
	return job, nil
}
