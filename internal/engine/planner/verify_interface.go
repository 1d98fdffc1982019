package planner

import (
	"go.trai.ch/swiftplan/internal/core/domain"
	"go.trai.ch/swiftplan/internal/engine/commandline"
)

// verifiedInterfaces returns the emitted interfaces that are type-checked
// after the module is built.
func (c *Context) verifiedInterfaces() []domain.TypedVirtualPath {
	if !c.opts.HasArgument("-enable-library-evolution") ||
		!c.opts.HasFlag("-verify-emitted-module-interface", "-no-verify-emitted-module-interface", true) {
		return nil
	}
	var out []domain.TypedVirtualPath
	for _, t := range []domain.FileType{domain.FileTypeSwiftInterface, domain.FileTypePrivateSwiftInterface} {
		if h, ok := c.supplementary[t]; ok {
			out = append(out, domain.NewTypedPath(h, t))
		}
	}
	return out
}

func (c *Context) verifyInterfaceJob(iface domain.TypedVirtualPath) (*domain.Job, error) {
	inputs := []domain.TypedVirtualPath{iface}

	b := commandline.NewBuilder(c.in, c.workingDir)
	b.Flag("-frontend", "-typecheck-module-from-interface")
	b.Path(iface.File)
	if err := c.addCommonFrontendOptions(b, &inputs, bridgingIgnored); err != nil {
		return nil, err
	}
	if c.opts.HasFlag("-downgrade-typecheck-interface-error", "-no-downgrade-typecheck-interface-error", false) {
		b.Flag("-downgrade-typecheck-interface-error")
	}

	job, err := c.newJob(domain.JobVerifyModuleInterface, domain.ToolFrontend, b)
	if err != nil {
		return nil, err
	}
	job.Inputs = inputs
	job.DisplayInputs = inputs
	return job, nil
}
