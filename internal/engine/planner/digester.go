package planner

import (
	"go.trai.ch/swiftplan/internal/core/domain"
	"go.trai.ch/swiftplan/internal/engine/commandline"
)

func (c *Context) addDigesterOptions(b *commandline.Builder) {
	b.Flag("-target", c.tc.Triple().String())
	if sdk, ok := c.sdkHandle(); ok {
		b.FlagPath("-sdk", sdk)
	}
	b.AppendLast(c.opts, "-resource-dir")
	b.AppendAll(c.opts, "-I", "-F")
	b.FlagPath("-I", c.in.Intern(c.in.Lookup(c.module.Path).ParentDirectory()))
	if c.digester.mode == domain.DigesterABI {
		b.Flag("-abi")
	}
}

func (c *Context) generateBaselineJob(module domain.TypedVirtualPath) (*domain.Job, error) {
	b := commandline.NewBuilder(c.in, c.workingDir)
	b.Flag("-dump-sdk", "-module", c.moduleName)
	c.addDigesterOptions(b)
	b.FlagPath("-o", c.digester.baseline)

	kind := domain.JobGenerateAPIBaseline
	if c.digester.mode == domain.DigesterABI {
		kind = domain.JobGenerateABIBaseline
	}
	job, err := c.newJob(kind, domain.ToolAPIDigester, b)
	if err != nil {
		return nil, err
	}
	job.Inputs = []domain.TypedVirtualPath{module}
	job.Outputs = []domain.TypedVirtualPath{domain.NewTypedPath(c.digester.baseline, c.digester.mode.BaselineFileType())}
	return job, nil
}

// compareBaselineJob diagnoses breaking changes against the baseline. ABI
// comparisons read the ABI descriptor when the build emits one and otherwise
// load the module from its textual interface.
func (c *Context) compareBaselineJob(module domain.TypedVirtualPath) (*domain.Job, error) {
	baseline := domain.NewTypedPath(c.digester.compare, c.digester.mode.BaselineFileType())
	inputs := []domain.TypedVirtualPath{baseline}

	b := commandline.NewBuilder(c.in, c.workingDir)
	b.Flag("-diagnose-sdk", "-module", c.moduleName)
	b.FlagPath("-baseline-path", c.digester.compare)

	kind := domain.JobCompareAPIBaseline
	switch {
	case c.digester.mode == domain.DigesterAPI:
		c.addDigesterOptions(b)
		inputs = append(inputs, module)
	case c.supplementary[domain.FileTypeJSONABIBaseline].IsValid():
		kind = domain.JobCompareABIBaseline
		descriptor := c.supplementary[domain.FileTypeJSONABIBaseline]
		b.FlagPath("-input-paths", descriptor)
		inputs = append(inputs, domain.NewTypedPath(descriptor, domain.FileTypeJSONABIBaseline))
	default:
		kind = domain.JobCompareABIBaseline
		iface, ok := c.supplementary[domain.FileTypeSwiftInterface]
		if !ok {
			panic("planner: ABI comparison without a descriptor requires a module interface")
		}
		b.Flag("-use-interface-for-module", c.moduleName)
		c.addDigesterOptions(b)
		inputs = append(inputs, domain.NewTypedPath(iface, domain.FileTypeSwiftInterface))
	}

	var outputs []domain.TypedVirtualPath
	if c.digester.breakingChanges.IsValid() {
		b.FlagPath("-serialize-diagnostics-path", c.digester.breakingChanges)
		outputs = append(outputs, domain.NewTypedPath(c.digester.breakingChanges, domain.FileTypeDiagnostics))
	}
	if c.digester.allowlist.IsValid() {
		b.FlagPath("-breakage-allowlist-path", c.digester.allowlist)
	}
	b.Flag("-compiler-style-diags")

	job, err := c.newJob(kind, domain.ToolAPIDigester, b)
	if err != nil {
		return nil, err
	}
	job.Inputs = inputs
	job.Outputs = outputs
	return job, nil
}
