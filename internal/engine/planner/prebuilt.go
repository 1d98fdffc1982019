package planner

import (
	"path/filepath"

	"go.trai.ch/swiftplan/internal/core/domain"
	"go.trai.ch/swiftplan/internal/core/ports"
	"go.trai.ch/swiftplan/internal/engine/commandline"
	"go.trai.ch/swiftplan/internal/engine/toolchain"
)

// PrebuiltConfig carries the inputs of a prebuilt-module batch.
type PrebuiltConfig struct {
	Interner  *domain.Interner
	Toolchain toolchain.Toolchain
	FS        ports.FileSystem
	SDKPath   string
	Set       *domain.PrebuiltModuleSet
}

type prebuiltPlanner struct {
	cfg   PrebuiltConfig
	in    *domain.Interner
	tc    toolchain.Toolchain
	built map[string]map[string]domain.TypedVirtualPath
}

// PlanPrebuiltModules compiles every interface of the set into
// <out>/<Name>.swiftmodule/<arch>.swiftmodule. Modules are planned after the
// modules they import.
func PlanPrebuiltModules(cfg PrebuiltConfig) ([]*domain.Job, error) {
	if cfg.Set.OutputDirectory == "" {
		return nil, domain.NewError(domain.ErrMissingArgument, "prebuilt modules need an output directory")
	}
	p := &prebuiltPlanner{
		cfg:   cfg,
		in:    cfg.Interner,
		tc:    cfg.Toolchain,
		built: make(map[string]map[string]domain.TypedVirtualPath),
	}

	byName := make(map[string]*domain.PrebuiltModule, len(cfg.Set.Modules))
	for i := range cfg.Set.Modules {
		byName[cfg.Set.Modules[i].Name] = &cfg.Set.Modules[i]
	}
	order, err := cfg.Set.Graph().TopologicalOrder()
	if err != nil {
		return nil, err
	}

	var jobs []*domain.Job
	for _, id := range order {
		m := byName[id.Name]
		p.built[m.Name] = make(map[string]domain.TypedVirtualPath)
		for _, iface := range m.Interfaces {
			moduleJobs, err := p.moduleJobs(m, iface)
			if err != nil {
				return nil, err
			}
			jobs = append(jobs, moduleJobs...)
		}
	}
	return jobs, nil
}

func (p *prebuiltPlanner) path(elem ...string) (domain.PathHandle, error) {
	return p.in.Parse(filepath.Join(elem...))
}

func (p *prebuiltPlanner) moduleJobs(m *domain.PrebuiltModule, iface domain.PrebuiltInterface) ([]*domain.Job, error) {
	set := p.cfg.Set
	dir := m.Name + "." + domain.FileTypeSwiftModule.Extension()
	ifacePath, err := p.in.Parse(iface.Path)
	if err != nil {
		return nil, err
	}
	out, err := p.path(set.OutputDirectory, dir, iface.Arch+"."+domain.FileTypeSwiftModule.Extension())
	if err != nil {
		return nil, err
	}
	module := domain.NewTypedPath(out, domain.FileTypeSwiftModule)
	triple := p.tc.Triple().WithArch(iface.Arch)

	inputs := []domain.TypedVirtualPath{domain.NewTypedPath(ifacePath, domain.FileTypeSwiftInterface)}
	for _, dep := range m.Dependencies {
		if built, ok := p.built[dep][iface.Arch]; ok {
			inputs = append(inputs, built)
		}
	}

	b := commandline.NewBuilder(p.in, "")
	b.Flag("-frontend", "-compile-module-from-interface", "-module-name", m.Name)
	b.Path(ifacePath)
	p.addTargetOptions(b, triple)
	b.Flag("-suppress-warnings")
	b.FlagPath("-o", out)

	compile, err := p.newJob(domain.JobCompileModuleFromInterface, domain.ToolFrontend, m.Name, b)
	if err != nil {
		return nil, err
	}
	compile.Inputs = inputs
	compile.DisplayInputs = inputs[:1]
	compile.Outputs = []domain.TypedVirtualPath{module}
	p.built[m.Name][iface.Arch] = module
	jobs := []*domain.Job{compile}

	var dumped domain.TypedVirtualPath
	if set.DumpABI {
		abi, err := p.path(set.OutputDirectory, dir, iface.Arch+"."+domain.FileTypeJSONABIBaseline.Extension())
		if err != nil {
			return nil, err
		}
		dumped = domain.NewTypedPath(abi, domain.FileTypeJSONABIBaseline)

		b := commandline.NewBuilder(p.in, "")
		b.Flag("-dump-sdk", "-module", m.Name)
		p.addTargetOptions(b, triple)
		b.Flag("-abi")
		b.FlagPath("-o", abi)
		job, err := p.newJob(domain.JobGenerateABIBaseline, domain.ToolAPIDigester, m.Name, b)
		if err != nil {
			return nil, err
		}
		job.Inputs = []domain.TypedVirtualPath{module}
		job.Outputs = []domain.TypedVirtualPath{dumped}
		jobs = append(jobs, job)
	}

	if set.BaselineDirectory == "" {
		return jobs, nil
	}
	baselineName := filepath.Join(set.BaselineDirectory, dir, iface.Arch+"."+domain.FileTypeJSONABIBaseline.Extension())
	if !p.cfg.FS.Exists(baselineName) {
		return jobs, nil
	}
	baseline, err := p.in.Parse(baselineName)
	if err != nil {
		return nil, err
	}

	b = commandline.NewBuilder(p.in, "")
	b.Flag("-diagnose-sdk", "-module", m.Name)
	b.FlagPath("-baseline-path", baseline)
	compareInputs := []domain.TypedVirtualPath{domain.NewTypedPath(baseline, domain.FileTypeJSONABIBaseline)}
	if dumped.File.IsValid() {
		b.FlagPath("-input-paths", dumped.File)
		compareInputs = append(compareInputs, dumped)
	} else {
		p.addTargetOptions(b, triple)
		compareInputs = append(compareInputs, module)
	}
	b.Flag("-abi", "-compiler-style-diags")
	compare, err := p.newJob(domain.JobCompareABIBaseline, domain.ToolAPIDigester, m.Name, b)
	if err != nil {
		return nil, err
	}
	compare.Inputs = compareInputs
	return append(jobs, compare), nil
}

func (p *prebuiltPlanner) addTargetOptions(b *commandline.Builder, triple domain.Triple) {
	b.Flag("-target", triple.String())
	if p.cfg.SDKPath != "" {
		if sdk, err := p.in.Parse(p.cfg.SDKPath); err == nil {
			b.FlagPath("-sdk", sdk)
		}
	}
	if out, err := p.in.Parse(p.cfg.Set.OutputDirectory); err == nil {
		b.FlagPath("-I", out)
	}
}

func (p *prebuiltPlanner) newJob(kind domain.JobKind, tool domain.Tool, module string, b *commandline.Builder) (*domain.Job, error) {
	resolved, err := p.tc.ResolvedTool(tool, domain.LTONone)
	if err != nil {
		return nil, err
	}
	args, err := b.Build()
	if err != nil {
		return nil, err
	}
	return &domain.Job{
		ModuleName:            module,
		Kind:                  kind,
		Tool:                  resolved.Handle,
		CommandLine:           args,
		SupportsResponseFiles: resolved.SupportsResponseFiles,
	}, nil
}
