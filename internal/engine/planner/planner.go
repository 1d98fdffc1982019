package planner

import (
	"fmt"

	"go.trai.ch/swiftplan/internal/core/domain"
)

// Planner assembles the jobs of one compilation in execution order.
type Planner struct {
	c    *Context
	jobs []*domain.Job
}

// New returns a planner over the driver state c.
func New(c *Context) *Planner {
	return &Planner{c: c}
}

// Plan returns the jobs of the compilation. Every job comes after the jobs
// producing its inputs, and a job replacing the driver process is last.
func (p *Planner) Plan() ([]*domain.Job, error) {
	p.jobs = nil
	var err error
	switch p.c.mode {
	case domain.CompileStandard, domain.CompileBatch, domain.CompileSingle:
		err = p.planCompile()
	case domain.CompileImmediate:
		err = p.single(p.c.interpretJob())
	case domain.CompileREPL:
		err = p.single(p.c.replJob())
	case domain.CompilePCM:
		err = p.single(p.c.generatePCMJob())
	case domain.CompileDumpPCM:
		err = p.single(p.c.dumpPCMJob())
	case domain.CompileIntro:
		var jobs []*domain.Job
		if jobs, err = p.c.introJobs(); err == nil {
			p.jobs = jobs
		}
	default:
		panic("planner: unhandled compiler mode " + p.c.mode.String())
	}
	if err != nil {
		return nil, err
	}
	validate(p.c.in, p.jobs)
	return p.jobs, nil
}

func (p *Planner) single(job *domain.Job, err error) error {
	if err != nil {
		return err
	}
	p.jobs = append(p.jobs, job)
	return nil
}

func (p *Planner) add(job *domain.Job, err error) (*domain.Job, error) {
	if err != nil {
		return nil, err
	}
	p.jobs = append(p.jobs, job)
	return job, nil
}

func (p *Planner) planCompile() error {
	c := p.c

	if c.explicitModules {
		jobs, err := c.explicitModuleJobs()
		if err != nil {
			return err
		}
		p.jobs = append(p.jobs, jobs...)
	}

	if c.bridgingPCH.IsValid() {
		if _, err := p.add(c.generatePCHJob()); err != nil {
			return err
		}
	}

	var module domain.TypedVirtualPath
	if c.emitModuleSeparately {
		job, err := p.add(c.emitModuleJob())
		if err != nil {
			return err
		}
		module = job.Outputs[0]
		if err := p.addVerifyJobs(); err != nil {
			return err
		}
	}

	compileOutputs, err := p.addCompileJobs()
	if err != nil {
		return err
	}

	if c.module.Kind != ModuleOutputNone && !c.emitModuleSeparately {
		if c.mergesPartialModules() {
			var partials []domain.TypedVirtualPath
			for _, o := range compileOutputs {
				if o.Type == domain.FileTypeSwiftModule {
					partials = append(partials, o)
				}
			}
			if len(partials) > 0 {
				job, err := p.add(c.mergeModuleJob(partials))
				if err != nil {
					return err
				}
				module = job.Outputs[0]
			}
		} else if len(compileOutputs) > 0 {
			module = domain.NewTypedPath(c.module.Path, domain.FileTypeSwiftModule)
		}
		if module.File.IsValid() {
			if err := p.addVerifyJobs(); err != nil {
				return err
			}
		}
	}

	var linkInputs []domain.TypedVirtualPath
	for _, o := range compileOutputs {
		if o.Type == c.compilerOutput && o.Type.IsLinkable() {
			linkInputs = append(linkInputs, o)
		}
	}
	for _, in := range c.inputs {
		if in.Type.IsLinkable() {
			linkInputs = append(linkInputs, in)
		}
	}

	var wrapped domain.TypedVirtualPath
	if module.File.IsValid() && c.needsModuleWrap() {
		job, err := p.add(c.moduleWrapJob(module))
		if err != nil {
			return err
		}
		wrapped = job.Outputs[0]
	}

	if c.needsAutolinkExtract() {
		var objects []domain.TypedVirtualPath
		for _, in := range linkInputs {
			if in.Type == domain.FileTypeObject {
				objects = append(objects, in)
			}
		}
		if len(objects) > 0 {
			job, err := p.add(c.autolinkExtractJob(objects))
			if err != nil {
				return err
			}
			linkInputs = append(linkInputs, job.Outputs[0])
		}
	}
	if wrapped.File.IsValid() {
		linkInputs = append(linkInputs, wrapped)
	}
	if module.File.IsValid() && c.tc.Triple().IsDarwin() && c.debug.Level == DebugASTTypes {
		linkInputs = append(linkInputs, module)
	}

	if module.File.IsValid() {
		if err := p.addDigesterJobs(module); err != nil {
			return err
		}
	}

	if c.linkerOutput == domain.LinkNone || len(linkInputs) == 0 {
		return nil
	}
	link, err := p.add(c.linkJob(linkInputs))
	if err != nil {
		return err
	}
	if !c.needsDSYM() {
		return nil
	}
	dsym, err := p.add(c.generateDSYMJob(link.Outputs[0]))
	if err != nil {
		return err
	}
	if c.debug.Verify {
		if _, err := p.add(c.verifyDebugInfoJob(dsym.Outputs[0])); err != nil {
			return err
		}
	}
	return nil
}

// addCompileJobs plans the frontend jobs over the sources and returns their
// outputs in plan order.
func (p *Planner) addCompileJobs() ([]domain.TypedVirtualPath, error) {
	c := p.c
	swift := c.swiftInputs()
	if len(swift) == 0 {
		return nil, nil
	}
	if c.compilerOutput == domain.FileTypeSwiftModule && c.emitModuleSeparately {
		return nil, nil
	}

	var groups [][]domain.TypedVirtualPath
	switch {
	case c.indexFile.IsValid():
		for _, in := range swift {
			if in.File == c.indexFile {
				groups = [][]domain.TypedVirtualPath{{in}}
			}
		}
	case c.mode == domain.CompileStandard:
		for _, in := range swift {
			groups = append(groups, []domain.TypedVirtualPath{in})
		}
	case c.mode == domain.CompileBatch:
		groups = c.batchPartitions(swift)
	case c.mode == domain.CompileSingle:
		groups = [][]domain.TypedVirtualPath{nil}
	default:
		panic("planner: compile jobs requested in " + c.mode.String() + " mode")
	}

	var outputs []domain.TypedVirtualPath
	for i, primaries := range groups {
		job, err := p.add(c.compileJob(primaries, i == 0))
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, job.Outputs...)
	}
	return outputs, nil
}

func (p *Planner) addVerifyJobs() error {
	for _, iface := range p.c.verifiedInterfaces() {
		if _, err := p.add(p.c.verifyInterfaceJob(iface)); err != nil {
			return err
		}
	}
	return nil
}

func (p *Planner) addDigesterJobs(module domain.TypedVirtualPath) error {
	if p.c.digester.baseline.IsValid() {
		if _, err := p.add(p.c.generateBaselineJob(module)); err != nil {
			return err
		}
	}
	if p.c.digester.compare.IsValid() {
		if _, err := p.add(p.c.compareBaselineJob(module)); err != nil {
			return err
		}
	}
	return nil
}

// validate panics when jobs break the ordering contract of a plan.
func validate(in *domain.Interner, jobs []*domain.Job) {
	producer := make(map[domain.PathHandle]int)
	for i, job := range jobs {
		for _, o := range job.Outputs {
			if in.Lookup(o.File).IsStream() {
				continue
			}
			if prev, ok := producer[o.File]; ok {
				panic(fmt.Sprintf("planner: %s is produced by jobs %d and %d", in.Lookup(o.File), prev, i))
			}
			producer[o.File] = i
		}
	}
	for i, job := range jobs {
		for _, input := range job.Inputs {
			if m, ok := producer[input.File]; ok && m >= i {
				panic(fmt.Sprintf("planner: job %d (%s) reads %s before job %d produces it",
					i, job.Kind, in.Lookup(input.File), m))
			}
		}
		if job.RequiresInPlaceExecution && i != len(jobs)-1 {
			panic(fmt.Sprintf("planner: in-place job %s is not last", job.Kind))
		}
	}
}
