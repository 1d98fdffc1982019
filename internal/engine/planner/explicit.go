package planner

import (
	"go.trai.ch/swiftplan/internal/core/domain"
	"go.trai.ch/swiftplan/internal/engine/commandline"
)

func (c *Context) mainModuleID() domain.ModuleID {
	return domain.ModuleID{Name: c.graph.MainModule, Kind: domain.ModuleSwift}
}

func (c *Context) graphPath(p string) (domain.PathHandle, error) {
	vp, err := domain.ParseVirtualPath(p)
	if err != nil {
		return domain.NoPath, err
	}
	return c.in.Intern(vp.Resolved(c.workingDir)), nil
}

func (c *Context) graphModule(id domain.ModuleID) (*domain.ModuleInfo, error) {
	info, ok := c.graph.Module(id)
	if !ok {
		return nil, domain.NewError(domain.ErrMissingModuleDependency, "module is not in the dependency graph",
			"module", id.String())
	}
	return info, nil
}

// addExplicitDependencies turns off implicit module loading for id and hands
// the frontend every module it depends on.
func (c *Context) addExplicitDependencies(b *commandline.Builder, inputs *[]domain.TypedVirtualPath, id domain.ModuleID) error {
	if id.Kind != domain.ModuleClang {
		b.Flag("-disable-implicit-swift-modules")
	}
	b.Flag("-Xcc", "-fno-implicit-modules", "-Xcc", "-fno-implicit-module-maps")

	for _, dep := range c.graph.TransitiveDependencies(id) {
		info, err := c.graphModule(dep)
		if err != nil {
			return err
		}
		module, err := c.graphPath(info.ModulePath)
		if err != nil {
			return err
		}
		switch dep.Kind {
		case domain.ModuleSwift, domain.ModuleSwiftPrebuilt:
			if id.Kind == domain.ModuleClang {
				continue
			}
			b.Append(domain.JoinedOptionAndPath("-swift-module-file="+dep.Name+"=", module))
			*inputs = append(*inputs, domain.NewTypedPath(module, domain.FileTypeSwiftModule))
		case domain.ModuleClang:
			b.Flag("-Xcc")
			b.Append(domain.JoinedOptionAndPath("-fmodule-file="+dep.Name+"=", module))
			if info.ModuleMapPath != "" {
				moduleMap, err := c.graphPath(info.ModuleMapPath)
				if err != nil {
					return err
				}
				b.Flag("-Xcc")
				b.Append(domain.JoinedOptionAndPath("-fmodule-map-file=", moduleMap))
			}
			*inputs = append(*inputs, domain.NewTypedPath(module, domain.FileTypePCM))
		}
	}
	return nil
}

// explicitModuleJobs builds every dependency of the main module that is not
// prebuilt, dependencies first.
func (c *Context) explicitModuleJobs() ([]*domain.Job, error) {
	order, err := c.graph.TopologicalOrder()
	if err != nil {
		return nil, err
	}
	needed := make(map[domain.ModuleID]bool)
	for _, id := range c.graph.TransitiveDependencies(c.mainModuleID()) {
		needed[id] = true
	}

	var jobs []*domain.Job
	for _, id := range order {
		if !needed[id] {
			continue
		}
		var job *domain.Job
		switch id.Kind {
		case domain.ModuleSwift:
			job, err = c.interfaceModuleJob(id)
		case domain.ModuleClang:
			job, err = c.clangModuleJob(id)
		case domain.ModuleSwiftPrebuilt:
			continue
		}
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func (c *Context) interfaceModuleJob(id domain.ModuleID) (*domain.Job, error) {
	info, err := c.graphModule(id)
	if err != nil {
		return nil, err
	}
	if info.InterfacePath == "" {
		return nil, domain.NewError(domain.ErrInvalidDependencyGraph, "Swift module has no interface",
			"module", id.String())
	}
	iface, err := c.graphPath(info.InterfacePath)
	if err != nil {
		return nil, err
	}
	module, err := c.graphPath(info.ModulePath)
	if err != nil {
		return nil, err
	}

	b := commandline.NewBuilder(c.in, c.workingDir)
	inputs := []domain.TypedVirtualPath{domain.NewTypedPath(iface, domain.FileTypeSwiftInterface)}
	b.Flag("-frontend", "-compile-module-from-interface", "-module-name", id.Name)
	b.Path(iface)
	b.Flag("-target", c.tc.Triple().String())
	if sdk, ok := c.sdkHandle(); ok {
		b.FlagPath("-sdk", sdk)
	}
	b.AppendLast(c.opts, "-resource-dir")
	if err := c.addExplicitDependencies(b, &inputs, id); err != nil {
		return nil, err
	}
	b.Flag(info.ExtraArgs...)
	b.FlagPath("-o", module)

	job, err := c.newJob(domain.JobCompileModuleFromInterface, domain.ToolFrontend, b)
	if err != nil {
		return nil, err
	}
	job.ModuleName = id.Name
	job.Inputs = inputs
	job.DisplayInputs = inputs[:1]
	job.Outputs = []domain.TypedVirtualPath{domain.NewTypedPath(module, domain.FileTypeSwiftModule)}
	return job, nil
}

func (c *Context) clangModuleJob(id domain.ModuleID) (*domain.Job, error) {
	info, err := c.graphModule(id)
	if err != nil {
		return nil, err
	}
	if info.ModuleMapPath == "" {
		return nil, domain.NewError(domain.ErrInvalidDependencyGraph, "Clang module has no module map",
			"module", id.String())
	}
	moduleMap, err := c.graphPath(info.ModuleMapPath)
	if err != nil {
		return nil, err
	}
	pcm, err := c.graphPath(info.ModulePath)
	if err != nil {
		return nil, err
	}

	b := commandline.NewBuilder(c.in, c.workingDir)
	inputs := []domain.TypedVirtualPath{domain.NewTypedPath(moduleMap, domain.FileTypeClangModuleMap)}
	b.Flag("-frontend", "-emit-pcm", "-module-name", id.Name)
	b.Path(moduleMap)
	b.Flag("-target", c.tc.Triple().String())
	if sdk, ok := c.sdkHandle(); ok {
		b.FlagPath("-sdk", sdk)
	}
	if err := c.addExplicitDependencies(b, &inputs, id); err != nil {
		return nil, err
	}
	b.Flag(info.ExtraArgs...)
	b.FlagPath("-o", pcm)

	job, err := c.newJob(domain.JobGeneratePCM, domain.ToolFrontend, b)
	if err != nil {
		return nil, err
	}
	job.ModuleName = id.Name
	job.Inputs = inputs
	job.DisplayInputs = inputs[:1]
	job.Outputs = []domain.TypedVirtualPath{domain.NewTypedPath(pcm, domain.FileTypePCM)}
	return job, nil
}
