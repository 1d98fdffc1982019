package planner

import (
	"strings"

	"go.trai.ch/swiftplan/internal/core/domain"
	"go.trai.ch/swiftplan/internal/engine/commandline"
)

// bridgingHeaderHandling selects how a frontend job sees the bridging header.
type bridgingHeaderHandling uint8

const (
	bridgingIgnored bridgingHeaderHandling = iota
	bridgingParsed
	bridgingPrecompiled
)

// lastWinsOptions are forwarded as their last occurrence.
var lastWinsOptions = []string{
	"-swift-version",
	"-module-cache-path",
	"-prebuilt-module-cache-path",
	"-resource-dir",
	"-runtime-compatibility-version",
	"-strict-concurrency=",
	"-enforce-exclusivity=",
	"-cxx-interoperability-mode=",
	"-package-name",
	"-user-module-version",
	"-access-notes-path",
	"-diagnostic-style",
	"-module-link-name",
	"-module-abi-name",
	"-lto=",
}

// frontendFlags are driver flags the frontend understands verbatim.
var frontendFlags = []string{
	"-enable-testing",
	"-enable-private-imports",
	"-enable-library-evolution",
	"-disable-cross-module-optimization",
	"-enable-default-cmo",
	"-parse-stdlib",
	"-import-underlying-module",
	"-autolink-force-load",
	"-nostdimport",
	"-application-extension",
	"-embed-bitcode-marker",
	"-enable-experimental-cxx-interop",
	"-continue-building-after-errors",
	"-use-static-resource-dir",
	"-sanitize-address-use-odr-indicator",
	"-profile-generate",
	"-profile-coverage-mapping",
	"-suppress-warnings",
}

func (c *Context) sdkHandle() (domain.PathHandle, bool) {
	if c.sdkPath == "" {
		return domain.NoPath, false
	}
	p, err := domain.ParseVirtualPath(c.sdkPath)
	if err != nil {
		return domain.NoPath, false
	}
	return c.in.Intern(p.Resolved(c.workingDir)), true
}

// addCommonFrontendOptions appends the options every frontend invocation of
// the compilation shares. Inputs the options introduce are added to inputs.
func (c *Context) addCommonFrontendOptions(
	b *commandline.Builder,
	inputs *[]domain.TypedVirtualPath,
	bridging bridgingHeaderHandling,
) error {
	b.Flag("-target", c.tc.Triple().String())
	b.AppendLast(c.opts, "-target-variant")
	if sdk, ok := c.sdkHandle(); ok {
		b.FlagPath("-sdk", sdk)
	}
	if err := c.tc.AddPlatformFrontendOptions(b, c.opts, c.sdkPath); err != nil {
		return err
	}

	b.AppendLast(c.opts, "-color-diagnostics", "-no-color-diagnostics")
	b.AppendAll(c.opts, "-I", "-F", "-Fsystem")
	b.AppendAll(c.opts, "-vfsoverlay")
	b.AppendAll(c.opts, "-D")
	b.AppendAll(c.opts, "-enable-experimental-feature", "-enable-upcoming-feature")
	b.AppendAll(c.opts, "-define-availability")
	for _, spelling := range lastWinsOptions {
		b.AppendLast(c.opts, spelling)
	}
	for _, flag := range frontendFlags {
		b.AppendLast(c.opts, flag)
	}
	b.AppendLast(c.opts, "-warnings-as-errors", "-no-warnings-as-errors")
	b.AppendLastInGroup(c.opts, domain.GroupO)

	c.addDebugOptions(b)

	if len(c.sanitizers) > 0 {
		names := make([]string, 0, len(c.sanitizers))
		for _, s := range c.sanitizers.Sorted() {
			names = append(names, s.String())
		}
		b.Flag("-sanitize=" + strings.Join(names, ","))
	}
	b.AppendLast(c.opts, "-sanitize-recover=")
	b.AppendLast(c.opts, "-sanitize-coverage=")
	b.AppendLast(c.opts, "-profile-use=")

	if c.opts.HasArgument("-parseable-output") {
		b.Flag("-frontend-parseable-output")
	}
	b.AppendAll(c.opts, "-Xllvm")
	b.AppendAll(c.opts, "-Xcc")

	c.addBridgingHeader(b, inputs, bridging)

	b.Flag("-module-name", c.moduleName)
	b.AppendAllValues(c.opts, "-Xfrontend")
	return nil
}

func (c *Context) addDebugOptions(b *commandline.Builder) {
	switch c.debug.Level {
	case DebugNone:
		b.AppendAll(c.opts, "-coverage-prefix-map")
		return
	case DebugLineTables:
		b.Flag("-gline-tables-only")
	case DebugDWARFTypes:
		b.Flag("-gdwarf-types")
	case DebugASTTypes:
		b.Flag("-g")
	}
	b.Flag("-debug-info-format=" + c.debug.Format)
	b.AppendLast(c.opts, "-dwarf-version=")
	b.AppendAll(c.opts, "-debug-prefix-map")
	b.AppendAll(c.opts, "-file-prefix-map")
	b.AppendAll(c.opts, "-coverage-prefix-map")
}

func (c *Context) addBridgingHeader(b *commandline.Builder, inputs *[]domain.TypedVirtualPath, bridging bridgingHeaderHandling) {
	if !c.bridgingHeader.IsValid() || bridging == bridgingIgnored {
		return
	}
	headerType := domain.FileTypeForPath(c.in.Lookup(c.bridgingHeader))
	if bridging == bridgingPrecompiled && c.bridgingPCH.IsValid() {
		if dir, ok := c.opts.LastArgument("-pch-output-dir"); ok {
			b.FlagPath("-import-objc-header", c.bridgingHeader)
			b.AppendOption(dir)
			if !c.mode.IsSingleCompilation() {
				b.Flag("-pch-disable-validation")
			}
		} else {
			b.FlagPath("-import-objc-header", c.bridgingPCH)
		}
		*inputs = append(*inputs, domain.NewTypedPath(c.bridgingPCH, domain.FileTypePCH))
		return
	}
	b.FlagPath("-import-objc-header", c.bridgingHeader)
	*inputs = append(*inputs, domain.NewTypedPath(c.bridgingHeader, headerType))
}

// addModuleOutputs appends the module-wide supplementary outputs and records
// them in outputs.
func (c *Context) addModuleOutputs(b *commandline.Builder, outputs *[]domain.TypedVirtualPath) {
	for _, o := range moduleOutputs {
		h, ok := c.supplementary[o.fileType]
		if !ok {
			continue
		}
		b.FlagPath(o.flag, h)
		*outputs = append(*outputs, domain.NewTypedPath(h, o.fileType))
	}
}

// addInputList passes files on the command line, or through a file list when
// there are more than the threshold.
func (c *Context) addInputList(b *commandline.Builder, flag, listName string, files []domain.TypedVirtualPath) {
	if len(files) > c.fileListThreshold {
		paths := make([]domain.PathHandle, len(files))
		for i, f := range files {
			paths[i] = f.File
		}
		list := c.in.UniqueFileList(listName, domain.FileListContents{Kind: domain.FileListPaths, Paths: paths})
		b.FlagPath(flag, list)
		return
	}
	for _, f := range files {
		b.Path(f.File)
	}
}

// newJob resolves tool and finalizes the command line of b.
func (c *Context) newJob(kind domain.JobKind, tool domain.Tool, b *commandline.Builder) (*domain.Job, error) {
	resolved, err := c.tc.ResolvedTool(tool, c.lto)
	if err != nil {
		return nil, err
	}
	args, err := b.Build()
	if err != nil {
		return nil, err
	}
	return &domain.Job{
		ModuleName:            c.moduleName,
		Kind:                  kind,
		Tool:                  resolved.Handle,
		CommandLine:           args,
		SupportsResponseFiles: resolved.SupportsResponseFiles,
	}, nil
}

// parseAsLibrary reports whether the frontend must treat the sources as a
// library without top-level code.
func (c *Context) parseAsLibrary() bool {
	return c.opts.HasArgument("-parse-as-library") ||
		c.linkerOutput == domain.LinkDynamicLibrary || c.linkerOutput == domain.LinkStaticLibrary
}
