package planner

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/swiftplan/internal/core/domain"
)

// supplementaryOutput ties a file type to the driver options that request it
// and the frontend flag that receives its path.
type supplementaryOutput struct {
	fileType   domain.FileType
	requests   []string
	pathOption string
	flag       string
}

// moduleOutputs are written once per module, next to the module when possible.
var moduleOutputs = []supplementaryOutput{
	{fileType: domain.FileTypeSwiftDocumentation, pathOption: "-emit-module-doc-path", flag: "-emit-module-doc-path"},
	{fileType: domain.FileTypeSwiftSourceInfo, pathOption: "-emit-module-source-info-path", flag: "-emit-module-source-info-path"},
	{
		fileType: domain.FileTypeSwiftInterface, requests: []string{"-emit-module-interface"},
		pathOption: "-emit-module-interface-path", flag: "-emit-module-interface-path",
	},
	{
		fileType:   domain.FileTypePrivateSwiftInterface,
		pathOption: "-emit-private-module-interface-path", flag: "-emit-private-module-interface-path",
	},
	{
		fileType:   domain.FileTypePackageSwiftInterface,
		pathOption: "-emit-package-module-interface-path", flag: "-emit-package-module-interface-path",
	},
	{
		fileType: domain.FileTypeObjCHeader, requests: []string{"-emit-objc-header"},
		pathOption: "-emit-objc-header-path", flag: "-emit-objc-header-path",
	},
	{fileType: domain.FileTypeTBD, requests: []string{"-emit-tbd"}, pathOption: "-emit-tbd-path", flag: "-emit-tbd-path"},
	{fileType: domain.FileTypeJSONABIBaseline, flag: "-emit-abi-descriptor-path"},
	{
		fileType: domain.FileTypeJSONAPIDescriptor, requests: []string{"-emit-api-descriptor"},
		pathOption: "-emit-api-descriptor-path", flag: "-emit-api-descriptor-path",
	},
}

// inputOutputs are written once per primary input, or once for a whole-module
// compilation.
var inputOutputs = []supplementaryOutput{
	{fileType: domain.FileTypeDependencies, requests: []string{"-emit-dependencies"}, flag: "-emit-dependencies-path"},
	{fileType: domain.FileTypeSwiftDeps, requests: []string{"-incremental"}, flag: "-emit-reference-dependencies-path"},
	{
		fileType: domain.FileTypeDiagnostics, requests: []string{"-serialize-diagnostics"},
		pathOption: "-serialize-diagnostics-path", flag: "-serialize-diagnostics-path",
	},
	{
		fileType: domain.FileTypeSwiftConstValues, requests: []string{"-emit-const-values"},
		pathOption: "-emit-const-values-path", flag: "-emit-const-values-path",
	},
}

var moduleTraceOutput = supplementaryOutput{
	fileType: domain.FileTypeModuleTrace, requests: []string{"-emit-loaded-module-trace"},
	pathOption: "-emit-loaded-module-trace-path", flag: "-emit-loaded-module-trace-path",
}

func (c *Context) requested(o supplementaryOutput) bool {
	switch o.fileType {
	case domain.FileTypeSwiftDocumentation:
		return true
	case domain.FileTypeSwiftSourceInfo:
		return !c.opts.HasArgument("-avoid-emit-module-source-info")
	case domain.FileTypeJSONABIBaseline:
		return c.opts.HasArgument("-enable-library-evolution")
	default:
	}
	if o.pathOption != "" && c.opts.HasArgument(o.pathOption) {
		return true
	}
	return len(o.requests) > 0 && c.opts.HasArgument(o.requests...)
}

// optimizationRecord returns the per-input optimization record output, if one
// was requested.
func (c *Context) optimizationRecord() (supplementaryOutput, bool, error) {
	o := supplementaryOutput{
		fileType:   domain.FileTypeYAMLOptimizationRecord,
		pathOption: "-save-optimization-record-path",
		flag:       "-save-optimization-record-path",
	}
	if format, ok := c.opts.LastArgument("-save-optimization-record="); ok {
		switch format.Value() {
		case "yaml":
		case "bitstream":
			o.fileType = domain.FileTypeBitstreamOptimizationRecord
		default:
			return o, false, domain.NewError(domain.ErrInvalidArgumentValue, "unknown optimization record format",
				"option", "-save-optimization-record=", "value", format.Value())
		}
		return o, true, nil
	}
	return o, c.opts.HasArgument("-save-optimization-record", "-save-optimization-record-path"), nil
}

// optimizationRecordFormat is the frontend spelling of the record format.
func optimizationRecordFormat(t domain.FileType) string {
	if t == domain.FileTypeBitstreamOptimizationRecord {
		return "bitstream"
	}
	return "yaml"
}

func (c *Context) computeSupplementaryOutputs() error {
	switch c.mode {
	case domain.CompileStandard, domain.CompileBatch, domain.CompileSingle:
	default:
		return nil
	}

	if c.module.Kind != ModuleOutputNone {
		for _, o := range moduleOutputs {
			if !c.requested(o) {
				continue
			}
			h, err := c.moduleSupplementaryPath(o)
			if err != nil {
				return err
			}
			c.supplementary[o.fileType] = h
		}
	}

	candidates := append([]supplementaryOutput(nil), inputOutputs...)
	record, ok, err := c.optimizationRecord()
	if err != nil {
		return err
	}
	if ok {
		candidates = append(candidates, record)
	}
	for _, o := range candidates {
		if !c.requested(o) {
			continue
		}
		c.perInput = append(c.perInput, o)
		if !c.wholeModuleOutputs() {
			continue
		}
		h, err := c.wholeModuleSupplementaryPath(o)
		if err != nil {
			return err
		}
		c.supplementary[o.fileType] = h
	}

	if c.requested(moduleTraceOutput) {
		h, err := c.wholeModuleSupplementaryPath(moduleTraceOutput)
		if err != nil {
			return err
		}
		c.supplementary[domain.FileTypeModuleTrace] = h
	}
	return nil
}

// wholeModuleOutputs reports whether per-input supplementary outputs collapse
// into a single file for the compilation.
func (c *Context) wholeModuleOutputs() bool {
	return c.mode.IsSingleCompilation()
}

func (c *Context) moduleSupplementaryPath(o supplementaryOutput) (domain.PathHandle, error) {
	if o.pathOption != "" {
		if h, ok, err := c.optionPath(o.pathOption); err != nil || ok {
			return h, err
		}
	}
	if h, ok := c.ofm.SingleInputOutput(c.in, o.fileType); ok {
		return h, nil
	}
	switch {
	case c.module.Kind == ModuleOutputTopLevel,
		o.fileType == domain.FileTypeSwiftDocumentation,
		o.fileType == domain.FileTypeSwiftSourceInfo,
		o.fileType == domain.FileTypeJSONABIBaseline:
		return c.in.Intern(c.in.Lookup(c.module.Path).ReplacingExtension(o.fileType)), nil
	}
	if h, ok, err := c.nextToOutput(o.fileType); err != nil || ok {
		return h, err
	}
	return c.relativePath(c.moduleName + "." + o.fileType.Extension()), nil
}

func (c *Context) wholeModuleSupplementaryPath(o supplementaryOutput) (domain.PathHandle, error) {
	if o.pathOption != "" {
		if h, ok, err := c.optionPath(o.pathOption); err != nil || ok {
			return h, err
		}
	}
	if h, ok := c.ofm.SingleInputOutput(c.in, o.fileType); ok {
		return h, nil
	}
	if h, ok, err := c.nextToOutput(o.fileType); err != nil || ok {
		return h, err
	}
	name := c.moduleName + "." + o.fileType.Extension()
	if c.linkerOutput != domain.LinkNone {
		return c.in.UniqueTemporary(name), nil
	}
	return c.relativePath(name), nil
}

// nextToOutput places t beside the -o path of a single compilation that does
// not link.
func (c *Context) nextToOutput(t domain.FileType) (domain.PathHandle, bool, error) {
	if !c.mode.IsSingleCompilation() || c.linkerOutput != domain.LinkNone || c.compilerOutput == 0 {
		return domain.NoPath, false, nil
	}
	o, ok := c.opts.LastArgument("-o")
	if !ok {
		return domain.NoPath, false, nil
	}
	out, err := c.parseOutputPath(o.Value())
	if err != nil {
		return domain.NoPath, false, err
	}
	p := c.in.Lookup(out)
	if p.IsStream() {
		return domain.NoPath, false, nil
	}
	return c.in.Intern(p.ReplacingExtension(t)), true, nil
}

// contextHash distinguishes temporary artifacts of compilations that share a
// temporary directory but differ in module or target.
func (c *Context) contextHash() string {
	h := xxhash.New()
	write := func(s string) {
		_, _ = h.WriteString(s)
		_, _ = h.Write([]byte{0})
	}
	write(c.moduleName)
	write(c.tc.Triple().String())
	if c.module.Path.IsValid() {
		write(c.in.Lookup(c.module.Path).String())
	}
	if o, ok := c.opts.LastArgument("-o"); ok {
		write(o.Value())
	}
	if c.bridgingHeader.IsValid() {
		write(c.in.Lookup(c.bridgingHeader).String())
	}
	return strconv.FormatUint(h.Sum64(), 36)
}

// singleOutput reports whether the compilation has one primary output, which
// is the only case where -o can name it.
func (c *Context) singleOutput() bool {
	if c.indexFile.IsValid() {
		return true
	}
	if c.mode.IsSingleCompilation() && (c.numThreads == 0 || !c.compilerOutput.IsAfterLLVM()) {
		return true
	}
	return len(c.swiftInputs()) == 1
}

// primaryOutput computes the output of type t for input. input is NoPath for
// the single output of a whole-module compilation.
func (c *Context) primaryOutput(input domain.PathHandle, t domain.FileType) (domain.PathHandle, error) {
	if h, ok := c.ofm.Output(c.in, input, t); ok {
		return h, nil
	}

	stem := c.moduleName
	if input.IsValid() {
		if p := c.in.Lookup(input); !p.IsStream() {
			stem = p.BasenameWithoutExt()
		}
	}
	name := stem + "." + t.Extension()

	if !c.isTopLevelOutput(t) {
		return c.in.UniqueTemporary(name), nil
	}
	if o, ok := c.opts.LastArgument("-o"); ok && c.singleOutput() {
		return c.parseOutputPath(o.Value())
	}
	if t.IsTextual() {
		return c.in.Intern(domain.StandardOutput()), nil
	}
	return c.relativePath(name), nil
}

// isTopLevelOutput reports whether t is a product the user sees rather than an
// intermediate consumed by a later job.
func (c *Context) isTopLevelOutput(t domain.FileType) bool {
	switch t {
	case domain.FileTypeAssembly, domain.FileTypeSIL, domain.FileTypeRawSIL, domain.FileTypeLLVMIR,
		domain.FileTypeAST, domain.FileTypeJSONDependencies, domain.FileTypeSIB, domain.FileTypeRawSIB,
		domain.FileTypeImportedModules, domain.FileTypeIndexData, domain.FileTypePCM:
		return true
	case domain.FileTypeObject:
		return c.linkerOutput == domain.LinkNone
	case domain.FileTypeLLVMBitcode:
		return c.compilerOutput == domain.FileTypeLLVMBitcode && c.linkerOutput == domain.LinkNone
	case domain.FileTypeSwiftModule:
		return c.mode.IsSingleCompilation() && c.module.Kind == ModuleOutputTopLevel
	default:
		return false
	}
}
