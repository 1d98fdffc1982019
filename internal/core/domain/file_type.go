package domain

import "strings"

// FileType is the closed set of file kinds the driver knows how to produce or consume.
type FileType uint8

//nolint:revive // names mirror the on-disk kinds
const (
	FileTypeSwift FileType = iota + 1
	FileTypeSIL
	FileTypeRawSIL
	FileTypeSIB
	FileTypeRawSIB
	FileTypeImage
	FileTypeObject
	FileTypeDSYM
	FileTypeDependencies
	FileTypeAutolink
	FileTypeSwiftModule
	FileTypeSwiftDocumentation
	FileTypeSwiftInterface
	FileTypePrivateSwiftInterface
	FileTypePackageSwiftInterface
	FileTypeSwiftSourceInfo
	FileTypeAssembly
	FileTypeAST
	FileTypePCM
	FileTypePCH
	FileTypeLLVMIR
	FileTypeLLVMBitcode
	FileTypeDiagnostics
	FileTypeEmitModuleDiagnostics
	FileTypeEmitModuleDependencies
	FileTypeObjCHeader
	FileTypeSwiftDeps
	FileTypeModDepCache
	FileTypeRemap
	FileTypeImportedModules
	FileTypeTBD
	FileTypeModuleTrace
	FileTypeIndexData
	FileTypeYAMLOptimizationRecord
	FileTypeBitstreamOptimizationRecord
	FileTypeClangModuleMap
	FileTypeJSONDependencies
	FileTypeJSONTargetInfo
	FileTypeJSONCompilerFeatures
	FileTypeJSONSwiftArtifacts
	FileTypeJSONAPIBaseline
	FileTypeJSONABIBaseline
	FileTypeJSONAPIDescriptor
	FileTypeSwiftConstValues
	FileTypeModuleSummary
	FileTypeIndexUnitOutputPath

	fileTypeEnd
)

type fileTypeInfo struct {
	name      string
	extension string
}

var fileTypes = [...]fileTypeInfo{
	FileTypeSwift:                       {"swift", "swift"},
	FileTypeSIL:                         {"sil", "sil"},
	FileTypeRawSIL:                      {"raw-sil", "sil"},
	FileTypeSIB:                         {"sib", "sib"},
	FileTypeRawSIB:                      {"raw-sib", "sib"},
	FileTypeImage:                       {"image", "out"},
	FileTypeObject:                      {"object", "o"},
	FileTypeDSYM:                        {"dSYM", "dSYM"},
	FileTypeDependencies:                {"dependencies", "d"},
	FileTypeAutolink:                    {"autolink", "autolink"},
	FileTypeSwiftModule:                 {"swiftmodule", "swiftmodule"},
	FileTypeSwiftDocumentation:          {"swiftdoc", "swiftdoc"},
	FileTypeSwiftInterface:              {"swiftinterface", "swiftinterface"},
	FileTypePrivateSwiftInterface:       {"private-swiftinterface", "private.swiftinterface"},
	FileTypePackageSwiftInterface:       {"package-swiftinterface", "package.swiftinterface"},
	FileTypeSwiftSourceInfo:             {"swiftsourceinfo", "swiftsourceinfo"},
	FileTypeAssembly:                    {"assembly", "s"},
	FileTypeAST:                         {"ast-dump", "ast"},
	FileTypePCM:                         {"pcm", "pcm"},
	FileTypePCH:                         {"pch", "pch"},
	FileTypeLLVMIR:                      {"llvm-ir", "ll"},
	FileTypeLLVMBitcode:                 {"llvm-bc", "bc"},
	FileTypeDiagnostics:                 {"diagnostics", "dia"},
	FileTypeEmitModuleDiagnostics:       {"emit-module-diagnostics", "emit-module.dia"},
	FileTypeEmitModuleDependencies:      {"emit-module-dependencies", "emit-module.d"},
	FileTypeObjCHeader:                  {"objc-header", "h"},
	FileTypeSwiftDeps:                   {"swift-dependencies", "swiftdeps"},
	FileTypeModDepCache:                 {"dependency-scanner-cache", "moddepcache"},
	FileTypeRemap:                       {"remap", "remap"},
	FileTypeImportedModules:             {"imported-modules", "importedmodules"},
	FileTypeTBD:                         {"tbd", "tbd"},
	FileTypeModuleTrace:                 {"module-trace", "trace.json"},
	FileTypeIndexData:                   {"index-data", "indexdata"},
	FileTypeYAMLOptimizationRecord:      {"yaml-opt-record", "opt.yaml"},
	FileTypeBitstreamOptimizationRecord: {"bitstream-opt-record", "opt.bitstream"},
	FileTypeClangModuleMap:              {"clang-module-map", "modulemap"},
	FileTypeJSONDependencies:            {"json-dependencies", "dependencies.json"},
	FileTypeJSONTargetInfo:              {"json-target-info", "targetInfo.json"},
	FileTypeJSONCompilerFeatures:        {"json-supported-features", "features.json"},
	FileTypeJSONSwiftArtifacts:          {"json-module-artifacts", "artifacts.json"},
	FileTypeJSONAPIBaseline:             {"api-baseline-json", "api.json"},
	FileTypeJSONABIBaseline:             {"abi-baseline-json", "abi.json"},
	FileTypeJSONAPIDescriptor:           {"api-descriptor-json", "apidescriptor.json"},
	FileTypeSwiftConstValues:            {"const-values", "swiftconstvalues"},
	FileTypeModuleSummary:               {"swiftmodulesummary", "swiftmodulesummary"},
	FileTypeIndexUnitOutputPath:         {"index-unit-output-path", "o"},
}

// inputExtensions maps extensions of files accepted on the command line.
// Anything else is handed to the linker as an object.
var inputExtensions = map[string]FileType{
	"swift":           FileTypeSwift,
	"sil":             FileTypeSIL,
	"sib":             FileTypeSIB,
	"o":               FileTypeObject,
	"obj":             FileTypeObject,
	"swiftmodule":     FileTypeSwiftModule,
	"swiftdoc":        FileTypeSwiftDocumentation,
	"swiftinterface":  FileTypeSwiftInterface,
	"swiftsourceinfo": FileTypeSwiftSourceInfo,
	"autolink":        FileTypeAutolink,
	"bc":              FileTypeLLVMBitcode,
	"ll":              FileTypeLLVMIR,
	"s":               FileTypeAssembly,
	"h":               FileTypeObjCHeader,
	"pcm":             FileTypePCM,
	"pch":             FileTypePCH,
	"modulemap":       FileTypeClangModuleMap,
	"tbd":             FileTypeTBD,
	"dia":             FileTypeDiagnostics,
	"d":               FileTypeDependencies,
	"swiftdeps":       FileTypeSwiftDeps,
	"remap":           FileTypeRemap,
}

// AllFileTypes returns every file type in declaration order.
func AllFileTypes() []FileType {
	out := make([]FileType, 0, int(fileTypeEnd)-1)
	for t := FileTypeSwift; t < fileTypeEnd; t++ {
		out = append(out, t)
	}
	return out
}

// IsValid reports whether t is a known file type.
func (t FileType) IsValid() bool {
	return t >= FileTypeSwift && t < fileTypeEnd
}

// Name is the identifier used for t in output file maps and serialized plans.
func (t FileType) Name() string {
	if !t.IsValid() {
		return "invalid"
	}
	return fileTypes[t].name
}

// String implements fmt.Stringer.
func (t FileType) String() string {
	return t.Name()
}

// Extension is the file extension (without the leading dot) used for t.
func (t FileType) Extension() string {
	if !t.IsValid() {
		return ""
	}
	return fileTypes[t].extension
}

// FileTypeForName resolves an output file map key.
func FileTypeForName(name string) (FileType, bool) {
	for t := FileTypeSwift; t < fileTypeEnd; t++ {
		if fileTypes[t].name == name {
			return t, true
		}
	}
	return 0, false
}

// FileTypeForPath classifies a command-line input by its extension. Unknown
// extensions are treated as objects.
func FileTypeForPath(p VirtualPath) FileType {
	if p.Kind == PathStandardInput {
		return FileTypeSwift
	}
	base := p.Basename()
	for _, compound := range []FileType{
		FileTypePrivateSwiftInterface,
		FileTypePackageSwiftInterface,
		FileTypeEmitModuleDiagnostics,
		FileTypeEmitModuleDependencies,
	} {
		if strings.HasSuffix(base, "."+compound.Extension()) {
			return compound
		}
	}
	if t, ok := inputExtensions[p.Extension()]; ok {
		return t
	}
	return FileTypeObject
}

// IsPartOfSwiftCompilation reports whether files of type t are compiled by the frontend.
func (t FileType) IsPartOfSwiftCompilation() bool {
	switch t {
	case FileTypeSwift, FileTypeSIL, FileTypeRawSIL, FileTypeSIB, FileTypeRawSIB:
		return true
	default:
		return false
	}
}

// IsTextual reports whether t is human-readable text, which decides whether a
// top-level output may go to standard output.
func (t FileType) IsTextual() bool {
	switch t {
	case FileTypeSwift, FileTypeSIL, FileTypeRawSIL, FileTypeDependencies,
		FileTypeAssembly, FileTypeAST, FileTypeJSONDependencies, FileTypeLLVMIR,
		FileTypeObjCHeader, FileTypeAutolink, FileTypeImportedModules, FileTypeTBD,
		FileTypeModuleTrace, FileTypeYAMLOptimizationRecord, FileTypeSwiftInterface,
		FileTypePrivateSwiftInterface, FileTypePackageSwiftInterface,
		FileTypeJSONSwiftArtifacts, FileTypeJSONTargetInfo, FileTypeJSONCompilerFeatures,
		FileTypeJSONAPIBaseline, FileTypeJSONABIBaseline, FileTypeJSONAPIDescriptor,
		FileTypeSwiftConstValues, FileTypeClangModuleMap, FileTypeRemap,
		FileTypeEmitModuleDependencies:
		return true
	default:
		return false
	}
}

// IsAfterLLVM reports whether producing t requires running LLVM code generation.
func (t FileType) IsAfterLLVM() bool {
	switch t {
	case FileTypeAssembly, FileTypeLLVMIR, FileTypeLLVMBitcode, FileTypeObject:
		return true
	default:
		return false
	}
}

// IsPrimaryOutput reports whether t can be the main output of a compile job.
func (t FileType) IsPrimaryOutput() bool {
	switch t {
	case FileTypeObject, FileTypePCH, FileTypeAST, FileTypeSIL, FileTypeRawSIL,
		FileTypeSIB, FileTypeRawSIB, FileTypeLLVMIR, FileTypeLLVMBitcode,
		FileTypeAssembly, FileTypeSwiftModule, FileTypeImportedModules,
		FileTypeIndexData, FileTypeJSONDependencies, FileTypePCM, FileTypeRemap:
		return true
	default:
		return false
	}
}

// IsLinkable reports whether files of type t are accepted by the linker.
func (t FileType) IsLinkable() bool {
	switch t {
	case FileTypeObject, FileTypeLLVMBitcode, FileTypeAutolink, FileTypeSwiftModule, FileTypeTBD:
		return true
	default:
		return false
	}
}
