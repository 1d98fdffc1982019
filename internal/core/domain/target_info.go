package domain

// CompatibilityLibrary is a back-deployment library the linker must force-load.
type CompatibilityLibrary struct {
	LibraryName string `json:"libraryName"`
	// Filter is "all" or "executable".
	Filter string `json:"filter"`
}

// TargetDetails describes one target or target variant in the frontend's
// target information.
type TargetDetails struct {
	Triple                           string                 `json:"triple"`
	UnversionedTriple                string                 `json:"unversionedTriple"`
	ModuleTriple                     string                 `json:"moduleTriple"`
	SwiftRuntimeCompatibilityVersion string                 `json:"swiftRuntimeCompatibilityVersion,omitempty"`
	CompatibilityLibraries           []CompatibilityLibrary `json:"compatibilityLibraries"`
	LibrariesRequireRPath            bool                   `json:"librariesRequireRPath"`
}

// TargetPaths lists the runtime locations reported by the frontend.
type TargetPaths struct {
	RuntimeLibraryPaths       []string `json:"runtimeLibraryPaths"`
	RuntimeLibraryImportPaths []string `json:"runtimeLibraryImportPaths"`
	RuntimeResourcePath       string   `json:"runtimeResourcePath"`
	SDKPath                   string   `json:"sdkPath,omitempty"`
}

// FrontendTargetInfo is the JSON document printed by -print-target-info.
type FrontendTargetInfo struct {
	CompilerVersion string         `json:"compilerVersion"`
	Target          TargetDetails  `json:"target"`
	TargetVariant   *TargetDetails `json:"targetVariant,omitempty"`
	Paths           TargetPaths    `json:"paths"`
}

// TargetTriple parses the target triple.
func (i *FrontendTargetInfo) TargetTriple() (Triple, error) {
	return ParseTriple(i.Target.Triple)
}

// VariantTriple parses the target variant triple, if any.
func (i *FrontendTargetInfo) VariantTriple() (Triple, bool, error) {
	if i.TargetVariant == nil {
		return Triple{}, false, nil
	}
	t, err := ParseTriple(i.TargetVariant.Triple)
	return t, err == nil, err
}

// RuntimeResourcePath returns the resource directory reported by the frontend.
func (i *FrontendTargetInfo) RuntimeResourcePath() string {
	return i.Paths.RuntimeResourcePath
}

// RuntimeLibraryPaths returns the directories holding the Swift runtime.
func (i *FrontendTargetInfo) RuntimeLibraryPaths() []string {
	return i.Paths.RuntimeLibraryPaths
}

// SDKPath returns the SDK the frontend resolved, if any.
func (i *FrontendTargetInfo) SDKPath() string {
	return i.Paths.SDKPath
}

// CompatibilityLibraries returns the back-deployment libraries of the target.
func (i *FrontendTargetInfo) CompatibilityLibraries() []CompatibilityLibrary {
	return i.Target.CompatibilityLibraries
}

// LibrariesRequireRPath reports whether the target needs an rpath to find the runtime.
func (i *FrontendTargetInfo) LibrariesRequireRPath() bool {
	return i.Target.LibrariesRequireRPath
}

// DarwinSDKInfo is the subset of an SDK's SDKSettings.json the driver reads.
type DarwinSDKInfo struct {
	Version       string `json:"Version"`
	CanonicalName string `json:"CanonicalName"`
}
