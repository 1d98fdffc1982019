package toolchain

import (
	"path/filepath"

	"go.trai.ch/swiftplan/internal/core/domain"
)

// staticTargetInfo is the target information the driver can derive on its own
// from the triple and the resource directory.
func staticTargetInfo(t domain.Triple, resourceDir, sdkPath string) *domain.FrontendTargetInfo {
	unversioned := t.WithVersion("").String()
	platformDir := filepath.Join(resourceDir, t.PlatformName(false))
	return &domain.FrontendTargetInfo{
		Target: domain.TargetDetails{
			Triple:            t.String(),
			UnversionedTriple: unversioned,
			ModuleTriple:      unversioned,
		},
		Paths: domain.TargetPaths{
			RuntimeLibraryPaths:       []string{platformDir},
			RuntimeLibraryImportPaths: []string{platformDir},
			RuntimeResourcePath:       resourceDir,
			SDKPath:                   sdkPath,
		},
	}
}
