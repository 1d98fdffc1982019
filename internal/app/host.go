package app

import (
	"runtime"
	"strings"

	"go.trai.ch/swiftplan/internal/core/domain"
)

// hostTriple returns the default target of the machine swiftplan runs on.
func hostTriple() (domain.Triple, error) {
	return domain.ParseTriple(hostTripleString(runtime.GOOS, runtime.GOARCH))
}

func hostTripleString(goos, goarch string) string {
	arch := map[string]string{
		"amd64":   "x86_64",
		"arm64":   "aarch64",
		"386":     "i686",
		"arm":     "armv7",
		"riscv64": "riscv64",
		"s390x":   "s390x",
		"ppc64le": "powerpc64le",
		"wasm":    "wasm32",
	}[goarch]
	if arch == "" {
		arch = goarch
	}

	switch goos {
	case "darwin":
		if goarch == "arm64" {
			arch = "arm64"
		}
		return arch + "-apple-macosx13.0"
	case "windows":
		return arch + "-unknown-windows-msvc"
	case "android":
		return arch + "-unknown-linux-android"
	case "wasip1":
		return arch + "-unknown-wasi"
	default:
		return arch + "-unknown-" + strings.ToLower(goos) + "-gnu"
	}
}

// driverKind maps a --driver-mode= value to the driver personality.
func driverKind(mode string) (domain.DriverKind, error) {
	switch mode {
	case "swift":
		return domain.DriverInteractive, nil
	case "swiftc", "":
		return domain.DriverBatch, nil
	default:
		return 0, domain.NewError(domain.ErrInvalidArgumentValue, "unknown driver mode", "option", "--driver-mode=", "value", mode)
	}
}

// splitDriverMode removes a leading --driver-mode= argument.
func splitDriverMode(args []string) (string, []string) {
	if len(args) > 0 {
		if mode, ok := strings.CutPrefix(args[0], "--driver-mode="); ok {
			return mode, args[1:]
		}
	}
	return "", args
}
