// Package toolchain locates the external executables a plan invokes.
package toolchain

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"

	"go.trai.ch/swiftplan/internal/core/domain"
	"go.trai.ch/swiftplan/internal/core/ports"
)

var _ ports.ToolLocator = (*Locator)(nil)

// Locator finds tools by trying, in order: a SWIFT_DRIVER_<TOOL>_EXEC
// environment override, the directory holding the driver binary, the
// configured toolchain directory, PATH, and platform fallback directories.
type Locator struct {
	Logger       ports.Logger
	Getenv       func(string) string
	LookPath     func(string) (string, error)
	DriverDir    string
	ToolchainDir string
	FallbackDirs []string

	mu    sync.Mutex
	found map[string]string
}

// NewLocator creates a Locator for the running process.
func NewLocator(logger ports.Logger, toolchainDir string) *Locator {
	var driverDir string
	if exe, err := os.Executable(); err == nil {
		driverDir = filepath.Dir(exe)
	}
	return &Locator{
		Logger:       logger,
		Getenv:       os.Getenv,
		LookPath:     exec.LookPath,
		DriverDir:    driverDir,
		ToolchainDir: toolchainDir,
		FallbackDirs: fallbackDirs(runtime.GOOS),
	}
}

// Locate returns the absolute path of executable.
func (l *Locator) Locate(executable string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if path, ok := l.found[executable]; ok {
		return path, nil
	}

	path, err := l.lookup(executable)
	if err != nil {
		return "", err
	}
	if l.found == nil {
		l.found = make(map[string]string)
	}
	l.found[executable] = path
	l.Logger.Debug(fmt.Sprintf("located %s at %s", executable, path))
	return path, nil
}

func (l *Locator) lookup(executable string) (string, error) {
	name := executableName(executable)

	if l.Getenv != nil {
		if override := l.Getenv(domain.EnvironmentName(executable)); override != "" {
			if !isExecutable(override) {
				return "", domain.NewError(domain.ErrToolNotFound, "override does not name an executable file",
					"tool", executable, "variable", domain.EnvironmentName(executable), "path", override)
			}
			return filepath.Abs(override)
		}
	}

	for _, dir := range []string{l.DriverDir, l.ToolchainDir} {
		if dir == "" {
			continue
		}
		if candidate := filepath.Join(dir, name); isExecutable(candidate) {
			return candidate, nil
		}
	}

	if l.LookPath != nil {
		if path, err := l.LookPath(name); err == nil {
			return filepath.Abs(path)
		}
	}

	for _, dir := range l.FallbackDirs {
		if candidate := filepath.Join(dir, name); isExecutable(candidate) {
			return candidate, nil
		}
	}

	return "", domain.NewError(domain.ErrToolNotFound, "unable to locate "+executable, "tool", executable)
}

func executableName(executable string) string {
	if runtime.GOOS == "windows" && filepath.Ext(executable) == "" {
		return executable + ".exe"
	}
	return executable
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}

func fallbackDirs(goos string) []string {
	switch goos {
	case "darwin":
		return []string{
			"/Applications/Xcode.app/Contents/Developer/Toolchains/XcodeDefault.xctoolchain/usr/bin",
			"/Library/Developer/CommandLineTools/usr/bin",
			"/usr/bin",
		}
	case "windows":
		return nil
	default:
		return []string{"/usr/bin", "/usr/local/bin", "/opt/swift/usr/bin"}
	}
}
