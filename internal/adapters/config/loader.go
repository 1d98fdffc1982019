// Package config provides the configuration loader for swiftplan.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.trai.ch/swiftplan/internal/core/domain"
	"go.trai.ch/swiftplan/internal/core/ports"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader and ports.PlanInputLoader using YAML
// documents. JSON documents are read through the same decoder.
type Loader struct {
	Logger ports.Logger
	FS     ports.FileSystem
}

// NewLoader creates a Loader reading through fsys.
func NewLoader(logger ports.Logger, fsys ports.FileSystem) *Loader {
	return &Loader{Logger: logger, FS: fsys}
}

// Load finds swiftplan.yaml from cwd upwards and decodes it.
func (l *Loader) Load(cwd string) (*domain.DriverConfig, error) {
	configPath, found := l.findConfiguration(cwd)
	if !found {
		l.Logger.Debug(fmt.Sprintf("no %s found above %s, using defaults", domain.ConfigFileName, cwd))
		return &domain.DriverConfig{Root: filepath.Clean(cwd)}, nil
	}

	var file Configfile
	if err := l.readAndUnmarshalYAML(configPath, &file); err != nil {
		return nil, err
	}
	return l.buildConfig(configPath, &file)
}

// DiscoverRoot walks up from cwd to the directory holding swiftplan.yaml.
// Without one, cwd itself is the root.
func (l *Loader) DiscoverRoot(cwd string) (string, error) {
	configPath, found := l.findConfiguration(cwd)
	if !found {
		return filepath.Clean(cwd), nil
	}
	return filepath.Dir(configPath), nil
}

func (l *Loader) findConfiguration(cwd string) (string, bool) {
	currentDir := filepath.Clean(cwd)

	for {
		configPath := filepath.Join(currentDir, domain.ConfigFileName)
		if l.FS.Exists(configPath) && !l.FS.IsDir(configPath) {
			return configPath, true
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			return "", false
		}
		currentDir = parentDir
	}
}

func (l *Loader) buildConfig(configPath string, file *Configfile) (*domain.DriverConfig, error) {
	root := filepath.Dir(configPath)

	if file.Parallelism < 0 {
		return nil, domain.NewError(domain.ErrConfigParseFailed, "parallelism must not be negative", "field", "parallelism", "value", file.Parallelism)
	}
	policy, ok := domain.ParseResponseFilePolicy(file.ResponseFiles)
	if !ok {
		return nil, domain.NewError(domain.ErrConfigParseFailed, "responseFiles must be heuristic, always or never", "field", "responseFiles", "value", file.ResponseFiles)
	}
	for key := range file.Environment {
		if key == "" || strings.Contains(key, "=") {
			return nil, domain.NewError(domain.ErrConfigParseFailed, "invalid environment variable name", "field", "environment", "key", key)
		}
	}

	return &domain.DriverConfig{
		Root:               root,
		ToolchainDir:       resolvePath(root, file.Toolchain),
		TemporaryDirectory: resolvePath(root, file.TemporaryDirectory),
		Parallelism:        file.Parallelism,
		CacheDirectory:     resolvePath(root, file.CacheDirectory),
		StaticTargetInfo:   file.StaticTargetInfo,
		Environment:        file.Environment,
		ResponseFiles:      policy,
	}, nil
}

// resolvePath makes a configured path absolute against root. Empty stays empty.
func resolvePath(root, configured string) string {
	if configured == "" {
		return ""
	}
	if filepath.IsAbs(configured) {
		return filepath.Clean(configured)
	}
	return filepath.Clean(filepath.Join(root, configured))
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func (l *Loader) readAndUnmarshalYAML(path string, target any) error {
	data, err := l.FS.ReadFile(path)
	if err != nil {
		return domain.NewError(domain.ErrConfigReadFailed, err.Error(), "file", path)
	}

	if parseErr := yaml.Unmarshal(data, target); parseErr != nil {
		return domain.NewError(domain.ErrConfigParseFailed, parseErr.Error(), "file", path)
	}

	return nil
}
