// Package shell provides an os/exec based executor for running jobs.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.trai.ch/swiftplan/internal/core/domain"
	"go.trai.ch/swiftplan/internal/core/ports"
	"go.trai.ch/zerr"
)

// Executor implements ports.Executor using os/exec.
type Executor struct {
	logger ports.Logger
}

// NewExecutor creates a new Executor. Standard error of every job is also
// logged at debug level.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{
		logger: logger,
	}
}

func (e *Executor) command(ctx context.Context, inv *domain.Invocation) *exec.Cmd {
	cmd := exec.CommandContext(ctx, inv.Executable, inv.Args...) //nolint:gosec // planned tool invocation
	cmd.Dir = inv.Dir
	cmd.Env = resolveEnvironment(os.Environ(), inv.Env)
	return cmd
}

// Execute runs the invocation and waits for it to complete.
func (e *Executor) Execute(ctx context.Context, inv *domain.Invocation, stdout, stderr io.Writer) error {
	if inv.Executable == "" {
		return nil
	}

	stderrLog := &logWriter{logger: e.logger}
	defer func() { _ = stderrLog.Close() }()

	cmd := e.command(ctx, inv)
	cmd.Stdout = stdout
	cmd.Stderr = io.MultiWriter(stderrLog, stderr)

	if err := cmd.Start(); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to start command"), "executable", inv.Executable)
	}

	markExecStart(stdout, stderr)

	if err := cmd.Wait(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return domain.NewError(domain.ErrJobFailed,
			fmt.Sprintf("%s exited with status %d", filepath.Base(inv.Executable), exitCode),
			"exit_code", exitCode)
	}

	return nil
}

// Replace executes the invocation in place of the current process.
func (e *Executor) Replace(inv *domain.Invocation) error {
	if inv.Dir != "" {
		if err := os.Chdir(inv.Dir); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to change directory"), "dir", inv.Dir)
		}
	}
	env := resolveEnvironment(os.Environ(), inv.Env)
	if err := replaceProcess(inv.Executable, append([]string{inv.Executable}, inv.Args...), env); err != nil {
		return domain.NewError(domain.ErrJobFailed, "failed to replace process: "+err.Error(), "executable", inv.Executable)
	}
	return nil
}

type logWriter struct {
	logger ports.Logger
	buf    []byte
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	w.buf = append(w.buf, p...)

	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}

		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}

	return len(p), nil
}

func (w *logWriter) Close() error {
	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	w.logger.Debug(strings.TrimSuffix(string(line), "\r"))
}

// resolveEnvironment overlays the job environment on the inherited one.
// Later entries win; the result is sorted by key.
func resolveEnvironment(sysEnv, jobEnv []string) []string {
	envMap := make(map[string]string, len(sysEnv)+len(jobEnv))
	for _, list := range [][]string{sysEnv, jobEnv} {
		for _, entry := range list {
			if k, v, ok := strings.Cut(entry, "="); ok && k != "" {
				envMap[k] = v
			}
		}
	}

	result := make([]string, 0, len(envMap))
	for _, k := range domain.SortedEnvironment(envMap) {
		result = append(result, k+"="+envMap[k])
	}
	return result
}

// markExecStart notifies the first writer that tracks process start.
func markExecStart(writers ...io.Writer) {
	for _, w := range writers {
		if span, ok := w.(interface{ MarkExecStart() }); ok {
			span.MarkExecStart()
			return
		}
	}
}
