//go:build !unix

package shell

import (
	"errors"
	"os"
	"os/exec"
)

// replaceProcess runs the program to completion and exits with its status,
// since the platform cannot replace a running process image.
func replaceProcess(executable string, argv, env []string) error {
	cmd := exec.Command(executable, argv[1:]...) //nolint:gosec // planned tool invocation
	cmd.Env = env
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		return err
	}
	os.Exit(0)
	return nil
}
