//go:build unix

package shell

import "syscall"

func replaceProcess(executable string, argv, env []string) error {
	return syscall.Exec(executable, argv, env)
}
