//go:build !windows

package executor

import (
	"os/exec"
	"syscall"
)

// configureProcGroup places the child in its own process group and makes
// context cancellation kill the whole group. Shells and interpreters
// spawn their own children; killing only the direct child would leave
// grandchildren alive holding the output pipes open.
func configureProcGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
