//go:build windows

package executor

import "os/exec"

// configureProcGroup is a no-op on Windows: there is no process group to
// signal, so cancellation keeps the default Kill of the direct child and
// relies on WaitDelay to force the pipes closed.
func configureProcGroup(cmd *exec.Cmd) {}
