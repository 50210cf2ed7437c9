//go:build unix

package executor

import (
	"log/slog"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// exitCode maps a finished child to the status a POSIX shell would report:
// the exit code for a normal exit, 128+N when killed by signal N.
func exitCode(exitErr *exec.ExitError) int {
	status, ok := exitErr.Sys().(syscall.WaitStatus)
	if !ok {
		return exitErr.ExitCode()
	}
	if status.Signaled() {
		sig := status.Signal()
		slog.Debug("target terminated by signal", "signal", unix.SignalName(sig), "number", int(sig))
		return 128 + int(sig)
	}
	return status.ExitStatus()
}
