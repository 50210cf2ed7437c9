// Package executor provides an abstraction for starting processes.
package executor

import (
	"errors"
	"io"
	"os/exec"
)

// Command describes a process to start.
type Command struct {
	// Args is the full argv; Args[0] is the executable path.
	Args []string
	// Dir is the working directory. Empty means the caller's.
	Dir string
	// Env is the complete environment in KEY=VALUE form.
	// Nil means the child inherits the launcher's environment.
	Env []string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Process represents a running process.
type Process interface {
	// Wait blocks until the process exits and returns the exit code.
	// Returns 0 for success, non-zero for failure.
	Wait() (exitCode int, err error)
}

// Executor starts processes.
type Executor interface {
	// Start starts a command with the given I/O configuration.
	Start(cmd Command) (Process, error)
}

// ExecExecutor is the default Executor that uses os/exec.
type ExecExecutor struct{}

// execProcess wraps exec.Cmd to implement Process.
type execProcess struct {
	cmd *exec.Cmd
}

func (p *execProcess) Wait() (int, error) {
	err := p.cmd.Wait()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitCode(exitErr), nil
		}
		return 1, err
	}
	return 0, nil
}

// Start implements Executor.Start using os/exec.
func (e *ExecExecutor) Start(c Command) (Process, error) {
	if len(c.Args) == 0 {
		return nil, errors.New("empty command")
	}
	cmd := exec.Command(c.Args[0], c.Args[1:]...)
	cmd.Dir = c.Dir
	cmd.Env = c.Env
	cmd.Stdin = c.Stdin
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	return &execProcess{cmd: cmd}, nil
}

// Default returns the default ExecExecutor.
func Default() Executor {
	return &ExecExecutor{}
}
