package executor

import (
	"fmt"
	"io"
	"slices"
	"sync"
)

// FakeCommand is a function that simulates a command execution.
// It receives the command arguments, stdin, stdout, stderr and should return an exit code.
type FakeCommand func(stdin io.Reader, stdout, stderr io.Writer, args []string) int

// FakeExecutor is a test implementation of Executor that runs registered fake commands.
type FakeExecutor struct {
	mu       sync.RWMutex
	commands map[string]FakeCommand
	calls    []Command
}

// NewFakeExecutor creates a new FakeExecutor.
func NewFakeExecutor() *FakeExecutor {
	return &FakeExecutor{
		commands: make(map[string]FakeCommand),
	}
}

// RegisterCommand registers a fake command implementation.
// The name should match the first element of the command slice.
func (e *FakeExecutor) RegisterCommand(name string, handler FakeCommand) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.commands[name] = handler
}

// Calls returns every command passed to Start, including ones that failed to start.
func (e *FakeExecutor) Calls() []Command {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.calls)
}

// fakeProcess implements Process for FakeExecutor.
type fakeProcess struct {
	done     chan struct{}
	exitCode int
	mu       sync.Mutex
}

func (p *fakeProcess) Wait() (int, error) {
	<-p.done
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exitCode, nil
}

// Start implements Executor.Start for FakeExecutor.
func (e *FakeExecutor) Start(c Command) (Process, error) {
	e.mu.Lock()
	c.Args = slices.Clone(c.Args)
	c.Env = slices.Clone(c.Env)
	e.calls = append(e.calls, c)
	e.mu.Unlock()

	if len(c.Args) == 0 {
		return nil, fmt.Errorf("empty command")
	}

	e.mu.RLock()
	handler, ok := e.commands[c.Args[0]]
	e.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("executable %q not found", c.Args[0])
	}

	stdin, stdout, stderr := c.Stdin, c.Stdout, c.Stderr
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	done := make(chan struct{})
	proc := &fakeProcess{done: done}

	go func() {
		exitCode := handler(stdin, stdout, stderr, c.Args)
		proc.mu.Lock()
		proc.exitCode = exitCode
		proc.mu.Unlock()
		close(done)
	}()

	return proc, nil
}
