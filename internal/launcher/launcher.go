// Package launcher runs a target program inside an optional virtual
// environment and reports the program's exit status as its own.
//
// A launch is strictly sequential:
//
//	Idle → Activated? → Running → Captured → Deactivated? → Exited
//
// Activation happens only when the environment directory exists;
// deactivation only when an environment marker is present afterwards.
// Neither step can change the captured status.
package launcher

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/mbrock/venvrun/internal/dirs"
	"github.com/mbrock/venvrun/internal/executor"
	"github.com/mbrock/venvrun/internal/platform"
)

// StatusLaunchFailed is returned when the target could not be started at
// all. It matches the shell's "command not found" status.
const StatusLaunchFailed = 127

var (
	ErrTargetNotFound      = errors.New("target not found")
	ErrInterpreterNotFound = errors.New("interpreter not found")
	ErrStartFailed         = errors.New("target failed to start")
)

// State is a step of the launch protocol.
type State int

const (
	StateIdle State = iota
	StateActivated
	StateRunning
	StateCaptured
	StateDeactivated
	StateExited
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActivated:
		return "activated"
	case StateRunning:
		return "running"
	case StateCaptured:
		return "captured"
	case StateDeactivated:
		return "deactivated"
	case StateExited:
		return "exited"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Result describes a finished launch.
type Result struct {
	// Status is the target's exit status, or StatusLaunchFailed.
	Status int
	// Args are the arguments the target was given.
	Args        []string
	Activated   bool
	Deactivated bool
	// Err explains a launch failure. It is nil whenever the target ran,
	// whatever its exit status.
	Err error
	// Trace lists the states the launch passed through.
	Trace []State
}

func (r *Result) enter(s State) {
	r.Trace = append(r.Trace, s)
}

// Launcher runs one target program per Run call.
type Launcher struct {
	cfg      Config
	platform platform.Platform
	env      platform.Environ
	exec     executor.Executor
	log      *slog.Logger
}

// New constructs a Launcher. env is the environment activation mutates and
// the target inherits; pass platform.ProcessEnv{} for the real process.
func New(cfg Config, p platform.Platform, env platform.Environ, ex executor.Executor) *Launcher {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Launcher{
		cfg:      cfg,
		platform: p,
		env:      env,
		exec:     ex,
		log:      log.With("variant", string(cfg.Variant)),
	}
}

// EnvDir is the absolute environment directory.
func (l *Launcher) EnvDir() string {
	return dirs.Resolve(l.cfg.BaseDir, l.cfg.EnvDir)
}

// Target is the absolute target entry point.
func (l *Launcher) Target() string {
	return dirs.Resolve(l.cfg.BaseDir, l.cfg.Target)
}

// Arguments returns what the target receives for the launcher's args.
func (l *Launcher) Arguments(args []string) []string {
	if l.cfg.Variant == VariantScheduled {
		return []string{l.cfg.ScheduledFlag}
	}
	return slices.Clone(args)
}

// Run performs one launch and returns once the target has exited and the
// environment has been torn down. Deactivation runs on every path out of
// Run, after the status has been captured.
func (l *Launcher) Run(args []string) (res Result) {
	res.enter(StateIdle)

	activation := l.activate(&res)
	defer l.finish(activation, &res)

	res.Args = l.Arguments(args)
	if l.cfg.Variant == VariantScheduled && len(args) > 0 {
		l.log.Debug("ignoring launcher arguments in scheduled mode", "ignored", args)
	}

	res.Status, res.Err = l.invoke(res.Args, &res)
	res.enter(StateCaptured)
	return res
}

func (l *Launcher) activate(res *Result) *platform.Activation {
	envDir := l.EnvDir()
	if envDir == "" {
		return nil
	}
	info, err := os.Stat(envDir)
	if err != nil || !info.IsDir() {
		l.log.Debug("environment not present, running without activation", "env_dir", envDir)
		return nil
	}

	activation, err := l.platform.Activate(l.env, envDir)
	if err != nil {
		l.log.Warn("environment activation failed, running without it", "env_dir", envDir, "error", err)
		return nil
	}
	res.Activated = true
	res.enter(StateActivated)
	l.log.Debug("environment activated", "env_dir", activation.Dir())
	return activation
}

func (l *Launcher) invoke(args []string, res *Result) (int, error) {
	target := l.Target()
	if _, err := os.Stat(target); err != nil {
		err = fmt.Errorf("%w: %s", ErrTargetNotFound, target)
		l.log.Error("launch failed", "error", err)
		return StatusLaunchFailed, err
	}

	argv, err := l.platform.Command(l.interpreter(), target, args, l.env)
	if err != nil {
		if errors.Is(err, platform.ErrNotFound) {
			err = fmt.Errorf("%w: %w", ErrInterpreterNotFound, err)
		}
		l.log.Error("launch failed", "error", err)
		return StatusLaunchFailed, err
	}

	proc, err := l.exec.Start(executor.Command{
		Args:   argv,
		Dir:    l.cfg.BaseDir,
		Env:    l.env.Environ(),
		Stdin:  l.cfg.Stdin,
		Stdout: l.cfg.Stdout,
		Stderr: l.cfg.Stderr,
	})
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrStartFailed, err)
		l.log.Error("launch failed", "command", argv[0], "error", err)
		return StatusLaunchFailed, err
	}
	res.enter(StateRunning)
	l.log.Debug("target started", "command", strings.Join(argv, " "))

	code, err := proc.Wait()
	if err != nil {
		l.log.Warn("waiting for target", "error", err)
	}
	l.log.Debug("target exited", "exit_code", code)
	return code, nil
}

// interpreter resolves a relative interpreter path against the base dir;
// bare names are left for the platform's PATH search.
func (l *Launcher) interpreter() string {
	in := l.cfg.Interpreter
	if strings.ContainsAny(in, `/\`) {
		return dirs.Resolve(l.cfg.BaseDir, in)
	}
	return in
}

func (l *Launcher) finish(activation *platform.Activation, res *Result) {
	var err error
	switch {
	case activation != nil:
		err = activation.Release()
		res.Deactivated = true
	default:
		if dir, active := platform.Active(l.env); active {
			err = l.platform.Deactivate(l.env)
			res.Deactivated = true
			l.log.Debug("deactivated inherited environment", "env_dir", dir)
		}
	}
	if err != nil {
		l.log.Warn("environment deactivation failed", "error", err)
	}
	if res.Deactivated {
		res.enter(StateDeactivated)
	}
	res.enter(StateExited)
}
