package platform

import (
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Variables touched by venv activation. These match what the activate
// scripts generated by python -m venv export.
const (
	MarkerVar        = "VIRTUAL_ENV"
	PathVar          = "PATH"
	PythonHomeVar    = "PYTHONHOME"
	oldPathVar       = "_OLD_VIRTUAL_PATH"
	oldPythonHomeVar = "_OLD_VIRTUAL_PYTHONHOME"
)

// ErrNotFound is returned when an executable is not on the search path.
var ErrNotFound = errors.New("executable file not found in PATH")

// Active reports the directory of the currently active environment, if any.
func Active(env Environ) (string, bool) {
	dir, ok := env.LookupEnv(MarkerVar)
	return dir, ok && dir != ""
}

// Venv implements Platform for python venv-style environments. The POSIX
// and Windows platforms differ only in the values configured here.
type Venv struct {
	PlatformKind Kind
	// BinName is the executables directory inside an env (bin, Scripts).
	BinName string
	// ActivateName is the activation entry point inside BinName.
	ActivateName string
	// ListSeparator separates PATH entries.
	ListSeparator string
}

func (v *Venv) Kind() Kind { return v.PlatformKind }

func (v *Venv) BinDir(envDir string) string {
	return filepath.Join(envDir, v.BinName)
}

func (v *Venv) ActivationScript(envDir string) string {
	return filepath.Join(v.BinDir(envDir), v.ActivateName)
}

// Activate mirrors the venv activate script: an inherited environment is
// deactivated first, then PATH is saved and prefixed with the env's bin
// dir, PYTHONHOME is saved and cleared, and the marker is set.
func (v *Venv) Activate(env Environ, envDir string) (*Activation, error) {
	if err := v.Deactivate(env); err != nil {
		return nil, fmt.Errorf("deactivating inherited environment: %w", err)
	}

	path, pathSet := env.LookupEnv(PathVar)
	a := &Activation{platform: v, env: env, dir: envDir, path: path, pathSet: pathSet}

	if err := env.Setenv(oldPathVar, path); err != nil {
		return nil, err
	}
	newPath := v.BinDir(envDir)
	if path != "" {
		newPath += v.ListSeparator + path
	}
	if err := env.Setenv(PathVar, newPath); err != nil {
		return nil, errors.Join(err, a.Release())
	}

	if home, ok := env.LookupEnv(PythonHomeVar); ok {
		if err := env.Setenv(oldPythonHomeVar, home); err != nil {
			return nil, errors.Join(err, a.Release())
		}
		if err := env.Unsetenv(PythonHomeVar); err != nil {
			return nil, errors.Join(err, a.Release())
		}
	}

	if err := env.Setenv(MarkerVar, envDir); err != nil {
		return nil, errors.Join(err, a.Release())
	}
	return a, nil
}

// Deactivate mirrors the venv deactivate function. Saved values are
// restored when present; otherwise the marker's bin dir is stripped from
// PATH so an environment activated by a parent shell is still cleared.
func (v *Venv) Deactivate(env Environ) error {
	dir, active := Active(env)
	if !active {
		return nil
	}
	return v.restore(env, dir)
}

// restore puts back what activation saved and removes the marker.
func (v *Venv) restore(env Environ, dir string) error {
	var errs []error
	if old, ok := env.LookupEnv(oldPathVar); ok {
		errs = append(errs, setOrUnset(env, PathVar, old, old != ""))
		errs = append(errs, env.Unsetenv(oldPathVar))
	} else if path, ok := env.LookupEnv(PathVar); ok {
		errs = append(errs, env.Setenv(PathVar, v.stripPath(path, v.BinDir(dir))))
	}

	if old, ok := env.LookupEnv(oldPythonHomeVar); ok {
		errs = append(errs, env.Setenv(PythonHomeVar, old))
		errs = append(errs, env.Unsetenv(oldPythonHomeVar))
	}

	errs = append(errs, env.Unsetenv(MarkerVar))
	return errors.Join(errs...)
}

func (v *Venv) Command(interpreter, target string, args []string, env Environ) ([]string, error) {
	if interpreter == "" {
		return append([]string{target}, args...), nil
	}
	exe, err := v.LookPath(interpreter, env)
	if err != nil {
		return nil, err
	}
	return append([]string{exe, target}, args...), nil
}

// LookPath searches env's PATH for name. Names containing a path
// separator are checked directly.
func (v *Venv) LookPath(name string, env Environ) (string, error) {
	if strings.ContainsAny(name, `/\`) {
		path, err := exec.LookPath(name)
		if err != nil {
			return "", fmt.Errorf("%s: %w", name, ErrNotFound)
		}
		return path, nil
	}
	for _, dir := range strings.Split(Getenv(env, PathVar), v.ListSeparator) {
		if dir == "" {
			continue
		}
		if path, err := exec.LookPath(filepath.Join(dir, name)); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%s: %w", name, ErrNotFound)
}

func (v *Venv) stripPath(path, dir string) string {
	var kept []string
	for _, entry := range strings.Split(path, v.ListSeparator) {
		if filepath.Clean(entry) == filepath.Clean(dir) {
			continue
		}
		kept = append(kept, entry)
	}
	return strings.Join(kept, v.ListSeparator)
}

func setOrUnset(env Environ, key, value string, set bool) error {
	if set {
		return env.Setenv(key, value)
	}
	return env.Unsetenv(key)
}
