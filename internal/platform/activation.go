package platform

import "errors"

// Activation is a scoped handle on an activated environment. Release
// undoes the activation; it is safe to call more than once.
type Activation struct {
	platform *Venv
	env      Environ
	dir      string
	released bool

	// PATH as it was before activation. An empty PATH and an unset one
	// are restored differently.
	path    string
	pathSet bool
}

// Dir is the environment directory that was activated.
func (a *Activation) Dir() string { return a.dir }

// Release restores the environ to its state before activation.
func (a *Activation) Release() error {
	if a == nil || a.released {
		return nil
	}
	a.released = true
	err := a.platform.restore(a.env, a.dir)
	return errors.Join(err, setOrUnset(a.env, PathVar, a.path, a.pathSet))
}
