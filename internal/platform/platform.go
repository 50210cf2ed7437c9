// Package platform abstracts the per-OS parts of a launch: how a virtual
// environment is activated and deactivated, and how the target command
// line is built. Implementations register themselves by Kind; import
// platform/all to get every built-in one.
package platform

import (
	"fmt"
	"runtime"
	"sort"
)

// Kind identifies a platform implementation.
type Kind string

const (
	KindPosix   Kind = "posix"
	KindWindows Kind = "windows"
)

// Platform is the capability set a launch needs from the host OS.
type Platform interface {
	Kind() Kind

	// BinDir is the directory inside envDir holding the environment's executables.
	BinDir(envDir string) string
	// ActivationScript is the entry point a shell would source to activate envDir.
	ActivationScript(envDir string) string

	// Activate applies envDir to env and returns a handle that undoes it.
	Activate(env Environ, envDir string) (*Activation, error)
	// Deactivate clears an active environment from env.
	// It is a no-op when no marker is present.
	Deactivate(env Environ) error

	// Command builds the argv for running target through interpreter, resolving
	// the interpreter against env's search path. An empty interpreter runs
	// target directly.
	Command(interpreter, target string, args []string, env Environ) ([]string, error)
}

type opener func() Platform

var openers = map[Kind]opener{}

// Register makes a platform implementation available to Open.
// Implementations should call this from init().
func Register(kind Kind, o opener) {
	if kind == "" {
		panic("platform: register with empty kind")
	}
	if o == nil {
		panic("platform: register with nil opener")
	}
	if _, exists := openers[kind]; exists {
		panic("platform: duplicate register for kind " + string(kind))
	}
	openers[kind] = o
}

// Open returns the platform registered under kind.
func Open(kind Kind) (Platform, error) {
	if kind == "" {
		kind = DetectKind()
	}
	o, ok := openers[kind]
	if !ok {
		return nil, fmt.Errorf("unknown platform %q (registered: %v)", kind, Kinds())
	}
	return o(), nil
}

// Kinds lists the registered platform kinds in sorted order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(openers))
	for k := range openers {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// DetectKind returns the platform matching the running OS.
func DetectKind() Kind {
	if runtime.GOOS == "windows" {
		return KindWindows
	}
	return KindPosix
}

// Default opens the platform for the running OS.
func Default() (Platform, error) {
	return Open(DetectKind())
}
