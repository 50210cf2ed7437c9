package platform

import (
	"os"
	"sort"
	"strings"
	"sync"
)

// Environ is a mutable set of environment variables.
type Environ interface {
	LookupEnv(key string) (string, bool)
	Setenv(key, value string) error
	Unsetenv(key string) error
	// Environ returns the variables in KEY=VALUE form.
	Environ() []string
}

// Getenv returns the value of key, or "" when unset.
func Getenv(env Environ, key string) string {
	v, _ := env.LookupEnv(key)
	return v
}

// ProcessEnv is the launcher's own process environment. Changes are
// process-wide and last until the process exits.
type ProcessEnv struct{}

var _ Environ = ProcessEnv{}

func (ProcessEnv) LookupEnv(key string) (string, bool) { return os.LookupEnv(key) }
func (ProcessEnv) Setenv(key, value string) error      { return os.Setenv(key, value) }
func (ProcessEnv) Unsetenv(key string) error           { return os.Unsetenv(key) }
func (ProcessEnv) Environ() []string                   { return os.Environ() }

// MapEnv is an isolated in-memory Environ, used by tests and dry runs.
type MapEnv struct {
	mu   sync.Mutex
	vars map[string]string
}

var _ Environ = (*MapEnv)(nil)

// NewMapEnv builds a MapEnv from KEY=VALUE pairs. Later duplicates win.
func NewMapEnv(pairs ...string) *MapEnv {
	m := &MapEnv{vars: make(map[string]string, len(pairs))}
	for _, kv := range pairs {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		m.vars[k] = v
	}
	return m
}

// SnapshotEnv copies env into a new MapEnv.
func SnapshotEnv(env Environ) *MapEnv {
	return NewMapEnv(env.Environ()...)
}

func (m *MapEnv) LookupEnv(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vars[key]
	return v, ok
}

func (m *MapEnv) Setenv(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vars[key] = value
	return nil
}

func (m *MapEnv) Unsetenv(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.vars, key)
	return nil
}

func (m *MapEnv) Environ() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.vars))
	for k, v := range m.vars {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}
