// Package dirs provides standard directory resolution for venvrun.
// The launcher resolves everything relative to its own location, so the
// same binary behaves identically from a shell, a cron job or the Windows
// task scheduler regardless of the caller's working directory.
package dirs

import (
	"fmt"
	"os"
	"path/filepath"
)

// BaseDir returns the directory all relative launcher paths resolve against.
// Priority: $VENVRUN_BASE_DIR > directory of the running executable.
func BaseDir() (string, error) {
	if v := os.Getenv("VENVRUN_BASE_DIR"); v != "" {
		return filepath.Abs(v)
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locating executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

// ConfigDir returns the per-user configuration directory.
// Priority: $VENVRUN_CONFIG_DIR > $XDG_CONFIG_HOME/venvrun > ~/.config/venvrun
func ConfigDir() string {
	if v := os.Getenv("VENVRUN_CONFIG_DIR"); v != "" {
		return v
	}
	if base := os.Getenv("XDG_CONFIG_HOME"); base != "" {
		return filepath.Join(base, "venvrun")
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, ".config", "venvrun")
	}
	return filepath.Join(os.TempDir(), "venvrun-config")
}

// Resolve joins path onto base unless it is already absolute.
func Resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
