// Package config assembles a launcher.Config from built-in defaults, an
// optional venvrun.toml, and VENVRUN_* environment variables, in that
// order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/mbrock/venvrun/internal/dirs"
	"github.com/mbrock/venvrun/internal/launcher"
)

// FileName is the config file looked up next to the launcher and in the
// user config directory.
const FileName = "venvrun.toml"

// Environment variables read by Load.
const (
	EnvMode          = "VENVRUN_MODE"
	EnvConfig        = "VENVRUN_CONFIG"
	EnvEnvDir        = "VENVRUN_ENV_DIR"
	EnvTarget        = "VENVRUN_TARGET"
	EnvInterpreter   = "VENVRUN_INTERPRETER"
	EnvScheduledFlag = "VENVRUN_SCHEDULED_FLAG"
)

// File is the on-disk configuration format.
//
//	mode = "manual"
//	env_dir = "venv"
//	scheduled_env_dir = "venv_scheduled"
//	target = "src/main.py"
//	interpreter = "python"
//	scheduled_flag = "--all"
type File struct {
	Mode            string  `toml:"mode"`
	EnvDir          string  `toml:"env_dir"`
	ScheduledEnvDir string  `toml:"scheduled_env_dir"`
	Target          string  `toml:"target"`
	Interpreter     *string `toml:"interpreter"`
	ScheduledFlag   string  `toml:"scheduled_flag"`
}

// Options controls where Load looks.
type Options struct {
	// BaseDir overrides dirs.BaseDir().
	BaseDir string
	// Path is an explicit config file; it must exist.
	Path string
	// Executable is the name the launcher was invoked as (os.Args[0]).
	// A name ending in -scheduled selects the scheduled variant.
	Executable string
	// Variant, when set, overrides every other variant source.
	Variant launcher.Variant
}

// Loaded is the result of Load.
type Loaded struct {
	Config launcher.Config
	// Path is the config file that was read, or "" when none was found.
	Path string
}

// Load builds the launcher configuration.
func Load(opts Options) (Loaded, error) {
	var out Loaded

	base := opts.BaseDir
	if base == "" {
		var err error
		if base, err = dirs.BaseDir(); err != nil {
			return out, err
		}
	}

	path, err := findFile(opts.Path, base)
	if err != nil {
		return out, err
	}
	var file File
	if path != "" {
		if file, err = ReadFile(path); err != nil {
			return out, err
		}
	}
	out.Path = path

	variant, err := resolveVariant(opts, file)
	if err != nil {
		return out, err
	}

	cfg := launcher.DefaultConfig(variant)
	cfg.BaseDir = base
	file.apply(&cfg)
	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return out, fmt.Errorf("invalid configuration: %w", err)
	}
	out.Config = cfg
	return out, nil
}

// ReadFile parses a config file. Unknown keys are rejected so typos do not
// silently fall back to defaults.
func ReadFile(path string) (File, error) {
	var f File
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return f, fmt.Errorf("reading %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return f, fmt.Errorf("reading %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if f.Mode != "" {
		if _, err := launcher.ParseVariant(f.Mode); err != nil {
			return f, fmt.Errorf("reading %s: %w", path, err)
		}
	}
	return f, nil
}

func findFile(explicit, base string) (string, error) {
	if explicit == "" {
		explicit = os.Getenv(EnvConfig)
	}
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file: %w", err)
		}
		return explicit, nil
	}

	for _, candidate := range []string{
		filepath.Join(base, FileName),
		filepath.Join(dirs.ConfigDir(), FileName),
	} {
		_, err := os.Stat(candidate)
		if err == nil {
			return candidate, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("config file: %w", err)
		}
	}
	return "", nil
}

func resolveVariant(opts Options, file File) (launcher.Variant, error) {
	if opts.Variant != "" {
		return launcher.ParseVariant(string(opts.Variant))
	}
	if v := os.Getenv(EnvMode); v != "" {
		variant, err := launcher.ParseVariant(v)
		if err != nil {
			return "", fmt.Errorf("%s: %w", EnvMode, err)
		}
		return variant, nil
	}
	if IsScheduledName(opts.Executable) {
		return launcher.VariantScheduled, nil
	}
	if file.Mode != "" {
		return launcher.ParseVariant(file.Mode)
	}
	return launcher.VariantManual, nil
}

// IsScheduledName reports whether an executable name selects the
// scheduled variant, e.g. venvrun-scheduled or run_scheduled.exe.
func IsScheduledName(exe string) bool {
	name := strings.ToLower(filepath.Base(exe))
	name = strings.TrimSuffix(name, ".exe")
	return strings.HasSuffix(name, "-scheduled") || strings.HasSuffix(name, "_scheduled")
}

func (f File) apply(cfg *launcher.Config) {
	switch {
	case cfg.Variant == launcher.VariantScheduled && f.ScheduledEnvDir != "":
		cfg.EnvDir = f.ScheduledEnvDir
	case cfg.Variant == launcher.VariantManual && f.EnvDir != "":
		cfg.EnvDir = f.EnvDir
	}
	if f.Target != "" {
		cfg.Target = filepath.FromSlash(f.Target)
	}
	if f.Interpreter != nil {
		cfg.Interpreter = *f.Interpreter
	}
	if f.ScheduledFlag != "" {
		cfg.ScheduledFlag = f.ScheduledFlag
	}
}

func applyEnv(cfg *launcher.Config) {
	if v := os.Getenv(EnvEnvDir); v != "" {
		cfg.EnvDir = v
	}
	if v := os.Getenv(EnvTarget); v != "" {
		cfg.Target = v
	}
	// Set but empty runs the target directly.
	if v, ok := os.LookupEnv(EnvInterpreter); ok {
		cfg.Interpreter = v
	}
	if v := os.Getenv(EnvScheduledFlag); v != "" {
		cfg.ScheduledFlag = v
	}
}
