package launcher

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
)

// Variant selects how the launcher treats its own arguments.
type Variant string

const (
	// VariantManual forwards the launcher's arguments verbatim.
	VariantManual Variant = "manual"
	// VariantScheduled ignores the launcher's arguments and passes
	// ScheduledFlag instead, so unattended runs never prompt.
	VariantScheduled Variant = "scheduled"
)

// ParseVariant validates a variant name.
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(s); v {
	case VariantManual, VariantScheduled:
		return v, nil
	default:
		return "", fmt.Errorf("unknown variant %q (want %q or %q)", s, VariantManual, VariantScheduled)
	}
}

// Defaults for the conventional project layout.
const (
	DefaultEnvDir          = "venv"
	DefaultScheduledEnvDir = "venv_scheduled"
	DefaultTarget          = "src/main.py"
	DefaultInterpreter     = "python"
	DefaultScheduledFlag   = "--all"
)

// Config configures a Launcher.
type Config struct {
	// BaseDir anchors every relative path and is the target's working directory.
	BaseDir string
	Variant Variant

	// EnvDir is the optional environment directory. Relative to BaseDir.
	EnvDir string
	// Target is the program entry point. Relative to BaseDir.
	Target string
	// Interpreter runs Target. Empty runs Target directly.
	Interpreter string
	// ScheduledFlag replaces the arguments in the scheduled variant.
	ScheduledFlag string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns the conventional configuration for variant.
func DefaultConfig(variant Variant) Config {
	cfg := Config{
		Variant:       variant,
		EnvDir:        DefaultEnvDir,
		Target:        filepath.FromSlash(DefaultTarget),
		Interpreter:   DefaultInterpreter,
		ScheduledFlag: DefaultScheduledFlag,
	}
	if variant == VariantScheduled {
		cfg.EnvDir = DefaultScheduledEnvDir
	}
	return cfg
}

// Validate reports configuration errors that would make every launch fail.
func (c Config) Validate() error {
	if c.BaseDir == "" {
		return fmt.Errorf("base directory is not set")
	}
	if !filepath.IsAbs(c.BaseDir) {
		return fmt.Errorf("base directory %q is not absolute", c.BaseDir)
	}
	if _, err := ParseVariant(string(c.Variant)); err != nil {
		return err
	}
	if c.Target == "" {
		return fmt.Errorf("target is not set")
	}
	if c.Variant == VariantScheduled && c.ScheduledFlag == "" {
		return fmt.Errorf("scheduled variant requires a scheduled flag")
	}
	return nil
}
