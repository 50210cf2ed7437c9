package launcher

import (
	"os"

	"github.com/mbrock/venvrun/internal/platform"
)

// Plan describes what Run would do, without doing it.
type Plan struct {
	BaseDir  string        `json:"base_dir"`
	Variant  Variant       `json:"variant"`
	Platform platform.Kind `json:"platform"`

	EnvDir           string `json:"env_dir"`
	EnvPresent       bool   `json:"env_present"`
	ActivationScript string `json:"activation_script"`
	ScriptPresent    bool   `json:"activation_script_present"`
	// InheritedEnv is an environment already active in the caller.
	InheritedEnv string `json:"inherited_env,omitempty"`

	Target        string `json:"target"`
	TargetPresent bool   `json:"target_present"`

	// Command is the resolved argv, empty when it cannot be resolved.
	Command []string `json:"command,omitempty"`
	// Problem explains why Run would fail to start the target.
	Problem string `json:"problem,omitempty"`
}

// Plan resolves a launch for args against a copy of the environ, so the
// launcher's own environment is left untouched.
func (l *Launcher) Plan(args []string) Plan {
	envDir := l.EnvDir()
	p := Plan{
		BaseDir:          l.cfg.BaseDir,
		Variant:          l.cfg.Variant,
		Platform:         l.platform.Kind(),
		EnvDir:           envDir,
		ActivationScript: l.platform.ActivationScript(envDir),
		Target:           l.Target(),
	}
	p.EnvPresent = isDir(envDir)
	p.ScriptPresent = exists(p.ActivationScript)
	p.TargetPresent = exists(p.Target)
	if dir, ok := platform.Active(l.env); ok {
		p.InheritedEnv = dir
	}

	env := platform.SnapshotEnv(l.env)
	if p.EnvPresent {
		if _, err := l.platform.Activate(env, envDir); err != nil {
			p.Problem = err.Error()
			return p
		}
	}
	argv, err := l.platform.Command(l.interpreter(), p.Target, l.Arguments(args), env)
	if err != nil {
		p.Problem = err.Error()
		return p
	}
	p.Command = argv
	if !p.TargetPresent {
		p.Problem = ErrTargetNotFound.Error()
	}
	return p
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
