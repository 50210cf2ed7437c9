package launcher

import (
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/mbrock/venvrun/internal/platform"
	"github.com/mbrock/venvrun/internal/platform/posix"
)

func TestPlan_DoesNotTouchEnviron(t *testing.T) {
	tl := newTestLaunch(t, VariantManual)
	envDir := tl.createEnvDir(t)
	before := tl.env.Environ()

	plan := New(tl.cfg, posix.New(), tl.env, tl.exec).Plan([]string{"--client", "X"})

	if !slices.Equal(before, tl.env.Environ()) {
		t.Fatalf("Plan modified the environ: %v", tl.env.Environ())
	}
	if len(tl.exec.Calls()) != 0 {
		t.Fatal("Plan started a process")
	}
	if !plan.EnvPresent || plan.EnvDir != envDir {
		t.Fatalf("expected env %q to be present, got %+v", envDir, plan)
	}
	if plan.ScriptPresent {
		t.Fatal("no activate script was created")
	}
	if !plan.TargetPresent || plan.Problem != "" {
		t.Fatalf("expected a clean plan, got %+v", plan)
	}
	if want := []string{tl.target, "--client", "X"}; !slices.Equal(plan.Command, want) {
		t.Fatalf("expected command %q, got %q", want, plan.Command)
	}
	if plan.Platform != platform.KindPosix || plan.Variant != VariantManual {
		t.Fatalf("unexpected platform/variant in %+v", plan)
	}
}

func TestPlan_ScheduledCommand(t *testing.T) {
	tl := newTestLaunch(t, VariantScheduled)
	plan := New(tl.cfg, posix.New(), tl.env, tl.exec).Plan([]string{"--client", "X"})

	if want := []string{tl.target, DefaultScheduledFlag}; !slices.Equal(plan.Command, want) {
		t.Fatalf("expected command %q, got %q", want, plan.Command)
	}
	if plan.EnvPresent {
		t.Fatal("env dir was not created")
	}
	if plan.EnvDir != filepath.Join(tl.base, DefaultScheduledEnvDir) {
		t.Fatalf("unexpected env dir %q", plan.EnvDir)
	}
}

func TestPlan_ReportsProblems(t *testing.T) {
	tl := newTestLaunch(t, VariantManual)
	tl.cfg.Target = "missing.py"
	plan := New(tl.cfg, posix.New(), tl.env, tl.exec).Plan(nil)
	if plan.TargetPresent || plan.Problem != ErrTargetNotFound.Error() {
		t.Fatalf("expected missing target problem, got %+v", plan)
	}

	tl = newTestLaunch(t, VariantManual)
	tl.cfg.Interpreter = "venvrun-no-such-python"
	tl.env = platform.NewMapEnv("PATH=" + t.TempDir())
	plan = New(tl.cfg, posix.New(), tl.env, tl.exec).Plan(nil)
	if plan.Command != nil || !strings.Contains(plan.Problem, "not found") {
		t.Fatalf("expected interpreter problem, got %+v", plan)
	}
}

func TestPlan_InheritedEnv(t *testing.T) {
	tl := newTestLaunch(t, VariantManual)
	tl.env = platform.NewMapEnv("PATH=/usr/bin", platform.MarkerVar+"=/parent/venv")

	plan := New(tl.cfg, posix.New(), tl.env, tl.exec).Plan(nil)
	if plan.InheritedEnv != "/parent/venv" {
		t.Fatalf("expected inherited env, got %+v", plan)
	}
}
