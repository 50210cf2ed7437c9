package platform

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"testing"
)

func posixVenv() *Venv {
	return &Venv{PlatformKind: KindPosix, BinName: "bin", ActivateName: "activate", ListSeparator: ":"}
}

func windowsVenv() *Venv {
	return &Venv{PlatformKind: KindWindows, BinName: "Scripts", ActivateName: "activate.bat", ListSeparator: ";"}
}

func TestVenv_ActivateAndRelease(t *testing.T) {
	v := posixVenv()
	env := NewMapEnv("PATH=/usr/bin:/bin", "PYTHONHOME=/opt/python", "HOME=/home/me")
	before := env.Environ()

	envDir := filepath.Join("/srv", "app", "venv")
	a, err := v.Activate(env, envDir)
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}

	if dir, ok := Active(env); !ok || dir != envDir {
		t.Fatalf("expected marker %q, got %q (active=%v)", envDir, dir, ok)
	}
	if got, want := Getenv(env, PathVar), v.BinDir(envDir)+":/usr/bin:/bin"; got != want {
		t.Fatalf("expected PATH %q, got %q", want, got)
	}
	if _, ok := env.LookupEnv(PythonHomeVar); ok {
		t.Fatalf("expected PYTHONHOME to be unset while active")
	}

	if err := a.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if after := env.Environ(); !slices.Equal(before, after) {
		t.Fatalf("environ not restored:\nbefore: %v\nafter:  %v", before, after)
	}

	// Second release is a no-op.
	if err := a.Release(); err != nil {
		t.Fatalf("second Release: %v", err)
	}
	if after := env.Environ(); !slices.Equal(before, after) {
		t.Fatalf("second release changed environ: %v", after)
	}
}

func TestVenv_ActivateWithoutPath(t *testing.T) {
	v := posixVenv()
	env := NewMapEnv()

	a, err := v.Activate(env, "/venv")
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if got := Getenv(env, PathVar); got != v.BinDir("/venv") {
		t.Fatalf("expected PATH to be only the bin dir, got %q", got)
	}
	if err := a.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if len(env.Environ()) != 0 {
		t.Fatalf("expected empty environ after release, got %v", env.Environ())
	}
}

func TestVenv_ReleaseKeepsEmptyPath(t *testing.T) {
	v := posixVenv()
	env := NewMapEnv("PATH=")
	before := env.Environ()

	a, err := v.Activate(env, "/venv")
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if a.Dir() != "/venv" {
		t.Fatalf("expected activation dir /venv, got %q", a.Dir())
	}
	if err := a.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if after := env.Environ(); !slices.Equal(before, after) {
		t.Fatalf("environ not restored:\nbefore: %v\nafter:  %v", before, after)
	}
}

func TestVenv_ActivateReplacesInheritedEnvironment(t *testing.T) {
	v := posixVenv()
	inherited := "/other/venv"
	env := NewMapEnv(
		"PATH="+v.BinDir(inherited)+":/usr/bin",
		MarkerVar+"="+inherited,
	)

	a, err := v.Activate(env, "/mine")
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if got, want := Getenv(env, PathVar), v.BinDir("/mine")+":/usr/bin"; got != want {
		t.Fatalf("expected PATH %q, got %q", want, got)
	}
	if err := a.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if _, ok := Active(env); ok {
		t.Fatalf("expected no active environment after release")
	}
	if got := Getenv(env, PathVar); got != "/usr/bin" {
		t.Fatalf("expected PATH /usr/bin, got %q", got)
	}
}

func TestVenv_DeactivateNoMarkerIsNoop(t *testing.T) {
	v := posixVenv()
	env := NewMapEnv("PATH=/usr/bin")
	before := env.Environ()

	if err := v.Deactivate(env); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	if !slices.Equal(before, env.Environ()) {
		t.Fatalf("environ changed: %v", env.Environ())
	}
}

func TestVenv_DeactivateInheritedStripsBinDir(t *testing.T) {
	v := posixVenv()
	env := NewMapEnv(
		"PATH=/usr/local/bin:"+v.BinDir("/inherited")+":/usr/bin",
		MarkerVar+"=/inherited",
	)

	if err := v.Deactivate(env); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	if got := Getenv(env, PathVar); got != "/usr/local/bin:/usr/bin" {
		t.Fatalf("unexpected PATH %q", got)
	}
	if _, ok := env.LookupEnv(MarkerVar); ok {
		t.Fatalf("expected marker to be unset")
	}
}

func TestVenv_DeactivateInheritedRestoresSavedPath(t *testing.T) {
	v := windowsVenv()
	env := NewMapEnv(
		`PATH=C:\env\Scripts;C:\Windows`,
		oldPathVar+`=C:\Windows`,
		oldPythonHomeVar+`=C:\Python`,
		MarkerVar+`=C:\env`,
	)

	if err := v.Deactivate(env); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	want := []string{`PATH=C:\Windows`, `PYTHONHOME=C:\Python`}
	if got := env.Environ(); !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestVenv_WindowsPathSeparator(t *testing.T) {
	v := windowsVenv()
	env := NewMapEnv(`PATH=C:\Windows`)

	a, err := v.Activate(env, "venv")
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if got, want := Getenv(env, PathVar), filepath.Join("venv", "Scripts")+`;C:\Windows`; got != want {
		t.Fatalf("expected PATH %q, got %q", want, got)
	}
	if got := v.ActivationScript("venv"); got != filepath.Join("venv", "Scripts", "activate.bat") {
		t.Fatalf("unexpected activation script %q", got)
	}
	_ = a.Release()
}

func TestVenv_CommandWithoutInterpreter(t *testing.T) {
	v := posixVenv()
	argv, err := v.Command("", "/app/run", []string{"--client", "X"}, NewMapEnv())
	if err != nil {
		t.Fatalf("Command: %v", err)
	}
	if want := []string{"/app/run", "--client", "X"}; !slices.Equal(argv, want) {
		t.Fatalf("expected %v, got %v", want, argv)
	}
}

func TestVenv_CommandInterpreterNotFound(t *testing.T) {
	v := posixVenv()
	env := NewMapEnv("PATH=" + t.TempDir())

	_, err := v.Command("venvrun-no-such-python", "main.py", nil, env)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestVenv_LookPathPrefersActivatedBinDir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("executable bits are POSIX only")
	}
	v := posixVenv()

	system := t.TempDir()
	envDir := t.TempDir()
	writeExecutable(t, filepath.Join(system, "python"))
	writeExecutable(t, filepath.Join(v.BinDir(envDir), "python"))

	env := NewMapEnv("PATH=" + system)
	argv, err := v.Command("python", "src/main.py", []string{"-v"}, env)
	if err != nil {
		t.Fatalf("Command: %v", err)
	}
	if argv[0] != filepath.Join(system, "python") {
		t.Fatalf("expected system python before activation, got %q", argv[0])
	}

	a, err := v.Activate(env, envDir)
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	defer a.Release()

	argv, err = v.Command("python", "src/main.py", []string{"-v"}, env)
	if err != nil {
		t.Fatalf("Command: %v", err)
	}
	want := []string{filepath.Join(v.BinDir(envDir), "python"), "src/main.py", "-v"}
	if !slices.Equal(argv, want) {
		t.Fatalf("expected %v, got %v", want, argv)
	}
}

func writeExecutable(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}
