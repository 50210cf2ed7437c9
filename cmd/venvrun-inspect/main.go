// venvrun-inspect - show what venvrun would do, without doing it
//
// Usage:
//
//	venvrun-inspect [flags] [-- args...]
//
// Prints the resolved base directory, environment, target and command
// line. Exits 0 when the launch would start the target, 1 otherwise.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/mbrock/venvrun/internal/config"
	"github.com/mbrock/venvrun/internal/executor"
	"github.com/mbrock/venvrun/internal/launcher"
	"github.com/mbrock/venvrun/internal/logging"
	"github.com/mbrock/venvrun/internal/platform"
	_ "github.com/mbrock/venvrun/internal/platform/all"
)

func main() {
	logging.Setup()
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(argv []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("venvrun-inspect", flag.ContinueOnError)
	fs.SetOutput(stderr)
	scheduled := fs.Bool("scheduled", false, "Inspect the scheduled variant")
	configPath := fs.StringP("config", "c", "", "Config file (default: venvrun.toml next to the launcher)")
	baseDir := fs.StringP("base-dir", "C", "", "Base directory (default: $VENVRUN_BASE_DIR or the launcher's directory)")
	platformKind := fs.String("platform", "", "Platform: posix, windows (default: current OS)")
	asJSON := fs.Bool("json", false, "Print the plan as JSON")
	fs.Usage = func() {
		fmt.Fprintf(stderr, `venvrun-inspect - show what venvrun would do

Usage:
  venvrun-inspect [flags] [-- args...]

Flags:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(argv); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	opts := config.Options{Path: *configPath, BaseDir: *baseDir, Executable: "venvrun"}
	if *scheduled {
		opts.Variant = launcher.VariantScheduled
	}
	loaded, err := config.Load(opts)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	p, err := platform.Open(platform.Kind(*platformKind))
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	l := launcher.New(loaded.Config, p, platform.SnapshotEnv(platform.ProcessEnv{}), executor.Default())
	plan := l.Plan(fs.Args())

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(plan); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
	} else {
		printPlan(stdout, plan, loaded.Path)
	}

	if plan.Problem != "" {
		return 1
	}
	return 0
}

func printPlan(w io.Writer, p launcher.Plan, configPath string) {
	if configPath == "" {
		configPath = "(none)"
	}
	fmt.Fprintf(w, "%-12s %s\n", "BASE", p.BaseDir)
	fmt.Fprintf(w, "%-12s %s\n", "CONFIG", configPath)
	fmt.Fprintf(w, "%-12s %s (%s)\n", "VARIANT", p.Variant, p.Platform)
	fmt.Fprintf(w, "%-12s %s %s\n", "ENV", p.EnvDir, presence(p.EnvPresent))
	fmt.Fprintf(w, "%-12s %s %s\n", "ACTIVATE", p.ActivationScript, presence(p.ScriptPresent))
	if p.InheritedEnv != "" {
		fmt.Fprintf(w, "%-12s %s\n", "INHERITED", p.InheritedEnv)
	}
	fmt.Fprintf(w, "%-12s %s %s\n", "TARGET", p.Target, presence(p.TargetPresent))
	if len(p.Command) > 0 {
		fmt.Fprintf(w, "%-12s %s\n", "COMMAND", strings.Join(quoteArgs(p.Command), " "))
	}
	if p.Problem != "" {
		fmt.Fprintf(w, "%-12s %s\n", "PROBLEM", p.Problem)
	}
}

func presence(ok bool) string {
	if ok {
		return "[present]"
	}
	return "[missing]"
}

func quoteArgs(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		if a == "" || strings.ContainsAny(a, " \t\"'") {
			out[i] = fmt.Sprintf("%q", a)
		} else {
			out[i] = a
		}
	}
	return out
}
