// venvrun - run a project's entry point inside its virtual environment
//
// Usage:
//
//	venvrun [args...]             Run src/main.py in ./venv, forwarding args
//	venvrun-scheduled [args...]   Run src/main.py in ./venv_scheduled with --all
//
// venvrun takes no flags of its own: every argument goes to the target.
// It is configured through venvrun.toml next to the binary and VENVRUN_*
// environment variables, and exits with the target's exit status.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"golang.org/x/term"

	"github.com/mbrock/venvrun/internal/config"
	"github.com/mbrock/venvrun/internal/executor"
	"github.com/mbrock/venvrun/internal/launcher"
	"github.com/mbrock/venvrun/internal/logging"
	"github.com/mbrock/venvrun/internal/platform"
	_ "github.com/mbrock/venvrun/internal/platform/all"
)

func main() {
	logging.Setup()

	// The target shares our terminal and receives Ctrl+C itself, and a
	// scheduler stopping the job signals us. Either way we stay alive to
	// report the target's status. Notify rather than Ignore: an ignored
	// disposition would be inherited by the target.
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, swallowed...)
	go func() {
		for sig := range signals {
			slog.Debug("signal received, waiting for target", "signal", sig.String())
		}
	}()

	os.Exit(run(os.Args[0], os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run performs one launch and returns the status to exit with.
func run(exe string, args []string, stdin *os.File, stdout, stderr io.Writer) int {
	loaded, err := config.Load(config.Options{Executable: exe})
	if err != nil {
		fmt.Fprintf(stderr, "venvrun: %v\n", err)
		return launcher.StatusLaunchFailed
	}
	if loaded.Path != "" {
		slog.Debug("loaded config file", "path", loaded.Path)
	}

	p, err := platform.Default()
	if err != nil {
		fmt.Fprintf(stderr, "venvrun: %v\n", err)
		return launcher.StatusLaunchFailed
	}

	cfg := loaded.Config
	if stdin != nil {
		cfg.Stdin = stdin
	}
	cfg.Stdout = stdout
	cfg.Stderr = stderr

	if cfg.Variant == launcher.VariantManual && len(args) == 0 && stdin != nil && !term.IsTerminal(int(stdin.Fd())) {
		slog.Warn("stdin is not a terminal; the target may wait for an interactive selection",
			"hint", "use the scheduled variant for unattended runs")
	}

	res := launcher.New(cfg, p, platform.ProcessEnv{}, executor.Default()).Run(args)
	if res.Err != nil {
		fmt.Fprintf(stderr, "venvrun: %v\n", res.Err)
	}
	return res.Status
}
