// Package logging configures the launcher's diagnostic logger.
//
// The launcher is quiet by default: only warnings and launch failures are
// written to stderr, so the target's own output is all a user sees.
// VENVRUN_DEBUG turns on step-by-step tracing. When stderr is connected to
// the systemd journal, entries go straight to journald with structured
// VENVRUN_* fields instead.
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/coreos/go-systemd/v22/journal"
)

// Level returns the configured log level.
func Level() slog.Level {
	if os.Getenv("VENVRUN_DEBUG") != "" {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

// UnderJournal reports whether stderr is a journald stream, as systemd
// announces through $JOURNAL_STREAM.
func UnderJournal() bool {
	return os.Getenv("JOURNAL_STREAM") != "" && journal.Enabled()
}

// New returns a logger writing to w, or to journald when running under it.
func New(w io.Writer) *slog.Logger {
	level := Level()
	if UnderJournal() {
		return slog.New(NewJournalHandler(level))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Setup installs New(os.Stderr) as the default logger.
func Setup() *slog.Logger {
	logger := New(os.Stderr)
	slog.SetDefault(logger)
	return logger
}
