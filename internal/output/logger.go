/*
PURPOSE:
  Provides a structured logger for Frame Runner.
  Wraps slog for consistent output.

REQUIREMENTS:
  User-specified:
  - "Sane" CLI output. Not spammy.
  - Progress reported at every session state transition.

  Implementation-discovered:
  - Needs to support Debug/Info/Warn/Error levels.
  - JSON handler for non-interactive runs (CI, redirected output).

ARCHITECTURE INTEGRATION:
  - Used everywhere.
  - Configured once by internal/cli before a command runs.

ERROR HANDLING:
  - N/A

IMPLEMENTATION RULES:
  - Use `log/slog` (Go 1.21+).
  - Use golang.org/x/term to detect an interactive terminal.

USAGE:
  output.Logger.Info("message", "key", "value")

SELF-HEALING INSTRUCTIONS:
  - Ensure Go 1.21+ is used.

RELATED FILES:
  - internal/cli/root.go

MAINTENANCE:
  - None.
*/

package output

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

var Logger *slog.Logger

func init() {
	Logger = slog.New(slog.NewTextHandler(os.Stdout, nil))
}

// SetLogger allows overriding the default logger (e.g. for testing or config changes)
func SetLogger(l *slog.Logger) {
	Logger = l
}

// Configure installs the logger for a command run. Text output is used on a
// terminal, JSON otherwise or when forceJSON is set.
func Configure(w io.Writer, forceJSON, verbose bool) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		opts.Level = slog.LevelDebug
	}

	if forceJSON || !isTerminal(w) {
		SetLogger(slog.New(slog.NewJSONHandler(w, opts)))
		return
	}
	SetLogger(slog.New(slog.NewTextHandler(w, opts)))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
