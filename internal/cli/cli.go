// Package cli implements the streakcard command-line interface.
//
// Two commands do the work: serve runs the HTTP card service, and card
// renders a single user's card to a file for offline use. Both read their
// GitHub token and defaults from the environment (a .env file is honored
// when present) and support --verbose for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"context"
	"io"
	"os"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/streakstats/streakcard/pkg/buildinfo"
)

// Execute runs the streakcard CLI and returns an error if any command
// fails. Version information comes from pkg/buildinfo, injected via
// ldflags at build time.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "streakcard",
		Short:        "streakcard renders GitHub contribution streak cards",
		Long:         `streakcard computes contribution streak statistics for a GitHub user and renders them as a themeable SVG card, a PNG, or JSON, either one-shot or as an HTTP service.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// A missing .env file is not an error; the environment wins
			// over file values either way.
			_ = godotenv.Load()

			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newServeCmd())
	root.AddCommand(newCardCmd())
	root.AddCommand(newThemesCmd())

	return root.ExecuteContext(ctx)
}

// newLogger creates a logger with "HH:MM:SS.ms" timestamps writing to w.
func newLogger(w io.Writer, level charmlog.Level) *charmlog.Logger {
	return charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with
// elapsed duration. Safe for sequential use by a single goroutine.
type progress struct {
	logger *charmlog.Logger
	start  time.Time
}

func newProgress(l *charmlog.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, rounded to the millisecond.
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *charmlog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, falling back to the
// default logger so commands always have a valid one.
func loggerFromContext(ctx context.Context) *charmlog.Logger {
	if l, ok := ctx.Value(loggerKey).(*charmlog.Logger); ok {
		return l
	}
	return charmlog.Default()
}
