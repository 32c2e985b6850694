package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/streakstats/streakcard/pkg/calendar"
	"github.com/streakstats/streakcard/pkg/card"
	"github.com/streakstats/streakcard/pkg/github"
	"github.com/streakstats/streakcard/pkg/httputil"
	"github.com/streakstats/streakcard/pkg/streak"
)

func newCardCmd() *cobra.Command {
	var (
		output       string
		outType      string
		theme        string
		locale       string
		dateFormat   string
		borderRadius float64
		hideBorder   bool
	)

	cmd := &cobra.Command{
		Use:   "card <user>",
		Short: "Render one user's streak card to a file or stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			user := args[0]

			switch outType {
			case "svg", "png", "json":
			default:
				return fmt.Errorf("unknown output type %q (svg, png, json)", outType)
			}

			params := map[string]string{"user": user}
			if theme != "" {
				params["theme"] = theme
			}
			if locale != "" {
				params["locale"] = locale
			}
			if dateFormat != "" {
				params["date_format"] = dateFormat
			}
			if hideBorder {
				params["hide_border"] = "true"
			}
			if cmd.Flags().Changed("border-radius") {
				params["border_radius"] = fmt.Sprintf("%g", borderRadius)
			}

			themeParams, err := card.ResolveTheme(params)
			if err != nil {
				// Unknown theme or locale names degrade to defaults.
				logger.Warn("theme fallback", "error", err)
			}

			cache, err := httputil.NewCache("", calendarCacheTTL)
			if err != nil {
				logger.Warn("calendar cache disabled", "error", err)
				cache = nil
			}

			pr := newProgress(logger)
			days, err := github.NewClient(os.Getenv("GITHUB_TOKEN"), cache).ContributionDays(ctx, user)
			if err != nil {
				return err
			}
			pr.done(fmt.Sprintf("Fetched %d contribution days", len(days)))

			today := calendar.SystemClock(time.UTC).Today()
			stats, err := streak.Compute(days, today)
			if err != nil {
				return err
			}
			logger.Debug("computed stats",
				"total", stats.TotalContributions,
				"current", stats.CurrentStreak.Length,
				"longest", stats.LongestStreak.Length)

			var body []byte
			switch outType {
			case "json":
				body, err = card.RenderJSON(stats)
			case "png":
				body, err = card.ToPNG(card.Render(stats, themeParams, today), 2.0)
			default:
				body = card.Render(stats, themeParams, today)
			}
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(body)
				return err
			}
			if err := os.WriteFile(output, body, 0o644); err != nil {
				return err
			}
			logger.Info("wrote card", "path", output, "bytes", len(body))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&outType, "type", "t", "svg", "output type: svg, png, or json")
	cmd.Flags().StringVar(&theme, "theme", "", "theme preset name")
	cmd.Flags().StringVar(&locale, "locale", "", "language tag for labels and dates")
	cmd.Flags().StringVar(&dateFormat, "date-format", "", "date pattern, e.g. 'M j[, Y]'")
	cmd.Flags().Float64Var(&borderRadius, "border-radius", card.DefaultBorderRadius, "card corner radius")
	cmd.Flags().BoolVar(&hideBorder, "hide-border", false, "hide the card border")

	return cmd
}

func newThemesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List the available theme presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range card.ThemeNames() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
