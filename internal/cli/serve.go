package cli

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/streakstats/streakcard/internal/server"
	"github.com/streakstats/streakcard/pkg/github"
	"github.com/streakstats/streakcard/pkg/httputil"
)

// calendarCacheTTL bounds how long fetched year calendars are reused.
// Contribution data is daily-grained, so a day is the natural unit.
const calendarCacheTTL = 24 * time.Hour

func newServeCmd() *cobra.Command {
	var (
		addr      string
		redisAddr string
		cacheDir  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the streak card HTTP service",
		Long: `Serve starts the HTTP service answering GET / with a rendered streak card.

The GitHub token is read from GITHUB_TOKEN. Responses are cached in-process
by default; point --redis at a Redis instance to share the cache across
replicas.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			token := os.Getenv("GITHUB_TOKEN")
			if token == "" {
				logger.Warn("GITHUB_TOKEN is not set; card requests will fail")
			}

			cache, err := httputil.NewCache(cacheDir, calendarCacheTTL)
			if err != nil {
				logger.Warn("calendar cache disabled", "error", err)
				cache = nil
			}
			fetcher := github.NewClient(token, cache)

			opts := []server.Option{server.WithLogger(logger)}
			if redisAddr != "" {
				logger.Info("using redis response cache", "addr", redisAddr)
				opts = append(opts, server.WithStore(server.NewRedisStore(redisAddr)))
			}

			return server.New(fetcher, opts...).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", envOr("STREAKCARD_ADDR", ":8080"), "listen address")
	cmd.Flags().StringVar(&redisAddr, "redis", os.Getenv("STREAKCARD_REDIS_ADDR"), "redis address for the shared response cache (host:port)")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", os.Getenv("STREAKCARD_CACHE_DIR"), "calendar cache directory (default ~/.cache/streakcard)")

	return cmd
}

// envOr returns the environment value for key, or fallback when unset.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
