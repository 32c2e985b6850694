// Package server implements the streakcard HTTP service.
//
// One endpoint does the work: GET / takes a user and theme parameters and
// responds with an SVG card, a PNG rasterization, or the raw stats as JSON.
// Render failures still produce a valid image (an error card) with status
// 200, so broken profile READMEs show a message instead of a broken image
// icon. Responses are cached until the end of the UTC day, matching the
// granularity of the underlying contribution data.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/streakstats/streakcard/pkg/buildinfo"
	"github.com/streakstats/streakcard/pkg/calendar"
	"github.com/streakstats/streakcard/pkg/card"
	apperrors "github.com/streakstats/streakcard/pkg/errors"
	"github.com/streakstats/streakcard/pkg/streak"
)

const (
	pngScale        = 2.0
	shutdownTimeout = 10 * time.Second
)

// ContribFetcher supplies a user's full contribution history.
type ContribFetcher interface {
	ContributionDays(ctx context.Context, login string) ([]streak.Day, error)
}

// Server handles card requests.
type Server struct {
	fetcher ContribFetcher
	store   Store
	logger  *charmlog.Logger
	now     func() time.Time
	router  chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithStore sets the response cache. Defaults to an in-process store.
func WithStore(store Store) Option {
	return func(s *Server) { s.store = store }
}

// WithLogger sets the request logger.
func WithLogger(logger *charmlog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithNow overrides the wall clock (used in tests).
func WithNow(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// New creates a Server around the given contribution fetcher.
func New(fetcher ContribFetcher, opts ...Option) *Server {
	s := &Server{
		fetcher: fetcher,
		store:   NewMemoryStore(),
		logger:  charmlog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(s.requestLogger)
	r.Get("/", s.handleCard)
	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	s.router = r
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is canceled, then drains in-flight
// requests before returning.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-errCh
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "ok")
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, buildinfo.String())
}

func (s *Server) handleCard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := flattenQuery(r.URL.Query())
	outType := normalizeType(params["type"])

	themeParams, err := card.ResolveTheme(params)
	if err != nil {
		// Unknown theme or locale names degrade to defaults.
		s.logger.Warn("theme fallback", "error", err)
	}

	user := params["user"]
	if user == "" {
		s.writeError(w, outType, themeParams, "missing required parameter: user")
		return
	}

	key := "card:" + canonicalKey(params)
	if body, ok := s.store.Get(ctx, key); ok {
		s.write(w, outType, body)
		return
	}

	days, err := s.fetcher.ContributionDays(ctx, user)
	if err != nil {
		s.logger.Error("fetch failed", "user", user, "error", err)
		s.writeError(w, outType, themeParams, apperrors.UserMessage(err))
		return
	}

	today := calendar.FromTime(s.now().UTC())
	stats, err := streak.Compute(days, today)
	if err != nil {
		s.writeError(w, outType, themeParams, apperrors.UserMessage(err))
		return
	}

	body, err := renderBody(outType, stats, themeParams, today)
	if err != nil {
		s.logger.Error("render failed", "user", user, "error", err)
		s.writeError(w, outType, themeParams, apperrors.UserMessage(err))
		return
	}

	s.store.Set(ctx, key, body, s.cacheTTL())
	s.write(w, outType, body)
}

func renderBody(outType string, stats streak.Stats, p card.Params, today calendar.Date) ([]byte, error) {
	switch outType {
	case "json":
		return card.RenderJSON(stats)
	case "png":
		return card.ToPNG(card.Render(stats, p, today), pngScale)
	default:
		return card.Render(stats, p, today), nil
	}
}

// writeError responds with the message in the requested output shape. The
// status stays 200: embedding contexts render the body, not the status.
func (s *Server) writeError(w http.ResponseWriter, outType string, p card.Params, message string) {
	switch outType {
	case "json":
		s.write(w, outType, card.RenderErrorJSON(message))
	case "png":
		if png, err := card.ToPNG(card.RenderError(message, p), pngScale); err == nil {
			s.write(w, outType, png)
			return
		}
		s.write(w, "svg", card.RenderError(message, p))
	default:
		s.write(w, outType, card.RenderError(message, p))
	}
}

func (s *Server) write(w http.ResponseWriter, outType string, body []byte) {
	w.Header().Set("Content-Type", contentType(outType))
	setCacheHeaders(w.Header(), s.now().UTC())
	w.Write(body)
}

// cacheTTL returns the time remaining until the end of the UTC day, the
// lifetime of both stored responses and the client cache headers.
func (s *Server) cacheTTL() time.Duration {
	now := s.now().UTC()
	ttl := endOfDay(now).Sub(now)
	if ttl < time.Minute {
		ttl = time.Minute
	}
	return ttl
}

// setCacheHeaders stamps the response with end-of-UTC-day expiry. The
// contribution calendar can change any time during the day, so proxies must
// revalidate; the Expires/Last-Modified pair gives GitHub's camo cache its
// daily rollover point.
func setCacheHeaders(h http.Header, now time.Time) {
	stamp := now.Format("Mon, 02 Jan 2006") + " 23:59:00 GMT"
	h.Set("Expires", stamp)
	h.Set("Last-Modified", stamp)
	h.Set("Pragma", "no-cache")
	h.Set("Cache-Control", "no-cache, must-revalidate")
}

func endOfDay(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, time.UTC)
}

func contentType(outType string) string {
	switch outType {
	case "json":
		return "application/json"
	case "png":
		return "image/png"
	default:
		return "image/svg+xml"
	}
}

// normalizeType maps the type parameter to a supported output; anything
// unrecognized falls back to svg.
func normalizeType(t string) string {
	switch strings.ToLower(t) {
	case "json":
		return "json"
	case "png":
		return "png"
	default:
		return "svg"
	}
}

// flattenQuery keeps the first value of each query parameter.
func flattenQuery(values url.Values) map[string]string {
	params := make(map[string]string, len(values))
	for key, vals := range values {
		if len(vals) > 0 {
			params[key] = vals[0]
		}
	}
	return params
}

// canonicalKey renders params as a sorted k=v list so equivalent requests
// share one cache entry regardless of parameter order.
func canonicalKey(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
	}
	return b.String()
}
