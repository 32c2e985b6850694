// Package github fetches a user's public contribution calendar from the
// GitHub GraphQL API.
//
// The fetch strategy mirrors the data source's shape: one query for the
// user's contribution years, then one calendar query per year. Closed years
// change only when GitHub recomputes history, so responses are cached on
// disk; transient failures are retried with backoff.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/streakstats/streakcard/pkg/calendar"
	apperrors "github.com/streakstats/streakcard/pkg/errors"
	"github.com/streakstats/streakcard/pkg/httputil"
	"github.com/streakstats/streakcard/pkg/streak"
)

const (
	defaultEndpoint = "https://api.github.com/graphql"
	userAgent       = "streakcard"
	httpTimeout     = 10 * time.Second
)

const yearsQuery = `query($login: String!) {
  user(login: $login) {
    contributionsCollection {
      contributionYears
    }
  }
}`

const calendarQuery = `query($login: String!, $from: DateTime!, $to: DateTime!) {
  user(login: $login) {
    contributionsCollection(from: $from, to: $to) {
      contributionCalendar {
        weeks {
          contributionDays {
            date
            contributionCount
          }
        }
      }
    }
  }
}`

// Client fetches contribution calendars. It requires a personal access
// token: the GraphQL API rejects unauthenticated requests.
type Client struct {
	http     *http.Client
	cache    *httputil.Cache
	endpoint string
	token    string
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint overrides the GraphQL endpoint (used in tests).
func WithEndpoint(url string) Option {
	return func(c *Client) { c.endpoint = url }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// NewClient creates a contribution fetch client. Pass a nil cache to
// disable caching (every call hits the API).
func NewClient(token string, cache *httputil.Cache, opts ...Option) *Client {
	c := &Client{
		http:     &http.Client{Timeout: httpTimeout},
		cache:    cache,
		endpoint: defaultEndpoint,
		token:    token,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ContributionDays returns every recorded day of login's contribution
// history, one record per calendar day, unordered. Callers own sorting.
//
// Errors carry USER_NOT_FOUND when the login does not exist and FETCH_ERROR
// or NETWORK_ERROR otherwise; both families mean "cannot compute stats".
func (c *Client) ContributionDays(ctx context.Context, login string) ([]streak.Day, error) {
	if login == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidArgument, "missing required parameter: user")
	}
	if c.token == "" {
		return nil, apperrors.New(apperrors.ErrCodeFetch, "GITHUB_TOKEN is not configured")
	}

	years, err := c.contributionYears(ctx, login)
	if err != nil {
		return nil, err
	}

	var days []streak.Day
	for _, year := range years {
		yearDays, err := c.calendarForYear(ctx, login, year)
		if err != nil {
			return nil, err
		}
		days = append(days, yearDays...)
	}
	return days, nil
}

func (c *Client) contributionYears(ctx context.Context, login string) ([]int, error) {
	var resp struct {
		User *struct {
			ContributionsCollection struct {
				ContributionYears []int `json:"contributionYears"`
			} `json:"contributionsCollection"`
		} `json:"user"`
	}
	if err := c.query(ctx, yearsQuery, map[string]any{"login": login}, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, apperrors.New(apperrors.ErrCodeUserNotFound, "could not find user %s", login)
	}
	return resp.User.ContributionsCollection.ContributionYears, nil
}

type calendarDay struct {
	Date  string `json:"date"`
	Count int    `json:"contributionCount"`
}

func (c *Client) calendarForYear(ctx context.Context, login string, year int) ([]streak.Day, error) {
	key := fmt.Sprintf("contrib:%s:%d", login, year)

	var raw []calendarDay
	if c.cache != nil {
		if ok, _ := c.cache.Get(key, &raw); ok {
			return toDays(raw)
		}
	}

	var resp struct {
		User *struct {
			ContributionsCollection struct {
				ContributionCalendar struct {
					Weeks []struct {
						ContributionDays []calendarDay `json:"contributionDays"`
					} `json:"weeks"`
				} `json:"contributionCalendar"`
			} `json:"contributionsCollection"`
		} `json:"user"`
	}

	vars := map[string]any{
		"login": login,
		"from":  fmt.Sprintf("%d-01-01T00:00:00Z", year),
		"to":    fmt.Sprintf("%d-12-31T23:59:59Z", year),
	}
	if err := c.query(ctx, calendarQuery, vars, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, apperrors.New(apperrors.ErrCodeUserNotFound, "could not find user %s", login)
	}

	raw = raw[:0]
	for _, week := range resp.User.ContributionsCollection.ContributionCalendar.Weeks {
		raw = append(raw, week.ContributionDays...)
	}

	if c.cache != nil {
		_ = c.cache.Set(key, raw)
	}
	return toDays(raw)
}

func toDays(raw []calendarDay) ([]streak.Day, error) {
	days := make([]streak.Day, 0, len(raw))
	for _, d := range raw {
		date, err := calendar.Parse(d.Date)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeFetch, err, "malformed calendar day")
		}
		days = append(days, streak.Day{Date: date, Count: d.Count})
	}
	return days, nil
}

// query posts a GraphQL request and decodes data into out, retrying
// transient failures with backoff.
func (c *Client) query(ctx context.Context, query string, vars map[string]any, out any) error {
	return httputil.RetryWithBackoff(ctx, func() error {
		return c.doQuery(ctx, query, vars, out)
	})
}

func (c *Client) doQuery(ctx context.Context, query string, vars map[string]any, out any) error {
	body, err := json.Marshal(map[string]any{"query": query, "variables": vars})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, err, "encode query")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return &httputil.RetryableError{
			Err: apperrors.Wrap(apperrors.ErrCodeNetwork, err, "could not reach GitHub"),
		}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		return err
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeFetch, err, "decode response")
	}

	for _, e := range envelope.Errors {
		if e.Type == "NOT_FOUND" {
			return apperrors.New(apperrors.ErrCodeUserNotFound, "could not find user")
		}
	}
	if len(envelope.Errors) > 0 {
		return apperrors.New(apperrors.ErrCodeFetch, "GitHub API error: %s", envelope.Errors[0].Message)
	}
	if envelope.Data == nil {
		return apperrors.New(apperrors.ErrCodeFetch, "empty response from GitHub")
	}
	return json.Unmarshal(envelope.Data, out)
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return apperrors.New(apperrors.ErrCodeFetch, "GitHub rejected the configured token (status %d)", code)
	case code == http.StatusTooManyRequests:
		return apperrors.New(apperrors.ErrCodeRateLimited, "GitHub API rate limit exceeded")
	case code >= 500:
		return &httputil.RetryableError{
			Err: apperrors.New(apperrors.ErrCodeNetwork, "GitHub API unavailable (status %d)", code),
		}
	default:
		return apperrors.New(apperrors.ErrCodeFetch, "unexpected status %d from GitHub", code)
	}
}
