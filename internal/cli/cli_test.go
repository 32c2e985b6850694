package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	charmlog "github.com/charmbracelet/log"

	apperrors "github.com/streakstats/streakcard/pkg/errors"
)

func TestLoggerContextRoundTrip(t *testing.T) {
	logger := newLogger(io.Discard, charmlog.DebugLevel)
	ctx := withLogger(context.Background(), logger)
	if got := loggerFromContext(ctx); got != logger {
		t.Error("loggerFromContext did not return the attached logger")
	}
	if got := loggerFromContext(context.Background()); got == nil {
		t.Error("loggerFromContext should fall back to a default logger")
	}
}

func TestThemesCommand(t *testing.T) {
	cmd := newThemesCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)

	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatalf("themes command error: %v", err)
	}
	listing := out.String()
	for _, want := range []string{"default", "dark", "highcontrast"} {
		if !strings.Contains(listing, want) {
			t.Errorf("themes output missing %q", want)
		}
	}
}

func TestCardCommand_UnknownType(t *testing.T) {
	cmd := newCardCmd()
	cmd.SetArgs([]string{"octocat", "--type", "gif"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetContext(withLogger(context.Background(), newLogger(io.Discard, charmlog.InfoLevel)))

	if err := cmd.Execute(); err == nil || !strings.Contains(err.Error(), "unknown output type") {
		t.Fatalf("error = %v, want unknown output type", err)
	}
}

func TestCardCommand_UnknownThemeIsNonFatal(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")

	cmd := newCardCmd()
	cmd.SetArgs([]string{"octocat", "--theme", "no-such-theme"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetContext(withLogger(context.Background(), newLogger(io.Discard, charmlog.InfoLevel)))

	// The unknown theme must not abort the command; with no token configured
	// the run proceeds to the fetch stage and fails there instead.
	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected fetch error with empty token")
	}
	if apperrors.Is(err, apperrors.ErrCodeUnknownTheme) {
		t.Fatalf("error = %v, want command to continue past theme resolution", err)
	}
	if !apperrors.Is(err, apperrors.ErrCodeFetch) {
		t.Fatalf("error = %v, want FETCH_ERROR from missing token", err)
	}
}

func TestEnvOr(t *testing.T) {
	t.Setenv("STREAKCARD_TEST_KEY", "set")
	if got := envOr("STREAKCARD_TEST_KEY", "fallback"); got != "set" {
		t.Errorf("envOr = %q, want set", got)
	}
	if got := envOr("STREAKCARD_TEST_MISSING", "fallback"); got != "fallback" {
		t.Errorf("envOr = %q, want fallback", got)
	}
}
