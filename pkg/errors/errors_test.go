package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidArgument, "missing parameter: %s", "user")

	if err.Code != ErrCodeInvalidArgument {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidArgument)
	}
	if err.Message != "missing parameter: user" {
		t.Errorf("Message = %v, want %v", err.Message, "missing parameter: user")
	}

	expected := "INVALID_ARGUMENT: missing parameter: user"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeFetch, cause, "failed to fetch contributions")

	if err.Code != ErrCodeFetch {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeFetch)
	}
	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeEmptyDataset, "no contribution data"),
			code:     ErrCodeEmptyDataset,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeEmptyDataset, "no contribution data"),
			code:     ErrCodeUserNotFound,
			expected: false,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			code:     ErrCodeInternal,
			expected: false,
		},
		{
			name:     "wrapped coded error",
			err:      fmt.Errorf("outer: %w", New(ErrCodeUnknownTheme, "no such theme")),
			code:     ErrCodeUnknownTheme,
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if code := GetCode(New(ErrCodeRateLimited, "slow down")); code != ErrCodeRateLimited {
		t.Errorf("GetCode() = %v, want %v", code, ErrCodeRateLimited)
	}
	if code := GetCode(errors.New("plain")); code != "" {
		t.Errorf("GetCode() = %v, want empty", code)
	}
}

func TestUserMessage(t *testing.T) {
	err := Wrap(ErrCodeUserNotFound, errors.New("status 404"), "could not find user octocat")
	if msg := UserMessage(err); msg != "could not find user octocat" {
		t.Errorf("UserMessage() = %q, want %q", msg, "could not find user octocat")
	}
	if msg := UserMessage(errors.New("plain")); msg != "plain" {
		t.Errorf("UserMessage() = %q, want %q", msg, "plain")
	}
}
