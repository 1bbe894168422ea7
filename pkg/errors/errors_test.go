package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNewAndWrap(t *testing.T) {
	err := New(ErrCodeInvalidKmer, "k must be positive, got %d", 0)
	if err.Code != ErrCodeInvalidKmer || err.Message != "k must be positive, got 0" {
		t.Errorf("New() = %+v", err)
	}
	if got, want := err.Error(), "INVALID_KMER: k must be positive, got 0"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	cause := errors.New("connection refused")
	wrapped := Wrap(ErrCodeNetwork, cause, "redis %s", "localhost:6379")
	if got, want := wrapped.Error(), "NETWORK_ERROR: redis localhost:6379: connection refused"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(wrapped, cause) || errors.Unwrap(wrapped) != cause {
		t.Error("Wrap should keep the cause in the chain")
	}
}

func TestCodeLookup(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    Code
		message string
	}{
		{"coded", New(ErrCodeInvalidFormat, "unsupported format %q", "png"), ErrCodeInvalidFormat, `unsupported format "png"`},
		{"outermost wins", Wrap(ErrCodeInternal, New(ErrCodeInvalidKmer, "inner"), "render"), ErrCodeInternal, "render"},
		{"behind fmt", fmt.Errorf("assemble: %w", New(ErrCodeFileNotFound, "reads.fa")), ErrCodeFileNotFound, "reads.fa"},
		{"plain", errors.New("plain"), "", "plain"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.code {
				t.Errorf("GetCode() = %q, want %q", got, tt.code)
			}
			if tt.code != "" && !Is(tt.err, tt.code) {
				t.Errorf("Is(%q) = false", tt.code)
			}
			if Is(tt.err, ErrCodeNotFound) {
				t.Error("Is(NOT_FOUND) = true")
			}
			if got := UserMessage(tt.err); got != tt.message {
				t.Errorf("UserMessage() = %q, want %q", got, tt.message)
			}
		})
	}

	if GetCode(nil) != "" || Is(nil, ErrCodeInvalidInput) {
		t.Error("nil error should have no code")
	}
}

func TestIsInvalid(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"invalid kmer", New(ErrCodeInvalidKmer, "k"), true},
		{"invalid config", Wrap(ErrCodeInvalidConfig, errors.New("toml"), "parse"), true},
		{"file not found", New(ErrCodeFileNotFound, "missing"), false},
		{"plain", errors.New("plain"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsInvalid(tt.err); got != tt.expected {
				t.Errorf("IsInvalid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"missing reads", Wrap(ErrCodeFileNotFound, errors.New("no such file"), "input reads.fa not found"), 66},
		{"bad config", New(ErrCodeInvalidConfig, "cache ttl cannot be negative"), 78},
		{"bad k", New(ErrCodeInvalidKmer, "k must be positive"), 64},
		{"wrapped bad format", fmt.Errorf("render: %w", New(ErrCodeInvalidFormat, "unsupported format")), 64},
		{"internal", New(ErrCodeInternal, "boom"), 1},
		{"plain", errors.New("plain"), 1},
	}
	for _, tt := range tests {
		if got := ExitCode(tt.err); got != tt.want {
			t.Errorf("%s: ExitCode() = %d, want %d", tt.name, got, tt.want)
		}
	}
}
