package errors

import (
	"slices"
	"strings"
	"unicode"
)

// MaxKmerSize bounds the k-mer length accepted from users.
const MaxKmerSize = 1024

// ValidateKmerSize checks that k is a usable k-mer length.
func ValidateKmerSize(k int) error {
	if k <= 0 {
		return New(ErrCodeInvalidKmer, "k must be positive, got %d", k)
	}
	if k > MaxKmerSize {
		return New(ErrCodeInvalidKmer, "k too large (max %d), got %d", MaxKmerSize, k)
	}
	return nil
}

// ValidateLineWidth checks a FASTA wrap width. Zero disables wrapping.
func ValidateLineWidth(width int) error {
	if width < 0 {
		return New(ErrCodeInvalidInput, "line width cannot be negative, got %d", width)
	}
	return nil
}

// ValidatePath validates a user supplied file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
//
// The special path "-" (standard input/output) is accepted.
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateFormat checks that format is one of allowed (case-insensitive).
func ValidateFormat(format string, allowed ...string) error {
	if !slices.Contains(allowed, strings.ToLower(format)) {
		return New(ErrCodeInvalidFormat, "unsupported format %q (want one of: %s)", format, strings.Join(allowed, ", "))
	}
	return nil
}

// ValidateFormats validates every entry of formats and rejects an empty list.
func ValidateFormats(formats []string, allowed ...string) error {
	if len(formats) == 0 {
		return New(ErrCodeInvalidFormat, "at least one output format is required")
	}
	for _, f := range formats {
		if err := ValidateFormat(f, allowed...); err != nil {
			return err
		}
	}
	return nil
}

// Cache backend names accepted by ValidateCacheBackend.
var cacheBackends = []string{"file", "sqlite", "redis", "mongo", "none"}

// ValidateCacheBackend checks the name of a cache backend.
func ValidateCacheBackend(name string) error {
	if !slices.Contains(cacheBackends, name) {
		return New(ErrCodeInvalidConfig, "unknown cache backend %q (want one of: %s)", name, strings.Join(cacheBackends, ", "))
	}
	return nil
}
