// Package errors gives dbgasm failures a machine-readable code.
//
// The CLI turns a code into a process exit status with [ExitCode]; the
// HTTP service turns it into a response status and reports it in the
// "code" field of error bodies. Codes prefixed INVALID_ always mean the
// caller sent something wrong (reads, k, formats, paths, config).
//
//	err := errors.New(errors.ErrCodeInvalidKmer, "k must be positive, got %d", k)
//	err = errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidKmer   Code = "INVALID_KMER"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// ErrCodeNetwork is used for unreachable cache backends.
	ErrCodeNetwork Code = "NETWORK_ERROR"

	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Exit statuses from sysexits.h.
const (
	exitUsage   = 64
	exitNoInput = 66
	exitConfig  = 78
)

// Error carries a code, a message for the user and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an Error with a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// GetCode returns the code of the outermost *Error in err's chain, or ""
// if there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Is reports whether GetCode(err) is code.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// UserMessage returns the message of the outermost *Error without its code
// and cause, or err.Error() for uncoded errors.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsInvalid reports whether err carries one of the INVALID_* codes.
func IsInvalid(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidKmer, ErrCodeInvalidFormat, ErrCodeInvalidPath, ErrCodeInvalidConfig:
		return true
	}
	return false
}

// ExitCode maps err to a process exit status: 0 for nil, 66 for missing
// input files, 78 for bad configuration, 64 for other invalid input and 1
// for everything else.
func ExitCode(err error) int {
	switch code := GetCode(err); {
	case err == nil:
		return 0
	case code == ErrCodeFileNotFound:
		return exitNoInput
	case code == ErrCodeInvalidConfig:
		return exitConfig
	case IsInvalid(err):
		return exitUsage
	default:
		return 1
	}
}
