package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNetwork marks a remote backend that could not be reached.
	ErrNetwork = errors.New("network error")

	// ErrUnknownBackend is returned by Open for an unrecognized backend name.
	ErrUnknownBackend = errors.New("unknown cache backend")
)

// retryable marks a transient backend error.
type retryable struct{ err error }

func (r retryable) Error() string { return r.err.Error() }
func (r retryable) Unwrap() error { return r.err }

// Retryable marks err as transient so RetryWithBackoff tries again.
// Retryable(nil) is nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return retryable{err}
}

// IsRetryable reports whether err, or anything it wraps, was marked by
// Retryable.
func IsRetryable(err error) bool {
	var r retryable
	return errors.As(err, &r)
}

const retryAttempts = 3

// retryDelay is the wait before the second attempt; it doubles after that.
var retryDelay = 200 * time.Millisecond

// RetryWithBackoff calls fn until it succeeds, returns an error not
// marked Retryable, or has been tried retryAttempts times. Waiting
// between attempts stops early when ctx ends.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := retryDelay
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil || !IsRetryable(err) || attempt == retryAttempts {
			return err
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
}
