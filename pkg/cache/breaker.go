package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
)

// ErrUnavailable is returned while a BreakerCache is open.
var ErrUnavailable = errors.New("cache unavailable")

// BreakerSettings tunes NewBreakerCache.
type BreakerSettings struct {
	// MinRequests is the number of calls in an interval before the
	// failure ratio is evaluated.
	MinRequests uint32
	// FailureRatio trips the breaker once reached.
	FailureRatio float64
	// Interval resets the counts while closed.
	Interval time.Duration
	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration
	// OnStateChange, if set, is called on every transition.
	OnStateChange func(name, from, to string)
}

// DefaultBreakerSettings trips after 5 calls with at least 60% failures
// and probes again after 30s.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MinRequests:  5,
		FailureRatio: 0.6,
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
	}
}

// BreakerCache guards a remote backend with a circuit breaker so that an
// unreachable Redis or MongoDB costs one fast error per call instead of a
// full retry cycle.
type BreakerCache struct {
	inner Cache
	cb    *gobreaker.CircuitBreaker
}

// NewBreakerCache wraps inner. name identifies the breaker in state changes.
func NewBreakerCache(inner Cache, name string, s BreakerSettings) *BreakerCache {
	settings := gobreaker.Settings{
		Name:     name,
		Interval: s.Interval,
		Timeout:  s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= s.FailureRatio
		},
		// Canceled calls do not count as failures.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}
	if s.OnStateChange != nil {
		settings.OnStateChange = func(name string, from, to gobreaker.State) {
			s.OnStateChange(name, from.String(), to.String())
		}
	}
	return &BreakerCache{inner: inner, cb: gobreaker.NewCircuitBreaker(settings)}
}

// State reports the breaker state: "closed", "half-open" or "open".
func (c *BreakerCache) State() string { return c.cb.State().String() }

func (c *BreakerCache) execute(fn func() (any, error)) (any, error) {
	v, err := c.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, c.cb.Name(), err)
	}
	return v, err
}

type hit struct {
	data []byte
	ok   bool
}

// Get forwards to the wrapped cache. Misses count as successes.
func (c *BreakerCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := c.execute(func() (any, error) {
		data, ok, err := c.inner.Get(ctx, key)
		return hit{data, ok}, err
	})
	if err != nil {
		return nil, false, err
	}
	h := v.(hit)
	return h.data, h.ok, nil
}

// Set forwards to the wrapped cache.
func (c *BreakerCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	_, err := c.execute(func() (any, error) {
		return nil, c.inner.Set(ctx, key, data, ttl)
	})
	return err
}

// Delete forwards to the wrapped cache.
func (c *BreakerCache) Delete(ctx context.Context, key string) error {
	_, err := c.execute(func() (any, error) {
		return nil, c.inner.Delete(ctx, key)
	})
	return err
}

// Close closes the wrapped cache.
func (c *BreakerCache) Close() error {
	return c.inner.Close()
}

var _ Cache = (*BreakerCache)(nil)
