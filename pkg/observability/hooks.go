// Package observability reports what dbgasm is doing without tying the
// pipeline, the cache or the HTTP server to a particular backend.
//
// Those packages emit events through the hooks returned by Pipeline, Cache
// and HTTP. The hooks start out as no-ops; commands install real ones at
// startup:
//
//	observability.UseLogger(logger)              // debug log lines
//	observability.UseLoggerAndMetrics(logger, m) // plus Prometheus series
//
// Emitting an event looks like:
//
//	observability.Pipeline().OnBuildStart(ctx, k, len(counts))
//	g, err := dbg.Build(counts)
//	observability.Pipeline().OnBuildComplete(ctx, g.NodeCount(), g.EdgeCount(), time.Since(start), err)
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the assembly pipeline.
type PipelineHooks interface {
	// Read events
	OnReadStart(ctx context.Context, input string)
	OnReadComplete(ctx context.Context, input string, records int, duration time.Duration, err error)

	// Build events
	OnBuildStart(ctx context.Context, k, kmers int)
	OnBuildComplete(ctx context.Context, nodes, edges int, duration time.Duration, err error)

	// Simplify events
	OnSimplifyStart(ctx context.Context, nodes int)
	OnSimplifyComplete(ctx context.Context, merges, nodes int, duration time.Duration)

	// Render events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP service.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records a completed response.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)

	// OnError records a request that failed with an error.
	OnError(ctx context.Context, method, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnReadStart(context.Context, string)                               {}
func (NoopPipelineHooks) OnReadComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnBuildStart(context.Context, int, int)                            {}
func (NoopPipelineHooks) OnBuildComplete(context.Context, int, int, time.Duration, error)   {}
func (NoopPipelineHooks) OnSimplifyStart(context.Context, int)                              {}
func (NoopPipelineHooks) OnSimplifyComplete(context.Context, int, int, time.Duration)       {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                           {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error)  {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

type hookSet struct {
	pipeline PipelineHooks
	cache    CacheHooks
	http     HTTPHooks
}

var noopHooks = hookSet{NoopPipelineHooks{}, NoopCacheHooks{}, NoopHTTPHooks{}}

// current holds the installed hooks. Setters swap in a new set.
var current atomic.Pointer[hookSet]

func init() { Reset() }

func update(change func(*hookSet)) {
	for {
		old := current.Load()
		next := *old
		change(&next)
		if current.CompareAndSwap(old, &next) {
			return
		}
	}
}

// SetPipelineHooks installs h. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		update(func(s *hookSet) { s.pipeline = h })
	}
}

// SetCacheHooks installs h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(s *hookSet) { s.cache = h })
	}
}

// SetHTTPHooks installs h. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		update(func(s *hookSet) { s.http = h })
	}
}

// Pipeline returns the installed pipeline hooks.
func Pipeline() PipelineHooks { return current.Load().pipeline }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return current.Load().cache }

// HTTP returns the installed HTTP hooks.
func HTTP() HTTPHooks { return current.Load().http }

// Reset reinstalls the no-op hooks.
func Reset() {
	set := noopHooks
	current.Store(&set)
}
