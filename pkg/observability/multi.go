package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// MultiPipelineHooks forwards every event to each hook in order.
type MultiPipelineHooks []PipelineHooks

func (m MultiPipelineHooks) OnReadStart(ctx context.Context, input string) {
	for _, h := range m {
		h.OnReadStart(ctx, input)
	}
}

func (m MultiPipelineHooks) OnReadComplete(ctx context.Context, input string, records int, d time.Duration, err error) {
	for _, h := range m {
		h.OnReadComplete(ctx, input, records, d, err)
	}
}

func (m MultiPipelineHooks) OnBuildStart(ctx context.Context, k, kmers int) {
	for _, h := range m {
		h.OnBuildStart(ctx, k, kmers)
	}
}

func (m MultiPipelineHooks) OnBuildComplete(ctx context.Context, nodes, edges int, d time.Duration, err error) {
	for _, h := range m {
		h.OnBuildComplete(ctx, nodes, edges, d, err)
	}
}

func (m MultiPipelineHooks) OnSimplifyStart(ctx context.Context, nodes int) {
	for _, h := range m {
		h.OnSimplifyStart(ctx, nodes)
	}
}

func (m MultiPipelineHooks) OnSimplifyComplete(ctx context.Context, merges, nodes int, d time.Duration) {
	for _, h := range m {
		h.OnSimplifyComplete(ctx, merges, nodes, d)
	}
}

func (m MultiPipelineHooks) OnRenderStart(ctx context.Context, formats []string) {
	for _, h := range m {
		h.OnRenderStart(ctx, formats)
	}
}

func (m MultiPipelineHooks) OnRenderComplete(ctx context.Context, formats []string, d time.Duration, err error) {
	for _, h := range m {
		h.OnRenderComplete(ctx, formats, d, err)
	}
}

// MultiCacheHooks forwards every event to each hook in order.
type MultiCacheHooks []CacheHooks

func (m MultiCacheHooks) OnCacheHit(ctx context.Context, keyType string) {
	for _, h := range m {
		h.OnCacheHit(ctx, keyType)
	}
}

func (m MultiCacheHooks) OnCacheMiss(ctx context.Context, keyType string) {
	for _, h := range m {
		h.OnCacheMiss(ctx, keyType)
	}
}

func (m MultiCacheHooks) OnCacheSet(ctx context.Context, keyType string, size int) {
	for _, h := range m {
		h.OnCacheSet(ctx, keyType, size)
	}
}

// MultiHTTPHooks forwards every event to each hook in order.
type MultiHTTPHooks []HTTPHooks

func (m MultiHTTPHooks) OnRequest(ctx context.Context, method, path string) {
	for _, h := range m {
		h.OnRequest(ctx, method, path)
	}
}

func (m MultiHTTPHooks) OnResponse(ctx context.Context, method, path string, status int, d time.Duration) {
	for _, h := range m {
		h.OnResponse(ctx, method, path, status, d)
	}
}

func (m MultiHTTPHooks) OnError(ctx context.Context, method, path string, err error) {
	for _, h := range m {
		h.OnError(ctx, method, path, err)
	}
}

// UseLoggerAndMetrics registers hooks that both log and record metrics.
func UseLoggerAndMetrics(logger *log.Logger, m *Metrics) {
	SetPipelineHooks(MultiPipelineHooks{LogPipelineHooks{Logger: logger}, m})
	SetCacheHooks(MultiCacheHooks{LogCacheHooks{Logger: logger}, m})
	SetHTTPHooks(MultiHTTPHooks{LogHTTPHooks{Logger: logger}, m})
}
