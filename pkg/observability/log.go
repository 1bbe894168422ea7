package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogPipelineHooks logs pipeline events at debug level.
type LogPipelineHooks struct{ Logger *log.Logger }

func (h LogPipelineHooks) OnReadStart(_ context.Context, input string) {
	h.Logger.Debug("read start", "input", input)
}

func (h LogPipelineHooks) OnReadComplete(_ context.Context, input string, records int, d time.Duration, err error) {
	h.Logger.Debug("read complete", "input", input, "records", records, "duration", d, "err", err)
}

func (h LogPipelineHooks) OnBuildStart(_ context.Context, k, kmers int) {
	h.Logger.Debug("build start", "k", k, "kmers", kmers)
}

func (h LogPipelineHooks) OnBuildComplete(_ context.Context, nodes, edges int, d time.Duration, err error) {
	h.Logger.Debug("build complete", "nodes", nodes, "edges", edges, "duration", d, "err", err)
}

func (h LogPipelineHooks) OnSimplifyStart(_ context.Context, nodes int) {
	h.Logger.Debug("simplify start", "nodes", nodes)
}

func (h LogPipelineHooks) OnSimplifyComplete(_ context.Context, merges, nodes int, d time.Duration) {
	h.Logger.Debug("simplify complete", "merges", merges, "nodes", nodes, "duration", d)
}

func (h LogPipelineHooks) OnRenderStart(_ context.Context, formats []string) {
	h.Logger.Debug("render start", "formats", formats)
}

func (h LogPipelineHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.Logger.Debug("render complete", "formats", formats, "duration", d, "err", err)
}

// LogCacheHooks logs cache events at debug level.
type LogCacheHooks struct{ Logger *log.Logger }

func (h LogCacheHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h LogCacheHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h LogCacheHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

// LogHTTPHooks logs HTTP service events at debug level.
type LogHTTPHooks struct{ Logger *log.Logger }

func (h LogHTTPHooks) OnRequest(_ context.Context, method, path string) {
	h.Logger.Debug("request", "method", method, "path", path)
}

func (h LogHTTPHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.Logger.Debug("response", "method", method, "path", path, "status", status, "duration", d)
}

func (h LogHTTPHooks) OnError(_ context.Context, method, path string, err error) {
	h.Logger.Debug("request error", "method", method, "path", path, "err", err)
}

// UseLogger registers the Log* hooks for every category.
func UseLogger(logger *log.Logger) {
	SetPipelineHooks(LogPipelineHooks{Logger: logger})
	SetCacheHooks(LogCacheHooks{Logger: logger})
	SetHTTPHooks(LogHTTPHooks{Logger: logger})
}
