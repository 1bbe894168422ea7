package observability

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsPipeline(t *testing.T) {
	ctx := context.Background()
	m := NewMetrics("test")

	m.OnBuildStart(ctx, 3, 7)
	m.OnBuildComplete(ctx, 7, 7, time.Millisecond, nil)
	m.OnSimplifyComplete(ctx, 5, 2, time.Millisecond)
	m.OnRenderComplete(ctx, []string{"fasta"}, time.Millisecond, errors.New("boom"))

	if got := testutil.ToFloat64(m.merges); got != 5 {
		t.Errorf("merges = %v, want 5", got)
	}
	if got := testutil.ToFloat64(m.nodes.WithLabelValues("built")); got != 7 {
		t.Errorf("built nodes = %v, want 7", got)
	}
	if got := testutil.ToFloat64(m.nodes.WithLabelValues("simplified")); got != 2 {
		t.Errorf("simplified nodes = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.stageErrors.WithLabelValues("render")); got != 1 {
		t.Errorf("render errors = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.stageDuration); got != 3 {
		t.Errorf("stage duration series = %d, want 3", got)
	}
}

func TestMetricsCacheAndHTTP(t *testing.T) {
	ctx := context.Background()
	m := NewMetrics("test")

	m.OnCacheMiss(ctx, "assembly")
	m.OnCacheSet(ctx, "assembly", 128)
	m.OnCacheHit(ctx, "assembly")
	m.OnCacheHit(ctx, "assembly")
	m.OnResponse(ctx, "POST", "/api/v1/assemble", 200, time.Millisecond)
	m.OnError(ctx, "POST", "/api/v1/assemble", errors.New("bad"))

	if got := testutil.ToFloat64(m.cacheEvents.WithLabelValues("assembly", "hit")); got != 2 {
		t.Errorf("hits = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.cacheBytes); got != 128 {
		t.Errorf("bytes = %v, want 128", got)
	}
	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues("POST", "/api/v1/assemble", "200")); got != 1 {
		t.Errorf("requests = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.httpErrors.WithLabelValues("POST", "/api/v1/assemble")); got != 1 {
		t.Errorf("errors = %v, want 1", got)
	}
}

func TestMetricsHandler(t *testing.T) {
	m := NewMetrics("dbgasm")
	m.OnSimplifyComplete(context.Background(), 3, 1, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "dbgasm_merges_total 3") {
		t.Errorf("metrics output missing merges:\n%s", body)
	}
}

type countingCacheHooks struct {
	NoopCacheHooks
	hits int
}

func (c *countingCacheHooks) OnCacheHit(context.Context, string) { c.hits++ }

func TestMultiHooks(t *testing.T) {
	a, b := &countingCacheHooks{}, &countingCacheHooks{}
	MultiCacheHooks{a, b}.OnCacheHit(context.Background(), "assembly")
	if a.hits != 1 || b.hits != 1 {
		t.Errorf("hits = %d/%d, want 1/1", a.hits, b.hits)
	}
}

func TestUseLoggerAndMetrics(t *testing.T) {
	defer Reset()
	m := NewMetrics("test")
	UseLoggerAndMetrics(log.New(io.Discard), m)

	Pipeline().OnSimplifyComplete(context.Background(), 4, 1, time.Millisecond)
	if got := testutil.ToFloat64(m.merges); got != 4 {
		t.Errorf("merges through registry = %v, want 4", got)
	}
}
