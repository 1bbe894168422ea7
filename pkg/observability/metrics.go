package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exports pipeline, cache and HTTP events as Prometheus metrics.
// Each Metrics owns its registry, so several instances can coexist in tests.
type Metrics struct {
	registry *prometheus.Registry

	stageDuration *prometheus.HistogramVec
	stageErrors   *prometheus.CounterVec
	kmers         prometheus.Histogram
	merges        prometheus.Counter
	nodes         *prometheus.GaugeVec

	cacheEvents *prometheus.CounterVec
	cacheBytes  prometheus.Counter

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpErrors   *prometheus.CounterVec
}

// NewMetrics creates the collectors under namespace and registers them,
// together with the Go runtime and process collectors, on a new registry.
func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of assembly stages (read, build, simplify, render).",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
		stageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_errors_total",
			Help:      "Number of failed assembly stages.",
		}, []string{"stage"}),
		kmers: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "distinct_kmers",
			Help:      "Distinct k-mers per graph build.",
			Buckets:   prometheus.ExponentialBuckets(16, 4, 10),
		}),
		merges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "merges_total",
			Help:      "Node merges performed by graph simplification.",
		}),
		nodes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_graph_nodes",
			Help:      "Node count of the most recent graph, before and after simplification.",
		}, []string{"phase"}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_events_total",
			Help:      "Cache hits, misses and writes.",
		}, []string{"type", "event"}),
		cacheBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		httpErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_errors_total",
			Help:      "HTTP requests that failed with an error.",
		}, []string{"method", "path"}),
	}

	m.registry.MustRegister(
		m.stageDuration, m.stageErrors, m.kmers, m.merges, m.nodes,
		m.cacheEvents, m.cacheBytes,
		m.httpRequests, m.httpDuration, m.httpErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry holding all collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) stage(name string, d time.Duration, err error) {
	m.stageDuration.WithLabelValues(name).Observe(d.Seconds())
	if err != nil {
		m.stageErrors.WithLabelValues(name).Inc()
	}
}

func (m *Metrics) OnReadStart(context.Context, string) {}

func (m *Metrics) OnReadComplete(_ context.Context, _ string, _ int, d time.Duration, err error) {
	m.stage("read", d, err)
}

func (m *Metrics) OnBuildStart(_ context.Context, _ int, kmers int) {
	m.kmers.Observe(float64(kmers))
}

func (m *Metrics) OnBuildComplete(_ context.Context, nodes, _ int, d time.Duration, err error) {
	m.stage("build", d, err)
	if err == nil {
		m.nodes.WithLabelValues("built").Set(float64(nodes))
	}
}

func (m *Metrics) OnSimplifyStart(context.Context, int) {}

func (m *Metrics) OnSimplifyComplete(_ context.Context, merges, nodes int, d time.Duration) {
	m.stage("simplify", d, nil)
	m.merges.Add(float64(merges))
	m.nodes.WithLabelValues("simplified").Set(float64(nodes))
}

func (m *Metrics) OnRenderStart(context.Context, []string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	m.stage("render", d, err)
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheEvents.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

func (m *Metrics) OnError(_ context.Context, method, path string, _ error) {
	m.httpErrors.WithLabelValues(method, path).Inc()
}

var (
	_ PipelineHooks = (*Metrics)(nil)
	_ CacheHooks    = (*Metrics)(nil)
	_ HTTPHooks     = (*Metrics)(nil)
)
