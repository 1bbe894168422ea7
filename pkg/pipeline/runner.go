package pipeline

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/dbgasm/pkg/cache"
	"github.com/matzehuels/dbgasm/pkg/dbg"
	"github.com/matzehuels/dbgasm/pkg/errors"
	"github.com/matzehuels/dbgasm/pkg/observability"
	"github.com/matzehuels/dbgasm/pkg/seq"
)

// cacheKeyType labels assembly entries in cache hooks.
const cacheKeyType = "assembly"

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is the lifetime of stored results. Zero means cache.TTLAssembly.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// cachedResult is the serialized form of a Result.
type cachedResult struct {
	Contigs   []cachedContig    `json:"contigs"`
	Artifacts map[string][]byte `json:"artifacts"`
	Stats     Stats             `json:"stats"`
}

type cachedContig struct {
	Name     string `json:"name"`
	Sequence string `json:"sequence"`
}

// Execute runs the complete read → build → simplify → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	runID := uuid.NewString()
	logger := opts.Logger.With("run", runID[:8])

	records, readTime, err := r.Read(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	logger.Info("read reads", "input", opts.Input, "reads", len(records), "duration", readTime)

	cacheKey := r.Keyer.AssemblyKey(inputHash(records), cache.AssemblyKeyOpts{
		K:         opts.K,
		LineWidth: opts.LineWidth,
		Formats:   opts.Formats,
	})

	if !opts.Refresh {
		if result, ok := r.lookup(ctx, cacheKey); ok {
			result.RunID = runID
			result.Stats.ReadTime = readTime
			logger.Info("cache hit", "contigs", len(result.Contigs))
			return result, nil
		}
	}

	g, stats, err := r.Assemble(ctx, records, opts)
	if err != nil {
		return nil, err
	}
	stats.ReadTime = readTime
	logger.Info("assembled",
		"kmers", stats.Kmers,
		"merges", stats.Merges,
		"contigs", stats.Contigs,
		"n50", stats.N50,
		"duration", stats.BuildTime+stats.SimplifyTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	renderStart := time.Now()
	artifacts, err := Render(ctx, g, opts.Formats, opts.LineWidth)
	stats.RenderTime = time.Since(renderStart)
	hooks.OnRenderComplete(ctx, opts.Formats, stats.RenderTime, err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	logger.Info("rendered outputs", "formats", opts.Formats, "duration", stats.RenderTime)

	result := &Result{
		RunID:     runID,
		Contigs:   g.Contigs(),
		Artifacts: artifacts,
		Stats:     stats,
	}
	r.store(ctx, cacheKey, result)
	return result, nil
}

// Read returns opts.Reads, or loads opts.Input when no reads were supplied.
func (r *Runner) Read(ctx context.Context, opts Options) ([]seq.Record, time.Duration, error) {
	if opts.Reads != nil {
		return opts.Reads, 0, nil
	}
	hooks := observability.Pipeline()
	hooks.OnReadStart(ctx, opts.Input)
	start := time.Now()
	records, err := seq.ReadFile(opts.Input)
	d := time.Since(start)
	hooks.OnReadComplete(ctx, opts.Input, len(records), d, err)
	if err != nil {
		return nil, d, wrapReadError(opts.Input, err)
	}
	return records, d, nil
}

// Assemble counts k-mers, builds the overlap graph and simplifies it.
// It does not touch the cache.
func (r *Runner) Assemble(ctx context.Context, records []seq.Record, opts Options) (*dbg.Graph, Stats, error) {
	g, stats, err := r.BuildGraph(ctx, records, opts.K)
	if err != nil {
		return nil, stats, err
	}
	if err := ctx.Err(); err != nil {
		return nil, stats, err
	}

	hooks := observability.Pipeline()
	hooks.OnSimplifyStart(ctx, g.NodeCount())
	start := time.Now()
	stats.Merges = g.Simplify()
	stats.SimplifyTime = time.Since(start)
	stats.NodesAfter = g.NodeCount()
	stats.EdgesAfter = g.EdgeCount()
	hooks.OnSimplifyComplete(ctx, stats.Merges, stats.NodesAfter, stats.SimplifyTime)

	stats.contigStats(g.Contigs())
	return g, stats, nil
}

// BuildGraph counts k-mers and builds the unsimplified overlap graph.
func (r *Runner) BuildGraph(ctx context.Context, records []seq.Record, k int) (*dbg.Graph, Stats, error) {
	stats := Stats{Reads: len(records)}
	if err := errors.ValidateKmerSize(k); err != nil {
		return nil, stats, err
	}

	counts := seq.CountKmers(records, k)
	stats.Kmers = len(counts)
	if len(counts) == 0 {
		r.Logger.Warn("no k-mers: every read is shorter than k", "k", k)
	}

	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, k, len(counts))
	start := time.Now()
	g, err := dbg.Build(counts)
	stats.BuildTime = time.Since(start)
	if err != nil {
		hooks.OnBuildComplete(ctx, 0, 0, stats.BuildTime, err)
		return nil, stats, errors.Wrap(errors.ErrCodeInvalidKmer, err, "build graph")
	}
	stats.NodesBefore = g.NodeCount()
	stats.EdgesBefore = g.EdgeCount()
	hooks.OnBuildComplete(ctx, stats.NodesBefore, stats.EdgesBefore, stats.BuildTime, nil)
	return g, stats, nil
}

// lookup returns the cached result for key. Undecodable entries are misses.
func (r *Runner) lookup(ctx context.Context, key string) (*Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return nil, false
	}

	var cached cachedResult
	if err := json.Unmarshal(data, &cached); err != nil {
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, cacheKeyType)

	contigs := make([]seq.Record, len(cached.Contigs))
	for i, c := range cached.Contigs {
		contigs[i] = seq.New(c.Name, c.Sequence)
	}
	return &Result{
		Contigs:   contigs,
		Artifacts: cached.Artifacts,
		Stats:     cached.Stats,
		CacheHit:  true,
	}, true
}

// store writes result to the cache. Failures are logged and otherwise ignored.
func (r *Runner) store(ctx context.Context, key string, result *Result) {
	cached := cachedResult{
		Contigs:   make([]cachedContig, len(result.Contigs)),
		Artifacts: result.Artifacts,
		Stats:     result.Stats,
	}
	for i, c := range result.Contigs {
		cached.Contigs[i] = cachedContig{Name: c.Name, Sequence: c.Bases()}
	}
	data, err := json.Marshal(cached)
	if err != nil {
		return
	}
	ttl := r.TTL
	if ttl <= 0 {
		ttl = cache.TTLAssembly
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// inputHash hashes the records as unwrapped FASTA so that equivalent files
// with different line wrapping share cache entries.
func inputHash(records []seq.Record) string {
	h := cache.NewContentHash()
	_ = seq.WriteFASTA(h, records, 0)
	return h.Sum()
}

func wrapReadError(path string, err error) error {
	switch {
	case stderrors.Is(err, os.ErrNotExist):
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "input %s not found", path)
	case stderrors.Is(err, seq.ErrMissingHeader):
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", path)
	default:
		return err
	}
}
