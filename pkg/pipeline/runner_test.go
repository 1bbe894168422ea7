package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/dbgasm/pkg/cache"
	"github.com/matzehuels/dbgasm/pkg/errors"
	"github.com/matzehuels/dbgasm/pkg/observability"
	"github.com/matzehuels/dbgasm/pkg/seq"
)

var read = []seq.Record{seq.New("read", "ATGCGTAGC")}

const wantFASTA = ">contig_1 len=7\nGCGTAGC\n>contig_2 len=4\nATGC\n"

func TestExecute(t *testing.T) {
	r := NewRunner(nil, nil, nil)

	result, err := r.Execute(context.Background(), Options{
		Reads:   read,
		K:       3,
		Formats: []string{FormatFASTA, FormatJSON, FormatDOT},
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if result.RunID == "" {
		t.Error("RunID should be set")
	}
	if result.CacheHit {
		t.Error("NullCache run should not be a cache hit")
	}

	want := Stats{
		Reads:       1,
		Kmers:       7,
		NodesBefore: 7,
		EdgesBefore: 7,
		NodesAfter:  2,
		EdgesAfter:  2,
		Merges:      5,
		Contigs:     2,
		Longest:     7,
		N50:         7,
		TotalLength: 11,
	}
	got := result.Stats
	got.ReadTime, got.BuildTime, got.SimplifyTime, got.RenderTime = 0, 0, 0, 0
	if got != want {
		t.Errorf("Stats = %+v\nwant %+v", got, want)
	}

	if len(result.Contigs) != 2 || result.Contigs[0].Bases() != "GCGTAGC" {
		t.Errorf("Contigs = %v", result.Contigs)
	}
	if s := string(result.Artifacts[FormatFASTA]); s != wantFASTA {
		t.Errorf("fasta artifact = %q, want %q", s, wantFASTA)
	}
	if !strings.Contains(string(result.Artifacts[FormatJSON]), `"sequence": "GCGTAGC"`) {
		t.Error("json artifact missing contig sequence")
	}
	if !strings.HasPrefix(string(result.Artifacts[FormatDOT]), "digraph G") {
		t.Error("dot artifact is not DOT")
	}
	if _, ok := result.Artifacts[FormatSVG]; ok {
		t.Error("svg was not requested")
	}
}

func TestExecuteLineWidth(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	result, err := r.Execute(context.Background(), Options{Reads: read, K: 3, LineWidth: 4})
	if err != nil {
		t.Fatal(err)
	}
	want := ">contig_1 len=7\nGCGT\nAGC\n>contig_2 len=4\nATGC\n"
	if s := string(result.Artifacts[FormatFASTA]); s != want {
		t.Errorf("fasta artifact = %q, want %q", s, want)
	}
}

func TestExecuteCache(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	opts := Options{Reads: read, K: 3, Formats: []string{FormatFASTA, FormatDOT}}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}

	if first.CacheHit || !second.CacheHit {
		t.Errorf("CacheHit = %v, %v; want false, true", first.CacheHit, second.CacheHit)
	}
	if first.RunID == second.RunID {
		t.Error("each run should get its own RunID")
	}
	if string(second.Artifacts[FormatFASTA]) != wantFASTA {
		t.Errorf("cached fasta = %q", second.Artifacts[FormatFASTA])
	}
	if second.Stats.Merges != 5 || second.Stats.N50 != 7 {
		t.Errorf("cached stats = %+v", second.Stats)
	}
	if len(second.Contigs) != 2 || !second.Contigs[0].Equal(first.Contigs[0]) {
		t.Errorf("cached contigs = %v, want %v", second.Contigs, first.Contigs)
	}

	// A different k is a different entry
	other := opts
	other.K = 4
	if res, err := r.Execute(ctx, other); err != nil || res.CacheHit {
		t.Errorf("k=4 run: hit=%v err=%v; want fresh run", res != nil && res.CacheHit, err)
	}

	// Refresh bypasses the lookup
	refresh := opts
	refresh.Refresh = true
	if res, err := r.Execute(ctx, refresh); err != nil || res.CacheHit {
		t.Errorf("refresh run: err=%v; want fresh run", err)
	}
}

func TestExecuteFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reads.fasta")
	if err := os.WriteFile(path, []byte(">r1\nATGCG\nTAGC\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := NewRunner(nil, nil, nil).Execute(context.Background(), Options{Input: path, K: 3})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if string(result.Artifacts[FormatFASTA]) != wantFASTA {
		t.Errorf("fasta = %q", result.Artifacts[FormatFASTA])
	}
}

func TestExecuteReadErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.fasta")
	if err := os.WriteFile(bad, []byte("ACGT\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewRunner(nil, nil, nil)
	tests := []struct {
		path string
		code errors.Code
	}{
		{filepath.Join(dir, "missing.fasta"), errors.ErrCodeFileNotFound},
		{bad, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		_, err := r.Execute(context.Background(), Options{Input: tt.path, K: 3})
		if !errors.Is(err, tt.code) {
			t.Errorf("Execute(%s) error = %v, want code %s", filepath.Base(tt.path), err, tt.code)
		}
	}
}

func TestExecuteShortReads(t *testing.T) {
	result, err := NewRunner(nil, nil, nil).Execute(context.Background(), Options{
		Reads: []seq.Record{seq.New("r", "ACG")},
		K:     5,
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if len(result.Contigs) != 0 || result.Stats.Kmers != 0 || len(result.Artifacts[FormatFASTA]) != 0 {
		t.Errorf("reads shorter than k should assemble nothing: %+v", result.Stats)
	}
}

func TestExecuteCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(nil, nil, nil).Execute(ctx, Options{Reads: read, K: 3})
	if err != context.Canceled {
		t.Errorf("Execute() error = %v, want context.Canceled", err)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) add(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) OnBuildStart(context.Context, int, int) { h.add("build") }
func (h *recordingHooks) OnSimplifyComplete(_ context.Context, merges, _ int, _ time.Duration) {
	h.add("simplify")
}
func (h *recordingHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {
	h.add("render")
}

func TestExecuteHooks(t *testing.T) {
	defer observability.Reset()
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)

	if _, err := NewRunner(nil, nil, nil).Execute(context.Background(), Options{Reads: read, K: 3}); err != nil {
		t.Fatal(err)
	}
	want := "build,simplify,render"
	if got := strings.Join(hooks.events, ","); got != want {
		t.Errorf("hook events = %s, want %s", got, want)
	}
}

// ttlCache records the TTL passed to Set.
type ttlCache struct {
	cache.NullCache
	ttl time.Duration
}

func (c *ttlCache) Set(_ context.Context, _ string, _ []byte, ttl time.Duration) error {
	c.ttl = ttl
	return nil
}

func TestExecuteTTL(t *testing.T) {
	tests := []struct {
		ttl  time.Duration
		want time.Duration
	}{
		{0, cache.TTLAssembly},
		{time.Hour, time.Hour},
	}
	for _, tt := range tests {
		c := &ttlCache{}
		r := NewRunner(c, nil, nil)
		r.TTL = tt.ttl
		if _, err := r.Execute(context.Background(), Options{Reads: read, K: 3}); err != nil {
			t.Fatal(err)
		}
		if c.ttl != tt.want {
			t.Errorf("TTL %v: stored with %v, want %v", tt.ttl, c.ttl, tt.want)
		}
	}
}
