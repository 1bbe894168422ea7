// Package pipeline provides the assembly pipeline shared by the CLI and the
// HTTP service.
//
// # Architecture
//
// The pipeline consists of five stages:
//
//  1. Read: Load FASTA records from a file (or take them from the caller)
//  2. Count: Tally the k-mers of every record
//  3. Build: Construct the overlap graph from the distinct k-mers
//  4. Simplify: Merge unambiguous chains into contigs
//  5. Render: Produce the requested output formats (FASTA, JSON, DOT, SVG)
//
// The whole result is cached, keyed by a hash of the input records together
// with the options that change the output.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   "reads.fasta",
//	    K:       21,
//	    Formats: []string{"fasta", "svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fasta := result.Artifacts["fasta"]
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dbgasm/pkg/errors"
	"github.com/matzehuels/dbgasm/pkg/seq"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultK is the default k-mer length.
	DefaultK = 21

	// DefaultLineWidth is the default FASTA line width.
	DefaultLineWidth = 60
)

// Format constants for output formats.
const (
	FormatFASTA = "fasta"
	FormatJSON  = "json"
	FormatDOT   = "dot"
	FormatSVG   = "svg"
)

// ValidFormats lists the supported output formats.
var ValidFormats = []string{FormatFASTA, FormatJSON, FormatDOT, FormatSVG}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for an assembly run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Input is the FASTA path to read when Reads is nil ("-" for stdin).
	// With Reads set it only labels the run in logs.
	Input string `json:"input,omitempty"`

	// Reads are records supplied directly by the caller.
	Reads []seq.Record `json:"-"`

	K         int      `json:"k,omitempty"`
	LineWidth int      `json:"line_width,omitempty"`
	Formats   []string `json:"formats,omitempty"`

	// Refresh skips the cache lookup; the fresh result is still stored.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this run in logs and API responses.
	RunID string

	// Contigs are the assembled sequences, longest first.
	Contigs []seq.Record

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains counts and timings.
	Stats Stats

	// CacheHit is true when the result was served from the cache.
	CacheHit bool
}

// Stats contains assembly statistics.
type Stats struct {
	Reads        int           `json:"reads"`
	Kmers        int           `json:"kmers"`
	NodesBefore  int           `json:"nodes_before"`
	EdgesBefore  int           `json:"edges_before"`
	NodesAfter   int           `json:"nodes_after"`
	EdgesAfter   int           `json:"edges_after"`
	Merges       int           `json:"merges"`
	Contigs      int           `json:"contigs"`
	Longest      int           `json:"longest"`
	N50          int           `json:"n50"`
	TotalLength  int           `json:"total_length"`
	ReadTime     time.Duration `json:"read_time"`
	BuildTime    time.Duration `json:"build_time"`
	SimplifyTime time.Duration `json:"simplify_time"`
	RenderTime   time.Duration `json:"render_time"`
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Reads == nil {
		if err := errors.ValidatePath(o.Input); err != nil {
			return err
		}
	}
	if o.K == 0 {
		o.K = DefaultK
	}
	if err := errors.ValidateKmerSize(o.K); err != nil {
		return err
	}
	if err := errors.ValidateLineWidth(o.LineWidth); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatFASTA}
	}
	o.Formats = normalizeFormats(o.Formats)
	if err := errors.ValidateFormats(o.Formats, ValidFormats...); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// normalizeFormats lower-cases formats and drops duplicates, keeping order.
func normalizeFormats(formats []string) []string {
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// Contig Statistics
// =============================================================================

// N50 returns the length L such that contigs of length >= L cover at least
// half of the total assembled length. It returns 0 for no contigs.
func N50(lengths []int) int {
	sorted := slices.Clone(lengths)
	slices.SortFunc(sorted, func(a, b int) int { return b - a })

	total := 0
	for _, l := range sorted {
		total += l
	}
	if total == 0 {
		return 0
	}

	sum := 0
	for _, l := range sorted {
		sum += l
		if 2*sum >= total {
			return l
		}
	}
	return 0
}

// contigStats fills the contig fields of s.
func (s *Stats) contigStats(contigs []seq.Record) {
	lengths := make([]int, len(contigs))
	s.Contigs = len(contigs)
	s.Longest, s.TotalLength = 0, 0
	for i, c := range contigs {
		lengths[i] = c.Len()
		s.TotalLength += c.Len()
		s.Longest = max(s.Longest, c.Len())
	}
	s.N50 = N50(lengths)
}
