package pipeline

import (
	"slices"
	"testing"

	"github.com/matzehuels/dbgasm/pkg/errors"
	"github.com/matzehuels/dbgasm/pkg/seq"
)

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Input: "reads.fasta"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}

	if opts.K != DefaultK {
		t.Errorf("K = %d, want %d", opts.K, DefaultK)
	}
	if opts.LineWidth != 0 {
		t.Errorf("LineWidth = %d, want 0 (caller decides)", opts.LineWidth)
	}
	if !slices.Equal(opts.Formats, []string{FormatFASTA}) {
		t.Errorf("Formats = %v, want [fasta]", opts.Formats)
	}
	if opts.Logger == nil {
		t.Error("Logger should be set")
	}
}

func TestOptionsNormalizesFormats(t *testing.T) {
	opts := Options{Input: "-", Formats: []string{"SVG", " fasta", "svg"}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}
	if !slices.Equal(opts.Formats, []string{"svg", "fasta"}) {
		t.Errorf("Formats = %v, want [svg fasta]", opts.Formats)
	}
}

func TestOptionsValidation(t *testing.T) {
	reads := []seq.Record{seq.New("r", "ACGT")}

	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"no input", Options{}, errors.ErrCodeInvalidPath},
		{"negative k", Options{Reads: reads, K: -1}, errors.ErrCodeInvalidKmer},
		{"huge k", Options{Reads: reads, K: errors.MaxKmerSize + 1}, errors.ErrCodeInvalidKmer},
		{"negative width", Options{Reads: reads, LineWidth: -5}, errors.ErrCodeInvalidInput},
		{"bad format", Options{Reads: reads, Formats: []string{"png"}}, errors.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("ValidateAndSetDefaults() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestOptionsReadsWithoutInput(t *testing.T) {
	opts := Options{Reads: []seq.Record{}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("empty Reads should not require Input: %v", err)
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Input: "reads.fasta", K: 5}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("first call error: %v", err)
	}
	first := opts.Formats

	opts.K = -1 // ignored once validated
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("second call error: %v", err)
	}
	if !slices.Equal(opts.Formats, first) {
		t.Errorf("second call changed Formats: %v vs %v", opts.Formats, first)
	}
}

func TestN50(t *testing.T) {
	tests := []struct {
		lengths []int
		want    int
	}{
		{nil, 0},
		{[]int{0, 0}, 0},
		{[]int{7}, 7},
		{[]int{7, 4}, 7},
		{[]int{2, 3, 4, 5, 6, 7, 8, 9, 10}, 8},
		{[]int{1, 1, 1, 1, 10}, 10},
		{[]int{5, 5, 5, 5}, 5},
		{[]int{3, 3, 2, 2}, 3},
	}

	for _, tt := range tests {
		if got := N50(tt.lengths); got != tt.want {
			t.Errorf("N50(%v) = %d, want %d", tt.lengths, got, tt.want)
		}
	}
}

func TestN50DoesNotReorderInput(t *testing.T) {
	lengths := []int{1, 9, 3}
	N50(lengths)
	if !slices.Equal(lengths, []int{1, 9, 3}) {
		t.Errorf("N50 reordered its input: %v", lengths)
	}
}
