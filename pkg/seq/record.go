package seq

import (
	"strings"
)

// displayBases is the number of leading bases shown by [Record.String].
const displayBases = 20

// Record is a named nucleotide sequence read from a FASTA file.
//
// Bases are upper-cased on construction and cannot be changed afterwards.
// Record is a comparable value type: two records compare equal with ==
// exactly when [Record.Equal] reports true, so records can be used as map keys.
type Record struct {
	Name  string
	bases string
}

// New creates a record from a name and a raw base string.
// The bases are upper-cased; the alphabet is not validated.
func New(name, bases string) Record {
	return Record{Name: name, bases: strings.ToUpper(bases)}
}

// FromLines creates a record from the lines of a single FASTA entry.
// The first line is the header (its leading '>' is stripped) and the
// remaining lines are concatenated as sequence data.
func FromLines(lines []string) Record {
	if len(lines) == 0 {
		return Record{}
	}
	name := strings.TrimPrefix(strings.TrimSpace(lines[0]), ">")

	var b strings.Builder
	for _, l := range lines[1:] {
		b.WriteString(strings.TrimSpace(l))
	}
	return New(name, b.String())
}

// Bases returns the upper-cased sequence.
func (r Record) Bases() string { return r.bases }

// Len returns the number of bases.
func (r Record) Len() int { return len(r.bases) }

// Kmers counts every overlapping substring of length k.
//
// The window slides one base at a time over offsets 0..Len()-k, so the
// counts always sum to max(0, Len()-k+1). A k larger than the sequence,
// or a non-positive k, yields an empty map.
func (r Record) Kmers(k int) map[string]int {
	counts := make(map[string]int)
	if k <= 0 || k > len(r.bases) {
		return counts
	}
	for i := 0; i+k <= len(r.bases); i++ {
		counts[r.bases[i:i+k]]++
	}
	return counts
}

// String returns "name: <first 20 bases>...". Sequences shorter than
// 20 bases are shown in full, still followed by the ellipsis.
func (r Record) String() string {
	shown := r.bases
	if len(shown) > displayBases {
		shown = shown[:displayBases]
	}
	return r.Name + ": " + shown + "..."
}

// GoString matches String so %#v prints the same summary.
func (r Record) GoString() string { return r.String() }

// Equal reports whether other is a Record (or *Record) with the same name
// and bases. Any other value, including a nil *Record, is never equal.
func (r Record) Equal(other any) bool {
	switch o := other.(type) {
	case Record:
		return r == o
	case *Record:
		return o != nil && r == *o
	default:
		return false
	}
}

// CountKmers aggregates k-mer counts across all records.
// The result is the input expected by dbg.Build.
func CountKmers(records []Record, k int) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		for kmer, n := range r.Kmers(k) {
			counts[kmer] += n
		}
	}
	return counts
}
