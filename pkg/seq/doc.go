// Package seq provides named nucleotide records, k-mer counting, and
// FASTA reading and writing.
//
// # Records
//
// A [Record] pairs a header name with an upper-cased base string:
//
//	r := seq.New("read1", "agtcgtagtc")
//	r.Bases()   // "AGTCGTAGTC"
//	r.Kmers(4)  // map[AGTC:2 CGTA:1 GTAG:1 GTCG:1 TAGT:1 TCGT:1]
//
// # FASTA
//
// [Read] and [ReadFile] parse multi-record FASTA (optionally gzipped) and
// [WriteFASTA] renders records back with optional line wrapping.
// [CountKmers] aggregates k-mer counts over a whole read set, producing the
// input for graph construction in package dbg.
package seq
