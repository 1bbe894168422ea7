// Package pkg holds the dbgasm libraries.
//
// # Overview
//
// dbgasm assembles sequencing reads into contigs with a de Bruijn graph:
// every distinct k-mer becomes a node, k-mers overlapping by k-1 bases are
// linked, and unambiguous chains are merged until each node is a contig.
//
//  1. [seq] - Sequence records, FASTA reading and writing, k-mer counting
//  2. [dbg] - The overlap graph: construction, simplification, contigs
//  3. [pipeline] - Orchestration (read → build → simplify → render) with caching
//  4. [render/nodelink] - DOT and SVG diagrams of the graph
//  5. [io] - JSON export of the graph
//  6. [cache] - File, Redis and MongoDB result caches
//  7. [config] - TOML configuration
//  8. [errors] - Coded errors and input validation
//  9. [observability] - Hooks for logging and metrics
//
// # Data Flow
//
//	FASTA reads
//	     ↓
//	seq.CountKmers ──→ dbg.Build ──→ Graph.Simplify ──→ Graph.Contigs
//	                                                  ↘ nodelink / io
package pkg
