package dbg

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/dbgasm/pkg/seq"
)

// ErrInvalidKmer is returned by [Build] when the supplied k-mers do not all
// have the same length.
var ErrInvalidKmer = errors.New("k-mers must all have the same length")

// Graph is a de Bruijn style overlap graph whose nodes are k-mers.
//
// Nodes are owned by the graph and indexed by their seed k-mer. An edge
// u→v exists after construction exactly when the last k-1 characters of u
// equal the first k-1 characters of v. [Graph.Simplify] then collapses
// unambiguous chains into contigs.
//
// The zero value is an empty graph. Graph is not safe for concurrent use.
type Graph struct {
	k     int
	nodes map[string]*Node
}

// Build creates a graph from a k-mer → count mapping.
//
// Keys are visited in sorted order and the first key fixes k; any key of a
// different length fails with an error wrapping [ErrInvalidKmer]. Counts
// are input provenance only and are not stored. Successors are found
// through an index of nodes by their (k-1)-prefix, so construction is
// linear in the number of edges.
func Build(counts map[string]int) (*Graph, error) {
	keys := slices.Sorted(maps.Keys(counts))

	g := &Graph{nodes: make(map[string]*Node, len(keys))}
	if len(keys) == 0 {
		return g, nil
	}

	g.k = len(keys[0])
	if g.k == 0 {
		return nil, fmt.Errorf("%w: empty k-mer", ErrInvalidKmer)
	}
	for _, kmer := range keys {
		if len(kmer) != g.k {
			return nil, fmt.Errorf("%w: %q has length %d, expected %d", ErrInvalidKmer, kmer, len(kmer), g.k)
		}
		g.nodes[kmer] = NewNode(kmer)
	}

	byPrefix := make(map[string][]*Node, len(keys))
	for _, kmer := range keys {
		p := kmer[:g.k-1]
		byPrefix[p] = append(byPrefix[p], g.nodes[kmer])
	}
	for _, kmer := range keys {
		u := g.nodes[kmer]
		for _, v := range byPrefix[kmer[1:]] {
			u.AddForwardEdge(v)
		}
	}
	return g, nil
}

// K returns the k-mer length the graph was built with, or 0 for an empty graph.
func (g *Graph) K() int { return g.k }

// NodeCount returns the current number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the current number of distinct directed edges,
// self-loops included.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, node := range g.nodes {
		n += len(node.out)
	}
	return n
}

// Node returns the node seeded with kmer. After simplification only nodes
// that were not absorbed can be found.
func (g *Graph) Node(kmer string) (*Node, bool) {
	n, ok := g.nodes[kmer]
	return n, ok
}

// Nodes returns all nodes ordered by seed k-mer.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodes))
	for _, key := range slices.Sorted(maps.Keys(g.nodes)) {
		out = append(out, g.nodes[key])
	}
	return out
}

// Edge is a weighted directed edge between two nodes, identified by the
// nodes' seed k-mers.
type Edge struct {
	From   string
	To     string
	Weight int
}

// Edges returns every edge ordered by source then target key.
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for _, n := range g.Nodes() {
		for t, w := range n.out {
			edges = append(edges, Edge{From: n.key, To: t.key, Weight: w})
		}
	}
	slices.SortFunc(edges, func(a, b Edge) int {
		return cmp.Or(cmp.Compare(a.From, b.From), cmp.Compare(a.To, b.To))
	})
	return edges
}

// Simplify contracts every unambiguous chain into a single node and returns
// the number of nodes absorbed.
//
// Each surviving node is visited once from a work queue; it keeps absorbing
// its sole successor or predecessor while the junction is unambiguous in
// both directions. Absorbed nodes are dropped from the graph and skipped
// when dequeued. Eligibility only ever shrinks under absorption, so the
// final set of sequences and edges does not depend on visiting order. A
// chain that closes on itself ends as one node with a self-loop.
//
// Calling Simplify on an already simplified graph returns 0.
func (g *Graph) Simplify() int {
	return g.simplify(slices.Sorted(maps.Keys(g.nodes)))
}

// simplify runs the contraction visiting nodes in the given key order.
func (g *Graph) simplify(order []string) int {
	merged := 0
	for _, key := range order {
		n, ok := g.nodes[key]
		if !ok {
			continue
		}
		for {
			var absorbed *Node
			switch {
			case n.CanExtendForward():
				absorbed = n.ExtendForward()
			case n.CanExtendBackward():
				absorbed = n.ExtendBackward()
			}
			if absorbed == nil {
				break
			}
			delete(g.nodes, absorbed.key)
			merged++
		}
	}
	return merged
}

// Contigs returns one record per node, longest first (ties broken by
// sequence). Records are named "contig_<i> len=<n>" with i starting at 1.
func (g *Graph) Contigs() []seq.Record {
	seqs := make([]string, 0, len(g.nodes))
	for _, n := range g.nodes {
		seqs = append(seqs, n.seq)
	}
	slices.SortFunc(seqs, func(a, b string) int {
		return cmp.Or(cmp.Compare(len(b), len(a)), cmp.Compare(a, b))
	})

	records := make([]seq.Record, len(seqs))
	for i, s := range seqs {
		records[i] = seq.New(fmt.Sprintf("contig_%d len=%d", i+1, len(s)), s)
	}
	return records
}

// WriteFASTA writes [Graph.Contigs] to w, wrapping sequences at width.
func (g *Graph) WriteFASTA(w io.Writer, width int) error {
	return seq.WriteFASTA(w, g.Contigs(), width)
}

// FASTA returns [Graph.Contigs] as FASTA text wrapped at width.
func (g *Graph) FASTA(width int) string {
	var b strings.Builder
	_ = g.WriteFASTA(&b, width)
	return b.String()
}

// String summarises the graph size.
func (g *Graph) String() string {
	return fmt.Sprintf("dbg.Graph{k=%d nodes=%d edges=%d}", g.k, g.NodeCount(), g.EdgeCount())
}
