// Package dbg builds de Bruijn style overlap graphs from k-mer counts and
// simplifies them into contigs.
//
// # Overview
//
// Every distinct k-mer becomes a [Node]. An edge u→v is added whenever the
// last k-1 characters of u equal the first k-1 characters of v, regardless
// of which read the k-mers came from:
//
//	counts := seq.New("read", "ATGCGTAGC").Kmers(3)
//	g, err := dbg.Build(counts)
//	if err != nil {
//	    return err // errors.Is(err, dbg.ErrInvalidKmer)
//	}
//	g.NodeCount() // 7
//	g.EdgeCount() // 7
//
// # Simplification
//
// [Graph.Simplify] merges chains of nodes whose junctions are unambiguous:
// a node extends forward when it has exactly one successor and that
// successor has exactly one predecessor (and mirrored for backward). Nodes
// at branch points stay separate, and a chain that loops back to its own
// head stops as a single node with a self-loop:
//
//	g.Simplify()
//	g.NodeCount() // 2: "ATGC" and "GCGTAGC"
//	g.EdgeCount() // 2: ATGC→GCGTAGC and a self-loop on GCGTAGC
//
// # Edge Bookkeeping
//
// Each node keeps both an outgoing and an incoming weight map. Every edge
// mutation updates both endpoints through a single primitive, so
// u.ForwardWeight(v) == v.BackwardWeight(u) always holds. When a node is
// absorbed, its outer edges move to the absorbing node with their weights
// unchanged; weights are summed if an edge to the same target already exists.
//
// # Output
//
// [Graph.Contigs] returns surviving node sequences as [seq.Record] values
// and [Graph.FASTA] renders them as FASTA text.
package dbg
