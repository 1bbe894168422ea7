package dbg

// bases is the nucleotide alphabet used to enumerate candidate neighbours.
var bases = [4]byte{'A', 'C', 'G', 'T'}

// Node is a vertex of the overlap graph.
//
// A node starts out labelled with a single k-mer and grows as it absorbs
// unambiguous neighbours. Outgoing and incoming weights are stored twice,
// once on each endpoint, and both copies are always mutated together:
// for any nodes u and v, u.ForwardWeight(v) == v.BackwardWeight(u).
//
// Node is not safe for concurrent use.
type Node struct {
	key string // seed k-mer, identity within a Graph
	seq string

	out map[*Node]int
	in  map[*Node]int
}

// NewNode creates an unconnected node labelled with kmer.
func NewNode(kmer string) *Node {
	return &Node{
		key: kmer,
		seq: kmer,
		out: make(map[*Node]int),
		in:  make(map[*Node]int),
	}
}

// Key returns the k-mer the node was created from. It does not change when
// the node absorbs neighbours.
func (n *Node) Key() string { return n.key }

// Sequence returns the node's current label: its seed k-mer extended by
// every absorbed neighbour.
func (n *Node) Sequence() string { return n.seq }

// OutDegree returns the number of distinct successors, self included.
func (n *Node) OutDegree() int { return len(n.out) }

// InDegree returns the number of distinct predecessors, self included.
func (n *Node) InDegree() int { return len(n.in) }

// Successors returns the node's successors in no particular order.
func (n *Node) Successors() []*Node {
	out := make([]*Node, 0, len(n.out))
	for s := range n.out {
		out = append(out, s)
	}
	return out
}

// link adds w to the edge from→to on both endpoints. It is the only place
// edge weight is increased.
func link(from, to *Node, w int) {
	from.out[to] += w
	to.in[from] += w
}

// unlink removes the edge from→to from both endpoints and returns its weight.
func unlink(from, to *Node) int {
	w := from.out[to]
	delete(from.out, to)
	delete(to.in, from)
	return w
}

// AddForwardEdge records one more traversal of the edge n→other.
// Self-edges are allowed.
func (n *Node) AddForwardEdge(other *Node) { link(n, other, 1) }

// AddBackwardEdge records one more traversal of the edge other→n.
func (n *Node) AddBackwardEdge(other *Node) { link(other, n, 1) }

// ForwardWeight returns the weight of n→other, or 0 if there is no such edge.
func (n *Node) ForwardWeight(other *Node) int { return n.out[other] }

// BackwardWeight returns the weight of other→n, or 0 if there is no such edge.
func (n *Node) BackwardWeight(other *Node) int { return n.in[other] }

// CandidatePredecessors returns the four k-mers that could overlap into
// this node from the left: each base followed by the sequence minus its
// last character. The graph is not consulted.
func (n *Node) CandidatePredecessors() []string {
	core := n.seq[:len(n.seq)-1]
	out := make([]string, 0, len(bases))
	for _, b := range bases {
		out = append(out, string(b)+core)
	}
	return out
}

// CandidateSuccessors returns the four k-mers this node could overlap
// into: the sequence minus its first character followed by each base.
func (n *Node) CandidateSuccessors() []string {
	core := n.seq[1:]
	out := make([]string, 0, len(bases))
	for _, b := range bases {
		out = append(out, core+string(b))
	}
	return out
}

// soleSuccessor returns the only successor of n, or nil when n has zero or
// several.
func (n *Node) soleSuccessor() *Node {
	if len(n.out) != 1 {
		return nil
	}
	for s := range n.out {
		return s
	}
	return nil
}

func (n *Node) solePredecessor() *Node {
	if len(n.in) != 1 {
		return nil
	}
	for p := range n.in {
		return p
	}
	return nil
}

// CanExtendForward reports whether n has exactly one successor, that
// successor has exactly one predecessor, and the successor is not n itself.
func (n *Node) CanExtendForward() bool {
	s := n.soleSuccessor()
	return s != nil && s != n && len(s.in) == 1
}

// CanExtendBackward reports whether n has exactly one predecessor, that
// predecessor has exactly one successor, and the predecessor is not n itself.
func (n *Node) CanExtendBackward() bool {
	p := n.solePredecessor()
	return p != nil && p != n && len(p.out) == 1
}

// ExtendForward absorbs the sole successor s into n and returns s.
//
// Every outgoing edge of s becomes an outgoing edge of n with the same
// weight; an edge from s back to n becomes a self-loop on n. The edge n→s
// is removed, n's sequence gains the last character of s, and s is left
// with no edges. The caller must remove s from its graph.
//
// ExtendForward panics if CanExtendForward is false.
func (n *Node) ExtendForward() *Node {
	if !n.CanExtendForward() {
		panic("dbg: ExtendForward on node " + n.key + " without a unique successor")
	}
	s := n.soleSuccessor()
	unlink(n, s)
	for t := range s.out {
		w := unlink(s, t)
		if t == s {
			continue
		}
		link(n, t, w)
	}
	n.seq += s.seq[len(s.seq)-1:]
	s.detach()
	return s
}

// ExtendBackward absorbs the sole predecessor p into n and returns p.
// It mirrors [Node.ExtendForward]: incoming edges of p move to n and n's
// sequence gains the first character of p at the front.
//
// ExtendBackward panics if CanExtendBackward is false.
func (n *Node) ExtendBackward() *Node {
	if !n.CanExtendBackward() {
		panic("dbg: ExtendBackward on node " + n.key + " without a unique predecessor")
	}
	p := n.solePredecessor()
	unlink(p, n)
	for t := range p.in {
		w := unlink(t, p)
		if t == p {
			continue
		}
		link(t, n, w)
	}
	n.seq = p.seq[:1] + n.seq
	p.detach()
	return p
}

// detach drops every remaining edge of n on both endpoints.
func (n *Node) detach() {
	for t := range n.out {
		unlink(n, t)
	}
	for p := range n.in {
		unlink(p, n)
	}
}
