package dbg

import (
	"errors"
	"maps"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/dbgasm/pkg/seq"
)

func mustBuild(t *testing.T, counts map[string]int) *Graph {
	t.Helper()
	g, err := Build(counts)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return g
}

func sequences(g *Graph) []string {
	var out []string
	for _, n := range g.Nodes() {
		out = append(out, n.Sequence())
	}
	slices.Sort(out)
	return out
}

// edgeSet describes edges by current sequences so graphs simplified in
// different orders can be compared.
func edgeSet(g *Graph) map[string]int {
	out := make(map[string]int)
	for _, n := range g.Nodes() {
		for t, w := range n.out {
			out[n.Sequence()+"->"+t.Sequence()] = w
		}
	}
	return out
}

func assertConsistent(t *testing.T, g *Graph) {
	t.Helper()
	for _, u := range g.Nodes() {
		for v, w := range u.out {
			if v.in[u] != w {
				t.Errorf("%s→%s: out=%d in=%d", u.Sequence(), v.Sequence(), w, v.in[u])
			}
			if _, ok := g.nodes[v.key]; !ok {
				t.Errorf("%s points at removed node %s", u.Sequence(), v.Sequence())
			}
		}
		for p, w := range u.in {
			if p.out[u] != w {
				t.Errorf("%s←%s: in=%d out=%d", u.Sequence(), p.Sequence(), w, p.out[u])
			}
		}
	}
}

func TestBuildEdgeCount(t *testing.T) {
	g := mustBuild(t, map[string]int{"AGT": 2, "GTC": 1, "TCA": 2, "GTG": 3})

	if got := g.NodeCount(); got != 4 {
		t.Errorf("NodeCount() = %d, want 4", got)
	}
	if got := g.EdgeCount(); got != 3 {
		t.Errorf("EdgeCount() = %d, want 3", got)
	}

	want := []Edge{
		{From: "AGT", To: "GTC", Weight: 1},
		{From: "AGT", To: "GTG", Weight: 1},
		{From: "GTC", To: "TCA", Weight: 1},
	}
	if got := g.Edges(); !slices.Equal(got, want) {
		t.Errorf("Edges() = %v, want %v", got, want)
	}
	if g.K() != 3 {
		t.Errorf("K() = %d, want 3", g.K())
	}
}

func TestBuildIgnoresCounts(t *testing.T) {
	a := mustBuild(t, map[string]int{"AGT": 1, "GTC": 1})
	b := mustBuild(t, map[string]int{"AGT": 50, "GTC": 7})
	if !maps.Equal(edgeSet(a), edgeSet(b)) {
		t.Errorf("edges differ: %v vs %v", edgeSet(a), edgeSet(b))
	}
}

func TestBuildInvalidKmer(t *testing.T) {
	tests := []struct {
		name   string
		counts map[string]int
	}{
		{"longer in middle", map[string]int{"AGT": 2, "GTC": 1, "TCAA": 2, "GTG": 3}},
		{"shorter first", map[string]int{"AG": 1, "GTC": 1, "TCA": 1}},
		{"longer last", map[string]int{"AGT": 1, "GTC": 1, "TTTT": 1}},
		{"empty kmer", map[string]int{"": 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Build(tt.counts)
			if !errors.Is(err, ErrInvalidKmer) {
				t.Fatalf("Build() error = %v, want ErrInvalidKmer", err)
			}
			if g != nil {
				t.Error("Build() should not return a graph on error")
			}
		})
	}
}

func TestBuildEmpty(t *testing.T) {
	g := mustBuild(t, nil)
	if g.NodeCount() != 0 || g.EdgeCount() != 0 {
		t.Errorf("empty build: %s", g)
	}
	if merged := g.Simplify(); merged != 0 {
		t.Errorf("Simplify() on empty graph = %d, want 0", merged)
	}
}

func TestBuildOverlapIsStructural(t *testing.T) {
	// "ACG" and "CGT" come from different reads but still overlap.
	counts := seq.CountKmers([]seq.Record{seq.New("r1", "AACG"), seq.New("r2", "CGTT")}, 3)
	g := mustBuild(t, counts)

	u, _ := g.Node("ACG")
	v, _ := g.Node("CGT")
	if u.ForwardWeight(v) != 1 {
		t.Error("expected edge ACG→CGT across reads")
	}
	if got := g.EdgeCount(); got != 3 {
		t.Errorf("EdgeCount() = %d, want 3", got)
	}
}

func TestBuildSelfLoopAndK1(t *testing.T) {
	g := mustBuild(t, map[string]int{"AAA": 4})
	n, _ := g.Node("AAA")
	if n.ForwardWeight(n) != 1 || g.EdgeCount() != 1 {
		t.Error("AAA should overlap itself exactly once")
	}

	// With k=1 the overlap is empty, so every ordered pair is connected.
	g = mustBuild(t, map[string]int{"A": 5, "C": 5, "G": 6, "T": 5})
	if got := g.EdgeCount(); got != 16 {
		t.Errorf("k=1 EdgeCount() = %d, want 16", got)
	}
}

func TestSimplify(t *testing.T) {
	g := mustBuild(t, seq.New("read", "ATGCGTAGC").Kmers(3))

	if g.NodeCount() != 7 || g.EdgeCount() != 7 {
		t.Fatalf("before Simplify: nodes=%d edges=%d, want 7/7", g.NodeCount(), g.EdgeCount())
	}

	merged := g.Simplify()

	if merged != 5 {
		t.Errorf("Simplify() = %d, want 5", merged)
	}
	if g.NodeCount() != 2 || g.EdgeCount() != 2 {
		t.Errorf("after Simplify: nodes=%d edges=%d, want 2/2", g.NodeCount(), g.EdgeCount())
	}
	want := []string{"ATGC", "GCGTAGC"}
	if got := sequences(g); !slices.Equal(got, want) {
		t.Errorf("sequences = %v, want %v", got, want)
	}
	wantEdges := map[string]int{"ATGC->GCGTAGC": 1, "GCGTAGC->GCGTAGC": 1}
	if got := edgeSet(g); !maps.Equal(got, wantEdges) {
		t.Errorf("edges = %v, want %v", got, wantEdges)
	}
	assertConsistent(t, g)
}

func TestSimplifyIdempotent(t *testing.T) {
	g := mustBuild(t, seq.New("read", "ATGCGTAGC").Kmers(3))
	g.Simplify()
	before, edges := sequences(g), edgeSet(g)

	if merged := g.Simplify(); merged != 0 {
		t.Errorf("second Simplify() = %d, want 0", merged)
	}
	if !slices.Equal(sequences(g), before) || !maps.Equal(edgeSet(g), edges) {
		t.Error("second Simplify() changed the graph")
	}
}

func TestSimplifyOrderIndependent(t *testing.T) {
	inputs := []string{
		"ATGCGTAGC",
		"ACGTTGCATTACGGATCCGTAAGCTTGCA",
		"TTTTTTGGGGGCCCCCAAAAA",
		"ACGACGACGTTT",
	}
	for _, in := range inputs {
		for _, k := range []int{2, 3, 4, 5} {
			counts := seq.New("r", in).Kmers(k)

			forward := mustBuild(t, counts)
			forward.Simplify()

			reverse := mustBuild(t, counts)
			order := slices.Sorted(maps.Keys(reverse.nodes))
			slices.Reverse(order)
			reverse.simplify(order)

			if !slices.Equal(sequences(forward), sequences(reverse)) {
				t.Errorf("%s k=%d: sequences %v vs %v", in, k, sequences(forward), sequences(reverse))
			}
			if !maps.Equal(edgeSet(forward), edgeSet(reverse)) {
				t.Errorf("%s k=%d: edges %v vs %v", in, k, edgeSet(forward), edgeSet(reverse))
			}
			assertConsistent(t, forward)
			assertConsistent(t, reverse)
		}
	}
}

func TestSimplifyCycle(t *testing.T) {
	g := mustBuild(t, map[string]int{"ACG": 1, "CGA": 1, "GAC": 1})

	if merged := g.Simplify(); merged != 2 {
		t.Errorf("Simplify() = %d, want 2", merged)
	}
	if g.NodeCount() != 1 || g.EdgeCount() != 1 {
		t.Fatalf("nodes=%d edges=%d, want 1/1", g.NodeCount(), g.EdgeCount())
	}
	n := g.Nodes()[0]
	if n.ForwardWeight(n) != 1 {
		t.Error("cycle should end as a self-loop")
	}
	if got := n.Sequence(); got != "ACGAC" {
		t.Errorf("Sequence() = %q, want %q", got, "ACGAC")
	}
}

func TestSimplifyLinearRead(t *testing.T) {
	read := "ACGTTGCAAT"
	g := mustBuild(t, seq.New("r", read).Kmers(4))
	g.Simplify()

	if got := sequences(g); !slices.Equal(got, []string{read}) {
		t.Errorf("sequences = %v, want [%s]", got, read)
	}
	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount() = %d, want 0", g.EdgeCount())
	}
}

func TestContigsOrder(t *testing.T) {
	g := mustBuild(t, seq.New("read", "ATGCGTAGC").Kmers(3))
	g.Simplify()

	contigs := g.Contigs()
	if len(contigs) != 2 {
		t.Fatalf("len(Contigs()) = %d, want 2", len(contigs))
	}
	if contigs[0].Bases() != "GCGTAGC" || contigs[0].Name != "contig_1 len=7" {
		t.Errorf("contigs[0] = %v", contigs[0])
	}
	if contigs[1].Bases() != "ATGC" || contigs[1].Name != "contig_2 len=4" {
		t.Errorf("contigs[1] = %v", contigs[1])
	}
}

func TestFASTA(t *testing.T) {
	g := mustBuild(t, seq.New("read", "ATGCGTAGC").Kmers(3))
	g.Simplify()

	for _, width := range []int{0, 3, 60} {
		fasta := g.FASTA(width)

		var got []string
		for _, rec := range strings.Split(fasta, ">")[1:] {
			lines := strings.Split(rec, "\n")
			got = append(got, strings.Join(lines[1:], ""))
		}
		slices.Sort(got)
		if want := []string{"ATGC", "GCGTAGC"}; !slices.Equal(got, want) {
			t.Errorf("width %d: sequences in FASTA = %v, want %v\n%s", width, got, want, fasta)
		}
	}
}
