package io

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/dbgasm/pkg/dbg"
	"github.com/matzehuels/dbgasm/pkg/seq"
)

func simplified(t *testing.T) *dbg.Graph {
	t.Helper()
	g, err := dbg.Build(seq.New("read", "ATGCGTAGC").Kmers(3))
	if err != nil {
		t.Fatal(err)
	}
	g.Simplify()
	return g
}

func TestWriteJSON(t *testing.T) {
	g := simplified(t)

	var buf bytes.Buffer
	if err := WriteJSON(g, &buf); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}

	var doc Graph
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if doc.K != 3 {
		t.Errorf("k = %d, want 3", doc.K)
	}
	if len(doc.Nodes) != 2 || len(doc.Edges) != 2 {
		t.Fatalf("nodes=%d edges=%d, want 2/2", len(doc.Nodes), len(doc.Edges))
	}

	bySeq := make(map[string]Node)
	keys := make(map[string]bool)
	for _, n := range doc.Nodes {
		bySeq[n.Sequence] = n
		keys[n.Key] = true
		if n.Length != len(n.Sequence) {
			t.Errorf("node %s: length %d", n.Key, n.Length)
		}
	}
	if n := bySeq["ATGC"]; n.InDegree != 0 || n.OutDegree != 1 {
		t.Errorf("ATGC degrees = %d/%d, want 0/1", n.InDegree, n.OutDegree)
	}
	if n := bySeq["GCGTAGC"]; n.InDegree != 2 || n.OutDegree != 1 {
		t.Errorf("GCGTAGC degrees = %d/%d, want 2/1", n.InDegree, n.OutDegree)
	}
	for _, e := range doc.Edges {
		if !keys[e.From] || !keys[e.To] || e.Weight != 1 {
			t.Errorf("edge %+v does not reference node keys", e)
		}
	}
}

func TestWriteJSONDeterministic(t *testing.T) {
	var a, b bytes.Buffer
	if err := WriteJSON(simplified(t), &a); err != nil {
		t.Fatal(err)
	}
	if err := WriteJSON(simplified(t), &b); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Errorf("output differs between runs:\n%s\n%s", a.String(), b.String())
	}
}

func TestExportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	if err := ExportJSON(simplified(t), path); err != nil {
		t.Fatalf("ExportJSON() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !json.Valid(data) {
		t.Error("exported file is not valid JSON")
	}

	if err := ExportJSON(simplified(t), filepath.Join(t.TempDir(), "missing", "g.json")); err == nil {
		t.Error("ExportJSON() into a missing directory should fail")
	}
}
