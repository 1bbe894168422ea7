package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/dbgasm/pkg/dbg"
)

// Graph is the JSON document written by [WriteJSON].
type Graph struct {
	K     int    `json:"k"`
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is one graph node in the JSON document.
type Node struct {
	Key       string `json:"key"`
	Sequence  string `json:"sequence"`
	Length    int    `json:"length"`
	InDegree  int    `json:"in_degree"`
	OutDegree int    `json:"out_degree"`
}

// Edge is one weighted overlap in the JSON document.
type Edge struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Weight int    `json:"weight"`
}

// FromGraph converts g into its JSON document form.
func FromGraph(g *dbg.Graph) Graph {
	nodes := g.Nodes()
	edges := g.Edges()
	out := Graph{
		K:     g.K(),
		Nodes: make([]Node, len(nodes)),
		Edges: make([]Edge, len(edges)),
	}
	for i, n := range nodes {
		out.Nodes[i] = Node{
			Key:       n.Key(),
			Sequence:  n.Sequence(),
			Length:    len(n.Sequence()),
			InDegree:  n.InDegree(),
			OutDegree: n.OutDegree(),
		}
	}
	for i, e := range edges {
		out.Edges[i] = Edge(e)
	}
	return out
}

// WriteJSON encodes an overlap graph as indented JSON and writes it to w.
func WriteJSON(g *dbg.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromGraph(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes an overlap graph to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(g *dbg.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(g, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
