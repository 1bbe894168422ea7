// Package nodelink renders overlap graphs as node-link diagrams.
//
// # Usage
//
// Convert a graph to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: false})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # DOT Format
//
// The generated DOT uses left-to-right layout (rankdir=LR) so contigs read
// in the same direction as their sequences. Nodes without predecessors or
// successors (contig ends) are highlighted. Self-loops, such as those left
// by collapsed cycles, are drawn as regular edges.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering, so no Graphviz installation is required.
package nodelink
