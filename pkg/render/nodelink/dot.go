package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/dbgasm/pkg/dbg"
)

// maxLabel is the longest sequence shown in a compact node label.
const maxLabel = 24

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed shows the full sequence, its length and the node degrees.
	// When false, long sequences are shortened to their ends.
	Detailed bool
}

// ToDOT converts an overlap graph to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
//
// Nodes are identified by their seed k-mer and labelled with their current
// sequence. Edges carry a weight label when the weight is above one.
func ToDOT(g *dbg.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"monospace\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, opts.Detailed))}
		if n.InDegree() == 0 || n.OutDegree() == 0 {
			attrs = append(attrs, "fillcolor=lightyellow")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.Key(), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		if e.Weight > 1 {
			fmt.Fprintf(&buf, "  %q -> %q [label=\"%d\"];\n", e.From, e.To, e.Weight)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *dbg.Node, detailed bool) string {
	s := n.Sequence()
	if !detailed {
		return shorten(s)
	}
	return fmt.Sprintf("%s\nlen: %d\nin: %d out: %d", s, len(s), n.InDegree(), n.OutDegree())
}

func shorten(s string) string {
	if len(s) <= maxLabel {
		return s
	}
	half := (maxLabel - 3) / 2
	return s[:half] + "..." + s[len(s)-half:]
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
