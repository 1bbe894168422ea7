package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matzehuels/dbgasm/pkg/dbg"
	"github.com/matzehuels/dbgasm/pkg/errors"
	dbgio "github.com/matzehuels/dbgasm/pkg/io"
	"github.com/matzehuels/dbgasm/pkg/render/nodelink"
)

// Render produces one artifact per format from g. The DOT source is
// generated once and shared by the dot and svg formats.
func Render(ctx context.Context, g *dbg.Graph, formats []string, lineWidth int) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(formats))
	var dot string

	for _, format := range formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		switch format {
		case FormatFASTA:
			artifacts[format] = []byte(g.FASTA(lineWidth))
		case FormatJSON:
			var buf bytes.Buffer
			if err := dbgio.WriteJSON(g, &buf); err != nil {
				return nil, fmt.Errorf("json: %w", err)
			}
			artifacts[format] = buf.Bytes()
		case FormatDOT, FormatSVG:
			if dot == "" {
				dot = nodelink.ToDOT(g, nodelink.Options{})
			}
			if format == FormatDOT {
				artifacts[format] = []byte(dot)
				continue
			}
			svg, err := nodelink.RenderSVG(ctx, dot)
			if err != nil {
				return nil, fmt.Errorf("svg: %w", err)
			}
			artifacts[format] = svg
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
		}
	}
	return artifacts, nil
}
