package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dbgasm/pkg/dbg"
	"github.com/matzehuels/dbgasm/pkg/errors"
	dbgio "github.com/matzehuels/dbgasm/pkg/io"
	"github.com/matzehuels/dbgasm/pkg/pipeline"
	"github.com/matzehuels/dbgasm/pkg/render/nodelink"
)

// graphOpts holds the graph command flags.
type graphOpts struct {
	input    string
	k        int
	simplify bool
	format   string
	detailed bool
	output   string
}

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	var opts graphOpts

	cmd := &cobra.Command{
		Use:   "graph [reads.fasta]",
		Short: "Export the overlap graph",
		Long: `Build the k-mer overlap graph and export it without producing contigs.

By default the graph is written as it is after construction, with one node
per k-mer. Pass --simplify to collapse unambiguous paths first. DOT and SVG
show shortened labels unless --detailed is set; sources and sinks are
highlighted.`,
		Example: `  dbgasm graph reads.fasta -k 5 -f svg -o graph.svg
  dbgasm graph reads.fasta -k 5 --simplify --detailed -f dot | dot -Tpng > g.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.input = args[0]
			if !cmd.Flags().Changed("kmer") {
				opts.k = c.Config.Assembly.K
			}
			return c.runGraph(cmd.Context(), opts)
		},
	}

	cmd.Flags().IntVarP(&opts.k, "kmer", "k", 0, "k-mer length (default from config, 21)")
	cmd.Flags().BoolVar(&opts.simplify, "simplify", false, "merge unambiguous paths before export")
	cmd.Flags().StringVarP(&opts.format, "format", "f", pipeline.FormatDOT, "output format: dot, svg, json")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "full sequences and degrees in node labels")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "-", "output file, - for stdout")
	cmd.ValidArgsFunction = completeReads
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats(pipeline.FormatDOT, pipeline.FormatSVG, pipeline.FormatJSON))

	return cmd
}

func (c *CLI) runGraph(ctx context.Context, opts graphOpts) error {
	format := strings.ToLower(opts.format)
	if err := errors.ValidateFormat(format, pipeline.FormatDOT, pipeline.FormatSVG, pipeline.FormatJSON); err != nil {
		return err
	}
	if err := errors.ValidatePath(opts.input); err != nil {
		return err
	}

	runner := pipeline.NewRunner(nil, nil, loggerFromContext(ctx))
	records, _, err := runner.Read(ctx, pipeline.Options{Input: opts.input})
	if err != nil {
		return err
	}
	g, stats, err := runner.BuildGraph(ctx, records, opts.k)
	if err != nil {
		return err
	}
	if opts.simplify {
		stats.Merges = g.Simplify()
	}
	c.Logger.Debug("graph ready", "nodes", g.NodeCount(), "edges", g.EdgeCount(), "merges", stats.Merges)

	data, err := exportGraph(ctx, g, format, opts.detailed)
	if err != nil {
		return err
	}
	if opts.output == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := writeFile(opts.output, data); err != nil {
		return err
	}
	printSuccess("Exported graph with %d nodes and %d edges", g.NodeCount(), g.EdgeCount())
	printFile(opts.output)
	return nil
}

// exportGraph encodes g in one of the graph formats.
func exportGraph(ctx context.Context, g *dbg.Graph, format string, detailed bool) ([]byte, error) {
	switch format {
	case pipeline.FormatJSON:
		var buf bytes.Buffer
		if err := dbgio.WriteJSON(g, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case pipeline.FormatSVG:
		svg, err := nodelink.RenderSVG(ctx, nodelink.ToDOT(g, nodelink.Options{Detailed: detailed}))
		if err != nil {
			return nil, fmt.Errorf("render svg: %w", err)
		}
		return svg, nil
	default:
		return []byte(nodelink.ToDOT(g, nodelink.Options{Detailed: detailed})), nil
	}
}
