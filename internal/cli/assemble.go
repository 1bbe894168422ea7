package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dbgasm/pkg/pipeline"
)

// formatSuffix maps output formats to file name suffixes.
var formatSuffix = map[string]string{
	pipeline.FormatFASTA: ".contigs.fasta",
	pipeline.FormatJSON:  ".graph.json",
	pipeline.FormatDOT:   ".graph.dot",
	pipeline.FormatSVG:   ".graph.svg",
}

// assembleCommand creates the assemble command.
func (c *CLI) assembleCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "assemble [reads.fasta]",
		Short: "Assemble reads into contigs",
		Long: `Assemble reads into contigs.

The reads are split into k-mers, every k-mer becomes a graph node, and nodes
overlapping by k-1 bases are linked. Unambiguous paths are then merged and
every remaining node is written as a contig, longest first.

Output files are named after the input (or -o): sample.contigs.fasta,
sample.graph.json, sample.graph.dot and sample.graph.svg. Use "-o -" with a
single format to write to stdout. Reads can be gzipped; "-" reads stdin.

Results are cached locally for faster subsequent runs.`,
		Example: `  dbgasm assemble reads.fasta -k 31
  dbgasm assemble reads.fa.gz -f fasta,svg -o out/sample
  cat reads.fasta | dbgasm assemble - -k 15 -o -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Input = args[0]
			c.applyAssemblyDefaults(cmd, &opts, formatsStr)
			return c.runAssemble(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().IntVarP(&opts.K, "kmer", "k", 0, "k-mer length (default from config, 21)")
	cmd.Flags().IntVarP(&opts.LineWidth, "width", "w", 0, "FASTA line width, 0 for single-line (default from config, 60)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): fasta, json, dot, svg (comma-separated)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path, or - for stdout")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached results")
	cmd.ValidArgsFunction = completeReads
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats(allFormats...))

	return cmd
}

// applyAssemblyDefaults fills options the user did not set from the config file.
func (c *CLI) applyAssemblyDefaults(cmd *cobra.Command, opts *pipeline.Options, formatsStr string) {
	if !cmd.Flags().Changed("kmer") {
		opts.K = c.Config.Assembly.K
	}
	if cmd.Flags().Lookup("width") != nil && !cmd.Flags().Changed("width") {
		opts.LineWidth = c.Config.Assembly.LineWidth
	}
	opts.Formats = parseFormats(formatsStr)
	if len(opts.Formats) == 0 {
		opts.Formats = c.Config.Assembly.Formats
	}
	opts.Logger = c.Logger
}

// runAssemble runs the pipeline and writes the artifacts.
func (c *CLI) runAssemble(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if output == "-" && len(opts.Formats) != 1 {
		return fmt.Errorf("-o - needs exactly one format, got %d", len(opts.Formats))
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	if output == "-" {
		result, err := runner.Execute(ctx, opts)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(result.Artifacts[opts.Formats[0]])
		return err
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Assembling %s (k=%d)...", opts.Input, opts.K))
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		if spinner.Cancelled() {
			spinner.Stop()
			return err
		}
		spinner.StopWithError("Assembly failed")
		return err
	}
	spinner.Stop()

	if output == "" {
		output = outputBase(opts.Input)
	}
	printSuccess("Assembled %d contigs", len(result.Contigs))
	printStats(result.Stats, result.CacheHit)
	if err := writeArtifacts(result.Artifacts, opts.Formats, output); err != nil {
		return err
	}
	if len(result.Contigs) > 0 {
		printNewline()
		printNextStep("Browse contigs", fmt.Sprintf("%s browse %s -k %d", appName, opts.Input, opts.K))
	}
	return nil
}

// writeArtifacts writes each artifact to base + its format suffix.
func writeArtifacts(artifacts map[string][]byte, formats []string, base string) error {
	for _, format := range formats {
		path := base + formatSuffix[format]
		if err := writeFile(path, artifacts[format]); err != nil {
			return err
		}
		printFile(path)
	}
	return nil
}

// writeFile writes data to path, creating parent directories.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
