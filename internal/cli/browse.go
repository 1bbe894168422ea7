package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dbgasm/pkg/pipeline"
)

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	var noCache bool
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "browse [reads.fasta]",
		Short: "Assemble reads and browse the contigs interactively",
		Long: `Assemble reads and open an interactive contig browser.

Contigs are listed longest first. Use the arrow keys (or j/k) to move,
enter to show the full sequence and q to quit.`,
		Example: `  dbgasm browse reads.fasta -k 31`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Input = args[0]
			c.applyAssemblyDefaults(cmd, &opts, pipeline.FormatFASTA)
			return c.runBrowse(cmd.Context(), opts, noCache)
		},
	}

	cmd.Flags().IntVarP(&opts.K, "kmer", "k", 0, "k-mer length (default from config, 21)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached results")
	cmd.ValidArgsFunction = completeReads

	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, opts pipeline.Options, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

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

	title := fmt.Sprintf("%s (k=%d)", opts.Input, opts.K)
	p := tea.NewProgram(newBrowser(title, result.Contigs, result.Stats), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("browser: %w", err)
	}
	return nil
}
