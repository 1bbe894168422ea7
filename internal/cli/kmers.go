package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dbgasm/pkg/errors"
	"github.com/matzehuels/dbgasm/pkg/seq"
)

// kmerCount is one row of the k-mer table.
type kmerCount struct {
	Kmer  string
	Count int
}

// kmersCommand creates the kmers command.
func (c *CLI) kmersCommand() *cobra.Command {
	var (
		k     int
		top   int
		plain bool
	)

	cmd := &cobra.Command{
		Use:   "kmers [reads.fasta]",
		Short: "Count k-mers in reads",
		Long: `Count the k-mers of every read and print the most frequent ones.

Rows are sorted by count (highest first), then alphabetically. Use --top 0
to print every k-mer and --plain for tab-separated output.`,
		Example: `  dbgasm kmers reads.fasta -k 5
  dbgasm kmers reads.fasta -k 21 --top 0 --plain > counts.tsv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("kmer") {
				k = c.Config.Assembly.K
			}
			return c.runKmers(cmd.Context(), args[0], k, top, plain)
		},
	}

	cmd.Flags().IntVarP(&k, "kmer", "k", 0, "k-mer length (default from config, 21)")
	cmd.Flags().IntVar(&top, "top", 20, "number of k-mers to show, 0 for all")
	cmd.Flags().BoolVar(&plain, "plain", false, "tab-separated output without styling")
	cmd.ValidArgsFunction = completeReads

	return cmd
}

func (c *CLI) runKmers(ctx context.Context, input string, k, top int, plain bool) error {
	if err := errors.ValidateKmerSize(k); err != nil {
		return err
	}
	if err := errors.ValidatePath(input); err != nil {
		return err
	}
	if top < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "--top must not be negative, got %d", top)
	}

	prog := newProgress(loggerFromContext(ctx))
	records, err := seq.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}
	counts := seq.CountKmers(records, k)
	rows := topKmers(counts, top)
	prog.done("Counted k-mers", "reads", len(records), "distinct", len(counts))

	if len(rows) == 0 {
		printWarning("No read is at least %d bases long", k)
		return nil
	}
	if plain {
		return writeKmersTSV(os.Stdout, rows)
	}
	fmt.Println(kmerTable(rows))
	return nil
}

// topKmers sorts counts by count descending, then k-mer, and keeps the
// first n rows. n <= 0 keeps all.
func topKmers(counts map[string]int, n int) []kmerCount {
	rows := make([]kmerCount, 0, len(counts))
	for kmer, count := range counts {
		rows = append(rows, kmerCount{kmer, count})
	}
	slices.SortFunc(rows, func(a, b kmerCount) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return strings.Compare(a.Kmer, b.Kmer)
	})
	if n > 0 && len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

func writeKmersTSV(w io.Writer, rows []kmerCount) error {
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%s\t%d\n", r.Kmer, r.Count); err != nil {
			return err
		}
	}
	return nil
}

// kmerTable renders rows as a bordered lipgloss table.
func kmerTable(rows []kmerCount) *table.Table {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(StyleDim).
		Headers("K-MER", "COUNT").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return StyleTitle.Padding(0, 1)
			case col == 1:
				return StyleNumber.Padding(0, 1).Align(lipgloss.Right)
			default:
				return StyleValue.Padding(0, 1)
			}
		})
	for _, r := range rows {
		t.Row(r.Kmer, fmt.Sprint(r.Count))
	}
	return t
}
