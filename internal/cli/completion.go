package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dbgasm/pkg/pipeline"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for dbgasm and print it to stdout.

Completions cover subcommands, flags, FASTA inputs and --format values.`,
		Example: `  source <(dbgasm completion bash)
  dbgasm completion zsh > "${fpath[1]}/_dbgasm"
  dbgasm completion fish > ~/.config/fish/completions/dbgasm.fish`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, out := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			default:
				return root.GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// readsExtensions are offered when completing a reads argument.
var readsExtensions = []string{"fasta", "fa", "fna", "gz"}

// completeReads completes the single reads-file argument.
func completeReads(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return readsExtensions, cobra.ShellCompDirectiveFilterFileExt
}

// completeFormats completes a comma-separated --format value. Formats
// already listed are not offered again.
func completeFormats(allowed ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		done, last := "", toComplete
		if i := strings.LastIndex(toComplete, ","); i >= 0 {
			done, last = toComplete[:i+1], toComplete[i+1:]
		}
		var out []string
		for _, f := range allowed {
			if strings.HasPrefix(f, last) && !strings.Contains(","+done, ","+f+",") {
				out = append(out, done+f)
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
	}
}

var allFormats = []string{pipeline.FormatFASTA, pipeline.FormatJSON, pipeline.FormatDOT, pipeline.FormatSVG}
