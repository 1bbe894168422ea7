package cli

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dbgasm/pkg/buildinfo"
	"github.com/matzehuels/dbgasm/pkg/cache"
	"github.com/matzehuels/dbgasm/pkg/config"
	"github.com/matzehuels/dbgasm/pkg/observability"
	"github.com/matzehuels/dbgasm/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "dbgasm"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any subcommand runs.
	Config     config.Config
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "dbgasm assembles reads into contigs with a de Bruijn graph",
		Long: `dbgasm is a small genome assembler. It splits reads into k-mers, links
k-mers that overlap by k-1 bases, collapses unambiguous paths, and writes
the resulting contigs as FASTA.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.loadConfig,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/dbgasm/config.toml)")

	// Register all subcommands
	root.AddCommand(c.assembleCommand())
	root.AddCommand(c.kmersCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file and registers logging hooks.
func (c *CLI) loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	if c.configPath != "" {
		c.Config, err = config.Load(c.configPath)
	} else {
		c.Config, err = config.LoadDefault()
	}
	if err != nil {
		return err
	}
	observability.UseLogger(c.Logger)
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if prefix := c.Config.Cache.KeyPrefix; prefix != "" {
		keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), prefix)
	}
	runner := pipeline.NewRunner(ch, keyer, c.Logger)
	runner.TTL = c.Config.Cache.TTL.Duration
	return runner, nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cfg := c.Config.Cache
	if cfg.Backend == "file" && cfg.Dir == "" {
		dir, err := cacheDir()
		if err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		cfg.Dir = dir
	}
	return cache.Open(ctx, cfg)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/dbgasm/).
func cacheDir() (string, error) {
	return cache.DefaultDir()
}

// outputBase derives the base path for output files from the input path:
// "reads/sample.fasta.gz" becomes "reads/sample". Stdin yields "contigs".
func outputBase(input string) string {
	if input == "-" || input == "" {
		return "contigs"
	}
	base := strings.TrimSuffix(input, ".gz")
	for _, ext := range []string{".fasta", ".fa", ".fna", ".fastq", ".fq"} {
		if strings.HasSuffix(strings.ToLower(base), ext) {
			return base[:len(base)-len(ext)]
		}
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
