package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dbgasm/internal/server"
	"github.com/matzehuels/dbgasm/pkg/config"
	"github.com/matzehuels/dbgasm/pkg/observability"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		metrics bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the assembly API over HTTP",
		Long: `Serve the assembly API over HTTP.

Endpoints:
  GET  /health            liveness check
  POST /api/v1/assemble   assemble FASTA sent as JSON
  GET  /metrics           Prometheus metrics (with --metrics)

The server uses the cache backend from the config file, so several
instances can share a Redis or MongoDB cache.`,
		Example: `  dbgasm serve --addr :9000
  curl -s localhost:9000/api/v1/assemble -H 'Content-Type: application/json' \
    -d '{"fasta": ">r\nATGCGTAGC\n", "k": 3}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.Config.Server
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("metrics") {
				cfg.Metrics = metrics
			}
			return c.runServe(cmd.Context(), cfg, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address")
	cmd.Flags().BoolVar(&metrics, "metrics", false, "expose Prometheus metrics on /metrics")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg config.Server, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	logger := loggerFromContext(ctx)
	var opts []server.Option
	if cfg.Metrics {
		m := observability.NewMetrics(appName)
		observability.UseLoggerAndMetrics(logger, m)
		opts = append(opts, server.WithMetrics(m.Handler()))
	}

	printSuccess("Serving assembly API")
	printKeyValue("address", StyleLink.Render(serverURL(cfg.Addr)))
	printKeyValue("cache", c.Config.Cache.Backend)
	if cfg.Metrics {
		printKeyValue("metrics", StyleLink.Render(serverURL(cfg.Addr)+"/metrics"))
	}

	return server.New(runner, cfg, logger, opts...).ListenAndServe(ctx)
}

// serverURL turns a listen address into a browsable URL.
func serverURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}
