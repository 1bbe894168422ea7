// Package cli implements the dbgasm command-line interface.
//
// The CLI reads FASTA reads, builds a de Bruijn graph from their k-mers and
// writes the simplified graph as contigs or as a graph document. It is built
// with cobra and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - assemble: Reads to contigs, with optional JSON, DOT and SVG graph output
//   - kmers: K-mer frequency table
//   - graph: Graph export before or after simplification
//   - browse: Interactive contig browser
//   - serve: HTTP assembly API
//   - cache: Manage the assembly result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context so long-running commands can report progress.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a logger writing to w with "15:04:05.00" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long a step took. Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg and keyvals with the elapsed time, e.g.
// "Counted k-mers reads=12 distinct=340 elapsed=3ms".
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}

type ctxKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// loggerFromContext returns the logger set by withLogger, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
