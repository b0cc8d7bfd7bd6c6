// Package cli implements the slicer command-line interface.
//
// The single root command takes a release version, an architecture and a
// package name, and prints the package's slice manifest to stdout. The CLI
// is built using cobra and logs through charmbracelet/log on stderr.
//
// # Logging
//
// --verbose (-v) enables debug-level logging, which includes every HTTP
// request and pipeline stage. Each run is tagged with a short run ID. The
// logger travels through context.Context so hooks can find it.
//
// # Example
//
//	c := cli.New(os.Stdout, os.Stderr, cli.LogInfo)
//	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	    os.Exit(cli.ExitCode(err))
//	}
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/slicer/pkg/manifest"
)

// runKey is the log field carrying the run ID.
const runKey = "run"

// newLogger returns a stderr-style logger with "HH:MM:SS.cs" timestamps,
// filtering at level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// runLogger tags base with a fresh eight-character run ID and returns the
// tagged logger and the ID.
func runLogger(base *log.Logger) (*log.Logger, string) {
	id := uuid.NewString()[:8]
	return base.With(runKey, id), id
}

// progress times one manifest generation.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs the summary line for m:
//
//	Generated manifest for curl (1.234s) deps=2 paths=14 license=1
func (p *progress) done(m *manifest.Manifest) {
	var deps, paths, license int
	if all := m.Slice(manifest.SliceAll); all != nil {
		deps, paths = len(all.Essential), len(all.Contents)
	}
	if cr := m.Slice(manifest.SliceCopyright); cr != nil {
		license = len(cr.Contents)
	}
	elapsed := time.Since(p.start).Round(time.Millisecond)
	p.logger.Info(fmt.Sprintf("Generated manifest for %s (%s)", m.Package, elapsed),
		"deps", deps, "paths", paths, "license", license)
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the run logger attached by runSlice, or
// log.Default() outside a run.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
