package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/slicer/pkg/buildinfo"
	"github.com/matzehuels/slicer/pkg/config"
	"github.com/matzehuels/slicer/pkg/release"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "slicer"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// Exit codes.
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitInvalid   = 2   // invalid arguments or configuration; no manifest
	ExitDegraded  = 3   // manifest printed but a stage failed (--strict only)
	ExitCancelled = 130 // standard shell convention for SIGINT
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for the command.
type CLI struct {
	Logger *log.Logger
	Out    io.Writer // manifest and input diagnostics
	Err    io.Writer // logs and warnings
}

// New creates a new CLI instance writing manifests to out and logs to errw.
func New(out, errw io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(errw, level),
		Out:    out,
		Err:    errw,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command.
func (c *CLI) RootCommand() *cobra.Command {
	opts := sliceOpts{}

	root := &cobra.Command{
		Use:   appName + " <release> <arch> <package>",
		Short: "Generate a slice definition for an Ubuntu package",
		Long: fmt.Sprintf(`Slicer fetches a package's dependencies and file list from packages.ubuntu.com,
drops documentation and other noise, and prints a slice definition as YAML.

Arguments:
  release   Ubuntu release version, one of: %s
  arch      Architecture, e.g. amd64, arm64, s390x
  package   Debian package name, e.g. curl, libssl3, python3.12-minimal

Examples:
  slicer 24.04 amd64 curl
  slicer 22.04 arm64 libssl3 > libssl3.yaml
  slicer --variant legacy 23.10 amd64 python3.12-minimal`, strings.Join(release.Versions(), ", ")),
		Version:       buildinfo.Version,
		Args:          exactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.verbose {
				c.SetLogLevel(LogDebug)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSlice(cmd, &opts, args[0], args[1], args[2])
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.Out)
	root.SetErr(c.Err)

	flags := root.Flags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	flags.StringVar(&opts.baseURL, "base-url", "", "package site URL (default from config)")
	flags.StringVar(&opts.variant, "variant", "", "output variant: default or legacy")
	flags.BoolVar(&opts.noGeneralize, "no-generalize", false, "keep concrete paths instead of glob patterns")
	flags.BoolVar(&opts.strict, "strict", false, "exit with status 3 if a fetch failed")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")

	return root
}

// exactArgs wraps cobra.ExactArgs so that a wrong argument count is an
// input error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return &ExitError{Code: ExitInvalid, Err: err}
		}
		return nil
	}
}

// =============================================================================
// Exit Status
// =============================================================================

// ExitError carries the process exit status for a failed run.
// Silent errors have already been reported to the user.
type ExitError struct {
	Code   int
	Err    error
	Silent bool
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode returns the process exit status for err.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, context.Canceled) {
		return ExitCancelled
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// IsSilent reports whether err has already been shown to the user.
func IsSilent(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr) && exitErr.Silent
}
