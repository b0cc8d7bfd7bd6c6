package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"pault.ag/go/debian/dependency"

	"github.com/matzehuels/slicer/pkg/config"
	slerrors "github.com/matzehuels/slicer/pkg/errors"
	"github.com/matzehuels/slicer/pkg/integrations"
	"github.com/matzehuels/slicer/pkg/integrations/ubuntu"
	"github.com/matzehuels/slicer/pkg/observability"
	"github.com/matzehuels/slicer/pkg/pipeline"
)

// sliceOpts holds the command-line flags of the root command.
// Flags that are set override the config file.
type sliceOpts struct {
	configPath   string
	baseURL      string
	variant      string
	noGeneralize bool
	strict       bool
	verbose      bool
}

// loadConfig reads the config file and applies flag overrides.
// Without --config, a missing default file is not an error.
func (o *sliceOpts) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.Load(o.configPath)
	} else {
		cfg, err = config.LoadOptional(config.DefaultPath())
	}
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.HTTP.BaseURL = o.baseURL
	}
	if flags.Changed("variant") {
		cfg.Filter.Variant = o.variant
	}
	if o.noGeneralize {
		disabled := false
		cfg.Generalize.Enabled = &disabled
	}
	return cfg, cfg.Validate()
}

// parseArch parses a Debian architecture ("amd64", "linux-arm64",
// "gnu-linux-s390x") and returns the CPU name used by the package site.
func parseArch(s string) (string, error) {
	arch, err := dependency.ParseArch(s)
	if err != nil {
		return "", slerrors.Wrap(slerrors.ErrCodeInvalidArch, err, "invalid architecture: %q", s)
	}
	if arch.CPU == "" || arch.CPU == "any" {
		return "", slerrors.New(slerrors.ErrCodeInvalidArch, "invalid architecture: %q", s)
	}
	if arch.OS != "linux" && arch.OS != "all" {
		return "", slerrors.New(slerrors.ErrCodeInvalidArch, "unsupported operating system %q in architecture %q", arch.OS, s)
	}
	return arch.CPU, nil
}

// runSlice generates and prints the manifest for one package.
func (c *CLI) runSlice(cmd *cobra.Command, opts *sliceOpts, version, archArg, pkg string) error {
	logger, _ := runLogger(c.Logger)
	ctx := withLogger(cmd.Context(), logger)

	cfg, err := opts.loadConfig(cmd)
	if err != nil {
		return c.invalid(err)
	}
	arch, err := parseArch(archArg)
	if err != nil {
		return c.invalid(err)
	}

	hooks := logHooks{}
	observability.SetHTTPHooks(hooks)
	observability.SetPipelineHooks(hooks)

	http := integrations.NewClient(cfg.RetryPolicy(), cfg.HTTP.Timeout, cfg.Headers())
	runner := pipeline.NewRunner(ubuntu.NewClient(http, cfg.HTTP.BaseURL), logger)
	policy := cfg.FilterPolicy()

	logger.Debug("starting", "release", version, "arch", arch, "package", pkg, "variant", cfg.Filter.Variant)
	prog := newProgress(logger)

	result, err := runner.Execute(ctx, pipeline.Options{
		Release:     version,
		Arch:        arch,
		Package:     pkg,
		Filter:      &policy,
		Generalizer: cfg.Generalizer(),
		Manifest:    cfg.ManifestOptions(),
	})
	if err != nil {
		if slerrors.IsInvalidInput(err) {
			return c.invalid(err)
		}
		return err
	}

	if err := result.Manifest.Encode(c.Out); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	prog.done(result.Manifest)

	if result.OK() {
		return nil
	}
	printWarning(c.Err, "manifest for %s may be incomplete", pkg)
	for _, f := range result.Degraded {
		printDetail(c.Err, "%s: %s", f.Stage, describe(f.Err))
	}
	if opts.strict {
		return &ExitError{
			Code:   ExitDegraded,
			Err:    fmt.Errorf("%d stage(s) failed", len(result.Degraded)),
			Silent: true,
		}
	}
	return nil
}

// invalid reports an input error on the output stream, where the manifest
// would have gone, and returns the matching exit error.
func (c *CLI) invalid(err error) error {
	printError(c.Out, "%s", describe(err))
	return &ExitError{Code: ExitInvalid, Err: err, Silent: true}
}

// describe returns the user-facing message of err followed by its cause.
func describe(err error) string {
	var e *slerrors.Error
	if errors.As(err, &e) && e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return slerrors.UserMessage(err)
}
