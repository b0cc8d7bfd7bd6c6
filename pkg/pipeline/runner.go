package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/slicer/pkg/manifest"
	"github.com/matzehuels/slicer/pkg/observability"
)

// Runner executes the pipeline against a Source.
//
// The Runner is stateless apart from its source and logger; it keeps no
// results between runs.
type Runner struct {
	Source Source
	Logger *log.Logger
}

// NewRunner creates a runner reading from source.
// If logger is nil, the default logger is used.
func NewRunner(source Source, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Source: source,
		Logger: logger,
	}
}

// Execute runs the complete pipeline for one package.
//
// It returns an error only for invalid options (INVALID_* codes) or when
// ctx is cancelled. Fetch and parse failures are logged, recorded in
// [Result.Degraded] and replaced by empty results.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	codename, err := opts.Validate()
	if err != nil {
		return nil, err
	}
	if r.Source == nil {
		return nil, errors.New("pipeline: runner has no source")
	}

	start := time.Now()
	pkg := opts.Package
	logger := r.Logger.With("package", pkg, "release", codename)
	result := &Result{Codename: codename}

	// Stage 1: Dependencies
	deps, err := fetchStage(ctx, StageDependencies, pkg, func() ([]string, error) {
		return r.Source.FetchDependencies(ctx, codename, pkg)
	})
	if err := degrade(ctx, logger, result, StageDependencies, err); err != nil {
		return nil, err
	}
	result.Dependencies = deps
	result.Stats.Dependencies = len(deps)
	logger.Debug("extracted dependencies", "count", len(deps))

	// Stage 2: Contents
	files, err := fetchStage(ctx, StageContents, pkg, func() ([]string, error) {
		return r.Source.FetchFiles(ctx, codename, opts.Arch, pkg)
	})
	if err := degrade(ctx, logger, result, StageContents, err); err != nil {
		return nil, err
	}
	result.Files = files
	result.Stats.Files = len(files)
	result.Stats.FetchTime = time.Since(start)
	logger.Debug("extracted contents", "arch", opts.Arch, "count", len(files))

	// Stage 3: Filter
	var kept, license manifest.Contents
	runStage(ctx, StageFilter, pkg, func() int {
		kept, license = opts.filterPolicy().Apply(files)
		return len(kept)
	})
	result.Stats.Kept = len(kept)
	result.Stats.License = len(license)
	logger.Debug("filtered contents", "kept", len(kept), "license", len(license), "dropped", len(files)-len(kept))

	// Stage 4: Generalize
	contents := kept
	if opts.Generalizer != nil {
		runStage(ctx, StageGeneralize, pkg, func() int {
			contents = opts.Generalizer.Apply(kept)
			return len(contents)
		})
		logger.Debug("generalized contents", "before", len(kept), "after", len(contents))
	}
	result.Stats.Contents = len(contents)

	// Stage 5: Build
	runStage(ctx, StageBuild, pkg, func() int {
		result.Manifest = manifest.Build(pkg, deps, contents, license, opts.Manifest)
		return len(result.Manifest.Slices)
	})
	result.Stats.Duration = time.Since(start)

	logger.Info("built manifest",
		"dependencies", result.Stats.Dependencies,
		"contents", result.Stats.Contents,
		"license", result.Stats.License,
		"degraded", len(result.Degraded),
		"duration", result.Stats.Duration)

	return result, nil
}

// degrade records a stage failure. It returns a non-nil error only when the
// failure was caused by cancellation, which ends the run.
func degrade(ctx context.Context, logger *log.Logger, result *Result, stage string, err error) error {
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s: %w", stage, ctxErr)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", stage, err)
	}
	logger.Warn("stage failed, continuing with an empty result", "stage", stage, "error", err)
	result.Degraded = append(result.Degraded, Failure{Stage: stage, Err: err})
	return nil
}

func fetchStage(ctx context.Context, stage, pkg string, fn func() ([]string, error)) ([]string, error) {
	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, stage, pkg)
	start := time.Now()
	items, err := fn()
	if err != nil {
		items = nil
	}
	hooks.OnStageComplete(ctx, stage, pkg, len(items), time.Since(start), err)
	return items, err
}

func runStage(ctx context.Context, stage, pkg string, fn func() int) {
	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, stage, pkg)
	start := time.Now()
	n := fn()
	hooks.OnStageComplete(ctx, stage, pkg, n, time.Since(start), nil)
}
