// Package pipeline provides the manifest pipeline for slicer.
//
// The pipeline runs strictly forward, one stage after the other:
//
//  1. Dependencies: fetch the package page and extract dependency names
//  2. Contents: fetch the file-list page and extract paths
//  3. Filter: split paths into the kept set and the license bucket
//  4. Generalize: rewrite kept paths into glob patterns (optional)
//  5. Build: assemble the manifest
//
// Only invalid input stops a run. A failed fetch or an unreadable page is
// recorded in [Result.Degraded] and the stage continues with an empty
// result, so a manifest is always produced for valid input.
//
// # Usage
//
//	http := integrations.NewClient(httputil.DefaultPolicy(), 0, nil)
//	runner := pipeline.NewRunner(ubuntu.NewClient(http, ""), logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Release: "24.04",
//	    Arch:    "amd64",
//	    Package: "curl",
//	})
//	if err != nil {
//	    log.Fatal(err) // invalid input or cancellation
//	}
//	result.Manifest.Encode(os.Stdout)
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	slerrors "github.com/matzehuels/slicer/pkg/errors"
	"github.com/matzehuels/slicer/pkg/filter"
	"github.com/matzehuels/slicer/pkg/generalize"
	"github.com/matzehuels/slicer/pkg/manifest"
	"github.com/matzehuels/slicer/pkg/release"
)

// Stage names, as reported to hooks and in [Failure].
const (
	StageDependencies = "dependencies"
	StageContents     = "contents"
	StageFilter       = "filter"
	StageGeneralize   = "generalize"
	StageBuild        = "build"
)

// Source provides the raw package data.
// ubuntu.Client is the production implementation.
type Source interface {
	FetchDependencies(ctx context.Context, codename release.Codename, pkg string) ([]string, error)
	FetchFiles(ctx context.Context, codename release.Codename, arch, pkg string) ([]string, error)
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
type Options struct {
	Release string // release version, e.g. "24.04"
	Arch    string // architecture forwarded into the file-list URL
	Package string // binary package name

	// Filter is the classification policy. Nil selects [filter.Default].
	Filter *filter.Policy

	// Generalizer rewrites kept paths. Nil disables generalization.
	Generalizer *generalize.Generalizer

	// Manifest controls how the manifest is rendered.
	Manifest manifest.Options
}

// Validate checks the input and resolves the release codename.
// All returned errors carry an INVALID_* code.
func (o *Options) Validate() (release.Codename, error) {
	codename, err := release.Resolve(o.Release)
	if err != nil {
		return "", err
	}
	if o.Arch == "" || strings.ContainsAny(o.Arch, "/\\") {
		return "", slerrors.New(slerrors.ErrCodeInvalidArch, "invalid architecture: %q", o.Arch)
	}
	if err := slerrors.ValidateDebianPackageName(o.Package); err != nil {
		return "", err
	}
	if err := manifest.ValidateEssentialKey(o.Manifest.EssentialKey); err != nil {
		return "", slerrors.Wrap(slerrors.ErrCodeInvalidInput, err, "invalid manifest options")
	}
	return codename, nil
}

func (o *Options) filterPolicy() filter.Policy {
	if o.Filter == nil {
		return filter.Default()
	}
	return *o.Filter
}

// =============================================================================
// Result
// =============================================================================

// Failure records a stage that degraded to an empty result.
type Failure struct {
	Stage string
	Err   error
}

func (f Failure) Error() string { return fmt.Sprintf("%s: %v", f.Stage, f.Err) }
func (f Failure) Unwrap() error { return f.Err }

// Result contains the outputs of a pipeline run.
type Result struct {
	// Codename is the resolved release name.
	Codename release.Codename

	// Manifest is the assembled manifest. Never nil on success.
	Manifest *manifest.Manifest

	// Dependencies and Files are the extracted lists, before filtering.
	Dependencies []string
	Files        []string

	// Degraded lists the stages that failed and continued empty.
	Degraded []Failure

	// Stats contains counts and timings.
	Stats Stats
}

// OK reports whether every stage succeeded.
func (r *Result) OK() bool { return len(r.Degraded) == 0 }

// Stats contains pipeline execution statistics.
type Stats struct {
	Dependencies int // extracted dependency names
	Files        int // extracted paths
	Kept         int // paths kept by the filter
	License      int // paths in the license bucket
	Contents     int // entries in the final contents map
	FetchTime    time.Duration
	Duration     time.Duration
}
