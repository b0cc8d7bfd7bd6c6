// Package pkg provides the libraries behind slicer, which derives slice
// definitions for Ubuntu packages.
//
// # Overview
//
// A slice definition names a package, the packages it depends on, and the
// files it installs, with documentation and other noise left out. The pkg
// directory is organized by pipeline stage:
//
//  1. [integrations] - HTTP access to packages.ubuntu.com
//  2. [extract] - Dependency and file lists from the site's HTML
//  3. [filter] - Kept set and license bucket
//  4. [generalize] - Architecture-independent glob patterns
//  5. [manifest] - The YAML document
//  6. [pipeline] - Orchestration of the above
//
// # Architecture
//
// The data flow through slicer:
//
//	release version ──[release]──→ codename
//	         ↓
//	package page, file list  ([integrations/ubuntu])
//	         ↓
//	dependencies, paths      ([extract])
//	         ↓
//	kept, license            ([filter])
//	         ↓
//	glob patterns            ([generalize])
//	         ↓
//	YAML manifest            ([manifest])
//
// # Quick Start
//
//	http := integrations.NewClient(httputil.DefaultPolicy(), 0, nil)
//	runner := pipeline.NewRunner(ubuntu.NewClient(http, ""), nil)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Release:     "24.04",
//	    Arch:        "amd64",
//	    Package:     "curl",
//	    Generalizer: generalize.New(),
//	})
//	if err != nil {
//	    return err
//	}
//	return result.Manifest.Encode(os.Stdout)
//
// # Supporting Packages
//
//   - [config]: TOML settings and variant presets
//   - [errors]: coded errors and input validation
//   - [httputil]: retry policy
//   - [observability]: HTTP and pipeline hooks
//   - [release]: version to codename table
//   - [buildinfo]: version information
//
// [integrations]: github.com/matzehuels/slicer/pkg/integrations
// [extract]: github.com/matzehuels/slicer/pkg/extract
// [filter]: github.com/matzehuels/slicer/pkg/filter
// [generalize]: github.com/matzehuels/slicer/pkg/generalize
// [manifest]: github.com/matzehuels/slicer/pkg/manifest
// [pipeline]: github.com/matzehuels/slicer/pkg/pipeline
// [release]: github.com/matzehuels/slicer/pkg/release
// [integrations/ubuntu]: github.com/matzehuels/slicer/pkg/integrations/ubuntu
// [config]: github.com/matzehuels/slicer/pkg/config
// [errors]: github.com/matzehuels/slicer/pkg/errors
// [httputil]: github.com/matzehuels/slicer/pkg/httputil
// [observability]: github.com/matzehuels/slicer/pkg/observability
// [buildinfo]: github.com/matzehuels/slicer/pkg/buildinfo
package pkg
