// Package integrations provides HTTP clients for package-browsing websites.
//
// # Overview
//
// This package contains the shared HTTP layer used to download package pages.
// Each site has its own subpackage:
//
//   - [ubuntu]: packages.ubuntu.com dependency and file-list pages
//
// # Client Pattern
//
// Site clients receive a [Fetcher] rather than building their own HTTP
// client, so one process-wide [Client] serves every request:
//
//	http := integrations.NewClient(httputil.DefaultPolicy(), 0, nil)
//	site := ubuntu.NewClient(http, ubuntu.DefaultBaseURL)
//	deps, err := site.FetchDependencies(ctx, "noble", "curl")
//
// [Client] handles:
//   - Bounded retry with exponential backoff (see [httputil.Policy])
//   - Status classification into [ErrNotFound] and [ErrNetwork]
//   - Request/response events through [observability.HTTP]
//
// Failures are returned, never swallowed; callers decide whether a failed
// fetch is fatal. [Classify] converts them to coded errors for reporting.
//
// [ubuntu]: github.com/matzehuels/slicer/pkg/integrations/ubuntu
// [httputil.Policy]: github.com/matzehuels/slicer/pkg/httputil.Policy
// [observability.HTTP]: github.com/matzehuels/slicer/pkg/observability.HTTP
package integrations
