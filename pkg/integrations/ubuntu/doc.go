// Package ubuntu fetches package data from packages.ubuntu.com.
//
// # Overview
//
// Two pages are read for every package:
//
//   - {base}/{codename}/{package}: the package page, whose dependency
//     groups list the package's dependencies
//   - {base}/{codename}/{arch}/{package}/filelist: the file list for one
//     architecture
//
// # Usage
//
//	http := integrations.NewClient(httputil.DefaultPolicy(), 0, nil)
//	client := ubuntu.NewClient(http, ubuntu.DefaultBaseURL)
//
//	deps, err := client.FetchDependencies(ctx, "noble", "curl")
//	files, err := client.FetchFiles(ctx, "noble", "amd64", "curl")
//
// # Errors
//
// Fetch failures carry the codes assigned by [integrations.Classify]
// (NOT_FOUND, RATE_LIMITED, NETWORK_ERROR); pages with unexpected markup
// yield PARSE_ERROR. Both wrap the URL that failed so callers can log it.
package ubuntu
