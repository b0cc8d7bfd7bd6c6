// Package buildinfo provides build-time version information for slicer.
//
// Variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/matzehuels/slicer/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/slicer/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/slicer/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

// Name is the program name reported in version output and request headers.
const Name = "slicer"

var (
	// Version is the semantic version (e.g., "v1.2.3").
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}

// UserAgent returns the User-Agent sent with package site requests,
// e.g. "slicer/v1.2.3 (+abc1234)". The commit is omitted when unknown.
func UserAgent() string {
	if Commit == "" || Commit == "none" {
		return Name + "/" + Version
	}
	commit := Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return fmt.Sprintf("%s/%s (+%s)", Name, Version, commit)
}
