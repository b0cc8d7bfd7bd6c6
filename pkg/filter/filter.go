// Package filter decides which files of a package belong in a slice.
//
// Each path is matched against plain substrings (no globs, no regular
// expressions) from a [Policy]:
//
//   - Noise substrings (man pages, /usr/share/doc, changelogs, bug report
//     templates, lintian overrides, READMEs) drop a path from the kept set.
//   - Keep markers override noise and keep the path anyway.
//   - License markers route a path into the license bucket.
//
// Whether a license path may also stay in the kept set is controlled by
// [Policy.Exclusive].
package filter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/slicer/pkg/manifest"
)

// Class is the classification of a single path. Kept and License are
// independent bits; a zero Class means the path is dropped.
type Class uint8

const (
	Kept Class = 1 << iota
	License

	Dropped Class = 0
)

func (c Class) String() string {
	switch c {
	case Dropped:
		return "dropped"
	case Kept:
		return "kept"
	case License:
		return "license"
	case Kept | License:
		return "kept+license"
	}
	return fmt.Sprintf("Class(%d)", uint8(c))
}

// Policy configures path classification.
type Policy struct {
	Noise          []string // substrings that drop a path from the kept set
	KeepMarkers    []string // substrings that keep a path despite noise
	LicenseMarkers []string // substrings that route a path to the license bucket
	Exclusive      bool     // license paths are never kept
}

var baseNoise = []string{
	"/man/",
	"/usr/share/doc",
	"changelog",
	"/usr/share/bug/",
	"/usr/share/lintian/",
}

// Default returns the policy that splits license files into their own
// bucket: READMEs are noise, license files go only to the license bucket.
func Default() Policy {
	return Policy{
		Noise:          append(slices.Clone(baseNoise), "README"),
		LicenseMarkers: []string{"/copyright", "/COPYRIGHT", "/license", "/LICENSE"},
		Exclusive:      true,
	}
}

// Legacy returns the single-bucket policy: any path mentioning copyright or
// license is kept even under /usr/share/doc, and nothing is routed to a
// license bucket.
func Legacy() Policy {
	return Policy{
		Noise:       slices.Clone(baseNoise),
		KeepMarkers: []string{"copyright", "license"},
	}
}

// Classify returns the class of path under p.
func (p Policy) Classify(path string) Class {
	var c Class
	license := containsAny(path, p.LicenseMarkers)
	if license {
		c |= License
	}
	keep := !containsAny(path, p.Noise) || containsAny(path, p.KeepMarkers)
	if keep && !(license && p.Exclusive) {
		c |= Kept
	}
	return c
}

// Apply classifies files and returns the kept set and the license bucket.
// Both are always non-nil.
func (p Policy) Apply(files []string) (kept, license manifest.Contents) {
	kept = make(manifest.Contents)
	license = make(manifest.Contents)
	for _, f := range files {
		c := p.Classify(f)
		if c&Kept != 0 {
			kept[f] = ""
		}
		if c&License != 0 {
			license[f] = ""
		}
	}
	return kept, license
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
