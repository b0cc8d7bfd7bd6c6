// Package generalize rewrites concrete file paths into portable glob
// patterns.
//
// Two passes run in order:
//
//  1. Substitution replaces GNU triplet suffixes (linux-gnu,
//     linux-gnueabihf) with "linux-*" and CPU architecture names with "*".
//  2. Collapse replaces every family of two or more paths that contain a
//     common key with that key followed by "*", repeating until no key is
//     contained in another.
//
// Substituting first lets the per-architecture copies of a file merge into
// one key before families are computed, which makes [Generalizer.Apply]
// idempotent on its own output.
//
// Matching is plain substring containment throughout. "arm" also matches
// inside "/usr/share/alarm", and "/a/b" collapses together with "/a/ba/c".
package generalize

import (
	"cmp"
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/slicer/pkg/manifest"
)

// Wildcard is the glob token paths are rewritten with.
const Wildcard = "*"

// GNUWildcard replaces a GNU triplet suffix.
const GNUWildcard = "linux-" + Wildcard

// DefaultGNUSuffixes are the GNU triplet suffixes replaced with [GNUWildcard].
var DefaultGNUSuffixes = []string{"linux-gnu", "linux-gnueabihf"}

// DefaultArchitectures are the CPU names replaced with [Wildcard].
var DefaultArchitectures = []string{"x86_64", "aarch64", "arm", "i386", "powerpc64le", "riscv64", "s390x"}

// Generalizer holds the token lists used during substitution.
type Generalizer struct {
	GNUSuffixes   []string
	Architectures []string
}

// New returns a Generalizer with the default token lists.
func New() *Generalizer {
	return &Generalizer{
		GNUSuffixes:   slices.Clone(DefaultGNUSuffixes),
		Architectures: slices.Clone(DefaultArchitectures),
	}
}

// Apply substitutes tokens in every key of c, then collapses families.
// c is not modified.
func (g *Generalizer) Apply(c manifest.Contents) manifest.Contents {
	subst := make(manifest.Contents, len(c))
	for k, v := range c {
		subst[g.Substitute(k)] = v
	}
	return Collapse(subst)
}

// Substitute rewrites GNU suffixes and then architecture names in path.
// Longer tokens are replaced first so that linux-gnueabihf is not split by
// linux-gnu.
func (g *Generalizer) Substitute(path string) string {
	for _, gnu := range byLength(g.GNUSuffixes) {
		path = strings.ReplaceAll(path, gnu, GNUWildcard)
	}
	for _, arch := range byLength(g.Architectures) {
		path = strings.ReplaceAll(path, arch, Wildcard)
	}
	return path
}

// Collapse returns a copy of c in which each key that is contained in at
// least one other key is replaced, together with every key containing it,
// by key+"*". Keys are visited in lexicographic order and keys already
// absorbed into a family are skipped. Passes repeat until no key is
// contained in another, so a key created late can still absorb an earlier
// one.
func Collapse(c manifest.Contents) manifest.Contents {
	out := maps.Clone(c)
	if out == nil {
		out = make(manifest.Contents)
	}
	for collapseOnce(out) {
	}
	return out
}

// collapseOnce runs a single pass over the keys of c and reports whether
// any family was merged.
func collapseOnce(c manifest.Contents) bool {
	changed := false
	for _, key := range c.Keys() {
		if _, ok := c[key]; !ok {
			continue
		}
		var family []string
		for k := range c {
			if strings.Contains(k, key) {
				family = append(family, k)
			}
		}
		if len(family) < 2 {
			continue
		}
		for _, k := range family {
			delete(c, k)
		}
		c[key+Wildcard] = ""
		changed = true
	}
	return changed
}

func byLength(tokens []string) []string {
	sorted := slices.Clone(tokens)
	slices.SortStableFunc(sorted, func(a, b string) int {
		return cmp.Compare(len(b), len(a))
	})
	return slices.DeleteFunc(sorted, func(s string) bool { return s == "" })
}
