// Package release maps Ubuntu release version numbers to codenames.
//
// The table is closed: supporting a new release means adding a row to it.
//
//	codename, err := release.Resolve("24.04") // "noble"
package release

import (
	"slices"

	"github.com/matzehuels/slicer/pkg/errors"
)

// Codename is the release name used in package site URLs (e.g. "jammy").
type Codename string

func (c Codename) String() string { return string(c) }

var codenames = map[string]Codename{
	"20.04": "focal",
	"22.04": "jammy",
	"22.10": "kinetic",
	"23.04": "lunar",
	"23.10": "mantic",
	"24.04": "noble",
}

// Resolve returns the codename for version.
// Unknown versions yield an [errors.ErrCodeInvalidRelease] error; there is
// no prefix or fuzzy matching.
func Resolve(version string) (Codename, error) {
	if c, ok := codenames[version]; ok {
		return c, nil
	}
	return "", errors.New(errors.ErrCodeInvalidRelease, "invalid release version: %s", version)
}

// Versions returns the supported version numbers in ascending order.
func Versions() []string {
	versions := make([]string, 0, len(codenames))
	for v := range codenames {
		versions = append(versions, v)
	}
	slices.Sort(versions)
	return versions
}
