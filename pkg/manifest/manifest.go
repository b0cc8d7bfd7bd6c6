// Package manifest builds and serializes slice definition files.
//
// A manifest names a package and splits its files into slices:
//
//	package: curl
//	essential:
//	  - curl_copyright
//	slices:
//	  all:
//	    essential:
//	      - libc6
//	    contents:
//	      /usr/bin/curl:
//	  copyright:
//	    contents:
//	      /usr/share/doc/curl/copyright:
//
// The "all" slice holds the package's dependencies and kept contents; the
// "copyright" slice holds license files only and is omitted when there are
// none. Empty lists are omitted and empty values render as YAML null.
package manifest

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"go.yaml.in/yaml/v3"
)

const (
	// SliceAll is the name of the primary slice.
	SliceAll = "all"

	// SliceCopyright is the name of the license-only slice.
	SliceCopyright = "copyright"

	// EssentialKey is the field naming required slices and packages.
	EssentialKey = "essential"

	// EssentialsKey is the legacy spelling of [EssentialKey].
	EssentialsKey = "essentials"
)

// Contents maps a path or glob pattern to its (empty) slice options.
type Contents map[string]string

// Keys returns the paths in lexicographic order.
func (c Contents) Keys() []string {
	return slices.Sorted(maps.Keys(c))
}

// ContentsOf returns Contents holding each path with an empty value.
func ContentsOf(paths ...string) Contents {
	c := make(Contents, len(paths))
	for _, p := range paths {
		c[p] = ""
	}
	return c
}

// Slice is a named subset of the package.
type Slice struct {
	Name      string
	Essential []string
	Contents  Contents
}

// Manifest is the root slice definition document.
type Manifest struct {
	Package   string
	Essential []string
	Slices    []Slice

	key string
}

// Options controls how a manifest is rendered.
type Options struct {
	// EssentialKey is the field name used for essential lists:
	// [EssentialKey] (default) or [EssentialsKey].
	EssentialKey string
}

// ValidateEssentialKey reports whether key is a supported essential field name.
func ValidateEssentialKey(key string) error {
	switch key {
	case "", EssentialKey, EssentialsKey:
		return nil
	}
	return fmt.Errorf("unsupported essential key %q (want %q or %q)", key, EssentialKey, EssentialsKey)
}

// Build assembles the manifest for pkg.
//
// deps become the essential list of the "all" slice, contents its contents.
// When license is non-empty a "copyright" slice holding it is added and the
// package-level essential list names it as <pkg>_copyright.
func Build(pkg string, deps []string, contents, license Contents, opts Options) *Manifest {
	m := &Manifest{
		Package: pkg,
		key:     opts.EssentialKey,
	}
	if m.key == "" {
		m.key = EssentialKey
	}

	m.Slices = append(m.Slices, Slice{
		Name:      SliceAll,
		Essential: slices.Clone(deps),
		Contents:  maps.Clone(contents),
	})

	if len(license) > 0 {
		m.Essential = []string{pkg + "_" + SliceCopyright}
		m.Slices = append(m.Slices, Slice{
			Name:     SliceCopyright,
			Contents: maps.Clone(license),
		})
	}
	return m
}

// Slice returns the slice with the given name, or nil.
func (m *Manifest) Slice(name string) *Slice {
	for i := range m.Slices {
		if m.Slices[i].Name == name {
			return &m.Slices[i]
		}
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler, producing an ordered node tree.
func (m *Manifest) MarshalYAML() (any, error) {
	key := m.key
	if key == "" {
		key = EssentialKey
	}

	root := mappingNode()
	appendPair(root, "package", stringNode(m.Package))
	if len(m.Essential) > 0 {
		appendPair(root, key, sequenceNode(m.Essential))
	}

	sl := mappingNode()
	for _, s := range m.Slices {
		appendPair(sl, s.Name, s.node(key))
	}
	appendPair(root, "slices", sl)
	return root, nil
}

// Encode writes m as a YAML document with two-space indentation.
func (m *Manifest) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	return enc.Close()
}

func (s Slice) node(key string) *yaml.Node {
	n := mappingNode()
	if len(s.Essential) > 0 {
		appendPair(n, key, sequenceNode(s.Essential))
	}
	appendPair(n, "contents", s.Contents.node())
	return n
}

func (c Contents) node() *yaml.Node {
	if len(c) == 0 {
		return nullNode()
	}
	n := mappingNode()
	for _, k := range c.Keys() {
		appendPair(n, k, stringNode(c[k]))
	}
	return n
}

func mappingNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

func sequenceNode(items []string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, it := range items {
		n.Content = append(n.Content, stringNode(it))
	}
	return n
}

// stringNode renders s as a string scalar, or as null when s is empty.
func stringNode(s string) *yaml.Node {
	if s == "" {
		return nullNode()
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func nullNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null"}
}

func appendPair(m *yaml.Node, key string, value *yaml.Node) {
	m.Content = append(m.Content, stringNode(key), value)
}
