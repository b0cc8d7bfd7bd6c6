// Package config loads slicer settings from a TOML file.
//
// Every setting has a default, so the file is optional. A file only needs
// the keys it changes:
//
//	[http]
//	base_url = "https://packages.ubuntu.com"
//	attempts = 5
//	backoff = "1s"
//	max_delay = "2m"
//	timeout = "30s"
//
//	[filter]
//	variant = "default"        # or "legacy"
//	exclusive = true
//
//	[generalize]
//	enabled = true
//	architectures = ["x86_64", "aarch64", "arm", "i386", "powerpc64le", "riscv64", "s390x"]
//
//	[manifest]
//	essential_key = "essential" # or "essentials"
//
// The variant selects a preset for filtering, generalization and the
// essential key; explicit keys in the file override the preset.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/slicer/pkg/buildinfo"
	slerrors "github.com/matzehuels/slicer/pkg/errors"
	"github.com/matzehuels/slicer/pkg/filter"
	"github.com/matzehuels/slicer/pkg/generalize"
	"github.com/matzehuels/slicer/pkg/httputil"
	"github.com/matzehuels/slicer/pkg/integrations/ubuntu"
	"github.com/matzehuels/slicer/pkg/manifest"
)

const appName = "slicer"

// Variants.
const (
	VariantDefault = "default"
	VariantLegacy  = "legacy"
)

// Variants lists the supported variant names.
var Variants = []string{VariantDefault, VariantLegacy}

// Config is the full set of settings.
type Config struct {
	HTTP       HTTP       `toml:"http"`
	Filter     Filter     `toml:"filter"`
	Generalize Generalize `toml:"generalize"`
	Manifest   Manifest   `toml:"manifest"`
}

// HTTP configures page fetching.
type HTTP struct {
	BaseURL   string        `toml:"base_url"`
	Attempts  int           `toml:"attempts"`
	Backoff   time.Duration `toml:"backoff"`
	MaxDelay  time.Duration `toml:"max_delay"`
	Timeout   time.Duration `toml:"timeout"`
	UserAgent string        `toml:"user_agent"`
}

// Filter configures path classification. Nil lists keep the preset's.
type Filter struct {
	Variant        string   `toml:"variant"`
	Noise          []string `toml:"noise"`
	LicenseMarkers []string `toml:"license_markers"`
	KeepMarkers    []string `toml:"keep_markers"`
	Exclusive      *bool    `toml:"exclusive"`
}

// Generalize configures path generalization.
type Generalize struct {
	Enabled       *bool    `toml:"enabled"`
	GNUSuffixes   []string `toml:"gnu_suffixes"`
	Architectures []string `toml:"architectures"`
}

// Manifest configures output rendering.
type Manifest struct {
	EssentialKey string `toml:"essential_key"`
}

// Default returns the built-in configuration.
func Default() *Config {
	p := httputil.DefaultPolicy()
	return &Config{
		HTTP: HTTP{
			BaseURL:   ubuntu.DefaultBaseURL,
			Attempts:  p.Attempts,
			Backoff:   p.Backoff,
			MaxDelay:  p.MaxDelay,
			Timeout:   30 * time.Second,
			UserAgent: buildinfo.UserAgent(),
		},
		Filter: Filter{Variant: VariantDefault},
	}
}

// Load reads the file at path on top of [Default] and validates the result.
// Unknown keys are rejected.
func Load(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, slerrors.Wrap(slerrors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, slerrors.New(slerrors.ErrCodeInvalidConfig, "unknown key %q in %s", undecoded[0].String(), path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOptional is like [Load] but returns [Default] when path is empty or
// the file does not exist.
func LoadOptional(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return Load(path)
}

// DefaultPath returns the config file location using the XDG standard
// (~/.config/slicer/config.toml). It returns "" if no home directory is known.
func DefaultPath() string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, "config.toml")
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if !slices.Contains(Variants, c.Filter.Variant) {
		return slerrors.New(slerrors.ErrCodeInvalidConfig, "unknown variant %q (want one of %v)", c.Filter.Variant, Variants)
	}
	if err := slerrors.ValidateURL(c.HTTP.BaseURL); err != nil {
		return slerrors.Wrap(slerrors.ErrCodeInvalidConfig, err, "invalid base_url")
	}
	if c.HTTP.Attempts < 1 {
		return slerrors.New(slerrors.ErrCodeInvalidConfig, "attempts must be at least 1, got %d", c.HTTP.Attempts)
	}
	if c.HTTP.Backoff < 0 || c.HTTP.MaxDelay < 0 || c.HTTP.Timeout < 0 {
		return slerrors.New(slerrors.ErrCodeInvalidConfig, "durations must not be negative")
	}
	if err := manifest.ValidateEssentialKey(c.Manifest.EssentialKey); err != nil {
		return slerrors.Wrap(slerrors.ErrCodeInvalidConfig, err, "invalid essential_key")
	}
	return nil
}

// Legacy reports whether the legacy variant is selected.
func (c *Config) Legacy() bool { return c.Filter.Variant == VariantLegacy }

// RetryPolicy returns the HTTP retry policy.
func (c *Config) RetryPolicy() httputil.Policy {
	p := httputil.DefaultPolicy()
	p.Attempts = c.HTTP.Attempts
	p.Backoff = c.HTTP.Backoff
	p.MaxDelay = c.HTTP.MaxDelay
	return p
}

// Headers returns the default request headers.
func (c *Config) Headers() map[string]string {
	if c.HTTP.UserAgent == "" {
		return nil
	}
	return map[string]string{"User-Agent": c.HTTP.UserAgent}
}

// FilterPolicy returns the variant's filter preset with overrides applied.
func (c *Config) FilterPolicy() filter.Policy {
	p := filter.Default()
	if c.Legacy() {
		p = filter.Legacy()
	}
	if c.Filter.Noise != nil {
		p.Noise = slices.Clone(c.Filter.Noise)
	}
	if c.Filter.LicenseMarkers != nil {
		p.LicenseMarkers = slices.Clone(c.Filter.LicenseMarkers)
	}
	if c.Filter.KeepMarkers != nil {
		p.KeepMarkers = slices.Clone(c.Filter.KeepMarkers)
	}
	if c.Filter.Exclusive != nil {
		p.Exclusive = *c.Filter.Exclusive
	}
	return p
}

// Generalizer returns the configured generalizer, or nil when generalization
// is disabled. The legacy variant disables it unless enabled explicitly.
func (c *Config) Generalizer() *generalize.Generalizer {
	enabled := !c.Legacy()
	if c.Generalize.Enabled != nil {
		enabled = *c.Generalize.Enabled
	}
	if !enabled {
		return nil
	}
	g := generalize.New()
	if c.Generalize.GNUSuffixes != nil {
		g.GNUSuffixes = slices.Clone(c.Generalize.GNUSuffixes)
	}
	if c.Generalize.Architectures != nil {
		g.Architectures = slices.Clone(c.Generalize.Architectures)
	}
	return g
}

// ManifestOptions returns the rendering options for the variant.
func (c *Config) ManifestOptions() manifest.Options {
	key := c.Manifest.EssentialKey
	if key == "" {
		key = manifest.EssentialKey
		if c.Legacy() {
			key = manifest.EssentialsKey
		}
	}
	return manifest.Options{EssentialKey: key}
}
