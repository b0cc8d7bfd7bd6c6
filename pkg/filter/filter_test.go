package filter

import (
	"testing"
)

func TestDefaultClassify(t *testing.T) {
	p := Default()

	tests := []struct {
		path string
		want Class
	}{
		{"/usr/bin/tool", Kept},
		{"/usr/lib/x86_64-linux-gnu/libfoo.so.1", Kept},
		{"/usr/share/doc/pkg/copyright", License},
		{"/usr/share/doc/pkg/changelog.gz", Dropped},
		{"/usr/share/doc/pkg/changelog.Debian.gz", Dropped},
		{"/usr/share/man/man1/tool.1.gz", Dropped},
		{"/usr/share/bug/pkg/control", Dropped},
		{"/usr/share/lintian/overrides/pkg", Dropped},
		{"/usr/lib/python3/dist-packages/foo/README.md", Dropped},
		{"/usr/share/licenses/foo/LICENSE", License},
		{"/usr/lib/python3/dist-packages/foo-1.0.dist-info/LICENSE", License},
		{"/usr/share/common-licenses/GPL", Kept},
		{"/opt/COPYRIGHT", License},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := p.Classify(tt.path); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestLegacyClassify(t *testing.T) {
	p := Legacy()

	tests := []struct {
		path string
		want Class
	}{
		{"/usr/bin/tool", Kept},
		{"/usr/share/doc/pkg/copyright", Kept},
		{"/usr/share/doc/pkg/changelog.gz", Dropped},
		{"/usr/share/doc/pkg/README.Debian", Dropped},
		{"/usr/share/pkg/README", Kept},
		{"/usr/share/man/man1/license-tool.1.gz", Kept},
		{"/usr/share/man/man1/tool.1.gz", Dropped},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := p.Classify(tt.path); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestNonExclusiveOverlap(t *testing.T) {
	p := Default()
	p.Exclusive = false

	if got := p.Classify("/usr/share/licenses/foo/LICENSE"); got != Kept|License {
		t.Errorf("Classify() = %v, want kept+license", got)
	}
	// Noise still wins over the kept set for doc paths.
	if got := p.Classify("/usr/share/doc/pkg/copyright"); got != License {
		t.Errorf("Classify() = %v, want license", got)
	}
}

func TestApply(t *testing.T) {
	files := []string{
		"/usr/bin/tool",
		"/usr/share/doc/pkg/changelog.gz",
		"/usr/share/doc/pkg/copyright",
	}

	kept, license := Default().Apply(files)

	if len(kept) != 1 {
		t.Errorf("kept = %v, want only /usr/bin/tool", kept)
	}
	if _, ok := kept["/usr/bin/tool"]; !ok {
		t.Error("/usr/bin/tool should be kept")
	}
	if _, ok := license["/usr/bin/tool"]; ok {
		t.Error("/usr/bin/tool should not be in the license bucket")
	}
	if _, ok := license["/usr/share/doc/pkg/copyright"]; !ok {
		t.Error("copyright should be in the license bucket")
	}
	if _, ok := kept["/usr/share/doc/pkg/copyright"]; ok {
		t.Error("copyright should not be kept")
	}
	if _, ok := kept["/usr/share/doc/pkg/changelog.gz"]; ok {
		t.Error("changelog should be dropped")
	}
	if _, ok := license["/usr/share/doc/pkg/changelog.gz"]; ok {
		t.Error("changelog should not be in the license bucket")
	}
	for k, v := range kept {
		if v != "" {
			t.Errorf("kept[%q] = %q, want empty", k, v)
		}
	}
}

func TestApplyEmpty(t *testing.T) {
	kept, license := Default().Apply(nil)
	if kept == nil || license == nil {
		t.Fatal("Apply(nil) should return non-nil maps")
	}
	if len(kept) != 0 || len(license) != 0 {
		t.Errorf("Apply(nil) = %v, %v; want empty", kept, license)
	}
}

func TestApplyDeduplicates(t *testing.T) {
	kept, _ := Legacy().Apply([]string{"/usr/bin/x", "/usr/bin/x"})
	if len(kept) != 1 {
		t.Errorf("kept = %v, want one entry", kept)
	}
}

func TestEmptyMarkerIgnored(t *testing.T) {
	p := Policy{Noise: []string{""}, LicenseMarkers: []string{""}}
	if got := p.Classify("/usr/bin/x"); got != Kept {
		t.Errorf("Classify() = %v, want kept", got)
	}
}

func TestClassString(t *testing.T) {
	tests := map[Class]string{
		Dropped:        "dropped",
		Kept:           "kept",
		License:        "license",
		Kept | License: "kept+license",
		Class(8):       "Class(8)",
	}
	for c, want := range tests {
		if got := c.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", uint8(c), got, want)
		}
	}
}
