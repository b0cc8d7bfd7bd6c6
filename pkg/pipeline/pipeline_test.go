package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	slerrors "github.com/matzehuels/slicer/pkg/errors"
	"github.com/matzehuels/slicer/pkg/filter"
	"github.com/matzehuels/slicer/pkg/generalize"
	"github.com/matzehuels/slicer/pkg/manifest"
	"github.com/matzehuels/slicer/pkg/observability"
	"github.com/matzehuels/slicer/pkg/release"
)

type fakeSource struct {
	deps     []string
	files    []string
	depsErr  error
	filesErr error

	codename release.Codename
	arch     string
}

func (s *fakeSource) FetchDependencies(_ context.Context, codename release.Codename, _ string) ([]string, error) {
	s.codename = codename
	return s.deps, s.depsErr
}

func (s *fakeSource) FetchFiles(_ context.Context, _ release.Codename, arch, _ string) ([]string, error) {
	s.arch = arch
	return s.files, s.filesErr
}

func quietRunner(src Source) *Runner {
	return NewRunner(src, log.New(io.Discard))
}

func TestExecute(t *testing.T) {
	src := &fakeSource{
		deps: []string{"libc6", "libcurl4t64"},
		files: []string{
			"/usr/bin/curl",
			"/usr/lib/x86_64-linux-gnu/libcurl.so.4",
			"/usr/lib/x86_64-linux-gnu/libcurl.so.4.8.0",
			"/usr/share/doc/curl/changelog.Debian.gz",
			"/usr/share/doc/curl/copyright",
			"/usr/share/man/man1/curl.1.gz",
		},
	}

	result, err := quietRunner(src).Execute(context.Background(), Options{
		Release:     "24.04",
		Arch:        "amd64",
		Package:     "curl",
		Generalizer: generalize.New(),
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if src.codename != "noble" || src.arch != "amd64" {
		t.Errorf("source called with %q/%q", src.codename, src.arch)
	}
	if !result.OK() {
		t.Errorf("Degraded = %v, want none", result.Degraded)
	}

	m := result.Manifest
	all := m.Slice(manifest.SliceAll)
	if !slices.Equal(all.Essential, src.deps) {
		t.Errorf("all.Essential = %v", all.Essential)
	}
	wantContents := []string{"/usr/bin/curl", "/usr/lib/*-linux-*/libcurl.so.4*"}
	if got := all.Contents.Keys(); !slices.Equal(got, wantContents) {
		t.Errorf("all.Contents = %v, want %v", got, wantContents)
	}
	cr := m.Slice(manifest.SliceCopyright)
	if cr == nil || !slices.Equal(cr.Contents.Keys(), []string{"/usr/share/doc/curl/copyright"}) {
		t.Errorf("copyright slice = %+v", cr)
	}
	if !slices.Equal(m.Essential, []string{"curl_copyright"}) {
		t.Errorf("Essential = %v", m.Essential)
	}

	s := result.Stats
	if s.Dependencies != 2 || s.Files != 6 || s.Kept != 3 || s.License != 1 || s.Contents != 2 {
		t.Errorf("Stats = %+v", s)
	}
}

func TestExecuteWithoutGeneralizer(t *testing.T) {
	src := &fakeSource{files: []string{"/usr/lib/x86_64-linux-gnu/libz.so.1"}}
	result, err := quietRunner(src).Execute(context.Background(), Options{Release: "22.04", Arch: "amd64", Package: "zlib1g"})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	got := result.Manifest.Slice(manifest.SliceAll).Contents.Keys()
	if !slices.Equal(got, src.files) {
		t.Errorf("contents = %v, want paths unchanged", got)
	}
}

func TestExecuteEmptyPackage(t *testing.T) {
	result, err := quietRunner(&fakeSource{}).Execute(context.Background(), Options{Release: "24.04", Arch: "amd64", Package: "empty-pkg"})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	var buf bytes.Buffer
	if err := result.Manifest.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "package: empty-pkg\n") {
		t.Errorf("output:\n%s", out)
	}
	if strings.Contains(out, "essential") || strings.Contains(out, "copyright") {
		t.Errorf("empty sections should be omitted:\n%s", out)
	}
}

func TestExecuteDegrades(t *testing.T) {
	depsErr := slerrors.Wrap(slerrors.ErrCodeNetwork, errors.New("connection refused"), "fetch dependencies")
	src := &fakeSource{
		deps:    []string{"ignored"},
		depsErr: depsErr,
		files:   []string{"/usr/bin/hello"},
	}

	result, err := quietRunner(src).Execute(context.Background(), Options{Release: "24.04", Arch: "amd64", Package: "hello"})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if result.OK() {
		t.Fatal("OK() = true, want degraded")
	}
	if len(result.Degraded) != 1 || result.Degraded[0].Stage != StageDependencies {
		t.Fatalf("Degraded = %v", result.Degraded)
	}
	if !errors.Is(result.Degraded[0], depsErr) {
		t.Error("Failure should unwrap to the stage error")
	}
	if len(result.Dependencies) != 0 {
		t.Errorf("Dependencies = %v, want empty after failure", result.Dependencies)
	}
	all := result.Manifest.Slice(manifest.SliceAll)
	if all.Essential != nil {
		t.Errorf("all.Essential = %v, want nil", all.Essential)
	}
	if _, ok := all.Contents["/usr/bin/hello"]; !ok {
		t.Error("contents should survive a dependency failure")
	}
}

func TestExecuteBothFetchesFail(t *testing.T) {
	src := &fakeSource{depsErr: errors.New("a"), filesErr: errors.New("b")}
	result, err := quietRunner(src).Execute(context.Background(), Options{Release: "24.04", Arch: "amd64", Package: "hello"})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if len(result.Degraded) != 2 || result.Degraded[1].Stage != StageContents {
		t.Errorf("Degraded = %v", result.Degraded)
	}
	if result.Manifest == nil || result.Manifest.Package != "hello" {
		t.Error("a manifest should still be built")
	}
}

func TestExecuteTimeoutDegrades(t *testing.T) {
	src := &fakeSource{
		deps:     []string{"libc6"},
		filesErr: slerrors.New(slerrors.ErrCodeTimeout, "fetch file list"),
	}
	result, err := quietRunner(src).Execute(context.Background(), Options{Release: "24.04", Arch: "amd64", Package: "hello"})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if len(result.Degraded) != 1 || !slerrors.Is(result.Degraded[0].Err, slerrors.ErrCodeTimeout) {
		t.Errorf("Degraded = %v, want one timeout failure", result.Degraded)
	}
}

func TestExecuteInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code slerrors.Code
	}{
		{"unknown release", Options{Release: "19.10", Arch: "amd64", Package: "curl"}, slerrors.ErrCodeInvalidRelease},
		{"release prefix", Options{Release: "24", Arch: "amd64", Package: "curl"}, slerrors.ErrCodeInvalidRelease},
		{"empty arch", Options{Release: "24.04", Package: "curl"}, slerrors.ErrCodeInvalidArch},
		{"arch with slash", Options{Release: "24.04", Arch: "amd64/../x", Package: "curl"}, slerrors.ErrCodeInvalidArch},
		{"bad package", Options{Release: "24.04", Arch: "amd64", Package: "Curl"}, slerrors.ErrCodeInvalidPackage},
		{"bad essential key", Options{Release: "24.04", Arch: "amd64", Package: "curl", Manifest: manifest.Options{EssentialKey: "x"}}, slerrors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &fakeSource{}
			_, err := quietRunner(src).Execute(context.Background(), tt.opts)
			if got := slerrors.GetCode(err); got != tt.code {
				t.Errorf("Execute() code = %q, want %q (err %v)", got, tt.code, err)
			}
			if !slerrors.IsInvalidInput(err) {
				t.Error("error should be an invalid-input error")
			}
			if src.codename != "" {
				t.Error("nothing should be fetched for invalid input")
			}
		})
	}
}

func TestExecuteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &fakeSource{depsErr: fmt.Errorf("fetch: %w", context.Canceled)}
	_, err := quietRunner(src).Execute(ctx, Options{Release: "24.04", Arch: "amd64", Package: "hello"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Execute() error = %v, want context.Canceled", err)
	}
}

func TestExecuteNoSource(t *testing.T) {
	_, err := NewRunner(nil, nil).Execute(context.Background(), Options{Release: "24.04", Arch: "amd64", Package: "hello"})
	if err == nil {
		t.Error("Execute() without a source should fail")
	}
}

func TestExecuteLegacyShape(t *testing.T) {
	legacy := filter.Legacy()
	src := &fakeSource{
		deps:  []string{"libc6"},
		files: []string{"/usr/bin/hello", "/usr/share/doc/hello/copyright", "/usr/share/doc/hello/NEWS.gz"},
	}

	result, err := quietRunner(src).Execute(context.Background(), Options{
		Release:  "23.10",
		Arch:     "arm64",
		Package:  "hello",
		Filter:   &legacy,
		Manifest: manifest.Options{EssentialKey: manifest.EssentialsKey},
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	var buf bytes.Buffer
	if err := result.Manifest.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	if result.Manifest.Slice(manifest.SliceCopyright) != nil {
		t.Error("legacy output has no copyright slice")
	}
	want := []string{"/usr/bin/hello", "/usr/share/doc/hello/copyright"}
	if got := result.Manifest.Slice(manifest.SliceAll).Contents.Keys(); !slices.Equal(got, want) {
		t.Errorf("contents = %v, want %v", got, want)
	}
	if !strings.Contains(out, "essentials:") {
		t.Errorf("legacy output should use the essentials key:\n%s", out)
	}
}

type recordingHooks struct {
	mu     sync.Mutex
	starts []string
	errs   map[string]error
}

func (h *recordingHooks) OnStageStart(_ context.Context, stage, _ string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.starts = append(h.starts, stage)
}

func (h *recordingHooks) OnStageComplete(_ context.Context, stage, _ string, _ int, _ time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.errs == nil {
		h.errs = make(map[string]error)
	}
	h.errs[stage] = err
}

func TestExecuteHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	src := &fakeSource{filesErr: errors.New("boom")}
	_, err := quietRunner(src).Execute(context.Background(), Options{
		Release: "24.04", Arch: "amd64", Package: "hello", Generalizer: generalize.New(),
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	want := []string{StageDependencies, StageContents, StageFilter, StageGeneralize, StageBuild}
	if !slices.Equal(hooks.starts, want) {
		t.Errorf("stages = %v, want %v", hooks.starts, want)
	}
	if hooks.errs[StageContents] == nil {
		t.Error("contents stage should report its error")
	}
	if hooks.errs[StageDependencies] != nil {
		t.Error("dependencies stage should succeed")
	}
}

func TestFailureError(t *testing.T) {
	f := Failure{Stage: StageContents, Err: errors.New("status 503")}
	if got, want := f.Error(), "contents: status 503"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
