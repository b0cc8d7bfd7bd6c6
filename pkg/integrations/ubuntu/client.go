package ubuntu

import (
	"context"
	"strings"

	slerrors "github.com/matzehuels/slicer/pkg/errors"
	"github.com/matzehuels/slicer/pkg/extract"
	"github.com/matzehuels/slicer/pkg/integrations"
	"github.com/matzehuels/slicer/pkg/release"
)

// DefaultBaseURL is the public Ubuntu package site.
const DefaultBaseURL = "https://packages.ubuntu.com"

// Client reads package and file-list pages from an Ubuntu package site.
type Client struct {
	fetcher integrations.Fetcher
	baseURL string
}

// NewClient creates a Client that fetches through f.
// An empty baseURL selects [DefaultBaseURL].
func NewClient(f integrations.Fetcher, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{fetcher: f, baseURL: strings.TrimRight(baseURL, "/")}
}

// BaseURL returns the site root requests are made against.
func (c *Client) BaseURL() string { return c.baseURL }

// PackageURL returns the URL of the package page for pkg in codename.
func (c *Client) PackageURL(codename release.Codename, pkg string) string {
	return integrations.JoinURL(c.baseURL, codename.String(), pkg)
}

// FileListURL returns the URL of the file list of pkg for arch in codename.
func (c *Client) FileListURL(codename release.Codename, arch, pkg string) string {
	return integrations.JoinURL(c.baseURL, codename.String(), arch, pkg, "filelist")
}

// FetchDependencies returns the sorted dependency names of pkg.
//
// Returns:
//   - the dependency list (possibly empty) on success
//   - a NOT_FOUND, RATE_LIMITED or NETWORK_ERROR coded error if the page
//     could not be fetched
//   - a PARSE_ERROR coded error if the page could not be read
func (c *Client) FetchDependencies(ctx context.Context, codename release.Codename, pkg string) ([]string, error) {
	url := c.PackageURL(codename, pkg)
	page, err := c.fetcher.GetText(ctx, url)
	if err != nil {
		return nil, integrations.Classify(err, "fetch dependencies from %s", url)
	}
	deps, err := extract.Dependencies(strings.NewReader(page))
	if err != nil {
		return nil, slerrors.Wrap(slerrors.ErrCodeParse, err, "parse dependencies from %s", url)
	}
	return deps, nil
}

// FetchFiles returns the sorted file paths of pkg for arch.
// Errors are reported as for [Client.FetchDependencies].
func (c *Client) FetchFiles(ctx context.Context, codename release.Codename, arch, pkg string) ([]string, error) {
	url := c.FileListURL(codename, arch, pkg)
	page, err := c.fetcher.GetText(ctx, url)
	if err != nil {
		return nil, integrations.Classify(err, "fetch file list from %s", url)
	}
	files, err := extract.Files(strings.NewReader(page))
	if err != nil {
		return nil, slerrors.Wrap(slerrors.ErrCodeParse, err, "parse file list from %s", url)
	}
	return files, nil
}
