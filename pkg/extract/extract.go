// Package extract turns packages.ubuntu.com pages into plain lists.
//
// Two page shapes are understood:
//
//   - The package page, whose dependency groups are rendered as
//     <ul class="uldep"> blocks. The first block is the legend and is skipped.
//   - The file-list page, whose paths sit one per line in the <pre> block
//     inside <div id="pfilelist">.
//
// Both extractors return sorted lists. A page that lacks the expected
// elements entirely yields an empty list and no error; a page whose markup is
// present but malformed yields [ErrParse].
package extract

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ErrParse is returned when a page has an unexpected structure.
var ErrParse = errors.New("parse error")

const (
	dependencySelector = "ul.uldep"
	fileListSelector   = "div#pfilelist"
)

func parse(r io.Reader) (*goquery.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return goquery.NewDocumentFromNode(root), nil
}

// Dependencies extracts dependency names from a package page.
//
// Every <ul class="uldep"> block after the first contributes the text of the
// first link in each of its list items. The result is sorted; a name that
// appears in more than one group appears once per group.
func Dependencies(r io.Reader) ([]string, error) {
	doc, err := parse(r)
	if err != nil {
		return nil, err
	}

	var deps []string
	doc.Find(dependencySelector).Each(func(i int, ul *goquery.Selection) {
		if i == 0 {
			return
		}
		ul.Find("li").Each(func(_ int, li *goquery.Selection) {
			if a := li.Find("a").First(); a.Length() > 0 {
				deps = append(deps, a.Text())
			}
		})
	})
	slices.Sort(deps)
	return deps, nil
}

// Files extracts absolute paths from a file-list page.
//
// The text of the listing is split on line boundaries and blank lines are
// dropped; lines are otherwise kept verbatim. A page without the listing
// container yields no files. A container without a <pre> block is a parse
// error.
func Files(r io.Reader) ([]string, error) {
	doc, err := parse(r)
	if err != nil {
		return nil, err
	}

	container := doc.Find(fileListSelector).First()
	if container.Length() == 0 {
		return nil, nil
	}
	pre := container.Find("pre").First()
	if pre.Length() == 0 {
		return nil, fmt.Errorf("%w: %s has no pre block", ErrParse, fileListSelector)
	}

	files := splitLines(pre.Text())
	slices.Sort(files)
	return files, nil
}

// splitLines splits s on line boundaries (LF, CR, CRLF and the Unicode line
// and paragraph separators) and drops empty lines.
func splitLines(s string) []string {
	return strings.FieldsFunc(s, isLineBreak)
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}
