package integrations

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const httpTimeout = 30 * time.Second

var (
	// ErrNotFound is returned when a package or page doesn't exist on the site.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors,
	// exhausted retries and unexpected status codes).
	ErrNetwork = errors.New("network error")

	// ErrTimeout is returned when a request exceeds the client timeout.
	// It wraps [ErrNetwork].
	ErrTimeout = fmt.Errorf("%w: request timed out", ErrNetwork)
)

// NewHTTPClient creates an HTTP client with the given per-request timeout.
// A non-positive timeout selects the default of 30 seconds.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = httpTimeout
	}
	return &http.Client{Timeout: timeout}
}

// JoinURL appends escaped path segments to base.
// Each segment is escaped with [url.PathEscape] so user-supplied names can't
// introduce extra path components.
func JoinURL(base string, segments ...string) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(base, "/"))
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}
