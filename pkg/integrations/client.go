package integrations

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	slerrors "github.com/matzehuels/slicer/pkg/errors"
	"github.com/matzehuels/slicer/pkg/httputil"
	"github.com/matzehuels/slicer/pkg/observability"
)

// Fetcher retrieves the body of a page as text.
// [Client] is the production implementation; tests substitute fakes.
type Fetcher interface {
	GetText(ctx context.Context, url string) (string, error)
}

// Client provides shared HTTP functionality for package site clients.
// It handles the retry policy, status classification, and common request
// headers. One Client is created per process and reused for every request.
type Client struct {
	http    *http.Client
	policy  httputil.Policy
	headers map[string]string
}

// NewClient creates a Client with the given retry policy, per-request
// timeout and default headers. A zero timeout selects the package default.
// Pass nil for headers if no default headers are needed.
func NewClient(policy httputil.Policy, timeout time.Duration, headers map[string]string) *Client {
	return &Client{
		http:    NewHTTPClient(timeout),
		policy:  policy,
		headers: headers,
	}
}

// Policy returns the retry policy applied to requests.
func (c *Client) Policy() httputil.Policy { return c.policy }

// GetText performs an HTTP GET request and returns the response body as a
// string. Transient failures are retried according to the client's policy.
//
// Returns:
//   - [ErrNotFound] (wrapped) for 404 responses
//   - [ErrTimeout] (wrapped) when the client timeout is exceeded
//   - [ErrNetwork] (wrapped) for connection failures, exhausted retries and
//     other non-2xx responses
//   - ctx.Err() if the context is cancelled while waiting
func (c *Client) GetText(ctx context.Context, rawURL string) (string, error) {
	var text string
	err := httputil.Retry(ctx, c.policy.ForMethod(http.MethodGet), func() error {
		body, err := c.doRequest(ctx, http.MethodGet, rawURL)
		if err != nil {
			return err
		}
		defer body.Close()
		data, err := io.ReadAll(body)
		if err != nil {
			return &httputil.RetryableError{Err: fmt.Errorf("%w: read body: %v", ErrNetwork, err)}
		}
		text = string(data)
		return nil
	})
	return text, err
}

func (c *Client) doRequest(ctx context.Context, method, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	host, path := hostPath(req.URL)
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, method, host, path, err)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrTimeout, err)}
		}
		return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	hooks.OnResponse(ctx, method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp, c.policy); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(resp *http.Response, policy httputil.Policy) error {
	code := resp.StatusCode
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case policy.RetryStatus(code):
		after := httputil.ParseRetryAfter(resp.Header.Get("Retry-After"))
		err := fmt.Errorf("%w: status %d", ErrNetwork, code)
		if code == http.StatusTooManyRequests {
			err = fmt.Errorf("%w: %w", ErrNetwork, &slerrors.RateLimitedError{RetryAfter: int(after / time.Second)})
		}
		return &httputil.RetryableError{Err: err, After: after}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

// Classify maps a fetch error onto the coded error taxonomy so callers can
// report it uniformly. Context cancellation is returned unchanged.
func Classify(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var rl *slerrors.RateLimitedError
	switch {
	case errors.Is(err, ErrNotFound):
		return slerrors.Wrap(slerrors.ErrCodeNotFound, err, format, args...)
	case errors.Is(err, ErrTimeout):
		return slerrors.Wrap(slerrors.ErrCodeTimeout, err, format, args...)
	case errors.As(err, &rl):
		return slerrors.Wrap(slerrors.ErrCodeRateLimited, err, format, args...)
	default:
		return slerrors.Wrap(slerrors.ErrCodeNetwork, err, format, args...)
	}
}

func hostPath(u *url.URL) (string, string) {
	if u == nil {
		return "", ""
	}
	return u.Host, u.Path
}
