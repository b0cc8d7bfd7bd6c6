package httputil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"
)

// RetryableError wraps an error to indicate it should trigger a retry.
// Wrap transient failures (connection errors, statuses in the policy's
// forcelist) with this type so that [Retry] knows to attempt the operation
// again. A positive After overrides the computed backoff for the next wait.
type RetryableError struct {
	Err   error
	After time.Duration
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Policy bounds how an HTTP operation is retried.
type Policy struct {
	Attempts        int           // total attempts, including the first
	Backoff         time.Duration // delay before the first retry; doubles afterwards
	MaxDelay        time.Duration // cap for any single delay (0 = uncapped)
	StatusForcelist []int         // response codes that are retried
	Methods         []string      // request methods eligible for retry
}

// DefaultPolicy returns the policy used for package page requests:
// 5 attempts, 1s exponential backoff capped at 2 minutes, retrying
// 429/500/502/503/504 for idempotent methods only.
func DefaultPolicy() Policy {
	return Policy{
		Attempts: 5,
		Backoff:  time.Second,
		MaxDelay: 2 * time.Minute,
		StatusForcelist: []int{
			http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout,
		},
		Methods: []string{http.MethodHead, http.MethodGet, http.MethodOptions},
	}
}

// RetryStatus reports whether a response with the given code should be retried.
func (p Policy) RetryStatus(code int) bool {
	return slices.Contains(p.StatusForcelist, code)
}

// RetryMethod reports whether requests with the given method may be retried.
func (p Policy) RetryMethod(method string) bool {
	return slices.ContainsFunc(p.Methods, func(m string) bool {
		return strings.EqualFold(m, method)
	})
}

// ForMethod returns p unchanged for retry-eligible methods and a
// single-attempt copy otherwise.
func (p Policy) ForMethod(method string) Policy {
	if !p.RetryMethod(method) {
		p.Attempts = 1
	}
	return p
}

// Delay returns the wait before retry number n (0-based).
func (p Policy) Delay(n int) time.Duration {
	d := p.Backoff
	for range n {
		if p.MaxDelay > 0 && d >= p.MaxDelay {
			break
		}
		d *= 2
	}
	if p.MaxDelay > 0 {
		d = min(d, p.MaxDelay)
	}
	return d
}

func (p Policy) wait(n int, err error) time.Duration {
	var re *RetryableError
	if errors.As(err, &re) && re.After > 0 && (p.MaxDelay == 0 || re.After <= p.MaxDelay) {
		return re.After
	}
	return p.Delay(n)
}

// Retry executes fn up to p.Attempts times with exponential backoff.
// It only retries errors wrapped with [RetryableError]; other errors are
// returned immediately. Returns the last error, annotated with the attempt
// count, if all attempts fail, or ctx.Err() if cancelled.
func Retry(ctx context.Context, p Policy, fn func() error) error {
	attempts := max(p.Attempts, 1)
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !isRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.wait(i, lastErr)):
			}
		}
	}
	if attempts > 1 {
		return fmt.Errorf("giving up after %d attempts: %w", attempts, lastErr)
	}
	return lastErr
}

// ParseRetryAfter parses a Retry-After header given in seconds.
// HTTP-date values and malformed input yield 0.
func ParseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func isRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}
