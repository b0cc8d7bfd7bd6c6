// Package httputil provides HTTP utilities for the package page client.
//
// # Overview
//
// [Retry] wraps an operation with bounded retries for transient failures:
//
//   - Connection errors
//   - Response codes listed in [Policy.StatusForcelist] (429, 500, 502, 503, 504)
//
// Only errors wrapped in [RetryableError] are retried; anything else is
// returned on the first attempt. Delays grow exponentially from
// [Policy.Backoff] and never exceed [Policy.MaxDelay]:
//
//	err := httputil.Retry(ctx, httputil.DefaultPolicy(), func() error {
//	    resp, err := http.Get(url)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    ...
//	})
//
// # Configuration
//
// [DefaultPolicy] settings:
//
//   - Attempts: 5 (the first request plus 4 retries)
//   - Backoff: 1 second, doubling (1s, 2s, 4s, 8s)
//   - Max delay: 2 minutes
//   - Methods: HEAD, GET, OPTIONS
//
// Use [Policy.ForMethod] to drop retries for non-idempotent methods.
// A Retry-After header parsed with [ParseRetryAfter] may be carried in
// [RetryableError.After] to override the computed delay.
package httputil
