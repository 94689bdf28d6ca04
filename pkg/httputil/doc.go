// Package httputil provides HTTP utilities for the metadata enrichment client.
//
// [Retry] wraps HTTP requests with automatic retry for transient failures:
//
//   - Network errors
//   - 5xx server errors
//
// Only errors wrapped with [RetryableError] are retried; everything else is
// returned immediately. The backoff delay doubles after each failed attempt.
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    return fetchOnce()
//	})
package httputil
