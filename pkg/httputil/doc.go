// Package httputil provides the HTTP plumbing used by remote graph sources.
//
// # Overview
//
//   - [Client]: JSON GET with status mapping and observability hooks
//   - [Retry]: Automatic retry with exponential backoff
//
// # Retry
//
// [Retry] re-runs an operation for transient failures only:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses (honoring Retry-After, capped at [MaxRetryAfter])
//
// Anything else, including 4xx responses and undecodable bodies, is
// returned on the first attempt:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    return fetch(ctx)
//	})
//
// # Errors
//
// Client errors carry pkg/errors codes: NOT_FOUND for 404, RATE_LIMITED for
// 429, NETWORK_ERROR for connection failures and other statuses, TIMEOUT
// when the context expires, and INVALID_GRAPH when the body is not JSON.
package httputil
