package httputil

import (
	"context"
	"errors"
	"time"

	kberrors "github.com/matzehuels/kbgraph/pkg/errors"
)

// RetryableError wraps an error to indicate it should trigger a retry.
// Wrap transient failures (network timeouts, 5xx responses) with this type
// so that [Retry] knows to attempt the operation again.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err as a RetryableError. Nil stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// MaxRetryAfter caps how long a server may ask us to wait.
const MaxRetryAfter = 30 * time.Second

// Retry executes fn up to attempts times with exponential backoff.
// It only retries errors wrapped with [RetryableError] or rate-limit errors;
// other errors are returned immediately. The delay doubles after each
// failed attempt, unless a rate-limit error names a longer wait.
// Returns the last error if all attempts fail, or ctx.Err() if cancelled.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		wait, ok := retryDelay(err, delay)
		if !ok {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
				delay *= 2
			}
		}
	}
	return lastErr
}

// RetryWithBackoff is a convenience wrapper around [Retry] with sensible
// defaults: 3 attempts with 1 second initial delay (doubling each retry).
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, 3, time.Second, fn)
}

// IsRetryable reports whether Retry would try err again.
func IsRetryable(err error) bool {
	_, ok := retryDelay(err, 0)
	return ok
}

func retryDelay(err error, base time.Duration) (time.Duration, bool) {
	var rl *kberrors.RateLimitedError
	if errors.As(err, &rl) {
		return min(max(base, time.Duration(rl.RetryAfter)*time.Second), MaxRetryAfter), true
	}
	if errors.As(err, new(*RetryableError)) {
		return base, true
	}
	return 0, false
}
