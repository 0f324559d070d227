package httputil

import (
	"context"
	"errors"
	"testing"
	"time"

	kberrors "github.com/matzehuels/kbgraph/pkg/errors"
)

var errTransient = errors.New("transient")

func TestRetryable(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}
	err := Retryable(errTransient)
	if !IsRetryable(err) {
		t.Error("wrapped error should be retryable")
	}
	if !errors.Is(err, errTransient) {
		t.Error("wrapped error should unwrap to the cause")
	}
	if err.Error() != errTransient.Error() {
		t.Errorf("message changed: %q", err.Error())
	}
	if IsRetryable(errTransient) {
		t.Error("plain error should not be retryable")
	}
	if !IsRetryable(&kberrors.RateLimitedError{}) {
		t.Error("rate limit errors should be retryable")
	}
}

func TestRetry(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		failures  int
		err       error
		attempts  int
		wantCalls int
		wantErr   bool
	}{
		{"success first try", 0, nil, 3, 1, false},
		{"non-retryable stops", 5, errTransient, 3, 1, true},
		{"retryable recovers", 1, Retryable(errTransient), 3, 2, false},
		{"retryable exhausts", 5, Retryable(errTransient), 3, 3, true},
		{"rate limited recovers", 1, &kberrors.RateLimitedError{}, 3, 2, false},
		{"zero attempts runs once", 5, Retryable(errTransient), 0, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Retry(ctx, tt.attempts, time.Millisecond, func() error {
				calls++
				if calls <= tt.failures {
					return tt.err
				}
				return nil
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("Retry() error = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, 3, time.Hour, func() error { return Retryable(errTransient) })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Retry() = %v, want context.Canceled", err)
	}
}

func TestRetryDelayHonorsRetryAfter(t *testing.T) {
	tests := []struct {
		name string
		err  error
		base time.Duration
		want time.Duration
	}{
		{"plain retryable", Retryable(errTransient), time.Second, time.Second},
		{"retry-after longer", &kberrors.RateLimitedError{RetryAfter: 5}, time.Second, 5 * time.Second},
		{"retry-after shorter", &kberrors.RateLimitedError{RetryAfter: 1}, 4 * time.Second, 4 * time.Second},
		{"retry-after capped", &kberrors.RateLimitedError{RetryAfter: 3600}, time.Second, MaxRetryAfter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := retryDelay(tt.err, tt.base)
			if !ok || got != tt.want {
				t.Errorf("retryDelay() = %v, %v; want %v, true", got, ok, tt.want)
			}
		})
	}
}
