// Package retry repeats transient failures with exponential backoff.
package retry

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"
)

// Config controls retry behavior.
type Config struct {
	MaxRetries  int
	InitialWait time.Duration
	MaxWait     time.Duration
	// OnRetry, when set, is called before each wait.
	OnRetry func(attempt int, wait time.Duration, err error)
}

// Default is suitable for most HTTP calls.
var Default = Config{
	MaxRetries:  2,
	InitialWait: 500 * time.Millisecond,
	MaxWait:     5 * time.Second,
}

// Do calls fn until it succeeds, returns an error retryable rejects, or
// MaxRetries is used up. A nil retryable means IsTransient.
func Do[T any](ctx context.Context, c Config, retryable func(error) bool, fn func(ctx context.Context) (T, error)) (T, error) {
	if retryable == nil {
		retryable = IsTransient
	}

	var zero T
	var lastErr error
	wait := c.InitialWait

	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !retryable(err) || attempt == c.MaxRetries {
			break
		}

		if c.MaxWait > 0 && wait > c.MaxWait {
			wait = c.MaxWait
		}
		if c.OnRetry != nil {
			c.OnRetry(attempt+1, wait, err)
		}
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
		wait *= 2
	}
	return zero, lastErr
}

// StatusError is a non-2xx HTTP response.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return "unexpected status " + http.StatusText(e.StatusCode)
}

// HTTP runs fn with retry and turns non-2xx responses into *StatusError.
// The caller owns the returned response body.
func HTTP(ctx context.Context, c Config, fn func(ctx context.Context) (*http.Response, error)) (*http.Response, error) {
	return Do(ctx, c, nil, func(ctx context.Context) (*http.Response, error) {
		resp, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			return nil, &StatusError{StatusCode: resp.StatusCode}
		}
		return resp, nil
	})
}

// IsTransient reports network errors and retryable HTTP statuses.
func IsTransient(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return RetryableStatus(statusErr.StatusCode)
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}

// RetryableStatus reports HTTP status codes worth retrying.
func RetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}
