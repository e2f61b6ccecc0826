package github

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"net/http"
	"time"
)

// RetryStrategy defines the retry behavior for GitHub API operations
type RetryStrategy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	Jitter       bool
}

// DefaultRetryStrategy returns a default retry strategy
func DefaultRetryStrategy() RetryStrategy {
	return RetryStrategy{
		MaxAttempts:  3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
		Jitter:       true,
	}
}

// RateLimitRetryStrategy returns a retry strategy optimized for rate limits
func RateLimitRetryStrategy() RetryStrategy {
	return RetryStrategy{
		MaxAttempts:  5,
		InitialDelay: 5 * time.Second,
		MaxDelay:     5 * time.Minute,
		Multiplier:   2.0,
		Jitter:       false, // Use exact retry-after values when available
	}
}

// NetworkRetryStrategy returns a retry strategy optimized for network issues
func NetworkRetryStrategy() RetryStrategy {
	return RetryStrategy{
		MaxAttempts:  4,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     10 * time.Second,
		Multiplier:   1.5,
		Jitter:       true,
	}
}

// NoRetry returns a strategy that runs the operation exactly once
func NoRetry() RetryStrategy {
	return RetryStrategy{MaxAttempts: 1, Multiplier: 1}
}

// GetRetryDelay calculates the delay for a given attempt
func (rs *RetryStrategy) GetRetryDelay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}

	delay := float64(rs.InitialDelay) * math.Pow(rs.Multiplier, float64(attempt-1))

	if delay > float64(rs.MaxDelay) {
		delay = float64(rs.MaxDelay)
	}

	// Add up to 25% jitter
	if rs.Jitter && delay > 0 {
		jitter := rand.Float64() * 0.25 * delay
		delay += jitter
	}

	return time.Duration(delay)
}

// ShouldRetry determines if an operation should be retried based on the error
func (rs *RetryStrategy) ShouldRetry(err error, attempt int) bool {
	if err == nil || attempt >= rs.MaxAttempts {
		return false
	}

	if errors.Is(err, ErrFormatMismatch) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var ghErr *GitHubError
	if !errors.As(err, &ghErr) {
		// For non-GitHubError, retry on a limited basis
		return attempt < 2
	}

	return ghErr.IsRetryable()
}

// GetStrategyForError returns the appropriate retry strategy for a given error
func GetStrategyForError(err error) RetryStrategy {
	var ghErr *GitHubError
	if !errors.As(err, &ghErr) {
		return DefaultRetryStrategy()
	}

	switch ghErr.Type {
	case ErrorTypeRateLimit:
		return RateLimitRetryStrategy()
	case ErrorTypeNetworkTimeout:
		return NetworkRetryStrategy()
	case ErrorTypeServerError:
		return RetryStrategy{
			MaxAttempts:  3,
			InitialDelay: 2 * time.Second,
			MaxDelay:     20 * time.Second,
			Multiplier:   2.0,
			Jitter:       true,
		}
	default:
		return DefaultRetryStrategy()
	}
}

// boundedBy caps rs to the attempts and delays allowed by limit.
func (rs RetryStrategy) boundedBy(limit RetryStrategy) RetryStrategy {
	if rs.MaxAttempts > limit.MaxAttempts {
		rs.MaxAttempts = limit.MaxAttempts
	}
	if limit.MaxDelay > 0 && rs.MaxDelay > limit.MaxDelay {
		rs.MaxDelay = limit.MaxDelay
	}
	if rs.InitialDelay > rs.MaxDelay {
		rs.InitialDelay = rs.MaxDelay
	}
	return rs
}

// RetryWithErrorStrategy runs operation once and, when it fails with a rate
// limit, network or server error, retries on the schedule GetStrategyForError
// picks for that error. strategy stays the upper bound for attempts and delay.
func RetryWithErrorStrategy(ctx context.Context, strategy RetryStrategy, operation func() error) error {
	err := operation()
	if !strategy.ShouldRetry(err, 1) {
		return err
	}

	var ghErr *GitHubError
	if errors.As(err, &ghErr) {
		switch ghErr.Type {
		case ErrorTypeRateLimit, ErrorTypeNetworkTimeout, ErrorTypeServerError:
			strategy = GetStrategyForError(err).boundedBy(strategy)
		}
	}

	// 最初の失敗はもう起きているので、1回目はその結果を返す
	first := true
	return RetryWithStrategy(ctx, strategy, func() error {
		if first {
			first = false
			return err
		}
		return operation()
	})
}

// isIdempotent reports whether a request with the given method may be resent.
func isIdempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete:
		return true
	default:
		return false
	}
}

// RetryWithStrategy executes a function with retry logic
func RetryWithStrategy(ctx context.Context, strategy RetryStrategy, operation func() error) error {
	var lastErr error

	maxAttempts := strategy.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}

		lastErr = err

		if !strategy.ShouldRetry(err, attempt) {
			return err
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		// Don't sleep on the last attempt
		if attempt < maxAttempts {
			delay := strategy.GetRetryDelay(attempt)

			// If error has specific retry-after, use it
			var ghErr *GitHubError
			if errors.As(err, &ghErr) && ghErr.RetryAfter > 0 {
				delay = ghErr.RetryAfter
				if strategy.MaxDelay > 0 && delay > strategy.MaxDelay {
					delay = strategy.MaxDelay
				}
			}

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return lastErr
}
