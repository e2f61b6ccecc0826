package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryStrategies(t *testing.T) {
	tests := []struct {
		name         string
		strategy     RetryStrategy
		maxAttempts  int
		initialDelay time.Duration
		maxDelay     time.Duration
		jitter       bool
	}{
		{name: "default", strategy: DefaultRetryStrategy(), maxAttempts: 3, initialDelay: time.Second, maxDelay: 30 * time.Second, jitter: true},
		{name: "rate limit", strategy: RateLimitRetryStrategy(), maxAttempts: 5, initialDelay: 5 * time.Second, maxDelay: 5 * time.Minute, jitter: false},
		{name: "network", strategy: NetworkRetryStrategy(), maxAttempts: 4, initialDelay: 500 * time.Millisecond, maxDelay: 10 * time.Second, jitter: true},
		{name: "no retry", strategy: NoRetry(), maxAttempts: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.maxAttempts, tt.strategy.MaxAttempts)
			assert.Equal(t, tt.initialDelay, tt.strategy.InitialDelay)
			assert.Equal(t, tt.maxDelay, tt.strategy.MaxDelay)
			assert.Equal(t, tt.jitter, tt.strategy.Jitter)
		})
	}
}

func TestRetryStrategy_GetRetryDelay(t *testing.T) {
	base := RetryStrategy{
		InitialDelay: 1 * time.Second,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
	}
	withJitter := base
	withJitter.Jitter = true
	capped := RetryStrategy{InitialDelay: time.Second, MaxDelay: 5 * time.Second, Multiplier: 10}

	tests := []struct {
		name     string
		strategy RetryStrategy
		attempt  int
		minDelay time.Duration
		maxDelay time.Duration
	}{
		{name: "first attempt without jitter", strategy: base, attempt: 1, minDelay: time.Second, maxDelay: time.Second},
		{name: "third attempt without jitter", strategy: base, attempt: 3, minDelay: 4 * time.Second, maxDelay: 4 * time.Second},
		{name: "with jitter", strategy: withJitter, attempt: 2, minDelay: 2 * time.Second, maxDelay: 2500 * time.Millisecond},
		{name: "capped at max delay", strategy: capped, attempt: 3, minDelay: 5 * time.Second, maxDelay: 5 * time.Second},
		{name: "zero attempt", strategy: base, attempt: 0, minDelay: 0, maxDelay: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delay := tt.strategy.GetRetryDelay(tt.attempt)
			assert.GreaterOrEqual(t, delay, tt.minDelay)
			assert.LessOrEqual(t, delay, tt.maxDelay)
		})
	}
}

func TestRetryStrategy_ShouldRetry(t *testing.T) {
	tests := []struct {
		name     string
		strategy RetryStrategy
		err      error
		attempt  int
		expected bool
	}{
		{name: "nil error", strategy: DefaultRetryStrategy(), err: nil, attempt: 1, expected: false},
		{name: "exceeded max attempts", strategy: RetryStrategy{MaxAttempts: 3}, err: errors.New("some error"), attempt: 3, expected: false},
		{name: "retryable GitHub error", strategy: DefaultRetryStrategy(), err: &GitHubError{Type: ErrorTypeRateLimit}, attempt: 1, expected: true},
		{name: "non-retryable GitHub error", strategy: DefaultRetryStrategy(), err: &GitHubError{Type: ErrorTypeNotFound}, attempt: 1, expected: false},
		{name: "non-GitHub error first attempt", strategy: DefaultRetryStrategy(), err: errors.New("generic error"), attempt: 1, expected: true},
		{name: "non-GitHub error second attempt", strategy: DefaultRetryStrategy(), err: errors.New("generic error"), attempt: 2, expected: false},
		{name: "format mismatch", strategy: DefaultRetryStrategy(), err: fmt.Errorf("%w: x", ErrFormatMismatch), attempt: 1, expected: false},
		{name: "context canceled", strategy: DefaultRetryStrategy(), err: context.Canceled, attempt: 1, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.strategy.ShouldRetry(tt.err, tt.attempt))
		})
	}
}

func TestGetStrategyForError(t *testing.T) {
	tests := []struct {
		name                 string
		err                  error
		expectedMaxAttempts  int
		expectedInitialDelay time.Duration
	}{
		{name: "rate limit error", err: &GitHubError{Type: ErrorTypeRateLimit}, expectedMaxAttempts: 5, expectedInitialDelay: 5 * time.Second},
		{name: "network timeout error", err: &GitHubError{Type: ErrorTypeNetworkTimeout}, expectedMaxAttempts: 4, expectedInitialDelay: 500 * time.Millisecond},
		{name: "server error", err: &GitHubError{Type: ErrorTypeServerError}, expectedMaxAttempts: 3, expectedInitialDelay: 2 * time.Second},
		{name: "non-GitHub error", err: errors.New("generic error"), expectedMaxAttempts: 3, expectedInitialDelay: time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strategy := GetStrategyForError(tt.err)
			assert.Equal(t, tt.expectedMaxAttempts, strategy.MaxAttempts)
			assert.Equal(t, tt.expectedInitialDelay, strategy.InitialDelay)
		})
	}
}

func TestIsIdempotent(t *testing.T) {
	for _, m := range []string{http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete} {
		assert.True(t, isIdempotent(m), m)
	}
	for _, m := range []string{http.MethodPost, http.MethodPatch} {
		assert.False(t, isIdempotent(m), m)
	}
}

func TestRetryWithStrategy(t *testing.T) {
	strategy := RetryStrategy{MaxAttempts: 3, InitialDelay: 10 * time.Millisecond}

	tests := []struct {
		name          string
		results       []error
		expectedCalls int
		expectError   bool
	}{
		{name: "success on first attempt", results: []error{nil}, expectedCalls: 1},
		{name: "success on second attempt", results: []error{&GitHubError{Type: ErrorTypeServerError}, nil}, expectedCalls: 2},
		{
			name: "all attempts fail",
			results: []error{
				&GitHubError{Type: ErrorTypeServerError},
				&GitHubError{Type: ErrorTypeServerError},
				&GitHubError{Type: ErrorTypeServerError},
			},
			expectedCalls: 3,
			expectError:   true,
		},
		{name: "non-retryable error", results: []error{&GitHubError{Type: ErrorTypeNotFound}}, expectedCalls: 1, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := RetryWithStrategy(context.Background(), strategy, func() error {
				err := tt.results[calls]
				calls++
				return err
			})

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expectedCalls, calls)
		})
	}
}

func TestRetryWithStrategy_ContextCancellation(t *testing.T) {
	strategy := RetryStrategy{MaxAttempts: 5, InitialDelay: 10 * time.Millisecond, MaxDelay: 10 * time.Millisecond, Multiplier: 1}

	ctx, cancel := context.WithCancel(context.Background())

	callCount := 0
	err := RetryWithStrategy(ctx, strategy, func() error {
		callCount++
		if callCount == 2 {
			cancel()
		}
		return &GitHubError{Type: ErrorTypeServerError}
	})

	assert.Equal(t, context.Canceled, err)
	assert.Equal(t, 2, callCount)
}

func TestRetryWithStrategy_RespectRetryAfter(t *testing.T) {
	t.Run("正常系: RetryAfterの時間だけ待つ", func(t *testing.T) {
		strategy := RetryStrategy{MaxAttempts: 2, InitialDelay: 100 * time.Millisecond}
		retryAfter := 50 * time.Millisecond

		callCount := 0
		start := time.Now()
		err := RetryWithStrategy(context.Background(), strategy, func() error {
			callCount++
			if callCount == 1 {
				return &GitHubError{Type: ErrorTypeRateLimit, RetryAfter: retryAfter}
			}
			return nil
		})
		elapsed := time.Since(start)

		require.NoError(t, err)
		assert.GreaterOrEqual(t, elapsed, retryAfter)
	})

	t.Run("正常系: RetryAfterはMaxDelayで頭打ちになる", func(t *testing.T) {
		strategy := RetryStrategy{MaxAttempts: 2, InitialDelay: time.Millisecond, MaxDelay: 10 * time.Millisecond}

		callCount := 0
		start := time.Now()
		err := RetryWithStrategy(context.Background(), strategy, func() error {
			callCount++
			if callCount == 1 {
				return &GitHubError{Type: ErrorTypeRateLimit, RetryAfter: time.Hour}
			}
			return nil
		})

		require.NoError(t, err)
		assert.Less(t, time.Since(start), 5*time.Second)
	})
}

func TestRetryWithErrorStrategy(t *testing.T) {
	configured := RetryStrategy{MaxAttempts: 10, InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond, Multiplier: 1}

	tests := []struct {
		name          string
		strategy      RetryStrategy
		err           error
		expectedCalls int
	}{
		{name: "rate limit uses the rate limit schedule", strategy: configured, err: &GitHubError{Type: ErrorTypeRateLimit}, expectedCalls: 5},
		{name: "network timeout uses the network schedule", strategy: configured, err: &GitHubError{Type: ErrorTypeNetworkTimeout}, expectedCalls: 4},
		{name: "server error uses the server schedule", strategy: configured, err: &GitHubError{Type: ErrorTypeServerError}, expectedCalls: 3},
		{
			name:          "configured attempts stay the upper bound",
			strategy:      RetryStrategy{MaxAttempts: 2, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1},
			err:           &GitHubError{Type: ErrorTypeRateLimit},
			expectedCalls: 2,
		},
		{name: "non-retryable error runs once", strategy: configured, err: &GitHubError{Type: ErrorTypeValidation}, expectedCalls: 1},
		{name: "no retry runs once", strategy: NoRetry(), err: &GitHubError{Type: ErrorTypeRateLimit}, expectedCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			start := time.Now()
			err := RetryWithErrorStrategy(context.Background(), tt.strategy, func() error {
				calls++
				return tt.err
			})

			assert.Equal(t, tt.err, err)
			assert.Equal(t, tt.expectedCalls, calls)
			assert.Less(t, time.Since(start), time.Second, "delays are capped by the configured MaxDelay")
		})
	}

	t.Run("succeeds after a retry", func(t *testing.T) {
		calls := 0
		err := RetryWithErrorStrategy(context.Background(), configured, func() error {
			calls++
			if calls == 1 {
				return &GitHubError{Type: ErrorTypeNetworkTimeout}
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})
}

func TestRetryStrategy_BoundedBy(t *testing.T) {
	limit := RetryStrategy{MaxAttempts: 2, MaxDelay: time.Second}

	got := RateLimitRetryStrategy().boundedBy(limit)
	assert.Equal(t, 2, got.MaxAttempts)
	assert.Equal(t, time.Second, got.MaxDelay)
	assert.Equal(t, time.Second, got.InitialDelay)
	assert.Equal(t, 2.0, got.Multiplier)

	got = NetworkRetryStrategy().boundedBy(RetryStrategy{MaxAttempts: 10, MaxDelay: time.Minute})
	assert.Equal(t, NetworkRetryStrategy(), got)
}
