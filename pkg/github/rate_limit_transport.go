package github

import (
	"fmt"
	"net/http"

	"golang.org/x/time/rate"
)

// DefaultRequestsPerHour is GitHub's primary rate limit for authenticated users.
const DefaultRequestsPerHour = 5000

// rateLimitRoundTripper spaces requests out so a client stays under its
// hourly quota instead of running into 403 responses.
type rateLimitRoundTripper struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

// newRateLimiter converts an hourly budget into a token bucket with a small burst.
func newRateLimiter(requestsPerHour int) *rate.Limiter {
	if requestsPerHour <= 0 {
		requestsPerHour = DefaultRequestsPerHour
	}
	rps := rate.Limit(float64(requestsPerHour) / 3600)
	return rate.NewLimiter(rps, 10)
}

func (rt *rateLimitRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	if err := rt.limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		// 待ち時間がデッドラインを超える。いつ再試行できるかを添えて返す
		r := rt.limiter.Reserve()
		delay := r.Delay()
		r.Cancel()
		return nil, WrapWithRetryInfo(fmt.Errorf("client rate limit: %w", err), delay)
	}
	return rt.base.RoundTrip(req)
}
