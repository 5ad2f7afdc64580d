package stormglass

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitedFetcher wraps a Fetcher so it stays inside the API's daily quota.
// A request over budget fails at once with ErrRateLimited instead of waiting for a token.
type RateLimitedFetcher struct {
	fetcher Fetcher
	limiter *rate.Limiter
}

// NewRateLimitedFetcher allows one request every interval with bursts of up to burst requests
func NewRateLimitedFetcher(fetcher Fetcher, interval time.Duration, burst int) *RateLimitedFetcher {
	return &RateLimitedFetcher{
		fetcher: fetcher,
		limiter: rate.NewLimiter(rate.Every(interval), burst),
	}
}

// FetchForecast forwards to the wrapped fetcher when a token is available
func (r *RateLimitedFetcher) FetchForecast(ctx context.Context, q Query) (*Response, error) {
	if !r.limiter.Allow() {
		return nil, ErrRateLimited
	}
	return r.fetcher.FetchForecast(ctx, q)
}

var _ Fetcher = (*RateLimitedFetcher)(nil)
