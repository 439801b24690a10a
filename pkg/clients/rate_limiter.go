package clients

import (
	"context"
	"sync/atomic"

	"golang.org/x/time/rate"
)

// RateLimiter is a token bucket in front of NetSuite's concurrency
// governance. It counts allowed and blocked requests for diagnostics.
type RateLimiter struct {
	limiter *rate.Limiter

	allowedRequests int64
	blockedRequests int64
}

// RateLimiterStats describes the limiter's configuration and counters
type RateLimiterStats struct {
	Rate            float64 `json:"rate"`
	Burst           int     `json:"burst"`
	AllowedRequests int64   `json:"allowed_requests"`
	BlockedRequests int64   `json:"blocked_requests"`
	CurrentTokens   float64 `json:"current_tokens"`
}

// NewRateLimiter creates a limiter of rps requests per second. A
// non-positive rps is unlimited; burst is at least one.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{limiter: rate.NewLimiter(limit, burst)}
}

// Allow reports whether a request may proceed now and consumes a token if so
func (r *RateLimiter) Allow() bool {
	if r.limiter.Allow() {
		atomic.AddInt64(&r.allowedRequests, 1)
		return true
	}
	atomic.AddInt64(&r.blockedRequests, 1)
	return false
}

// Wait blocks until a token is available or ctx is done
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.limiter.Wait(ctx); err != nil {
		atomic.AddInt64(&r.blockedRequests, 1)
		return err
	}
	atomic.AddInt64(&r.allowedRequests, 1)
	return nil
}

// SetRate updates the rate limit
func (r *RateLimiter) SetRate(rps float64) {
	if rps <= 0 {
		r.limiter.SetLimit(rate.Inf)
		return
	}
	r.limiter.SetLimit(rate.Limit(rps))
}

// SetBurst updates the burst size
func (r *RateLimiter) SetBurst(burst int) {
	r.limiter.SetBurst(burst)
}

// GetStats returns rate limiter statistics
func (r *RateLimiter) GetStats() RateLimiterStats {
	return RateLimiterStats{
		Rate:            float64(r.limiter.Limit()),
		Burst:           r.limiter.Burst(),
		AllowedRequests: atomic.LoadInt64(&r.allowedRequests),
		BlockedRequests: atomic.LoadInt64(&r.blockedRequests),
		CurrentTokens:   r.limiter.Tokens(),
	}
}
