package provider

import (
	"context"
	"sync"
	"time"

	"k8s.io/utils/clock"
)

// RateLimiter is a token bucket guarding calls to the market-data API.
type RateLimiter struct {
	mu             sync.Mutex
	clock          clock.Clock
	tokens         int
	maxTokens      int
	refillInterval time.Duration
	lastRefill     time.Time
}

// NewRateLimiter allows maxTokens calls in a burst and adds one token every
// refillInterval.
func NewRateLimiter(maxTokens int, refillInterval time.Duration) *RateLimiter {
	return newRateLimiterWithClock(maxTokens, refillInterval, clock.RealClock{})
}

func newRateLimiterWithClock(maxTokens int, refillInterval time.Duration, clk clock.Clock) *RateLimiter {
	if maxTokens < 1 {
		maxTokens = 1
	}
	if refillInterval <= 0 {
		refillInterval = time.Millisecond
	}
	return &RateLimiter{
		clock:          clk,
		tokens:         maxTokens,
		maxTokens:      maxTokens,
		refillInterval: refillInterval,
		lastRefill:     clk.Now(),
	}
}

// Wait blocks until a token is available or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		r.mu.Lock()
		r.refill()
		if r.tokens > 0 {
			r.tokens--
			r.mu.Unlock()
			return nil
		}
		r.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.clock.After(r.refillInterval):
		}
	}
}

func (r *RateLimiter) refill() {
	elapsed := r.clock.Since(r.lastRefill)
	newTokens := int(elapsed / r.refillInterval)
	if newTokens > 0 {
		r.tokens = min(r.tokens+newTokens, r.maxTokens)
		r.lastRefill = r.lastRefill.Add(time.Duration(newTokens) * r.refillInterval)
	}
}
