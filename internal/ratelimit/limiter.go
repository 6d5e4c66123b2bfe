// Package ratelimit provides the shared per-host token bucket and the
// exponential backoff schedule used between failed fetch attempts.
package ratelimit

import (
	"context"
	"math"
	"math/rand"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// HostLimiter throttles requests per target host. All pipeline workers
// share one instance, so the requests-per-second ceiling holds regardless
// of worker count. Safe for concurrent use.
type HostLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
	burst    int

	initialBackoff time.Duration
	maxBackoff     time.Duration
}

// Option configures a HostLimiter.
type Option func(*HostLimiter)

// WithBackoff overrides the backoff schedule bounds.
func WithBackoff(initial, max time.Duration) Option {
	return func(h *HostLimiter) {
		h.initialBackoff = initial
		h.maxBackoff = max
	}
}

// NewHostLimiter creates a HostLimiter enforcing rps requests per second
// with the given burst per host.
func NewHostLimiter(rps float64, burst int, opts ...Option) *HostLimiter {
	if rps <= 0 {
		rps = 0.5
	}
	if burst < 1 {
		burst = 1
	}
	h := &HostLimiter{
		limiters:       make(map[string]*rate.Limiter),
		rps:            rps,
		burst:          burst,
		initialBackoff: 500 * time.Millisecond,
		maxBackoff:     10 * time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *HostLimiter) limiterFor(host string) *rate.Limiter {
	h.mu.Lock()
	defer h.mu.Unlock()
	lim, ok := h.limiters[host]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(h.rps), h.burst)
		h.limiters[host] = lim
	}
	return lim
}

// Wait blocks until the host's bucket grants a token or ctx is done.
func (h *HostLimiter) Wait(ctx context.Context, host string) error {
	return h.limiterFor(host).Wait(ctx)
}

// WaitURL extracts the host from rawURL and waits on its bucket. Unparseable
// URLs share a single bucket rather than bypassing the limit.
func (h *HostLimiter) WaitURL(ctx context.Context, rawURL string) error {
	host := "unknown"
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		host = u.Host
	}
	return h.Wait(ctx, host)
}

// Backoff returns the delay before retry number attempt (0-based), using
// exponential growth with ±25% jitter, capped at the configured max.
func (h *HostLimiter) Backoff(attempt int) time.Duration {
	d := float64(h.initialBackoff) * math.Pow(2, float64(attempt))
	if d > float64(h.maxBackoff) {
		d = float64(h.maxBackoff)
	}
	jitter := d * 0.25 * (2*rand.Float64() - 1)
	return time.Duration(d + jitter)
}

// Sleep waits for the backoff delay of the given attempt, returning early
// with ctx.Err() on cancellation.
func (h *HostLimiter) Sleep(ctx context.Context, attempt int) error {
	timer := time.NewTimer(h.Backoff(attempt))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
