package httpclient

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// RateLimiter admits at most maxRequests per fixed window. A non-positive
// maxRequests disables limiting.
type RateLimiter struct {
	window      time.Duration
	maxRequests int

	mu           sync.Mutex
	now          func() time.Time
	windowStart  time.Time
	usedRequests int
}

// RateLimitReporter is told when a request starts and stops waiting for the window.
type RateLimitReporter func(wait time.Duration, waiting bool)

type rateLimitReporterKey struct{}

// WithRateLimitReporter attaches a reporter that RateLimiter.Wait notifies.
func WithRateLimitReporter(ctx context.Context, reporter RateLimitReporter) context.Context {
	if reporter == nil {
		return ctx
	}
	return context.WithValue(ctx, rateLimitReporterKey{}, reporter)
}

func reportRateLimit(ctx context.Context, wait time.Duration, waiting bool) {
	if ctx == nil {
		return
	}
	if reporter, ok := ctx.Value(rateLimitReporterKey{}).(RateLimitReporter); ok && reporter != nil {
		reporter(wait, waiting)
	}
}

// NewRateLimiter creates a limiter allowing maxRequests per window.
func NewRateLimiter(window time.Duration, maxRequests int) *RateLimiter {
	return &RateLimiter{
		window:      window,
		maxRequests: maxRequests,
		now:         time.Now,
	}
}

// Wait blocks until a request slot is free or ctx is done.
func (l *RateLimiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}
	for {
		wait := l.reserve()
		if wait == 0 {
			return nil
		}
		reportRateLimit(ctx, wait, true)
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			reportRateLimit(ctx, 0, false)
			return ctx.Err()
		case <-timer.C:
		}
		reportRateLimit(ctx, 0, false)
	}
}

func (l *RateLimiter) reserve() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.maxRequests <= 0 {
		return 0
	}

	now := l.now()
	if l.windowStart.IsZero() || now.Sub(l.windowStart) >= l.window {
		l.windowStart = now
		l.usedRequests = 0
	}

	if l.usedRequests+1 <= l.maxRequests {
		l.usedRequests++
		return 0
	}

	wait := l.windowStart.Add(l.window).Sub(now)
	if wait <= 0 {
		return time.Millisecond
	}
	return wait
}

// UpdateLimit changes the per-window request budget; non-positive values are ignored.
func (l *RateLimiter) UpdateLimit(requestsPerWindow int) {
	if l == nil || requestsPerWindow <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.maxRequests = requestsPerWindow
}

// RateLimitedClient waits on a RateLimiter before delegating to the inner client.
type RateLimitedClient struct {
	inner   HTTPClient
	limiter *RateLimiter
}

// NewRateLimitedClient wraps inner. A nil limiter passes requests straight through.
func NewRateLimitedClient(inner HTTPClient, limiter *RateLimiter) *RateLimitedClient {
	return &RateLimitedClient{inner: inner, limiter: limiter}
}

func (c *RateLimitedClient) Do(req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return c.inner.Do(req)
}
