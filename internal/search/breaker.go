package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/logger"
)

// Default circuit breaker settings.
const (
	defaultBreakerMaxFailures uint32        = 5
	defaultBreakerTimeout     time.Duration = 30 * time.Second
	defaultBreakerInterval    time.Duration = 60 * time.Second
)

// ErrCircuitOpen is returned while the breaker rejects calls
var ErrCircuitOpen = errors.New("search provider circuit open")

// BreakerProvider wraps a Provider with circuit breaker protection.
// After MaxFailures consecutive failures calls fail fast until Timeout has passed.
type BreakerProvider struct {
	inner   Provider
	breaker *gobreaker.CircuitBreaker[*Response]
}

// NewBreakerProvider wraps inner. Zero values fall back to defaults.
func NewBreakerProvider(inner Provider, maxFailures uint32, timeout time.Duration) *BreakerProvider {
	if maxFailures == 0 {
		maxFailures = defaultBreakerMaxFailures
	}
	if timeout <= 0 {
		timeout = defaultBreakerTimeout
	}

	cb := gobreaker.NewCircuitBreaker[*Response](gobreaker.Settings{
		Name:        "search:" + inner.Name(),
		MaxRequests: 1,
		Interval:    defaultBreakerInterval,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker %s: %s -> %s", name, from.String(), to.String())
		},
		// a cancelled search is the caller's doing, not a provider fault
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &BreakerProvider{inner: inner, breaker: cb}
}

func (p *BreakerProvider) Name() string { return p.inner.Name() }

func (p *BreakerProvider) Search(ctx context.Context, query string, opts Options) (*Response, error) {
	resp, err := p.breaker.Execute(func() (*Response, error) {
		return p.inner.Search(ctx, query, opts)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("provider %q: %w: %v", p.inner.Name(), ErrCircuitOpen, err)
		}
		return nil, err
	}
	return resp, nil
}

// State returns the current breaker state
func (p *BreakerProvider) State() gobreaker.State {
	return p.breaker.State()
}
