package httpclient

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestRateLimiter_ReserveWithinWindow(t *testing.T) {
	limiter := NewRateLimiter(time.Minute, 2)
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return base }

	if wait := limiter.reserve(); wait != 0 {
		t.Fatalf("first reserve should not wait, got %v", wait)
	}
	if wait := limiter.reserve(); wait != 0 {
		t.Fatalf("second reserve should not wait, got %v", wait)
	}

	limiter.now = func() time.Time { return base.Add(20 * time.Second) }
	if wait := limiter.reserve(); wait != 40*time.Second {
		t.Errorf("Expected 40s wait, got %v", wait)
	}

	limiter.now = func() time.Time { return base.Add(61 * time.Second) }
	if wait := limiter.reserve(); wait != 0 {
		t.Errorf("Expected window reset, got wait %v", wait)
	}
}

func TestRateLimiter_Disabled(t *testing.T) {
	limiter := NewRateLimiter(time.Minute, 0)
	for i := 0; i < 100; i++ {
		if wait := limiter.reserve(); wait != 0 {
			t.Fatalf("disabled limiter waited %v on request %d", wait, i)
		}
	}
}

func TestRateLimiter_WaitHonoursContext(t *testing.T) {
	limiter := NewRateLimiter(time.Hour, 1)
	if err := limiter.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() failed: %v", err)
	}

	var reported []bool
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	ctx = WithRateLimitReporter(ctx, func(wait time.Duration, waiting bool) {
		reported = append(reported, waiting)
	})

	err := limiter.Wait(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Expected deadline exceeded, got %v", err)
	}
	if len(reported) != 2 || !reported[0] || reported[1] {
		t.Errorf("Expected reporter [true false], got %v", reported)
	}
}

func TestRateLimitedClient_Delegates(t *testing.T) {
	mock := NewMockHTTPClient()
	mock.SetResponse("https://example.com/a", 200, "ok", nil)

	client := NewRateLimitedClient(mock, NewRateLimiter(time.Minute, 10))
	req, _ := http.NewRequest(http.MethodGet, "https://example.com/a", nil)

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Do() failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
	if len(mock.GetRequests()) != 1 {
		t.Errorf("Expected 1 request recorded, got %d", len(mock.GetRequests()))
	}
}

func TestRateLimitedClient_NilLimiter(t *testing.T) {
	mock := NewMockHTTPClient()
	client := NewRateLimitedClient(mock, nil)
	req, _ := http.NewRequest(http.MethodGet, "https://example.com/missing", nil)

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Do() failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 default, got %d", resp.StatusCode)
	}
}
