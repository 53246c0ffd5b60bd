package search

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
)

type stubProvider struct {
	mu    sync.Mutex
	calls int
	err   error
	resp  *Response
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Search(ctx context.Context, query string, opts Options) (*Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

func (s *stubProvider) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestBreakerProvider_PassesThrough(t *testing.T) {
	inner := &stubProvider{resp: &Response{OrganicResults: []OrganicResult{{Title: "ok", Link: "https://ok.example"}}}}
	bp := NewBreakerProvider(inner, 0, 0)

	resp, err := bp.Search(context.Background(), "q", Options{})
	if err != nil {
		t.Fatalf("Search() failed: %v", err)
	}
	if len(resp.OrganicResults) != 1 {
		t.Errorf("Expected 1 result, got %d", len(resp.OrganicResults))
	}
	if bp.Name() != "stub" {
		t.Errorf("Expected name 'stub', got '%s'", bp.Name())
	}
}

func TestBreakerProvider_OpensAfterFailures(t *testing.T) {
	inner := &stubProvider{err: errors.New("upstream down")}
	bp := NewBreakerProvider(inner, 3, time.Minute)

	for i := 0; i < 3; i++ {
		if _, err := bp.Search(context.Background(), "q", Options{}); err == nil {
			t.Fatalf("Expected error on call %d, got nil", i+1)
		}
	}
	if bp.State() != gobreaker.StateOpen {
		t.Fatalf("Expected open circuit, got %s", bp.State())
	}

	_, err := bp.Search(context.Background(), "q", Options{})
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("Expected ErrCircuitOpen, got %v", err)
	}
	if inner.callCount() != 3 {
		t.Errorf("Expected provider to be skipped while open, got %d calls", inner.callCount())
	}
}

func TestBreakerProvider_HalfOpenRecovers(t *testing.T) {
	inner := &stubProvider{err: errors.New("upstream down")}
	bp := NewBreakerProvider(inner, 1, 50*time.Millisecond)

	if _, err := bp.Search(context.Background(), "q", Options{}); err == nil {
		t.Fatal("Expected error, got nil")
	}
	if bp.State() != gobreaker.StateOpen {
		t.Fatalf("Expected open circuit, got %s", bp.State())
	}

	time.Sleep(80 * time.Millisecond)
	inner.mu.Lock()
	inner.err = nil
	inner.resp = &Response{}
	inner.mu.Unlock()

	if _, err := bp.Search(context.Background(), "q", Options{}); err != nil {
		t.Fatalf("Expected probe to succeed, got %v", err)
	}
	if bp.State() != gobreaker.StateClosed {
		t.Errorf("Expected closed circuit, got %s", bp.State())
	}
}

func TestBreakerProvider_CancellationDoesNotTrip(t *testing.T) {
	inner := &stubProvider{err: context.Canceled}
	bp := NewBreakerProvider(inner, 1, time.Minute)

	for i := 0; i < 3; i++ {
		_, _ = bp.Search(context.Background(), "q", Options{})
	}
	if bp.State() != gobreaker.StateClosed {
		t.Errorf("Expected closed circuit after cancellations, got %s", bp.State())
	}
}
