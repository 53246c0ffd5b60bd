package httpclient

import (
	"net/http"
	"time"
)

// DefaultTimeout bounds a single provider round trip when no timeout is configured.
const DefaultTimeout = 15 * time.Second

// HTTPClient abstracts HTTP client operations for testability
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// DefaultHTTPClient implements HTTPClient using the standard http.Client
type DefaultHTTPClient struct {
	client *http.Client
}

// NewDefaultHTTPClient creates a client with DefaultTimeout
func NewDefaultHTTPClient() *DefaultHTTPClient {
	return NewDefaultHTTPClientWithTimeout(DefaultTimeout)
}

// NewDefaultHTTPClientWithTimeout creates a client whose requests give up after timeout.
// A non-positive timeout falls back to DefaultTimeout.
func NewDefaultHTTPClientWithTimeout(timeout time.Duration) *DefaultHTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &DefaultHTTPClient{
		client: &http.Client{Timeout: timeout},
	}
}

func (c *DefaultHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return c.client.Do(req)
}
