package httpclient

import (
	"bytes"
	"io"
	"net/http"
	"sync"
)

type mockResponse struct {
	statusCode int
	body       []byte
	headers    http.Header
}

// MockHTTPClient is a mock implementation of HTTPClient for testing.
// It is safe for concurrent use; each matching request gets a fresh body.
type MockHTTPClient struct {
	mu        sync.Mutex
	responses map[string]mockResponse
	errors    map[string]error
	requests  []*http.Request
}

// NewMockHTTPClient creates a new MockHTTPClient instance
func NewMockHTTPClient() *MockHTTPClient {
	return &MockHTTPClient{
		responses: make(map[string]mockResponse),
		errors:    make(map[string]error),
		requests:  make([]*http.Request, 0),
	}
}

// SetResponse sets a mock response for a URL
func (m *MockHTTPClient) SetResponse(url string, statusCode int, body string, headers map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	h := make(http.Header)
	for k, v := range headers {
		h.Set(k, v)
	}
	m.responses[url] = mockResponse{statusCode: statusCode, body: []byte(body), headers: h}
}

// SetError sets an error to return for a URL
func (m *MockHTTPClient) SetError(url string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[url] = err
}

// GetRequests returns all requests made to this client
func (m *MockHTTPClient) GetRequests() []*http.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*http.Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// ClearRequests clears the request history
func (m *MockHTTPClient) ClearRequests() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = make([]*http.Request, 0)
}

func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)
	url := req.URL.String()

	if err, ok := m.errors[url]; ok {
		return nil, err
	}

	if resp, ok := m.responses[url]; ok {
		return &http.Response{
			Status:     http.StatusText(resp.statusCode),
			StatusCode: resp.statusCode,
			Body:       io.NopCloser(bytes.NewReader(resp.body)),
			Header:     resp.headers.Clone(),
			Request:    req,
		}, nil
	}

	return &http.Response{
		Status:     http.StatusText(http.StatusNotFound),
		StatusCode: http.StatusNotFound,
		Body:       io.NopCloser(bytes.NewReader([]byte("Not Found"))),
		Header:     make(http.Header),
		Request:    req,
	}, nil
}
