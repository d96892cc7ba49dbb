package testutil

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/flexprice/invoicer/internal/httpclient"
)

// MockHTTPClient implements a mock HTTP client for testing
type MockHTTPClient struct {
	mu     sync.RWMutex
	routes map[string]MockResponse
	calls  map[string]int
}

// MockResponse represents a mock HTTP response
type MockResponse struct {
	StatusCode int
	Body       []byte
	Headers    map[string]string
	// Err is returned instead of a response when set
	Err error
}

// NewMockHTTPClient creates a new mock HTTP client
func NewMockHTTPClient() *MockHTTPClient {
	return &MockHTTPClient{
		routes: make(map[string]MockResponse),
		calls:  make(map[string]int),
	}
}

// RegisterResponse registers a mock response for a given URL suffix
func (m *MockHTTPClient) RegisterResponse(url string, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes[url] = resp
}

// RegisterImageResponse is a helper to register an image body
func (m *MockHTTPClient) RegisterImageResponse(url, contentType string, body []byte) {
	m.RegisterResponse(url, MockResponse{
		StatusCode: http.StatusOK,
		Body:       body,
		Headers: map[string]string{
			"Content-Type": contentType,
		},
	})
}

// Calls returns how often a URL suffix was requested
func (m *MockHTTPClient) Calls(url string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls[url]
}

// Send implements the httpclient.Client interface
func (m *MockHTTPClient) Send(ctx context.Context, req *httpclient.Request) (*httpclient.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var matched MockResponse
	var route string
	found := false
	for r, resp := range m.routes {
		if strings.HasSuffix(req.URL, r) {
			matched, route, found = resp, r, true
			break
		}
	}

	if !found {
		return nil, httpclient.NewStatusError(req, http.StatusNotFound, []byte("Not Found"))
	}
	m.calls[route]++

	if matched.Err != nil {
		return nil, matched.Err
	}
	if matched.StatusCode >= http.StatusBadRequest {
		return nil, httpclient.NewStatusError(req, matched.StatusCode, matched.Body)
	}

	return &httpclient.Response{
		StatusCode: matched.StatusCode,
		Body:       matched.Body,
		Headers:    matched.Headers,
	}, nil
}

// Clear removes all registered routes
func (m *MockHTTPClient) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes = make(map[string]MockResponse)
	m.calls = make(map[string]int)
}
