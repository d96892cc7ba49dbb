package httpclient

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/flexprice/invoicer/internal/logger"
	"github.com/hashicorp/go-retryablehttp"
)

// Request represents an HTTP request
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
}

// Response represents an HTTP response
type Response struct {
	StatusCode int
	Body       []byte
	Headers    map[string]string
}

// Client interface for making HTTP requests
type Client interface {
	Send(ctx context.Context, req *Request) (*Response, error)
}

// ClientConfig holds configuration for the HTTP client
type ClientConfig struct {
	Timeout  time.Duration
	RetryMax int
	// MaxBodyBytes caps the response body, zero means unlimited
	MaxBodyBytes int64
	// PublicOnly refuses connections to loopback, private and link-local
	// addresses, for clients fetching caller supplied URLs
	PublicOnly bool
}

// RetryableClient implements Client with retries on connection errors and 5xx
type RetryableClient struct {
	client       *retryablehttp.Client
	maxBodyBytes int64
}

// NewRetryableClient creates a client backed by go-retryablehttp
func NewRetryableClient(cfg ClientConfig, log *logger.Logger) Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.RetryMax
	rc.RetryWaitMin = 100 * time.Millisecond
	rc.RetryWaitMax = time.Second
	rc.HTTPClient.Timeout = cfg.Timeout
	rc.Logger = leveledLogger{log}
	if cfg.PublicOnly {
		guardTransport(rc.HTTPClient)
	}

	return &RetryableClient{
		client:       rc,
		maxBodyBytes: cfg.MaxBodyBytes,
	}
}

// NewDefaultClient creates a client with a 30s timeout and no retries
func NewDefaultClient() Client {
	return NewRetryableClient(ClientConfig{Timeout: 30 * time.Second}, logger.L)
}

// Send makes an HTTP request and returns the response
func (c *RetryableClient) Send(ctx context.Context, req *Request) (*Response, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Please check the request payload").
			Mark(ierr.ErrHTTPClient)
	}

	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("The remote server could not be reached").
			Mark(ierr.ErrHTTPClient)
	}
	defer resp.Body.Close()

	reader := io.Reader(resp.Body)
	if c.maxBodyBytes > 0 {
		reader = io.LimitReader(resp.Body, c.maxBodyBytes+1)
	}
	respBody, err := io.ReadAll(reader)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("The response could not be read").
			Mark(ierr.ErrHTTPClient)
	}
	if c.maxBodyBytes > 0 && int64(len(respBody)) > c.maxBodyBytes {
		return nil, ierr.NewErrorf("response body exceeds %d bytes", c.maxBodyBytes).
			WithHint("The response is too large").
			WithReportableDetails(map[string]any{
				"url":       req.URL,
				"max_bytes": c.maxBodyBytes,
			}).
			Mark(ierr.ErrHTTPClient)
	}

	headers := make(map[string]string)
	for k, v := range resp.Header {
		if len(v) > 0 {
			headers[k] = v[0]
		}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, NewStatusError(req, resp.StatusCode, respBody)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       respBody,
		Headers:    headers,
	}, nil
}

// leveledLogger routes retryablehttp logs to zap
type leveledLogger struct {
	l *logger.Logger
}

func (z leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	z.l.Errorw(msg, keysAndValues...)
}

func (z leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	z.l.Debugw(msg, keysAndValues...)
}

func (z leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	z.l.Debugw(msg, keysAndValues...)
}

func (z leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	z.l.Warnw(msg, keysAndValues...)
}
