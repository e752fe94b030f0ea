// Package api is a small JSON-over-HTTP client shared by REST broker gateways.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"screener-trader/internal/logger"
)

// Client holds the base URL and headers sent with every request.
type Client struct {
	httpClient *http.Client
	baseURL    string
	headers    map[string]string
	useLogging bool
}

type ClientOption func(*Client)

func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHeader sets a header sent on every request. Credentials go here.
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// WithHTTPClient replaces the transport, e.g. with an httptest server's client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithLogging(enabled bool) ClientOption {
	return func(c *Client) {
		c.useLogging = enabled
	}
}

func NewClient(opts ...ClientOption) *Client {
	client := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		headers:    make(map[string]string),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Timeout is the per-request limit of the underlying HTTP client. Zero means none.
func (c *Client) Timeout() time.Duration {
	return c.httpClient.Timeout
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}

// StatusError is returned for 4xx and 5xx answers. The response is returned alongside
// it so callers can decode the broker's error payload.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// Do sends body as JSON when non-nil. Transport failures return a nil Response.
func (c *Client) Do(ctx context.Context, method, path string, body any) (*Response, error) {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		if c.useLogging {
			logger.Error(ctx, "HTTP request failed", "method", method, "url", url, "error", err)
		}
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if c.useLogging {
		logger.Debug(ctx, "HTTP response",
			"method", method,
			"url", url,
			"status", httpResp.StatusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"body_size", len(respBody),
		)
	}

	resp := &Response{StatusCode: httpResp.StatusCode, Body: respBody, Headers: httpResp.Header}
	if httpResp.StatusCode >= 400 {
		if c.useLogging {
			logger.Warn(ctx, "HTTP error response", "method", method, "url", url, "status", httpResp.StatusCode, "body", string(respBody))
		}
		return resp, &StatusError{StatusCode: httpResp.StatusCode, Body: string(respBody)}
	}
	return resp, nil
}

func (c *Client) POST(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, body)
}

func (c *Client) GET(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil)
}

// ParseJSON decodes the response body into v.
func (r *Response) ParseJSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("parse JSON response: %w", err)
	}
	return nil
}
