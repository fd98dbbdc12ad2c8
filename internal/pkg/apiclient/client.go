package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// RequestOption represents a function that can modify an HTTP request
type RequestOption func(*http.Request)

// ClientOption represents a function that can modify the HTTP client
type ClientOption func(*Client)

// Client sends every request the console makes to the remote API. It never
// retries: each call maps to exactly one outgoing request.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	defaultHeaders map[string]string
	logger         *zap.Logger
}

// New creates a Client with the given options
func New(options ...ClientOption) *Client {
	client := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		defaultHeaders: map[string]string{
			"Accept": "application/json",
		},
		logger: zap.NewNop(),
	}

	for _, option := range options {
		option(client)
	}

	return client
}

// WithBaseURL sets the base URL for all requests
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithTimeout sets the timeout for all requests
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithLogger sets the logger used for request outcomes.
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithQuery merges params into the request query string.
func WithQuery(params url.Values) RequestOption {
	return func(req *http.Request) {
		q := req.URL.Query()
		for key, values := range params {
			for _, v := range values {
				q.Add(key, v)
			}
		}
		req.URL.RawQuery = q.Encode()
	}
}

// WithBearerToken overrides the token carried by the request context.
func WithBearerToken(token string) RequestOption {
	return func(req *http.Request) {
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
}

// Get performs an HTTP GET request and decodes the JSON body into out.
func (c *Client) Get(ctx context.Context, path string, out interface{}, options ...RequestOption) error {
	return c.Do(ctx, http.MethodGet, path, nil, out, options...)
}

// Post performs an HTTP POST request with a JSON body
func (c *Client) Post(ctx context.Context, path string, body, out interface{}, options ...RequestOption) error {
	return c.Do(ctx, http.MethodPost, path, body, out, options...)
}

// Put performs an HTTP PUT request with a JSON body
func (c *Client) Put(ctx context.Context, path string, body, out interface{}, options ...RequestOption) error {
	return c.Do(ctx, http.MethodPut, path, body, out, options...)
}

// Delete performs an HTTP DELETE request
func (c *Client) Delete(ctx context.Context, path string, out interface{}, options ...RequestOption) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out, options...)
}

// Do performs one request. The credential token and correlation id found in
// ctx are attached automatically. Responses with status >= 400 come back as
// *APIError; a nil out discards the response body.
func (c *Client) Do(ctx context.Context, method, path string, body, out interface{}, options ...RequestOption) error {
	start := time.Now()
	fullURL := c.resolve(path)

	var bodyReader io.Reader
	if body != nil {
		bodyJSON, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyJSON)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range c.defaultHeaders {
		req.Header.Set(key, value)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := TokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if id := CorrelationIDFromContext(ctx); id != "" {
		req.Header.Set(CorrelationIDHeader, id)
	}

	for _, option := range options {
		option(req)
	}

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.logger.Error("api request failed",
			zap.String("method", method),
			zap.String("url", fullURL),
			zap.Error(err),
			zap.Duration("duration", duration),
		)
		return fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := newAPIError(method, fullURL, resp, bodyBytes)
		c.logger.Warn("api error response",
			zap.String("method", method),
			zap.String("url", fullURL),
			zap.Int("status", resp.StatusCode),
			zap.String("message", apiErr.Message),
			zap.Duration("duration", duration),
		)
		return apiErr
	}

	c.logger.Debug("api request successful",
		zap.String("method", method),
		zap.String("url", fullURL),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", duration),
	)

	if out == nil || len(bytes.TrimSpace(bodyBytes)) == 0 {
		return nil
	}
	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *Client) resolve(path string) string {
	if c.baseURL == "" {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}
