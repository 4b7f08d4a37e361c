package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/resilience"
)

// DefaultTimeout bounds every request unless the constructor overrides it
const DefaultTimeout = 15 * time.Second

// HTTPError is returned for any non-2xx response. The raw body is preserved so
// callers can extract structured error messages.
type HTTPError struct {
	StatusCode int
	Body       []byte
}

// Error implements the error interface
func (e *HTTPError) Error() string {
	if len(e.Body) > 0 {
		body := e.Body
		if len(body) > 256 {
			body = body[:256]
		}
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, string(body))
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// Client is a JSON REST client with optional retry support
type Client struct {
	baseURL     string
	httpClient  *http.Client
	retryConfig *resilience.RetryConfig
}

// Option customizes a Client
type Option func(*Client)

// WithRetry enables retries with the given configuration
func WithRetry(config resilience.RetryConfig) Option {
	return func(c *Client) {
		c.retryConfig = &config
	}
}

// WithDefaultRetry enables retries for transport failures and retryable HTTP
// statuses only
func WithDefaultRetry() Option {
	return func(c *Client) {
		config := resilience.DefaultRetryConfig()
		config.RetryableChecker = IsHTTPRetryable
		c.retryConfig = &config
	}
}

// IsHTTPRetryable classifies an error from this client as retryable
func IsHTTPRetryable(err error) bool {
	if httpErr, ok := err.(*HTTPError); ok {
		return resilience.IsRetryableHTTPStatus(httpErr.StatusCode)
	}
	// Network-level failures are retryable
	return true
}

// NewClient creates a client rooted at baseURL. An optional timeout overrides
// the default; zero keeps the default.
func NewClient(baseURL string, timeout ...time.Duration) *Client {
	t := DefaultTimeout
	if len(timeout) > 0 && timeout[0] > 0 {
		t = timeout[0]
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: t},
	}
}

// Apply applies options after construction
func (c *Client) Apply(opts ...Option) *Client {
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get performs a GET request
func (c *Client) Get(ctx context.Context, path string, headers map[string]string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, nil, headers)
}

// Post performs a POST request with a JSON body (nil body sends nothing)
func (c *Client) Post(ctx context.Context, path string, body interface{}, headers map[string]string) ([]byte, error) {
	return c.do(ctx, http.MethodPost, path, body, headers)
}

// PostWithIdempotency performs a POST carrying an idempotency key so the
// upstream can deduplicate repeated submissions
func (c *Client) PostWithIdempotency(ctx context.Context, path string, body interface{}, headers map[string]string, idempotencyKey string) ([]byte, error) {
	if headers == nil {
		headers = map[string]string{}
	} else {
		merged := make(map[string]string, len(headers)+1)
		for k, v := range headers {
			merged[k] = v
		}
		headers = merged
	}
	headers["X-Idempotency-Key"] = idempotencyKey
	return c.do(ctx, http.MethodPost, path, body, headers)
}

// Put performs a PUT request with a JSON body
func (c *Client) Put(ctx context.Context, path string, body interface{}, headers map[string]string) ([]byte, error) {
	return c.do(ctx, http.MethodPut, path, body, headers)
}

// Patch performs a PATCH request with a JSON body
func (c *Client) Patch(ctx context.Context, path string, body interface{}, headers map[string]string) ([]byte, error) {
	return c.do(ctx, http.MethodPatch, path, body, headers)
}

// Delete performs a DELETE request
func (c *Client) Delete(ctx context.Context, path string, headers map[string]string) ([]byte, error) {
	return c.do(ctx, http.MethodDelete, path, nil, headers)
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, headers map[string]string) ([]byte, error) {
	operation := func(ctx context.Context) (interface{}, error) {
		return c.doOnce(ctx, method, path, body, headers)
	}

	var result interface{}
	var err error
	if c.retryConfig != nil {
		result, err = resilience.Retry(ctx, *c.retryConfig, operation)
	} else {
		result, err = operation(ctx)
	}
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}
	return result.([]byte), nil
}

func (c *Client) doOnce(ctx context.Context, method, path string, body interface{}, headers map[string]string) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: respBody}
	}

	return respBody, nil
}
