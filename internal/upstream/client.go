package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/common"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/config"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/httpclient"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/resilience"
)

// Client is the typed client for the marketplace core API. Every admin
// operation the dashboard mediates goes through here, so the error
// normalization below is the single place transport and application failures
// collapse into one taxonomy.
type Client struct {
	http    *httpclient.Client
	breaker *resilience.CircuitBreaker
}

// NewClient builds the core API client from configuration
func NewClient(cfg *config.UpstreamConfig) *Client {
	settings := resilience.BuildSettings(
		"core-api",
		cfg.BreakerInterval,
		cfg.BreakerTimeout,
		cfg.BreakerFailureThreshold,
		cfg.BreakerSuccessThreshold,
	)

	return &Client{
		http:    httpclient.NewClient(cfg.BaseURL, cfg.Timeout()),
		breaker: resilience.NewCircuitBreaker(settings, resilience.GracefulDegradation("core-api")),
	}
}

// NewClientForTest wires the client directly at a test server URL
func NewClientForTest(baseURL string) *Client {
	cfg := &config.UpstreamConfig{
		BaseURL:                 baseURL,
		TimeoutSeconds:          5,
		BreakerInterval:         60,
		BreakerTimeout:          30,
		BreakerFailureThreshold: 1000,
		BreakerSuccessThreshold: 1,
	}
	return NewClient(cfg)
}

func authHeaders(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// get performs an authenticated GET and decodes into out
func (c *Client) get(ctx context.Context, token, path string, out interface{}) error {
	body, err := c.execute(ctx, func(ctx context.Context) (interface{}, error) {
		return c.http.Get(ctx, path, authHeaders(token))
	})
	if err != nil {
		return err
	}
	return decode(body, out)
}

// post performs an authenticated mutation and normalizes the response envelope
func (c *Client) post(ctx context.Context, token, path string, reqBody, out interface{}) error {
	body, err := c.execute(ctx, func(ctx context.Context) (interface{}, error) {
		return c.http.Post(ctx, path, reqBody, authHeaders(token))
	})
	if err != nil {
		return err
	}
	if err := normalizeEnvelope(body); err != nil {
		return err
	}
	return decode(body, out)
}

// postIdempotent is post carrying an idempotency key so a confirm retried by
// the operator cannot double-fire upstream
func (c *Client) postIdempotent(ctx context.Context, token, path string, reqBody, out interface{}, idempotencyKey string) error {
	body, err := c.execute(ctx, func(ctx context.Context) (interface{}, error) {
		return c.http.PostWithIdempotency(ctx, path, reqBody, authHeaders(token), idempotencyKey)
	})
	if err != nil {
		return err
	}
	if err := normalizeEnvelope(body); err != nil {
		return err
	}
	return decode(body, out)
}

func (c *Client) put(ctx context.Context, token, path string, reqBody, out interface{}) error {
	body, err := c.execute(ctx, func(ctx context.Context) (interface{}, error) {
		return c.http.Put(ctx, path, reqBody, authHeaders(token))
	})
	if err != nil {
		return err
	}
	if err := normalizeEnvelope(body); err != nil {
		return err
	}
	return decode(body, out)
}

func (c *Client) patch(ctx context.Context, token, path string, reqBody, out interface{}) error {
	body, err := c.execute(ctx, func(ctx context.Context) (interface{}, error) {
		return c.http.Patch(ctx, path, reqBody, authHeaders(token))
	})
	if err != nil {
		return err
	}
	if err := normalizeEnvelope(body); err != nil {
		return err
	}
	return decode(body, out)
}

func (c *Client) delete(ctx context.Context, token, path string) error {
	_, err := c.execute(ctx, func(ctx context.Context) (interface{}, error) {
		return c.http.Delete(ctx, path, authHeaders(token))
	})
	return err
}

// execute runs an operation through the breaker and maps any failure into the
// shared error taxonomy
func (c *Client) execute(ctx context.Context, op resilience.Operation) ([]byte, error) {
	result, err := c.breaker.Execute(ctx, op)
	if err != nil {
		return nil, normalizeError(err)
	}
	if result == nil {
		return nil, nil
	}
	return result.([]byte), nil
}

func decode(body []byte, out interface{}) error {
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return common.NewTransportError("resposta inválida do serviço", err)
	}
	return nil
}

// mutationEnvelope captures the in-body error channel some mutation endpoints
// use instead of a non-2xx status
type mutationEnvelope struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// normalizeEnvelope inspects a 2xx mutation body for an application-level
// failure. A body with success:false or a non-empty error field raises the
// same error type a structured non-2xx would, so callers never branch on how
// the failure was signaled.
func normalizeEnvelope(body []byte) error {
	if len(body) == 0 {
		return nil
	}

	var env mutationEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		// Not an envelope-shaped body; nothing to normalize
		return nil
	}

	failed := (env.Success != nil && !*env.Success) || env.Error != ""
	if !failed {
		return nil
	}

	message := env.Message
	if message == "" {
		message = env.Error
	}
	if message == "" {
		message = "operação recusada pelo serviço"
	}
	return common.NewApplicationError(message, nil)
}

// errorBody is the error shape of structured non-2xx responses
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Detail  string `json:"detail"`
}

// normalizeError maps any failure from the transport stack into the shared
// taxonomy. 401 anywhere becomes ErrUnauthorized, which triggers the global
// forced logout.
func normalizeError(err error) error {
	var httpErr *httpclient.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.StatusCode == http.StatusUnauthorized {
			return common.ErrUnauthorized
		}
		if httpErr.StatusCode == http.StatusNotFound {
			return common.NewNotFoundError("recurso não encontrado")
		}

		var body errorBody
		if jsonErr := json.Unmarshal(httpErr.Body, &body); jsonErr == nil {
			message := body.Message
			if message == "" {
				message = body.Error
			}
			if message == "" {
				message = body.Detail
			}
			if message != "" {
				return common.NewApplicationError(message, httpErr)
			}
		}
		return common.NewTransportError("falha de comunicação com o serviço", httpErr)
	}

	return common.NewTransportError("falha de comunicação com o serviço", err)
}
