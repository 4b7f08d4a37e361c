package httpclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/resilience"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		timeout []time.Duration
	}{
		{name: "with base URL only", baseURL: "https://api.example.com"},
		{name: "with custom timeout", baseURL: "https://api.example.com", timeout: []time.Duration{5 * time.Second}},
		{name: "with zero timeout uses default", baseURL: "https://api.example.com", timeout: []time.Duration{0}},
		{name: "empty base URL", baseURL: ""},
		{name: "with path in base URL", baseURL: "https://api.example.com/v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var client *Client
			if tt.timeout != nil {
				client = NewClient(tt.baseURL, tt.timeout...)
			} else {
				client = NewClient(tt.baseURL)
			}

			if client == nil {
				t.Fatal("NewClient returned nil")
			}
			if client.baseURL != tt.baseURL {
				t.Errorf("baseURL = %q, want %q", client.baseURL, tt.baseURL)
			}
			if client.httpClient == nil {
				t.Error("httpClient is nil")
			}
		})
	}
}

func TestWithDefaultRetry(t *testing.T) {
	client := NewClient("https://api.example.com").Apply(WithDefaultRetry())

	if client.retryConfig == nil {
		t.Fatal("retryConfig is nil after WithDefaultRetry")
	}
	if client.retryConfig.RetryableChecker == nil {
		t.Error("RetryableChecker should be set")
	}
}

func TestClient_Get(t *testing.T) {
	tests := []struct {
		name           string
		serverHandler  http.HandlerFunc
		path           string
		headers        map[string]string
		expectedBody   string
		expectError    bool
		expectedStatus int
	}{
		{
			name: "successful GET",
			serverHandler: func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					t.Errorf("Method = %s, want GET", r.Method)
				}
				w.WriteHeader(http.StatusOK)
				w.Write([]byte(`{"message":"success"}`))
			},
			path:         "/test",
			expectedBody: `{"message":"success"}`,
		},
		{
			name: "GET with bearer header",
			serverHandler: func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("Authorization") != "Bearer token" {
					t.Error("Authorization header not set")
				}
				w.WriteHeader(http.StatusOK)
				w.Write([]byte(`{"authenticated":true}`))
			},
			path:         "/auth",
			headers:      map[string]string{"Authorization": "Bearer token"},
			expectedBody: `{"authenticated":true}`,
		},
		{
			name: "GET returns 404",
			serverHandler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(`{"error":"not found"}`))
			},
			path:           "/notfound",
			expectError:    true,
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "GET returns 500",
			serverHandler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			path:           "/error",
			expectError:    true,
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.serverHandler)
			defer server.Close()

			client := NewClient(server.URL)
			body, err := client.Get(context.Background(), tt.path, tt.headers)

			if tt.expectError {
				if err == nil {
					t.Error("Expected error but got nil")
				}
				if httpErr, ok := err.(*HTTPError); ok {
					if httpErr.StatusCode != tt.expectedStatus {
						t.Errorf("StatusCode = %d, want %d", httpErr.StatusCode, tt.expectedStatus)
					}
				}
			} else {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
				if tt.expectedBody != "" && string(body) != tt.expectedBody {
					t.Errorf("Body = %s, want %s", string(body), tt.expectedBody)
				}
			}
		})
	}
}

func TestClient_Post(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Method = %s, want POST", r.Method)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Error("Content-Type should be application/json")
		}
		body, _ := io.ReadAll(r.Body)
		var data map[string]string
		json.Unmarshal(body, &data)
		if data["name"] != "test" {
			t.Errorf("Body name = %s, want test", data["name"])
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"123"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	body, err := client.Post(context.Background(), "/create", map[string]string{"name": "test"}, nil)

	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(body) != `{"id":"123"}` {
		t.Errorf("Body = %s", string(body))
	}
}

func TestClient_Post_NilBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if len(body) != 0 {
			t.Error("Body should be empty")
		}
		if r.Header.Get("Content-Type") == "application/json" {
			t.Error("Content-Type should not be set for nil body")
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Post(context.Background(), "/empty", nil, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

func TestClient_PostWithIdempotency(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Idempotency-Key") != "key-123" {
			t.Error("X-Idempotency-Key header not set")
		}
		if r.Header.Get("Authorization") != "Bearer token" {
			t.Error("existing headers should be preserved")
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	headers := map[string]string{"Authorization": "Bearer token"}
	_, err := client.PostWithIdempotency(context.Background(), "/test", nil, headers, "key-123")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, mutated := headers["X-Idempotency-Key"]; mutated {
		t.Error("caller's header map must not be mutated")
	}
}

func TestClient_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	client := NewClient(server.URL)
	_, err := client.Get(ctx, "/slow", nil)
	if err == nil {
		t.Error("Expected timeout error")
	}
}

func TestClient_Get_WithRetry(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	config := resilience.DefaultRetryConfig()
	config.InitialBackoff = 1 * time.Millisecond
	config.MaxBackoff = 5 * time.Millisecond
	config.RetryableChecker = IsHTTPRetryable

	client := NewClient(server.URL).Apply(WithRetry(config))
	body, err := client.Get(context.Background(), "/retry", nil)

	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(body) != `{"ok":true}` {
		t.Errorf("Body = %s", string(body))
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestHTTPError(t *testing.T) {
	err := &HTTPError{StatusCode: 404, Body: []byte(`{"error":"not found"}`)}
	if err.Error() != `HTTP 404: {"error":"not found"}` {
		t.Errorf("Error() = %q", err.Error())
	}

	empty := &HTTPError{StatusCode: 500}
	if empty.Error() != "HTTP 500" {
		t.Errorf("Error() = %q", empty.Error())
	}
}

func TestIsHTTPRetryable(t *testing.T) {
	if IsHTTPRetryable(&HTTPError{StatusCode: 400}) {
		t.Error("400 should not be retryable")
	}
	if !IsHTTPRetryable(&HTTPError{StatusCode: 503}) {
		t.Error("503 should be retryable")
	}
	if !IsHTTPRetryable(context.DeadlineExceeded) {
		t.Error("network-level errors should be retryable")
	}
}
