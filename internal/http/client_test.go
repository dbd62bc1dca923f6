package http_test

import (
	"context"
	"crypto/x509"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	privacyhttp "github.com/fivetwenty-io/privacy-client/internal/http"
	"github.com/fivetwenty-io/privacy-client/pkg/privacy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockLogger for testing.
type MockLogger struct {
	logs []map[string]interface{}
}

func (l *MockLogger) Debug(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "debug", "msg": msg, "fields": fields})
}

func (l *MockLogger) Info(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "info", "msg": msg, "fields": fields})
}

func (l *MockLogger) Warn(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "warn", "msg": msg, "fields": fields})
}

func (l *MockLogger) Error(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "error", "msg": msg, "fields": fields})
}

func (l *MockLogger) messages() []string {
	msgs := make([]string, 0, len(l.logs))
	for _, entry := range l.logs {
		msgs = append(msgs, entry["msg"].(string))
	}

	return msgs
}

func fastRetries() privacyhttp.Option {
	return privacyhttp.WithRetryConfig(3, time.Millisecond, 5*time.Millisecond)
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Do(t *testing.T) {
	t.Parallel()
	t.Run("successful request", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/card", request.URL.Path)
			assert.Equal(t, "GET", request.Method)
			assert.Equal(t, "api-key test-key", request.Header.Get("Authorization"))
			assert.Equal(t, "application/json", request.Header.Get("Accept"))
			assert.NotEmpty(t, request.Header.Get("X-Request-Id"))

			response := map[string]string{"token": "card-token", "memo": "groceries"}
			_ = json.NewEncoder(writer).Encode(response)
		}))
		defer server.Close()

		client := privacyhttp.NewClient(server.URL, "test-key")

		req := &privacyhttp.Request{
			Method: "GET",
			Path:   "/card",
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.NotEmpty(t, resp.RequestID)

		var result map[string]string

		err = json.Unmarshal(resp.Body, &result)
		require.NoError(t, err)
		assert.Equal(t, "card-token", result["token"])
		assert.Equal(t, "groceries", result["memo"])
	})

	t.Run("base URL with path prefix", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/v1/transaction/all", request.URL.Path)
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := privacyhttp.NewClient(server.URL+"/v1/", "test-key")

		_, err := client.Get(context.Background(), "transaction/all", nil)
		require.NoError(t, err)
	})

	t.Run("request with query parameters", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/card", request.URL.Path)
			assert.Equal(t, "page=2", request.URL.RawQuery)
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := privacyhttp.NewClient(server.URL, "test-key")

		req := &privacyhttp.Request{
			Method: "GET",
			Path:   "/card",
			Query:  url.Values{"page": []string{"2"}},
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("request with body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "POST", request.Method)
			assert.Equal(t, "application/json", request.Header.Get("Content-Type"))

			var body map[string]string

			_ = json.NewDecoder(request.Body).Decode(&body)
			assert.Equal(t, "SINGLE_USE", body["type"])

			writer.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		client := privacyhttp.NewClient(server.URL, "test-key")

		req := &privacyhttp.Request{
			Method: "POST",
			Path:   "/card",
			Body:   map[string]string{"type": "SINGLE_USE"},
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 201, resp.StatusCode)
	})

	t.Run("error response", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusNotFound)
			_, _ = writer.Write([]byte(`{"message":"Card not found","debugging_request_id":"dbg-1"}`))
		}))
		defer server.Close()

		client := privacyhttp.NewClient(server.URL, "test-key")

		req := &privacyhttp.Request{
			Method: "GET",
			Path:   "/card",
		}

		resp, err := client.Do(context.Background(), req)
		require.Error(t, err)
		assert.Equal(t, 404, resp.StatusCode)

		apiErr := &privacy.Error{}
		ok := errors.As(err, &apiErr)
		require.True(t, ok)
		assert.Equal(t, privacy.KindNotFound, apiErr.Kind)
		assert.Equal(t, "Card not found", apiErr.Message)
		assert.Equal(t, "dbg-1", apiErr.RequestID)
		assert.ErrorIs(t, err, privacy.ErrNotFound)
	})

	t.Run("error without server request id uses ours", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		client := privacyhttp.NewClient(server.URL, "bad-key")

		resp, err := client.Get(context.Background(), "/card", nil)
		require.Error(t, err)

		apiErr := &privacy.Error{}
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, privacy.KindAuthentication, apiErr.Kind)
		assert.Equal(t, resp.RequestID, apiErr.RequestID)
	})

	t.Run("custom headers", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "custom-value", request.Header.Get("X-Custom-Header"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := privacyhttp.NewClient(server.URL, "test-key")

		req := &privacyhttp.Request{
			Method: "GET",
			Path:   "/card",
			Headers: map[string]string{
				"X-Custom-Header": "custom-value",
			},
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("with debug logging", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(writer).Encode(map[string]string{"result": "ok"})
		}))
		defer server.Close()

		logger := &MockLogger{}
		client := privacyhttp.NewClient(server.URL, "test-key", privacyhttp.WithLogger(logger), privacyhttp.WithDebug(true))

		_, err := client.Get(context.Background(), "/card", nil)
		require.NoError(t, err)

		msgs := logger.messages()
		assert.Contains(t, msgs, "HTTP Request")
		assert.Contains(t, msgs, "HTTP Response")

		for _, entry := range logger.logs {
			assert.NotContains(t, entry["fields"], "Authorization")
		}
	})

	t.Run("without debug nothing is logged", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		logger := &MockLogger{}
		client := privacyhttp.NewClient(server.URL, "test-key", privacyhttp.WithLogger(logger))

		_, err := client.Get(context.Background(), "/card", nil)
		require.NoError(t, err)
		assert.Empty(t, logger.logs)
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Methods(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		method string
		fn     func(*privacyhttp.Client, context.Context) (*privacyhttp.Response, error)
	}{
		{
			name:   "GET",
			method: "GET",
			fn: func(c *privacyhttp.Client, ctx context.Context) (*privacyhttp.Response, error) {
				return c.Get(ctx, "/test", nil)
			},
		},
		{
			name:   "POST",
			method: "POST",
			fn: func(c *privacyhttp.Client, ctx context.Context) (*privacyhttp.Response, error) {
				return c.Post(ctx, "/test", map[string]string{"key": "value"})
			},
		},
		{
			name:   "PUT",
			method: "PUT",
			fn: func(c *privacyhttp.Client, ctx context.Context) (*privacyhttp.Response, error) {
				return c.Put(ctx, "/test", map[string]string{"key": "value"})
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, testCase.method, request.Method)
				assert.Equal(t, "/test", request.URL.Path)
				writer.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			client := privacyhttp.NewClient(server.URL, "test-key")
			resp, err := testCase.fn(client, context.Background())
			require.NoError(t, err)
			assert.Equal(t, 200, resp.StatusCode)
		})
	}
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_RetryLogic(t *testing.T) {
	t.Parallel()
	t.Run("retries on 5xx errors", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if attempts.Add(1) < 3 {
				writer.WriteHeader(http.StatusInternalServerError)
			} else {
				writer.WriteHeader(http.StatusOK)
			}
		}))
		defer server.Close()

		client := privacyhttp.NewClient(server.URL, "test-key", fastRetries())

		resp, err := client.Get(context.Background(), "/test", nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, int32(3), attempts.Load())
	})

	t.Run("retries on rate limiting", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if attempts.Add(1) < 2 {
				writer.WriteHeader(http.StatusTooManyRequests)
			} else {
				writer.WriteHeader(http.StatusOK)
			}
		}))
		defer server.Close()

		client := privacyhttp.NewClient(server.URL, "test-key", fastRetries())

		resp, err := client.Get(context.Background(), "/test", nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, int32(2), attempts.Load())
	})

	t.Run("does not retry on client errors", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts.Add(1)

			writer.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		client := privacyhttp.NewClient(server.URL, "test-key", fastRetries())

		resp, err := client.Get(context.Background(), "/test", nil)
		require.Error(t, err)
		assert.Equal(t, 400, resp.StatusCode)
		assert.Equal(t, int32(1), attempts.Load()) // Should not retry
		assert.Equal(t, privacy.KindValidation, privacy.KindOf(err))
	})

	t.Run("surfaces transient failure after exhausting retries", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts.Add(1)
			writer.WriteHeader(http.StatusServiceUnavailable)
			_, _ = writer.Write([]byte(`{"message":"try later"}`))
		}))
		defer server.Close()

		logger := &MockLogger{}
		client := privacyhttp.NewClient(server.URL, "test-key", fastRetries(), privacyhttp.WithLogger(logger))

		resp, err := client.Get(context.Background(), "/test", nil)
		require.Error(t, err)
		assert.Equal(t, int32(4), attempts.Load())
		assert.Equal(t, 503, resp.StatusCode)
		assert.ErrorIs(t, err, privacy.ErrTransientService)
		assert.Contains(t, err.Error(), "try later")
		retries := 0
		for _, msg := range logger.messages() {
			if msg == "Retrying HTTP request" {
				retries++
			}
		}
		assert.Equal(t, 3, retries)
	})

	t.Run("surfaces rate limit after exhausting retries", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts.Add(1)
			writer.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		client := privacyhttp.NewClient(server.URL, "test-key", privacyhttp.WithRetryConfig(2, time.Millisecond, time.Millisecond))

		_, err := client.Get(context.Background(), "/test", nil)
		require.Error(t, err)
		assert.Equal(t, int32(3), attempts.Load())
		assert.True(t, privacy.IsRateLimited(err))
	})

	t.Run("zero retries makes a single attempt", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts.Add(1)
			writer.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client := privacyhttp.NewClient(server.URL, "test-key", privacyhttp.WithRetryConfig(0, time.Millisecond, time.Millisecond))

		_, err := client.Get(context.Background(), "/test", nil)
		require.Error(t, err)
		assert.Equal(t, int32(1), attempts.Load())
	})

	t.Run("honours Retry-After on 429", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if attempts.Add(1) == 1 {
				writer.Header().Set("Retry-After", "0")
				writer.WriteHeader(http.StatusTooManyRequests)

				return
			}

			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		// The computed backoff would be ten seconds; the hint overrides it.
		client := privacyhttp.NewClient(server.URL, "test-key", privacyhttp.WithRetryConfig(1, 10*time.Second, 10*time.Second))

		start := time.Now()
		_, err := client.Get(context.Background(), "/test", nil)
		require.NoError(t, err)
		assert.Less(t, time.Since(start), 5*time.Second)
		assert.Equal(t, int32(2), attempts.Load())
	})

	t.Run("connection errors are transient", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {}))
		serverURL := server.URL
		server.Close()

		client := privacyhttp.NewClient(serverURL, "test-key", privacyhttp.WithRetryConfig(1, time.Millisecond, time.Millisecond))

		resp, err := client.Get(context.Background(), "/test", nil)
		require.Error(t, err)
		assert.Nil(t, resp)
		assert.Equal(t, privacy.KindTransientService, privacy.KindOf(err))
	})

	t.Run("untrusted certificate is not retried or transient", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts.Add(1)
		}))
		defer server.Close()

		logger := &MockLogger{}
		client := privacyhttp.NewClient(server.URL, "test-key", fastRetries(), privacyhttp.WithLogger(logger))

		resp, err := client.Get(context.Background(), "/test", nil)
		require.Error(t, err)
		assert.Nil(t, resp)
		assert.Equal(t, privacy.KindUnknown, privacy.KindOf(err))
		assert.NotErrorIs(t, err, privacy.ErrTransientService)

		var certErr x509.UnknownAuthorityError
		require.ErrorAs(t, err, &certErr)

		assert.Zero(t, attempts.Load())
		assert.NotContains(t, logger.messages(), "Retrying HTTP request")
	})

	t.Run("unsupported scheme is not transient", func(t *testing.T) {
		t.Parallel()

		client := privacyhttp.NewClient("ftp://api.example.invalid", "test-key", fastRetries())

		_, err := client.Get(context.Background(), "/test", nil)
		require.Error(t, err)
		assert.Equal(t, privacy.KindUnknown, privacy.KindOf(err))

		var urlErr *url.Error
		require.ErrorAs(t, err, &urlErr)
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Cancellation(t *testing.T) {
	t.Parallel()

	t.Run("cancellation during backoff aborts retries", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts.Add(1)
			writer.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := privacyhttp.NewClient(server.URL, "test-key", privacyhttp.WithRetryConfig(5, time.Second, time.Second))

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		_, err := client.Get(ctx, "/test", nil)
		require.Error(t, err)
		assert.True(t, privacy.IsCancelled(err))
		assert.NotErrorIs(t, err, privacy.ErrTransientService)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Equal(t, int32(1), attempts.Load())
	})

	t.Run("already cancelled context makes no request", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts.Add(1)
		}))
		defer server.Close()

		client := privacyhttp.NewClient(server.URL, "test-key")

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := client.Get(ctx, "/test", nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, privacy.KindCancelled, privacy.KindOf(err))
		assert.Equal(t, int32(0), attempts.Load())
	})
}

func TestClient_SandboxOnly(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		env          privacy.Environment
		wantAttempts int32
		wantErr      bool
	}{
		{name: "rejected on live", env: privacy.EnvironmentLive, wantAttempts: 0, wantErr: true},
		{name: "allowed on sandbox", env: privacy.EnvironmentSandbox, wantAttempts: 1, wantErr: false},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			var attempts atomic.Int32

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				attempts.Add(1)
				writer.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			client := privacyhttp.NewClient(server.URL, "test-key", privacyhttp.WithEnvironment(testCase.env))

			_, err := client.Do(context.Background(), &privacyhttp.Request{
				Method:      http.MethodPost,
				Path:        "/simulate/authorize",
				Body:        map[string]int{"amount": 100},
				SandboxOnly: true,
			})

			if testCase.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, privacy.ErrConfiguration)
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, testCase.wantAttempts, attempts.Load())
		})
	}
}
