// Package http implements the request dispatcher shared by every resource client.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/fivetwenty-io/privacy-client/internal/constants"
	"github.com/fivetwenty-io/privacy-client/pkg/privacy"
)

const defaultUserAgent = "privacy-client-go/1.0"

// Request describes one API call.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers map[string]string
	// SandboxOnly requests are refused locally when the client targets live.
	SandboxOnly bool
}

// Response is a completed API call.
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
	RequestID  string
}

// Client builds authenticated requests against one environment and retries
// transient failures. It holds no per-call state and is safe for concurrent use.
type Client struct {
	baseURL     string
	apiKey      string
	environment privacy.Environment
	userAgent   string
	logger      privacy.Logger
	debug       bool

	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
	timeout      time.Duration
	httpClient   *http.Client

	retryClient *retryablehttp.Client
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger privacy.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request and response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithRetryConfig sets the number of additional attempts and the backoff bounds.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.retryMax = retryMax
		c.retryWaitMin = waitMin
		c.retryWaitMax = waitMax
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithEnvironment sets the environment used for sandbox-only checks.
func WithEnvironment(env privacy.Environment) Option {
	return func(c *Client) {
		c.environment = env
	}
}

// WithTimeout bounds a single attempt.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithHTTPClient sets the underlying transport client. It is copied, not modified.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a dispatcher for baseURL authenticated with apiKey.
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	client := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		apiKey:       apiKey,
		environment:  privacy.EnvironmentLive,
		userAgent:    defaultUserAgent,
		retryMax:     constants.DefaultRetryMax,
		retryWaitMin: constants.DefaultRetryWaitMin,
		retryWaitMax: constants.DefaultRetryWaitMax,
	}

	for _, opt := range opts {
		opt(client)
	}

	client.retryClient = client.newRetryClient()

	return client
}

func (c *Client) newRetryClient() *retryablehttp.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = c.retryMax
	retryClient.RetryWaitMin = c.retryWaitMin
	retryClient.RetryWaitMax = c.retryWaitMax
	retryClient.CheckRetry = checkRetry
	retryClient.Backoff = backoff
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.Logger = nil

	if c.httpClient != nil {
		httpClient := *c.httpClient
		retryClient.HTTPClient = &httpClient
	}

	switch {
	case c.timeout > 0:
		retryClient.HTTPClient.Timeout = c.timeout
	case retryClient.HTTPClient.Timeout == 0:
		retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	}

	if c.logger != nil {
		retryClient.Logger = &leveledLogger{logger: c.logger, debug: c.debug}
		retryClient.RequestLogHook = c.logRetry
	}

	return retryClient
}

// checkRetry retries connection errors, 429 and 5xx, and stops as soon as
// the caller's context is done.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return false, ctxErr
	}

	if err != nil {
		retry, policyErr := retryablehttp.ErrorPropagatedRetryPolicy(ctx, resp, err)
		if !retry && policyErr != nil {
			return false, &permanentError{err: policyErr}
		}

		return retry, nil
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		return true, nil
	}

	return false, nil
}

// permanentError marks a transport failure that retrying cannot fix, such as
// an untrusted certificate or an unsupported scheme.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string {
	return e.err.Error()
}

func (e *permanentError) Unwrap() error {
	return e.err
}

// backoff doubles the wait from waitMin up to waitMax, except that a 429
// carrying Retry-After waits exactly as long as the server asked.
func backoff(waitMin, waitMax time.Duration, attemptNum int, resp *http.Response) time.Duration {
	if resp != nil && resp.StatusCode == http.StatusTooManyRequests {
		if wait, ok := parseRetryAfter(resp.Header.Get(constants.HeaderRetryAfter)); ok {
			return wait
		}
	}

	return retryablehttp.DefaultBackoff(waitMin, waitMax, attemptNum, nil)
}

func parseRetryAfter(value string) (time.Duration, bool) {
	if value == "" {
		return 0, false
	}

	if seconds, err := strconv.Atoi(value); err == nil && seconds >= 0 {
		return time.Duration(seconds) * time.Second, true
	}

	if at, err := http.ParseTime(value); err == nil {
		wait := time.Until(at)
		if wait < 0 {
			wait = 0
		}

		return wait, true
	}

	return 0, false
}

// Environment returns the environment the client targets.
func (c *Client) Environment() privacy.Environment {
	return c.environment
}

// Do executes req. On an error status the response is returned alongside
// the classified error.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if req.SandboxOnly && !c.environment.AllowsSimulation() {
		return nil, privacy.NewConfigurationError(
			fmt.Sprintf("%s %s is only available in the sandbox environment", req.Method, req.Path))
	}

	if err := ctx.Err(); err != nil {
		return nil, privacy.NewCancelledError(err)
	}

	requestID := uuid.NewString()

	httpReq, err := c.buildRequest(ctx, req, requestID)
	if err != nil {
		return nil, err
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method":     req.Method,
			"url":        httpReq.URL.String(),
			"request_id": requestID,
		})
	}

	start := time.Now()

	httpResp, err := c.retryClient.Do(httpReq)
	if err != nil {
		if httpResp != nil {
			_ = httpResp.Body.Close()
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, privacy.NewCancelledError(ctxErr)
		}

		var transportErr *privacy.Error

		var permanent *permanentError
		if errors.As(err, &permanent) {
			transportErr = privacy.NewPermanentTransportError(permanent.err)
		} else {
			transportErr = privacy.NewTransportError(err)
		}

		transportErr.RequestID = requestID

		return nil, transportErr
	}

	defer func() {
		_ = httpResp.Body.Close()
	}()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, privacy.NewCancelledError(ctxErr)
		}

		return nil, privacy.NewTransportError(fmt.Errorf("reading response body: %w", err))
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Body:       body,
		Headers:    httpResp.Header,
		RequestID:  requestID,
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"status":      httpResp.StatusCode,
			"duration_ms": time.Since(start).Milliseconds(),
			"request_id":  requestID,
		})
	}

	err = privacy.ClassifyResponse(resp.StatusCode, resp.Body)
	if err != nil {
		apiErr := &privacy.Error{}
		if errors.As(err, &apiErr) && apiErr.RequestID == "" {
			apiErr.RequestID = requestID
		}

		return resp, err
	}

	return resp, nil
}

func (c *Client) buildRequest(ctx context.Context, req *Request, requestID string) (*retryablehttp.Request, error) {
	target := c.baseURL + "/" + strings.TrimPrefix(req.Path, "/")
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body interface{}

	switch b := req.Body.(type) {
	case nil:
	case []byte:
		body = b
	default:
		encoded, err := json.Marshal(b)
		if err != nil {
			return nil, privacy.NewValidationError(fmt.Sprintf("encoding request body: %v", err))
		}

		body = bytes.NewReader(encoded)
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, privacy.NewConfigurationError(fmt.Sprintf("creating request: %v", err))
	}

	httpReq.Header.Set(constants.HeaderAuthorization, constants.AuthScheme+" "+c.apiKey)
	httpReq.Header.Set("Accept", constants.ContentTypeJSON)
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set(constants.HeaderRequestID, requestID)

	if body != nil {
		httpReq.Header.Set("Content-Type", constants.ContentTypeJSON)
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	return httpReq, nil
}

// logRetry reports every attempt after the first.
func (c *Client) logRetry(_ retryablehttp.Logger, req *http.Request, attempt int) {
	if attempt == 0 {
		return
	}

	c.logger.Warn("Retrying HTTP request", map[string]interface{}{
		"method":     req.Method,
		"path":       req.URL.Path,
		"attempt":    attempt,
		"request_id": req.Header.Get(constants.HeaderRequestID),
	})
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}
