package privacy

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fivetwenty-io/privacy-client/internal/constants"
)

// Environment selects which isolated API instance a client talks to.
type Environment string

const (
	// EnvironmentLive is the production API. Simulation endpoints are rejected locally.
	EnvironmentLive Environment = "live"

	// EnvironmentSandbox is the isolated test API.
	EnvironmentSandbox Environment = "sandbox"
)

// ParseEnvironment converts a user supplied string into an Environment.
// An empty string selects the live environment.
func ParseEnvironment(s string) (Environment, error) {
	switch Environment(strings.ToLower(strings.TrimSpace(s))) {
	case "", EnvironmentLive:
		return EnvironmentLive, nil
	case EnvironmentSandbox:
		return EnvironmentSandbox, nil
	default:
		return "", NewConfigurationError(fmt.Sprintf("unknown environment %q", s))
	}
}

// BaseURL returns the fixed API root for the environment.
func (e Environment) BaseURL() string {
	if e == EnvironmentSandbox {
		return constants.SandboxBaseURL
	}

	return constants.LiveBaseURL
}

// AllowsSimulation reports whether sandbox-only operations are permitted.
func (e Environment) AllowsSimulation() bool {
	return e == EnvironmentSandbox
}

// String implements fmt.Stringer.
func (e Environment) String() string {
	if e == "" {
		return string(EnvironmentLive)
	}

	return string(e)
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a privacy.Client.
//
// privacyclient.New copies the Config, so changing it after the client is
// built has no effect on that client.
type Config struct {
	// APIKey: the static credential sent as "Authorization: api-key <key>". Required.
	APIKey string

	// Environment: live (default) or sandbox. Sandbox-only operations fail
	// locally with a configuration error when this is live.
	Environment Environment

	// Optional configurations
	// BaseURL: overrides the environment's fixed API root. Intended for tests
	// and proxies; the environment still governs sandbox-only checks.
	BaseURL string
	// HTTPTimeout: timeout for a single HTTP attempt. Context deadlines bound
	// the call as a whole, retries included.
	HTTPTimeout time.Duration
	// RetryMax: number of additional attempts for transient failures (>=500,
	// 429, and connection errors). If 0, the default of 3 is used.
	RetryMax int
	// RetryWaitMin: first backoff interval; doubled on each attempt.
	RetryWaitMin time.Duration
	// RetryWaitMax: upper bound for a single computed backoff interval.
	RetryWaitMax time.Duration
	// DisableRetries: surface the first transient failure without retrying.
	DisableRetries bool
	// Debug: enables verbose HTTP request/response logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger used by the HTTP layer and helpers.
	Logger Logger
	// UserAgent: optional User-Agent header override.
	UserAgent string
	// HTTPClient: optional transport. Its Timeout is replaced by HTTPTimeout when that is set.
	HTTPClient *http.Client
}
