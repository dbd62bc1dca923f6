package constants

import "time"

// API base URLs.
const (
	// LiveBaseURL is the production API root.
	LiveBaseURL = "https://api.privacy.com/v1"

	// SandboxBaseURL is the isolated sandbox API root.
	SandboxBaseURL = "https://sandbox.privacy.com/v1"
)

// API paths, relative to the base URL.
const (
	APIPathCards          = "/card"
	APIPathTransactions   = "/transaction"
	APIPathHostedCardUI   = "/embed/card"
	APIPathSimulate       = "/simulate"
	APIPathSimulateAuth   = APIPathSimulate + "/authorize"
	APIPathSimulateVoid   = APIPathSimulate + "/void"
	APIPathSimulateClear  = APIPathSimulate + "/clearing"
	APIPathSimulateReturn = APIPathSimulate + "/return"
)

// Header names.
const (
	// HeaderAuthorization carries the "api-key <key>" credential.
	HeaderAuthorization = "Authorization"

	// AuthScheme prefixes the API key in the Authorization header.
	AuthScheme = "api-key"

	// HeaderRequestID is attached to every outgoing request.
	HeaderRequestID = "X-Request-Id"

	// HeaderRetryAfter is the server backoff hint on 429 responses.
	HeaderRetryAfter = "Retry-After"

	// HeaderWebhookHMAC carries the signature of a webhook body.
	HeaderWebhookHMAC = "X-Privacy-HMAC"

	// ContentTypeJSON is the only wire format the API speaks.
	ContentTypeJSON = "application/json"
)

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for a single HTTP attempt.
	DefaultHTTPTimeout = 30 * time.Second

	// WebhookReadTimeout bounds how long the webhook server waits for a body.
	WebhookReadTimeout = 15 * time.Second

	// ShutdownTimeout bounds graceful shutdown of the webhook server.
	ShutdownTimeout = 5 * time.Second

	// DefaultNATSConnectTimeout bounds the initial connection to the relay's NATS server.
	DefaultNATSConnectTimeout = 5 * time.Second
)

// Retry limits.
const (
	// DefaultRetryMax is the default number of additional attempts.
	DefaultRetryMax = 3

	// DefaultRetryWaitMin is the first backoff interval.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax caps a single backoff interval.
	DefaultRetryWaitMax = 30 * time.Second
)

// Pagination limits.
const (
	// FirstPage is the page number the API starts counting from.
	FirstPage = 1

	// MaxPageSize is the largest page_size the API accepts.
	MaxPageSize = 1000

	// DefaultPageSize is used by the CLI when no size is given.
	DefaultPageSize = 50
)

// Webhook limits.
const (
	// MaxWebhookBodyBytes bounds the size of an accepted webhook payload.
	MaxWebhookBodyBytes = 1 << 20

	// DefaultWebhookAddr is where the webhook server listens by default.
	DefaultWebhookAddr = ":8080"

	// DefaultWebhookPath is the route transactions are posted to.
	DefaultWebhookPath = "/webhooks/transactions"

	// DefaultRelaySubjectPrefix prefixes NATS subjects for relayed transactions.
	DefaultRelaySubjectPrefix = "privacy.transactions"

	// DefaultRelayConnectionName identifies the relay to the NATS server.
	DefaultRelayConnectionName = "privacy-webhook-relay"
)

// DateFormat is the layout the API uses for begin/end filters.
const DateFormat = "2006-01-02"

// CLI output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// CLI configuration.
const (
	// ConfigDirName is the directory under $HOME holding config.yml.
	ConfigDirName = ".privacy"

	// ConfigFileName is the CLI config file name without extension.
	ConfigFileName = "config"

	// EnvPrefix prefixes environment variables read by the CLI.
	EnvPrefix = "PRIVACY"
)
