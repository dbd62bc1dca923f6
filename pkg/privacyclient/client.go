package privacyclient

import (
	"fmt"
	"strings"

	"github.com/fivetwenty-io/privacy-client/internal/client"
	"github.com/fivetwenty-io/privacy-client/pkg/privacy"
)

// New creates a new Privacy API client from config.
func New(config *privacy.Config) (privacy.Client, error) {
	if config == nil {
		return nil, privacy.ErrConfigRequired
	}

	normalized := *config

	normalized.APIKey = strings.TrimSpace(normalized.APIKey)
	if normalized.APIKey == "" {
		return nil, privacy.ErrAPIKeyRequired
	}

	environment, err := privacy.ParseEnvironment(string(normalized.Environment))
	if err != nil {
		return nil, err
	}

	normalized.Environment = environment
	normalized.BaseURL = normalizeBaseURL(normalized.BaseURL)

	client, err := client.New(&normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return client, nil
}

// NewWithAPIKey creates a live client authenticated with apiKey.
func NewWithAPIKey(apiKey string) (privacy.Client, error) {
	return New(&privacy.Config{
		APIKey:      apiKey,
		Environment: privacy.EnvironmentLive,
	})
}

// NewSandbox creates a sandbox client authenticated with apiKey.
func NewSandbox(apiKey string) (privacy.Client, error) {
	return New(&privacy.Config{
		APIKey:      apiKey,
		Environment: privacy.EnvironmentSandbox,
	})
}

// normalizeBaseURL trims trailing slashes and defaults the scheme to https.
// An empty override is left empty so the environment's URL is used.
func normalizeBaseURL(baseURL string) string {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return ""
	}

	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}

	return baseURL
}
