package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/privacy-client/internal/constants"
	http_internal "github.com/fivetwenty-io/privacy-client/internal/http"
	"github.com/fivetwenty-io/privacy-client/pkg/privacy"
)

// EmbedClient implements the privacy.EmbedClient interface.
type EmbedClient struct {
	httpClient *http_internal.Client
	apiKey     string
}

// NewEmbedClient creates a new EmbedClient. apiKey signs embed requests.
func NewEmbedClient(httpClient *http_internal.Client, apiKey string) *EmbedClient {
	return &EmbedClient{
		httpClient: httpClient,
		apiKey:     apiKey,
	}
}

// Sign returns the signed form of request.
func (c *EmbedClient) Sign(request *privacy.EmbedRequest) (*privacy.SignedEmbedRequest, error) {
	return privacy.SignEmbedRequest(c.apiKey, request)
}

// HostedCardUI fetches the iframe body for a card.
func (c *EmbedClient) HostedCardUI(ctx context.Context, request *privacy.EmbedRequest) ([]byte, error) {
	signed, err := c.Sign(request)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("embed_request", signed.EmbedRequest)
	query.Set("hmac", signed.HMAC)

	resp, err := c.httpClient.Get(ctx, constants.APIPathHostedCardUI, query)
	if err != nil {
		return nil, fmt.Errorf("getting hosted card UI: %w", err)
	}

	return resp.Body, nil
}
