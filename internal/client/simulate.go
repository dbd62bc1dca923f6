package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fivetwenty-io/privacy-client/internal/constants"
	http_internal "github.com/fivetwenty-io/privacy-client/internal/http"
	"github.com/fivetwenty-io/privacy-client/pkg/privacy"
)

// SimulateClient implements the privacy.SimulateClient interface. Every
// call is sandbox-only and refused by the dispatcher on live.
type SimulateClient struct {
	httpClient *http_internal.Client
}

// NewSimulateClient creates a new SimulateClient.
func NewSimulateClient(httpClient *http_internal.Client) *SimulateClient {
	return &SimulateClient{
		httpClient: httpClient,
	}
}

func (c *SimulateClient) post(ctx context.Context, path string, body interface{}) (*http_internal.Response, error) {
	return c.httpClient.Do(ctx, &http_internal.Request{
		Method:      http.MethodPost,
		Path:        path,
		Body:        body,
		SandboxOnly: true,
	})
}

// Authorize simulates a merchant authorization and returns the new transaction token.
func (c *SimulateClient) Authorize(
	ctx context.Context, request *privacy.SimulateAuthorizationRequest,
) (*privacy.SimulateResponse, error) {
	if request == nil {
		return nil, privacy.NewValidationError("authorization request is required")
	}

	resp, err := c.post(ctx, constants.APIPathSimulateAuth, request)
	if err != nil {
		return nil, fmt.Errorf("simulating authorization: %w", err)
	}

	result, err := decode[privacy.SimulateResponse](resp)
	if err != nil {
		return nil, fmt.Errorf("parsing simulate response: %w", err)
	}

	return result, nil
}

// Void voids all or part of a pending authorization.
func (c *SimulateClient) Void(ctx context.Context, request *privacy.SimulateAdjustmentRequest) error {
	if request == nil {
		return privacy.NewValidationError("void request is required")
	}

	_, err := c.post(ctx, constants.APIPathSimulateVoid, request)
	if err != nil {
		return fmt.Errorf("simulating void: %w", err)
	}

	return nil
}

// Clearing clears all or part of an authorization.
func (c *SimulateClient) Clearing(ctx context.Context, request *privacy.SimulateAdjustmentRequest) error {
	if request == nil {
		return privacy.NewValidationError("clearing request is required")
	}

	_, err := c.post(ctx, constants.APIPathSimulateClear, request)
	if err != nil {
		return fmt.Errorf("simulating clearing: %w", err)
	}

	return nil
}

// Return simulates a refund to a card and returns the new transaction token.
func (c *SimulateClient) Return(ctx context.Context, request *privacy.SimulateReturnRequest) (*privacy.SimulateResponse, error) {
	if request == nil {
		return nil, privacy.NewValidationError("return request is required")
	}

	resp, err := c.post(ctx, constants.APIPathSimulateReturn, request)
	if err != nil {
		return nil, fmt.Errorf("simulating return: %w", err)
	}

	result, err := decode[privacy.SimulateResponse](resp)
	if err != nil {
		return nil, fmt.Errorf("parsing simulate response: %w", err)
	}

	return result, nil
}
