package client

import (
	"context"

	"github.com/fivetwenty-io/privacy-client/internal/constants"
	"github.com/fivetwenty-io/privacy-client/internal/http"
	"github.com/fivetwenty-io/privacy-client/pkg/privacy"
)

// Client implements the privacy.Client interface.
type Client struct {
	httpClient  *http.Client
	environment privacy.Environment
	logger      privacy.Logger

	// Resource clients
	cards        *CardsClient
	transactions *TransactionsClient
	simulate     *SimulateClient
	embed        *EmbedClient
}

// New creates a client from config. The dispatcher is built once here and
// shared by every resource client.
func New(config *privacy.Config) (*Client, error) {
	if config.APIKey == "" {
		return nil, privacy.ErrAPIKeyRequired
	}

	environment := config.Environment
	if environment == "" {
		environment = privacy.EnvironmentLive
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = environment.BaseURL()
	}

	httpClient := http.NewClient(baseURL, config.APIKey, createHTTPClientOptions(config, environment)...)

	client := &Client{
		httpClient:  httpClient,
		environment: environment,
		logger:      config.Logger,
	}

	client.initializeResourceClients(config.APIKey)

	return client, nil
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *privacy.Config, environment privacy.Environment) []http.Option {
	httpOpts := []http.Option{http.WithEnvironment(environment)}

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPClient != nil {
		httpOpts = append(httpOpts, http.WithHTTPClient(config.HTTPClient))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithTimeout(config.HTTPTimeout))
	}

	retryMax := constants.DefaultRetryMax
	retryWaitMin := constants.DefaultRetryWaitMin
	retryWaitMax := constants.DefaultRetryWaitMax

	if config.RetryMax > 0 {
		retryMax = config.RetryMax
	}

	if config.DisableRetries {
		retryMax = 0
	}

	if config.RetryWaitMin > 0 {
		retryWaitMin = config.RetryWaitMin
	}

	if config.RetryWaitMax > 0 {
		retryWaitMax = config.RetryWaitMax
	}

	if retryWaitMax < retryWaitMin {
		retryWaitMax = retryWaitMin
	}

	return append(httpOpts, http.WithRetryConfig(retryMax, retryWaitMin, retryWaitMax))
}

func (c *Client) initializeResourceClients(apiKey string) {
	c.cards = NewCardsClient(c.httpClient)
	c.transactions = NewTransactionsClient(c.httpClient)
	c.simulate = NewSimulateClient(c.httpClient)
	c.embed = NewEmbedClient(c.httpClient, apiKey)

	binder := &cardBinder{cards: c.cards, transactions: c.transactions}
	c.cards.binder = binder
	c.transactions.binder = binder
}

// Cards returns the cards client.
func (c *Client) Cards() privacy.CardsClient {
	return c.cards
}

// Transactions returns the transactions client.
func (c *Client) Transactions() privacy.TransactionsClient {
	return c.transactions
}

// Simulate returns the sandbox simulation client.
func (c *Client) Simulate() privacy.SimulateClient {
	return c.simulate
}

// Embed returns the hosted card UI client.
func (c *Client) Embed() privacy.EmbedClient {
	return c.embed
}

// Environment returns the environment the client targets.
func (c *Client) Environment() privacy.Environment {
	return c.environment
}

// cardBinder lets bound cards re-enter the client that produced them.
type cardBinder struct {
	cards        *CardsClient
	transactions *TransactionsClient
}

func (b *cardBinder) ListTransactions(
	ctx context.Context, params *privacy.TransactionListParams,
) *privacy.Iterator[privacy.Transaction] {
	return b.transactions.List(ctx, params)
}

func (b *cardBinder) UpdateCard(ctx context.Context, token string, request *privacy.CardUpdateRequest) (*privacy.Card, error) {
	return b.cards.Update(ctx, token, request)
}

func bindCard(binder privacy.CardBinder, card privacy.Card) privacy.Card {
	if binder == nil {
		return card
	}

	return *card.Bind(binder)
}
