package privacy

import (
	"context"
)

// Client is the entry point for the Privacy API. Create one with privacyclient.New.
type Client interface {
	Cards() CardsClient
	Transactions() TransactionsClient
	Simulate() SimulateClient
	Embed() EmbedClient

	// Environment returns the environment the client was built for.
	Environment() Environment
}

// CardsClient defines operations for cards.
type CardsClient interface {
	List(ctx context.Context, params *CardListParams) *Iterator[Card]
	Get(ctx context.Context, token string) (*Card, error)
	Create(ctx context.Context, request *CardCreateRequest) (*Card, error)
	// Update modifies a card. State transitions out of CLOSED are left to the server to reject.
	Update(ctx context.Context, token string, request *CardUpdateRequest) (*Card, error)
}

// TransactionsClient defines operations for transactions.
type TransactionsClient interface {
	List(ctx context.Context, params *TransactionListParams) *Iterator[Transaction]
	Get(ctx context.Context, token string) (*Transaction, error)
}

// SimulateClient defines the sandbox-only simulation operations. Each one
// fails with a configuration error, without a request, on a live client.
type SimulateClient interface {
	Authorize(ctx context.Context, request *SimulateAuthorizationRequest) (*SimulateResponse, error)
	Void(ctx context.Context, request *SimulateAdjustmentRequest) error
	Clearing(ctx context.Context, request *SimulateAdjustmentRequest) error
	Return(ctx context.Context, request *SimulateReturnRequest) (*SimulateResponse, error)
}

// EmbedClient defines operations for the hosted card UI.
type EmbedClient interface {
	// HostedCardUI returns the iframe body that displays a card's details.
	HostedCardUI(ctx context.Context, request *EmbedRequest) ([]byte, error)
	// Sign returns the signed payload without sending it.
	Sign(request *EmbedRequest) (*SignedEmbedRequest, error)
}
