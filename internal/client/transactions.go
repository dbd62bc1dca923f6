package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/fivetwenty-io/privacy-client/internal/constants"
	http_internal "github.com/fivetwenty-io/privacy-client/internal/http"
	"github.com/fivetwenty-io/privacy-client/pkg/privacy"
)

// TransactionsClient implements the privacy.TransactionsClient interface.
type TransactionsClient struct {
	httpClient *http_internal.Client
	binder     privacy.CardBinder
}

// NewTransactionsClient creates a new TransactionsClient.
func NewTransactionsClient(httpClient *http_internal.Client) *TransactionsClient {
	return &TransactionsClient{
		httpClient: httpClient,
	}
}

// List lists transactions lazily. The approval status selects the path
// segment; every other filter is a query parameter.
func (c *TransactionsClient) List(
	ctx context.Context, params *privacy.TransactionListParams,
) *privacy.Iterator[privacy.Transaction] {
	if params == nil {
		params = privacy.NewTransactionListParams()
	}

	err := params.Validate()
	if err != nil {
		return privacy.NewErrorIterator[privacy.Transaction](err)
	}

	path := constants.APIPathTransactions + "/" + string(params.Status.OrDefault())
	query := params.ToValues()

	fetch := func(ctx context.Context, cursor privacy.Cursor) (*privacy.Page[privacy.Transaction], error) {
		page, err := fetchPage[privacy.Transaction](ctx, c.httpClient, path, query, cursor)
		if err != nil {
			return nil, fmt.Errorf("listing transactions: %w", err)
		}

		for i := range page.Data {
			page.Data[i].Card = bindCard(c.binder, page.Data[i].Card)
		}

		return page, nil
	}

	return privacy.NewIterator(ctx, fetch, params.IteratorOptions()...)
}

// Get retrieves a specific transaction through the token-filtered listing.
func (c *TransactionsClient) Get(ctx context.Context, token string) (*privacy.Transaction, error) {
	if token == "" {
		return nil, privacy.NewValidationError(constants.ErrTransactionTokenRequired.Error())
	}

	txn, err := c.List(ctx, &privacy.TransactionListParams{Token: token}).Next()
	if errors.Is(err, privacy.ErrNoMoreItems) {
		return nil, &privacy.Error{Kind: privacy.KindNotFound, Message: "transaction " + token + " not found"}
	}

	if err != nil {
		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return &txn, nil
}
