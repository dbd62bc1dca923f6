package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/fivetwenty-io/privacy-client/internal/constants"
	http_internal "github.com/fivetwenty-io/privacy-client/internal/http"
	"github.com/fivetwenty-io/privacy-client/pkg/privacy"
)

// CardsClient implements the privacy.CardsClient interface.
type CardsClient struct {
	httpClient *http_internal.Client
	binder     privacy.CardBinder
}

// NewCardsClient creates a new CardsClient. Cards it returns are unbound
// until the owning Client installs a binder.
func NewCardsClient(httpClient *http_internal.Client) *CardsClient {
	return &CardsClient{
		httpClient: httpClient,
	}
}

// List lists cards lazily. Invalid params are reported on the first advance.
func (c *CardsClient) List(ctx context.Context, params *privacy.CardListParams) *privacy.Iterator[privacy.Card] {
	if params == nil {
		params = privacy.NewCardListParams()
	}

	err := params.Validate()
	if err != nil {
		return privacy.NewErrorIterator[privacy.Card](err)
	}

	query := params.ToValues()

	fetch := func(ctx context.Context, cursor privacy.Cursor) (*privacy.Page[privacy.Card], error) {
		page, err := fetchPage[privacy.Card](ctx, c.httpClient, constants.APIPathCards, query, cursor)
		if err != nil {
			return nil, fmt.Errorf("listing cards: %w", err)
		}

		for i := range page.Data {
			page.Data[i] = bindCard(c.binder, page.Data[i])
		}

		return page, nil
	}

	return privacy.NewIterator(ctx, fetch, params.IteratorOptions()...)
}

// Get retrieves a specific card through the token-filtered listing.
func (c *CardsClient) Get(ctx context.Context, token string) (*privacy.Card, error) {
	if token == "" {
		return nil, privacy.NewValidationError(constants.ErrCardTokenRequired.Error())
	}

	card, err := c.List(ctx, privacy.NewCardListParams().WithToken(token)).Next()
	if errors.Is(err, privacy.ErrNoMoreItems) {
		return nil, &privacy.Error{Kind: privacy.KindNotFound, Message: "card " + token + " not found"}
	}

	if err != nil {
		return nil, fmt.Errorf("getting card: %w", err)
	}

	return &card, nil
}

// Create creates a new card.
func (c *CardsClient) Create(ctx context.Context, request *privacy.CardCreateRequest) (*privacy.Card, error) {
	if request == nil || request.Type == "" {
		return nil, privacy.NewValidationError("card type is required")
	}

	resp, err := c.httpClient.Post(ctx, constants.APIPathCards, request)
	if err != nil {
		return nil, fmt.Errorf("creating card: %w", err)
	}

	card, err := decode[privacy.Card](resp)
	if err != nil {
		return nil, fmt.Errorf("parsing card response: %w", err)
	}

	bound := bindCard(c.binder, *card)

	return &bound, nil
}

// cardUpdateBody is the wire form of an update; the token travels in the body.
type cardUpdateBody struct {
	CardToken string `json:"card_token"`
	*privacy.CardUpdateRequest
}

// Update modifies a card. Moving a closed card to another state is left
// to the server to reject.
func (c *CardsClient) Update(ctx context.Context, token string, request *privacy.CardUpdateRequest) (*privacy.Card, error) {
	if token == "" {
		return nil, privacy.NewValidationError(constants.ErrCardTokenRequired.Error())
	}

	if request == nil {
		request = &privacy.CardUpdateRequest{}
	}

	resp, err := c.httpClient.Put(ctx, constants.APIPathCards, cardUpdateBody{CardToken: token, CardUpdateRequest: request})
	if err != nil {
		return nil, fmt.Errorf("updating card: %w", err)
	}

	card, err := decode[privacy.Card](resp)
	if err != nil {
		return nil, fmt.Errorf("parsing card response: %w", err)
	}

	bound := bindCard(c.binder, *card)

	return &bound, nil
}
