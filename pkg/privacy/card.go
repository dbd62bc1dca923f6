package privacy

import (
	"context"
	"fmt"
)

// Card is a snapshot of a card. Values returned by a client are bound to
// it, so Transactions and Update can be called on them directly.
type Card struct {
	Token              string             `json:"token"                yaml:"token"`
	Type               CardType           `json:"type"                 yaml:"type"`
	State              CardState          `json:"state"                yaml:"state"`
	Memo               string             `json:"memo"                 yaml:"memo"`
	LastFour           string             `json:"last_four"            yaml:"last_four"`
	PAN                string             `json:"pan,omitempty"        yaml:"pan,omitempty"`
	CVV                string             `json:"cvv,omitempty"        yaml:"cvv,omitempty"`
	ExpMonth           string             `json:"exp_month,omitempty"  yaml:"exp_month,omitempty"`
	ExpYear            string             `json:"exp_year,omitempty"   yaml:"exp_year,omitempty"`
	Hostname           string             `json:"hostname"             yaml:"hostname"`
	SpendLimit         int                `json:"spend_limit"          yaml:"spend_limit"`
	SpendLimitDuration SpendLimitDuration `json:"spend_limit_duration" yaml:"spend_limit_duration"`
	Funding            *FundingAccount    `json:"funding,omitempty"    yaml:"funding,omitempty"`

	binder CardBinder
}

// CardBinder is the client surface a bound Card delegates to.
type CardBinder interface {
	ListTransactions(ctx context.Context, params *TransactionListParams) *Iterator[Transaction]
	UpdateCard(ctx context.Context, token string, request *CardUpdateRequest) (*Card, error)
}

// Bind returns a copy of the card whose bound operations use b. It makes no request.
func (c Card) Bind(b CardBinder) *Card {
	c.binder = b

	return &c
}

// Bound reports whether the card can issue requests.
func (c *Card) Bound() bool {
	return c.binder != nil
}

// Transactions lists this card's transactions. Every filter except the
// owning card can be set through params.
func (c *Card) Transactions(ctx context.Context, params *CardTransactionParams) *Iterator[Transaction] {
	if c.binder == nil {
		return NewErrorIterator[Transaction](ErrCardNotBound)
	}

	return c.binder.ListTransactions(ctx, params.ForCard(c.Token))
}

// Update modifies this card and returns the new snapshot; the receiver is
// left unchanged. A closed card cannot be moved to another state, and such
// a request is rejected here without contacting the server.
func (c *Card) Update(ctx context.Context, request *CardUpdateRequest) (*Card, error) {
	if c.binder == nil {
		return nil, ErrCardNotBound
	}

	if request == nil {
		request = &CardUpdateRequest{}
	}

	if c.State == CardStateClosed && request.State != "" && request.State != CardStateClosed {
		return nil, NewValidationError(fmt.Sprintf("card %s is closed and cannot be set to %s", c.Token, request.State))
	}

	card, err := c.binder.UpdateCard(ctx, c.Token, request)
	if err != nil {
		return nil, fmt.Errorf("updating card %s: %w", c.Token, err)
	}

	return card, nil
}

// Pause sets the card state to PAUSED.
func (c *Card) Pause(ctx context.Context) (*Card, error) {
	return c.Update(ctx, &CardUpdateRequest{State: CardStatePaused})
}

// Close sets the card state to CLOSED. This cannot be undone.
func (c *Card) Close(ctx context.Context) (*Card, error) {
	return c.Update(ctx, &CardUpdateRequest{State: CardStateClosed})
}
