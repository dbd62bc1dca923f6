package privacy

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/fivetwenty-io/privacy-client/internal/constants"
)

// ApprovalStatus filters transactions by authorization outcome. It is sent
// as a path segment rather than a query parameter.
type ApprovalStatus string

const (
	ApprovalStatusAll       ApprovalStatus = "all"
	ApprovalStatusApprovals ApprovalStatus = "approvals"
	ApprovalStatusDeclines  ApprovalStatus = "declines"
)

// OrDefault returns ApprovalStatusAll for the zero value.
func (s ApprovalStatus) OrDefault() ApprovalStatus {
	if s == "" {
		return ApprovalStatusAll
	}

	return s
}

// Valid reports whether s is a known status or empty.
func (s ApprovalStatus) Valid() bool {
	switch s {
	case "", ApprovalStatusAll, ApprovalStatusApprovals, ApprovalStatusDeclines:
		return true
	default:
		return false
	}
}

// pageFilters are the filters shared by every list endpoint.
type pageFilters struct {
	Page     int
	PageSize int
	Begin    time.Time
	End      time.Time
	Limit    int
}

func (f pageFilters) validate() error {
	if f.Page < 0 {
		return NewValidationError(fmt.Sprintf("page must not be negative, got %d", f.Page))
	}

	if f.PageSize < 0 {
		return NewValidationError(fmt.Sprintf("page_size must not be negative, got %d", f.PageSize))
	}

	if f.PageSize > constants.MaxPageSize {
		return NewValidationError(fmt.Sprintf("page_size must be at most %d, got %d", constants.MaxPageSize, f.PageSize))
	}

	if f.Limit < 0 {
		return NewValidationError(fmt.Sprintf("limit must not be negative, got %d", f.Limit))
	}

	if !f.Begin.IsZero() && !f.End.IsZero() && f.End.Before(f.Begin) {
		return NewValidationError("end date is before begin date")
	}

	return nil
}

func (f pageFilters) apply(values url.Values) {
	if f.PageSize > 0 {
		values.Set("page_size", strconv.Itoa(f.PageSize))
	}

	if !f.Begin.IsZero() {
		values.Set("begin", f.Begin.Format(constants.DateFormat))
	}

	if !f.End.IsZero() {
		values.Set("end", f.End.Format(constants.DateFormat))
	}
}

// CardListParams filters a card listing. Zero values impose no filter.
type CardListParams struct {
	// Token restricts the listing to one card; at most one record is yielded.
	Token string
	// Page is the first page to fetch.
	Page     int
	PageSize int
	Begin    time.Time
	End      time.Time
	// Limit caps the number of records yielded.
	Limit int
}

// NewCardListParams creates empty card list parameters.
func NewCardListParams() *CardListParams {
	return &CardListParams{}
}

// WithToken restricts the listing to a single card.
func (p *CardListParams) WithToken(token string) *CardListParams {
	p.Token = token

	return p
}

// WithDateRange sets the begin and end dates.
func (p *CardListParams) WithDateRange(begin, end time.Time) *CardListParams {
	p.Begin = begin
	p.End = end

	return p
}

// WithPageSize sets the page size.
func (p *CardListParams) WithPageSize(size int) *CardListParams {
	p.PageSize = size

	return p
}

func (p *CardListParams) filters() pageFilters {
	return pageFilters{Page: p.Page, PageSize: p.PageSize, Begin: p.Begin, End: p.End, Limit: p.Limit}
}

// Validate checks the parameters without contacting the server.
func (p *CardListParams) Validate() error {
	return p.filters().validate()
}

// ToValues converts the filters to query parameters. The page number is
// owned by the iterator and is not included.
func (p *CardListParams) ToValues() url.Values {
	values := url.Values{}
	if p == nil {
		return values
	}

	if p.Token != "" {
		values.Set("card_token", p.Token)
	}

	p.filters().apply(values)

	return values
}

// IteratorOptions returns the start page and item limit for the listing.
func (p *CardListParams) IteratorOptions() []IteratorOption {
	if p == nil {
		return nil
	}

	return iteratorOptions(p.filters(), p.Token != "")
}

// TransactionListParams filters a transaction listing. Zero values impose no filter.
type TransactionListParams struct {
	// Status selects approvals, declines or all (the default).
	Status ApprovalStatus
	// Token restricts the listing to one transaction; at most one record is yielded.
	Token string
	// CardToken restricts the listing to transactions on one card.
	CardToken string
	Page      int
	PageSize  int
	Begin     time.Time
	End       time.Time
	// Limit caps the number of records yielded.
	Limit int
}

// NewTransactionListParams creates empty transaction list parameters.
func NewTransactionListParams() *TransactionListParams {
	return &TransactionListParams{}
}

// WithStatus sets the approval status filter.
func (p *TransactionListParams) WithStatus(status ApprovalStatus) *TransactionListParams {
	p.Status = status

	return p
}

// WithCardToken restricts the listing to one card.
func (p *TransactionListParams) WithCardToken(token string) *TransactionListParams {
	p.CardToken = token

	return p
}

// WithDateRange sets the begin and end dates.
func (p *TransactionListParams) WithDateRange(begin, end time.Time) *TransactionListParams {
	p.Begin = begin
	p.End = end

	return p
}

func (p *TransactionListParams) filters() pageFilters {
	return pageFilters{Page: p.Page, PageSize: p.PageSize, Begin: p.Begin, End: p.End, Limit: p.Limit}
}

// Validate checks the parameters without contacting the server.
func (p *TransactionListParams) Validate() error {
	if !p.Status.Valid() {
		return NewValidationError(fmt.Sprintf("unknown approval status %q", p.Status))
	}

	return p.filters().validate()
}

// ToValues converts the filters to query parameters. The approval status
// and page number are not included.
func (p *TransactionListParams) ToValues() url.Values {
	values := url.Values{}
	if p == nil {
		return values
	}

	if p.Token != "" {
		values.Set("transaction_token", p.Token)
	}

	if p.CardToken != "" {
		values.Set("card_token", p.CardToken)
	}

	p.filters().apply(values)

	return values
}

// IteratorOptions returns the start page and item limit for the listing.
func (p *TransactionListParams) IteratorOptions() []IteratorOption {
	if p == nil {
		return nil
	}

	return iteratorOptions(p.filters(), p.Token != "")
}

// CardTransactionParams filters the transactions of one card. It has no
// card token field: the owning card is always the card it is called on.
type CardTransactionParams struct {
	Status   ApprovalStatus
	Token    string
	Page     int
	PageSize int
	Begin    time.Time
	End      time.Time
	Limit    int
}

// ForCard expands the parameters into a general listing pinned to cardToken.
func (p *CardTransactionParams) ForCard(cardToken string) *TransactionListParams {
	if p == nil {
		return &TransactionListParams{CardToken: cardToken}
	}

	return &TransactionListParams{
		Status:    p.Status,
		Token:     p.Token,
		CardToken: cardToken,
		Page:      p.Page,
		PageSize:  p.PageSize,
		Begin:     p.Begin,
		End:       p.End,
		Limit:     p.Limit,
	}
}

func iteratorOptions(f pageFilters, single bool) []IteratorOption {
	opts := []IteratorOption{WithStartPage(f.Page), WithLimit(f.Limit)}
	if single {
		opts = append(opts, WithLimit(1))
	}

	return opts
}
