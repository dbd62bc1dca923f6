package privacy

import "time"

// CardType represents the kind of card.
type CardType string

const (
	CardTypeSingleUse      CardType = "SINGLE_USE"
	CardTypeMerchantLocked CardType = "MERCHANT_LOCKED"
	CardTypeUnlocked       CardType = "UNLOCKED"
	CardTypePhysical       CardType = "PHYSICAL"
)

// CardState represents the lifecycle state of a card. CLOSED is final.
type CardState string

const (
	CardStateOpen   CardState = "OPEN"
	CardStatePaused CardState = "PAUSED"
	CardStateClosed CardState = "CLOSED"
)

// SpendLimitDuration is the period over which a card's spend limit resets.
type SpendLimitDuration string

const (
	SpendLimitTransaction SpendLimitDuration = "TRANSACTION"
	SpendLimitMonthly     SpendLimitDuration = "MONTHLY"
	SpendLimitAnnually    SpendLimitDuration = "ANNUALLY"
	SpendLimitForever     SpendLimitDuration = "FOREVER"
)

// TransactionStatus represents the settlement status of a transaction.
type TransactionStatus string

const (
	TransactionStatusPending  TransactionStatus = "PENDING"
	TransactionStatusVoided   TransactionStatus = "VOIDED"
	TransactionStatusSettling TransactionStatus = "SETTLING"
	TransactionStatusSettled  TransactionStatus = "SETTLED"
	TransactionStatusBounced  TransactionStatus = "BOUNCED"
)

// EventType represents the kind of event applied to a transaction.
type EventType string

const (
	EventTypeAuthorization       EventType = "AUTHORIZATION"
	EventTypeAuthorizationAdvice EventType = "AUTHORIZATION_ADVICE"
	EventTypeClearing            EventType = "CLEARING"
	EventTypeVoid                EventType = "VOID"
	EventTypeReturn              EventType = "RETURN"
)

// Result is the outcome of a transaction or one of its events.
type Result string

const (
	ResultApproved                Result = "APPROVED"
	ResultCardPaused              Result = "CARD_PAUSED"
	ResultCardClosed              Result = "CARD_CLOSED"
	ResultGlobalTransactionLimit  Result = "GLOBAL_TRANSACTION_LIMIT"
	ResultGlobalWeeklyLimit       Result = "GLOBAL_WEEKLY_LIMIT"
	ResultGlobalMonthlyLimit      Result = "GLOBAL_MONTHLY_LIMIT"
	ResultUserTransactionLimit    Result = "USER_TRANSACTION_LIMIT"
	ResultUnauthorizedMerchant    Result = "UNAUTHORIZED_MERCHANT"
	ResultSingleUseRecharged      Result = "SINGLE_USE_RECHARGED"
	ResultBankConnectionError     Result = "BANK_CONNECTION_ERROR"
	ResultInsufficientFunds       Result = "INSUFFICIENT_FUNDS"
	ResultMerchantBlacklist       Result = "MERCHANT_BLACKLIST"
	ResultInvalidCardDetails      Result = "INVALID_CARD_DETAILS"
	ResultBankNotVerified         Result = "BANK_NOT_VERIFIED"
	ResultInactiveAccount         Result = "INACTIVE_ACCOUNT"
	ResultUnknownHostTimeout      Result = "UNKNOWN_HOST_TIMEOUT"
	ResultSwitchInoperativeAdvice Result = "SWITCH_INOPERATIVE_ADVICE"
	ResultFraudAdvice             Result = "FRAUD_ADVICE"
)

// FundingAccountType represents the kind of account that funds a card.
type FundingAccountType string

const (
	FundingAccountChecking FundingAccountType = "DEPOSITORY_CHECKING"
	FundingAccountSavings  FundingAccountType = "DEPOSITORY_SAVINGS"
	FundingAccountDebit    FundingAccountType = "CARD_DEBIT"
)

// FundingAccount represents a bank account or debit card that funds transactions.
type FundingAccount struct {
	AccountName string             `json:"account_name"      yaml:"account_name"`
	Amount      int                `json:"amount,omitempty"  yaml:"amount,omitempty"`
	Created     *time.Time         `json:"created,omitempty" yaml:"created,omitempty"`
	LastFour    string             `json:"last_four"         yaml:"last_four"`
	Nickname    string             `json:"nickname"          yaml:"nickname"`
	State       string             `json:"state,omitempty"   yaml:"state,omitempty"`
	Token       string             `json:"token"             yaml:"token"`
	Type        FundingAccountType `json:"type"              yaml:"type"`
}

// Merchant describes the card acceptor of a transaction.
type Merchant struct {
	AcceptorID string `json:"acceptor_id" yaml:"acceptor_id"`
	City       string `json:"city"        yaml:"city"`
	Country    string `json:"country"     yaml:"country"`
	Descriptor string `json:"descriptor"  yaml:"descriptor"`
	MCC        string `json:"mcc"         yaml:"mcc"`
	State      string `json:"state"       yaml:"state"`
}

// Event is one step (authorization, clearing, void...) in a transaction's history.
type Event struct {
	Amount  int       `json:"amount"  yaml:"amount"`
	Created time.Time `json:"created" yaml:"created"`
	Result  Result    `json:"result"  yaml:"result"`
	Token   string    `json:"token"   yaml:"token"`
	Type    EventType `json:"type"    yaml:"type"`
}

// Transaction is a snapshot of a card transaction. Amounts are in cents.
type Transaction struct {
	Amount        int               `json:"amount"         yaml:"amount"`
	Card          Card              `json:"card"           yaml:"card"`
	Created       time.Time         `json:"created"        yaml:"created"`
	Events        []Event           `json:"events"         yaml:"events"`
	Funding       []FundingAccount  `json:"funding"        yaml:"funding"`
	Merchant      Merchant          `json:"merchant"       yaml:"merchant"`
	Result        Result            `json:"result"         yaml:"result"`
	SettledAmount int               `json:"settled_amount" yaml:"settled_amount"`
	Status        TransactionStatus `json:"status"         yaml:"status"`
	Token         string            `json:"token"          yaml:"token"`
}

// CardCreateRequest is the body for creating a card.
type CardCreateRequest struct {
	Type               CardType           `json:"type"                           yaml:"type"`
	Memo               string             `json:"memo,omitempty"                 yaml:"memo,omitempty"`
	SpendLimit         *int               `json:"spend_limit,omitempty"          yaml:"spend_limit,omitempty"`
	SpendLimitDuration SpendLimitDuration `json:"spend_limit_duration,omitempty" yaml:"spend_limit_duration,omitempty"`
	State              CardState          `json:"state,omitempty"                yaml:"state,omitempty"`
	FundingToken       string             `json:"funding_token,omitempty"        yaml:"funding_token,omitempty"`
}

// CardUpdateRequest is the body for modifying a card. The card token is
// supplied separately and cannot be set here.
type CardUpdateRequest struct {
	State              CardState          `json:"state,omitempty"                yaml:"state,omitempty"`
	Memo               string             `json:"memo,omitempty"                 yaml:"memo,omitempty"`
	SpendLimit         *int               `json:"spend_limit,omitempty"          yaml:"spend_limit,omitempty"`
	SpendLimitDuration SpendLimitDuration `json:"spend_limit_duration,omitempty" yaml:"spend_limit_duration,omitempty"`
	FundingToken       string             `json:"funding_token,omitempty"        yaml:"funding_token,omitempty"`
}

// SimulateAuthorizationRequest simulates a merchant authorization in the sandbox.
type SimulateAuthorizationRequest struct {
	Descriptor string `json:"descriptor" yaml:"descriptor"`
	PAN        string `json:"pan"        yaml:"pan"`
	Amount     int    `json:"amount"     yaml:"amount"`
}

// SimulateReturnRequest simulates a refund to a card in the sandbox.
type SimulateReturnRequest struct {
	Descriptor string `json:"descriptor" yaml:"descriptor"`
	PAN        string `json:"pan"        yaml:"pan"`
	Amount     int    `json:"amount"     yaml:"amount"`
}

// SimulateAdjustmentRequest voids or clears part or all of an existing authorization.
type SimulateAdjustmentRequest struct {
	Token  string `json:"token"  yaml:"token"`
	Amount int    `json:"amount" yaml:"amount"`
}

// SimulateResponse is returned by simulate calls that create a transaction.
type SimulateResponse struct {
	Token string `json:"token" yaml:"token"`
}
