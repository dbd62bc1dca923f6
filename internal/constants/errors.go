package constants

import "errors"

// Configuration errors.
var (
	ErrNoAPIKeyConfigured = errors.New("no API key configured, use 'privacy configure' or set PRIVACY_API_KEY")
	ErrInvalidEnvironment = errors.New("invalid environment, expected 'live' or 'sandbox'")
	ErrInvalidOutput      = errors.New("invalid output format, expected 'table', 'json' or 'yaml'")
)

// Required field errors.
var (
	ErrCardTokenRequired        = errors.New("card token is required")
	ErrTransactionTokenRequired = errors.New("transaction token is required")
	ErrCardTypeRequired         = errors.New("--type flag is required")
	ErrPANRequired              = errors.New("--pan flag is required")
	ErrDescriptorRequired       = errors.New("--descriptor flag is required")
	ErrAmountRequired           = errors.New("--amount must be greater than zero")
	ErrNothingToUpdate          = errors.New("no update flags given")
)
