package privacy

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Static errors for err113 compliance.
var (
	ErrWebhookSignatureMissing = errors.New("webhook signature missing")
	ErrWebhookSignatureInvalid = errors.New("webhook signature invalid")
	ErrWebhookPayloadInvalid   = errors.New("webhook payload invalid")
)

// ParseTransactionWebhook decodes a transaction webhook body. When apiKey is
// non-empty the body must carry a valid signature.
func ParseTransactionWebhook(apiKey string, body []byte, signature string) (*Transaction, error) {
	if apiKey != "" {
		if signature == "" {
			return nil, ErrWebhookSignatureMissing
		}

		if !VerifySignature(apiKey, body, signature) {
			return nil, ErrWebhookSignatureInvalid
		}
	}

	var txn Transaction

	err := json.Unmarshal(body, &txn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWebhookPayloadInvalid, err)
	}

	if txn.Token == "" {
		return nil, fmt.Errorf("%w: missing transaction token", ErrWebhookPayloadInvalid)
	}

	return &txn, nil
}
