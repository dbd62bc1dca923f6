package privacy

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"
)

// EmbedRequest describes a hosted card UI iframe.
type EmbedRequest struct {
	// Token of the card to display.
	Token string `json:"token" yaml:"token"`
	// CSS is a public stylesheet URL applied to the iframe.
	CSS string `json:"css,omitempty" yaml:"css,omitempty"`
	// Expiration is when the embed stops working.
	Expiration *time.Time `json:"expiration,omitempty" yaml:"expiration,omitempty"`
}

// SignedEmbedRequest is the wire form of an EmbedRequest.
type SignedEmbedRequest struct {
	// EmbedRequest is the base64 encoded JSON request.
	EmbedRequest string `json:"embed_request" yaml:"embed_request"`
	// HMAC is the base64 HMAC-SHA256 of EmbedRequest keyed with the API key.
	HMAC string `json:"hmac" yaml:"hmac"`
}

// SignEmbedRequest encodes and signs request with apiKey.
func SignEmbedRequest(apiKey string, request *EmbedRequest) (*SignedEmbedRequest, error) {
	if request == nil || request.Token == "" {
		return nil, NewValidationError("embed request requires a card token")
	}

	if apiKey == "" {
		return nil, NewConfigurationError(ErrAPIKeyRequired.Error())
	}

	raw, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("encoding embed request: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(raw)

	return &SignedEmbedRequest{
		EmbedRequest: encoded,
		HMAC:         Sign(apiKey, []byte(encoded)),
	}, nil
}

// Sign returns the base64 HMAC-SHA256 of msg keyed with key.
func Sign(key string, msg []byte) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write(msg)

	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// VerifySignature reports whether signature is the HMAC of msg under key,
// comparing in constant time.
func VerifySignature(key string, msg []byte, signature string) bool {
	want, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(key))
	mac.Write(msg)

	return hmac.Equal(mac.Sum(nil), want)
}
