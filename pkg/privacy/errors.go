package privacy

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind is the closed set of failure categories a call can report.
type ErrorKind int

const (
	// KindUnknown is an unrecognized status or body; Raw carries the diagnostics.
	KindUnknown ErrorKind = iota
	// KindAuthentication is an invalid or missing API key (401).
	KindAuthentication
	// KindPermissionDenied is a valid key without the account tier for the operation (403).
	KindPermissionDenied
	// KindNotFound is a token that does not resolve to a record (404).
	KindNotFound
	// KindValidation is a malformed filter or payload (400, 409, 422, or rejected locally).
	KindValidation
	// KindRateLimited is a 429 that survived every retry.
	KindRateLimited
	// KindTransientService is a 5xx, timeout or connection failure that survived every retry.
	KindTransientService
	// KindConfiguration is a local misconfiguration, such as simulating against live.
	KindConfiguration
	// KindCancelled is caller-initiated cancellation or deadline expiry.
	KindCancelled
)

var kindNames = map[ErrorKind]string{
	KindUnknown:          "UnknownServiceError",
	KindAuthentication:   "AuthenticationFailure",
	KindPermissionDenied: "PermissionDenied",
	KindNotFound:         "NotFound",
	KindValidation:       "ValidationFailure",
	KindRateLimited:      "RateLimited",
	KindTransientService: "TransientServiceFailure",
	KindConfiguration:    "ConfigurationError",
	KindCancelled:        "Cancelled",
}

// String implements fmt.Stringer.
func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is the single error type returned by the client.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	// Message is the server's "message" field, or a local description.
	Message string
	// Raw is the unparsed response body.
	Raw string
	// RequestID is the server's debugging_request_id, falling back to the X-Request-Id we sent.
	RequestID string
	// Err is the underlying transport or context error, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(e.Kind.String())

	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}

	switch {
	case e.Message != "":
		b.WriteString(": " + e.Message)
	case e.Err != nil:
		b.WriteString(": " + e.Err.Error())
	}

	if e.RequestID != "" {
		b.WriteString(" [request " + e.RequestID + "]")
	}

	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the kind-only sentinels below, so errors.Is(err, ErrNotFound)
// holds for any not-found error regardless of its details.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || !t.sentinel() {
		return false
	}

	return t.Kind == e.Kind
}

func (e *Error) sentinel() bool {
	return e.StatusCode == 0 && e.Message == "" && e.Raw == "" && e.RequestID == "" && e.Err == nil
}

// Sentinels for errors.Is. They carry only a kind.
var (
	ErrUnknown          = &Error{Kind: KindUnknown}
	ErrAuthentication   = &Error{Kind: KindAuthentication}
	ErrPermissionDenied = &Error{Kind: KindPermissionDenied}
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrValidation       = &Error{Kind: KindValidation}
	ErrRateLimited      = &Error{Kind: KindRateLimited}
	ErrTransientService = &Error{Kind: KindTransientService}
	ErrConfiguration    = &Error{Kind: KindConfiguration}
	ErrCancelled        = &Error{Kind: KindCancelled}
)

// Static errors for err113 compliance.
var (
	ErrNoMoreItems    = errors.New("no more items")
	ErrConfigRequired = errors.New("config is required")
	ErrAPIKeyRequired = errors.New("API key is required")
	ErrCardNotBound   = &Error{Kind: KindConfiguration, Message: "card is not bound to a client"}
)

// NewConfigurationError reports a local misconfiguration.
func NewConfigurationError(msg string) *Error {
	return &Error{Kind: KindConfiguration, Message: msg}
}

// NewValidationError reports a request rejected before it was sent.
func NewValidationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// NewCancelledError wraps a context error.
func NewCancelledError(err error) *Error {
	return &Error{Kind: KindCancelled, Err: err}
}

// NewTransportError wraps a connection failure or timeout that never produced a response.
func NewTransportError(err error) *Error {
	return &Error{Kind: KindTransientService, Err: err}
}

// NewPermanentTransportError wraps a transport failure that was not retried
// because another attempt cannot succeed, such as a rejected certificate.
func NewPermanentTransportError(err error) *Error {
	return &Error{Kind: KindUnknown, Err: err}
}

// NewDecodeError reports a successful response whose body could not be decoded.
func NewDecodeError(status int, body []byte, err error) *Error {
	return &Error{Kind: KindUnknown, StatusCode: status, Message: "decoding response body", Raw: string(body), Err: err}
}

// errorBody is the shape of an API error response.
type errorBody struct {
	Message   string `json:"message"`
	RequestID string `json:"debugging_request_id"`
}

// ClassifyResponse maps an HTTP status and body to nil for success or an *Error.
// It never fails on malformed bodies; the raw text is kept instead.
func ClassifyResponse(status int, body []byte) error {
	if status >= http.StatusOK && status < http.StatusBadRequest {
		return nil
	}

	apiErr := &Error{
		Kind:       kindForStatus(status),
		StatusCode: status,
		Raw:        string(body),
	}

	var parsed errorBody
	if json.Unmarshal(body, &parsed) == nil && parsed.Message != "" {
		apiErr.Message = parsed.Message
		apiErr.RequestID = parsed.RequestID
	} else {
		apiErr.Message = strings.TrimSpace(string(body))
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(status)
		}
	}

	return apiErr
}

func kindForStatus(status int) ErrorKind {
	switch {
	case status == http.StatusUnauthorized:
		return KindAuthentication
	case status == http.StatusForbidden:
		return KindPermissionDenied
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusBadRequest,
		status == http.StatusConflict,
		status == http.StatusUnprocessableEntity:
		return KindValidation
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status >= http.StatusInternalServerError:
		return KindTransientService
	default:
		return KindUnknown
	}
}

// KindOf returns the kind of err, or KindUnknown when err is not an *Error.
func KindOf(err error) ErrorKind {
	apiErr := &Error{}
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}

	return KindUnknown
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsRateLimited checks if the error is a rate limit that outlasted retries.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsCancelled checks if the call was cancelled by the caller.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}
