// Package relay republishes verified transaction webhooks onto NATS subjects.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/fivetwenty-io/privacy-client/internal/constants"
	"github.com/fivetwenty-io/privacy-client/pkg/privacy"
)

// Static errors for err113 compliance.
var (
	ErrNATSURLRequired = errors.New("NATS URL is required")
	ErrNilTransaction  = errors.New("transaction is nil")
)

// Headers set on every relayed message.
const (
	HeaderCardToken = "Privacy-Card-Token"
	HeaderResult    = "Privacy-Result"
)

// Publisher is the subset of *nats.Conn the relay needs.
type Publisher interface {
	PublishMsg(msg *nats.Msg) error
}

// Config configures the NATS connection.
type Config struct {
	// URL is the NATS server URL, e.g. nats://127.0.0.1:4222.
	URL string
	// SubjectPrefix defaults to privacy.transactions.
	SubjectPrefix string
	// Name identifies the connection to the server.
	Name string
	// Timeout bounds the initial connect. Zero selects DefaultNATSConnectTimeout.
	Timeout time.Duration
}

// Connect dials the NATS server described by config.
func Connect(config Config) (*nats.Conn, error) {
	if config.URL == "" {
		return nil, ErrNATSURLRequired
	}

	conn, err := nats.Connect(config.URL, config.Options()...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS: %w", err)
	}

	return conn, nil
}

// Options returns the connection options for config with defaults applied.
func (c Config) Options() []nats.Option {
	name := c.Name
	if name == "" {
		name = constants.DefaultRelayConnectionName
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = constants.DefaultNATSConnectTimeout
	}

	return []nats.Option{nats.Name(name), nats.Timeout(timeout)}
}

// Relay publishes each transaction as JSON on <prefix>.<status>. It
// implements webhook.Handler.
type Relay struct {
	publisher Publisher
	prefix    string
	logger    privacy.Logger
}

// New creates a relay. An empty prefix selects the default.
func New(publisher Publisher, prefix string, logger privacy.Logger) *Relay {
	if prefix == "" {
		prefix = constants.DefaultRelaySubjectPrefix
	}

	return &Relay{
		publisher: publisher,
		prefix:    strings.TrimSuffix(prefix, "."),
		logger:    logger,
	}
}

// Subject returns the subject a transaction is published on.
func (r *Relay) Subject(txn *privacy.Transaction) string {
	status := strings.ToLower(string(txn.Status))
	if status == "" {
		status = "unknown"
	}

	return r.prefix + "." + status
}

// HandleTransaction publishes txn. The transaction token is used as the
// message id so a JetStream stream can drop redeliveries.
func (r *Relay) HandleTransaction(_ context.Context, txn *privacy.Transaction) error {
	if txn == nil {
		return ErrNilTransaction
	}

	data, err := json.Marshal(txn)
	if err != nil {
		return fmt.Errorf("encoding transaction %s: %w", txn.Token, err)
	}

	msg := nats.NewMsg(r.Subject(txn))
	msg.Data = data
	msg.Header.Set(nats.MsgIdHdr, txn.Token)
	msg.Header.Set(HeaderCardToken, txn.Card.Token)
	msg.Header.Set(HeaderResult, string(txn.Result))

	err = r.publisher.PublishMsg(msg)
	if err != nil {
		return fmt.Errorf("publishing transaction %s: %w", txn.Token, err)
	}

	if r.logger != nil {
		r.logger.Debug("relayed transaction", map[string]interface{}{
			"subject":     msg.Subject,
			"transaction": txn.Token,
		})
	}

	return nil
}
