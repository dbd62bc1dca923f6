package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/privacy-client/internal/constants"
	"github.com/fivetwenty-io/privacy-client/internal/relay"
	"github.com/fivetwenty-io/privacy-client/internal/webhook"
	"github.com/fivetwenty-io/privacy-client/pkg/privacy"
)

// NewWebhookCommand creates the webhook command group
func NewWebhookCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webhook",
		Short: "Receive transaction webhooks",
		Long:  "Run a receiver for transaction webhooks, optionally relaying them to NATS",
	}

	cmd.AddCommand(newWebhookServeCommand())

	return cmd
}

func newWebhookServeCommand() *cobra.Command {
	var (
		addr          string
		path          string
		natsURL       string
		subjectPrefix string
		noVerify      bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the webhook receiver",
		Long: `Listen for transaction webhooks and print each one. Signatures are
verified with the configured API key unless --no-verify is set. With
--nats-url every accepted transaction is also published to NATS.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			logger := NewStderrLogger(viper.GetBool("verbose"))

			signingKey := config.APIKey
			if noVerify {
				signingKey = ""
			} else if signingKey == "" {
				return constants.ErrNoAPIKeyConfigured
			}

			handlers := []webhook.Handler{newPrintHandler(cmd.OutOrStdout())}

			if natsURL != "" {
				conn, err := relay.Connect(relay.Config{URL: natsURL, Timeout: constants.DefaultNATSConnectTimeout})
				if err != nil {
					return err
				}

				defer func() { _ = conn.Drain() }()

				handlers = append(handlers, relay.New(conn, subjectPrefix, logger))
			}

			server := webhook.NewServer(webhook.Config{
				Addr:   addr,
				Path:   path,
				APIKey: signingKey,
				Logger: logger,
			}, handlers...)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			err := server.Start()
			if err != nil {
				return err
			}

			<-ctx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()

			return server.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", constants.DefaultWebhookAddr, "listen address")
	cmd.Flags().StringVar(&path, "path", constants.DefaultWebhookPath, "route receiving webhooks")
	cmd.Flags().StringVar(&natsURL, "nats-url", "", "relay transactions to this NATS server")
	cmd.Flags().StringVar(&subjectPrefix, "subject-prefix", constants.DefaultRelaySubjectPrefix, "NATS subject prefix")
	cmd.Flags().BoolVar(&noVerify, "no-verify", false, "accept unsigned webhooks")

	return cmd
}

// printHandler writes one line per transaction.
type printHandler struct {
	mu  sync.Mutex
	out io.Writer
}

func newPrintHandler(out io.Writer) *printHandler {
	return &printHandler{out: out}
}

func (h *printHandler) HandleTransaction(_ context.Context, txn *privacy.Transaction) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := fmt.Fprintf(h.out, "%s %s card=%s merchant=%q amount=%s result=%s\n",
		txn.Token, formatEnum(string(txn.Status)), txn.Card.Token, txn.Merchant.Descriptor,
		formatCents(txn.Amount), formatEnum(string(txn.Result)))

	return err
}
