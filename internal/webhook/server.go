// Package webhook receives transaction webhooks and dispatches them to handlers.
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/fivetwenty-io/privacy-client/internal/constants"
	"github.com/fivetwenty-io/privacy-client/pkg/privacy"
)

// Handler consumes verified transactions.
type Handler interface {
	HandleTransaction(ctx context.Context, txn *privacy.Transaction) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, txn *privacy.Transaction) error

// HandleTransaction calls f.
func (f HandlerFunc) HandleTransaction(ctx context.Context, txn *privacy.Transaction) error {
	return f(ctx, txn)
}

// Config configures a Server.
type Config struct {
	// Addr is the listen address. Defaults to :8080.
	Addr string
	// Path is the route that receives webhooks. Defaults to /webhooks/transactions.
	Path string
	// APIKey verifies the X-Privacy-HMAC signature. Verification is skipped when empty.
	APIKey string
	// MaxBodyBytes bounds the request body. Defaults to 1 MiB.
	MaxBodyBytes int64
	Logger       privacy.Logger
}

// Server is an HTTP receiver for transaction webhooks.
type Server struct {
	config   Config
	handlers []Handler
	logger   privacy.Logger
	router   chi.Router

	mu   sync.Mutex
	srv  *http.Server
	wg   sync.WaitGroup
	addr string
}

// NewServer creates a server that delivers every accepted transaction to
// handlers in order.
func NewServer(config Config, handlers ...Handler) *Server {
	if config.Addr == "" {
		config.Addr = constants.DefaultWebhookAddr
	}

	if config.Path == "" {
		config.Path = constants.DefaultWebhookPath
	}

	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = constants.MaxWebhookBodyBytes
	}

	logger := config.Logger
	if logger == nil {
		logger = discardLogger{}
	}

	s := &Server{
		config:   config,
		handlers: handlers,
		logger:   logger,
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(newRequestLogger(logger))

	router.Get("/-/live", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	router.Post(config.Path, s.receive)

	s.router = router

	return s
}

// Handler returns the router, for mounting or testing.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start() error {
	l, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("listening tcp port: %w", err)
	}

	s.mu.Lock()
	s.addr = l.Addr().String()
	s.srv = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: constants.WebhookReadTimeout,
		ReadTimeout:       constants.WebhookReadTimeout,
	}
	srv := s.srv
	s.mu.Unlock()

	s.wg.Add(1)

	go func() {
		defer s.wg.Done()

		s.logger.Info("webhook server started", map[string]interface{}{"addr": l.Addr().String(), "path": s.config.Path})

		err := srv.Serve(l)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("serving webhooks", map[string]interface{}{"error": err.Error()})
		}

		s.logger.Info("webhook server stopped", nil)
	}()

	return nil
}

// Addr returns the bound address once Start has succeeded.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.addr
}

// Shutdown stops accepting requests and waits for in-flight deliveries.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()

	if srv == nil {
		return nil
	}

	err := srv.Shutdown(ctx)
	s.wg.Wait()

	if err != nil {
		return fmt.Errorf("shutting down webhook server: %w", err)
	}

	return nil
}

func (s *Server) receive(w http.ResponseWriter, r *http.Request) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != constants.ContentTypeJSON {
		w.WriteHeader(http.StatusUnsupportedMediaType)

		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			w.WriteHeader(http.StatusRequestEntityTooLarge)

			return
		}

		w.WriteHeader(http.StatusBadRequest)

		return
	}

	txn, err := privacy.ParseTransactionWebhook(s.config.APIKey, body, r.Header.Get(constants.HeaderWebhookHMAC))

	switch {
	case errors.Is(err, privacy.ErrWebhookSignatureMissing), errors.Is(err, privacy.ErrWebhookSignatureInvalid):
		s.logger.Warn("rejected webhook", map[string]interface{}{"error": err.Error()})
		w.WriteHeader(http.StatusUnauthorized)

		return
	case err != nil:
		writeErrors(w, http.StatusPreconditionFailed, err)

		return
	}

	s.dispatch(r.Context(), txn)

	w.WriteHeader(http.StatusNoContent)
}

// dispatch runs every handler. Failures are logged and do not change the response.
func (s *Server) dispatch(ctx context.Context, txn *privacy.Transaction) {
	for i, handler := range s.handlers {
		err := safeHandle(ctx, handler, txn)
		if err != nil {
			s.logger.Error("webhook handler failed", map[string]interface{}{
				"handler":     i,
				"transaction": txn.Token,
				"error":       err.Error(),
			})
		}
	}
}

func safeHandle(ctx context.Context, handler Handler, txn *privacy.Transaction) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, r)
		}
	}()

	return handler.HandleTransaction(ctx, txn)
}

func writeErrors(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", constants.ContentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"errors": err.Error()})
}
