package webhook

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/fivetwenty-io/privacy-client/pkg/privacy"
)

// Static errors for err113 compliance.
var (
	ErrHandlerPanic = errors.New("webhook handler panicked")
)

// newRequestLogger logs one line per request through logger.
func newRequestLogger(logger privacy.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Debug("webhook request", map[string]interface{}{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"bytes":      ww.BytesWritten(),
				"duration":   time.Since(start).String(),
				"request_id": middleware.GetReqID(r.Context()),
			})
		})
	}
}

type discardLogger struct{}

func (discardLogger) Debug(string, map[string]interface{}) {}
func (discardLogger) Info(string, map[string]interface{})  {}
func (discardLogger) Warn(string, map[string]interface{})  {}
func (discardLogger) Error(string, map[string]interface{}) {}
