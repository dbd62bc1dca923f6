package http

import (
	"fmt"

	"github.com/fivetwenty-io/privacy-client/pkg/privacy"
)

// leveledLogger adapts privacy.Logger to retryablehttp.LeveledLogger.
// Debug and Info lines are only forwarded in debug mode.
type leveledLogger struct {
	logger privacy.Logger
	debug  bool
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, fields(keysAndValues))
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, fields(keysAndValues))
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	if l.debug {
		l.logger.Info(msg, fields(keysAndValues))
	}
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	if l.debug {
		l.logger.Debug(msg, fields(keysAndValues))
	}
}

func fields(keysAndValues []interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(keysAndValues)/2)

	for i := 0; i+1 < len(keysAndValues); i += 2 {
		out[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}

	if len(keysAndValues)%2 == 1 {
		out["extra"] = keysAndValues[len(keysAndValues)-1]
	}

	return out
}
