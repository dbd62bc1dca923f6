package commands

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// StderrLogger writes privacy.Logger output as key=value lines.
type StderrLogger struct {
	mu    sync.Mutex
	out   io.Writer
	debug bool
}

// NewStderrLogger creates a logger on os.Stderr. Debug lines are dropped
// unless debug is set.
func NewStderrLogger(debug bool) *StderrLogger {
	return &StderrLogger{out: os.Stderr, debug: debug}
}

func (l *StderrLogger) Debug(msg string, fields map[string]interface{}) {
	if l.debug {
		l.write("DEBUG", msg, fields)
	}
}

func (l *StderrLogger) Info(msg string, fields map[string]interface{}) {
	l.write("INFO", msg, fields)
}

func (l *StderrLogger) Warn(msg string, fields map[string]interface{}) {
	l.write("WARN", msg, fields)
}

func (l *StderrLogger) Error(msg string, fields map[string]interface{}) {
	l.write("ERROR", msg, fields)
}

func (l *StderrLogger) write(level, msg string, fields map[string]interface{}) {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	var b strings.Builder

	fmt.Fprintf(&b, "%s %-5s %s", time.Now().Format(time.RFC3339), level, msg)

	for _, key := range keys {
		fmt.Fprintf(&b, " %s=%v", key, fields[key])
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	_, _ = fmt.Fprintln(l.out, b.String())
}
