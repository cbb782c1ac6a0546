// Package logtest implements support for testing Loggers.
package logtest

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/jacobpatterson1549/selene-darts/server/log"
)

// DiscardLogger is a Logger that logs nothing.
var DiscardLogger log.Logger = discardLogger{}

// discardLogger is more simple than using the standard log.Logger:New() with the io.Discard writer.
type discardLogger struct{}

// Printf implements the log.Logger interface
func (discardLogger) Printf(format string, v ...interface{}) {
	// NOOP
}

// Logger is a logger that writes to a buffer to be read later.  It is safe for concurrent use.
type Logger struct {
	buf bytes.Buffer
	mu  sync.RWMutex
}

var _ log.Logger = new(Logger)

// NewLogger creates an empty Logger.
func NewLogger() *Logger {
	return new(Logger)
}

// Printf implements the log.Logger interface
func (l *Logger) Printf(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(&l.buf, format, v...)
	if n := l.buf.Len(); n == 0 || l.buf.Bytes()[n-1] != '\n' {
		l.buf.WriteByte('\n')
	}
}

// String returns the recorded lines.
func (l *Logger) String() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.buf.String()
}

// Empty returns if nothing has been logged.
func (l *Logger) Empty() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.buf.Len() == 0
}

// Reset forgets everything that has been logged.
func (l *Logger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buf.Reset()
}
