// Package logging configures the charmbracelet/log loggers used across domsplice.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

//nolint:gochecknoglobals // Process-wide default logger.
var (
	defaultMu     sync.RWMutex
	defaultLogger = New("info")
)

// New returns a stderr logger at the given level.
func New(level string) *log.Logger {
	return NewWriter(os.Stderr, level)
}

// NewWriter returns a logger writing to w at the given level. Unknown levels
// fall back to info.
func NewWriter(w io.Writer, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{Prefix: "domsplice"})
	logger.SetLevel(ParseLevel(level))
	return logger
}

// ParseLevel maps a level name to a log.Level. It accepts "warning" as an
// alias for "warn" and ignores case.
func ParseLevel(level string) log.Level {
	name := strings.ToLower(strings.TrimSpace(level))
	if name == "warning" {
		name = "warn"
	}
	parsed, err := log.ParseLevel(name)
	if err != nil {
		return log.InfoLevel
	}
	return parsed
}

// Default returns the process-wide logger.
func Default() *log.Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault replaces the process-wide logger.
func SetDefault(logger *log.Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = logger
}

// SetLevel changes the level of the process-wide logger.
func SetLevel(level string) {
	Default().SetLevel(ParseLevel(level))
}
