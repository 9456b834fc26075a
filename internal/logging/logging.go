// Package logging builds the service's structured logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"TodoAPI/internal/config"

	"github.com/charmbracelet/log"
)

const prefix = "todo-api"

// New returns a logger writing to stderr, configured from cfg.
func New(cfg config.LogConfig) *log.Logger {
	return NewWithWriter(os.Stderr, cfg)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, cfg config.LogConfig) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           ParseLevel(cfg.Level),
		Formatter:       ParseFormatter(cfg.Format),
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          prefix,
	})
}

// ParseLevel maps a level name to a log.Level; unknown names mean info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

// ParseFormatter maps "json" and "logfmt"; anything else is text.
func ParseFormatter(format string) log.Formatter {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
