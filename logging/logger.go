// ABOUTME: Structured logger construction
// ABOUTME: Picks level and text/json format for charmbracelet/log
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// New builds a logger writing to stderr.
func New(level, format string) *log.Logger {
	return NewWithWriter(os.Stderr, level, format)
}

// NewWithWriter builds a logger writing to w.
func NewWithWriter(w io.Writer, level, format string) *log.Logger {
	opts := log.Options{
		Level:           parseLevel(level),
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "solocrm",
	}
	if strings.EqualFold(format, "json") {
		opts.Formatter = log.JSONFormatter
		opts.TimeFormat = time.RFC3339
	}
	return log.NewWithOptions(w, opts)
}

// Discard returns a logger that drops everything, for tests.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

func parseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
