// Package logger provides structured logging on top of zerolog.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ServiceName is the default value of the service field.
const ServiceName = "offer-aggregator"

// Config holds the logger configuration options.
type Config struct {
	// Level is the minimum log level (trace, debug, info, warn, error)
	Level string `env:"LOG_LEVEL" envDefault:"info"`

	// Format selects json or console output
	Format string `env:"LOG_FORMAT" envDefault:"json"`

	// EnableCaller adds file:line to each entry
	EnableCaller bool `env:"LOG_CALLER" envDefault:"false"`

	ServiceName string `env:"SERVICE_NAME" envDefault:"offer-aggregator"`
}

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() Config {
	return Config{
		Level:       "info",
		Format:      "json",
		ServiceName: ServiceName,
	}
}

// Logger wraps zerolog.Logger with domain-specific context helpers.
type Logger struct {
	zerolog.Logger
}

// New creates a Logger writing to stdout.
func New(cfg Config) *Logger {
	return NewWithOutput(cfg, os.Stdout)
}

// NewWithOutput creates a Logger writing to w.
func NewWithOutput(cfg Config, w io.Writer) *Logger {
	if strings.EqualFold(cfg.Format, "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	service := cfg.ServiceName
	if service == "" {
		service = ServiceName
	}

	zctx := zerolog.New(w).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Str("service", service)
	if cfg.EnableCaller {
		zctx = zctx.Caller()
	}

	return &Logger{Logger: zctx.Logger()}
}

// ParseLevel converts a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	l, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return l
}

// WithField returns a child logger carrying key=value.
func (l *Logger) WithField(key, value string) *Logger {
	return &Logger{Logger: l.With().Str(key, value).Logger()}
}

// WithRequestID tags entries with the HTTP request id.
func (l *Logger) WithRequestID(requestID string) *Logger {
	return l.WithField("request_id", requestID)
}

// WithProvider tags entries with the provider name.
func (l *Logger) WithProvider(provider string) *Logger {
	return l.WithField("provider", provider)
}

// WithQueryKey tags entries with the canonical query key of a search.
func (l *Logger) WithQueryKey(key string) *Logger {
	return l.WithField("query_key", key)
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{Logger: zerolog.Nop()}
}
