package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

type config struct {
	level  slog.Level
	json   bool
	output io.Writer
	attrs  []slog.Attr
}

// Option configures a logger created by New.
type Option func(*config)

// New creates a structured logger. Without options it writes text records at
// info level to stdout.
//
// Example:
//
//	log := logger.New(
//		logger.WithDevelopment("flowdemo"),
//		logger.WithLevel(slog.LevelDebug),
//	)
func New(opts ...Option) *slog.Logger {
	cfg := &config{
		level:  slog.LevelInfo,
		output: os.Stdout,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	handlerOpts := &slog.HandlerOptions{Level: cfg.level}

	var h slog.Handler
	if cfg.json {
		h = slog.NewJSONHandler(cfg.output, handlerOpts)
	} else {
		h = slog.NewTextHandler(cfg.output, handlerOpts)
	}
	if len(cfg.attrs) > 0 {
		h = h.WithAttrs(cfg.attrs)
	}

	return slog.New(h)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// WithLevel sets the minimum level.
func WithLevel(level slog.Level) Option {
	return func(c *config) {
		c.level = level
	}
}

// WithLevelName sets the minimum level from its name (debug, info, warn, error).
// Unknown names leave the level unchanged.
func WithLevelName(name string) Option {
	return func(c *config) {
		var level slog.Level
		if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err == nil {
			c.level = level
		}
	}
}

// WithJSONFormatter switches the output to JSON records.
func WithJSONFormatter() Option {
	return func(c *config) {
		c.json = true
	}
}

// WithTextFormatter switches the output to logfmt-style text records.
func WithTextFormatter() Option {
	return func(c *config) {
		c.json = false
	}
}

// WithOutput sets the destination writer. Nil is ignored.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.output = w
		}
	}
}

// WithAttr adds attributes to every record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(c *config) {
		c.attrs = append(c.attrs, attrs...)
	}
}

// WithDevelopment configures text output at debug level tagged with the service name.
func WithDevelopment(service string) Option {
	return func(c *config) {
		c.json = false
		c.level = slog.LevelDebug
		c.attrs = append(c.attrs, slog.String("service", service), slog.String("env", "development"))
	}
}

// WithProduction configures JSON output at info level tagged with the service name.
func WithProduction(service string) Option {
	return func(c *config) {
		c.json = true
		c.level = slog.LevelInfo
		c.attrs = append(c.attrs, slog.String("service", service), slog.String("env", "production"))
	}
}
