// Package logx provides a structured logging implementation based on charmbracelet/log.
//
// Overview:
//   - Responsibility: Unified logging with text/logfmt/JSON output, field sorting, and colorization
//   - Key Types: Logger implementation, Options for configuration
//   - Concurrency Model: All loggers are safe for concurrent use
//   - Error Semantics: No errors returned; logging failures are silently handled
//   - Performance Notes: Fields are flattened and masked once per call
//
// Usage:
//
//	logger := logx.New(logx.WithFormat(logx.FormatLogfmt), logx.WithColor(true))
//	logger.Info("plan built", log.Str("project", "shop"), log.Int("files", 14))
package logx

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"go.eggybyte.com/bootforge/core/identity"
	"go.eggybyte.com/bootforge/core/log"
	"go.eggybyte.com/bootforge/logx/internal"
)

// Format specifies the output format for logs.
type Format string

const (
	// FormatText outputs human-oriented, optionally colored lines.
	FormatText Format = "text"
	// FormatLogfmt outputs logs in logfmt format (key=value pairs).
	FormatLogfmt Format = "logfmt"
	// FormatJSON outputs logs in JSON format.
	FormatJSON Format = "json"
)

// Level is a minimum log level.
type Level = charmlog.Level

// Levels accepted by WithLevel.
const (
	LevelDebug = charmlog.DebugLevel
	LevelInfo  = charmlog.InfoLevel
	LevelWarn  = charmlog.WarnLevel
	LevelError = charmlog.ErrorLevel
)

// ParseLevel converts "debug", "info", "warn" or "error" to a Level.
func ParseLevel(s string) (Level, error) {
	lvl, err := charmlog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return lvl, nil
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatLogfmt, FormatJSON:
		return f, nil
	default:
		return FormatText, fmt.Errorf("invalid log format %q", s)
	}
}

// Options configures the logger behavior.
type Options struct {
	Format          Format    // Output format: text, logfmt or json
	Level           Level     // Minimum log level
	Color           bool      // Enable colorization (text format only)
	Writer          io.Writer // Output writer (default: os.Stderr)
	PayloadMaxBytes int       // Maximum bytes to log for large payloads (0 = unlimited)
	SensitiveFields []string  // Field names to mask (e.g., "password", "token")
	Timestamp       bool      // Report a timestamp on every line
	Prefix          string    // Prefix printed before every message
}

// Logger implements the core/log.Logger interface using charmbracelet/log.
type Logger struct {
	base   *charmlog.Logger
	fields internal.Options
}

// New creates a new Logger with the given options.
func New(opts ...Option) log.Logger {
	options := Options{
		Format: FormatText,
		Level:  LevelInfo,
		Writer: os.Stderr,
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Writer == nil {
		options.Writer = os.Stderr
	}

	base := charmlog.NewWithOptions(options.Writer, charmlog.Options{
		Level:           options.Level,
		ReportTimestamp: options.Timestamp,
		TimeFormat:      "15:04:05",
		Prefix:          options.Prefix,
	})
	switch options.Format {
	case FormatJSON:
		base.SetFormatter(charmlog.JSONFormatter)
	case FormatLogfmt:
		base.SetFormatter(charmlog.LogfmtFormatter)
	default:
		base.SetFormatter(charmlog.TextFormatter)
	}
	if options.Color {
		base.SetColorProfile(termenv.ANSI256)
	} else {
		base.SetColorProfile(termenv.Ascii)
	}

	return &Logger{
		base: base,
		fields: internal.Options{
			PayloadMaxBytes: options.PayloadMaxBytes,
			SensitiveFields: options.SensitiveFields,
			Sort:            true,
		},
	}
}

// Option configures logger behavior.
type Option func(*Options)

// WithFormat sets the output format.
func WithFormat(format Format) Option {
	return func(o *Options) {
		o.Format = format
	}
}

// WithLevel sets the minimum log level.
func WithLevel(level Level) Option {
	return func(o *Options) {
		o.Level = level
	}
}

// WithColor enables colorization.
func WithColor(enabled bool) Option {
	return func(o *Options) {
		o.Color = enabled
	}
}

// WithWriter sets the output writer.
func WithWriter(w io.Writer) Option {
	return func(o *Options) {
		o.Writer = w
	}
}

// WithPayloadLimit sets the maximum bytes to log for large payloads.
func WithPayloadLimit(maxBytes int) Option {
	return func(o *Options) {
		o.PayloadMaxBytes = maxBytes
	}
}

// WithSensitiveFields sets field names to mask in logs.
func WithSensitiveFields(fields ...string) Option {
	return func(o *Options) {
		o.SensitiveFields = fields
	}
}

// WithTimestamp reports a timestamp on every line.
func WithTimestamp(enabled bool) Option {
	return func(o *Options) {
		o.Timestamp = enabled
	}
}

// WithPrefix sets a message prefix.
func WithPrefix(prefix string) Option {
	return func(o *Options) {
		o.Prefix = prefix
	}
}

// With returns a new Logger with the given key-value pairs attached.
func (l *Logger) With(kv ...any) log.Logger {
	return &Logger{
		base:   l.base.With(internal.Fields(kv, l.fields)...),
		fields: l.fields,
	}
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, kv ...any) {
	l.base.Debug(msg, internal.Fields(kv, l.fields)...)
}

// Info logs an informational message.
func (l *Logger) Info(msg string, kv ...any) {
	l.base.Info(msg, internal.Fields(kv, l.fields)...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, kv ...any) {
	l.base.Warn(msg, internal.Fields(kv, l.fields)...)
}

// Error logs an error message. A nil err is omitted.
func (l *Logger) Error(err error, msg string, kv ...any) {
	fields := internal.Fields(kv, l.fields)
	if err != nil {
		fields = append([]any{"error", err.Error()}, fields...)
	}
	l.base.Error(msg, fields...)
}

// FromContext returns base with the generation run attached (run_id, project).
func FromContext(ctx context.Context, base log.Logger) log.Logger {
	run, ok := identity.RunFrom(ctx)
	if !ok {
		return base
	}

	var attrs []any
	if run.RunID != "" {
		attrs = append(attrs, "run_id", run.RunID)
	}
	if run.Project != "" {
		attrs = append(attrs, "project", run.Project)
	}
	if len(attrs) == 0 {
		return base
	}
	return base.With(attrs...)
}
