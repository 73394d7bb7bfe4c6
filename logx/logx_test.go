package logx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"go.eggybyte.com/bootforge/core/identity"
	"go.eggybyte.com/bootforge/core/log"
)

func logfmtLogger(buf *bytes.Buffer, opts ...Option) log.Logger {
	return New(append([]Option{WithWriter(buf), WithFormat(FormatLogfmt), WithColor(false)}, opts...)...)
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	logger := logfmtLogger(&buf)

	logger.Info("test message", "key", "value")

	output := buf.String()
	if !strings.Contains(output, "level=info") {
		t.Errorf("expected level=info, got: %s", output)
	}
	if !strings.Contains(output, `msg="test message"`) {
		t.Errorf("expected msg in output, got: %s", output)
	}
	if !strings.Contains(output, "key=value") {
		t.Errorf("expected key=value in output, got: %s", output)
	}
}

func TestPairHelpers(t *testing.T) {
	var buf bytes.Buffer
	logger := logfmtLogger(&buf)

	logger.Info("rendered", log.Str("path", "src/App.java"), log.Int("lines", 42), log.Bool("cached", true))

	output := buf.String()
	for _, want := range []string{"path=src/App.java", "lines=42", "cached=true"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %s in output: %s", want, output)
		}
	}
}

func TestFieldSorting(t *testing.T) {
	var buf bytes.Buffer
	logger := logfmtLogger(&buf)

	logger.Info("test", "zebra", "z", "alpha", "a", "beta", "b")

	output := buf.String()
	alphaPos := strings.Index(output, "alpha=a")
	betaPos := strings.Index(output, "beta=b")
	zebraPos := strings.Index(output, "zebra=z")

	if alphaPos == -1 || betaPos == -1 || zebraPos == -1 {
		t.Fatalf("missing fields in output: %s", output)
	}
	if alphaPos > betaPos || betaPos > zebraPos {
		t.Errorf("fields not sorted correctly: alpha=%d, beta=%d, zebra=%d\nOutput: %s",
			alphaPos, betaPos, zebraPos, output)
	}
}

func TestColorization(t *testing.T) {
	var buf bytes.Buffer
	logger := New(WithWriter(&buf), WithFormat(FormatText), WithColor(true))

	logger.Info("test")

	if !strings.Contains(buf.String(), "\033[") {
		t.Errorf("expected ANSI color codes in output, got: %q", buf.String())
	}

	buf.Reset()
	New(WithWriter(&buf), WithFormat(FormatText), WithColor(false)).Info("test")
	if strings.Contains(buf.String(), "\033[") {
		t.Errorf("unexpected ANSI color codes in output: %q", buf.String())
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(WithWriter(&buf), WithFormat(FormatJSON))

	logger.Info("generated", "files", 14)

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("output is not JSON: %v: %s", err, buf.String())
	}
	if line["msg"] != "generated" {
		t.Errorf("msg = %v", line["msg"])
	}
	if line["files"] != float64(14) {
		t.Errorf("files = %v", line["files"])
	}
}

func TestSensitiveFields(t *testing.T) {
	var buf bytes.Buffer
	logger := logfmtLogger(&buf, WithSensitiveFields("password", "token"))

	logger.Info("login", "password", "secret123")

	output := buf.String()
	if strings.Contains(output, "secret123") {
		t.Errorf("sensitive field not redacted: %s", output)
	}
	if !strings.Contains(output, "REDACTED") {
		t.Errorf("expected REDACTED in output: %s", output)
	}
}

func TestPayloadLimit(t *testing.T) {
	var buf bytes.Buffer
	logger := logfmtLogger(&buf, WithPayloadLimit(10))

	longString := strings.Repeat("a", 100)
	logger.Info("test", "data", longString)

	output := buf.String()
	if strings.Contains(output, longString) {
		t.Errorf("long payload not truncated: %s", output)
	}
	if !strings.Contains(output, "truncated") {
		t.Errorf("expected truncation marker in output: %s", output)
	}
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := logfmtLogger(&buf)

	childLogger := logger.With("service", "test")
	childLogger.Info("message", "key", "value")

	output := buf.String()
	if !strings.Contains(output, "service=test") {
		t.Errorf("expected service=test in output: %s", output)
	}
	if !strings.Contains(output, "key=value") {
		t.Errorf("expected key=value in output: %s", output)
	}
}

func TestErrorLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := logfmtLogger(&buf)

	logger.Error(errors.New("boom"), "operation failed", "op", "test")

	output := buf.String()
	if !strings.Contains(output, "level=error") {
		t.Errorf("expected level=error in output: %s", output)
	}
	if !strings.Contains(output, "error=boom") {
		t.Errorf("expected error=boom in output: %s", output)
	}
	if !strings.Contains(output, "op=test") {
		t.Errorf("expected op=test in output: %s", output)
	}

	buf.Reset()
	logger.Error(nil, "no cause")
	if strings.Contains(buf.String(), "error=") {
		t.Errorf("nil error should be omitted: %s", buf.String())
	}
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		name     string
		logLevel Level
		logFunc  func(logger log.Logger)
		expected string
	}{
		{
			name:     "debug disabled at info level",
			logLevel: LevelInfo,
			logFunc:  func(l log.Logger) { l.Debug("debug msg") },
			expected: "",
		},
		{
			name:     "debug enabled at debug level",
			logLevel: LevelDebug,
			logFunc:  func(l log.Logger) { l.Debug("debug msg") },
			expected: "level=debug",
		},
		{
			name:     "warn enabled at info level",
			logLevel: LevelInfo,
			logFunc:  func(l log.Logger) { l.Warn("warn msg") },
			expected: "level=warn",
		},
		{
			name:     "info disabled at error level",
			logLevel: LevelError,
			logFunc:  func(l log.Logger) { l.Info("info msg") },
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := logfmtLogger(&buf, WithLevel(tt.logLevel))

			tt.logFunc(logger)

			output := buf.String()
			if tt.expected == "" {
				if output != "" {
					t.Errorf("expected no output, got: %s", output)
				}
			} else if !strings.Contains(output, tt.expected) {
				t.Errorf("expected %q in output, got: %s", tt.expected, output)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{" warn ", LevelWarn, false},
		{"error", LevelError, false},
		{"loud", LevelInfo, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	for _, in := range []string{"text", "LOGFMT", "json"} {
		if _, err := ParseFormat(in); err != nil {
			t.Errorf("ParseFormat(%q) error = %v", in, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) should fail")
	}
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	baseLogger := logfmtLogger(&buf)

	run := identity.NewRun("shop-api", "bootforge.yaml")
	ctx := identity.WithRun(context.Background(), run)

	FromContext(ctx, baseLogger).Info("test message")

	output := buf.String()
	if !strings.Contains(output, "run_id="+run.RunID) {
		t.Errorf("expected run_id in output: %s", output)
	}
	if !strings.Contains(output, "project=shop-api") {
		t.Errorf("expected project in output: %s", output)
	}

	if got := FromContext(context.Background(), baseLogger); got != baseLogger {
		t.Error("expected base logger without run metadata")
	}
}

func BenchmarkLogger(b *testing.B) {
	logger := New(WithWriter(&bytes.Buffer{}), WithColor(false))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info("benchmark", "iteration", i)
	}
}
