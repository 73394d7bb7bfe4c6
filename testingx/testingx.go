// Package testingx provides testing utilities for bootforge.
//
// Overview:
//   - Responsibility: Testing helpers, mocks, and assertions over generated text
//   - Key Types: MockLogger, helpers for run contexts, error codes and rendered content
//   - Concurrency Model: MockLogger is thread-safe; helpers are called from the test goroutine
//   - Error Semantics: Test failures via testing.TB
//   - Performance Notes: Optimized for test execution
//
// Usage:
//
//	logger := testingx.NewMockLogger(t)
//	ctx := testingx.NewRunContext(t, "shop")
//	testingx.AssertContainsNone(t, content, "@Cacheable", "@CacheEvict")
package testingx

import (
	"context"
	"strings"
	"sync"
	"testing"

	"go.eggybyte.com/bootforge/core/errors"
	"go.eggybyte.com/bootforge/core/identity"
	"go.eggybyte.com/bootforge/core/log"
)

// MockLogger records log entries for assertions.
type MockLogger struct {
	t      testing.TB
	fields []any
	sink   *entrySink
}

type entrySink struct {
	mu      sync.Mutex
	entries []LogEntry
}

// LogEntry represents a single log entry.
type LogEntry struct {
	Level   string
	Message string
	Fields  []any // fields attached with With, then call-site fields
	Error   error
}

// NewMockLogger creates a new mock logger.
func NewMockLogger(t testing.TB) *MockLogger {
	return &MockLogger{t: t, sink: &entrySink{}}
}

// With returns a logger that shares entries with m and carries kv.
func (m *MockLogger) With(kv ...any) log.Logger {
	fields := append(append([]any{}, m.fields...), kv...)
	return &MockLogger{t: m.t, fields: fields, sink: m.sink}
}

// Debug logs a debug message.
func (m *MockLogger) Debug(msg string, kv ...any) {
	m.log("DEBUG", msg, nil, kv)
}

// Info logs an info message.
func (m *MockLogger) Info(msg string, kv ...any) {
	m.log("INFO", msg, nil, kv)
}

// Warn logs a warning message.
func (m *MockLogger) Warn(msg string, kv ...any) {
	m.log("WARN", msg, nil, kv)
}

// Error logs an error message.
func (m *MockLogger) Error(err error, msg string, kv ...any) {
	m.log("ERROR", msg, err, kv)
}

func (m *MockLogger) log(level, msg string, err error, kv []any) {
	m.sink.mu.Lock()
	defer m.sink.mu.Unlock()
	m.sink.entries = append(m.sink.entries, LogEntry{
		Level:   level,
		Message: msg,
		Fields:  append(append([]any{}, m.fields...), kv...),
		Error:   err,
	})
}

// Entries returns all log entries.
func (m *MockLogger) Entries() []LogEntry {
	m.sink.mu.Lock()
	defer m.sink.mu.Unlock()
	entries := make([]LogEntry, len(m.sink.entries))
	copy(entries, m.sink.entries)
	return entries
}

// Count returns the number of entries with level and msg.
func (m *MockLogger) Count(level, msg string) int {
	n := 0
	for _, e := range m.Entries() {
		if e.Level == level && e.Message == msg {
			n++
		}
	}
	return n
}

// AssertLogged asserts that a message was logged.
func (m *MockLogger) AssertLogged(level, msg string) {
	m.t.Helper()
	if m.Count(level, msg) == 0 {
		m.t.Errorf("Expected log message not found: level=%s msg=%q", level, msg)
	}
}

// NewRunContext creates a context carrying a fresh generation run.
func NewRunContext(t testing.TB, project string) context.Context {
	t.Helper()
	return identity.WithRun(context.Background(), identity.NewRun(project, "test"))
}

// AssertError asserts that an error has the expected code.
func AssertError(t testing.TB, err error, expectedCode errors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("Expected error with code %s, got nil", expectedCode)
	}

	code := errors.CodeOf(err)
	if code != expectedCode {
		t.Errorf("Expected error code %s, got %s (%v)", expectedCode, code, err)
	}
}

// AssertNoError asserts that no error occurred.
func AssertNoError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
}

// AssertContainsAll asserts that content contains every substring.
func AssertContainsAll(t testing.TB, content string, subs ...string) {
	t.Helper()
	for _, s := range subs {
		if !strings.Contains(content, s) {
			t.Errorf("Expected content to contain %q", s)
		}
	}
}

// AssertContainsNone asserts that content contains none of the substrings.
func AssertContainsNone(t testing.TB, content string, subs ...string) {
	t.Helper()
	for _, s := range subs {
		if strings.Contains(content, s) {
			t.Errorf("Expected content not to contain %q", s)
		}
	}
}

// AssertLineSubsequence asserts that the lines of sub appear in full in the
// same order, with any number of extra lines in between.
func AssertLineSubsequence(t testing.TB, sub, full string) {
	t.Helper()
	want := strings.Split(sub, "\n")
	have := strings.Split(full, "\n")

	i := 0
	for _, line := range have {
		if i < len(want) && line == want[i] {
			i++
		}
	}
	if i < len(want) {
		t.Errorf("Line %d (%q) of the smaller text is missing from the larger text", i+1, want[i])
	}
}
