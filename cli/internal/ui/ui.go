// Package ui provides unified output formatting for the bootforge CLI.
//
// Overview:
//   - Responsibility: Leveled user messages, JSON output, plan and trace previews
//   - Key Types: Message, OutputLevel
//   - Concurrency Model: Thread-safe output operations
//   - Error Semantics: Encoding failures are reported on stderr, never returned
//   - Performance Notes: Styles are built once; trees are rendered to strings
//
// Usage:
//
//	ui.Info("Loaded %s", path)
//	ui.Error("Generation failed: %v", err)
//	fmt.Println(ui.PlanTree(preview.Config.ProjectName, preview.Plan))
package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	verbose    bool
	jsonOutput bool
	stdout     io.Writer = os.Stdout
	stderr     io.Writer = os.Stderr
	mu         sync.RWMutex
)

// OutputLevel represents the severity level of a message.
type OutputLevel string

const (
	LevelDebug   OutputLevel = "debug"
	LevelInfo    OutputLevel = "info"
	LevelWarning OutputLevel = "warning"
	LevelError   OutputLevel = "error"
	LevelSuccess OutputLevel = "success"
)

var (
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
)

// Message represents a structured output message.
//
// Parameters:
//   - Level: Message severity level
//   - Text: Human-readable message content
//   - Data: Optional structured data for JSON output
//   - Timestamp: When the message was created
type Message struct {
	Level     OutputLevel `json:"level"`
	Text      string      `json:"text"`
	Data      any         `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// SetVerbose enables or disables debug messages.
func SetVerbose(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = enabled
}

// Verbose reports whether debug messages are shown.
func Verbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetJSONOutput enables JSON-formatted output.
//
// Concurrency:
//   - Thread-safe
func SetJSONOutput(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	jsonOutput = enabled
}

// JSONOutput reports whether JSON output is enabled.
func JSONOutput() bool {
	mu.RLock()
	defer mu.RUnlock()
	return jsonOutput
}

// SetColor forces colored or plain styling regardless of the terminal.
func SetColor(enabled bool) {
	if enabled {
		lipgloss.SetColorProfile(termenv.ANSI256)
		return
	}
	lipgloss.SetColorProfile(termenv.Ascii)
}

// SetOutput redirects normal and error output. Nil keeps the current writer.
//
// Parameters:
//   - out: Destination for everything but errors
//   - errOut: Destination for errors
//
// Concurrency:
//   - Thread-safe
func SetOutput(out, errOut io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if out != nil {
		stdout = out
	}
	if errOut != nil {
		stderr = errOut
	}
}

// Writer returns the current normal output destination.
func Writer() io.Writer {
	mu.RLock()
	defer mu.RUnlock()
	return stdout
}

func output(level OutputLevel, data any, format string, args ...any) {
	mu.RLock()
	useJSON := jsonOutput
	useVerbose := verbose
	out, errOut := stdout, stderr
	mu.RUnlock()

	if level == LevelDebug && !useVerbose {
		return
	}

	text := fmt.Sprintf(format, args...)
	if useJSON {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(Message{Level: level, Text: text, Data: data, Timestamp: time.Now()}); err != nil {
			fmt.Fprintf(errOut, "Failed to encode JSON output: %v\n", err)
		}
		return
	}

	writer := out
	if level == LevelError {
		writer = errOut
	}

	var prefix string
	switch level {
	case LevelDebug:
		prefix = dimStyle.Render("DEBUG")
	case LevelInfo:
		prefix = infoStyle.Render("INFO ")
	case LevelWarning:
		prefix = warnStyle.Render("WARN ")
	case LevelError:
		prefix = errorStyle.Render("ERROR")
	case LevelSuccess:
		prefix = successStyle.Render("DONE ")
	}

	fmt.Fprintf(writer, "%s %s\n", prefix, text)
}

// Debug outputs a debug message. Only shown in verbose mode.
func Debug(format string, args ...any) {
	output(LevelDebug, nil, format, args...)
}

// Info outputs an informational message.
func Info(format string, args ...any) {
	output(LevelInfo, nil, format, args...)
}

// Warning outputs a warning message.
func Warning(format string, args ...any) {
	output(LevelWarning, nil, format, args...)
}

// Error outputs an error message to the error stream.
//
// Concurrency:
//   - Thread-safe
func Error(format string, args ...any) {
	output(LevelError, nil, format, args...)
}

// Success outputs a success message.
func Success(format string, args ...any) {
	output(LevelSuccess, nil, format, args...)
}

// Data outputs a message with structured data. In text mode only the
// message and the pre-rendered view are printed.
//
// Parameters:
//   - data: Payload encoded in JSON mode
//   - view: Text shown instead of data in text mode; may be empty
//   - format: Printf-style format string
//   - args: Format arguments
func Data(data any, view string, format string, args ...any) {
	if JSONOutput() {
		output(LevelInfo, data, format, args...)
		return
	}
	output(LevelInfo, nil, format, args...)
	if view != "" {
		fmt.Fprintln(Writer(), view)
	}
}

// Step outputs a step indicator with message.
//
// Parameters:
//   - step: Step number
//   - total: Total number of steps
//   - format: Printf-style format string
//   - args: Format arguments
func Step(step, total int, format string, args ...any) {
	if JSONOutput() {
		Info(format, args...)
		return
	}

	text := fmt.Sprintf(format, args...)
	fmt.Fprintf(Writer(), "  %s %s\n", dimStyle.Render(fmt.Sprintf("[%d/%d]", step, total)), text)
}
