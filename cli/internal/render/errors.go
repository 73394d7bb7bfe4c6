package render

import "fmt"

// Reason classifies a render failure.
type Reason string

const (
	ReasonUnknownTemplate Reason = "unknown template"
	ReasonUnknownVariable Reason = "unknown variable"
	ReasonGuard           Reason = "guard evaluation failed"
)

// RenderError reports a template that cannot be rendered under a scope.
type RenderError struct {
	TemplateID string
	Segment    string // segment path within the body
	Line       int
	Name       string // variable name or guard expression
	Reason     Reason
	Err        error
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	msg := fmt.Sprintf("render %s: %s", e.TemplateID, e.Reason)
	if e.Name != "" {
		msg += fmt.Sprintf(" %q", e.Name)
	}
	if e.Segment != "" {
		msg += fmt.Sprintf(" at segment %s", e.Segment)
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" (line %d)", e.Line)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *RenderError) Unwrap() error { return e.Err }
