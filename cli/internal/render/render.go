// Package render evaluates parsed templates against one run's capability set and identifiers.
//
// Overview:
//   - Responsibility: Produce file text from a template body, emitting active fragments only
//   - Key Types: Renderer, Scope (per-run inputs), Trace (fragment decisions), RenderError
//   - Concurrency Model: Renderer and Scope are read-only; concurrent renders are safe
//   - Error Semantics: Unknown variables and guard failures abort with *RenderError; no partial text is returned
//   - Performance Notes: Scope computes the activation and variables once per run, not per file
//
// Usage:
//
//	scope := render.NewScope(caps, ids.Vars())
//	text, err := render.New(catalog).Render(templates.Entity, scope)
package render

import (
	"strconv"
	"strings"

	"go.eggybyte.com/bootforge/cli/internal/capability"
	"go.eggybyte.com/bootforge/cli/internal/template"
)

// Scope holds everything a render may consult. One Scope is built per run
// and shared by every file of that run.
type Scope struct {
	caps       *capability.Set
	activation map[string]any
	vars       map[string]string
}

// NewScope binds a capability set and a variable map. vars is copied.
func NewScope(caps *capability.Set, vars map[string]string) *Scope {
	copied := make(map[string]string, len(vars))
	for k, v := range vars {
		copied[k] = v
	}
	return &Scope{caps: caps, activation: caps.Activation(), vars: copied}
}

// Capabilities returns the set the scope was built from.
func (s *Scope) Capabilities() *capability.Set { return s.caps }

// Renderer renders templates from a catalog.
type Renderer struct {
	catalog template.Catalog
}

// New creates a renderer over catalog.
func New(catalog template.Catalog) *Renderer {
	return &Renderer{catalog: catalog}
}

// Render produces the text of templateID under scope.
func (r *Renderer) Render(templateID string, scope *Scope) (string, error) {
	return r.render(templateID, scope, nil)
}

// FragmentDecision records how one fragment was resolved.
type FragmentDecision struct {
	Path   string // segment path, e.g. "3" or "3.1"
	Line   int
	Guard  string
	Active bool
	// Evaluated is false when an enclosing fragment was inactive and this
	// guard was never consulted.
	Evaluated bool
}

// Trace lists every fragment of a template in body order with its outcome.
type Trace struct {
	TemplateID string
	Fragments  []FragmentDecision
}

// Active returns the decisions of fragments that contributed output.
func (t *Trace) Active() []FragmentDecision {
	var out []FragmentDecision
	for _, f := range t.Fragments {
		if f.Active {
			out = append(out, f)
		}
	}
	return out
}

// RenderTrace renders like Render and also reports every fragment decision.
func (r *Renderer) RenderTrace(templateID string, scope *Scope) (string, *Trace, error) {
	trace := &Trace{TemplateID: templateID}
	out, err := r.render(templateID, scope, trace)
	if err != nil {
		return "", nil, err
	}
	return out, trace, nil
}

func (r *Renderer) render(templateID string, scope *Scope, trace *Trace) (string, error) {
	tpl, ok := r.catalog.Lookup(templateID)
	if !ok {
		return "", &RenderError{TemplateID: templateID, Reason: ReasonUnknownTemplate}
	}

	w := &walker{id: templateID, scope: scope, trace: trace}
	if err := w.body(tpl.Body, "", true); err != nil {
		return "", err
	}
	return w.out.String(), nil
}

type walker struct {
	id    string
	scope *Scope
	trace *Trace
	out   strings.Builder
}

// body writes segments of b when emit is set. With tracing on, inactive
// bodies are still walked so nested fragments appear in the trace.
func (w *walker) body(b template.Body, prefix string, emit bool) error {
	for i, seg := range b {
		p := segmentPath(prefix, i)
		switch s := seg.(type) {
		case template.Literal:
			if emit {
				w.out.WriteString(s.Text)
			}

		case template.Variable:
			if !emit {
				continue
			}
			v, ok := w.scope.vars[s.Name]
			if !ok {
				return &RenderError{TemplateID: w.id, Segment: p, Line: s.Line, Name: s.Name, Reason: ReasonUnknownVariable}
			}
			w.out.WriteString(v)

		case *template.Fragment:
			active := false
			if emit {
				ok, err := s.Guard.Eval(w.scope.activation)
				if err != nil {
					return &RenderError{TemplateID: w.id, Segment: p, Line: s.Line, Name: s.Guard.Expr(), Reason: ReasonGuard, Err: err}
				}
				active = ok
			}
			if w.trace != nil {
				w.trace.Fragments = append(w.trace.Fragments, FragmentDecision{
					Path: p, Line: s.Line, Guard: s.Guard.Expr(), Active: active, Evaluated: emit,
				})
			}
			if active || w.trace != nil {
				if err := w.body(s.Body, p, active); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func segmentPath(prefix string, i int) string {
	if prefix == "" {
		return strconv.Itoa(i)
	}
	return prefix + "." + strconv.Itoa(i)
}
