// Package template defines the segment model of template bodies and the catalog that serves them.
//
// Overview:
//   - Responsibility: Represent bodies as literal / variable / guarded-fragment segments
//   - Key Types: Template, Body, Segment (Literal, Variable, *Fragment), Guard, Catalog
//   - Concurrency Model: Templates are immutable after parsing; compiled guards are safe for concurrent evaluation
//   - Error Semantics: Parse and guard compilation fail with *ParseError carrying template id and line
//   - Performance Notes: Guards are compiled once at catalog load, never at render time
//
// Usage:
//
//	compiler, _ := template.NewCompiler()
//	tpl, err := compiler.Parse("java/Application", src)
//	catalog, err := template.NewCatalog(tpl)
package template

import (
	"fmt"
	"sort"
	"strings"
)

// Segment is one element of a template body.
type Segment interface {
	segment()
}

// Literal is verbatim text, possibly spanning several lines.
type Literal struct {
	Text string
}

// Variable references a derived identifier by name.
type Variable struct {
	Name string
	Line int // 1-based source line
}

// Fragment is a body that is emitted only while its guard holds. Guards of
// nested fragments compose by conjunction.
type Fragment struct {
	Guard *Guard
	Body  Body
	Line  int // 1-based line of the opening directive
}

func (Literal) segment()   {}
func (Variable) segment()  {}
func (*Fragment) segment() {}

// Body is an ordered sequence of segments.
type Body []Segment

// Template is a parsed, read-only template.
type Template struct {
	ID   string
	Body Body
}

// Variables returns the distinct variable names referenced anywhere in the
// template, in ascending order.
func (t *Template) Variables() []string {
	seen := map[string]bool{}
	walk(t.Body, func(s Segment) {
		if v, ok := s.(Variable); ok {
			seen[v.Name] = true
		}
	})
	return sortedKeys(seen)
}

// Guards returns the distinct guard expressions used in the template, in
// ascending order.
func (t *Template) Guards() []string {
	seen := map[string]bool{}
	walk(t.Body, func(s Segment) {
		if f, ok := s.(*Fragment); ok {
			seen[f.Guard.Expr()] = true
		}
	})
	return sortedKeys(seen)
}

func walk(b Body, fn func(Segment)) {
	for _, s := range b {
		fn(s)
		if f, ok := s.(*Fragment); ok {
			walk(f.Body, fn)
		}
	}
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Catalog maps template ids to parsed templates. Implementations are
// read-only after construction.
type Catalog interface {
	// Lookup returns the template with the given id.
	Lookup(id string) (*Template, bool)
	// IDs returns all template ids in ascending order.
	IDs() []string
}

// MapCatalog is an in-memory Catalog.
type MapCatalog struct {
	templates map[string]*Template
}

// NewCatalog builds a catalog from parsed templates. Duplicate ids are rejected.
func NewCatalog(templates ...*Template) (*MapCatalog, error) {
	c := &MapCatalog{templates: make(map[string]*Template, len(templates))}
	for _, t := range templates {
		if _, dup := c.templates[t.ID]; dup {
			return nil, fmt.Errorf("duplicate template id %q", t.ID)
		}
		c.templates[t.ID] = t
	}
	return c, nil
}

// Lookup implements Catalog.
func (c *MapCatalog) Lookup(id string) (*Template, bool) {
	t, ok := c.templates[id]
	return t, ok
}

// IDs implements Catalog.
func (c *MapCatalog) IDs() []string {
	ids := make([]string, 0, len(c.templates))
	for id := range c.templates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ParseError reports a malformed template body.
type ParseError struct {
	TemplateID string
	Line       int
	Msg        string
	Err        error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "template %s:%d: %s", e.TemplateID, e.Line, e.Msg)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error { return e.Err }
