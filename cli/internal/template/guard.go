package template

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/google/cel-go/cel"

	"go.eggybyte.com/bootforge/cli/internal/capability"
)

// Guard is a compiled boolean predicate over capability flags.
type Guard struct {
	expr    string
	program cel.Program
}

// Expr returns the source expression.
func (g *Guard) Expr() string { return g.expr }

// String implements fmt.Stringer.
func (g *Guard) String() string { return g.expr }

// Eval evaluates the guard against a capability activation
// (see capability.Set.Activation).
func (g *Guard) Eval(activation map[string]any) (bool, error) {
	out, _, err := g.program.Eval(activation)
	if err != nil {
		return false, fmt.Errorf("evaluate guard %q: %w", g.expr, err)
	}
	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("guard %q produced %T, want bool", g.expr, out.Value())
	}
	return b, nil
}

// Compiler compiles guard expressions against the capability vocabulary and
// parses template sources. Safe for concurrent use.
type Compiler struct {
	env *cel.Env
}

// NewCompiler builds a compiler whose guards may reference exactly the
// declared capabilities.
func NewCompiler() (*Compiler, error) {
	var opts []cel.EnvOption
	for _, d := range capability.Declarations() {
		t := cel.BoolType
		if d.Kind == capability.KindString {
			t = cel.StringType
		}
		opts = append(opts, cel.Variable(d.Name, t))
	}
	env, err := cel.NewEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("build guard environment: %w", err)
	}
	return &Compiler{env: env}, nil
}

// Compile type-checks expr and returns a ready-to-evaluate guard. Unknown
// capability names and non-boolean expressions are rejected.
func (c *Compiler) Compile(expr string) (*Guard, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("empty guard expression")
	}
	ast, iss := c.env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, iss.Err()
	}
	if !reflect.DeepEqual(ast.OutputType(), cel.BoolType) {
		return nil, fmt.Errorf("guard %q has type %v, want bool", expr, ast.OutputType())
	}
	program, err := c.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("plan guard %q: %w", expr, err)
	}
	return &Guard{expr: expr, program: program}, nil
}

// MustCompile is Compile that panics on error. Intended for tests and static guards.
func (c *Compiler) MustCompile(expr string) *Guard {
	g, err := c.Compile(expr)
	if err != nil {
		panic(err)
	}
	return g
}
