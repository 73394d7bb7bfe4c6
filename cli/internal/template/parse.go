package template

import (
	"fmt"
	"regexp"
	"strings"
)

// Authoring syntax. A line whose first non-blank characters are the
// directive prefix opens, switches or closes a guarded block and never
// reaches the output:
//
//	%% if jpa
//	@Entity
//	%% elif mybatis
//	@TableName("{{tableName}}")
//	%% else
//	%% end
//
// Variables are written {{name}}.
const directivePrefix = "%%"

var variablePattern = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

type openBlock struct {
	line    int
	outer   *Body
	prior   []string
	sawElse bool
}

// Parse turns template source into a Template. Each if/elif/else branch
// becomes a sibling Fragment whose guard excludes the earlier branches, so
// rendering never needs to know about chains.
func (c *Compiler) Parse(id, src string) (*Template, error) {
	var root Body
	cur := &root
	var stack []*openBlock

	fail := func(line int, err error, format string, args ...any) error {
		return &ParseError{TemplateID: id, Line: line, Msg: fmt.Sprintf(format, args...), Err: err}
	}

	open := func(line int, expr string, outer *Body) (*Body, error) {
		guard, err := c.Compile(expr)
		if err != nil {
			return nil, fail(line, err, "invalid guard")
		}
		frag := &Fragment{Guard: guard, Line: line}
		*outer = append(*outer, frag)
		return &frag.Body, nil
	}

	lines := strings.SplitAfter(src, "\n")
	for i, raw := range lines {
		lineNo := i + 1
		if raw == "" {
			continue
		}

		trimmed := strings.TrimSpace(raw)
		if !strings.HasPrefix(trimmed, directivePrefix) {
			appendLine(cur, raw, lineNo)
			continue
		}

		word, arg, _ := strings.Cut(strings.TrimSpace(strings.TrimPrefix(trimmed, directivePrefix)), " ")
		arg = strings.TrimSpace(arg)

		switch word {
		case "if":
			body, err := open(lineNo, arg, cur)
			if err != nil {
				return nil, err
			}
			stack = append(stack, &openBlock{line: lineNo, outer: cur, prior: []string{arg}})
			cur = body

		case "elif", "else":
			if len(stack) == 0 {
				return nil, fail(lineNo, nil, "%s without if", word)
			}
			top := stack[len(stack)-1]
			if top.sawElse {
				return nil, fail(lineNo, nil, "%s after else", word)
			}
			if word == "else" && arg != "" {
				return nil, fail(lineNo, nil, "else takes no expression")
			}
			if word == "elif" && arg == "" {
				return nil, fail(lineNo, nil, "elif needs an expression")
			}
			body, err := open(lineNo, exclusive(top.prior, arg), top.outer)
			if err != nil {
				return nil, err
			}
			if word == "else" {
				top.sawElse = true
			} else {
				top.prior = append(top.prior, arg)
			}
			cur = body

		case "end":
			if len(stack) == 0 {
				return nil, fail(lineNo, nil, "end without if")
			}
			if arg != "" {
				return nil, fail(lineNo, nil, "end takes no expression, got %q", arg)
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			cur = top.outer

		default:
			return nil, fail(lineNo, nil, "unknown directive %q", word)
		}
	}

	if len(stack) > 0 {
		return nil, fail(stack[len(stack)-1].line, nil, "if block is never closed")
	}
	return &Template{ID: id, Body: root}, nil
}

// exclusive builds the guard of a later branch: none of the prior
// conditions hold and, for elif, its own condition does.
func exclusive(prior []string, expr string) string {
	parts := make([]string, 0, len(prior)+1)
	for _, p := range prior {
		parts = append(parts, "!("+p+")")
	}
	if expr != "" {
		parts = append(parts, "("+expr+")")
	}
	return strings.Join(parts, " && ")
}

// appendLine splits one source line into literal and variable segments.
func appendLine(b *Body, line string, lineNo int) {
	rest := line
	for {
		loc := variablePattern.FindStringSubmatchIndex(rest)
		if loc == nil {
			appendLiteral(b, rest)
			return
		}
		appendLiteral(b, rest[:loc[0]])
		*b = append(*b, Variable{Name: rest[loc[2]:loc[3]], Line: lineNo})
		rest = rest[loc[1]:]
	}
}

func appendLiteral(b *Body, text string) {
	if text == "" {
		return
	}
	if n := len(*b); n > 0 {
		if prev, ok := (*b)[n-1].(Literal); ok {
			(*b)[n-1] = Literal{Text: prev.Text + text}
			return
		}
	}
	*b = append(*b, Literal{Text: text})
}
