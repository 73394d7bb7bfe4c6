package ui

import (
	"fmt"
	"path"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"

	"go.eggybyte.com/bootforge/cli/internal/plan"
	"go.eggybyte.com/bootforge/cli/internal/render"
)

var (
	rootStyle       = lipgloss.NewStyle().Bold(true)
	enumeratorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginRight(1)
)

func newTree(root string) *tree.Tree {
	return tree.Root(rootStyle.Render(root)).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(enumeratorStyle)
}

// PlanTree draws the planned files grouped by directory, followed by the
// omitted slots.
//
// Parameters:
//   - title: Root label, usually the project name
//   - p: Plan to draw
//
// Returns:
//   - string: Rendered tree without trailing newline
func PlanTree(title string, p *plan.Plan) string {
	root := newTree(title)

	dirs := make(map[string]*tree.Tree)
	for _, e := range p.Entries {
		dir, file := path.Split(e.TargetPath)
		dir = strings.TrimSuffix(dir, "/")
		node, ok := dirs[dir]
		if !ok {
			if dir == "" {
				node = root
			} else {
				node = tree.Root(dir)
				root.Child(node)
			}
			dirs[dir] = node
		}
		node.Child(file + " " + dimStyle.Render(string(e.Slot)))
	}

	if len(p.Omitted) > 0 {
		omitted := tree.Root(warnStyle.Render("omitted"))
		for _, o := range p.Omitted {
			omitted.Child(fmt.Sprintf("%s %s", o.Slot, dimStyle.Render(o.Reason)))
		}
		root.Child(omitted)
	}
	return root.String()
}

// TraceTree draws the fragment decisions of one rendered file, nesting
// fragments inside the fragment that contains them.
func TraceTree(title string, t *render.Trace) string {
	root := newTree(title)
	nodes := make(map[string]*tree.Tree, len(t.Fragments))

	for _, f := range t.Fragments {
		node := tree.Root(fragmentLabel(f))
		nodes[f.Path] = node
		enclosing(nodes, f.Path, root).Child(node)
	}
	return root.String()
}

func enclosing(nodes map[string]*tree.Tree, p string, root *tree.Tree) *tree.Tree {
	for {
		i := strings.LastIndexByte(p, '.')
		if i < 0 {
			return root
		}
		p = p[:i]
		if n, ok := nodes[p]; ok {
			return n
		}
	}
}

func fragmentLabel(f render.FragmentDecision) string {
	var state string
	switch {
	case !f.Evaluated:
		state = dimStyle.Render("skip")
	case f.Active:
		state = successStyle.Render("on  ")
	default:
		state = warnStyle.Render("off ")
	}
	return fmt.Sprintf("%s %s %s", state, f.Guard, dimStyle.Render(fmt.Sprintf("line %d", f.Line)))
}
