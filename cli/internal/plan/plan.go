// Package plan decides which files a generation run produces and where they go.
//
// Overview:
//   - Responsibility: Select one filler per logical slot from the capability set
//   - Key Types: Layout (ordered slots), Slot, Filler, Entry, Plan, PlanError
//   - Concurrency Model: Layouts are immutable after NewLayout; Build is pure
//   - Error Semantics: Unsatisfied mandatory slots and ambiguous slots fail with *PlanError and no entries
//   - Performance Notes: One pass over the slots; linear in layout size
//
// Usage:
//
//	p, err := plan.Build(plan.DefaultLayout(), caps, ids)
//	for _, e := range p.Entries {
//	    fmt.Println(e.TargetPath)
//	}
package plan

import (
	"fmt"
	"strings"

	"go.eggybyte.com/bootforge/cli/internal/capability"
	"go.eggybyte.com/bootforge/cli/internal/naming"
)

// SlotID names a logical file position in the generated tree.
type SlotID string

// Requirement is a predicate over the capability set with a readable form.
type Requirement struct {
	Desc  string
	Match func(*capability.Set) bool
}

// Always matches every capability set.
func Always() Requirement {
	return Requirement{Desc: "always", Match: func(*capability.Set) bool { return true }}
}

// When builds a named requirement.
func When(desc string, match func(*capability.Set) bool) Requirement {
	return Requirement{Desc: desc, Match: match}
}

// Filler is one concrete way to fill a slot.
type Filler struct {
	Name       string
	TemplateID string
	When       Requirement
	Path       func(*naming.Identifiers) string
}

// Slot is a logical file position. Fillers are mutually exclusive alternatives.
type Slot struct {
	ID        SlotID
	Required  bool
	DependsOn []SlotID
	Fillers   []Filler
}

// Layout is an ordered, validated list of slots.
type Layout struct {
	slots []Slot
}

// NewLayout validates and freezes a slot list.
//
// Parameters:
//   - slots: Slots in output order; dependencies must name earlier slots
//
// Returns:
//   - *Layout: Validated layout
//   - error: Duplicate id, forward or unknown dependency, or a filler without template or path
func NewLayout(slots ...Slot) (*Layout, error) {
	seen := make(map[SlotID]bool, len(slots))
	for i, s := range slots {
		if s.ID == "" {
			return nil, fmt.Errorf("slot %d has no id", i)
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("duplicate slot %q", s.ID)
		}
		for _, dep := range s.DependsOn {
			if !seen[dep] {
				return nil, fmt.Errorf("slot %q depends on %q, which is not an earlier slot", s.ID, dep)
			}
		}
		for _, f := range s.Fillers {
			if f.TemplateID == "" || f.Path == nil || f.When.Match == nil {
				return nil, fmt.Errorf("slot %q: filler %q is incomplete", s.ID, f.Name)
			}
		}
		seen[s.ID] = true
	}

	copied := make([]Slot, len(slots))
	copy(copied, slots)
	return &Layout{slots: copied}, nil
}

// MustLayout is NewLayout that panics on error. Intended for static layouts.
func MustLayout(slots ...Slot) *Layout {
	l, err := NewLayout(slots...)
	if err != nil {
		panic(err)
	}
	return l
}

// Slots returns the slots in output order.
func (l *Layout) Slots() []Slot {
	out := make([]Slot, len(l.slots))
	copy(out, l.slots)
	return out
}

// Entry is one planned file.
type Entry struct {
	Slot       SlotID
	Filler     string
	TemplateID string
	TargetPath string
}

// Omission records a slot left out of the plan.
type Omission struct {
	Slot   SlotID
	Reason string
}

// Plan is the outcome of Build.
type Plan struct {
	Entries []Entry
	Omitted []Omission
}

// TemplateIDs returns the template of every entry, in plan order.
func (p *Plan) TemplateIDs() []string {
	out := make([]string, len(p.Entries))
	for i, e := range p.Entries {
		out[i] = e.TemplateID
	}
	return out
}

// PlanError reports a layout that cannot be satisfied by a capability set.
type PlanError struct {
	Slot       SlotID
	Reason     string
	Candidates []string // matching fillers, for ambiguous slots
}

// Error implements the error interface.
func (e *PlanError) Error() string {
	msg := fmt.Sprintf("plan: slot %q: %s", e.Slot, e.Reason)
	if len(e.Candidates) > 0 {
		msg += " (" + strings.Join(e.Candidates, ", ") + ")"
	}
	return msg
}

// Build selects the filler of every slot.
//
// Parameters:
//   - layout: Slot layout, usually DefaultLayout()
//   - caps: Capability set of the run
//   - ids: Identifier set of the run, used for target paths
//
// Returns:
//   - *Plan: Entries in layout order plus omitted slots
//   - error: *PlanError when a mandatory slot has no filler or any slot has several
//
// Concurrency:
//   - Pure; safe to call concurrently
func Build(layout *Layout, caps *capability.Set, ids *naming.Identifiers) (*Plan, error) {
	p := &Plan{}
	omitted := make(map[SlotID]bool)

	for _, slot := range layout.slots {
		if dep, ok := firstOmitted(slot.DependsOn, omitted); ok {
			if slot.Required {
				return nil, &PlanError{Slot: slot.ID, Reason: fmt.Sprintf("depends on omitted slot %q", dep)}
			}
			omitted[slot.ID] = true
			p.Omitted = append(p.Omitted, Omission{Slot: slot.ID, Reason: fmt.Sprintf("depends on omitted slot %q", dep)})
			continue
		}

		var matched []Filler
		for _, f := range slot.Fillers {
			if f.When.Match(caps) {
				matched = append(matched, f)
			}
		}

		switch len(matched) {
		case 0:
			if slot.Required {
				return nil, &PlanError{Slot: slot.ID, Reason: "no filler matches " + caps.String()}
			}
			omitted[slot.ID] = true
			p.Omitted = append(p.Omitted, Omission{Slot: slot.ID, Reason: "no filler matches"})
		case 1:
			f := matched[0]
			p.Entries = append(p.Entries, Entry{
				Slot:       slot.ID,
				Filler:     f.Name,
				TemplateID: f.TemplateID,
				TargetPath: f.Path(ids),
			})
		default:
			names := make([]string, len(matched))
			for i, f := range matched {
				names[i] = f.Name
			}
			return nil, &PlanError{Slot: slot.ID, Reason: "ambiguous slot", Candidates: names}
		}
	}
	return p, nil
}

func firstOmitted(deps []SlotID, omitted map[SlotID]bool) (SlotID, bool) {
	for _, d := range deps {
		if omitted[d] {
			return d, true
		}
	}
	return "", false
}
