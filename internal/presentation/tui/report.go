package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/crank/pkg/domain"
)

// Report renders a markdown description of a model: states with their values
// and hooks, events, transitions in dispatch order and referenced functions.
func Report(title string, m *domain.Model) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title)

	startup := m.Startup
	if startup == "" {
		startup = "_none_"
	}
	fmt.Fprintf(&sb, "Startup state: **%s**\n\n", startup)

	sb.WriteString("## States\n\n| Value | State | Enter | Do | Exit |\n|---|---|---|---|---|\n")
	for _, s := range m.States {
		h := m.Hooks[s]
		fmt.Fprintf(&sb, "| %d | %s | %s | %s | %s |\n", m.StateValue(s), s, cell(h.Enter), cell(h.Do), cell(h.Exit))
	}

	sb.WriteString("\n## Events\n\n| Value | Event | Handled in |\n|---|---|---|\n")
	for _, e := range m.Events {
		fmt.Fprintf(&sb, "| %d | %s | %s |\n", m.EventValue(e), e, strings.Join(m.HandlersOf(e), ", "))
	}

	sb.WriteString("\n## Transitions\n\n| From | Event | Guard | Action | To |\n|---|---|---|---|---|\n")
	for _, s := range m.States {
		for _, g := range m.Outbound(s) {
			for _, t := range g.Transitions {
				guard := ""
				if t.Guarded() {
					guard = "`" + t.Guard.String() + "`"
				}
				fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s |\n", s, g.Event, cell(guard), cell(t.Action), t.To)
			}
		}
	}

	sb.WriteString("\n## Functions\n\n")
	fns := m.Functions()
	if len(fns) == 0 {
		sb.WriteString("_none_\n")
	}
	for _, fn := range fns {
		fmt.Fprintf(&sb, "- `%s` (%s)\n", fn.Name, fn.Role)
	}
	return sb.String()
}

func cell(s string) string {
	if s == "" {
		return "-"
	}
	return strings.ReplaceAll(s, "|", "\\|")
}
