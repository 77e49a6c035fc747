package validator

import (
	"fmt"
	"strings"

	"github.com/aretw0/crank/pkg/domain"
)

// Finding is one problem found in a model. None of them stop generation.
type Finding struct {
	Line    int // 1-based host line, 0 when not tied to a line
	State   string
	Message string
}

func (f Finding) String() string {
	if f.Line > 0 {
		return fmt.Sprintf("line %d: %s: %s", f.Line, f.State, f.Message)
	}
	return fmt.Sprintf("%s: %s", f.State, f.Message)
}

// Lint checks a model for states that can never be reached from the startup
// state, states the machine can never leave, and transitions shadowed by an
// earlier unguarded transition on the same event.
func Lint(m *domain.Model) []Finding {
	var findings []Finding

	if m.Startup == "" {
		findings = append(findings, Finding{State: domain.InitialState, Message: "no startup state"})
	} else {
		// Crawler
		visited := map[string]bool{m.Startup: true}
		queue := []string{m.Startup}
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			for _, t := range m.Transitions {
				if t.From == current && !visited[t.To] {
					visited[t.To] = true
					queue = append(queue, t.To)
				}
			}
		}
		for _, s := range m.States {
			if !visited[s] {
				findings = append(findings, Finding{State: s, Message: "unreachable from " + m.Startup})
			}
		}
	}

	for _, s := range m.States {
		groups := m.Outbound(s)
		if len(groups) == 0 {
			findings = append(findings, Finding{State: s, Message: "no outbound transitions"})
			continue
		}
		for _, g := range groups {
			seen := false
			for _, t := range g.Transitions {
				if t.Guarded() {
					continue
				}
				if seen {
					findings = append(findings, Finding{
						Line:    t.Line,
						State:   s,
						Message: fmt.Sprintf("%s transition to %s is shadowed by an earlier unguarded one", g.Event, t.To),
					})
				}
				seen = true
			}
		}
	}
	return findings
}

// Error joins findings into a single error, or returns nil when there are none.
func Error(findings []Finding) error {
	if len(findings) == 0 {
		return nil
	}
	lines := make([]string, len(findings))
	for i, f := range findings {
		lines[i] = f.String()
	}
	return fmt.Errorf("found %d problems:\n- %s", len(findings), strings.Join(lines, "\n- "))
}
