package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/crank/pkg/domain"
)

// Overlay contains runtime data to highlight on the diagram.
type Overlay struct {
	VisitedStates []string
	CurrentState  string
}

// GenerateMermaid produces a Mermaid stateDiagram-v2 from a model.
// Transition labels carry the event, the guard in brackets and the action
// after a slash. Hooks become state descriptions.
func GenerateMermaid(m *domain.Model, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("stateDiagram-v2\n")

	if m.Startup != "" {
		sb.WriteString(fmt.Sprintf("    [*] --> %s\n", sanitizeMermaidID(m.Startup)))
	}
	for _, t := range m.Transitions {
		sb.WriteString(fmt.Sprintf("    %s --> %s : %s\n",
			mermaidState(t.From), mermaidState(t.To), escapeLabel(label(t))))
	}

	for _, state := range m.States {
		hooks, ok := m.Hooks[state]
		if !ok {
			continue
		}
		for _, kind := range []domain.HookKind{domain.HookEnter, domain.HookDo, domain.HookExit} {
			if fn := hooks.Get(kind); fn != "" {
				sb.WriteString(fmt.Sprintf("    %s : %s / %s\n",
					sanitizeMermaidID(state), kind, strings.TrimPrefix(fn, state+"_")))
			}
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, s := range overlay.VisitedStates {
			safeID := sanitizeMermaidID(s)
			if !visitedSet[safeID] && safeID != "" && !domain.IsSentinel(s) {
				visitedSet[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited\n", safeID))
			}
		}
		if overlay.CurrentState != "" && !domain.IsSentinel(overlay.CurrentState) {
			sb.WriteString(fmt.Sprintf("    class %s current\n", sanitizeMermaidID(overlay.CurrentState)))
		}
	}

	return sb.String()
}

// label renders "Event [Guard] / Action".
func label(t domain.Transition) string {
	s := t.Event
	if t.Guarded() {
		s += " [" + t.Guard.String() + "]"
	}
	if t.Action != "" {
		s += " / " + t.Action
	}
	return s
}

func mermaidState(s string) string {
	if domain.IsSentinel(s) {
		return domain.PseudoState
	}
	return sanitizeMermaidID(s)
}

// escapeLabel keeps Mermaid from reading a colon as a new description.
func escapeLabel(s string) string {
	return strings.ReplaceAll(s, ":", "#colon;")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
