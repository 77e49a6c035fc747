package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/crank/pkg/domain"
)

// GeneratePlantUML writes the model back as a DSL block. Parsing the output
// yields an equivalent model, with guards in canonical spacing.
func GeneratePlantUML(m *domain.Model) string {
	var sb strings.Builder
	sb.WriteString("@startuml\n")

	if m.Startup != "" {
		sb.WriteString(fmt.Sprintf("%s --> %s\n", domain.PseudoState, m.Startup))
	}
	for _, t := range m.Transitions {
		sb.WriteString(fmt.Sprintf("%s --> %s : %s\n", plantState(t.From), plantState(t.To), label(t)))
	}
	for _, state := range m.States {
		hooks, ok := m.Hooks[state]
		if !ok {
			continue
		}
		for _, kind := range []domain.HookKind{domain.HookEnter, domain.HookDo, domain.HookExit} {
			if fn := hooks.Get(kind); fn != "" {
				sb.WriteString(fmt.Sprintf("%s : %s : %s\n", state, kind, strings.TrimPrefix(fn, state+"_")))
			}
		}
	}

	sb.WriteString("@enduml\n")
	return sb.String()
}

func plantState(s string) string {
	if domain.IsSentinel(s) {
		return domain.PseudoState
	}
	return s
}
