package codegen

import (
	"fmt"
	"strings"

	"github.com/aretw0/crank/internal/signature"
	"github.com/aretw0/crank/pkg/domain"
)

// Tabular region names.
const (
	RegionDefines = "defines"
	RegionTables  = "tables"
	RegionUser    = "user"
)

var tabularSignatures = signature.Set{
	signature.NewPair(RegionDefines,
		"MAIN STATE CODE DEFINES START - DO NOT MODIFY",
		"MAIN STATE CODE DEFINES END - DO NOT MODIFY"),
	signature.NewPair(RegionTables,
		"MAIN STATE CODE TABLES START - DO NOT MODIFY",
		"MAIN STATE CODE TABLES END - DO NOT MODIFY"),
	signature.NewPair(RegionUser,
		"USER STATE CODE START",
		"USER STATE CODE END"),
}

// Tabular emits enum namespaces and the dispatch.Tables consumed by
// pkg/dispatch. User functions are package-level funcs taking the machine.
type Tabular struct{}

// NewTabular returns the tabular emitter.
func NewTabular() *Tabular { return &Tabular{} }

func (*Tabular) Name() string { return StyleTabular }

func (*Tabular) Signatures() signature.Set { return tabularSignatures }

func (*Tabular) UserRegion() signature.Pair { return tabularSignatures[2] }

func (t *Tabular) Render(m *domain.Model) (map[string][]string, error) {
	if err := validate(m, "States", "Events", "StateTables"); err != nil {
		return nil, err
	}
	defines, err := t.defines(m)
	if err != nil {
		return nil, err
	}
	tables, err := t.tables(m)
	if err != nil {
		return nil, err
	}
	return map[string][]string{
		RegionDefines: defines,
		RegionTables:  tables,
	}, nil
}

func (*Tabular) defines(m *domain.Model) ([]string, error) {
	var w writer
	enum := func(name, typ string, values []string) {
		w.line("// %s enumerates the machine %s in declaration order.", name, strings.ToLower(name))
		w.line("var %s = struct {", name)
		for _, v := range values {
			w.line("\t%s %s", v, typ)
		}
		w.line("}{")
		for i, v := range values {
			w.line("\t%s: %d,", v, i+1)
		}
		w.line("}")
	}
	enum("States", "dispatch.State", m.States)
	w.blank()
	enum("Events", "dispatch.Event", m.Events)
	return w.lines()
}

func stateRef(m *domain.Model, state string) string {
	switch state {
	case domain.InitialState:
		return "dispatch.InitialState"
	case domain.FinalState:
		return "dispatch.FinalState"
	}
	return "States." + state
}

func record(m *domain.Model, t domain.Transition) string {
	fields := []string{"Dest: " + stateRef(m, t.To)}
	if t.Guarded() {
		fields = append(fields, "Guard: "+t.GuardName())
	}
	if t.Action != "" {
		fields = append(fields, "Action: "+t.Action)
	}
	return strings.Join(fields, ", ")
}

func quoted(list []string) string {
	q := make([]string, len(list))
	for i, s := range list {
		q[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(q, ", ")
}

func (*Tabular) tables(m *domain.Model) ([]string, error) {
	startup := domain.InitialState
	if m.Startup != "" {
		startup = m.Startup
	}

	var w writer
	w.line("// StateTables drives a dispatch.Machine through this state machine.")
	w.line("var StateTables = dispatch.Tables{")
	w.line("\tStartup: %s,", stateRef(m, startup))
	w.line("\tStates: []string{%s},", quoted(m.States))
	w.line("\tEvents: []string{%s},", quoted(m.Events))

	w.line("\tTransitions: map[dispatch.State]map[dispatch.Event]dispatch.Entry{")
	for _, state := range m.States {
		groups := m.Outbound(state)
		if len(groups) == 0 {
			continue
		}
		w.line("\t\tStates.%s: {", state)
		for _, g := range groups {
			if g.Single() {
				w.line("\t\t\tEvents.%s: dispatch.Record{%s},", g.Event, record(m, g.Transitions[0]))
				continue
			}
			w.line("\t\t\tEvents.%s: dispatch.Records{", g.Event)
			for _, t := range g.Transitions {
				w.line("\t\t\t\t{%s},", record(m, t))
			}
			w.line("\t\t\t},")
		}
		w.line("\t\t},")
	}
	w.line("\t},")

	w.line("\tFunctions: map[dispatch.State]dispatch.Hooks{")
	for _, state := range m.States {
		hooks := m.Hooks[state]
		if hooks.IsZero() {
			continue
		}
		var fields []string
		if hooks.Enter != "" {
			fields = append(fields, "Enter: "+hooks.Enter)
		}
		if hooks.Do != "" {
			fields = append(fields, "Do: "+hooks.Do)
		}
		if hooks.Exit != "" {
			fields = append(fields, "Exit: "+hooks.Exit)
		}
		w.line("\t\tStates.%s: {%s},", state, strings.Join(fields, ", "))
	}
	w.line("\t},")
	w.line("}")
	return w.lines()
}

func (*Tabular) Stubs(m *domain.Model, defined Defined) [][]string {
	var stubs [][]string
	for _, fn := range Missing(m, defined) {
		if fn.Role == domain.RoleGuard {
			stubs = append(stubs, []string{
				fmt.Sprintf("// %s is a generated guard stub.", fn.Name),
				fmt.Sprintf("func %s(m *dispatch.Machine) bool {", fn.Name),
				"\treturn true",
				"}",
			})
			continue
		}
		stubs = append(stubs, []string{
			fmt.Sprintf("// %s is a generated %s stub.", fn.Name, fn.Role),
			fmt.Sprintf("func %s(m *dispatch.Machine) {", fn.Name),
			"}",
		})
	}
	return stubs
}
