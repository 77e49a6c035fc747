package codegen

import (
	"fmt"

	"github.com/aretw0/crank/internal/signature"
	"github.com/aretw0/crank/pkg/domain"
)

// Switch region names; RegionDefines and RegionUser are shared with Tabular.
const (
	RegionEnums      = "enums"
	RegionPrototypes = "prototypes"
	RegionMain       = "main"
)

var switchSignatures = signature.Set{
	signature.NewPair(RegionDefines,
		"MAIN STATE CODE DEFINES START - DO NOT MODIFY",
		"MAIN STATE CODE DEFINES END - DO NOT MODIFY"),
	signature.NewPair(RegionEnums,
		"MAIN STATE CODE STATE DEFINES START - DO NOT MODIFY",
		"MAIN STATE CODE STATE DEFINES END - DO NOT MODIFY"),
	signature.NewPair(RegionPrototypes,
		"MAIN STATE CODE PROTOTYPES START - DO NOT MODIFY",
		"MAIN STATE CODE PROTOTYPES END - DO NOT MODIFY"),
	signature.NewPair(RegionMain,
		"MAIN STATE CODE START - DO NOT MODIFY",
		"MAIN STATE CODE END - DO NOT MODIFY"),
	signature.NewPair(RegionUser,
		"USER STATE CODE START",
		"USER STATE CODE END"),
}

// Switch emits self-contained procedural handlers: one method per event
// switching on the current state, with user functions as StateEngine methods.
type Switch struct{}

// NewSwitch returns the switch emitter.
func NewSwitch() *Switch { return &Switch{} }

func (*Switch) Name() string { return StyleSwitch }

func (*Switch) Signatures() signature.Set { return switchSignatures }

func (*Switch) UserRegion() signature.Pair { return switchSignatures[4] }

var switchReserved = []string{
	"State", "Event", "InitialState", "FinalState",
	"StateEngine", "NewStateEngine", "Start", "Do", "Dispatch",
	"ID", "Current", "Data", "stateHooks",
}

func (s *Switch) Render(m *domain.Model) (map[string][]string, error) {
	if err := validate(m, switchReserved...); err != nil {
		return nil, err
	}
	for _, e := range m.Events {
		if m.StateValue(e) > 0 {
			return nil, fmt.Errorf("event %q has the same name as a state", e)
		}
	}

	out := make(map[string][]string)
	for name, render := range map[string]func(*domain.Model) ([]string, error){
		RegionEnums:      s.enums,
		RegionDefines:    s.defines,
		RegionPrototypes: s.prototypes,
		RegionMain:       s.main,
	} {
		lines, err := render(m)
		if err != nil {
			return nil, err
		}
		out[name] = lines
	}
	return out, nil
}

func (*Switch) enums(m *domain.Model) ([]string, error) {
	var w writer
	w.line("// State identifies a machine state.")
	w.line("type State int")
	w.blank()
	w.line("// Pseudo states entered automatically.")
	w.line("const (")
	w.line("\tInitialState State = -1")
	w.line("\tFinalState State = -2")
	w.line(")")
	w.blank()
	w.line("// Machine states in declaration order.")
	w.line("const (")
	for i, s := range m.States {
		w.line("\t%s State = %d", s, i+1)
	}
	w.line(")")
	w.blank()
	w.line("// Event identifies a machine event.")
	w.line("type Event int")
	w.blank()
	w.line("// Machine events in declaration order.")
	w.line("const (")
	for i, e := range m.Events {
		w.line("\t%s Event = %d", e, i+1)
	}
	w.line(")")
	return w.lines()
}

func (*Switch) defines(m *domain.Model) ([]string, error) {
	var w writer
	w.line("// StateEngine holds one machine instance for the generated handlers.")
	w.line("type StateEngine struct {")
	w.line("\tID int")
	w.line("\tCurrent State")
	w.line("\tData any")
	w.line("}")
	w.blank()
	w.line("// NewStateEngine returns an engine parked in InitialState until Start.")
	w.line("func NewStateEngine(id int) *StateEngine {")
	w.line("\treturn &StateEngine{ID: id, Current: InitialState}")
	w.line("}")
	return w.lines()
}

func (*Switch) prototypes(m *domain.Model) ([]string, error) {
	var w writer
	w.line("// stateHooks lists the user functions called by the handlers.")
	w.line("type stateHooks interface {")
	for _, fn := range m.Functions() {
		if fn.Role == domain.RoleGuard {
			w.line("\t%s() bool", fn.Name)
		} else {
			w.line("\t%s()", fn.Name)
		}
	}
	w.line("}")
	w.blank()
	w.line("var _ stateHooks = (*StateEngine)(nil)")
	return w.lines()
}

// arm writes the statements firing t out of from: exit, action, state
// assignment, enter.
func (*Switch) arm(w *writer, m *domain.Model, from string, t domain.Transition, indent string) {
	if exit := m.Hooks[from].Exit; exit != "" {
		w.line("%ssm.%s()", indent, exit)
	}
	if t.Action != "" {
		w.line("%ssm.%s()", indent, t.Action)
	}
	w.line("%ssm.Current = %s", indent, t.To)
	if enter := m.Hooks[t.To].Enter; enter != "" {
		w.line("%ssm.%s()", indent, enter)
	}
}

func (s *Switch) main(m *domain.Model) ([]string, error) {
	var w writer

	w.line("// Start moves the engine from InitialState into its startup state.")
	w.line("func (sm *StateEngine) Start() {")
	if m.Startup != "" {
		w.line("\tsm.Current = %s", m.Startup)
		if enter := m.Hooks[m.Startup].Enter; enter != "" {
			w.line("\tsm.%s()", enter)
		}
	}
	w.line("}")
	w.blank()

	w.line("// Do runs the do hook of the current state.")
	w.line("func (sm *StateEngine) Do() {")
	w.line("\tswitch sm.Current {")
	for _, state := range m.States {
		if do := m.Hooks[state].Do; do != "" {
			w.line("\tcase %s:", state)
			w.line("\t\tsm.%s()", do)
		}
	}
	w.line("\t}")
	w.line("}")

	for _, event := range m.Events {
		w.blank()
		w.line("// On%s handles %s in the current state.", event, event)
		w.line("func (sm *StateEngine) On%s() {", event)
		w.line("\tswitch sm.Current {")
		for _, state := range m.HandlersOf(event) {
			w.line("\tcase %s:", state)
			s.handler(&w, m, state, event)
		}
		w.line("\t}")
		w.line("}")
	}

	w.blank()
	w.line("// Dispatch routes ev to its handler.")
	w.line("func (sm *StateEngine) Dispatch(ev Event) {")
	w.line("\tswitch ev {")
	for _, event := range m.Events {
		w.line("\tcase %s:", event)
		w.line("\t\tsm.On%s()", event)
	}
	w.line("\t}")
	w.line("}")
	return w.lines()
}

// handler writes the guarded if/else-if chain for one (state, event).
// The first unguarded transition is the fallback arm; later ones are
// unreachable and omitted.
func (s *Switch) handler(w *writer, m *domain.Model, state, event string) {
	var group domain.EventTransitions
	for _, g := range m.Outbound(state) {
		if g.Event == event {
			group = g
		}
	}

	var fallback *domain.Transition
	opened := false
	for i := range group.Transitions {
		t := group.Transitions[i]
		if !t.Guarded() {
			fallback = &t
			break
		}
		if !opened {
			w.line("\t\tif sm.%s() {", t.GuardName())
			opened = true
		} else {
			w.line("\t\t} else if sm.%s() {", t.GuardName())
		}
		s.arm(w, m, state, t, "\t\t\t")
	}

	switch {
	case opened && fallback != nil:
		w.line("\t\t} else {")
		s.arm(w, m, state, *fallback, "\t\t\t")
		w.line("\t\t}")
	case opened:
		w.line("\t\t}")
	case fallback != nil:
		s.arm(w, m, state, *fallback, "\t\t")
	}
}

func (*Switch) Stubs(m *domain.Model, defined Defined) [][]string {
	var stubs [][]string
	for _, fn := range Missing(m, defined) {
		if fn.Role == domain.RoleGuard {
			stubs = append(stubs, []string{
				fmt.Sprintf("// %s is a generated guard stub.", fn.Name),
				fmt.Sprintf("func (sm *StateEngine) %s() bool {", fn.Name),
				"\treturn true",
				"}",
			})
			continue
		}
		stubs = append(stubs, []string{
			fmt.Sprintf("// %s is a generated %s stub.", fn.Name, fn.Role),
			fmt.Sprintf("func (sm *StateEngine) %s() {", fn.Name),
			"}",
		})
	}
	return stubs
}
