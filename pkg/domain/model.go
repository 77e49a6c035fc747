package domain

import "sort"

// Role partitions referenced function names by the stub body they need.
type Role string

const (
	RoleGuard  Role = "guard"
	RoleAction Role = "action"
	RoleEnter  Role = "enter"
	RoleDo     Role = "do"
	RoleExit   Role = "exit"
)

// Function is a referenced function identifier and its role.
type Function struct {
	Name string
	Role Role
}

// Model is the state machine described by one DSL block.
// All lists are in first-seen order.
type Model struct {
	States      []string
	Events      []string
	Startup     string
	Transitions []Transition
	Hooks       map[string]StateHooks

	Guards  []Guard
	Actions []string
	Enters  []string
	Dos     []string
	Exits   []string
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{Hooks: make(map[string]StateHooks)}
}

// AddState records a user state. Sentinels are ignored.
func (m *Model) AddState(name string) {
	if name == "" || IsSentinel(name) || contains(m.States, name) {
		return
	}
	m.States = append(m.States, name)
}

// AddEvent records an event.
func (m *Model) AddEvent(name string) {
	if name == "" || contains(m.Events, name) {
		return
	}
	m.Events = append(m.Events, name)
}

// AddTransition appends t and registers its guard and action.
func (m *Model) AddTransition(t Transition) {
	m.AddState(t.From)
	m.AddState(t.To)
	m.AddEvent(t.Event)
	if t.Guarded() {
		m.addGuard(t.Guard)
	}
	if t.Action != "" && !contains(m.Actions, t.Action) {
		m.Actions = append(m.Actions, t.Action)
	}
	m.Transitions = append(m.Transitions, t)
}

func (m *Model) addGuard(g Guard) {
	for _, existing := range m.Guards {
		if existing.Key() == g.Key() {
			return
		}
	}
	m.Guards = append(m.Guards, g)
}

// SetHook assigns the mangled hook of a state. It reports false when the
// state already has a hook of that kind; the existing one is kept.
func (m *Model) SetHook(state string, kind HookKind, fn string) bool {
	m.AddState(state)
	hooks := m.Hooks[state]
	if hooks.Get(kind) != "" {
		return false
	}
	name := MangleHook(state, fn)
	switch kind {
	case HookEnter:
		hooks.Enter = name
		m.Enters = appendUnique(m.Enters, name)
	case HookDo:
		hooks.Do = name
		m.Dos = appendUnique(m.Dos, name)
	case HookExit:
		hooks.Exit = name
		m.Exits = appendUnique(m.Exits, name)
	}
	m.Hooks[state] = hooks
	return true
}

// StateValue returns the stable numeric value of a state: 1-based first-seen
// order for user states, -1 and -2 for the sentinels, 0 when unknown.
func (m *Model) StateValue(name string) int {
	switch name {
	case InitialState:
		return -1
	case FinalState:
		return -2
	}
	return indexOf(m.States, name) + 1
}

// EventValue returns the 1-based first-seen value of an event, 0 when unknown.
func (m *Model) EventValue(name string) int {
	return indexOf(m.Events, name) + 1
}

// Outbound returns the transitions leaving state grouped by event.
// Events follow global first-seen order; within an event guarded transitions
// precede unguarded ones regardless of declaration order.
func (m *Model) Outbound(state string) []EventTransitions {
	var groups []EventTransitions
	for _, event := range m.Events {
		var guarded, unguarded []Transition
		for _, t := range m.Transitions {
			if t.From != state || t.Event != event {
				continue
			}
			if t.Guarded() {
				guarded = append(guarded, t)
			} else {
				unguarded = append(unguarded, t)
			}
		}
		if len(guarded)+len(unguarded) == 0 {
			continue
		}
		groups = append(groups, EventTransitions{
			Event:       event,
			Transitions: append(guarded, unguarded...),
		})
	}
	return groups
}

// HandlersOf returns the states that react to event, in state order.
func (m *Model) HandlersOf(event string) []string {
	var states []string
	for _, s := range m.States {
		for _, t := range m.Transitions {
			if t.From == s && t.Event == event {
				states = append(states, s)
				break
			}
		}
	}
	return states
}

// CheckRoles fails with a *RoleError when a guard name is also used as an
// action or hook. Such a function cannot have both signatures.
func (m *Model) CheckRoles() error {
	others := []struct {
		role  Role
		names []string
	}{
		{RoleAction, m.Actions},
		{RoleEnter, m.Enters},
		{RoleDo, m.Dos},
		{RoleExit, m.Exits},
	}
	for _, g := range m.Guards {
		name := g.Name()
		for _, o := range others {
			if !contains(o.names, name) {
				continue
			}
			line := 0
			for _, t := range m.Transitions {
				if t.GuardName() == name {
					line = t.Line
					break
				}
			}
			return &RoleError{Line: line, Name: name, Role: o.role}
		}
	}
	return nil
}

// Functions returns every referenced function identifier sorted by name.
// A name shared by an action and a hook is reported once. Guard conflicts
// are rejected earlier by CheckRoles.
func (m *Model) Functions() []Function {
	roles := make(map[string]Role)
	add := func(name string, role Role) {
		if name == "" {
			return
		}
		if _, ok := roles[name]; !ok || role == RoleGuard {
			roles[name] = role
		}
	}
	for _, n := range m.Actions {
		add(n, RoleAction)
	}
	for _, n := range m.Enters {
		add(n, RoleEnter)
	}
	for _, n := range m.Dos {
		add(n, RoleDo)
	}
	for _, n := range m.Exits {
		add(n, RoleExit)
	}
	for _, g := range m.Guards {
		add(g.Name(), RoleGuard)
	}

	fns := make([]Function, 0, len(roles))
	for name, role := range roles {
		fns = append(fns, Function{Name: name, Role: role})
	}
	sort.Slice(fns, func(i, j int) bool { return fns[i].Name < fns[j].Name })
	return fns
}

func contains(list []string, s string) bool { return indexOf(list, s) >= 0 }

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

func appendUnique(list []string, s string) []string {
	if contains(list, s) {
		return list
	}
	return append(list, s)
}
