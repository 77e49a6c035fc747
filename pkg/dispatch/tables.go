package dispatch

import "strconv"

// State is a machine state value. User states are numbered from 1.
type State int

// Event is a machine event value. Events are numbered from 1.
type Event int

// Pseudo states.
const (
	InitialState State = -1
	FinalState   State = -2
)

// Guard decides whether a transition may fire.
type Guard func(m *Machine) bool

// Hook is an action, enter, do or exit function.
type Hook func(m *Machine)

// Entry is the table value for one (state, event): a Record or Records.
type Entry interface {
	entry()
}

// Record is a single transition.
type Record struct {
	Dest   State
	Guard  Guard
	Action Hook
}

// Records is an ordered list of transitions sharing a (state, event).
// Guarded records come first; the first one whose guard passes fires.
type Records []Record

func (Record) entry()  {}
func (Records) entry() {}

// Hooks are the per-state enter, do and exit functions. Any may be nil.
type Hooks struct {
	Enter Hook
	Do    Hook
	Exit  Hook
}

// Tables describe one state machine.
type Tables struct {
	Startup     State
	States      []string // names indexed by State-1
	Events      []string // names indexed by Event-1
	Transitions map[State]map[Event]Entry
	Functions   map[State]Hooks
}

// StateName returns the printable name of s.
func (t *Tables) StateName(s State) string {
	switch s {
	case InitialState:
		return "InitialState"
	case FinalState:
		return "FinalState"
	}
	if i := int(s) - 1; i >= 0 && i < len(t.States) {
		return t.States[i]
	}
	return "State(" + strconv.Itoa(int(s)) + ")"
}

// EventName returns the printable name of e.
func (t *Tables) EventName(e Event) string {
	if i := int(e) - 1; i >= 0 && i < len(t.Events) {
		return t.Events[i]
	}
	return "Event(" + strconv.Itoa(int(e)) + ")"
}

// LookupEvent returns the event named name.
func (t *Tables) LookupEvent(name string) (Event, bool) {
	for i, n := range t.Events {
		if n == name {
			return Event(i + 1), true
		}
	}
	return 0, false
}

// LookupState returns the state named name.
func (t *Tables) LookupState(name string) (State, bool) {
	for i, n := range t.States {
		if n == name {
			return State(i + 1), true
		}
	}
	return 0, false
}
