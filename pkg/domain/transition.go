package domain

// Transition is one DSL transition directive after canonicalization.
// Several transitions may share (From, Event); they are never merged.
type Transition struct {
	From   string
	To     string
	Event  string
	Guard  Guard  // zero when unguarded
	Action string // empty when the transition has no action
	Line   int    // 1-based host line, 0 when built programmatically
}

// Guarded reports whether the transition carries a guard.
func (t Transition) Guarded() bool { return !t.Guard.IsZero() }

// GuardName returns the guard function identifier, or "" when unguarded.
func (t Transition) GuardName() string {
	if t.Guard.IsZero() {
		return ""
	}
	return t.Guard.Name()
}

// EventTransitions groups the transitions a state takes on one event.
// Guarded transitions come first, each half keeping declaration order.
type EventTransitions struct {
	Event       string
	Transitions []Transition
}

// Single reports whether the group is emitted as a scalar record.
func (g EventTransitions) Single() bool { return len(g.Transitions) == 1 }
