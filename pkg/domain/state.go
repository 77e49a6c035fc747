package domain

const (
	// PseudoState is the DSL token for both the initial and the final pseudo state.
	PseudoState = "[*]"

	// InitialState is the sentinel a "[*]" source is rewritten to.
	InitialState = "InitialState"

	// FinalState is the sentinel a "[*]" destination is rewritten to.
	FinalState = "FinalState"
)

// IsSentinel reports whether name is one of the pseudo states.
func IsSentinel(name string) bool {
	return name == InitialState || name == FinalState
}

// HookKind names one of the per-state hooks.
type HookKind string

const (
	HookEnter HookKind = "enter"
	HookDo    HookKind = "do"
	HookExit  HookKind = "exit"
)

// StateHooks holds the mangled hook function names of a state.
type StateHooks struct {
	Enter string
	Do    string
	Exit  string
}

// Get returns the hook of the given kind.
func (h StateHooks) Get(kind HookKind) string {
	switch kind {
	case HookEnter:
		return h.Enter
	case HookDo:
		return h.Do
	case HookExit:
		return h.Exit
	}
	return ""
}

// IsZero reports whether the state declares no hook at all.
func (h StateHooks) IsZero() bool {
	return h.Enter == "" && h.Do == "" && h.Exit == ""
}

// MangleHook returns the per-state identifier of a hook function.
func MangleHook(state, fn string) string {
	return state + "_" + fn
}
