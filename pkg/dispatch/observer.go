package dispatch

import "time"

// Outcome classifies how an event was handled.
type Outcome string

const (
	OutcomeFired    Outcome = "fired"
	OutcomeIgnored  Outcome = "ignored"  // no entry for (state, event)
	OutcomeRejected Outcome = "rejected" // every guard returned false
)

// TransitionEvent describes a fired transition.
type TransitionEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Machine   string    `json:"machine"`
	Event     string    `json:"event"`
	From      string    `json:"from"`
	To        string    `json:"to"`
}

// IgnoredEvent describes an event that caused no transition.
type IgnoredEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Machine   string    `json:"machine"`
	Event     string    `json:"event"`
	State     string    `json:"state"`
	Outcome   Outcome   `json:"outcome"`
}

// Observer defines callbacks for machine observability.
// Callbacks run on the Run goroutine and must not block.
type Observer struct {
	OnTransition func(*TransitionEvent)
	OnIgnored    func(*IgnoredEvent)
}
