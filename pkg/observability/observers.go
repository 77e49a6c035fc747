package observability

import (
	"log/slog"

	"github.com/aretw0/crank/pkg/dispatch"
)

// Combine returns an observer calling every given observer in order.
// Nil callbacks are skipped.
func Combine(observers ...dispatch.Observer) dispatch.Observer {
	return dispatch.Observer{
		OnTransition: func(e *dispatch.TransitionEvent) {
			for _, o := range observers {
				if o.OnTransition != nil {
					o.OnTransition(e)
				}
			}
		},
		OnIgnored: func(e *dispatch.IgnoredEvent) {
			for _, o := range observers {
				if o.OnIgnored != nil {
					o.OnIgnored(e)
				}
			}
		},
	}
}

// LogObserver logs fired transitions at info level and unhandled events at
// warn level.
func LogObserver(logger *slog.Logger) dispatch.Observer {
	return dispatch.Observer{
		OnTransition: func(e *dispatch.TransitionEvent) {
			logger.Info("transition", "machine", e.Machine, "event", e.Event, "from", e.From, "to", e.To)
		},
		OnIgnored: func(e *dispatch.IgnoredEvent) {
			logger.Warn("event not handled", "machine", e.Machine, "event", e.Event, "state", e.State, "outcome", string(e.Outcome))
		},
	}
}
