package dispatch

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the dispatch counters. A nil *Metrics records nothing.
type Metrics struct {
	Events      *prometheus.CounterVec
	Transitions *prometheus.CounterVec
	Dos         *prometheus.CounterVec
}

// NewMetrics creates the dispatch counters and registers them with reg
// when reg is not nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crank_dispatch_events_total",
				Help: "Total number of events processed, by outcome",
			},
			[]string{"machine", "event", "outcome"},
		),
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crank_dispatch_transitions_total",
				Help: "Total number of fired transitions",
			},
			[]string{"machine", "from", "to"},
		),
		Dos: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crank_dispatch_do_total",
				Help: "Total number of do hook invocations",
			},
			[]string{"machine", "state"},
		),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.Events, m.Transitions, m.Dos} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observeEvent(machine, event string, outcome Outcome) {
	if m == nil {
		return
	}
	m.Events.WithLabelValues(machine, event, string(outcome)).Inc()
}

func (m *Metrics) observeTransition(machine, from, to string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(machine, from, to).Inc()
}

func (m *Metrics) observeDo(machine, state string) {
	if m == nil {
		return
	}
	m.Dos.WithLabelValues(machine, state).Inc()
}
