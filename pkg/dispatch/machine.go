package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aretw0/crank/internal/logging"
	"github.com/aretw0/crank/pkg/domain"
)

// ErrAlreadyRunning is returned when Run is called twice on one Machine.
var ErrAlreadyRunning = errors.New("machine is already running")

// Machine is a running instance of a state machine.
type Machine struct {
	id       string
	tables   *Tables
	logger   *slog.Logger
	tick     time.Duration
	data     any
	metrics  *Metrics
	observer Observer

	runs atomic.Bool
	wake chan struct{}

	mu      sync.Mutex
	current State
	queue   []Event
	running bool
	stopped bool
	paused  bool
	steps   int
	do      Hook
	gen     uint64 // bumped on every Post and control call
}

// Snapshot is a point-in-time view of a Machine.
type Snapshot struct {
	ID      string `json:"id"`
	State   string `json:"state"`
	Queued  int    `json:"queued"`
	Running bool   `json:"running"`
	Paused  bool   `json:"paused"`
	Stopped bool   `json:"stopped"`
	Final   bool   `json:"final"`
}

// New creates a Machine positioned on the startup state of t.
// Hooks are not run until Run and Start are called.
func New(t *Tables, opts ...Option) (*Machine, error) {
	if t == nil || t.Startup <= 0 {
		return nil, domain.ErrNoStartup
	}
	m := &Machine{
		tables:  t,
		logger:  logging.NewNop(),
		tick:    DefaultTick,
		wake:    make(chan struct{}, 1),
		current: t.Startup,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// ID returns the machine identifier.
func (m *Machine) ID() string { return m.id }

// Data returns the user data attached with WithData.
func (m *Machine) Data() any { return m.data }

// StateName returns the declared name of s in the tables driving m.
func (m *Machine) StateName(s State) string { return m.tables.StateName(s) }

// EventName returns the declared name of ev in the tables driving m.
func (m *Machine) EventName(ev Event) string { return m.tables.EventName(ev) }

// Current returns the current state.
func (m *Machine) Current() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Snapshot returns the observable state of m.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		ID:      m.id,
		State:   m.tables.StateName(m.current),
		Queued:  len(m.queue),
		Running: m.running,
		Paused:  m.paused,
		Stopped: m.stopped,
		Final:   m.current == FinalState,
	}
}

// Post enqueues ev. It never blocks.
func (m *Machine) Post(ev Event) {
	m.mu.Lock()
	m.queue = append(m.queue, ev)
	m.gen++
	m.mu.Unlock()
	m.signal()
}

// PostName enqueues the event called name.
func (m *Machine) PostName(name string) error {
	ev, ok := m.tables.LookupEvent(name)
	if !ok {
		return fmt.Errorf("unknown event %q", name)
	}
	m.Post(ev)
	return nil
}

// Start lets Run begin processing.
func (m *Machine) Start() {
	m.mu.Lock()
	if !m.stopped {
		m.running = true
	}
	m.gen++
	m.mu.Unlock()
	m.signal()
}

// Stop makes Run return at its next check. A stopped machine cannot restart.
func (m *Machine) Stop() {
	m.mu.Lock()
	m.running = false
	m.stopped = true
	m.gen++
	m.mu.Unlock()
	m.signal()
}

// Pause suspends processing until Resume or Step.
func (m *Machine) Pause() {
	m.mu.Lock()
	m.paused = true
	m.gen++
	m.mu.Unlock()
	m.signal()
}

// Resume continues processing after Pause.
func (m *Machine) Resume() {
	m.mu.Lock()
	m.paused = false
	m.steps = 0
	m.gen++
	m.mu.Unlock()
	m.signal()
}

// Step grants a paused machine exactly one event or do invocation.
func (m *Machine) Step() {
	m.mu.Lock()
	if m.paused {
		m.steps++
	}
	m.gen++
	m.mu.Unlock()
	m.signal()
}

func (m *Machine) signal() {
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// wait blocks until a control change, ctx cancellation or, when d > 0,
// the elapse of d. It reports false when ctx is done.
func (m *Machine) wait(ctx context.Context, d time.Duration) bool {
	var timeout <-chan time.Time
	if d > 0 {
		t := time.NewTimer(d)
		defer t.Stop()
		timeout = t.C
	}
	select {
	case <-ctx.Done():
		return false
	case <-m.wake:
	case <-timeout:
	}
	return true
}

// idle waits for d after a do invocation. Wake tokens left over from calls
// made before gen was read do not end the wait.
func (m *Machine) idle(ctx context.Context, d time.Duration, gen uint64) {
	t := time.NewTimer(d)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			return
		case <-m.wake:
		}
		m.mu.Lock()
		changed := m.gen != gen
		m.mu.Unlock()
		if changed {
			return
		}
	}
}

// drain drops a pending wake token without blocking.
func (m *Machine) drain() {
	select {
	case <-m.wake:
	default:
	}
}

func (m *Machine) awaitStart(ctx context.Context) bool {
	for {
		m.mu.Lock()
		stopped, running := m.stopped, m.running
		m.mu.Unlock()
		if stopped {
			return false
		}
		if running {
			m.drain()
			return true
		}
		if !m.wait(ctx, 0) {
			return false
		}
	}
}

// Run executes the machine until it reaches FinalState, Stop is called or
// ctx is done. It blocks until Start is called.
func (m *Machine) Run(ctx context.Context) error {
	if !m.runs.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	if !m.awaitStart(ctx) {
		return ctx.Err()
	}

	m.logger.Info("machine started", "machine", m.id, "state", m.tables.StateName(m.tables.Startup))
	m.enter(m.tables.Startup)

	for {
		m.mu.Lock()
		if m.stopped || m.current == FinalState || ctx.Err() != nil {
			final := m.current == FinalState
			m.mu.Unlock()
			if final {
				m.logger.Info("machine finished", "machine", m.id)
			}
			return ctx.Err()
		}
		if m.paused && m.steps == 0 {
			m.mu.Unlock()
			m.wait(ctx, 0)
			continue
		}
		if len(m.queue) > 0 {
			ev := m.queue[0]
			m.queue = m.queue[1:]
			m.consumeStep()
			m.mu.Unlock()
			m.dispatch(ev)
			continue
		}
		do := m.do
		if do == nil {
			m.mu.Unlock()
			m.wait(ctx, 0)
			continue
		}
		m.consumeStep()
		state, gen := m.current, m.gen
		m.mu.Unlock()

		do(m)
		m.metrics.observeDo(m.id, m.tables.StateName(state))
		m.idle(ctx, m.tick, gen)
	}
}

// consumeStep must be called with mu held.
func (m *Machine) consumeStep() {
	if m.paused && m.steps > 0 {
		m.steps--
	}
}

// resolve selects the record that fires for ev in state from.
func (m *Machine) resolve(from State, ev Event) (Record, Outcome) {
	entry, ok := m.tables.Transitions[from][ev]
	if !ok || entry == nil {
		return Record{}, OutcomeIgnored
	}
	switch e := entry.(type) {
	case Record:
		if e.Guard != nil && !e.Guard(m) {
			return Record{}, OutcomeRejected
		}
		return e, OutcomeFired
	case Records:
		if len(e) == 0 {
			return Record{}, OutcomeIgnored
		}
		for _, r := range e {
			if r.Guard == nil || r.Guard(m) {
				return r, OutcomeFired
			}
		}
		return Record{}, OutcomeRejected
	}
	return Record{}, OutcomeIgnored
}

func (m *Machine) dispatch(ev Event) {
	from := m.Current()
	event := m.tables.EventName(ev)

	rec, outcome := Record{}, OutcomeIgnored
	if from != FinalState {
		rec, outcome = m.resolve(from, ev)
	}
	m.metrics.observeEvent(m.id, event, outcome)

	if outcome != OutcomeFired {
		m.logger.Debug("event not handled", "machine", m.id, "event", event, "state", m.tables.StateName(from), "outcome", outcome)
		if m.observer.OnIgnored != nil {
			m.observer.OnIgnored(&IgnoredEvent{
				Timestamp: time.Now(),
				Machine:   m.id,
				Event:     event,
				State:     m.tables.StateName(from),
				Outcome:   outcome,
			})
		}
		return
	}

	if exit := m.tables.Functions[from].Exit; exit != nil {
		exit(m)
	}
	if rec.Action != nil {
		rec.Action(m)
	}
	m.mu.Lock()
	m.current = rec.Dest
	m.do = nil
	m.mu.Unlock()
	m.enter(rec.Dest)

	fromName, toName := m.tables.StateName(from), m.tables.StateName(rec.Dest)
	m.metrics.observeTransition(m.id, fromName, toName)
	m.logger.Debug("transition", "machine", m.id, "event", event, "from", fromName, "to", toName)
	if m.observer.OnTransition != nil {
		m.observer.OnTransition(&TransitionEvent{
			Timestamp: time.Now(),
			Machine:   m.id,
			Event:     event,
			From:      fromName,
			To:        toName,
		})
	}
}

// enter runs the enter hook of s and installs its do hook.
func (m *Machine) enter(s State) {
	hooks := m.tables.Functions[s]
	if hooks.Enter != nil {
		hooks.Enter(m)
	}
	m.mu.Lock()
	m.do = hooks.Do
	m.mu.Unlock()
}
