package dispatch

import (
	"log/slog"
	"time"
)

// DefaultTick is the pause between two invocations of a do hook.
const DefaultTick = 100 * time.Millisecond

// Option defines a functional option for configuring a Machine.
type Option func(*Machine)

// WithID sets the machine identifier used in logs and metrics.
func WithID(id string) Option {
	return func(m *Machine) {
		m.id = id
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithTick sets the idle interval between do invocations.
// Non-positive values are ignored.
func WithTick(d time.Duration) Option {
	return func(m *Machine) {
		if d > 0 {
			m.tick = d
		}
	}
}

// WithData attaches user data, available to hooks through Machine.Data.
func WithData(data any) Option {
	return func(m *Machine) {
		m.data = data
	}
}

// WithMetrics records dispatch counters into metrics.
func WithMetrics(metrics *Metrics) Option {
	return func(m *Machine) {
		m.metrics = metrics
	}
}

// WithObserver registers lifecycle callbacks.
func WithObserver(o Observer) Option {
	return func(m *Machine) {
		m.observer = o
	}
}
