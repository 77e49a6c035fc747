package compiler

import (
	"log/slog"

	"github.com/aretw0/crank/internal/logging"
	"github.com/aretw0/crank/pkg/domain"
)

// Builder accumulates classified directives into a Model.
type Builder struct {
	model  *domain.Model
	logger *slog.Logger
}

// NewBuilder creates a builder. A nil logger discards warnings.
func NewBuilder(logger *slog.Logger) *Builder {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Builder{model: domain.NewModel(), logger: logger}
}

// Model returns the model built so far.
func (b *Builder) Model() *domain.Model {
	return b.model
}

// Add feeds one directive found at the given 1-based host line.
// Inconsistent directives are logged and skipped; only an untokenizable
// guard is an error.
func (b *Builder) Add(line int, d Directive) error {
	switch d.Kind {
	case KindTransition:
		return b.addTransition(line, d)
	case KindHook:
		if !b.model.SetHook(d.From, d.Hook, d.Func) {
			b.logger.Warn("duplicate state hook skipped",
				"line", line, "state", d.From, "hook", string(d.Hook), "func", d.Func)
		}
	}
	return nil
}

func (b *Builder) addTransition(line int, d Directive) error {
	from, to := d.From, d.To
	if from == domain.PseudoState {
		from = domain.InitialState
	}
	if to == domain.PseudoState {
		to = domain.FinalState
	}

	if from == domain.InitialState {
		b.setStartup(line, to, d)
		return nil
	}

	if d.Event == "" {
		b.model.AddState(from)
		b.model.AddState(to)
		b.logger.Warn("transition without event skipped", "line", line, "from", from, "to", to)
		return nil
	}

	t := domain.Transition{From: from, To: to, Event: d.Event, Action: d.Func, Line: line}
	if d.Guard != "" {
		g, err := domain.ParseGuard(d.Guard)
		if err != nil {
			return &domain.ParseError{Line: line, Text: d.Guard, Reason: err.Error()}
		}
		t.Guard = g
	}
	b.model.AddTransition(t)
	return nil
}

func (b *Builder) setStartup(line int, to string, d Directive) {
	if to == domain.FinalState {
		b.logger.Warn("initial transition into final state skipped", "line", line)
		return
	}
	b.model.AddState(to)
	if d.Event != "" || d.Guard != "" || d.Func != "" {
		b.logger.Warn("event, guard and action on the initial transition are ignored",
			"line", line, "event", d.Event, "guard", d.Guard, "func", d.Func)
	}
	switch b.model.Startup {
	case "":
		b.model.Startup = to
	case to:
	default:
		b.logger.Warn("conflicting startup state skipped",
			"line", line, "startup", b.model.Startup, "ignored", to)
	}
}
