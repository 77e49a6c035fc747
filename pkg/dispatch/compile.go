package dispatch

import (
	"fmt"

	"github.com/aretw0/crank/pkg/domain"
)

// Resolver maps function names referenced by a model to implementations.
type Resolver interface {
	Guard(name string) (Guard, bool)
	Hook(name string) (Hook, bool)
}

// CompileOptions tune Compile.
type CompileOptions struct {
	// Fallback substitutes missing functions instead of failing:
	// guards pass and hooks do nothing.
	Fallback bool
}

// Compile builds tables from a parsed model. States and events are numbered
// the way the code generators number them.
func Compile(m *domain.Model, r Resolver, opts CompileOptions) (*Tables, error) {
	if err := m.CheckRoles(); err != nil {
		return nil, err
	}
	c := compiler{model: m, resolver: r, opts: opts}

	t := &Tables{
		Startup:     State(m.StateValue(m.Startup)),
		States:      append([]string(nil), m.States...),
		Events:      append([]string(nil), m.Events...),
		Transitions: make(map[State]map[Event]Entry),
		Functions:   make(map[State]Hooks),
	}
	if m.Startup == "" {
		t.Startup = InitialState
	}

	for _, state := range m.States {
		sv := State(m.StateValue(state))
		groups := m.Outbound(state)
		if len(groups) > 0 {
			row := make(map[Event]Entry, len(groups))
			for _, g := range groups {
				entry, err := c.entry(g)
				if err != nil {
					return nil, err
				}
				row[Event(m.EventValue(g.Event))] = entry
			}
			t.Transitions[sv] = row
		}

		names, ok := m.Hooks[state]
		if !ok || names.IsZero() {
			continue
		}
		var hooks Hooks
		var err error
		if hooks.Enter, err = c.hook(names.Enter); err != nil {
			return nil, err
		}
		if hooks.Do, err = c.hook(names.Do); err != nil {
			return nil, err
		}
		if hooks.Exit, err = c.hook(names.Exit); err != nil {
			return nil, err
		}
		t.Functions[sv] = hooks
	}
	return t, nil
}

type compiler struct {
	model    *domain.Model
	resolver Resolver
	opts     CompileOptions
}

func (c *compiler) entry(g domain.EventTransitions) (Entry, error) {
	records := make(Records, 0, len(g.Transitions))
	for _, tr := range g.Transitions {
		rec, err := c.record(tr)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if g.Single() {
		return records[0], nil
	}
	return records, nil
}

func (c *compiler) record(tr domain.Transition) (Record, error) {
	rec := Record{Dest: State(c.model.StateValue(tr.To))}
	var err error
	if tr.Guarded() {
		if rec.Guard, err = c.guard(tr.Guard); err != nil {
			return Record{}, err
		}
	}
	if rec.Action, err = c.hook(tr.Action); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// guard resolves the mangled guard name. A bare negation "!X" is composed
// from X when only X is registered.
func (c *compiler) guard(g domain.Guard) (Guard, error) {
	name := g.Name()
	if c.resolver != nil {
		if fn, ok := c.resolver.Guard(name); ok {
			return fn, nil
		}
		if len(g.Tokens) == 2 && g.Tokens[0].Kind == domain.TokenNot && g.Tokens[1].Kind == domain.TokenIdent {
			if fn, ok := c.resolver.Guard(g.Tokens[1].Text); ok {
				return func(m *Machine) bool { return !fn(m) }, nil
			}
		}
	}
	if c.opts.Fallback {
		return func(*Machine) bool { return true }, nil
	}
	return nil, fmt.Errorf("guard %q: %w", name, domain.ErrUnknownFunction)
}

func (c *compiler) hook(name string) (Hook, error) {
	if name == "" {
		return nil, nil
	}
	if c.resolver != nil {
		if fn, ok := c.resolver.Hook(name); ok {
			return fn, nil
		}
	}
	if c.opts.Fallback {
		return func(*Machine) {}, nil
	}
	return nil, fmt.Errorf("function %q: %w", name, domain.ErrUnknownFunction)
}
