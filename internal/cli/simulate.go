package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/crank/internal/logging"
	"github.com/aretw0/crank/pkg/dispatch"
	"github.com/aretw0/crank/pkg/domain"
	"github.com/aretw0/crank/pkg/registry"
)

// ParseGuards reads "Name=bool" assignments as given to --guard.
func ParseGuards(args []string) (map[string]bool, error) {
	out := make(map[string]bool, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid guard %q, want Name=true|false", arg)
		}
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("invalid guard %q: %w", arg, err)
		}
		out[name] = b
	}
	return out, nil
}

// SimRegistry registers a stand-in for every function referenced by m.
// Guards return the value assigned in guards, true by default. Hooks print
// one line per call to out, except do hooks which only log at debug level.
// The stand-ins run on the machine goroutine and share out without locking.
func SimRegistry(m *domain.Model, guards map[string]bool, out io.Writer, logger *slog.Logger) *registry.Registry {
	if logger == nil {
		logger = logging.NewNop()
	}
	reg := registry.NewRegistry()

	for _, fn := range m.Functions() {
		name := fn.Name
		switch fn.Role {
		case domain.RoleGuard:
			value, ok := guards[name]
			if !ok {
				value = true
			}
			reg.RegisterGuard(name, func(mc *dispatch.Machine) bool {
				fmt.Fprintf(out, "  guard  %s = %t\n", name, value)
				return value
			})
		case domain.RoleDo:
			reg.RegisterHook(name, func(mc *dispatch.Machine) {
				logger.Debug("do hook", "func", name, "state", mc.StateName(mc.Current()))
			})
		default:
			role := fn.Role
			reg.RegisterHook(name, func(mc *dispatch.Machine) {
				fmt.Fprintf(out, "  %-6s %s\n", role, name)
			})
		}
	}
	logger.Debug("stand-in functions registered", "names", reg.Names())
	return reg
}

// SimOptions configure Simulate.
type SimOptions struct {
	Model   *domain.Model
	Events  []string
	Guards  map[string]bool
	Tick    time.Duration
	Out     io.Writer
	Logger  *slog.Logger
	Metrics *dispatch.Metrics
	// Observer receives every callback after it is printed.
	Observer dispatch.Observer
	// Feed, when set, keeps the machine running after Events and lets the
	// caller post more events until ctx is done.
	Feed func(ctx context.Context, m *dispatch.Machine) error
}

// Simulate compiles the model against stand-in functions, posts the events
// in order and prints every hook and transition. Without Feed it returns
// once all events are handled or the machine reaches its final state.
func Simulate(ctx context.Context, opts SimOptions) (dispatch.State, error) {
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	reg := SimRegistry(opts.Model, opts.Guards, opts.Out, opts.Logger)
	tables, err := dispatch.Compile(opts.Model, reg, dispatch.CompileOptions{})
	if err != nil {
		return 0, err
	}

	// Without Feed every posted event yields exactly one callback, which is
	// how completion is detected.
	handled := make(chan struct{}, len(opts.Events)+1)
	track := func() {
		if opts.Feed == nil {
			handled <- struct{}{}
		}
	}
	observer := dispatch.Observer{
		OnTransition: func(e *dispatch.TransitionEvent) {
			fmt.Fprintf(opts.Out, "%s: %s -> %s\n", e.Event, e.From, e.To)
			if opts.Observer.OnTransition != nil {
				opts.Observer.OnTransition(e)
			}
			track()
		},
		OnIgnored: func(e *dispatch.IgnoredEvent) {
			fmt.Fprintf(opts.Out, "%s: %s in %s\n", e.Event, e.Outcome, e.State)
			if opts.Observer.OnIgnored != nil {
				opts.Observer.OnIgnored(e)
			}
			track()
		},
	}

	mopts := []dispatch.Option{
		dispatch.WithID("sim"),
		dispatch.WithLogger(opts.Logger),
		dispatch.WithTick(opts.Tick),
		dispatch.WithObserver(observer),
	}
	if opts.Metrics != nil {
		mopts = append(mopts, dispatch.WithMetrics(opts.Metrics))
	}
	m, err := dispatch.New(tables, mopts...)
	if err != nil {
		return 0, err
	}
	for _, name := range opts.Events {
		if err := m.PostName(name); err != nil {
			return 0, err
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()
	fmt.Fprintf(opts.Out, "start: %s\n", tables.StateName(tables.Startup))
	m.Start()

	finish := func(err error) (dispatch.State, error) {
		final := m.Current()
		fmt.Fprintf(opts.Out, "end: %s\n", tables.StateName(final))
		return final, err
	}

	if opts.Feed != nil {
		feedErr := make(chan error, 1)
		go func() { feedErr <- opts.Feed(ctx, m) }()
		select {
		case err := <-done:
			return finish(ignoreCanceled(err))
		case err := <-feedErr:
			m.Stop()
			<-done
			return finish(err)
		}
	}

	for seen := 0; seen < len(opts.Events); {
		select {
		case <-handled:
			seen++
		case err := <-done:
			return finish(ignoreCanceled(err))
		}
	}
	m.Stop()
	return finish(ignoreCanceled(<-done))
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
