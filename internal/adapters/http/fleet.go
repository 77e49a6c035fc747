package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/aretw0/crank/internal/logging"
	"github.com/aretw0/crank/pkg/dispatch"
)

// ErrMachineNotFound is returned for unknown machine IDs.
var ErrMachineNotFound = errors.New("machine not found")

// Factory builds a new machine carrying the given ID.
type Factory func(id string) (*dispatch.Machine, error)

// Fleet owns a set of machines, each driven by its own Run goroutine.
type Fleet struct {
	ctx     context.Context
	factory Factory
	logger  *slog.Logger

	mu       sync.RWMutex
	machines map[string]*dispatch.Machine
	order    []string
	wg       sync.WaitGroup
}

// NewFleet creates an empty fleet. Machines stop when ctx is done.
func NewFleet(ctx context.Context, factory Factory, logger *slog.Logger) *Fleet {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Fleet{
		ctx:      ctx,
		factory:  factory,
		logger:   logger,
		machines: make(map[string]*dispatch.Machine),
	}
}

// Spawn creates a machine under a fresh UUID and launches its Run loop.
// The machine waits for Start before processing events.
func (f *Fleet) Spawn() (*dispatch.Machine, error) {
	id := uuid.NewString()
	m, err := f.factory(id)
	if err != nil {
		return nil, fmt.Errorf("failed to create machine: %w", err)
	}

	f.mu.Lock()
	f.machines[id] = m
	f.order = append(f.order, id)
	f.mu.Unlock()

	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		if err := m.Run(f.ctx); err != nil && !errors.Is(err, context.Canceled) {
			f.logger.Error("machine stopped", "machine", id, "error", err)
			return
		}
		f.logger.Info("machine stopped", "machine", id)
	}()
	return m, nil
}

// Get returns the machine with the given ID.
func (f *Fleet) Get(id string) (*dispatch.Machine, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	m, ok := f.machines[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMachineNotFound, id)
	}
	return m, nil
}

// List returns a snapshot of every machine in creation order.
func (f *Fleet) List() []dispatch.Snapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]dispatch.Snapshot, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.machines[id].Snapshot())
	}
	return out
}

// Shutdown stops every machine and waits for their Run loops to return.
func (f *Fleet) Shutdown() {
	f.mu.RLock()
	for _, m := range f.machines {
		m.Stop()
	}
	f.mu.RUnlock()
	f.wg.Wait()
}
