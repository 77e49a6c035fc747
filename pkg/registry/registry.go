package registry

import (
	"sort"
	"sync"

	"github.com/aretw0/crank/pkg/dispatch"
)

// Registry maps function names referenced by a DSL block to Go closures.
// It implements dispatch.Resolver.
type Registry struct {
	mu     sync.RWMutex
	guards map[string]dispatch.Guard
	hooks  map[string]dispatch.Hook
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		guards: make(map[string]dispatch.Guard),
		hooks:  make(map[string]dispatch.Hook),
	}
}

// RegisterGuard adds a guard under its mangled name, e.g. "NOT_Stopping".
// If a guard with the same name exists, it is overwritten.
func (r *Registry) RegisterGuard(name string, fn dispatch.Guard) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.guards[name] = fn
}

// RegisterHook adds an action or a per-state hook. Per-state hooks use
// their mangled name, e.g. "Thinking_Think".
func (r *Registry) RegisterHook(name string, fn dispatch.Hook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks[name] = fn
}

// Guard implements dispatch.Resolver.
func (r *Registry) Guard(name string) (dispatch.Guard, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.guards[name]
	return fn, ok
}

// Hook implements dispatch.Resolver.
func (r *Registry) Hook(name string) (dispatch.Hook, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.hooks[name]
	return fn, ok
}

// Names returns every registered name, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.guards)+len(r.hooks))
	for n := range r.guards {
		names = append(names, n)
	}
	for n := range r.hooks {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
