package registry

import (
	"sync"

	"github.com/quillon/agentdeck/core"
)

// Registry maps agent names to implementations and keeps their descriptors in
// registration order for discovery. All methods are safe for concurrent use;
// registration mutates state and is expected to finish before workflows run.
type Registry struct {
	mu     sync.RWMutex
	agents map[string]core.Agent
	order  []core.Descriptor
}

// New constructs an empty registry.
func New() *Registry {
	return &Registry{agents: make(map[string]core.Agent)}
}

// Register adds an agent under desc.Name. It returns a DuplicateAgentError
// if the name is already taken; descriptors are immutable once accepted.
func (r *Registry) Register(desc core.Descriptor, agent core.Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.agents[desc.Name]; exists {
		return &core.DuplicateAgentError{Name: desc.Name}
	}

	r.agents[desc.Name] = agent
	r.order = append(r.order, desc)
	return nil
}

// Resolve returns the agent registered under name or an UnknownAgentError.
// The caller only borrows the reference for the duration of one step.
func (r *Registry) Resolve(name string) (core.Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	agent, ok := r.agents[name]
	if !ok {
		return nil, &core.UnknownAgentError{Name: name}
	}
	return agent, nil
}

// List returns the registered descriptors in registration order. The slice
// is a copy; callers may retain it freely.
func (r *Registry) List() []core.Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]core.Descriptor, len(r.order))
	copy(out, r.order)
	return out
}
