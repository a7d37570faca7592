package core

import "context"

// Descriptor carries the immutable identity and discovery metadata of a
// registered agent. Capabilities are descriptive only; the engine never
// enforces them.
type Descriptor struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Capabilities []string `json:"capabilities"`
}

// Agent is the capability contract every workflow worker implements.
//
// Invoke receives the step's input merged with the most recent step output
// (step input wins on key collision) plus a read-only view of all prior
// results, and returns the step's output payload or an error. Agents may
// block on I/O; implementations must respect ctx cancellation where they can.
// The engine never inspects an agent's error beyond its message — wrap
// whatever detail matters into the returned error.
type Agent interface {
	Invoke(ctx context.Context, input Payload, results *StepResults) (Payload, error)
}

// AgentFunc adapts a plain function to the Agent interface.
type AgentFunc func(ctx context.Context, input Payload, results *StepResults) (Payload, error)

// Invoke implements Agent.
func (f AgentFunc) Invoke(ctx context.Context, input Payload, results *StepResults) (Payload, error) {
	return f(ctx, input, results)
}
