package core

import "fmt"

// DuplicateAgentError is returned by registration when the agent name is
// already taken. Registration happens at startup, so hitting this error
// indicates a wiring mistake rather than a runtime condition.
type DuplicateAgentError struct {
	Name string
}

func (e *DuplicateAgentError) Error() string {
	return fmt.Sprintf("agent %q is already registered", e.Name)
}

// UnknownAgentError is returned when a step references an agent name that
// does not resolve in the registry. A missing agent is a configuration error,
// not a retryable condition; the engine fails fast on it.
type UnknownAgentError struct {
	Name string
}

func (e *UnknownAgentError) Error() string {
	return fmt.Sprintf("unknown agent %q", e.Name)
}

// ValidationError rejects a submission before execution starts. The caller
// receives it synchronously; no run is created and no events are emitted.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid workflow: %s", e.Reason)
}

// AgentError wraps a failure raised by an agent during Invoke. The engine
// only ever surfaces the agent name and message; agent-internal error types
// never cross the engine boundary. Timeout marks per-step timeouts, which
// the runner treats exactly like any other agent failure.
type AgentError struct {
	Agent   string
	Cause   error
	Timeout bool
}

func (e *AgentError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("agent %q timed out: %v", e.Agent, e.Cause)
	}
	return fmt.Sprintf("agent %q failed: %v", e.Agent, e.Cause)
}

func (e *AgentError) Unwrap() error { return e.Cause }

// NewAgentError wraps an agent failure.
func NewAgentError(agent string, cause error) *AgentError {
	return &AgentError{Agent: agent, Cause: cause}
}

// NewTimeoutError wraps a per-step timeout as an agent failure.
func NewTimeoutError(agent string, cause error) *AgentError {
	return &AgentError{Agent: agent, Cause: cause, Timeout: true}
}
