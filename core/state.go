package core

import "fmt"

// RunState tracks the lifecycle of one workflow run:
// Pending -> Running -> {Completed, Failed}.
type RunState int

const (
	// RunPending is the state after construction with a validated workflow.
	RunPending RunState = iota
	// RunRunning is the state while steps execute.
	RunRunning
	// RunCompleted is the terminal state after all steps succeeded.
	RunCompleted
	// RunFailed is the terminal state after validation-free failures:
	// a step error, a timeout or cancellation.
	RunFailed
)

// String returns the lower-case state name.
func (s RunState) String() string {
	switch s {
	case RunPending:
		return "pending"
	case RunRunning:
		return "running"
	case RunCompleted:
		return "completed"
	case RunFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state name for JSON payloads.
func (s RunState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText decodes a state name produced by MarshalText.
func (s *RunState) UnmarshalText(text []byte) error {
	switch string(text) {
	case "pending":
		*s = RunPending
	case "running":
		*s = RunRunning
	case "completed":
		*s = RunCompleted
	case "failed":
		*s = RunFailed
	default:
		return fmt.Errorf("unknown run state %q", text)
	}
	return nil
}

// Terminal reports whether the state is final.
func (s RunState) Terminal() bool { return s == RunCompleted || s == RunFailed }
