package core

import (
	"time"

	"github.com/google/uuid"
)

// EventType discriminates the event variants streamed to a workflow observer.
type EventType string

const (
	// EventStarted signals that the step at StepIndex began executing.
	EventStarted EventType = "started"
	// EventStepResult carries the output of a successfully completed step.
	EventStepResult EventType = "step_result"
	// EventStepError carries the failure of a single step.
	EventStepError EventType = "step_error"
	// EventCompleted is the terminal success event with the final output.
	EventCompleted EventType = "completed"
	// EventFailed is the terminal failure event for the whole run.
	EventFailed EventType = "failed"
)

// Event is one ordered signal emitted during a workflow run. After emission
// it is immutable. Events for a run are delivered to its observer in the
// exact order steps execute, at most once each; every run terminates with
// exactly one EventCompleted or EventFailed.
type Event struct {
	ID        string    `json:"id"`
	RunID     string    `json:"run_id"`
	Type      EventType `json:"type"`
	StepIndex *int      `json:"step_index,omitempty"`
	Output    Payload   `json:"output,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewID generates a unique identifier for events and runs.
func NewID() string { return uuid.NewString() }

func newEvent(runID string, t EventType) Event {
	return Event{
		ID:        NewID(),
		RunID:     runID,
		Type:      t,
		Timestamp: time.Now().UTC(),
	}
}

// NewStartedEvent signals the beginning of the step at index.
func NewStartedEvent(runID string, index int) Event {
	e := newEvent(runID, EventStarted)
	e.StepIndex = &index
	return e
}

// NewStepResultEvent carries the output of the completed step at index.
func NewStepResultEvent(runID string, index int, output Payload) Event {
	e := newEvent(runID, EventStepResult)
	e.StepIndex = &index
	e.Output = output
	return e
}

// NewStepErrorEvent records the failure of the step at index.
func NewStepErrorEvent(runID string, index int, err error) Event {
	e := newEvent(runID, EventStepError)
	e.StepIndex = &index
	e.Error = err.Error()
	return e
}

// NewCompletedEvent is the terminal success event; finalOutput is the output
// of the last successful step.
func NewCompletedEvent(runID string, finalOutput Payload) Event {
	e := newEvent(runID, EventCompleted)
	e.Output = finalOutput
	return e
}

// NewFailedEvent is the terminal failure event for the run.
func NewFailedEvent(runID string, err error) Event {
	e := newEvent(runID, EventFailed)
	e.Error = err.Error()
	return e
}

// IsTerminal reports whether this event ends the run's event stream.
func (e Event) IsTerminal() bool {
	return e.Type == EventCompleted || e.Type == EventFailed
}
