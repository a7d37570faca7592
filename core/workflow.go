package core

// StepKind categorizes a workflow step. The set is open: the engine treats
// the kind as opaque metadata and executes every step the same way.
type StepKind string

const (
	// StepKindProcess marks a data processing step.
	StepKindProcess StepKind = "process"
	// StepKindReport marks a report generating step.
	StepKindReport StepKind = "report"
)

// Step is one workflow element: the target agent by registered name, the
// input payload and the step kind. Steps are immutable once submitted.
type Step struct {
	Agent string   `json:"agent"`
	Input Payload  `json:"input"`
	Kind  StepKind `json:"type"`
}

// Workflow is an ordered, non-empty sequence of steps submitted for a single
// execution. A workflow exists only for the duration of its run; it is never
// persisted. The JSON shape matches the submission message
// {"steps":[{"agent":...,"input":...,"type":...}]}.
type Workflow struct {
	Steps []Step `json:"steps"`
}
