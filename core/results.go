package core

// StepResults accumulates the outputs of completed steps within one workflow
// run. The executing runner owns it exclusively and records each output as
// the step finishes; agents receive it as a read-only view of prior results.
// It is never shared across concurrent runs, so no locking is required —
// steps within a run execute strictly sequentially.
type StepResults struct {
	outputs map[int]Payload
	latest  Payload
	count   int
}

// NewStepResults returns an empty accumulator for a fresh run.
func NewStepResults() *StepResults {
	return &StepResults{outputs: make(map[int]Payload)}
}

// Record stores the output of the step at index and promotes it to the most
// recent output. The payload is cloned so later agent mutations of their own
// input cannot alias recorded history.
func (r *StepResults) Record(index int, output Payload) {
	cloned := output.Clone()
	r.outputs[index] = cloned
	r.latest = cloned
	r.count++
}

// Latest returns the output of the most recently completed step, or nil when
// no step has completed yet.
func (r *StepResults) Latest() Payload { return r.latest }

// Output returns the output recorded for the step at index.
func (r *StepResults) Output(index int) (Payload, bool) {
	p, ok := r.outputs[index]
	return p, ok
}

// Len reports how many step outputs have been recorded.
func (r *StepResults) Len() int { return r.count }
