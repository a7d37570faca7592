package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/quillon/agentdeck/core"
	"github.com/quillon/agentdeck/history"
	"github.com/quillon/agentdeck/logging"
	"github.com/quillon/agentdeck/registry"
	"github.com/quillon/agentdeck/stream"
	"github.com/quillon/agentdeck/telemetry"
)

const instrumentationName = "github.com/quillon/agentdeck/runner"

// Options holds configuration overrides passed to New().
type Options struct {
	// StepTimeout bounds a single agent invocation. Zero means no timeout;
	// the engine never imposes one unless configured.
	StepTimeout time.Duration
	// EventBufferSize sets the per-run event channel buffer.
	EventBufferSize int
	// History receives run records as they execute. Nil disables recording.
	History *history.Store
	// Logger defaults to NoOpLogger.
	Logger logging.Logger
}

// Runner validates and executes workflows. Each submitted workflow runs on
// its own goroutine with an exclusively owned StepResults accumulator, so
// concurrent runs never share mutable state; the registry is the only shared
// dependency and is read-only at execution time. Public methods are safe for
// concurrent use.
type Runner struct {
	registry        *registry.Registry
	stepTimeout     time.Duration
	eventBufferSize int
	history         *history.Store
	logger          logging.Logger
	tracer          trace.Tracer
	stepCounter     metric.Int64Counter

	mu         sync.RWMutex
	activeRuns map[string]*run
}

type run struct {
	cancel context.CancelFunc
	state  core.RunState
}

// New constructs a Runner with optional overrides.
func New(reg *registry.Registry, optFns ...func(o *Options)) *Runner {
	opts := Options{
		EventBufferSize: 64,
		Logger:          logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	stepCounter, err := otel.Meter(instrumentationName).Int64Counter(
		"agentdeck.steps.executed",
		metric.WithDescription("Number of workflow steps executed"),
	)
	if err != nil {
		opts.Logger.Warn("failed to create step counter", "error", err)
	}

	return &Runner{
		registry:        reg,
		stepTimeout:     opts.StepTimeout,
		eventBufferSize: opts.EventBufferSize,
		history:         opts.History,
		logger:          opts.Logger,
		tracer:          otel.Tracer(instrumentationName),
		stepCounter:     stepCounter,
		activeRuns:      make(map[string]*run),
	}
}

// Submit validates the workflow and, if it is well formed, starts executing
// it asynchronously. It returns the run ID and the ordered event stream; the
// stream closes after the terminal completed or failed event.
//
// Validation is synchronous: an empty workflow or a step referencing an
// unregistered agent is rejected with a ValidationError or UnknownAgentError
// before any run state exists, and zero events are emitted.
func (r *Runner) Submit(ctx context.Context, wf core.Workflow) (string, <-chan core.Event, error) {
	if err := r.validate(wf); err != nil {
		return "", nil, err
	}

	runID := core.NewID()
	ch := stream.NewChannel(r.eventBufferSize)

	runCtx, cancel := context.WithCancel(ctx)
	r.mu.Lock()
	r.activeRuns[runID] = &run{cancel: cancel, state: core.RunPending}
	r.mu.Unlock()

	if r.history != nil {
		r.history.Begin(runID, len(wf.Steps))
	}

	r.logger.Info("workflow submitted", "run_id", runID, "steps", len(wf.Steps))

	go r.execute(runCtx, runID, wf, ch)

	return runID, ch.Events(), nil
}

// Agents lists the registered agent descriptors in registration order.
func (r *Runner) Agents() []core.Descriptor {
	return r.registry.List()
}

// Cancel requests cooperative termination of an in-flight run. Cancelling an
// unknown or already finished run returns an error describing the condition.
func (r *Runner) Cancel(runID string) error {
	r.mu.RLock()
	active, ok := r.activeRuns[runID]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("no active run with id %q", runID)
	}
	active.cancel()
	return nil
}

// State reports the lifecycle state of an in-flight run. Finished runs are
// only tracked by the history store.
func (r *Runner) State(runID string) (core.RunState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	active, ok := r.activeRuns[runID]
	if !ok {
		return 0, false
	}
	return active.state, true
}

func (r *Runner) validate(wf core.Workflow) error {
	if len(wf.Steps) == 0 {
		return &core.ValidationError{Reason: "workflow has no steps"}
	}
	for i, step := range wf.Steps {
		if step.Agent == "" {
			return &core.ValidationError{Reason: fmt.Sprintf("step %d has no agent name", i)}
		}
		if _, err := r.registry.Resolve(step.Agent); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) setState(runID string, state core.RunState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if active, ok := r.activeRuns[runID]; ok {
		active.state = state
	}
}

// execute drives the run state machine: Running, then one started/result (or
// error) pair per step in order, then the terminal event. It owns the event
// channel and always closes it.
func (r *Runner) execute(ctx context.Context, runID string, wf core.Workflow, ch *stream.Channel) {
	defer ch.Close()
	defer func() {
		r.mu.Lock()
		delete(r.activeRuns, runID)
		r.mu.Unlock()
	}()

	ctx, span := r.tracer.Start(ctx, "workflow.run", trace.WithAttributes(
		attribute.String(telemetry.AttrRunID, runID),
		attribute.Int(telemetry.AttrStepCount, len(wf.Steps)),
	))
	defer span.End()

	r.setState(runID, core.RunRunning)
	results := core.NewStepResults()

	for i, step := range wf.Steps {
		// Validation already resolved every step, but the registry could in
		// principle change between submit and execution. A missing agent here
		// is a configuration error: fail the whole run immediately.
		agent, err := r.registry.Resolve(step.Agent)
		if err != nil {
			r.fail(runID, span, ch, err)
			return
		}

		r.emit(ch, core.NewStartedEvent(runID, i))

		output, err := r.invokeStep(ctx, runID, i, step, agent, results)
		if err != nil {
			r.emit(ch, core.NewStepErrorEvent(runID, i, err))
			r.fail(runID, span, ch, err)
			return
		}

		results.Record(i, output)
		r.emit(ch, core.NewStepResultEvent(runID, i, output))
	}

	r.setState(runID, core.RunCompleted)
	span.SetStatus(codes.Ok, "")
	r.emit(ch, core.NewCompletedEvent(runID, results.Latest()))
	r.logger.Info("workflow completed", "run_id", runID, "steps", len(wf.Steps))
}

func (r *Runner) fail(runID string, span trace.Span, ch *stream.Channel, err error) {
	r.setState(runID, core.RunFailed)
	span.SetStatus(codes.Error, err.Error())
	r.emit(ch, core.NewFailedEvent(runID, err))
	r.logger.Warn("workflow failed", "run_id", runID, "error", err)
}

type invokeResult struct {
	output core.Payload
	err    error
}

// invokeStep runs one agent invocation with the step input merged over the
// current context (step input wins on key collision). The invocation itself
// is the only suspension point of a run: the runner waits here until the
// agent returns, times out, or the run is cancelled. Agents that ignore
// cancellation are left to finish in the background and their result is
// discarded — no partial step ever corrupts shared state because agents only
// write to their own output.
func (r *Runner) invokeStep(
	ctx context.Context,
	runID string,
	index int,
	step core.Step,
	agent core.Agent,
	results *core.StepResults,
) (core.Payload, error) {
	merged := core.Merge(results.Latest(), step.Input)

	stepCtx := ctx
	var cancel context.CancelFunc
	if r.stepTimeout > 0 {
		stepCtx, cancel = context.WithTimeout(ctx, r.stepTimeout)
		defer cancel()
	}

	attrs := telemetry.StepAttributes(runID, step.Agent, index, string(step.Kind))
	stepCtx, span := r.tracer.Start(stepCtx, "workflow.step", trace.WithAttributes(attrs...))
	defer span.End()

	resCh := make(chan invokeResult, 1)
	go func() {
		output, err := agent.Invoke(stepCtx, merged, results)
		resCh <- invokeResult{output: output, err: err}
	}()

	var output core.Payload
	var err error
	select {
	case res := <-resCh:
		output, err = res.output, res.err
	case <-stepCtx.Done():
		if errors.Is(stepCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			err = core.NewTimeoutError(step.Agent, stepCtx.Err())
		} else {
			err = core.NewAgentError(step.Agent, stepCtx.Err())
		}
	}

	if err != nil {
		var agentErr *core.AgentError
		if !errors.As(err, &agentErr) {
			err = core.NewAgentError(step.Agent, err)
		}
		span.SetStatus(codes.Error, err.Error())
		r.countStep(ctx, attrs, false)
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	r.countStep(ctx, attrs, true)
	return output, nil
}

func (r *Runner) countStep(ctx context.Context, attrs []attribute.KeyValue, success bool) {
	if r.stepCounter == nil {
		return
	}
	attrs = append(attrs, attribute.Bool(telemetry.AttrStepSuccess, success))
	r.stepCounter.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// emit records the event in history and publishes it to the observer. A
// dropped publish (observer gone, buffer exhausted) never blocks or fails
// the run; the channel reserves a slot for the terminal event, so only
// intermediate events can be dropped.
func (r *Runner) emit(ch *stream.Channel, ev core.Event) {
	if r.history != nil {
		r.history.Append(ev)
	}
	if !ch.Publish(ev) {
		r.logger.Debug("event dropped", "run_id", ev.RunID, "type", ev.Type)
	}
}
