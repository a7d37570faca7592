// Package agentdeck provides a high-level façade over the agent registry and
// the workflow runner, enabling rapid construction of multi-agent pipelines.
// Most applications interact with this package by:
//  1. Creating an AgentDeck via New() (optionally overriding defaults)
//  2. Registering one or more agents
//  3. Submitting workflows asynchronously (Submit) or synchronously (Run)
//
// The façade delegates validation and execution to runner.Runner while keeping
// setup ergonomics concise. All defaults are safe for local development and
// testing.
package agentdeck

import (
	"context"
	"errors"
	"time"

	"github.com/quillon/agentdeck/core"
	"github.com/quillon/agentdeck/history"
	"github.com/quillon/agentdeck/logging"
	"github.com/quillon/agentdeck/registry"
	"github.com/quillon/agentdeck/runner"
)

// Options configures the AgentDeck instance.
type Options struct {
	// StepTimeout bounds each agent invocation. Zero disables the timeout.
	StepTimeout time.Duration

	// EventBufferSize sets the channel buffer size for event streaming.
	// Larger buffers make slow observers less likely to drop events.
	EventBufferSize int

	// HistoryLimit bounds the number of retained run records. Zero uses
	// history.DefaultLimit; a negative value disables history.
	HistoryLimit int

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// AgentDeck is the high-level façade aggregating the registry, runner and run
// history.
type AgentDeck struct {
	registry *registry.Registry
	runner   *runner.Runner
	history  *history.Store
}

// New creates a new AgentDeck instance with optional overrides.
func New(optFns ...func(o *Options)) *AgentDeck {
	opts := Options{
		EventBufferSize: 64,
		Logger:          logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	reg := registry.New()

	var store *history.Store
	if opts.HistoryLimit >= 0 {
		store = history.NewStore(opts.HistoryLimit)
	}

	run := runner.New(reg, func(o *runner.Options) {
		o.StepTimeout = opts.StepTimeout
		o.EventBufferSize = opts.EventBufferSize
		o.History = store
		o.Logger = opts.Logger
	})

	return &AgentDeck{registry: reg, runner: run, history: store}
}

// Register adds an agent under its descriptor's name. Registration happens at
// startup, before any workflow is submitted.
func (d *AgentDeck) Register(desc core.Descriptor, agent core.Agent) error {
	return d.registry.Register(desc, agent)
}

// Agents lists the registered agent descriptors in registration order.
func (d *AgentDeck) Agents() []core.Descriptor {
	return d.runner.Agents()
}

// Submit starts an asynchronous workflow run returning the run ID and its
// ordered event stream.
func (d *AgentDeck) Submit(ctx context.Context, wf core.Workflow) (string, <-chan core.Event, error) {
	return d.runner.Submit(ctx, wf)
}

// Cancel requests cooperative termination of an in-flight run.
func (d *AgentDeck) Cancel(runID string) error {
	return d.runner.Cancel(runID)
}

// History returns the run history store, or nil when history is disabled.
func (d *AgentDeck) History() *history.Store {
	return d.history
}

// Run is a synchronous helper that submits the workflow, drains the event
// stream and returns the run ID, all events in order and the failure carried
// by a terminal failed event, if any.
func (d *AgentDeck) Run(ctx context.Context, wf core.Workflow) (string, []core.Event, error) {
	runID, eventsCh, err := d.runner.Submit(ctx, wf)
	if err != nil {
		return "", nil, err
	}

	var events []core.Event
	for {
		select {
		case <-ctx.Done():
			// Context cancelled - return events collected so far
			return runID, events, ctx.Err()

		case event, ok := <-eventsCh:
			if !ok {
				return runID, events, nil
			}
			events = append(events, event)
			if event.Type == core.EventFailed {
				// The channel closes right after the terminal event.
				for ev := range eventsCh {
					events = append(events, ev)
				}
				return runID, events, errors.New(event.Error)
			}
		}
	}
}
