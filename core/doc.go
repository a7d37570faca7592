// Package core defines the shared contracts of the AgentDeck workflow engine:
// the Agent capability interface, the JSON-shaped Payload exchanged between
// steps, workflow and step descriptions, the per-run StepResults accumulator,
// the streamed Event variants and the error taxonomy used across packages.
//
// The package intentionally carries no orchestration logic. Registration lives
// in registry, execution in runner, delivery in stream. Keeping the contracts
// here avoids cyclic dependencies between those packages.
package core
