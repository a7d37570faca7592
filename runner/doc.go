// Package runner implements the workflow orchestration core. A Runner
// validates a submitted step list against the registry, executes the steps
// strictly sequentially on a dedicated goroutine, threads each step's output
// into the next step's input, and streams lifecycle events to the run's
// single observer.
//
// Failure policy is fail-fast: the first step error (or a missing agent)
// terminates the run, since later steps consume earlier output and executing
// them against a missing context would silently corrupt results. Validation
// failures are rejected synchronously before any event is emitted.
package runner
