// Package model abstracts language model providers behind a small completion
// interface so agents can summarize or classify text without caring which
// vendor is configured. Concrete adapters live in the openai and anthropic
// subpackages.
package model

import "context"

// Request is a normalized, provider-agnostic completion request.
type Request struct {
	// System is an optional instruction prepended to the conversation.
	System string
	// Prompt is the user-facing input text.
	Prompt string
}

// Response carries the provider's completion text.
type Response struct {
	Text string
}

// Model is implemented by provider adapters. Complete blocks until the
// provider answers, the context is cancelled, or the call fails.
type Model interface {
	Complete(ctx context.Context, req Request) (Response, error)
}

// Info describes a model implementation for logging and discovery.
type Info struct {
	Name     string
	Provider string
}
