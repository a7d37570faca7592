package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/quillon/agentdeck/core"
)

// Text analyzes and normalizes a text input: counts, case transforms and a
// cleaned variant suitable for downstream analysis steps.
type Text struct{}

// NewText constructs the text processing agent.
func NewText() *Text { return &Text{} }

// Descriptor returns the registration metadata for this agent.
func (a *Text) Descriptor() core.Descriptor {
	return core.Descriptor{
		Name:        "text_processor",
		Description: "Processes text: counts, case conversion and cleanup",
		Capabilities: []string{
			"text_preprocessing",
			"case_conversion",
			"word_count",
		},
	}
}

// Invoke implements core.Agent. The input must carry a non-empty "text"
// field; prior results are not consulted beyond what the runner already
// merged into the input.
func (a *Text) Invoke(_ context.Context, input core.Payload, _ *core.StepResults) (core.Payload, error) {
	text := input.GetString("text")
	if text == "" {
		return nil, fmt.Errorf("text is required")
	}

	return core.Payload{
		"original":     text,
		"cleaned_text": strings.ToLower(strings.TrimSpace(text)),
		"word_count":   len(strings.Fields(text)),
		"char_count":   len(text),
		"uppercase":    strings.ToUpper(text),
		"lowercase":    strings.ToLower(text),
	}, nil
}
