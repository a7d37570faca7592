package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/quillon/agentdeck/core"
	"github.com/quillon/agentdeck/model"
)

// Analysis delegates text analysis tasks to a configured language model.
// The supported tasks mirror the original ML-backed analysis surface,
// expressed as completion prompts instead of local pipelines.
type Analysis struct {
	model model.Model
}

// NewAnalysis constructs the analysis agent over the given model.
func NewAnalysis(m model.Model) *Analysis {
	return &Analysis{model: m}
}

// Descriptor returns the registration metadata for this agent.
func (a *Analysis) Descriptor() core.Descriptor {
	return core.Descriptor{
		Name:        "analysis_agent",
		Description: "Analyzes text with a language model",
		Capabilities: []string{
			"summarization",
			"sentiment_analysis",
			"text_classification",
		},
	}
}

// Invoke implements core.Agent. Input fields: task (required), data (text to
// analyze; falls back to cleaned_text or original merged from prior steps)
// and task-specific options.
func (a *Analysis) Invoke(ctx context.Context, input core.Payload, _ *core.StepResults) (core.Payload, error) {
	task := input.GetString("task")
	data := input.GetString("data")
	if data == "" {
		data = input.GetString("cleaned_text")
	}
	if data == "" {
		data = input.GetString("original")
	}
	if data == "" {
		return nil, fmt.Errorf("no text to analyze")
	}

	switch task {
	case "summarization":
		return a.summarize(ctx, data)
	case "sentiment_analysis":
		return a.sentiment(ctx, data)
	case "text_classification":
		return a.classify(ctx, data, input.GetMap("options"))
	default:
		return nil, fmt.Errorf("unsupported task: %s", task)
	}
}

func (a *Analysis) summarize(ctx context.Context, data string) (core.Payload, error) {
	resp, err := a.model.Complete(ctx, model.Request{
		System: "Summarize the user's text in at most three sentences. Reply with the summary only.",
		Prompt: data,
	})
	if err != nil {
		return nil, fmt.Errorf("summarization: %w", err)
	}
	return core.Payload{"summary": strings.TrimSpace(resp.Text)}, nil
}

func (a *Analysis) sentiment(ctx context.Context, data string) (core.Payload, error) {
	resp, err := a.model.Complete(ctx, model.Request{
		System: "Classify the sentiment of the user's text. Reply with exactly one word: positive, negative or neutral.",
		Prompt: data,
	})
	if err != nil {
		return nil, fmt.Errorf("sentiment analysis: %w", err)
	}
	return core.Payload{"sentiment": strings.ToLower(strings.TrimSpace(resp.Text))}, nil
}

func (a *Analysis) classify(ctx context.Context, data string, options map[string]any) (core.Payload, error) {
	labels := "any fitting label"
	if raw, ok := options["labels"].([]any); ok && len(raw) > 0 {
		parts := make([]string, len(raw))
		for i, l := range raw {
			parts[i] = fmt.Sprintf("%v", l)
		}
		labels = strings.Join(parts, ", ")
	}

	resp, err := a.model.Complete(ctx, model.Request{
		System: fmt.Sprintf("Classify the user's text into one of: %s. Reply with the label only.", labels),
		Prompt: data,
	})
	if err != nil {
		return nil, fmt.Errorf("text classification: %w", err)
	}
	return core.Payload{"classification": strings.TrimSpace(resp.Text)}, nil
}
