package agent

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/quillon/agentdeck/core"
)

var reportTemplate = template.Must(template.New("report").Parse(
	`{{.Title}}
{{.Rule}}
Generated: {{.Generated}}
{{range .Sections}}
{{.Key}}: {{.Value}}
{{- end}}
`))

type reportSection struct {
	Key   string
	Value string
}

type reportData struct {
	Title     string
	Rule      string
	Generated string
	Sections  []reportSection
}

// Report renders the accumulated workflow context into a plain text report.
// It is typically the final step of a workflow: the runner merges the
// previous step's output into its input, so the report covers whatever the
// pipeline produced.
type Report struct {
	now func() time.Time
}

// NewReport constructs the report agent.
func NewReport() *Report {
	return &Report{now: time.Now}
}

// Descriptor returns the registration metadata for this agent.
func (a *Report) Descriptor() core.Descriptor {
	return core.Descriptor{
		Name:        "reporter",
		Description: "Generates a text report from prior step results",
		Capabilities: []string{
			"reporting",
		},
	}
}

// Invoke implements core.Agent. An optional "title" field overrides the
// report heading; every other input field becomes a report line.
func (a *Report) Invoke(_ context.Context, input core.Payload, _ *core.StepResults) (core.Payload, error) {
	if len(input) == 0 {
		return nil, fmt.Errorf("nothing to report")
	}

	title := input.GetString("title")
	if title == "" {
		title = "Analysis Report"
	}

	keys := make([]string, 0, len(input))
	for k := range input {
		if k == "title" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sections := make([]reportSection, 0, len(keys))
	for _, k := range keys {
		sections = append(sections, reportSection{Key: k, Value: formatValue(input[k])})
	}

	var sb strings.Builder
	err := reportTemplate.Execute(&sb, reportData{
		Title:     title,
		Rule:      strings.Repeat("-", len(title)),
		Generated: a.now().UTC().Format(time.RFC3339),
		Sections:  sections,
	})
	if err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}

	return core.Payload{"report": sb.String()}, nil
}

func formatValue(v any) string {
	switch val := v.(type) {
	case []any:
		return fmt.Sprintf("%d items", len(val))
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s=%v", k, val[k])
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("%v", v)
	}
}
