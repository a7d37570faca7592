package agent

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillon/agentdeck/core"
)

func TestReport_RendersSortedSections(t *testing.T) {
	agent := NewReport()
	agent.now = func() time.Time {
		return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	}

	output, err := agent.Invoke(context.Background(), core.Payload{
		"word_count": 12,
		"sentiment":  "positive",
		"data":       []any{"a", "b", "c"},
	}, core.NewStepResults())
	require.NoError(t, err)

	report := output.GetString("report")
	assert.Contains(t, report, "Analysis Report")
	assert.Contains(t, report, "Generated: 2026-08-01T12:00:00Z")
	assert.Contains(t, report, "data: 3 items")
	assert.Contains(t, report, "sentiment: positive")
	assert.Contains(t, report, "word_count: 12")
	// Sections appear in sorted key order.
	assert.Less(t, strings.Index(report, "data:"), strings.Index(report, "sentiment:"))
}

func TestReport_CustomTitle(t *testing.T) {
	output, err := NewReport().Invoke(context.Background(), core.Payload{
		"title":   "Pipeline Summary",
		"summary": "all good",
	}, core.NewStepResults())
	require.NoError(t, err)

	report := output.GetString("report")
	assert.Contains(t, report, "Pipeline Summary")
	assert.NotContains(t, report, "title:")
}

func TestReport_EmptyInput(t *testing.T) {
	_, err := NewReport().Invoke(context.Background(), core.Payload{}, core.NewStepResults())
	assert.ErrorContains(t, err, "nothing to report")
}
