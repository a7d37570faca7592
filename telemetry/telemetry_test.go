package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestInit_NoneExporter(t *testing.T) {
	shutdown, err := Init("agentdeck-test", "0.0.0", Config{Exporter: "none"})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInit_UnknownExporter(t *testing.T) {
	_, err := Init("agentdeck-test", "0.0.0", Config{Exporter: "jaeger"})
	assert.Error(t, err)
}

func TestStepAttributes(t *testing.T) {
	attrs := StepAttributes("run-1", "data_agent", 2, "process")

	want := map[attribute.Key]attribute.Value{
		AttrRunID:     attribute.StringValue("run-1"),
		AttrAgentName: attribute.StringValue("data_agent"),
		AttrStepIndex: attribute.IntValue(2),
		AttrStepKind:  attribute.StringValue("process"),
	}
	require.Len(t, attrs, len(want))
	for _, kv := range attrs {
		assert.Equal(t, want[kv.Key], kv.Value)
	}
}
