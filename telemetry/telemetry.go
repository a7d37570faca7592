package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Semantic conventions for AgentDeck workflow telemetry.
const (
	// AttrRunID identifies one workflow run.
	AttrRunID = "agentdeck.run.id"
	// AttrStepIndex is the zero-based index of a step within its run.
	AttrStepIndex = "agentdeck.step.index"
	// AttrStepKind is the declared kind of a step ("process", "report", ...).
	AttrStepKind = "agentdeck.step.kind"
	// AttrAgentName is the registered name of the agent executing a step.
	AttrAgentName = "agentdeck.agent.name"
	// AttrStepCount is the number of steps in a workflow.
	AttrStepCount = "agentdeck.workflow.steps"
	// AttrStepSuccess records whether a step completed without error.
	AttrStepSuccess = "agentdeck.step.success"
)

// ShutdownFunc flushes and releases telemetry resources.
type ShutdownFunc func(context.Context) error

// Config controls exporter selection.
type Config struct {
	// Exporter is "stdout" or "none". Empty defaults to none so the engine
	// stays silent unless observability is asked for.
	Exporter string
}

// Init installs global tracer and meter providers per config and returns a
// shutdown function for application exit. With Exporter "none" the otel
// no-op globals stay in place and shutdown is trivial.
func Init(serviceName, version string, cfg Config) (ShutdownFunc, error) {
	switch cfg.Exporter {
	case "", "none":
		return func(context.Context) error { return nil }, nil
	case "stdout":
		// Handled below.
	default:
		return nil, fmt.Errorf("unknown telemetry exporter: %s", cfg.Exporter)
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	traceExporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}
	tp := trace.NewTracerProvider(
		trace.WithBatcher(traceExporter, trace.WithBatchTimeout(time.Second)),
		trace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	metricExporter, err := stdoutmetric.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create metric exporter: %w", err)
	}
	mp := metric.NewMeterProvider(
		metric.WithReader(metric.NewPeriodicReader(metricExporter, metric.WithInterval(time.Minute))),
		metric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return func(ctx context.Context) error {
		var errs []error
		if err := tp.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
		if err := mp.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
		if len(errs) > 0 {
			return fmt.Errorf("telemetry shutdown errors: %v", errs)
		}
		return nil
	}, nil
}

// StepAttributes returns the common attribute set for step spans and metrics.
func StepAttributes(runID, agentName string, index int, kind string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrRunID, runID),
		attribute.String(AttrAgentName, agentName),
		attribute.Int(AttrStepIndex, index),
		attribute.String(AttrStepKind, kind),
	}
}
