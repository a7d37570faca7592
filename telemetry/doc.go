// Package telemetry wires the OpenTelemetry SDK with stdout exporters and
// defines the semantic attribute names used on workflow spans and metrics.
// Library consumers that never call Init get no-op tracing for free via the
// otel globals.
package telemetry
