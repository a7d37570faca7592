// Package logging provides a tiny abstraction over slog so the engine can
// depend on a minimal Logger interface while applications plug in any
// structured logger. NoOpLogger keeps library usage dependency-free; New
// builds a configured slog-backed logger for the server binary.
package logging
