// Package config loads AgentDeck server configuration from an optional yaml
// file layered with AGENTDECK_-prefixed environment variables.
package config

import (
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/quillon/agentdeck/agent"
)

// Config holds all server configuration.
type Config struct {
	Server    ServerConfig             `koanf:"server"`
	Runner    RunnerConfig             `koanf:"runner"`
	History   HistoryConfig            `koanf:"history"`
	Log       LogConfig                `koanf:"log"`
	Model     ModelConfig              `koanf:"model"`
	Telemetry TelemetryConfig          `koanf:"telemetry"`
	Services  map[string]agent.Service `koanf:"services"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr string `koanf:"addr"`
	// StaticDir, when set, is served at / for the browser UI.
	StaticDir string `koanf:"static_dir"`
}

// RunnerConfig tunes workflow execution.
type RunnerConfig struct {
	// StepTimeout bounds one agent invocation; zero disables the timeout.
	StepTimeout time.Duration `koanf:"step_timeout"`
	// EventBuffer sets the per-run event channel buffer.
	EventBuffer int `koanf:"event_buffer"`
}

// HistoryConfig bounds the in-memory run history.
type HistoryConfig struct {
	Limit int `koanf:"limit"`
}

// LogConfig selects log level and format.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json, text
}

// ModelConfig selects the language model provider backing the analysis agent.
type ModelConfig struct {
	Provider string `koanf:"provider"` // openai, anthropic, none
	Model    string `koanf:"model"`
	APIKey   string `koanf:"api_key"`
}

// TelemetryConfig selects the OpenTelemetry exporter.
type TelemetryConfig struct {
	Exporter    string `koanf:"exporter"` // stdout, none
	ServiceName string `koanf:"service_name"`
}

// Load reads configuration with defaults, then the optional yaml file at
// path, then AGENTDECK_ environment variables. A double underscore separates
// key levels so single underscores survive in key names:
// AGENTDECK_SERVER__ADDR -> server.addr,
// AGENTDECK_RUNNER__STEP_TIMEOUT -> runner.step_timeout. Later sources win.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Defaults
	k.Set("server.addr", ":8080")
	k.Set("runner.event_buffer", 64)
	k.Set("history.limit", 100)
	k.Set("log.level", "info")
	k.Set("log.format", "text")
	k.Set("model.provider", "none")
	k.Set("telemetry.exporter", "none")
	k.Set("telemetry.service_name", "agentdeck")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	if err := k.Load(env.Provider("AGENTDECK_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, "AGENTDECK_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
