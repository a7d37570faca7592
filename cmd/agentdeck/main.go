// Command agentdeck runs the workflow engine server: it registers the
// built-in agents and serves the REST discovery API plus the websocket
// workflow endpoint.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"

	agentdeck "github.com/quillon/agentdeck"
	"github.com/quillon/agentdeck/agent"
	"github.com/quillon/agentdeck/config"
	"github.com/quillon/agentdeck/core"
	"github.com/quillon/agentdeck/logging"
	"github.com/quillon/agentdeck/model"
	"github.com/quillon/agentdeck/model/anthropic"
	"github.com/quillon/agentdeck/model/openai"
	"github.com/quillon/agentdeck/server"
	"github.com/quillon/agentdeck/telemetry"
)

const version = "0.1.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "agentdeck:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to a yaml config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})

	shutdown, err := telemetry.Init(cfg.Telemetry.ServiceName, version, telemetry.Config{
		Exporter: cfg.Telemetry.Exporter,
	})
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			logger.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	deck := agentdeck.New(func(o *agentdeck.Options) {
		o.StepTimeout = cfg.Runner.StepTimeout
		o.EventBufferSize = cfg.Runner.EventBuffer
		o.HistoryLimit = cfg.History.Limit
		o.Logger = logger
	})

	if err := registerAgents(deck, cfg, logger); err != nil {
		return fmt.Errorf("register agents: %w", err)
	}

	srv := server.New(deck, func(o *server.Options) {
		o.Addr = cfg.Server.Addr
		o.StaticDir = cfg.Server.StaticDir
		o.History = deck.History()
		o.Logger = logger
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Start(ctx)
}

// registrable is an agent that carries its own descriptor.
type registrable interface {
	core.Agent
	Descriptor() core.Descriptor
}

func registerAgents(deck *agentdeck.AgentDeck, cfg *config.Config, logger logging.Logger) error {
	for _, a := range []registrable{
		agent.NewText(),
		agent.NewData(),
		agent.NewAPI(cfg.Services),
		agent.NewReport(),
	} {
		if err := deck.Register(a.Descriptor(), a); err != nil {
			return err
		}
	}

	m, err := buildModel(cfg.Model)
	if err != nil {
		return err
	}
	if m != nil {
		analysis := agent.NewAnalysis(m)
		if err := deck.Register(analysis.Descriptor(), analysis); err != nil {
			return err
		}
	} else {
		logger.Info("no model provider configured, analysis agent disabled")
	}

	return nil
}

func buildModel(cfg config.ModelConfig) (model.Model, error) {
	switch cfg.Provider {
	case "", "none":
		return nil, nil
	case "openai":
		return openai.NewModel(func(o *openai.Options) {
			if cfg.Model != "" {
				o.Model = cfg.Model
			}
			o.APIKey = cfg.APIKey
		}), nil
	case "anthropic":
		return anthropic.NewModel(func(o *anthropic.Options) {
			if cfg.Model != "" {
				o.Model = anthropicsdk.Model(cfg.Model)
			}
			o.APIKey = cfg.APIKey
		}), nil
	default:
		return nil, fmt.Errorf("unknown model provider: %s", cfg.Provider)
	}
}
