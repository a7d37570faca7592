package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/quillon/agentdeck/core"
	"github.com/quillon/agentdeck/history"
	"github.com/quillon/agentdeck/logging"
)

// Orchestrator is the engine surface the HTTP layer depends on.
type Orchestrator interface {
	// Agents lists the registered agent descriptors in registration order.
	Agents() []core.Descriptor
	// Submit validates and starts a workflow, returning its run ID and the
	// ordered event stream.
	Submit(ctx context.Context, wf core.Workflow) (string, <-chan core.Event, error)
	// Cancel requests cooperative termination of an in-flight run.
	Cancel(runID string) error
}

// Options holds configuration overrides passed to New().
type Options struct {
	// Addr is the listen address for Start().
	Addr string
	// StaticDir, when non-empty, is served at / for the browser UI.
	StaticDir string
	// History, when set, backs the GET /api/runs endpoints.
	History *history.Store
	// Logger defaults to NoOpLogger.
	Logger logging.Logger
}

// Server serves the REST and websocket API for a workflow orchestrator.
type Server struct {
	orch      Orchestrator
	history   *history.Store
	logger    logging.Logger
	staticDir string
	addr      string
}

// New constructs a Server with optional overrides.
func New(orch Orchestrator, optFns ...func(o *Options)) *Server {
	opts := Options{
		Addr:   ":8080",
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Server{
		orch:      orch,
		history:   opts.History,
		logger:    opts.Logger,
		staticDir: opts.StaticDir,
		addr:      opts.Addr,
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/agents", s.handleAgents)
	mux.HandleFunc("GET /api/runs", s.handleRuns)
	mux.HandleFunc("GET /api/runs/{id}", s.handleRun)
	mux.HandleFunc("/ws", s.handleWebSocket)
	if s.staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))
	}
	return mux
}

// Start serves the API on the configured address until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("server listening", "addr", s.addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) handleAgents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"agents": s.orch.Agents()})
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusNotFound, "run history is disabled")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": s.history.List()})
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusNotFound, "run history is disabled")
		return
	}
	rec, ok := s.history.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown run")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"status": "error", "message": msg})
}
