package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/quillon/agentdeck/core"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The UI is served from arbitrary local origins.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type wsError struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// handleWebSocket runs the submission loop for one client connection. Each
// text message is a workflow; its events are streamed back in order before
// the next submission is read. A rejected workflow produces a single error
// message and leaves the connection open. A client disconnect during a run
// cancels that run.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	s.logger.Debug("websocket client connected", "remote", conn.RemoteAddr().String())

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			s.logger.Debug("websocket client disconnected", "remote", conn.RemoteAddr().String())
			return
		}

		var wf core.Workflow
		if err := json.Unmarshal(raw, &wf); err != nil {
			if s.reply(conn, wsError{Status: "error", Message: "invalid workflow: " + err.Error()}) != nil {
				return
			}
			continue
		}

		runID, events, err := s.orch.Submit(r.Context(), wf)
		if err != nil {
			if s.reply(conn, wsError{Status: "error", Message: err.Error()}) != nil {
				return
			}
			continue
		}

		for ev := range events {
			if err := conn.WriteJSON(ev); err != nil {
				s.logger.Debug("websocket write failed, cancelling run",
					"run_id", runID, "error", err)
				_ = s.orch.Cancel(runID)
				for range events {
				}
				return
			}
		}
	}
}

func (s *Server) reply(conn *websocket.Conn, msg wsError) error {
	if err := conn.WriteJSON(msg); err != nil {
		s.logger.Debug("websocket write failed", "error", err)
		return err
	}
	return nil
}
