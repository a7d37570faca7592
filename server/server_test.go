package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillon/agentdeck/core"
	"github.com/quillon/agentdeck/history"
	"github.com/quillon/agentdeck/registry"
	"github.com/quillon/agentdeck/runner"
)

func newTestServer(t *testing.T) (*httptest.Server, *history.Store) {
	t.Helper()

	reg := registry.New()
	require.NoError(t, reg.Register(
		core.Descriptor{Name: "echo", Description: "Echoes its input"},
		core.AgentFunc(func(ctx context.Context, input core.Payload, _ *core.StepResults) (core.Payload, error) {
			out := input.Clone()
			out["echoed"] = true
			return out, nil
		}),
	))

	store := history.NewStore(10)
	run := runner.New(reg, func(o *runner.Options) {
		o.History = store
	})

	srv := New(run, func(o *Options) {
		o.History = store
	})

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, store
}

func dialWS(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestServer_ListAgents(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/agents")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Agents []core.Descriptor `json:"agents"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Agents, 1)
	assert.Equal(t, "echo", body.Agents[0].Name)
}

func TestServer_WebSocketRunStreamsEvents(t *testing.T) {
	ts, _ := newTestServer(t)
	conn := dialWS(t, ts)

	require.NoError(t, conn.WriteJSON(map[string]any{
		"steps": []map[string]any{
			{"agent": "echo", "input": map[string]any{"text": "hi"}},
		},
	}))

	var started, result, completed core.Event
	require.NoError(t, conn.ReadJSON(&started))
	require.NoError(t, conn.ReadJSON(&result))
	require.NoError(t, conn.ReadJSON(&completed))

	assert.Equal(t, core.EventStarted, started.Type)
	assert.Equal(t, core.EventStepResult, result.Type)
	assert.Equal(t, core.EventCompleted, completed.Type)
	assert.Equal(t, started.RunID, completed.RunID)
	assert.Equal(t, true, completed.Output["echoed"])
}

func TestServer_WebSocketRejectsUnknownAgent(t *testing.T) {
	ts, _ := newTestServer(t)
	conn := dialWS(t, ts)

	require.NoError(t, conn.WriteJSON(map[string]any{
		"steps": []map[string]any{{"agent": "missing"}},
	}))

	var reply wsError
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "error", reply.Status)
	assert.Contains(t, reply.Message, "missing")

	// The connection stays usable after a rejected submission.
	require.NoError(t, conn.WriteJSON(map[string]any{
		"steps": []map[string]any{{"agent": "echo"}},
	}))
	var started core.Event
	require.NoError(t, conn.ReadJSON(&started))
	assert.Equal(t, core.EventStarted, started.Type)
}

func TestServer_WebSocketRejectsMalformedJSON(t *testing.T) {
	ts, _ := newTestServer(t)
	conn := dialWS(t, ts)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))

	var reply wsError
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "error", reply.Status)
}

func TestServer_RunHistoryEndpoints(t *testing.T) {
	ts, _ := newTestServer(t)
	conn := dialWS(t, ts)

	require.NoError(t, conn.WriteJSON(map[string]any{
		"steps": []map[string]any{{"agent": "echo"}},
	}))

	var runID string
	for {
		var ev core.Event
		require.NoError(t, conn.ReadJSON(&ev))
		runID = ev.RunID
		if ev.IsTerminal() {
			break
		}
	}

	resp, err := http.Get(ts.URL + "/api/runs/" + runID)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rec history.Record
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rec))
	assert.Equal(t, runID, rec.RunID)
	assert.Equal(t, "completed", rec.State.String())
	assert.NotEmpty(t, rec.Events)

	resp, err = http.Get(ts.URL + "/api/runs")
	require.NoError(t, err)
	defer resp.Body.Close()
	var list struct {
		Runs []history.Record `json:"runs"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list.Runs, 1)

	resp, err = http.Get(ts.URL + "/api/runs/unknown")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
