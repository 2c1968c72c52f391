package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func startHTTP(t *testing.T) *httptest.Server {
	t.Helper()
	svc, hub, _ := newTestService(t)
	srv := httptest.NewServer(NewHTTPHandler(svc, hub, nil, zaptest.NewLogger(t)))
	t.Cleanup(srv.Close)
	return srv
}

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msgType, matchID string, data any) {
	t.Helper()
	msg := WSMessage{Type: msgType, MatchID: matchID}
	if data != nil {
		raw, err := json.Marshal(data)
		require.NoError(t, err)
		msg.Data = raw
	}
	require.NoError(t, conn.WriteJSON(msg))
}

// readUntil skips notifications until a message of msgType arrives.
func readUntil(t *testing.T, conn *websocket.Conn, msgType string) WSMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var msg WSMessage
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Type == msgType {
			return msg
		}
		if msg.Type == MsgError && msgType != MsgError {
			t.Fatalf("unexpected error message: %s", msg.Error)
		}
	}
}

func TestWebSocketMatchFlow(t *testing.T) {
	srv := startHTTP(t)
	conn := dialWS(t, srv)

	send(t, conn, MsgStartMatch, "", StartMatchRequest{Players: []string{"ana", "ben"}, Seed: 9})
	started := readUntil(t, conn, MsgMatchStarted)
	var resp StartMatchResponse
	require.NoError(t, json.Unmarshal(started.Data, &resp))
	require.NotEmpty(t, resp.MatchID)
	assert.Equal(t, resp.MatchID, started.MatchID)

	send(t, conn, MsgAction, resp.MatchID, map[string]any{"kind": "END_TURN", "player": 0})

	// Notifications are delivered asynchronously and may overtake the result.
	var gotResult, gotTurn bool
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for !gotResult || !gotTurn {
		var msg WSMessage
		require.NoError(t, conn.ReadJSON(&msg))
		switch msg.Type {
		case MsgActionResult:
			var submitted SubmitActionResponse
			require.NoError(t, json.Unmarshal(msg.Data, &submitted))
			assert.Equal(t, "SUCCESS", submitted.Result)
			gotResult = true
		case MsgNotification:
			var view NotificationView
			require.NoError(t, json.Unmarshal(msg.Data, &view))
			if view.Type == "TURN_STARTED" && view.Player == 1 {
				gotTurn = true
			}
		case MsgError:
			t.Fatalf("unexpected error message: %s", msg.Error)
		}
	}

	send(t, conn, MsgState, resp.MatchID, nil)
	state := readUntil(t, conn, MsgGameState)
	assert.Contains(t, string(state.Data), `"current_player":1`)
}

func TestWebSocketErrors(t *testing.T) {
	srv := startHTTP(t)
	conn := dialWS(t, srv)

	send(t, conn, "bogus", "", nil)
	msg := readUntil(t, conn, MsgError)
	assert.Contains(t, msg.Error, "unknown message type")

	send(t, conn, MsgState, "missing", nil)
	msg = readUntil(t, conn, MsgError)
	assert.Contains(t, msg.Error, "match not found")
}

func TestHTTPEndpoints(t *testing.T) {
	srv := startHTTP(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/matches/missing")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/matches")
	require.NoError(t, err)
	defer resp.Body.Close()
	var body struct {
		Matches []json.RawMessage `json:"matches"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Empty(t, body.Matches)
}
