package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/websocket"
	"github.com/magefree/hexduel-server-go/internal/game"
	"github.com/magefree/hexduel-server-go/internal/repository"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBuffer     = 256
)

// WSMessage is the envelope for every WebSocket frame in both directions.
type WSMessage struct {
	Type    string          `json:"type"`
	MatchID string          `json:"match_id,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Client message types.
const (
	MsgStartMatch = "start_match"
	MsgAction     = "action"
	MsgState      = "state"
	MsgWatch      = "watch"
	MsgUnwatch    = "unwatch"
)

// Server message types.
const (
	MsgMatchStarted = "match_started"
	MsgActionResult = "action_result"
	MsgGameState    = "game_state"
	MsgWatching     = "watching"
	MsgNotification = "notification"
	MsgError        = "error"
)

type wsClient struct {
	conn   *websocket.Conn
	send   chan []byte
	svc    *MatchService
	hub    *Hub
	logger *zap.Logger

	mu      sync.Mutex
	watches map[string]func()
	closed  bool
}

func (c *wsClient) reply(msgType, matchID string, data any, err error) {
	msg := WSMessage{Type: msgType, MatchID: matchID}
	if err != nil {
		msg.Type = MsgError
		msg.Error = err.Error()
	} else if data != nil {
		raw, mErr := json.Marshal(data)
		if mErr != nil {
			msg.Type = MsgError
			msg.Error = mErr.Error()
		} else {
			msg.Data = raw
		}
	}
	payload, _ := json.Marshal(msg)
	c.enqueue(payload)
}

func (c *wsClient) enqueue(payload []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- payload:
	default:
		c.logger.Warn("websocket send buffer full, dropping message")
	}
}

func (c *wsClient) handle(ctx context.Context, msg WSMessage) {
	switch msg.Type {
	case MsgStartMatch:
		var req StartMatchRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			c.reply(MsgError, "", nil, errors.Join(ErrInvalidRequest, err))
			return
		}
		resp, err := c.svc.StartMatch(ctx, req)
		if err == nil {
			c.watch(resp.MatchID)
		}
		c.reply(MsgMatchStarted, resp.MatchID, resp, err)

	case MsgAction:
		var action game.Action
		if err := json.Unmarshal(msg.Data, &action); err != nil {
			c.reply(MsgError, msg.MatchID, nil, errors.Join(ErrInvalidRequest, err))
			return
		}
		resp, err := c.svc.SubmitAction(ctx, SubmitActionRequest{MatchID: msg.MatchID, Action: action})
		c.reply(MsgActionResult, msg.MatchID, resp, err)

	case MsgState:
		info, err := c.svc.State(ctx, msg.MatchID)
		c.reply(MsgGameState, msg.MatchID, info, err)

	case MsgWatch:
		if _, err := c.svc.State(ctx, msg.MatchID); err != nil {
			c.reply(MsgError, msg.MatchID, nil, err)
			return
		}
		c.watch(msg.MatchID)
		c.reply(MsgWatching, msg.MatchID, nil, nil)

	case MsgUnwatch:
		c.unwatch(msg.MatchID)

	default:
		c.reply(MsgError, msg.MatchID, nil, errors.New("unknown message type: "+msg.Type))
	}
}

func (c *wsClient) watch(matchID string) {
	if c.hub == nil {
		return
	}
	c.mu.Lock()
	if c.closed || c.watches[matchID] != nil {
		c.mu.Unlock()
		return
	}
	events, cancel := c.hub.Subscribe(matchID)
	c.watches[matchID] = cancel
	c.mu.Unlock()

	go func() {
		for n := range events {
			c.reply(MsgNotification, matchID, notificationView(n), nil)
		}
	}()
}

func (c *wsClient) unwatch(matchID string) {
	c.mu.Lock()
	cancel := c.watches[matchID]
	delete(c.watches, matchID)
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (c *wsClient) close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	watches := c.watches
	c.watches = nil
	close(c.send)
	c.mu.Unlock()
	for _, cancel := range watches {
		cancel()
	}
}

func (c *wsClient) readPump(ctx context.Context) {
	defer func() {
		c.close()
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("websocket read failed", zap.Error(err))
			}
			return
		}
		var msg WSMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			c.reply(MsgError, "", nil, errors.Join(ErrInvalidRequest, err))
			continue
		}
		c.handle(ctx, msg)
	}
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set[origin]
	}
}

type httpAPI struct {
	svc      *MatchService
	hub      *Hub
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func (a *httpAPI) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := a.upgrader.Upgrade(w, r, nil)
	if err != nil {
		a.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	client := &wsClient{
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		svc:     a.svc,
		hub:     a.hub,
		logger:  a.logger.With(zap.String("remote", r.RemoteAddr)),
		watches: make(map[string]func()),
	}
	client.logger.Debug("websocket connected")

	// The request context ends when the handler returns, so the pumps run
	// detached from it.
	go client.writePump()
	go client.readPump(context.Background())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func httpStatus(err error) int {
	switch {
	case errors.Is(err, game.ErrMatchNotFound), errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrTooManyMatches):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (a *httpAPI) listMatches(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"matches": a.svc.ListMatches(r.Context())})
}

func (a *httpAPI) getMatch(w http.ResponseWriter, r *http.Request) {
	info, err := a.svc.State(r.Context(), r.PathValue("id"))
	if err != nil {
		writeJSON(w, httpStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (a *httpAPI) listResults(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := a.svc.ListResults(r.Context(), limit)
	if err != nil {
		writeJSON(w, httpStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

// NewHTTPHandler serves the WebSocket endpoint at /ws and a small read-only
// JSON API. Requests are access-logged through logger.
func NewHTTPHandler(svc *MatchService, hub *Hub, allowedOrigins []string, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	api := &httpAPI{
		svc: svc,
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", api.serveWS)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /api/matches", api.listMatches)
	mux.HandleFunc("GET /api/matches/{id}", api.getMatch)
	mux.HandleFunc("GET /api/results", api.listResults)

	origins := allowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	cors := handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodOptions}),
	)
	accessLog := zap.NewStdLog(logger.Named("http")).Writer()
	return handlers.LoggingHandler(accessLog, cors(mux))
}
