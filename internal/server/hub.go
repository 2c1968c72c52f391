package server

import (
	"sync"

	"github.com/magefree/hexduel-server-go/internal/game"
	"go.uber.org/zap"
)

const subscriberBuffer = 64

// Hub fans match notifications out to per-match subscribers. A subscriber
// that falls behind loses notifications rather than blocking the match.
type Hub struct {
	logger *zap.Logger

	mu     sync.RWMutex
	subs   map[string]map[int]chan game.Notification
	nextID int
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{logger: logger, subs: make(map[string]map[int]chan game.Notification)}
}

// Subscribe returns a channel of notifications for matchID and a cancel
// function that closes it.
func (h *Hub) Subscribe(matchID string) (<-chan game.Notification, func()) {
	ch := make(chan game.Notification, subscriberBuffer)

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	if h.subs[matchID] == nil {
		h.subs[matchID] = make(map[int]chan game.Notification)
	}
	h.subs[matchID][id] = ch
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if subs, ok := h.subs[matchID]; ok {
				delete(subs, id)
				if len(subs) == 0 {
					delete(h.subs, matchID)
				}
			}
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers n to the match's subscribers. It matches
// game.NotificationHandler.
func (h *Hub) Publish(n game.Notification) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs[n.MatchID] {
		select {
		case ch <- n:
		default:
			h.logger.Warn("dropping notification for slow subscriber",
				zap.String("match_id", n.MatchID),
				zap.String("type", n.Type),
			)
		}
	}
}

// Subscribers counts the subscribers of a match.
func (h *Hub) Subscribers(matchID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[matchID])
}
