package realtime

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/lalith-99/skillswap/internal/models"
	"go.uber.org/zap"
)

// Hub tracks the websocket clients connected to this process, grouped by
// the room they watch.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	rooms   map[uuid.UUID]map[*Client]struct{}
	logger  *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		rooms:   make(map[uuid.UUID]map[*Client]struct{}),
		logger:  logger,
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[c] = struct{}{}
	if h.rooms[c.roomID] == nil {
		h.rooms[c.roomID] = make(map[*Client]struct{})
	}
	h.rooms[c.roomID][c] = struct{}{}

	h.logger.Debug("websocket client connected",
		zap.String("room_id", c.roomID.String()),
		zap.String("user_id", c.userID.String()),
	)
}

// unregister removes c and closes its send channel. Safe to call twice.
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.detach(c)
}

// detach must be called with h.mu held.
func (h *Hub) detach(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	if room := h.rooms[c.roomID]; room != nil {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, c.roomID)
		}
	}
	close(c.send)

	h.logger.Debug("websocket client disconnected",
		zap.String("room_id", c.roomID.String()),
		zap.String("user_id", c.userID.String()),
	)
}

// Revoke disconnects the sockets matching rev and returns how many it
// closed. The write pump sends a close frame once the send channel is shut.
func (h *Hub) Revoke(rev models.AccessRevocation) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	targets := h.clients
	if rev.RoomID != uuid.Nil {
		targets = h.rooms[rev.RoomID]
	}
	var matched []*Client
	for c := range targets {
		if rev.UserID == uuid.Nil || c.userID == rev.UserID {
			matched = append(matched, c)
		}
	}
	for _, c := range matched {
		h.detach(c)
	}
	if len(matched) > 0 {
		h.logger.Info("websocket access revoked",
			zap.String("room_id", rev.RoomID.String()),
			zap.String("user_id", rev.UserID.String()),
			zap.Int("closed", len(matched)),
		)
	}
	return len(matched)
}

// Deliver writes ev to every local client that should see it: the room's
// watchers for a room message, everyone for a broadcast. A revocation event
// closes the matching clients instead.
func (h *Hub) Deliver(ev Event) {
	if ev.Type == EventAccessRevoked {
		var rev models.AccessRevocation
		if err := json.Unmarshal(ev.Payload, &rev); err != nil {
			h.logger.Error("decode access revocation", zap.Error(err))
			return
		}
		h.Revoke(rev)
		return
	}

	frame, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("marshal realtime event", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	targets := h.clients
	if ev.RoomID != nil {
		targets = h.rooms[*ev.RoomID]
	}
	for c := range targets {
		select {
		case c.send <- frame:
		default:
			h.logger.Warn("websocket client too slow, dropping event",
				zap.String("user_id", c.userID.String()),
				zap.String("type", string(ev.Type)),
			)
		}
	}
}

// ClientCount reports how many sockets are connected to this process.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
