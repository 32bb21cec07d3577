// Package realtime pushes committed room messages and platform broadcasts
// to connected websocket clients.
//
// A Hub holds the sockets of one process. Publishers hand events to hubs:
// LocalPublisher delivers straight to the local hub, RedisPublisher goes
// through Redis pub/sub so every instance behind a load balancer sees the
// event. Delivery is best effort; a slow client loses events rather than
// stalling anyone else.
package realtime

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lalith-99/skillswap/internal/models"
)

type EventType string

const (
	EventRoomMessage   EventType = "room_message"
	EventBroadcast     EventType = "broadcast"
	EventAccessRevoked EventType = "access_revoked"
)

// Event is the frame written to websocket clients and the payload carried
// over Redis.
type Event struct {
	Type      EventType       `json:"type"`
	RoomID    *uuid.UUID      `json:"room_id,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

func NewRoomMessageEvent(msg models.RoomMessage) (Event, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return Event{}, fmt.Errorf("marshal room message: %w", err)
	}
	roomID := msg.RoomID
	return Event{
		Type:      EventRoomMessage,
		RoomID:    &roomID,
		Timestamp: msg.CreatedAt,
		Payload:   payload,
	}, nil
}

func NewBroadcastEvent(msg models.PlatformMessage) (Event, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return Event{}, fmt.Errorf("marshal platform message: %w", err)
	}
	return Event{
		Type:      EventBroadcast,
		Timestamp: msg.CreatedAt,
		Payload:   payload,
	}, nil
}

// NewRevocationEvent is consumed by hubs and never written to a socket.
func NewRevocationEvent(rev models.AccessRevocation) (Event, error) {
	payload, err := json.Marshal(rev)
	if err != nil {
		return Event{}, fmt.Errorf("marshal access revocation: %w", err)
	}
	return Event{
		Type:      EventAccessRevoked,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}, nil
}
