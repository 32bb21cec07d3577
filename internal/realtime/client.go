package realtime

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 64
)

// Client is one websocket connection watching one room. The socket is
// receive-only from the client's point of view: messages are posted over
// HTTP so they go through the membership check.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	roomID uuid.UUID
	userID uuid.UUID
	send   chan []byte
}

// Serve registers conn with the hub and blocks until the connection closes.
//
// allowed, when set, is checked again once the client is registered. Access
// lost between the handshake check and registration would otherwise be
// missed, since the revocation event went out before the client existed.
func (h *Hub) Serve(conn *websocket.Conn, roomID, userID uuid.UUID, allowed func() bool) {
	c := &Client{
		hub:    h,
		conn:   conn,
		roomID: roomID,
		userID: userID,
		send:   make(chan []byte, sendBufferSize),
	}
	h.register(c)
	if allowed != nil && !allowed() {
		h.unregister(c)
	}

	go c.writePump()
	c.readPump()
}

// readPump only exists to process control frames and notice disconnects.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug("websocket read failed", zap.Error(err))
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
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
