package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/lalith-99/skillswap/internal/middleware"
	"github.com/lalith-99/skillswap/internal/realtime"
	"github.com/lalith-99/skillswap/internal/service"
	"go.uber.org/zap"
)

type MessageHandler struct {
	rooms    *service.RoomService
	hub      *realtime.Hub
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func NewMessageHandler(rooms *service.RoomService, hub *realtime.Hub, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{
		rooms: rooms,
		hub:   hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Auth is a bearer token, not a cookie, so cross-origin
			// handshakes carry no ambient credentials.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}

type createMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

// Create handles POST /v1/rooms/:id/messages
//
// A post from someone who is not in the room is dropped without an error:
// the response is 204 and nothing is stored.
func (h *MessageHandler) Create(c *gin.Context) {
	roomID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req createMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	msg, err := h.rooms.PostMessage(c.Request.Context(), middleware.GetUserID(c), roomID, req.Text)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if msg == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// List handles GET /v1/rooms/:id/messages?before=123&limit=50
//
//   - before: message id, return older messages only. 0 starts from the latest.
//   - limit: default 50, capped at 100.
func (h *MessageHandler) List(c *gin.Context) {
	roomID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var before int64
	if b := c.Query("before"); b != "" {
		var err error
		before, err = strconv.ParseInt(b, 10, 64)
		if err != nil || before < 0 {
			badRequest(c, "invalid 'before' parameter")
			return
		}
	}

	limit := 0
	if l := c.Query("limit"); l != "" {
		var err error
		limit, err = strconv.Atoi(l)
		if err != nil || limit < 1 {
			badRequest(c, "invalid 'limit' parameter")
			return
		}
	}

	messages, err := h.rooms.ListMessages(c.Request.Context(), middleware.GetUserID(c), roomID, before, limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

// Stream handles GET /v1/rooms/:id/ws
//
// Anyone allowed to view the room may watch it. The connection receives
// the room's new messages and platform broadcasts until it closes, or until
// the viewer loses access (left a private room, room deleted, banned).
func (h *MessageHandler) Stream(c *gin.Context) {
	roomID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	userID := middleware.GetUserID(c)
	ctx := c.Request.Context()
	if _, err := h.rooms.CheckAccess(ctx, userID, roomID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	h.hub.Serve(conn, roomID, userID, func() bool {
		_, err := h.rooms.CheckAccess(ctx, userID, roomID)
		return err == nil
	})
}
