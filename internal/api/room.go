package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/skillswap/internal/middleware"
	"github.com/lalith-99/skillswap/internal/service"
	"go.uber.org/zap"
)

// RoomHandler serves rooms and their memberships. Messages live in
// message.go.
type RoomHandler struct {
	rooms  *service.RoomService
	logger *zap.Logger
}

func NewRoomHandler(rooms *service.RoomService, logger *zap.Logger) *RoomHandler {
	return &RoomHandler{rooms: rooms, logger: logger}
}

type createRoomRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	// IsPublic defaults to true when omitted.
	IsPublic *bool `json:"is_public"`
}

// Create handles POST /v1/rooms
func (h *RoomHandler) Create(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	public := true
	if req.IsPublic != nil {
		public = *req.IsPublic
	}
	room, err := h.rooms.CreateRoom(c.Request.Context(), middleware.GetUserID(c), req.Name, req.Description, public)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

// ListPublic handles GET /v1/rooms/public
func (h *RoomHandler) ListPublic(c *gin.Context) {
	rooms, err := h.rooms.ListPublic(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// ListMine handles GET /v1/rooms
func (h *RoomHandler) ListMine(c *gin.Context) {
	rooms, err := h.rooms.ListMine(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// View handles GET /v1/rooms/:id
func (h *RoomHandler) View(c *gin.Context) {
	roomID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	view, err := h.rooms.ViewRoom(c.Request.Context(), middleware.GetUserID(c), roomID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Join handles POST /v1/rooms/:id/join
func (h *RoomHandler) Join(c *gin.Context) {
	roomID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	room, err := h.rooms.JoinPublic(c.Request.Context(), middleware.GetUserID(c), roomID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

type joinByCodeRequest struct {
	Code string `json:"room_code" binding:"required"`
}

// JoinByCode handles POST /v1/rooms/join
func (h *RoomHandler) JoinByCode(c *gin.Context) {
	var req joinByCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	room, err := h.rooms.JoinByCode(c.Request.Context(), middleware.GetUserID(c), req.Code)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

type inviteRequest struct {
	Username string `json:"username" binding:"required"`
}

// Invite handles POST /v1/rooms/:id/invite
func (h *RoomHandler) Invite(c *gin.Context) {
	roomID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req inviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	invitee, err := h.rooms.Invite(c.Request.Context(), middleware.GetUserID(c), roomID, req.Username)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"room_id": roomID, "user_id": invitee.ID, "username": invitee.Username})
}

// Leave handles POST /v1/rooms/:id/leave
func (h *RoomHandler) Leave(c *gin.Context) {
	roomID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.rooms.Leave(c.Request.Context(), middleware.GetUserID(c), roomID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Delete handles DELETE /v1/rooms/:id
func (h *RoomHandler) Delete(c *gin.Context) {
	roomID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.rooms.Delete(c.Request.Context(), middleware.GetUserID(c), roomID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
