package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/skillswap/internal/middleware"
	"github.com/lalith-99/skillswap/internal/service"
	"go.uber.org/zap"
)

type AdminHandler struct {
	moderation *service.ModerationService
	logger     *zap.Logger
}

func NewAdminHandler(moderation *service.ModerationService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{moderation: moderation, logger: logger}
}

// ToggleBan handles POST /v1/admin/users/:id/ban
func (h *AdminHandler) ToggleBan(c *gin.Context) {
	userID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	banned, err := h.moderation.ToggleBan(c.Request.Context(), middleware.GetUserID(c), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": userID, "is_banned": banned})
}

// PendingSkills handles GET /v1/admin/skills/pending
func (h *AdminHandler) PendingSkills(c *gin.Context) {
	skills, err := h.moderation.ListPendingSkills(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, skills)
}

// ListUsers handles GET /v1/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.moderation.ListUsers(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// ApproveSkill handles POST /v1/admin/skills/:id/approve
func (h *AdminHandler) ApproveSkill(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	if err := h.moderation.ApproveSkill(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RejectSkill handles POST /v1/admin/skills/:id/reject
func (h *AdminHandler) RejectSkill(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	if err := h.moderation.RejectSkill(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type broadcastRequest struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"message" binding:"required"`
}

// Broadcast handles POST /v1/admin/broadcasts
func (h *AdminHandler) Broadcast(c *gin.Context) {
	var req broadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	msg, err := h.moderation.Broadcast(c.Request.Context(), middleware.GetUserID(c), req.Title, req.Body)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// ListBroadcasts handles GET /v1/broadcasts?limit=20. Public.
func (h *AdminHandler) ListBroadcasts(c *gin.Context) {
	limit := 0
	if l := c.Query("limit"); l != "" {
		var err error
		if limit, err = strconv.Atoi(l); err != nil || limit < 1 {
			badRequest(c, "invalid 'limit' parameter")
			return
		}
	}
	msgs, err := h.moderation.ListBroadcasts(c.Request.Context(), limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}
