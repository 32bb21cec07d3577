package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/skillswap/internal/middleware"
	"github.com/lalith-99/skillswap/internal/service"
	"go.uber.org/zap"
)

type UserHandler struct {
	identity *service.IdentityService
	ratings  *service.RatingService
	logger   *zap.Logger
}

func NewUserHandler(identity *service.IdentityService, ratings *service.RatingService, logger *zap.Logger) *UserHandler {
	return &UserHandler{identity: identity, ratings: ratings, logger: logger}
}

// GetMe handles GET /v1/users/me
func (h *UserHandler) GetMe(c *gin.Context) {
	actor := middleware.GetActor(c)
	profile, err := h.identity.GetProfile(c.Request.Context(), actor, actor.UserID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GetProfile handles GET /v1/users/:id
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	profile, err := h.identity.GetProfile(c.Request.Context(), middleware.GetActor(c), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

type visibilityRequest struct {
	IsPublic *bool `json:"is_public" binding:"required"`
}

// SetVisibility handles PUT /v1/users/me/visibility
func (h *UserHandler) SetVisibility(c *gin.Context) {
	var req visibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := h.identity.SetVisibility(c.Request.Context(), middleware.GetUserID(c), *req.IsPublic); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_public": *req.IsPublic})
}

// ListRatings handles GET /v1/users/:id/ratings
func (h *UserHandler) ListRatings(c *gin.Context) {
	userID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	// Ratings follow the profile's visibility.
	if _, err := h.identity.GetProfile(c.Request.Context(), middleware.GetActor(c), userID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	summary, err := h.ratings.Summary(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	ratings, err := h.ratings.ListReceived(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary, "ratings": ratings})
}
