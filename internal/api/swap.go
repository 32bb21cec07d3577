package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/skillswap/internal/middleware"
	"github.com/lalith-99/skillswap/internal/models"
	"github.com/lalith-99/skillswap/internal/repository"
	"github.com/lalith-99/skillswap/internal/service"
	"go.uber.org/zap"
)

type SwapHandler struct {
	swaps   *service.SwapService
	ratings *service.RatingService
	logger  *zap.Logger
}

func NewSwapHandler(swaps *service.SwapService, ratings *service.RatingService, logger *zap.Logger) *SwapHandler {
	return &SwapHandler{swaps: swaps, ratings: ratings, logger: logger}
}

type createSwapRequest struct {
	OfferedSkillID int64  `json:"offered_skill_id" binding:"required"`
	WantedSkill    string `json:"wanted_skill"`
	Message        string `json:"message"`
}

// Create handles POST /v1/swaps
func (h *SwapHandler) Create(c *gin.Context) {
	var req createSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	sw, err := h.swaps.CreateRequest(c.Request.Context(), middleware.GetUserID(c), req.OfferedSkillID, req.WantedSkill, req.Message)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, sw)
}

// List handles GET /v1/swaps?direction=incoming|outgoing|all&status=pending
func (h *SwapHandler) List(c *gin.Context) {
	filter := repository.SwapFilter{
		Direction: repository.SwapDirection(c.DefaultQuery("direction", string(repository.SwapAll))),
		Status:    models.SwapStatus(c.Query("status")),
	}
	swaps, err := h.swaps.ListForUser(c.Request.Context(), middleware.GetUserID(c), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, swaps)
}

// Get handles GET /v1/swaps/:id
func (h *SwapHandler) Get(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	sw, err := h.swaps.Get(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, sw)
}

// Accept handles POST /v1/swaps/:id/accept
func (h *SwapHandler) Accept(c *gin.Context) {
	h.decide(c, service.DecisionAccept)
}

// Reject handles POST /v1/swaps/:id/reject
func (h *SwapHandler) Reject(c *gin.Context) {
	h.decide(c, service.DecisionReject)
}

func (h *SwapHandler) decide(c *gin.Context, d service.Decision) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	sw, err := h.swaps.Decide(c.Request.Context(), middleware.GetUserID(c), id, d)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, sw)
}

// Delete handles DELETE /v1/swaps/:id
func (h *SwapHandler) Delete(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	if err := h.swaps.Delete(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type rateRequest struct {
	Score    int    `json:"score" binding:"required"`
	Feedback string `json:"feedback"`
}

// Rate handles POST /v1/swaps/:id/rating
func (h *SwapHandler) Rate(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	var req rateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	rating, err := h.ratings.Rate(c.Request.Context(), middleware.GetUserID(c), id, req.Score, req.Feedback)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, rating)
}
