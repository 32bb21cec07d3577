package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/skillswap/internal/middleware"
	"github.com/lalith-99/skillswap/internal/service"
	"go.uber.org/zap"
)

type SkillHandler struct {
	catalog *service.CatalogService
	logger  *zap.Logger
}

func NewSkillHandler(catalog *service.CatalogService, logger *zap.Logger) *SkillHandler {
	return &SkillHandler{catalog: catalog, logger: logger}
}

type skillRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// Browse handles GET /v1/skills?search=guitar
func (h *SkillHandler) Browse(c *gin.Context) {
	entries, err := h.catalog.Browse(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// AddOffered handles POST /v1/skills/offered
func (h *SkillHandler) AddOffered(c *gin.Context) {
	var req skillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	sk, err := h.catalog.AddOffered(c.Request.Context(), middleware.GetUserID(c), req.Name, req.Description)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, sk)
}

// AddWanted handles POST /v1/skills/wanted
func (h *SkillHandler) AddWanted(c *gin.Context) {
	var req skillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	sk, err := h.catalog.AddWanted(c.Request.Context(), middleware.GetUserID(c), req.Name, req.Description)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, sk)
}

// ListMine handles GET /v1/skills/mine
func (h *SkillHandler) ListMine(c *gin.Context) {
	mine, err := h.catalog.ListMine(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, mine)
}
