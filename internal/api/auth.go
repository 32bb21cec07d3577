package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/skillswap/internal/auth"
	"github.com/lalith-99/skillswap/internal/models"
	"github.com/lalith-99/skillswap/internal/service"
	"go.uber.org/zap"
)

// AuthHandler serves signup and login, the only endpoints that hand out
// tokens.
type AuthHandler struct {
	identity  *service.IdentityService
	jwtSecret string
	jwtTTL    time.Duration
	logger    *zap.Logger
}

func NewAuthHandler(identity *service.IdentityService, jwtSecret string, jwtTTL time.Duration, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{identity: identity, jwtSecret: jwtSecret, jwtTTL: jwtTTL, logger: logger}
}

type signupRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Location string `json:"location"`
	// IsPublic defaults to true when omitted.
	IsPublic *bool `json:"is_public"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Signup handles POST /v1/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	public := true
	if req.IsPublic != nil {
		public = *req.IsPublic
	}
	user, err := h.identity.Register(c.Request.Context(), service.Registration{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Location: req.Location,
		IsPublic: public,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.respondWithToken(c, http.StatusCreated, user)
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	user, err := h.identity.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.respondWithToken(c, http.StatusOK, user)
}

func (h *AuthHandler) respondWithToken(c *gin.Context, status int, user *models.User) {
	token, err := auth.GenerateToken(user.ID, user.Username, h.jwtSecret, h.jwtTTL)
	if err != nil {
		h.logger.Error("failed to generate token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	c.JSON(status, authResponse{Token: token, User: user})
}
