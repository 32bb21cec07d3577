package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/skillswap/internal/middleware"
	"github.com/lalith-99/skillswap/internal/realtime"
	"github.com/lalith-99/skillswap/internal/service"
	"go.uber.org/zap"
)

// Services bundles what the handlers call into.
type Services struct {
	Identity   *service.IdentityService
	Catalog    *service.CatalogService
	Swaps      *service.SwapService
	Ratings    *service.RatingService
	Rooms      *service.RoomService
	Moderation *service.ModerationService
}

type RouterConfig struct {
	JWTSecret string
	JWTTTL    time.Duration
	// Health checks the backing store. Nil means always healthy.
	Health func(ctx context.Context) error
}

// NewRouter registers every /v1 route on a fresh gin engine.
func NewRouter(svc Services, hub *realtime.Hub, cfg RouterConfig, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger))

	authH := NewAuthHandler(svc.Identity, cfg.JWTSecret, cfg.JWTTTL, logger)
	userH := NewUserHandler(svc.Identity, svc.Ratings, logger)
	skillH := NewSkillHandler(svc.Catalog, logger)
	swapH := NewSwapHandler(svc.Swaps, svc.Ratings, logger)
	roomH := NewRoomHandler(svc.Rooms, logger)
	msgH := NewMessageHandler(svc.Rooms, hub, logger)
	adminH := NewAdminHandler(svc.Moderation, logger)

	// Public: load balancers, signup/login and read-only listings.
	r.GET("/v1/health", func(c *gin.Context) {
		if cfg.Health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := cfg.Health(ctx); err != nil {
				logger.Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	public := r.Group("/v1")
	public.POST("/auth/signup", authH.Signup)
	public.POST("/auth/login", authH.Login)
	public.GET("/skills", skillH.Browse)
	public.GET("/broadcasts", adminH.ListBroadcasts)
	public.GET("/rooms/public", roomH.ListPublic)

	v1 := r.Group("/v1")
	v1.Use(middleware.AuthMiddleware(cfg.JWTSecret, svc.Identity, logger))

	v1.GET("/users/me", userH.GetMe)
	v1.PUT("/users/me/visibility", userH.SetVisibility)
	v1.GET("/users/:id", userH.GetProfile)
	v1.GET("/users/:id/ratings", userH.ListRatings)

	v1.POST("/skills/offered", skillH.AddOffered)
	v1.POST("/skills/wanted", skillH.AddWanted)
	v1.GET("/skills/mine", skillH.ListMine)

	v1.POST("/swaps", swapH.Create)
	v1.GET("/swaps", swapH.List)
	v1.GET("/swaps/:id", swapH.Get)
	v1.POST("/swaps/:id/accept", swapH.Accept)
	v1.POST("/swaps/:id/reject", swapH.Reject)
	v1.DELETE("/swaps/:id", swapH.Delete)
	v1.POST("/swaps/:id/rating", swapH.Rate)

	v1.POST("/rooms", roomH.Create)
	v1.GET("/rooms", roomH.ListMine)
	v1.POST("/rooms/join", roomH.JoinByCode)
	v1.GET("/rooms/:id", roomH.View)
	v1.DELETE("/rooms/:id", roomH.Delete)
	v1.POST("/rooms/:id/join", roomH.Join)
	v1.POST("/rooms/:id/invite", roomH.Invite)
	v1.POST("/rooms/:id/leave", roomH.Leave)
	v1.GET("/rooms/:id/messages", msgH.List)
	v1.POST("/rooms/:id/messages", msgH.Create)
	v1.GET("/rooms/:id/ws", msgH.Stream)

	admin := v1.Group("/admin", middleware.RequireAdmin())
	admin.GET("/users", adminH.ListUsers)
	admin.POST("/users/:id/ban", adminH.ToggleBan)
	admin.GET("/skills/pending", adminH.PendingSkills)
	admin.POST("/skills/:id/approve", adminH.ApproveSkill)
	admin.POST("/skills/:id/reject", adminH.RejectSkill)
	admin.POST("/broadcasts", adminH.Broadcast)

	return r
}
