package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lalith-99/skillswap/internal/apperr"
	"github.com/lalith-99/skillswap/internal/auth"
	"go.uber.org/zap"
)

// Context keys for values stored in gin.Context.
const (
	ContextKeyUserID = "user_id"
	ContextKeyActor  = "actor"
)

// ActorResolver loads the current state of a token's user. Resolving on
// every request means a ban takes effect without waiting for token expiry.
type ActorResolver interface {
	ResolveActor(ctx context.Context, userID uuid.UUID) (auth.Actor, error)
}

// AuthMiddleware validates the JWT, resolves the actor and refuses banned
// accounts. Browsers cannot set headers on a websocket handshake, so the
// token is also accepted as ?token=.
func AuthMiddleware(secret string, resolver ActorResolver, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := extractToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing or malformed authorization, expected: Bearer <token>",
			})
			return
		}

		claims, err := auth.ParseToken(tokenString, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid or expired token",
			})
			return
		}

		actor, err := resolver.ResolveActor(c.Request.Context(), claims.UserID)
		if err != nil {
			if apperr.CodeOf(err) == apperr.CodeUnauthenticated {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
				return
			}
			logger.Error("resolve actor", zap.String("user_id", claims.UserID.String()), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if actor.IsBanned {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "your account has been banned"})
			return
		}

		c.Set(ContextKeyUserID, actor.UserID)
		c.Set(ContextKeyActor, actor)
		c.Next()
	}
}

func extractToken(c *gin.Context) (string, bool) {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			return "", false
		}
		return parts[1], true
	}
	if token := c.Query("token"); token != "" {
		return token, true
	}
	return "", false
}

// RequireAdmin stops non-admins early. The moderation service checks again
// inside its transaction.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetActor(c).IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

func GetUserID(c *gin.Context) uuid.UUID {
	val, exists := c.Get(ContextKeyUserID)
	if !exists {
		return uuid.Nil
	}
	id, ok := val.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}

// GetActor returns the zero Actor when the auth middleware did not run.
func GetActor(c *gin.Context) auth.Actor {
	val, exists := c.Get(ContextKeyActor)
	if !exists {
		return auth.Actor{}
	}
	actor, _ := val.(auth.Actor)
	return actor
}
