package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lalith-99/skillswap/internal/apperr"
	"github.com/lalith-99/skillswap/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "middleware-test-secret"

type stubResolver map[uuid.UUID]auth.Actor

func (s stubResolver) ResolveActor(_ context.Context, id uuid.UUID) (auth.Actor, error) {
	a, ok := s[id]
	if !ok {
		return auth.Actor{}, apperr.Unauthorized("unknown user")
	}
	if a.Username == "broken" {
		return auth.Actor{}, errors.New("db down")
	}
	return a, nil
}

func newRouter(resolver ActorResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	authed := r.Group("/", AuthMiddleware(testSecret, resolver, zap.NewNop()))
	authed.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c).String(), "admin": GetActor(c).IsAdmin})
	})
	authed.GET("/admin", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func token(t *testing.T, id uuid.UUID) string {
	t.Helper()
	tok, err := auth.GenerateToken(id, "u", testSecret, time.Hour)
	require.NoError(t, err)
	return tok
}

func TestAuthMiddleware(t *testing.T) {
	user, banned, admin, gone, broken := uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New()
	resolver := stubResolver{
		user:   {UserID: user, Username: "alice"},
		banned: {UserID: banned, Username: "mallory", IsBanned: true},
		admin:  {UserID: admin, Username: "root", IsAdmin: true},
		broken: {UserID: broken, Username: "broken"},
	}
	r := newRouter(resolver)

	cases := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"no token", "/me", "", http.StatusUnauthorized},
		{"wrong scheme", "/me", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "/me", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"valid header", "/me", "Bearer " + token(t, user), http.StatusOK},
		{"valid query", "/me?token=" + token(t, user), "", http.StatusOK},
		{"banned", "/me", "Bearer " + token(t, banned), http.StatusForbidden},
		{"deleted user", "/me", "Bearer " + token(t, gone), http.StatusUnauthorized},
		{"resolver failure", "/me", "Bearer " + token(t, broken), http.StatusInternalServerError},
		{"admin route as user", "/admin", "Bearer " + token(t, user), http.StatusForbidden},
		{"admin route as admin", "/admin", "Bearer " + token(t, admin), http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Code, w.Body.String())
		})
	}
}

func TestGetters_WithoutMiddleware(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, uuid.Nil, GetUserID(c))
	assert.Equal(t, auth.Actor{}, GetActor(c))
}
