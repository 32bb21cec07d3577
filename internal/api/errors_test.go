package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/skillswap/internal/apperr"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKey    string
	}{
		{"invalid argument", apperr.ErrInvalidScore, http.StatusBadRequest, "error"},
		{"not found", apperr.ErrSwapNotFound, http.StatusNotFound, "error"},
		{"already exists", apperr.ErrUsernameTaken, http.StatusConflict, "error"},
		{"forbidden", apperr.ErrRoomForbidden, http.StatusForbidden, "error"},
		{"unauthenticated", apperr.ErrInvalidCredentials, http.StatusUnauthorized, "error"},
		{"already decided", apperr.ErrSwapAlreadyDecided, http.StatusConflict, "error"},
		{"codes exhausted", apperr.ErrRoomCodesExhausted, http.StatusServiceUnavailable, "error"},
		{"wrapped", fmt.Errorf("decide: %w", apperr.ErrSwapNotFound), http.StatusNotFound, "error"},
		{"soft", apperr.ErrAlreadyMember, http.StatusOK, "info"},
		{"unknown code", apperr.Internal("boom"), http.StatusInternalServerError, "error"},
		{"plain error", errors.New("db down"), http.StatusInternalServerError, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, zap.NewNop(), tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decode[map[string]any](t, w)
			assert.Contains(t, body, tt.wantKey)
		})
	}
}

func TestRespondError_HidesInternalDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	respondError(c, zap.NewNop(), errors.New("password=hunter2"))

	assert.NotContains(t, w.Body.String(), "hunter2")
}
