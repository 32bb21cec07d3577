package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lalith-99/skillswap/internal/apperr"
	"go.uber.org/zap"
)

var statusByCode = map[apperr.Code]int{
	apperr.CodeInvalidArgument:    http.StatusBadRequest,
	apperr.CodeNotFound:           http.StatusNotFound,
	apperr.CodeAlreadyExists:      http.StatusConflict,
	apperr.CodePermissionDenied:   http.StatusForbidden,
	apperr.CodeUnauthenticated:    http.StatusUnauthorized,
	apperr.CodeFailedPrecondition: http.StatusConflict,
	apperr.CodeResourceExhausted:  http.StatusServiceUnavailable,
}

// respondError writes err as JSON. Soft outcomes (already a member, already
// rated) are not failures and go out as 200 with an "info" field.
// Anything that is not an AppError is logged and hidden behind a 500.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var appErr *apperr.AppError
	if !errors.As(err, &appErr) {
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "code": apperr.CodeInternal})
		return
	}

	if appErr.Soft {
		c.JSON(http.StatusOK, gin.H{"info": appErr.Message})
		return
	}

	status, ok := statusByCode[appErr.Code]
	if !ok {
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		status = http.StatusInternalServerError
	}
	c.JSON(status, gin.H{"error": appErr.Message, "code": appErr.Code})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg, "code": apperr.CodeInvalidArgument})
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func int64Param(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}
