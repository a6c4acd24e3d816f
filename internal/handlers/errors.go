package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-management-api/internal/dto"
	apierrors "github.com/yukikurage/project-management-api/internal/errors"
	"github.com/yukikurage/project-management-api/internal/middleware"
	"github.com/yukikurage/project-management-api/internal/services"
	"go.uber.org/zap"
)

// respondError maps a service error onto the API error payload. Errors of
// no known kind are logged and reported as a generic 500.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	var refErr *services.InvalidReferenceError

	switch {
	case errors.As(err, &refErr):
		apierrors.InvalidReference(c, refErr.Error(), gin.H{
			"field": refErr.Field,
			"ids":   refErr.IDs,
		})
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c, "Invalid password")
	case errors.Is(err, services.ErrValidation):
		apierrors.BadRequest(c, kindMessage(err, services.ErrValidation))
	case errors.Is(err, services.ErrUnauthorized):
		apierrors.Unauthorized(c, kindMessage(err, services.ErrUnauthorized))
	case errors.Is(err, services.ErrNotFound):
		apierrors.NotFound(c, kindMessage(err, services.ErrNotFound))
	case errors.Is(err, services.ErrConflict):
		apierrors.Conflict(c, kindMessage(err, services.ErrConflict))
	default:
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		apierrors.InternalError(c, "")
	}
}

// kindMessage drops the leading kind text so "not found: task not found"
// is reported as "task not found".
func kindMessage(err, kind error) string {
	msg := err.Error()
	for strings.HasPrefix(msg, kind.Error()+": ") {
		msg = strings.TrimPrefix(msg, kind.Error()+": ")
	}
	return msg
}

func respondBindingError(c *gin.Context, err error) {
	apierrors.BadRequest(c, dto.BindingMessage(err))
}

// actorID is the authenticated user, or "" on routes without RequireAuth.
func actorID(c *gin.Context) string {
	id, _ := middleware.GetUserID(c)
	return id
}
