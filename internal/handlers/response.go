package handlers

import (
	"errors"
	"strconv"

	apierrors "github.com/Kavas-89/Task-Management-System/internal/errors"
	"github.com/Kavas-89/Task-Management-System/internal/services"
	"github.com/Kavas-89/Task-Management-System/internal/store"
	"github.com/Kavas-89/Task-Management-System/internal/validation"
	"github.com/gin-gonic/gin"
)

// respondError maps service errors to API errors.
func respondError(c *gin.Context, err error) {
	var fe validation.FieldErrors

	switch {
	case errors.As(err, &fe):
		apierrors.ValidationFailed(c, fe)
	case errors.Is(err, services.ErrDuplicateUsername):
		apierrors.AlreadyExists(c, "Username already exists")
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c)
	case errors.Is(err, services.ErrNoSession):
		apierrors.Unauthorized(c, "")
	case errors.Is(err, services.ErrForbidden):
		apierrors.Forbidden(c, "")
	case errors.Is(err, store.ErrConflict):
		apierrors.Conflict(c, "The data was changed by another request, please retry")
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, "AI service is not configured")
	case errors.Is(err, services.ErrAINoTasksGenerated), errors.Is(err, services.ErrAINoValidTasks):
		apierrors.OperationFailed(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}
