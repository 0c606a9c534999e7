package handlers

import (
	"errors"
	"net/http"

	apierrors "github.com/Kavas-89/Task-Management-System/internal/errors"
	"github.com/Kavas-89/Task-Management-System/internal/middleware"
	"github.com/Kavas-89/Task-Management-System/internal/views"
	"github.com/gin-gonic/gin"
)

// DashboardHandler renders one section of the role's dashboard.
type DashboardHandler struct {
	services views.Services
}

func NewDashboardHandler(svc views.Services) *DashboardHandler {
	return &DashboardHandler{services: svc}
}

func (h *DashboardHandler) ShowSection(c *gin.Context) {
	session, exists := middleware.GetSession(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	router, err := views.Dashboard(session.Role, h.services)
	if err != nil {
		apierrors.Forbidden(c, "No dashboard for this role")
		return
	}

	view, err := router.Show(c.Request.Context(), session, c.Param("section"))
	if err != nil {
		if errors.Is(err, views.ErrUnknownSection) {
			apierrors.NotFound(c, "Unknown section")
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}
