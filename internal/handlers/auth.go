package handlers

import (
	"errors"
	"net/http"

	"github.com/Kavas-89/Task-Management-System/internal/dto"
	apierrors "github.com/Kavas-89/Task-Management-System/internal/errors"
	"github.com/Kavas-89/Task-Management-System/internal/middleware"
	"github.com/Kavas-89/Task-Management-System/internal/services"
	"github.com/Kavas-89/Task-Management-System/internal/validation"
	"github.com/gin-gonic/gin"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	users    *services.UserDirectory
	sessions services.SessionScope
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users *services.UserDirectory, sessions services.SessionScope) *AuthHandler {
	return &AuthHandler{
		users:    users,
		sessions: sessions,
	}
}

// Register creates an employee account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req validation.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.users.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// Login authenticates a user and stores the session of this client.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	manager, ok := h.manager(c)
	if !ok {
		return
	}

	session, err := manager.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// Logout removes the session of this client.
func (h *AuthHandler) Logout(c *gin.Context) {
	manager, ok := h.manager(c)
	if !ok {
		return
	}

	if err := manager.Logout(c.Request.Context()); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// Me returns the current session and the account behind it.
func (h *AuthHandler) Me(c *gin.Context) {
	session, exists := middleware.GetSession(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	profile := dto.ProfileDTO{Session: session}
	if id, ok := session.UserID.Int64(); ok {
		user, err := h.users.FindByID(c.Request.Context(), id)
		switch {
		case err == nil:
			u := dto.ToUserDTO(*user)
			profile.User = &u
		case !errors.Is(err, services.ErrUserNotFound):
			respondError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, profile)
}

func (h *AuthHandler) manager(c *gin.Context) (*services.SessionManager, bool) {
	clientID, ok := middleware.GetClientID(c)
	if !ok {
		apierrors.InternalError(c, "Missing client profile")
		return nil, false
	}
	return h.sessions(clientID), true
}
