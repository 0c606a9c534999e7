package middleware

import (
	"errors"

	"github.com/Kavas-89/Task-Management-System/internal/constants"
	apierrors "github.com/Kavas-89/Task-Management-System/internal/errors"
	"github.com/Kavas-89/Task-Management-System/internal/models"
	"github.com/Kavas-89/Task-Management-System/internal/services"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ClientProfile gives every client a stable ID kept in the cookie session.
// The ID selects that client's "loggedInUser" document.
func ClientProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		clientID, _ := session.Get(constants.SessionKeyClientID).(string)

		if clientID == "" {
			clientID = uuid.NewString()
			session.Set(constants.SessionKeyClientID, clientID)
			if err := session.Save(); err != nil {
				apierrors.InternalError(c, "Failed to save session")
				c.Abort()
				return
			}
		}

		c.Set(constants.ContextKeyClientID, clientID)
		c.Next()
	}
}

// GetClientID retrieves the client ID set by ClientProfile
func GetClientID(c *gin.Context) (string, bool) {
	clientID := c.GetString(constants.ContextKeyClientID)
	return clientID, clientID != ""
}

// RequireSession checks that the client is logged in
func RequireSession(scope services.SessionScope) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID, ok := GetClientID(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		session, err := scope(clientID).CurrentSession(c.Request.Context())
		if err != nil {
			if errors.Is(err, services.ErrNoSession) {
				apierrors.Unauthorized(c, "")
			} else {
				apierrors.InternalError(c, "Failed to read session")
			}
			c.Abort()
			return
		}

		// Store the session in context for easy access in handlers
		c.Set(constants.ContextKeySession, *session)
		c.Next()
	}
}

// GetSession retrieves the current session from context
func GetSession(c *gin.Context) (models.Session, bool) {
	value, exists := c.Get(constants.ContextKeySession)
	if !exists {
		return models.Session{}, false
	}
	session, ok := value.(models.Session)
	return session, ok
}

// RequireCapability rejects sessions whose role does not grant capability
func RequireCapability(capability models.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := GetSession(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if !session.Role.Can(capability) {
			apierrors.Forbidden(c, "")
			c.Abort()
			return
		}

		c.Next()
	}
}
