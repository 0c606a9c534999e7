package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/Kavas-89/Task-Management-System/internal/models"
	"github.com/Kavas-89/Task-Management-System/internal/repository"
	"github.com/Kavas-89/Task-Management-System/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNoSession          = errors.New("no active session")
	ErrForbidden          = errors.New("access denied")
)

// SessionManager owns the "loggedInUser" document.
type SessionManager struct {
	users    *UserDirectory
	sessions repository.SessionRepository
	logger   *slog.Logger
}

// NewSessionManager creates a new SessionManager.
func NewSessionManager(users *UserDirectory, sessions repository.SessionRepository, logger *slog.Logger) *SessionManager {
	return &SessionManager{
		users:    users,
		sessions: sessions,
		logger:   logger.With("service", "session"),
	}
}

// SessionScope returns the SessionManager of one client.
type SessionScope func(clientID string) *SessionManager

// NewSessionScope keeps one session document per client under a key prefix of
// s, while users are shared.
func NewSessionScope(s store.Store, users *UserDirectory, logger *slog.Logger) SessionScope {
	return func(clientID string) *SessionManager {
		scoped := store.Prefixed(s, "client:"+clientID+":")
		return NewSessionManager(users, repository.NewSessionRepository(scoped, logger), logger)
	}
}

// Login verifies the credentials and persists the session. On failure no
// session is written.
func (m *SessionManager) Login(ctx context.Context, username, password string) (*models.Session, error) {
	user, err := m.users.FindByCredentials(ctx, username, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			m.logger.InfoContext(ctx, "login rejected")
		}
		return nil, err
	}

	session := models.NewSession(*user)
	if err := m.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	m.logger.InfoContext(ctx, "user logged in", "user_id", user.UserID, "role", session.Role)
	return &session, nil
}

// CurrentSession returns the active session or ErrNoSession.
func (m *SessionManager) CurrentSession(ctx context.Context) (*models.Session, error) {
	session, err := m.sessions.Get(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	return session, nil
}

// Logout clears the session. Logging out twice is fine.
func (m *SessionManager) Logout(ctx context.Context) error {
	if err := m.sessions.Delete(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// RequireSession returns the active session. When there is none, onMissing
// is called (it typically redirects to login) and ErrNoSession is returned.
func (m *SessionManager) RequireSession(ctx context.Context, onMissing func()) (*models.Session, error) {
	session, err := m.CurrentSession(ctx)
	if errors.Is(err, ErrNoSession) && onMissing != nil {
		onMissing()
	}
	return session, err
}

// RequireRole returns the session if its role is one of roles.
func (m *SessionManager) RequireRole(ctx context.Context, roles ...models.Role) (*models.Session, error) {
	session, err := m.CurrentSession(ctx)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(roles, session.Role) {
		return nil, ErrForbidden
	}
	return session, nil
}

// RequireCapability returns the session if its role grants c.
func (m *SessionManager) RequireCapability(ctx context.Context, c models.Capability) (*models.Session, error) {
	session, err := m.CurrentSession(ctx)
	if err != nil {
		return nil, err
	}
	if !session.Role.Can(c) {
		return nil, ErrForbidden
	}
	return session, nil
}
