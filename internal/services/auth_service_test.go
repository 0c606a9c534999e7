package services

import (
	"strings"

	"github.com/Kavas-89/Task-Management-System/internal/logging"
	"github.com/Kavas-89/Task-Management-System/internal/models"
	"github.com/Kavas-89/Task-Management-System/internal/repository"
	"github.com/Kavas-89/Task-Management-System/internal/store"
)

func (suite *ServicesTestSuite) TestLogin_Success() {
	session, err := suite.sessions.Login(suite.ctx, "  Manager#12 ", "Manager@123")
	suite.Require().NoError(err)
	suite.Equal(managerSession, *session)

	current, err := suite.sessions.CurrentSession(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal(managerSession, *current)
}

func (suite *ServicesTestSuite) TestLogin_InvalidCredentialsWritesNothing() {
	cases := [][2]string{
		{"Manager#12", "Admin@123"},
		{"manager#12", "Manager@123"},
		{"Nobody#123", "Manager@123"},
		{"", ""},
	}
	for _, c := range cases {
		_, err := suite.sessions.Login(suite.ctx, c[0], c[1])
		suite.ErrorIs(err, ErrInvalidCredentials)
	}

	_, err := suite.sessions.CurrentSession(suite.ctx)
	suite.ErrorIs(err, ErrNoSession)
}

func (suite *ServicesTestSuite) TestLogin_UpgradesLegacyPlaintext() {
	s := store.NewMemoryStore()
	suite.Require().NoError(s.Set(suite.ctx, store.KeyUsers, store.Document(
		`[{"userId":7,"username":"Legacy#12","password":"Legacy@123","role":"Manager"}]`,
	)))

	logger := logging.Discard()
	users := NewUserDirectory(repository.NewUserRepository(s, logger), logger)
	sessions := NewSessionManager(users, repository.NewSessionRepository(s, logger), logger)

	session, err := sessions.Login(suite.ctx, "Legacy#12", "Legacy@123")
	suite.Require().NoError(err)
	suite.Equal(models.RoleManager, session.Role)
	suite.True(session.UserID.Is(7))

	stored, err := users.FindByUsername(suite.ctx, "Legacy#12")
	suite.Require().NoError(err)
	suite.True(strings.HasPrefix(stored.Password, "$2"))

	_, err = sessions.Login(suite.ctx, "Legacy#12", "Legacy@123")
	suite.NoError(err)
}

func (suite *ServicesTestSuite) TestLogout_IsIdempotent() {
	_, err := suite.sessions.Login(suite.ctx, "Admin#12", "Admin@123")
	suite.Require().NoError(err)

	suite.Require().NoError(suite.sessions.Logout(suite.ctx))
	suite.Require().NoError(suite.sessions.Logout(suite.ctx))

	_, err = suite.sessions.CurrentSession(suite.ctx)
	suite.ErrorIs(err, ErrNoSession)
}

func (suite *ServicesTestSuite) TestCurrentSession_CorruptDocumentIsAbsent() {
	suite.Require().NoError(suite.store.Set(suite.ctx, store.KeyLoggedInUser, store.Document(`{"userId":`)))

	_, err := suite.sessions.CurrentSession(suite.ctx)
	suite.ErrorIs(err, ErrNoSession)
}

func (suite *ServicesTestSuite) TestRequireSession_CallsOnMissing() {
	redirected := false
	_, err := suite.sessions.RequireSession(suite.ctx, func() { redirected = true })
	suite.ErrorIs(err, ErrNoSession)
	suite.True(redirected)

	_, err = suite.sessions.Login(suite.ctx, "Employee#12", "Employee@123")
	suite.Require().NoError(err)

	redirected = false
	session, err := suite.sessions.RequireSession(suite.ctx, func() { redirected = true })
	suite.Require().NoError(err)
	suite.False(redirected)
	suite.Equal(models.RoleEmployee, session.Role)
}

func (suite *ServicesTestSuite) TestRequireRoleAndCapability() {
	_, err := suite.sessions.RequireRole(suite.ctx, models.RoleAdmin)
	suite.ErrorIs(err, ErrNoSession)

	_, err = suite.sessions.Login(suite.ctx, "Employee#12", "Employee@123")
	suite.Require().NoError(err)

	_, err = suite.sessions.RequireRole(suite.ctx, models.RoleAdmin, models.RoleManager)
	suite.ErrorIs(err, ErrForbidden)
	_, err = suite.sessions.RequireRole(suite.ctx, models.RoleEmployee)
	suite.NoError(err)

	_, err = suite.sessions.RequireCapability(suite.ctx, models.CapDeleteTasks)
	suite.ErrorIs(err, ErrForbidden)
	_, err = suite.sessions.RequireCapability(suite.ctx, models.CapComment)
	suite.NoError(err)
}

func (suite *ServicesTestSuite) TestSessionScope_IsolatesClients() {
	scope := NewSessionScope(suite.store, suite.users, logging.Discard())

	_, err := scope("a").Login(suite.ctx, "Admin#12", "Admin@123")
	suite.Require().NoError(err)

	_, err = scope("b").CurrentSession(suite.ctx)
	suite.ErrorIs(err, ErrNoSession)

	session, err := scope("a").CurrentSession(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal(models.RoleAdmin, session.Role)
}
