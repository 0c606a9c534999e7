package services

import (
	"github.com/Kavas-89/Task-Management-System/internal/models"
	"github.com/Kavas-89/Task-Management-System/internal/validation"
)

func (suite *ServicesTestSuite) TestRegister_CreatesEmployee() {
	user, err := suite.users.Register(suite.ctx, validation.RegisterInput{
		Username:        " Jane.Doe9 ",
		Email:           "jane@example.com",
		Password:        "Secret@12",
		ConfirmPassword: "Secret@12",
	})
	suite.Require().NoError(err)
	suite.Equal(int64(4), user.UserID)
	suite.Equal("Jane.Doe9", user.Username)
	suite.Equal(models.RoleEmployee, user.Role)
	suite.NotEqual("Secret@12", user.Password)

	_, err = suite.sessions.Login(suite.ctx, "Jane.Doe9", "Secret@12")
	suite.NoError(err)
}

func (suite *ServicesTestSuite) TestRegister_Duplicate() {
	_, err := suite.users.Register(suite.ctx, validation.RegisterInput{Username: "Admin#12", Password: "Other@123"})
	suite.ErrorIs(err, ErrDuplicateUsername)
}

func (suite *ServicesTestSuite) TestRegister_ValidationRunsFirst() {
	_, err := suite.users.Register(suite.ctx, validation.RegisterInput{Username: "Admin#12", Password: "weak"})

	fe := fieldErrors(suite, err)
	suite.Equal(validation.MsgPasswordFormat, fe["password"])
	suite.NotErrorIs(err, ErrDuplicateUsername)

	users, err := suite.users.List(suite.ctx)
	suite.Require().NoError(err)
	suite.Len(users, 3)
}

func (suite *ServicesTestSuite) TestCreate_RequiresRole() {
	_, err := suite.users.Create(suite.ctx, validation.UserInput{Username: "Lead#1234", Password: "Secret@12"})
	suite.Equal(validation.MsgRoleRequired, fieldErrors(suite, err)["role"])

	user, err := suite.users.Create(suite.ctx, validation.UserInput{Username: "Lead#1234", Password: "Secret@12", Role: "MANAGER"})
	suite.Require().NoError(err)
	suite.Equal(models.RoleManager, user.Role)
}

func (suite *ServicesTestSuite) TestUpdate_KeepsPasswordWhenBlank() {
	updated, err := suite.users.Update(suite.ctx, 3, validation.UserPatch{Email: "emp@example.com", Role: "manager"})
	suite.Require().NoError(err)
	suite.Equal("emp@example.com", updated.Email)
	suite.Equal(models.RoleManager, updated.Role)

	_, err = suite.users.FindByCredentials(suite.ctx, "Employee#12", "Employee@123")
	suite.NoError(err)

	_, err = suite.users.Update(suite.ctx, 3, validation.UserPatch{Username: "Admin#12"})
	suite.ErrorIs(err, ErrDuplicateUsername)

	_, err = suite.users.Update(suite.ctx, 99, validation.UserPatch{Email: "x@example.com"})
	suite.ErrorIs(err, ErrUserNotFound)
}

func (suite *ServicesTestSuite) TestRemove_NeverReusesID() {
	suite.Require().NoError(suite.users.Remove(suite.ctx, 3))
	suite.ErrorIs(suite.users.Remove(suite.ctx, 3), ErrUserNotFound)

	user, err := suite.users.Register(suite.ctx, validation.RegisterInput{Username: "Jane.Doe9", Password: "Secret@12"})
	suite.Require().NoError(err)
	suite.Equal(int64(4), user.UserID)
}

func (suite *ServicesTestSuite) TestSeedDefaults_OnlyOnce() {
	seeded, err := suite.users.SeedDefaults(suite.ctx)
	suite.Require().NoError(err)
	suite.False(seeded)
}

func (suite *ServicesTestSuite) TestFindByCredentials_UnknownUserCostsAComparison() {
	var compared [][]byte
	original := compareHash
	compareHash = func(hash, password []byte) error {
		compared = append(compared, hash)
		return original(hash, password)
	}
	defer func() { compareHash = original }()

	_, err := suite.users.FindByCredentials(suite.ctx, "Nobody#12", "Employee@123")
	suite.ErrorIs(err, ErrInvalidCredentials)
	suite.Require().Len(compared, 1)
	suite.Equal(dummyHash(), compared[0])

	_, err = suite.users.FindByCredentials(suite.ctx, "Employee#12", "Wrong@123")
	suite.ErrorIs(err, ErrInvalidCredentials)
	suite.Len(compared, 2)
}
