package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsUsername(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"seed admin", "Admin#12", true},
		{"dot special", "Jane.Doe9", true},
		{"too short", "Ab#1", false},
		{"too long", "Abcdefghijklmn#12", false},
		{"no upper", "admin#12", false},
		{"no lower", "ADMIN#12", false},
		{"no digit", "Admin#ab", false},
		{"no special", "Admin123", false},
		{"password special not allowed", "Admin@12", false},
		{"space not allowed", "Admin #12", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUsername(tt.input))
		})
	}
}

func TestIsPassword(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"seed admin", "Admin@123", true},
		{"underscore", "Pass_word1", true},
		{"hash not allowed", "Admin#123", false},
		{"no special", "Password1", false},
		{"sixteen chars", "Abcdefghijk@1234", true},
		{"seventeen chars", "Abcdefghijkl@1234", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPassword(tt.input))
		})
	}
}

func TestStruct_RegisterInput(t *testing.T) {
	err := Struct(RegisterInput{
		Username:        "bad",
		Email:           "not-an-email",
		Password:        "Admin@123",
		ConfirmPassword: "Admin@124",
	})
	require.Error(t, err)

	var fe FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, MsgUsernameFormat, fe["username"])
	assert.Equal(t, MsgEmailFormat, fe["email"])
	assert.Equal(t, MsgPasswordsMatch, fe["confirmPassword"])
	assert.False(t, fe.Has("password"))
}

func TestStruct_RequiredFields(t *testing.T) {
	err := Struct(RegisterInput{})

	var fe FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "cannot be empty", fe["username"])
	assert.Equal(t, "cannot be empty", fe["password"])
	assert.False(t, fe.Has("email"))
	assert.False(t, fe.Has("confirmPassword"))
}

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, Struct(RegisterInput{Username: "Jane.Doe9", Password: "Secret@12"}))
	assert.NoError(t, Struct(UserInput{Username: "Jane.Doe9", Password: "Secret@12", Role: "Manager"}))
	assert.NoError(t, Struct(UserPatch{}))
}

func TestStruct_Role(t *testing.T) {
	var fe FieldErrors

	require.ErrorAs(t, Struct(UserInput{Username: "Jane.Doe9", Password: "Secret@12"}), &fe)
	assert.Equal(t, MsgRoleRequired, fe["role"])

	fe = nil
	require.ErrorAs(t, Struct(UserPatch{Role: "owner"}), &fe)
	assert.Contains(t, fe["role"], "must be one of")
}

func TestFieldErrors(t *testing.T) {
	fe := FieldErrors{}
	assert.NoError(t, fe.Err())

	fe.Check(true, "title", "cannot be empty")
	fe.Check(false, "title", "cannot be empty")
	fe.Add("title", "second message")
	fe.Add("dueDate", MsgDateInPast)

	assert.Equal(t, "cannot be empty", fe["title"])
	assert.EqualError(t, fe.Err(), "validation failed: dueDate: cannot be in the past; title: cannot be empty")
}

func TestNotBeforeDay(t *testing.T) {
	now := time.Date(2026, 3, 10, 18, 30, 0, 0, time.UTC)

	today, ok := ParseDate("2026-03-10", time.UTC)
	require.True(t, ok)
	yesterday, ok := ParseDate("2026-03-09", time.UTC)
	require.True(t, ok)

	assert.True(t, NotBeforeDay(today, now))
	assert.False(t, NotBeforeDay(yesterday, now))

	_, ok = ParseDate("10/03/2026", time.UTC)
	assert.False(t, ok)
}
