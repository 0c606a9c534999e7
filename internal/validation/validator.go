// Package validation holds the form rules shared by the HTTP API and the CLI.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/Kavas-89/Task-Management-System/internal/models"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	must(v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return IsUsername(fl.Field().String())
	}))
	must(v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return IsPassword(fl.Field().String())
	}))
	must(v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		_, ok := models.ParseRole(fl.Field().String())
		return ok
	}))

	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Struct validates s against its `validate` tags and reports failures as
// FieldErrors keyed by JSON field name.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fe := FieldErrors{}
	for _, e := range verrs {
		fe.Add(e.Field(), message(e))
	}
	return fe
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "cannot be empty"
	case "username":
		return MsgUsernameFormat
	case "password":
		return MsgPasswordFormat
	case "email":
		return MsgEmailFormat
	case "eqfield":
		return MsgPasswordsMatch
	case "role":
		if e.Value() == "" {
			return MsgRoleRequired
		}
		return "must be one of admin, manager, employee"
	default:
		return "is invalid"
	}
}

// RegisterInput is the self-registration form.
type RegisterInput struct {
	Username        string `json:"username" validate:"required,username"`
	Email           string `json:"email" validate:"omitempty,email"`
	Password        string `json:"password" validate:"required,password"`
	ConfirmPassword string `json:"confirmPassword" validate:"omitempty,eqfield=Password"`
}

// UserInput is the admin form for creating users.
type UserInput struct {
	Username string `json:"username" validate:"required,username"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required,password"`
	Role     string `json:"role" validate:"role"`
}

// UserPatch is the admin form for editing users. Empty fields are kept.
type UserPatch struct {
	Username string `json:"username" validate:"omitempty,username"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"omitempty,password"`
	Role     string `json:"role" validate:"omitempty,role"`
}
