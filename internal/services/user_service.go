package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Kavas-89/Task-Management-System/internal/models"
	"github.com/Kavas-89/Task-Management-System/internal/repository"
	"github.com/Kavas-89/Task-Management-System/internal/validation"
)

var (
	ErrDuplicateUsername = errors.New("username already exists")
	ErrUserNotFound      = errors.New("user not found")
)

// DefaultUsers are written on first start so every role can log in.
var DefaultUsers = []struct {
	Username string
	Password string
	Role     models.Role
}{
	{"Admin#12", "Admin@123", models.RoleAdmin},
	{"Manager#12", "Manager@123", models.RoleManager},
	{"Employee#12", "Employee@123", models.RoleEmployee},
}

// UserDirectory owns the users collection.
type UserDirectory struct {
	users  repository.UserRepository
	logger *slog.Logger
}

// NewUserDirectory creates a new UserDirectory.
func NewUserDirectory(users repository.UserRepository, logger *slog.Logger) *UserDirectory {
	return &UserDirectory{
		users:  users,
		logger: logger.With("service", "users"),
	}
}

// Register creates an employee account. Field validation runs before the
// uniqueness check.
func (d *UserDirectory) Register(ctx context.Context, input validation.RegisterInput) (*models.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	input.Password = strings.TrimSpace(input.Password)
	input.ConfirmPassword = strings.TrimSpace(input.ConfirmPassword)

	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	return d.create(ctx, input.Username, input.Email, input.Password, models.RoleEmployee)
}

// Create adds a user with an explicit role.
func (d *UserDirectory) Create(ctx context.Context, input validation.UserInput) (*models.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	input.Password = strings.TrimSpace(input.Password)
	input.Role = strings.TrimSpace(input.Role)

	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	role, _ := models.ParseRole(input.Role)
	return d.create(ctx, input.Username, input.Email, input.Password, role)
}

func (d *UserDirectory) create(ctx context.Context, username, email, password string, role models.Role) (*models.User, error) {
	hashed, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: hashed,
		Role:     role,
	}
	if err := d.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// FindByID retrieves a user by ID.
func (d *UserDirectory) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return d.wrapFind(d.users.FindByID(ctx, id))
}

// FindByUsername retrieves a user by exact username.
func (d *UserDirectory) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return d.wrapFind(d.users.FindByUsername(ctx, strings.TrimSpace(username)))
}

func (d *UserDirectory) wrapFind(user *models.User, err error) (*models.User, error) {
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// FindByCredentials returns the user whose username and password both match.
// Plaintext passwords left by older clients are replaced by a hash here.
func (d *UserDirectory) FindByCredentials(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := d.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			rejectUnknown(password)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, legacy := checkPassword(user.Password, password)
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if legacy {
		d.upgradePassword(ctx, user, password)
	}
	return user, nil
}

// upgradePassword rehashes a plaintext password. A failure only leaves the
// plaintext in place.
func (d *UserDirectory) upgradePassword(ctx context.Context, user *models.User, password string) {
	hashed, err := hashPassword(password)
	if err != nil {
		d.logger.WarnContext(ctx, "failed to hash legacy password", "user_id", user.UserID, "error", err)
		return
	}

	_, err = d.users.Update(ctx, user.UserID, func(u *models.User) error {
		u.Password = hashed
		return nil
	})
	if err != nil {
		d.logger.WarnContext(ctx, "failed to upgrade legacy password", "user_id", user.UserID, "error", err)
		return
	}

	user.Password = hashed
	d.logger.InfoContext(ctx, "upgraded legacy password", "user_id", user.UserID)
}

// List returns every user.
func (d *UserDirectory) List(ctx context.Context) ([]models.User, error) {
	users, err := d.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Update changes the given fields of a user. A blank password keeps the
// current one.
func (d *UserDirectory) Update(ctx context.Context, id int64, patch validation.UserPatch) (*models.User, error) {
	patch.Username = strings.TrimSpace(patch.Username)
	patch.Email = strings.TrimSpace(patch.Email)
	patch.Password = strings.TrimSpace(patch.Password)
	patch.Role = strings.TrimSpace(patch.Role)

	if err := validation.Struct(patch); err != nil {
		return nil, err
	}

	var hashed string
	if patch.Password != "" {
		var err error
		if hashed, err = hashPassword(patch.Password); err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
	}

	user, err := d.users.Update(ctx, id, func(u *models.User) error {
		if patch.Username != "" {
			u.Username = patch.Username
		}
		if patch.Email != "" {
			u.Email = patch.Email
		}
		if hashed != "" {
			u.Password = hashed
		}
		if role, ok := models.ParseRole(patch.Role); ok {
			u.Role = role
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrDuplicateUsername
		default:
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
	}

	return user, nil
}

// Remove deletes a user. Its ID is never handed out again.
func (d *UserDirectory) Remove(ctx context.Context, id int64) error {
	if err := d.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to remove user: %w", err)
	}
	d.logger.InfoContext(ctx, "user removed", "user_id", id)
	return nil
}

// SeedDefaults writes DefaultUsers with IDs 1..3 when no users exist yet.
func (d *UserDirectory) SeedDefaults(ctx context.Context) (bool, error) {
	users := make([]models.User, 0, len(DefaultUsers))
	for i, u := range DefaultUsers {
		hashed, err := hashPassword(u.Password)
		if err != nil {
			return false, fmt.Errorf("failed to hash password: %w", err)
		}
		users = append(users, models.User{
			UserID:   int64(i + 1),
			Username: u.Username,
			Password: hashed,
			Role:     u.Role,
		})
	}

	return d.users.Seed(ctx, users)
}
