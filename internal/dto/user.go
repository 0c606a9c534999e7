package dto

import "github.com/Kavas-89/Task-Management-System/internal/models"

// UserDTO represents a user in API responses. The password never leaves
// the store.
type UserDTO struct {
	UserID   int64       `json:"userId"`
	Username string      `json:"username"`
	Email    string      `json:"email,omitempty"`
	Role     models.Role `json:"role"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		UserID:   user.UserID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	out := make([]UserDTO, len(users))
	for i, u := range users {
		out[i] = ToUserDTO(u)
	}
	return out
}

// ProfileDTO is the logged-in user's own view of their account.
type ProfileDTO struct {
	Session models.Session `json:"session"`
	User    *UserDTO       `json:"user,omitempty"`
}
