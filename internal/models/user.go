package models

import "strings"

// User is stored in the "users" collection. Password holds a bcrypt hash;
// documents written by older clients may still carry plaintext.
type User struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// Comment is stored in the "comments" collection.
type Comment struct {
	ID     int64  `json:"id"`
	TaskID ID     `json:"taskId"`
	UserID ID     `json:"userId"`
	Text   string `json:"text"`
}

// Session is the "loggedInUser" document.
type Session struct {
	UserID   ID     `json:"userId"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// NewSession builds the session for an authenticated user.
func NewSession(u User) Session {
	return Session{
		UserID:   NewID(u.UserID),
		Username: u.Username,
		Role:     Role(strings.ToLower(string(u.Role))),
	}
}
