package user

import "time"

// User is an admin-console account. Authorization does not trust the struct:
// the gate re-checks the admin capability through the is_admin database
// function on every admission.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         string    `json:"role"` // "admin" or "viewer"
	CreatedAt    time.Time `json:"created_at"`
}

// CreateUserInput holds the fields required to create a console account.
type CreateUserInput struct {
	Email    string
	Password string
	Name     string
	Role     string
}

// Session is a server-side session row. Only the SHA-256 hash of the opaque
// token is stored.
type Session struct {
	TokenHash string    `json:"-"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
