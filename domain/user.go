package domain

import "time"

// User represents a registered identity. The password hash never
// leaves the process: it is excluded from JSON and only populated by
// the credential lookup used during login.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
