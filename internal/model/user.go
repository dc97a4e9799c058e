package model

import "time"

// User represents an application user record as stored in the `users`
// table.  PasswordHash never leaves the server: it is excluded from JSON.
type User struct {
	ID           uint64    `json:"id"`         // users.id
	Name         string    `json:"name"`       // users.name
	Email        string    `json:"email"`      // users.email (unique, lower-cased)
	Phone        string    `json:"phone"`      // users.phone
	PasswordHash string    `json:"-"`          // users.password_hash (bcrypt)
	CreatedAt    time.Time `json:"created_at"` // users.created_at
	UpdatedAt    time.Time `json:"updated_at"` // users.updated_at
}

// NewUser carries the registration input.  Password is plaintext and only
// lives long enough to be hashed.
type NewUser struct {
	Name     string
	Email    string
	Phone    string
	Password string
}
