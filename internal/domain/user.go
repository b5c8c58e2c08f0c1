package domain

import "time"

// User is the domain model for residents and community administrators.
type User struct {
	ID             string
	Name           string
	Email          string
	PasswordHash   string
	EmailConfirmed bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Credential returns the login view of the user.
func (u *User) Credential() Credential {
	return Credential{Identifier: u.Email, PasswordHash: u.PasswordHash}
}
