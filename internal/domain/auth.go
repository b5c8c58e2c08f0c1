package domain

import "time"

// Credential is the stored login record: a unique identifier and its hashed secret.
type Credential struct {
	Identifier   string
	PasswordHash string
}

// AuthenticationData is returned by a successful login.
type AuthenticationData struct {
	Subject   string
	UserID    string
	Token     string
	ExpiresAt time.Time
}

// SecurityTokenType distinguishes single-use tokens issued to users.
type SecurityTokenType string

const (
	SecurityTokenTypeResetPassword SecurityTokenType = "RESET"
	SecurityTokenTypeEmailConfirm  SecurityTokenType = "CONFIRM"
)

// SecurityToken is a single-use token such as a password reset code.
type SecurityToken struct {
	Type      SecurityTokenType
	Token     string
	OwnerID   string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// IsExpired reports whether the token is past its expiry at now.
func (t *SecurityToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
