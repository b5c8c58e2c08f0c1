package domain

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrCredentialsIncorrect = errors.New("credentials incorrect")
	ErrEmailTaken           = errors.New("email already registered")
	ErrResetTokenInvalid    = errors.New("reset token invalid or expired")
	ErrCommunityNotFound    = errors.New("community not found")
	ErrForbidden            = errors.New("forbidden")
	ErrHouseNotFound        = errors.New("house not found")
	ErrConfirmTokenInvalid  = errors.New("email confirmation token invalid or expired")
	ErrEmailConfirmed       = errors.New("email already confirmed")
	// ErrPasswordTooLong marks passwords beyond bcrypt's 72-byte input limit.
	ErrPasswordTooLong = errors.New("password must be at most 72 bytes")
)
