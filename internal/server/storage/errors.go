package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken indicates that another user already registered this email
	ErrEmailTaken = errors.New("email already registered")

	// ErrUsernameTaken indicates that another user already holds this username
	ErrUsernameTaken = errors.New("username already taken")

	// ErrResetTokenInvalid indicates that reset token does not match any user,
	// was already consumed, or expired - the cases are not distinguished
	ErrResetTokenInvalid = errors.New("reset token expired or invalid")
)
