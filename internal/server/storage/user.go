package storage

import (
	"context"
	"time"

	"github.com/iudanet/brainrot/internal/models"
)

// UserStorage defines interface for user persistence
// Уникальность email/username и одноразовость reset token обеспечиваются
// на уровне БД (unique индексы и условные UPDATE), не в памяти приложения
type UserStorage interface {
	// CreateUser creates a new user
	// Returns ErrEmailTaken or ErrUsernameTaken on unique index violation
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByID retrieves user by ID
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	// GetUserByEmail retrieves user by email
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// UpdateUsername changes the username of an existing user
	// Returns ErrUsernameTaken if another user holds the name,
	// ErrUserNotFound if the user doesn't exist
	// Переименование в собственный текущий username проходит успешно
	UpdateUsername(ctx context.Context, userID, username string) error

	// UpdatePassword replaces the stored password hash
	// Returns ErrUserNotFound if the user doesn't exist
	UpdatePassword(ctx context.Context, userID, passwordHash string) error

	// SetResetToken stores a single-use reset token with its expiry
	// Returns ErrUserNotFound if the user doesn't exist
	SetResetToken(ctx context.Context, userID, token string, expires time.Time) error

	// ResetPassword consumes a reset token: in a single conditional update it
	// matches an unexpired token, stores the new hash and clears both token
	// fields. Returns ErrResetTokenInvalid when no row matches (unknown,
	// already consumed and expired collapse into one error).
	ResetPassword(ctx context.Context, token, passwordHash string, now time.Time) error
}
