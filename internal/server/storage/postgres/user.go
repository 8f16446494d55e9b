package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iudanet/brainrot/internal/models"
	"github.com/iudanet/brainrot/internal/server/storage"
)

// pgUniqueViolation код ошибки PostgreSQL unique_violation
const pgUniqueViolation = "23505"

// CreateUser creates a new user in the storage
func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, reset_token, reset_token_expires, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULL, NULL, $5, $6)
	`

	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		// Конфликт должен называть конкретное поле, никогда оба сразу
		if uniqueViolation(err, "idx_users_email") {
			return storage.ErrEmailTaken
		}
		if uniqueViolation(err, "idx_users_username") {
			return storage.ErrUsernameTaken
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetUserByID retrieves user by ID
func (s *Storage) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	query := `
		SELECT id, username, email, password_hash, reset_token, reset_token_expires, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	return s.getUser(ctx, query, userID)
}

// GetUserByEmail retrieves user by email
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, username, email, password_hash, reset_token, reset_token_expires, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	return s.getUser(ctx, query, email)
}

// getUser выбирает одного пользователя
func (s *Storage) getUser(ctx context.Context, query, arg string) (*models.User, error) {
	user := &models.User{}
	var resetToken sql.NullString
	var resetExpires sql.NullInt64

	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&resetToken,
		&resetExpires,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if resetToken.Valid {
		user.ResetToken = &resetToken.String
	}
	if resetExpires.Valid {
		expires := time.Unix(resetExpires.Int64, 0)
		user.ResetTokenExpires = &expires
	}

	return user, nil
}

// UpdateUsername changes the username of an existing user
func (s *Storage) UpdateUsername(ctx context.Context, userID, username string) error {
	query := `UPDATE users SET username = $1, updated_at = $2 WHERE id = $3`

	result, err := s.db.ExecContext(ctx, query, username, time.Now(), userID)
	if err != nil {
		if uniqueViolation(err, "idx_users_username") {
			return storage.ErrUsernameTaken
		}
		return fmt.Errorf("failed to update username: %w", err)
	}

	return checkAffected(result, storage.ErrUserNotFound)
}

// UpdatePassword replaces the stored password hash
func (s *Storage) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3`

	result, err := s.db.ExecContext(ctx, query, passwordHash, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return checkAffected(result, storage.ErrUserNotFound)
}

// SetResetToken stores a single-use reset token with its expiry
func (s *Storage) SetResetToken(ctx context.Context, userID, token string, expires time.Time) error {
	query := `UPDATE users SET reset_token = $1, reset_token_expires = $2, updated_at = $3 WHERE id = $4`

	result, err := s.db.ExecContext(ctx, query, token, expires.Unix(), time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to set reset token: %w", err)
	}

	return checkAffected(result, storage.ErrUserNotFound)
}

// ResetPassword consumes a reset token and stores the new password hash
// Условный UPDATE атомарен, повторное использование токена не пройдет
func (s *Storage) ResetPassword(ctx context.Context, token, passwordHash string, now time.Time) error {
	query := `
		UPDATE users
		SET password_hash = $1, reset_token = NULL, reset_token_expires = NULL, updated_at = $2
		WHERE reset_token = $3 AND reset_token_expires > $4
	`

	result, err := s.db.ExecContext(ctx, query, passwordHash, now, token, now.Unix())
	if err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}

	return checkAffected(result, storage.ErrResetTokenInvalid)
}

// uniqueViolation проверяет нарушение конкретного unique индекса
func uniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == constraint
}

// checkAffected возвращает notFound, если UPDATE не затронул ни одной строки
func checkAffected(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return notFound
	}

	return nil
}
