package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iudanet/brainrot/internal/models"
	"github.com/iudanet/brainrot/internal/server/storage"
)

// CreateUser creates a new user in the storage
func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, reset_token, reset_token_expires, created_at, updated_at)
		VALUES (?, ?, ?, ?, NULL, NULL, ?, ?)
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
		// Определяем, какой именно unique индекс нарушен
		// Конфликт должен называть конкретное поле, никогда оба сразу
		if uniqueViolation(err, "users.email") {
			return storage.ErrEmailTaken
		}
		if uniqueViolation(err, "users.username") {
			return storage.ErrUsernameTaken
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetUserByID retrieves user by ID
func (s *Storage) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	return s.getUser(ctx, "id", userID)
}

// GetUserByEmail retrieves user by email
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, "email", email)
}

// getUser выбирает одного пользователя по значению колонки
func (s *Storage) getUser(ctx context.Context, column, value string) (*models.User, error) {
	query := fmt.Sprintf(`
		SELECT id, username, email, password_hash, reset_token, reset_token_expires, created_at, updated_at
		FROM users
		WHERE %s = ?
	`, column)

	user := &models.User{}
	var resetToken sql.NullString
	var resetExpires sql.NullInt64

	err := s.db.QueryRowContext(ctx, query, value).Scan(
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
	query := `UPDATE users SET username = ?, updated_at = ? WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, username, time.Now(), userID)
	if err != nil {
		// Переименование в собственное текущее имя индекс не нарушает,
		// поэтому сюда попадает только конфликт с другим пользователем
		if uniqueViolation(err, "users.username") {
			return storage.ErrUsernameTaken
		}
		return fmt.Errorf("failed to update username: %w", err)
	}

	return checkAffected(result, storage.ErrUserNotFound)
}

// UpdatePassword replaces the stored password hash
func (s *Storage) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	query := `UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, passwordHash, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return checkAffected(result, storage.ErrUserNotFound)
}

// SetResetToken stores a single-use reset token with its expiry
func (s *Storage) SetResetToken(ctx context.Context, userID, token string, expires time.Time) error {
	query := `UPDATE users SET reset_token = ?, reset_token_expires = ?, updated_at = ? WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, token, expires.Unix(), time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to set reset token: %w", err)
	}

	return checkAffected(result, storage.ErrUserNotFound)
}

// ResetPassword consumes a reset token and stores the new password hash
// Одиночный условный UPDATE: совпадение токена, непросроченность, установка
// нового хеша и очистка токена происходят атомарно, поэтому повторное
// использование того же токена гарантированно не пройдет
func (s *Storage) ResetPassword(ctx context.Context, token, passwordHash string, now time.Time) error {
	query := `
		UPDATE users
		SET password_hash = ?, reset_token = NULL, reset_token_expires = NULL, updated_at = ?
		WHERE reset_token = ? AND reset_token_expires > ?
	`

	result, err := s.db.ExecContext(ctx, query, passwordHash, now, token, now.Unix())
	if err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}

	return checkAffected(result, storage.ErrResetTokenInvalid)
}

// uniqueViolation проверяет, что ошибка - нарушение unique индекса по колонке
// modernc.org/sqlite включает имя таблицы и колонки в текст ошибки
func uniqueViolation(err error, column string) bool {
	return err != nil &&
		strings.Contains(err.Error(), "UNIQUE constraint failed") &&
		strings.Contains(err.Error(), column)
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
