package crypto

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword хеширует пароль через bcrypt
// Используется при регистрации, смене пароля и reset-password flow
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}

// VerifyPassword проверяет, соответствует ли пароль сохраненному bcrypt хешу
// Возвращает ошибку при несовпадении
func VerifyPassword(password, passwordHash string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}
	if passwordHash == "" {
		return fmt.Errorf("password hash cannot be empty")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)); err != nil {
		return fmt.Errorf("invalid password")
	}

	return nil
}
