package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// resetTokenBytes размер reset token до кодирования
const resetTokenBytes = 32

// GenerateResetToken создает криптографически случайный одноразовый токен
// Возвращает hex-строку (64 символа), которая встраивается в reset ссылку
func GenerateResetToken() (string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}

	return hex.EncodeToString(buf), nil
}
