package models

import "time"

// User представляет пользователя в системе
// PasswordHash - bcrypt хеш, никогда не сериализуется в API ответы
type User struct {
	ID                string     `json:"id"`       // UUID пользователя
	Username          string     `json:"username"` // уникальный username
	Email             string     `json:"email"`    // уникальный email
	PasswordHash      string     `json:"-"`        // bcrypt хеш пароля
	ResetToken        *string    `json:"-"`        // одноразовый reset token (hex)
	ResetTokenExpires *time.Time `json:"-"`        // абсолютное время истечения токена
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}
