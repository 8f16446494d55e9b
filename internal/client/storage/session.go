package storage

import "context"

// Session представляет сохраненную сессию пользователя
// Токен хранится как есть: это bearer credential самого пользователя
// на его собственной машине
type Session struct {
	ServerURL string `json:"server_url"` // адрес сервера, выдавшего токен
	Token     string `json:"token"`      // JWT session token
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	ExpiresAt int64  `json:"expires_at"` // unix время истечения токена
}

// SessionStorage defines interface for persisting the client session
type SessionStorage interface {
	// SaveSession stores the session, replacing any previous one
	SaveSession(ctx context.Context, session *Session) error

	// GetSession retrieves the stored session
	// Returns ErrSessionNotFound if no session exists
	GetSession(ctx context.Context) (*Session, error)

	// DeleteSession removes the stored session (logout)
	DeleteSession(ctx context.Context) error
}
