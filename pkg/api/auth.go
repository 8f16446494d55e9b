package api

// SignupRequest представляет запрос на регистрацию нового пользователя
type SignupRequest struct {
	Username string `json:"username"` // уникальный username
	Email    string `json:"email"`    // уникальный email
	Password string `json:"password"` // пароль в открытом виде (хешируется на сервере)
}

// LoginRequest представляет запрос на аутентификацию
type LoginRequest struct {
	Email    string `json:"email"`    // email пользователя
	Password string `json:"password"` // пароль в открытом виде
}

// User представляет публичную проекцию пользователя
// Хеш пароля и reset-token поля никогда не попадают в ответ
type User struct {
	ID        string `json:"id"`        // UUID пользователя
	Username  string `json:"username"`  // username
	Email     string `json:"email"`     // email
	CreatedAt string `json:"createdAt"` // время создания (RFC3339)
}

// AuthResponse представляет ответ на успешную регистрацию или вход
type AuthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"` // JWT session token
	User    User   `json:"user"`
}

// UserResponse представляет ответ с данными текущего пользователя
type UserResponse struct {
	Success bool `json:"success"`
	User    User `json:"user"`
}

// ForgotPasswordRequest представляет запрос на восстановление пароля
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest представляет запрос на установку нового пароля
// Сам reset token передается как path parameter
type ResetPasswordRequest struct {
	Password string `json:"password"`
}

// UpdateUsernameRequest представляет запрос на смену username
type UpdateUsernameRequest struct {
	Username string `json:"username"`
}

// UpdatePasswordRequest представляет запрос на смену пароля
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// MessageResponse представляет ответ, содержащий только сообщение
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Success bool   `json:"success"` // всегда false
	Message string `json:"message"` // описание ошибки
}
