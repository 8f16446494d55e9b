package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/brainrot/internal/crypto"
	"github.com/iudanet/brainrot/internal/models"
	"github.com/iudanet/brainrot/internal/server/mail"
	"github.com/iudanet/brainrot/internal/server/storage"
	"github.com/iudanet/brainrot/internal/validation"
	"github.com/iudanet/brainrot/pkg/api"
)

// resetTokenTTL время жизни одноразового reset token
const resetTokenTTL = 10 * time.Minute

// AuthHandler обрабатывает запросы регистрации, входа и управления аккаунтом
type AuthHandler struct {
	logger       *slog.Logger
	userStorage  storage.UserStorage
	mailer       mail.Mailer
	jwtConfig    JWTConfig
	resetURLBase string
}

// NewAuthHandler создает новый handler для авторизации
// resetURLBase - базовый URL фронтенда, в который встраивается reset ссылка
func NewAuthHandler(logger *slog.Logger, userStorage storage.UserStorage, mailer mail.Mailer, jwtConfig JWTConfig, resetURLBase string) *AuthHandler {
	return &AuthHandler{
		logger:       logger,
		userStorage:  userStorage,
		mailer:       mailer,
		jwtConfig:    jwtConfig,
		resetURLBase: resetURLBase,
	}
}

// Signup обрабатывает POST /api/auth/signup
// Регистрация нового пользователя
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode signup request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	// Проверка обязательных полей
	if req.Username == "" || req.Email == "" || req.Password == "" {
		sendError(h.logger, w, "Please provide username, email, and password", http.StatusBadRequest)
		return
	}

	if err := validation.ValidateUsername(req.Username); err != nil {
		h.logger.WarnContext(ctx, "invalid username", slog.String("username", req.Username), slog.Any("error", err))
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := validation.ValidateEmail(req.Email); err != nil {
		h.logger.WarnContext(ctx, "invalid email", slog.Any("error", err))
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	// Хешируем пароль
	passwordHash, err := crypto.HashPassword(req.Password)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.New().String(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// Уникальность email/username обеспечивает БД
	// Конфликт называет конкретное поле, никогда оба сразу
	if err := h.userStorage.CreateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, storage.ErrEmailTaken):
			h.logger.WarnContext(ctx, "signup conflict: email taken")
			sendError(h.logger, w, "Email already registered", http.StatusBadRequest)
		case errors.Is(err, storage.ErrUsernameTaken):
			h.logger.WarnContext(ctx, "signup conflict: username taken", slog.String("username", req.Username))
			sendError(h.logger, w, "Username already taken", http.StatusBadRequest)
		default:
			h.logger.ErrorContext(ctx, "failed to create user", slog.Any("error", err))
			sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	token, err := GenerateAccessToken(h.jwtConfig, user.ID, user.Username)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate access token", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user registered successfully",
		slog.String("username", user.Username),
		slog.String("user_id", user.ID))

	resp := api.AuthResponse{
		Success: true,
		Message: "User registered successfully",
		Token:   token,
		User:    publicUser(user),
	}

	sendJSON(h.logger, w, resp, http.StatusCreated)
}

// Login обрабатывает POST /api/auth/login
// Отсутствующий аккаунт и неверный пароль дают одинаковый ответ,
// чтобы по логину нельзя было перечислять зарегистрированные email
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode login request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Password == "" {
		sendError(h.logger, w, "Please provide email and password", http.StatusBadRequest)
		return
	}

	user, err := h.userStorage.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			h.logger.WarnContext(ctx, "login failed: user not found")
			sendError(h.logger, w, "Invalid credentials", http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := crypto.VerifyPassword(req.Password, user.PasswordHash); err != nil {
		h.logger.WarnContext(ctx, "login failed: invalid password", slog.String("user_id", user.ID))
		sendError(h.logger, w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := GenerateAccessToken(h.jwtConfig, user.ID, user.Username)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate access token", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user logged in successfully",
		slog.String("username", user.Username),
		slog.String("user_id", user.ID))

	resp := api.AuthResponse{
		Success: true,
		Message: "Login successful",
		Token:   token,
		User:    publicUser(user),
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// Me обрабатывает GET /api/auth/verify и GET /api/auth/me
// Токен уже проверен auth middleware, отсюда только выборка профиля
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		sendError(h.logger, w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.userStorage.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			// Токен валиден, но аккаунт уже удален
			h.logger.WarnContext(ctx, "token references missing user", slog.String("user_id", userID))
			sendError(h.logger, w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := api.UserResponse{
		Success: true,
		User:    publicUser(user),
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// ForgotPassword обрабатывает POST /api/auth/forgot-password
// Генерирует одноразовый токен, сохраняет его с истечением и шлет письмо
// со ссылкой. Порядок фиксированный: сначала персист токена, потом отправка.
// Если отправка упала, операция возвращает ошибку, но токен остается
// валидным - пользователь его легитимно запросил
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode forgot-password request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Email == "" {
		sendError(h.logger, w, "Please provide email", http.StatusBadRequest)
		return
	}

	user, err := h.userStorage.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			// Раскрывает существование аккаунта, в отличие от login
			// Поведение сохранено как есть, вопрос вынесен продуктам
			h.logger.WarnContext(ctx, "forgot-password: email not found")
			sendError(h.logger, w, "Email not found", http.StatusBadRequest)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	token, err := crypto.GenerateResetToken()
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate reset token", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	expires := time.Now().Add(resetTokenTTL)
	if err := h.userStorage.SetResetToken(ctx, user.ID, token, expires); err != nil {
		h.logger.ErrorContext(ctx, "failed to store reset token", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	link := fmt.Sprintf("%s/reset-password/%s", h.resetURLBase, token)
	html := fmt.Sprintf(`
		<h2>Password Reset</h2>
		<p>Click below to reset your password:</p>
		<a href="%s">%s</a>
	`, link, link)

	if err := h.mailer.Send(ctx, user.Email, "Reset Password", html); err != nil {
		h.logger.ErrorContext(ctx, "failed to send reset email",
			slog.String("user_id", user.ID),
			slog.Any("error", err))
		sendError(h.logger, w, "Email could not be sent", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "reset email sent", slog.String("user_id", user.ID))

	sendJSON(h.logger, w, api.MessageResponse{Success: true, Message: "Reset email sent!"}, http.StatusOK)
}

// ResetPassword обрабатывает POST /api/auth/reset-password/{token}
// Токен одноразовый: совпадение, проверка истечения, запись нового хеша и
// очистка токена выполняются одним условным UPDATE в storage, поэтому
// повторное использование и просроченный токен дают один и тот же отказ
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := r.PathValue("token")
	if token == "" {
		sendError(h.logger, w, "reset token is required", http.StatusBadRequest)
		return
	}

	var req api.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode reset-password request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Password == "" {
		sendError(h.logger, w, "Please provide a new password", http.StatusBadRequest)
		return
	}

	passwordHash, err := crypto.HashPassword(req.Password)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.userStorage.ResetPassword(ctx, token, passwordHash, time.Now()); err != nil {
		if errors.Is(err, storage.ErrResetTokenInvalid) {
			h.logger.WarnContext(ctx, "reset-password: token expired or invalid")
			sendError(h.logger, w, "Token expired or invalid", http.StatusBadRequest)
			return
		}
		h.logger.ErrorContext(ctx, "failed to reset password", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "password reset successfully")

	sendJSON(h.logger, w, api.MessageResponse{Success: true, Message: "Password updated"}, http.StatusOK)
}

// UpdateUsername обрабатывает PATCH /api/auth/user/username
// Переименование в собственное текущее имя проходит успешно (идемпотентно)
func (h *AuthHandler) UpdateUsername(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		sendError(h.logger, w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req api.UpdateUsernameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode update-username request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := validation.ValidateUsername(req.Username); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.userStorage.UpdateUsername(ctx, userID, req.Username); err != nil {
		switch {
		case errors.Is(err, storage.ErrUsernameTaken):
			h.logger.WarnContext(ctx, "update-username conflict", slog.String("username", req.Username))
			sendError(h.logger, w, "Username already taken", http.StatusBadRequest)
		case errors.Is(err, storage.ErrUserNotFound):
			sendError(h.logger, w, "Unauthorized", http.StatusUnauthorized)
		default:
			h.logger.ErrorContext(ctx, "failed to update username", slog.Any("error", err))
			sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	user, err := h.userStorage.GetUserByID(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get user after rename", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "username updated",
		slog.String("user_id", userID),
		slog.String("username", req.Username))

	sendJSON(h.logger, w, api.UserResponse{Success: true, User: publicUser(user)}, http.StatusOK)
}

// UpdatePassword обрабатывает PATCH /api/auth/user/password
// Требует подтверждения текущим паролем
func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		sendError(h.logger, w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req api.UpdatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode update-password request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.CurrentPassword == "" || req.NewPassword == "" {
		sendError(h.logger, w, "Please provide current and new password", http.StatusBadRequest)
		return
	}

	user, err := h.userStorage.GetUserByID(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := crypto.VerifyPassword(req.CurrentPassword, user.PasswordHash); err != nil {
		h.logger.WarnContext(ctx, "update-password: current password mismatch", slog.String("user_id", userID))
		sendError(h.logger, w, "Current password is incorrect", http.StatusUnauthorized)
		return
	}

	passwordHash, err := crypto.HashPassword(req.NewPassword)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.userStorage.UpdatePassword(ctx, userID, passwordHash); err != nil {
		h.logger.ErrorContext(ctx, "failed to update password", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "password updated", slog.String("user_id", userID))

	sendJSON(h.logger, w, api.MessageResponse{Success: true, Message: "Password updated"}, http.StatusOK)
}

// publicUser строит публичную проекцию пользователя
// Хеш пароля и reset-token поля в проекцию не попадают
func publicUser(user *models.User) api.User {
	return api.User{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}
