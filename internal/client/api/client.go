package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/iudanet/brainrot/pkg/api"
)

// generateTimeout таймаут для generate запроса
// Чуть больше серверного, чтобы серверный отрабатывал первым
const generateTimeout = 150 * time.Second

// Client представляет HTTP клиент для взаимодействия с brainrot backend
type Client struct {
	httpClient *http.Client
	longClient *http.Client // для долгого generate запроса
	baseURL    string
	token      string
}

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		longClient: &http.Client{
			Timeout: generateTimeout,
		},
	}
}

// SetToken устанавливает bearer token для последующих запросов
func (c *Client) SetToken(token string) {
	c.token = token
}

// Signup регистрирует нового пользователя
func (c *Client) Signup(ctx context.Context, req api.SignupRequest) (*api.AuthResponse, error) {
	var resp api.AuthResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/auth/signup", req, &resp); err != nil {
		return nil, fmt.Errorf("signup request failed: %w", err)
	}
	return &resp, nil
}

// Login выполняет аутентификацию пользователя
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.AuthResponse, error) {
	var resp api.AuthResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/auth/login", req, &resp); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// Me возвращает профиль текущего пользователя
func (c *Client) Me(ctx context.Context) (*api.UserResponse, error) {
	var resp api.UserResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/auth/me", nil, &resp); err != nil {
		return nil, fmt.Errorf("me request failed: %w", err)
	}
	return &resp, nil
}

// ForgotPassword запрашивает reset письмо
func (c *Client) ForgotPassword(ctx context.Context, email string) (*api.MessageResponse, error) {
	var resp api.MessageResponse
	req := api.ForgotPasswordRequest{Email: email}
	if err := c.doRequest(ctx, http.MethodPost, "/api/auth/forgot-password", req, &resp); err != nil {
		return nil, fmt.Errorf("forgot-password request failed: %w", err)
	}
	return &resp, nil
}

// ResetPassword устанавливает новый пароль по reset токену
func (c *Client) ResetPassword(ctx context.Context, token, password string) (*api.MessageResponse, error) {
	var resp api.MessageResponse
	req := api.ResetPasswordRequest{Password: password}
	path := "/api/auth/reset-password/" + token
	if err := c.doRequest(ctx, http.MethodPost, path, req, &resp); err != nil {
		return nil, fmt.Errorf("reset-password request failed: %w", err)
	}
	return &resp, nil
}

// UpdateUsername меняет username текущего пользователя
func (c *Client) UpdateUsername(ctx context.Context, username string) (*api.UserResponse, error) {
	var resp api.UserResponse
	req := api.UpdateUsernameRequest{Username: username}
	if err := c.doRequest(ctx, http.MethodPatch, "/api/auth/user/username", req, &resp); err != nil {
		return nil, fmt.Errorf("update-username request failed: %w", err)
	}
	return &resp, nil
}

// UpdatePassword меняет пароль текущего пользователя
func (c *Client) UpdatePassword(ctx context.Context, current, newPassword string) (*api.MessageResponse, error) {
	var resp api.MessageResponse
	req := api.UpdatePasswordRequest{CurrentPassword: current, NewPassword: newPassword}
	if err := c.doRequest(ctx, http.MethodPatch, "/api/auth/user/password", req, &resp); err != nil {
		return nil, fmt.Errorf("update-password request failed: %w", err)
	}
	return &resp, nil
}

// Generate запускает генерацию клипа и ждет результат
// Запрос долгий: сервер проксирует его AI сервису с двухминутным таймаутом
func (c *Client) Generate(ctx context.Context, req api.GenerateClipRequest) (*api.GenerateClipResponse, error) {
	var resp api.GenerateClipResponse
	if err := c.do(ctx, c.longClient, http.MethodPost, "/api/clips/generate", req, &resp); err != nil {
		return nil, fmt.Errorf("generate request failed: %w", err)
	}
	return &resp, nil
}

// Clips возвращает публичную ленту клипов
func (c *Client) Clips(ctx context.Context) (*api.ClipsResponse, error) {
	var resp api.ClipsResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/clips", nil, &resp); err != nil {
		return nil, fmt.Errorf("clips request failed: %w", err)
	}
	return &resp, nil
}

// MyClips возвращает клипы текущего пользователя
func (c *Client) MyClips(ctx context.Context) (*api.ClipsResponse, error) {
	var resp api.ClipsResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/clips/my-clips", nil, &resp); err != nil {
		return nil, fmt.Errorf("my-clips request failed: %w", err)
	}
	return &resp, nil
}

// doRequest выполняет HTTP запрос со стандартным таймаутом
func (c *Client) doRequest(ctx context.Context, method, path string, body, result interface{}) error {
	return c.do(ctx, c.httpClient, method, path, body, result)
}

// do выполняет HTTP запрос и декодирует JSON ответ
func (c *Client) do(ctx context.Context, client *http.Client, method, path string, body, result interface{}) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	// Ошибочный статус: пытаемся достать message из тела
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Message != "" {
			return fmt.Errorf("server error (%d): %s", resp.StatusCode, errResp.Message)
		}
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}
