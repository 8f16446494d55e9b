package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"syscall"
	"time"

	"github.com/iudanet/brainrot/pkg/api"
)

// DefaultTimeout ограничивает один проксируемый запрос генерации
// Генерация видео медленная, поэтому таймаут две минуты
const DefaultTimeout = 2 * time.Minute

// ErrUnavailable означает, что AI сервис не принимает соединения
// Отличается от остальных ошибок: клиенту возвращается 503, а не 500
var ErrUnavailable = errors.New("generation service is not running")

// Response представляет ответ AI сервиса как есть
// Тело не интерпретируется - proxy пересылает его клиенту verbatim
type Response struct {
	Body       []byte
	StatusCode int
}

// ClipGenerator defines interface for the upstream generation call
// Реализация подменяется в тестах на фейк
type ClipGenerator interface {
	Generate(ctx context.Context, req api.GenerateClipRequest) (*Response, error)
}

// Client представляет HTTP клиент AI сервиса генерации видео
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// New создает клиент AI сервиса
// baseURL - базовый адрес Flask сервиса (например http://localhost:5000)
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Generate выполняет единственный POST /api/generate без ретраев
// Возвращает ErrUnavailable при отказе соединения; HTTP-ошибки upstream
// не считаются ошибками Go - статус и тело отдаются вызывающему как есть
func (c *Client) Generate(ctx context.Context, req api.GenerateClipRequest) (*Response, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal generate request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create generate request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, syscall.ECONNREFUSED) {
			return nil, fmt.Errorf("%w: %s", ErrUnavailable, c.baseURL)
		}
		return nil, fmt.Errorf("generate request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read generate response: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}
