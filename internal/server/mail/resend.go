package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultBaseURL адрес Resend API
const DefaultBaseURL = "https://api.resend.com"

// sendRequest представляет тело запроса POST /emails
type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Client отправляет письма через Resend HTTP API
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	from       string
}

// NewClient создает клиент Resend
// baseURL обычно DefaultBaseURL, в тестах подменяется на httptest сервер
// from - адрес отправителя, сконфигурированный в Resend
func NewClient(baseURL, apiKey, from string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		from:    from,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Send отправляет одно письмо
func (c *Client) Send(ctx context.Context, to, subject, html string) error {
	body := sendRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create email request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("email request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Текст ошибки провайдера уходит только в лог, не клиенту
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("email provider returned status %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}
