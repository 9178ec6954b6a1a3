package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// PushClient delivers push notifications through an external gateway.
// Delivery is best-effort: the in-app notification record is persisted
// before any push attempt, and send errors are logged by the caller.
type PushClient interface {
	SendToToken(ctx context.Context, token, title, message string, data map[string]string) error
	SendToTokens(ctx context.Context, tokens []string, title, message string, data map[string]string) error
}

type pushClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewPushClient creates a push gateway client. An empty baseURL yields a
// no-op client so the service runs without a gateway configured.
func NewPushClient(baseURL string) PushClient {
	return &pushClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type pushMessage struct {
	To    []string          `json:"to"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

func (c *pushClient) SendToToken(ctx context.Context, token, title, message string, data map[string]string) error {
	return c.SendToTokens(ctx, []string{token}, title, message, data)
}

func (c *pushClient) SendToTokens(ctx context.Context, tokens []string, title, message string, data map[string]string) error {
	if c.baseURL == "" || len(tokens) == 0 {
		return nil
	}

	payload, err := json.Marshal(pushMessage{
		To:    tokens,
		Title: title,
		Body:  message,
		Data:  data,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal push message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/push/send", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("push request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("push gateway returned status %d", resp.StatusCode)
	}
	return nil
}
