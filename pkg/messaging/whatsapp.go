package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"portfolio-backend/config"
)

// ErrNotConfigured is returned when no gateway URL or recipient is set
var ErrNotConfigured = errors.New("whatsapp relay is not configured")

// WhatsAppClient posts text messages to an HTTP WhatsApp gateway
type WhatsAppClient struct {
	endpoint   string
	token      string
	to         string
	httpClient *http.Client
}

type sendRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

func NewWhatsAppClient(cfg *config.Config) *WhatsAppClient {
	timeout := cfg.RelayTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WhatsAppClient{
		endpoint:   cfg.WhatsAppAPIURL,
		token:      cfg.WhatsAppAPIToken,
		to:         cfg.WhatsAppTo,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// IsConfigured reports whether messages can be sent
func (c *WhatsAppClient) IsConfigured() bool {
	return c.endpoint != "" && c.to != ""
}

// Send delivers text to the configured owner number
func (c *WhatsAppClient) Send(ctx context.Context, text string) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}

	body, err := json.Marshal(sendRequest{To: c.to, Message: text})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("whatsapp gateway returned %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}
	return nil
}
