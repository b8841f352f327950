// Package messaging sends WhatsApp notifications through the UltraMsg
// HTTP API and keeps an append-only log of every attempt.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dukapos/dukapos/internal/shared"
)

// UltraMsgClient talks to the UltraMsg chat endpoint for a single
// WhatsApp instance.
type UltraMsgClient struct {
	baseURL    string
	instanceID string
	token      string
	httpClient *http.Client
}

// NewUltraMsgClient constructs an UltraMsgClient. Credentials may be
// empty; sends then fail with a messaging-unavailable error so the
// rest of the application keeps working without a provider account.
func NewUltraMsgClient(baseURL, instanceID, token string) *UltraMsgClient {
	return &UltraMsgClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		instanceID: instanceID,
		token:      token,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type ultraMsgResponse struct {
	Sent    string      `json:"sent"`
	Message string      `json:"message"`
	ID      json.Number `json:"id"`
	Error   any         `json:"error"`
}

// SendChat delivers a plain-text message to the given phone number and
// returns the provider message id.
func (c *UltraMsgClient) SendChat(ctx context.Context, to, body string) (string, error) {
	if c.instanceID == "" || c.token == "" {
		return "", fmt.Errorf("messaging: ultramsg credentials not configured: %w", shared.ErrMessagingUnavailable)
	}

	form := url.Values{}
	form.Set("token", c.token)
	form.Set("to", to)
	form.Set("body", body)

	endpoint := fmt.Sprintf("%s/%s/messages/chat", c.baseURL, c.instanceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("messaging: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("messaging: ultramsg unreachable: %w", shared.ErrMessagingUnavailable)
	}
	defer resp.Body.Close()

	var parsed ultraMsgResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("messaging: decode ultramsg response: %w", shared.ErrMessagingRejected)
	}
	if resp.StatusCode >= 300 || parsed.Error != nil || strings.EqualFold(parsed.Sent, "false") {
		return "", fmt.Errorf("messaging: ultramsg refused message (status %d): %w", resp.StatusCode, shared.ErrMessagingRejected)
	}
	return parsed.ID.String(), nil
}
