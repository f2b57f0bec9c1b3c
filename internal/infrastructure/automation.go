package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrWebhookDisabled is returned when no webhook URL is configured.
var ErrWebhookDisabled = errors.New("automation webhook not configured")

// AutomationWebhook delivers activation payloads to the downstream
// workflow system. Delivery is fire-once: callers decide whether a
// failure matters.
type AutomationWebhook struct {
	url    string
	client *http.Client
}

func NewAutomationWebhook(url string) *AutomationWebhook {
	return &AutomationWebhook{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (w *AutomationWebhook) Send(ctx context.Context, tenantID string, payload any) error {
	if w.url == "" {
		return ErrWebhookDisabled
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Tenant-ID", tenantID)

	res, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("automation webhook: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("automation webhook: %s body=%s", res.Status, body)
	}
	return nil
}
