package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/grandparser/backend/internal/config"
)

// DefaultTimeout bounds a synchronous extraction call.
const DefaultTimeout = 2 * time.Minute

// WebhookInvoker posts the payload to the configured automation webhook and
// waits for the structured verdict.
type WebhookInvoker struct {
	url     string
	secret  string
	timeout time.Duration
	client  *http.Client
}

func NewWebhookInvoker(cfg config.WorkflowConfig) *WebhookInvoker {
	return &WebhookInvoker{
		url:     cfg.URL,
		secret:  cfg.Secret,
		timeout: DefaultTimeout,
		client:  &http.Client{},
	}
}

// Configured reports whether a webhook URL is present.
func (w *WebhookInvoker) Configured() bool {
	return w.url != ""
}

func (w *WebhookInvoker) Invoke(ctx context.Context, payload Payload) (*Outcome, error) {
	if w.url == "" {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if w.secret != "" {
		req.Header.Set("Authorization", "Bearer "+w.secret)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("workflow returned status %d", resp.StatusCode)
	}

	var outcome Outcome
	if err := json.NewDecoder(resp.Body).Decode(&outcome); err != nil {
		return nil, fmt.Errorf("invalid workflow response: %w", err)
	}

	return &outcome, nil
}
