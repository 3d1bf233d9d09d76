package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/quantgate/signal-sentinel/pkg/errors"
)

// Notifier delivers one notification to one backend.
type Notifier interface {
	// Name identifies the backend for logging.
	Name() string
	// Send delivers the notification. Errors are reported to the dispatcher,
	// which owns the retry policy.
	Send(ctx context.Context, notification Notification) error
}

const defaultWebhookTimeout = 10 * time.Second

// WebhookNotifier POSTs notifications as JSON to a collaborator endpoint.
type WebhookNotifier struct {
	endpoint string
	client   *http.Client
}

// NewWebhookNotifier creates a webhook notifier for the given endpoint URL.
func NewWebhookNotifier(endpoint string) *WebhookNotifier {
	return &WebhookNotifier{
		endpoint: endpoint,
		client:   &http.Client{Timeout: defaultWebhookTimeout},
	}
}

// Name implements Notifier.
func (w *WebhookNotifier) Name() string {
	return "webhook"
}

// Send implements Notifier.
func (w *WebhookNotifier) Send(ctx context.Context, notification Notification) error {
	payload, err := json.Marshal(notification)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDeliveryFailed, "failed to encode notification", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.endpoint, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(errors.ErrCodeDeliveryFailed, "failed to build webhook request", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDeliveryFailed, "webhook request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Newf(errors.ErrCodeDeliveryFailed, "webhook returned status %d", resp.StatusCode)
	}

	return nil
}
