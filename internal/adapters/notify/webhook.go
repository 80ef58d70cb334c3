package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"workclock/internal/platform/logger"
)

// WebhookSink POSTs notifications as JSON to a fixed URL. Failures are
// logged and dropped; the supervisors must never block on a slow receiver
type WebhookSink struct {
	url    string
	client *http.Client
}

// NewWebhookSink constructs a WebhookSink; timeout 0 means 5s
func NewWebhookSink(url string, timeout time.Duration) *WebhookSink {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &WebhookSink{url: url, client: &http.Client{Timeout: timeout}}
}

type webhookPayload struct {
	UserID  string `json:"user_id"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
	SentAt  string `json:"sent_at"`
}

// Send implements Sink
func (s *WebhookSink) Send(ctx context.Context, userID uuid.UUID, kind Kind, message string) {
	body, err := json.Marshal(webhookPayload{
		UserID:  userID.String(),
		Kind:    string(kind),
		Message: message,
		SentAt:  time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		logger.Named("notify").Warn().Err(err).Msg("webhook request build failed")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		logger.Named("notify").Warn().Err(err).Str("kind", string(kind)).Msg("webhook delivery failed")
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		logger.Named("notify").Warn().
			Int("status", resp.StatusCode).
			Str("kind", string(kind)).
			Msg("webhook receiver rejected notification")
	}
}
