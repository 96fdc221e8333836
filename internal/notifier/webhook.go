package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pfrederiksen/scorecard-sync/internal/logger"
)

// DefaultTimeout bounds one webhook call.
const DefaultTimeout = 15 * time.Second

// ErrRejected is returned when the webhook answers with a non-2xx status.
var ErrRejected = errors.New("submission rejected")

// WebhookNotifier posts submissions as JSON to a URL. The receiving side
// owns authentication with Golf Canada and the actual score post.
type WebhookNotifier struct {
	url    string
	client *http.Client
	log    *logger.Logger
}

// NewWebhookNotifier creates a notifier for url
func NewWebhookNotifier(url string, timeout time.Duration) (*WebhookNotifier, error) {
	if url == "" {
		return nil, fmt.Errorf("missing webhook URL")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: timeout},
		log:    logger.Channel("notify"),
	}, nil
}

// Notify posts the submission
func (n *WebhookNotifier) Notify(ctx context.Context, sub Submission) error {
	body, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("encoding submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Scorecard-Run-Id", sub.RunID)

	start := time.Now()
	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting submission %s: %w", sub.RunID, err)
	}
	defer resp.Body.Close()
	logger.RecordTiming("notify.webhook", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, bytes.TrimSpace(snippet))
	}

	logger.IncrCounter("notify.sent")
	n.log.Info("Submission posted", logger.Fields{
		"run_id": sub.RunID,
		"source": sub.Source,
		"status": resp.StatusCode,
	})
	return nil
}
