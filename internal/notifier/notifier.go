package notifier

import (
	"context"

	"github.com/pfrederiksen/scorecard-sync/internal/payload"
)

// Submission is an assembled score post handed off for posting
type Submission struct {
	RunID   string           `json:"run_id"`
	Source  string           `json:"source"` // form or grint
	RoundID int              `json:"round_id,omitempty"`
	Payload *payload.Payload `json:"payload"`
}

// Notifier defines the interface for handing off assembled score posts
type Notifier interface {
	// Notify delivers one submission
	Notify(ctx context.Context, sub Submission) error
}
