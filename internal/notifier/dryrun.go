package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// DryRunNotifier prints what would be sent without sending it
type DryRunNotifier struct {
	w io.Writer
}

// NewDryRunNotifier creates a new dry-run notifier writing to w
func NewDryRunNotifier(w io.Writer) *DryRunNotifier {
	return &DryRunNotifier{w: w}
}

// Notify prints the submission that would be posted
func (n *DryRunNotifier) Notify(ctx context.Context, sub Submission) error {
	body, err := json.MarshalIndent(sub, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding submission: %w", err)
	}

	holes := 0
	if sub.Payload != nil {
		holes = len(sub.Payload.HoleScores)
	}
	fmt.Fprintf(n.w, "--- Submission %s (%s, %d holes) ---\n", sub.RunID, sub.Source, holes)
	fmt.Fprintln(n.w, string(body))
	fmt.Fprintf(n.w, "\n(Size: %d bytes)\n\n", len(body))
	return nil
}
