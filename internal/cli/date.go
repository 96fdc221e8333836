package cli

import (
	"fmt"
	"strings"
	"time"
)

// playedDateLayouts are the spellings accepted by --played-date, tried in order.
var playedDateLayouts = []string{
	"2006-01-02",
	"Jan 02 2006",
	"Jan 2 2006",
	"Jan 2, 2006",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"1.2.06",
}

// yearlessLayouts are "Jun 1" style dates, assumed to fall in the current year.
var yearlessLayouts = []string{"Jan 02", "Jan 2"}

// parsePlayedDate turns a date typed on the command line into the bare
// YYYY-MM-DD form the payload expects. An empty string stays empty.
func parsePlayedDate(text string, now time.Time) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}

	for _, layout := range playedDateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t.Format(time.DateOnly), nil
		}
	}

	for _, layout := range yearlessLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).Format(time.DateOnly), nil
		}
	}

	return "", fmt.Errorf("invalid played date: %q", text)
}
