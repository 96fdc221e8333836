package locator

import (
	"github.com/pfrederiksen/scorecard-sync/internal/logger"
	"github.com/pfrederiksen/scorecard-sync/internal/raw"
	"github.com/pfrederiksen/scorecard-sync/internal/scorecard"
)

// TableKey is the field name the form gives the scores table.
const TableKey = "scores_table"

// Channel keys used by the submitting form inside each side.
const (
	KeyScore    = "score"
	KeyPutts    = "putts"
	KeyFIR      = "fir"
	KeyUpDown   = "updown"
	KeySandSave = "sandsave"
	KeyPenalty  = "penalty"
)

// ChannelKeys lists the six channel keys in form order.
var ChannelKeys = []string{KeyScore, KeyPutts, KeyFIR, KeyUpDown, KeySandSave, KeyPenalty}

// Predicate decides whether a node is a scores table.
type Predicate func(raw.Value) bool

// RequestSource supplies the unprocessed submitted request as a fallback
// search space.
type RequestSource interface {
	Values() (raw.Value, error)
}

// RequestFunc adapts a function to RequestSource.
type RequestFunc func() (raw.Value, error)

// Values calls f.
func (f RequestFunc) Values() (raw.Value, error) { return f() }

// Locator searches untyped data for the scores table.
type Locator struct {
	Key       string
	Predicate Predicate
	Log       *logger.Logger
}

// New returns a locator using the loose predicate, which accepts nine-hole
// submissions that carry only one side.
func New() *Locator {
	return &Locator{
		Key:       TableKey,
		Predicate: LooksLikeScoresTable,
		Log:       logger.Channel("upload"),
	}
}

// Find is New().Find.
func Find(primary raw.Value, fallback RequestSource) (raw.Value, bool) {
	return New().Find(primary, fallback)
}

// Find searches primary, then the fallback request if one is given.
func (l *Locator) Find(primary raw.Value, fallback RequestSource) (raw.Value, bool) {
	if t, ok := l.Search(primary); ok {
		return t, true
	}
	if fallback == nil {
		return raw.Value{}, false
	}

	input, err := fallback.Values()
	if err != nil {
		l.Log.Warn("Raw request unavailable for scores table search", logger.Fields{"error": err.Error()})
		return raw.Value{}, false
	}
	t, ok := l.Search(input)
	if ok {
		logger.IncrCounter("locator.fallback")
		l.Log.Debug("Scores table found in raw request", nil)
	}
	return t, ok
}

// Search walks v depth-first, children in order, and returns the first table.
func (l *Locator) Search(v raw.Value) (raw.Value, bool) {
	if !v.IsContainer() {
		return raw.Value{}, false
	}

	if v.IsMapping() {
		if t, ok := v.Get(l.Key); ok && t.IsMapping() && l.Predicate(t) {
			return t, true
		}
		if l.Predicate(v) {
			return v, true
		}
	}

	for _, e := range v.Entries() {
		if !e.Value.IsContainer() {
			continue
		}
		if t, ok := l.Search(e.Value); ok {
			return t, true
		}
	}
	return raw.Value{}, false
}

// LooksLikeScoresTable accepts a mapping with a front and/or back side, every
// present side a mapping, where some side holds a channel container with at
// least one numeric-looking key. An empty-but-present shape is rejected.
func LooksLikeScoresTable(t raw.Value) bool {
	if !t.IsMapping() {
		return false
	}

	var sides []raw.Value
	for _, name := range scorecard.Sides {
		side, ok := t.Get(string(name))
		if !ok {
			continue
		}
		if !side.IsMapping() {
			return false
		}
		sides = append(sides, side)
	}

	for _, side := range sides {
		for _, key := range ChannelKeys {
			ch, ok := side.Get(key)
			if !ok || !ch.IsContainer() {
				continue
			}
			for _, e := range ch.Entries() {
				if raw.IsNumeric(e.Key) {
					return true
				}
			}
		}
	}
	return false
}

// LooksLikeScoresTableStrict is the older rule: both sides must be present
// and one of them must hold a channel container.
func LooksLikeScoresTableStrict(t raw.Value) bool {
	front, okFront := t.Get(string(scorecard.Front))
	back, okBack := t.Get(string(scorecard.Back))
	if !okFront || !okBack || !front.IsMapping() || !back.IsMapping() {
		return false
	}

	for _, key := range ChannelKeys {
		if ch, ok := front.Get(key); ok && ch.IsContainer() {
			return true
		}
		if ch, ok := back.Get(key); ok && ch.IsContainer() {
			return true
		}
	}
	return false
}
