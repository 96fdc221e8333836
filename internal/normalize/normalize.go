// Package normalize turns a located sided scores table into canonical
// hole-indexed channels.
//
// Each channel has its own coercion rule. A value that fails its rule is
// dropped for that hole only; a missing or malformed table yields empty
// channels, which is the right answer for a round where nothing but gross
// score was tracked.
package normalize

import (
	"strings"

	"github.com/pfrederiksen/scorecard-sync/internal/locator"
	"github.com/pfrederiksen/scorecard-sync/internal/logger"
	"github.com/pfrederiksen/scorecard-sync/internal/raw"
	"github.com/pfrederiksen/scorecard-sync/internal/scorecard"
)

// Normalize extracts all six channels from table.
func Normalize(table raw.Value) scorecard.Channels {
	ch := scorecard.NewChannels()
	if !table.IsMapping() {
		return ch
	}

	eachHole(table, locator.KeyScore, func(hole int, v raw.Value) {
		if n, ok := count(v); ok {
			ch.Gross[hole] = n
		}
	})
	eachHole(table, locator.KeyPutts, func(hole int, v raw.Value) {
		if n, ok := count(v); ok {
			ch.Putts[hole] = n
		}
	})
	eachHole(table, locator.KeyFIR, func(hole int, v raw.Value) {
		if f, ok := FairwayEnum(v); ok {
			ch.FIR[hole] = f
		}
	})
	eachHole(table, locator.KeyUpDown, func(hole int, v raw.Value) {
		if _, ok := CheckedOne(v); ok {
			ch.UpDown[hole] = true
		}
	})
	eachHole(table, locator.KeySandSave, func(hole int, v raw.Value) {
		if _, ok := CheckedOne(v); ok {
			ch.SandSave[hole] = true
		}
	})
	eachHole(table, locator.KeyPenalty, func(hole int, v raw.Value) {
		if n, ok := count(v); ok {
			ch.Penalty[hole] = n
		}
	})

	return ch
}

// eachHole visits every entry of one channel on both sides whose key is a
// numeric side index in 1..9, passing the mapped hole number.
func eachHole(table raw.Value, key string, fn func(hole int, v raw.Value)) {
	for _, side := range scorecard.Sides {
		entries, ok := table.Path(string(side), key)
		if !ok || !entries.IsContainer() {
			continue
		}
		for _, e := range entries.Entries() {
			idx, ok := raw.Truncate(e.Key)
			if !ok {
				logger.IncrCounter("normalize.key_rejected")
				continue
			}
			hole, ok := scorecard.HoleNumber(side, idx)
			if !ok {
				logger.IncrCounter("normalize.key_rejected")
				continue
			}
			fn(hole, e.Value)
		}
	}
}

// count is NullableInt restricted to values a stroke or putt count can take.
func count(v raw.Value) (int, bool) {
	n, ok := NullableInt(v)
	if !ok || n < 0 {
		return 0, false
	}
	return n, true
}

// NullableInt trims the scalar text of v and truncates it to an integer.
// Empty or non-numeric text is absent.
func NullableInt(v raw.Value) (int, bool) {
	if v.IsNull() {
		return 0, false
	}
	s := strings.TrimSpace(v.Text())
	if s == "" {
		return 0, false
	}
	return raw.Truncate(s)
}

// FairwayEnum accepts only an exact, case-sensitive member of the fairway set.
func FairwayEnum(v raw.Value) (scorecard.Fairway, bool) {
	s := strings.TrimSpace(v.Text())
	if s == "" {
		return "", false
	}
	return scorecard.ParseFairway(s)
}

// CheckedOne maps a checkbox-like value to 1 or absent. true, the number 1
// and the string "1" are checked, as are "true" and "on" in any case. Nothing
// maps to 0.
func CheckedOne(v raw.Value) (int, bool) {
	switch v.Kind() {
	case raw.Bool:
		if b, _ := v.Bool(); b {
			return 1, true
		}
		return 0, false
	case raw.Number:
		if v.Text() == "1" {
			return 1, true
		}
	case raw.String:
		if v.Text() == "1" {
			return 1, true
		}
	case raw.Null:
		return 0, false
	}

	s := strings.ToLower(strings.TrimSpace(v.Text()))
	if s == "true" || s == "on" {
		return 1, true
	}
	return 0, false
}
