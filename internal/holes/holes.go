// Package holes resolves which holes of a round were played.
//
// The declared mode token is authoritative for nine-hole rounds. An eighteen
// declaration can be repaired from per-hole evidence: when only one side
// looks played, the round is treated as that nine. The repair is best effort
// and never fails.
package holes

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pfrederiksen/scorecard-sync/internal/raw"
	"github.com/pfrederiksen/scorecard-sync/internal/scorecard"
)

// Mode is the holes-played enum of the destination schema.
type Mode int

const (
	EighteenHoles Mode = iota
	FrontNine
	BackNine
)

// Mode tokens as submitted by the form.
const (
	TokenEighteen = "18"
	TokenFront    = "front9"
	TokenBack     = "back9"
)

// ModeFromToken maps front9 and back9 to their halves and anything else to
// eighteen holes.
func ModeFromToken(token string) Mode {
	switch strings.TrimSpace(token) {
	case TokenFront:
		return FrontNine
	case TokenBack:
		return BackNine
	default:
		return EighteenHoles
	}
}

// String returns the destination enum name.
func (m Mode) String() string {
	switch m {
	case FrontNine:
		return "FrontNine"
	case BackNine:
		return "BackNine"
	default:
		return "EighteenHoles"
	}
}

// Token returns the form token for m.
func (m Mode) Token() string {
	switch m {
	case FrontNine:
		return TokenFront
	case BackNine:
		return TokenBack
	default:
		return TokenEighteen
	}
}

// IsNine reports whether m is a half round.
func (m Mode) IsNine() bool {
	return m == FrontNine || m == BackNine
}

// Holes returns the ordered hole numbers covered by m.
func (m Mode) Holes() []int {
	first, last := scorecard.FirstHole, scorecard.LastHole
	switch m {
	case FrontNine:
		last = scorecard.SideHoles
	case BackNine:
		first = scorecard.SideHoles + 1
	}
	out := make([]int, 0, last-first+1)
	for h := first; h <= last; h++ {
		out = append(out, h)
	}
	return out
}

// MarshalText encodes m as its enum name.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText decodes an enum name.
func (m *Mode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "EighteenHoles":
		*m = EighteenHoles
	case "FrontNine":
		*m = FrontNine
	case "BackNine":
		*m = BackNine
	default:
		return fmt.Errorf("unknown holes played %q", text)
	}
	return nil
}

// HoleSignal is the evidence that a hole was played.
type HoleSignal struct {
	Score     string
	Putts     string
	Secondary []string // fairway code, raw penalties, sand count
}

// Played reports whether the hole shows a positive score or putt count, or
// any secondary value other than blank or "0".
func (s HoleSignal) Played() bool {
	if n, ok := raw.Truncate(s.Score); ok && n > 0 {
		return true
	}
	if n, ok := raw.Truncate(s.Putts); ok && n > 0 {
		return true
	}
	for _, v := range s.Secondary {
		v = strings.TrimSpace(v)
		if v != "" && v != "0" {
			return true
		}
	}
	return false
}

// PlayedHoles returns the hole numbers in 1..18 whose signal looks played.
func PlayedHoles(signals map[int]HoleSignal) []int {
	var played []int
	for h := scorecard.FirstHole; h <= scorecard.LastHole; h++ {
		if s, ok := signals[h]; ok && s.Played() {
			played = append(played, h)
		}
	}
	return played
}

// Infer guesses the mode from which holes look played.
func Infer(signals map[int]HoleSignal) Mode {
	played := PlayedHoles(signals)
	if len(played) == 0 || len(played) > 11 {
		return EighteenHoles
	}

	front, back := 0, 0
	for _, h := range played {
		if h <= scorecard.SideHoles {
			front++
		} else {
			back++
		}
	}

	switch {
	case back == 0:
		return FrontNine
	case front == 0:
		return BackNine
	case len(played) <= 10:
		if front >= back {
			return FrontNine
		}
		return BackNine
	}
	return EighteenHoles
}

// Resolution is the outcome of resolving a round's holes.
type Resolution struct {
	Mode     Mode
	Holes    []int
	Declared Mode
	Inferred bool // Mode came from inference rather than the declaration
}

// Resolve turns a declared token into a hole list. When signals are given and
// the declaration is eighteen holes, a half-round inference overrides it.
func Resolve(declared string, signals map[int]HoleSignal) Resolution {
	mode := ModeFromToken(declared)
	res := Resolution{Mode: mode, Declared: mode}

	if mode == EighteenHoles && signals != nil {
		if inferred := Infer(signals); inferred.IsNine() {
			res.Mode = inferred
			res.Inferred = true
		}
	}

	res.Holes = res.Mode.Holes()
	return res
}

// SignalsFromChannels derives played signals from normalized channels, for
// callers of the form path that want inference too.
func SignalsFromChannels(ch scorecard.Channels) map[int]HoleSignal {
	out := make(map[int]HoleSignal)
	for h := scorecard.FirstHole; h <= scorecard.LastHole; h++ {
		var s HoleSignal
		if v, ok := ch.Gross[h]; ok {
			s.Score = strconv.Itoa(v)
		}
		if v, ok := ch.Putts[h]; ok {
			s.Putts = strconv.Itoa(v)
		}
		if v, ok := ch.FIR[h]; ok {
			s.Secondary = append(s.Secondary, string(v))
		}
		if v, ok := ch.Penalty[h]; ok {
			s.Secondary = append(s.Secondary, strconv.Itoa(v))
		}
		if ch.SandSave[h] {
			s.Secondary = append(s.Secondary, "1")
		}
		out[h] = s
	}
	return out
}
