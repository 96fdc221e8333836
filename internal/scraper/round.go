package scraper

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pfrederiksen/scorecard-sync/internal/holes"
	"github.com/pfrederiksen/scorecard-sync/internal/normalize"
	"github.com/pfrederiksen/scorecard-sync/internal/raw"
	"github.com/pfrederiksen/scorecard-sync/internal/scorecard"
)

// RoundHole holds the raw inputs of one hole as found on the page.
type RoundHole struct {
	Hole         int    `json:"hole"`
	Score        string `json:"score,omitempty"`
	Putts        string `json:"putts,omitempty"`
	PenaltiesRaw string `json:"penalties_raw,omitempty"`
	SandCount    int    `json:"sand_count,omitempty"`
	FIRCode      string `json:"fir_code,omitempty"`
}

// Round is a parsed review-score page keyed by hole number.
type Round struct {
	Holes map[int]*RoundHole `json:"holes"`
}

// NewRound returns an empty round.
func NewRound() Round {
	return Round{Holes: make(map[int]*RoundHole)}
}

// Len returns the number of holes found on the page.
func (r Round) Len() int {
	return len(r.Holes)
}

// Numbers returns the hole numbers present, ascending.
func (r Round) Numbers() []int {
	nums := make([]int, 0, len(r.Holes))
	for h := range r.Holes {
		nums = append(nums, h)
	}
	sort.Ints(nums)
	return nums
}

// hole returns the entry for n, creating it on first use.
func (r Round) hole(n int) *RoundHole {
	h, ok := r.Holes[n]
	if !ok {
		h = &RoundHole{Hole: n}
		r.Holes[n] = h
	}
	return h
}

// Signals returns the played-hole evidence for the resolver.
func (r Round) Signals() map[int]holes.HoleSignal {
	signals := make(map[int]holes.HoleSignal, len(r.Holes))
	for n, h := range r.Holes {
		signals[n] = holes.HoleSignal{
			Score: h.Score,
			Putts: h.Putts,
			Secondary: []string{
				h.FIRCode,
				h.PenaltiesRaw,
				strconv.Itoa(h.SandCount),
			},
		}
	}
	return signals
}

// Channels translates the round into canonical channels. pars supplies the
// par of each hole where known; it drives the up-and-down inference, and a
// par 3 hole carries no fairway.
func (r Round) Channels(pars map[int]int) scorecard.Channels {
	ch := scorecard.NewChannels()

	for _, n := range r.Numbers() {
		h := r.Holes[n]
		par, hasPar := pars[n]

		gross, hasGross := count(h.Score)
		if hasGross {
			ch.Gross[n] = gross
		}
		putts, hasPutts := count(h.Putts)
		if hasPutts {
			ch.Putts[n] = putts
		}

		if !hasPar || par != 3 {
			if f := FairwayFromCode(h.FIRCode); f != "" {
				ch.FIR[n] = f
			}
		}

		if p, ok := PenaltyCount(h.PenaltiesRaw); ok {
			ch.Penalty[n] = p
		}
		if max(h.SandCount, SandCount(h.PenaltiesRaw)) > 0 {
			ch.SandSave[n] = true
		}

		var parPtr, grossPtr, puttsPtr *int
		if hasPar {
			parPtr = scorecard.IntPtr(par)
		}
		if hasGross {
			grossPtr = scorecard.IntPtr(gross)
		}
		if hasPutts {
			puttsPtr = scorecard.IntPtr(putts)
		}
		if InferUpDown(parPtr, grossPtr, puttsPtr) {
			ch.UpDown[n] = true
		}
	}

	return ch
}

func count(s string) (int, bool) {
	n, ok := normalize.NullableInt(raw.NewString(s))
	if !ok || n < 0 {
		return 0, false
	}
	return n, true
}

// FairwayFromCode maps Grint's tee-accuracy code to a fairway result.
// Unknown codes, including 5 and blank, yield "".
func FairwayFromCode(code string) scorecard.Fairway {
	switch strings.TrimSpace(code) {
	case "1":
		return scorecard.FairwayLeft
	case "2":
		return scorecard.FairwayRight
	case "3":
		return scorecard.FairwayHit
	case "4":
		return scorecard.FairwayShort
	case "6":
		return scorecard.FairwayLong
	default:
		return ""
	}
}

// PenaltyCount counts the penalty strokes in a raw penalty string. Each
// letter is one stroke, except lowercase "s" which marks a sand shot and is
// not a penalty. Nothing to count is absent rather than zero.
func PenaltyCount(rawPen string) (int, bool) {
	s := strings.TrimSpace(rawPen)
	if s == "" {
		return 0, false
	}
	s = strings.ToUpper(strings.ReplaceAll(s, "s", ""))

	n := 0
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return n, true
}

// SandCount counts the sand markers in a raw penalty string, in either case.
func SandCount(rawPen string) int {
	return strings.Count(strings.ToUpper(strings.TrimSpace(rawPen)), "S")
}

// InferUpDown reports an up-and-down: one putt for par. Any unknown input
// means no.
func InferUpDown(par, gross, putts *int) bool {
	if par == nil || gross == nil || putts == nil {
		return false
	}
	return *putts == 1 && *gross == *par
}
