package scorecard

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const (
	// FirstHole and LastHole bound every hole number.
	FirstHole = 1
	LastHole  = 18

	// SideHoles is the number of holes on one side (front or back nine).
	SideHoles = 9
)

// Side is one half of the course.
type Side string

const (
	Front Side = "front"
	Back  Side = "back"
)

// Sides lists both sides, front first.
var Sides = []Side{Front, Back}

// HoleNumber maps a side-relative index (1..9) to a hole number (1..18).
// Back-nine holes are always index + 9.
func HoleNumber(side Side, index int) (int, bool) {
	if index < 1 || index > SideHoles {
		return 0, false
	}
	if side == Back {
		return index + SideHoles, true
	}
	return index, true
}

// ValidHole reports whether n is a hole number.
func ValidHole(n int) bool {
	return n >= FirstHole && n <= LastHole
}

// Fairway is the fairway-in-regulation outcome of a hole. The empty value
// means not recorded and encodes as JSON null.
type Fairway string

const (
	FairwayHit         Fairway = "Hit"
	FairwayRight       Fairway = "MissedRight"
	FairwayLeft        Fairway = "MissedLeft"
	FairwayShort       Fairway = "MissedShort"
	FairwayLong        Fairway = "MissedLong"
	FairwayUnspecified Fairway = "MissedUnspecified"
)

// Fairways is the closed set of recordable outcomes.
var Fairways = []Fairway{
	FairwayHit,
	FairwayRight,
	FairwayLeft,
	FairwayShort,
	FairwayLong,
	FairwayUnspecified,
}

// ParseFairway matches s exactly (case-sensitive) against the closed set.
func ParseFairway(s string) (Fairway, bool) {
	for _, f := range Fairways {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

// MarshalJSON encodes an unrecorded outcome as null.
func (f Fairway) MarshalJSON() ([]byte, error) {
	if f == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(f))
}

// UnmarshalJSON accepts null or one of the closed set.
func (f *Fairway) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, ok := ParseFairway(s)
	if !ok {
		return fmt.Errorf("unknown fairway result %q", s)
	}
	*f = parsed
	return nil
}

// Flag is a recorded-or-not statistic (up and down, sand save). A set flag
// encodes as the integer 1 and an unset flag as null; there is no false.
type Flag bool

// MarshalJSON encodes the flag as 1 or null.
func (f Flag) MarshalJSON() ([]byte, error) {
	if f {
		return []byte("1"), nil
	}
	return []byte("null"), nil
}

// UnmarshalJSON accepts 1 or null.
func (f *Flag) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "1":
		*f = true
	case "null":
		*f = false
	default:
		return fmt.Errorf("flag must be 1 or null, got %s", data)
	}
	return nil
}

// HoleRecord is the canonical per-hole record. Every channel is independently
// optional and a missing value is never replaced with zero.
type HoleRecord struct {
	Hole     int
	Gross    *int
	Putts    *int
	FIR      Fairway
	UpDown   Flag
	SandSave Flag
	Penalty  *int
}

// Empty reports whether no channel holds a value.
func (r HoleRecord) Empty() bool {
	return r.Gross == nil && r.Putts == nil && r.FIR == "" && !bool(r.UpDown) && !bool(r.SandSave) && r.Penalty == nil
}

// Channels holds the six statistic channels, each keyed by hole number. A
// missing key means the value was not recorded.
type Channels struct {
	Gross    map[int]int
	Putts    map[int]int
	FIR      map[int]Fairway
	UpDown   map[int]bool
	SandSave map[int]bool
	Penalty  map[int]int
}

// NewChannels returns channels with every mapping allocated and empty.
func NewChannels() Channels {
	return Channels{
		Gross:    make(map[int]int),
		Putts:    make(map[int]int),
		FIR:      make(map[int]Fairway),
		UpDown:   make(map[int]bool),
		SandSave: make(map[int]bool),
		Penalty:  make(map[int]int),
	}
}

// Record builds the canonical record for one hole.
func (c Channels) Record(hole int) HoleRecord {
	r := HoleRecord{Hole: hole}
	if v, ok := c.Gross[hole]; ok {
		r.Gross = IntPtr(v)
	}
	if v, ok := c.Putts[hole]; ok {
		r.Putts = IntPtr(v)
	}
	if v, ok := c.FIR[hole]; ok {
		r.FIR = v
	}
	if c.UpDown[hole] {
		r.UpDown = true
	}
	if c.SandSave[hole] {
		r.SandSave = true
	}
	if v, ok := c.Penalty[hole]; ok {
		r.Penalty = IntPtr(v)
	}
	return r
}

// Set stores every present field of r into the channels.
func (c Channels) Set(r HoleRecord) {
	if r.Gross != nil {
		c.Gross[r.Hole] = *r.Gross
	}
	if r.Putts != nil {
		c.Putts[r.Hole] = *r.Putts
	}
	if r.FIR != "" {
		c.FIR[r.Hole] = r.FIR
	}
	if r.UpDown {
		c.UpDown[r.Hole] = true
	}
	if r.SandSave {
		c.SandSave[r.Hole] = true
	}
	if r.Penalty != nil {
		c.Penalty[r.Hole] = *r.Penalty
	}
}

// Count returns how many values are recorded across all channels.
func (c Channels) Count() int {
	return len(c.Gross) + len(c.Putts) + len(c.FIR) + len(c.UpDown) + len(c.SandSave) + len(c.Penalty)
}

// IntPtr returns a pointer to a copy of n.
func IntPtr(n int) *int {
	return &n
}
