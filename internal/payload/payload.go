// Package payload assembles the Golf Canada postScore request from resolved
// holes, canonical channels and round metadata.
//
// The destination is strict about nullability: unknown ids, statistics and
// attestors are sent as null, never as zero or an empty string, and the
// up-and-down and sand-save flags are the integer 1 or null.
package payload

import (
	"strings"

	"github.com/pfrederiksen/scorecard-sync/internal/holes"
	"github.com/pfrederiksen/scorecard-sync/internal/scorecard"
)

// Format values of the destination schema.
const (
	StrokePlay = "StrokePlay"
	MatchPlay  = "MatchPlay"
)

// HoleScore is one entry of holeScores.
type HoleScore struct {
	Number     int               `json:"number"`
	Gross      *int              `json:"gross"`
	Putts      *int              `json:"putts"`
	PuttLength *int              `json:"puttLength"`
	Club       *string           `json:"club"`
	Drive      *int              `json:"drive"`
	FIR        scorecard.Fairway `json:"fir"`
	UpDown     scorecard.Flag    `json:"upDown"`
	SandSave   scorecard.Flag    `json:"sandSave"`
	Penalty    *int              `json:"penalty"`
	Max        *int              `json:"max"`
}

// Payload is the postScore request body.
type Payload struct {
	ID                   *int        `json:"id"`
	IndividualID         *int        `json:"individualId"`
	Date                 string      `json:"date"`
	CourseID             *int        `json:"courseId"`
	TeeID                *int        `json:"teeId"`
	HolesPlayed          holes.Mode  `json:"holesPlayed"`
	FormatPlayed         string      `json:"formatPlayed"`
	ESC                  *int        `json:"esc"`
	HoleScores           []HoleScore `json:"holeScores"`
	IsHoleByHole         bool        `json:"isHoleByHole"`
	IsHoleByHoleRequired bool        `json:"isHoleByHoleRequired"`
	IsTrackingStats      bool        `json:"isTrackingStats"`
	IsTournament         bool        `json:"isTournament"`
	IsPenalty            bool        `json:"isPenalty"`
	Attestor             *string     `json:"attestor"`
	IsPlayedAlone        bool        `json:"isPlayedAlone"`
	FacilityID           *int        `json:"facilityId"`
}

// Assemble builds the payload. Hole scores cover exactly the resolved holes
// in ascending order; esc sums the gross scores present among them.
func Assemble(res holes.Resolution, ch scorecard.Channels, meta RoundMetadata) *Payload {
	p := &Payload{
		IndividualID:    nonZero(meta.IndividualID),
		Date:            isoDate(meta.PlayedDate),
		CourseID:        nonZero(meta.CourseID),
		TeeID:           nonZero(meta.TeeID),
		HolesPlayed:     res.Mode,
		FormatPlayed:    formatPlayed(meta.Format),
		HoleScores:      make([]HoleScore, 0, len(res.Holes)),
		IsHoleByHole:    true,
		IsTrackingStats: true, // sent even when no stat channel has data; possibly a latent defect
		IsTournament:    meta.Tournament,
		Attestor:        nonEmpty(meta.Attestor),
		IsPlayedAlone:   meta.PlayedAlone,
		FacilityID:      nonZero(meta.FacilityID),
	}

	esc, grossCount := 0, 0
	for _, h := range res.Holes {
		rec := ch.Record(h)
		p.HoleScores = append(p.HoleScores, HoleScore{
			Number:   h,
			Gross:    rec.Gross,
			Putts:    rec.Putts,
			FIR:      rec.FIR,
			UpDown:   rec.UpDown,
			SandSave: rec.SandSave,
			Penalty:  rec.Penalty,
		})
		if rec.Gross != nil {
			esc += *rec.Gross
			grossCount++
		}
	}
	if grossCount > 0 {
		p.ESC = scorecard.IntPtr(esc)
	}

	return p
}

// HoleRecords converts the hole scores back to canonical records.
func (p *Payload) HoleRecords() []scorecard.HoleRecord {
	records := make([]scorecard.HoleRecord, 0, len(p.HoleScores))
	for _, hs := range p.HoleScores {
		records = append(records, scorecard.HoleRecord{
			Hole:     hs.Number,
			Gross:    copyInt(hs.Gross),
			Putts:    copyInt(hs.Putts),
			FIR:      hs.FIR,
			UpDown:   hs.UpDown,
			SandSave: hs.SandSave,
			Penalty:  copyInt(hs.Penalty),
		})
	}
	return records
}

func nonZero(n int) *int {
	if n == 0 {
		return nil
	}
	return scorecard.IntPtr(n)
}

func nonEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	return scorecard.IntPtr(*p)
}

// isoDate appends a midnight time to a calendar date. Blank stays blank.
func isoDate(date string) string {
	date = strings.TrimSpace(date)
	if date == "" {
		return ""
	}
	return date + "T00:00:00"
}

func formatPlayed(token string) string {
	if token == "match" {
		return MatchPlay
	}
	return StrokePlay
}
