// Package review builds the scorecard shown for a scraped Grint round before
// it is posted: the resolved holes with their reference data, defaults
// derived from Grint's codes, and totals over the holes played.
//
// Reference data is best effort. When the destination ids are incomplete or a
// lookup fails, the scorecard is still built with blank par, yardage and
// handicap cells.
package review

import (
	"context"
	"strconv"

	"github.com/pfrederiksen/scorecard-sync/internal/course"
	"github.com/pfrederiksen/scorecard-sync/internal/holes"
	"github.com/pfrederiksen/scorecard-sync/internal/logger"
	"github.com/pfrederiksen/scorecard-sync/internal/scorecard"
	"github.com/pfrederiksen/scorecard-sync/internal/scraper"
)

// Meta describes the round being reviewed.
type Meta struct {
	HolesMode string // declared token: 18, front9 or back9

	MemberID   int
	FacilityID int
	CourseID   int
	TeeID      int

	// As scraped from the Grint page.
	CourseName    string
	TeeColor      string
	GrintCourseID int
}

// CourseDataSource supplies Grint's own course data, used when the
// destination has none.
type CourseDataSource interface {
	FetchCourseData(ctx context.Context, courseID int, tee string, round int) (*course.HoleArrays, error)
}

// Row is one hole of the scorecard.
type Row struct {
	Hole     int               `json:"hole"`
	Par      int               `json:"par,omitempty"`
	Yards    int               `json:"yards,omitempty"`
	Handicap int               `json:"handicap,omitempty"`
	Score    string            `json:"score"`
	Putts    string            `json:"putts"`
	FIR      scorecard.Fairway `json:"fir"`
	NoFIR    bool              `json:"no_fir,omitempty"` // par 3
	Penalty  *int              `json:"penalty"`
	UpDown   bool              `json:"up_down"`
	SandSave bool              `json:"sand_save"`
}

// Totals are summed over the resolved holes only.
type Totals struct {
	Gross int `json:"gross"`
	Putts int `json:"putts"`
	Par   int `json:"par"`
	Yards int `json:"yards"`
}

// Scorecard is the reviewed round.
type Scorecard struct {
	Holes          holes.Resolution `json:"-"`
	HolesPlayed    holes.Mode       `json:"holes_played"`
	Inferred       bool             `json:"holes_inferred"`
	CourseName     string           `json:"course_name"`
	TeeName        string           `json:"tee_name"`
	CourseHandicap *int             `json:"course_handicap"`

	ParOut     int `json:"par_out,omitempty"`
	ParIn      int `json:"par_in,omitempty"`
	ParTotal   int `json:"par_total,omitempty"`
	YardsOut   int `json:"yards_out,omitempty"`
	YardsIn    int `json:"yards_in,omitempty"`
	YardsTotal int `json:"yards_total,omitempty"`

	Rows   []Row  `json:"rows"`
	Totals Totals `json:"totals"`

	channels scorecard.Channels
}

// Channels returns the canonical channels of the resolved holes.
func (s *Scorecard) Channels() scorecard.Channels {
	ch := scorecard.NewChannels()
	for _, h := range s.Holes.Holes {
		ch.Set(s.channels.Record(h))
	}
	return ch
}

// Builder assembles scorecards. Provider and CourseData may be nil.
type Builder struct {
	Provider   course.Provider
	CourseData CourseDataSource
	Log        *logger.Logger
}

// NewBuilder returns a builder logging to the review channel.
func NewBuilder(p course.Provider, cd CourseDataSource) *Builder {
	return &Builder{
		Provider:   p,
		CourseData: cd,
		Log:        logger.Channel("review"),
	}
}

// Build reviews a scraped round.
func (b *Builder) Build(ctx context.Context, round scraper.Round, meta Meta) *Scorecard {
	log := b.Log
	if log == nil {
		log = logger.Channel("review")
	}

	res := holes.Resolve(meta.HolesMode, round.Signals())
	if res.Inferred {
		logger.IncrCounter("review.holes_inferred")
		log.Info("Holes mode overridden by inference", logger.Fields{
			"from": res.Declared.Token(),
			"to":   res.Mode.Token(),
		})
	}

	sc := &Scorecard{
		Holes:       res,
		HolesPlayed: res.Mode,
		Inferred:    res.Inferred,
		CourseName:  meta.CourseName,
		TeeName:     meta.TeeColor,
	}

	arrays := b.reference(ctx, log, meta, sc)
	if arrays == nil {
		arrays = &course.HoleArrays{}
	}

	sc.channels = round.Channels(arrays.ParMap())
	b.rows(log, round, arrays, sc)
	b.totals(arrays, sc)

	return sc
}

// reference loads names, hole arrays and the course handicap. Every failure
// is logged and skipped.
func (b *Builder) reference(ctx context.Context, log *logger.Logger, meta Meta, sc *Scorecard) *course.HoleArrays {
	var arrays *course.HoleArrays

	complete := meta.MemberID > 0 && meta.FacilityID > 0 && meta.CourseID > 0 && meta.TeeID > 0
	if b.Provider != nil && complete {
		if courses, err := b.Provider.Courses(ctx, meta.FacilityID, meta.MemberID); err != nil {
			log.Warn("Course list unavailable", logger.Fields{"facility_id": meta.FacilityID, "error": err.Error()})
		} else {
			courseName, teeName := course.FindNames(courses, meta.CourseID, meta.TeeID)
			if courseName != "" {
				sc.CourseName = courseName
			}
			if teeName != "" {
				sc.TeeName = teeName
			}
		}

		a, err := b.Provider.TeeHoleArrays(ctx, meta.FacilityID, meta.MemberID, meta.CourseID, meta.TeeID)
		if err != nil {
			log.Warn("Tee holes unavailable", logger.Fields{"tee_id": meta.TeeID, "error": err.Error()})
		} else {
			arrays = a
		}

		teeName := sc.TeeName
		if teeName == "" {
			teeName = meta.TeeColor
		}
		if ch, err := b.Provider.CourseHandicap(ctx, meta.MemberID, meta.FacilityID, meta.CourseID, teeName); err != nil {
			log.Warn("Course handicap unavailable", logger.Fields{"error": err.Error()})
		} else {
			sc.CourseHandicap = &ch
		}
	} else if !complete {
		log.Info("Destination ids missing; tee holes not loaded", logger.Fields{
			"member_id":   meta.MemberID,
			"facility_id": meta.FacilityID,
			"course_id":   meta.CourseID,
			"tee_id":      meta.TeeID,
		})
	}

	if arrays == nil && b.CourseData != nil && meta.GrintCourseID > 0 && meta.TeeColor != "" {
		a, err := b.CourseData.FetchCourseData(ctx, meta.GrintCourseID, meta.TeeColor, course.RoundHoles)
		if err != nil {
			log.Warn("Grint course data unavailable", logger.Fields{"course_id": meta.GrintCourseID, "error": err.Error()})
		} else {
			arrays = a
		}
	}

	if arrays != nil {
		sc.ParOut, sc.ParIn, sc.ParTotal = arrays.ParOut, arrays.ParIn, arrays.ParTotal
		sc.YardsOut, sc.YardsIn, sc.YardsTotal = arrays.YardsOut, arrays.YardsIn, arrays.YardsTotal
	}
	return arrays
}

func (b *Builder) rows(log *logger.Logger, round scraper.Round, arrays *course.HoleArrays, sc *Scorecard) {
	for _, h := range sc.Holes.Holes {
		row := Row{
			Hole:     h,
			Par:      arrays.Pars[h-1],
			Yards:    arrays.Yards[h-1],
			Handicap: arrays.Handicaps[h-1],
		}
		if rh, ok := round.Holes[h]; ok {
			row.Score = rh.Score
			row.Putts = rh.Putts
		}

		rec := sc.channels.Record(h)
		row.NoFIR = row.Par == 3
		row.FIR = rec.FIR
		row.Penalty = rec.Penalty
		row.UpDown = bool(rec.UpDown)
		row.SandSave = bool(rec.SandSave)

		log.Debug("Up-and-down inference", logger.Fields{
			"hole":    h,
			"par":     row.Par,
			"gross":   row.Score,
			"putts":   row.Putts,
			"up_down": row.UpDown,
		})
		sc.Rows = append(sc.Rows, row)
	}
}

func (b *Builder) totals(arrays *course.HoleArrays, sc *Scorecard) {
	for _, h := range sc.Holes.Holes {
		sc.Totals.Gross += sc.channels.Gross[h]
		sc.Totals.Putts += sc.channels.Putts[h]
	}
	sc.Totals.Par, sc.Totals.Yards = arrays.SumOver(sc.Holes.Holes)

	switch sc.HolesPlayed {
	case holes.FrontNine:
		sc.ParTotal, sc.YardsTotal = sc.Totals.Par, sc.Totals.Yards
		sc.ParOut, sc.YardsOut = sc.ParTotal, sc.YardsTotal
		sc.ParIn, sc.YardsIn = 0, 0
	case holes.BackNine:
		sc.ParTotal, sc.YardsTotal = sc.Totals.Par, sc.Totals.Yards
		sc.ParIn, sc.YardsIn = sc.ParTotal, sc.YardsTotal
		sc.ParOut, sc.YardsOut = 0, 0
	}
}

// MetaFromRound fills the scraped fields of meta from a parsed page.
func MetaFromRound(meta Meta, rm scraper.RoundMeta) Meta {
	if meta.CourseName == "" {
		meta.CourseName = rm.CourseName
	}
	if meta.TeeColor == "" {
		meta.TeeColor = rm.TeeColor
	}
	if meta.GrintCourseID == 0 {
		if id, err := strconv.Atoi(rm.CourseID); err == nil {
			meta.GrintCourseID = id
		}
	}
	return meta
}
