// Package course provides reference data for golf courses: the courses and
// tees at a facility, per-hole par, yardage and stroke index arrays, and a
// member's course handicap.
package course

import (
	"context"
	"regexp"
	"strconv"
	"strings"
)

// Holes per round and per side.
const (
	RoundHoles = 18
	SideHoles  = 9
)

// Hole is one hole of a tee.
type Hole struct {
	Number   int `json:"number"`
	Par      int `json:"par"`
	Yards    int `json:"yards"`
	Handicap int `json:"handicap"`
}

// Tee is a set of tee boxes on a course.
type Tee struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Holes []Hole `json:"holes,omitempty"`
}

// Course is a course at a facility.
type Course struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Tees []Tee  `json:"tees"`
}

// HoleArrays holds per-hole reference values indexed by hole number minus
// one. Zero means unknown.
type HoleArrays struct {
	Pars      [RoundHoles]int `json:"pars"`
	Yards     [RoundHoles]int `json:"yards"`
	Handicaps [RoundHoles]int `json:"handicaps"`

	ParOut   int `json:"par_out"`
	ParIn    int `json:"par_in"`
	ParTotal int `json:"par_total"`

	YardsOut   int `json:"yards_out"`
	YardsIn    int `json:"yards_in"`
	YardsTotal int `json:"yards_total"`
}

// Par returns the par of hole (1..18) when known.
func (a *HoleArrays) Par(hole int) (int, bool) {
	if a == nil || hole < 1 || hole > RoundHoles || a.Pars[hole-1] <= 0 {
		return 0, false
	}
	return a.Pars[hole-1], true
}

// ParMap returns the known pars keyed by hole number.
func (a *HoleArrays) ParMap() map[int]int {
	pars := make(map[int]int)
	for h := 1; h <= RoundHoles; h++ {
		if p, ok := a.Par(h); ok {
			pars[h] = p
		}
	}
	return pars
}

// SumOver returns the par and yardage totals over the given holes.
func (a *HoleArrays) SumOver(holes []int) (par, yards int) {
	if a == nil {
		return 0, 0
	}
	for _, h := range holes {
		if h < 1 || h > RoundHoles {
			continue
		}
		par += a.Pars[h-1]
		yards += a.Yards[h-1]
	}
	return par, yards
}

// HoleArrays flattens the tee's holes. Side and round totals are computed
// from the holes.
func (t Tee) HoleArrays() *HoleArrays {
	a := &HoleArrays{}
	for _, h := range t.Holes {
		if h.Number < 1 || h.Number > RoundHoles {
			continue
		}
		a.Pars[h.Number-1] = h.Par
		a.Yards[h.Number-1] = h.Yards
		a.Handicaps[h.Number-1] = h.Handicap
	}
	a.computeTotals()
	return a
}

func (a *HoleArrays) computeTotals() {
	a.ParOut, a.YardsOut, a.ParIn, a.YardsIn = 0, 0, 0, 0
	for i := 0; i < RoundHoles; i++ {
		if i < SideHoles {
			a.ParOut += a.Pars[i]
			a.YardsOut += a.Yards[i]
		} else {
			a.ParIn += a.Pars[i]
			a.YardsIn += a.Yards[i]
		}
	}
	a.ParTotal = a.ParOut + a.ParIn
	a.YardsTotal = a.YardsOut + a.YardsIn
}

// Provider supplies reference data. Implementations talk to the destination
// system; callers treat every error as non-fatal.
type Provider interface {
	Courses(ctx context.Context, facilityID, memberID int) ([]Course, error)
	TeeHoleArrays(ctx context.Context, facilityID, memberID, courseID, teeID int) (*HoleArrays, error)
	CourseHandicap(ctx context.Context, memberID, facilityID, courseID int, teeName string) (int, error)
}

// FindNames looks up the display names of a course and one of its tees.
// Missing entries yield empty strings.
func FindNames(courses []Course, courseID, teeID int) (courseName, teeName string) {
	for _, c := range courses {
		if c.ID != courseID {
			continue
		}
		for _, t := range c.Tees {
			if t.ID == teeID {
				return c.Name, t.Name
			}
		}
		return c.Name, ""
	}
	return "", ""
}

// FindTee returns the tee with the given ids.
func FindTee(courses []Course, courseID, teeID int) (Tee, bool) {
	for _, c := range courses {
		if c.ID != courseID {
			continue
		}
		for _, t := range c.Tees {
			if t.ID == teeID {
				return t, true
			}
		}
	}
	return Tee{}, false
}

var leadingID = regexp.MustCompile(`^\((\d+)\)`)

// IDFromName extracts a course id from a name such as "(1234) Pine Valley".
// Names without a leading parenthesized number yield 0.
func IDFromName(name string) int {
	m := leadingID.FindStringSubmatch(name)
	if m == nil {
		return 0
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return id
}

// normalizeName lowercases a tee or course name for matching.
func normalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
