package scraper

import (
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/scorecard-sync/internal/course"
	"github.com/pfrederiksen/scorecard-sync/internal/logger"
	"github.com/pfrederiksen/scorecard-sync/internal/raw"
	"github.com/pfrederiksen/scorecard-sync/internal/scorecard"
)

const (
	selScores    = `table[class*="user-input score"] input[class*="input-score-field"]`
	selPutts     = `table[class*="user-input optional"] tr[class*="input-putts"] input[class*="input-score-field"]`
	selPenalties = `table[class*="user-input optional"] tr[class*="input-penalties"] input[data-hole]`
	selFairways  = `table[class*="user-input optional"] tr[class*="input-facc"] input[type="hidden"][name^="fH"]`
)

var fairwayInputName = regexp.MustCompile(`^fH(\d{1,2})$`)

// ParseRoundScores reads the per-hole inputs of a review-score page. Inputs
// for holes outside 1..18 are ignored; a later input for the same hole wins.
func ParseRoundScores(r io.Reader) Round {
	round := NewRound()

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		logger.Channel("grint").Warn("Unreadable review score page", logger.Fields{"error": err.Error()})
		return round
	}

	doc.Find(selScores).Each(func(_ int, s *goquery.Selection) {
		if n, ok := dataHole(s); ok {
			round.hole(n).Score = s.AttrOr("data-value", "")
		}
	})

	doc.Find(selPutts).Each(func(_ int, s *goquery.Selection) {
		if n, ok := dataHole(s); ok {
			round.hole(n).Putts = s.AttrOr("value", "")
		}
	})

	doc.Find(selPenalties).Each(func(_ int, s *goquery.Selection) {
		n, ok := dataHole(s)
		if !ok {
			return
		}
		rawPen := strings.TrimSpace(s.AttrOr("value", ""))
		h := round.hole(n)
		h.PenaltiesRaw = rawPen
		h.SandCount = SandCount(rawPen)
	})

	doc.Find(selFairways).Each(func(_ int, s *goquery.Selection) {
		m := fairwayInputName.FindStringSubmatch(s.AttrOr("name", ""))
		if m == nil {
			return
		}
		n, ok := raw.Truncate(m[1])
		if !ok || !scorecard.ValidHole(n) {
			return
		}
		round.hole(n).FIRCode = strings.TrimSpace(s.AttrOr("value", ""))
	})

	return round
}

func dataHole(s *goquery.Selection) (int, bool) {
	n, ok := raw.LeadingInt(s.AttrOr("data-hole", ""))
	if !ok || !scorecard.ValidHole(n) {
		return 0, false
	}
	return n, true
}

// RoundMeta identifies the course and tee a round was played on.
type RoundMeta struct {
	CourseID   string `json:"course_id"`
	TeeColor   string `json:"tee_color"`
	CourseName string `json:"course_name"`
}

var (
	courseIDQueries = []string{
		`input[name="course_id"]`,
		`input#course_id`,
		`input[name*="course"][name*="id"]`,
	}
	teeQueries = []string{
		`input[name="tee"]`,
		`input#tee`,
		`select[name="tee"] option[selected]`,
		`select#tee option[selected]`,
	}
	courseNameQueries = []string{
		`[class*="course-name"]`,
		`h1`,
		`h2`,
		`#course_name`,
		`#courseName`,
	}
)

// ParseRoundMeta reads the course id, tee color and course name from a
// review-score page. Each field takes the first candidate query whose first
// match is non-blank. A missing course id is recovered from a name of the
// form "(1234) Course".
func ParseRoundMeta(r io.Reader) RoundMeta {
	var meta RoundMeta

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		logger.Channel("grint").Warn("Unreadable review score page", logger.Fields{"error": err.Error()})
		return meta
	}

	meta.CourseID = firstValue(doc, courseIDQueries)
	meta.TeeColor = firstValue(doc, teeQueries)
	meta.CourseName = firstText(doc, courseNameQueries)

	if meta.CourseID == "" && meta.CourseName != "" {
		if id := course.IDFromName(meta.CourseName); id > 0 {
			meta.CourseID = strconv.Itoa(id)
		}
	}

	return meta
}

func firstValue(doc *goquery.Document, queries []string) string {
	for _, q := range queries {
		if v := strings.TrimSpace(doc.Find(q).First().AttrOr("value", "")); v != "" {
			return v
		}
	}
	return ""
}

func firstText(doc *goquery.Document, queries []string) string {
	for _, q := range queries {
		if v := strings.TrimSpace(doc.Find(q).First().Text()); v != "" {
			return v
		}
	}
	return ""
}
