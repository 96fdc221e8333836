package course

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/scorecard-sync/internal/raw"
)

// GrintCourseData is the course data response of the Grint scoring page. Each
// field is an HTML fragment of scorecard cells.
type GrintCourseData struct {
	Par      string `json:"par"`
	Yardage  string `json:"yardage"`
	Handicap string `json:"handicap"`
}

const (
	selSectionOut  = `td[class*="data-entry"][class*="section-out"]`
	selSectionIn   = `td[class*="data-entry"][class*="section-in"]`
	selSubtotalOut = `td[class*="subtotal"][class*="section-out"]`
	selSubtotalIn  = `td[class*="subtotal"][class*="section-in"]`
	selTotalYards  = `td[class*="total"][class*="yardage"]`
	selTotalPar    = `td[class*="total"][class*="course-par"]`
)

// ParseGrintCourseData converts the par, yardage and handicap fragments into
// hole arrays. Cells that are missing or not numeric stay zero. Subtotals
// printed on the card are used when present and computed otherwise.
func ParseGrintCourseData(data GrintCourseData) (*HoleArrays, error) {
	a := &HoleArrays{}

	par, err := fragment(data.Par)
	if err != nil {
		return nil, fmt.Errorf("parsing par: %w", err)
	}
	yards, err := fragment(data.Yardage)
	if err != nil {
		return nil, fmt.Errorf("parsing yardage: %w", err)
	}
	hdcp, err := fragment(data.Handicap)
	if err != nil {
		return nil, fmt.Errorf("parsing handicap: %w", err)
	}

	fill(&a.Pars, holeCells(par))
	fill(&a.Yards, holeCells(yards))
	fill(&a.Handicaps, holeCells(hdcp))
	a.computeTotals()

	if n, ok := cellInt(par, selSubtotalOut); ok {
		a.ParOut = n
	}
	if n, ok := cellInt(par, selSubtotalIn); ok {
		a.ParIn = n
	}
	if n, ok := cellInt(par, selTotalPar); ok {
		a.ParTotal = n
	}
	if n, ok := cellInt(yards, selSubtotalOut); ok {
		a.YardsOut = n
	}
	if n, ok := cellInt(yards, selSubtotalIn); ok {
		a.YardsIn = n
	}
	if n, ok := cellInt(yards, selTotalYards); ok {
		a.YardsTotal = n
	}

	return a, nil
}

// fragment parses a cell fragment. Bare cells are wrapped in a table so the
// HTML parser keeps them.
func fragment(html string) (*goquery.Document, error) {
	if !strings.Contains(strings.ToLower(html), "<table") {
		html = "<table>" + html + "</table>"
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// holeCells returns the out cells followed by the in cells.
func holeCells(doc *goquery.Document) []string {
	var values []string
	for _, sel := range []string{selSectionOut, selSectionIn} {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			values = append(values, strings.TrimSpace(s.Text()))
		})
	}
	return values
}

func fill(dst *[RoundHoles]int, values []string) {
	for i, v := range values {
		if i >= RoundHoles {
			break
		}
		if n, ok := raw.Truncate(v); ok && n > 0 {
			dst[i] = n
		}
	}
}

func cellInt(doc *goquery.Document, sel string) (int, bool) {
	text := strings.TrimSpace(doc.Find(sel).First().Text())
	if text == "" {
		return 0, false
	}
	return raw.Truncate(text)
}
