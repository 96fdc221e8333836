package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/pfrederiksen/scorecard-sync/internal/payload"
	"github.com/pfrederiksen/scorecard-sync/internal/review"
	"github.com/pfrederiksen/scorecard-sync/internal/scorecard"
	"github.com/pfrederiksen/scorecard-sync/internal/scraper"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// Result contains data to be output
type Result struct {
	RunID      string             `json:"run_id"`
	RoundID    int                `json:"round_id,omitempty"`
	Meta       *scraper.RoundMeta `json:"meta,omitempty"`
	Scorecard  *review.Scorecard  `json:"scorecard,omitempty"`
	Payload    *payload.Payload   `json:"payload,omitempty"`
	ArchivedTo string             `json:"archived_to,omitempty"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *Result, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
)

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *Result) error {
	if m := result.Meta; m != nil {
		fmt.Fprintf(w, "Course: %s\n", orDash(m.CourseName))
		fmt.Fprintf(w, "Grint course id: %s\n", orDash(m.CourseID))
		fmt.Fprintf(w, "Tee: %s\n", orDash(m.TeeColor))
	}

	if sc := result.Scorecard; sc != nil {
		writeScorecard(w, sc)
	} else if p := result.Payload; p != nil {
		writeHoleScores(w, p)
	}

	if p := result.Payload; p != nil {
		fmt.Fprintf(w, "\nHoles played: %s\n", p.HolesPlayed)
		fmt.Fprintf(w, "Format: %s\n", p.FormatPlayed)
		fmt.Fprintf(w, "Date: %s\n", orDash(p.Date))
		fmt.Fprintf(w, "ESC: %s\n", orDash(intCell(p.ESC)))
		if p.Attestor != nil {
			fmt.Fprintf(w, "Attestor: %s\n", *p.Attestor)
		}
	}

	if result.ArchivedTo != "" {
		fmt.Fprintf(w, "Archived: %s\n", result.ArchivedTo)
	}
	return nil
}

func writeScorecard(w io.Writer, sc *review.Scorecard) {
	holesLabel := sc.HolesPlayed.String()
	if sc.Inferred {
		holesLabel += " (inferred)"
	}
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%s, %s, %s", orDash(sc.CourseName), orDash(sc.TeeName), holesLabel)))
	if sc.CourseHandicap != nil {
		fmt.Fprintf(w, "Course handicap: %d\n", *sc.CourseHandicap)
	}

	t := newTable("Hole", "Par", "Yds", "Hcp", "Score", "Putts", "FIR", "Pen", "U/D", "Sand")
	for _, row := range sc.Rows {
		fir := fairwayLabel(row.FIR)
		if row.NoFIR {
			fir = ""
		}
		t.Row(
			strconv.Itoa(row.Hole),
			zeroBlank(row.Par),
			zeroBlank(row.Yards),
			zeroBlank(row.Handicap),
			row.Score,
			row.Putts,
			fir,
			intCell(row.Penalty),
			check(row.UpDown),
			check(row.SandSave),
		)
	}
	tot := sc.Totals
	t.Row("Total", zeroBlank(tot.Par), zeroBlank(tot.Yards), "", strconv.Itoa(tot.Gross), strconv.Itoa(tot.Putts), "", "", "", "")
	fmt.Fprintln(w, t.Render())
}

func writeHoleScores(w io.Writer, p *payload.Payload) {
	t := newTable("Hole", "Gross", "Putts", "FIR", "Pen", "U/D", "Sand")
	for _, hs := range p.HoleScores {
		t.Row(
			strconv.Itoa(hs.Number),
			intCell(hs.Gross),
			intCell(hs.Putts),
			fairwayLabel(hs.FIR),
			intCell(hs.Penalty),
			check(bool(hs.UpDown)),
			check(bool(hs.SandSave)),
		)
	}
	fmt.Fprintln(w, t.Render())
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

var fairwayLabels = map[scorecard.Fairway]string{
	scorecard.FairwayHit:         "Hit",
	scorecard.FairwayLeft:        "Left",
	scorecard.FairwayRight:       "Right",
	scorecard.FairwayShort:       "Short",
	scorecard.FairwayLong:        "Long",
	scorecard.FairwayUnspecified: "Miss",
}

func fairwayLabel(f scorecard.Fairway) string {
	return fairwayLabels[f]
}

func intCell(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func zeroBlank(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func check(b bool) string {
	if b {
		return "x"
	}
	return ""
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
