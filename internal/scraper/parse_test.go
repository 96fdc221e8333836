package scraper

import (
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func loadFixture(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile("../../testdata/fixtures/review_score.html")
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}
	return string(data)
}

func TestParseRoundScores(t *testing.T) {
	round := ParseRoundScores(strings.NewReader(loadFixture(t)))

	if round.Len() != 18 {
		t.Fatalf("parsed %d holes, want 18", round.Len())
	}

	tests := []struct {
		hole int
		want RoundHole
	}{
		{1, RoundHole{Hole: 1, Score: "4", Putts: "2", FIRCode: "3"}},
		{3, RoundHole{Hole: 3, Score: "3", Putts: "1"}},
		{4, RoundHole{Hole: 4, Score: "6", Putts: "2", PenaltiesRaw: "SS", SandCount: 2, FIRCode: "2"}},
		{12, RoundHole{Hole: 12, Score: "3", Putts: "2", PenaltiesRaw: "s", SandCount: 1}},
		{17, RoundHole{Hole: 17, Score: "4", Putts: "2", PenaltiesRaw: "sW", SandCount: 1, FIRCode: "3"}},
		{18, RoundHole{Hole: 18, Score: "6", Putts: "2", FIRCode: "3"}},
	}

	for _, tt := range tests {
		got, ok := round.Holes[tt.hole]
		if !ok {
			t.Errorf("hole %d missing", tt.hole)
			continue
		}
		if diff := cmp.Diff(tt.want, *got); diff != "" {
			t.Errorf("hole %d mismatch (-want +got):\n%s", tt.hole, diff)
		}
	}

	if _, ok := round.Holes[19]; ok {
		t.Error("total column parsed as hole 19")
	}
}

func TestParseRoundScores_Edges(t *testing.T) {
	tests := []struct {
		name      string
		html      string
		wantHoles []int
	}{
		{
			name:      "empty document",
			html:      "",
			wantHoles: []int{},
		},
		{
			name:      "not a review page",
			html:      "<html><body><p>Please log in</p></body></html>",
			wantHoles: []int{},
		},
		{
			name: "out of range and unreadable holes",
			html: `<table class="user-input score"><tr>
				<td><input class="input-score-field" data-hole="0" data-value="4"></td>
				<td><input class="input-score-field" data-hole="19" data-value="4"></td>
				<td><input class="input-score-field" data-hole="x" data-value="4"></td>
				<td><input class="input-score-field" data-hole="9" data-value="5"></td>
			</tr></table>`,
			wantHoles: []int{9},
		},
		{
			name: "hole attribute with trailing text",
			html: `<table class="user-input score"><tr>
				<td><input class="input-score-field" data-hole="3abc" data-value="4"></td>
				<td><input class="input-score-field" data-hole=" 12 " data-value="5"></td>
			</tr></table>`,
			wantHoles: []int{3, 12},
		},
		{
			name: "putts only create holes",
			html: `<table class="user-input optional"><tr class="input-putts">
				<td><input class="input-score-field" data-hole="10" value="2"></td>
			</tr></table>`,
			wantHoles: []int{10},
		},
		{
			name: "fairway input names",
			html: `<table class="user-input optional"><tr class="input-facc">
				<td><input type="hidden" name="fH2" value="1"></td>
				<td><input type="hidden" name="fH123" value="1"></td>
				<td><input type="hidden" name="fH19" value="1"></td>
				<td><input type="text" name="fH3" value="1"></td>
			</tr></table>`,
			wantHoles: []int{2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			round := ParseRoundScores(strings.NewReader(tt.html))
			if diff := cmp.Diff(tt.wantHoles, round.Numbers()); diff != "" {
				t.Errorf("holes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseRoundScores_LaterInputWins(t *testing.T) {
	html := `<table class="user-input score"><tr>
		<td><input class="input-score-field" data-hole="5" data-value="4"></td>
		<td><input class="input-score-field" data-hole="5" data-value="7"></td>
	</tr></table>`

	round := ParseRoundScores(strings.NewReader(html))
	if got := round.Holes[5].Score; got != "7" {
		t.Errorf("hole 5 score = %q, want 7", got)
	}
}

func TestParseRoundMeta(t *testing.T) {
	tests := []struct {
		name string
		html string
		want RoundMeta
	}{
		{
			name: "fixture",
			html: loadFixture(t),
			want: RoundMeta{CourseID: "18455", TeeColor: "blue", CourseName: "Glen Abbey Golf Club"},
		},
		{
			name: "id input and heading",
			html: `<h1> (2231) Lakeside </h1><input id="course_id" value="77"><input name="tee" value=" red ">`,
			want: RoundMeta{CourseID: "77", TeeColor: "red", CourseName: "(2231) Lakeside"},
		},
		{
			name: "id from course name",
			html: `<h2>(2231) Lakeside</h2><select id="tee"><option value="gold" selected>Gold</option></select>`,
			want: RoundMeta{CourseID: "2231", TeeColor: "gold", CourseName: "(2231) Lakeside"},
		},
		{
			name: "blank first candidate falls through",
			html: `<input name="gc_course_identifier" value="5"><input name="course_id" value=" "><h1></h1><h2>Back Nine</h2>`,
			want: RoundMeta{CourseID: "5", CourseName: "Back Nine"},
		},
		{
			name: "only the first node of a query counts",
			html: `<h1></h1><h1>Second Heading</h1><div id="course_name">Named</div>`,
			want: RoundMeta{CourseName: "Named"},
		},
		{
			name: "nothing",
			html: `<p>nothing here</p>`,
			want: RoundMeta{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseRoundMeta(strings.NewReader(tt.html))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseRoundMeta() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
