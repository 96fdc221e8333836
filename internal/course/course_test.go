package course

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func eighteenHoleTee() Tee {
	pars := []int{4, 4, 3, 5, 4, 4, 3, 4, 5, 4, 3, 4, 5, 4, 4, 3, 4, 5}
	tee := Tee{ID: 7, Name: "Blue"}
	for i, p := range pars {
		tee.Holes = append(tee.Holes, Hole{Number: i + 1, Par: p, Yards: 100 * p, Handicap: i + 1})
	}
	return tee
}

func TestIDFromName(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"(1234) Pine Valley", 1234},
		{"(7)", 7},
		{"Pine Valley (1234)", 0},
		{" (1234) Pine Valley", 0},
		{"(abc) Pine Valley", 0},
		{"", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IDFromName(tt.name); got != tt.want {
				t.Errorf("IDFromName(%q) = %d, want %d", tt.name, got, tt.want)
			}
		})
	}
}

func TestFindNames(t *testing.T) {
	courses := []Course{
		{ID: 1, Name: "North", Tees: []Tee{{ID: 10, Name: "White"}}},
		{ID: 2, Name: "South", Tees: []Tee{{ID: 20, Name: "Blue"}, {ID: 21, Name: "Red"}}},
	}

	tests := []struct {
		name       string
		courseID   int
		teeID      int
		wantCourse string
		wantTee    string
	}{
		{"both found", 2, 21, "South", "Red"},
		{"tee missing", 1, 99, "North", ""},
		{"course missing", 3, 10, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, tee := FindNames(courses, tt.courseID, tt.teeID)
			if c != tt.wantCourse || tee != tt.wantTee {
				t.Errorf("FindNames() = (%q, %q), want (%q, %q)", c, tee, tt.wantCourse, tt.wantTee)
			}
		})
	}

	if _, ok := FindTee(courses, 2, 20); !ok {
		t.Error("FindTee(2, 20) missed")
	}
	if _, ok := FindTee(courses, 1, 20); ok {
		t.Error("FindTee(1, 20) should miss: tee belongs to another course")
	}
}

func TestTee_HoleArrays(t *testing.T) {
	a := eighteenHoleTee().HoleArrays()

	if a.ParOut != 36 || a.ParIn != 36 || a.ParTotal != 72 {
		t.Errorf("par totals = %d/%d/%d, want 36/36/72", a.ParOut, a.ParIn, a.ParTotal)
	}
	if a.YardsTotal != 7200 {
		t.Errorf("YardsTotal = %d, want 7200", a.YardsTotal)
	}
	if a.Handicaps[17] != 18 {
		t.Errorf("Handicaps[17] = %d, want 18", a.Handicaps[17])
	}

	par, yards := a.SumOver([]int{10, 11, 12, 13, 14, 15, 16, 17, 18})
	if par != 36 || yards != 3600 {
		t.Errorf("SumOver(back) = (%d, %d), want (36, 3600)", par, yards)
	}
}

func TestHoleArrays_Par(t *testing.T) {
	tee := Tee{Holes: []Hole{{Number: 1, Par: 4}, {Number: 3, Par: 3}, {Number: 19, Par: 5}}}
	a := tee.HoleArrays()

	if diff := cmp.Diff(map[int]int{1: 4, 3: 3}, a.ParMap()); diff != "" {
		t.Errorf("ParMap() mismatch (-want +got):\n%s", diff)
	}
	if _, ok := a.Par(2); ok {
		t.Error("Par(2) should be unknown")
	}

	var missing *HoleArrays
	if _, ok := missing.Par(1); ok {
		t.Error("nil arrays should report unknown par")
	}
	if len(missing.ParMap()) != 0 {
		t.Error("nil arrays should have no pars")
	}
}
