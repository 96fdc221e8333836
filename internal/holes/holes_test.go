package holes

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pfrederiksen/scorecard-sync/internal/scorecard"
)

func scored(holes ...int) map[int]HoleSignal {
	signals := make(map[int]HoleSignal)
	for h := 1; h <= 18; h++ {
		signals[h] = HoleSignal{Score: "0", Putts: ""}
	}
	for _, h := range holes {
		signals[h] = HoleSignal{Score: "4"}
	}
	return signals
}

func span(first, last int) []int {
	var out []int
	for h := first; h <= last; h++ {
		out = append(out, h)
	}
	return out
}

func TestModeFromToken(t *testing.T) {
	tests := []struct {
		token string
		want  Mode
	}{
		{"18", EighteenHoles},
		{"front9", FrontNine},
		{"back9", BackNine},
		{" back9 ", BackNine},
		{"", EighteenHoles},
		{"9", EighteenHoles},
		{"FRONT9", EighteenHoles},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			if got := ModeFromToken(tt.token); got != tt.want {
				t.Errorf("ModeFromToken(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestMode_Holes(t *testing.T) {
	if diff := cmp.Diff(span(1, 9), FrontNine.Holes()); diff != "" {
		t.Errorf("FrontNine.Holes() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(span(10, 18), BackNine.Holes()); diff != "" {
		t.Errorf("BackNine.Holes() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(span(1, 18), EighteenHoles.Holes()); diff != "" {
		t.Errorf("EighteenHoles.Holes() mismatch (-want +got):\n%s", diff)
	}
}

func TestMode_Strings(t *testing.T) {
	for _, m := range []Mode{EighteenHoles, FrontNine, BackNine} {
		if got := ModeFromToken(m.Token()); got != m {
			t.Errorf("ModeFromToken(%q) = %v, want %v", m.Token(), got, m)
		}
	}
	b, err := BackNine.MarshalText()
	if err != nil || string(b) != "BackNine" {
		t.Errorf("MarshalText() = (%s, %v), want BackNine", b, err)
	}
}

func TestHoleSignal_Played(t *testing.T) {
	tests := []struct {
		name string
		s    HoleSignal
		want bool
	}{
		{"score", HoleSignal{Score: "4"}, true},
		{"putts only", HoleSignal{Putts: "2"}, true},
		{"decimal score", HoleSignal{Score: "4.0"}, true},
		{"zero score", HoleSignal{Score: "0"}, false},
		{"negative score", HoleSignal{Score: "-3"}, false},
		{"text score", HoleSignal{Score: "x"}, false},
		{"empty", HoleSignal{}, false},
		{"fairway code", HoleSignal{Secondary: []string{"3"}}, true},
		{"penalty text", HoleSignal{Secondary: []string{"s"}}, true},
		{"zero secondaries", HoleSignal{Secondary: []string{"0", "", " "}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.Played(); got != tt.want {
				t.Errorf("Played() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInfer(t *testing.T) {
	tests := []struct {
		name    string
		signals map[int]HoleSignal
		want    Mode
	}{
		{"front nine", scored(span(1, 9)...), FrontNine},
		{"back nine", scored(span(10, 18)...), BackNine},
		{"all eighteen", scored(span(1, 18)...), EighteenHoles},
		{"nothing played", scored(), EighteenHoles},
		{"nil", nil, EighteenHoles},
		{"stray back hole", scored(1, 2, 10), FrontNine},
		{"back majority of ten", scored(append(span(10, 17), 1, 2)...), BackNine},
		{"even split goes front", scored(1, 2, 10, 11), FrontNine},
		{"eleven mixed", scored(append(span(1, 6), span(10, 14)...)...), EighteenHoles},
		{"twelve played", scored(span(1, 12)...), EighteenHoles},
		{"partial front only", scored(1, 2, 3), FrontNine},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Infer(tt.signals); got != tt.want {
				t.Errorf("Infer() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name         string
		declared     string
		signals      map[int]HoleSignal
		wantMode     Mode
		wantInferred bool
	}{
		{"eighteen repaired to front", "18", scored(span(1, 9)...), FrontNine, true},
		{"eighteen repaired to back", "", scored(span(10, 18)...), BackNine, true},
		{"eighteen kept", "18", scored(span(1, 18)...), EighteenHoles, false},
		{"no signals", "18", nil, EighteenHoles, false},
		{"front9 never overridden", "front9", scored(span(10, 18)...), FrontNine, false},
		{"back9 never overridden", "back9", scored(span(1, 9)...), BackNine, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.declared, tt.signals)
			if got.Mode != tt.wantMode || got.Inferred != tt.wantInferred {
				t.Errorf("Resolve() = (%v, inferred %v), want (%v, inferred %v)",
					got.Mode, got.Inferred, tt.wantMode, tt.wantInferred)
			}
			if diff := cmp.Diff(tt.wantMode.Holes(), got.Holes); diff != "" {
				t.Errorf("Holes mismatch (-want +got):\n%s", diff)
			}
			if got.Declared != ModeFromToken(tt.declared) {
				t.Errorf("Declared = %v, want %v", got.Declared, ModeFromToken(tt.declared))
			}
		})
	}
}

func TestSignalsFromChannels(t *testing.T) {
	ch := scorecard.NewChannels()
	ch.Gross[11] = 5
	ch.Putts[12] = 2
	ch.FIR[13] = scorecard.FairwayHit
	ch.Penalty[14] = 1
	ch.SandSave[15] = true
	ch.Gross[16] = 0

	signals := SignalsFromChannels(ch)
	if len(signals) != 18 {
		t.Fatalf("len(signals) = %d, want 18", len(signals))
	}
	if diff := cmp.Diff([]int{11, 12, 13, 14, 15}, PlayedHoles(signals)); diff != "" {
		t.Errorf("PlayedHoles mismatch (-want +got):\n%s", diff)
	}
	if got := Resolve("18", signals).Mode; got != BackNine {
		t.Errorf("Resolve() mode = %v, want BackNine", got)
	}
}

func TestMode_UnmarshalText(t *testing.T) {
	var m Mode
	if err := m.UnmarshalText([]byte("FrontNine")); err != nil || m != FrontNine {
		t.Errorf("UnmarshalText(FrontNine) = (%v, %v)", m, err)
	}
	if err := m.UnmarshalText([]byte("front9")); err == nil {
		t.Error("UnmarshalText should reject form tokens")
	}
}
