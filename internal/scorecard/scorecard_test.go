package scorecard

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHoleNumber(t *testing.T) {
	tests := []struct {
		side   Side
		index  int
		want   int
		wantOK bool
	}{
		{Front, 1, 1, true},
		{Front, 9, 9, true},
		{Back, 1, 10, true},
		{Back, 9, 18, true},
		{Front, 0, 0, false},
		{Back, 10, 0, false},
	}

	for _, tt := range tests {
		got, ok := HoleNumber(tt.side, tt.index)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("HoleNumber(%s, %d) = (%d, %v), want (%d, %v)", tt.side, tt.index, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParseFairway(t *testing.T) {
	for _, f := range Fairways {
		if got, ok := ParseFairway(string(f)); !ok || got != f {
			t.Errorf("ParseFairway(%q) = %q, %v", f, got, ok)
		}
	}
	for _, bad := range []string{"hit", "HIT", " Hit", "Missed", "", "3"} {
		if _, ok := ParseFairway(bad); ok {
			t.Errorf("ParseFairway(%q) should be rejected", bad)
		}
	}
}

func TestFlag_JSON(t *testing.T) {
	type wrapper struct {
		UpDown   Flag `json:"upDown"`
		SandSave Flag `json:"sandSave"`
	}

	data, err := json.Marshal(wrapper{UpDown: true})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if got := string(data); got != `{"upDown":1,"sandSave":null}` {
		t.Errorf("Marshal() = %s", got)
	}

	var back wrapper
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if !back.UpDown || back.SandSave {
		t.Errorf("Unmarshal() = %+v", back)
	}

	if err := json.Unmarshal([]byte(`{"upDown":true}`), &back); err == nil {
		t.Error("boolean flag should be rejected")
	}
	if err := json.Unmarshal([]byte(`{"upDown":0}`), &back); err == nil {
		t.Error("zero flag should be rejected")
	}
}

func TestFairway_JSON(t *testing.T) {
	type wrapper struct {
		FIR Fairway `json:"fir"`
	}

	data, _ := json.Marshal(wrapper{})
	if string(data) != `{"fir":null}` {
		t.Errorf("empty fairway = %s, want null", data)
	}

	var w wrapper
	if err := json.Unmarshal([]byte(`{"fir":"MissedLong"}`), &w); err != nil || w.FIR != FairwayLong {
		t.Errorf("Unmarshal MissedLong = %q, %v", w.FIR, err)
	}
	if err := json.Unmarshal([]byte(`{"fir":"long"}`), &w); err == nil {
		t.Error("unknown fairway should be rejected")
	}
}

func TestChannels_RecordAndSet(t *testing.T) {
	c := NewChannels()
	c.Gross[3] = 0
	c.Putts[3] = 2
	c.FIR[3] = FairwayShort
	c.SandSave[3] = true
	c.Penalty[3] = 1

	got := c.Record(3)
	want := HoleRecord{
		Hole:     3,
		Gross:    IntPtr(0),
		Putts:    IntPtr(2),
		FIR:      FairwayShort,
		SandSave: true,
		Penalty:  IntPtr(1),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Record() mismatch (-want +got):\n%s", diff)
	}

	if !c.Record(4).Empty() {
		t.Error("unrecorded hole should be empty")
	}

	copied := NewChannels()
	copied.Set(got)
	if diff := cmp.Diff(c, copied); diff != "" {
		t.Errorf("Set(Record()) mismatch (-want +got):\n%s", diff)
	}
	if copied.Count() != 5 {
		t.Errorf("Count() = %d, want 5", copied.Count())
	}
}
