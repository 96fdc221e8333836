package locator

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/pfrederiksen/scorecard-sync/internal/logger"
	"github.com/pfrederiksen/scorecard-sync/internal/raw"
)

func mustJSON(t *testing.T, doc string) raw.Value {
	t.Helper()
	v, err := raw.FromJSON(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("FromJSON(%s) error: %v", doc, err)
	}
	return v
}

func quietLocator() *Locator {
	l := New()
	l.Log = logger.Discard()
	return l
}

func TestLooksLikeScoresTable(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want bool
	}{
		{"both sides", `{"front":{"score":{"1":"4"}},"back":{"score":{"1":"5"}}}`, true},
		{"front only", `{"front":{"putts":{"3":"2"}}}`, true},
		{"back only", `{"back":{"fir":{"1":"Hit"}}}`, true},
		{"sequence channel", `{"front":{"score":["", "4"]}}`, true},
		{"empty channel", `{"front":{"score":{}}}`, false},
		{"non-numeric keys only", `{"front":{"score":{"total":"40"}}}`, false},
		{"unknown channel", `{"front":{"yards":{"1":"400"}}}`, false},
		{"scalar channel", `{"front":{"score":"4"}}`, false},
		{"side not a mapping", `{"front":"x","back":{"score":{"1":"4"}}}`, false},
		{"no sides", `{"score":{"1":"4"}}`, false},
		{"not a mapping", `[1,2]`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LooksLikeScoresTable(mustJSON(t, tt.doc)); got != tt.want {
				t.Errorf("LooksLikeScoresTable(%s) = %v, want %v", tt.doc, got, tt.want)
			}
		})
	}
}

func TestLooksLikeScoresTableStrict(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want bool
	}{
		{"both sides", `{"front":{"score":{"1":"4"}},"back":{}}`, true},
		{"empty channel still counts", `{"front":{"score":{}},"back":{}}`, true},
		{"front only", `{"front":{"score":{"1":"4"}}}`, false},
		{"no channel", `{"front":{},"back":{}}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LooksLikeScoresTableStrict(mustJSON(t, tt.doc)); got != tt.want {
				t.Errorf("LooksLikeScoresTableStrict(%s) = %v, want %v", tt.doc, got, tt.want)
			}
		})
	}
}

func TestLocator_Search(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		wantFound bool
		wantScore string // front score 1 of the table found
	}{
		{
			name:      "named key at top level",
			doc:       `{"scores_table":{"front":{"score":{"1":"4"}}}}`,
			wantFound: true,
			wantScore: "4",
		},
		{
			name:      "node itself",
			doc:       `{"front":{"score":{"1":"5"}},"back":{}}`,
			wantFound: true,
			wantScore: "5",
		},
		{
			name:      "deeply wrapped",
			doc:       `{"form":{"wrapper":[{"noise":1},{"container":{"scores_table":{"front":{"score":{"1":"6"}}}}}]}}`,
			wantFound: true,
			wantScore: "6",
		},
		{
			name:      "first match left to right",
			doc:       `{"a":{"front":{"score":{"1":"7"}}},"b":{"front":{"score":{"1":"8"}}}}`,
			wantFound: true,
			wantScore: "7",
		},
		{
			name:      "named key with bad shape falls through to children",
			doc:       `{"scores_table":{"front":{"score":{}}},"other":{"front":{"score":{"1":"9"}}}}`,
			wantFound: true,
			wantScore: "9",
		},
		{
			name:      "nothing",
			doc:       `{"holes_mode":"18","front":"x"}`,
			wantFound: false,
		},
		{
			name:      "scalar input",
			doc:       `"front"`,
			wantFound: false,
		},
	}

	l := quietLocator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := l.Search(mustJSON(t, tt.doc))
			if ok != tt.wantFound {
				t.Fatalf("Search() found = %v, want %v", ok, tt.wantFound)
			}
			if !ok {
				return
			}
			score, _ := got.Path("front", "score", "1")
			if score.Text() != tt.wantScore {
				t.Errorf("found table front score 1 = %q, want %q", score.Text(), tt.wantScore)
			}
		})
	}
}

func TestLocator_FindFallback(t *testing.T) {
	l := quietLocator()
	primary := mustJSON(t, `{"holes_mode":"front9"}`)

	t.Run("fallback used when primary misses", func(t *testing.T) {
		called := false
		src := RequestFunc(func() (raw.Value, error) {
			called = true
			return raw.FromForm("scores_table[front][score][1]=4")
		})

		got, ok := l.Find(primary, src)
		if !called {
			t.Error("fallback was not consulted")
		}
		if !ok {
			t.Fatal("Find() did not find table in fallback")
		}
		if s, _ := got.Path("front", "score", "1"); s.Text() != "4" {
			t.Errorf("front score 1 = %q, want 4", s.Text())
		}
	})

	t.Run("fallback not used when primary hits", func(t *testing.T) {
		src := RequestFunc(func() (raw.Value, error) {
			t.Error("fallback should not be consulted")
			return raw.Value{}, nil
		})
		if _, ok := l.Find(mustJSON(t, `{"front":{"score":{"1":"4"}}}`), src); !ok {
			t.Error("Find() missed primary table")
		}
	})

	t.Run("fallback error is a logged miss", func(t *testing.T) {
		var buf bytes.Buffer
		logged := New()
		logged.Log = logger.New(logger.LevelDebug, &buf)

		src := RequestFunc(func() (raw.Value, error) {
			return raw.Value{}, errors.New("no request in context")
		})
		if _, ok := logged.Find(primary, src); ok {
			t.Error("Find() should miss when fallback errors")
		}
		if out := buf.String(); !strings.Contains(out, "no request in context") {
			t.Errorf("fallback error not logged:\n%s", out)
		}
	})

	t.Run("nil fallback", func(t *testing.T) {
		if _, ok := l.Find(primary, nil); ok {
			t.Error("Find() should miss")
		}
	})
}

func TestLocator_StrictPredicate(t *testing.T) {
	l := quietLocator()
	l.Predicate = LooksLikeScoresTableStrict

	if _, ok := l.Search(mustJSON(t, `{"scores_table":{"front":{"score":{"1":"4"}}}}`)); ok {
		t.Error("strict predicate should reject a one-sided table")
	}
}
