package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/pfrederiksen/scorecard-sync/internal/course"
	"github.com/pfrederiksen/scorecard-sync/internal/logger"
)

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	c, err := New(WithBaseURL(url), WithRateLimit(0), WithLogger(logger.Discard()))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return c
}

func TestClient_LoginKeepsSession(t *testing.T) {
	fixture := loadFixture(t)

	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("login method = %s, want POST", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm: %v", err)
		}
		if r.PostForm.Get("username") != "golfer" || r.PostForm.Get("password") != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "grint_session", Value: "abc", Path: "/"})
	})
	mux.HandleFunc("/score/review_score/42", func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); !strings.Contains(ua, "scorecard-sync") {
			t.Errorf("User-Agent = %q, should contain 'scorecard-sync'", ua)
		}
		if c, err := r.Cookie("grint_session"); err != nil || c.Value != "abc" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Write([]byte(fixture))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(t, server.URL)
	ctx := context.Background()

	if _, err := client.FetchRoundScores(ctx, 42); !errors.Is(err, ErrUnexpectedStatus) {
		t.Fatalf("fetch before login error = %v, want ErrUnexpectedStatus", err)
	}

	if err := client.Login(ctx, "golfer", "wrong"); err == nil {
		t.Fatal("Login() with a bad password should fail")
	}
	if err := client.Login(ctx, "golfer", "hunter2"); err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	round, err := client.FetchRoundScores(ctx, 42)
	if err != nil {
		t.Fatalf("FetchRoundScores() error: %v", err)
	}
	if round.Len() != 18 {
		t.Errorf("parsed %d holes, want 18", round.Len())
	}

	meta, err := client.FetchRoundMeta(ctx, 42)
	if err != nil {
		t.Fatalf("FetchRoundMeta() error: %v", err)
	}
	if meta.CourseID != "18455" || meta.TeeColor != "blue" {
		t.Errorf("FetchRoundMeta() = %+v", meta)
	}
}

func TestClient_FetchRoundScoresNineHoleFallback(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		switch r.URL.Path {
		case "/score/review_score/7":
			w.Write([]byte(`<html><body><p>Round summary</p></body></html>`))
		case "/score/review_score/7/9":
			w.Write([]byte(`<table class="user-input score"><tr>
				<td><input class="input-score-field" data-hole="10" data-value="5"></td>
			</tr></table>`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	round, err := newTestClient(t, server.URL).FetchRoundScores(context.Background(), 7)
	if err != nil {
		t.Fatalf("FetchRoundScores() error: %v", err)
	}
	if round.Len() != 1 || round.Holes[10].Score != "5" {
		t.Errorf("round = %+v, want hole 10 from the nine-hole view", round.Holes)
	}
	if len(paths) != 2 {
		t.Errorf("requested %v, want both views", paths)
	}
}

func TestClient_FetchRoundScoresErrors(t *testing.T) {
	tests := []struct {
		name       string
		roundID    int
		statusCode int
		wantErr    bool
		wantCalls  int32
	}{
		{"zero round id", 0, http.StatusOK, false, 0},
		{"negative round id", -5, http.StatusOK, false, 0},
		{"not found", 12, http.StatusNotFound, true, 1},
		{"server error", 12, http.StatusInternalServerError, true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.WriteHeader(tt.statusCode)
			}))
			defer server.Close()

			round, err := newTestClient(t, server.URL).FetchRoundScores(context.Background(), tt.roundID)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FetchRoundScores() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrUnexpectedStatus) {
					t.Errorf("error %v should wrap ErrUnexpectedStatus", err)
				}
				if !strings.Contains(err.Error(), "fetching round 12") {
					t.Errorf("error %q should name the round", err)
				}
			} else if round.Len() != 0 {
				t.Errorf("round has %d holes, want 0", round.Len())
			}
			if n := atomic.LoadInt32(&calls); n != tt.wantCalls {
				t.Errorf("server called %d times, want %d", n, tt.wantCalls)
			}
		})
	}
}

func TestClient_FetchCourseData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ajax/get_course_data/0/0/0" {
			t.Errorf("path = %q", r.URL.Path)
		}
		r.ParseForm()
		if r.PostForm.Get("course_id") != "18455" || r.PostForm.Get("tee") != "blue" || r.PostForm.Get("round") != "18" {
			t.Errorf("form = %v", r.PostForm)
		}
		json.NewEncoder(w).Encode(course.GrintCourseData{
			Par:     `<tr><td class="data-entry section-out">4</td><td class="data-entry section-out">3</td></tr>`,
			Yardage: `<tr><td class="data-entry section-out">401</td><td class="data-entry section-out">180</td></tr>`,
		})
	}))
	defer server.Close()

	arrays, err := newTestClient(t, server.URL).FetchCourseData(context.Background(), 18455, "blue", 18)
	if err != nil {
		t.Fatalf("FetchCourseData() error: %v", err)
	}
	if arrays.Pars[0] != 4 || arrays.Pars[1] != 3 || arrays.YardsTotal != 581 {
		t.Errorf("arrays = %+v", arrays)
	}
}

func TestClient_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newTestClient(t, server.URL).FetchRoundScores(ctx, 3); err == nil {
		t.Error("FetchRoundScores() with a canceled context should fail")
	}
}
