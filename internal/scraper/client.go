package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pfrederiksen/scorecard-sync/internal/course"
	"github.com/pfrederiksen/scorecard-sync/internal/logger"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://www.thegrint.com"
	UserAgent      = "scorecard-sync/1.0 (github.com/pfrederiksen/scorecard-sync)"
	Timeout        = 30 * time.Second
)

// ErrUnexpectedStatus is wrapped by errors for non-2xx responses.
var ErrUnexpectedStatus = errors.New("unexpected status code")

// Client fetches pages from the Grint site. Requests share a cookie jar, so a
// successful Login authenticates later fetches.
type Client struct {
	client  *http.Client
	baseURL string
	limiter *rate.Limiter
	log     *logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another host.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithTimeout sets the HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithRateLimit caps requests per second. Zero or less means unlimited.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		} else {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates a Client.
func New(opts ...Option) (*Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	c := &Client{
		client: &http.Client{
			Timeout: Timeout,
			Jar:     jar,
		},
		baseURL: DefaultBaseURL,
		limiter: rate.NewLimiter(rate.Limit(2), 1),
		log:     logger.Channel("grint"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Login posts the account credentials. The session cookie lands in the jar.
func (c *Client) Login(ctx context.Context, username, password string) error {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	if _, err := c.post(ctx, "/login", form); err != nil {
		return fmt.Errorf("logging in: %w", err)
	}
	c.log.Info("Logged in", logger.Fields{"username": username})
	return nil
}

// FetchRoundScores fetches and parses a round's review-score page. A page
// with no hole inputs is retried as the nine-hole view. Round ids of zero or
// less return an empty round without a request.
func (c *Client) FetchRoundScores(ctx context.Context, roundID int) (Round, error) {
	if roundID <= 0 {
		return NewRound(), nil
	}

	body, err := c.get(ctx, reviewPath(roundID))
	if err != nil {
		return Round{}, fmt.Errorf("fetching round %d: %w", roundID, err)
	}
	round := ParseRoundScores(bytes.NewReader(body))
	if round.Len() > 0 {
		return round, nil
	}

	c.log.Debug("No holes on review page, trying nine-hole view", logger.Fields{"round_id": roundID})
	body, err = c.get(ctx, reviewPath(roundID)+"/9")
	if err != nil {
		return Round{}, fmt.Errorf("fetching round %d: %w", roundID, err)
	}
	return ParseRoundScores(bytes.NewReader(body)), nil
}

// FetchRoundMeta fetches a round's review-score page and reads the course
// and tee it was played on.
func (c *Client) FetchRoundMeta(ctx context.Context, roundID int) (RoundMeta, error) {
	if roundID <= 0 {
		return RoundMeta{}, nil
	}

	body, err := c.get(ctx, reviewPath(roundID))
	if err != nil {
		return RoundMeta{}, fmt.Errorf("fetching round %d: %w", roundID, err)
	}
	meta := ParseRoundMeta(bytes.NewReader(body))
	c.log.Debug("Round meta", logger.Fields{
		"round_id":    roundID,
		"course_id":   meta.CourseID,
		"tee":         meta.TeeColor,
		"course_name": meta.CourseName,
	})
	return meta, nil
}

// FetchCourseData fetches Grint's own par, yardage and handicap cells for a
// course and tee. It satisfies the review package's course data source.
func (c *Client) FetchCourseData(ctx context.Context, courseID int, tee string, round int) (*course.HoleArrays, error) {
	form := url.Values{}
	form.Set("course_id", strconv.Itoa(courseID))
	form.Set("tee", tee)
	form.Set("round", strconv.Itoa(round))

	body, err := c.post(ctx, "/ajax/get_course_data/0/0/0", form)
	if err != nil {
		return nil, fmt.Errorf("fetching course data %d: %w", courseID, err)
	}

	var data course.GrintCourseData
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("parsing course data: %w", err)
	}
	return course.ParseGrintCourseData(data)
}

func reviewPath(roundID int) string {
	return "/score/review_score/" + strconv.Itoa(roundID)
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	return c.do(req)
}

func (c *Client) post(ctx context.Context, path string, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()
	logger.RecordTiming("grint.request", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	return body, nil
}
