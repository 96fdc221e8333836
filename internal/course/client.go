package course

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pfrederiksen/scorecard-sync/internal/logger"
	"github.com/sony/gobreaker"
)

const (
	DefaultBaseURL = "https://scg.golfcanada.ca"
	DefaultTimeout = 10 * time.Second
)

// ErrNoHandicap is returned when the destination has no course handicap for
// the member on that tee.
var ErrNoHandicap = errors.New("course handicap unavailable")

// Client talks to the Golf Canada reference data API. Calls go through a
// circuit breaker so a dead API is skipped quickly, and course lists are
// served from the cache when fresh.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cache      *Cache
	breaker    *gobreaker.CircuitBreaker
	log        *logger.Logger
}

// NewClient creates a client for the given base URL. An empty base URL uses
// the production API.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	log := logger.Channel("course")

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "golf-canada-api",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Circuit breaker state changed", logger.Fields{
				"circuit": name,
				"from":    from.String(),
				"to":      to.String(),
			})
		},
	})

	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		cache:   NewCache(),
		breaker: cb,
		log:     log,
	}
}

// NewClientWithCache creates a client with an existing cache.
func NewClientWithCache(baseURL, apiKey string, cache *Cache) *Client {
	client := NewClient(baseURL, apiKey)
	if cache != nil {
		client.cache = cache
	}
	return client
}

// SetTimeout changes the HTTP timeout.
func (c *Client) SetTimeout(d time.Duration) {
	if d > 0 {
		c.httpClient.Timeout = d
	}
}

// GetCache returns the client's cache.
func (c *Client) GetCache() *Cache {
	return c.cache
}

// Courses returns the courses and tees at a facility as seen by a member.
func (c *Client) Courses(ctx context.Context, facilityID, memberID int) ([]Course, error) {
	if cached, ok := c.cache.Get(facilityID, memberID); ok {
		logger.IncrCounter("course.cache_hit")
		return cached, nil
	}

	params := url.Values{}
	params.Set("individualId", fmt.Sprint(memberID))

	var courses []Course
	path := fmt.Sprintf("/api/v1/facilities/%d/courses", facilityID)
	if err := c.getJSON(ctx, path, params, &courses); err != nil {
		return nil, fmt.Errorf("fetching courses for facility %d: %w", facilityID, err)
	}

	c.cache.Set(facilityID, memberID, courses)
	return courses, nil
}

// TeeHoleArrays returns the per-hole reference values of a tee. Tees listed
// with their holes are answered from the course list; otherwise the holes are
// requested separately.
func (c *Client) TeeHoleArrays(ctx context.Context, facilityID, memberID, courseID, teeID int) (*HoleArrays, error) {
	courses, err := c.Courses(ctx, facilityID, memberID)
	if err != nil {
		return nil, err
	}
	if tee, ok := FindTee(courses, courseID, teeID); ok && len(tee.Holes) > 0 {
		return tee.HoleArrays(), nil
	}

	params := url.Values{}
	params.Set("individualId", fmt.Sprint(memberID))

	var holes []Hole
	path := fmt.Sprintf("/api/v1/facilities/%d/courses/%d/tees/%d/holes", facilityID, courseID, teeID)
	if err := c.getJSON(ctx, path, params, &holes); err != nil {
		return nil, fmt.Errorf("fetching holes for tee %d: %w", teeID, err)
	}
	return Tee{ID: teeID, Holes: holes}.HoleArrays(), nil
}

type handicapResponse struct {
	CourseHandicap *int `json:"courseHandicap"`
}

// CourseHandicap returns the member's course handicap for a tee, matched by
// tee name.
func (c *Client) CourseHandicap(ctx context.Context, memberID, facilityID, courseID int, teeName string) (int, error) {
	params := url.Values{}
	params.Set("facilityId", fmt.Sprint(facilityID))
	params.Set("courseId", fmt.Sprint(courseID))
	params.Set("tee", normalizeName(teeName))

	var resp handicapResponse
	path := fmt.Sprintf("/api/v1/individuals/%d/course-handicap", memberID)
	if err := c.getJSON(ctx, path, params, &resp); err != nil {
		return 0, fmt.Errorf("fetching course handicap: %w", err)
	}
	if resp.CourseHandicap == nil {
		return 0, ErrNoHandicap
	}
	return *resp.CourseHandicap, nil
}

// getJSON performs a GET through the circuit breaker and decodes the body.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	_, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}
		req.Header.Set("Accept", "application/json")

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("making request: %w", err)
		}
		defer resp.Body.Close()
		logger.RecordTiming("course.request", time.Since(start))

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("parsing response: %w", err)
		}
		return nil, nil
	})
	if err != nil {
		c.log.Debug("Reference request failed", logger.Fields{"path": path, "error": err.Error()})
	}
	return err
}
