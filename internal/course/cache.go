package course

import (
	"fmt"
	"sync"
	"time"
)

// DefaultCacheTTL is how long a facility's course list stays fresh.
const DefaultCacheTTL = 7 * 24 * time.Hour

// Cache holds course lists per facility and member with a TTL. It is safe for
// concurrent use and serializes to JSON for persistence between runs.
type Cache struct {
	mu       sync.Mutex
	Courses  map[string][]Course  `json:"courses"`   // facility|member → courses
	CachedAt map[string]time.Time `json:"cached_at"` // key → cache time
	TTL      time.Duration        `json:"-"`
}

// NewCache creates an empty cache with the default TTL.
func NewCache() *Cache {
	return &Cache{
		Courses:  make(map[string][]Course),
		CachedAt: make(map[string]time.Time),
		TTL:      DefaultCacheTTL,
	}
}

// Get returns the cached course list for a facility and member. Expired
// entries are dropped and reported as missing.
func (c *Cache) Get(facilityID, memberID int) ([]Course, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(facilityID, memberID)
	courses, exists := c.Courses[key]
	if !exists {
		return nil, false
	}

	cachedTime, hasTime := c.CachedAt[key]
	if !hasTime || time.Since(cachedTime) > c.TTL {
		delete(c.Courses, key)
		delete(c.CachedAt, key)
		return nil, false
	}

	return courses, true
}

// Set stores a course list.
func (c *Cache) Set(facilityID, memberID int, courses []Course) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Courses == nil {
		c.Courses = make(map[string][]Course)
	}
	if c.CachedAt == nil {
		c.CachedAt = make(map[string]time.Time)
	}

	key := cacheKey(facilityID, memberID)
	c.Courses[key] = courses
	c.CachedAt[key] = time.Now()
}

func cacheKey(facilityID, memberID int) string {
	return fmt.Sprintf("%d|%d", facilityID, memberID)
}

// CleanExpired removes expired entries and returns how many were removed.
func (c *Cache) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	now := time.Now()
	for key, cachedTime := range c.CachedAt {
		if now.Sub(cachedTime) > c.TTL {
			delete(c.Courses, key)
			delete(c.CachedAt, key)
			removed++
		}
	}
	return removed
}

// Size returns the number of cached entries.
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Courses)
}
