package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pfrederiksen/scorecard-sync/internal/course"
	"github.com/pfrederiksen/scorecard-sync/internal/payload"
)

const (
	courseCacheFile = "course_cache.json"
	payloadDir      = "payloads"
)

// Storage handles persistence of the course cache and posted payloads
type Storage struct {
	dataDir string
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// Dir returns the resolved data directory
func (s *Storage) Dir() string {
	return s.dataDir
}

// cacheFile is the on-disk form of the course cache
type cacheFile struct {
	UpdatedAt string        `json:"updated_at"`
	Cache     *course.Cache `json:"cache"`
}

// LoadCourseCache loads the course cache from disk. A missing file yields an
// empty cache. Expired entries are dropped on load.
func (s *Storage) LoadCourseCache(ttl time.Duration) (*course.Cache, error) {
	path := filepath.Join(s.dataDir, courseCacheFile)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cache := course.NewCache()
			if ttl > 0 {
				cache.TTL = ttl
			}
			return cache, nil
		}
		return nil, fmt.Errorf("reading course cache: %w", err)
	}

	var file cacheFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing course cache: %w", err)
	}

	cache := file.Cache
	if cache == nil {
		cache = course.NewCache()
	}
	// TTL is excluded from JSON
	cache.TTL = course.DefaultCacheTTL
	if ttl > 0 {
		cache.TTL = ttl
	}
	cache.CleanExpired()

	return cache, nil
}

// SaveCourseCache writes the course cache to disk
func (s *Storage) SaveCourseCache(cache *course.Cache) error {
	path := filepath.Join(s.dataDir, courseCacheFile)

	file := cacheFile{
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
		Cache:     cache,
	}
	data, err := json.MarshalIndent(&file, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding course cache: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing course cache: %w", err)
	}
	return nil
}

// SavePayload archives an assembled payload under the run id and returns the
// file written.
func (s *Storage) SavePayload(runID string, p *payload.Payload) (string, error) {
	if runID == "" || strings.ContainsAny(runID, `/\`) {
		return "", fmt.Errorf("invalid run id: %q", runID)
	}

	dir := filepath.Join(s.dataDir, payloadDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating payload directory: %w", err)
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding payload: %w", err)
	}

	path := filepath.Join(dir, runID+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing payload: %w", err)
	}
	return path, nil
}

// LoadPayload reads an archived payload by run id
func (s *Storage) LoadPayload(runID string) (*payload.Payload, error) {
	path := filepath.Join(s.dataDir, payloadDir, runID+".json")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("payload not found: %s", runID)
		}
		return nil, fmt.Errorf("reading payload: %w", err)
	}

	var p payload.Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing payload: %w", err)
	}
	return &p, nil
}
