package guard

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// DayCache is the persisted day-scoped mark-done set: the calendar day it
// belongs to and the habit ids recorded for that day. A cache whose Day
// differs from today is discarded wholesale; it is a UI-responsiveness
// aid, never the source of truth for streak state.
type DayCache struct {
	Day      string   `json:"date"`
	HabitIDs []string `json:"habitIds"`
}

// loadDayCache reads the cache file. A missing or corrupt file yields an
// empty cache; the guard re-derives state from the backing store anyway.
func loadDayCache(path string) DayCache {
	data, err := os.ReadFile(path)
	if err != nil {
		return DayCache{}
	}
	var cache DayCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return DayCache{}
	}
	return cache
}

// saveDayCache writes the cache atomically next to its final location.
func saveDayCache(path string, cache DayCache) error {
	sort.Strings(cache.HabitIDs)
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize day cache: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write day cache: %w", err)
	}
	return os.Rename(tmp, path)
}
