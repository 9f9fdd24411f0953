package counter

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/focusfortress/fortress/internal/models"
)

// Elapsed is a duration broken into display units. Each unit is computed
// from the remainder of the next larger one, so no carry errors cross
// unit boundaries.
type Elapsed struct {
	Days    int
	Hours   int
	Minutes int
	Seconds int
}

// Since derives the elapsed breakdown for a counter started at start,
// observed at now, via integer division over milliseconds. A start in the
// future (clock skew) yields all zeros, never a negative duration.
func Since(now, start time.Time) Elapsed {
	ms := now.Sub(start).Milliseconds()
	if ms < 0 {
		ms = 0
	}
	totalSeconds := ms / 1000
	return Elapsed{
		Days:    int(totalSeconds / 86400),
		Hours:   int(totalSeconds % 86400 / 3600),
		Minutes: int(totalSeconds % 3600 / 60),
		Seconds: int(totalSeconds % 60),
	}
}

// Snapshot is one counter's derived duration at a tick.
type Snapshot struct {
	CounterID string
	Name      string
	Icon      string
	Elapsed   Elapsed
}

// Engine recomputes every tracked counter's elapsed duration on a fixed
// period. Derived values are never persisted; the engine holds only the
// start timestamps and rebuilds the display state each tick.
//
// The engine shares no state with the habit command path; its loop runs
// until the context is cancelled.
type Engine struct {
	mu       sync.Mutex
	tracked  map[string]models.Counter
	interval time.Duration
	now      func() time.Time
}

func NewEngine() *Engine {
	return &Engine{
		tracked:  make(map[string]models.Counter),
		interval: time.Second,
		now:      time.Now,
	}
}

// Track adds or replaces a counter in the scheduled set.
func (e *Engine) Track(c models.Counter) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tracked[c.ID] = c
}

// Remove drops a counter; its entry leaves the scheduled set before the
// next tick fires.
func (e *Engine) Remove(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.tracked, id)
}

// Reset rebases a tracked counter's start, instantly zeroing its
// displayed duration.
func (e *Engine) Reset(id string, start time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if c, ok := e.tracked[id]; ok {
		c.StartDateTime = start
		e.tracked[id] = c
	}
}

// SetAll replaces the scheduled set, e.g. after a store refresh.
func (e *Engine) SetAll(counters []models.Counter) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tracked = make(map[string]models.Counter, len(counters))
	for _, c := range counters {
		e.tracked[c.ID] = c
	}
}

// Snapshots derives the current display state for all tracked counters,
// sorted by name for stable rendering.
func (e *Engine) Snapshots() []Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	out := make([]Snapshot, 0, len(e.tracked))
	for _, c := range e.tracked {
		out = append(out, Snapshot{
			CounterID: c.ID,
			Name:      c.Name,
			Icon:      c.Icon,
			Elapsed:   Since(now, c.StartDateTime),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Run recomputes all counters once per interval and hands the snapshots
// to publish, until ctx is cancelled. publish runs on the engine's
// goroutine and must not block for long.
func (e *Engine) Run(ctx context.Context, publish func([]Snapshot)) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			publish(e.Snapshots())
		}
	}
}
