package guard

import (
	"time"

	"github.com/focusfortress/fortress/internal/constants"
	"github.com/focusfortress/fortress/internal/errors"
	"github.com/focusfortress/fortress/internal/logger"
)

// Guard enforces at most one successful mark-done per habit per user-local
// calendar day. It layers a persisted day cache over the backing store:
// the cache suppresses repeat clicks locally, while the store remains the
// arbiter of whether a completion was actually recorded. The guard never
// fabricates streak progress.
type Guard struct {
	path    string
	now     func() time.Time
	day     string
	marked  map[string]struct{}
	pending map[string]struct{}
	loaded  bool
}

func New(path string) *Guard {
	return NewWithClock(path, time.Now)
}

// NewWithClock injects the clock, so tests can simulate day rollover.
func NewWithClock(path string, now func() time.Time) *Guard {
	return &Guard{
		path:    path,
		now:     now,
		marked:  make(map[string]struct{}),
		pending: make(map[string]struct{}),
	}
}

// Today returns the current calendar day in the user's local timezone.
func (g *Guard) Today() string {
	return g.now().Format(constants.DateFormat)
}

// refresh loads the persisted cache on first use and discards all entries
// whenever the stored day no longer matches today.
func (g *Guard) refresh() {
	today := g.Today()

	if !g.loaded {
		g.loaded = true
		cache := loadDayCache(g.path)
		if cache.Day == today {
			g.day = cache.Day
			for _, id := range cache.HabitIDs {
				g.marked[id] = struct{}{}
			}
		}
	}

	if g.day != today {
		g.day = today
		g.marked = make(map[string]struct{})
	}
}

// IsMarked reports whether the habit has already been recorded today, for
// disabling the mark-done control without a store round trip.
func (g *Guard) IsMarked(habitID string) bool {
	g.refresh()
	_, ok := g.marked[habitID]
	return ok
}

// MarkDone runs the day-scoped idempotency protocol around call, which
// issues the actual command to the backing store for the given day and
// returns the updated streak.
//
// Returns (streak, absorbed, err). absorbed is true when the store
// rejected the command because today's completion was already recorded by
// another client: the id is cached so repeat clicks are suppressed, but
// no streak value is trusted until the next store refresh.
func (g *Guard) MarkDone(habitID string, call func(day string) (int, error)) (int, bool, error) {
	g.refresh()

	if _, inflight := g.pending[habitID]; inflight {
		return 0, false, &errors.AlreadyDoneError{HabitID: habitID, Day: g.day}
	}
	if _, done := g.marked[habitID]; done {
		return 0, false, &errors.AlreadyDoneError{HabitID: habitID, Day: g.day}
	}

	g.pending[habitID] = struct{}{}
	defer delete(g.pending, habitID)

	streak, err := call(g.day)
	if err != nil {
		if errors.IsAlreadyMarked(err) {
			// Raced with another client: absorb as idempotent success,
			// but leave the streak to the store's next refresh.
			g.remember(habitID)
			return 0, true, nil
		}
		// Cache untouched so the caller can retry.
		return 0, false, err
	}

	g.remember(habitID)
	return streak, false, nil
}

// Forget clears the habit's cache entry, e.g. after the habit is deleted.
func (g *Guard) Forget(habitID string) {
	g.refresh()
	if _, ok := g.marked[habitID]; !ok {
		return
	}
	delete(g.marked, habitID)
	g.persist()
}

func (g *Guard) remember(habitID string) {
	g.marked[habitID] = struct{}{}
	g.persist()
}

func (g *Guard) persist() {
	cache := DayCache{Day: g.day, HabitIDs: make([]string, 0, len(g.marked))}
	for id := range g.marked {
		cache.HabitIDs = append(cache.HabitIDs, id)
	}
	if err := saveDayCache(g.path, cache); err != nil {
		// A lost cache only costs an extra store round trip tomorrow.
		logger.Warn("Failed to persist day cache", "error", err)
	}
}
