package reminder

import (
	"sync"

	"github.com/hay-kot/mbot/internal/core/task"
)

// State is the view of the notified set available inside a tracker cycle.
type State interface {
	// IsNotified reports whether a reminder for key has already been sent.
	IsNotified(key string) bool
	// MarkNotified records key as sent. Marking a key twice is a no-op.
	MarkNotified(key string, date task.Date)
}

// Tracker owns the set of identity keys that have already been notified.
//
// Cycle runs fn while holding the tracker's writer lock, so the whole
// check-evaluate-mark scan of one polling cycle is serialized against any
// other cycle.
type Tracker interface {
	Cycle(fn func(State))
}

// MemoryTracker is an in-process Tracker. Its contents live for the lifetime
// of the process and are never written to storage.
type MemoryTracker struct {
	mu   sync.Mutex
	seen map[string]task.Date
}

var _ Tracker = (*MemoryTracker)(nil)

// NewMemoryTracker creates an empty tracker.
func NewMemoryTracker() *MemoryTracker {
	return &MemoryTracker{seen: make(map[string]task.Date)}
}

// Cycle implements Tracker.
func (t *MemoryTracker) Cycle(fn func(State)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(unlocked{t})
}

// IsNotified reports whether key has been notified.
func (t *MemoryTracker) IsNotified(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.seen[key]
	return ok
}

// MarkNotified records key as notified.
func (t *MemoryTracker) MarkNotified(key string, date task.Date) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seen[key] = date
}

// Len returns the number of notified keys.
func (t *MemoryTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.seen)
}

// Prune forgets every key whose task date is before cutoff and returns the
// number removed. A forgotten task can fire again only if its window comes
// around again, which for a past date it never does.
func (t *MemoryTracker) Prune(cutoff task.Date) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	for key, date := range t.seen {
		if date.Before(cutoff) {
			delete(t.seen, key)
			removed++
		}
	}
	return removed
}

// unlocked accesses the map directly; only handed out while mu is held.
type unlocked struct {
	t *MemoryTracker
}

func (u unlocked) IsNotified(key string) bool {
	_, ok := u.t.seen[key]
	return ok
}

func (u unlocked) MarkNotified(key string, date task.Date) {
	u.t.seen[key] = date
}
