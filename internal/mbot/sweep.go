package mbot

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/mbot/internal/core/eventbus"
	"github.com/hay-kot/mbot/internal/core/task"
)

// Pruner is the subset of reminder.MemoryTracker used by the sweep.
type Pruner interface {
	Prune(cutoff task.Date) int
	Len() int
}

// Sweep evicts notified keys whose task date is older than RetainDays,
// counted back from the oldest moment a task can still be due.
type Sweep struct {
	tracker    Pruner
	retainDays int
	window     time.Duration
	bus        *eventbus.EventBus
	now        func() time.Time
	log        zerolog.Logger
}

// NewSweep creates a sweep. retainDays must be positive; window is the
// reminder acceptance window.
func NewSweep(tracker Pruner, retainDays int, window time.Duration, bus *eventbus.EventBus, log zerolog.Logger) *Sweep {
	return &Sweep{
		tracker:    tracker,
		retainDays: retainDays,
		window:     window,
		bus:        bus,
		now:        time.Now,
		log:        log,
	}
}

// Once prunes immediately and returns the number of keys removed. A task
// still inside its window is dated no earlier than the day of now minus the
// window, so keys dated on or after that day minus retainDays are kept.
func (s *Sweep) Once() int {
	cutoff := task.DateOf(s.now().Add(-s.window)).AddDays(-s.retainDays)
	removed := s.tracker.Prune(cutoff)
	if removed > 0 {
		remaining := s.tracker.Len()
		s.log.Debug().Int("removed", removed).Int("remaining", remaining).Msg("pruned notified keys")
		if s.bus != nil {
			s.bus.PublishTrackerPruned(eventbus.TrackerPrunedPayload{Removed: removed, Remaining: remaining})
		}
	}
	return removed
}

// Start prunes on every interval tick. It blocks until the context is
// cancelled.
func (s *Sweep) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Once()
		}
	}
}
