package reminder

import (
	"sync"
	"testing"
	"time"

	"github.com/hay-kot/mbot/internal/core/task"
	"github.com/stretchr/testify/assert"
)

var day = task.Date{Year: 2024, Month: 5, Day: 1}

func TestMemoryTracker_MarkIsIdempotent(t *testing.T) {
	tr := NewMemoryTracker()

	assert.False(t, tr.IsNotified("k"))

	tr.MarkNotified("k", day)
	tr.MarkNotified("k", day)

	assert.True(t, tr.IsNotified("k"))
	assert.Equal(t, 1, tr.Len())
}

func TestMemoryTracker_Cycle(t *testing.T) {
	tr := NewMemoryTracker()

	tr.Cycle(func(s State) {
		assert.False(t, s.IsNotified("a"))
		s.MarkNotified("a", day)
		assert.True(t, s.IsNotified("a"))
	})

	assert.True(t, tr.IsNotified("a"))
}

func TestMemoryTracker_ConcurrentCyclesNotifyOnce(t *testing.T) {
	tr := NewMemoryTracker()

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		fired int
	)

	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.Cycle(func(s State) {
				if s.IsNotified("shared") {
					return
				}
				// widen the race window between check and mark
				time.Sleep(time.Millisecond)
				s.MarkNotified("shared", day)

				mu.Lock()
				fired++
				mu.Unlock()
			})
		}()
	}

	wg.Wait()
	assert.Equal(t, 1, fired)
}

func TestMemoryTracker_Prune(t *testing.T) {
	tr := NewMemoryTracker()
	tr.MarkNotified("old", task.Date{Year: 2024, Month: 4, Day: 28})
	tr.MarkNotified("yesterday", task.Date{Year: 2024, Month: 4, Day: 30})
	tr.MarkNotified("today", day)

	removed := tr.Prune(task.Date{Year: 2024, Month: 4, Day: 30})

	assert.Equal(t, 1, removed)
	assert.False(t, tr.IsNotified("old"))
	assert.True(t, tr.IsNotified("yesterday"))
	assert.True(t, tr.IsNotified("today"))
}

func TestReminder(t *testing.T) {
	tk, ok := task.ParseLine("- [ ] 2024-05-01 14:30 : Renew badge")
	assert.True(t, ok)

	firedAt := time.Date(2024, 5, 1, 14, 30, 5, 0, time.UTC)
	r := New(tk, firedAt)

	assert.Equal(t, tk.Key(), r.Key)
	assert.Equal(t, "14:30", r.Time)
	assert.Equal(t, firedAt, r.FiredAt)
	assert.Equal(t, "REMINDER: Renew badge | Scheduled: 2024-05-01 14:30", r.String())

	allDay, _ := task.ParseLine("- [ ] 2024-05-01 : Water plants")
	assert.Equal(t, "REMINDER: Water plants | Scheduled: 2024-05-01 all-day", New(allDay, firedAt).String())
}
