// Package reminder decides when checklist tasks are due and remembers which
// reminders have already been sent.
package reminder

import (
	"time"

	"github.com/hay-kot/mbot/internal/core/task"
)

const (
	// DefaultWindow is the acceptance window for a due task. It must be at
	// least as wide as the polling interval or firings can be missed.
	DefaultWindow = time.Minute
)

// DefaultAllDayAt is the time of day at which all-day tasks fire.
var DefaultAllDayAt = task.Clock{Hour: 9, Minute: 0}

// Evaluator decides whether a task is due at a given moment. It holds no state
// and is safe for concurrent use.
type Evaluator struct {
	Window   time.Duration
	AllDayAt task.Clock
}

// DefaultEvaluator returns an evaluator with a one minute window that fires
// all-day tasks at 09:00.
func DefaultEvaluator() Evaluator {
	return Evaluator{
		Window:   DefaultWindow,
		AllDayAt: DefaultAllDayAt,
	}
}

// Due reports whether t is due at now. Completed tasks are never due.
//
// A timed task scheduled at T is due for now in [T, T+Window). An all-day task
// is due on its date for now in [AllDayAt, AllDayAt+Window). The task's wall
// clock is interpreted in now's location.
func (e Evaluator) Due(now time.Time, t task.Task) bool {
	if t.Completed {
		return false
	}

	start, ok := e.Start(t, now.Location())
	if !ok {
		return false
	}

	elapsed := now.Sub(start)
	return elapsed >= 0 && elapsed < e.window()
}

// Start returns the instant at which t's acceptance window opens in loc.
// It returns false when t has an impossible clock value.
func (e Evaluator) Start(t task.Task, loc *time.Location) (time.Time, bool) {
	if t.AllDay() {
		at := e.AllDayAt
		return time.Date(t.Date.Year, t.Date.Month, t.Date.Day, at.Hour, at.Minute, 0, 0, loc), at.Valid()
	}
	return t.DateTime(loc)
}

func (e Evaluator) window() time.Duration {
	if e.Window <= 0 {
		return DefaultWindow
	}
	return e.Window
}
