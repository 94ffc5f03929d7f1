package doctor

import (
	"context"
	"fmt"
	"time"

	"github.com/hay-kot/mbot/internal/core/reminder"
	"github.com/hay-kot/mbot/internal/core/task"
)

// ScheduleCheck inspects parsed tasks for identity collisions, reminders
// that have already passed today, and the next upcoming reminder.
type ScheduleCheck struct {
	tasks     []task.Task
	evaluator reminder.Evaluator
	now       time.Time
}

// NewScheduleCheck creates a schedule check evaluated at now.
func NewScheduleCheck(tasks []task.Task, evaluator reminder.Evaluator, now time.Time) *ScheduleCheck {
	return &ScheduleCheck{tasks: tasks, evaluator: evaluator, now: now}
}

func (c *ScheduleCheck) Name() string {
	return "Schedule"
}

func (c *ScheduleCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	seen := make(map[string]task.Task, len(c.tasks))
	reported := make(map[string]bool)
	for _, t := range c.tasks {
		key := t.Key()
		first, dup := seen[key]
		if !dup {
			seen[key] = t
			continue
		}
		if reported[key] {
			continue
		}
		reported[key] = true
		result.Items = append(result.Items, CheckItem{
			Label:  t.Description,
			Status: StatusWarn,
			Detail: fmt.Sprintf("duplicate of %s:%d; only one reminder fires", first.Source, first.Line),
		})
	}

	window := c.evaluator.Window
	if window <= 0 {
		window = reminder.DefaultWindow
	}

	today := task.DateOf(c.now)
	var (
		missed   int
		next     time.Time
		nextTask task.Task
	)
	for _, t := range c.tasks {
		if t.Completed {
			continue
		}
		start, ok := c.evaluator.Start(t, c.now.Location())
		if !ok {
			continue
		}
		end := start.Add(window)
		switch {
		case t.Date == today && !c.now.Before(end):
			missed++
		case c.now.Before(start) && (next.IsZero() || start.Before(next)):
			next = start
			nextTask = t
		}
	}

	if missed > 0 {
		result.Items = append(result.Items, CheckItem{
			Label:  "missed today",
			Status: StatusWarn,
			Detail: fmt.Sprintf("%d pending tasks are past their reminder window", missed),
		})
	}

	if next.IsZero() {
		result.Items = append(result.Items, CheckItem{
			Label:  "next reminder",
			Status: StatusPass,
			Detail: "none scheduled",
		})
	} else {
		result.Items = append(result.Items, CheckItem{
			Label:  "next reminder",
			Status: StatusPass,
			Detail: fmt.Sprintf("%s at %s", nextTask.Description, next.Format("2006-01-02 15:04")),
		})
	}

	return result
}
