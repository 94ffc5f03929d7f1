package reminder

import (
	"fmt"
	"time"

	"github.com/hay-kot/mbot/internal/core/task"
)

// Reminder is the record emitted when a task's scheduled moment arrives.
type Reminder struct {
	Key         string    `json:"key"`
	Description string    `json:"description"`
	Date        task.Date `json:"date"`
	Time        string    `json:"time"` // "HH:MM" or "all-day"
	Source      string    `json:"source,omitempty"`
	FiredAt     time.Time `json:"fired_at"`
}

// New builds the reminder for t fired at firedAt.
func New(t task.Task, firedAt time.Time) Reminder {
	return Reminder{
		Key:         t.Key(),
		Description: t.Description,
		Date:        t.Date,
		Time:        t.TimeLabel(),
		Source:      t.Source,
		FiredAt:     firedAt,
	}
}

// String renders the reminder as a single console line.
func (r Reminder) String() string {
	return fmt.Sprintf("REMINDER: %s | Scheduled: %s %s", r.Description, r.Date, r.Time)
}
