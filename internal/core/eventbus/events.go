// Package eventbus provides a typed publish/subscribe event bus for
// cross-component communication within mbot.
package eventbus

import (
	"time"

	"github.com/hay-kot/mbot/internal/core/notify"
	"github.com/hay-kot/mbot/internal/core/reminder"
)

// Event names a kind of event carried by the bus.
type Event string

// Keep list sorted A-Z.
const (
	EventCycleCompleted        Event = "cycle.completed"
	EventCycleFailed           Event = "cycle.failed"
	EventNotificationPublished Event = "notification.published"
	EventReminderFired         Event = "reminder.fired"
	EventTrackerPruned         Event = "tracker.pruned"
)

// CycleCompletedPayload is emitted after every successful polling cycle.
type CycleCompletedPayload struct {
	CycleID  string
	Tasks    int
	Fired    int
	Duration time.Duration
}

// CycleFailedPayload is emitted when a polling cycle could not read its
// documents.
type CycleFailedPayload struct {
	CycleID string
	Err     error
}

// NotificationPublishedPayload is emitted for every entry destined for the
// notification history.
type NotificationPublishedPayload struct {
	Level   notify.Level
	Message string
	Key     string
}

// ReminderFiredPayload is emitted once per task identity when its scheduled
// moment arrives.
type ReminderFiredPayload struct {
	Reminder reminder.Reminder
}

// TrackerPrunedPayload is emitted when old keys are evicted from the
// notified set.
type TrackerPrunedPayload struct {
	Removed   int
	Remaining int
}
