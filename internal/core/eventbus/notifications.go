package eventbus

import (
	"fmt"

	"github.com/hay-kot/mbot/internal/core/notify"
)

// NotificationRouter maps domain events to notification history entries.
// Derived notifications are delivered inline on the dispatch goroutine.
type NotificationRouter struct {
	bus *EventBus
}

// NewNotificationRouter constructs a router for event-to-notification mappings.
func NewNotificationRouter(bus *EventBus) *NotificationRouter {
	return &NotificationRouter{bus: bus}
}

// Register subscribes all supported event mappings.
func (r *NotificationRouter) Register() {
	if r == nil || r.bus == nil {
		return
	}

	r.bus.SubscribeReminderFired(func(p ReminderFiredPayload) {
		r.bus.DispatchNotificationPublished(NotificationPublishedPayload{
			Level:   notify.LevelInfo,
			Message: p.Reminder.String(),
			Key:     p.Reminder.Key,
		})
	})

	r.bus.SubscribeCycleFailed(func(p CycleFailedPayload) {
		if p.Err == nil {
			return
		}
		r.notifyf(notify.LevelError, "reminder cycle failed: %v", p.Err)
	})
}

func (r *NotificationRouter) notifyf(level notify.Level, format string, args ...any) {
	r.bus.DispatchNotificationPublished(NotificationPublishedPayload{
		Level:   level,
		Message: fmt.Sprintf(format, args...),
	})
}
