package eventbus

import (
	"fmt"

	"github.com/rs/zerolog"
)

// RegisterDebugLogger registers bus hooks that log event activity. Published
// events are logged at debug level, drops and subscriber panics at warn and
// error.
func RegisterDebugLogger(bus *EventBus, logger zerolog.Logger) {
	bus.OnPublish(func(event Event, payload any) {
		e := logger.Debug().Str("event", string(event))
		switch p := payload.(type) {
		case ReminderFiredPayload:
			e = e.Str("key", p.Reminder.Key)
		case CycleCompletedPayload:
			e = e.Str("cycle_id", p.CycleID).Int("fired", p.Fired)
		case CycleFailedPayload:
			e = e.Str("cycle_id", p.CycleID)
		}
		e.Msg("event fired")
	})

	bus.OnDrop(func(event Event, _ any) {
		logger.Warn().Str("event", string(event)).Msg("event dropped")
	})

	bus.OnPanic(func(event Event, _ any, recovered any) {
		logger.Error().
			Str("event", string(event)).
			Str("panic", fmt.Sprint(recovered)).
			Msg("subscriber panicked")
	})
}
