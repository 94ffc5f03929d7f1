package eventbus

import (
	"context"
	"sync"
)

type envelope struct {
	event   Event
	payload any
}

// EventBus delivers published events to subscribers on a single dispatch
// goroutine, in publish order. Status events never block: when the buffer is
// full they are dropped and OnDrop hooks fire. Reminder events wait for
// buffer space instead.
type EventBus struct {
	ch    chan envelope
	hooks hooks

	mu          sync.RWMutex
	subscribers map[Event][]func(any)
}

// New creates a bus with the given buffer size. Call Start to begin delivery.
func New(buffer int) *EventBus {
	return &EventBus{
		ch:          make(chan envelope, buffer),
		subscribers: make(map[Event][]func(any)),
	}
}

// Start dispatches events until ctx is cancelled. Events still buffered at
// cancellation are delivered before Start returns.
func (bus *EventBus) Start(ctx context.Context) {
	for {
		select {
		case env := <-bus.ch:
			bus.dispatch(env)
		case <-ctx.Done():
			for {
				select {
				case env := <-bus.ch:
					bus.dispatch(env)
				default:
					return
				}
			}
		}
	}
}

func (bus *EventBus) subscribe(event Event, fn func(any)) {
	bus.mu.Lock()
	bus.subscribers[event] = append(bus.subscribers[event], fn)
	bus.mu.Unlock()
}

func (bus *EventBus) dispatch(env envelope) {
	bus.mu.RLock()
	subs := make([]func(any), len(bus.subscribers[env.event]))
	copy(subs, bus.subscribers[env.event])
	bus.mu.RUnlock()

	for _, fn := range subs {
		bus.call(env, fn)
	}
}

func (bus *EventBus) dispatchNow(event Event, payload any) {
	for _, fn := range bus.hooks.publish.snapshot() {
		fn(event, payload)
	}
	bus.dispatch(envelope{event: event, payload: payload})
}

func (bus *EventBus) call(env envelope, fn func(any)) {
	defer func() {
		if r := recover(); r != nil {
			bus.reportPanic(env.event, env.payload, r)
		}
	}()
	fn(env.payload)
}

// PublishCycleCompleted publishes a cycle.completed event.
func (bus *EventBus) PublishCycleCompleted(p CycleCompletedPayload) {
	bus.send(EventCycleCompleted, p)
}

// SubscribeCycleCompleted registers fn for cycle.completed events.
func (bus *EventBus) SubscribeCycleCompleted(fn func(CycleCompletedPayload)) {
	bus.subscribe(EventCycleCompleted, func(p any) { fn(p.(CycleCompletedPayload)) })
}

// PublishCycleFailed publishes a cycle.failed event.
func (bus *EventBus) PublishCycleFailed(p CycleFailedPayload) {
	bus.send(EventCycleFailed, p)
}

// SubscribeCycleFailed registers fn for cycle.failed events.
func (bus *EventBus) SubscribeCycleFailed(fn func(CycleFailedPayload)) {
	bus.subscribe(EventCycleFailed, func(p any) { fn(p.(CycleFailedPayload)) })
}

// PublishNotificationPublished publishes a notification.published event.
func (bus *EventBus) PublishNotificationPublished(p NotificationPublishedPayload) {
	bus.send(EventNotificationPublished, p)
}

// DispatchNotificationPublished delivers a notification.published event to
// subscribers on the calling goroutine, bypassing the buffer. Subscribers that
// derive notifications from other events use it so the derived event cannot
// be dropped.
func (bus *EventBus) DispatchNotificationPublished(p NotificationPublishedPayload) {
	bus.dispatchNow(EventNotificationPublished, p)
}

// SubscribeNotificationPublished registers fn for notification.published events.
func (bus *EventBus) SubscribeNotificationPublished(fn func(NotificationPublishedPayload)) {
	bus.subscribe(EventNotificationPublished, func(p any) { fn(p.(NotificationPublishedPayload)) })
}

// PublishReminderFired publishes a reminder.fired event, waiting for buffer
// space until ctx is done. A nil error means the event was enqueued.
func (bus *EventBus) PublishReminderFired(ctx context.Context, p ReminderFiredPayload) error {
	return bus.deliver(ctx, EventReminderFired, p)
}

// SubscribeReminderFired registers fn for reminder.fired events.
func (bus *EventBus) SubscribeReminderFired(fn func(ReminderFiredPayload)) {
	bus.subscribe(EventReminderFired, func(p any) { fn(p.(ReminderFiredPayload)) })
}

// PublishTrackerPruned publishes a tracker.pruned event.
func (bus *EventBus) PublishTrackerPruned(p TrackerPrunedPayload) {
	bus.send(EventTrackerPruned, p)
}

// SubscribeTrackerPruned registers fn for tracker.pruned events.
func (bus *EventBus) SubscribeTrackerPruned(fn func(TrackerPrunedPayload)) {
	bus.subscribe(EventTrackerPruned, func(p any) { fn(p.(TrackerPrunedPayload)) })
}
