// Package testbus wraps a running EventBus that records every delivered
// event, for assertions in tests.
package testbus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/hay-kot/mbot/internal/core/eventbus"
)

// RecordedEvent holds a captured event name and payload.
type RecordedEvent struct {
	Event   eventbus.Event
	Payload any
}

// Bus is a started EventBus plus a log of delivered events. Events are
// recorded by subscribers, so a recorded event has been dispatched.
type Bus struct {
	*eventbus.EventBus

	mu     sync.Mutex
	events []RecordedEvent
}

// record subscribes to one event type and appends each delivery to the log.
func record[T any](tb *Bus, event eventbus.Event, subscribe func(func(T))) {
	subscribe(func(p T) {
		tb.mu.Lock()
		tb.events = append(tb.events, RecordedEvent{Event: event, Payload: p})
		tb.mu.Unlock()
	})
}

// New starts a recording bus. It is stopped when the test completes.
func New(t *testing.T) *Bus {
	t.Helper()

	tb := &Bus{EventBus: eventbus.New(64)}

	record(tb, eventbus.EventCycleCompleted, tb.SubscribeCycleCompleted)
	record(tb, eventbus.EventCycleFailed, tb.SubscribeCycleFailed)
	record(tb, eventbus.EventNotificationPublished, tb.SubscribeNotificationPublished)
	record(tb, eventbus.EventReminderFired, tb.SubscribeReminderFired)
	record(tb, eventbus.EventTrackerPruned, tb.SubscribeTrackerPruned)

	ctx, cancel := context.WithCancel(context.Background())
	go tb.Start(ctx)
	t.Cleanup(cancel)

	return tb
}

// Events returns a copy of all recorded events in delivery order.
func (tb *Bus) Events() []RecordedEvent {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return append([]RecordedEvent(nil), tb.events...)
}

// Count returns how many events of the given type were recorded.
func (tb *Bus) Count(event eventbus.Event) int {
	n := 0
	for _, e := range tb.Events() {
		if e.Event == event {
			n++
		}
	}
	return n
}

// Payloads returns the recorded payloads of type T in delivery order.
func Payloads[T any](tb *Bus) []T {
	var out []T
	for _, e := range tb.Events() {
		if p, ok := e.Payload.(T); ok {
			out = append(out, p)
		}
	}
	return out
}

// WaitForCount polls until at least n events of the given type are recorded.
// It reports false when timeout expires first.
func (tb *Bus) WaitForCount(event eventbus.Event, n int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		if tb.Count(event) >= n {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// AssertPublished fails the test unless event is delivered within 500ms.
func (tb *Bus) AssertPublished(t *testing.T, event eventbus.Event) {
	t.Helper()
	if !tb.WaitForCount(event, 1, 500*time.Millisecond) {
		t.Errorf("expected event %q to be published, but it was not", event)
	}
}

// AssertNotPublished fails the test if event is delivered within wait.
func (tb *Bus) AssertNotPublished(t *testing.T, event eventbus.Event, wait time.Duration) {
	t.Helper()
	time.Sleep(wait)
	if n := tb.Count(event); n > 0 {
		t.Errorf("expected event %q not to be published, got %d", event, n)
	}
}
