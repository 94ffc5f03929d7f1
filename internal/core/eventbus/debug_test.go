package eventbus_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hay-kot/mbot/internal/core/eventbus"
	"github.com/hay-kot/mbot/internal/core/eventbus/testbus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestRegisterDebugLogger(t *testing.T) {
	tb := testbus.New(t)

	// Registering with a nop logger must not panic.
	eventbus.RegisterDebugLogger(tb.EventBus, zerolog.Nop())

	tb.PublishCycleCompleted(eventbus.CycleCompletedPayload{CycleID: "c1"})
	tb.PublishTrackerPruned(eventbus.TrackerPrunedPayload{Removed: 1})

	tb.AssertPublished(t, eventbus.EventTrackerPruned)
}

func TestEventBus_PanickingSubscriberDoesNotStopDelivery(t *testing.T) {
	tb := testbus.New(t)

	var panics atomic.Int32
	tb.OnPanic(func(eventbus.Event, any, any) { panics.Add(1) })
	tb.SubscribeCycleCompleted(func(eventbus.CycleCompletedPayload) { panic("boom") })

	tb.PublishCycleCompleted(eventbus.CycleCompletedPayload{})
	tb.PublishCycleCompleted(eventbus.CycleCompletedPayload{})

	assert.True(t, tb.WaitForCount(eventbus.EventCycleCompleted, 2, time.Second))
	assert.Eventually(t, func() bool { return panics.Load() == 2 }, time.Second, 5*time.Millisecond)
}

func TestEventBus_DropsWhenFull(t *testing.T) {
	bus := eventbus.New(1)

	var drops atomic.Int32
	bus.OnDrop(func(eventbus.Event, any) { drops.Add(1) })

	// Not started: first publish fills the buffer, second is dropped.
	bus.PublishCycleCompleted(eventbus.CycleCompletedPayload{})
	bus.PublishCycleCompleted(eventbus.CycleCompletedPayload{})

	assert.Equal(t, int32(1), drops.Load())
}

func TestEventBus_StartDrainsOnCancel(t *testing.T) {
	bus := eventbus.New(8)

	var got atomic.Int32
	bus.SubscribeCycleCompleted(func(eventbus.CycleCompletedPayload) { got.Add(1) })

	for range 3 {
		bus.PublishCycleCompleted(eventbus.CycleCompletedPayload{})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bus.Start(ctx)

	assert.Equal(t, int32(3), got.Load())
}

func TestEventBus_PublishReminderFired_WaitsForSpace(t *testing.T) {
	bus := eventbus.New(1)

	var got atomic.Int32
	bus.SubscribeReminderFired(func(eventbus.ReminderFiredPayload) {
		time.Sleep(time.Millisecond)
		got.Add(1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go bus.Start(ctx)

	for range 20 {
		assert.NoError(t, bus.PublishReminderFired(ctx, eventbus.ReminderFiredPayload{}))
	}
	assert.Eventually(t, func() bool { return got.Load() == 20 }, time.Second, 5*time.Millisecond)
}

func TestEventBus_PublishReminderFired_GivesUpOnContext(t *testing.T) {
	bus := eventbus.New(1)

	var drops atomic.Int32
	bus.OnDrop(func(eventbus.Event, any) { drops.Add(1) })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	// Not started: the first event fills the buffer, the second waits out ctx.
	assert.NoError(t, bus.PublishReminderFired(ctx, eventbus.ReminderFiredPayload{}))
	err := bus.PublishReminderFired(ctx, eventbus.ReminderFiredPayload{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, int32(1), drops.Load())
}
