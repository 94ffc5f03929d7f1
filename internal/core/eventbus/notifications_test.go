package eventbus_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hay-kot/mbot/internal/core/eventbus"
	"github.com/hay-kot/mbot/internal/core/eventbus/testbus"
	"github.com/hay-kot/mbot/internal/core/notify"
	"github.com/hay-kot/mbot/internal/core/reminder"
	"github.com/hay-kot/mbot/internal/core/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func latestNotificationPayload(tb *testbus.Bus, t *testing.T) eventbus.NotificationPublishedPayload {
	t.Helper()
	tb.AssertPublished(t, eventbus.EventNotificationPublished)

	payloads := testbus.Payloads[eventbus.NotificationPublishedPayload](tb)
	require.NotEmpty(t, payloads)
	return payloads[len(payloads)-1]
}

func TestNotificationRouter_ReminderFired(t *testing.T) {
	tb := testbus.New(t)
	eventbus.NewNotificationRouter(tb.EventBus).Register()

	tk, ok := task.ParseLine("- [ ] 2024-05-01 14:30 : Renew badge")
	require.True(t, ok)

	require.NoError(t, tb.PublishReminderFired(context.Background(), eventbus.ReminderFiredPayload{Reminder: reminder.New(tk, time.Now())}))
	p := latestNotificationPayload(tb, t)

	assert.Equal(t, notify.LevelInfo, p.Level)
	assert.Contains(t, p.Message, "Renew badge")
	assert.Equal(t, tk.Key(), p.Key)
}

func TestNotificationRouter_CycleFailed(t *testing.T) {
	tb := testbus.New(t)
	eventbus.NewNotificationRouter(tb.EventBus).Register()

	tb.PublishCycleFailed(eventbus.CycleFailedPayload{CycleID: "c1", Err: errors.New("disk on fire")})
	p := latestNotificationPayload(tb, t)

	assert.Equal(t, notify.LevelError, p.Level)
	assert.Contains(t, p.Message, "disk on fire")
	assert.Empty(t, p.Key)
}

func TestNotificationRouter_CycleCompleted_doesNotPublish(t *testing.T) {
	tb := testbus.New(t)
	eventbus.NewNotificationRouter(tb.EventBus).Register()

	tb.PublishCycleCompleted(eventbus.CycleCompletedPayload{CycleID: "c1", Tasks: 3})

	tb.AssertPublished(t, eventbus.EventCycleCompleted)
	tb.AssertNotPublished(t, eventbus.EventNotificationPublished, 50*time.Millisecond)
}

func TestNotificationRouter_NilSafe(t *testing.T) {
	var r *eventbus.NotificationRouter
	assert.NotPanics(t, r.Register)
}

func TestNotificationRouter_SmallBufferKeepsEveryNotification(t *testing.T) {
	bus := eventbus.New(1)
	eventbus.NewNotificationRouter(bus).Register()

	var got atomic.Int32
	bus.SubscribeNotificationPublished(func(eventbus.NotificationPublishedPayload) {
		time.Sleep(time.Millisecond)
		got.Add(1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go bus.Start(ctx)

	tk, ok := task.ParseLine("- [ ] 2024-05-01 : Water plants")
	require.True(t, ok)

	const n = 50
	for range n {
		require.NoError(t, bus.PublishReminderFired(ctx, eventbus.ReminderFiredPayload{Reminder: reminder.New(tk, time.Now())}))
	}

	assert.Eventually(t, func() bool { return got.Load() == n }, 2*time.Second, 5*time.Millisecond)
}
