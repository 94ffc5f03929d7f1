package mbot

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/mbot/internal/core/eventbus"
	"github.com/hay-kot/mbot/internal/core/eventbus/testbus"
	"github.com/hay-kot/mbot/internal/core/notify"
	"github.com/hay-kot/mbot/internal/core/reminder"
	"github.com/hay-kot/mbot/internal/core/task"
	"github.com/hay-kot/mbot/internal/data/db"
	"github.com/hay-kot/mbot/internal/data/stores"
	"github.com/hay-kot/mbot/pkg/executil"
)

func sampleReminder(t *testing.T) reminder.Reminder {
	t.Helper()
	tk, ok := task.ParseLine("- [ ] 2024-05-01 14:30 : Renew badge")
	require.True(t, ok)
	tk.Source = "work.md"
	return reminder.New(tk, time.Date(2024, 5, 1, 14, 30, 5, 0, time.UTC))
}

func TestConsoleSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewConsoleSink(&buf)

	require.NoError(t, sink.Deliver(context.Background(), sampleReminder(t)))

	assert.Equal(t, "REMINDER: Renew badge | Scheduled: 2024-05-01 14:30\n", buf.String())
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLogSink(zerolog.New(&buf))

	require.NoError(t, sink.Deliver(context.Background(), sampleReminder(t)))

	out := buf.String()
	assert.Contains(t, out, `"message":"reminder"`)
	assert.Contains(t, out, `"description":"Renew badge"`)
	assert.Contains(t, out, `"date":"2024-05-01"`)
	assert.Contains(t, out, `"source":"work.md"`)
}

func TestCommandSink(t *testing.T) {
	exec := &executil.RecordingExecutor{}
	sink := NewCommandSink(exec, []string{"notify-send", "mbot", "{{ .Description }} at {{ .Time }}"}, time.Second)

	require.NoError(t, sink.Deliver(context.Background(), sampleReminder(t)))

	cmds := exec.Commands()
	require.Len(t, cmds, 1)
	assert.Equal(t, "notify-send", cmds[0].Cmd)
	assert.Equal(t, []string{"mbot", "Renew badge at 14:30"}, cmds[0].Args)
	assert.Contains(t, cmds[0].Env, "MBOT_REMINDER_DESCRIPTION=Renew badge")
	assert.Contains(t, cmds[0].Env, "MBOT_REMINDER_DATE=2024-05-01")
	assert.Contains(t, cmds[0].Env, "MBOT_REMINDER_TIME=14:30")
	assert.Contains(t, cmds[0].Env, "MBOT_REMINDER_SOURCE=work.md")
	assert.Contains(t, cmds[0].Env, "MBOT_REMINDER_KEY=2024-05-01-14:30-Renew badge")
}

func TestCommandSink_Errors(t *testing.T) {
	t.Run("command failure", func(t *testing.T) {
		exec := &executil.RecordingExecutor{Errors: map[string]error{"false": errors.New("exit status 1")}}
		sink := NewCommandSink(exec, []string{"false"}, 0)

		err := sink.Deliver(context.Background(), sampleReminder(t))
		assert.ErrorContains(t, err, "exit status 1")
	})

	t.Run("bad template", func(t *testing.T) {
		exec := &executil.RecordingExecutor{}
		sink := NewCommandSink(exec, []string{"echo", "{{ .Nope }}"}, 0)

		err := sink.Deliver(context.Background(), sampleReminder(t))
		assert.ErrorContains(t, err, "render command")
		assert.Empty(t, exec.Commands())
	})

	t.Run("empty argv is a no-op", func(t *testing.T) {
		sink := NewCommandSink(&executil.RecordingExecutor{}, nil, 0)
		assert.NoError(t, sink.Deliver(context.Background(), sampleReminder(t)))
	})
}

type failingSink struct{}

func (failingSink) Name() string { return "failing" }

func (failingSink) Deliver(context.Context, reminder.Reminder) error {
	return errors.New("unreachable")
}

type recordingSink struct {
	mu  sync.Mutex
	got []reminder.Reminder
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) Deliver(_ context.Context, r reminder.Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, r)
	return nil
}

func (s *recordingSink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.got)
}

func TestAttachSinks_FailingSinkDoesNotBlockOthers(t *testing.T) {
	tb := testbus.New(t)
	var logs bytes.Buffer
	rec := &recordingSink{}

	AttachSinks(context.Background(), tb.EventBus, zerolog.New(&logs), failingSink{}, rec)
	require.NoError(t, tb.PublishReminderFired(context.Background(), eventbus.ReminderFiredPayload{Reminder: sampleReminder(t)}))

	require.Eventually(t, func() bool { return rec.Len() == 1 }, time.Second, 5*time.Millisecond)
	assert.Contains(t, logs.String(), `"sink":"failing"`)
}

type fakeNotifyStore struct {
	mu    sync.Mutex
	saved []notify.Notification
	err   error
}

func (f *fakeNotifyStore) Save(_ context.Context, n notify.Notification) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.saved = append(f.saved, n)
	return int64(len(f.saved)), nil
}

func (f *fakeNotifyStore) List(context.Context, int) ([]notify.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]notify.Notification(nil), f.saved...), nil
}

func (f *fakeNotifyStore) Clear(context.Context) error { return nil }

func (f *fakeNotifyStore) Count(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.saved)), nil
}

func TestHistorySink(t *testing.T) {
	tb := testbus.New(t)
	eventbus.NewNotificationRouter(tb.EventBus).Register()

	store := &fakeNotifyStore{}
	NewHistorySink(store, zerolog.Nop()).Register(context.Background(), tb.EventBus)

	r := sampleReminder(t)
	require.NoError(t, tb.PublishReminderFired(context.Background(), eventbus.ReminderFiredPayload{Reminder: r}))
	tb.PublishCycleFailed(eventbus.CycleFailedPayload{CycleID: "c1", Err: errors.New("gone")})

	require.Eventually(t, func() bool {
		n, _ := store.Count(context.Background())
		return n == 2
	}, time.Second, 5*time.Millisecond)

	saved, _ := store.List(context.Background(), 0)
	assert.Equal(t, notify.LevelInfo, saved[0].Level)
	assert.Equal(t, r.Key, saved[0].Key)
	assert.Equal(t, notify.LevelError, saved[1].Level)
	assert.Contains(t, saved[1].Message, "gone")
	assert.False(t, saved[0].CreatedAt.IsZero())
}

func TestHistorySink_StoreErrorIsLogged(t *testing.T) {
	tb := testbus.New(t)
	var logs bytes.Buffer

	store := &fakeNotifyStore{err: errors.New("read-only")}
	NewHistorySink(store, zerolog.New(&logs)).Register(context.Background(), tb.EventBus)

	tb.PublishNotificationPublished(eventbus.NotificationPublishedPayload{Level: notify.LevelInfo, Message: "hi"})

	assert.Eventually(t, func() bool {
		return bytes.Contains(logs.Bytes(), []byte("failed to record notification"))
	}, time.Second, 5*time.Millisecond)
}

func TestHistorySink_SQLite(t *testing.T) {
	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	tb := testbus.New(t)
	store := stores.NewNotifyStore(database)
	NewHistorySink(store, zerolog.Nop()).Register(context.Background(), tb.EventBus)

	tb.PublishNotificationPublished(eventbus.NotificationPublishedPayload{
		Level:   notify.LevelInfo,
		Message: "Reminder: Renew badge",
		Key:     "2024-05-01-14:30-Renew badge",
	})

	require.Eventually(t, func() bool {
		n, err := store.Count(context.Background())
		return err == nil && n == 1
	}, time.Second, 5*time.Millisecond)

	list, err := store.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "2024-05-01-14:30-Renew badge", list[0].Key)
}
