package mbot

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/mbot/internal/core/eventbus"
	"github.com/hay-kot/mbot/internal/core/notify"
	"github.com/hay-kot/mbot/internal/core/reminder"
	"github.com/hay-kot/mbot/internal/data/stores"
	"github.com/hay-kot/mbot/pkg/executil"
	"github.com/hay-kot/mbot/pkg/tmpl"
)

// Sink delivers fired reminders somewhere.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, r reminder.Reminder) error
}

// AttachSinks subscribes sinks to reminder.fired. Sinks run in order on the
// bus dispatch goroutine; a failing sink is logged and does not affect the
// others or the notified set.
func AttachSinks(ctx context.Context, bus *eventbus.EventBus, log zerolog.Logger, sinks ...Sink) {
	bus.SubscribeReminderFired(func(p eventbus.ReminderFiredPayload) {
		for _, s := range sinks {
			if err := s.Deliver(ctx, p.Reminder); err != nil {
				log.Warn().
					Err(err).
					Str("sink", s.Name()).
					Str("key", p.Reminder.Key).
					Msg("sink failed")
			}
		}
	})
}

// LogSink writes each reminder as a structured log record.
type LogSink struct {
	log zerolog.Logger
}

// NewLogSink creates a log sink.
func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Deliver(_ context.Context, r reminder.Reminder) error {
	s.log.Info().
		Str("description", r.Description).
		Stringer("date", r.Date).
		Str("time", r.Time).
		Str("source", r.Source).
		Time("fired_at", r.FiredAt).
		Msg("reminder")
	return nil
}

// ConsoleSink prints the reminder line to a writer, normally stdout.
type ConsoleSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsoleSink creates a console sink writing to w.
func NewConsoleSink(w io.Writer) *ConsoleSink {
	return &ConsoleSink{w: w}
}

func (s *ConsoleSink) Name() string { return "console" }

func (s *ConsoleSink) Deliver(_ context.Context, r reminder.Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fmt.Fprintln(s.w, r.String())
	return err
}

// CommandSink runs an external command per reminder. Each argv element is a
// template rendered against the reminder; the reminder fields are also
// exported as MBOT_REMINDER_* environment variables.
type CommandSink struct {
	exec    executil.Executor
	argv    []string
	timeout time.Duration
}

// NewCommandSink creates a command sink. A zero timeout means none.
func NewCommandSink(exec executil.Executor, argv []string, timeout time.Duration) *CommandSink {
	return &CommandSink{exec: exec, argv: argv, timeout: timeout}
}

func (s *CommandSink) Name() string { return "command" }

func (s *CommandSink) Deliver(ctx context.Context, r reminder.Reminder) error {
	if len(s.argv) == 0 {
		return nil
	}

	args, err := tmpl.RenderArgs(s.argv, r)
	if err != nil {
		return fmt.Errorf("render command: %w", err)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	env := []string{
		"MBOT_REMINDER_KEY=" + r.Key,
		"MBOT_REMINDER_DESCRIPTION=" + r.Description,
		"MBOT_REMINDER_DATE=" + r.Date.String(),
		"MBOT_REMINDER_TIME=" + r.Time,
		"MBOT_REMINDER_SOURCE=" + r.Source,
	}

	if _, err := s.exec.Run(ctx, env, args[0], args[1:]...); err != nil {
		return err
	}
	return nil
}

// HistorySink records published notifications in the history store. It
// listens to notification.published rather than reminder.fired so cycle
// failures are kept alongside reminders.
type HistorySink struct {
	store notify.Store
	log   zerolog.Logger
	now   func() time.Time
}

// NewHistorySink creates a history sink.
func NewHistorySink(store notify.Store, log zerolog.Logger) *HistorySink {
	return &HistorySink{store: store, log: log, now: time.Now}
}

// Register subscribes the sink to the bus.
func (s *HistorySink) Register(ctx context.Context, bus *eventbus.EventBus) {
	bus.SubscribeNotificationPublished(func(p eventbus.NotificationPublishedPayload) {
		n := notify.Notification{
			Level:     p.Level,
			Message:   p.Message,
			Key:       p.Key,
			CreatedAt: s.now(),
		}
		if err := s.save(ctx, n); err != nil {
			s.log.Warn().Err(err).Str("key", p.Key).Msg("failed to record notification")
		}
	})
}

func (s *HistorySink) save(ctx context.Context, n notify.Notification) error {
	_, err := s.store.Save(ctx, n)
	if err != nil && stores.IsBusyError(err) {
		// One retry after the busy timeout expired under a concurrent writer.
		time.Sleep(50 * time.Millisecond)
		_, err = s.store.Save(ctx, n)
	}
	return err
}
