// Package mbot wires the reminder engine: the polling scheduler, the sinks
// that deliver fired reminders and the application container used by the
// CLI.
package mbot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hay-kot/mbot/internal/core/config"
	"github.com/hay-kot/mbot/internal/core/document"
	"github.com/hay-kot/mbot/internal/core/eventbus"
	"github.com/hay-kot/mbot/internal/core/logging"
	"github.com/hay-kot/mbot/internal/core/reminder"
	"github.com/hay-kot/mbot/internal/core/task"
)

// CycleResult summarizes one polling cycle.
type CycleResult struct {
	CycleID   string
	Documents int
	Tasks     int
	// Completed counts tasks skipped because they are checked off.
	Completed int
	// Notified counts incomplete tasks whose reminder was already sent.
	Notified int
	Fired    []reminder.Reminder
	Duration time.Duration
}

// Scheduler runs polling cycles: read every document, parse it, and fire a
// reminder for each incomplete task that is due and not yet notified.
type Scheduler struct {
	provider  document.Provider
	tracker   reminder.Tracker
	evaluator reminder.Evaluator
	bus       *eventbus.EventBus

	now         func() time.Time
	log         zerolog.Logger
	onReadError string
	trigger     chan struct{}
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithClock replaces time.Now as the cycle clock.
func WithClock(now func() time.Time) SchedulerOption {
	return func(s *Scheduler) { s.now = now }
}

// WithLogger sets the scheduler logger.
func WithLogger(l zerolog.Logger) SchedulerOption {
	return func(s *Scheduler) { s.log = l }
}

// WithReadErrorPolicy sets what Run does when a cycle cannot read its
// documents: config.OnReadErrorRetry or config.OnReadErrorAbort.
func WithReadErrorPolicy(policy string) SchedulerOption {
	return func(s *Scheduler) { s.onReadError = policy }
}

// NewScheduler creates a scheduler. bus may be nil, in which case fired
// reminders are only returned from RunCycle.
func NewScheduler(
	provider document.Provider,
	tracker reminder.Tracker,
	evaluator reminder.Evaluator,
	bus *eventbus.EventBus,
	opts ...SchedulerOption,
) *Scheduler {
	s := &Scheduler{
		provider:    provider,
		tracker:     tracker,
		evaluator:   evaluator,
		bus:         bus,
		now:         time.Now,
		log:         zerolog.Nop(),
		onReadError: config.OnReadErrorRetry,
		trigger:     make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Trigger requests an extra cycle from Run. Requests made while one is
// already pending are coalesced.
func (s *Scheduler) Trigger() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// RunCycle performs one read-parse-evaluate-notify pass.
//
// A document that cannot be read fails the whole cycle before any task is
// evaluated; the error wraps document.ErrUnavailable and is published as
// cycle.failed. The tracker lock is held for the full evaluate-and-mark scan,
// so each identity key fires at most once for the life of the tracker. A key
// is marked only after its reminder is enqueued on the bus; when ctx ends
// first the cycle stops and returns ctx's error.
func (s *Scheduler) RunCycle(ctx context.Context) (CycleResult, error) {
	started := time.Now()
	res := CycleResult{CycleID: uuid.NewString()}
	ctx = logging.WithCycleID(ctx, res.CycleID)

	docs, err := s.provider.Read(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, ctxErr
		}
		if !errors.Is(err, document.ErrUnavailable) {
			err = fmt.Errorf("%w: %w", document.ErrUnavailable, err)
		}
		s.log.Error().Ctx(ctx).Err(err).Msg("document unavailable")
		if s.bus != nil {
			s.bus.PublishCycleFailed(eventbus.CycleFailedPayload{CycleID: res.CycleID, Err: err})
		}
		return res, err
	}

	var tasks []task.Task
	for _, doc := range docs {
		parsed, err := task.ParseSource(strings.NewReader(doc.Content), doc.Path)
		if err != nil {
			// Reader errors only; a strings.Reader never fails mid-read.
			return res, fmt.Errorf("parse %s: %w", doc.Path, err)
		}
		s.log.Debug().Ctx(logging.WithSource(ctx, doc.Path)).Int("tasks", len(parsed)).Msg("parsed document")
		tasks = append(tasks, parsed...)
	}
	res.Documents = len(docs)
	res.Tasks = len(tasks)

	now := s.now()

	var publishErr error
	s.tracker.Cycle(func(state reminder.State) {
		for _, t := range tasks {
			if t.Completed {
				res.Completed++
				continue
			}

			key := t.Key()
			if state.IsNotified(key) {
				res.Notified++
				continue
			}

			if !s.evaluator.Due(now, t) {
				continue
			}

			r := reminder.New(t, now)
			if s.bus != nil {
				// Unsent reminders stay unmarked and fire on a later cycle.
				if err := s.bus.PublishReminderFired(ctx, eventbus.ReminderFiredPayload{Reminder: r}); err != nil {
					publishErr = err
					return
				}
			}
			state.MarkNotified(key, t.Date)
			res.Fired = append(res.Fired, r)
		}
	})

	if publishErr != nil {
		s.log.Warn().Ctx(ctx).Err(publishErr).Int("fired", len(res.Fired)).Msg("cycle interrupted before all reminders were sent")
		return res, publishErr
	}

	res.Duration = time.Since(started)

	if s.bus != nil {
		s.bus.PublishCycleCompleted(eventbus.CycleCompletedPayload{
			CycleID:  res.CycleID,
			Tasks:    res.Tasks,
			Fired:    len(res.Fired),
			Duration: res.Duration,
		})
	}

	s.log.Debug().Ctx(ctx).
		Int("documents", res.Documents).
		Int("tasks", res.Tasks).
		Int("fired", len(res.Fired)).
		Dur("took", res.Duration).
		Msg("cycle complete")

	return res, nil
}

// Run executes a cycle immediately, then on every interval tick and on every
// Trigger, until ctx is cancelled. Cycles never overlap. A failed cycle is
// logged and retried on the next tick unless the read error policy is abort,
// in which case Run returns the error.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.Info().Dur("interval", interval).Msg("scheduler started")
	defer func() { s.log.Info().Msg("scheduler stopped") }()

	if err := s.cycle(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		case <-s.trigger:
			s.log.Debug().Msg("cycle triggered")
		}

		if err := s.cycle(ctx); err != nil {
			return err
		}
	}
}

func (s *Scheduler) cycle(ctx context.Context) error {
	_, err := s.RunCycle(ctx)
	if err == nil || ctx.Err() != nil {
		return nil
	}
	if s.onReadError == config.OnReadErrorAbort {
		return fmt.Errorf("reminder cycle: %w", err)
	}
	return nil
}
