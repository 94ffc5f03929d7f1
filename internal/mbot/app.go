package mbot

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/mbot/internal/core/config"
	"github.com/hay-kot/mbot/internal/core/document"
	"github.com/hay-kot/mbot/internal/core/eventbus"
	"github.com/hay-kot/mbot/internal/core/logging"
	"github.com/hay-kot/mbot/internal/core/reminder"
	"github.com/hay-kot/mbot/internal/data/db"
	"github.com/hay-kot/mbot/internal/data/stores"
	"github.com/hay-kot/mbot/pkg/executil"
)

// busBuffer bounds the number of undelivered events. Reminders are rare, so
// a full buffer means a sink is stuck.
const busBuffer = 256

// App is the central entry point for mbot operations.
// Commands consume App instead of cherry-picking raw dependencies.
type App struct {
	Config    *config.Config
	Bus       *eventbus.EventBus
	Tracker   *reminder.MemoryTracker
	Documents *document.FileProvider
	Scheduler *Scheduler
	Doctor    *DoctorService
	DB        *db.DB
	// History is nil when the history sink is disabled.
	History *stores.NotifyStore
	// Now is the clock shared by the scheduler and read-only views.
	Now func() time.Time

	log zerolog.Logger
}

// Options carries the process-level dependencies of an App.
type Options struct {
	Stdout   io.Writer
	Executor executil.Executor
	Logger   zerolog.Logger
	Now      func() time.Time
}

// NewApp constructs an App from explicit dependencies. database may be nil,
// which disables the history sink.
func NewApp(cfg *config.Config, database *db.DB, opts Options) *App {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Executor == nil {
		opts.Executor = &executil.RealExecutor{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	var (
		bus       = eventbus.New(busBuffer)
		tracker   = reminder.NewMemoryTracker()
		provider  = document.NewFileProvider(cfg.BaseDir, cfg.Documents...)
		evaluator = cfg.Evaluator()
	)

	eventbus.RegisterDebugLogger(bus, logging.ComponentOf(opts.Logger, "eventbus"))
	eventbus.NewNotificationRouter(bus).Register()

	sinks := []Sink{NewLogSink(logging.ComponentOf(opts.Logger, "reminder"))}
	if cfg.Notify.ConsoleEnabled() {
		sinks = append(sinks, NewConsoleSink(opts.Stdout))
	}
	if len(cfg.Notify.Command) > 0 {
		sinks = append(sinks, NewCommandSink(opts.Executor, cfg.Notify.Command, cfg.Notify.CommandTimeout))
	}
	AttachSinks(context.Background(), bus, logging.ComponentOf(opts.Logger, "sink"), sinks...)

	app := &App{
		Config:    cfg,
		Bus:       bus,
		Tracker:   tracker,
		Documents: provider,
		DB:        database,
		Now:       opts.Now,
		log:       opts.Logger,
	}

	if database != nil && cfg.Notify.HistoryEnabled() {
		app.History = stores.NewNotifyStore(database)
		NewHistorySink(app.History, logging.ComponentOf(opts.Logger, "history")).Register(context.Background(), bus)
	}

	app.Scheduler = NewScheduler(provider, tracker, evaluator, bus,
		WithClock(opts.Now),
		WithLogger(logging.ComponentOf(opts.Logger, "scheduler")),
		WithReadErrorPolicy(cfg.OnReadError),
	)
	app.Doctor = NewDoctorService(cfg, provider, database, opts.Now)

	return app
}

// RunOptions controls a daemon run.
type RunOptions struct {
	// Interval overrides the configured polling interval when positive.
	Interval time.Duration
	// Watch triggers an extra cycle when a document changes.
	Watch bool
	// Once runs a single cycle and returns.
	Once bool
}

// Run starts the event bus and the scheduler and blocks until ctx is
// cancelled, the read error policy aborts, or, with Once, one cycle ends.
// Buffered events are delivered to the sinks before Run returns.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	busCtx, stopBus := context.WithCancel(context.Background())
	busDone := make(chan struct{})
	go func() {
		a.Bus.Start(busCtx)
		close(busDone)
	}()
	defer func() {
		stopBus()
		<-busDone
	}()

	if opts.Once {
		_, err := a.Scheduler.RunCycle(ctx)
		return err
	}

	interval := a.Config.Interval
	if opts.Interval > 0 {
		interval = opts.Interval
	}

	runCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
	}()

	if days := a.Config.Tracker.RetainDays; days > 0 {
		sweep := NewSweep(a.Tracker, days, a.Config.Window, a.Bus, logging.ComponentOf(a.log, "sweep"))
		wg.Go(func() { sweep.Start(runCtx, a.Config.Tracker.SweepInterval) })
	}

	if opts.Watch || a.Config.Watch {
		if w := a.startWatcher(runCtx, &wg); w != nil {
			defer func() { _ = w.Close() }()
		}
	}

	return a.Scheduler.Run(runCtx, interval)
}

// startWatcher watches the resolved documents and triggers a cycle on change.
// Failures are logged; polling continues without the watcher.
func (a *App) startWatcher(ctx context.Context, wg *sync.WaitGroup) *document.Watcher {
	paths, err := a.Documents.Resolve()
	if err != nil {
		a.log.Warn().Err(err).Msg("document watch disabled: cannot resolve documents")
		return nil
	}

	w, err := document.NewWatcher(paths, a.log)
	if err != nil {
		a.log.Warn().Err(err).Msg("document watch disabled")
		return nil
	}

	wg.Go(func() { w.Run(ctx) })
	wg.Go(func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-w.Changes():
				a.Scheduler.Trigger()
			}
		}
	})

	return w
}

// AppStatus is a point-in-time snapshot of a running App.
type AppStatus struct {
	Time      time.Time `json:"time"`
	Notified  int       `json:"notified"`
	Documents []string  `json:"documents"`
	Interval  string    `json:"interval"`
	Window    string    `json:"window"`
}

// Status reports the tracker size and the resolved documents. A resolve
// failure leaves Documents empty.
func (a *App) Status() AppStatus {
	paths, _ := a.Documents.Resolve()
	return AppStatus{
		Time:      a.Now(),
		Notified:  a.Tracker.Len(),
		Documents: paths,
		Interval:  a.Config.Interval.String(),
		Window:    a.Config.Window.String(),
	}
}
