package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/mbot/internal/core/logging"
	"github.com/hay-kot/mbot/internal/mbot"
	"github.com/hay-kot/mbot/internal/profiler"
)

type RunCmd struct {
	flags *Flags
	app   *mbot.App

	interval time.Duration
	watch    bool
	once     bool

	profilerPort int
}

// NewRunCmd creates a new run command
func NewRunCmd(flags *Flags, app *mbot.App) *RunCmd {
	return &RunCmd{flags: flags, app: app}
}

// Register adds the run command to the application
func (cmd *RunCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "run",
		Usage:     "Watch checklist documents and fire reminders",
		UsageText: "mbot run [--interval 1m] [--watch] [--once]",
		Description: `Polls the configured checklist documents and fires a reminder for every
unchecked task whose scheduled moment has arrived.

Each task fires at most once per process. Reminders are written to the log,
printed to stdout, recorded in the notification history, and passed to the
notify command when one is configured.

Use --once to run a single cycle, for example from cron.`,
		Flags:  cmd.Flags(),
		Action: cmd.Run,
	})

	return app
}

// Flags returns the run flags. Each call builds new flag values so the same
// set can be registered on the root command.
func (cmd *RunCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.DurationFlag{
			Name:        "interval",
			Aliases:     []string{"i"},
			Usage:       "polling interval (overrides config)",
			Sources:     cli.EnvVars("MBOT_INTERVAL"),
			Destination: &cmd.interval,
		},
		&cli.BoolFlag{
			Name:        "watch",
			Aliases:     []string{"w"},
			Usage:       "also run a cycle when a document changes",
			Sources:     cli.EnvVars("MBOT_WATCH"),
			Destination: &cmd.watch,
		},
		&cli.BoolFlag{
			Name:        "once",
			Usage:       "run a single cycle and exit",
			Destination: &cmd.once,
		},
		&cli.IntFlag{
			Name:        "profiler-port",
			Usage:       "serve pprof and /debug/mbot on 127.0.0.1 at this port (e.g., 6060)",
			Sources:     cli.EnvVars("MBOT_PROFILER_PORT"),
			Destination: &cmd.profilerPort,
		},
	}
}

// Run starts the reminder loop until interrupted.
func (cmd *RunCmd) Run(ctx context.Context, _ *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cmd.profilerPort > 0 && !cmd.once {
		profServer := profiler.New(cmd.profilerPort, logging.ComponentOf(log.Logger, "profiler"), func() any {
			return cmd.app.Status()
		})
		if err := profServer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start profiler: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := profServer.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("failed to shutdown profiler server")
			}
		}()
		log.Info().
			Str("url", fmt.Sprintf("http://%s/debug/pprof/", profServer.Addr())).
			Msg("profiler endpoint available")
	}

	return cmd.app.Run(ctx, mbot.RunOptions{
		Interval: cmd.interval,
		Watch:    cmd.watch,
		Once:     cmd.once,
	})
}
