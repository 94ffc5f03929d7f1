package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/mbot/internal/core/reminder"
	"github.com/hay-kot/mbot/internal/mbot"
	"github.com/hay-kot/mbot/internal/printer"
	"github.com/hay-kot/mbot/pkg/iojson"
)

type DueCmd struct {
	flags *Flags
	app   *mbot.App

	at     string
	format string
	stdin  bool
}

// NewDueCmd creates a new due command
func NewDueCmd(flags *Flags, app *mbot.App) *DueCmd {
	return &DueCmd{flags: flags, app: app}
}

// Register adds the due command to the application
func (cmd *DueCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "due",
		Usage:     "Show the reminders that would fire at a moment",
		UsageText: `mbot due [--at "2024-05-01 14:30"] [--format text|json] [--stdin]`,
		Description: `Evaluates every task at the given moment (default now) and prints the
reminders a running daemon would fire then, in the console format.

This is a dry run: no sink is called and nothing is recorded.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "at",
				Usage:       `moment to evaluate, "YYYY-MM-DD HH:MM" or "HH:MM" today`,
				Destination: &cmd.at,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
			&cli.BoolFlag{
				Name:        "stdin",
				Usage:       "read a single document from standard input",
				Destination: &cmd.stdin,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *DueCmd) run(ctx context.Context, c *cli.Command) error {
	at, err := parseAt(cmd.at, cmd.app.Now())
	if err != nil {
		return err
	}

	p, err := provider(cmd.app, os.Stdin, cmd.stdin)
	if err != nil {
		return err
	}

	tasks, err := mbot.ReadTasks(ctx, p)
	if err != nil {
		return fmt.Errorf("read documents: %w", err)
	}

	reminders := dueReminders(mbot.Agenda(tasks, cmd.flags.Config.Evaluator(), at), at)

	out := c.Root().Writer
	for _, r := range reminders {
		if cmd.format == "json" {
			if err := iojson.WriteLine(out, r); err != nil {
				return fmt.Errorf("encode reminder: %w", err)
			}
			continue
		}
		_, _ = fmt.Fprintln(out, r.String())
	}

	if len(reminders) == 0 && cmd.format != "json" {
		printer.Ctx(ctx).Infof("Nothing due at %s", at.Format("2006-01-02 15:04"))
	}

	return nil
}

// dueReminders builds the reminders for due entries, one per identity key.
func dueReminders(entries []mbot.Entry, at time.Time) []reminder.Reminder {
	seen := make(map[string]bool)
	var out []reminder.Reminder
	for _, e := range entries {
		if e.Status != mbot.StatusDue {
			continue
		}
		key := e.Task.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, reminder.New(e.Task, at))
	}
	return out
}
