package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/mbot/internal/core/styles"
	"github.com/hay-kot/mbot/internal/core/task"
	"github.com/hay-kot/mbot/internal/mbot"
	"github.com/hay-kot/mbot/internal/printer"
)

type ListCmd struct {
	flags *Flags
	app   *mbot.App

	format  string
	pending bool
	stdin   bool
}

// NewListCmd creates a new list command
func NewListCmd(flags *Flags, app *mbot.App) *ListCmd {
	return &ListCmd{flags: flags, app: app}
}

// Register adds the list command to the application
func (cmd *ListCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "list",
		Aliases:   []string{"ls"},
		Usage:     "List checklist tasks and their status",
		UsageText: "mbot list [--pending] [--format text|json] [--stdin]",
		Description: `Parses the configured documents and shows every task ordered by its
scheduled moment, marked done, due, missed or upcoming.

Listing never fires reminders. Use --format json for one JSON object per line.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
			&cli.BoolFlag{
				Name:        "pending",
				Usage:       "hide completed tasks",
				Destination: &cmd.pending,
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

func (cmd *ListCmd) run(ctx context.Context, c *cli.Command) error {
	p, err := provider(cmd.app, os.Stdin, cmd.stdin)
	if err != nil {
		return err
	}

	tasks, err := mbot.ReadTasks(ctx, p)
	if err != nil {
		return fmt.Errorf("read documents: %w", err)
	}

	entries := mbot.Agenda(tasks, cmd.flags.Config.Evaluator(), cmd.app.Now())
	if cmd.pending {
		entries = pendingOnly(entries)
	}

	out := c.Root().Writer

	if cmd.format == "json" {
		return writeAgendaJSON(out, entries)
	}

	if len(entries) == 0 {
		printer.Ctx(ctx).Infof("No tasks found")
		return nil
	}

	writeAgendaText(out, entries)

	sum := task.Summarize(tasks)
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, styles.TextMutedStyle.Render(
		fmt.Sprintf("%d tasks, %d done, %d timed, %d all-day", sum.Total, sum.Completed, sum.Timed, sum.AllDay),
	))

	return nil
}

func pendingOnly(entries []mbot.Entry) []mbot.Entry {
	out := entries[:0:0]
	for _, e := range entries {
		if e.Status != mbot.StatusDone {
			out = append(out, e)
		}
	}
	return out
}
