package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/mbot/internal/core/notify"
	"github.com/hay-kot/mbot/internal/core/styles"
	"github.com/hay-kot/mbot/internal/mbot"
	"github.com/hay-kot/mbot/internal/printer"
	"github.com/hay-kot/mbot/pkg/iojson"
)

var errHistoryDisabled = errors.New("notification history is disabled (notify.history: false)")

type HistoryCmd struct {
	flags *Flags
	app   *mbot.App

	limit     int
	format    string
	olderThan time.Duration
}

// NewHistoryCmd creates a new history command
func NewHistoryCmd(flags *Flags, app *mbot.App) *HistoryCmd {
	return &HistoryCmd{flags: flags, app: app}
}

// Register adds the history command to the application
func (cmd *HistoryCmd) Register(app *cli.Command) *cli.Command {
	listFlags := func() []cli.Flag {
		return []cli.Flag{
			&cli.IntFlag{
				Name:        "limit",
				Aliases:     []string{"n"},
				Usage:       "maximum entries to show (0 for all)",
				Value:       20,
				Destination: &cmd.limit,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
		}
	}

	app.Commands = append(app.Commands, &cli.Command{
		Name:      "history",
		Usage:     "Inspect the notification history",
		UsageText: "mbot history [command]",
		Description: `Shows reminders and cycle failures recorded by the history sink, newest
first. The history is a log for the operator and is never consulted when
deciding whether to fire a reminder.`,
		Flags:  listFlags(),
		Action: cmd.runList,
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List recorded notifications",
				Flags:  listFlags(),
				Action: cmd.runList,
			},
			{
				Name:   "clear",
				Usage:  "Delete all recorded notifications",
				Action: cmd.runClear,
			},
			{
				Name:      "prune",
				Usage:     "Delete notifications older than a duration",
				UsageText: "mbot history prune --older-than 720h",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:        "older-than",
						Usage:       "age of the oldest entry to keep",
						Value:       30 * 24 * time.Hour,
						Destination: &cmd.olderThan,
					},
				},
				Action: cmd.runPrune,
			},
		},
	})

	return app
}

func (cmd *HistoryCmd) runList(ctx context.Context, c *cli.Command) error {
	if cmd.app.History == nil {
		return errHistoryDisabled
	}

	list, err := cmd.app.History.List(ctx, cmd.limit)
	if err != nil {
		return fmt.Errorf("list notifications: %w", err)
	}

	out := c.Root().Writer

	if cmd.format == "json" {
		for _, n := range list {
			if err := iojson.WriteLine(out, n); err != nil {
				return fmt.Errorf("encode notification: %w", err)
			}
		}
		return nil
	}

	if len(list) == 0 {
		printer.Ctx(ctx).Infof("No notifications recorded")
		return nil
	}

	_, _ = fmt.Fprintln(out, styles.TextForegroundBoldStyle.Render(historyRow("TIME", "LEVEL", "MESSAGE")))
	for _, n := range list {
		row := historyRow(n.CreatedAt.Local().Format("2006-01-02 15:04:05"), string(n.Level), n.Message)
		_, _ = fmt.Fprintln(out, levelStyle(n.Level).Render(row))
	}
	return nil
}

func (cmd *HistoryCmd) runClear(ctx context.Context, _ *cli.Command) error {
	if cmd.app.History == nil {
		return errHistoryDisabled
	}

	count, err := cmd.app.History.Count(ctx)
	if err != nil {
		return fmt.Errorf("count notifications: %w", err)
	}
	if err := cmd.app.History.Clear(ctx); err != nil {
		return fmt.Errorf("clear notifications: %w", err)
	}

	printer.Ctx(ctx).Successf("Cleared %d notification(s)", count)
	return nil
}

func (cmd *HistoryCmd) runPrune(ctx context.Context, _ *cli.Command) error {
	if cmd.app.History == nil {
		return errHistoryDisabled
	}
	if cmd.olderThan <= 0 {
		return fmt.Errorf("--older-than must be positive")
	}

	removed, err := cmd.app.History.PruneBefore(ctx, cmd.app.Now().Add(-cmd.olderThan))
	if err != nil {
		return fmt.Errorf("prune notifications: %w", err)
	}

	p := printer.Ctx(ctx)
	if removed == 0 {
		p.Infof("No notifications older than %s", cmd.olderThan)
		return nil
	}
	p.Successf("Pruned %d notification(s)", removed)
	return nil
}

func historyRow(at, level, msg string) string {
	return fmt.Sprintf("%-19s  %-7s  %s", at, level, msg)
}

func levelStyle(l notify.Level) lipgloss.Style {
	switch l {
	case notify.LevelError:
		return styles.TextErrorStyle
	case notify.LevelWarning:
		return styles.TextWarningStyle
	default:
		return lipgloss.NewStyle()
	}
}
