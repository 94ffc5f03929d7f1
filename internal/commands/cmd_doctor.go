package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/mbot/internal/core/doctor"
	"github.com/hay-kot/mbot/internal/core/styles"
	"github.com/hay-kot/mbot/internal/mbot"
	"github.com/hay-kot/mbot/internal/printer"
	"github.com/hay-kot/mbot/pkg/iojson"
)

type DoctorCmd struct {
	flags   *Flags
	app     *mbot.App
	format  string
	autofix bool
}

func NewDoctorCmd(flags *Flags, app *mbot.App) *DoctorCmd {
	return &DoctorCmd{flags: flags, app: app}
}

func (cmd *DoctorCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "doctor",
		Usage:     "Check configuration, documents and schedule",
		UsageText: "mbot doctor [--format text|json] [--autofix]",
		Description: `Runs diagnostic checks on the configuration, the data directory, the notify
command, the checklist documents and the parsed schedule.

Exits with status 1 when any check fails.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
			&cli.BoolFlag{
				Name:        "autofix",
				Usage:       "repair fixable issues (creates a missing data directory)",
				Destination: &cmd.autofix,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *DoctorCmd) run(ctx context.Context, c *cli.Command) error {
	report := cmd.app.Doctor.RunChecks(ctx, cmd.flags.ConfigPath, cmd.autofix)

	switch cmd.format {
	case "json":
		if err := iojson.WriteWith(c.Root().Writer, os.Stderr, report); err != nil {
			return err
		}
	case "text":
		cmd.printReport(printer.Ctx(ctx), report)
	default:
		return fmt.Errorf("unknown format %q (want text or json)", cmd.format)
	}

	if !report.Healthy {
		return cli.Exit("", 1)
	}
	return nil
}

func (cmd *DoctorCmd) printReport(p *printer.Printer, report doctor.Report) {
	p.Printf("")
	p.Section("mbot doctor")
	p.Printf("")

	for _, result := range report.Checks {
		p.Section(result.Name)
		for _, item := range result.Items {
			switch item.Status {
			case doctor.StatusPass:
				p.CheckItem(item.Label, item.Detail)
			case doctor.StatusWarn:
				p.WarnItem(item.Label, item.Detail)
			case doctor.StatusFail:
				p.FailItem(item.Label, item.Detail)
			}
		}
		p.Printf("")
	}

	s := report.Summary
	p.Printf("%s  %s  %s",
		styles.TextSuccessStyle.Render(fmt.Sprintf("%d passed", s.Passed)),
		styles.TextWarningStyle.Render(fmt.Sprintf("%d warnings", s.Warned)),
		styles.TextErrorStyle.Render(fmt.Sprintf("%d failed", s.Failed)),
	)

	if !cmd.autofix && s.Fixable > 0 {
		p.Printf("")
		p.Printf("%s", styles.TextMutedStyle.Render(fmt.Sprintf("Run 'mbot doctor --autofix' to fix %d issue(s)", s.Fixable)))
	}
}
