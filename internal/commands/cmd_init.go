package commands

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	initcmd "github.com/hay-kot/mbot/internal/commands/init"
)

type InitCmd struct {
	flags     *Flags
	yes       bool
	force     bool
	documents []string
}

func NewInitCmd(flags *Flags) *InitCmd {
	return &InitCmd{flags: flags}
}

func (cmd *InitCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "init",
		Usage:     "Initialize mbot configuration with an interactive wizard",
		UsageText: "mbot init [options]",
		Description: `Sets up mbot for first-time use with an interactive wizard.

The wizard will:
  - Generate ~/.config/mbot/config.yaml with sensible defaults
  - Optionally create a starter schedule document
  - Check that the documents and notify command are usable

Use --yes to accept all defaults without prompts. Prompts are skipped
automatically when stdin is not a terminal.
Use --force to overwrite existing configuration.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "accept defaults without prompting",
				Destination: &cmd.yes,
			},
			&cli.BoolFlag{
				Name:        "force",
				Aliases:     []string{"f"},
				Usage:       "overwrite existing configuration",
				Destination: &cmd.force,
			},
			&cli.StringSliceFlag{
				Name:        "documents",
				Aliases:     []string{"d"},
				Usage:       "checklist document paths or globs (repeat or comma-separate)",
				Destination: &cmd.documents,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *InitCmd) run(ctx context.Context, _ *cli.Command) error {
	wizard := initcmd.NewWizard(initcmd.WizardOptions{
		ConfigPath: cmd.flags.ConfigPath,
		DataDir:    cmd.flags.DataDir,
		Yes:        cmd.yes || !isTerminal(os.Stdin),
		Force:      cmd.force,
		Documents:  cmd.documents,
	})
	return wizard.Run(ctx)
}
