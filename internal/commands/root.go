package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/mbot/internal/mbot"
)

// RootDescription is the long help text of the mbot root command.
const RootDescription = `mbot watches markdown checklist documents and fires a reminder when an
unchecked task's scheduled moment arrives.

Tasks are lines of the form:

  - [ ] 2024-05-01 14:30 : Renew badge
  - [ ] 2024-05-01 : Water plants

Run 'mbot' with no arguments to start watching.
Run 'mbot init' to create a configuration.`

// GlobalFlags returns the root flags bound to flags.
func GlobalFlags(flags *Flags) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error, fatal, panic)",
			Sources:     cli.EnvVars("MBOT_LOG_LEVEL"),
			Value:       "info",
			Destination: &flags.LogLevel,
		},
		&cli.StringFlag{
			Name:        "log-file",
			Usage:       "append JSON logs to this file instead of stderr",
			Sources:     cli.EnvVars("MBOT_LOG_FILE"),
			Destination: &flags.LogFile,
		},
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "path to config file",
			Sources:     cli.EnvVars("MBOT_CONFIG"),
			Value:       DefaultConfigPath(),
			Destination: &flags.ConfigPath,
		},
		&cli.StringFlag{
			Name:        "data-dir",
			Usage:       "path to data directory",
			Sources:     cli.EnvVars("MBOT_DATA_DIR"),
			Value:       DefaultDataDir(),
			Destination: &flags.DataDir,
		},
	}
}

// RegisterAll adds every subcommand to root, registers the run flags on the
// root and makes run the default action.
func RegisterAll(root *cli.Command, flags *Flags, app *mbot.App) *cli.Command {
	runCmd := NewRunCmd(flags, app)

	root = runCmd.Register(root)
	root = NewListCmd(flags, app).Register(root)
	root = NewDueCmd(flags, app).Register(root)
	root = NewShowCmd(flags, app).Register(root)
	root = NewHistoryCmd(flags, app).Register(root)
	root = NewDoctorCmd(flags, app).Register(root)
	root = NewConfigCmd(flags).Register(root)
	root = NewInitCmd(flags).Register(root)

	root.Flags = append(root.Flags, runCmd.Flags()...)

	root.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'mbot --help' for usage", c.Args().First())
		}
		return runCmd.Run(ctx, c)
	}

	return root
}
