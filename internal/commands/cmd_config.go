package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/hay-kot/mbot/internal/core/config"
	"github.com/hay-kot/mbot/internal/printer"
	"github.com/hay-kot/mbot/pkg/iojson"
)

type ConfigCmd struct {
	flags  *Flags
	format string
}

// NewConfigCmd creates a new config command.
func NewConfigCmd(flags *Flags) *ConfigCmd {
	return &ConfigCmd{flags: flags}
}

// Register adds the config commands to the application.
func (cmd *ConfigCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "mbot config validate [options]",
				Description: "Validates the configuration file, checking durations, document globs, command templates and file paths.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.runValidate,
			},
			{
				Name:        "show",
				Usage:       "Print the effective configuration",
				UsageText:   "mbot config show",
				Description: "Prints the configuration after defaults are applied, as YAML.",
				Action:      cmd.runShow,
			},
		},
	})

	return app
}

// validationError is the JSON form of a field error.
type validationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (cmd *ConfigCmd) runValidate(ctx context.Context, c *cli.Command) error {
	cfg := cmd.flags.Config
	err := cfg.ValidateDeep(cmd.flags.ConfigPath)
	errs := fieldErrors(err)
	warnings := cfg.Warnings()

	if cmd.format == "json" {
		out := struct {
			Valid    bool                       `json:"valid"`
			Errors   []validationError          `json:"errors,omitempty"`
			Warnings []config.ValidationWarning `json:"warnings,omitempty"`
		}{
			Valid:    err == nil,
			Errors:   errs,
			Warnings: warnings,
		}
		return iojson.WriteWith(c.Root().Writer, os.Stderr, out)
	}

	p := printer.Ctx(ctx)

	for _, warn := range warnings {
		p.Warnf("%s: %s", warn.Category, warn.Message)
		if warn.Item != "" {
			p.Printf("  Item: %s", warn.Item)
		}
	}

	for _, e := range errs {
		p.Errorf("%s: %s", e.Field, e.Message)
	}

	p.Printf("")
	if err == nil {
		p.Successf("Configuration is valid")
		return nil
	}

	p.Errorf("%d error(s) found", len(errs))
	return cli.Exit("", 1)
}

func (cmd *ConfigCmd) runShow(_ context.Context, c *cli.Command) error {
	data, err := yaml.Marshal(cmd.flags.Config)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	_, err = c.Root().Writer.Write(data)
	return err
}

// fieldErrors flattens a validation error into per-field entries.
func fieldErrors(err error) []validationError {
	if err == nil {
		return nil
	}

	var fe criterio.FieldErrors
	if !errors.As(err, &fe) {
		return []validationError{{Field: "config", Message: err.Error()}}
	}

	out := make([]validationError, 0, len(fe))
	for _, e := range fe {
		out = append(out, validationError{Field: e.Field, Message: e.Err.Error()})
	}
	return out
}
