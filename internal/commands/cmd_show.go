package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/hay-kot/mbot/internal/core/document"
	"github.com/hay-kot/mbot/internal/core/styles"
	"github.com/hay-kot/mbot/internal/mbot"
)

// defaultWrap is the render width when stdout is not a terminal.
const defaultWrap = 80

type ShowCmd struct {
	flags *Flags
	app   *mbot.App

	raw bool
}

// NewShowCmd creates a new show command
func NewShowCmd(flags *Flags, app *mbot.App) *ShowCmd {
	return &ShowCmd{flags: flags, app: app}
}

// Register adds the show command to the application
func (cmd *ShowCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "show",
		Usage:     "Render checklist documents as markdown",
		UsageText: "mbot show [--raw] [document...]",
		Description: `Renders the configured documents, or the given paths, as styled markdown
using the configured theme. Use --raw to print the source text.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "raw",
				Usage:       "print documents without rendering",
				Destination: &cmd.raw,
			},
		},
		ShellComplete: DocumentCompleter(cmd.app),
		Action:        cmd.run,
	})

	return app
}

func (cmd *ShowCmd) run(ctx context.Context, c *cli.Command) error {
	var p document.Provider = cmd.app.Documents
	if c.Args().Present() {
		p = document.NewFileProvider("", c.Args().Slice()...)
	}

	docs, err := p.Read(ctx)
	if err != nil {
		return fmt.Errorf("read documents: %w", err)
	}

	out := c.Root().Writer

	if cmd.raw || !isTerminal(os.Stdout) {
		for _, doc := range docs {
			_, _ = fmt.Fprint(out, doc.Content)
		}
		return nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(wrapWidth()),
	)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}

	for _, doc := range docs {
		rendered, err := renderer.Render(doc.Content)
		if err != nil {
			return fmt.Errorf("render %s: %w", doc.Path, err)
		}
		_, _ = fmt.Fprintln(out, styles.TaskSourceStyle.Render(filepath.Base(doc.Path)))
		_, _ = fmt.Fprint(out, rendered)
	}

	return nil
}

func wrapWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return defaultWrap
	}
	return width
}
