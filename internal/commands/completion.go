package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/mbot/internal/mbot"
)

// DocumentCompleter suggests resolved document paths that start with the
// argument being typed. A leading "-" falls back to flag completion.
func DocumentCompleter(app *mbot.App) cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		var partial string
		if args := cmd.Args(); args.Present() {
			partial = args.Get(args.Len() - 1)
		}
		if strings.HasPrefix(partial, "-") {
			cli.DefaultCompleteWithFlags(ctx, cmd)
			return
		}

		if app.Documents == nil {
			return
		}
		paths, err := app.Documents.Resolve()
		if err != nil {
			return
		}

		w := cmd.Root().Writer
		for _, p := range paths {
			if strings.HasPrefix(p, partial) {
				_, _ = fmt.Fprintln(w, p)
			}
		}
	}
}
