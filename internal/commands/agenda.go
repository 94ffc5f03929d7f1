package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/hay-kot/mbot/internal/core/document"
	"github.com/hay-kot/mbot/internal/core/styles"
	"github.com/hay-kot/mbot/internal/mbot"
	"github.com/hay-kot/mbot/pkg/iojson"
)

// stdinPath names the document read from standard input.
const stdinPath = "-"

// provider returns the documents a read-only command works on: standard
// input when requested, the configured documents otherwise.
func provider(app *mbot.App, stdin io.Reader, useStdin bool) (document.Provider, error) {
	if !useStdin {
		return app.Documents, nil
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return &document.StaticProvider{Docs: []document.Document{{Path: stdinPath, Content: string(data)}}}, nil
}

// parseAt parses a moment given as "YYYY-MM-DD HH:MM" or "HH:MM" (today) in
// now's location. An empty string yields now.
func parseAt(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return now, nil
	}

	if t, err := time.ParseInLocation("2006-01-02 15:04", s, now.Location()); err == nil {
		return t, nil
	}

	clock, err := time.ParseInLocation("15:04", s, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: want \"YYYY-MM-DD HH:MM\" or \"HH:MM\"", s)
	}
	y, m, d := now.Date()
	return time.Date(y, m, d, clock.Hour(), clock.Minute(), 0, 0, now.Location()), nil
}

// agendaLine is the JSON form of an agenda entry.
type agendaLine struct {
	Key         string      `json:"key"`
	Date        string      `json:"date"`
	Time        string      `json:"time"`
	Description string      `json:"description"`
	Status      mbot.Status `json:"status"`
	Source      string      `json:"source,omitempty"`
	Line        int         `json:"line,omitempty"`
}

func writeAgendaJSON(w io.Writer, entries []mbot.Entry) error {
	for _, e := range entries {
		line := agendaLine{
			Key:         e.Task.Key(),
			Date:        e.Task.Date.String(),
			Time:        e.Task.TimeLabel(),
			Description: e.Task.Description,
			Status:      e.Status,
			Source:      e.Task.Source,
			Line:        e.Task.Line,
		}
		if err := iojson.WriteLine(w, line); err != nil {
			return fmt.Errorf("encode task: %w", err)
		}
	}
	return nil
}

func writeAgendaText(w io.Writer, entries []mbot.Entry) {
	for _, e := range entries {
		icon, style := statusStyle(e.Status)

		source := ""
		if e.Task.Source != "" && e.Task.Source != stdinPath {
			source = "  " + styles.TaskSourceStyle.Render(fmt.Sprintf("%s:%d", e.Task.Source, e.Task.Line))
		}

		_, _ = fmt.Fprintf(w, "%s %s %-7s %s %s%s\n",
			style.Render(icon),
			e.Task.Date,
			e.Task.TimeLabel(),
			style.Render(fmt.Sprintf("%-8s", e.Status)),
			style.Render(e.Task.Description),
			source,
		)
	}
}

func statusStyle(s mbot.Status) (string, lipgloss.Style) {
	switch s {
	case mbot.StatusDone:
		return styles.IconPass, styles.TaskDoneStyle
	case mbot.StatusDue:
		return styles.IconDue, styles.TaskDueStyle
	case mbot.StatusMissed:
		return styles.IconFail, styles.TaskMissedStyle
	default:
		return styles.IconPending, styles.TaskPendingStyle
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}
