package initcmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hay-kot/mbot/internal/core/task"
)

// StarterSchedule returns a sample checklist dated today. The timed example
// is scheduled at the start of the next hour.
func StarterSchedule(now time.Time) string {
	today := task.DateOf(now)
	next := time.Date(now.Year(), now.Month(), now.Day(), now.Hour()+1, 0, 0, 0, now.Location())
	if task.DateOf(next) != today {
		next = now
	}

	var b strings.Builder
	b.WriteString("# Schedule\n\n")
	b.WriteString("Lines in the form `- [ ] YYYY-MM-DD HH:MM : description` fire a reminder at\n")
	b.WriteString("their time. Leave out the time for an all-day reminder. Check a task off\n")
	b.WriteString("with `[x]` to silence it.\n\n")
	fmt.Fprintf(&b, "- [ ] %s %s : Example timed reminder\n", today, next.Format("15:04"))
	fmt.Fprintf(&b, "- [ ] %s : Example all-day reminder\n", today)
	fmt.Fprintf(&b, "- [x] %s 08:00 : Completed tasks never fire\n", today)
	return b.String()
}

// WriteStarter creates a starter schedule at path unless a file already
// exists there. It reports whether a file was written.
func WriteStarter(path string, now time.Time) (bool, error) {
	if FileExists(path) {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("create schedule dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(StarterSchedule(now)), 0o644); err != nil {
		return false, fmt.Errorf("write schedule: %w", err)
	}
	return true, nil
}

// isGlob reports whether a document location is a pattern rather than a file.
func isGlob(location string) bool {
	return strings.ContainsAny(location, "*?[{")
}
