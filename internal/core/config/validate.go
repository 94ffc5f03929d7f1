package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"

	"github.com/hay-kot/mbot/internal/core/reminder"
	"github.com/hay-kot/mbot/internal/core/styles"
	"github.com/hay-kot/mbot/internal/core/task"
	"github.com/hay-kot/mbot/pkg/tmpl"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// Validate checks that the configuration is structurally valid.
func (c *Config) Validate() error {
	var errs criterio.FieldErrorsBuilder

	if c.DataDir == "" {
		errs = errs.Append("data_dir", fmt.Errorf("data directory cannot be empty"))
	}

	if len(c.Documents) == 0 {
		errs = errs.Append("documents", fmt.Errorf("at least one document location is required"))
	}
	for i, doc := range c.Documents {
		field := fmt.Sprintf("documents[%d]", i)
		if strings.TrimSpace(doc) == "" {
			errs = errs.Append(field, fmt.Errorf("location cannot be empty"))
			continue
		}
		if !doublestar.ValidatePathPattern(doc) {
			errs = errs.Append(field, fmt.Errorf("invalid glob pattern %q", doc))
		}
	}

	if c.Interval <= 0 {
		errs = errs.Append("interval", fmt.Errorf("must be positive"))
	}
	if c.Window <= 0 {
		errs = errs.Append("window", fmt.Errorf("must be positive"))
	}
	// A tick interval wider than the window can step over a task's whole
	// acceptance window.
	if c.Interval > 0 && c.Window > 0 && c.Interval > c.Window {
		errs = errs.Append("interval", fmt.Errorf("interval %s exceeds window %s; reminders would be missed", c.Interval, c.Window))
	}

	if !c.AllDayAt.Valid() {
		errs = errs.Append("all_day_at", fmt.Errorf("invalid time of day %s", c.AllDayAt))
	}

	switch c.OnReadError {
	case OnReadErrorRetry, OnReadErrorAbort:
	default:
		errs = errs.Append("on_read_error", fmt.Errorf("must be %q or %q, got %q", OnReadErrorRetry, OnReadErrorAbort, c.OnReadError))
	}

	if _, ok := styles.GetPalette(c.Theme); !ok {
		errs = errs.Append("theme", fmt.Errorf("unknown theme %q (available: %s)", c.Theme, strings.Join(styles.ThemeNames(), ", ")))
	}

	if c.Tracker.RetainDays < 0 {
		errs = errs.Append("tracker.retain_days", fmt.Errorf("cannot be negative"))
	}
	if c.Tracker.RetainDays > 0 && c.Tracker.SweepInterval <= 0 {
		errs = errs.Append("tracker.sweep_interval", fmt.Errorf("must be positive when retain_days is set"))
	}

	if c.Notify.CommandTimeout < 0 {
		errs = errs.Append("notify.command_timeout", fmt.Errorf("cannot be negative"))
	}
	for i, arg := range c.Notify.Command {
		if err := validateTemplate(arg); err != nil {
			errs = errs.Append(fmt.Sprintf("notify.command[%d]", i), fmt.Errorf("template error: %w", err))
		}
	}

	return errs.ToError()
}

// ValidateDeep performs Validate plus checks that touch the filesystem.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.Window > reminder.DefaultWindow && c.Window >= 2*c.Interval {
		warnings = append(warnings, ValidationWarning{
			Category: "Schedule",
			Item:     "window",
			Message:  fmt.Sprintf("window %s is much wider than interval %s; reminders may fire up to %s late", c.Window, c.Interval, c.Window),
		})
	}

	if len(c.Notify.Command) > 0 && c.Notify.CommandTimeout == 0 {
		warnings = append(warnings, ValidationWarning{
			Category: "Notify",
			Item:     "command_timeout",
			Message:  "notify command has no timeout",
		})
	}

	if !c.Notify.ConsoleEnabled() && !c.Notify.HistoryEnabled() && len(c.Notify.Command) == 0 {
		warnings = append(warnings, ValidationWarning{
			Category: "Notify",
			Message:  "console, history and command sinks are all disabled; reminders only reach the log",
		})
	}

	return warnings
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}

// sampleReminder is the data used to check command templates. Only parse and
// missing-key errors matter; the output is discarded.
var sampleReminder = reminder.Reminder{
	Key:         "2024-05-01-14:30-Renew badge",
	Description: "Renew badge",
	Date:        task.Date{Year: 2024, Month: 5, Day: 1},
	Time:        "14:30",
	Source:      "schedule.md",
	FiredAt:     time.Date(2024, 5, 1, 14, 30, 0, 0, time.UTC),
}

// validateTemplate renders a command template against a sample reminder so
// that unknown fields are caught at load time.
func validateTemplate(s string) error {
	_, err := tmpl.Render(s, sampleReminder)
	return err
}
