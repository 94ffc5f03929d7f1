// Package config handles configuration loading and validation for mbot.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hay-kot/mbot/internal/core/reminder"
	"github.com/hay-kot/mbot/internal/core/styles"
	"github.com/hay-kot/mbot/internal/core/task"
)

// Read error policies.
const (
	OnReadErrorRetry = "retry"
	OnReadErrorAbort = "abort"
)

// Config holds the application configuration.
type Config struct {
	// Documents are checklist locations: plain paths or doublestar globs.
	Documents []string `yaml:"documents"`
	// BaseDir resolves relative document locations. Empty means the working
	// directory.
	BaseDir     string         `yaml:"base_dir,omitempty"`
	Interval    time.Duration  `yaml:"interval"`
	Window      time.Duration  `yaml:"window"`
	AllDayAt    task.Clock     `yaml:"all_day_at"`
	OnReadError string         `yaml:"on_read_error"`
	Watch       bool           `yaml:"watch"`
	Theme       string         `yaml:"theme"`
	Tracker     TrackerConfig  `yaml:"tracker"`
	Notify      NotifyConfig   `yaml:"notify"`
	Database    DatabaseConfig `yaml:"database"`
	DataDir     string         `yaml:"-"` // set by caller, not from config file
}

// TrackerConfig controls the notified set.
type TrackerConfig struct {
	// RetainDays evicts keys whose task date is more than RetainDays in the
	// past. Zero keeps every key for the life of the process.
	RetainDays    int           `yaml:"retain_days"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// NotifyConfig selects the sinks that receive reminders.
// Bool pointers use nil for "default".
type NotifyConfig struct {
	Console        *bool         `yaml:"console,omitempty"`
	History        *bool         `yaml:"history,omitempty"`
	Command        []string      `yaml:"command,omitempty"`
	CommandTimeout time.Duration `yaml:"command_timeout"`
}

// ConsoleEnabled reports whether reminders are printed to stdout. Default true.
func (n NotifyConfig) ConsoleEnabled() bool {
	return n.Console == nil || *n.Console
}

// HistoryEnabled reports whether notifications are stored in the database.
// Default true.
func (n NotifyConfig) HistoryEnabled() bool {
	return n.History == nil || *n.History
}

// DatabaseConfig tunes the SQLite connection used for notification history.
type DatabaseConfig struct {
	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
	BusyTimeout  int `yaml:"busy_timeout"` // milliseconds
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Documents:   []string{filepath.Join("schedules", "schedule.md")},
		Interval:    time.Minute,
		Window:      reminder.DefaultWindow,
		AllDayAt:    reminder.DefaultAllDayAt,
		OnReadError: OnReadErrorRetry,
		Theme:       styles.DefaultTheme,
		Tracker: TrackerConfig{
			SweepInterval: time.Hour,
		},
		Notify: NotifyConfig{
			CommandTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			MaxOpenConns: 4,
			MaxIdleConns: 2,
			BusyTimeout:  5000,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if len(c.Documents) == 0 {
		c.Documents = defaults.Documents
	}
	if c.Interval == 0 {
		c.Interval = defaults.Interval
	}
	if c.Window == 0 {
		c.Window = defaults.Window
	}
	if c.OnReadError == "" {
		c.OnReadError = defaults.OnReadError
	}
	if c.Theme == "" {
		c.Theme = defaults.Theme
	}
	if c.Tracker.SweepInterval == 0 {
		c.Tracker.SweepInterval = defaults.Tracker.SweepInterval
	}
	if c.Notify.CommandTimeout == 0 {
		c.Notify.CommandTimeout = defaults.Notify.CommandTimeout
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = defaults.Database.MaxOpenConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = defaults.Database.MaxIdleConns
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = defaults.Database.BusyTimeout
	}
}

// Evaluator returns the reminder evaluator described by the config.
func (c *Config) Evaluator() reminder.Evaluator {
	return reminder.Evaluator{Window: c.Window, AllDayAt: c.AllDayAt}
}

// Write marshals the config to path, creating parent directories.
func (c *Config) Write(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}
