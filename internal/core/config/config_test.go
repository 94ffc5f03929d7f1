package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/mbot/internal/core/reminder"
	"github.com/hay-kot/mbot/internal/core/task"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	dataDir := t.TempDir()

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), dataDir)
	require.NoError(t, err)

	want := DefaultConfig()
	assert.Equal(t, dataDir, cfg.DataDir)
	assert.Equal(t, want.Documents, cfg.Documents)
	assert.Equal(t, time.Minute, cfg.Interval)
	assert.Equal(t, reminder.DefaultWindow, cfg.Window)
	assert.Equal(t, reminder.DefaultAllDayAt, cfg.AllDayAt)
	assert.Equal(t, OnReadErrorRetry, cfg.OnReadError)
	assert.True(t, cfg.Notify.ConsoleEnabled())
	assert.True(t, cfg.Notify.HistoryEnabled())
	assert.Zero(t, cfg.Tracker.RetainDays)
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Documents, cfg.Documents)
}

func TestLoad_FromYAML(t *testing.T) {
	path := writeConfig(t, `
documents:
  - notes/*.md
  - ~/todo.md
base_dir: /srv/notes
interval: 30s
window: 2m
all_day_at: "08:15"
on_read_error: abort
watch: true
tracker:
  retain_days: 7
notify:
  console: false
  command: ["notify-send", "{{ .Description }}"]
database:
  busy_timeout: 1000
`)

	cfg, err := Load(path, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, []string{"notes/*.md", "~/todo.md"}, cfg.Documents)
	assert.Equal(t, "/srv/notes", cfg.BaseDir)
	assert.Equal(t, 30*time.Second, cfg.Interval)
	assert.Equal(t, 2*time.Minute, cfg.Window)
	assert.Equal(t, task.Clock{Hour: 8, Minute: 15}, cfg.AllDayAt)
	assert.Equal(t, OnReadErrorAbort, cfg.OnReadError)
	assert.True(t, cfg.Watch)
	assert.Equal(t, 7, cfg.Tracker.RetainDays)
	assert.Equal(t, time.Hour, cfg.Tracker.SweepInterval, "unset sweep interval takes the default")
	assert.False(t, cfg.Notify.ConsoleEnabled())
	assert.True(t, cfg.Notify.HistoryEnabled())
	assert.Equal(t, []string{"notify-send", "{{ .Description }}"}, cfg.Notify.Command)
	assert.Equal(t, 10*time.Second, cfg.Notify.CommandTimeout)
	assert.Equal(t, 1000, cfg.Database.BusyTimeout)
	assert.Equal(t, 4, cfg.Database.MaxOpenConns)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed yaml", body: "documents: [unclosed"},
		{name: "bad duration", body: "interval: soon"},
		{name: "bad all day clock", body: `all_day_at: "25:00"`},
		{name: "bad policy", body: "on_read_error: ignore"},
		{name: "interval wider than window", body: "interval: 5m\nwindow: 1m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body), t.TempDir())
			assert.Error(t, err)
		})
	}
}

func TestEvaluator(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Window = 90 * time.Second
	cfg.AllDayAt = task.Clock{Hour: 7, Minute: 0}

	ev := cfg.Evaluator()
	assert.Equal(t, 90*time.Second, ev.Window)
	assert.Equal(t, task.Clock{Hour: 7, Minute: 0}, ev.AllDayAt)
}

func TestWrite_RoundTrip(t *testing.T) {
	dataDir := t.TempDir()
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Documents = []string{"a.md", "b/**/*.md"}
	cfg.AllDayAt = task.Clock{Hour: 6, Minute: 45}
	cfg.Interval = 20 * time.Second
	require.NoError(t, cfg.Write(path))

	got, err := Load(path, dataDir)
	require.NoError(t, err)
	assert.Equal(t, cfg.Documents, got.Documents)
	assert.Equal(t, cfg.AllDayAt, got.AllDayAt)
	assert.Equal(t, cfg.Interval, got.Interval)
	assert.Equal(t, dataDir, got.DataDir)
}
