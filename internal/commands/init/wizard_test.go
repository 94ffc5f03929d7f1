package initcmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/mbot/internal/core/config"
	"github.com/hay-kot/mbot/internal/core/task"
	"github.com/hay-kot/mbot/internal/printer"
)

func fixedNow() time.Time {
	return time.Date(2024, 5, 1, 14, 20, 0, 0, time.Local)
}

func TestWizard_Yes(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "mbot", "config.yaml")

	var out bytes.Buffer
	ctx := printer.NewContext(context.Background(), printer.New(&out))

	w := NewWizard(WizardOptions{ConfigPath: configPath, DataDir: filepath.Join(dir, "data"), Yes: true, Now: fixedNow})
	require.NoError(t, w.Run(ctx))

	cfg, err := config.Load(configPath, filepath.Join(dir, "data"))
	require.NoError(t, err)
	assert.Equal(t, []string{DefaultDocument(configPath)}, cfg.Documents)

	content, err := os.ReadFile(DefaultDocument(configPath))
	require.NoError(t, err)

	tasks := task.Parse(string(content))
	require.Len(t, tasks, 3)
	assert.Equal(t, "15:00", tasks[0].TimeLabel())
	assert.True(t, tasks[2].Completed)

	assert.Contains(t, out.String(), "Created config")
	assert.Contains(t, out.String(), "Init Validation")
}

func TestWizard_ExistingConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("interval: 30s\n"), 0o644))

	ctx := printer.NewContext(context.Background(), printer.New(&bytes.Buffer{}))

	t.Run("refuses without force", func(t *testing.T) {
		w := NewWizard(WizardOptions{ConfigPath: configPath, DataDir: dir, Yes: true, Now: fixedNow})
		assert.ErrorContains(t, w.Run(ctx), "--force")
	})

	t.Run("force backs up", func(t *testing.T) {
		doc := filepath.Join(dir, "work.md")
		w := NewWizard(WizardOptions{ConfigPath: configPath, DataDir: dir, Yes: true, Force: true, Documents: []string{doc}, Now: fixedNow})
		require.NoError(t, w.Run(ctx))

		backup, err := os.ReadFile(configPath + ".bak")
		require.NoError(t, err)
		assert.Equal(t, "interval: 30s\n", string(backup))
		assert.FileExists(t, doc)
	})
}

func TestWizard_BuildConfig(t *testing.T) {
	w := NewWizard(WizardOptions{ConfigPath: "/tmp/mbot/config.yaml", DataDir: "/tmp/data"})

	ans := w.defaults()
	ans.documents = "a.md, notes/**/*.md"
	ans.interval = "30s"
	ans.console = false
	ans.command = `notify-send mbot "{{ .Description }}"`

	cfg, err := w.buildConfig(ans)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.md", "notes/**/*.md"}, cfg.Documents)
	assert.Equal(t, 30*time.Second, cfg.Interval)
	assert.False(t, cfg.Notify.ConsoleEnabled())
	assert.Equal(t, []string{"notify-send", "mbot", "{{ .Description }}"}, cfg.Notify.Command)

	ans.interval = "5m"
	_, err = w.buildConfig(ans)
	assert.ErrorContains(t, err, "interval", "interval wider than the window is rejected")
}

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{in: "notify-send hi", want: []string{"notify-send", "hi"}},
		{in: `say "two words"  end`, want: []string{"say", "two words", "end"}},
		{in: `echo ""`, want: []string{"echo", ""}},
		{in: "", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, splitCommand(tt.in))
		})
	}
}

func TestStarterSchedule_LateEvening(t *testing.T) {
	now := time.Date(2024, 5, 1, 23, 30, 0, 0, time.Local)
	tasks := task.Parse(StarterSchedule(now))
	require.Len(t, tasks, 3)
	assert.Equal(t, task.DateOf(now), tasks[0].Date)
	assert.Equal(t, "23:30", tasks[0].TimeLabel())
}

func TestWriteStarter_KeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule.md")
	require.NoError(t, os.WriteFile(path, []byte("mine"), 0o644))

	created, err := WriteStarter(path, fixedNow())
	require.NoError(t, err)
	assert.False(t, created)

	content, _ := os.ReadFile(path)
	assert.Equal(t, "mine", string(content))
}
