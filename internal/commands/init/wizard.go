// Package initcmd implements the first-run setup wizard.
package initcmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/hay-kot/mbot/internal/core/config"
	"github.com/hay-kot/mbot/internal/core/doctor"
	"github.com/hay-kot/mbot/internal/core/styles"
	"github.com/hay-kot/mbot/internal/printer"
)

// WizardOptions configures the wizard behavior.
type WizardOptions struct {
	ConfigPath string
	DataDir    string
	Yes        bool     // skip prompts, use defaults
	Force      bool     // overwrite existing config
	Documents  []string // pre-specified document locations (nil = default)
	Now        func() time.Time
}

// Wizard orchestrates the init process.
type Wizard struct {
	opts WizardOptions
}

// NewWizard creates a new init wizard.
func NewWizard(opts WizardOptions) *Wizard {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Wizard{opts: opts}
}

// answers holds the values collected from the user.
type answers struct {
	documents string
	interval  string
	console   bool
	command   string
	theme     string
	starter   bool
}

// DefaultDocument is the schedule created next to the config file.
func DefaultDocument(configPath string) string {
	return filepath.Join(filepath.Dir(configPath), "schedule.md")
}

// Run executes the wizard.
func (w *Wizard) Run(ctx context.Context) error {
	p := printer.Ctx(ctx)

	if FileExists(w.opts.ConfigPath) && !w.opts.Force {
		if w.opts.Yes {
			return fmt.Errorf("config exists at %s; use --force to overwrite", w.opts.ConfigPath)
		}

		var overwrite bool
		err := huh.NewConfirm().
			Title("Config file already exists").
			Description(w.opts.ConfigPath + "\nOverwrite? (a backup will be created)").
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			p.Infof("Init cancelled")
			return nil
		}
	}

	ans := w.defaults()
	if !w.opts.Yes {
		if err := w.promptUser(&ans); err != nil {
			return err
		}
	}

	cfg, err := w.buildConfig(ans)
	if err != nil {
		return err
	}

	if backupPath, err := BackupFile(w.opts.ConfigPath); err != nil {
		return fmt.Errorf("backup config: %w", err)
	} else if backupPath != "" {
		p.Successf("Backed up config to: %s", backupPath)
	}

	if err := cfg.Write(w.opts.ConfigPath); err != nil {
		return err
	}
	p.Successf("Created config: %s", w.opts.ConfigPath)

	if ans.starter {
		for _, doc := range cfg.Documents {
			if isGlob(doc) {
				continue
			}
			created, err := WriteStarter(expandHome(doc), w.opts.Now())
			if err != nil {
				p.Warnf("Failed to create %s: %v", doc, err)
				continue
			}
			if created {
				p.Successf("Created starter schedule: %s", doc)
			}
		}
	}

	p.Printf("")
	result := NewInitCheck(w.opts.ConfigPath, cfg).Run(ctx)

	p.Section(result.Name)
	for _, item := range result.Items {
		switch item.Status {
		case doctor.StatusPass:
			p.CheckItem(item.Label, item.Detail)
		case doctor.StatusWarn:
			p.WarnItem(item.Label, item.Detail)
		case doctor.StatusFail:
			p.FailItem(item.Label, item.Detail)
		}
	}

	w.printNextSteps(p)

	return nil
}

func (w *Wizard) defaults() answers {
	docs := w.opts.Documents
	if len(docs) == 0 {
		docs = []string{DefaultDocument(w.opts.ConfigPath)}
	}

	def := config.DefaultConfig()
	return answers{
		documents: strings.Join(docs, ", "),
		interval:  def.Interval.String(),
		console:   true,
		theme:     def.Theme,
		starter:   true,
	}
}

func (w *Wizard) promptUser(ans *answers) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Checklist documents").
				Description("Comma-separated paths or globs, e.g. ~/notes/**/*.md").
				Value(&ans.documents).
				Validate(func(s string) error {
					if len(splitList(s)) == 0 {
						return fmt.Errorf("at least one document is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Polling interval").
				Description("How often documents are re-read; must not exceed one minute").
				Value(&ans.interval).
				Validate(func(s string) error {
					_, err := time.ParseDuration(s)
					return err
				}),
			huh.NewConfirm().
				Title("Create a starter schedule?").
				Description("Written only where no file exists yet").
				Value(&ans.starter),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Print reminders to the terminal?").
				Value(&ans.console),
			huh.NewInput().
				Title("Notify command (optional)").
				Description(`Run per reminder; arguments are templates, e.g. notify-send mbot "{{ .Description }}"`).
				Value(&ans.command),
			huh.NewSelect[string]().
				Title("Theme").
				Options(huh.NewOptions(styles.ThemeNames()...)...).
				Value(&ans.theme),
		),
	)

	return form.Run()
}

func (w *Wizard) buildConfig(ans answers) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.DataDir = w.opts.DataDir
	cfg.Theme = ans.theme

	cfg.Documents = nil
	for _, doc := range splitList(ans.documents) {
		cfg.Documents = append(cfg.Documents, expandHome(doc))
	}

	interval, err := time.ParseDuration(ans.interval)
	if err != nil {
		return nil, fmt.Errorf("invalid interval %q: %w", ans.interval, err)
	}
	cfg.Interval = interval

	if !ans.console {
		off := false
		cfg.Notify.Console = &off
	}
	if cmd := strings.TrimSpace(ans.command); cmd != "" {
		cfg.Notify.Command = splitCommand(cmd)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid answers: %w", err)
	}
	return &cfg, nil
}

func (w *Wizard) printNextSteps(p *printer.Printer) {
	p.Printf("")
	p.Section("Next Steps")
	p.Printf("  1. Add tasks to your schedule: - [ ] YYYY-MM-DD HH:MM : description")
	p.Printf("  2. Run 'mbot list' to preview what will fire")
	p.Printf("  3. Run 'mbot run' to start watching")
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// splitCommand splits a command line on whitespace, keeping double-quoted
// sections together.
func splitCommand(s string) []string {
	var (
		args    []string
		cur     strings.Builder
		quoted  bool
		pending bool
	)
	for _, r := range s {
		switch {
		case r == '"':
			quoted = !quoted
			pending = true
		case (r == ' ' || r == '\t') && !quoted:
			if pending {
				args = append(args, cur.String())
				cur.Reset()
				pending = false
			}
		default:
			cur.WriteRune(r)
			pending = true
		}
	}
	if pending {
		args = append(args, cur.String())
	}
	return args
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}
