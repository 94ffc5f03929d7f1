// Package styles provides the shared lipgloss styles for CLI output.
package styles

import (
	glamouransi "github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Style exports. Rebuilt by SetTheme.
var (
	TextPrimaryBoldStyle    lipgloss.Style
	TextForegroundBoldStyle lipgloss.Style
	TextMutedStyle          lipgloss.Style
	TextSuccessStyle        lipgloss.Style
	TextWarningStyle        lipgloss.Style
	TextErrorStyle          lipgloss.Style

	// Task list styles.
	TaskDoneStyle    lipgloss.Style
	TaskDueStyle     lipgloss.Style
	TaskMissedStyle  lipgloss.Style
	TaskPendingStyle lipgloss.Style
	TaskSourceStyle  lipgloss.Style
)

// Status glyphs shared by list and doctor output.
const (
	IconPass    = "✔"
	IconWarn    = "●"
	IconFail    = "✘"
	IconDue     = "⏰"
	IconPending = "○"
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	TextPrimaryBoldStyle = lipgloss.NewStyle().Foreground(p.Primary).Bold(true)
	TextForegroundBoldStyle = lipgloss.NewStyle().Foreground(p.Foreground).Bold(true)
	TextMutedStyle = lipgloss.NewStyle().Foreground(p.Muted)
	TextSuccessStyle = lipgloss.NewStyle().Foreground(p.Success)
	TextWarningStyle = lipgloss.NewStyle().Foreground(p.Warning)
	TextErrorStyle = lipgloss.NewStyle().Foreground(p.Error)

	TaskDoneStyle = lipgloss.NewStyle().Foreground(p.Muted).Strikethrough(true)
	TaskDueStyle = lipgloss.NewStyle().Foreground(p.Warning).Bold(true)
	TaskMissedStyle = lipgloss.NewStyle().Foreground(p.Error)
	TaskPendingStyle = lipgloss.NewStyle().Foreground(p.Foreground)
	TaskSourceStyle = lipgloss.NewStyle().Foreground(p.Secondary).Italic(true)
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}

func hexPtr(c lipgloss.Color) *string {
	if c == "" {
		return nil
	}
	s := string(c)
	return &s
}

// GlamourStyle returns a Glamour style config derived from the active theme.
func GlamourStyle() glamouransi.StyleConfig {
	cfg := glamourstyles.DarkStyleConfig
	p := CurrentPalette

	fg := hexPtr(p.Foreground)
	primary := hexPtr(p.Primary)
	secondary := hexPtr(p.Secondary)
	muted := hexPtr(p.Muted)

	cfg.Document.Color = fg
	cfg.Paragraph.Color = fg

	cfg.Heading.Color = primary
	cfg.H1.Color = fg
	cfg.H1.BackgroundColor = hexPtr(p.Surface)
	cfg.H2.Color = primary
	cfg.H3.Color = primary

	cfg.BlockQuote.Color = muted
	cfg.HorizontalRule.Color = muted

	cfg.Task.Ticked = "[" + IconPass + "] "
	cfg.Task.Unticked = "[ ] "

	cfg.Link.Color = secondary
	cfg.LinkText.Color = secondary
	cfg.Code.Color = secondary

	return cfg
}
