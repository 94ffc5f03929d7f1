// Package printer writes human-oriented command output. Commands obtain the
// printer from their context so tests can capture output.
package printer

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/hay-kot/mbot/internal/core/styles"
)

type ctxKey struct{}

// Printer writes styled status lines.
type Printer struct {
	w io.Writer
}

// New creates a printer writing to w.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// NewContext returns a context carrying p.
func NewContext(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Ctx returns the printer stored in ctx, or one writing to stderr.
func Ctx(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return New(os.Stderr)
}

// Printf writes an unstyled line.
func (p *Printer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *Printer) Infof(format string, args ...any) {
	p.line(styles.TextPrimaryBoldStyle.Render("•"), format, args...)
}

func (p *Printer) Successf(format string, args ...any) {
	p.line(styles.TextSuccessStyle.Render(styles.IconPass), format, args...)
}

func (p *Printer) Warnf(format string, args ...any) {
	p.line(styles.TextWarningStyle.Render(styles.IconWarn), format, args...)
}

func (p *Printer) Errorf(format string, args ...any) {
	p.line(styles.TextErrorStyle.Render(styles.IconFail), format, args...)
}

// Section writes a bold heading.
func (p *Printer) Section(title string) {
	_, _ = fmt.Fprintln(p.w, styles.TextForegroundBoldStyle.Render(title))
}

// CheckItem, WarnItem and FailItem write an indented check result with an
// optional muted detail.
func (p *Printer) CheckItem(label, detail string) {
	p.item(styles.TextSuccessStyle.Render(styles.IconPass), label, detail)
}

func (p *Printer) WarnItem(label, detail string) {
	p.item(styles.TextWarningStyle.Render(styles.IconWarn), label, detail)
}

func (p *Printer) FailItem(label, detail string) {
	p.item(styles.TextErrorStyle.Render(styles.IconFail), label, detail)
}

func (p *Printer) line(icon, format string, args ...any) {
	_, _ = fmt.Fprintf(p.w, "%s %s\n", icon, fmt.Sprintf(format, args...))
}

func (p *Printer) item(icon, label, detail string) {
	if detail != "" {
		detail = " " + styles.TextMutedStyle.Render(detail)
	}
	_, _ = fmt.Fprintf(p.w, "  %s %s%s\n", icon, label, detail)
}
