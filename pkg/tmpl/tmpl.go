// Package tmpl renders Go text templates used to build notification commands.
package tmpl

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"
)

// shellQuote returns a shell-safe quoted string. It wraps the string in single
// quotes and escapes any existing single quotes using the '\" technique.
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	// Replace ' with '\'' (end quote, escaped quote, start quote)
	escaped := strings.ReplaceAll(s, "'", `'\''`)
	return "'" + escaped + "'"
}

// truncate shortens s to at most n runes, appending an ellipsis when cut.
func truncate(n int, s string) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

func formatTime(layout string, t time.Time) string {
	return t.Format(layout)
}

var funcs = template.FuncMap{
	"shq":    shellQuote,
	"join":   strings.Join,
	"upper":  strings.ToUpper,
	"lower":  strings.ToLower,
	"trunc":  truncate,
	"format": formatTime,
}

// Render executes a Go template string with the given data.
// Returns an error if the template is invalid or references undefined keys.
//
// Available template functions:
//   - shq: Shell-quote a string for safe use in shell commands
//   - join: Join string slice with separator (e.g., join .Args " ")
//   - upper, lower: Change case
//   - trunc: Truncate to n runes (e.g., trunc 20 .Description)
//   - format: Format a time with a Go layout (e.g., format "15:04" .FiredAt)
func Render(tmpl string, data any) (string, error) {
	t, err := template.New("").Funcs(funcs).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}

	return buf.String(), nil
}

// RenderArgs renders each element of args against data. The first failing
// element is reported with its index.
func RenderArgs(args []string, data any) ([]string, error) {
	out := make([]string, 0, len(args))
	for i, a := range args {
		s, err := Render(a, data)
		if err != nil {
			return nil, fmt.Errorf("arg %d: %w", i, err)
		}
		out = append(out, s)
	}
	return out, nil
}
