// Package executil runs external notification commands.
package executil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

const maxOutputLen = 500

// limitedWriter caps writes to a bytes.Buffer at a maximum byte count.
// Bytes beyond the limit are silently discarded.
type limitedWriter struct {
	buf *bytes.Buffer
	n   int64
	max int64
}

func (w *limitedWriter) Write(p []byte) (int, error) {
	if w.n >= w.max {
		return len(p), nil
	}
	remaining := w.max - w.n
	origLen := len(p)
	if int64(origLen) > remaining {
		p = p[:remaining]
	}
	n, err := w.buf.Write(p)
	w.n += int64(n)
	if err != nil {
		return n, err
	}
	return origLen, nil
}

// Executor runs commands.
type Executor interface {
	// Run executes cmd with args. env entries ("KEY=value") are appended to
	// the current process environment. Returns combined output.
	Run(ctx context.Context, env []string, cmd string, args ...string) ([]byte, error)
}

// RealExecutor runs commands with os/exec.
type RealExecutor struct{}

// Run executes a command and returns its combined output, capped at 500 bytes
// so a chatty notifier cannot flood the log. On failure the trimmed output is
// prefixed to the error; the *exec.ExitError stays reachable via errors.As.
func (e *RealExecutor) Run(ctx context.Context, env []string, cmd string, args ...string) ([]byte, error) {
	c := exec.CommandContext(ctx, cmd, args...)
	if len(env) > 0 {
		c.Env = append(os.Environ(), env...)
	}

	var buf bytes.Buffer
	w := &limitedWriter{buf: &buf, max: maxOutputLen}
	c.Stdout = w
	c.Stderr = w

	if err := c.Run(); err != nil {
		if msg := strings.TrimSpace(buf.String()); msg != "" {
			return buf.Bytes(), fmt.Errorf("exec %s: %s: %w", cmd, msg, err)
		}
		return buf.Bytes(), fmt.Errorf("exec %s: %w", cmd, err)
	}
	return buf.Bytes(), nil
}
