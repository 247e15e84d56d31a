// Package executil runs external programs.
package executil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

const maxStderrLen = 500

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

// Executor runs external programs.
type Executor interface {
	// LookPath resolves a program name on PATH.
	LookPath(name string) (string, error)
	// RunStdin executes a command with stdin attached. Output is discarded.
	RunStdin(ctx context.Context, stdin io.Reader, cmd string, args ...string) error
}

// RealExecutor runs actual programs.
type RealExecutor struct{}

// LookPath resolves a program name on PATH.
func (e *RealExecutor) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// RunStdin executes a command with stdin attached. On failure, stderr is
// returned as the error message, capped at 500 bytes to keep large or
// ANSI-polluted output out of logs and toasts. The original *exec.ExitError
// is preserved via wrapping so callers can inspect exit codes with errors.As.
func (e *RealExecutor) RunStdin(ctx context.Context, stdin io.Reader, cmd string, args ...string) error {
	c := exec.CommandContext(ctx, cmd, args...)
	c.Stdin = stdin
	c.Stdout = io.Discard

	var buf bytes.Buffer
	c.Stderr = &limitedWriter{buf: &buf, max: maxStderrLen}
	if err := c.Run(); err != nil {
		msg := strings.TrimSpace(buf.String())
		if msg != "" {
			return fmt.Errorf("exec %s: %s: %w", cmd, msg, err)
		}
		return fmt.Errorf("exec %s: %w", cmd, err)
	}
	return nil
}
