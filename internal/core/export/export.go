// Package export writes reconstructed text to files, streams and the system
// clipboard.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/colonyops/khatt/pkg/executil"
)

// Stdout is the path that selects standard output.
const Stdout = "-"

// ErrEmptyPath is returned when no output path was given.
var ErrEmptyPath = errors.New("export: empty output path")

// Document is the text of one session ready for export.
type Document struct {
	// Source is the result file the text came from.
	Source string
	// Raw is the current snapshot as edited.
	Raw string
	// Stripped is Raw with diacritics removed.
	Stripped string
	// Strip selects Stripped over Raw.
	Strip bool
}

// Text returns the variant chosen by Strip, terminated by a newline.
func (d Document) Text() string {
	text := d.Raw
	if d.Strip {
		text = d.Stripped
	}
	if text != "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return text
}

// DefaultPath returns <dir>/<source base>.txt, or a path next to the source
// when dir is empty.
func DefaultPath(dir string, d Document) string {
	base := filepath.Base(d.Source)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + ".txt"
	if dir == "" {
		dir = filepath.Dir(d.Source)
	}
	return filepath.Join(dir, name)
}

// Write writes the document text to w.
func Write(w io.Writer, d Document) error {
	if _, err := io.WriteString(w, d.Text()); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

// WriteFile writes the document to path, creating parent directories. The
// Stdout path writes to os.Stdout.
func WriteFile(path string, d Document) error {
	switch path {
	case "":
		return ErrEmptyPath
	case Stdout:
		return Write(os.Stdout, d)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(d.Text()), 0o644); err != nil {
		return fmt.Errorf("write export %s: %w", path, err)
	}
	return nil
}

// Clipboard copies text either through an external command or the platform
// clipboard.
type Clipboard struct {
	// Command is an optional copy program with arguments, fed on stdin.
	Command string
	// Exec runs Command. Nil uses the real executor.
	Exec executil.Executor
}

var clipboardWrite = clipboard.WriteAll

func (c Clipboard) executor() executil.Executor {
	if c.Exec == nil {
		return &executil.RealExecutor{}
	}
	return c.Exec
}

// Copy places the document text on the clipboard.
func (c Clipboard) Copy(d Document) error {
	return c.CopyText(d.Text())
}

// CopyText places text on the clipboard.
func (c Clipboard) CopyText(text string) error {
	parts := strings.Fields(c.Command)
	if len(parts) == 0 {
		if err := clipboardWrite(text); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		return nil
	}

	if err := c.executor().RunStdin(context.Background(), strings.NewReader(text), parts[0], parts[1:]...); err != nil {
		return fmt.Errorf("copy command: %w", err)
	}
	return nil
}

// Available reports whether copying can work in this environment.
func (c Clipboard) Available() bool {
	if parts := strings.Fields(c.Command); len(parts) > 0 {
		_, err := c.executor().LookPath(parts[0])
		return err == nil
	}
	return !clipboard.Unsupported
}
