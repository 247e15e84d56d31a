package doctor

import (
	"context"
	"os/exec"
	"strings"

	"github.com/atotto/clipboard"
)

// lookPathFunc is the function used to find executables on PATH.
// Package-level variable to allow test overrides.
var lookPathFunc = exec.LookPath

// clipboardUnsupported reports whether the system clipboard is unusable.
var clipboardUnsupported = func() bool { return clipboard.Unsupported }

// ClipboardCheck verifies that exported text can reach the clipboard.
type ClipboardCheck struct {
	copyCommand string
}

// NewClipboardCheck creates a clipboard check. An empty copyCommand checks
// the system clipboard.
func NewClipboardCheck(copyCommand string) *ClipboardCheck {
	return &ClipboardCheck{copyCommand: copyCommand}
}

func (c *ClipboardCheck) Name() string {
	return "Clipboard"
}

func (c *ClipboardCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	if parts := strings.Fields(c.copyCommand); len(parts) > 0 {
		if path, err := lookPathFunc(parts[0]); err != nil {
			result.Items = append(result.Items, CheckItem{
				Label:  parts[0],
				Status: StatusFail,
				Detail: "copy_command not found on PATH",
			})
		} else {
			result.Items = append(result.Items, CheckItem{
				Label:  parts[0],
				Status: StatusPass,
				Detail: path,
			})
		}
		return result
	}

	if clipboardUnsupported() {
		result.Items = append(result.Items, CheckItem{
			Label:  "system clipboard",
			Status: StatusWarn,
			Detail: "no clipboard utility found (install xclip, xsel or wl-clipboard, or set export.copy_command)",
		})
	} else {
		result.Items = append(result.Items, CheckItem{
			Label:  "system clipboard",
			Status: StatusPass,
		})
	}

	return result
}
