package doctor

import (
	"context"
	"os"
	"strings"

	"golang.org/x/term"
)

// envFunc and isTerminalFunc allow test overrides.
var (
	envFunc        = os.Getenv
	isTerminalFunc = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) }
)

// TerminalCheck reports whether the terminal can show the image viewer well.
type TerminalCheck struct{}

func NewTerminalCheck() *TerminalCheck {
	return &TerminalCheck{}
}

func (c *TerminalCheck) Name() string {
	return "Terminal"
}

func (c *TerminalCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	if isTerminalFunc() {
		result.Items = append(result.Items, CheckItem{Label: "stdout", Status: StatusPass, Detail: "interactive"})
	} else {
		result.Items = append(result.Items, CheckItem{
			Label:  "stdout",
			Status: StatusWarn,
			Detail: "not a terminal; only export, import-hocr and check work",
		})
	}

	colorterm := strings.ToLower(envFunc("COLORTERM"))
	if colorterm == "truecolor" || colorterm == "24bit" {
		result.Items = append(result.Items, CheckItem{Label: "color", Status: StatusPass, Detail: "truecolor"})
	} else {
		result.Items = append(result.Items, CheckItem{
			Label:  "color",
			Status: StatusWarn,
			Detail: "COLORTERM is not truecolor; images render with reduced colors",
		})
	}

	return result
}
