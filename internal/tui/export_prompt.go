package tui

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/khatt/internal/core/export"
	"github.com/colonyops/khatt/internal/core/styles"
)

const exportPromptWidth = 60

// exportPrompt asks for the output path of an export. It holds the document
// captured when the prompt opened.
type exportPrompt struct {
	input textinput.Model
	doc   export.Document
}

func newExportPrompt(doc export.Document, path string) (exportPrompt, tea.Cmd) {
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "path or - for stdout"
	input.SetWidth(exportPromptWidth - 8)
	input.SetValue(path)
	input.CursorEnd()
	cmd := input.Focus()
	return exportPrompt{input: input, doc: doc}, cmd
}

func (p exportPrompt) Update(msg tea.Msg) (exportPrompt, tea.Cmd) {
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

// Path returns the entered path.
func (p exportPrompt) Path() string {
	return p.input.Value()
}

func (p exportPrompt) View() string {
	variant := "with diacritics"
	if p.doc.Strip {
		variant = "without diacritics"
	}
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		styles.ModalTitleStyle.Render("Export text"),
		styles.StatusMutedStyle.Render(variant),
		"",
		p.input.View(),
		styles.ModalHelpStyle.Render("enter export  esc cancel"),
	)
	return styles.ModalStyle.Width(exportPromptWidth).Render(content)
}
