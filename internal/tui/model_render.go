package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/colonyops/khatt/internal/core/styles"
)

const footerRows = 1

// galleryWidth is zero when a single result is open or the window is too
// narrow for the sidebar.
func (m Model) galleryWidth() int {
	if len(m.gallery.Items()) < 2 || m.width < galleryMinTotal {
		return 0
	}
	return galleryWidth
}

func (m *Model) applyLayout() {
	gw := m.galleryWidth()
	bodyH := max(m.height-footerRows, 0)
	m.gallery.SetSize(max(gw-1, 0), max(bodyH-galleryChrome, 0))
	if m.current != nil {
		m.current.SetSize(max(m.width-gw, 0), bodyH)
	}
}

// View renders the TUI.
func (m Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}

	w, h := m.width, m.height
	if w == 0 {
		w = 80
	}
	if h == 0 {
		h = 24
	}

	content := m.renderMain(w, h)
	switch m.state {
	case stateExporting:
		content = overlayCenter(content, m.prompt.View(), w, h)
	case stateShowingHelp:
		content = overlayCenter(content, renderHelp(helpSections(m.keys)), w, h)
	case stateShowingNotifications:
		if m.history != nil {
			content = overlayCenter(content, m.history.View(), w, h)
		}
	}

	if m.toasts.HasToasts() {
		content = overlayToasts(content, m.toasts.Toasts(), w, h)
	}

	v := tea.NewView(content)
	v.AltScreen = true
	v.MouseMode = tea.MouseModeAllMotion
	v.WindowTitle = "khatt"
	if m.current != nil {
		v.WindowTitle = "khatt · " + m.current.Name()
	}
	return v
}

func (m Model) renderMain(w, h int) string {
	bodyH := max(h-footerRows, 0)

	var body string
	switch {
	case m.state == stateLoading:
		body = lipgloss.Place(w, bodyH, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" loading results")
	case m.current == nil:
		body = lipgloss.Place(w, bodyH, lipgloss.Center, lipgloss.Center,
			styles.StatusMutedStyle.Render(styles.IconNoImage+" no results"))
	default:
		body = m.current.View()
		if gw := m.galleryWidth(); gw > 0 {
			body = lipgloss.JoinHorizontal(lipgloss.Top, m.renderGallery(gw, bodyH), body)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderFooter(w))
}

func (m Model) renderGallery(width, height int) string {
	title := fmt.Sprintf("%s Results %d/%d", styles.IconImage, m.gallery.Index()+1, len(m.gallery.Items()))
	content := strings.Join([]string{
		styles.PanelTitleStyle.Render(ansi.Truncate(title, width-1, "…")),
		"",
		m.gallery.View(),
	}, "\n")

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		MaxHeight(height).
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(styles.ColorSurface).
		Render(content)
}

func (m Model) renderFooter(width int) string {
	bindings := m.keys.ShortHelp()
	if m.current != nil && m.current.Editing() {
		bindings = editingHelp()
	}
	line := m.help.ShortHelpView(bindings)
	return styles.StatusBarStyle.Render(ansi.Truncate(line, max(width-2, 0), "…"))
}
