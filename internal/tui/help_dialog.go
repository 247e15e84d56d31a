package tui

import (
	"strings"

	"charm.land/bubbles/v2/key"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/khatt/internal/core/styles"
)

const helpKeyWidth = 12

type helpEntry struct {
	Key  string
	Desc string
}

type helpSection struct {
	Title   string
	Entries []helpEntry
}

// helpSections lists every key in the application, grouped by panel.
func helpSections(keys keyMap) []helpSection {
	var gallery []helpEntry
	for _, group := range keys.FullHelp() {
		for _, b := range group {
			gallery = append(gallery, bindingEntry(b))
		}
	}

	return []helpSection{
		{Title: "Gallery", Entries: gallery},
		{Title: "Brief", Entries: []helpEntry{
			{"b", "show / hide"},
			{"J / K", "scroll"},
		}},
		{Title: "Image", Entries: []helpEntry{
			{"+ / -", "zoom in / out"},
			{"0", "reset view"},
			{"←↑↓→ hjkl", "pan"},
			{"wheel", "zoom"},
			{"drag", "pan"},
			{"hover", "highlight word"},
		}},
		{Title: "Text", Entries: []helpEntry{
			{"tab / S-tab", "next / previous word"},
			{"i / enter", "edit"},
			{"esc", "stop editing"},
			{"ctrl+z", "undo"},
			{"ctrl+y", "redo"},
			{"d", "toggle diacritics"},
		}},
	}
}

func bindingEntry(b key.Binding) helpEntry {
	h := b.Help()
	return helpEntry{Key: h.Key, Desc: h.Desc}
}

// renderHelp draws the help overlay: the first half of the sections on the
// left, the rest on the right.
func renderHelp(sections []helpSection) string {
	half := (len(sections) + 1) / 2
	columns := lipgloss.JoinHorizontal(lipgloss.Top,
		renderHelpColumn(sections[:half]),
		"    ",
		renderHelpColumn(sections[half:]),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.ModalTitleStyle.Render("Keys"),
		"",
		columns,
		styles.ModalHelpStyle.Render("esc/? close"),
	)
	return styles.ModalStyle.Render(content)
}

func renderHelpColumn(sections []helpSection) string {
	var lines []string
	divider := styles.DividerStyle.Render(strings.Repeat("─", 28))

	for i, section := range sections {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, styles.PanelTitleStyle.Render(section.Title), divider)
		for _, e := range section.Entries {
			lines = append(lines, formatKeyDesc(e.Key, e.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

func formatKeyDesc(k, desc string) string {
	pad := max(helpKeyWidth-lipgloss.Width(k), 1)
	return styles.StatusKeyStyle.Render(k+strings.Repeat(" ", pad)) + styles.TokenStyle.Render(desc)
}

// overlayCenter composites modal centred over background.
func overlayCenter(background, modal string, width, height int) string {
	layer := lipgloss.NewLayer(modal)
	x := max((width-lipgloss.Width(modal))/2, 0)
	y := max((height-lipgloss.Height(modal))/2, 0)
	layer.X(x).Y(y).Z(1)
	return lipgloss.NewCompositor(lipgloss.NewLayer(background), layer).Render()
}
