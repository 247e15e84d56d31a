package session

import (
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/colonyops/khatt/internal/core/styles"
)

const (
	// panelChrome is the border width on each axis.
	panelChrome   = 2
	titleRows     = 1
	minBriefWidth = 24
	// briefMinTotal is the narrowest window that still shows the brief.
	briefMinTotal = 80
)

type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return r.w > 0 && r.h > 0 && x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// content is the area inside the border, below the title.
func (r rect) content() rect {
	return rect{
		x: r.x + 1,
		y: r.y + 1 + titleRows,
		w: max(r.w-panelChrome, 0),
		h: max(r.h-panelChrome-titleRows, 0),
	}
}

// layout holds outer panel rectangles and the content rectangles that mouse
// coordinates are translated into.
type layout struct {
	width, height int

	viewerPanel, editorPanel, briefPanel rect
	viewer, editor, brief                rect
}

func computeLayout(width, height int, showBrief bool) layout {
	l := layout{width: width, height: height}
	if width <= 0 || height <= 0 {
		return l
	}

	briefW := 0
	if showBrief && width >= briefMinTotal {
		briefW = max(width/4, minBriefWidth)
	}
	rest := width - briefW
	viewerW := rest * 11 / 20
	editorW := rest - viewerW

	l.viewerPanel = rect{x: 0, y: 0, w: viewerW, h: height}
	l.editorPanel = rect{x: viewerW, y: 0, w: editorW, h: height}
	if briefW > 0 {
		l.briefPanel = rect{x: viewerW + editorW, y: 0, w: briefW, h: height}
	}

	l.viewer = l.viewerPanel.content()
	l.editor = l.editorPanel.content()
	l.brief = l.briefPanel.content()
	return l
}

// SetSize lays the panels out in the given area.
func (s *Session) SetSize(width, height int) {
	s.layout.width = width
	s.layout.height = height
	s.applyLayout()
}

func (s *Session) applyLayout() {
	s.layout = computeLayout(s.layout.width, s.layout.height, s.showBrief)
	s.viewer.SetSize(s.layout.viewer.w, s.layout.viewer.h)
	s.editor.SetSize(s.layout.editor.w, s.layout.editor.h)
	s.brief.SetSize(s.layout.brief.w, s.layout.brief.h)
}

// View renders the panels side by side.
func (s *Session) View() string {
	if s.layout.width <= 0 || s.layout.height <= 0 {
		return ""
	}

	panels := []string{
		renderPanel(s.layout.viewerPanel, styles.IconImage+" "+s.Name(), s.viewer.View(), false),
		renderPanel(s.layout.editorPanel, styles.IconText+" Text", s.editor.View(), s.editor.Editing()),
	}
	if s.layout.briefPanel.w > 0 {
		panels = append(panels, renderPanel(s.layout.briefPanel, styles.IconFont+" Brief", s.brief.View(), false))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, panels...)
}

func renderPanel(r rect, title, body string, focused bool) string {
	if r.w <= panelChrome || r.h <= panelChrome {
		return ""
	}
	style := styles.PanelStyle
	if focused {
		style = styles.PanelFocusedStyle
	}

	inner := r.w - panelChrome
	head := styles.PanelTitleStyle.Render(ansi.Truncate(title, inner, "…"))
	return style.
		Width(r.w).
		Height(r.h).
		MaxHeight(r.h).
		Render(lipgloss.JoinVertical(lipgloss.Left, head, body))
}

// translate moves a mouse event into the coordinate space of r.
func translate(msg tea.MouseMsg, r rect) tea.Msg {
	switch m := msg.(type) {
	case tea.MouseClickMsg:
		m.X -= r.x
		m.Y -= r.y
		return m
	case tea.MouseReleaseMsg:
		m.X -= r.x
		m.Y -= r.y
		return m
	case tea.MouseMotionMsg:
		m.X -= r.x
		m.Y -= r.y
		return m
	case tea.MouseWheelMsg:
		m.X -= r.x
		m.Y -= r.y
		return m
	}
	return msg
}
