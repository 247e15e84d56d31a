// Package brief renders the font identification and design brief that come
// with an analysis result.
package brief

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog/log"

	"github.com/colonyops/khatt/internal/core/analysis"
	"github.com/colonyops/khatt/internal/core/styles"
)

// View is the Bubble Tea sub-model for the brief panel.
type View struct {
	result   analysis.Result
	viewport viewport.Model
	width    int
	height   int
}

// New creates a brief panel for result.
func New(result analysis.Result) View {
	return View{
		result:   result,
		viewport: viewport.New(),
	}
}

// SetResult replaces the rendered result.
func (v *View) SetResult(result analysis.Result) {
	v.result = result
	v.render()
}

// SetSize sets the panel size and re-renders for the new wrap width.
func (v *View) SetSize(width, height int) {
	if width == v.width && height == v.height {
		return
	}
	v.width = width
	v.height = height
	v.viewport.SetWidth(width)
	v.viewport.SetHeight(height)
	v.render()
}

// Update scrolls the panel.
func (v View) Update(msg tea.Msg) (View, tea.Cmd) {
	if msg, ok := msg.(tea.KeyPressMsg); ok {
		switch msg.String() {
		case "pgdown", "J":
			v.viewport.ScrollDown(1)
			return v, nil
		case "pgup", "K":
			v.viewport.ScrollUp(1)
			return v, nil
		}
	}
	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// View renders the panel.
func (v View) View() string {
	if v.width <= 0 || v.height <= 0 {
		return ""
	}
	return v.viewport.View()
}

func (v *View) render() {
	if v.width <= 0 {
		return
	}
	md := Markdown(v.result)

	style := styles.GlamourStyle()
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithWordWrap(v.width),
	)
	if err != nil {
		log.Debug().Err(err).Msg("failed to create markdown renderer, showing raw brief")
		v.viewport.SetContent(md)
		return
	}

	rendered, err := renderer.Render(md)
	if err != nil {
		log.Debug().Err(err).Msg("failed to render brief, showing raw content")
		v.viewport.SetContent(md)
		return
	}
	v.viewport.SetContent(strings.TrimSpace(rendered))
}

// Markdown formats the presentation fields of a result.
func Markdown(r analysis.Result) string {
	var b strings.Builder

	b.WriteString("## " + styles.IconFont + " Font\n\n")
	if r.HasFontStyle() {
		fmt.Fprintf(&b, "**%s**", r.IdentifiedFontStyle)
		if r.IdentifiedFontName != "" {
			fmt.Fprintf(&b, " *%s*", r.IdentifiedFontName)
		}
		b.WriteString("\n")
		if url := r.FontURL(); url != "" {
			fmt.Fprintf(&b, "\n<%s>\n", url)
		}
	} else {
		b.WriteString("No style identified.\n")
	}

	if len(r.SimilarFonts) > 0 {
		b.WriteString("\n## Similar fonts\n\n")
		for _, f := range r.SimilarFonts {
			name := f.Name
			if f.URL != "" {
				name = fmt.Sprintf("[%s](%s)", f.Name, f.URL)
			}
			if f.Source != "" {
				fmt.Fprintf(&b, "- %s (%s)\n", name, f.Source)
			} else {
				fmt.Fprintf(&b, "- %s\n", name)
			}
		}
	}

	if brief := strings.TrimSpace(r.DesignBrief); brief != "" {
		b.WriteString("\n## Design brief\n\n")
		b.WriteString(brief)
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\n---\n\n%d words\n", len(r.Words))
	return b.String()
}
