package tui

import (
	"fmt"
	"io"

	"charm.land/bubbles/v2/list"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/colonyops/khatt/internal/core/analysis"
	"github.com/colonyops/khatt/internal/core/styles"
)

const (
	galleryWidth    = 26
	galleryMinTotal = 70
	galleryChrome   = 2 // title and spacer rows above the list
)

// galleryItem is one loaded result in the sidebar.
type galleryItem struct {
	doc      analysis.Document
	reloaded bool
}

func (i galleryItem) FilterValue() string {
	return i.doc.Name()
}

// galleryDelegate renders a result name with its word count.
type galleryDelegate struct{}

func (galleryDelegate) Height() int                         { return 1 }
func (galleryDelegate) Spacing() int                        { return 0 }
func (galleryDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (galleryDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	gi, ok := item.(galleryItem)
	if !ok {
		return
	}

	count := fmt.Sprintf(" %d", len(gi.doc.Result.Words))
	if gi.reloaded {
		count += " ↻"
	}
	style := styles.GalleryItemStyle
	if index == m.Index() {
		style = styles.GallerySelectedStyle
	}
	avail := max(m.Width()-style.GetHorizontalFrameSize()-ansi.StringWidth(count), 1)
	name := ansi.Truncate(gi.doc.Name(), avail, "…")

	_, _ = io.WriteString(w, style.Render(name+styles.StatusMutedStyle.Render(count)))
}

func newGalleryList() list.Model {
	l := list.New(nil, galleryDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowFilter(false)
	l.SetFilteringEnabled(false)
	l.SetShowPagination(true)
	l.DisableQuitKeybindings()
	return l
}

// galleryIndexAt maps a row inside the list area to an item index, or -1.
func galleryIndexAt(l list.Model, row int) int {
	if row < 0 || row >= l.Paginator.PerPage {
		return -1
	}
	i := l.Paginator.Page*l.Paginator.PerPage + row
	if i >= len(l.Items()) {
		return -1
	}
	return i
}
