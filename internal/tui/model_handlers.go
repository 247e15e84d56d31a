package tui

import (
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/list"
	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/khatt/internal/core/export"
)

// --- Window ---

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.help.SetWidth(msg.Width)
	m.applyLayout()

	var cmd tea.Cmd
	if len(m.startupWarnings) > 0 {
		for _, w := range m.startupWarnings {
			m.notifyBus.Warnf("%s", w)
		}
		m.startupWarnings = nil
		cmd = m.ensureToastTick()
	}
	return m, cmd
}

// --- Data ---

func (m Model) handleDocumentsLoaded(msg documentsLoadedMsg) (tea.Model, tea.Cmd) {
	m.state = stateNormal
	for _, err := range msg.errs {
		m.notifyBus.Error(err, "failed to load result")
	}

	if len(msg.docs) == 0 {
		m.notifyBus.Errorf("no results to show")
		return m, m.ensureToastTick()
	}

	items := make([]galleryItem, 0, len(msg.docs))
	paths := make([]string, 0, len(msg.docs))
	for _, doc := range msg.docs {
		items = append(items, galleryItem{doc: doc})
		paths = append(paths, doc.Path)
	}
	m.setItems(items)

	cmds := []tea.Cmd{m.openSession(0)}
	if m.watch {
		w, err := newResultWatcher(paths)
		if err != nil {
			cmds = append(cmds, m.notifyError(err, "watch disabled"))
		} else {
			m.watcher = w
			cmds = append(cmds, w.Start())
		}
	}
	cmds = append(cmds, m.ensureToastTick())
	return m, tea.Batch(cmds...)
}

// handleResultsChanged swaps reloaded results into the gallery. The open
// session keeps its viewport and starts a fresh history, unless the result
// now points at another image: then the session is reopened and the viewport
// remembered for the old image is dropped.
func (m Model) handleResultsChanged(msg resultsChangedMsg) (tea.Model, tea.Cmd) {
	items := m.documents()
	reopen := -1
	var moved []string
	for _, r := range msg.results {
		if r.Err != nil {
			m.notifyBus.Error(r.Err, "reload failed")
			continue
		}
		for i, it := range items {
			if absPath(it.doc.Path) != r.Path {
				continue
			}
			current := m.current != nil && i == m.gallery.Index()
			it.doc.Result = r.Doc.Result
			it.reloaded = true

			if r.Doc.Key != "" && r.Doc.Key != it.doc.Key {
				moved = append(moved, it.doc.Key)
				it.doc.ImagePath = r.Doc.ImagePath
				it.doc.Key = r.Doc.Key
				if current {
					reopen = i
				}
			} else if current {
				m.current.Replace(r.Doc.Result)
			}
			items[i] = it
			m.notifyBus.Infof("reloaded %s", it.doc.Name())
		}
	}
	m.setItems(items)

	var cmds []tea.Cmd
	if reopen >= 0 {
		cmds = append(cmds, m.openSession(reopen))
	}
	m.forgetViewports(moved)

	if m.watcher != nil {
		cmds = append(cmds, m.watcher.Start())
	}
	cmds = append(cmds, m.ensureToastTick())
	return m, tea.Batch(cmds...)
}

// forgetViewports drops remembered viewports for image keys no gallery item
// refers to anymore.
func (m *Model) forgetViewports(keys []string) {
	if len(keys) == 0 {
		return
	}
	inUse := make(map[string]bool)
	for _, it := range m.documents() {
		inUse[it.doc.Key] = true
	}
	for _, k := range keys {
		if !inUse[k] {
			m.views.Delete(k)
		}
	}
}

func (m *Model) setItems(items []galleryItem) {
	index := m.gallery.Index()
	li := make([]list.Item, len(items))
	for i, it := range items {
		li[i] = it
	}
	m.gallery.SetItems(li)
	m.gallery.Select(index)
	m.applyLayout()
}

func (m Model) handleExportDone(msg exportDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, m.notifyError(msg.err, "export failed")
	}
	if msg.target == "" {
		m.notifyBus.Infof("copied text to clipboard")
	} else {
		m.notifyBus.Infof("exported to %s", msg.target)
	}
	return m, m.ensureToastTick()
}

func (m Model) handleToastTick(_ toastTickMsg) (tea.Model, tea.Cmd) {
	if m.toasts.Tick(toastTickInterval) {
		return m, scheduleToastTick()
	}
	return m, nil
}

// --- Keys ---

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m.quit()
	}

	switch m.state {
	case stateLoading:
		return m, nil
	case stateExporting:
		return m.handleExportKey(msg)
	case stateShowingHelp:
		if key.Matches(msg, m.keys.Help, m.keys.Dismiss, m.keys.Quit) {
			m.state = stateNormal
		}
		return m, nil
	case stateShowingNotifications:
		return m.handleNotificationsKey(msg)
	}

	if m.current == nil {
		if key.Matches(msg, m.keys.Quit) {
			return m.quit()
		}
		return m, nil
	}

	if key.Matches(msg, m.keys.Export) {
		return m.openExport()
	}

	if !m.current.Editing() {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m.quit()
		case key.Matches(msg, m.keys.Copy):
			return m, m.copyText()
		case key.Matches(msg, m.keys.Prev):
			return m, m.step(-1)
		case key.Matches(msg, m.keys.Next):
			return m, m.step(1)
		case key.Matches(msg, m.keys.Help):
			m.state = stateShowingHelp
			return m, nil
		case key.Matches(msg, m.keys.Notifications):
			m.history = newNotificationHistory(m.notifyBus, m.width, m.height)
			m.state = stateShowingNotifications
			return m, nil
		case key.Matches(msg, m.keys.Dismiss) && m.toasts.HasToasts():
			m.toasts.Dismiss()
			return m, nil
		}
	}

	return m, m.current.Update(msg)
}

func (m Model) openExport() (tea.Model, tea.Cmd) {
	doc := m.current.ExportText()
	var cmd tea.Cmd
	m.prompt, cmd = newExportPrompt(doc, export.DefaultPath(m.cfg.ExportDir(), doc))
	m.state = stateExporting
	return m, cmd
}

func (m Model) handleExportKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = stateNormal
		return m, nil
	case "enter":
		path := m.prompt.Path()
		switch path {
		case "":
			return m, nil
		case export.Stdout:
			m.notifyBus.Warnf("use the export command to write to stdout")
			return m, m.ensureToastTick()
		}
		m.state = stateNormal
		doc := m.prompt.doc
		return m, func() tea.Msg {
			return exportDoneMsg{target: path, err: export.WriteFile(path, doc)}
		}
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

// copyText copies the text as displayed, honouring the diacritics toggle.
func (m Model) copyText() tea.Cmd {
	doc := m.current.ExportText()
	clip := m.clipboard
	return func() tea.Msg {
		return exportDoneMsg{err: clip.Copy(doc)}
	}
}

func (m Model) handleNotificationsKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "n", "q":
		m.state = stateNormal
		m.history = nil
	case "j", "down":
		m.history.ScrollDown()
	case "k", "up":
		m.history.ScrollUp()
	case "D":
		if err := m.history.Clear(); err != nil {
			return m, m.notifyError(err, "failed to clear notifications")
		}
	}
	return m, nil
}

// --- Mouse ---

// handleMouse routes clicks on the sidebar to the gallery and everything else
// to the session, shifted into its coordinate space. Motion and releases
// always reach the session so hover clears and drags finish.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.state != stateNormal || m.current == nil {
		return m, nil
	}

	mouse := msg.Mouse()
	gw := m.galleryWidth()
	if mouse.X < gw {
		switch msg.(type) {
		case tea.MouseClickMsg:
			if i := galleryIndexAt(m.gallery, mouse.Y-galleryChrome); i >= 0 && i != m.gallery.Index() {
				return m, m.openSession(i)
			}
			return m, nil
		case tea.MouseWheelMsg:
			return m, nil
		}
	}
	return m, m.current.Update(offsetMouse(msg, gw, 0))
}

// offsetMouse moves a mouse event dx cells left and dy rows up.
func offsetMouse(msg tea.MouseMsg, dx, dy int) tea.Msg {
	switch e := msg.(type) {
	case tea.MouseClickMsg:
		e.X, e.Y = e.X-dx, e.Y-dy
		return e
	case tea.MouseReleaseMsg:
		e.X, e.Y = e.X-dx, e.Y-dy
		return e
	case tea.MouseMotionMsg:
		e.X, e.Y = e.X-dx, e.Y-dy
		return e
	case tea.MouseWheelMsg:
		e.X, e.Y = e.X-dx, e.Y-dy
		return e
	}
	return msg
}
