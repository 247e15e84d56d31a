// Package tui implements the Bubble Tea gallery for khatt: a sidebar of
// loaded results next to the session panels for the selected one.
package tui

import (
	"fmt"
	"path/filepath"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/list"
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/colonyops/khatt/internal/core/analysis"
	"github.com/colonyops/khatt/internal/core/config"
	"github.com/colonyops/khatt/internal/core/export"
	"github.com/colonyops/khatt/internal/core/logging"
	"github.com/colonyops/khatt/internal/core/notify"
	"github.com/colonyops/khatt/internal/core/styles"
	"github.com/colonyops/khatt/internal/core/viewport"
	tuinotify "github.com/colonyops/khatt/internal/tui/notify"
	"github.com/colonyops/khatt/internal/tui/session"
	"github.com/colonyops/khatt/internal/tui/views/editor"
	"github.com/colonyops/khatt/internal/tui/views/viewer"
	"github.com/colonyops/khatt/pkg/kv"
)

// UIState represents the current state of the TUI.
type UIState int

const (
	stateLoading UIState = iota
	stateNormal
	stateExporting
	stateShowingHelp
	stateShowingNotifications
)

const notificationHistoryLimit = 200

// Options configures the TUI behavior.
type Options struct {
	Paths    []string       // result files to open
	Watch    bool           // reload results when they change on disk
	Bus      *tuinotify.Bus // notification bus (optional)
	Warnings []string       // startup warnings shown as toasts
}

// documentsLoadedMsg carries the results read at startup.
type documentsLoadedMsg struct {
	docs []analysis.Document
	errs []error
}

// exportDoneMsg reports the outcome of a file export or clipboard copy.
type exportDoneMsg struct {
	target string
	err    error
}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	cfg         *config.Config
	sessionOpts session.Options
	paths       []string
	watch       bool
	log         zerolog.Logger

	keys    keyMap
	help    help.Model
	state   UIState
	spinner spinner.Model
	gallery list.Model
	current *session.Session
	views   *kv.Store[string, viewport.State]
	watcher *resultWatcher

	prompt    exportPrompt
	history   *notificationHistory
	clipboard export.Clipboard

	notifyBus *tuinotify.Bus
	toasts    *toastController

	width           int
	height          int
	quitting        bool
	startupWarnings []string
}

// New creates the gallery model. Results are loaded by Init.
func New(cfg *config.Config, opts Options) Model {
	bus := opts.Bus
	if bus == nil {
		bus = tuinotify.NewBus(notify.NewMemoryStore(notificationHistoryLimit))
	}
	toasts := newToastController()
	bus.Subscribe(func(n notify.Notification) {
		toasts.Push(n)
	})

	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(styles.PanelTitleStyle),
	)

	h := help.New()
	h.Styles.ShortKey = styles.StatusKeyStyle
	h.Styles.ShortDesc = styles.HelpStyle
	h.Styles.ShortSeparator = styles.HelpStyle
	h.ShortSeparator = " • "

	return Model{
		cfg:             cfg,
		sessionOpts:     SessionOptions(cfg),
		paths:           opts.Paths,
		watch:           opts.Watch,
		log:             logging.Component("tui"),
		keys:            defaultKeyMap(),
		help:            h,
		state:           stateLoading,
		spinner:         s,
		gallery:         newGalleryList(),
		views:           kv.New[string, viewport.State](),
		clipboard:       export.Clipboard{Command: cfg.Export.CopyCommand},
		notifyBus:       bus,
		toasts:          toasts,
		startupWarnings: opts.Warnings,
	}
}

// SessionOptions maps the configuration onto the per-session options.
func SessionOptions(cfg *config.Config) session.Options {
	return session.Options{
		Viewport: cfg.ViewportOptions(),
		Viewer: viewer.Options{
			PanStep:   cfg.Viewer.PanStep,
			Smoothing: cfg.Viewer.Smoothing,
		},
		Editor: editor.Options{
			CommitDelay:     cfg.Editor.CommitDelay,
			StripDiacritics: cfg.Editor.StripDiacritics,
		},
		LineThreshold: cfg.Editor.LineThreshold,
		MaxHistory:    cfg.Editor.MaxHistory,
		ShowBrief:     cfg.TUI.ShowBrief,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadDocuments(m.paths))
}

// loadDocuments reads every result file, collecting failures instead of
// stopping at the first.
func loadDocuments(paths []string) tea.Cmd {
	return func() tea.Msg {
		msg := documentsLoadedMsg{}
		for _, p := range paths {
			doc, err := analysis.Load(p)
			if err != nil {
				msg.errs = append(msg.errs, err)
				continue
			}
			msg.docs = append(msg.docs, doc)
		}
		return msg
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)

	case documentsLoadedMsg:
		return m.handleDocumentsLoaded(msg)
	case resultsChangedMsg:
		return m.handleResultsChanged(msg)
	case viewer.StateChangedMsg:
		if m.current != nil && msg.Owner == m.current.ID() {
			m.views.Set(m.current.Key(), msg.State)
		}
		return m, nil
	case exportDoneMsg:
		return m.handleExportDone(msg)

	case toastTickMsg:
		return m.handleToastTick(msg)
	case spinner.TickMsg:
		if m.state != stateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	case tea.PasteMsg:
		if m.state == stateExporting {
			var cmd tea.Cmd
			m.prompt, cmd = m.prompt.Update(msg)
			return m, cmd
		}
	case tea.MouseClickMsg, tea.MouseReleaseMsg, tea.MouseMotionMsg, tea.MouseWheelMsg:
		return m.handleMouse(msg.(tea.MouseMsg))
	}

	return m.forward(msg)
}

// forward passes a message to the open session: timers, image loads and
// textarea internals.
func (m Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateExporting {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		if m.current == nil {
			return m, cmd
		}
		return m, tea.Batch(cmd, m.current.Update(msg))
	}
	if m.current == nil {
		return m, nil
	}
	return m, m.current.Update(msg)
}

// Current returns the open session, or nil.
func (m Model) Current() *session.Session {
	return m.current
}

// Index returns the gallery position of the open session.
func (m Model) Index() int {
	return m.gallery.Index()
}

// documents returns the loaded documents in gallery order.
func (m Model) documents() []galleryItem {
	items := m.gallery.Items()
	out := make([]galleryItem, 0, len(items))
	for _, it := range items {
		if gi, ok := it.(galleryItem); ok {
			out = append(out, gi)
		}
	}
	return out
}

// openSession closes the current session, remembering its viewport, and
// opens the result at index i with the viewport last used for its image.
func (m *Model) openSession(i int) tea.Cmd {
	items := m.documents()
	if i < 0 || i >= len(items) {
		return nil
	}

	if m.current != nil {
		prev := m.current
		m.views.Set(prev.Key(), prev.ViewportState())
		if prev.History().IsEdited() {
			m.notifyBus.Warnf("discarded edit history for %s", prev.Name())
		}
		prev.Close()
	}

	doc := items[i].doc
	s := session.New(doc, m.sessionOpts)
	s.SetViewportState(m.views.GetOr(doc.Key, viewport.DefaultState()))
	m.current = s
	m.gallery.Select(i)
	m.applyLayout()

	m.log.Debug().
		Str("session", s.ID()).
		Str("image", doc.Key).
		Int("index", i).
		Msg("opened result")

	return tea.Batch(s.Init(), m.ensureToastTick())
}

// step moves through the gallery, wrapping at both ends.
func (m *Model) step(delta int) tea.Cmd {
	n := len(m.gallery.Items())
	if n < 2 {
		return nil
	}
	i := ((m.gallery.Index()+delta)%n + n) % n
	return m.openSession(i)
}

func (m Model) quit() (Model, tea.Cmd) {
	if m.current != nil {
		m.current.Close()
	}
	if m.watcher != nil {
		if err := m.watcher.Close(); err != nil {
			m.log.Warn().Err(err).Msg("failed to close watcher")
		}
	}
	m.quitting = true
	return m, tea.Quit
}

// ensureToastTick starts the toast countdown when toasts are showing and no
// tick chain is running.
func (m *Model) ensureToastTick() tea.Cmd {
	if m.toasts.startTicking() {
		return scheduleToastTick()
	}
	return nil
}

// notifyError publishes an error toast for err.
func (m *Model) notifyError(err error, format string, args ...any) tea.Cmd {
	m.notifyBus.Error(err, fmt.Sprintf(format, args...))
	return m.ensureToastTick()
}

func absPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return abs
}
