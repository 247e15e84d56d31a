// Package session ties one analysis result to its viewer, editor and brief
// panels. A session owns every piece of mutable state for its result: the
// reconstruction, edit history, highlight coordinator, viewport and timers.
package session

import (
	"context"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/colonyops/khatt/internal/core/analysis"
	"github.com/colonyops/khatt/internal/core/export"
	"github.com/colonyops/khatt/internal/core/highlight"
	"github.com/colonyops/khatt/internal/core/history"
	"github.com/colonyops/khatt/internal/core/logging"
	"github.com/colonyops/khatt/internal/core/reconstruct"
	"github.com/colonyops/khatt/internal/core/textnorm"
	"github.com/colonyops/khatt/internal/core/viewport"
	"github.com/colonyops/khatt/internal/tui/views/brief"
	"github.com/colonyops/khatt/internal/tui/views/editor"
	"github.com/colonyops/khatt/internal/tui/views/viewer"
	"github.com/colonyops/khatt/pkg/debounce"
)

// Options configures every session built by the gallery.
type Options struct {
	Viewport      viewport.Options
	Viewer        viewer.Options
	Editor        editor.Options
	LineThreshold float64
	MaxHistory    int
	ShowBrief     bool
}

// Session is one open analysis result.
type Session struct {
	id   string
	doc  analysis.Document
	opts Options
	ctx  context.Context
	log  zerolog.Logger

	vp   *viewport.Controller
	hl   *highlight.Coordinator
	hist *history.Store

	viewer viewer.View
	editor editor.View
	brief  brief.View

	showBrief bool
	closed    bool
	layout    layout
}

// New builds a session for doc. The viewport starts at its default state.
func New(doc analysis.Document, opts Options) *Session {
	if opts.LineThreshold <= 0 {
		opts.LineThreshold = reconstruct.DefaultLineThreshold
	}

	id := uuid.NewString()
	ctx := logging.WithImage(logging.WithSessionID(context.Background(), id), doc.Key)

	s := &Session{
		id:        id,
		doc:       doc,
		opts:      opts,
		ctx:       ctx,
		log:       logging.Component("session").With().Ctx(ctx).Logger(),
		vp:        viewport.New(opts.Viewport),
		showBrief: opts.ShowBrief,
	}
	s.build(doc.Result)
	s.viewer = viewer.New(id, s.vp, s.hl, doc.Result.Words, opts.Viewer)
	s.applyLayout()

	s.log.Info().
		Str("source", doc.Path).
		Int("words", len(doc.Result.Words)).
		Msg("session opened")
	return s
}

// build creates the per-result state: reconstruction, history, coordinator,
// editor and brief.
func (s *Session) build(result analysis.Result) {
	buf := reconstruct.Reconstruct(result.Words, s.opts.LineThreshold)

	var histOpts []history.Option
	if s.opts.MaxHistory > 0 {
		histOpts = append(histOpts, history.WithMaxDepth(s.opts.MaxHistory))
	}
	s.hist = history.New(buf.Text(), histOpts...)
	s.hl = highlight.New()
	s.hl.Subscribe(func(ev highlight.Event) {
		if ev.Suppressed {
			s.log.Debug().Msg("highlight suppressed after first edit")
		}
	})

	s.editor = editor.New(buf, s.hist, s.hl, s.opts.Editor)
	s.editor.SetLogger(logging.Component("editor").With().Ctx(s.ctx).Logger())
	s.brief = brief.New(result)
	s.applyLayout()
}

// Init starts decoding the image.
func (s *Session) Init() tea.Cmd {
	return s.viewer.Load(s.doc.ImagePath)
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Key returns the image key used for per-image state.
func (s *Session) Key() string {
	return s.doc.Key
}

// Name returns the display name of the document.
func (s *Session) Name() string {
	return s.doc.Name()
}

// Document returns the loaded document.
func (s *Session) Document() analysis.Document {
	return s.doc
}

// Context carries the session identifiers for logging.
func (s *Session) Context() context.Context {
	return s.ctx
}

// Highlight returns the current highlight coordinator.
func (s *Session) Highlight() *highlight.Coordinator {
	return s.hl
}

// History returns the current edit history.
func (s *Session) History() *history.Store {
	return s.hist
}

// Editing reports whether the editor has input focus.
func (s *Session) Editing() bool {
	return s.editor.Editing()
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	return s.closed
}

// ViewportState returns the viewport state for persistence.
func (s *Session) ViewportState() viewport.State {
	return s.vp.State()
}

// SetViewportState restores a persisted viewport state.
func (s *Session) SetViewportState(st viewport.State) {
	s.vp.SetState(st)
	s.viewer.Snap()
}

// Close cancels the session timers. Afterwards every message is ignored,
// including timer messages already in flight.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.editor.Close()
	s.vp.Close()
	s.log.Info().Msg("session closed")
}

// Replace swaps in a new analysis result for the same image. History and the
// highlight latch start over; the viewport and image are kept.
func (s *Session) Replace(result analysis.Result) {
	if s.closed {
		return
	}
	s.editor.Close()
	s.doc.Result = result
	s.build(result)
	s.viewer.SetWords(result.Words)
	s.viewer.SetHighlight(s.hl)
	s.log.Info().Int("words", len(result.Words)).Msg("result replaced")
}

// Text returns the live text, including edits not yet committed.
func (s *Session) Text() string {
	return s.editor.Text()
}

// Export returns the current text, optionally without diacritics.
func (s *Session) Export(strip bool) string {
	text := s.editor.Text()
	if strip {
		return textnorm.StripDiacritics(text)
	}
	return text
}

// ExportText returns the export document for the text as displayed: the
// stripped variant is selected when the diacritics toggle is on.
func (s *Session) ExportText() export.Document {
	raw := s.editor.Text()
	return export.Document{
		Source:   s.doc.Path,
		Raw:      raw,
		Stripped: textnorm.StripDiacritics(raw),
		Strip:    s.editor.Stripped(),
	}
}

// Update routes a message to the panels.
func (s *Session) Update(msg tea.Msg) tea.Cmd {
	if s.closed {
		return nil
	}

	var cmd tea.Cmd
	switch msg := msg.(type) {
	case debounce.FiredMsg:
		switch {
		case s.vp.OwnsToken(msg.Token):
			s.viewer, cmd = s.viewer.Update(msg)
		case s.editor.OwnsToken(msg.Token):
			s.editor, cmd = s.editor.Update(msg)
		}
	case tea.KeyPressMsg:
		cmd = s.handleKey(msg)
	case tea.PasteMsg:
		s.editor, cmd = s.editor.Update(msg)
	case tea.MouseClickMsg, tea.MouseReleaseMsg, tea.MouseMotionMsg, tea.MouseWheelMsg:
		cmd = s.handleMouse(msg.(tea.MouseMsg))
	default:
		var viewerCmd, editorCmd tea.Cmd
		s.viewer, viewerCmd = s.viewer.Update(msg)
		s.editor, editorCmd = s.editor.Update(msg)
		cmd = tea.Batch(viewerCmd, editorCmd)
	}
	return cmd
}

func (s *Session) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	var cmd tea.Cmd
	if s.editor.Editing() {
		s.editor, cmd = s.editor.Update(msg)
		return cmd
	}

	switch msg.String() {
	case "b":
		s.showBrief = !s.showBrief
		s.applyLayout()
	case "pgup", "pgdown", "J", "K":
		if s.showBrief {
			s.brief, cmd = s.brief.Update(msg)
		}
	case "+", "=", "-", "0", "left", "right", "up", "down", "h", "j", "k", "l":
		s.viewer, cmd = s.viewer.Update(msg)
	default:
		s.editor, cmd = s.editor.Update(msg)
	}
	return cmd
}

func (s *Session) handleMouse(msg tea.MouseMsg) tea.Cmd {
	m := msg.Mouse()
	var cmd tea.Cmd

	// Drags started on the image follow the pointer anywhere.
	if s.vp.Dragging() {
		switch msg.(type) {
		case tea.MouseMotionMsg, tea.MouseReleaseMsg:
			s.viewer, cmd = s.viewer.Update(translate(msg, s.layout.viewer))
			return cmd
		}
	}

	switch {
	case s.layout.viewer.contains(m.X, m.Y):
		s.viewer, cmd = s.viewer.Update(translate(msg, s.layout.viewer))
	case s.layout.editor.contains(m.X, m.Y):
		s.editor, cmd = s.editor.Update(translate(msg, s.layout.editor))
	case s.showBrief && s.layout.brief.contains(m.X, m.Y):
		s.brief, cmd = s.brief.Update(translate(msg, s.layout.brief))
	default:
		if _, ok := msg.(tea.MouseMotionMsg); ok {
			s.hl.Clear()
		}
	}
	return cmd
}

// ShowingBrief reports whether the brief panel is visible.
func (s *Session) ShowingBrief() bool {
	return s.showBrief
}
