package session

import (
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/khatt/internal/core/analysis"
	"github.com/colonyops/khatt/internal/core/geometry"
	"github.com/colonyops/khatt/internal/core/viewport"
	"github.com/colonyops/khatt/internal/tui/views/editor"
	"github.com/colonyops/khatt/internal/tui/views/viewer"
	"github.com/colonyops/khatt/pkg/debounce"
	"github.com/colonyops/khatt/pkg/tuitest"
)

func testResult(words ...string) analysis.Result {
	r := analysis.Result{IdentifiedFontStyle: "Naskh"}
	for i, w := range words {
		r.Words = append(r.Words, analysis.NewWord(w, geometry.BoundingBox{
			X: 0.5 - float64(i)*0.25, Y: 0, Width: 0.25, Height: 0.5,
		}))
	}
	return r
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	doc := analysis.Document{
		Key:    "/scans/page.png",
		Path:   "/scans/page.json",
		Result: testResult("كَتَبَ", "قلم"),
	}
	s := New(doc, Options{
		Editor: editor.Options{CommitDelay: 5 * time.Millisecond},
		Viewport: viewport.Options{
			WheelSettle: time.Millisecond,
		},
	})
	// 66-wide viewer panel: content starts at (1,2) and is 64x27.
	s.SetSize(120, 30)
	t.Cleanup(s.Close)
	return s
}

// send routes msgs through the session and returns every message their
// commands produced.
func send(s *Session, msgs ...tea.Msg) []tea.Msg {
	var out []tea.Msg
	for _, m := range msgs {
		out = append(out, tuitest.Exec(s.Update(m), 100*time.Millisecond)...)
	}
	return out
}

func firedMsgs(msgs []tea.Msg) []debounce.FiredMsg {
	var fired []debounce.FiredMsg
	for _, m := range msgs {
		if f, ok := m.(debounce.FiredMsg); ok {
			fired = append(fired, f)
		}
	}
	return fired
}

// The first word spans x in [0.5, 0.75) of the unit square, viewer columns
// 32..47. Screen (41, 7) is viewer cell (40, 5).
const hoverX, hoverY = 41, 7

func TestSession_ViewerHoverHighlightsWord(t *testing.T) {
	s := newTestSession(t)
	first := s.Document().Result.Words[0].ID

	send(s, tuitest.MouseMove(hoverX, hoverY))
	assert.True(t, s.Highlight().IsActive(first))

	send(s, tuitest.MouseMove(0, 0))
	_, ok := s.Highlight().Active()
	assert.False(t, ok, "leaving the panels clears the highlight")
}

func TestSession_EditLatchesHighlightUntilReplace(t *testing.T) {
	s := newTestSession(t)
	first := s.Document().Result.Words[0].ID

	send(s, tuitest.KeyPress('i'))
	require.True(t, s.Editing())
	send(s, tuitest.Type("x")...)

	for range 3 {
		send(s, tuitest.MouseMove(hoverX, hoverY))
		_, ok := s.Highlight().Active()
		assert.False(t, ok)
	}
	assert.False(t, s.Highlight().IsActive(first))

	s.Replace(testResult("حبر"))
	assert.False(t, s.Highlight().Suppressed(), "a new result resets the latch")
	assert.Equal(t, 1, s.History().Len())
	assert.False(t, s.Editing())

	send(s, tuitest.MouseMove(hoverX, hoverY))
	assert.True(t, s.Highlight().IsActive(s.Document().Result.Words[0].ID))
}

func TestSession_CommitTimerRoutesToEditor(t *testing.T) {
	s := newTestSession(t)

	send(s, tuitest.KeyPress('i'))
	fired := firedMsgs(send(s, tuitest.Type("x")...))
	require.Len(t, fired, 1)

	send(s, fired[0])
	assert.Equal(t, 2, s.History().Len())
}

func TestSession_ClosedIgnoresTimers(t *testing.T) {
	s := newTestSession(t)

	send(s, tuitest.KeyPress('i'))
	fired := firedMsgs(send(s, tuitest.Type("x")...))
	require.Len(t, fired, 1)

	s.Close()
	assert.True(t, s.Closed())
	assert.Nil(t, s.Update(fired[0]))
	assert.Equal(t, 1, s.History().Len())

	s.Update(tuitest.MouseMove(hoverX, hoverY))
	_, ok := s.Highlight().Active()
	assert.False(t, ok, "closed sessions do not route hover")

	s.Close()
}

func TestSession_WheelSettleRoutesToViewer(t *testing.T) {
	s := newTestSession(t)

	msgs := send(s, tuitest.WheelUp(hoverX, hoverY))
	assert.InDelta(t, 1.2, s.ViewportState().Scale, 1e-9)

	changed, ok := tuitest.Find[viewer.StateChangedMsg](msgs)
	require.True(t, ok)
	assert.Equal(t, s.ID(), changed.Owner)

	fired := firedMsgs(msgs)
	require.Len(t, fired, 1)
	send(s, fired[0])
	assert.Equal(t, 1, s.History().Len(), "viewer timers never commit text")
}

func TestSession_WheelOverEditorIgnored(t *testing.T) {
	s := newTestSession(t)
	send(s, tuitest.WheelUp(80, 10))
	assert.Equal(t, viewport.DefaultState(), s.ViewportState())
}

func TestSession_ReplaceKeepsViewport(t *testing.T) {
	s := newTestSession(t)
	send(s, tuitest.KeyPress('+'), tuitest.KeyPress('l'))
	before := s.ViewportState()
	require.NotEqual(t, viewport.DefaultState(), before)

	s.Replace(testResult("جديد"))
	assert.Equal(t, before, s.ViewportState())
	assert.Equal(t, "جديد", s.Text())
}

func TestSession_SetViewportState(t *testing.T) {
	s := newTestSession(t)
	st := viewport.State{Scale: 2, Position: viewport.Point{X: 4, Y: -3}}
	s.SetViewportState(st)
	assert.Equal(t, st, s.ViewportState())
}

func TestSession_Export(t *testing.T) {
	s := newTestSession(t)
	require.Equal(t, "كَتَبَ قلم", s.Text())

	assert.Equal(t, "كَتَبَ قلم", s.Export(false))
	assert.Equal(t, "كتب قلم", s.Export(true))

	doc := s.ExportText()
	assert.False(t, doc.Strip)
	assert.Equal(t, "كَتَبَ قلم\n", doc.Text())
	assert.Equal(t, "/scans/page.json", doc.Source)

	send(s, tuitest.KeyPress('d'))
	doc = s.ExportText()
	assert.True(t, doc.Strip)
	assert.Equal(t, "كتب قلم\n", doc.Text())
	assert.Equal(t, 1, s.History().Len(), "the display toggle is not an edit")
}

func TestSession_ExportIncludesPendingEdit(t *testing.T) {
	s := newTestSession(t)
	send(s, tuitest.KeyPress('i'))
	send(s, tuitest.Type("!")...)
	assert.Equal(t, "كَتَبَ قلم!", s.Export(false))
}

func TestSession_BriefToggle(t *testing.T) {
	s := newTestSession(t)
	assert.False(t, s.ShowingBrief())
	assert.Zero(t, s.layout.briefPanel.w)

	send(s, tuitest.KeyPress('b'))
	assert.True(t, s.ShowingBrief())
	assert.Positive(t, s.layout.briefPanel.w)
	assert.Contains(t, tuitest.StripANSI(s.View()), "Naskh")
}

func TestSession_View(t *testing.T) {
	s := newTestSession(t)
	out := tuitest.StripANSI(s.View())
	assert.Contains(t, out, "page.json")
	assert.Contains(t, out, "Text")
	assert.Contains(t, out, "قلم")
}

func TestComputeLayout(t *testing.T) {
	l := computeLayout(120, 30, true)
	assert.Equal(t, rect{x: 0, y: 0, w: 49, h: 30}, l.viewerPanel)
	assert.Equal(t, rect{x: 49, y: 0, w: 41, h: 30}, l.editorPanel)
	assert.Equal(t, rect{x: 90, y: 0, w: 30, h: 30}, l.briefPanel)
	assert.Equal(t, rect{x: 1, y: 2, w: 47, h: 27}, l.viewer)

	narrow := computeLayout(60, 20, true)
	assert.Zero(t, narrow.briefPanel.w, "too narrow for the brief")
	assert.Equal(t, 60, narrow.viewerPanel.w+narrow.editorPanel.w)

	assert.Equal(t, layout{}, computeLayout(0, 0, true))
}

func TestTranslate(t *testing.T) {
	r := rect{x: 10, y: 5}

	click := translate(tea.MouseClickMsg{X: 12, Y: 9, Button: tea.MouseLeft}, r).(tea.MouseClickMsg)
	assert.Equal(t, 2, click.X)
	assert.Equal(t, 4, click.Y)

	wheel := translate(tea.MouseWheelMsg{X: 10, Y: 5, Button: tea.MouseWheelUp}, r).(tea.MouseWheelMsg)
	assert.Equal(t, 0, wheel.X)
	assert.Equal(t, 0, wheel.Y)
}
