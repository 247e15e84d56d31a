// Package editor renders the reconstructed text of a result and owns its edit
// history: token navigation before the first edit, a textarea afterwards.
package editor

import (
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/rs/zerolog"

	"github.com/colonyops/khatt/internal/core/highlight"
	"github.com/colonyops/khatt/internal/core/history"
	"github.com/colonyops/khatt/internal/core/logging"
	"github.com/colonyops/khatt/internal/core/metrics"
	"github.com/colonyops/khatt/internal/core/reconstruct"
	"github.com/colonyops/khatt/internal/core/styles"
	"github.com/colonyops/khatt/internal/core/textnorm"
	"github.com/colonyops/khatt/pkg/debounce"
)

// DefaultCommitDelay is the quiet period after which raw edits are committed.
const DefaultCommitDelay = 500 * time.Millisecond

// Options tunes the editor.
type Options struct {
	CommitDelay     time.Duration
	StripDiacritics bool
}

// View is the Bubble Tea sub-model for the text panel.
type View struct {
	hl     *highlight.Coordinator
	hist   *history.Store
	buf    reconstruct.Buffer
	commit *debounce.Debouncer
	area   textarea.Model
	log    zerolog.Logger

	editing bool
	strip   bool
	cursor  int // token cursor, -1 when unset

	stats      metrics.Stats
	statsGen   uint64
	statsStale bool

	width  int
	height int
}

// New creates an editor over a reconstructed buffer and its history.
func New(buf reconstruct.Buffer, hist *history.Store, hl *highlight.Coordinator, opts Options) View {
	if opts.CommitDelay <= 0 {
		opts.CommitDelay = DefaultCommitDelay
	}

	area := textarea.New()
	area.ShowLineNumbers = false
	area.MaxHeight = 0
	area.Prompt = ""
	area.SetValue(hist.Current())

	return View{
		hl:     hl,
		hist:   hist,
		buf:    buf,
		commit: debounce.New(opts.CommitDelay),
		area:   area,
		log:    logging.Component("editor"),
		strip:  opts.StripDiacritics,
		cursor: -1,
	}
}

// Init is a no-op.
func (v View) Init() tea.Cmd {
	return nil
}

// SetSize sets the panel size in cells, including the status line.
func (v *View) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.area.SetWidth(max(width, 1))
	v.area.SetHeight(max(height-1, 1))
}

// SetLogger replaces the editor logger, typically with one carrying session
// context.
func (v *View) SetLogger(l zerolog.Logger) {
	v.log = l
}

// Editing reports whether the textarea has focus.
func (v View) Editing() bool {
	return v.editing
}

// Stripped reports whether the diacritics display transform is on.
func (v View) Stripped() bool {
	return v.strip
}

// Buffer returns the current buffer.
func (v View) Buffer() reconstruct.Buffer {
	return v.buf
}

// Pending reports whether raw edits are waiting to be committed.
func (v View) Pending() bool {
	return v.commit.Pending()
}

// Text returns the live text, including edits not yet committed.
func (v View) Text() string {
	if v.editing {
		return v.area.Value()
	}
	return v.hist.Current()
}

// DisplayText returns Text with the display transform applied.
func (v View) DisplayText() string {
	if v.strip {
		return textnorm.StripDiacritics(v.Text())
	}
	return v.Text()
}

// StatsMsg carries error rates computed off the update loop.
type StatsMsg struct {
	Owner string
	Gen   uint64
	Stats metrics.Stats
}

// Stats returns the edit distance of the committed text from the
// reconstruction, as of the last completed StatsMsg.
func (v View) Stats() metrics.Stats {
	return v.stats
}

// OwnsToken reports whether tok belongs to the commit debouncer.
func (v View) OwnsToken(tok debounce.Token) bool {
	return v.commit.Owns(tok)
}

// Close cancels the commit timer permanently. Pending edits are dropped.
func (v *View) Close() {
	v.commit.Dispose()
	v.area.Blur()
	v.editing = false
}

// Flush commits pending edits immediately.
func (v *View) Flush() {
	if v.commit.Flush() {
		v.commitText(v.area.Value())
	}
}

// Update handles messages for the editor.
func (v View) Update(msg tea.Msg) (View, tea.Cmd) {
	v, cmd := v.update(msg)
	if v.statsStale {
		v.statsStale = false
		cmd = tea.Batch(cmd, v.statsCmd())
	}
	return v, cmd
}

func (v View) update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case StatsMsg:
		if msg.Owner == v.commit.ID() && msg.Gen == v.statsGen {
			v.stats = msg.Stats
		}
		return v, nil
	case debounce.FiredMsg:
		if v.commit.Owns(msg.Token) && v.commit.Fire(msg.Token) {
			v.commitText(v.area.Value())
		}
		return v, nil
	case tea.KeyPressMsg:
		if v.editing {
			return v.handleEditKey(msg)
		}
		return v.handleNormalKey(msg)
	case tea.PasteMsg:
		if v.editing {
			return v.updateArea(msg)
		}
		return v, nil
	case tea.MouseMotionMsg:
		if !v.editing {
			v.Hover(msg.X, msg.Y)
		}
		return v, nil
	}

	// Cursor blinks and other textarea internals.
	if v.editing {
		var cmd tea.Cmd
		v.area, cmd = v.area.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v View) handleNormalKey(msg tea.KeyPressMsg) (View, tea.Cmd) {
	switch msg.String() {
	case "tab":
		v.moveCursor(1)
	case "shift+tab":
		v.moveCursor(-1)
	case "i", "enter":
		if v.strip {
			return v, nil
		}
		v.area.SetValue(v.hist.Current())
		v.area.MoveToEnd()
		v.editing = true
		return v, v.area.Focus()
	case "ctrl+z":
		v.undo()
	case "ctrl+y":
		v.redo()
	case "d":
		v.strip = !v.strip
		v.log.Debug().Bool("strip", v.strip).Msg("diacritics display toggled")
	}
	return v, nil
}

func (v View) handleEditKey(msg tea.KeyPressMsg) (View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.Flush()
		v.area.Blur()
		v.editing = false
		return v, nil
	case "ctrl+z":
		v.undo()
		return v, nil
	case "ctrl+y":
		v.redo()
		return v, nil
	}
	return v.updateArea(msg)
}

// updateArea forwards input to the textarea and treats any change of value as
// a raw edit.
func (v View) updateArea(msg tea.Msg) (View, tea.Cmd) {
	before := v.area.Value()

	var cmd tea.Cmd
	v.area, cmd = v.area.Update(msg)

	after := v.area.Value()
	if after == before {
		return v, cmd
	}

	v.hist.MarkDirty()
	if v.hl != nil {
		v.hl.Suppress()
	}
	v.buf = v.buf.Collapse(after)
	v.cursor = -1

	return v, tea.Batch(cmd, v.commit.Cmd())
}

func (v *View) commitText(text string) {
	if v.hist.Commit(text) {
		v.log.Debug().
			Int("cursor", v.hist.Cursor()).
			Int("len", v.hist.Len()).
			Msg("history commit")
	}
	v.statsStale = true
}

// statsCmd measures the committed text in a command. Only the result of the
// latest request is applied.
func (v *View) statsCmd() tea.Cmd {
	v.statsGen++
	msg := StatsMsg{Owner: v.commit.ID(), Gen: v.statsGen}
	initial, current := v.hist.Initial(), v.hist.Current()
	return func() tea.Msg {
		msg.Stats = metrics.Compare(initial, current)
		return msg
	}
}

func (v *View) undo() {
	v.Flush()
	if text, ok := v.hist.Undo(); ok {
		v.restore(text, "undo")
	}
}

func (v *View) redo() {
	v.Flush()
	if text, ok := v.hist.Redo(); ok {
		v.restore(text, "redo")
	}
}

func (v *View) restore(text, action string) {
	v.area.SetValue(text)
	v.buf = v.buf.Collapse(text)
	v.cursor = -1
	v.statsStale = true
	v.log.Debug().Str("action", action).Int("cursor", v.hist.Cursor()).Msg("history moved")
}

// moveCursor steps the token cursor and highlights the token under it.
func (v *View) moveCursor(delta int) {
	toks := v.buf.Tokens()
	if len(toks) == 0 {
		return
	}
	switch {
	case v.cursor < 0 && delta > 0:
		v.cursor = 0
	case v.cursor < 0:
		v.cursor = len(toks) - 1
	default:
		v.cursor = (v.cursor + delta + len(toks)) % len(toks)
	}
	if v.hl != nil {
		v.hl.Set(toks[v.cursor].WordID)
	}
}

// Hover highlights the token under the cell at x, y in tokenized mode.
func (v View) Hover(x, y int) {
	if v.hl == nil || v.buf.Kind() != reconstruct.Tokenized {
		return
	}
	if tok, ok := v.tokenAtCell(x, y); ok {
		v.hl.Set(tok.WordID)
		return
	}
	v.hl.Clear()
}

func (v View) tokenAtCell(x, y int) (reconstruct.Token, bool) {
	line := v.scrollOffset() + y
	lines := v.buf.Lines()
	if y < 0 || line >= len(lines) {
		return reconstruct.Token{}, false
	}
	col, ok := cellToByte(lines[line].Text(), x)
	if !ok {
		return reconstruct.Token{}, false
	}
	return v.buf.TokenAt(line, col)
}

// cellToByte converts a display column into a byte offset of s.
func cellToByte(s string, x int) (int, bool) {
	if x < 0 {
		return 0, false
	}
	cells := 0
	for i, r := range s {
		w := ansi.StringWidth(string(r))
		if x < cells+w {
			return i, true
		}
		cells += w
	}
	return 0, false
}

func (v View) bodyRows() int {
	return max(v.height-1, 0)
}

// scrollOffset keeps the token cursor visible.
func (v View) scrollOffset() int {
	rows := v.bodyRows()
	if v.cursor < 0 || rows == 0 {
		return 0
	}
	toks := v.buf.Tokens()
	if v.cursor >= len(toks) {
		return 0
	}
	return max(toks[v.cursor].Line-rows+1, 0)
}

// View renders the panel body and a status line.
func (v View) View() string {
	if v.width <= 0 || v.height <= 0 {
		return ""
	}

	var body string
	switch {
	case v.editing:
		body = v.area.View()
	case v.strip:
		body = styles.ReadOnlyStyle.Render(v.clip(textnorm.StripDiacritics(v.hist.Current())))
	case v.buf.Kind() == reconstruct.Tokenized:
		body = v.renderTokens()
	default:
		body = styles.TokenStyle.Render(v.clip(v.hist.Current()))
	}

	body = lipgloss.NewStyle().Width(v.width).Height(v.bodyRows()).MaxHeight(v.bodyRows()).Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, body, v.statusLine())
}

func (v View) clip(text string) string {
	lines := strings.Split(text, "\n")
	if rows := v.bodyRows(); len(lines) > rows {
		lines = lines[:rows]
	}
	for i, l := range lines {
		lines[i] = ansi.Truncate(l, v.width, "…")
	}
	return strings.Join(lines, "\n")
}

func (v View) renderTokens() string {
	lines := v.buf.Lines()
	if len(lines) == 0 {
		return styles.StatusMutedStyle.Render("no words recognized")
	}

	cursorID := ""
	if toks := v.buf.Tokens(); v.cursor >= 0 && v.cursor < len(toks) {
		cursorID = toks[v.cursor].WordID
	}

	offset := v.scrollOffset()
	end := min(offset+v.bodyRows(), len(lines))

	rendered := make([]string, 0, end-offset)
	for _, line := range lines[offset:end] {
		parts := make([]string, len(line.Tokens))
		for i, t := range line.Tokens {
			style := styles.TokenStyle
			switch {
			case v.hl != nil && v.hl.IsActive(t.WordID):
				style = styles.TokenActiveStyle
			case t.WordID == cursorID:
				style = styles.TokenCursorStyle
			}
			parts[i] = style.Render(t.Text)
		}
		rendered = append(rendered, ansi.Truncate(strings.Join(parts, " "), v.width, "…"))
	}
	return strings.Join(rendered, "\n")
}

func (v View) statusLine() string {
	var parts []string

	switch {
	case v.editing:
		parts = append(parts, styles.StatusKeyStyle.Render("EDIT"))
	case v.strip:
		parts = append(parts, styles.ReadOnlyStyle.Render("read-only"))
	}

	if v.hist.IsEdited() || v.commit.Pending() {
		parts = append(parts, styles.StatusEditedStyle.Render(styles.IconEdited+" edited"))
	}

	undo, redo := styles.StatusMutedStyle, styles.StatusMutedStyle
	if v.hist.CanUndo() {
		undo = styles.StatusKeyStyle
	}
	if v.hist.CanRedo() {
		redo = styles.StatusKeyStyle
	}
	parts = append(parts,
		undo.Render(styles.IconUndo),
		redo.Render(styles.IconRedo),
		fmt.Sprintf("%d/%d", v.hist.Cursor()+1, v.hist.Len()),
	)

	if v.stats.Changed() {
		parts = append(parts, fmt.Sprintf("CER %.1f%% WER %.1f%%", v.stats.CER*100, v.stats.WER*100))
	}
	if v.strip {
		parts = append(parts, "no diacritics")
	}

	line := strings.Join(parts, "  ")
	return styles.StatusMutedStyle.Render(ansi.Truncate(line, v.width, "…"))
}
