// Package viewer renders a scanned image with its word regions and drives the
// viewport controller from keyboard and mouse input.
package viewer

import (
	"fmt"
	"image"
	"math"
	"time"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/rs/zerolog/log"

	"github.com/colonyops/khatt/internal/core/analysis"
	"github.com/colonyops/khatt/internal/core/highlight"
	"github.com/colonyops/khatt/internal/core/styles"
	"github.com/colonyops/khatt/internal/core/viewport"
	"github.com/colonyops/khatt/pkg/debounce"
)

const (
	animInterval = 16 * time.Millisecond
	// easeFactor is the share of the remaining distance covered per tick.
	easeFactor = 0.35
	snapDelta  = 0.005
)

// StateChangedMsg is emitted after every viewport mutation.
type StateChangedMsg struct {
	Owner string
	State viewport.State
}

type animTickMsg struct {
	owner string
}

// Options tunes the viewer.
type Options struct {
	// PanStep is the number of cells moved per pan key.
	PanStep int
	// Smoothing eases keyboard zoom changes.
	Smoothing bool
}

// View is the Bubble Tea sub-model for the image panel.
type View struct {
	owner string
	ctrl  *viewport.Controller
	hl    *highlight.Coordinator
	words []analysis.Word
	opts  Options

	img       image.Image
	imgPath   string
	imgErr    error
	loading   bool
	display   float64 // eased scale used for rendering
	animating bool

	width  int
	height int
}

// New creates a viewer. owner tags the messages the viewer emits and accepts.
func New(owner string, ctrl *viewport.Controller, hl *highlight.Coordinator, words []analysis.Word, opts Options) View {
	if opts.PanStep < 1 {
		opts.PanStep = 1
	}
	return View{
		owner:   owner,
		ctrl:    ctrl,
		hl:      hl,
		words:   words,
		opts:    opts,
		display: ctrl.Scale(),
	}
}

// Load returns the command decoding the image at path.
func (v *View) Load(path string) tea.Cmd {
	v.imgPath = path
	v.loading = path != ""
	return LoadImage(v.owner, path)
}

// Init is a no-op; the owning session starts the image load.
func (v View) Init() tea.Cmd {
	return nil
}

// SetWords replaces the word regions.
func (v *View) SetWords(words []analysis.Word) {
	v.words = words
}

// SetHighlight swaps the coordinator, used when the analysis result is replaced.
func (v *View) SetHighlight(hl *highlight.Coordinator) {
	v.hl = hl
}

// SetSize sets the panel size in cells, including the status line.
func (v *View) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// Loading reports whether an image decode is in flight.
func (v View) Loading() bool {
	return v.loading
}

// Image returns the decoded image, or nil.
func (v View) Image() image.Image {
	return v.img
}

// DisplayScale returns the eased scale currently rendered.
func (v View) DisplayScale() float64 {
	return v.display
}

// Update handles messages for the viewer.
func (v View) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case ImageLoadedMsg:
		return v.handleImageLoaded(msg)
	case animTickMsg:
		if msg.owner != v.owner {
			return v, nil
		}
		return v.handleAnimTick()
	case debounce.FiredMsg:
		if v.ctrl.OwnsToken(msg.Token) && v.ctrl.WheelSettled(msg.Token) {
			cmd := v.startEasing()
			return v, cmd
		}
		return v, nil
	case tea.KeyPressMsg:
		return v.handleKey(msg)
	case tea.MouseWheelMsg:
		return v.handleWheel(msg)
	case tea.MouseClickMsg:
		if msg.Button == tea.MouseLeft {
			p := cellPoint(msg.X, msg.Y)
			v.ctrl.BeginDrag(p.X, p.Y)
		}
		return v, nil
	case tea.MouseMotionMsg:
		return v.handleMotion(msg)
	case tea.MouseReleaseMsg:
		if !v.ctrl.Dragging() {
			return v, nil
		}
		v.ctrl.EndDrag()
		cmd := tea.Batch(v.stateChanged(), v.startEasing())
		return v, cmd
	}
	return v, nil
}

func (v View) handleImageLoaded(msg ImageLoadedMsg) (View, tea.Cmd) {
	if msg.Owner != v.owner || msg.Path != v.imgPath {
		return v, nil
	}
	v.loading = false
	v.img = msg.Image
	v.imgErr = msg.Err
	if msg.Err != nil {
		log.Warn().Err(msg.Err).Str("image", msg.Path).Msg("image unavailable, rendering canvas")
	}
	return v, nil
}

func (v View) handleKey(msg tea.KeyPressMsg) (View, tea.Cmd) {
	step := float64(v.opts.PanStep)

	switch msg.String() {
	case "+", "=":
		v.ctrl.ZoomIn()
	case "-":
		v.ctrl.ZoomOut()
	case "0":
		v.ctrl.Reset()
	case "left", "h":
		v.ctrl.Pan(-step, 0)
	case "right", "l":
		v.ctrl.Pan(step, 0)
	case "up", "k":
		v.ctrl.Pan(0, -step*2)
	case "down", "j":
		v.ctrl.Pan(0, step*2)
	default:
		return v, nil
	}
	cmd := tea.Batch(v.stateChanged(), v.startEasing())
	return v, cmd
}

func (v View) handleWheel(msg tea.MouseWheelMsg) (View, tea.Cmd) {
	var cmd tea.Cmd
	switch msg.Button {
	case tea.MouseWheelUp:
		cmd = v.ctrl.OnWheel(-1)
	case tea.MouseWheelDown:
		cmd = v.ctrl.OnWheel(1)
	default:
		return v, nil
	}
	if cmd == nil {
		return v, nil
	}
	v.display = v.ctrl.Scale()
	return v, tea.Batch(cmd, v.stateChanged())
}

func (v View) handleMotion(msg tea.MouseMotionMsg) (View, tea.Cmd) {
	if msg.Button == tea.MouseLeft && v.ctrl.Dragging() {
		p := cellPoint(msg.X, msg.Y)
		v.ctrl.OnDrag(p.X, p.Y)
		return v, nil
	}
	v.Hover(msg.X, msg.Y)
	return v, nil
}

// Hover highlights the smallest region under the cell at x, y, or clears the
// highlight when there is none.
func (v View) Hover(x, y int) {
	if v.hl == nil || v.width <= 0 || v.frameRows() <= 0 {
		return
	}
	if x < 0 || y < 0 || x >= v.width || y >= v.frameRows() {
		v.hl.Clear()
		return
	}
	f := newFrame(v.width, v.frameRows(), v.img)
	if id, ok := hitTest(f, v.renderState(), v.words, x, y); ok {
		v.hl.Set(id)
		return
	}
	v.hl.Clear()
}

func (v View) stateChanged() tea.Cmd {
	msg := StateChangedMsg{Owner: v.owner, State: v.ctrl.State()}
	return func() tea.Msg { return msg }
}

// Snap renders the controller's current scale without easing, used after the
// state was replaced from outside.
func (v *View) Snap() {
	v.display = v.ctrl.Scale()
	v.animating = false
}

// startEasing snaps the rendered scale when easing is off and otherwise
// schedules animation ticks until it reaches the target.
func (v *View) startEasing() tea.Cmd {
	target := v.ctrl.Scale()
	if !v.opts.Smoothing || !v.ctrl.Smoothing() || math.Abs(target-v.display) < snapDelta {
		v.display = target
		v.animating = false
		return nil
	}
	if v.animating {
		return nil
	}
	v.animating = true
	return v.scheduleAnimTick()
}

func (v View) handleAnimTick() (View, tea.Cmd) {
	target := v.ctrl.Scale()
	if !v.opts.Smoothing || !v.ctrl.Smoothing() {
		v.display = target
		v.animating = false
		return v, nil
	}

	v.display += (target - v.display) * easeFactor
	if math.Abs(target-v.display) < snapDelta {
		v.display = target
		v.animating = false
		return v, nil
	}
	return v, v.scheduleAnimTick()
}

func (v View) scheduleAnimTick() tea.Cmd {
	owner := v.owner
	return tea.Tick(animInterval, func(time.Time) tea.Msg {
		return animTickMsg{owner: owner}
	})
}

func (v View) renderState() viewport.State {
	st := v.ctrl.State()
	st.Scale = v.display
	return st
}

func (v View) frameRows() int {
	return v.height - 1
}

// View renders the image frame and a status line.
func (v View) View() string {
	if v.width <= 0 || v.height <= 0 {
		return ""
	}
	if v.frameRows() <= 0 {
		return v.statusLine()
	}

	f := newFrame(v.width, v.frameRows(), v.img)
	st := v.renderState()
	r := rasterize(f, st, v.img, toRGBA(styles.ColorCanvas), toRGBA(styles.ColorBackground))

	active := ""
	if v.hl != nil {
		active, _ = v.hl.Active()
	}
	drawRegions(r, st, v.words, active, toRGBA(styles.ColorRegion), toRGBA(styles.ColorHighlight))

	return lipgloss.JoinVertical(lipgloss.Left, r.render(), v.statusLine())
}

func (v View) statusLine() string {
	var label string
	switch {
	case v.loading:
		label = styles.IconImage + " loading image"
	case v.imgErr != nil:
		label = styles.IconNoImage + " image unavailable"
	case v.img == nil:
		label = styles.IconNoImage + " no image"
	default:
		b := v.img.Bounds()
		label = fmt.Sprintf("%s %dx%d", styles.IconImage, b.Dx(), b.Dy())
	}

	st := v.ctrl.State()
	line := fmt.Sprintf("%s  %3.0f%%  %+.0f,%+.0f  %s",
		label,
		st.Scale*100,
		st.Position.X, st.Position.Y,
		styles.StatusKeyStyle.Render("+/-")+" zoom "+styles.StatusKeyStyle.Render("0")+" reset",
	)
	return styles.StatusMutedStyle.Render(ansi.Truncate(line, v.width, "…"))
}
