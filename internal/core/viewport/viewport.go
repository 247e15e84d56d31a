// Package viewport holds the pan and zoom state of the image viewer.
//
// The transform scales about the frame centre and then translates by the
// position: screen = centre + scale*(p - centre) + position. Positions are in
// frame units and unbounded; scale is clamped to [MinScale, MaxScale].
package viewport

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/khatt/internal/core/logging"
	"github.com/colonyops/khatt/pkg/debounce"
)

const (
	ZoomStep    = 1.2
	MinScale    = 0.5
	MaxScale    = 5.0
	WheelSettle = 150 * time.Millisecond
)

// Point is a position in frame units.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// State is the persisted part of a viewport.
type State struct {
	Scale    float64 `json:"scale"    yaml:"scale"`
	Position Point   `json:"position" yaml:"position"`
}

// DefaultState is the identity transform.
func DefaultState() State {
	return State{Scale: 1}
}

// Options tunes a Controller. Zero fields fall back to the package defaults.
type Options struct {
	ZoomStep    float64
	WheelSettle time.Duration
}

// Controller owns a State and the gesture flags around it.
type Controller struct {
	state    State
	step     float64
	dragging bool
	anchor   Point
	wheel    *debounce.Debouncer
}

// New creates a controller at DefaultState.
func New(opts Options) *Controller {
	if opts.ZoomStep <= 1 {
		opts.ZoomStep = ZoomStep
	}
	if opts.WheelSettle <= 0 {
		opts.WheelSettle = WheelSettle
	}
	return &Controller{
		state: DefaultState(),
		step:  opts.ZoomStep,
		wheel: debounce.New(opts.WheelSettle),
	}
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// SetState replaces the state, clamping the scale into bounds. A zero scale
// is treated as 1.
func (c *Controller) SetState(s State) {
	if s.Scale == 0 {
		s.Scale = 1
	}
	s.Scale = clampScale(s.Scale)
	c.state = s
}

// Scale returns the current scale.
func (c *Controller) Scale() float64 {
	return c.state.Scale
}

func (c *Controller) ZoomIn() {
	c.state.Scale = min(c.state.Scale*c.step, MaxScale)
	c.logChange("zoom in")
}

func (c *Controller) ZoomOut() {
	c.state.Scale = max(c.state.Scale/c.step, MinScale)
	c.logChange("zoom out")
}

// Reset returns to scale 1 at the origin.
func (c *Controller) Reset() {
	c.state = DefaultState()
	c.logChange("reset")
}

// OnWheel zooms one step per event: negative deltaY zooms in, positive zooms
// out. It returns the command that settles the wheel burst, or nil when the
// event was ignored.
func (c *Controller) OnWheel(deltaY float64) tea.Cmd {
	switch {
	case deltaY < 0:
		c.ZoomIn()
	case deltaY > 0:
		c.ZoomOut()
	default:
		return nil
	}
	return c.wheel.Cmd()
}

// WheelSettled consumes a wheel settle token. It reports whether the token
// ended the current burst.
func (c *Controller) WheelSettled(tok debounce.Token) bool {
	return c.wheel.Fire(tok)
}

// OwnsToken reports whether tok belongs to this controller's wheel debouncer.
func (c *Controller) OwnsToken(tok debounce.Token) bool {
	return c.wheel.Owns(tok)
}

// BeginDrag anchors a drag at the pointer position.
func (c *Controller) BeginDrag(px, py float64) {
	c.dragging = true
	c.anchor = Point{X: px - c.state.Position.X, Y: py - c.state.Position.Y}
}

// OnDrag moves the image with the pointer. Ignored when not dragging.
func (c *Controller) OnDrag(px, py float64) {
	if !c.dragging {
		return
	}
	c.state.Position = Point{X: px - c.anchor.X, Y: py - c.anchor.Y}
}

// EndDrag stops dragging. Safe to call when not dragging.
func (c *Controller) EndDrag() {
	if c.dragging {
		c.logChange("drag end")
	}
	c.dragging = false
}

// Dragging reports whether a drag is in progress.
func (c *Controller) Dragging() bool {
	return c.dragging
}

// Pan moves the position by a fixed offset, as one begin/drag/end sequence.
// It is ignored while a pointer drag owns the position.
func (c *Controller) Pan(dx, dy float64) {
	if c.dragging {
		return
	}
	c.BeginDrag(0, 0)
	c.OnDrag(dx, dy)
	c.EndDrag()
}

// Smoothing reports whether rendered scale changes should be eased. It is off
// while dragging and during an unsettled wheel burst.
func (c *Controller) Smoothing() bool {
	return !c.dragging && !c.wheel.Pending()
}

// Close cancels the wheel settle timer permanently.
func (c *Controller) Close() {
	c.wheel.Dispose()
}

// ToScreen maps a frame point p to screen space for a frame of the given size.
func (c *Controller) ToScreen(p Point, width, height float64) Point {
	return Transform(c.state, p, width, height)
}

// ToImage is the inverse of ToScreen.
func (c *Controller) ToImage(p Point, width, height float64) Point {
	return Inverse(c.state, p, width, height)
}

// Transform applies s to p within a frame of the given size.
func Transform(s State, p Point, width, height float64) Point {
	cx, cy := width/2, height/2
	return Point{
		X: cx + s.Scale*(p.X-cx) + s.Position.X,
		Y: cy + s.Scale*(p.Y-cy) + s.Position.Y,
	}
}

// Inverse maps a screen point back into frame space.
func Inverse(s State, p Point, width, height float64) Point {
	scale := s.Scale
	if scale == 0 {
		scale = 1
	}
	cx, cy := width/2, height/2
	return Point{
		X: cx + (p.X-s.Position.X-cx)/scale,
		Y: cy + (p.Y-s.Position.Y-cy)/scale,
	}
}

func clampScale(v float64) float64 {
	return min(max(v, MinScale), MaxScale)
}

func (c *Controller) logChange(action string) {
	l := logging.Component("viewport")
	l.Debug().
		Str("action", action).
		Float64("scale", c.state.Scale).
		Float64("x", c.state.Position.X).
		Float64("y", c.state.Position.Y).
		Msg("viewport changed")
}
