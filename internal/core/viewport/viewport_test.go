package viewport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/khatt/pkg/debounce"
)

func TestController_Defaults(t *testing.T) {
	c := New(Options{})
	assert.Equal(t, State{Scale: 1}, c.State())
	assert.True(t, c.Smoothing())
	assert.False(t, c.Dragging())
}

func TestController_ZoomStaysInBounds(t *testing.T) {
	c := New(Options{})

	for range 50 {
		c.ZoomIn()
		assert.LessOrEqual(t, c.Scale(), MaxScale)
	}
	assert.Equal(t, MaxScale, c.Scale())

	for range 50 {
		c.ZoomOut()
		assert.GreaterOrEqual(t, c.Scale(), MinScale)
	}
	assert.Equal(t, MinScale, c.Scale())

	ops := []func(){c.ZoomIn, c.ZoomOut, c.ZoomIn, c.ZoomIn, c.Reset, c.ZoomOut}
	for i := range 200 {
		ops[(i*7)%len(ops)]()
		assert.GreaterOrEqual(t, c.Scale(), MinScale)
		assert.LessOrEqual(t, c.Scale(), MaxScale)
	}
}

func TestController_ZoomStep(t *testing.T) {
	c := New(Options{})
	c.ZoomIn()
	assert.InDelta(t, 1.2, c.Scale(), 1e-12)
	c.ZoomOut()
	assert.InDelta(t, 1.0, c.Scale(), 1e-12)

	custom := New(Options{ZoomStep: 2})
	custom.ZoomIn()
	assert.InDelta(t, 2.0, custom.Scale(), 1e-12)
}

func TestController_Reset(t *testing.T) {
	c := New(Options{})
	c.ZoomIn()
	c.Pan(10, -4)
	c.Reset()
	assert.Equal(t, DefaultState(), c.State())
}

func TestController_PanDuringDragIgnored(t *testing.T) {
	c := New(Options{})
	c.BeginDrag(5, 5)
	c.OnDrag(7, 5)

	c.Pan(10, 0)
	assert.True(t, c.Dragging(), "the pointer drag continues")
	assert.Equal(t, Point{X: 2, Y: 0}, c.State().Position)

	c.OnDrag(8, 6)
	assert.Equal(t, Point{X: 3, Y: 1}, c.State().Position, "anchor is unchanged")
	c.EndDrag()

	c.Pan(1, 1)
	assert.Equal(t, Point{X: 4, Y: 2}, c.State().Position)
}

func TestController_OnWheel(t *testing.T) {
	c := New(Options{WheelSettle: time.Millisecond})

	cmd := c.OnWheel(-3)
	require.NotNil(t, cmd)
	assert.InDelta(t, 1.2, c.Scale(), 1e-12, "one step per event regardless of delta")
	assert.False(t, c.Smoothing(), "smoothing is off during a wheel burst")

	c.OnWheel(1)
	assert.InDelta(t, 1.0, c.Scale(), 1e-12)

	assert.Nil(t, c.OnWheel(0))
	assert.InDelta(t, 1.0, c.Scale(), 1e-12)

	msg, ok := cmd().(debounce.FiredMsg)
	require.True(t, ok)
	assert.True(t, c.OwnsToken(msg.Token))
	assert.False(t, c.WheelSettled(msg.Token), "superseded by the second wheel event")
	assert.False(t, c.Smoothing())
}

func TestController_WheelSettles(t *testing.T) {
	c := New(Options{WheelSettle: time.Millisecond})

	cmd := c.OnWheel(-1)
	msg := cmd().(debounce.FiredMsg)

	assert.True(t, c.WheelSettled(msg.Token))
	assert.True(t, c.Smoothing())
}

func TestController_CloseIgnoresPendingSettle(t *testing.T) {
	c := New(Options{WheelSettle: time.Millisecond})
	cmd := c.OnWheel(-1)
	c.Close()

	msg := cmd().(debounce.FiredMsg)
	assert.False(t, c.WheelSettled(msg.Token))
	assert.Nil(t, c.OnWheel(-1), "no timers after close")
}

func TestController_Drag(t *testing.T) {
	c := New(Options{})

	c.OnDrag(50, 50)
	assert.Equal(t, Point{}, c.State().Position, "drag ignored before begin")

	c.BeginDrag(10, 10)
	assert.True(t, c.Dragging())
	assert.False(t, c.Smoothing())

	c.OnDrag(15, 7)
	assert.Equal(t, Point{X: 5, Y: -3}, c.State().Position)

	c.OnDrag(1000, -1000)
	assert.Equal(t, Point{X: 990, Y: -1010}, c.State().Position, "position is unbounded")

	c.EndDrag()
	c.EndDrag()
	assert.False(t, c.Dragging())

	c.BeginDrag(0, 0)
	c.OnDrag(10, 10)
	c.EndDrag()
	assert.Equal(t, Point{X: 1000, Y: -1000}, c.State().Position, "second drag continues from the last position")
}

func TestController_SetState(t *testing.T) {
	c := New(Options{})

	c.SetState(State{Scale: 9, Position: Point{X: 3, Y: 4}})
	assert.Equal(t, State{Scale: MaxScale, Position: Point{X: 3, Y: 4}}, c.State())

	c.SetState(State{Scale: 0.1})
	assert.Equal(t, MinScale, c.Scale())

	c.SetState(State{})
	assert.Equal(t, 1.0, c.Scale())
}

func TestTransform_RoundTrip(t *testing.T) {
	c := New(Options{})
	c.SetState(State{Scale: 2, Position: Point{X: 5, Y: -2}})

	centre := c.ToScreen(Point{X: 50, Y: 25}, 100, 50)
	assert.Equal(t, Point{X: 55, Y: 23}, centre, "the frame centre only translates")

	corner := c.ToScreen(Point{X: 0, Y: 0}, 100, 50)
	assert.Equal(t, Point{X: -45, Y: -27}, corner)

	back := c.ToImage(corner, 100, 50)
	assert.InDelta(t, 0, back.X, 1e-9)
	assert.InDelta(t, 0, back.Y, 1e-9)
}
