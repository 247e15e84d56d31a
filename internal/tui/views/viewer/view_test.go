package viewer

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/khatt/internal/core/analysis"
	"github.com/colonyops/khatt/internal/core/geometry"
	"github.com/colonyops/khatt/internal/core/highlight"
	"github.com/colonyops/khatt/internal/core/viewport"
	"github.com/colonyops/khatt/pkg/debounce"
	"github.com/colonyops/khatt/pkg/tuitest"
)

func word(id string, x, y, w, h float64) analysis.Word {
	return analysis.Word{ID: id, Text: id, BoundingBox: geometry.BoundingBox{X: x, Y: y, Width: w, Height: h}}
}

func newTestView(opts Options, words ...analysis.Word) (View, *viewport.Controller, *highlight.Coordinator) {
	ctrl := viewport.New(viewport.Options{WheelSettle: time.Millisecond})
	hl := highlight.New()
	v := New("s1", ctrl, hl, words, opts)
	// 20x10 frame plus the status line; without an image the unit square
	// covers the whole 20x20 pixel grid.
	v.SetSize(20, 11)
	return v, ctrl, hl
}

func TestView_ZoomKeys(t *testing.T) {
	tests := []struct {
		name string
		keys []rune
		want float64
	}{
		{name: "plus", keys: []rune{'+'}, want: 1.2},
		{name: "equals", keys: []rune{'='}, want: 1.2},
		{name: "minus", keys: []rune{'-'}, want: 1 / 1.2},
		{name: "reset", keys: []rune{'+', '+', '0'}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ctrl, _ := newTestView(Options{})
			var cmd tea.Cmd
			for _, k := range tt.keys {
				v, cmd = v.Update(tuitest.KeyPress(k))
				assert.NotNil(t, cmd, "zoom keys emit a state change")
			}
			assert.InDelta(t, tt.want, ctrl.Scale(), 1e-9)
			assert.InDelta(t, tt.want, v.DisplayScale(), 1e-9, "snaps without smoothing")
		})
	}
}

func TestView_PanKeys(t *testing.T) {
	v, ctrl, _ := newTestView(Options{PanStep: 2})

	v, _ = v.Update(tuitest.KeyPress('l'))
	v, _ = v.Update(tuitest.KeyPress('j'))
	assert.Equal(t, viewport.Point{X: 2, Y: 4}, ctrl.State().Position)

	v, _ = v.Update(tuitest.KeyPress('h'))
	_, _ = v.Update(tuitest.KeyPress('k'))
	assert.Equal(t, viewport.Point{}, ctrl.State().Position)
}

func TestView_UnknownKeyIgnored(t *testing.T) {
	v, ctrl, _ := newTestView(Options{})
	_, cmd := v.Update(tuitest.KeyPress('x'))
	assert.Nil(t, cmd)
	assert.Equal(t, viewport.DefaultState(), ctrl.State())
}

func TestView_SmoothingEasesToTarget(t *testing.T) {
	v, ctrl, _ := newTestView(Options{Smoothing: true})

	v, _ = v.Update(tuitest.KeyPress('+'))
	assert.InDelta(t, 1.0, v.DisplayScale(), 1e-9, "rendered scale starts at the old value")

	for range 50 {
		v, _ = v.Update(animTickMsg{owner: "s1"})
	}
	assert.InDelta(t, ctrl.Scale(), v.DisplayScale(), 1e-9)
}

func TestView_AnimTickForOtherOwnerIgnored(t *testing.T) {
	v, _, _ := newTestView(Options{Smoothing: true})
	v, _ = v.Update(tuitest.KeyPress('+'))

	v, cmd := v.Update(animTickMsg{owner: "other"})
	assert.Nil(t, cmd)
	assert.InDelta(t, 1.0, v.DisplayScale(), 1e-9)
}

func TestView_WheelSnapsAndSettles(t *testing.T) {
	v, ctrl, _ := newTestView(Options{Smoothing: true})

	v, cmd := v.Update(tuitest.WheelUp(3, 3))
	require.NotNil(t, cmd)
	assert.InDelta(t, 1.2, ctrl.Scale(), 1e-9)
	assert.InDelta(t, 1.2, v.DisplayScale(), 1e-9, "no easing during a wheel burst")
	assert.False(t, ctrl.Smoothing())

	v, _ = v.Update(tuitest.WheelDown(3, 3))
	assert.InDelta(t, 1.0, ctrl.Scale(), 1e-9)

	settle := ctrl.OnWheel(-1)
	msg := settle().(debounce.FiredMsg)
	_, _ = v.Update(msg)
	assert.True(t, ctrl.Smoothing(), "settled wheel re-enables smoothing")
}

func TestView_Drag(t *testing.T) {
	v, ctrl, _ := newTestView(Options{})

	v, _ = v.Update(tuitest.MouseClick(10, 5))
	assert.True(t, ctrl.Dragging())

	v, _ = v.Update(tuitest.MouseDrag(13, 7))
	assert.Equal(t, viewport.Point{X: 3, Y: 4}, ctrl.State().Position)

	_, cmd := v.Update(tuitest.MouseRelease(13, 7))
	assert.False(t, ctrl.Dragging())
	require.NotNil(t, cmd)
}

func TestView_HoverPicksSmallestRegion(t *testing.T) {
	v, _, hl := newTestView(Options{},
		word("big", 0, 0, 0.5, 0.5),
		word("small", 0.05, 0.05, 0.15, 0.15),
		word("other", 0.5, 0.5, 0.5, 0.5),
	)

	tests := []struct {
		name string
		x, y int
		want string
	}{
		{name: "nested", x: 2, y: 1, want: "small"},
		{name: "outer only", x: 7, y: 3, want: "big"},
		{name: "second region", x: 15, y: 8, want: "other"},
		{name: "outside regions", x: 15, y: 1, want: ""},
		{name: "outside frame", x: 30, y: 1, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, _ = v.Update(tuitest.MouseMove(tt.x, tt.y))
			got, _ := hl.Active()
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestView_HoverFollowsViewport(t *testing.T) {
	v, ctrl, hl := newTestView(Options{}, word("w", 0, 0, 0.25, 0.25))

	v.Hover(2, 1)
	assert.True(t, hl.IsActive("w"))

	ctrl.Pan(10, 10)
	v.Hover(2, 1)
	assert.False(t, hl.IsActive("w"), "the region moved away from the pointer")

	v.Hover(12, 6)
	assert.True(t, hl.IsActive("w"))
}

func TestView_HoverIgnoredWhenSuppressed(t *testing.T) {
	v, _, hl := newTestView(Options{}, word("w", 0, 0, 1, 1))
	hl.Suppress()

	_, _ = v.Update(tuitest.MouseMove(5, 5))
	_, ok := hl.Active()
	assert.False(t, ok)
}

func TestView_ImageLoaded(t *testing.T) {
	v, _, _ := newTestView(Options{})
	_ = v.Load("scan.png")
	assert.True(t, v.Loading())

	img := image.NewRGBA(image.Rect(0, 0, 40, 20))

	v, _ = v.Update(ImageLoadedMsg{Owner: "other", Path: "scan.png", Image: img})
	assert.True(t, v.Loading(), "other owner ignored")

	v, _ = v.Update(ImageLoadedMsg{Owner: "s1", Path: "stale.png", Image: img})
	assert.True(t, v.Loading(), "stale path ignored")

	v, _ = v.Update(ImageLoadedMsg{Owner: "s1", Path: "scan.png", Image: img})
	assert.False(t, v.Loading())
	assert.Equal(t, img, v.Image())
}

func TestLoadImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scan.png")

	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	msg := LoadImage("s1", path)().(ImageLoadedMsg)
	require.NoError(t, msg.Err)
	assert.Equal(t, "s1", msg.Owner)
	assert.Equal(t, image.Rect(0, 0, 4, 3), msg.Image.Bounds())

	missing := LoadImage("s1", filepath.Join(dir, "missing.png"))().(ImageLoadedMsg)
	require.Error(t, missing.Err)
	assert.Nil(t, missing.Image)

	empty := LoadImage("s1", "")().(ImageLoadedMsg)
	require.NoError(t, empty.Err)
	assert.Nil(t, empty.Image)
}

func TestView_Render(t *testing.T) {
	v, _, hl := newTestView(Options{}, word("w", 0.1, 0.1, 0.3, 0.3))
	v.SetSize(40, 6)
	hl.Set("w")

	out := tuitest.StripANSI(v.View())
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 6)
	for _, l := range lines[:5] {
		assert.Equal(t, 40, strings.Count(l, halfBlock))
	}
	assert.Contains(t, lines[5], "100%")
	assert.Contains(t, lines[5], "no image")
}

func TestView_RenderEmptySize(t *testing.T) {
	v, _, _ := newTestView(Options{})
	v.SetSize(0, 0)
	assert.Empty(t, v.View())
}

func TestNewFrame_FitsImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 50))
	f := newFrame(20, 20, img)

	assert.InDelta(t, 20.0, f.imgW, 1e-9)
	assert.InDelta(t, 10.0, f.imgH, 1e-9)
	assert.InDelta(t, 0.0, f.left, 1e-9)
	assert.InDelta(t, 15.0, f.top, 1e-9, "letterboxed vertically in the 20x40 grid")
}

func TestRasterize_ActiveRegionFilled(t *testing.T) {
	f := newFrame(10, 5, nil)
	st := viewport.DefaultState()
	canvas := color.RGBA{R: 10, G: 10, B: 10, A: 255}
	bg := color.RGBA{A: 255}
	outline := color.RGBA{G: 200, A: 255}
	hi := color.RGBA{R: 250, G: 200, A: 255}

	words := []analysis.Word{word("a", 0, 0, 0.5, 0.5), word("b", 0.5, 0.5, 0.5, 0.5)}
	r := rasterize(f, st, nil, canvas, bg)
	drawRegions(r, st, words, "b", outline, hi)

	assert.Equal(t, outline, r.at(0, 0), "inactive outline")
	assert.Equal(t, canvas, r.at(2, 2), "inactive interior untouched")
	assert.Equal(t, hi, r.at(5, 5), "active outline")
	assert.NotEqual(t, canvas, r.at(7, 7), "active interior tinted")
}
