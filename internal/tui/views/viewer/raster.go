package viewer

import (
	"image"
	"image/color"
	"math"
	"strings"

	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/khatt/internal/core/analysis"
	"github.com/colonyops/khatt/internal/core/geometry"
	"github.com/colonyops/khatt/internal/core/styles"
	"github.com/colonyops/khatt/internal/core/viewport"
)

const halfBlock = "▀"

// frame is the viewer's pixel grid. Each terminal cell holds two vertically
// stacked pixels, so a cols x rows panel is a cols x 2*rows grid. The image is
// fitted into the grid at scale 1, preserving its aspect ratio.
type frame struct {
	cols, rows int
	w, h       float64

	left, top  float64
	imgW, imgH float64
}

func newFrame(cols, rows int, img image.Image) frame {
	f := frame{cols: cols, rows: rows, w: float64(cols), h: float64(rows * 2)}
	f.imgW, f.imgH = f.w, f.h
	if img == nil {
		return f
	}

	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return f
	}
	s := math.Min(f.w/float64(b.Dx()), f.h/float64(b.Dy()))
	f.imgW = float64(b.Dx()) * s
	f.imgH = float64(b.Dy()) * s
	f.left = (f.w - f.imgW) / 2
	f.top = (f.h - f.imgH) / 2
	return f
}

// normalize maps a grid point to image coordinates in [0,1).
func (f frame) normalize(p viewport.Point) (u, v float64) {
	if f.imgW == 0 || f.imgH == 0 {
		return -1, -1
	}
	return (p.X - f.left) / f.imgW, (p.Y - f.top) / f.imgH
}

func (f frame) denormalize(u, v float64) viewport.Point {
	return viewport.Point{X: f.left + u*f.imgW, Y: f.top + v*f.imgH}
}

// cellPoint is the grid point under a terminal cell.
func cellPoint(x, y int) viewport.Point {
	return viewport.Point{X: float64(x) + 0.5, Y: float64(y)*2 + 1}
}

type raster struct {
	f  frame
	px []color.RGBA
}

func (r raster) at(x, y int) color.RGBA {
	return r.px[y*r.f.cols+x]
}

func (r raster) set(x, y int, c color.RGBA) {
	r.px[y*r.f.cols+x] = c
}

// rasterize samples the image through the inverse viewport transform. Points
// outside the image take the background colour; without an image the fitted
// area is filled with canvas.
func rasterize(f frame, st viewport.State, img image.Image, canvas, background color.RGBA) raster {
	gridH := f.rows * 2
	r := raster{f: f, px: make([]color.RGBA, f.cols*gridH)}

	for y := range gridH {
		for x := range f.cols {
			p := viewport.Inverse(st, viewport.Point{X: float64(x) + 0.5, Y: float64(y) + 0.5}, f.w, f.h)
			u, v := f.normalize(p)
			switch {
			case u < 0 || v < 0 || u >= 1 || v >= 1:
				r.set(x, y, background)
			case img == nil:
				r.set(x, y, canvas)
			default:
				r.set(x, y, sample(img, u, v))
			}
		}
	}
	return r
}

func sample(img image.Image, u, v float64) color.RGBA {
	b := img.Bounds()
	x := min(b.Min.X+int(u*float64(b.Dx())), b.Max.X-1)
	y := min(b.Min.Y+int(v*float64(b.Dy())), b.Max.Y-1)
	return toRGBA(img.At(x, y))
}

// drawRegions outlines every word and fills the active one. The active region
// is drawn last so it stays visible where regions overlap.
func drawRegions(r raster, st viewport.State, words []analysis.Word, activeID string, outline, highlight color.RGBA) {
	var active *analysis.Word
	for i := range words {
		if words[i].ID == activeID {
			active = &words[i]
			continue
		}
		drawRegion(r, st, words[i], false, outline, highlight)
	}
	if active != nil {
		drawRegion(r, st, *active, true, outline, highlight)
	}
}

func drawRegion(r raster, st viewport.State, w analysis.Word, active bool, outline, highlight color.RGBA) {
	region := geometry.ToRegion(w.BoundingBox).Clamp()
	if region.WidthPct == 0 || region.HeightPct == 0 {
		return
	}

	tl := viewport.Transform(st, r.f.denormalize(region.LeftPct/100, region.TopPct/100), r.f.w, r.f.h)
	br := viewport.Transform(st, r.f.denormalize(
		(region.LeftPct+region.WidthPct)/100,
		(region.TopPct+region.HeightPct)/100,
	), r.f.w, r.f.h)

	x0, y0 := int(math.Floor(tl.X)), int(math.Floor(tl.Y))
	x1, y1 := max(int(math.Ceil(br.X))-1, x0), max(int(math.Ceil(br.Y))-1, y0)

	gridH := r.f.rows * 2
	for y := max(y0, 0); y <= min(y1, gridH-1); y++ {
		for x := max(x0, 0); x <= min(x1, r.f.cols-1); x++ {
			edge := x == x0 || x == x1 || y == y0 || y == y1
			switch {
			case active && edge:
				r.set(x, y, highlight)
			case active:
				r.set(x, y, toRGBA(styles.Blend(r.at(x, y), highlight, 0.45)))
			case edge:
				r.set(x, y, outline)
			}
		}
	}
}

// render emits one half-block per cell, batching runs of identical colour
// pairs into a single styled span.
func (r raster) render() string {
	var b strings.Builder
	for row := range r.f.rows {
		if row > 0 {
			b.WriteByte('\n')
		}
		x := 0
		for x < r.f.cols {
			top, bottom := r.at(x, row*2), r.at(x, row*2+1)
			n := 1
			for x+n < r.f.cols && r.at(x+n, row*2) == top && r.at(x+n, row*2+1) == bottom {
				n++
			}
			b.WriteString(lipgloss.NewStyle().
				Foreground(top).
				Background(bottom).
				Render(strings.Repeat(halfBlock, n)))
			x += n
		}
	}
	return b.String()
}

// hitTest returns the smallest word region under the cell at x, y.
func hitTest(f frame, st viewport.State, words []analysis.Word, x, y int) (string, bool) {
	u, v := f.normalize(viewport.Inverse(st, cellPoint(x, y), f.w, f.h))

	best, bestArea := "", math.Inf(1)
	for _, w := range words {
		box := geometry.Clamp(w.BoundingBox)
		if !box.Contains(u, v) {
			continue
		}
		if a := box.Area(); a < bestArea {
			best, bestArea = w.ID, a
		}
	}
	return best, best != ""
}

func toRGBA(c color.Color) color.RGBA {
	if c == nil {
		return color.RGBA{A: 0xff}
	}
	r, g, b, _ := c.RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 0xff}
}
