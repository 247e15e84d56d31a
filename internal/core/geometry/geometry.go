// Package geometry maps normalized bounding boxes onto display regions.
package geometry

import "math"

// BoundingBox is a rectangle normalized to the source image dimensions.
// Values are expected in [0,1] but upstream producers do not guarantee it.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Region is a bounding box expressed as percentages of the displayed image.
type Region struct {
	LeftPct   float64
	TopPct    float64
	WidthPct  float64
	HeightPct float64
}

// ToRegion converts a normalized box into percentages. No clamping is applied.
func ToRegion(box BoundingBox) Region {
	return Region{
		LeftPct:   box.X * 100,
		TopPct:    box.Y * 100,
		WidthPct:  box.Width * 100,
		HeightPct: box.Height * 100,
	}
}

// CenterY returns the vertical center of the box.
func (b BoundingBox) CenterY() float64 {
	return b.Y + b.Height/2
}

// Area returns width*height, treating negative extents as empty.
func (b BoundingBox) Area() float64 {
	return math.Max(b.Width, 0) * math.Max(b.Height, 0)
}

// Contains reports whether the normalized point lies inside the box.
// The right and bottom edges are exclusive.
func (b BoundingBox) Contains(x, y float64) bool {
	return x >= b.X && x < b.X+b.Width && y >= b.Y && y < b.Y+b.Height
}

// InUnit reports whether the box lies within the unit square, allowing for
// floating point error at the edges.
func (b BoundingBox) InUnit() bool {
	const eps = 1e-9
	return b.X >= -eps && b.Y >= -eps && b.Width >= -eps && b.Height >= -eps &&
		b.X+b.Width <= 1+eps && b.Y+b.Height <= 1+eps
}

// Clamp returns the box clipped to the unit square. NaN components become 0.
func Clamp(b BoundingBox) BoundingBox {
	x := clamp01(b.X)
	y := clamp01(b.Y)
	return BoundingBox{
		X:      x,
		Y:      y,
		Width:  clampRange(b.Width, 0, 1-x),
		Height: clampRange(b.Height, 0, 1-y),
	}
}

// Clamp returns the region clipped to [0,100] on both axes.
func (r Region) Clamp() Region {
	left := clampRange(r.LeftPct, 0, 100)
	top := clampRange(r.TopPct, 0, 100)
	return Region{
		LeftPct:   left,
		TopPct:    top,
		WidthPct:  clampRange(r.WidthPct, 0, 100-left),
		HeightPct: clampRange(r.HeightPct, 0, 100-top),
	}
}

// Rect is an integer cell rectangle. Max is exclusive.
type Rect struct {
	MinX, MinY int
	MaxX, MaxY int
}

// Empty reports whether the rectangle covers no cells.
func (r Rect) Empty() bool {
	return r.MaxX <= r.MinX || r.MaxY <= r.MinY
}

// Cells maps the region onto a cols x rows grid. Zero-size regions map to an
// empty rectangle anchored at their origin.
func (r Region) Cells(cols, rows int) Rect {
	c := r.Clamp()
	minX := int(math.Floor(c.LeftPct / 100 * float64(cols)))
	minY := int(math.Floor(c.TopPct / 100 * float64(rows)))
	maxX := int(math.Ceil((c.LeftPct + c.WidthPct) / 100 * float64(cols)))
	maxY := int(math.Ceil((c.TopPct + c.HeightPct) / 100 * float64(rows)))
	if c.WidthPct == 0 {
		maxX = minX
	}
	if c.HeightPct == 0 {
		maxY = minY
	}
	return Rect{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}

func clamp01(v float64) float64 {
	return clampRange(v, 0, 1)
}

func clampRange(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if hi < lo {
		hi = lo
	}
	return math.Min(math.Max(v, lo), hi)
}
