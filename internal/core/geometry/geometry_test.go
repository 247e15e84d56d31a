package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToRegion(t *testing.T) {
	tests := []struct {
		name string
		box  BoundingBox
		want Region
	}{
		{
			name: "in range",
			box:  BoundingBox{X: 0.1, Y: 0.25, Width: 0.5, Height: 0.125},
			want: Region{LeftPct: 10, TopPct: 25, WidthPct: 50, HeightPct: 12.5},
		},
		{
			name: "zero size",
			box:  BoundingBox{X: 0.5, Y: 0.5},
			want: Region{LeftPct: 50, TopPct: 50},
		},
		{
			name: "out of range is not clamped",
			box:  BoundingBox{X: -0.5, Y: 1.5, Width: 2, Height: -1},
			want: Region{LeftPct: -50, TopPct: 150, WidthPct: 200, HeightPct: -100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToRegion(tt.box)
			assert.InDelta(t, tt.want.LeftPct, got.LeftPct, 1e-9)
			assert.InDelta(t, tt.want.TopPct, got.TopPct, 1e-9)
			assert.InDelta(t, tt.want.WidthPct, got.WidthPct, 1e-9)
			assert.InDelta(t, tt.want.HeightPct, got.HeightPct, 1e-9)
		})
	}
}

func TestToRegion_Pure(t *testing.T) {
	boxes := []BoundingBox{
		{X: 0.1, Y: 0.2, Width: 0.3, Height: 0.4},
		{},
		{X: 1, Y: 1},
		{X: 0.33, Y: 0.66, Width: 0.01, Height: 0.99},
	}
	for _, b := range boxes {
		assert.Equal(t, ToRegion(b), ToRegion(b))
	}
}

func TestClamp(t *testing.T) {
	got := Clamp(BoundingBox{X: 0.9, Y: -0.2, Width: 0.5, Height: 2})
	assert.InDelta(t, 0.9, got.X, 1e-9)
	assert.InDelta(t, 0.0, got.Y, 1e-9)
	assert.InDelta(t, 0.1, got.Width, 1e-9)
	assert.InDelta(t, 1.0, got.Height, 1e-9)

	nan := Clamp(BoundingBox{X: math.NaN(), Y: 0.5, Width: math.NaN(), Height: 0.1})
	assert.Equal(t, 0.0, nan.X)
	assert.Equal(t, 0.0, nan.Width)
}

func TestBoundingBox_Contains(t *testing.T) {
	b := BoundingBox{X: 0.2, Y: 0.2, Width: 0.2, Height: 0.1}

	assert.True(t, b.Contains(0.2, 0.2))
	assert.True(t, b.Contains(0.3, 0.25))
	assert.False(t, b.Contains(0.4, 0.25), "right edge is exclusive")
	assert.False(t, b.Contains(0.3, 0.3), "bottom edge is exclusive")
	assert.False(t, BoundingBox{X: 0.5, Y: 0.5}.Contains(0.5, 0.5), "zero box contains nothing")
}

func TestRegion_Cells(t *testing.T) {
	r := ToRegion(BoundingBox{X: 0.25, Y: 0.5, Width: 0.5, Height: 0.25})
	got := r.Cells(40, 20)
	assert.Equal(t, Rect{MinX: 10, MinY: 10, MaxX: 30, MaxY: 15}, got)

	zero := ToRegion(BoundingBox{X: 0.5, Y: 0.5}).Cells(40, 20)
	assert.True(t, zero.Empty())

	outside := ToRegion(BoundingBox{X: 1.2, Y: 0.1, Width: 0.3, Height: 0.1}).Cells(40, 20)
	assert.True(t, outside.Empty(), "region past the right edge clamps to nothing")
}

func TestBoundingBox_InUnit(t *testing.T) {
	assert.True(t, BoundingBox{X: 0.1, Y: 0.1, Width: 0.9, Height: 0.9}.InUnit())
	assert.True(t, BoundingBox{}.InUnit())
	assert.False(t, BoundingBox{X: 0.5, Width: 0.6}.InUnit())
	assert.False(t, BoundingBox{X: -0.1, Width: 0.2}.InUnit())
}
