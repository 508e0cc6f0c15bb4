package viewport

import (
	"math"

	"swordguys/internal/mathutil"
)

// Transform maps viewport pixels (tile grid scaled by tile size) onto the
// physical pixels of a surface. The scale is uniform and the viewport is
// centred, leaving letterbox bars on the longer axis.
type Transform struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
	// ViewWidth and ViewHeight are the viewport size before scaling.
	ViewWidth  float64
	ViewHeight float64
}

// PhysicalSize converts a logical surface size to backing pixels. Both axes
// are at least one pixel. Non-finite or non-positive densities count as 1.
func PhysicalSize(logicalW, logicalH, density float64) (int, int) {
	if !mathutil.Finite(density) || density <= 0 {
		density = 1
	}
	w := mathutil.IntMax(1, mathutil.FloorInt(sanitize(logicalW)*density))
	h := mathutil.IntMax(1, mathutil.FloorInt(sanitize(logicalH)*density))
	return w, h
}

func sanitize(v float64) float64 {
	if !mathutil.Finite(v) || v < 0 {
		return 0
	}
	return v
}

// FitTransform computes the aspect preserving fit of a viewW x viewH
// viewport into a physW x physH surface.
func FitTransform(physW, physH int, viewW, viewH float64) Transform {
	t := Transform{ViewWidth: viewW, ViewHeight: viewH}
	if viewW <= 0 || viewH <= 0 || physW <= 0 || physH <= 0 {
		return t
	}
	t.Scale = math.Min(float64(physW)/viewW, float64(physH)/viewH)
	t.OffsetX = (float64(physW) - viewW*t.Scale) / 2
	t.OffsetY = (float64(physH) - viewH*t.Scale) / 2
	return t
}

// Apply maps a viewport pixel to a surface pixel.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return x*t.Scale + t.OffsetX, y*t.Scale + t.OffsetY
}

// Length scales a distance.
func (t Transform) Length(l float64) float64 {
	return l * t.Scale
}

// Visible reports whether the transform can produce any pixels.
func (t Transform) Visible() bool {
	return t.Scale > 0 && mathutil.Finite(t.Scale)
}

// ViewRect returns the surface rectangle the viewport occupies.
func (t Transform) ViewRect() (x0, y0, x1, y1 float64) {
	x0, y0 = t.Apply(0, 0)
	x1, y1 = t.Apply(t.ViewWidth, t.ViewHeight)
	return x0, y0, x1, y1
}
