package ebiten

import (
	"image"
	"image/color"
	"math"

	"swordguys/internal/viewport"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Surface is an offscreen image in physical pixels. The window layout is
// recorded by SetLayout; resize handlers run on the next FlushResize so they
// never fire from inside ebiten's Layout callback.
type Surface struct {
	img *ebiten.Image

	logicalW, logicalH float64
	density            float64
	dirty              bool

	handlers map[int]func()
	nextID   int
}

func NewSurface() *Surface {
	return &Surface{density: 1, handlers: make(map[int]func())}
}

// SetLayout records the outside size in logical units and the device scale.
func (s *Surface) SetLayout(w, h, density float64) {
	if w == s.logicalW && h == s.logicalH && density == s.density {
		return
	}
	s.logicalW, s.logicalH, s.density = w, h, density
	s.dirty = true
}

// OnResize implements viewport.ResizeNotifier.
func (s *Surface) OnResize(fn func()) func() {
	id := s.nextID
	s.nextID++
	s.handlers[id] = fn
	return func() { delete(s.handlers, id) }
}

// FlushResize notifies handlers if the layout changed since the last flush.
func (s *Surface) FlushResize() {
	if !s.dirty {
		return
	}
	s.dirty = false
	for _, fn := range s.handlers {
		fn()
	}
}

func (s *Surface) Metrics() (float64, float64, float64) {
	return s.logicalW, s.logicalH, s.density
}

func (s *Surface) BackingSize() (int, int) {
	if s.img == nil {
		return 0, 0
	}
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// Resize reallocates the offscreen image.
func (s *Surface) Resize(w, h int) {
	if s.img != nil {
		s.img.Deallocate()
		s.img = nil
	}
	if w > 0 && h > 0 {
		s.img = ebiten.NewImage(w, h)
	}
}

func (s *Surface) Clear(c color.Color) {
	if s.img != nil {
		s.img.Fill(c)
	}
}

// Canvas returns a canvas clipped to the viewport rectangle of t.
func (s *Surface) Canvas(t viewport.Transform) (viewport.Canvas, bool) {
	if s.img == nil || !t.Visible() {
		return nil, false
	}
	x0, y0, x1, y1 := t.ViewRect()
	rect := image.Rect(
		int(math.Floor(x0)), int(math.Floor(y0)),
		int(math.Ceil(x1)), int(math.Ceil(y1)),
	).Intersect(s.img.Bounds())
	if rect.Empty() {
		return nil, false
	}
	return &canvas{dst: s.img.SubImage(rect).(*ebiten.Image), t: t}, true
}

// Image is the backing store, or nil before the first resize.
func (s *Surface) Image() *ebiten.Image { return s.img }

// canvas draws through the transform. A sub-image keeps its parent's
// coordinates, so transformed points land unchanged.
type canvas struct {
	dst *ebiten.Image
	t   viewport.Transform
}

func (c *canvas) FillRect(x, y, w, h float64, clr color.Color) {
	px, py := c.t.Apply(x, y)
	vector.DrawFilledRect(c.dst, float32(px), float32(py),
		float32(c.t.Length(w)), float32(c.t.Length(h)), clr, false)
}

func (c *canvas) FillCircle(cx, cy, r float64, clr color.Color) {
	px, py := c.t.Apply(cx, cy)
	vector.DrawFilledCircle(c.dst, float32(px), float32(py), float32(c.t.Length(r)), clr, true)
}

func (c *canvas) StrokeCircle(cx, cy, r, width float64, clr color.Color) {
	px, py := c.t.Apply(cx, cy)
	vector.StrokeCircle(c.dst, float32(px), float32(py),
		float32(c.t.Length(r)), float32(c.t.Length(width)), clr, true)
}
