package term

import (
	"image/color"
	"math"

	"swordguys/internal/viewport"

	"github.com/gdamore/tcell/v2"
)

// halfBlock paints the top pixel as foreground and the bottom one as
// background, so every cell holds two square-ish pixels.
const halfBlock = '▀'

// Surface rasterises onto a tcell screen. The logical size is one pixel per
// column and two per row; rows reserved for the status line are excluded.
type Surface struct {
	screen     tcell.Screen
	statusRows int

	pixels []color.RGBA
	w, h   int

	handlers map[int]func()
	nextID   int
}

func NewSurface(screen tcell.Screen, statusRows int) *Surface {
	return &Surface{
		screen:     screen,
		statusRows: max(0, statusRows),
		handlers:   make(map[int]func()),
	}
}

func (s *Surface) Metrics() (float64, float64, float64) {
	cols, rows := s.screen.Size()
	rows -= s.statusRows
	if cols <= 0 || rows <= 0 {
		return 0, 0, 1
	}
	return float64(cols), float64(rows * 2), 1
}

func (s *Surface) BackingSize() (int, int) { return s.w, s.h }

func (s *Surface) Resize(w, h int) {
	s.w, s.h = max(0, w), max(0, h)
	s.pixels = make([]color.RGBA, s.w*s.h)
}

func (s *Surface) Clear(c color.Color) {
	fill := toRGBA(c)
	for i := range s.pixels {
		s.pixels[i] = fill
	}
}

// Canvas returns a rasteriser clipped to the viewport rectangle of t.
func (s *Surface) Canvas(t viewport.Transform) (viewport.Canvas, bool) {
	if len(s.pixels) == 0 || !t.Visible() {
		return nil, false
	}
	x0, y0, x1, y1 := t.ViewRect()
	c := &canvas{
		s:    s,
		t:    t,
		minX: max(0, int(math.Floor(x0))),
		minY: max(0, int(math.Floor(y0))),
		maxX: min(s.w, int(math.Ceil(x1))),
		maxY: min(s.h, int(math.Ceil(y1))),
	}
	if c.minX >= c.maxX || c.minY >= c.maxY {
		return nil, false
	}
	return c, true
}

// Pixel returns the colour at x, y.
func (s *Surface) Pixel(x, y int) color.RGBA {
	if x < 0 || y < 0 || x >= s.w || y >= s.h {
		return color.RGBA{}
	}
	return s.pixels[y*s.w+x]
}

// OnResize implements viewport.ResizeNotifier.
func (s *Surface) OnResize(fn func()) func() {
	id := s.nextID
	s.nextID++
	s.handlers[id] = fn
	return func() { delete(s.handlers, id) }
}

// NotifyResize runs the resize handlers. Call it on tcell.EventResize.
func (s *Surface) NotifyResize() {
	for _, fn := range s.handlers {
		fn()
	}
}

// Present copies the pixels into the screen's cell buffer. It does not call
// Show.
func (s *Surface) Present() {
	for row := 0; row*2 < s.h; row++ {
		for col := 0; col < s.w; col++ {
			top := s.Pixel(col, row*2)
			bottom := s.Pixel(col, row*2+1)
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
				Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
			s.screen.SetContent(col, row, halfBlock, nil, style)
		}
	}
}

type canvas struct {
	s                      *Surface
	t                      viewport.Transform
	minX, minY, maxX, maxY int
}

// span returns the pixel range whose centres fall in [a, b).
func span(a, b float64, lo, hi int) (int, int) {
	return max(lo, int(math.Ceil(a-0.5))), min(hi, int(math.Ceil(b-0.5)))
}

func (c *canvas) FillRect(x, y, w, h float64, clr color.Color) {
	ax, ay := c.t.Apply(x, y)
	bx, by := c.t.Apply(x+w, y+h)
	x0, x1 := span(ax, bx, c.minX, c.maxX)
	y0, y1 := span(ay, by, c.minY, c.maxY)
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			c.blend(px, py, clr)
		}
	}
}

func (c *canvas) FillCircle(cx, cy, r float64, clr color.Color) {
	c.ring(cx, cy, 0, r, clr)
}

func (c *canvas) StrokeCircle(cx, cy, r, width float64, clr color.Color) {
	c.ring(cx, cy, r-width/2, r+width/2, clr)
}

// ring fills pixels whose centres lie between inner and outer radius.
func (c *canvas) ring(cx, cy, inner, outer float64, clr color.Color) {
	px, py := c.t.Apply(cx, cy)
	rIn, rOut := c.t.Length(math.Max(0, inner)), c.t.Length(outer)
	if rOut <= 0 {
		return
	}
	x0, x1 := span(px-rOut, px+rOut, c.minX, c.maxX)
	y0, y1 := span(py-rOut, py+rOut, c.minY, c.maxY)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			d := math.Hypot(float64(x)+0.5-px, float64(y)+0.5-py)
			if d <= rOut && d >= rIn {
				c.blend(x, y, clr)
			}
		}
	}
}

// blend draws clr over the pixel with source-over compositing.
func (c *canvas) blend(x, y int, clr color.Color) {
	sr, sg, sb, sa := clr.RGBA()
	if sa == 0 {
		return
	}
	i := y*c.s.w + x
	dst := c.s.pixels[i]
	inv := 0xffff - sa
	c.s.pixels[i] = color.RGBA{
		R: uint8((sr + uint32(dst.R)*0x101*inv/0xffff) >> 8),
		G: uint8((sg + uint32(dst.G)*0x101*inv/0xffff) >> 8),
		B: uint8((sb + uint32(dst.B)*0x101*inv/0xffff) >> 8),
		A: 0xff,
	}
}

func toRGBA(c color.Color) color.RGBA {
	if c == nil {
		return color.RGBA{A: 0xff}
	}
	r, g, b, _ := c.RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 0xff}
}
