package viewport

import (
	"errors"
	"image/color"
	"math"

	"swordguys/internal/mathutil"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	// ErrNoSurface is returned when a tile map is built without a surface.
	ErrNoSurface = errors.New("viewport: no drawable surface")
	// ErrNoLayout is returned when a tile map is built without a layout.
	ErrNoLayout = errors.New("viewport: no tile layout")
)

const DefaultTileSize = 32.0

// DefaultBackground is the colour behind the map and in the letterbox bars.
var DefaultBackground = color.RGBA{R: 0x0f, G: 0x06, B: 0x1b, A: 0xff}

// Layout is a read-only grid of tile identifiers. TileAt reports false for
// cells outside the grid.
type Layout interface {
	Width() int
	Height() int
	TileAt(x, y int) (string, bool)
}

// Canvas receives draw calls in viewport pixel coordinates. Implementations
// apply the surface transform and clip to the viewport rectangle.
type Canvas interface {
	FillRect(x, y, w, h float64, c color.Color)
	FillCircle(cx, cy, r float64, c color.Color)
	StrokeCircle(cx, cy, r, width float64, c color.Color)
}

// Surface is the platform drawing target.
type Surface interface {
	// Metrics returns the host area in logical units and its pixel density.
	Metrics() (logicalW, logicalH, density float64)
	// BackingSize is the allocated size in physical pixels.
	BackingSize() (w, h int)
	// Resize reallocates the backing store.
	Resize(w, h int)
	// Clear fills the whole backing store.
	Clear(c color.Color)
	// Canvas returns a canvas drawing through t, or false when the surface
	// cannot be drawn to.
	Canvas(t Transform) (Canvas, bool)
}

// ResizeNotifier signals that the host area changed size.
type ResizeNotifier interface {
	OnResize(fn func()) (cancel func())
}

// DrawTileFunc paints one tile. px/py is the tile's top-left corner in
// viewport pixels; tx/ty are its grid coordinates. tile is empty for cells
// off the map.
type DrawTileFunc func(c Canvas, tile string, px, py, size float64, tx, ty int)

// Options configures a TileMap.
type Options struct {
	Layout          Layout
	TileSize        float64
	Viewport        Size
	DrawTile        DrawTileFunc
	Background      color.Color
	FollowSmoothing float64
	Preload         Size
}

// Window is a half-open range of tile coordinates.
type Window struct {
	MinX, MinY int
	MaxX, MaxY int
}

// Empty reports whether the window holds no tiles.
func (w Window) Empty() bool { return w.MinX >= w.MaxX || w.MinY >= w.MaxY }

// Marker colours.
var (
	MarkerFill    = color.RGBA{R: 0xfb, G: 0xd2, B: 0x7b, A: 0xff}
	MarkerOutline = color.RGBA{R: 0x2a, G: 0x0a, B: 0x57, A: 0xff}
	MarkerHalo    = color.NRGBA{R: 255, G: 210, B: 123, A: 77}
)

// TileMap draws the visible part of a layout through a following camera.
type TileMap struct {
	surface  Surface
	layout   Layout
	tileSize float64
	drawTile DrawTileFunc
	bg       color.Color
	preload  Size
	camera   *Camera

	transform Transform
	available bool
	player    mgl64.Vec2
	hasPlayer bool

	cancelResize func()
}

// NewTileMap validates options and builds a tile map. Only a missing surface
// or layout is an error; every other bad value is replaced by a default.
func NewTileMap(surface Surface, opts Options) (*TileMap, error) {
	if surface == nil {
		return nil, ErrNoSurface
	}
	if opts.Layout == nil {
		return nil, ErrNoLayout
	}

	tileSize := opts.TileSize
	if !mathutil.Finite(tileSize) || tileSize <= 0 {
		tileSize = DefaultTileSize
	}
	bg := opts.Background
	if bg == nil {
		bg = DefaultBackground
	}

	m := &TileMap{
		surface:  surface,
		layout:   opts.Layout,
		tileSize: tileSize,
		drawTile: opts.DrawTile,
		bg:       bg,
		preload: Size{
			Columns: mathutil.IntMax(0, opts.Preload.Columns),
			Rows:    mathutil.IntMax(0, opts.Preload.Rows),
		},
		camera: NewCamera(opts.Viewport, opts.Layout.Width(), opts.Layout.Height(), opts.FollowSmoothing),
	}
	return m, nil
}

// Camera exposes the camera for inspection.
func (m *TileMap) Camera() *Camera { return m.camera }

// Transform returns the transform from the last resize.
func (m *TileMap) Transform() Transform { return m.transform }

// TileSize returns the tile edge in viewport pixels.
func (m *TileMap) TileSize() float64 { return m.tileSize }

// ViewSize is the viewport in unscaled pixels.
func (m *TileMap) ViewSize() (float64, float64) {
	v := m.camera.Viewport()
	return float64(v.Columns) * m.tileSize, float64(v.Rows) * m.tileSize
}

// Start subscribes to resize notifications and performs the first resize.
// Calling Start again replaces the previous subscription.
func (m *TileMap) Start(n ResizeNotifier) {
	m.Destroy()
	if n != nil {
		m.cancelResize = n.OnResize(m.Resize)
	}
	m.Resize()
}

// Destroy drops the resize subscription. Safe to call repeatedly.
func (m *TileMap) Destroy() {
	if m.cancelResize != nil {
		m.cancelResize()
		m.cancelResize = nil
	}
}

// Resize recomputes the backing size and transform from the surface metrics
// and redraws. A surface with no area disables drawing until the next resize.
func (m *TileMap) Resize() {
	lw, lh, density := m.surface.Metrics()
	if !(lw > 0 && lh > 0) {
		m.available = false
		return
	}

	w, h := PhysicalSize(lw, lh, density)
	if bw, bh := m.surface.BackingSize(); bw != w || bh != h {
		m.surface.Resize(w, h)
	}

	vw, vh := m.ViewSize()
	m.transform = FitTransform(w, h, vw, vh)
	m.available = m.transform.Visible()
	m.Draw()
}

// SetCameraTarget focuses the camera on the tile at pos and advances it one
// easing step.
func (m *TileMap) SetCameraTarget(pos mgl64.Vec2, redraw bool) {
	m.camera.SetTarget(pos)
	m.camera.Update()
	if redraw {
		m.Draw()
	}
}

// SetPlayerPosition places the marker on the tile at pos.
func (m *TileMap) SetPlayerPosition(pos mgl64.Vec2, redraw bool) {
	if mathutil.Finite(pos[0]) && mathutil.Finite(pos[1]) {
		m.player = pos.Add(mgl64.Vec2{0.5, 0.5})
		m.hasPlayer = true
	}
	if redraw {
		m.Draw()
	}
}

// ClearPlayer hides the marker.
func (m *TileMap) ClearPlayer(redraw bool) {
	m.hasPlayer = false
	if redraw {
		m.Draw()
	}
}

// PlayerPosition returns the marker centre in tile units.
func (m *TileMap) PlayerPosition() (mgl64.Vec2, bool) { return m.player, m.hasPlayer }

// VisibleWindow returns the tiles covered by the viewport plus the preload
// margin, clipped to the map.
func (m *TileMap) VisibleWindow() Window {
	return visibleWindow(m.camera.TopLeft(), m.camera.Viewport(), m.preload, m.layout.Width(), m.layout.Height())
}

func visibleWindow(topLeft mgl64.Vec2, view, preload Size, mapW, mapH int) Window {
	left, top := topLeft[0], topLeft[1]
	return Window{
		MinX: mathutil.IntMax(0, mathutil.FloorInt(left)-preload.Columns),
		MinY: mathutil.IntMax(0, mathutil.FloorInt(top)-preload.Rows),
		MaxX: mathutil.IntMin(mapW, mathutil.CeilInt(left+float64(view.Columns))+preload.Columns),
		MaxY: mathutil.IntMin(mapH, mathutil.CeilInt(top+float64(view.Rows))+preload.Rows),
	}
}

// TileAt looks a tile up, returning "" off the map.
func (m *TileMap) TileAt(x, y int) string {
	if x < 0 || y < 0 || x >= m.layout.Width() || y >= m.layout.Height() {
		return ""
	}
	id, ok := m.layout.TileAt(x, y)
	if !ok {
		return ""
	}
	return id
}

// Draw updates the camera and paints the visible tiles and the marker. It
// does nothing while the surface is unavailable.
func (m *TileMap) Draw() {
	m.camera.Update()
	if !m.available {
		return
	}

	m.surface.Clear(m.bg)
	canvas, ok := m.surface.Canvas(m.transform)
	if !ok {
		return
	}

	topLeft := m.camera.TopLeft()
	left, top := topLeft[0], topLeft[1]
	if m.drawTile != nil {
		win := m.VisibleWindow()
		for y := win.MinY; y < win.MaxY; y++ {
			for x := win.MinX; x < win.MaxX; x++ {
				px := (float64(x) - left) * m.tileSize
				py := (float64(y) - top) * m.tileSize
				m.drawTile(canvas, m.TileAt(x, y), px, py, m.tileSize, x, y)
			}
		}
	}

	if m.hasPlayer {
		m.drawPlayer(canvas, left, top)
	}
}

func (m *TileMap) drawPlayer(c Canvas, left, top float64) {
	radius := m.tileSize * 0.3
	x := (m.player[0] - left) * m.tileSize
	y := (m.player[1] - top) * m.tileSize

	c.FillCircle(x, y, radius, MarkerFill)
	c.StrokeCircle(x, y, radius, math.Max(2, m.tileSize*0.08), MarkerOutline)
	c.FillCircle(x, y, radius*1.8, MarkerHalo)
}
