package viewport

import (
	"errors"
	"image/color"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

type gridLayout struct {
	w, h int
}

func (g gridLayout) Width() int  { return g.w }
func (g gridLayout) Height() int { return g.h }

func (g gridLayout) TileAt(x, y int) (string, bool) {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return "", false
	}
	if (x+y)%2 == 0 {
		return "grass", true
	}
	return "path", true
}

type circle struct {
	x, y, r float64
}

type fakeCanvas struct {
	rects   int
	circles []circle
}

func (c *fakeCanvas) FillRect(x, y, w, h float64, col color.Color) { c.rects++ }

func (c *fakeCanvas) FillCircle(cx, cy, r float64, col color.Color) {
	c.circles = append(c.circles, circle{cx, cy, r})
}

func (c *fakeCanvas) StrokeCircle(cx, cy, r, width float64, col color.Color) {}

type fakeSurface struct {
	logicalW, logicalH, density float64
	w, h                        int
	resizes                     int
	clears                      int
	canvas                      *fakeCanvas
}

func (s *fakeSurface) Metrics() (float64, float64, float64) {
	return s.logicalW, s.logicalH, s.density
}

func (s *fakeSurface) BackingSize() (int, int) { return s.w, s.h }

func (s *fakeSurface) Resize(w, h int) {
	s.w, s.h = w, h
	s.resizes++
}

func (s *fakeSurface) Clear(color.Color) { s.clears++ }

func (s *fakeSurface) Canvas(Transform) (Canvas, bool) {
	if s.w == 0 || s.h == 0 {
		return nil, false
	}
	return s.canvas, true
}

type fakeNotifier struct {
	fn        func()
	cancelled int
}

func (n *fakeNotifier) OnResize(fn func()) func() {
	n.fn = fn
	return func() {
		n.fn = nil
		n.cancelled++
	}
}

type drawnTile struct {
	id     string
	px, py float64
	tx, ty int
}

func newTestMap(t *testing.T, surface *fakeSurface, preload Size, follow float64) (*TileMap, *[]drawnTile) {
	t.Helper()
	var drawn []drawnTile
	m, err := NewTileMap(surface, Options{
		Layout:   gridLayout{64, 40},
		TileSize: 32,
		Viewport: Size{Columns: 20, Rows: 12},
		DrawTile: func(c Canvas, id string, px, py, size float64, tx, ty int) {
			drawn = append(drawn, drawnTile{id, px, py, tx, ty})
		},
		FollowSmoothing: follow,
		Preload:         preload,
	})
	if err != nil {
		t.Fatalf("NewTileMap failed: %v", err)
	}
	return m, &drawn
}

func TestNewTileMapRequiresSurfaceAndLayout(t *testing.T) {
	if _, err := NewTileMap(nil, Options{Layout: gridLayout{1, 1}}); !errors.Is(err, ErrNoSurface) {
		t.Errorf("Expected ErrNoSurface, got %v", err)
	}
	if _, err := NewTileMap(&fakeSurface{}, Options{}); !errors.Is(err, ErrNoLayout) {
		t.Errorf("Expected ErrNoLayout, got %v", err)
	}
}

func TestResizeReallocatesOnlyOnChange(t *testing.T) {
	surface := &fakeSurface{logicalW: 640, logicalH: 360, density: 2, canvas: &fakeCanvas{}}
	m, _ := newTestMap(t, surface, Size{}, 0)

	m.Resize()
	m.Resize()
	if surface.resizes != 1 {
		t.Fatalf("Expected a single reallocation, got %d", surface.resizes)
	}
	if surface.w != 1280 || surface.h != 720 {
		t.Errorf("Expected 1280x720 backing, got %dx%d", surface.w, surface.h)
	}
	if surface.clears != 2 {
		t.Errorf("Each resize should redraw, got %d clears", surface.clears)
	}

	tr := m.Transform()
	if tr.Scale != 1.875 || tr.OffsetX != 40 || tr.OffsetY != 0 {
		t.Errorf("Unexpected transform %+v", tr)
	}

	surface.logicalW = 700
	m.Resize()
	if surface.resizes != 2 || surface.w != 1400 {
		t.Errorf("Size change should reallocate, got %d resizes, width %d", surface.resizes, surface.w)
	}
}

func TestDrawCullsToWindowWithPreload(t *testing.T) {
	surface := &fakeSurface{logicalW: 640, logicalH: 384, density: 1, canvas: &fakeCanvas{}}
	m, drawn := newTestMap(t, surface, Size{Columns: 2, Rows: 1}, 0)
	m.Resize()

	*drawn = nil
	m.SetCameraTarget(mgl64.Vec2{30, 20}, true)

	want := Window{MinX: 18, MinY: 13, MaxX: 43, MaxY: 28}
	if got := m.VisibleWindow(); got != want {
		t.Fatalf("Window %+v, want %+v", got, want)
	}
	if len(*drawn) != 25*15 {
		t.Fatalf("Expected %d tiles, got %d", 25*15, len(*drawn))
	}
	first := (*drawn)[0]
	if first.tx != 18 || first.ty != 13 || first.px != -80 || first.py != -48 {
		t.Errorf("Unexpected first tile %+v", first)
	}
	if first.id != "path" {
		t.Errorf("Expected layout id for (18,13), got %q", first.id)
	}
}

func TestDrawWindowClipsAtMapEdge(t *testing.T) {
	surface := &fakeSurface{logicalW: 640, logicalH: 384, density: 1, canvas: &fakeCanvas{}}
	m, drawn := newTestMap(t, surface, Size{Columns: 2, Rows: 2}, 0)
	m.Resize()
	*drawn = nil

	m.SetCameraTarget(mgl64.Vec2{0, 0}, true)
	want := Window{MinX: 0, MinY: 0, MaxX: 22, MaxY: 14}
	if got := m.VisibleWindow(); got != want {
		t.Errorf("Window %+v, want %+v", got, want)
	}
	for _, d := range *drawn {
		if d.tx < 0 || d.ty < 0 || d.id == "" {
			t.Fatalf("Drew off-map tile %+v", d)
		}
	}
}

func TestPlayerMarker(t *testing.T) {
	canvas := &fakeCanvas{}
	surface := &fakeSurface{logicalW: 640, logicalH: 384, density: 1, canvas: canvas}
	m, _ := newTestMap(t, surface, Size{}, 0)
	m.Resize()

	m.SetCameraTarget(mgl64.Vec2{30, 20}, false)
	m.SetPlayerPosition(mgl64.Vec2{30, 20}, true)

	if len(canvas.circles) != 2 {
		t.Fatalf("Expected disc and halo, got %d circles", len(canvas.circles))
	}
	disc := canvas.circles[0]
	if disc.x != 320 || disc.y != 192 || math.Abs(disc.r-9.6) > 1e-9 {
		t.Errorf("Unexpected marker %+v", disc)
	}
	if math.Abs(canvas.circles[1].r-disc.r*1.8) > 1e-9 {
		t.Errorf("Halo radius %v", canvas.circles[1].r)
	}

	canvas.circles = nil
	m.ClearPlayer(true)
	if len(canvas.circles) != 0 {
		t.Errorf("Cleared marker should not be drawn")
	}
}

func TestSetCameraTargetMovesCameraWithoutRedraw(t *testing.T) {
	surface := &fakeSurface{logicalW: 640, logicalH: 384, density: 1, canvas: &fakeCanvas{}}
	m, drawn := newTestMap(t, surface, Size{}, 0.5)
	m.Resize()
	*drawn = nil

	m.SetCameraTarget(mgl64.Vec2{30, 20}, false)
	if got := m.Camera().Center(); got != (mgl64.Vec2{30.5, 20.5}) {
		t.Fatalf("First target should snap, got %v", got)
	}

	m.SetCameraTarget(mgl64.Vec2{32, 20}, false)
	if got := m.Camera().Center(); got != (mgl64.Vec2{31.5, 20.5}) {
		t.Errorf("Expected one easing step to 31.5,20.5, got %v", got)
	}
	if len(*drawn) != 0 {
		t.Errorf("Nothing should be drawn without a redraw, got %d tiles", len(*drawn))
	}
}

func TestZeroSizedSurfaceIsNoop(t *testing.T) {
	surface := &fakeSurface{canvas: &fakeCanvas{}}
	m, drawn := newTestMap(t, surface, Size{}, 0)
	m.Resize()
	m.SetCameraTarget(mgl64.Vec2{3, 3}, true)

	if surface.clears != 0 || len(*drawn) != 0 || surface.resizes != 0 {
		t.Errorf("Nothing should be drawn on an empty surface")
	}
	if got := m.Camera().Center(); got != (mgl64.Vec2{10, 6}) {
		t.Errorf("Camera should still track the target, got %v", got)
	}
}

func TestStartAndDestroySubscription(t *testing.T) {
	surface := &fakeSurface{logicalW: 320, logicalH: 192, density: 1, canvas: &fakeCanvas{}}
	m, _ := newTestMap(t, surface, Size{}, 0)
	n := &fakeNotifier{}

	m.Start(n)
	if n.fn == nil || surface.clears != 1 {
		t.Fatalf("Start should subscribe and draw, clears=%d", surface.clears)
	}
	n.fn()
	if surface.clears != 2 {
		t.Errorf("Resize signal should redraw")
	}

	m.Destroy()
	m.Destroy()
	if n.cancelled != 1 || n.fn != nil {
		t.Errorf("Destroy should cancel exactly once, got %d", n.cancelled)
	}
}

func TestTileAtOffMap(t *testing.T) {
	m, _ := newTestMap(t, &fakeSurface{}, Size{}, 0)
	if m.TileAt(-1, 0) != "" || m.TileAt(64, 0) != "" || m.TileAt(0, 40) != "" {
		t.Errorf("Off-map lookups should return the empty id")
	}
	if m.TileAt(0, 0) != "grass" {
		t.Errorf("Expected grass at origin")
	}
}

func TestPhysicalSizeAndFit(t *testing.T) {
	if w, h := PhysicalSize(100.7, 50.2, 2); w != 201 || h != 100 {
		t.Errorf("PhysicalSize got %dx%d", w, h)
	}
	if w, h := PhysicalSize(0, -5, math.NaN()); w != 1 || h != 1 {
		t.Errorf("Degenerate size should floor to 1x1, got %dx%d", w, h)
	}

	tr := FitTransform(800, 800, 640, 384)
	if tr.Scale != 1.25 || tr.OffsetX != 0 || tr.OffsetY != 160 {
		t.Errorf("Unexpected letterbox %+v", tr)
	}
	x, y := tr.Apply(640, 384)
	if x != 800 || y != 640 {
		t.Errorf("Apply gave (%v,%v)", x, y)
	}
	if FitTransform(800, 800, 0, 384).Visible() {
		t.Errorf("Zero viewport must not be visible")
	}
}
