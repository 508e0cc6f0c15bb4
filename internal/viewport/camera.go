package viewport

import (
	"swordguys/internal/mathutil"

	"github.com/go-gl/mathgl/mgl64"
)

// Size is a width/height pair measured in tiles.
type Size struct {
	Columns int
	Rows    int
}

// DefaultViewport is used when a viewport has no area.
var DefaultViewport = Size{Columns: 20, Rows: 12}

// Camera is a floating focus point over a tile grid. The centre is kept
// inside the map so the viewport never shows space past its edges; on an
// axis where the map is narrower than the viewport the centre is pinned to
// the map's midpoint.
type Camera struct {
	view   Size
	mapW   int
	mapH   int
	follow float64

	center     mgl64.Vec2
	target     mgl64.Vec2
	hasTarget  bool
	positioned bool
}

// NewCamera creates a camera for a viewport over a mapW x mapH grid.
// Degenerate viewports fall back to DefaultViewport and follow is clamped to
// [0, 1] (0 snaps, anything larger eases).
func NewCamera(view Size, mapW, mapH int, follow float64) *Camera {
	if view.Columns < 1 || view.Rows < 1 {
		view = DefaultViewport
	}
	c := &Camera{
		view:   view,
		mapW:   mathutil.IntMax(0, mapW),
		mapH:   mathutil.IntMax(0, mapH),
		follow: mathutil.Clamp(follow, 0, 1),
	}
	c.center = c.clamp(c.half())
	return c
}

// Viewport returns the viewport size in tiles.
func (c *Camera) Viewport() Size { return c.view }

// Follow returns the easing factor.
func (c *Camera) Follow() float64 { return c.follow }

// Center returns the current camera centre in tile units.
func (c *Camera) Center() mgl64.Vec2 { return c.center }

// Target returns the focus point and whether one has been set.
func (c *Camera) Target() (mgl64.Vec2, bool) { return c.target, c.hasTarget }

// SetTarget focuses the camera on the centre of the tile at pos. Fractional
// positions are allowed so a moving actor can be followed smoothly.
func (c *Camera) SetTarget(pos mgl64.Vec2) {
	if !mathutil.Finite(pos[0]) || !mathutil.Finite(pos[1]) {
		return
	}
	c.target = pos.Add(mgl64.Vec2{0.5, 0.5})
	c.hasTarget = true
}

// Update moves the centre toward the target and returns it. The first target
// is snapped to so the view does not slide in from the origin.
func (c *Camera) Update() mgl64.Vec2 {
	if !c.hasTarget {
		c.center = c.clamp(c.half())
		return c.center
	}

	goal := c.clamp(c.target)
	if !c.positioned || c.follow <= 0 {
		c.positioned = true
		c.center = goal
		return c.center
	}

	eased := c.center.Add(goal.Sub(c.center).Mul(c.follow))
	c.center = c.clamp(eased)
	return c.center
}

// TopLeft is the tile coordinate at the viewport's top-left corner.
func (c *Camera) TopLeft() mgl64.Vec2 {
	return c.center.Sub(c.half())
}

func (c *Camera) half() mgl64.Vec2 {
	return mgl64.Vec2{float64(c.view.Columns) / 2, float64(c.view.Rows) / 2}
}

func (c *Camera) clamp(p mgl64.Vec2) mgl64.Vec2 {
	h := c.half()
	return mgl64.Vec2{
		clampAxis(p[0], h[0], float64(c.mapW)),
		clampAxis(p[1], h[1], float64(c.mapH)),
	}
}

func clampAxis(v, half, size float64) float64 {
	if size < 2*half {
		return size / 2
	}
	return mathutil.Clamp(v, half, size-half)
}
