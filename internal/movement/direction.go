package movement

import (
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Direction is one of the eight grid directions an actor can step in.
// Diagonals are never bound to input directly; they only exist while both
// of their component cardinals are held.
type Direction int

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
	DirUpRight
	DirUpLeft
	DirDownRight
	DirDownLeft
)

// Cardinals lists the bindable directions in declaration order.
var Cardinals = [4]Direction{DirUp, DirDown, DirLeft, DirRight}

// Diagonals lists the composite directions.
var Diagonals = [4]Direction{DirUpRight, DirUpLeft, DirDownRight, DirDownLeft}

var directionNames = map[Direction]string{
	DirUp:        "up",
	DirDown:      "down",
	DirLeft:      "left",
	DirRight:     "right",
	DirUpRight:   "upRight",
	DirUpLeft:    "upLeft",
	DirDownRight: "downRight",
	DirDownLeft:  "downLeft",
}

// String returns the camel-case name used in config files and logs.
func (d Direction) String() string {
	if name, ok := directionNames[d]; ok {
		return name
	}
	return "none"
}

// ParseDirection accepts "up", "upRight", "up-right" and "up_right" in any case.
func ParseDirection(name string) (Direction, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer("-", "", "_", "", " ", "").Replace(key)
	for dir, candidate := range directionNames {
		if strings.ToLower(candidate) == key {
			return dir, true
		}
	}
	return DirNone, false
}

// Valid reports whether d is one of the eight directions.
func (d Direction) Valid() bool {
	return d >= DirUp && d <= DirDownLeft
}

// IsDiagonal reports whether d is composite.
func (d Direction) IsDiagonal() bool {
	return d >= DirUpRight && d <= DirDownLeft
}

// Delta returns the unit step of d. DirNone and unknown values return (0, 0).
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	case DirUpRight:
		return 1, -1
	case DirUpLeft:
		return -1, -1
	case DirDownRight:
		return 1, 1
	case DirDownLeft:
		return -1, 1
	}
	return 0, 0
}

// Length is the euclidean length of the step vector: 1 for cardinals, √2
// for diagonals.
func (d Direction) Length() float64 {
	dx, dy := d.Delta()
	if dx == 0 && dy == 0 {
		return 1
	}
	return math.Hypot(float64(dx), float64(dy))
}

// Components splits a diagonal into its vertical and horizontal cardinals.
// ok is false for cardinals and invalid values.
func (d Direction) Components() (vertical, horizontal Direction, ok bool) {
	switch d {
	case DirUpRight:
		return DirUp, DirRight, true
	case DirUpLeft:
		return DirUp, DirLeft, true
	case DirDownRight:
		return DirDown, DirRight, true
	case DirDownLeft:
		return DirDown, DirLeft, true
	}
	return DirNone, DirNone, false
}

// Tile is an integer grid cell.
type Tile struct {
	X, Y int
}

// Step returns the neighbouring tile in direction d.
func (t Tile) Step(d Direction) Tile {
	dx, dy := d.Delta()
	return Tile{X: t.X + dx, Y: t.Y + dy}
}

// Vec2 converts the tile to a float pair.
func (t Tile) Vec2() mgl64.Vec2 {
	return mgl64.Vec2{float64(t.X), float64(t.Y)}
}
