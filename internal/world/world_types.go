package world

import "swordguys/internal/movement"

// Tile keys of the starting area tile set.
const (
	TileGrass = "grass"
	TileTree  = "tree"
	TileWater = "water"
	TileRock  = "rock"
	TilePath  = "path"
	TileSpawn = "spawn"
)

// NoTile is returned for lookups outside the grid.
const NoTile = ""

// Layout is a rectangular grid of tile keys with a spawn point.
type Layout struct {
	Name   string
	width  int
	height int
	tiles  [][]string
	spawn  movement.Tile
	// hasSpawn is false until a spawn marker is placed.
	hasSpawn bool
}

// NewLayout creates a width x height grid filled with fill.
func NewLayout(width, height int, fill string) *Layout {
	width = max(0, width)
	height = max(0, height)
	l := &Layout{width: width, height: height, tiles: make([][]string, height)}
	for y := range l.tiles {
		row := make([]string, width)
		for x := range row {
			row[x] = fill
		}
		l.tiles[y] = row
	}
	return l
}

func (l *Layout) Width() int  { return l.width }
func (l *Layout) Height() int { return l.height }

// InBounds reports whether (x, y) is a grid cell.
func (l *Layout) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < l.width && y < l.height
}

// TileAt returns the tile key at (x, y), or NoTile and false off the grid.
func (l *Layout) TileAt(x, y int) (string, bool) {
	if !l.InBounds(x, y) {
		return NoTile, false
	}
	return l.tiles[y][x], true
}

// Set writes a tile key; writes outside the grid are dropped.
func (l *Layout) Set(x, y int, key string) {
	if l.InBounds(x, y) {
		l.tiles[y][x] = key
	}
}

// Spawn returns the spawn tile. Without an explicit spawn the map centre is
// used.
func (l *Layout) Spawn() movement.Tile {
	if l.hasSpawn {
		return l.spawn
	}
	return movement.Tile{X: l.width / 2, Y: l.height / 2}
}

// SetSpawn marks t as the spawn point.
func (l *Layout) SetSpawn(t movement.Tile) {
	l.spawn = t
	l.hasSpawn = true
}

// HasSpawn reports whether a spawn point was placed explicitly.
func (l *Layout) HasSpawn() bool { return l.hasSpawn }
