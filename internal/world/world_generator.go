package world

import "swordguys/internal/movement"

const (
	StartingAreaWidth  = 64
	StartingAreaHeight = 40
)

// GenerateStartingArea builds the 64x40 starting meadow: a tree border, two
// ponds, three groves, two rock outcrops and a cross of paths with the spawn
// on the crossing.
func GenerateStartingArea() *Layout {
	l := NewLayout(StartingAreaWidth, StartingAreaHeight, TileGrass)
	l.Name = "starting_area"

	l.paintBorder(TileTree)
	l.addWaterPatch(14, 10, 5, 3)
	l.addWaterPatch(48, 28, 6, 4)
	l.addTreeCluster(10, 24, 5)
	l.addTreeCluster(52, 12, 6)
	l.addTreeCluster(30, 32, 4)
	l.addRockPatch(20, 6, 4, 3)
	l.addRockPatch(36, 20, 5, 2)

	pathY := StartingAreaHeight/2 - 1
	pathX := StartingAreaWidth/2 - 1
	for x := 2; x < StartingAreaWidth-2; x++ {
		l.Set(x, pathY, TilePath)
		l.Set(x, pathY+1, TilePath)
	}
	for y := 2; y < StartingAreaHeight-2; y++ {
		l.Set(pathX, y, TilePath)
		l.Set(pathX+1, y, TilePath)
	}

	l.Set(pathX, pathY, TileSpawn)
	l.SetSpawn(movement.Tile{X: pathX, Y: pathY})
	return l
}

func (l *Layout) paintBorder(key string) {
	for x := 0; x < l.width; x++ {
		l.Set(x, 0, key)
		l.Set(x, l.height-1, key)
	}
	for y := 0; y < l.height; y++ {
		l.Set(0, y, key)
		l.Set(l.width-1, y, key)
	}
}

// addWaterPatch fills a slightly padded ellipse.
func (l *Layout) addWaterPatch(originX, originY, radiusX, radiusY int) {
	for y := originY - radiusY; y <= originY+radiusY; y++ {
		for x := originX - radiusX; x <= originX+radiusX; x++ {
			dx := float64(x-originX) / float64(radiusX)
			dy := float64(y-originY) / float64(radiusY)
			if dx*dx+dy*dy <= 1.05 {
				l.Set(x, y, TileWater)
			}
		}
	}
}

// addTreeCluster plants a disc of trees, leaving water alone.
func (l *Layout) addTreeCluster(originX, originY, radius int) {
	for y := originY - radius; y <= originY+radius; y++ {
		for x := originX - radius; x <= originX+radius; x++ {
			dx, dy := x-originX, y-originY
			if dx*dx+dy*dy > radius*radius {
				continue
			}
			if key, ok := l.TileAt(x, y); ok && key != TileWater {
				l.Set(x, y, TileTree)
			}
		}
	}
}

func (l *Layout) addRockPatch(startX, startY, width, height int) {
	for y := startY; y < startY+height; y++ {
		for x := startX; x < startX+width; x++ {
			if key, ok := l.TileAt(x, y); ok && key != TileWater && key != TilePath {
				l.Set(x, y, TileRock)
			}
		}
	}
}
