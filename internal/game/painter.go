package game

import (
	"image/color"

	"swordguys/internal/viewport"
	"swordguys/internal/world"
)

// NewTilePainter draws each tile as a flat square in its configured colour,
// with an inset accent for tiles that define one.
func NewTilePainter(tiles *world.TileManager) viewport.DrawTileFunc {
	return func(c viewport.Canvas, key string, px, py, size float64, _, _ int) {
		if key == world.NoTile {
			return
		}
		c.FillRect(px, py, size, size, rgb(tiles.GetColor(key)))

		if detail, ok := tiles.GetDetailColor(key); ok {
			inset := size * 0.25
			c.FillRect(px+inset, py+inset, size-2*inset, size-2*inset, rgb(detail))
		}
	}
}

func rgb(c [3]int) color.RGBA {
	return color.RGBA{R: clampByte(c[0]), G: clampByte(c[1]), B: clampByte(c[2]), A: 0xff}
}

func clampByte(v int) uint8 {
	return uint8(max(0, min(255, v)))
}
