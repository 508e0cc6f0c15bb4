package world

import "swordguys/internal/movement"

// Passability answers movement queries for one layout.
type Passability struct {
	layout *Layout
	tiles  *TileManager
}

func NewPassability(layout *Layout, tiles *TileManager) *Passability {
	if tiles == nil {
		tiles = DefaultTileManager()
	}
	return &Passability{layout: layout, tiles: tiles}
}

// Walkable reports whether t is on the map and its tile is walkable.
func (p *Passability) Walkable(t movement.Tile) bool {
	key, ok := p.layout.TileAt(t.X, t.Y)
	if !ok {
		return false
	}
	return p.tiles.IsWalkable(key)
}

// CanMoveTo matches movement.CanMoveFunc. Direction and origin are not
// needed for a plain tile grid.
func (p *Passability) CanMoveTo(target movement.Tile, _ movement.Direction, _ movement.Tile) bool {
	return p.Walkable(target)
}

// Describe names the tile at t for logs and the HUD.
func (p *Passability) Describe(t movement.Tile) string {
	key, ok := p.layout.TileAt(t.X, t.Y)
	if !ok {
		return "edge of the world"
	}
	if data := p.tiles.GetTileData(key); data != nil && data.Name != "" {
		return data.Name
	}
	return key
}
