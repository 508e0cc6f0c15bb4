package world

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// TileConfig is the on-disk form of a tile set.
type TileConfig struct {
	TileData map[string]TileData `yaml:"tiles"`
}

// TileData describes one kind of tile.
type TileData struct {
	Name     string `yaml:"name"`
	Letter   string `yaml:"letter"`
	Walkable bool   `yaml:"walkable"`
	Color    [3]int `yaml:"color"`
	// Detail is an optional accent colour painted as an inset square.
	Detail [3]int `yaml:"detail,omitempty"`
}

// TileManager handles tile configuration and properties
type TileManager struct {
	tileData    map[string]*TileData
	letterToKey map[string]string
	keyToLetter map[string]string
}

// NewTileManager creates an empty tile manager
func NewTileManager() *TileManager {
	return &TileManager{
		tileData:    make(map[string]*TileData),
		letterToKey: make(map[string]string),
		keyToLetter: make(map[string]string),
	}
}

// DefaultTileManager returns the built-in starting area tile set.
func DefaultTileManager() *TileManager {
	tm := NewTileManager()
	tm.setTiles(map[string]TileData{
		TileGrass: {Name: "Grass", Letter: ".", Walkable: true, Color: [3]int{74, 140, 62}},
		TileTree:  {Name: "Tree", Letter: "T", Color: [3]int{28, 82, 40}, Detail: [3]int{18, 56, 28}},
		TileWater: {Name: "Water", Letter: "~", Color: [3]int{46, 98, 170}, Detail: [3]int{70, 130, 200}},
		TileRock:  {Name: "Rock", Letter: "R", Color: [3]int{118, 112, 104}, Detail: [3]int{92, 88, 82}},
		TilePath:  {Name: "Path", Letter: "=", Walkable: true, Color: [3]int{176, 146, 96}},
		TileSpawn: {Name: "Spawn", Letter: "+", Walkable: true, Color: [3]int{212, 180, 110}, Detail: [3]int{240, 214, 150}},
	})
	return tm
}

// LoadTileConfig loads tile configuration from a YAML file
func (tm *TileManager) LoadTileConfig(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read tile config file: %w", err)
	}

	var tileConfig TileConfig
	if err := yaml.Unmarshal(data, &tileConfig); err != nil {
		return fmt.Errorf("failed to parse tile config: %w", err)
	}
	if len(tileConfig.TileData) == 0 {
		return fmt.Errorf("tile config %s defines no tiles", filename)
	}

	for key, td := range tileConfig.TileData {
		if len([]rune(td.Letter)) > 1 {
			return fmt.Errorf("tile %s: letter %q must be a single character", key, td.Letter)
		}
	}

	tm.setTiles(tileConfig.TileData)
	return nil
}

func (tm *TileManager) setTiles(tiles map[string]TileData) {
	tm.tileData = make(map[string]*TileData, len(tiles))
	tm.letterToKey = make(map[string]string)
	tm.keyToLetter = make(map[string]string)

	// Sorted so duplicate letters resolve the same way on every load.
	keys := make([]string, 0, len(tiles))
	for key := range tiles {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	for _, key := range keys {
		td := tiles[key]
		tm.tileData[key] = &td
		if td.Letter == "" {
			continue
		}
		if _, taken := tm.letterToKey[td.Letter]; !taken {
			tm.letterToKey[td.Letter] = key
		}
		tm.keyToLetter[key] = td.Letter
	}
}

// GetTileData returns the configuration data for a tile key
func (tm *TileManager) GetTileData(key string) *TileData {
	return tm.tileData[key]
}

// HasTileKey checks if a tile key exists in the loaded configuration
func (tm *TileManager) HasTileKey(key string) bool {
	_, exists := tm.tileData[key]
	return exists
}

// GetAllTileKeys returns all tile keys in sorted order
func (tm *TileManager) GetAllTileKeys() []string {
	keys := make([]string, 0, len(tm.tileData))
	for key := range tm.tileData {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// IsWalkable reports whether actors may stand on the tile. Unknown keys,
// including NoTile, are not walkable.
func (tm *TileManager) IsWalkable(key string) bool {
	data := tm.GetTileData(key)
	if data == nil {
		return false
	}
	return data.Walkable
}

// GetColor returns the base colour for a tile key
func (tm *TileManager) GetColor(key string) [3]int {
	data := tm.GetTileData(key)
	if data == nil {
		return [3]int{255, 0, 255}
	}
	return data.Color
}

// GetDetailColor returns the accent colour and whether one is set
func (tm *TileManager) GetDetailColor(key string) ([3]int, bool) {
	data := tm.GetTileData(key)
	if data == nil || data.Detail == ([3]int{}) {
		return [3]int{}, false
	}
	return data.Detail, true
}

// GetTileKeyFromLetter returns the tile key for a map letter
func (tm *TileManager) GetTileKeyFromLetter(letter string) (string, bool) {
	key, ok := tm.letterToKey[letter]
	return key, ok
}

// GetLetterFromTileKey returns the map letter for a tile key
func (tm *TileManager) GetLetterFromTileKey(key string) string {
	return tm.keyToLetter[key]
}
