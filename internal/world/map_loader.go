package world

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"swordguys/internal/movement"
)

// SpawnMarker marks the spawn tile in map files. The cell itself becomes a
// TileSpawn tile.
const SpawnMarker = '+'

// MapLoader handles loading world maps from files
type MapLoader struct {
	tiles *TileManager
}

// NewMapLoader creates a loader resolving letters through tiles.
func NewMapLoader(tiles *TileManager) *MapLoader {
	if tiles == nil {
		tiles = DefaultTileManager()
	}
	return &MapLoader{tiles: tiles}
}

// LoadMap loads a map from the specified file path
func (ml *MapLoader) LoadMap(mapPath string) (*Layout, error) {
	file, err := os.Open(mapPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open map file %s: %w", mapPath, err)
	}
	defer file.Close()

	layout, err := ml.ParseMap(file)
	if err != nil {
		return nil, fmt.Errorf("map %s: %w", mapPath, err)
	}
	layout.Name = strings.TrimSuffix(filepath.Base(mapPath), filepath.Ext(mapPath))
	return layout, nil
}

// ParseMap reads an ASCII map: one character per tile, blank lines and lines
// starting with '#' skipped, every row the same width.
func (ml *MapLoader) ParseMap(r io.Reader) (*Layout, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading map file: %w", err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("map file contains no valid map data")
	}

	width := utf8.RuneCountInString(lines[0])
	for i, line := range lines {
		if n := utf8.RuneCountInString(line); n != width {
			return nil, fmt.Errorf("line %d has inconsistent width: expected %d, got %d", i+1, width, n)
		}
	}

	layout := NewLayout(width, len(lines), NoTile)
	for y, line := range lines {
		x := 0
		for _, char := range line {
			if char == SpawnMarker {
				layout.Set(x, y, TileSpawn)
				layout.SetSpawn(movement.Tile{X: x, Y: y})
				x++
				continue
			}
			key, ok := ml.tiles.GetTileKeyFromLetter(string(char))
			if !ok {
				return nil, fmt.Errorf("line %d column %d: unknown tile letter %q", y+1, x+1, char)
			}
			layout.Set(x, y, key)
			x++
		}
	}
	return layout, nil
}

// WriteMap renders a layout back to the ASCII format. Tiles without a
// letter are written as '?'.
func (ml *MapLoader) WriteMap(w io.Writer, layout *Layout) error {
	bw := bufio.NewWriter(w)
	if layout.Name != "" {
		fmt.Fprintf(bw, "# %s\n", layout.Name)
	}
	for y := 0; y < layout.Height(); y++ {
		for x := 0; x < layout.Width(); x++ {
			key, _ := layout.TileAt(x, y)
			letter := ml.tiles.GetLetterFromTileKey(key)
			if layout.HasSpawn() && layout.Spawn() == (movement.Tile{X: x, Y: y}) {
				letter = string(SpawnMarker)
			}
			if letter == "" {
				letter = "?"
			}
			bw.WriteString(letter)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
