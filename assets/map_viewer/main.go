package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"sort"

	"swordguys/internal/config"
	"swordguys/internal/game"
	render "swordguys/internal/render/ebiten"
	"swordguys/internal/viewport"
	"swordguys/internal/world"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	windowWidth  = 1200
	windowHeight = 800
	sidebarWidth = 300
	// logical tile size used to lay a whole map out before fitting it
	overviewTileSize = 16
)

type mapInfo struct {
	Name   string
	Path   string
	Layout *world.Layout
	Err    error
}

type viewer struct {
	maps        []mapInfo
	mapIndex    int
	legendLines []string
	tiles       *world.TileManager
	painter     viewport.DrawTileFunc
	panel       *render.Surface
	lastErr     string
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	export := flag.String("export", "", "write the generated starting area to this file and exit")
	flag.Parse()

	ensureRuntimeCWD()

	cfg := config.MustLoadConfig(*configPath)

	tiles := world.NewTileManager()
	if err := tiles.LoadTileConfig(cfg.World.TilesFile); err != nil {
		log.Printf("Warning: Failed to load tile config: %v", err)
		tiles = world.DefaultTileManager()
	}

	if *export != "" {
		if err := exportGenerated(*export, tiles); err != nil {
			log.Fatal(err)
		}
		return
	}

	maps := loadMaps(cfg, tiles)
	v := &viewer{
		maps:        maps,
		legendLines: buildLegendLines(tiles),
		tiles:       tiles,
		painter:     game.NewTilePainter(tiles),
		panel:       render.NewSurface(),
	}
	if len(maps) == 0 {
		v.lastErr = "no maps loaded"
	}

	ebiten.SetWindowSize(windowWidth, windowHeight)
	ebiten.SetWindowTitle("Sword Guys Map Viewer")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(v); err != nil {
		log.Fatal(err)
	}
}

func exportGenerated(path string, tiles *world.TileManager) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := world.NewMapLoader(tiles).WriteMap(f, world.GenerateStartingArea()); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	log.Printf("Wrote generated starting area to %s", path)
	return nil
}

func (v *viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyRight) || inpututil.IsKeyJustPressed(ebiten.KeyD) {
		if len(v.maps) > 0 {
			v.mapIndex = (v.mapIndex + 1) % len(v.maps)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyLeft) || inpututil.IsKeyJustPressed(ebiten.KeyA) {
		if len(v.maps) > 0 {
			v.mapIndex--
			if v.mapIndex < 0 {
				v.mapIndex = len(v.maps) - 1
			}
		}
	}
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{15, 15, 22, 255})

	if len(v.maps) == 0 {
		msg := v.lastErr
		if msg == "" {
			msg = "no maps loaded"
		}
		ebitenutil.DebugPrintAt(screen, msg, 16, 16)
		return
	}

	m := v.maps[v.mapIndex]
	if m.Err != nil {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("map %s failed to load: %v", m.Name, m.Err), 16, 16)
		return
	}

	screenW, screenH := screen.Bounds().Dx(), screen.Bounds().Dy()

	padding := 16
	mapAreaW := screenW - sidebarWidth - padding*3
	mapAreaH := screenH - padding*2
	mapAreaX := padding
	mapAreaY := padding
	sidebarX := mapAreaX + mapAreaW + padding
	sidebarY := padding

	v.drawMapPanel(screen, m, mapAreaX, mapAreaY, mapAreaW, mapAreaH)
	drawSidebar(screen, m, v.tiles, sidebarX, sidebarY, sidebarWidth, mapAreaH, v.legendLines)
}

func (v *viewer) Layout(_, _ int) (int, int) {
	return windowWidth, windowHeight
}

// drawMapPanel paints the whole map into the panel with the same letterbox
// fit the game uses for its viewport.
func (v *viewer) drawMapPanel(screen *ebiten.Image, m mapInfo, x, y, w, h int) {
	drawFilledRect(screen, x, y, w, h, color.RGBA{20, 20, 35, 255})
	drawRectBorder(screen, x, y, w, h, 2, color.RGBA{70, 70, 90, 255})

	worldW, worldH := m.Layout.Width(), m.Layout.Height()
	if worldW <= 0 || worldH <= 0 {
		ebitenutil.DebugPrintAt(screen, "invalid map size", x+12, y+12)
		return
	}

	innerX, innerY := x+4, y+44
	innerW, innerH := w-8, h-48
	if innerW <= 0 || innerH <= 0 {
		return
	}
	if bw, bh := v.panel.BackingSize(); bw != innerW || bh != innerH {
		v.panel.Resize(innerW, innerH)
	}
	v.panel.Clear(color.RGBA{20, 20, 35, 255})

	t := viewport.FitTransform(innerW, innerH, float64(worldW*overviewTileSize), float64(worldH*overviewTileSize))
	canvas, ok := v.panel.Canvas(t)
	if !ok {
		return
	}
	for ty := 0; ty < worldH; ty++ {
		for tx := 0; tx < worldW; tx++ {
			key, _ := m.Layout.TileAt(tx, ty)
			v.painter(canvas, key, float64(tx*overviewTileSize), float64(ty*overviewTileSize), overviewTileSize, tx, ty)
		}
	}

	spawn := m.Layout.Spawn()
	cx := (float64(spawn.X) + 0.5) * overviewTileSize
	cy := (float64(spawn.Y) + 0.5) * overviewTileSize
	canvas.FillCircle(cx, cy, overviewTileSize*0.35, color.RGBA{50, 200, 255, 255})
	canvas.StrokeCircle(cx, cy, overviewTileSize*0.35, 1, color.RGBA{255, 255, 255, 255})

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(innerX), float64(innerY))
	screen.DrawImage(v.panel.Image(), op)

	drawMapHeader(screen, m, x, y)
}

func drawMapHeader(screen *ebiten.Image, m mapInfo, x, y int) {
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s (%s)", m.Layout.Name, m.Path), x+12, y+8)
	ebitenutil.DebugPrintAt(screen, "Left/Right (or A/D) to switch maps, Esc to quit", x+12, y+24)
}

func drawSidebar(screen *ebiten.Image, m mapInfo, tiles *world.TileManager, x, y, w, h int, legendLines []string) {
	drawFilledRect(screen, x, y, w, h, color.RGBA{18, 18, 26, 255})
	drawRectBorder(screen, x, y, w, h, 2, color.RGBA{70, 70, 90, 255})

	row := y + 12
	walkable := 0
	counts := make(map[string]int)
	for ty := 0; ty < m.Layout.Height(); ty++ {
		for tx := 0; tx < m.Layout.Width(); tx++ {
			key, _ := m.Layout.TileAt(tx, ty)
			counts[key]++
			if tiles.IsWalkable(key) {
				walkable++
			}
		}
	}

	spawn := m.Layout.Spawn()
	stats := []string{
		fmt.Sprintf("Tiles: %dx%d", m.Layout.Width(), m.Layout.Height()),
		fmt.Sprintf("Walkable: %d", walkable),
		fmt.Sprintf("Spawn: %d,%d", spawn.X, spawn.Y),
	}
	for _, line := range stats {
		ebitenutil.DebugPrintAt(screen, line, x+12, row)
		row += 16
	}

	row += 8
	for _, line := range legendLines {
		ebitenutil.DebugPrintAt(screen, line, x+12, row)
		row += 14
	}

	row += 8
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%-6s %5d", key, counts[key]), x+12, row)
		row += 14
	}
}

// loadMaps collects the configured map, every other .map file next to it,
// and the generated starting area.
func loadMaps(cfg *config.Config, tiles *world.TileManager) []mapInfo {
	loader := world.NewMapLoader(tiles)
	seen := make(map[string]bool)
	var paths []string
	if cfg.World.MapFile != "" {
		paths = append(paths, cfg.World.MapFile)
		seen[filepath.Clean(cfg.World.MapFile)] = true
	}

	dir := "assets"
	if cfg.World.MapFile != "" {
		dir = filepath.Dir(cfg.World.MapFile)
	}
	if matches, err := filepath.Glob(filepath.Join(dir, "*.map")); err == nil {
		sort.Strings(matches)
		for _, p := range matches {
			if !seen[filepath.Clean(p)] {
				seen[filepath.Clean(p)] = true
				paths = append(paths, p)
			}
		}
	}

	var maps []mapInfo
	for _, p := range paths {
		layout, err := loader.LoadMap(p)
		maps = append(maps, mapInfo{Name: filepath.Base(p), Path: p, Layout: layout, Err: err})
	}
	maps = append(maps, mapInfo{Name: "generated", Path: "generated", Layout: world.GenerateStartingArea()})
	return maps
}

func buildLegendLines(tiles *world.TileManager) []string {
	lines := []string{"Tiles (letter -> key/name)", "--------------------------"}
	for _, key := range tiles.GetAllTileKeys() {
		data := tiles.GetTileData(key)
		walk := "blocked"
		if data.Walkable {
			walk = "walkable"
		}
		lines = append(lines, fmt.Sprintf("%s -> %s (%s) %s", data.Letter, key, data.Name, walk))
	}
	return append(lines, "", "+ = start position")
}

func drawFilledRect(screen *ebiten.Image, x, y, w, h int, clr color.RGBA) {
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), clr, false)
}

func drawRectBorder(screen *ebiten.Image, x, y, w, h, thickness int, clr color.RGBA) {
	t := float32(thickness)
	fx := float32(x)
	fy := float32(y)
	fw := float32(w)
	fh := float32(h)
	vector.DrawFilledRect(screen, fx, fy, fw, t, clr, false)
	vector.DrawFilledRect(screen, fx, fy+fh-t, fw, t, clr, false)
	vector.DrawFilledRect(screen, fx, fy, t, fh, clr, false)
	vector.DrawFilledRect(screen, fx+fw-t, fy, t, fh, clr, false)
}

func ensureRuntimeCWD() {
	if _, err := os.Stat("config.yaml"); err == nil {
		return
	}
	exe, err := os.Executable()
	if err != nil {
		return
	}
	execDir := filepath.Dir(exe)
	_ = os.Chdir(execDir)
}
