package game

import (
	"fmt"
	"log"
	"time"

	"swordguys/internal/config"
	"swordguys/internal/monitoring"
	"swordguys/internal/movement"
	"swordguys/internal/viewport"
	"swordguys/internal/world"

	"github.com/go-gl/mathgl/mgl64"
)

// Footsteps is notified after every completed step.
type Footsteps interface {
	Step()
}

// Platform bundles what a client supplies to a scene.
type Platform struct {
	Surface viewport.Surface
	Resize  viewport.ResizeNotifier
	Input   movement.InputSource
	Sound   Footsteps
}

// Scene wires one controller and one tile map over a layout. It is the only
// place the two meet: controller notifications are forwarded to the camera.
type Scene struct {
	cfg         *config.Config
	layout      *world.Layout
	tiles       *world.TileManager
	passability *world.Passability
	frames      *Frames
	controller  *movement.Controller
	tileMap     *viewport.TileMap
	resize      viewport.ResizeNotifier
	sound       Footsteps
	monitor     *monitoring.FrameMonitor

	mounted bool
	facing  movement.Direction
	blocked string
}

// LoadWorld resolves the tile set and map named in cfg. Problems with the
// tile file fall back to the built-in tiles; a missing or broken map falls
// back to the generated starting area when cfg.World.Generate is set.
func LoadWorld(cfg *config.Config) (*world.Layout, *world.TileManager, error) {
	tiles := world.DefaultTileManager()
	if cfg.World.TilesFile != "" {
		tm := world.NewTileManager()
		if err := tm.LoadTileConfig(cfg.World.TilesFile); err != nil {
			log.Printf("Warning: Failed to load tile config: %v", err)
		} else {
			tiles = tm
		}
	}

	if cfg.World.MapFile != "" {
		layout, err := world.NewMapLoader(tiles).LoadMap(cfg.World.MapFile)
		if err == nil {
			return layout, tiles, nil
		}
		if !cfg.World.Generate {
			return nil, nil, fmt.Errorf("failed to load map: %w", err)
		}
		log.Printf("Warning: %v, using the generated starting area", err)
	} else if !cfg.World.Generate {
		return nil, nil, fmt.Errorf("no map file configured and generation is disabled")
	}

	for _, key := range []string{world.TileGrass, world.TileTree, world.TileWater, world.TileRock, world.TilePath, world.TileSpawn} {
		if !tiles.HasTileKey(key) {
			log.Printf("Warning: tile set has no %q tile, using built-in tiles", key)
			tiles = world.DefaultTileManager()
			break
		}
	}
	return world.GenerateStartingArea(), tiles, nil
}

// NewScene builds a stopped scene. Mount starts it.
func NewScene(cfg *config.Config, layout *world.Layout, tiles *world.TileManager, p Platform) (*Scene, error) {
	if layout == nil {
		return nil, fmt.Errorf("scene needs a layout")
	}
	if tiles == nil {
		tiles = world.DefaultTileManager()
	}

	s := &Scene{
		cfg:         cfg,
		layout:      layout,
		tiles:       tiles,
		passability: world.NewPassability(layout, tiles),
		frames:      NewFrames(),
		resize:      p.Resize,
		sound:       p.Sound,
		monitor:     monitoring.NewFrameMonitor(0.1),
	}

	tileMap, err := viewport.NewTileMap(p.Surface, viewport.Options{
		Layout:          layout,
		TileSize:        cfg.GetTileSize(),
		Viewport:        cfg.GetViewport(),
		DrawTile:        NewTilePainter(tiles),
		Background:      cfg.GetBackgroundColor(),
		FollowSmoothing: cfg.Camera.FollowSmoothing,
		Preload:         cfg.GetPreload(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tile map: %w", err)
	}
	s.tileMap = tileMap

	s.controller = movement.NewController(movement.Options{
		Start:      layout.Spawn(),
		Speed:      cfg.GetMoveSpeed(),
		Bindings:   cfg.GetKeyBindings(),
		CanMoveTo:  s.passability.CanMoveTo,
		Sink:       s,
		Input:      p.Input,
		Scheduler:  s.frames,
		QueueLimit: cfg.Movement.QueueLimit,
	})
	return s, nil
}

// Mount starts input, ticking and resize handling.
func (s *Scene) Mount() {
	if s.mounted {
		return
	}
	s.mounted = true
	s.controller.Start()
	s.tileMap.Start(s.resize)
}

// Unmount releases everything Mount acquired.
func (s *Scene) Unmount() {
	if !s.mounted {
		return
	}
	s.mounted = false
	s.controller.Stop()
	s.tileMap.Destroy()
}

// Resume places the actor on a saved tile.
func (s *Scene) Resume(t movement.Tile) {
	s.controller.SetTilePosition(t)
}

// Tick advances the scene by one frame.
func (s *Scene) Tick(dt time.Duration) {
	s.monitor.RecordTick()
	s.frames.Tick(dt)
}

// Draw paints the current frame onto the platform surface.
func (s *Scene) Draw() {
	t := s.monitor.StartFrame()
	s.tileMap.Draw()
	t.EndFrame()
}

func (s *Scene) Controller() *movement.Controller  { return s.controller }
func (s *Scene) TileMap() *viewport.TileMap        { return s.tileMap }
func (s *Scene) Layout() *world.Layout             { return s.layout }
func (s *Scene) Monitor() *monitoring.FrameMonitor { return s.monitor }

// PositionChanged moves the camera and marker with the actor.
func (s *Scene) PositionChanged(visual mgl64.Vec2, _ float64) {
	s.tileMap.SetCameraTarget(visual, false)
	s.tileMap.SetPlayerPosition(visual, false)
}

func (s *Scene) TileEntered(movement.Tile, movement.Direction) {
	s.blocked = ""
	s.monitor.RecordStep()
	if s.sound != nil {
		s.sound.Step()
	}
}

func (s *Scene) MoveStarted(m movement.Move) {
	s.facing = m.Direction
	s.blocked = ""
}

func (s *Scene) MoveBlocked(_, to movement.Tile, dir movement.Direction) {
	s.facing = dir
	s.blocked = s.passability.Describe(to)
}

// Status is a snapshot for the debug HUD.
type Status struct {
	Tile    movement.Tile
	Visual  mgl64.Vec2
	Facing  movement.Direction
	Moving  bool
	Blocked string
	Terrain string
	Camera  mgl64.Vec2
	Scale   float64
	Stats   monitoring.FrameStats
}

func (s *Scene) Status() Status {
	tile := s.controller.TilePosition()
	return Status{
		Tile:    tile,
		Visual:  s.controller.VisualPosition(),
		Facing:  s.facing,
		Moving:  s.controller.Moving(),
		Blocked: s.blocked,
		Terrain: s.passability.Describe(tile),
		Camera:  s.tileMap.Camera().Center(),
		Scale:   s.tileMap.Transform().Scale,
		Stats:   s.monitor.GetStats(),
	}
}

// Lines formats the status for text output.
func (st Status) Lines() []string {
	lines := []string{
		fmt.Sprintf("tile %d,%d  %s", st.Tile.X, st.Tile.Y, st.Terrain),
		fmt.Sprintf("pos %.2f,%.2f  facing %s", st.Visual[0], st.Visual[1], st.Facing),
		fmt.Sprintf("camera %.2f,%.2f  scale %.2f", st.Camera[0], st.Camera[1], st.Scale),
		fmt.Sprintf("fps %.0f  steps %d", st.Stats.FPS(), st.Stats.Steps),
	}
	if st.Blocked != "" {
		lines = append(lines, "blocked by "+st.Blocked)
	}
	return lines
}
