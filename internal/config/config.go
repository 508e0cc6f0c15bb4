package config

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"os"

	"swordguys/internal/movement"
	"swordguys/internal/viewport"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// Config holds all runtime configuration values
type Config struct {
	Display  DisplayConfig  `yaml:"display"`
	World    WorldConfig    `yaml:"world"`
	Movement MovementConfig `yaml:"movement"`
	Camera   CameraConfig   `yaml:"camera"`
	Audio    AudioConfig    `yaml:"audio"`
	Terminal TerminalConfig `yaml:"terminal"`
	Debug    DebugConfig    `yaml:"debug"`
}

type DisplayConfig struct {
	ScreenWidth  int    `yaml:"screen_width"`
	ScreenHeight int    `yaml:"screen_height"`
	WindowTitle  string `yaml:"window_title"`
	Resizable    bool   `yaml:"resizable"`
}

type WorldConfig struct {
	TileSize  int    `yaml:"tile_size"`
	TilesFile string `yaml:"tiles_file"`
	MapFile   string `yaml:"map_file"`
	// Generate builds the starting area in code when MapFile is empty or
	// cannot be loaded.
	Generate bool `yaml:"generate"`
}

type MovementConfig struct {
	SpeedTilesPerSecond float64             `yaml:"speed_tiles_per_second"`
	QueueLimit          int                 `yaml:"queue_limit"`
	KeyBindings         map[string][]string `yaml:"key_bindings"`
}

type CameraConfig struct {
	Columns         int     `yaml:"columns"`
	Rows            int     `yaml:"rows"`
	FollowSmoothing float64 `yaml:"follow_smoothing"`
	PreloadColumns  int     `yaml:"preload_columns"`
	PreloadRows     int     `yaml:"preload_rows"`
	BackgroundColor string  `yaml:"background_color"`
}

type AudioConfig struct {
	Enabled bool `yaml:"enabled"`
	// Volume is in beep's base-2 scale: 0 is unchanged, -1 halves.
	Volume      float64 `yaml:"volume"`
	FrequencyHz float64 `yaml:"frequency_hz"`
	DurationMS  int     `yaml:"duration_ms"`
	SampleRate  int     `yaml:"sample_rate"`
}

// TerminalConfig tunes the tcell client.
type TerminalConfig struct {
	FrameRate int `yaml:"frame_rate"`
	// HoldTimeoutMS is how long a key counts as held after its last press
	// event; terminals never report releases.
	HoldTimeoutMS int `yaml:"hold_timeout_ms"`
}

type DebugConfig struct {
	ShowHUD bool `yaml:"show_hud"`
}

const defaultBackground = "#0f061b"

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{
			ScreenWidth:  1280,
			ScreenHeight: 768,
			WindowTitle:  "Sword Guys",
			Resizable:    true,
		},
		World: WorldConfig{
			TileSize:  32,
			TilesFile: "assets/tiles.yaml",
			MapFile:   "assets/starting_area.map",
			Generate:  true,
		},
		Movement: MovementConfig{
			SpeedTilesPerSecond: movement.DefaultSpeed,
			QueueLimit:          movement.DefaultQueueLimit,
		},
		Camera: CameraConfig{
			Columns:         viewport.DefaultViewport.Columns,
			Rows:            viewport.DefaultViewport.Rows,
			FollowSmoothing: 0.2,
			PreloadColumns:  1,
			PreloadRows:     1,
			BackgroundColor: defaultBackground,
		},
		Audio: AudioConfig{
			Enabled:     true,
			Volume:      -2,
			FrequencyHz: 220,
			DurationMS:  40,
			SampleRate:  44100,
		},
		Terminal: TerminalConfig{
			FrameRate:     30,
			HoldTimeoutMS: 180,
		},
	}
}

// LoadConfig reads filename over the defaults and normalises the result.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", filename, err)
	}

	cfg.Normalize()
	return cfg, nil
}

// MustLoadConfig loads the configuration and panics on error
func MustLoadConfig(filename string) *Config {
	cfg, err := LoadConfig(filename)
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}
	return cfg
}

// Normalize replaces invalid values with safe ones. Every correction is
// logged once.
func (c *Config) Normalize() {
	d := Default()

	if c.Display.ScreenWidth <= 0 || c.Display.ScreenHeight <= 0 {
		log.Printf("Warning: invalid screen size %dx%d, using %dx%d",
			c.Display.ScreenWidth, c.Display.ScreenHeight, d.Display.ScreenWidth, d.Display.ScreenHeight)
		c.Display.ScreenWidth, c.Display.ScreenHeight = d.Display.ScreenWidth, d.Display.ScreenHeight
	}
	if c.World.TileSize <= 0 {
		log.Printf("Warning: invalid tile size %d, using %d", c.World.TileSize, d.World.TileSize)
		c.World.TileSize = d.World.TileSize
	}

	if s := c.Movement.SpeedTilesPerSecond; !(s >= movement.MinSpeed) || math.IsInf(s, 0) {
		log.Printf("Warning: movement speed %v clamped to %v", s, movement.MinSpeed)
		c.Movement.SpeedTilesPerSecond = movement.MinSpeed
	}
	if c.Movement.QueueLimit < 1 {
		c.Movement.QueueLimit = d.Movement.QueueLimit
	}

	if c.Camera.Columns < 1 || c.Camera.Rows < 1 {
		log.Printf("Warning: invalid viewport %dx%d, using %dx%d",
			c.Camera.Columns, c.Camera.Rows, d.Camera.Columns, d.Camera.Rows)
		c.Camera.Columns, c.Camera.Rows = d.Camera.Columns, d.Camera.Rows
	}
	if f := c.Camera.FollowSmoothing; math.IsNaN(f) || f < 0 || f > 1 {
		clamped := 0.0
		if f > 1 {
			clamped = 1
		}
		log.Printf("Warning: follow_smoothing %v clamped to %v", f, clamped)
		c.Camera.FollowSmoothing = clamped
	}
	c.Camera.PreloadColumns = max(0, c.Camera.PreloadColumns)
	c.Camera.PreloadRows = max(0, c.Camera.PreloadRows)
	if _, err := ParseColor(c.Camera.BackgroundColor); err != nil {
		log.Printf("Warning: %v, using %s", err, defaultBackground)
		c.Camera.BackgroundColor = defaultBackground
	}

	if c.Audio.FrequencyHz <= 0 {
		c.Audio.FrequencyHz = d.Audio.FrequencyHz
	}
	if c.Audio.DurationMS <= 0 {
		c.Audio.DurationMS = d.Audio.DurationMS
	}
	if c.Audio.SampleRate <= 0 {
		c.Audio.SampleRate = d.Audio.SampleRate
	}

	if c.Terminal.FrameRate <= 0 {
		c.Terminal.FrameRate = d.Terminal.FrameRate
	}
	if c.Terminal.HoldTimeoutMS <= 0 {
		c.Terminal.HoldTimeoutMS = d.Terminal.HoldTimeoutMS
	}
}

// ParseColor parses "#rgb" or "#rrggbb".
func ParseColor(s string) (color.RGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// Helper functions for easy access to commonly used values
func (c *Config) GetScreenWidth() int {
	return c.Display.ScreenWidth
}

func (c *Config) GetScreenHeight() int {
	return c.Display.ScreenHeight
}

func (c *Config) GetTileSize() float64 {
	return float64(c.World.TileSize)
}

func (c *Config) GetMoveSpeed() float64 {
	return c.Movement.SpeedTilesPerSecond
}

// GetKeyBindings returns the configured bindings, falling back to the
// defaults for any direction left empty.
func (c *Config) GetKeyBindings() movement.KeyBindings {
	if len(c.Movement.KeyBindings) == 0 {
		return movement.NormalizeBindings(movement.DefaultBindings())
	}
	return movement.ParseBindings(c.Movement.KeyBindings)
}

func (c *Config) GetViewport() viewport.Size {
	return viewport.Size{Columns: c.Camera.Columns, Rows: c.Camera.Rows}
}

func (c *Config) GetPreload() viewport.Size {
	return viewport.Size{Columns: c.Camera.PreloadColumns, Rows: c.Camera.PreloadRows}
}

func (c *Config) GetBackgroundColor() color.RGBA {
	bg, err := ParseColor(c.Camera.BackgroundColor)
	if err != nil {
		bg, _ = ParseColor(defaultBackground)
	}
	return bg
}
