package ebiten

import (
	"fmt"
	"time"

	"swordguys/internal/config"
	"swordguys/internal/game"
	"swordguys/internal/viewport"
	"swordguys/internal/world"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Runner drives a scene from ebiten's game loop. It implements ebiten.Game
// and LayoutF, so the screen is always the window size in physical pixels.
type Runner struct {
	scene   *game.Scene
	surface *Surface
	input   *Input
	hud     hud
	perf    perfWatch
	showHUD bool
}

// NewRunner builds and mounts a scene over an ebiten surface.
func NewRunner(cfg *config.Config, layout *world.Layout, tiles *world.TileManager, sound game.Footsteps) (*Runner, error) {
	surface := NewSurface()
	input := NewInput(cfg.GetKeyBindings().Tokens())

	scene, err := game.NewScene(cfg, layout, tiles, game.Platform{
		Surface: surface,
		Resize:  surface,
		Input:   input,
		Sound:   sound,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build scene: %w", err)
	}
	scene.Mount()

	return &Runner{
		scene:   scene,
		surface: surface,
		input:   input,
		showHUD: cfg.Debug.ShowHUD,
	}, nil
}

// Scene exposes the mounted scene.
func (r *Runner) Scene() *game.Scene { return r.scene }

// Close unmounts the scene.
func (r *Runner) Close() {
	r.scene.Unmount()
}

// Update handles input and advances the scene by one tick.
func (r *Runner) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		r.showHUD = !r.showHUD
	}

	r.surface.FlushResize()
	r.input.Poll()
	r.scene.Tick(time.Second / time.Duration(max(1, ebiten.TPS())))

	if r.showHUD {
		if fps := ebiten.ActualFPS(); r.perf.check(time.Now(), fps) {
			logPerfSnapshot(fps, ebiten.ActualTPS(), r.scene.Monitor().GetStats())
		}
	}
	return nil
}

// Draw renders the scene offscreen and copies it to the screen.
func (r *Runner) Draw(screen *ebiten.Image) {
	r.scene.Draw()
	if img := r.surface.Image(); img != nil {
		screen.DrawImage(img, nil)
	}
	if r.showHUD {
		_, _, density := r.surface.Metrics()
		r.hud.draw(screen, r.scene.Status().Lines(), density)
	}
}

// Layout is only used by ebiten when LayoutF is absent.
func (r *Runner) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// LayoutF records the window size and returns it in physical pixels.
func (r *Runner) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	density := ebiten.Monitor().DeviceScaleFactor()
	r.surface.SetLayout(outsideWidth, outsideHeight, density)
	w, h := viewport.PhysicalSize(outsideWidth, outsideHeight, density)
	return float64(w), float64(h)
}
