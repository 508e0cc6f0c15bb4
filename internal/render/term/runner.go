package term

import (
	"context"
	"fmt"
	"strings"
	"time"

	"swordguys/internal/config"
	"swordguys/internal/game"
	"swordguys/internal/world"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

const statusRows = 1

var statusStyle = tcell.StyleDefault.
	Foreground(tcell.NewRGBColor(235, 225, 200)).
	Background(tcell.NewRGBColor(15, 6, 27))

// Runner drives a scene on a tcell screen at a fixed frame rate.
type Runner struct {
	screen  tcell.Screen
	scene   *game.Scene
	surface *Surface
	input   *Input
	frame   time.Duration
	showHUD bool
}

// NewRunner builds and mounts a scene on an initialised screen.
func NewRunner(screen tcell.Screen, cfg *config.Config, layout *world.Layout, tiles *world.TileManager, sound game.Footsteps) (*Runner, error) {
	surface := NewSurface(screen, statusRows)
	input := NewInput(time.Duration(cfg.Terminal.HoldTimeoutMS) * time.Millisecond)

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

	fps := max(1, cfg.Terminal.FrameRate)
	return &Runner{
		screen:  screen,
		scene:   scene,
		surface: surface,
		input:   input,
		frame:   time.Second / time.Duration(fps),
		showHUD: cfg.Debug.ShowHUD,
	}, nil
}

func (r *Runner) Scene() *game.Scene { return r.scene }

// Run processes events and frames until ctx is done or the user quits. The
// caller owns the screen and must Fini it afterwards.
func (r *Runner) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 16)
	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			ev := r.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(r.frame)
	defer ticker.Stop()
	defer r.scene.Unmount()

	last := time.Now()
	r.Draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if r.HandleEvent(ev) {
				return nil
			}
		case now := <-ticker.C:
			r.Step(now.Sub(last))
			last = now
		}
	}
}

// HandleEvent applies one tcell event and reports whether to quit.
func (r *Runner) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		r.screen.Sync()
		r.surface.NotifyResize()
	case *tcell.EventFocus:
		if !ev.Focused {
			r.input.ReleaseAll()
		}
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC:
			return true
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
			return true
		case ev.Key() == tcell.KeyF3:
			r.showHUD = !r.showHUD
		default:
			r.input.HandleKey(ev)
		}
	}
	return false
}

// Step advances the scene by dt and redraws.
func (r *Runner) Step(dt time.Duration) {
	r.input.Expire()
	r.scene.Tick(dt)
	r.Draw()
}

// Draw paints the scene and status line and shows the screen.
func (r *Runner) Draw() {
	r.scene.Draw()
	r.surface.Present()
	r.drawStatus()
	r.screen.Show()
}

func (r *Runner) drawStatus() {
	cols, rows := r.screen.Size()
	if rows < 1 || cols < 1 {
		return
	}

	var text string
	if r.showHUD {
		text = strings.Join(r.scene.Status().Lines(), " | ")
	} else {
		st := r.scene.Status()
		text = st.Lines()[0] + "  arrows/wasd move, q quits"
		if st.Blocked != "" {
			text = st.Lines()[0] + "  blocked by " + st.Blocked
		}
	}
	text = runewidth.FillRight(runewidth.Truncate(text, cols, "…"), cols)

	x := 0
	for _, ch := range text {
		r.screen.SetContent(x, rows-1, ch, nil, statusStyle)
		x += max(1, runewidth.RuneWidth(ch))
	}
}
