package main

import (
	"errors"
	"flag"
	"log"

	"swordguys/internal/audio"
	"swordguys/internal/config"
	"swordguys/internal/game"
	render "swordguys/internal/render/ebiten"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	fresh := flag.Bool("fresh", false, "start at the map spawn instead of the last position")
	flag.Parse()

	// Load configuration
	cfg := config.MustLoadConfig(*configPath)

	layout, tiles, err := game.LoadWorld(cfg)
	if err != nil {
		log.Fatal(err)
	}

	var sound game.Footsteps
	if cfg.Audio.Enabled {
		steps := audio.NewFootsteps(cfg.Audio)
		if err := steps.Initialize(); err != nil {
			log.Printf("Warning: Failed to initialise audio: %v", err)
		} else {
			defer steps.Close()
			sound = steps
		}
	}

	// Set window properties from config
	ebiten.SetWindowSize(cfg.GetScreenWidth(), cfg.GetScreenHeight())
	ebiten.SetWindowTitle(cfg.Display.WindowTitle)
	if cfg.Display.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	r, err := render.NewRunner(cfg, layout, tiles, sound)
	if err != nil {
		log.Fatal(err)
	}
	defer r.Close()

	resumePath := game.ResumePath()
	if !*fresh {
		p, err := game.LoadResumePoint(resumePath)
		if err != nil {
			log.Printf("Warning: %v", err)
		}
		r.Scene().ResumeFrom(p)
	}

	if err := ebiten.RunGame(r); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}

	if err := game.SaveResumePoint(resumePath, r.Scene().ResumePoint()); err != nil {
		log.Printf("Warning: Failed to save position: %v", err)
	}
}
