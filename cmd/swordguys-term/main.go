package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"swordguys/internal/audio"
	"swordguys/internal/config"
	"swordguys/internal/game"
	"swordguys/internal/render/term"

	"github.com/gdamore/tcell/v2"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	hud := flag.Bool("hud", false, "show the full debug status line")
	fresh := flag.Bool("fresh", false, "start at the map spawn instead of the last position")
	flag.Parse()

	if err := run(*configPath, *hud, *fresh); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, hud, fresh bool) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if hud {
		cfg.Debug.ShowHUD = true
	}

	layout, tiles, err := game.LoadWorld(cfg)
	if err != nil {
		return err
	}

	resumePath := game.ResumePath()
	var resume *game.ResumePoint
	if !fresh {
		if resume, err = game.LoadResumePoint(resumePath); err != nil {
			log.Printf("Warning: %v", err)
		}
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

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialise screen: %w", err)
	}
	defer screen.Fini()
	screen.HideCursor()

	r, err := term.NewRunner(screen, cfg, layout, tiles, sound)
	if err != nil {
		return err
	}
	r.Scene().ResumeFrom(resume)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := r.Run(ctx); err != nil {
		return err
	}
	if err := game.SaveResumePoint(resumePath, r.Scene().ResumePoint()); err != nil {
		return fmt.Errorf("failed to save position: %w", err)
	}
	return nil
}
