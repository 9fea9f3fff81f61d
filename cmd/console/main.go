package main

import (
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jwebster45206/mapquest/internal/config"
	"github.com/jwebster45206/mapquest/internal/logger"
	"github.com/jwebster45206/mapquest/pkg/engine"
	"github.com/jwebster45206/mapquest/pkg/world"
)

const logFile = "mapquest-console.log"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Log lines would corrupt the alt screen, so they go to a file.
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	log := logger.SetupTo(cfg, f)

	w := world.Default()
	if cfg.WorldFile != "" {
		if w, err = world.Load(cfg.WorldFile); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load world %s: %v\n", cfg.WorldFile, err)
			os.Exit(1)
		}
	}

	game := engine.New(w, engine.Options{Trigger: cfg.TriggerOptions()}, log)
	b := &bridge{}
	game.SetDelegate(b)
	game.Subscribe(b)

	log.Info("Starting MapQuest console", "world", w.Name, "hero", cfg.HeroName)

	p := tea.NewProgram(NewConsoleUI(cfg, game, b, log), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
