package main

import (
	"errors"
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/party-countdown/internal/audio"
	"github.com/iburimskiy/party-countdown/internal/config"
	"github.com/iburimskiy/party-countdown/internal/events"
	"github.com/iburimskiy/party-countdown/internal/game"
	"github.com/iburimskiy/party-countdown/internal/settings"
)

const appName = "party_countdown"

func main() {
	configPath := flag.String("config", "party.yaml", "page config file (YAML); missing file uses the defaults")
	width := flag.Int("width", config.WindowWidth, "initial window width")
	height := flag.Int("height", config.WindowHeight, "initial window height")
	mobile := flag.Bool("mobile", false, "force the reduced mobile layout")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("[Main] %v", err)
	}
	if *mobile {
		cfg.Effects.MobileMode = true
	}

	prefs := settings.Open(appName)
	bus := events.NewBus()
	player := audio.NewController(audio.NewBeepBackend(cfg.TrackPath, prefs.Preferences().MusicVolume), bus)

	ebiten.SetWindowSize(*width, *height)
	ebiten.SetWindowTitle(cfg.Title + " - M: music, O: open track, Esc/Q: quit")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	g := game.New(cfg, player, prefs, bus, game.Options{Width: *width, Height: *height})
	err = ebiten.RunGame(g)

	g.Close()
	if cerr := player.Close(); cerr != nil {
		log.Printf("[Music] Warning: closing track: %v", cerr)
	}
	if err != nil && !errors.Is(err, ebiten.Termination) {
		panic(err)
	}
}
