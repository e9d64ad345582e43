package game

import (
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/ncruces/zenity"

	"github.com/iburimskiy/party-countdown/internal/audio"
	"github.com/iburimskiy/party-countdown/internal/config"
	"github.com/iburimskiy/party-countdown/internal/events"
	"github.com/iburimskiy/party-countdown/internal/particle"
	"github.com/iburimskiy/party-countdown/internal/render"
	"github.com/iburimskiy/party-countdown/internal/settings"
)

// Options are the launch parameters of a Game.
type Options struct {
	Width, Height int
	Seed          uint64

	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Game is the countdown page as an ebiten.Game.
type Game struct {
	cfg    *config.Config
	bus    *events.Bus
	player *audio.Controller
	prefs  *settings.Store
	page   *page
	fonts  *fonts

	clock      func() time.Time
	started    time.Time
	autoplayed bool
	volume     float64

	width, height int

	// Particle layers: the cursor trail is off in the mobile layout.
	trailLayer   *render.Layer
	ambientLayer *render.Layer
	trail        *render.FrameDriver
	ambient      *render.FrameDriver
	field        *particle.Field
	emitters     []*particle.Emitter

	// input edge detection
	prevX, prevY int
	keys         []ebiten.Key
	touches      []ebiten.TouchID

	subs    []*events.Subscription
	lastErr error
}

// New builds the page. player and prefs may be nil.
func New(cfg *config.Config, player *audio.Controller, prefs *settings.Store, bus *events.Bus, opts Options) *Game {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = config.WindowWidth, config.WindowHeight
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Seed == 0 {
		opts.Seed = uint64(opts.Clock().UnixNano())
	}
	if bus == nil {
		bus = events.NewBus()
	}
	rnd := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	mobile := cfg.Mobile(opts.Width)

	g := &Game{
		cfg:     cfg,
		bus:     bus,
		player:  player,
		prefs:   prefs,
		clock:   opts.Clock,
		started: opts.Clock(),
		width:   opts.Width,
		height:  opts.Height,
		prevX:   -1,
		prevY:   -1,
		volume:  audio.DefaultVolume,
	}
	if prefs != nil {
		g.volume = prefs.Preferences().MusicVolume
	}

	f, err := loadFonts(mobile)
	if err != nil {
		log.Printf("[Game] Warning: %v (using debug font)", err)
		f = &fonts{}
	}
	g.fonts = f

	// Trail
	var trailPool *particle.Pool
	trailOpts := render.TrailOptions()
	trailOpts.ThrottleFPS = cfg.Effects.ThrottleFPS
	if mobile {
		g.trail = render.NewFrameDriver(nil, trailOpts)
	} else {
		trailPool = particle.NewPool(particle.TrailParams(), rnd)
		g.trailLayer = render.NewLayer(g.width, g.height)
		g.trail = render.NewFrameDriver(g.trailLayer, trailOpts, trailPool)
	}

	// Ambient field, motes and dust
	g.field = particle.NewField(cfg.Particles(mobile), float64(g.width), float64(g.height), rnd)
	if mobile {
		g.field.SetDim(config.MobileFieldAlpha)
	}
	g.ambientLayer = render.NewLayer(g.width, g.height)
	sources := []render.Source{g.field}
	if !mobile {
		floaters := particle.NewPool(particle.Params{}, rnd)
		w := func() float64 { return float64(g.width) }
		h := func() float64 { return float64(g.height) }
		g.emitters = []*particle.Emitter{
			particle.NewEmitter(floaters, rnd, config.MoteInterval, particle.FloatingMotes(w, h)),
			particle.NewEmitter(floaters, rnd, config.DustInterval, particle.RisingDust(w, h)),
		}
		sources = append(sources, floaters)
	}
	g.ambient = render.NewFrameDriver(g.ambientLayer, render.AmbientOptions(), sources...)

	// The layers follow a resize before the page re-lays itself out.
	g.subs = append(g.subs, bus.Subscribe(events.Resize, func(e events.Event) { g.resize(e.W, e.H) }))

	var m music
	if player != nil {
		m = player
	}
	g.page = newPage(cfg, bus, m, trailPool, rnd, mobile, g.width, g.height)
	g.page.measure = func(s string) float64 { return advance(s, g.fonts.title) }
	g.page.layoutTitle()
	g.page.afterToggle = g.rememberMusic
	if player != nil {
		player.OnChange(g.musicChanged)
	}

	log.Printf("[Game] Page ready: %dx%d mobile=%v particles=%d", g.width, g.height, mobile, g.field.Len())
	return g
}

func (g *Game) elapsed() time.Duration { return g.clock().Sub(g.started) }

func (g *Game) resize(w, h int) {
	g.width, g.height = w, h
	if g.trailLayer != nil {
		g.trailLayer.Resize(w, h)
	}
	g.ambientLayer.Resize(w, h)
	g.field.Resize(float64(w), float64(h))
}

// musicChanged runs on the game loop: autoplay, its interaction retry and
// toggles all change state from Update.
func (g *Game) musicChanged(playing bool) {
	log.Printf("[Music] Playing: %v", playing)
	g.page.musicChanged(playing)
}

// rememberMusic stores the listener's last explicit choice.
func (g *Game) rememberMusic(playing bool) {
	if g.prefs == nil {
		return
	}
	g.prefs.SetMusicEnabled(playing)
	if err := g.prefs.Save(); err != nil {
		log.Printf("[Settings] Warning: %v", err)
	}
}

// volumeStep is the change per arrow key press.
const volumeStep = 0.1

func (g *Game) changeVolume(delta float64) {
	g.volume = render.Clamp01(g.volume + delta)
	if g.player != nil {
		g.player.SetVolume(g.volume)
	}
	log.Printf("[Music] Volume %.0f%%", g.volume*100)
	if g.prefs == nil {
		return
	}
	g.prefs.SetMusicVolume(g.volume)
	if err := g.prefs.Save(); err != nil {
		log.Printf("[Settings] Warning: %v", err)
	}
}

func (g *Game) Update() error {
	// Shortcuts run before the tick's events are published so an explicit
	// toggle wins over a pending autoplay retry.
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyQ):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		if g.page.escape() {
			return ebiten.Termination
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		g.page.toggleMusic()
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		g.changeVolume(volumeStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		g.changeVolume(-volumeStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyO):
		if err := g.openTrackDialog(); err != nil {
			log.Printf("[Music] Error: %v", err)
			g.lastErr = err
		}
	}

	now := g.elapsed()
	g.page.update(now, g.clock())
	g.pollInput()

	if g.page.phase() != PhaseMain {
		return nil
	}
	if !g.autoplayed {
		g.autoplayed = true
		g.startMusic()
	}
	for _, e := range g.emitters {
		e.Tick(now)
	}
	return nil
}

func (g *Game) startMusic() {
	if g.player == nil {
		return
	}
	if g.prefs != nil && !g.prefs.Preferences().MusicEnabled {
		log.Printf("[Music] Switched off last time, not autoplaying")
		return
	}
	g.player.Autoplay()
}

func (g *Game) openTrackDialog() error {
	if g.player == nil {
		return nil
	}
	filename, err := zenity.SelectFile(
		zenity.Title("Open Background Track"),
		zenity.FileFilters{{
			Name:     "Audio",
			Patterns: []string{"*.wav", "*.mp3", "*.flac"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return nil
		}
		return fmt.Errorf("select track: %w", err)
	}

	log.Printf("[Music] Selected %s", filename)
	if err := g.player.Replace(audio.NewBeepBackend(filename, g.volume)); err != nil {
		return fmt.Errorf("play %s: %w", filename, err)
	}
	if !g.player.Playing() {
		g.page.toggleMusic()
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	now := g.elapsed()
	g.trail.Cycle(now)
	g.ambient.Cycle(now)

	g.drawBackground(screen, now)

	if alpha := g.page.timeline.MainAlpha(now); alpha > 0 {
		g.ambientLayer.DrawTo(screen, alpha)
		g.drawOrbs(screen, now, alpha)
		g.drawTitle(screen, now, alpha)
		g.drawSubtitle(screen, now, alpha)
		g.drawIntro(screen, now, alpha)
		g.drawCountdown(screen, now, g.page.layout.eventY, g.page.eventHeading(), g.page.eventRow, eventLabels, true, alpha)
		g.drawJoinButton(screen, now, alpha)
		g.drawRegistration(screen, now, alpha)
		g.drawToggle(screen, now, alpha)
	}
	g.drawShards(screen, now)
	if g.trailLayer != nil {
		g.trailLayer.DrawTo(screen, 1)
	}
	g.drawModal(screen)
	g.drawLoading(screen, now)
	g.drawStatus(screen)
}

// Layout follows the window size; a change is published as a Resize.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 && (outsideWidth != g.width || outsideHeight != g.height) {
		g.bus.Publish(events.Event{Kind: events.Resize, W: outsideWidth, H: outsideHeight})
	}
	return g.width, g.height
}

// Close stops both particle loops and drops every subscription.
func (g *Game) Close() {
	g.trail.Stop()
	g.ambient.Stop()
	g.page.close()
	for _, s := range g.subs {
		s.Unsubscribe()
	}
	g.subs = nil
}
