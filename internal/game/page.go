package game

import (
	"log"
	"time"

	"github.com/iburimskiy/party-countdown/internal/config"
	"github.com/iburimskiy/party-countdown/internal/countdown"
	"github.com/iburimskiy/party-countdown/internal/effects"
	"github.com/iburimskiy/party-countdown/internal/events"
	"github.com/iburimskiy/party-countdown/internal/particle"
	"github.com/iburimskiy/party-countdown/internal/render"
)

const (
	letterSpin      = 600 * time.Millisecond
	toggleGrow      = 300 * time.Millisecond
	titleHeight     = 56.0
	fallbackAdvance = 8.0 // debug font glyph width
)

// music is what the page needs from the audio controller.
type music interface {
	Toggle()
	Playing() bool
	Levels(count int) []float64
}

// page is the main screen's state: everything that reacts to input and
// time, without any GPU resources.
type page struct {
	cfg      *config.Config
	timeline Timeline
	mobile   bool
	layout   pageLayout

	music       music
	afterToggle func(playing bool)

	modal    Modal
	join     *effects.Magnet
	ripple   effects.Ripple
	bursts   *effects.Bursts
	parallax effects.Parallax

	title       *effects.Reveal
	letterBoxes []effects.Rect
	spins       []time.Duration
	spinning    []bool
	intro       *effects.Reveal
	measure     func(s string) float64

	event        *countdown.Timer
	registration *countdown.Timer
	eventRow     *countdown.Row
	regRow       *countdown.Row

	// trail is nil when the cursor trail is off.
	trail *particle.Pool

	pointerX, pointerY float64
	now                time.Duration
	listened           time.Duration

	// musicOn and musicAt are the last play state change the player
	// reported, for the toggle's grow and shrink.
	musicOn bool
	musicAt time.Duration

	subs []*events.Subscription
}

func newPage(cfg *config.Config, bus *events.Bus, m music, trail *particle.Pool, rnd effects.Rand, mobile bool, width, height int) *page {
	tl := Timeline{Mobile: mobile}
	p := &page{
		cfg:          cfg,
		timeline:     tl,
		mobile:       mobile,
		music:        m,
		bursts:       effects.NewBursts(rnd),
		title:        effects.LetterReveal(cfg.Title, tl.TitleAt()),
		intro:        effects.WordReveal(cfg.Intro, tl.IntroAt()),
		event:        countdown.NewTimer(cfg.EventAt(), time.Minute, false),
		registration: countdown.NewTimer(cfg.RegistrationAt(), time.Second, true),
		eventRow:     countdown.NewRow(3),
		regRow:       countdown.NewFlipRow(4),
		trail:        trail,
		musicAt:      -toggleGrow,
	}
	p.join = effects.NewMagnet(effects.Rect{})
	p.spins = make([]time.Duration, p.title.Len())
	p.spinning = make([]bool, p.title.Len())
	p.resize(width, height)

	if bus != nil {
		p.subs = append(p.subs,
			bus.Subscribe(events.PointerMove, func(e events.Event) { p.pointerMoved(e.X, e.Y) }),
			bus.Subscribe(events.Click, func(e events.Event) { p.click(e.X, e.Y) }),
			bus.Subscribe(events.Resize, func(e events.Event) { p.resize(e.W, e.H) }),
		)
	}
	return p
}

func (p *page) close() {
	for _, s := range p.subs {
		s.Unsubscribe()
	}
	p.subs = nil
}

func (p *page) phase() Phase { return p.timeline.Phase(p.now) }

func (p *page) resize(width, height int) {
	p.layout = layoutFor(width, height)
	p.join.Bounds = p.layout.join
	p.layoutTitle()
}

// layoutTitle places one hover box per title letter, centred on the
// title row.
func (p *page) layoutTitle() {
	spans := p.title.Spans(0)
	widths := make([]float64, len(spans))
	total := 0.0
	for i, s := range spans {
		widths[i] = p.advance(s.Text)
		total += widths[i]
	}
	x := p.layout.w/2 - total/2
	p.letterBoxes = p.letterBoxes[:0]
	for _, w := range widths {
		p.letterBoxes = append(p.letterBoxes, effects.Rect{
			X: x,
			Y: p.layout.titleY - titleHeight/2,
			W: w,
			H: titleHeight,
		})
		x += w
	}
}

func (p *page) advance(s string) float64 {
	if p.measure != nil {
		return p.measure(s)
	}
	return fallbackAdvance * float64(len([]rune(s)))
}

func (p *page) pointerMoved(x, y float64) {
	p.pointerX, p.pointerY = x, y
	if p.phase() != PhaseMain {
		return
	}
	p.parallax.Target(x, y, p.layout.w, p.layout.h)
	if p.trail != nil {
		p.trail.Spawn(x, y, config.TrailPerMove)
	}
	if p.mobile {
		return
	}
	for i, box := range p.letterBoxes {
		if box.Contains(x, y) && !p.spinning[i] {
			p.spins[i] = p.now
			p.spinning[i] = true
		}
	}
}

// letterTurn is how far letter i has turned, 0..1.
func (p *page) letterTurn(i int) float64 {
	if i >= len(p.spins) || !p.spinning[i] {
		return 0
	}
	t := float64(p.now-p.spins[i]) / float64(letterSpin)
	if t >= 1 {
		return 0
	}
	return effects.EaseOutCubic(t)
}

func (p *page) click(x, y float64) {
	if p.phase() != PhaseMain {
		return
	}
	l := p.layout

	if p.modal.IsOpen() {
		switch {
		case l.modalClose.Contains(x, y), l.modalCancel.Contains(x, y):
			p.modal.Close()
		case l.modalForm.Contains(x, y):
			if p.modal.Submit(p.now) {
				p.bursts.Fire(effects.CosmicExplosion(), l.w/2, l.h/2, p.now)
				log.Printf("[Modal] Participation form: %s", p.cfg.FormURL)
			}
		case !l.modal.Contains(x, y):
			p.modal.Close()
		}
		return
	}

	switch {
	case l.toggle.Contains(x, y):
		p.toggleMusic()
	case p.join.Drawn().Contains(x, y):
		p.ripple.Start(x, y, p.now)
		p.openModal(p.join.Bounds)
	case p.registrationOpen() && l.register.Contains(x, y):
		p.openModal(l.register)
	}
}

func (p *page) openModal(from effects.Rect) {
	p.modal.Open()
	cx, cy := from.Center()
	p.bursts.Fire(effects.Sparkle(), cx, cy, p.now)
}

func (p *page) toggleMusic() {
	if p.music == nil {
		return
	}
	p.music.Toggle()
	if p.afterToggle != nil {
		p.afterToggle(p.music.Playing())
	}
}

// musicChanged is told about every play state change, whoever caused it.
func (p *page) musicChanged(playing bool) {
	p.musicOn = playing
	p.musicAt = p.now
}

// toggleScale is the toggle's size relative to rest: it grows to 1.2 while
// music plays and eases between the two.
func (p *page) toggleScale(now time.Duration) float64 {
	t := effects.EaseOutCubic(render.Clamp01(float64(now-p.musicAt) / float64(toggleGrow)))
	if p.musicOn {
		return 1 + 0.2*t
	}
	return 1.2 - 0.2*t
}

// escape closes the modal, or reports that the page should quit.
func (p *page) escape() bool {
	if p.modal.IsOpen() {
		p.modal.Close()
		return false
	}
	return true
}

// registrationShown is whether the registration card has slid in.
func (p *page) registrationShown() bool {
	return p.now >= p.timeline.RegistrationAt()
}

// registrationOpen is whether the registration button accepts clicks.
func (p *page) registrationOpen() bool {
	return p.registrationShown() && p.registration.Running()
}

func (p *page) update(now time.Duration, wall time.Time) {
	dt := now - p.now
	p.now = now

	p.modal.Update(now)
	if p.phase() == PhaseMain {
		p.join.Track(p.pointerX, p.pointerY)
	}
	p.parallax.Step()
	p.bursts.Prune(now)
	for i := range p.spinning {
		if p.spinning[i] && now-p.spins[i] >= letterSpin {
			p.spinning[i] = false
		}
	}

	if p.event.Tick(wall) {
		p.eventRow.Update(p.event.Fields(), now)
	}
	if p.registration.Tick(wall) {
		p.regRow.Update(p.registration.Fields(), now)
	}
	if p.music != nil && p.music.Playing() && dt > 0 {
		p.listened += dt
	}
}

func (p *page) eventHeading() string {
	if p.event.Running() {
		return "Countdown to the party"
	}
	return "The party has begun!"
}

func (p *page) registrationHeading() string {
	if p.registration.Running() {
		return "Registration closes in"
	}
	return "Registration Closed!"
}

func (p *page) registrationLabel() string {
	if p.registration.Running() {
		return "Fill Participation Form"
	}
	return "Form Closed"
}
