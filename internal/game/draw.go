package game

import (
	"fmt"
	"image/color"
	"math"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/party-countdown/internal/countdown"
	"github.com/iburimskiy/party-countdown/internal/effects"
	"github.com/iburimskiy/party-countdown/internal/particle"
	"github.com/iburimskiy/party-countdown/internal/render"
)

var (
	gold  = color.NRGBA{R: 255, G: 215, B: 0, A: 255}
	pink  = color.NRGBA{R: 255, G: 182, B: 193, A: 255}
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	ink   = color.NRGBA{R: 18, G: 14, B: 38, A: 255}
	grey  = color.NRGBA{R: 110, G: 110, B: 130, A: 255}
)

const (
	lineHeight     = 28.0
	cellSize       = 70.0
	cellGap        = 16.0
	rippleMax      = 150.0
	slideIn        = 600 * time.Millisecond
	subtitleSlide  = 30.0
	subtitleFade   = time.Second
	loadingDots    = 8
	loadingRadius  = 24.0
	toggleWaveBars = 3
	loadingMessage = "Preparing the stars..."
)

var (
	eventLabels        = []string{"Days", "Hours", "Minutes"}
	registrationLabels = []string{"Days", "Hours", "Minutes", "Seconds"}
)

func (g *Game) drawBackground(screen *ebiten.Image, now time.Duration) {
	// Slow shifting night gradient
	t := now.Seconds()
	const band = 4
	for y := 0; y < g.height; y += band {
		ratio := float64(y) / float64(g.height)
		r := uint8(12 + 10*math.Sin(t*0.2+ratio*math.Pi))
		gv := uint8(8 + 6*math.Cos(t*0.15+ratio*math.Pi))
		b := uint8(30 + 20*math.Sin(t*0.25+ratio*math.Pi))
		vector.DrawFilledRect(screen, 0, float32(y), float32(g.width), band, color.RGBA{R: r, G: gv, B: b, A: 255}, false)
	}
}

// drawOrbs draws the blurred accent orbs drifting with the parallax.
func (g *Game) drawOrbs(screen *ebiten.Image, now time.Duration, alpha float64) {
	l := g.page.layout
	for i, c := range particle.Palette[1:] {
		sx, sy := g.page.parallax.Shift(float64(i+1) * 0.5)
		phase := now.Seconds()*0.3 + float64(i)*2
		x := l.w*(0.2+0.3*float64(i)) + sx + math.Cos(phase)*30
		y := l.h*(0.3+0.25*float64(i%2)) + sy + math.Sin(phase)*20
		for ring := 3; ring >= 1; ring-- {
			radius := float32(30*ring + 20*i)
			vector.DrawFilledCircle(screen, float32(x), float32(y), radius, render.WithAlpha(c, 0.05*alpha), true)
		}
	}
}

func (g *Game) drawTitle(screen *ebiten.Image, now time.Duration, alpha float64) {
	p := g.page
	face := g.fonts.title
	top := p.layout.titleY - titleHeight/2
	if p.mobile {
		drawText(screen, p.cfg.Title, face, p.layout.w/2, top, text.AlignCenter, render.WithAlpha(gold, alpha))
		return
	}

	for i, s := range p.title.Spans(now) {
		if i >= len(p.letterBoxes) || s.Text == " " {
			continue
		}
		box := p.letterBoxes[i]
		c := render.WithAlpha(gold, alpha*s.Opacity)
		if c.A == 0 {
			continue
		}
		// A hovered letter turns once around its vertical axis.
		scaleX := math.Cos(p.letterTurn(i) * 2 * math.Pi)
		if face == nil {
			ebitenutil.DebugPrintAt(screen, s.Text, int(box.X), int(top+s.OffsetY))
			continue
		}
		op := &text.DrawOptions{}
		op.GeoM.Translate(-box.W/2, 0)
		op.GeoM.Scale(scaleX, 1)
		op.GeoM.Translate(box.X+box.W/2, top+s.OffsetY)
		op.ColorScale.ScaleWithColor(c)
		text.Draw(screen, s.Text, face, op)
	}
}

func (g *Game) drawSubtitle(screen *ebiten.Image, now time.Duration, alpha float64) {
	p := g.page
	a := render.Clamp01(float64(now-p.timeline.SubtitleAt()) / float64(subtitleFade))
	shift := 0.0
	if !p.mobile {
		shift = -subtitleSlide * (1 - effects.EaseOutCubic(a))
	}
	drawText(screen, p.cfg.Subtitle, g.fonts.body, p.layout.w/2+shift, p.layout.subtitleY, text.AlignCenter, render.WithAlpha(pink, a*alpha))
}

// wrapWords groups word indexes into lines no wider than maxW.
func wrapWords(words []string, measure func(string) float64, maxW float64) [][]int {
	var lines [][]int
	var line []int
	width := 0.0
	space := measure(" ")
	for i, w := range words {
		ww := measure(w)
		if len(line) > 0 && width+space+ww > maxW {
			lines = append(lines, line)
			line, width = nil, 0
		}
		if len(line) > 0 {
			width += space
		}
		line = append(line, i)
		width += ww
	}
	if len(line) > 0 {
		lines = append(lines, line)
	}
	return lines
}

func (g *Game) drawIntro(screen *ebiten.Image, now time.Duration, alpha float64) {
	p := g.page
	face := g.fonts.body
	measure := func(s string) float64 { return advance(s, face) }
	maxW := p.layout.w * 0.8

	if p.mobile {
		a := render.Clamp01(float64(now-p.timeline.IntroAt()) / float64(effects.WordTransition))
		words := strings.Fields(p.cfg.Intro)
		for li, idx := range wrapWords(words, measure, maxW) {
			line := make([]string, len(idx))
			for j, i := range idx {
				line[j] = words[i]
			}
			y := p.layout.introY + float64(li)*lineHeight
			drawText(screen, strings.Join(line, " "), face, p.layout.w/2, y, text.AlignCenter, render.WithAlpha(white, a*alpha))
		}
		return
	}

	spans := p.intro.Spans(now)
	words := make([]string, len(spans))
	for i, s := range spans {
		words[i] = s.Text
	}
	space := measure(" ")
	for li, idx := range wrapWords(words, measure, maxW) {
		width := 0.0
		for j, i := range idx {
			if j > 0 {
				width += space
			}
			width += measure(words[i])
		}
		x := p.layout.w/2 - width/2
		y := p.layout.introY + float64(li)*lineHeight
		for _, i := range idx {
			s := spans[i]
			drawText(screen, s.Text, face, x, y+s.OffsetY, text.AlignStart, render.WithAlpha(white, alpha*s.Opacity))
			x += measure(s.Text) + space
		}
	}
}

// drawCountdown draws a heading and, when showDigits is set, one cell per
// field with its label underneath.
func (g *Game) drawCountdown(screen *ebiten.Image, now time.Duration, y float64, heading string, row *countdown.Row, labels []string, showDigits bool, alpha float64) {
	p := g.page
	drawText(screen, heading, g.fonts.body, p.layout.w/2, y, text.AlignCenter, render.WithAlpha(pink, alpha))
	if !showDigits {
		return
	}

	n := float64(len(row.Cells))
	total := n*cellSize + (n-1)*cellGap
	tiltY, tiltX := p.parallax.Tilt()
	x := p.layout.w/2 - total/2 + tiltY*2
	top := y + 32 + tiltX*2
	for i := range row.Cells {
		value, updating := row.Cells[i].Text(now)
		bg := color.NRGBA{R: 255, G: 255, B: 255, A: 28}
		fg := white
		dy := 0.0
		if updating {
			bg = render.WithAlpha(pink, 0.35)
			fg = pink
			dy = -4
		}
		vector.DrawFilledRect(screen, float32(x), float32(top+dy), cellSize, cellSize, render.WithAlpha(bg, alpha), true)
		vector.StrokeRect(screen, float32(x), float32(top+dy), cellSize, cellSize, 1, render.WithAlpha(gold, 0.4*alpha), true)
		drawLabel(screen, value, g.fonts.digits, x+cellSize/2, top+dy+cellSize/2, render.WithAlpha(fg, alpha))
		if i < len(labels) {
			drawLabel(screen, labels[i], g.fonts.small, x+cellSize/2, top+cellSize+14, render.WithAlpha(grey, alpha))
		}
		x += cellSize + cellGap
	}
}

func (g *Game) drawButton(screen *ebiten.Image, r effects.Rect, label string, fill, fg color.NRGBA, alpha float64) {
	vector.DrawFilledRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), render.WithAlpha(fill, alpha), true)
	vector.StrokeRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), 2, render.WithAlpha(white, 0.5*alpha), true)
	cx, cy := r.Center()
	drawLabel(screen, label, g.fonts.body, cx, cy, render.WithAlpha(fg, alpha))
}

func (g *Game) drawJoinButton(screen *ebiten.Image, now time.Duration, alpha float64) {
	p := g.page
	fill := color.NRGBA{R: 230, G: 190, B: 40, A: 255}
	if p.join.Hovered() {
		fill = gold
	}
	g.drawButton(screen, p.join.Drawn(), "Join the Party", fill, ink, alpha)

	if r := p.ripple.Radius(now); r > 0 {
		cx, cy := p.ripple.Center()
		vector.DrawFilledCircle(screen, float32(cx), float32(cy), float32(r), render.WithAlpha(white, 0.3*(1-effects.EaseOutQuad(r/rippleMax))*alpha), true)
	}
}

func (g *Game) drawRegistration(screen *ebiten.Image, now time.Duration, alpha float64) {
	p := g.page
	if !p.registrationShown() {
		return
	}
	a := effects.EaseOutCubic(render.Clamp01(float64(now-p.timeline.RegistrationAt()) / float64(slideIn)))
	alpha *= a
	rise := 20 * (1 - a)

	open := p.registration.Running()
	heading := p.registrationHeading()
	if open {
		g.drawCountdown(screen, now, p.layout.regY+rise, heading, p.regRow, registrationLabels, true, alpha)
	} else {
		closed := color.NRGBA{R: 255, G: 99, B: 99, A: 255}
		drawText(screen, heading, g.fonts.body, p.layout.w/2, p.layout.regY+rise, text.AlignCenter, render.WithAlpha(closed, alpha))
	}

	btn := p.layout.register
	btn.Y += rise
	fill, fg := pink, ink
	if !open {
		fill, fg = grey, color.NRGBA{R: 200, G: 200, B: 210, A: 255}
	}
	g.drawButton(screen, btn, p.registrationLabel(), fill, fg, alpha)
}

func (g *Game) drawToggle(screen *ebiten.Image, now time.Duration, alpha float64) {
	p := g.page
	r := p.layout.toggle
	cx, cy := r.Center()
	playing := p.music != nil && p.music.Playing()

	radius := r.W / 2 * p.toggleScale(now)
	vector.DrawFilledCircle(screen, float32(cx), float32(cy), float32(radius), render.WithAlpha(ink, 0.8*alpha), true)
	vector.StrokeCircle(screen, float32(cx), float32(cy), float32(radius), 2, render.WithAlpha(gold, alpha), true)

	levels := make([]float64, toggleWaveBars)
	if playing {
		levels = p.music.Levels(toggleWaveBars)
	}
	const barW, gap = 4.0, 4.0
	x := cx - (toggleWaveBars*barW+(toggleWaveBars-1)*gap)/2
	for i, level := range levels {
		h := 4.0
		if playing {
			// Keep the waves moving while muted.
			h = 6 + level*14 + 3*math.Abs(math.Sin(now.Seconds()*4+float64(i)))
		}
		vector.DrawFilledRect(screen, float32(x), float32(cy-h/2), barW, float32(h), render.WithAlpha(gold, alpha), true)
		x += barW + gap
	}

	if p.listened > 0 {
		drawText(screen, formatDuration(p.listened), g.fonts.small, r.X-8, cy-8, text.AlignEnd, render.WithAlpha(grey, alpha))
	}
}

// drawShards draws each burst fragment as a small rotating star.
func (g *Game) drawShards(screen *ebiten.Image, now time.Duration) {
	for _, s := range g.page.bursts.Shards(now) {
		c := render.WithAlpha(s.Tint, s.Opacity)
		if c.A == 0 || s.Radius <= 0 {
			continue
		}
		vector.DrawFilledCircle(screen, float32(s.X), float32(s.Y), float32(s.Radius), c, true)
		rad := s.Rotation * math.Pi / 180
		for k := 0; k < 2; k++ {
			a := rad + float64(k)*math.Pi/2
			dx, dy := math.Cos(a)*s.Radius*2, math.Sin(a)*s.Radius*2
			vector.StrokeLine(screen, float32(s.X-dx), float32(s.Y-dy), float32(s.X+dx), float32(s.Y+dy), 1, c, true)
		}
	}
}

func (g *Game) drawModal(screen *ebiten.Image) {
	p := g.page
	if !p.modal.IsOpen() {
		return
	}
	l := p.layout
	vector.DrawFilledRect(screen, 0, 0, float32(l.w), float32(l.h), color.RGBA{A: 180}, false)

	box := l.modal
	vector.DrawFilledRect(screen, float32(box.X), float32(box.Y), float32(box.W), float32(box.H), ink, true)
	vector.StrokeRect(screen, float32(box.X), float32(box.Y), float32(box.W), float32(box.H), 2, gold, true)

	cx, _ := box.Center()
	drawText(screen, "Join the Celebration", g.fonts.body, cx, box.Y+28, text.AlignCenter, gold)
	drawText(screen, "Fill in the participation form to reserve your place.", g.fonts.small, cx, box.Y+72, text.AlignCenter, white)
	if p.cfg.FormURL != "" {
		drawText(screen, p.cfg.FormURL, g.fonts.small, cx, box.Y+100, text.AlignCenter, grey)
	}

	closeX, closeY := l.modalClose.Center()
	drawLabel(screen, "×", g.fonts.body, closeX, closeY, white)
	g.drawButton(screen, l.modalCancel, "Cancel", grey, white, 1)
	label := "Open Form"
	if p.modal.Closing() {
		label = "Opening..."
	}
	g.drawButton(screen, l.modalForm, label, gold, ink, 1)
}

func (g *Game) drawLoading(screen *ebiten.Image, now time.Duration) {
	p := g.page
	a := p.timeline.LoadingAlpha(now)
	if a <= 0 {
		return
	}
	l := p.layout
	vector.DrawFilledRect(screen, 0, 0, float32(l.w), float32(l.h), render.WithAlpha(ink, a), false)

	cx, cy := l.w/2, l.h/2-20
	spin := now.Seconds() * 2 * math.Pi / 1.5
	for i := 0; i < loadingDots; i++ {
		angle := spin + float64(i)*2*math.Pi/loadingDots
		dotAlpha := float64(i+1) / loadingDots
		x := cx + math.Cos(angle)*loadingRadius
		y := cy + math.Sin(angle)*loadingRadius
		vector.DrawFilledCircle(screen, float32(x), float32(y), 4, render.WithAlpha(gold, a*dotAlpha), true)
	}
	msg := effects.Typewriter(loadingMessage, 0, now, effects.TypewriterSpeed)
	progress := effects.Counter(100, 0, now, p.timeline.Loading())
	drawText(screen, msg, g.fonts.body, cx, cy+loadingRadius+20, text.AlignCenter, render.WithAlpha(white, a))
	drawText(screen, fmt.Sprintf("%d%%", progress), g.fonts.small, cx, cy+loadingRadius+48, text.AlignCenter, render.WithAlpha(gold, a))
}

func (g *Game) drawStatus(screen *ebiten.Image) {
	status := fmt.Sprintf("M: music  Up/Down: volume %.0f%%  O: open track  Esc: close/quit", g.volume*100)
	if g.player != nil && g.player.Waiting() {
		status += " | click or press a key to start the music"
	}
	if g.lastErr != nil {
		status += " | Error: " + g.lastErr.Error()
	}
	ebitenutil.DebugPrintAt(screen, status, 12, 12)
}
