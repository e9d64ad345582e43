package particle

import (
	"image/color"
	"time"
)

// Emitter spawns one particle into a pool on a fixed interval. Make builds
// the particle; it receives the emitter's random source.
type Emitter struct {
	Interval time.Duration
	Make     func(r Rand) Particle

	pool    *Pool
	rnd     Rand
	next    time.Duration
	started bool
}

func NewEmitter(pool *Pool, rnd Rand, interval time.Duration, build func(r Rand) Particle) *Emitter {
	return &Emitter{
		Interval: interval,
		Make:     build,
		pool:     pool,
		rnd:      rnd,
	}
}

// Tick spawns if the interval has elapsed and reports how many particles
// were added. After a long stall it spawns once and re-anchors instead of
// flooding the pool.
func (e *Emitter) Tick(now time.Duration) int {
	if e.Interval <= 0 || e.Make == nil {
		return 0
	}
	if !e.started {
		e.started = true
		e.next = now + e.Interval
		return 0
	}
	if now < e.next {
		return 0
	}

	e.pool.Add(e.Make(e.rnd))
	e.next += e.Interval
	if e.next <= now {
		e.next = now + e.Interval
	}
	return 1
}

// FramesPerSecond is the advance rate emitted lifetimes are converted at.
// Drivers of emitted particles must be throttled to it.
const FramesPerSecond = 60

func decayFor(d time.Duration) float64 {
	frames := d.Seconds() * FramesPerSecond
	if frames < 1 {
		return 1
	}
	return 1 / frames
}

// RisingDust builds the 1 px white specks that drift from the bottom edge
// to the top over 5..13 s.
func RisingDust(w, h func() float64) func(r Rand) Particle {
	return func(r Rand) Particle {
		life := time.Duration((r.Float64()*8 + 5) * float64(time.Second))
		frames := life.Seconds() * FramesPerSecond
		alpha := uint8((r.Float64()*0.5 + 0.1) * 255)
		return Particle{
			X:      r.Float64() * w(),
			Y:      h(),
			VY:     -h() / frames,
			Size:   0.5,
			Life:   1,
			Decay:  decayFor(life),
			Tint:   color.NRGBA{R: 255, G: 255, B: 255, A: alpha},
			Tinted: true,
		}
	}
}

// FloatingMotes builds the larger gold motes that float up from the bottom
// over 4..8 s.
func FloatingMotes(w, h func() float64) func(r Rand) Particle {
	return func(r Rand) Particle {
		life := time.Duration((r.Float64()*4 + 4) * float64(time.Second))
		frames := life.Seconds() * FramesPerSecond
		return Particle{
			X:      r.Float64() * w(),
			Y:      h(),
			VX:     (r.Float64() - 0.5) * 0.3,
			VY:     -h() / frames,
			Size:   (r.Float64()*3 + 1) / 2,
			Life:   1,
			Decay:  decayFor(life),
			Tint:   Palette[0],
			Tinted: true,
		}
	}
}
