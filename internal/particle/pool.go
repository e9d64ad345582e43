package particle

import "image/color"

// Rand is the random source particles draw from. *rand.Rand from
// math/rand/v2 satisfies it; tests pass a seeded one.
type Rand interface {
	Float64() float64
}

// Particle is a fading, moving dot. Velocity, size and decay are fixed at
// creation; life starts at 1 and drops by decay on every advance.
type Particle struct {
	X, Y   float64
	VX, VY float64
	Size   float64
	Life   float64
	Decay  float64

	// Tint overrides the driver's shimmer colour when Tinted is set.
	Tint   color.NRGBA
	Tinted bool
}

// Renderable is what a pool hands to the painter for one frame.
type Renderable struct {
	X, Y   float64
	Size   float64
	Life   float64
	Tint   color.NRGBA
	Tinted bool
}

// Params are the uniform ranges new particles are drawn from.
type Params struct {
	Jitter     float64 // position offset, ±Jitter on each axis
	Speed      float64 // velocity, ±Speed on each axis
	SizeMin    float64
	SizeRange  float64
	DecayMin   float64
	DecayRange float64
}

// TrailParams match the cursor trail: ±5 px jitter, ±1 px/frame drift,
// radius 1..4, decay 0.01..0.03.
func TrailParams() Params {
	return Params{
		Jitter:     5,
		Speed:      1,
		SizeMin:    1,
		SizeRange:  3,
		DecayMin:   0.01,
		DecayRange: 0.02,
	}
}

// Pool holds the live particles of one layer. It is not safe for
// concurrent use; spawning and advancing both happen on the game loop.
type Pool struct {
	params    Params
	rnd       Rand
	particles []Particle
	out       []Renderable
}

func NewPool(params Params, rnd Rand) *Pool {
	return &Pool{
		params: params,
		rnd:    rnd,
	}
}

// spread returns a uniform value in [-r, r).
func (p *Pool) spread(r float64) float64 {
	return (p.rnd.Float64() - 0.5) * 2 * r
}

// Spawn appends count particles around (x, y).
func (p *Pool) Spawn(x, y float64, count int) {
	for i := 0; i < count; i++ {
		p.particles = append(p.particles, Particle{
			X:     x + p.spread(p.params.Jitter),
			Y:     y + p.spread(p.params.Jitter),
			Size:  p.params.SizeMin + p.rnd.Float64()*p.params.SizeRange,
			Life:  1,
			Decay: p.params.DecayMin + p.rnd.Float64()*p.params.DecayRange,
			VX:    p.spread(p.params.Speed),
			VY:    p.spread(p.params.Speed),
		})
	}
}

// Add appends a fully built particle. A particle with no life left or no
// decay is dropped, the pool only holds things that will expire.
func (p *Pool) Add(pt Particle) {
	if pt.Life <= 0 || pt.Decay <= 0 {
		return
	}
	p.particles = append(p.particles, pt)
}

// AdvanceAndCollect steps every particle once, drops the expired ones and
// returns the survivors. The returned slice is reused by the next call.
func (p *Pool) AdvanceAndCollect() []Renderable {
	p.out = p.out[:0]
	for i := len(p.particles) - 1; i >= 0; i-- {
		pt := &p.particles[i]
		pt.X += pt.VX
		pt.Y += pt.VY
		pt.Life -= pt.Decay

		if pt.Life <= 0 {
			last := len(p.particles) - 1
			// Order does not matter for painting; swap the tail in.
			p.particles[i] = p.particles[last]
			p.particles = p.particles[:last]
			continue
		}

		p.out = append(p.out, Renderable{
			X:      pt.X,
			Y:      pt.Y,
			Size:   pt.Size,
			Life:   pt.Life,
			Tint:   pt.Tint,
			Tinted: pt.Tinted,
		})
	}
	return p.out
}

// Len reports the number of live particles.
func (p *Pool) Len() int { return len(p.particles) }

// Clear drops every particle.
func (p *Pool) Clear() {
	p.particles = p.particles[:0]
}
