package effects

import "time"

const (
	magnetPull  = 0.15
	magnetScale = 1.08
	// magnetFollow is the share of the remaining distance closed per tick.
	magnetFollow = 0.25
)

// Rect is an axis-aligned box in screen space.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

func (r Rect) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Magnet makes a button lean towards the pointer while hovered.
type Magnet struct {
	Bounds Rect

	hovered     bool
	targetX     float64
	targetY     float64
	targetScale float64
	offX, offY  float64
	scale       float64
}

func NewMagnet(bounds Rect) *Magnet {
	return &Magnet{Bounds: bounds, scale: 1, targetScale: 1}
}

// Track feeds the pointer position; call it once per tick.
func (m *Magnet) Track(x, y float64) {
	if m.Bounds.Contains(x, y) {
		cx, cy := m.Bounds.Center()
		m.hovered = true
		m.targetX = (x - cx) * magnetPull
		m.targetY = (y - cy) * magnetPull
		m.targetScale = magnetScale
	} else {
		m.hovered = false
		m.targetX, m.targetY = 0, 0
		m.targetScale = 1
	}
	m.offX = Lerp(m.offX, m.targetX, magnetFollow)
	m.offY = Lerp(m.offY, m.targetY, magnetFollow)
	m.scale = Lerp(m.scale, m.targetScale, magnetFollow)
}

func (m *Magnet) Hovered() bool { return m.hovered }

// Offset is the current translation of the button.
func (m *Magnet) Offset() (float64, float64) { return m.offX, m.offY }

func (m *Magnet) Scale() float64 { return m.scale }

// Drawn is the button's on-screen box after offset and scale.
func (m *Magnet) Drawn() Rect {
	cx, cy := m.Bounds.Center()
	w, h := m.Bounds.W*m.scale, m.Bounds.H*m.scale
	return Rect{X: cx + m.offX - w/2, Y: cy + m.offY - h/2, W: w, H: h}
}

const (
	rippleDiameter = 300
	rippleLife     = 600 * time.Millisecond
)

// Ripple is the expanding ring left by a click. The zero value is idle.
type Ripple struct {
	x, y    float64
	start   time.Duration
	running bool
}

// Start restarts the ripple at (x, y).
func (r *Ripple) Start(x, y float64, now time.Duration) {
	r.x, r.y = x, y
	r.start = now
	r.running = true
}

// Radius is the ripple radius at now, zero once it has collapsed.
func (r *Ripple) Radius(now time.Duration) float64 {
	if !r.running {
		return 0
	}
	elapsed := now - r.start
	if elapsed < 0 {
		return 0
	}
	if elapsed >= rippleLife {
		r.running = false
		return 0
	}
	return rippleDiameter / 2 * Ease(float64(elapsed)/float64(rippleLife))
}

// Center is where the ripple was started.
func (r *Ripple) Center() (float64, float64) { return r.x, r.y }
