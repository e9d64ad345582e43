package effects

const parallaxFollow = 0.1

// Parallax smooths the pointer position, normalised to [-1, 1] on both
// axes, for the card tilt and the drifting background shapes.
type Parallax struct {
	x, y   float64
	tx, ty float64
}

// Target sets the pointer position within a w×h viewport.
func (p *Parallax) Target(px, py, w, h float64) {
	if w <= 0 || h <= 0 {
		return
	}
	p.tx = (px/w - 0.5) * 2
	p.ty = (py/h - 0.5) * 2
}

// Step moves a tenth of the way to the target; call once per tick.
func (p *Parallax) Step() {
	p.x += (p.tx - p.x) * parallaxFollow
	p.y += (p.ty - p.y) * parallaxFollow
}

func (p *Parallax) Value() (float64, float64) { return p.x, p.y }

// Tilt is the card rotation in degrees around the Y and X axes.
func (p *Parallax) Tilt() (rotY, rotX float64) {
	return p.x * 3, p.y * -3
}

// Shift is the translation of a layer moving at speed relative to the
// aurora, which moves 20 px at full deflection.
func (p *Parallax) Shift(speed float64) (float64, float64) {
	return p.x * speed * 20, p.y * speed * 20
}
