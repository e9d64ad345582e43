package particle

import (
	"image/color"
	"math"
)

// Palette is the background dot palette: gold, light pink, sky blue, plum.
var Palette = []color.NRGBA{
	{R: 255, G: 215, B: 0, A: 255},
	{R: 255, G: 182, B: 193, A: 255},
	{R: 135, G: 206, B: 235, A: 255},
	{R: 221, G: 160, B: 221, A: 255},
}

type dot struct {
	x, y    float64
	vx, vy  float64
	size    float64
	opacity float64
	tint    color.NRGBA
}

// Field is a fixed population of slow dots that bounce off the viewport
// edges. Dots never expire.
type Field struct {
	rnd    Rand
	dots   []dot
	out    []Renderable
	w, h   float64
	dimmed float64
}

// NewField seeds count dots over a w×h area.
func NewField(count int, w, h float64, rnd Rand) *Field {
	f := &Field{rnd: rnd, w: w, h: h, dimmed: 1}
	f.dots = make([]dot, 0, count)
	for i := 0; i < count; i++ {
		f.dots = append(f.dots, dot{
			x:       rnd.Float64() * w,
			y:       rnd.Float64() * h,
			vx:      (rnd.Float64() - 0.5) * 0.5,
			vy:      (rnd.Float64() - 0.5) * 0.5,
			size:    rnd.Float64()*2 + 1,
			opacity: rnd.Float64()*0.5 + 0.2,
			tint:    Palette[int(rnd.Float64()*float64(len(Palette)))%len(Palette)],
		})
	}
	return f
}

// Resize changes the bounce area and pulls dots left outside it onto the
// nearest edge.
func (f *Field) Resize(w, h float64) {
	f.w, f.h = w, h
	for i := range f.dots {
		d := &f.dots[i]
		d.x = math.Min(math.Max(d.x, 0), w)
		d.y = math.Min(math.Max(d.y, 0), h)
	}
}

// SetDim scales every dot's opacity; mobile layouts run at 0.6.
func (f *Field) SetDim(scale float64) {
	f.dimmed = scale
}

func (f *Field) Len() int { return len(f.dots) }

func (f *Field) AdvanceAndCollect() []Renderable {
	f.out = f.out[:0]
	for i := range f.dots {
		d := &f.dots[i]
		d.x += d.vx
		d.y += d.vy

		// Only a dot moving away from the area is reflected.
		if d.x < 0 && d.vx < 0 || d.x > f.w && d.vx > 0 {
			d.vx = -d.vx
		}
		if d.y < 0 && d.vy < 0 || d.y > f.h && d.vy > 0 {
			d.vy = -d.vy
		}

		f.out = append(f.out, Renderable{
			X:      d.x,
			Y:      d.y,
			Size:   d.size,
			Life:   d.opacity * f.dimmed,
			Tint:   d.tint,
			Tinted: true,
		})
	}
	return f.out
}
