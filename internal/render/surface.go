package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/iburimskiy/party-countdown/internal/particle"
)

// Surface is the 2D raster a driver paints onto.
type Surface interface {
	Clear()
	FillCircle(x, y, r float64, c color.Color)
	Size() (w, h int)
}

// Source yields the particles to paint for one frame, advancing them as it
// goes.
type Source interface {
	AdvanceAndCollect() []particle.Renderable
}

// Layer is a Surface backed by an offscreen image that keeps its pixels
// between frames, like a canvas element does.
type Layer struct {
	img  *ebiten.Image
	w, h int
}

func NewLayer(w, h int) *Layer {
	l := &Layer{}
	l.Resize(w, h)
	return l
}

// Resize reallocates the backing image when the size changes. The drawn
// area is lost; particle data is not touched.
func (l *Layer) Resize(w, h int) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if l.img != nil && l.w == w && l.h == h {
		return
	}
	if l.img != nil {
		l.img.Deallocate()
	}
	l.img = ebiten.NewImage(w, h)
	l.w, l.h = w, h
}

func (l *Layer) Clear() { l.img.Clear() }

func (l *Layer) FillCircle(x, y, r float64, c color.Color) {
	vector.DrawFilledCircle(l.img, float32(x), float32(y), float32(r), c, true)
}

func (l *Layer) Size() (int, int) { return l.w, l.h }

// DrawTo composites the layer onto dst scaled by alpha.
func (l *Layer) DrawTo(dst *ebiten.Image, alpha float64) {
	op := &ebiten.DrawImageOptions{}
	op.ColorScale.ScaleAlpha(float32(alpha))
	dst.DrawImage(l.img, op)
}
