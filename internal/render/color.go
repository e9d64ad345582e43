package render

import (
	"image/color"
	"math"
)

// HSLToRGB converts HSL to RGB (hue: 0-360, saturation: 0-1, lightness: 0-1).
func HSLToRGB(h, s, l float64) (uint8, uint8, uint8) {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - c/2

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return to8(r + m), to8(g + m), to8(b + m)
}

func to8(v float64) uint8 {
	return uint8(math.Round(Clamp01(v) * 255))
}

// Clamp01 limits v to [0, 1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// WithAlpha scales c's alpha by a in [0, 1], rounding to the nearest step.
func WithAlpha(c color.NRGBA, a float64) color.NRGBA {
	c.A = uint8(math.Round(float64(c.A) * Clamp01(a)))
	return c
}
