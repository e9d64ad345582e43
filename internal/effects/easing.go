package effects

import "math"

// Easing maps progress t in [0, 1] to eased progress.
type Easing func(t float64) float64

// CubicBezier returns the CSS cubic-bezier(x1, y1, x2, y2) timing function.
// x1 and x2 must lie in [0, 1].
func CubicBezier(x1, y1, x2, y2 float64) Easing {
	cx := 3 * x1
	bx := 3*(x2-x1) - cx
	ax := 1 - cx - bx
	cy := 3 * y1
	by := 3*(y2-y1) - cy
	ay := 1 - cy - by

	sampleX := func(t float64) float64 { return ((ax*t+bx)*t + cx) * t }
	sampleY := func(t float64) float64 { return ((ay*t+by)*t + cy) * t }
	slopeX := func(t float64) float64 { return (3*ax*t+2*bx)*t + cx }

	solve := func(x float64) float64 {
		// Newton first, bisection if the slope flattens out.
		t := x
		for i := 0; i < 8; i++ {
			dx := sampleX(t) - x
			if math.Abs(dx) < 1e-7 {
				return t
			}
			d := slopeX(t)
			if math.Abs(d) < 1e-6 {
				break
			}
			t -= dx / d
		}
		lo, hi := 0.0, 1.0
		t = x
		for i := 0; i < 40 && lo < hi; i++ {
			v := sampleX(t)
			if math.Abs(v-x) < 1e-7 {
				return t
			}
			if x > v {
				lo = t
			} else {
				hi = t
			}
			t = (lo + hi) / 2
		}
		return t
	}

	return func(t float64) float64 {
		if t <= 0 {
			return 0
		}
		if t >= 1 {
			return 1
		}
		return sampleY(solve(t))
	}
}

// EaseOutQuad decelerates to the end.
func EaseOutQuad(t float64) float64 {
	return 1 - (1-t)*(1-t)
}

// EaseOutCubic starts fast and settles slowly.
func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// Ease is the CSS "ease" curve the page's transitions use.
var Ease = CubicBezier(0.25, 0.1, 0.25, 1)

// Lerp interpolates between a and b; t=0 gives a, t=1 gives b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
