package render

import (
	"image/color"
	"math"
	"time"

	"github.com/iburimskiy/party-countdown/internal/particle"
)

// State of a FrameDriver.
type State int

const (
	// Idle drivers have no surface and never paint.
	Idle State = iota
	// Running drivers paint on every cycle the throttle lets through.
	Running
	// Stopped drivers were torn down and ignore further cycles.
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}

// Options tune a FrameDriver. ThrottleFPS of zero paints every frame.
type Options struct {
	ThrottleFPS  int
	BaseHue      float64
	HueAmplitude float64
	Saturation   float64
	Lightness    float64
}

// TrailOptions are the cursor trail's: 60 fps, warm gold shimmering
// between hue 30 and 60.
func TrailOptions() Options {
	return Options{
		ThrottleFPS:  60,
		BaseHue:      45,
		HueAmplitude: 15,
		Saturation:   0.7,
		Lightness:    0.8,
	}
}

// AmbientOptions are the background layer's. Every dot there carries its
// own tint, and emitted lifetimes assume a fixed advance rate.
func AmbientOptions() Options {
	return Options{ThrottleFPS: particle.FramesPerSecond}
}

// FrameDriver clears its surface, advances its sources and paints the
// survivors once per cycle. The host calls Cycle once per display frame.
type FrameDriver struct {
	surface  Surface
	sources  []Source
	opts     Options
	interval time.Duration
	state    State
	last     time.Duration
	painted  bool
}

func NewFrameDriver(surface Surface, opts Options, sources ...Source) *FrameDriver {
	d := &FrameDriver{
		surface: surface,
		sources: sources,
		opts:    opts,
	}
	if opts.ThrottleFPS > 0 {
		d.interval = time.Second / time.Duration(opts.ThrottleFPS)
	}
	if surface != nil {
		d.state = Running
	}
	return d
}

func (d *FrameDriver) State() State { return d.state }

// Stop ends the loop; later cycles are no-ops.
func (d *FrameDriver) Stop() {
	d.state = Stopped
}

// HueAt is the shimmer hue at now.
func (d *FrameDriver) HueAt(now time.Duration) float64 {
	ms := float64(now) / float64(time.Millisecond)
	return d.opts.BaseHue + math.Sin(ms*0.001)*d.opts.HueAmplitude
}

// Cycle runs one frame at host time now and reports whether it painted.
// A throttled cycle leaves the surface and every source untouched.
func (d *FrameDriver) Cycle(now time.Duration) bool {
	if d.state != Running {
		return false
	}
	if d.interval > 0 && d.painted && now-d.last < d.interval {
		return false
	}
	d.last = now
	d.painted = true

	d.surface.Clear()

	r, g, b := HSLToRGB(d.HueAt(now), d.opts.Saturation, d.opts.Lightness)
	shimmer := color.NRGBA{R: r, G: g, B: b, A: 255}

	for _, src := range d.sources {
		for _, p := range src.AdvanceAndCollect() {
			c := shimmer
			if p.Tinted {
				c = p.Tint
			}
			d.surface.FillCircle(p.X, p.Y, p.Size, WithAlpha(c, p.Life))
		}
	}
	return true
}
