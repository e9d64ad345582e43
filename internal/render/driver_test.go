package render

import (
	"image/color"
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/iburimskiy/party-countdown/internal/particle"
)

type circle struct {
	x, y, r float64
	c       color.NRGBA
}

type recordingSurface struct {
	clears  int
	circles []circle
}

func (s *recordingSurface) Clear() {
	s.clears++
	s.circles = s.circles[:0]
}

func (s *recordingSurface) FillCircle(x, y, r float64, c color.Color) {
	s.circles = append(s.circles, circle{x, y, r, color.NRGBAModel.Convert(c).(color.NRGBA)})
}

func (s *recordingSurface) Size() (int, int) { return 800, 600 }

func newTrail() *particle.Pool {
	return particle.NewPool(particle.TrailParams(), rand.New(rand.NewPCG(1, 2)))
}

func TestNilSurfaceStaysIdle(t *testing.T) {
	pool := newTrail()
	pool.Spawn(0, 0, 3)
	d := NewFrameDriver(nil, TrailOptions(), pool)

	if d.State() != Idle {
		t.Fatalf("State() = %v, want idle", d.State())
	}
	if d.Cycle(time.Second) {
		t.Error("idle driver painted")
	}
	if pool.Len() != 3 {
		t.Errorf("idle driver advanced the pool: Len() = %d", pool.Len())
	}
}

func TestThrottleSkipsEarlyCycles(t *testing.T) {
	surf := &recordingSurface{}
	pool := newTrail()
	pool.Spawn(100, 100, 3)
	d := NewFrameDriver(surf, TrailOptions(), pool)

	if !d.Cycle(0) {
		t.Fatal("first cycle must paint")
	}
	before := append([]circle(nil), surf.circles...)

	tests := []struct {
		name  string
		now   time.Duration
		paint bool
	}{
		{"1ms later", time.Millisecond, false},
		{"16ms later", 16 * time.Millisecond, false},
		{"16.6ms later", 16600 * time.Microsecond, false},
		{"17ms later", 17 * time.Millisecond, true},
		{"25ms later", 25 * time.Millisecond, false},
		{"34ms later", 34 * time.Millisecond, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clears := surf.clears
			got := d.Cycle(tt.now)
			if got != tt.paint {
				t.Fatalf("Cycle(%v) = %v, want %v", tt.now, got, tt.paint)
			}
			if !tt.paint {
				if surf.clears != clears {
					t.Error("throttled cycle cleared the surface")
				}
				if pool.Len() != 3 {
					t.Errorf("throttled cycle changed pool size to %d", pool.Len())
				}
			}
		})
	}

	if len(before) != 3 {
		t.Fatalf("first cycle painted %d circles, want 3", len(before))
	}
}

func TestThrottledCycleDoesNotAdvance(t *testing.T) {
	surf := &recordingSurface{}
	pool := newTrail()
	pool.Spawn(100, 100, 1)
	d := NewFrameDriver(surf, TrailOptions(), pool)

	d.Cycle(0)
	first := surf.circles[0]
	d.Cycle(5 * time.Millisecond)
	if surf.circles[0] != first {
		t.Errorf("throttled cycle moved the particle: %+v -> %+v", first, surf.circles[0])
	}
}

func TestUnthrottledPaintsEveryCycle(t *testing.T) {
	surf := &recordingSurface{}
	opts := TrailOptions()
	opts.ThrottleFPS = 0
	d := NewFrameDriver(surf, opts, newTrail())

	for i := 0; i < 10; i++ {
		if !d.Cycle(time.Duration(i) * time.Millisecond) {
			t.Fatalf("cycle %d skipped without throttling", i)
		}
	}
	if surf.clears != 10 {
		t.Errorf("clears = %d, want 10", surf.clears)
	}
}

func TestPaintUsesLifeAsAlphaAndSizeAsRadius(t *testing.T) {
	surf := &recordingSurface{}
	pool := particle.NewPool(particle.Params{}, rand.New(rand.NewPCG(1, 2)))
	pool.Add(particle.Particle{X: 10, Y: 20, Size: 3, Life: 0.75, Decay: 0.25})
	d := NewFrameDriver(surf, TrailOptions(), pool)

	d.Cycle(0)
	if len(surf.circles) != 1 {
		t.Fatalf("painted %d circles, want 1", len(surf.circles))
	}
	c := surf.circles[0]
	if c.r != 3 || c.x != 10 || c.y != 20 {
		t.Errorf("circle = %+v, want r=3 at (10, 20)", c)
	}
	// life 0.75 - 0.25 = 0.5
	if c.c.A != 128 {
		t.Errorf("alpha = %d, want 128", c.c.A)
	}

	r, g, b := HSLToRGB(45, 0.7, 0.8)
	if c.c.R != r || c.c.G != g || c.c.B != b {
		t.Errorf("colour = %v, want hsl(45, 70%%, 80%%) = %d,%d,%d", c.c, r, g, b)
	}
}

func TestTintedParticlesKeepTheirColour(t *testing.T) {
	surf := &recordingSurface{}
	pool := particle.NewPool(particle.Params{}, rand.New(rand.NewPCG(1, 2)))
	tint := color.NRGBA{R: 135, G: 206, B: 235, A: 200}
	pool.Add(particle.Particle{Size: 1, Life: 1.5, Decay: 0.5, Tint: tint, Tinted: true})
	d := NewFrameDriver(surf, TrailOptions(), pool)

	d.Cycle(0)
	got := surf.circles[0].c
	if got.R != 135 || got.G != 206 || got.B != 235 || got.A != 200 {
		t.Errorf("colour = %v, want %v", got, tint)
	}
}

func TestHueShimmer(t *testing.T) {
	d := NewFrameDriver(&recordingSurface{}, TrailOptions())
	second := float64(time.Second)
	tests := []struct {
		now  time.Duration
		want float64
	}{
		{0, 45},
		{time.Duration(math.Pi / 2 * second), 60},
		{time.Duration(3 * math.Pi / 2 * second), 30},
	}
	for _, tt := range tests {
		if got := d.HueAt(tt.now); math.Abs(got-tt.want) > 1e-6 {
			t.Errorf("HueAt(%v) = %v, want %v", tt.now, got, tt.want)
		}
	}
}

func TestStopEndsLoop(t *testing.T) {
	surf := &recordingSurface{}
	d := NewFrameDriver(surf, TrailOptions(), newTrail())
	d.Cycle(0)
	d.Stop()
	if d.State() != Stopped {
		t.Fatalf("State() = %v, want stopped", d.State())
	}
	if d.Cycle(time.Second) {
		t.Error("stopped driver painted")
	}
}

func TestPoolDrainsUnderDriver(t *testing.T) {
	surf := &recordingSurface{}
	params := particle.TrailParams()
	params.DecayMin, params.DecayRange = 0.02, 0
	pool := particle.NewPool(params, rand.New(rand.NewPCG(9, 9)))
	pool.Spawn(400, 300, 3)
	d := NewFrameDriver(surf, TrailOptions(), pool)

	frame := time.Second / 60
	for i := 0; i < 50; i++ {
		if !d.Cycle(time.Duration(i) * (frame + time.Millisecond)) {
			t.Fatalf("cycle %d throttled", i)
		}
	}
	if pool.Len() != 0 || len(surf.circles) != 0 {
		t.Errorf("after 50 cycles pool=%d painted=%d, want both 0", pool.Len(), len(surf.circles))
	}
}

func TestHSLToRGB(t *testing.T) {
	tests := []struct {
		h, s, l float64
		r, g, b uint8
	}{
		{0, 1, 0.5, 255, 0, 0},
		{120, 1, 0.5, 0, 255, 0},
		{240, 1, 0.5, 0, 0, 255},
		{0, 0, 1, 255, 255, 255},
		{0, 0, 0, 0, 0, 0},
		{-120, 1, 0.5, 0, 0, 255},
		{480, 1, 0.5, 0, 255, 0},
	}
	for _, tt := range tests {
		r, g, b := HSLToRGB(tt.h, tt.s, tt.l)
		if r != tt.r || g != tt.g || b != tt.b {
			t.Errorf("HSLToRGB(%v, %v, %v) = %d,%d,%d, want %d,%d,%d", tt.h, tt.s, tt.l, r, g, b, tt.r, tt.g, tt.b)
		}
	}
}

type countingSource struct{ advances int }

func (s *countingSource) AdvanceAndCollect() []particle.Renderable {
	s.advances++
	return nil
}

func TestAmbientAdvanceRateIgnoresRefreshRate(t *testing.T) {
	for _, hz := range []int{60, 120, 144, 240} {
		src := &countingSource{}
		d := NewFrameDriver(&recordingSurface{}, AmbientOptions(), src)
		frame := time.Second / time.Duration(hz)
		for now := time.Duration(0); now < time.Second; now += frame {
			d.Cycle(now)
		}
		if src.advances > particle.FramesPerSecond+1 {
			t.Errorf("%d Hz: %d advances in one second, want at most %d", hz, src.advances, particle.FramesPerSecond)
		}
	}
}

func TestWithAlphaRounds(t *testing.T) {
	c := color.NRGBA{R: 1, G: 2, B: 3, A: 255}
	tests := []struct {
		a    float64
		want uint8
	}{
		{0, 0},
		{0.5, 128}, // 127.5 rounds up
		{1, 255},
		{2, 255},
		{-1, 0},
	}
	for _, tt := range tests {
		if got := WithAlpha(c, tt.a).A; got != tt.want {
			t.Errorf("WithAlpha(%v).A = %d, want %d", tt.a, got, tt.want)
		}
	}
}
