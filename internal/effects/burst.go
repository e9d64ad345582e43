package effects

import (
	"image/color"
	"math"
	"time"
)

// Rand is the random source bursts draw from.
type Rand interface {
	Float64() float64
}

// BurstSpec describes a radial burst. Ranges are min + r·range with r
// uniform in [0, 1).
type BurstSpec struct {
	Count      int
	SpeedMin   float64 // travel distance in px over the shard's lifetime
	SpeedRange float64
	DurMin     time.Duration
	DurRange   time.Duration
	SizeMin    float64
	SizeRange  float64
	Spin       float64 // total rotation in degrees
	Colors     []color.NRGBA
	Easing     Easing
}

// swiftOut is cubic-bezier(0.25, 0.46, 0.45, 0.94).
var swiftOut = CubicBezier(0.25, 0.46, 0.45, 0.94)

// Sparkle is the button-click burst: 15 gold shards spinning out.
func Sparkle() BurstSpec {
	return BurstSpec{
		Count:      15,
		SpeedMin:   100,
		SpeedRange: 200,
		DurMin:     800 * time.Millisecond,
		DurRange:   1500 * time.Millisecond,
		SizeMin:    4,
		SizeRange:  8,
		Spin:       720,
		Colors: []color.NRGBA{
			{R: 255, G: 215, B: 0, A: 255},
			{R: 255, G: 182, B: 193, A: 204},
		},
		Easing: swiftOut,
	}
}

// CosmicExplosion is the form-button burst: 25 shards from the centre of
// the viewport in the four page colours.
func CosmicExplosion() BurstSpec {
	return BurstSpec{
		Count:      25,
		SpeedMin:   150,
		SpeedRange: 300,
		DurMin:     time.Second,
		DurRange:   2 * time.Second,
		SizeMin:    2,
		SizeRange:  6,
		Colors: []color.NRGBA{
			{R: 255, G: 215, B: 0, A: 204},
			{R: 255, G: 182, B: 193, A: 204},
			{R: 135, G: 206, B: 235, A: 204},
			{R: 221, G: 160, B: 221, A: 204},
		},
		Easing: swiftOut,
	}
}

type shard struct {
	dx, dy   float64
	size     float64
	duration time.Duration
	tint     color.NRGBA
}

// Shard is one sampled burst fragment.
type Shard struct {
	X, Y     float64
	Radius   float64 // size/2 scaled down over the timeline
	Opacity  float64
	Rotation float64 // degrees
	Tint     color.NRGBA
}

// Burst is a one-shot animation with no state left once Done.
type Burst struct {
	x, y    float64
	start   time.Duration
	spin    float64
	easing  Easing
	shards  []shard
	longest time.Duration
}

// NewBurst lays out spec.Count shards at equal angular spacing around
// (x, y), starting at now.
func NewBurst(spec BurstSpec, x, y float64, now time.Duration, rnd Rand) *Burst {
	b := &Burst{
		x:      x,
		y:      y,
		start:  now,
		spin:   spec.Spin,
		easing: spec.Easing,
	}
	if b.easing == nil {
		b.easing = swiftOut
	}

	for i := 0; i < spec.Count; i++ {
		angle := float64(i) / float64(spec.Count) * 2 * math.Pi
		speed := spec.SpeedMin + rnd.Float64()*spec.SpeedRange
		s := shard{
			dx:       math.Cos(angle) * speed,
			dy:       math.Sin(angle) * speed,
			size:     spec.SizeMin + rnd.Float64()*spec.SizeRange,
			duration: spec.DurMin + time.Duration(rnd.Float64()*float64(spec.DurRange)),
		}
		if len(spec.Colors) > 0 {
			s.tint = spec.Colors[int(rnd.Float64()*float64(len(spec.Colors)))%len(spec.Colors)]
		}
		if s.duration > b.longest {
			b.longest = s.duration
		}
		b.shards = append(b.shards, s)
	}
	return b
}

// Len is the number of shards the burst was created with.
func (b *Burst) Len() int { return len(b.shards) }

// Done reports whether every shard has finished.
func (b *Burst) Done(now time.Duration) bool {
	return now-b.start >= b.longest
}

// Shards appends the still-visible shards at now to dst.
func (b *Burst) Shards(dst []Shard, now time.Duration) []Shard {
	elapsed := now - b.start
	if elapsed < 0 {
		return dst
	}
	for _, s := range b.shards {
		if s.duration <= 0 || elapsed >= s.duration {
			continue
		}
		e := b.easing(float64(elapsed) / float64(s.duration))
		dst = append(dst, Shard{
			X:        b.x + s.dx*e,
			Y:        b.y + s.dy*e,
			Radius:   s.size / 2 * (1 - e),
			Opacity:  1 - e,
			Rotation: b.spin * e,
			Tint:     s.tint,
		})
	}
	return dst
}

// Bursts is a fire-and-forget set of bursts.
type Bursts struct {
	rnd    Rand
	active []*Burst
	buf    []Shard
}

func NewBursts(rnd Rand) *Bursts {
	return &Bursts{rnd: rnd}
}

// Fire starts a new burst at (x, y).
func (bs *Bursts) Fire(spec BurstSpec, x, y float64, now time.Duration) *Burst {
	b := NewBurst(spec, x, y, now, bs.rnd)
	bs.active = append(bs.active, b)
	return b
}

// Prune drops finished bursts.
func (bs *Bursts) Prune(now time.Duration) {
	live := bs.active[:0]
	for _, b := range bs.active {
		if !b.Done(now) {
			live = append(live, b)
		}
	}
	for i := len(live); i < len(bs.active); i++ {
		bs.active[i] = nil
	}
	bs.active = live
}

func (bs *Bursts) Len() int { return len(bs.active) }

// Shards samples every live burst. The slice is reused by the next call.
func (bs *Bursts) Shards(now time.Duration) []Shard {
	bs.buf = bs.buf[:0]
	for _, b := range bs.active {
		bs.buf = b.Shards(bs.buf, now)
	}
	return bs.buf
}
