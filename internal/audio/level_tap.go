package audio

import (
	"math"
	"sync"

	"github.com/faiface/beep"
)

// LevelTap wraps a beep.Streamer and records the last N samples into a ring
// buffer so the sound toggle can animate with what is actually playing.
type LevelTap struct {
	Source    beep.Streamer
	buffer    [][2]float64
	nextIndex int
	mu        sync.RWMutex
}

func NewLevelTap(src beep.Streamer, ringSize int) *LevelTap {
	return &LevelTap{
		Source: src,
		buffer: make([][2]float64, ringSize),
	}
}

func (t *LevelTap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.Source.Stream(samples)
	if n > 0 {
		t.mu.Lock()
		for i := 0; i < n; i++ {
			t.buffer[t.nextIndex] = samples[i]
			t.nextIndex++
			if t.nextIndex >= len(t.buffer) {
				t.nextIndex = 0
			}
		}
		t.mu.Unlock()
	}
	return n, ok
}

func (t *LevelTap) Err() error { return t.Source.Err() }

// snapshot returns up to the last n samples, most recent last.
func (t *LevelTap) snapshot(n int) [][2]float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if n > len(t.buffer) {
		n = len(t.buffer)
	}
	out := make([][2]float64, n)
	idx := t.nextIndex - n
	if idx < 0 {
		idx += len(t.buffer)
	}
	for i := 0; i < n; i++ {
		out[i] = t.buffer[idx]
		idx++
		if idx >= len(t.buffer) {
			idx = 0
		}
	}
	return out
}

// Bands splits the last n samples into count equal segments and returns a
// compressed RMS level in [0, 1] for each, oldest first.
func (t *LevelTap) Bands(n, count int) []float64 {
	samples := t.snapshot(n)
	out := make([]float64, count)
	if count <= 0 || len(samples) == 0 {
		return out
	}

	size := len(samples) / count
	if size < 1 {
		size = 1
	}
	for i := 0; i < count; i++ {
		start := i * size
		end := start + size
		if start >= len(samples) {
			break
		}
		if end > len(samples) {
			end = len(samples)
		}

		var sumSquares float64
		for _, s := range samples[start:end] {
			mono := (s[0] + s[1]) * 0.5
			sumSquares += mono * mono
		}
		rms := math.Sqrt(sumSquares / float64(end-start))
		out[i] = math.Min(1, math.Pow(rms, 0.3))
	}
	return out
}
