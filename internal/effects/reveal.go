package effects

import (
	"math"
	"strings"
	"time"
)

// Reveal timings.
const (
	WordDelay        = 150 * time.Millisecond
	WordTransition   = 600 * time.Millisecond
	WordRise         = 20.0
	LetterDelay      = 100 * time.Millisecond
	LetterTransition = 800 * time.Millisecond
	TypewriterSpeed  = 100 * time.Millisecond
)

// Span is one word or letter with its current transition state.
type Span struct {
	Text    string
	Opacity float64
	OffsetY float64
}

// Reveal fades in a sequence of spans one after another, lifting each up
// from Rise px below its resting place.
type Reveal struct {
	parts      []string
	start      time.Duration
	delay      time.Duration
	transition time.Duration
	rise       float64
	out        []Span
}

// WordReveal splits text on spaces and reveals one word every 150 ms.
func WordReveal(text string, start time.Duration) *Reveal {
	return &Reveal{
		parts:      strings.Fields(text),
		start:      start,
		delay:      WordDelay,
		transition: WordTransition,
		rise:       WordRise,
	}
}

// LetterReveal reveals one rune every 100 ms. Spaces are kept as spans so
// layout stays stable.
func LetterReveal(text string, start time.Duration) *Reveal {
	var parts []string
	for _, r := range text {
		parts = append(parts, string(r))
	}
	return &Reveal{
		parts:      parts,
		start:      start,
		delay:      LetterDelay,
		transition: LetterTransition,
		rise:       WordRise,
	}
}

func (r *Reveal) Len() int { return len(r.parts) }

// Spans samples every span at now. The slice is reused by the next call.
func (r *Reveal) Spans(now time.Duration) []Span {
	r.out = r.out[:0]
	for i, p := range r.parts {
		begin := r.start + time.Duration(i)*r.delay
		progress := 0.0
		if now >= begin {
			progress = clamp01(float64(now-begin) / float64(r.transition))
		}
		e := Ease(progress)
		r.out = append(r.out, Span{
			Text:    p,
			Opacity: e,
			OffsetY: r.rise * (1 - e),
		})
	}
	return r.out
}

// Done reports whether the last span has settled.
func (r *Reveal) Done(now time.Duration) bool {
	if len(r.parts) == 0 {
		return true
	}
	end := r.start + time.Duration(len(r.parts)-1)*r.delay + r.transition
	return now >= end
}

// Typewriter returns the prefix of text typed by now at one rune per speed.
func Typewriter(text string, start, now, speed time.Duration) string {
	if now < start || speed <= 0 {
		return ""
	}
	n := int((now-start)/speed) + 1
	i := 0
	for pos := range text {
		if i == n {
			return text[:pos]
		}
		i++
	}
	return text
}

// Counter animates a count from 0 to target over duration in ~16 ms
// steps, settling exactly on target.
func Counter(target int, start, now, duration time.Duration) int {
	if now < start {
		return 0
	}
	if duration <= 0 {
		return target
	}
	steps := float64(duration) / float64(16*time.Millisecond)
	increment := float64(target) / steps
	step := math.Floor(float64(now-start)/float64(16*time.Millisecond)) + 1
	v := increment * step
	if v >= float64(target) {
		return target
	}
	return int(math.Floor(v))
}
