package countdown

import (
	"fmt"
	"time"
)

const (
	msPerSecond = int64(1000)
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
	msPerDay    = 24 * msPerHour
)

// Breakdown is the time left split into whole units.
type Breakdown struct {
	Days    int
	Hours   int
	Minutes int
	Seconds int
}

// Compute splits target - now into days, hours, minutes and seconds.
// It reports false, with a zero Breakdown, once the target has passed.
func Compute(target, now time.Time) (Breakdown, bool) {
	distance := target.Sub(now).Milliseconds()
	if distance <= 0 {
		return Breakdown{}, false
	}
	return Breakdown{
		Days:    int(distance / msPerDay),
		Hours:   int(distance % msPerDay / msPerHour),
		Minutes: int(distance % msPerHour / msPerMinute),
		Seconds: int(distance % msPerMinute / msPerSecond),
	}, true
}

// Pad2 renders n with at least two digits.
func Pad2(n int) string {
	return fmt.Sprintf("%02d", n)
}

// Fields renders the breakdown as padded cells; seconds are included only
// when withSeconds is set.
func (b Breakdown) Fields(withSeconds bool) []string {
	out := []string{Pad2(b.Days), Pad2(b.Hours), Pad2(b.Minutes)}
	if withSeconds {
		out = append(out, Pad2(b.Seconds))
	}
	return out
}

// Timer recomputes a countdown on a fixed interval.
type Timer struct {
	Target      time.Time
	Interval    time.Duration
	ShowSeconds bool

	current Breakdown
	running bool
	last    time.Time
	ticked  bool
}

// NewTimer builds a timer; the first Tick always recomputes.
func NewTimer(target time.Time, interval time.Duration, showSeconds bool) *Timer {
	return &Timer{Target: target, Interval: interval, ShowSeconds: showSeconds}
}

// Tick recomputes if the interval has elapsed since the last recompute and
// reports whether it did.
func (t *Timer) Tick(now time.Time) bool {
	if t.ticked && now.Sub(t.last) < t.Interval {
		return false
	}
	t.ticked = true
	t.last = now
	t.current, t.running = Compute(t.Target, now)
	return true
}

// Running reports whether the target was still ahead at the last recompute.
func (t *Timer) Running() bool { return t.running }

// Fields renders the last breakdown.
func (t *Timer) Fields() []string { return t.current.Fields(t.ShowSeconds) }
