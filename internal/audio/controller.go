package audio

import (
	"io"
	"log"
	"sync"
	"time"

	"github.com/iburimskiy/party-countdown/internal/events"
)

// UnmuteDelay is how long muted autoplay stays silent before unmuting.
const UnmuteDelay = 100 * time.Millisecond

// Controller owns the background track and its play state. Toggle,
// Autoplay and the interaction retry run on the game loop; the delayed
// unmute fires from a timer goroutine, so state is guarded.
type Controller struct {
	mu        sync.Mutex
	backend   Backend
	bus       *events.Bus
	playing   bool
	listeners []func(playing bool)

	cancelWait func()

	// after schedules f; swapped out in tests.
	after func(d time.Duration, f func())
}

// NewController wires backend to bus for the wait-for-interaction retry.
// bus may be nil, in which case a blocked autoplay just gives up.
func NewController(backend Backend, bus *events.Bus) *Controller {
	return &Controller{
		backend: backend,
		bus:     bus,
		after: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
}

// OnChange registers fn to be told about play state changes.
func (c *Controller) OnChange(fn func(playing bool)) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

func (c *Controller) Playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

// Waiting reports whether a blocked autoplay is waiting for a gesture.
func (c *Controller) Waiting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancelWait != nil
}

func (c *Controller) setPlaying(playing bool) {
	c.mu.Lock()
	changed := c.playing != playing
	c.playing = playing
	listeners := append(([]func(bool))(nil), c.listeners...)
	c.mu.Unlock()

	if changed {
		for _, fn := range listeners {
			fn(playing)
		}
	}
}

func (c *Controller) current() Backend {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.backend
}

// Autoplay tries to start the track without a user gesture: plain play,
// then muted play with a delayed unmute, then a retry on the first user
// interaction. Failures are logged and never returned.
func (c *Controller) Autoplay() {
	b := c.current()
	if b == nil {
		return
	}

	err := b.Play(false)
	if err == nil {
		log.Printf("[Music] Started automatically")
		c.setPlaying(true)
		return
	}
	log.Printf("[Music] Direct play blocked: %v", err)

	err = b.Play(true)
	if err == nil {
		c.setPlaying(true)
		c.after(UnmuteDelay, func() {
			if cur := c.current(); cur != nil {
				cur.SetMuted(false)
				log.Printf("[Music] Started via muted autoplay")
			}
		})
		return
	}
	log.Printf("[Music] Muted autoplay blocked: %v", err)

	c.waitForInteraction()
}

func (c *Controller) waitForInteraction() {
	if c.bus == nil {
		log.Printf("[Music] No input source, giving up on autoplay")
		return
	}
	c.cancelPending()

	cancel := c.bus.Once(events.Interactions, func(e events.Event) {
		c.mu.Lock()
		c.cancelWait = nil
		c.mu.Unlock()

		b := c.current()
		if b == nil {
			return
		}
		if err := b.Play(false); err != nil {
			log.Printf("[Music] Failed even after %s: %v", e.Kind, err)
			return
		}
		log.Printf("[Music] Started after %s", e.Kind)
		c.setPlaying(true)
	})

	c.mu.Lock()
	c.cancelWait = cancel
	c.mu.Unlock()
}

func (c *Controller) cancelPending() {
	c.mu.Lock()
	cancel := c.cancelWait
	c.cancelWait = nil
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Toggle pauses a playing track or starts a paused one. An explicit toggle
// supersedes any pending autoplay retry.
func (c *Controller) Toggle() {
	c.cancelPending()
	b := c.current()
	if b == nil {
		return
	}

	if c.Playing() {
		b.Pause()
		c.setPlaying(false)
		return
	}
	if err := b.Play(false); err != nil {
		log.Printf("[Music] Play failed: %v", err)
		return
	}
	c.setPlaying(true)
}

// Levels reports recent playback levels when the backend can.
func (c *Controller) Levels(count int) []float64 {
	if l, ok := c.current().(Leveler); ok && c.Playing() {
		return l.Levels(count)
	}
	return make([]float64, count)
}

// SetVolume passes volume on when the backend supports it.
func (c *Controller) SetVolume(volume float64) {
	if v, ok := c.current().(Volumer); ok {
		v.SetVolume(volume)
	}
}

// Replace swaps in a new track, closing the old one. Playback resumes on
// the new track if the old one was playing.
func (c *Controller) Replace(next Backend) error {
	c.cancelPending()

	c.mu.Lock()
	prev := c.backend
	c.backend = next
	playing := c.playing
	c.mu.Unlock()

	if prev != nil {
		prev.Pause()
		if closer, ok := prev.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				log.Printf("[Music] Warning: closing previous track: %v", err)
			}
		}
	}
	if !playing || next == nil {
		return nil
	}
	if err := next.Play(false); err != nil {
		c.setPlaying(false)
		return err
	}
	return nil
}

// Close stops playback and drops any pending interaction listeners.
func (c *Controller) Close() error {
	c.cancelPending()

	c.mu.Lock()
	b := c.backend
	c.backend = nil
	c.mu.Unlock()

	c.setPlaying(false)
	if b == nil {
		return nil
	}
	b.Pause()
	if closer, ok := b.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
