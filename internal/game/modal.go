package game

import (
	"time"

	"github.com/iburimskiy/party-countdown/internal/config"
)

// Modal is the registration dialog. Submitting keeps it on screen for
// FormCloseDelay so the explosion is seen before it closes.
type Modal struct {
	open    bool
	closing bool
	closeAt time.Duration
}

func (m *Modal) Open() {
	m.open = true
	m.closing = false
}

func (m *Modal) Close() {
	m.open = false
	m.closing = false
}

// Submit schedules the close and reports whether this call did it. A
// second submit while closing is ignored.
func (m *Modal) Submit(now time.Duration) bool {
	if !m.open || m.closing {
		return false
	}
	m.closing = true
	m.closeAt = now + config.FormCloseDelay
	return true
}

// Update applies a scheduled close.
func (m *Modal) Update(now time.Duration) {
	if m.closing && now >= m.closeAt {
		m.Close()
	}
}

func (m *Modal) IsOpen() bool  { return m.open }
func (m *Modal) Closing() bool { return m.closing }
