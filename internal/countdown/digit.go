package countdown

import "time"

// FlipDelay is how long a changed cell shows its old value in the
// updating style before switching.
const FlipDelay = 300 * time.Millisecond

// Digit is one countdown cell with the flip animation.
type Digit struct {
	shown     string
	pending   string
	changedAt time.Duration
	flipping  bool
}

// Set queues value. An unchanged value is ignored. The first value is
// shown right away.
func (d *Digit) Set(value string, now time.Duration) {
	if d.flipping {
		if value == d.pending {
			return
		}
	} else if value == d.shown {
		return
	}
	if d.shown == "" && !d.flipping {
		d.shown = value
		return
	}
	d.pending = value
	d.changedAt = now
	d.flipping = true
}

// Show replaces the value at once, without the flip.
func (d *Digit) Show(value string) {
	d.shown = value
	d.pending = ""
	d.flipping = false
}

// Text returns what the cell shows at now and whether it is in the
// updating style.
func (d *Digit) Text(now time.Duration) (string, bool) {
	if d.flipping && now-d.changedAt >= FlipDelay {
		d.shown = d.pending
		d.pending = ""
		d.flipping = false
	}
	return d.shown, d.flipping
}

// Row is a set of cells fed from one Timer. Only a flipping row animates
// changed cells.
type Row struct {
	Cells []Digit
	Flip  bool
}

func NewRow(n int) *Row {
	return &Row{Cells: make([]Digit, n)}
}

func NewFlipRow(n int) *Row {
	return &Row{Cells: make([]Digit, n), Flip: true}
}

// Update pushes fields into the cells; extra fields are ignored.
func (r *Row) Update(fields []string, now time.Duration) {
	for i := range r.Cells {
		if i >= len(fields) {
			continue
		}
		if r.Flip {
			r.Cells[i].Set(fields[i], now)
		} else {
			r.Cells[i].Show(fields[i])
		}
	}
}
