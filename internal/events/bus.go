package events

// Kind identifies an input or window event.
type Kind int

const (
	PointerMove Kind = iota
	MouseDown
	Click
	KeyDown
	TouchStart
	Scroll
	Resize
)

func (k Kind) String() string {
	switch k {
	case PointerMove:
		return "pointermove"
	case MouseDown:
		return "mousedown"
	case Click:
		return "click"
	case KeyDown:
		return "keydown"
	case TouchStart:
		return "touchstart"
	case Scroll:
		return "scroll"
	case Resize:
		return "resize"
	}
	return "unknown"
}

// Interactions are the kinds that count as a user gesture.
var Interactions = []Kind{Click, KeyDown, TouchStart, PointerMove, Scroll, MouseDown}

// Event carries the pointer position for pointer kinds and the new size for
// Resize.
type Event struct {
	Kind Kind
	X, Y float64
	W, H int
}

type Handler func(Event)

// Subscription is one registered handler.
type Subscription struct {
	bus    *Bus
	kind   Kind
	id     uint64
	active bool
}

// Unsubscribe removes the handler. It is safe to call more than once and
// from inside a handler.
func (s *Subscription) Unsubscribe() {
	if s == nil || !s.active {
		return
	}
	s.active = false
	s.bus.remove(s.kind, s.id)
}

type entry struct {
	id uint64
	fn Handler
}

// Bus dispatches events to subscribers in registration order. It belongs
// to the game loop goroutine and does no locking.
type Bus struct {
	next     uint64
	handlers map[Kind][]entry
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[Kind][]entry)}
}

func (b *Bus) Subscribe(kind Kind, fn Handler) *Subscription {
	b.next++
	b.handlers[kind] = append(b.handlers[kind], entry{id: b.next, fn: fn})
	return &Subscription{bus: b, kind: kind, id: b.next, active: true}
}

// Once registers fn on every kind in kinds; the first matching event runs
// fn and drops all of the registrations. The returned func cancels them
// early.
func (b *Bus) Once(kinds []Kind, fn Handler) (cancel func()) {
	subs := make([]*Subscription, 0, len(kinds))
	cancel = func() {
		for _, s := range subs {
			s.Unsubscribe()
		}
	}
	for _, k := range kinds {
		subs = append(subs, b.Subscribe(k, func(e Event) {
			cancel()
			fn(e)
		}))
	}
	return cancel
}

// Publish runs the handlers registered for e.Kind. Handlers added during
// dispatch see the next event, not this one.
func (b *Bus) Publish(e Event) {
	list := b.handlers[e.Kind]
	if len(list) == 0 {
		return
	}
	snapshot := append([]entry(nil), list...)
	for _, h := range snapshot {
		if b.has(e.Kind, h.id) {
			h.fn(e)
		}
	}
}

// Len reports how many handlers are registered for kind.
func (b *Bus) Len(kind Kind) int { return len(b.handlers[kind]) }

func (b *Bus) has(kind Kind, id uint64) bool {
	for _, h := range b.handlers[kind] {
		if h.id == id {
			return true
		}
	}
	return false
}

func (b *Bus) remove(kind Kind, id uint64) {
	list := b.handlers[kind]
	for i, h := range list {
		if h.id == id {
			b.handlers[kind] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}
