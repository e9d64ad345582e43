package game

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/iburimskiy/party-countdown/internal/events"
)

// pollInput turns this tick's input into bus events.
func (g *Game) pollInput() {
	x, y := ebiten.CursorPosition()
	if x != g.prevX || y != g.prevY {
		g.prevX, g.prevY = x, y
		g.bus.Publish(events.Event{Kind: events.PointerMove, X: float64(x), Y: float64(y)})
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.bus.Publish(events.Event{Kind: events.MouseDown, X: float64(x), Y: float64(y)})
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.bus.Publish(events.Event{Kind: events.Click, X: float64(x), Y: float64(y)})
	}
	if _, wy := ebiten.Wheel(); wy != 0 {
		g.bus.Publish(events.Event{Kind: events.Scroll, X: float64(x), Y: float64(y)})
	}

	g.touches = inpututil.AppendJustPressedTouchIDs(g.touches[:0])
	if len(g.touches) > 0 {
		tx, ty := ebiten.TouchPosition(g.touches[0])
		g.bus.Publish(events.Event{Kind: events.TouchStart, X: float64(tx), Y: float64(ty)})
		g.bus.Publish(events.Event{Kind: events.Click, X: float64(tx), Y: float64(ty)})
	}

	g.keys = inpututil.AppendJustPressedKeys(g.keys[:0])
	if len(g.keys) > 0 {
		g.bus.Publish(events.Event{Kind: events.KeyDown})
	}
}
