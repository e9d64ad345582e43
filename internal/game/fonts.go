package game

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

type fonts struct {
	title  *text.GoTextFace
	digits *text.GoTextFace
	body   *text.GoTextFace
	small  *text.GoTextFace
}

func newFace(ttf []byte, size float64) (*text.GoTextFace, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(ttf))
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	return &text.GoTextFace{
		Source:    source,
		Size:      size,
		Direction: text.DirectionLeftToRight,
	}, nil
}

func loadFonts(mobile bool) (*fonts, error) {
	titleSize := titleHeight
	if mobile {
		titleSize = 36
	}
	title, err := newFace(gobold.TTF, titleSize)
	if err != nil {
		return nil, err
	}
	digits, err := newFace(gobold.TTF, 32)
	if err != nil {
		return nil, err
	}
	body, err := newFace(goregular.TTF, 20)
	if err != nil {
		return nil, err
	}
	small, err := newFace(goregular.TTF, 14)
	if err != nil {
		return nil, err
	}
	return &fonts{title: title, digits: digits, body: body, small: small}, nil
}

// drawText draws s with its top edge at y. Without a face it falls back to
// the debug font.
func drawText(dst *ebiten.Image, s string, face *text.GoTextFace, x, y float64, align text.Align, c color.NRGBA) {
	if c.A == 0 || s == "" {
		return
	}
	if face == nil {
		switch align {
		case text.AlignCenter:
			x -= advance(s, nil) / 2
		case text.AlignEnd:
			x -= advance(s, nil)
		}
		ebitenutil.DebugPrintAt(dst, s, int(x), int(y))
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	op.PrimaryAlign = align
	text.Draw(dst, s, face, op)
}

// drawLabel draws s centred on (cx, cy).
func drawLabel(dst *ebiten.Image, s string, face *text.GoTextFace, cx, cy float64, c color.NRGBA) {
	if c.A == 0 || s == "" {
		return
	}
	if face == nil {
		ebitenutil.DebugPrintAt(dst, s, int(cx-advance(s, nil)/2), int(cy-8))
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(cx, cy)
	op.ColorScale.ScaleWithColor(c)
	op.PrimaryAlign = text.AlignCenter
	op.SecondaryAlign = text.AlignCenter
	text.Draw(dst, s, face, op)
}

func advance(s string, face *text.GoTextFace) float64 {
	if face == nil {
		return fallbackAdvance * float64(len([]rune(s)))
	}
	return text.Advance(s, face)
}
