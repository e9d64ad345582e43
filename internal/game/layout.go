package game

import (
	"github.com/iburimskiy/party-countdown/internal/config"
	"github.com/iburimskiy/party-countdown/internal/effects"
)

// pageLayout holds the hit boxes and text rows for one window size.
type pageLayout struct {
	w, h float64

	titleY    float64
	subtitleY float64
	introY    float64
	eventY    float64
	regY      float64

	join     effects.Rect
	register effects.Rect
	toggle   effects.Rect

	modal       effects.Rect
	modalClose  effects.Rect
	modalCancel effects.Rect
	modalForm   effects.Rect
}

func layoutFor(width, height int) pageLayout {
	w, h := float64(width), float64(height)
	l := pageLayout{
		w:         w,
		h:         h,
		titleY:    h * 0.105,
		subtitleY: h * 0.17,
		introY:    h * 0.22,
		eventY:    h * 0.34,
		regY:      h * 0.625,
	}

	bw, bh := float64(config.ButtonWidth), float64(config.ButtonHeight)
	if bw > w-40 {
		bw = w - 40
	}
	l.join = effects.Rect{X: (w - bw) / 2, Y: h * 0.52, W: bw, H: bh}
	l.register = effects.Rect{X: (w - bw) / 2, Y: h * 0.81, W: bw, H: bh}

	ts := float64(config.ToggleSize)
	l.toggle = effects.Rect{
		X: w - ts - config.ToggleMargin,
		Y: h - ts - config.ToggleMargin,
		W: ts,
		H: ts,
	}

	mw, mh := float64(config.ModalWidth), float64(config.ModalHeight)
	if mw > w-20 {
		mw = w - 20
	}
	l.modal = effects.Rect{X: (w - mw) / 2, Y: (h - mh) / 2, W: mw, H: mh}
	l.modalClose = effects.Rect{X: l.modal.X + mw - 36, Y: l.modal.Y + 8, W: 28, H: 28}
	half := (mw - 60) / 2
	l.modalCancel = effects.Rect{X: l.modal.X + 20, Y: l.modal.Y + mh - 64, W: half, H: 44}
	l.modalForm = effects.Rect{X: l.modal.X + 40 + half, Y: l.modal.Y + mh - 64, W: half, H: 44}
	return l
}
