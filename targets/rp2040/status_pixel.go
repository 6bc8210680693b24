//go:build rp2040

package main

import (
	"machine"

	pio "github.com/tinygo-org/pio/rp2-pio"
	"github.com/tinygo-org/pio/rp2-pio/piolib"

	"crosslight/core"
)

// StatusPixel drives a single WS2812B as a panel state indicator.
type StatusPixel struct {
	ws       *piolib.WS2812B
	lastMode core.Mode
	lastLock bool
	dirty    bool
}

// NewStatusPixel claims a PIO state machine for the pixel on pin.
func NewStatusPixel(pin machine.Pin) (*StatusPixel, error) {
	sm, err := pio.PIO0.ClaimStateMachine()
	if err != nil {
		return nil, err
	}
	ws, err := piolib.NewWS2812B(sm, pin)
	if err != nil {
		return nil, err
	}
	return &StatusPixel{ws: ws, dirty: true}, nil
}

const pixelIntensity = 48

// Show repaints the pixel for the supervisor state. Repeated calls with
// the same state are free.
func (s *StatusPixel) Show(mode core.Mode, lockout bool) {
	if !s.dirty && mode == s.lastMode && lockout == s.lastLock {
		return
	}

	var r, g, b uint8
	switch {
	case lockout:
		r = pixelIntensity
	case mode == core.ModeFlash:
		r, g = pixelIntensity, pixelIntensity/2
	case mode == core.ModePriorityA || mode == core.ModePriorityB:
		b = pixelIntensity
	default:
		g = pixelIntensity
	}
	s.ws.PutRGB(r, g, b)

	s.lastMode, s.lastLock, s.dirty = mode, lockout, false
}
