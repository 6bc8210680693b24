//go:build rp2040

package main

import (
	"machine"

	"tinygo.org/x/drivers/mcp23017"

	"crosslight/core"
)

// The lamp head wiring puts all sixteen field outputs on one MCP23017
// port expander so a tick flushes as a single I2C transaction instead of
// sixteen GPIO writes. The onboard activity LED stays on a native pin.
var bankBits = map[core.Pin]int{
	core.PinARed:      0,
	core.PinAAmber:    1,
	core.PinAGreen:    2,
	core.PinAPedRed:   3,
	core.PinAPedGreen: 4,
	core.PinACall:     5,
	core.PinABeeper:   6,

	core.PinBRed:      8,
	core.PinBAmber:    9,
	core.PinBGreen:    10,
	core.PinBPedRed:   11,
	core.PinBPedGreen: 12,
	core.PinBCall:     13,
	core.PinBBeeper:   14,

	core.PinPower:   7,
	core.PinLockout: 15,
}

// LampBank drives the field lamps through an MCP23017.
type LampBank struct {
	dev  *mcp23017.Device
	last mcp23017.Pins
	dirt bool
}

// NewLampBank configures the expander at addr with every pin as an output.
func NewLampBank(bus *machine.I2C, addr uint8) (*LampBank, error) {
	dev, err := mcp23017.New(bus, addr)
	if err != nil {
		return nil, err
	}

	modes := make([]mcp23017.PinMode, 16)
	for i := range modes {
		modes[i] = mcp23017.Output
	}
	if err := dev.SetModes(modes); err != nil {
		return nil, err
	}

	b := &LampBank{dev: dev}
	// Force the first flush to write the whole port.
	b.dirt = true
	return b, nil
}

// Flush writes one masked level vector to the expander. Unchanged words
// are skipped so the bus stays idle between lamp transitions.
func (b *LampBank) Flush(levels *[core.PinCount]bool) error {
	var word mcp23017.Pins
	for pin, bit := range bankBits {
		if levels[pin] {
			word |= 1 << bit
		}
	}
	if !b.dirt && word == b.last {
		return nil
	}
	if err := b.dev.SetPins(word, 0xffff); err != nil {
		return err
	}
	b.last = word
	b.dirt = false
	return nil
}
