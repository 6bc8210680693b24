//go:build rp2040

package main

import (
	"time"

	"crosslight/core"
)

// Operator input wiring. The mode selector is a 3-bit panel switch, the
// call buttons momentary switches, all against pull-ups so a closed
// contact reads low.
const (
	selFlashPin     core.GPIOPin = 16
	selPriorityAPin core.GPIOPin = 17
	selPriorityBPin core.GPIOPin = 18

	callAPin core.GPIOPin = 19
	callBPin core.GPIOPin = 20
)

// Inputs reads the selector and the call buttons through the GPIO driver.
type Inputs struct {
	gpio     core.GPIODriver
	debounce time.Duration
}

// NewInputs claims the input pins.
func NewInputs(gpio core.GPIODriver, debounce time.Duration) (*Inputs, error) {
	for _, pin := range []core.GPIOPin{
		selFlashPin, selPriorityAPin, selPriorityBPin, callAPin, callBPin,
	} {
		if err := gpio.ConfigureInputPullUp(pin); err != nil {
			return nil, err
		}
	}
	return &Inputs{gpio: gpio, debounce: debounce}, nil
}

// ReadSelector samples the raw mode switch. Debouncing happens in the
// controller's mode reader, not here.
func (in *Inputs) ReadSelector() core.Mode {
	flash := !in.gpio.ReadPin(selFlashPin)
	prioA := !in.gpio.ReadPin(selPriorityAPin)
	prioB := !in.gpio.ReadPin(selPriorityBPin)
	return core.ModeFromSelect(flash, prioA, prioB)
}

// PollCalls watches the call buttons and forwards press edges to the
// controller. Runs forever; intended as a goroutine.
func (in *Inputs) PollCalls(ctrl *core.Controller) {
	lastA, lastB := false, false
	for {
		a := !in.gpio.ReadPin(callAPin)
		b := !in.gpio.ReadPin(callBPin)

		if a && !lastA {
			ctrl.PressCall(core.LaneA)
		}
		if b && !lastB {
			ctrl.PressCall(core.LaneB)
		}
		lastA, lastB = a, b

		// The press latch in the controller is idempotent, so contact
		// bounce only costs redundant edges. The sleep keeps them rare.
		time.Sleep(in.debounce)
	}
}
