//go:build rp2040

package main

import (
	"context"
	"machine"
	"time"

	"crosslight/config"
	"crosslight/core"
)

func main() {
	// CRITICAL: Disable watchdog on boot to clear any previous state
	// This prevents issues with watchdog persisting across resets
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})
	if err != nil {
		return
	}

	// USB CDC carries the trace stream to the host console
	core.SetTraceWriter(func(s string) {
		machine.Serial.Write([]byte(s))
	})
	core.InitAsyncTrace()

	// Initialize and register GPIO driver
	core.SetGPIODriver(NewRPGPIODriver())

	cfg := config.Default()

	inputs, err := NewInputs(core.MustGPIO(), time.Duration(cfg.CallDebounceMS)*time.Millisecond)
	if err != nil {
		fail("inputs: " + err.Error())
	}

	opts := cfg.Options()
	opts.ReadMode = inputs.ReadSelector

	ctrl, err := core.NewController(opts)
	if err != nil {
		fail("controller: " + err.Error())
	}

	// Lamp output path. A board wired lamp-per-GPIO declares a pin map in
	// the config and gets the direct flush; the reference build leaves the
	// map empty and drives the MCP23017 bank on I2C0 (SDA=GP4, SCL=GP5).
	var flush func(levels *[core.PinCount]bool) error
	if len(cfg.Pins) > 0 {
		pm := cfg.PinMap()
		if err := pm.ConfigureOutputs(core.MustGPIO()); err != nil {
			fail("lamp pins: " + err.Error())
		}
		flush = func(levels *[core.PinCount]bool) error {
			return pm.FlushLevels(core.MustGPIO(), levels)
		}
	} else {
		if err := machine.I2C0.Configure(machine.I2CConfig{}); err != nil {
			fail("i2c: " + err.Error())
		}
		bank, err := NewLampBank(machine.I2C0, 0x20)
		if err != nil {
			fail("lamp bank: " + err.Error())
		}
		flush = bank.Flush
	}

	pixel, err := NewStatusPixel(machine.GP15)
	if err != nil {
		fail("status pixel: " + err.Error())
	}

	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})

	go func() {
		// The task topology runs until power-off; a return here means
		// the controller failed closed and panicked already.
		_ = ctrl.Run(context.Background())
	}()
	go inputs.PollCalls(ctrl)

	// Tick loop. Every tick advances the masker one step and flushes the
	// resulting level vector to the lamps.
	period := time.Second / time.Duration(cfg.TickHz)
	for {
		start := time.Now()

		levels := ctrl.Masker().Tick()
		if err := flush(&levels); err != nil {
			core.Tracef("lamp io", "flush failed: %v", err)
		}
		led.Set(levels[core.PinOnBoardPower])

		pixel.Show(ctrl.Supervisor().Mode(), ctrl.Lockout().Engaged())

		elapsed := time.Since(start)
		if elapsed < period {
			time.Sleep(period - elapsed)
		}
	}
}

// fail reports a setup error and parks. Setup runs before any lamp is
// lit, so there is nothing to fail closed yet.
func fail(msg string) {
	for {
		core.Tracef("boot", "%s", msg)
		time.Sleep(time.Second)
	}
}
