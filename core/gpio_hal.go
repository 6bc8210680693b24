package core

// GPIOPin identifies a hardware GPIO pin number.
type GPIOPin uint32

// GPIODriver is the abstract GPIO interface that core code uses.
// Platform-specific implementations handle actual hardware control.
type GPIODriver interface {
	// ConfigureOutput configures a pin as a digital output
	ConfigureOutput(pin GPIOPin) error

	// ConfigureInputPullUp configures a pin as a digital input with pull-up resistor
	ConfigureInputPullUp(pin GPIOPin) error

	// SetPin sets the pin to high (true) or low (false)
	SetPin(pin GPIOPin, value bool) error

	// GetPin reads the current pin state
	GetPin(pin GPIOPin) (bool, error)

	// ReadPin reads the current pin state (alias for GetPin for convenience)
	ReadPin(pin GPIOPin) bool
}

// Global singleton used by core code.
var gpioDriver GPIODriver

// SetGPIODriver is called by target-specific code to register its driver.
func SetGPIODriver(d GPIODriver) {
	gpioDriver = d
}

// MustGPIO returns the configured driver. Operating on the lamps before
// hardware setup completed is a programming precondition, so a missing
// driver panics rather than degrading.
func MustGPIO() GPIODriver {
	if gpioDriver == nil {
		panic("GPIO driver not configured")
	}
	return gpioDriver
}

// PinMap maps every logical lamp to its hardware pin.
type PinMap [PinCount]GPIOPin

// ConfigureOutputs claims every mapped pin as an output.
func (pm *PinMap) ConfigureOutputs(d GPIODriver) error {
	for _, hw := range pm {
		if err := d.ConfigureOutput(hw); err != nil {
			return err
		}
	}
	return nil
}

// FlushLevels writes one masked level vector through the driver. Targets
// that drive lamps pin-by-pin call this from their tick loop; banked
// outputs (port expanders) batch the vector themselves instead.
func (pm *PinMap) FlushLevels(d GPIODriver, levels *[PinCount]bool) error {
	for p, hw := range pm {
		if err := d.SetPin(hw, levels[p]); err != nil {
			return err
		}
	}
	return nil
}
