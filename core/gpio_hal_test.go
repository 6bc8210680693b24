package core

import "testing"

type recordingGPIO struct {
	outputs map[GPIOPin]bool
	inputs  map[GPIOPin]bool
	levels  map[GPIOPin]bool
}

func newRecordingGPIO() *recordingGPIO {
	return &recordingGPIO{
		outputs: make(map[GPIOPin]bool),
		inputs:  make(map[GPIOPin]bool),
		levels:  make(map[GPIOPin]bool),
	}
}

func (d *recordingGPIO) ConfigureOutput(pin GPIOPin) error {
	d.outputs[pin] = true
	return nil
}

func (d *recordingGPIO) ConfigureInputPullUp(pin GPIOPin) error {
	d.inputs[pin] = true
	return nil
}

func (d *recordingGPIO) SetPin(pin GPIOPin, value bool) error {
	d.levels[pin] = value
	return nil
}

func (d *recordingGPIO) GetPin(pin GPIOPin) (bool, error) {
	return d.levels[pin], nil
}

func (d *recordingGPIO) ReadPin(pin GPIOPin) bool {
	v, _ := d.GetPin(pin)
	return v
}

func TestMustGPIORequiresRegistration(t *testing.T) {
	prev := gpioDriver
	t.Cleanup(func() { gpioDriver = prev })

	SetGPIODriver(nil)
	func() {
		defer func() {
			if recover() == nil {
				t.Error("MustGPIO should panic with no driver registered")
			}
		}()
		MustGPIO()
	}()

	d := newRecordingGPIO()
	SetGPIODriver(d)
	if MustGPIO() != GPIODriver(d) {
		t.Error("MustGPIO should return the registered driver")
	}
}

func TestPinMapConfigureAndFlush(t *testing.T) {
	var pm PinMap
	for p := Pin(0); p < PinCount; p++ {
		pm[p] = GPIOPin(40 + uint32(p))
	}

	d := newRecordingGPIO()
	if err := pm.ConfigureOutputs(d); err != nil {
		t.Fatalf("ConfigureOutputs: %v", err)
	}
	for p := Pin(0); p < PinCount; p++ {
		if !d.outputs[pm[p]] {
			t.Errorf("%v hardware pin %d not configured as output", p, pm[p])
		}
	}

	var levels [PinCount]bool
	levels[PinARed] = true
	levels[PinBPedGreen] = true
	if err := pm.FlushLevels(d, &levels); err != nil {
		t.Fatalf("FlushLevels: %v", err)
	}
	for p := Pin(0); p < PinCount; p++ {
		if got := d.levels[pm[p]]; got != levels[p] {
			t.Errorf("%v level = %v, want %v", p, got, levels[p])
		}
	}
}
