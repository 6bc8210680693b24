// Timed output masking engine.
//
// Traffic lights use quite a few timers, and if every task programmed its own
// waits the blinking lamps would drift apart: when the heads flash amber at
// night, every amber lamp has to change state at the exact same instant. In
// an analog or discrete-digital controller this is trivial, because a shared
// timer bus is simply ANDed into each lamp's control line.
//
// This module brings that structure to the task world. Control logic submits
// a per-lamp descriptor saying what the lamp should do (on, and which cycle
// buses it is subject to); a fixed-rate tick then derives the three cycle
// signals from a single wrapping counter and masks every descriptor into a
// physical level in one pass. Two lamps subscribed to the same cycle are
// bit-exact synchronized by construction.
package core

import "sync"

// DefaultTicksPerCycle is one full cycle per second at the 100 Hz reference
// tick rate. Must be divisible by 10 so the fast cycle divides evenly.
const DefaultTicksPerCycle = 100

// OutputDescriptor captures the desired state of one lamp regardless of
// timing: the base level plus the cycle buses the lamp is subject to.
type OutputDescriptor struct {
	On        bool
	SlowCycle bool // 50% duty square wave, one period per cycle
	FastCycle bool // square wave ten times faster than the slow cycle
	PipCycle  bool // single-tick pulse once per cycle
}

// PinUpdate pairs a pin with its replacement descriptor for batched writes.
type PinUpdate struct {
	Pin  Pin
	Desc OutputDescriptor
}

// OutputMasker owns the descriptor table and the cycle counters. Writers
// replace whole descriptors; the tick driver reads and advances. Both happen
// under one mutex with O(1) hold time, so no caller ever blocks for long.
type OutputMasker struct {
	mu            sync.Mutex
	descriptors   [PinCount]OutputDescriptor
	activeLow     [PinCount]bool
	ticksPerCycle uint32
	tick          uint32
	slow          bool
	fast          bool
	pip           bool
}

// NewOutputMasker creates a masker with the given static polarity table.
// ticksPerCycle scales every cycle constant when the tick rate changes; it
// must be an even multiple of 10. Pass 0 for the reference value; values
// below 10 are rounded up to 10.
func NewOutputMasker(activeLow [PinCount]bool, ticksPerCycle uint32) *OutputMasker {
	if ticksPerCycle == 0 {
		ticksPerCycle = DefaultTicksPerCycle
	}
	// Below 10 ticks the fast-cycle divisor would hit zero; round up so
	// the derivation stays total even for unvalidated callers.
	if ticksPerCycle < 10 {
		ticksPerCycle = 10
	}
	return &OutputMasker{
		activeLow:     activeLow,
		ticksPerCycle: ticksPerCycle,
		// Start one tick before wrap so the first Tick lands on tick 0
		// and fires the pip.
		tick: ticksPerCycle - 1,
	}
}

// Tick advances the cycle signals and returns the masked level vector. The
// platform tick driver calls this at the fixed tick rate and writes the
// result to the hardware pins. Output is a pure function of the descriptor
// table and the tick counter; replaying the same tick sequence reproduces
// identical output.
func (m *OutputMasker) Tick() [PinCount]bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.advance()
	return m.mask()
}

func (m *OutputMasker) advance() {
	m.tick = (m.tick + 1) % m.ticksPerCycle
	m.slow = m.tick < m.ticksPerCycle/2
	m.fast = (m.tick/(m.ticksPerCycle/10))%2 == 1
	m.pip = m.tick == 0
}

func (m *OutputMasker) mask() [PinCount]bool {
	var levels [PinCount]bool
	for i := range m.descriptors {
		d := &m.descriptors[i]
		on := d.On
		if d.SlowCycle {
			on = on && m.slow
		}
		if d.FastCycle {
			on = on && m.fast
		}
		if d.PipCycle {
			on = on && m.pip
		}
		// Active-low inversion is applied last, after all logical
		// masking, so callers always reason in active-high terms.
		levels[i] = on != m.activeLow[i]
	}
	return levels
}

// Apply replaces the descriptors for a group of pins in one locked scope, so
// every lamp in the group changes state on the same tick.
func (m *OutputMasker) Apply(updates ...PinUpdate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range updates {
		m.descriptors[u.Pin] = u.Desc
	}
}

// SetPin replaces a single pin's descriptor.
func (m *OutputMasker) SetPin(pin Pin, d OutputDescriptor) {
	m.Apply(PinUpdate{Pin: pin, Desc: d})
}

// SetOnOff sets a plain on/off level with no cycle subscription.
func (m *OutputMasker) SetOnOff(pin Pin, on bool) {
	m.SetPin(pin, OutputDescriptor{On: on})
}

// Descriptor returns a copy of the pin's current descriptor.
func (m *OutputMasker) Descriptor(pin Pin) OutputDescriptor {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.descriptors[pin]
}

// CycleFlags returns the cycle signal values as of the last tick.
func (m *OutputMasker) CycleFlags() (slow, fast, pip bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slow, m.fast, m.pip
}
