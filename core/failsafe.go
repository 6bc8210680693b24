package core

import (
	"fmt"
	"sync"
)

var (
	failsafeMu sync.Mutex
	failsafeFn func()
)

// SetFailsafeHandler registers the routine that drives every head to its
// safe state. Platform code registers it once the lamp drivers are up; it
// runs at most once.
func SetFailsafeHandler(fn func()) {
	failsafeMu.Lock()
	defer failsafeMu.Unlock()
	failsafeFn = fn
}

// Fatalf reports an unrecoverable coordination or precondition violation.
// The failsafe handler runs first so the intersection fails closed, then the
// program halts. This is deliberately not an error return: the conditions
// routed here are programming-logic violations, and continuing past one
// could let two conflicting approaches hold right-of-way at once.
func Fatalf(role, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	Tracef(role, "fatal: %s", msg)

	failsafeMu.Lock()
	fn := failsafeFn
	failsafeFn = nil
	failsafeMu.Unlock()
	if fn != nil {
		fn()
	}

	panic(role + ": " + msg)
}

// FailClosed writes the safe lamp pattern into the masker: every traffic and
// pedestrian head red, everything else dark, lockout indicator solid on. The
// platform failsafe handler calls this and then flushes one final level
// vector to the hardware.
func FailClosed(m *OutputMasker) {
	updates := make([]PinUpdate, 0, PinCount)
	for p := Pin(0); p < PinCount; p++ {
		updates = append(updates, PinUpdate{Pin: p})
	}
	m.Apply(updates...)
	m.Apply(
		PinUpdate{Pin: PinARed, Desc: OutputDescriptor{On: true}},
		PinUpdate{Pin: PinBRed, Desc: OutputDescriptor{On: true}},
		PinUpdate{Pin: PinAPedRed, Desc: OutputDescriptor{On: true}},
		PinUpdate{Pin: PinBPedRed, Desc: OutputDescriptor{On: true}},
		PinUpdate{Pin: PinLockout, Desc: OutputDescriptor{On: true}},
	)
}
