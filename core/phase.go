package core

import "time"

// Phase is the per-approach signal state.
type Phase uint8

const (
	PhaseStop Phase = iota
	PhaseAttention
	PhaseGo
	PhaseYield
	PhaseClearCrossing
	PhaseFlashOn
	PhaseFlashOff

	phaseCount
)

var phaseNames = [phaseCount]string{
	PhaseStop:          "stop",
	PhaseAttention:     "attention",
	PhaseGo:            "go",
	PhaseYield:         "yield",
	PhaseClearCrossing: "clear crossing",
	PhaseFlashOn:       "flash on",
	PhaseFlashOff:      "flash off",
}

func (p Phase) String() string {
	if p < phaseCount {
		return phaseNames[p]
	}
	return "phase?"
}

// Next returns the phase that follows p. The function is total: every phase
// maps to exactly one successor for a given flag pair. flash selects the
// maintenance branch out of Stop; lockout routes the flash loop into the
// wind-down through Yield and ClearCrossing.
func (p Phase) Next(flash, lockout bool) Phase {
	switch p {
	case PhaseStop:
		if flash {
			return PhaseFlashOn
		}
		return PhaseAttention
	case PhaseAttention:
		return PhaseGo
	case PhaseGo:
		return PhaseYield
	case PhaseYield:
		return PhaseClearCrossing
	case PhaseClearCrossing:
		return PhaseStop
	case PhaseFlashOn:
		if lockout {
			return PhaseYield
		}
		return PhaseFlashOff
	case PhaseFlashOff:
		if lockout {
			return PhaseYield
		}
		return PhaseFlashOn
	}
	return PhaseStop
}

// NeedsPermit reports whether the phase occupies the shared crossing. The
// free-run loop acquires its permit on the transition into the first phase
// that needs one and releases it on the transition out of the last.
func (p Phase) NeedsPermit() bool {
	switch p {
	case PhaseAttention, PhaseGo, PhaseYield, PhaseClearCrossing:
		return true
	}
	return false
}

// Outputs projects the phase onto the red/amber/green heads. Lamp mapping is
// kept separate from transition logic so both stay independently testable.
// The flash phases report amber dark here; the lamp group renders them via a
// slow-cycle subscription instead, so both lanes blink in lock-step.
func (p Phase) Outputs() (red, amber, green bool) {
	switch p {
	case PhaseStop, PhaseClearCrossing:
		return true, false, false
	case PhaseAttention:
		return true, true, false
	case PhaseGo:
		return false, false, true
	case PhaseYield:
		return false, true, false
	}
	return false, false, false
}

// Timing carries every dwell and polling interval of the controller. Values
// are configuration, not structure; tests run the same machines with
// millisecond dwells.
type Timing struct {
	Attention     time.Duration
	Go            time.Duration
	Yield         time.Duration
	ClearCrossing time.Duration
	FlashOn       time.Duration
	FlashOff      time.Duration

	// LockoutPoll bounds how long a holding task can miss the lockout
	// flag while it waits in place.
	LockoutPoll time.Duration

	// ModeSample and ModeSettle drive the mode-select debouncer.
	ModeSample time.Duration
	ModeSettle time.Duration
}

// DefaultTiming returns the reference crossing timing: a 10.5s free-run
// cycle and a 2s flash period.
func DefaultTiming() Timing {
	return Timing{
		Attention:     1500 * time.Millisecond,
		Go:            4 * time.Second,
		Yield:         3 * time.Second,
		ClearCrossing: 2 * time.Second,
		FlashOn:       time.Second,
		FlashOff:      time.Second,
		LockoutPoll:   500 * time.Millisecond,
		ModeSample:    200 * time.Millisecond,
		ModeSettle:    time.Second,
	}
}

// Dwell returns the phase's dwell time. Stop has no dwell: a stopped
// approach waits on its permit, not on a timer.
func (t Timing) Dwell(p Phase) time.Duration {
	switch p {
	case PhaseAttention:
		return t.Attention
	case PhaseGo:
		return t.Go
	case PhaseYield:
		return t.Yield
	case PhaseClearCrossing:
		return t.ClearCrossing
	case PhaseFlashOn:
		return t.FlashOn
	case PhaseFlashOff:
		return t.FlashOff
	}
	return 0
}
