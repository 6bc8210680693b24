package core

import (
	"context"
	"time"
)

// RunLockoutIndicator mirrors the lockout flag onto its lamp. While the
// wind-down is in effect the lamp blinks on the fast cycle, so a handoff
// stuck collecting permits is visible at a glance; otherwise it is dark.
func RunLockoutIndicator(ctx context.Context, lockout *Lockout, m *OutputMasker, poll time.Duration) error {
	last := false
	m.SetOnOff(PinLockout, false)
	for {
		if err := dwell(ctx, poll); err != nil {
			return err
		}
		engaged := lockout.Engaged()
		if engaged != last {
			last = engaged
			if engaged {
				m.SetPin(PinLockout, OutputDescriptor{On: true, FastCycle: true})
			} else {
				m.SetOnOff(PinLockout, false)
			}
		}
	}
}

// EnableHeartbeat pips the power lamps once per cycle. No task is needed:
// the pip subscription keeps blinking as long as the tick driver runs,
// which is exactly the liveness it demonstrates.
func EnableHeartbeat(m *OutputMasker) {
	m.Apply(
		PinUpdate{Pin: PinPower, Desc: OutputDescriptor{On: true, PipCycle: true}},
		PinUpdate{Pin: PinOnBoardPower, Desc: OutputDescriptor{On: true, PipCycle: true}},
	)
}
