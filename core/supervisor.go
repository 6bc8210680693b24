package core

import "context"

// ModeSupervisor owns one permit coordinator per mode class and runs the
// handoff protocol between them. It has two coarse states: running (lockout
// clear, the active mode's permit released into its pool) and collecting
// (lockout set, draining every coordinator back before the switch commits).
type ModeSupervisor struct {
	signal  *ModeSignal
	lockout *Lockout
	coords  [modeCount]*PermitCoordinator
	holders [modeCount]*Holder
	mode    Mode
}

// NewModeSupervisor builds the supervisor holding every coordinator's
// permit, which keeps all approach tasks blocked until the first Run cycle
// releases the start mode.
func NewModeSupervisor(start Mode, signal *ModeSignal, lockout *Lockout, coords [modeCount]*PermitCoordinator) (*ModeSupervisor, error) {
	s := &ModeSupervisor{
		signal:  signal,
		lockout: lockout,
		coords:  coords,
		mode:    start,
	}
	for m, c := range coords {
		h, err := c.NewHeldHolder()
		if err != nil {
			return nil, err
		}
		s.holders[m] = h
	}
	return s, nil
}

// Mode returns the mode the supervisor last committed.
func (s *ModeSupervisor) Mode() Mode { return s.mode }

// Coordinator returns the coordinator for a mode class.
func (s *ModeSupervisor) Coordinator(m Mode) *PermitCoordinator {
	return s.coords[m]
}

// Run executes the handoff protocol until ctx is cancelled. Each cycle:
// clear the lockout, re-read the freshest requested mode, release that
// mode's permit, wait for the next change, set the lockout, and collect
// every coordinator's permit back before looping.
func (s *ModeSupervisor) Run(ctx context.Context) error {
	for {
		// We hold every permit here, so it is safe to let traffic in.
		Tracef("sem hand", "releasing lockout")
		s.lockout.Clear()

		// Collecting permits can take several dwell times and the user
		// may have flipped the selector again while we were busy. Act
		// on the most recent request so we never cycle through an
		// older mode first.
		if m, ok := s.signal.TryWait(); ok {
			s.mode = m
		}

		Tracef("sem hand", "releasing %s", s.mode)
		s.holders[s.mode].Release()

		Tracef("sem hand", "awaiting new mode")
		m, err := s.signal.Wait(ctx)
		if err != nil {
			return err
		}
		s.mode = m

		// Signal the wind-down first, then claim every permit so we
		// know all tasks are at rest. The lockout flag is deliberately
		// separate from the visible desired mode: if tasks instead
		// compared the mode value to decide whether to stop, a user
		// flipping back to the previous mode mid-collection would
		// leave some task seeing its own mode, never yielding its
		// permit, while we wait on that exact coordinator. Every task
		// yields unconditionally on lockout, whatever mode comes next.
		Tracef("sem hand", "locking out")
		s.lockout.Set()

		Tracef("sem hand", "collecting permits")
		for _, h := range s.holders {
			if err := h.Acquire(ctx); err != nil {
				return err
			}
		}
	}
}
