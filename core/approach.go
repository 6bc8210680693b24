package core

import (
	"context"
	"time"
)

// Approach bundles everything one lane's signal tasks need: the lamp
// groups, the shared timing table and the lockout flag. The same approach
// value backs the lane's normal-mode and priority-mode tasks; only one of
// them ever makes progress because each blocks on its own mode-class
// permit.
type Approach struct {
	lane       Lane
	traffic    TrafficLamps
	pedestrian *PedestrianLamps
	timing     Timing
	lockout    *Lockout
}

func NewApproach(m *OutputMasker, lane Lane, timing Timing, lockout *Lockout) *Approach {
	return &Approach{
		lane:       lane,
		traffic:    NewTrafficLamps(m, lane),
		pedestrian: NewPedestrianLamps(m, lane),
		timing:     timing,
		lockout:    lockout,
	}
}

func (a *Approach) Lane() Lane                   { return a.lane }
func (a *Approach) Pedestrian() *PedestrianLamps { return a.pedestrian }

// dwell waits out one phase's dwell time. Phases always run to completion;
// lockout and mode changes are only observed at the next transition
// boundary, never by preempting an in-flight dwell.
func dwell(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// RunNormal drives the lane through the free-run cycle forever. The permit
// is acquired on the transition into the first phase that needs one and
// released on the transition out of the last, so the task holds exactly one
// permit for the whole crossing occupancy and none in between. With both
// lanes sharing one normal-mode permit, semaphore fairness makes them
// alternate.
func (a *Approach) RunNormal(ctx context.Context, coord *PermitCoordinator) error {
	holder := coord.NewHolder()
	phase := PhaseStop
	for {
		next := phase.Next(false, false)
		if next.NeedsPermit() && !phase.NeedsPermit() {
			if err := holder.Acquire(ctx); err != nil {
				return err
			}
		} else if !next.NeedsPermit() && phase.NeedsPermit() {
			holder.Release()
		}
		phase = next

		a.traffic.ShowPhase(phase)
		switch phase {
		case PhaseAttention:
			a.pedestrian.BeginCycle()
		case PhaseGo:
			a.pedestrian.EnterGo()
		case PhaseYield:
			a.pedestrian.EnterYield()
		case PhaseClearCrossing:
			a.pedestrian.EnterClear()
		}

		if err := dwell(ctx, a.timing.Dwell(phase)); err != nil {
			return err
		}
	}
}

// RunPriority grants the lane right-of-way for as long as the mode lasts:
// attention, then green held until the supervisor engages the lockout, then
// the regular wind-down. Pedestrians are barred for the whole pass.
func (a *Approach) RunPriority(ctx context.Context, coord *PermitCoordinator) error {
	holder := coord.NewHolder()
	for {
		if err := holder.Acquire(ctx); err != nil {
			return err
		}

		// No pedestrians while emergency services pass.
		a.pedestrian.ShowStop()

		a.traffic.ShowPhase(PhaseAttention)
		if err := dwell(ctx, a.timing.Attention); err != nil {
			return err
		}

		a.traffic.ShowPhase(PhaseGo)
		if err := dwell(ctx, a.timing.Go); err != nil {
			return err
		}

		// Hold the green until the supervisor winds us down. Crude,
		// but bounded by the poll interval.
		for !a.lockout.Engaged() {
			if err := dwell(ctx, a.timing.LockoutPoll); err != nil {
				return err
			}
		}

		a.traffic.ShowPhase(PhaseYield)
		if err := dwell(ctx, a.timing.Yield); err != nil {
			return err
		}

		a.traffic.ShowPhase(PhaseClearCrossing)
		if err := dwell(ctx, a.timing.ClearCrossing); err != nil {
			return err
		}

		a.traffic.ShowPhase(PhaseStop)
		holder.Release()
	}
}

// RunFlash runs all-way flashing maintenance across every approach. The
// task owns the flash-mode permit for the whole session, from entering the
// flash branch until the crossing is cleared; the phase machine's flash
// loop exits through Yield and ClearCrossing once the lockout engages.
func RunFlash(ctx context.Context, coord *PermitCoordinator, lockout *Lockout, timing Timing, approaches []*Approach) error {
	holder := coord.NewHolder()
	for {
		if err := holder.Acquire(ctx); err != nil {
			return err
		}

		for _, a := range approaches {
			a.pedestrian.ShowDark()
		}

		phase := PhaseStop.Next(true, false)
		for phase == PhaseFlashOn || phase == PhaseFlashOff {
			for _, a := range approaches {
				a.traffic.ShowPhase(phase)
			}
			if err := dwell(ctx, timing.Dwell(phase)); err != nil {
				return err
			}
			phase = phase.Next(true, lockout.Engaged())
		}

		// Wind-down: the flash branch rejoins the free-run tail.
		for ; phase != PhaseStop; phase = phase.Next(true, false) {
			for _, a := range approaches {
				a.traffic.ShowPhase(phase)
				a.pedestrian.ShowStop()
			}
			if err := dwell(ctx, timing.Dwell(phase)); err != nil {
				return err
			}
		}

		for _, a := range approaches {
			a.traffic.ShowPhase(PhaseStop)
		}
		holder.Release()
	}
}
