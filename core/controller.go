package core

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Options configures a Controller. Zero values fall back to the reference
// crossing: two lanes, 100 ticks per cycle, the default timing table.
type Options struct {
	StartMode     Mode
	Timing        Timing
	ActiveLow     [PinCount]bool
	TicksPerCycle uint32

	// ReadMode is the raw mode-select input. Nil leaves the controller
	// in StartMode with no reader task.
	ReadMode ModeInput

	// LockoutIndicatorPoll bounds how stale the lockout lamp can be.
	LockoutIndicatorPoll time.Duration
}

// Controller wires the masker, coordinators, supervisor and per-approach
// tasks together and runs them as one task group. All shared coordination
// state is owned here and handed to tasks at construction; nothing is
// ambient except the trace and failsafe hooks.
type Controller struct {
	opts       Options
	masker     *OutputMasker
	lockout    *Lockout
	signal     *ModeSignal
	supervisor *ModeSupervisor
	approaches [LaneCount]*Approach
}

// NewController builds the full task topology. The system starts locked
// out with the supervisor holding every permit.
func NewController(opts Options) (*Controller, error) {
	if opts.Timing == (Timing{}) {
		opts.Timing = DefaultTiming()
	}
	if opts.LockoutIndicatorPoll <= 0 {
		opts.LockoutIndicatorPoll = 50 * time.Millisecond
	}

	c := &Controller{
		opts:    opts,
		masker:  NewOutputMasker(opts.ActiveLow, opts.TicksPerCycle),
		lockout: NewLockout(),
		signal:  NewModeSignal(),
	}

	// One crossing-occupancy permit per mode class. Both normal-mode
	// lane tasks share the normal permit, which is what makes them
	// alternate; every other class has a single consumer.
	var coords [modeCount]*PermitCoordinator
	coords[ModeNormal] = NewPermitCoordinator("normal", 1, ReleaseStrict)
	coords[ModeFlash] = NewPermitCoordinator("flash", 1, ReleaseStrict)
	coords[ModePriorityA] = NewPermitCoordinator("priority A", 1, ReleaseStrict)
	coords[ModePriorityB] = NewPermitCoordinator("priority B", 1, ReleaseStrict)

	sup, err := NewModeSupervisor(opts.StartMode, c.signal, c.lockout, coords)
	if err != nil {
		return nil, err
	}
	c.supervisor = sup

	for lane := LaneA; lane < LaneCount; lane++ {
		c.approaches[lane] = NewApproach(c.masker, lane, opts.Timing, c.lockout)
	}

	SetFailsafeHandler(func() { FailClosed(c.masker) })
	EnableHeartbeat(c.masker)
	for lane := LaneA; lane < LaneCount; lane++ {
		c.approaches[lane].traffic.ShowPhase(PhaseStop)
		c.approaches[lane].pedestrian.ShowStop()
	}
	return c, nil
}

// Masker exposes the output engine for the platform tick driver.
func (c *Controller) Masker() *OutputMasker { return c.masker }

// Lockout exposes the wind-down flag, read-only in spirit.
func (c *Controller) Lockout() *Lockout { return c.lockout }

// Supervisor exposes the mode supervisor, mainly for tests and probes.
func (c *Controller) Supervisor() *ModeSupervisor { return c.supervisor }

// Approach returns one lane's approach bundle.
func (c *Controller) Approach(lane Lane) *Approach { return c.approaches[lane] }

// PressCall routes a debounced call-button edge to the lane's pedestrian
// light.
func (c *Controller) PressCall(lane Lane) {
	c.approaches[lane].Pedestrian().PressCall()
}

// SelectMode feeds a mode change straight into the supervisor, bypassing
// the debouncer. Hosts and simulators use it; targets run a ModeReader.
func (c *Controller) SelectMode(m Mode) {
	c.signal.Signal(m)
}

// Run spawns every task and blocks until ctx is cancelled or one of them
// fails. The tick driver is external: the platform calls Masker().Tick() at
// its fixed rate and writes the levels out.
func (c *Controller) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	sup := c.supervisor
	g.Go(func() error { return sup.Run(ctx) })

	for lane := LaneA; lane < LaneCount; lane++ {
		a := c.approaches[lane]
		g.Go(func() error { return a.RunNormal(ctx, sup.Coordinator(ModeNormal)) })
	}
	g.Go(func() error {
		return c.approaches[LaneA].RunPriority(ctx, sup.Coordinator(ModePriorityA))
	})
	g.Go(func() error {
		return c.approaches[LaneB].RunPriority(ctx, sup.Coordinator(ModePriorityB))
	})
	g.Go(func() error {
		return RunFlash(ctx, sup.Coordinator(ModeFlash), c.lockout, c.opts.Timing, c.approaches[:])
	})

	g.Go(func() error {
		return RunLockoutIndicator(ctx, c.lockout, c.masker, c.opts.LockoutIndicatorPoll)
	})

	if c.opts.ReadMode != nil {
		r := NewModeReader(c.opts.StartMode, c.opts.ReadMode, c.signal, c.opts.Timing)
		g.Go(func() error { return r.Run(ctx) })
	}

	return g.Wait()
}
