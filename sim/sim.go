// Package sim runs the complete controller on a desktop: the task topology
// is the real one, only the tick driver and the lamp outputs are replaced
// by a ticker goroutine and an ASCII rendering. Useful for watching a mode
// handoff without flashing a board.
package sim

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"crosslight/config"
	"crosslight/core"
)

// Simulator owns a controller plus the simulated operator inputs: the mode
// selector position and the pedestrian call buttons.
type Simulator struct {
	cfg   *config.Config
	ctrl  *core.Controller
	out   io.Writer
	speed int

	selector atomic.Uint32
}

// New builds a simulator. speed divides every dwell and the tick period, so
// speed 10 plays a 10.5s cycle in about a second.
func New(cfg *config.Config, out io.Writer, speed int) (*Simulator, error) {
	if speed < 1 {
		speed = 1
	}

	opts := cfg.Options()
	opts.Timing = scaleTiming(opts.Timing, speed)

	s := &Simulator{cfg: cfg, out: out, speed: speed}
	s.selector.Store(uint32(opts.StartMode))
	opts.ReadMode = func() core.Mode { return core.Mode(s.selector.Load()) }

	ctrl, err := core.NewController(opts)
	if err != nil {
		return nil, err
	}
	s.ctrl = ctrl
	return s, nil
}

func scaleTiming(t core.Timing, speed int) core.Timing {
	d := time.Duration(speed)
	return core.Timing{
		Attention:     t.Attention / d,
		Go:            t.Go / d,
		Yield:         t.Yield / d,
		ClearCrossing: t.ClearCrossing / d,
		FlashOn:       t.FlashOn / d,
		FlashOff:      t.FlashOff / d,
		LockoutPoll:   t.LockoutPoll / d,
		ModeSample:    t.ModeSample / d,
		ModeSettle:    t.ModeSettle / d,
	}
}

// Controller exposes the underlying controller.
func (s *Simulator) Controller() *core.Controller { return s.ctrl }

// SetMode moves the simulated mode selector. The controller's debouncing
// mode reader picks it up like any other raw input.
func (s *Simulator) SetMode(m core.Mode) {
	s.selector.Store(uint32(m))
}

// PressCall presses a lane's pedestrian call button.
func (s *Simulator) PressCall(lane core.Lane) {
	s.ctrl.PressCall(lane)
}

// Run drives the controller and the tick loop until ctx is cancelled. A
// frame is rendered whenever the level vector changes.
func (s *Simulator) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return s.ctrl.Run(ctx) })
	g.Go(func() error { return s.runTicks(ctx) })

	err := g.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

func (s *Simulator) runTicks(ctx context.Context) error {
	period := time.Second / time.Duration(s.cfg.TickHz) / time.Duration(s.speed)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	var last [core.PinCount]bool
	haveLast := false
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			levels := s.ctrl.Masker().Tick()
			// The heartbeat pip would repaint every frame; blank it
			// out of the change detection but keep it in the frame.
			masked := levels
			masked[core.PinPower] = false
			masked[core.PinOnBoardPower] = false
			if haveLast && masked == last {
				continue
			}
			last = masked
			haveLast = true
			if _, err := fmt.Fprintf(s.out, "%s\r\n", Frame(&levels)); err != nil {
				return err
			}
		}
	}
}

// Frame renders one level vector as a single line.
func Frame(levels *[core.PinCount]bool) string {
	lamp := func(p core.Pin, glyph byte) byte {
		if levels[p] {
			return glyph
		}
		return '.'
	}
	lane := func(red, amber, green, pedRed, pedGreen, call, beeper core.Pin) string {
		return fmt.Sprintf("%c%c%c ped %c%c call %c%c",
			lamp(red, 'R'), lamp(amber, 'A'), lamp(green, 'G'),
			lamp(pedRed, 'r'), lamp(pedGreen, 'w'),
			lamp(call, 'c'), lamp(beeper, 'b'))
	}
	return fmt.Sprintf("A[%s]  B[%s]  lockout %c power %c",
		lane(core.PinARed, core.PinAAmber, core.PinAGreen,
			core.PinAPedRed, core.PinAPedGreen, core.PinACall, core.PinABeeper),
		lane(core.PinBRed, core.PinBAmber, core.PinBGreen,
			core.PinBPedRed, core.PinBPedGreen, core.PinBCall, core.PinBBeeper),
		lamp(core.PinLockout, 'L'), lamp(core.PinPower, '*'))
}
