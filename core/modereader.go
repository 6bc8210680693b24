package core

import "context"

// ModeInput reads the raw, possibly unsettled mode-select input. Target
// code maps its 3-bit selector (or button state) through ModeFromSelect.
type ModeInput func() Mode

// ModeReader debounces the mode selector and signals only settled, changed
// values. Think of a rotary switch: rotating it makes brief contact on
// every intermediate position, and humans change their minds mid-turn. If
// the supervisor responded to each of those events, one user action could
// march the system through a handful of mode handoffs. The reader samples
// until the input differs from the current mode, then requires it to hold
// still for a full settle window before anything is signaled.
type ModeReader struct {
	input   ModeInput
	signal  *ModeSignal
	current Mode
	timing  Timing
}

func NewModeReader(initial Mode, input ModeInput, signal *ModeSignal, timing Timing) *ModeReader {
	return &ModeReader{
		input:   input,
		signal:  signal,
		current: initial,
		timing:  timing,
	}
}

// Run samples the selector until ctx is cancelled.
func (r *ModeReader) Run(ctx context.Context) error {
	for {
		Tracef("mode rdr", "awaiting user action")
		next := r.current
		for next == r.current {
			if err := dwell(ctx, r.timing.ModeSample); err != nil {
				return err
			}
			next = r.input()
		}

		Tracef("mode rdr", "awaiting debounce")
		for {
			if err := dwell(ctx, r.timing.ModeSettle); err != nil {
				return err
			}
			settled := r.input()
			if settled == next {
				break
			}
			next = settled
		}

		// Suppress signalling when the settled value is what we
		// already run. This reduces glitching on quick flip-backs.
		if next != r.current {
			r.current = next
			Tracef("mode rdr", "signalling %s", next)
			r.signal.Signal(next)
		}
	}
}
