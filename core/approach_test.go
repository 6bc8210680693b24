package core

import (
	"context"
	"testing"
	"time"
)

// testTiming compresses the reference dwell ratios into milliseconds so a
// full cycle fits in a test run.
func testTiming() Timing {
	return Timing{
		Attention:     30 * time.Millisecond,
		Go:            80 * time.Millisecond,
		Yield:         60 * time.Millisecond,
		ClearCrossing: 40 * time.Millisecond,
		FlashOn:       20 * time.Millisecond,
		FlashOff:      20 * time.Millisecond,
		LockoutPoll:   10 * time.Millisecond,
		ModeSample:    5 * time.Millisecond,
		ModeSettle:    10 * time.Millisecond,
	}
}

// samplePhase reads the lane's head descriptors back into a phase. The
// flash phases render as a slow-cycle amber subscription, distinct from the
// plain Yield amber.
func samplePhase(m *OutputMasker, lane Lane) (Phase, bool) {
	redPin, amberPin, greenPin := lane.TrafficPins()
	red := m.Descriptor(redPin)
	amber := m.Descriptor(amberPin)
	green := m.Descriptor(greenPin)

	if amber.On && amber.SlowCycle {
		return PhaseFlashOn, true
	}
	switch {
	case red.On && amber.On:
		return PhaseAttention, true
	case green.On:
		return PhaseGo, true
	case amber.On:
		return PhaseYield, true
	case red.On:
		// Stop and ClearCrossing render identically; callers treat
		// them as one "red" state.
		return PhaseStop, true
	}
	return PhaseStop, false
}

func TestNormalTaskPermitSpansCrossing(t *testing.T) {
	m := NewOutputMasker([PinCount]bool{}, 0)
	lockout := NewLockout()
	a := NewApproach(m, LaneA, testTiming(), lockout)
	coord := NewPermitCoordinator("normal", 1, ReleaseStrict)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { defer close(done); _ = a.RunNormal(ctx, coord) }()

	// Sample through two full cycles: whenever a non-red phase shows,
	// the crossing permit must be unavailable to anyone else.
	var sawGo, sawYield bool
	deadline := time.Now().Add(600 * time.Millisecond)
	for time.Now().Before(deadline) {
		phase, _ := samplePhase(m, LaneA)
		switch phase {
		case PhaseGo:
			sawGo = true
		case PhaseYield:
			sawYield = true
		}
		if phase == PhaseGo || phase == PhaseYield || phase == PhaseAttention {
			if coord.TryAcquireFree() {
				coord.ReleaseFree()
				t.Fatalf("permit free while lane shows %v", phase)
			}
		}
		time.Sleep(2 * time.Millisecond)
	}
	if !sawGo || !sawYield {
		t.Errorf("cycle incomplete: sawGo=%v sawYield=%v", sawGo, sawYield)
	}

	cancel()
	<-done
}

func TestNormalLanesAlternate(t *testing.T) {
	m := NewOutputMasker([PinCount]bool{}, 0)
	lockout := NewLockout()
	timing := testTiming()
	a := NewApproach(m, LaneA, timing, lockout)
	b := NewApproach(m, LaneB, timing, lockout)
	coord := NewPermitCoordinator("normal", 1, ReleaseStrict)

	ctx, cancel := context.WithCancel(context.Background())
	doneA := make(chan struct{})
	doneB := make(chan struct{})
	go func() { defer close(doneA); _ = a.RunNormal(ctx, coord) }()
	go func() { defer close(doneB); _ = b.RunNormal(ctx, coord) }()

	var aWent, bWent bool
	deadline := time.Now().Add(800 * time.Millisecond)
	for time.Now().Before(deadline) {
		pa, _ := samplePhase(m, LaneA)
		pb, _ := samplePhase(m, LaneB)
		if pa == PhaseGo {
			aWent = true
		}
		if pb == PhaseGo {
			bWent = true
		}
		// Conflicting approaches must never both hold right-of-way.
		if pa != PhaseStop && pb != PhaseStop {
			t.Fatalf("both lanes active at once: %v / %v", pa, pb)
		}
		time.Sleep(2 * time.Millisecond)
	}
	if !aWent || !bWent {
		t.Errorf("fairness: laneA went=%v, laneB went=%v", aWent, bWent)
	}

	cancel()
	<-doneA
	<-doneB
}

func TestControllerBootsSafe(t *testing.T) {
	c, err := NewController(Options{Timing: testTiming()})
	if err != nil {
		t.Fatal(err)
	}
	if !c.Lockout().Engaged() {
		t.Error("controller must boot locked out")
	}
	for _, lane := range []Lane{LaneA, LaneB} {
		redPin, _, greenPin := lane.TrafficPins()
		if !c.Masker().Descriptor(redPin).On {
			t.Errorf("%v must boot showing red", lane)
		}
		if c.Masker().Descriptor(greenPin).On {
			t.Errorf("%v must not boot showing green", lane)
		}
	}
	if d := c.Masker().Descriptor(PinPower); !d.On || !d.PipCycle {
		t.Error("heartbeat pip should be armed at construction")
	}
}

func TestControllerNormalToFlashHandoff(t *testing.T) {
	c, err := NewController(Options{Timing: testTiming()})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { defer close(done); _ = c.Run(ctx) }()

	// Free-run first.
	eventually(t, 2*time.Second, "normal cycling", func() bool {
		p, _ := samplePhase(c.Masker(), LaneA)
		return p == PhaseGo
	})

	// Switch to flash: the in-flight phase completes, the supervisor
	// drains the crossing, then both lanes blink amber in lock-step via
	// the slow cycle.
	c.SelectMode(ModeFlash)
	eventually(t, 3*time.Second, "flash on lane A", func() bool {
		p, _ := samplePhase(c.Masker(), LaneA)
		return p == PhaseFlashOn
	})
	eventually(t, time.Second, "flash on lane B", func() bool {
		p, _ := samplePhase(c.Masker(), LaneB)
		return p == PhaseFlashOn
	})

	// And back: flash winds down through amber and red, then free-run
	// green returns.
	c.SelectMode(ModeNormal)
	eventually(t, 3*time.Second, "normal cycling resumes", func() bool {
		pa, _ := samplePhase(c.Masker(), LaneA)
		pb, _ := samplePhase(c.Masker(), LaneB)
		return pa == PhaseGo || pb == PhaseGo
	})

	cancel()
	<-done
}

func TestControllerPriorityHoldsGreen(t *testing.T) {
	c, err := NewController(Options{Timing: testTiming()})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { defer close(done); _ = c.Run(ctx) }()

	c.SelectMode(ModePriorityA)
	eventually(t, 3*time.Second, "priority green", func() bool {
		p, _ := samplePhase(c.Masker(), LaneA)
		return p == PhaseGo
	})

	// The green holds far beyond its free-run dwell while the mode
	// stays selected, and lane B stays barred.
	time.Sleep(4 * testTiming().Go)
	if p, _ := samplePhase(c.Masker(), LaneA); p != PhaseGo {
		t.Errorf("priority green did not hold: lane A shows %v", p)
	}
	if p, _ := samplePhase(c.Masker(), LaneB); p != PhaseStop {
		t.Errorf("lane B should be stopped during priority A, shows %v", p)
	}
	if d := c.Masker().Descriptor(PinAPedRed); !d.On {
		t.Error("pedestrians must be barred while emergency services pass")
	}

	c.SelectMode(ModeNormal)
	eventually(t, 3*time.Second, "priority wind-down", func() bool {
		p, _ := samplePhase(c.Masker(), LaneA)
		return p != PhaseGo
	})

	cancel()
	<-done
}
