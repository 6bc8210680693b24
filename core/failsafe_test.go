package core

import "testing"

func TestFatalRunsFailsafeThenHalts(t *testing.T) {
	ran := false
	SetFailsafeHandler(func() { ran = true })

	defer func() {
		if recover() == nil {
			t.Fatal("Fatalf must halt")
		}
		if !ran {
			t.Error("failsafe handler must run before the halt")
		}
	}()
	Fatalf("test", "induced violation")
}

func TestFailClosedPattern(t *testing.T) {
	m := NewOutputMasker([PinCount]bool{}, 0)
	// Start from the worst case: everything green and noisy.
	for p := Pin(0); p < PinCount; p++ {
		m.SetPin(p, OutputDescriptor{On: true, FastCycle: true})
	}

	FailClosed(m)

	for _, p := range []Pin{PinARed, PinBRed, PinAPedRed, PinBPedRed} {
		d := m.Descriptor(p)
		if !d.On || d.SlowCycle || d.FastCycle || d.PipCycle {
			t.Errorf("%v must be solid red after fail-closed, got %+v", p, d)
		}
	}
	for _, p := range []Pin{PinAGreen, PinBGreen, PinAAmber, PinBAmber, PinAPedGreen, PinBPedGreen, PinABeeper, PinBBeeper} {
		if m.Descriptor(p).On {
			t.Errorf("%v must be dark after fail-closed", p)
		}
	}
	if !m.Descriptor(PinLockout).On {
		t.Error("lockout indicator should be solid on after fail-closed")
	}
}
