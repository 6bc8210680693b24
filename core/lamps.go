package core

// TrafficLamps drives one approach's red/amber/green head through the
// masker. Each named phase maps to one whole-descriptor batch, written in a
// single locked scope so the head never shows a torn state.
type TrafficLamps struct {
	masker *OutputMasker
	red    Pin
	amber  Pin
	green  Pin
}

func NewTrafficLamps(m *OutputMasker, lane Lane) TrafficLamps {
	red, amber, green := lane.TrafficPins()
	return TrafficLamps{masker: m, red: red, amber: amber, green: green}
}

// ShowPhase renders the phase onto the head. The flash phases subscribe the
// amber lamp to the slow cycle instead of toggling it, so every flashing
// head in the system changes state on the same tick.
func (t TrafficLamps) ShowPhase(p Phase) {
	switch p {
	case PhaseFlashOn, PhaseFlashOff:
		t.masker.Apply(
			PinUpdate{Pin: t.red},
			PinUpdate{Pin: t.amber, Desc: OutputDescriptor{On: true, SlowCycle: true}},
			PinUpdate{Pin: t.green},
		)
	default:
		red, amber, green := p.Outputs()
		t.masker.Apply(
			PinUpdate{Pin: t.red, Desc: OutputDescriptor{On: red}},
			PinUpdate{Pin: t.amber, Desc: OutputDescriptor{On: amber}},
			PinUpdate{Pin: t.green, Desc: OutputDescriptor{On: green}},
		)
	}
}

// PedestrianLamps drives one lane's pedestrian head, its call indicator and
// its beeper, and owns the lane's call-latching state.
type PedestrianLamps struct {
	masker *OutputMasker
	red    Pin
	green  Pin
	call   Pin
	beeper Pin
	calls  CallState
}

func NewPedestrianLamps(m *OutputMasker, lane Lane) *PedestrianLamps {
	red, green, call, beeper := lane.PedestrianPins()
	return &PedestrianLamps{masker: m, red: red, green: green, call: call, beeper: beeper}
}

// Calls exposes the lane's call state for inspection.
func (p *PedestrianLamps) Calls() *CallState { return &p.calls }

// PressCall latches a crossing request from the debounced call button. A
// latched call lights the indicator on the slow cycle until the promise is
// served; presses outside an active cycle are dropped.
func (p *PedestrianLamps) PressCall() {
	if p.calls.Press() {
		p.masker.SetPin(p.call, OutputDescriptor{On: true, SlowCycle: true})
	}
}

// BeginCycle opens the crossing window on the transition into Attention.
// The head shows don't-walk until a promise is served.
func (p *PedestrianLamps) BeginCycle() {
	p.calls.BeginCycle()
	p.showStop()
}

// EnterGo serves a promise latched before this Go began: walk signal on and
// beeper pulsing on the fast cycle. Without a promise the head stays red.
func (p *PedestrianLamps) EnterGo() {
	if p.calls.EnterGo() {
		p.masker.Apply(
			PinUpdate{Pin: p.red},
			PinUpdate{Pin: p.green, Desc: OutputDescriptor{On: true}},
			PinUpdate{Pin: p.call},
			PinUpdate{Pin: p.beeper, Desc: OutputDescriptor{On: true, FastCycle: true}},
		)
	} else {
		p.masker.SetPin(p.call, OutputDescriptor{})
		p.showStop()
	}
}

// EnterYield extends a served walk through Yield, so a pedestrian who
// started crossing during Go is not cut off; otherwise don't-walk.
func (p *PedestrianLamps) EnterYield() {
	if !p.calls.EnterYield() {
		p.showStop()
	}
}

// EnterClear closes the crossing window and returns the head to don't-walk.
func (p *PedestrianLamps) EnterClear() {
	p.calls.EnterClear()
	p.showStop()
}

// ShowStop forces don't-walk without touching the call window. The priority
// tasks use it to bar pedestrians while emergency services pass.
func (p *PedestrianLamps) ShowStop() {
	p.showStop()
}

// ShowDark blanks the head entirely for all-way flash operation.
func (p *PedestrianLamps) ShowDark() {
	p.masker.Apply(
		PinUpdate{Pin: p.red},
		PinUpdate{Pin: p.green},
		PinUpdate{Pin: p.beeper},
	)
}

func (p *PedestrianLamps) showStop() {
	p.masker.Apply(
		PinUpdate{Pin: p.red, Desc: OutputDescriptor{On: true}},
		PinUpdate{Pin: p.green, Desc: OutputDescriptor{}},
		PinUpdate{Pin: p.beeper, Desc: OutputDescriptor{}},
	)
}
