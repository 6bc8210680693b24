package core

// Pin identifies one logical output lamp. The masker and lamp groups work
// exclusively in this logical space; the mapping to hardware pins (or port
// expander bits) is target-specific configuration.
type Pin uint8

const (
	// Lane A: traffic head, pedestrian head, call indicator and beeper.
	PinARed Pin = iota
	PinAAmber
	PinAGreen
	PinAPedRed
	PinAPedGreen
	PinACall
	PinABeeper

	// Lane B. The reference board has no beeper for lane B; the pin exists
	// to keep the two lanes orthogonal and is mapped to an unused output.
	PinBRed
	PinBAmber
	PinBGreen
	PinBPedRed
	PinBPedGreen
	PinBCall
	PinBBeeper

	// Common indicators.
	PinOnBoardPower
	PinPower
	PinLockout

	PinCount
)

var pinNames = [PinCount]string{
	PinARed:      "a_red",
	PinAAmber:    "a_amber",
	PinAGreen:    "a_green",
	PinAPedRed:   "a_ped_red",
	PinAPedGreen: "a_ped_green",
	PinACall:     "a_call",
	PinABeeper:   "a_beeper",

	PinBRed:      "b_red",
	PinBAmber:    "b_amber",
	PinBGreen:    "b_green",
	PinBPedRed:   "b_ped_red",
	PinBPedGreen: "b_ped_green",
	PinBCall:     "b_call",
	PinBBeeper:   "b_beeper",

	PinOnBoardPower: "onboard_power",
	PinPower:        "power",
	PinLockout:      "lockout",
}

func (p Pin) String() string {
	if p < PinCount {
		return pinNames[p]
	}
	return "pin?"
}

// PinByName resolves a configuration pin name to its Pin value.
func PinByName(name string) (Pin, bool) {
	for p, n := range pinNames {
		if n == name {
			return Pin(p), true
		}
	}
	return PinCount, false
}

// Lane identifies one traffic approach.
type Lane uint8

const (
	LaneA Lane = iota
	LaneB
	LaneCount
)

func (l Lane) String() string {
	switch l {
	case LaneA:
		return "lane A"
	case LaneB:
		return "lane B"
	}
	return "lane?"
}

// TrafficPins returns the lane's red/amber/green head pins.
func (l Lane) TrafficPins() (red, amber, green Pin) {
	if l == LaneA {
		return PinARed, PinAAmber, PinAGreen
	}
	return PinBRed, PinBAmber, PinBGreen
}

// PedestrianPins returns the lane's pedestrian head, call indicator and
// beeper pins.
func (l Lane) PedestrianPins() (red, green, call, beeper Pin) {
	if l == LaneA {
		return PinAPedRed, PinAPedGreen, PinACall, PinABeeper
	}
	return PinBPedRed, PinBPedGreen, PinBCall, PinBBeeper
}
