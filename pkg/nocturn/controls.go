package nocturn

import "fmt"

// Controller numbers sent by the device. This is not real MIDI, so some of
// them overlap with MIDI mode messages (124..127).
//
// Incrementors send relative values: 1 (2, 3, ... for fast turns) to
// increase, 127 (126, 125, ...) to decrease. Presses and buttons send 0
// for up and 127 for down.
const (
	IncrementorFirst = 64 // 64..71: incrementors 1..8
	IncrementorLast  = 71
	Slider           = 72 // 7-bit primary axis
	SliderAux        = 73 // secondary signal, arbitrarily 0 or 64 while moving
	SpeedDial        = 74 // speed dial incrementor
	SpeedDialPress   = 81
	TouchFirst       = 96 // 96..103: incrementor push/touch sensors
	TouchLast        = 103
	ButtonFirst      = 112 // 112..127: buttons 1..8 upper row, 1..8 lower row
	ButtonLast       = 127
)

// IsTouch reports whether cc is an incrementor push/touch sensor. These
// are very jittery and get suppressed from diagnostic logging; they are
// still forwarded as events.
func IsTouch(cc byte) bool {
	return cc >= TouchFirst && cc <= TouchLast
}

// ControlName returns a human readable name for a controller number, for
// diagnostics only.
func ControlName(cc byte) string {
	switch {
	case cc >= IncrementorFirst && cc <= IncrementorLast:
		return fmt.Sprintf("incrementor %d", cc-IncrementorFirst+1)
	case cc == Slider:
		return "slider"
	case cc == SliderAux:
		return "slider aux"
	case cc == SpeedDial:
		return "speed dial"
	case cc == SpeedDialPress:
		return "speed dial press"
	case IsTouch(cc):
		return fmt.Sprintf("incrementor %d touch", cc-TouchFirst+1)
	case cc >= ButtonFirst && cc <= ButtonLast:
		return fmt.Sprintf("button %d", cc-ButtonFirst+1)
	}
	return fmt.Sprintf("cc %d", cc)
}
