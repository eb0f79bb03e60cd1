package nocturn

import (
	"fmt"

	"github.com/nocturnd/nocturnd/pkg/wire"
)

// Controller numbers understood by the device for LED feedback. The ring
// value/mode split reuses the input numbering with different semantics.
const (
	ringValueFirst = 64 // 64..71: incrementor LED ring value 0..127
	ringModeFirst  = 72 // 72..79: incrementor LED ring mode
	speedDialValue = 80
	speedDialMode  = 81
	buttonLampFirst = 112 // 112..127: button LEDs, 0 = off, != 0 = on
)

// RingMode selects how an LED ring renders its value. The mode is carried
// in the high nibble of the value byte.
type RingMode byte

const (
	RingFromMin        RingMode = 0x00 // min up to value
	RingFromMax        RingMode = 0x10 // max down to value
	RingFromCenter     RingMode = 0x20 // center to value, one direction
	RingFromCenterBoth RingMode = 0x30 // center to value, both directions
	RingSingle         RingMode = 0x40 // single diode at value
	RingSingleInverted RingMode = 0x50 // all but single diode at value
)

// Valid reports whether m is one of the recognized mode values.
func (m RingMode) Valid() bool {
	return m&0x0f == 0 && m <= RingSingleInverted
}

func (m RingMode) String() string {
	switch m {
	case RingFromMin:
		return "min"
	case RingFromMax:
		return "max"
	case RingFromCenter:
		return "center"
	case RingFromCenterBoth:
		return "center-both"
	case RingSingle:
		return "single"
	case RingSingleInverted:
		return "single-inverted"
	}
	return fmt.Sprintf("RingMode(%#x)", byte(m))
}

// ParseRingMode maps a mode name as printed by String back to its value.
func ParseRingMode(s string) (RingMode, error) {
	for _, m := range []RingMode{
		RingFromMin, RingFromMax, RingFromCenter,
		RingFromCenterBoth, RingSingle, RingSingleInverted,
	} {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown ring mode %q", s)
}

// RingValue encodes an LED ring value update for incrementor ring 1..8.
func RingValue(ring int, value byte) ([]byte, error) {
	if ring < 1 || ring > 8 {
		return nil, fmt.Errorf("ring %d out of range 1..8", ring)
	}
	msg := wire.ControlChange(0, byte(ringValueFirst+ring-1), value)
	return msg[:], nil
}

// RingModeMessage encodes an LED ring mode update for incrementor ring 1..8.
func RingModeMessage(ring int, mode RingMode) ([]byte, error) {
	if ring < 1 || ring > 8 {
		return nil, fmt.Errorf("ring %d out of range 1..8", ring)
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("invalid ring mode %#x", byte(mode))
	}
	msg := wire.ControlChange(0, byte(ringModeFirst+ring-1), byte(mode))
	return msg[:], nil
}

// SpeedDialValue encodes a speed dial LED ring value update.
func SpeedDialValue(value byte) []byte {
	msg := wire.ControlChange(0, speedDialValue, value)
	return msg[:]
}

// SpeedDialMode encodes a speed dial LED ring mode update.
func SpeedDialMode(mode RingMode) ([]byte, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("invalid ring mode %#x", byte(mode))
	}
	msg := wire.ControlChange(0, speedDialMode, byte(mode))
	return msg[:], nil
}

// ButtonLamp encodes a button LED update for button 1..16.
func ButtonLamp(button int, on bool) ([]byte, error) {
	if button < 1 || button > 16 {
		return nil, fmt.Errorf("button %d out of range 1..16", button)
	}
	var v byte
	if on {
		v = 0x7f
	}
	msg := wire.ControlChange(0, byte(buttonLampFirst+button-1), v)
	return msg[:], nil
}

// DefaultSetup returns the built-in LED setup payload as hex strings, one
// interrupt transfer each. It lights the first incrementor ring and the
// speed dial ring so a fresh connect is visible on the hardware; the
// device works without any of it.
func DefaultSetup() []string {
	return []string{
		"b04800", // incrementor 1 ring value
		"b04060", // incrementor 1 ring mode
		"b05130", // speed dial ring mode
		"b05030", // speed dial ring value
	}
}
