// Package nocturn describes the Novation Nocturn controller: its USB
// identity, its controller number map and the LED feedback messages it
// understands.
package nocturn

import "github.com/google/gousb"

// USB identity. Fixed by the hardware, not configurable.
const (
	VID = gousb.ID(0x1235)
	PID = gousb.ID(0x000a)
)

// Description identifies the supported device model.
type Description struct {
	VID, PID gousb.ID
	Name     string
}

func (d Description) String() string {
	return d.Name
}

// Describe returns the description of the Nocturn.
func Describe() Description {
	return Description{VID: VID, PID: PID, Name: "Novation Nocturn"}
}
