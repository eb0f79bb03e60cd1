package bridge

import (
	"github.com/golang/glog"

	"github.com/nocturnd/nocturnd/pkg/nocturn"
	"github.com/nocturnd/nocturnd/pkg/wire"
)

// Dispatcher routes decoded device messages to the MIDI port and inbound
// MIDI control changes back to the device as LED writes. Delivery failures
// in either direction are logged and swallowed; they must never stall
// decoding of subsequent bytes.
type Dispatcher struct {
	Port MIDIPort
	// Channel is the outbound MIDI channel (wire encoding, 0..15).
	Channel byte
	// Device is the current session's endpoint for LED feedback. It is
	// replaced by the supervisor on reconnect and nil while disconnected.
	Device Endpoint
}

// HandleMessage forwards one decoded device message. Only control change
// messages are acted on; anything else the device might emit is ignored.
func (d *Dispatcher) HandleMessage(m wire.Message) {
	if m.Status != wire.StatusControlChange {
		glog.V(2).Infof("Ignoring message with status %#x", m.Status)
		return
	}
	// Touch sensors are too jittery to be worth logging, but they are
	// forwarded like everything else.
	if !nocturn.IsTouch(m.Data1) {
		glog.V(1).Infof("%s (cc %d, chan %d): %d", nocturn.ControlName(m.Data1), m.Data1, m.Channel, m.Data2)
	}
	if err := d.Port.SendControlChange(d.Channel, m.Data1, m.Data2); err != nil {
		glog.Errorf("Could not send control change %d=%d: %v", m.Data1, m.Data2, err)
	}
}

// HandleControlChange forwards one inbound MIDI control change to the
// device, driving LED rings and button lamps.
func (d *Dispatcher) HandleControlChange(channel, controller, value byte) {
	dev := d.Device
	if dev == nil {
		glog.V(1).Infof("Dropping cc %d=%d: device not connected", controller, value)
		return
	}
	msg := wire.ControlChange(0, controller, value)
	if _, err := dev.SendRaw(msg[:]); err != nil {
		glog.Errorf("Could not write cc %d=%d to device: %v", controller, value, err)
	}
}
